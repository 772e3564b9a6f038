package domain

// RoomCategory groups rooms for policy and restriction purposes.
type RoomCategory string

const (
	CategoryDorm    RoomCategory = "dorm"
	CategoryPrivate RoomCategory = "private"
	CategorySuite   RoomCategory = "suite"
)

type RoomType struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Category    RoomCategory `json:"category"`
	Gender      string       `json:"gender,omitempty"` // male|female|mixed, dorms only
	Description string       `json:"description"`
	Features    []string     `json:"features"`
}

// Room is a static catalog entry. Seeded at startup, never mutated.
type Room struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Type             RoomType `json:"type"`
	Capacity         int      `json:"capacity"`
	BasePrice        float64  `json:"basePrice"` // nightly, currency units
	Amenities        []string `json:"amenities"`
	Description      string   `json:"description"`
	BedConfiguration string   `json:"bedConfiguration"`
	BathType         string   `json:"bathType"` // shared|private
	Area             float64  `json:"area,omitempty"`
	IsAccessible     bool     `json:"isAccessible"`
}
