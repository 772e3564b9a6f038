package memory

import (
	"context"

	"pvt_hostel/internal/domain"
)

// Catalog serves a fixed room list. The seed below mirrors the hostel's
// current inventory; a future catalog source only has to return the same
// Room shape.
type Catalog struct {
	rooms []domain.Room
	byID  map[string]domain.Room
}

func NewCatalog(rooms []domain.Room) *Catalog {
	byID := make(map[string]domain.Room, len(rooms))
	for _, r := range rooms {
		byID[r.ID] = r
	}
	return &Catalog{rooms: rooms, byID: byID}
}

func (c *Catalog) Rooms(ctx context.Context) ([]domain.Room, error) {
	return c.rooms, nil
}

func (c *Catalog) Room(ctx context.Context, id string) (domain.Room, error) {
	r, ok := c.byID[id]
	if !ok {
		return domain.Room{}, domain.ErrRoomNotFound
	}
	return r, nil
}

// SeedRooms is the hostel's static inventory.
func SeedRooms() []domain.Room {
	return []domain.Room{
		{
			ID:   "dorm-mixed-4",
			Name: "Mixed Dormitory (4 beds)",
			Type: domain.RoomType{
				ID:          "mixed-dorm",
				Name:        "Mixed Dormitory",
				Category:    domain.CategoryDorm,
				Gender:      "mixed",
				Description: "Shared dormitory room with mixed gender",
				Features:    []string{"Shared bathroom", "Lockers", "Common area access", "Free WiFi"},
			},
			Capacity:         4,
			BasePrice:        35,
			Amenities:        []string{"AC", "Lockers", "USB Charging", "Reading Lights", "Privacy Curtains"},
			Description:      "Comfortable mixed dormitory with 4 bunk beds, privacy curtains, and personal lockers.",
			BedConfiguration: "4 bunk beds",
			BathType:         "shared",
			Area:             25,
			IsAccessible:     false,
		},
		{
			ID:   "dorm-female-6",
			Name: "Female Dormitory (6 beds)",
			Type: domain.RoomType{
				ID:          "female-dorm",
				Name:        "Female Only Dormitory",
				Category:    domain.CategoryDorm,
				Gender:      "female",
				Description: "Female-only dormitory room",
				Features:    []string{"Shared bathroom", "Lockers", "Safe space", "Free WiFi"},
			},
			Capacity:         6,
			BasePrice:        32,
			Amenities:        []string{"AC", "Lockers", "USB Charging", "Reading Lights", "Privacy Curtains", "Hair Dryer"},
			Description:      "Safe and secure female-only dormitory with 6 beds and dedicated bathroom facilities.",
			BedConfiguration: "6 bunk beds",
			BathType:         "shared",
			Area:             30,
			IsAccessible:     false,
		},
		{
			ID:   "dorm-male-8",
			Name: "Male Dormitory (8 beds)",
			Type: domain.RoomType{
				ID:          "male-dorm",
				Name:        "Male Only Dormitory",
				Category:    domain.CategoryDorm,
				Gender:      "male",
				Description: "Male-only dormitory room",
				Features:    []string{"Shared bathroom", "Lockers", "Gaming area", "Free WiFi"},
			},
			Capacity:         8,
			BasePrice:        28,
			Amenities:        []string{"AC", "Lockers", "USB Charging", "Reading Lights", "Privacy Curtains"},
			Description:      "Spacious male-only dormitory with 8 beds and easy access to common areas.",
			BedConfiguration: "8 bunk beds",
			BathType:         "shared",
			Area:             40,
			IsAccessible:     false,
		},
		{
			ID:   "private-double",
			Name: "Private Double Room",
			Type: domain.RoomType{
				ID:          "private-double",
				Name:        "Private Double Room",
				Category:    domain.CategoryPrivate,
				Description: "Private room for two people",
				Features:    []string{"Private bathroom", "Double bed", "TV", "Free WiFi"},
			},
			Capacity:         2,
			BasePrice:        85,
			Amenities:        []string{"AC", "Private Bathroom", "TV", "Mini Fridge", "Work Desk", "Wardrobe"},
			Description:      "Comfortable private room with double bed and ensuite bathroom.",
			BedConfiguration: "1 double bed",
			BathType:         "private",
			Area:             15,
			IsAccessible:     true,
		},
		{
			ID:   "private-twin",
			Name: "Private Twin Room",
			Type: domain.RoomType{
				ID:          "private-twin",
				Name:        "Private Twin Room",
				Category:    domain.CategoryPrivate,
				Description: "Private room with two single beds",
				Features:    []string{"Private bathroom", "Twin beds", "TV", "Free WiFi"},
			},
			Capacity:         2,
			BasePrice:        80,
			Amenities:        []string{"AC", "Private Bathroom", "TV", "Mini Fridge", "Work Desk", "Wardrobe"},
			Description:      "Private room with two single beds, perfect for friends traveling together.",
			BedConfiguration: "2 single beds",
			BathType:         "private",
			Area:             16,
			IsAccessible:     true,
		},
		{
			ID:   "suite-deluxe",
			Name: "Deluxe Suite",
			Type: domain.RoomType{
				ID:          "deluxe-suite",
				Name:        "Deluxe Suite",
				Category:    domain.CategorySuite,
				Description: "Luxury suite with separate living area",
				Features:    []string{"Private bathroom", "Living area", "Kitchenette", "Premium amenities"},
			},
			Capacity:         3,
			BasePrice:        150,
			Amenities:        []string{"AC", "Private Bathroom", "TV", "Kitchenette", "Living Area", "Premium Bedding", "Balcony"},
			Description:      "Luxurious suite with separate living area, kitchenette, and premium amenities.",
			BedConfiguration: "1 queen bed + 1 sofa bed",
			BathType:         "private",
			Area:             35,
			IsAccessible:     true,
		},
	}
}
