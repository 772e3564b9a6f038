package domain

import "time"

type BookingStatus string

const (
	StatusPending       BookingStatus = "pending"
	StatusConfirmed     BookingStatus = "confirmed"
	StatusCheckedIn     BookingStatus = "checked-in"
	StatusCheckedOut    BookingStatus = "checked-out"
	StatusCancelled     BookingStatus = "cancelled"
	StatusPaymentFailed BookingStatus = "payment-failed"
	StatusNoShow        BookingStatus = "no-show"
	StatusModified      BookingStatus = "modified"
)

// transitions is the booking state machine. A status absent from the map is terminal.
var transitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled, StatusPaymentFailed, StatusModified},
	StatusConfirmed: {StatusCheckedIn, StatusCancelled, StatusNoShow, StatusModified},
	StatusModified:  {StatusConfirmed, StatusCheckedIn, StatusCancelled, StatusNoShow, StatusModified},
	StatusCheckedIn: {StatusCheckedOut},
}

// CanTransitionTo reports whether the state machine permits moving from s to next.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are possible from s.
func (s BookingStatus) Terminal() bool { return len(transitions[s]) == 0 }

type PaymentMethod string

const (
	MethodCreditCard   PaymentMethod = "credit-card"
	MethodDebitCard    PaymentMethod = "debit-card"
	MethodPayPal       PaymentMethod = "paypal"
	MethodBankTransfer PaymentMethod = "bank-transfer"
	MethodCash         PaymentMethod = "cash"
)

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentCompleted  PaymentStatus = "completed"
	PaymentFailed     PaymentStatus = "failed"
	PaymentRefunded   PaymentStatus = "refunded"
)

// PaymentRecord is append-only; refunds are new negative-amount records.
type PaymentRecord struct {
	ID            string        `json:"id"`
	Amount        float64       `json:"amount"`
	Currency      string        `json:"currency"`
	Method        PaymentMethod `json:"method"`
	Status        PaymentStatus `json:"status"`
	TransactionID string        `json:"transactionId,omitempty"`
	ProcessedAt   *time.Time    `json:"processedAt,omitempty"`
	Notes         string        `json:"notes,omitempty"`
}

type EmergencyContact struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone"`
	Email        string `json:"email,omitempty"`
}

type GuestInfo struct {
	ID               string            `json:"id,omitempty"`
	FirstName        string            `json:"firstName"`
	LastName         string            `json:"lastName"`
	Email            string            `json:"email"`
	Phone            string            `json:"phone"`
	DateOfBirth      string            `json:"dateOfBirth,omitempty"`
	Nationality      string            `json:"nationality"`
	PassportNumber   string            `json:"passportNumber,omitempty"`
	SpecialRequests  string            `json:"specialRequests,omitempty"`
	EmergencyContact *EmergencyContact `json:"emergencyContact,omitempty"`
}

type BookingAddOn struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Category    string  `json:"category"` // service|amenity|food|transport
	Description string  `json:"description,omitempty"`
}

type BookingRequest struct {
	CheckInDate     string         `json:"checkInDate"`
	CheckOutDate    string         `json:"checkOutDate"`
	RoomID          string         `json:"roomId"`
	Guests          []GuestInfo    `json:"guests"`
	PrimaryGuest    string         `json:"primaryGuest,omitempty"` // guest id
	SpecialRequests string         `json:"specialRequests,omitempty"`
	AddOns          []BookingAddOn `json:"addOns,omitempty"`
	PromoCode       string         `json:"promoCode,omitempty"`
}

// BookingPatch carries the fields a guest may change on an existing booking.
// Only date changes are modeled; nil means "leave as is".
type BookingPatch struct {
	CheckInDate  *string `json:"checkInDate,omitempty"`
	CheckOutDate *string `json:"checkOutDate,omitempty"`
}

type RoomAssignment struct {
	GuestID      string `json:"guestId"`
	RoomID       string `json:"roomId"`
	BedNumber    string `json:"bedNumber,omitempty"`
	CheckInDate  string `json:"checkInDate"`
	CheckOutDate string `json:"checkOutDate"`
	KeyCode      string `json:"keyCode,omitempty"`
}

type BookingConfirmation struct {
	ConfirmedAt         time.Time          `json:"confirmedAt"`
	TotalAmount         float64            `json:"totalAmount"`
	Breakdown           PriceBreakdown     `json:"priceBreakdown"`
	RoomAssignments     []RoomAssignment   `json:"roomAssignments"`
	CheckInInstructions string             `json:"checkInInstructions"`
	CancellationPolicy  CancellationPolicy `json:"cancellationPolicy"`
	ConfirmationNumber  string             `json:"confirmationNumber"`
}

type ModificationType string

const (
	ModDateChange   ModificationType = "date-change"
	ModCancellation ModificationType = "cancellation"
)

type ModificationChange struct {
	Field    string `json:"field"`
	OldValue string `json:"oldValue"`
	NewValue string `json:"newValue"`
	Impact   string `json:"impact"`
}

// BookingModification is an append-only audit entry.
type BookingModification struct {
	ID              string               `json:"id"`
	Type            ModificationType     `json:"type"`
	RequestedAt     time.Time            `json:"requestedAt"`
	ProcessedAt     *time.Time           `json:"processedAt,omitempty"`
	Status          string               `json:"status"` // pending|approved|rejected
	Changes         []ModificationChange `json:"changes"`
	AdditionalCosts float64              `json:"additionalCosts,omitempty"`
	RefundAmount    float64              `json:"refundAmount,omitempty"`
	Notes           string               `json:"notes,omitempty"`
}

type RoomKey struct {
	Type        string   `json:"type"` // physical|digital
	KeyID       string   `json:"keyId"`
	AccessCode  string   `json:"accessCode,omitempty"`
	ValidFrom   string   `json:"validFrom"`
	ValidTo     string   `json:"validTo"`
	Permissions []string `json:"permissions"`
}

type WifiCredentials struct {
	NetworkName  string `json:"networkName"`
	Password     string `json:"password"`
	Instructions string `json:"instructions,omitempty"`
}

type LocalAttraction struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Address     string  `json:"address"`
	Category    string  `json:"category"`
	DistanceKm  float64 `json:"distanceFromHostel"`
	WalkingTime int     `json:"walkingTime"`
}

type LocalRestaurant struct {
	Name        string   `json:"name"`
	Cuisine     string   `json:"cuisine"`
	PriceRange  string   `json:"priceRange"`
	Address     string   `json:"address"`
	Specialties []string `json:"specialties"`
	DistanceKm  float64  `json:"distanceFromHostel"`
}

type TransportationInfo struct {
	Type           string `json:"type"`
	Description    string `json:"description"`
	NearestStation string `json:"nearestStation,omitempty"`
	Cost           string `json:"cost,omitempty"`
	ScheduleInfo   string `json:"scheduleInfo,omitempty"`
}

type EmergencyContactInfo struct {
	Type         string `json:"type"` // hostel|medical|police|embassy
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Email        string `json:"email,omitempty"`
	Availability string `json:"availability"`
}

type LocalGuide struct {
	Attractions    []LocalAttraction    `json:"attractions"`
	Restaurants    []LocalRestaurant    `json:"restaurants"`
	Transportation []TransportationInfo `json:"transportation"`
}

type WelcomePackage struct {
	WifiCredentials   WifiCredentials        `json:"wifiCredentials"`
	LocalGuide        LocalGuide             `json:"localGuide"`
	EmergencyContacts []EmergencyContactInfo `json:"emergencyContacts"`
	HouseRules        string                 `json:"houseRules"`
	DeliveredAt       time.Time              `json:"deliveredAt"`
}

type CheckInRecord struct {
	ProcessedAt       time.Time       `json:"processedAt"`
	ProcessedBy       string          `json:"processedBy"`
	Method            string          `json:"method"` // automatic|front-desk|self-service
	RoomKeys          []RoomKey       `json:"roomKeys"`
	DocumentsVerified bool            `json:"documentsVerified"`
	DepositsCollected []PaymentRecord `json:"depositsCollected"`
	WelcomePackage    WelcomePackage  `json:"welcomePackage"`
}

type RoomDamage struct {
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Severity    string  `json:"severity"` // minor|moderate|major
	RepairCost  float64 `json:"repairCost,omitempty"`
}

type RoomInspectionResult struct {
	InspectedAt         time.Time    `json:"inspectedAt"`
	InspectedBy         string       `json:"inspectedBy"`
	Condition           string       `json:"condition"` // excellent|good|fair|poor
	Damages             []RoomDamage `json:"damages"`
	CleaningRequired    bool         `json:"cleaningRequired"`
	MaintenanceRequired bool         `json:"maintenanceRequired"`
}

type GuestFeedback struct {
	OverallRating  int       `json:"overallRating"`
	Cleanliness    int       `json:"cleanliness"`
	Staff          int       `json:"staff"`
	Location       int       `json:"location"`
	Value          int       `json:"value"`
	Comments       string    `json:"comments,omitempty"`
	WouldRecommend bool      `json:"wouldRecommend"`
	SubmittedAt    time.Time `json:"submittedAt"`
}

type CheckOutRecord struct {
	ProcessedAt      time.Time            `json:"processedAt"`
	ProcessedBy      string               `json:"processedBy"`
	Method           string               `json:"method"` // automatic|front-desk|express
	RoomInspection   RoomInspectionResult `json:"roomInspection"`
	FinalCharges     []PaymentRecord      `json:"finalCharges"`
	DepositsReturned []PaymentRecord      `json:"depositsReturned"`
	Feedback         *GuestFeedback       `json:"feedbackProvided,omitempty"`
}

// Booking is the aggregate root, owned by the booking service.
type Booking struct {
	ID            string                `json:"id"`
	Reference     string                `json:"reference"`
	Status        BookingStatus         `json:"status"`
	Request       BookingRequest        `json:"request"`
	Confirmation  *BookingConfirmation  `json:"confirmation,omitempty"`
	Payments      []PaymentRecord       `json:"payments"`
	Modifications []BookingModification `json:"modifications"`
	CheckIn       *CheckInRecord        `json:"checkin,omitempty"`
	CheckOut      *CheckOutRecord       `json:"checkout,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

// CompletedPaid sums completed positive payments (charges actually settled).
func (b *Booking) CompletedPaid() float64 {
	var sum float64
	for _, p := range b.Payments {
		if p.Status == PaymentCompleted && p.Amount > 0 {
			sum += p.Amount
		}
	}
	return sum
}
