package app

import (
	"time"

	"pvt_hostel/internal/domain"
)

const checkInInstructions = `Welcome to PVT Hostel Montreal!

CHECK-IN INFORMATION:
- Check-in time: 3:00 PM
- Check-out time: 11:00 AM
- Location: 123 Rue Saint-Paul, Montreal, QC H2Y 1Z5

ARRIVAL INSTRUCTIONS:
1. Proceed to the front desk with your booking confirmation
2. Present a valid photo ID and credit card
3. Your room key will be provided after verification

WHAT TO BRING:
- Valid government-issued photo ID
- Credit card for incidentals
- Booking confirmation (this email)

CONTACT:
- Front Desk: +1 514-555-0100
- Email: info@pvthostel.com

We look forward to welcoming you!`

const houseRules = "Quiet hours: 10PM-8AM. No smoking. No outside guests after 11PM."

// newWelcomePackage bundles the check-in artifacts: wifi, a static local
// guide, emergency contacts, and the house rules.
func newWelcomePackage(deliveredAt time.Time) domain.WelcomePackage {
	return domain.WelcomePackage{
		WifiCredentials: domain.WifiCredentials{
			NetworkName:  "PVTHostel_Guest",
			Password:     "Welcome2024!",
			Instructions: "Connect to the network and enter the password when prompted",
		},
		LocalGuide: domain.LocalGuide{
			Attractions: []domain.LocalAttraction{
				{
					Name:        "Old Montreal",
					Description: "Historic district with cobblestone streets",
					Address:     "Old Montreal, QC",
					Category:    "Historic",
					DistanceKm:  2.5,
					WalkingTime: 30,
				},
			},
			Restaurants: []domain.LocalRestaurant{
				{
					Name:        "Schwartz's Deli",
					Cuisine:     "Jewish Deli",
					PriceRange:  "$$",
					Address:     "3895 Boulevard Saint-Laurent",
					Specialties: []string{"Smoked meat sandwich"},
					DistanceKm:  1.2,
				},
			},
			Transportation: []domain.TransportationInfo{
				{
					Type:           "metro",
					Description:    "Montreal Metro - Orange and Green lines nearby",
					NearestStation: "Place-d'Armes",
					Cost:           "$3.50 per ride",
					ScheduleInfo:   "5:30AM - 1:00AM daily",
				},
			},
		},
		EmergencyContacts: []domain.EmergencyContactInfo{
			{
				Type:         "hostel",
				Name:         "PVT Hostel Front Desk",
				Phone:        "514-555-0100",
				Email:        "frontdesk@pvthostel.com",
				Availability: "24/7",
			},
			{
				Type:         "medical",
				Name:         "Montreal General Hospital",
				Phone:        "514-934-1934",
				Availability: "24/7",
			},
		},
		HouseRules:  houseRules,
		DeliveredAt: deliveredAt,
	}
}
