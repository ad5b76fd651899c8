package models

import (
	"gorm.io/gorm"
)

// Route types the agency sells. Pricing entries are validated against this
// set once at the catalog boundary, not per call site.
const (
	RouteTypeSingle        = "single"
	RouteTypeRoundtrip     = "roundtrip"
	RouteTypeInternal      = "internal"
	RouteTypeBagsClaim     = "bags_claim"
	RouteTypeDocumentation = "documentation"
	RouteTypeNoShow        = "no_show"
)

var agencyRouteTypes = map[string]bool{
	RouteTypeSingle:        true,
	RouteTypeRoundtrip:     true,
	RouteTypeInternal:      true,
	RouteTypeBagsClaim:     true,
	RouteTypeDocumentation: true,
	RouteTypeNoShow:        true,
}

// IsValidRouteType reports whether t names a known agency route type.
// The check is case-sensitive.
func IsValidRouteType(t string) bool {
	return agencyRouteTypes[t]
}

// AgencyRoute is a shuttle lane between two named locations with one pricing
// table per route type. Pickup and dropoff are stored uppercased and the Name
// is derived as "{pickup} / {dropoff}".
type AgencyRoute struct {
	gorm.Model

	Name               string  `json:"name"`
	PickupLocation     string  `json:"pickup_location"`
	DropoffLocation    string  `json:"dropoff_location"`
	WaitingTimeRate    float64 `json:"waiting_time_rate"`
	ExtraPassengerRate float64 `json:"extra_passenger_rate"`
	Currency           string  `gorm:"default:USD" json:"currency"`
	IsActive           bool    `gorm:"default:true" json:"is_active"`

	Pricing []RoutePricing `gorm:"foreignKey:AgencyRouteID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"pricing,omitempty"`
}

// RoutePricing holds the passenger bands for one route type of one agency route.
type RoutePricing struct {
	gorm.Model

	AgencyRouteID uint   `json:"agency_route_id"`
	RouteType     string `json:"route_type"`

	Ranges []PassengerPriceRange `gorm:"foreignKey:RoutePricingID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"passenger_ranges"`
}

// PassengerPriceRange maps a closed passenger-count interval to a fixed price.
// Bands are matched in slice order; nothing here forbids gaps or overlaps.
type PassengerPriceRange struct {
	gorm.Model

	RoutePricingID uint    `json:"route_pricing_id"`
	MinPassengers  int     `json:"min_passengers"`
	MaxPassengers  int     `json:"max_passengers"`
	Price          float64 `json:"price"`
	Description    string  `json:"description"`
}
