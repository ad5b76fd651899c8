package pricing

import (
	"pty_logistics/internal/models"
)

// Breakdown itemizes one quoted price. Components always sum to Total.
// Amounts are in the route's currency; no rounding is applied here.
type Breakdown struct {
	BasePrice       float64 `json:"basePrice"`
	WaitingTime     float64 `json:"waitingTime"`
	ExtraPassengers float64 `json:"extraPassengers"`
	Total           float64 `json:"total"`
}

// CalculatePrice returns the total price for the requested route type and
// passenger count, or ok=false when no pricing entry or no band matches.
// A miss is a miss — never zero, never an error.
func CalculatePrice(route models.AgencyRoute, routeType string, passengerCount int, waitingTimeHours float64) (float64, bool) {
	b, ok := PriceBreakdown(route, routeType, passengerCount, waitingTimeHours)
	if !ok {
		return 0, false
	}
	return b.Total, true
}

// PriceBreakdown resolves the pricing entry for routeType, matches the first
// band containing passengerCount and prices against it.
func PriceBreakdown(route models.AgencyRoute, routeType string, passengerCount int, waitingTimeHours float64) (Breakdown, bool) {
	entry, ok := matchPricing(route.Pricing, routeType)
	if !ok {
		return Breakdown{}, false
	}
	band, ok := matchRange(entry.Ranges, passengerCount)
	if !ok {
		return Breakdown{}, false
	}
	return RangeBreakdown(route, band, passengerCount, waitingTimeHours), true
}

// RangeBreakdown prices a passenger count against a specific band. When the
// band came from matchRange the count cannot exceed band.MaxPassengers, so no
// extra-passenger surcharge applies; callers holding a band the count has
// already overflowed get one extra-passenger unit per seat past the ceiling.
func RangeBreakdown(route models.AgencyRoute, band models.PassengerPriceRange, passengerCount int, waitingTimeHours float64) Breakdown {
	b := Breakdown{BasePrice: band.Price}
	if waitingTimeHours > 0 && route.WaitingTimeRate > 0 {
		b.WaitingTime = waitingTimeHours * route.WaitingTimeRate
	}
	if passengerCount > band.MaxPassengers {
		b.ExtraPassengers = float64(passengerCount-band.MaxPassengers) * route.ExtraPassengerRate
	}
	b.Total = b.BasePrice + b.WaitingTime + b.ExtraPassengers
	return b
}

func matchPricing(pricing []models.RoutePricing, routeType string) (models.RoutePricing, bool) {
	for _, p := range pricing {
		if p.RouteType == routeType {
			return p, true
		}
	}
	return models.RoutePricing{}, false
}

// matchRange returns the first band whose closed interval contains count.
// Gaps between bands yield a miss; overlapping bands resolve in slice order.
func matchRange(ranges []models.PassengerPriceRange, count int) (models.PassengerPriceRange, bool) {
	for _, r := range ranges {
		if count >= r.MinPassengers && count <= r.MaxPassengers {
			return r, true
		}
	}
	return models.PassengerPriceRange{}, false
}
