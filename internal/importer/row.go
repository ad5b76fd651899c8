package importer

import (
	"encoding/json"
	"strconv"
	"strings"

	"pty_logistics/internal/models"
)

// RawRoute is one spreadsheet row as the controllers hand it over. Origin/From
// and Destination/To are column-name aliases from the different sheet layouts;
// whichever is populated wins. Price may arrive as a number or a string.
type RawRoute struct {
	Origin        string      `json:"origin"`
	From          string      `json:"from"`
	Destination   string      `json:"destination"`
	To            string      `json:"to"`
	ContainerType string      `json:"container_type"`
	RouteType     string      `json:"route_type"`
	Status        string      `json:"status"`
	Client        string      `json:"client"`
	RouteArea     string      `json:"route_area"`
	ContainerSize string      `json:"container_size"`
	Price         interface{} `json:"price"`
}

// NormalizedRoute is a RawRoute after trimming, case-folding and price
// coercion. Name is always Origin + "/" + Destination.
type NormalizedRoute struct {
	Name          string
	Origin        string
	Destination   string
	ContainerType string
	RouteType     string
	Status        string
	Client        string
	RouteArea     string
	ContainerSize string
	Price         float64
}

// IdentityKey is the exact-match lookup filter for a route. It carries every
// identity field in full, not a hash. Price is deliberately absent: two rows
// that differ only in price are the same logical route.
type IdentityKey struct {
	Name          string
	Origin        string
	Destination   string
	ContainerType string
	RouteType     string
	Status        string
	Client        string
	RouteArea     string
	ContainerSize string
}

// NormalizeRoute applies the canonical field normalization: trim plus
// uppercase for every identity string except RouteType, which keeps its case
// because the route-type enum check downstream is case-sensitive.
func NormalizeRoute(raw RawRoute) NormalizedRoute {
	n := NormalizedRoute{
		Origin:        upperTrim(firstNonEmpty(raw.Origin, raw.From)),
		Destination:   upperTrim(firstNonEmpty(raw.Destination, raw.To)),
		ContainerType: upperTrim(raw.ContainerType),
		RouteType:     strings.TrimSpace(raw.RouteType),
		Status:        upperTrim(raw.Status),
		Client:        upperTrim(raw.Client),
		RouteArea:     upperTrim(raw.RouteArea),
		ContainerSize: upperTrim(raw.ContainerSize),
		Price:         coercePrice(raw.Price),
	}
	n.Name = n.Origin + "/" + n.Destination
	return n
}

// MissingFields lists the required identity fields that came out empty.
// ContainerSize is optional and never reported.
func (n NormalizedRoute) MissingFields() []string {
	var missing []string
	required := []struct {
		name  string
		value string
	}{
		{"origin", n.Origin},
		{"destination", n.Destination},
		{"container_type", n.ContainerType},
		{"route_type", n.RouteType},
		{"status", n.Status},
		{"client", n.Client},
		{"route_area", n.RouteArea},
	}
	for _, f := range required {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// Identity derives the lookup filter for this row.
func (n NormalizedRoute) Identity() IdentityKey {
	return IdentityKey{
		Name:          n.Name,
		Origin:        n.Origin,
		Destination:   n.Destination,
		ContainerType: n.ContainerType,
		RouteType:     n.RouteType,
		Status:        n.Status,
		Client:        n.Client,
		RouteArea:     n.RouteArea,
		ContainerSize: n.ContainerSize,
	}
}

// Model builds the persistable entity for an insert attempt.
func (n NormalizedRoute) Model() models.TruckRoute {
	return models.TruckRoute{
		Name:          n.Name,
		Origin:        n.Origin,
		Destination:   n.Destination,
		ContainerType: n.ContainerType,
		RouteType:     n.RouteType,
		Status:        n.Status,
		Client:        n.Client,
		RouteArea:     n.RouteArea,
		ContainerSize: n.ContainerSize,
		Price:         n.Price,
	}
}

func upperTrim(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// coercePrice parses whatever the sheet produced into a float, falling back
// to zero so validation can reject the row with a clear message.
func coercePrice(v interface{}) float64 {
	switch p := v.(type) {
	case float64:
		return p
	case float32:
		return float64(p)
	case int:
		return float64(p)
	case int64:
		return float64(p)
	case json.Number:
		f, err := p.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
