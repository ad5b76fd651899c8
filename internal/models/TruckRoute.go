package models

import (
	"gorm.io/gorm"
)

// TruckRoute is one priced lane in the trucking/PTYSS catalog.
// The whole identity tuple (name included) is unique; Price sits outside the
// index so a re-import in overwrite mode can change it without touching identity.
// Name is derived as origin + "/" + destination, never authored directly.
type TruckRoute struct {
	gorm.Model

	Name          string  `gorm:"uniqueIndex:idx_truck_route_identity" json:"name"`
	Origin        string  `gorm:"uniqueIndex:idx_truck_route_identity" json:"origin"`
	Destination   string  `gorm:"uniqueIndex:idx_truck_route_identity" json:"destination"`
	ContainerType string  `gorm:"uniqueIndex:idx_truck_route_identity" json:"container_type"`
	RouteType     string  `gorm:"uniqueIndex:idx_truck_route_identity" json:"route_type"`
	Status        string  `gorm:"uniqueIndex:idx_truck_route_identity" json:"status"`
	Client        string  `gorm:"uniqueIndex:idx_truck_route_identity" json:"client"`
	RouteArea     string  `gorm:"uniqueIndex:idx_truck_route_identity" json:"route_area"`
	ContainerSize string  `gorm:"uniqueIndex:idx_truck_route_identity" json:"container_size"`
	Price         float64 `json:"price"`
}
