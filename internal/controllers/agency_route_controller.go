package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"pty_logistics/internal/config"
	"pty_logistics/internal/models"
)

type passengerRangeInput struct {
	MinPassengers int     `json:"min_passengers"`
	MaxPassengers int     `json:"max_passengers"`
	Price         float64 `json:"price"`
	Description   string  `json:"description"`
}

type routePricingInput struct {
	RouteType string                `json:"route_type" binding:"required"`
	Ranges    []passengerRangeInput `json:"passenger_ranges" binding:"required"`
}

type agencyRouteInput struct {
	PickupLocation     string              `json:"pickup_location" binding:"required"`
	DropoffLocation    string              `json:"dropoff_location" binding:"required"`
	WaitingTimeRate    float64             `json:"waiting_time_rate"`
	ExtraPassengerRate float64             `json:"extra_passenger_rate"`
	Currency           string              `json:"currency"`
	Pricing            []routePricingInput `json:"pricing" binding:"required"`
}

// validatePricingInput enforces the catalog invariants once, at the boundary:
// known route type, at least one band, min ≤ max, non-negative prices.
// Gaps and overlaps between bands are legal.
func validatePricingInput(pricing []routePricingInput) error {
	if len(pricing) == 0 {
		return errors.New("at least one pricing entry is required")
	}
	for _, p := range pricing {
		if !models.IsValidRouteType(p.RouteType) {
			return errors.New("unknown route type: " + p.RouteType)
		}
		if len(p.Ranges) == 0 {
			return errors.New("pricing entry " + p.RouteType + " needs at least one passenger range")
		}
		for _, r := range p.Ranges {
			if r.MinPassengers > r.MaxPassengers {
				return errors.New("pricing entry " + p.RouteType + " has a range with min_passengers > max_passengers")
			}
			if r.Price < 0 {
				return errors.New("pricing entry " + p.RouteType + " has a negative price")
			}
		}
	}
	return nil
}

func buildAgencyRoute(input agencyRouteInput) (models.AgencyRoute, error) {
	pickup := strings.ToUpper(strings.TrimSpace(input.PickupLocation))
	dropoff := strings.ToUpper(strings.TrimSpace(input.DropoffLocation))
	if pickup == "" || dropoff == "" {
		return models.AgencyRoute{}, errors.New("pickup and dropoff locations are required")
	}
	if pickup == dropoff {
		return models.AgencyRoute{}, errors.New("pickup and dropoff locations must differ")
	}
	if err := validatePricingInput(input.Pricing); err != nil {
		return models.AgencyRoute{}, err
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = "USD"
	}

	route := models.AgencyRoute{
		Name:               pickup + " / " + dropoff,
		PickupLocation:     pickup,
		DropoffLocation:    dropoff,
		WaitingTimeRate:    input.WaitingTimeRate,
		ExtraPassengerRate: input.ExtraPassengerRate,
		Currency:           currency,
		IsActive:           true,
	}
	for _, p := range input.Pricing {
		entry := models.RoutePricing{RouteType: p.RouteType}
		for _, r := range p.Ranges {
			entry.Ranges = append(entry.Ranges, models.PassengerPriceRange{
				MinPassengers: r.MinPassengers,
				MaxPassengers: r.MaxPassengers,
				Price:         r.Price,
				Description:   r.Description,
			})
		}
		route.Pricing = append(route.Pricing, entry)
	}
	return route, nil
}

// CreateAgencyRoute registers a shuttle lane with its pricing tables.
func CreateAgencyRoute(c *gin.Context) {
	var input agencyRouteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	route, err := buildAgencyRoute(input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := config.DB.Create(&route).Error; err != nil {
		logrus.WithError(err).Error("CreateAgencyRoute: create failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create agency route"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"route": route})
}

// ListAgencyRoutes lists shuttle lanes with pricing, optionally only active ones.
func ListAgencyRoutes(c *gin.Context) {
	db := config.DB.Preload("Pricing.Ranges")
	if c.Query("active") == "true" {
		db = db.Where("is_active = ?", true)
	}

	var routes []models.AgencyRoute
	if err := db.Find(&routes).Error; err != nil {
		logrus.WithError(err).Error("ListAgencyRoutes: query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch agency routes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"routes": routes})
}

// GetAgencyRoute returns one shuttle lane with its full pricing table.
func GetAgencyRoute(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid route ID"})
		return
	}

	var route models.AgencyRoute
	if err := config.DB.Preload("Pricing.Ranges").First(&route, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Agency route not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"route": route})
}

// UpdateAgencyRoute changes rates, currency or the whole pricing table.
// Supplying pricing replaces every existing entry, the same way stage lists
// are replaced wholesale elsewhere in the catalog.
func UpdateAgencyRoute(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid route ID"})
		return
	}

	var route models.AgencyRoute
	if err := config.DB.Preload("Pricing").First(&route, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Agency route not found"})
		} else {
			logrus.WithError(err).Error("UpdateAgencyRoute: database error fetching route")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch agency route"})
		}
		return
	}

	var input struct {
		WaitingTimeRate    *float64            `json:"waiting_time_rate"`
		ExtraPassengerRate *float64            `json:"extra_passenger_rate"`
		Currency           *string             `json:"currency"`
		IsActive           *bool               `json:"is_active"`
		Pricing            []routePricingInput `json:"pricing"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.WaitingTimeRate != nil {
		route.WaitingTimeRate = *input.WaitingTimeRate
	}
	if input.ExtraPassengerRate != nil {
		route.ExtraPassengerRate = *input.ExtraPassengerRate
	}
	if input.Currency != nil {
		route.Currency = strings.ToUpper(strings.TrimSpace(*input.Currency))
	}
	if input.IsActive != nil {
		route.IsActive = *input.IsActive
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}

	if input.Pricing != nil {
		if err := validatePricingInput(input.Pricing); err != nil {
			tx.Rollback()
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := deletePricing(tx, route.ID); err != nil {
			tx.Rollback()
			logrus.WithError(err).Error("UpdateAgencyRoute: could not replace pricing")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not replace pricing"})
			return
		}
		route.Pricing = nil
		for _, p := range input.Pricing {
			entry := models.RoutePricing{AgencyRouteID: route.ID, RouteType: p.RouteType}
			for _, r := range p.Ranges {
				entry.Ranges = append(entry.Ranges, models.PassengerPriceRange{
					MinPassengers: r.MinPassengers,
					MaxPassengers: r.MaxPassengers,
					Price:         r.Price,
					Description:   r.Description,
				})
			}
			if err := tx.Create(&entry).Error; err != nil {
				tx.Rollback()
				logrus.WithError(err).Error("UpdateAgencyRoute: could not create pricing entry")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "could not replace pricing"})
				return
			}
		}
	}

	if err := tx.Omit("Pricing").Save(&route).Error; err != nil {
		tx.Rollback()
		logrus.WithError(err).Error("UpdateAgencyRoute: save failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed"})
		return
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Transaction commit failed"})
		return
	}

	config.DB.Preload("Pricing.Ranges").First(&route, route.ID)
	c.JSON(http.StatusOK, gin.H{"route": route})
}

// SetAgencyRouteActive toggles the soft-delete flag.
func SetAgencyRouteActive(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid route ID"})
		return
	}

	var input struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res := config.DB.Model(&models.AgencyRoute{}).Where("id = ?", id).Update("is_active", *input.IsActive)
	if res.Error != nil {
		logrus.WithError(res.Error).Error("SetAgencyRouteActive: update failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Agency route not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Agency route updated"})
}

// DeleteAgencyRoute removes a shuttle lane and its pricing tables.
func DeleteAgencyRoute(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid route ID"})
		return
	}

	var route models.AgencyRoute
	if err := config.DB.First(&route, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Agency route not found"})
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}
	if err := deletePricing(tx, route.ID); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete pricing: " + err.Error()})
		return
	}
	if err := tx.Unscoped().Delete(&route).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete route: " + err.Error()})
		return
	}
	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Transaction commit failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Agency route deleted successfully"})
}

// deletePricing hard-deletes the pricing entries and bands of one route.
func deletePricing(tx *gorm.DB, routeID uint) error {
	var pricingIDs []uint
	if err := tx.Model(&models.RoutePricing{}).Where("agency_route_id = ?", routeID).Pluck("id", &pricingIDs).Error; err != nil {
		return err
	}
	if len(pricingIDs) > 0 {
		if err := tx.Unscoped().Where("route_pricing_id IN ?", pricingIDs).Delete(&models.PassengerPriceRange{}).Error; err != nil {
			return err
		}
	}
	return tx.Unscoped().Where("agency_route_id = ?", routeID).Delete(&models.RoutePricing{}).Error
}
