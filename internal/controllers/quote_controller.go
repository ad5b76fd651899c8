package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"pty_logistics/internal/cache"
	"pty_logistics/internal/config"
	"pty_logistics/internal/models"
	"pty_logistics/internal/pricing"
)

// QuoteController serves price quotes for agency routes. Cache may be nil;
// quoting works the same without redis, just without memoization.
type QuoteController struct {
	Cache *cache.QuoteCache
}

func NewQuoteController(qc *cache.QuoteCache) *QuoteController {
	return &QuoteController{Cache: qc}
}

// Quote computes an itemized price for a pickup/dropoff pair, route type and
// passenger count. A request no band covers is a 404, never a zero price.
func (qc *QuoteController) Quote(c *gin.Context) {
	var body struct {
		PickupLocation   string  `json:"pickupLocation" binding:"required"`
		DropoffLocation  string  `json:"dropoffLocation" binding:"required"`
		RouteType        string  `json:"routeType" binding:"required"`
		PassengerCount   int     `json:"passengerCount" binding:"required"`
		WaitingTimeHours float64 `json:"waitingTimeHours"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	if !models.IsValidRouteType(body.RouteType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown route type: " + body.RouteType})
		return
	}

	pickup := strings.ToUpper(strings.TrimSpace(body.PickupLocation))
	dropoff := strings.ToUpper(strings.TrimSpace(body.DropoffLocation))

	var route models.AgencyRoute
	err := config.DB.Preload("Pricing.Ranges").
		Where("pickup_location = ? AND dropoff_location = ? AND is_active = ?", pickup, dropoff, true).
		First(&route).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no active route between " + pickup + " and " + dropoff})
		} else {
			logrus.WithError(err).Error("Quote: database error fetching route")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch route"})
		}
		return
	}

	ctx := c.Request.Context()
	var key string
	if qc.Cache != nil {
		key = qc.Cache.Key(route.ID, body.RouteType, body.PassengerCount, body.WaitingTimeHours)
		if b, ok, err := qc.Cache.Get(ctx, key); err != nil {
			logrus.WithError(err).Warn("Quote: cache read failed")
		} else if ok {
			c.JSON(http.StatusOK, gin.H{"quote": b, "currency": route.Currency})
			return
		}
	}

	b, ok := pricing.PriceBreakdown(route, body.RouteType, body.PassengerCount, body.WaitingTimeHours)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no price configured for the requested route type and passenger count"})
		return
	}

	if qc.Cache != nil {
		if err := qc.Cache.Set(ctx, key, b); err != nil {
			logrus.WithError(err).Warn("Quote: cache write failed")
		}
	}

	c.JSON(http.StatusOK, gin.H{"quote": b, "currency": route.Currency})
}
