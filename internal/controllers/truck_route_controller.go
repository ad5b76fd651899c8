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
	"pty_logistics/internal/importer"
	"pty_logistics/internal/models"
	"pty_logistics/internal/repository"
)

// CreateTruckRoute registers a single catalog lane. The row goes through the
// same normalization and identity rules as the bulk importer, so a manual
// create and an imported row can never disagree on what "the same route" is.
func CreateTruckRoute(c *gin.Context) {
	var input importer.RawRoute
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	n := importer.NormalizeRoute(input)
	if missing := n.MissingFields(); len(missing) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields: " + strings.Join(missing, ", ")})
		return
	}
	if n.Price <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price must be a positive number"})
		return
	}

	route := n.Model()
	repo := repository.NewTruckRouteRepository(config.DB)
	outcome, err := repo.Insert(c.Request.Context(), &route)
	switch outcome {
	case importer.InsertConflict:
		c.JSON(http.StatusConflict, gin.H{"error": "route with the same identity already exists"})
		return
	case importer.InsertFailed:
		logrus.WithError(err).Error("CreateTruckRoute: insert failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create route"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"route": route})
}

// ListTruckRoutes returns catalog lanes, optionally filtered by client,
// route area, status or route type.
func ListTruckRoutes(c *gin.Context) {
	db := config.DB.Model(&models.TruckRoute{})
	if v := c.Query("client"); v != "" {
		db = db.Where("client = ?", strings.ToUpper(strings.TrimSpace(v)))
	}
	if v := c.Query("route_area"); v != "" {
		db = db.Where("route_area = ?", strings.ToUpper(strings.TrimSpace(v)))
	}
	if v := c.Query("status"); v != "" {
		db = db.Where("status = ?", strings.ToUpper(strings.TrimSpace(v)))
	}
	if v := c.Query("route_type"); v != "" {
		db = db.Where("route_type = ?", strings.TrimSpace(v))
	}

	var routes []models.TruckRoute
	if err := db.Find(&routes).Error; err != nil {
		logrus.WithError(err).Error("ListTruckRoutes: query failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch routes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"routes": routes})
}

// GetTruckRoute returns one lane by id.
func GetTruckRoute(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid route ID"})
		return
	}

	var route models.TruckRoute
	if err := config.DB.First(&route, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"route": route})
}

// UpdateTruckRoute changes the mutable part of a lane. Identity fields are
// fixed after creation; a different identity is a different route.
func UpdateTruckRoute(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid route ID"})
		return
	}

	var route models.TruckRoute
	if err := config.DB.First(&route, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
		} else {
			logrus.WithError(err).Error("UpdateTruckRoute: database error fetching route")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch route"})
		}
		return
	}

	var input struct {
		Price *float64 `json:"price"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Price == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price is required"})
		return
	}
	if *input.Price <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price must be a positive number"})
		return
	}

	repo := repository.NewTruckRouteRepository(config.DB)
	if err := repo.UpdatePrice(c.Request.Context(), route.ID, *input.Price); err != nil {
		logrus.WithError(err).Error("UpdateTruckRoute: update failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed"})
		return
	}
	route.Price = *input.Price

	c.JSON(http.StatusOK, gin.H{"route": route})
}

// DeleteTruckRoute removes a lane. The delete is physical so the identity
// slot frees up for a later re-import.
func DeleteTruckRoute(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid route ID"})
		return
	}

	var route models.TruckRoute
	if err := config.DB.First(&route, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
		return
	}

	if err := config.DB.Unscoped().Delete(&route).Error; err != nil {
		logrus.WithError(err).Error("DeleteTruckRoute: delete failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete route"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Route deleted successfully"})
}

// ClearTruckRoutes wipes the whole lane catalog, typically before a fresh
// full import.
func ClearTruckRoutes(c *gin.Context) {
	res := config.DB.Unscoped().Where("1 = 1").Delete(&models.TruckRoute{})
	if res.Error != nil {
		logrus.WithError(res.Error).Error("ClearTruckRoutes: delete failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not clear routes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Routes cleared", "deleted": res.RowsAffected})
}
