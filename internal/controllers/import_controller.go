package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"pty_logistics/internal/importer"
)

// ImportController exposes the bulk-import pipeline over HTTP. The importer
// is injected so handler tests can run it against an in-memory store.
type ImportController struct {
	Importer *importer.Importer
}

func NewImportController(im *importer.Importer) *ImportController {
	return &ImportController{Importer: im}
}

// ImportTruckRoutes ingests parsed spreadsheet rows into the lane catalog.
// Partial success is the normal outcome; the response always carries the
// per-row counts and a bounded sample of error messages.
func (ic *ImportController) ImportTruckRoutes(c *gin.Context) {
	var body struct {
		Routes              []importer.RawRoute `json:"routes"`
		OverwriteDuplicates bool                `json:"overwriteDuplicates"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	result, err := ic.Importer.ImportRoutes(c.Request.Context(), body.Routes, body.OverwriteDuplicates)
	if err != nil {
		if errors.Is(err, importer.ErrNoRows) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "routes must be a non-empty list"})
			return
		}
		logrus.WithError(err).Error("ImportTruckRoutes: import failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "import failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Import completed",
		"data":    result,
	})
}
