package routes

import (
	"pty_logistics/internal/controllers"
	"pty_logistics/internal/middleware"

	"github.com/gin-gonic/gin"
)

// CatalogRoutes wires the truck-route and agency-route catalogs for
// authenticated staff.
func CatalogRoutes(r *gin.Engine) {
	routes := r.Group("/routes")
	routes.Use(middleware.RequireAuth())
	{
		routes.POST("", controllers.CreateTruckRoute)
		routes.GET("", controllers.ListTruckRoutes)
		routes.GET("/:id", controllers.GetTruckRoute)
		routes.PUT("/:id", controllers.UpdateTruckRoute)
		routes.DELETE("/:id", controllers.DeleteTruckRoute)
	}

	agency := r.Group("/agency-routes")
	agency.Use(middleware.RequireAuth())
	{
		agency.POST("", controllers.CreateAgencyRoute)
		agency.GET("", controllers.ListAgencyRoutes)
		agency.GET("/:id", controllers.GetAgencyRoute)
		agency.PUT("/:id", controllers.UpdateAgencyRoute)
		agency.PATCH("/:id/active", controllers.SetAgencyRouteActive)
		agency.DELETE("/:id", controllers.DeleteAgencyRoute)
	}
}
