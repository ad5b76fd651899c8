package routes

import (
	"pty_logistics/internal/config"
	"pty_logistics/internal/controllers"
	"pty_logistics/internal/importer"
	"pty_logistics/internal/middleware"
	"pty_logistics/internal/repository"

	"github.com/gin-gonic/gin"
)

// AdminRoutes wires the bulk-import pipeline and destructive catalog
// operations behind the admin role.
func AdminRoutes(r *gin.Engine) {
	repo := repository.NewTruckRouteRepository(config.GetDB())
	imp := importer.New(repo)
	imp.BatchSize = config.ImportBatchSize()
	imp.RowTimeout = config.ImportRowTimeout()
	ic := controllers.NewImportController(imp)

	admin := r.Group("/admin")
	admin.Use(middleware.RequireAuthWithRole("admin"))
	{
		admin.POST("/routes/import", ic.ImportTruckRoutes)
		admin.DELETE("/routes", controllers.ClearTruckRoutes)
	}
}
