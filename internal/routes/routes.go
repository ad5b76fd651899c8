package routes

import (
	ginlogger "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(ginlogger.SetLogger())

	AuthRoutes(r)
	CatalogRoutes(r)
	AdminRoutes(r)
	QuoteRoutes(r)

	return r
}
