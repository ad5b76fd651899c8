package main

import (
	"log"
	"net/http"

	"pty_logistics/internal/config"
	"pty_logistics/internal/logger"
	"pty_logistics/internal/middleware"
	"pty_logistics/internal/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	// Structured logging to a rotating file
	logger.Setup()

	// Connect to the database and migrate the catalog schema
	config.InitDB()

	// Setup Gin router
	r := routes.SetupRouter()

	// Recovery middleware
	r.Use(gin.Recovery())

	// Wrap with CORS for the back-office SPA
	handler := middleware.EnableCORS(r)

	addr := config.ServerAddr()
	log.Printf("server running at %s", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}
