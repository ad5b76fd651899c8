package routes

import (
	"pty_logistics/internal/cache"
	"pty_logistics/internal/config"
	"pty_logistics/internal/controllers"
	"pty_logistics/internal/middleware"

	"github.com/gin-gonic/gin"
)

// QuoteRoutes wires the price-quote endpoint. The redis cache is optional;
// without REDIS_ADDR every quote is computed fresh.
func QuoteRoutes(r *gin.Engine) {
	var qcache *cache.QuoteCache
	if addr := config.RedisAddr(); addr != "" {
		qcache = cache.NewQuoteCache(addr, config.QuoteCacheTTL())
	}
	qc := controllers.NewQuoteController(qcache)

	quotes := r.Group("/quotes")
	quotes.Use(middleware.RequireAuth())
	{
		quotes.POST("", qc.Quote)
	}
}
