package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"github.com/Mikelesnr/alx-travel-app-0x02/internal/handler"
	"github.com/Mikelesnr/alx-travel-app-0x02/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	PaymentHandler *handler.PaymentHandler
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API routes.
	api := router.Group("/api")
	{
		payment := api.Group("/payment")
		{
			payment.POST("/initiate", deps.PaymentHandler.InitiatePayment)
			payment.GET("/verify", deps.PaymentHandler.VerifyPayment)
			payment.GET("/success", deps.PaymentHandler.PaymentSuccess)
			payment.GET("/booking/:reference", deps.PaymentHandler.GetBookingPayments)
		}
	}

	return router
}
