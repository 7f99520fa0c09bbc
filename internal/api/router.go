package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sellscout/sellscout-backend-go/internal/config"
	"github.com/sellscout/sellscout-backend-go/internal/handler"
	"github.com/sellscout/sellscout-backend-go/internal/middleware"
)

// Handlers collects the handlers the router wires up
type Handlers struct {
	Auth    *handler.AuthHandler
	Product *handler.ProductHandler
	Report  *handler.ReportHandler
	System  *handler.SystemHandler
}

// SetupRouter configures the gin engine and all routes
func SetupRouter(cfg *config.Config, h Handlers, log zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(log))

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Health check
	r.GET("/health", h.System.Health)

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(120, time.Minute))
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.GET("/me", middleware.Auth(cfg.JWTSecret), h.Auth.Me)
		}

		products := api.Group("/products")
		products.Use(middleware.Auth(cfg.JWTSecret))
		{
			products.GET("", h.Product.List)
			products.POST("", h.Product.Create)
			products.PUT("/:id", h.Product.Update)
			products.DELETE("/:id", h.Product.Delete)
			products.POST("/clear", h.Product.Clear)
			products.GET("/overview", h.Product.Overview)
			products.POST("/import", h.Product.Import)
		}

		api.GET("/stats", middleware.Auth(cfg.JWTSecret), h.Product.Stats)

		reports := api.Group("/reports")
		reports.Use(middleware.Auth(cfg.JWTSecret))
		{
			reports.GET("", h.Report.List)
			reports.POST("/generate", h.Report.Generate)
		}

		system := api.Group("/system")
		system.Use(middleware.Auth(cfg.JWTSecret))
		{
			system.GET("/status", h.System.Status)
			system.GET("/history", h.System.History)
		}
	}

	return r
}
