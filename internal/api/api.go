// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/rudylameme/bvp-planning-sub000/internal/api/handlers"
	"github.com/rudylameme/bvp-planning-sub000/internal/api/middleware"
	"github.com/rudylameme/bvp-planning-sub000/internal/service"
)

type Services struct {
	SessionService *service.SessionService
}

type Options struct {
	AllowedOrigins []string
	MaxUploadMB    int
}

func NewRouter(services *Services, opts Options) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Export-Key", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(opts.AllowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(opts.AllowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	if opts.MaxUploadMB > 0 {
		limit := int64(opts.MaxUploadMB) << 20
		router.MaxMultipartMemory = limit
		router.Use(middleware.BodyLimit(limit))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil && services.SessionService != nil {
		h := handlers.NewSessionHandler(services.SessionService)
		sessions := apiGroup.Group("/sessions")
		{
			sessions.GET("", h.ListSessions)
			sessions.POST("", h.CreateSession)
			sessions.POST("/import", h.ImportHandoff)
			sessions.GET("/:id", h.GetSession)
			sessions.DELETE("/:id", h.DeleteSession)

			sessions.POST("/:id/sales", h.ImportSales)
			sessions.POST("/:id/traffic", h.ImportTraffic)
			sessions.POST("/:id/drive", h.ImportFromDrive)
			sessions.PUT("/:id/mode", h.SetMode)
			sessions.PUT("/:id/closures", h.SetClosures)

			products := sessions.Group("/:id/products")
			{
				products.GET("", h.ListProducts)
				products.POST("", h.AddProduct)
				products.PATCH("/:productId", h.UpdateProduct)
				products.DELETE("/:productId", h.DeleteProduct)
			}

			sessions.GET("/:id/plan", h.GetPlan)
			sessions.PUT("/:id/plan/variants", h.SetVariant)
			sessions.PUT("/:id/plan/overrides", h.SetOverride)
			sessions.GET("/:id/plan.xlsx", h.Workbook)
			sessions.GET("/:id/export", h.ExportHandoff)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
