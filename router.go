package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/shopfloor-tracker-api/config"
	"github.com/kendall-kelly/shopfloor-tracker-api/controllers"
	"github.com/kendall-kelly/shopfloor-tracker-api/middleware"
	"go.uber.org/zap"
)

// setupRouter builds the gin engine with every route registered
func setupRouter(cfg *config.Config, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))
	router.Use(cors.New(corsConfig(cfg.CORSAllowedOrigins)))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)

		workOrders := v1.Group("/work-orders")
		workOrders.Use(middleware.ActorContext())
		{
			workOrders.GET("", controllers.ListWorkOrders)
			workOrders.GET("/:id", controllers.GetWorkOrder)
			workOrders.GET("/:id/tree", controllers.GetWorkOrderTree)
			workOrders.GET("/:id/audit", controllers.ListAuditLogs)
		}

		protected := v1.Group("/work-orders")
		if cfg.AuthEnabled() {
			protected.Use(middleware.EnsureValidToken(cfg))
		}
		protected.Use(middleware.ActorContext())
		{
			protected.POST("/:id/audit/export", requireScope(cfg, middleware.ScopeExportAudit), controllers.ExportAuditLogs)
			protected.PUT("/:id/parts/:partId/category", requireScope(cfg, middleware.ScopeWriteWorkOrders), controllers.SetPartCategory)
			protected.PUT("/:id/parts/:partId/status", requireScope(cfg, middleware.ScopeWriteWorkOrders), controllers.SetPartStatus)
			protected.PUT("/:id/hardware/:hardwareId/status", requireScope(cfg, middleware.ScopeWriteWorkOrders), controllers.SetHardwareStatus)
			protected.PUT("/:id/subassemblies/:subId/parent", requireScope(cfg, middleware.ScopeWriteWorkOrders), controllers.MoveSubassembly)
			protected.DELETE("/:id/:kind/:entityId", requireScope(cfg, middleware.ScopeDeleteWorkOrders), controllers.DeleteEntity)
		}
	}

	return router
}

// requireScope enforces a token scope only when tokens are being validated
func requireScope(cfg *config.Config, scope string) gin.HandlerFunc {
	if !cfg.AuthEnabled() {
		return func(c *gin.Context) { c.Next() }
	}
	return middleware.RequireScope(scope)
}

func corsConfig(origins []string) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader, middleware.StationHeader, middleware.SessionIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader, middleware.SessionIDHeader},
		MaxAge:        12 * time.Hour,
	}
	for _, origin := range origins {
		if origin == "*" {
			corsCfg.AllowAllOrigins = true
			return corsCfg
		}
	}
	corsCfg.AllowOrigins = origins
	if len(origins) == 0 {
		corsCfg.AllowAllOrigins = true
	}
	return corsCfg
}
