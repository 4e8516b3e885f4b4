package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/shopfloor-tracker-api/config"
	"github.com/kendall-kelly/shopfloor-tracker-api/models"
	"github.com/kendall-kelly/shopfloor-tracker-api/services"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	config.SetLogger(logger)

	logger.Info("Starting shop floor tracker API", zap.String("env", cfg.GoEnv))

	if err := config.ConnectDatabase(cfg); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	db := config.GetDB()
	if err := models.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}
	logger.Info("Database migration completed successfully")

	services.InitAuditRecorder(services.NewGormAuditRecorder(db))

	if cfg.AuditArchiveEnabled() {
		if _, err := services.InitS3Service(cfg); err != nil {
			logger.Fatal("Failed to initialize S3 service", zap.Error(err))
		}
		logger.Info("Audit archive enabled", zap.String("bucket", cfg.AWSS3Bucket))
	} else {
		logger.Warn("AWS_S3_BUCKET not set, audit export disabled")
	}

	if !cfg.AuthEnabled() {
		logger.Warn("AUTH0_DOMAIN not set, mutation routes are unauthenticated")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := setupRouter(cfg, logger)

	addr := ":" + cfg.Port
	logger.Info("Server is running", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Shop floor tracker API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()
	if db == nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Database not initialized",
			},
		})
		return
	}

	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	tables, err := db.WithContext(c.Request.Context()).Migrator().GetTables()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"driver":  db.Dialector.Name(),
		"tables":  tables,
	})
}
