package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	appconfig "github.com/bluewave/tablepos/config"
	"github.com/bluewave/tablepos/middlewares"
	"github.com/bluewave/tablepos/models"
	"github.com/bluewave/tablepos/router"
	"github.com/bluewave/tablepos/seeders"
	"github.com/bluewave/tablepos/storage"
	"github.com/bluewave/tablepos/utils"
)

func main() {
	utils.InitLogger()

	cfg := appconfig.Load()
	utils.SetJWTSecret(cfg.JWTSecret)

	db, err := cfg.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	if err := seeders.Seed(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to seed database: %v", err)
	}

	images, err := storage.NewS3Store(context.Background(), cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to initialize image store: %v", err)
	}

	// 50 requests per second per IP
	rateLimiter := middlewares.NewRateLimiter(50, 1)

	r := router.SetupRouter(db, images)
	r.Use(rateLimiter.RateLimit())
	r.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Permission{},
		&models.Group{},
		&models.Table{},
		&models.Category{},
		&models.Product{},
		&models.Payment{},
		&models.Order{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}
