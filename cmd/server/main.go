package main

import (
	"context"
	"encoding/base64"
	"flag"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	attendance "rakshak.com/rakshak/attendance/core"
	"rakshak.com/rakshak/attendance/model"
	"rakshak.com/rakshak/attendance/web/handlers/ambulance"
	"rakshak.com/rakshak/attendance/web/handlers/category"
	"rakshak.com/rakshak/attendance/web/handlers/dashboard"
	"rakshak.com/rakshak/attendance/web/handlers/device"
	"rakshak.com/rakshak/attendance/web/handlers/employee"
	"rakshak.com/rakshak/attendance/web/handlers/fuel"
	"rakshak.com/rakshak/attendance/web/handlers/punch"
	"rakshak.com/rakshak/attendance/web/handlers/roster"
	"rakshak.com/rakshak/core"
	"rakshak.com/rakshak/infrastructure/communication"
	"rakshak.com/rakshak/infrastructure/devops"
	"rakshak.com/rakshak/infrastructure/filesystem"
	"rakshak.com/rakshak/web/middlewares"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := devops.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	dm, err := core.New(cfg.Database.DSN, cfg.Database.MaxConnections)
	if err != nil {
		log.Fatal(err)
	}
	defer dm.Close()

	switch cfg.Database.LogLevel {
	case "silent":
		dm.LogLevel = core.LogLevelSilent
	case "error":
		dm.LogLevel = core.LogLevelError
	case "info":
		dm.LogLevel = core.LogLevelInfo
	default:
		dm.LogLevel = core.LogLevelWarn
	}

	jwtSecret, err := base64.StdEncoding.DecodeString(cfg.Auth.JwtSecret)
	if err != nil {
		log.Fatal("Failed to decode JWT secret:", err)
	}

	var storage filesystem.Storage
	if cfg.Upload.S3Bucket != "" {
		storage, err = filesystem.NewS3Storage(context.Background(), cfg.Upload.S3Bucket)
	} else {
		storage, err = filesystem.NewLocalStorage(cfg.Upload.Dir)
	}
	if err != nil {
		log.Fatal(err)
	}

	enforcer := attendance.NewEnforcer(cfg.Attendance)
	notifier := communication.ConnectSlack()

	cache := attendance.NewCategoryCache(
		time.Duration(cfg.Report.CategoryTTLSeconds)*time.Second,
		func(ctx context.Context) ([]model.Category, error) {
			var categories []model.Category
			err := dm.Exec(ctx, func(db *gorm.DB) error {
				return db.Find(&categories).Error
			})
			return categories, err
		})
	reporter := attendance.NewReporter(cfg.Report.Roles, cache)

	r := gin.Default()

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	public := r.Group("/api/rakshak/v1.0")
	device.RegisterPublic(public, dm, cfg.Auth.JwtSecret, cfg.Auth.TokenTTLSeconds)

	protected := r.Group("/api/rakshak/v1.0")
	protected.Use(middlewares.Authentication(jwtSecret))
	{
		punch.Register(protected, dm, enforcer, reporter, storage, notifier)
		employee.Register(protected, dm)
		category.Register(protected, dm, cache)
		ambulance.Register(protected, dm)
		device.Register(protected, dm)
		roster.Register(protected, dm)
		fuel.Register(protected, dm, storage)
		dashboard.Register(protected, dm, cache)
	}

	if err := r.Run(cfg.Server.Addr); err != nil {
		log.Fatal(err)
	}
}
