package main

import (
	"log"

	"go.uber.org/zap"

	_ "github.com/OussemaBenslimene/Tasker/docs"
	"github.com/OussemaBenslimene/Tasker/internal/config"
	"github.com/OussemaBenslimene/Tasker/internal/database"
	"github.com/OussemaBenslimene/Tasker/internal/logger"
	"github.com/OussemaBenslimene/Tasker/internal/server"
)

// @title           Tasker API
// @version         1.0
// @description     API for managing Tasker boards, columns and cards.

// @host      localhost:8017
// @BasePath  /v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	cfg := config.Load()

	zapLogger, err := logger.New(cfg.GinMode)
	if err != nil {
		log.Fatalf("❌ Logger initialization failed: %v", err)
	}
	defer zapLogger.Sync()

	db, err := database.New(database.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Name:     cfg.DBName,
	})
	if err != nil {
		zapLogger.Fatal("❌ Failed to connect to DB", zap.Error(err))
	}
	zapLogger.Info("✅ Connected to database")

	if err := database.AutoMigrate(db); err != nil {
		zapLogger.Fatal("❌ Database migration failed", zap.Error(err))
	}

	s, err := server.Init(cfg, zapLogger, db)
	if err != nil {
		zapLogger.Fatal("❌ Server initialization failed", zap.Error(err))
	}

	s.Run()
}
