// cmd/seed/main.go
// バッジカタログを投入・更新します。何度実行しても同じ結果になります
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"readquest/internal/gamification"
	"readquest/internal/middleware"
	"readquest/internal/repository"
)

func main() {
	_ = godotenv.Load()
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: slog.LevelInfo, TimeFormat: time.RFC3339}))

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		dbURL = "readquest.db"
		log.Println("DATABASE_URL environment variable not set, using default:", dbURL)
	}

	db, err := repository.NewDB(dbURL, logger)
	if err != nil {
		log.Fatalf("Failed to connect database using GORM: %v", err)
	}
	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	if err := repository.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	ctx := middleware.WithLogger(context.Background(), logger)
	catalog := gamification.DefaultCatalog()
	if err := repository.NewGormBadgeRepository().UpsertCatalog(ctx, db, catalog); err != nil {
		log.Fatalf("Failed to seed badge catalog: %v", err)
	}
	logger.Info("Badge catalog seeded", slog.Int("count", len(catalog)))
}
