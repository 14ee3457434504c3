// cmd/main.go
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"readquest/internal/config"
	"readquest/internal/gamification"
	"readquest/internal/handlers"
	"readquest/internal/realtime"
	"readquest/internal/reconcile"
	"readquest/internal/repository"
	"readquest/internal/service"
)

func main() {
	//　設定ファイル読み込み用の一時的なロガー設定
	tempLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(tempLogger)
	log.Println("Log Config Loading...")

	// .env があれば環境変数に読み込む (無ければそのまま)
	if err := godotenv.Load(); err != nil {
		tempLogger.Debug("No .env file loaded", slog.Any("error", err))
	}

	if err := config.LoadConfig("configs", "../configs"); err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := newLogger(config.Cfg.Log.Level, tempLogger)
	log.Println("Log Config Loaded...")
	slog.SetDefault(logger)

	slog.Info("Application starting...")

	db, err := repository.NewDB(config.Cfg.Database.URL, logger)
	if err != nil {
		slog.Error("Error initializing database", slog.Any("error", err))
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("Error getting underlying sql.DB from GORM", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("Error closing database connection", slog.Any("error", err))
		} else {
			slog.Info("Database connection closed.")
		}
	}()

	if config.Cfg.Database.AutoMigrate {
		if err := repository.AutoMigrate(db); err != nil {
			slog.Error("Error migrating database", slog.Any("error", err))
			os.Exit(1)
		}
		slog.Info("Database schema migrated")
	}

	repos := service.NewGormRepositories()
	if config.Cfg.Database.AutoMigrate {
		// 本番のカタログ投入は cmd/seed で行う
		if err := repos.Badge.UpsertCatalog(context.Background(), db, gamification.DefaultCatalog()); err != nil {
			slog.Error("Error seeding badge catalog", slog.Any("error", err))
			os.Exit(1)
		}
	}

	mailer, err := service.NewMailer(context.Background(), &config.Cfg)
	if err != nil {
		slog.Error("Error initializing mailer", slog.Any("error", err))
		os.Exit(1)
	}

	var hub *realtime.Hub
	var publisher service.Publisher
	if config.Cfg.Realtime.Enabled {
		hub = realtime.NewHub(logger)
		publisher = hub
	}

	clock := gamification.SystemClock{Location: config.Cfg.Location()}
	dispatcher := service.NewNotificationDispatcher(db, repos.Profile, publisher, mailer)
	awardService := service.NewAwardService(db, repos, dispatcher, clock)
	progressService := service.NewProgressService(db, repos, clock)

	deps := handlers.RouterDeps{
		DB:       db,
		Award:    handlers.NewAwardHandler(awardService, logger),
		Progress: handlers.NewProgressHandler(progressService, logger),
	}
	if hub != nil {
		deps.Realtime = handlers.NewRealtimeHandler(hub, config.Cfg.CORS.AllowedOrigins, logger)
	}
	r := handlers.NewRouter(&config.Cfg, logger, deps)

	var scheduler *reconcile.Scheduler
	if config.Cfg.Reconcile.Enabled {
		xdb, err := reconcile.Open(config.Cfg.Database.URL)
		if err != nil {
			slog.Error("Error opening reconcile connection", slog.Any("error", err))
			os.Exit(1)
		}
		defer xdb.Close()
		scheduler, err = reconcile.NewScheduler(reconcile.NewReconciler(xdb, logger), config.Cfg.Reconcile.Interval, logger)
		if err != nil {
			slog.Error("Error creating reconcile scheduler", slog.Any("error", err))
			os.Exit(1)
		}
		scheduler.Start()
	}

	// WebSocket を長く保持するため WriteTimeout は付けない (HTTPハンドラ側は Timeout ミドルウェアで制限)
	server := &http.Server{
		Addr:        config.Cfg.Server.Port,
		Handler:     r,
		ReadTimeout: 5 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	go func() {
		slog.Info("Server listening", slog.String("port", config.Cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Could not listen on port", slog.String("port", config.Cfg.Server.Port), slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", slog.Any("error", err))
	}
	// Shutdown はハイジャック済みの WebSocket を閉じないので Hub 側で切る
	if hub != nil {
		hub.Close()
	}
	if scheduler != nil {
		scheduler.Stop()
	}

	log.Println("Server exiting")
}

// newLogger は設定のログレベルと APP_ENV から slog ロガーを作ります (dev は tint、それ以外は JSON)
func newLogger(level string, tempLogger *slog.Logger) *slog.Logger {
	logLevel := new(slog.LevelVar)
	switch strings.ToLower(level) {
	case "debug":
		logLevel.Set(slog.LevelDebug)
	case "info":
		logLevel.Set(slog.LevelInfo)
	case "warn", "warning":
		logLevel.Set(slog.LevelWarn)
	case "error":
		logLevel.Set(slog.LevelError)
	default:
		logLevel.Set(slog.LevelInfo)
		tempLogger.Warn("Unknown log level specified in config, defaulting to INFO", slog.String("level", level))
	}

	var handler slog.Handler
	appEnv := os.Getenv("APP_ENV")
	if strings.ToLower(appEnv) == "dev" {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.RFC3339,
		})
		tempLogger.Info("Using TINT log handler", slog.String("APP_ENV", appEnv))
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})
		tempLogger.Info("Using JSON log handler", slog.String("APP_ENV", appEnv))
	}
	return slog.New(handler)
}
