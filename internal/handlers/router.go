// internal/handlers/router.go
package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"readquest/internal/config"
	"readquest/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"gorm.io/gorm"
)

// RouterDeps はルーターに載せるハンドラと依存
type RouterDeps struct {
	DB       *gorm.DB
	Award    *AwardHandler
	Progress *ProgressHandler
	// nil なら /realtime は登録しない
	Realtime *RealtimeHandler
}

// NewRouter はAPIのルーティングとミドルウェアを組み立てます。
// 認証は cfg.Auth.Enabled で JWT と開発用ヘッダー (X-User-ID) を切り替えます
func NewRouter(cfg *config.Config, logger *slog.Logger, deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.LoggingMiddleware(logger))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
		Debug:            false,
	})
	r.Use(corsHandler.Handler)
	r.Use(chimiddleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if cfg.Auth.Enabled {
				logger.Info("Applying JWT authentication middleware")
				r.Use(middleware.JWTAuthMiddleware(cfg.JWT.SecretKey))
			} else {
				logger.Warn("Authentication is disabled; using X-User-ID header (development only)")
				r.Use(middleware.DevUserContextMiddleware)
			}

			// WebSocket はタイムアウトをかけない
			if deps.Realtime != nil {
				r.Get("/realtime", deps.Realtime.Subscribe)
			}

			r.Group(func(r chi.Router) {
				r.Use(chimiddleware.Timeout(30 * time.Second))

				r.Post("/xp/award", deps.Award.PostAward)

				r.Route("/me", func(r chi.Router) {
					r.Get("/level", deps.Progress.GetLevel)
					r.Get("/streak", deps.Progress.GetStreak)
					r.Get("/badges", deps.Progress.GetBadges)
					r.Get("/xp-events", deps.Progress.GetXPEvents)
					r.Get("/xp-events/export", deps.Progress.ExportXPEvents)
					r.Get("/notifications", deps.Progress.GetNotifications)
					r.Patch("/notifications/{notification_id}/read", deps.Progress.MarkNotificationRead)
					r.Get("/feed", deps.Progress.GetFeed)
				})
			})
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := middleware.GetLogger(ctx)
		sqlDB, err := deps.DB.DB()
		if err != nil {
			logger.Error("Health check failed: could not get DB object", slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusServiceUnavailable)
			return
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			logger.Error("Health check failed: could not ping DB", slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
