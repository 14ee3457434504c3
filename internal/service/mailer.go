//go:generate mockery --name Mailer --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"fmt"
	"log/slog"

	"readquest/internal/config"
	"readquest/internal/middleware"
)

// Mailer は通知メールの送信手段
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogMailer は送信せずにログへ出力するだけの実装 (開発用)
type LogMailer struct{}

func (m *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	logger := middleware.GetLogger(ctx)
	logger.Info("--- Sending Email (LogMailer) ---", "to", to, "subject", subject, "body", body)
	return nil
}

// NewMailer は mail.driver に応じた Mailer を返します
func NewMailer(ctx context.Context, cfg *config.Config) (Mailer, error) {
	switch cfg.Mail.Driver {
	case "", "log":
		return &LogMailer{}, nil
	case "ses":
		return NewSESMailer(ctx, cfg)
	default:
		slog.Error("Unknown mail driver", slog.String("driver", cfg.Mail.Driver))
		return nil, fmt.Errorf("unknown mail driver: %q", cfg.Mail.Driver)
	}
}
