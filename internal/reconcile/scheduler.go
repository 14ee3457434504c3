// internal/reconcile/scheduler.go
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// Scheduler はサーバー内で Reconciler を定期実行します
type Scheduler struct {
	scheduler  *gocron.Scheduler
	reconciler *Reconciler
	logger     *slog.Logger
	timeout    time.Duration
}

// NewScheduler は interval ごとに照合を走らせるスケジューラを作ります。開始は Start を呼ぶまで待ちます
func NewScheduler(reconciler *Reconciler, interval time.Duration, logger *slog.Logger) (*Scheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("reconcile interval must be positive: %s", interval)
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scheduler{
		scheduler:  gocron.NewScheduler(time.UTC),
		reconciler: reconciler,
		logger:     logger,
		timeout:    interval,
	}
	// 前回の実行が終わっていなければ重ねて走らせない
	s.scheduler.SingletonModeAll()
	if _, err := s.scheduler.Every(interval).Do(s.runOnce); err != nil {
		return nil, fmt.Errorf("NewScheduler: %w", err)
	}
	return s, nil
}

// Start は非同期でスケジュールを開始します (最初の照合はすぐに走ります)
func (s *Scheduler) Start() {
	s.logger.Info("Reconcile scheduler started")
	s.scheduler.StartAsync()
}

// Stop はスケジュールを止めます
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	s.logger.Info("Reconcile scheduler stopped")
}

func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if _, err := s.reconciler.Run(ctx); err != nil {
		s.logger.Error("Scheduled reconciliation failed", slog.Any("error", err))
	}
}
