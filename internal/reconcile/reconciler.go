// internal/reconcile/reconciler.go
package reconcile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"readquest/internal/gamification"
	"readquest/internal/model"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Report は1回の照合の結果
type Report struct {
	Checked int `json:"checked"`
	Fixed   int `json:"fixed"`
}

// Open は databaseURL に応じて postgres (lib/pq) か sqlite3 で sqlx 接続を開きます
func Open(databaseURL string) (*sqlx.DB, error) {
	driver := "sqlite3"
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") || strings.Contains(databaseURL, "host=") {
		driver = "postgres"
	}
	db, err := sqlx.Connect(driver, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("reconcile.Open: %w: %w", model.ErrRepositoryUnavailable, err)
	}
	if driver == "sqlite3" {
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

// Reconciler は xp_events の合計と user_levels の累積XPを突き合わせ、ずれていれば台帳側に合わせます。
// XPの記録後にレベル更新だけが失敗した場合の修復に使います
type Reconciler struct {
	db     *sqlx.DB
	logger *slog.Logger
	now    func() time.Time
}

func NewReconciler(db *sqlx.DB, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{db: db, logger: logger, now: time.Now}
}

type userTotals struct {
	UserID   string        `db:"user_id"`
	LedgerXP int64         `db:"ledger_xp"`
	TotalXP  sql.NullInt64 `db:"total_xp"`
}

const selectTotalsQuery = `
SELECT u.user_id AS user_id,
       COALESCE((SELECT SUM(e.amount) FROM xp_events e WHERE e.user_id = u.user_id), 0) AS ledger_xp,
       l.total_xp AS total_xp
FROM (SELECT user_id FROM xp_events UNION SELECT user_id FROM user_levels) u
LEFT JOIN user_levels l ON l.user_id = u.user_id`

// Run は全ユーザーを照合します。1ユーザーの修復失敗は記録して次に進みます
func (r *Reconciler) Run(ctx context.Context) (Report, error) {
	var report Report
	start := time.Now()

	var rows []userTotals
	if err := r.db.SelectContext(ctx, &rows, selectTotalsQuery); err != nil {
		r.logger.Error("Failed to load xp totals", slog.Any("error", err))
		return report, fmt.Errorf("Reconciler.Run: %w: %w", model.ErrRepositoryUnavailable, err)
	}

	var errs []error
	for _, row := range rows {
		report.Checked++
		if row.TotalXP.Valid && row.TotalXP.Int64 == row.LedgerXP {
			continue
		}
		fixed, err := r.fixUser(ctx, row.UserID)
		if err != nil {
			r.logger.Error("Failed to reconcile user", slog.String("user_id", row.UserID), slog.Any("error", err))
			errs = append(errs, err)
			continue
		}
		if fixed {
			report.Fixed++
		}
	}

	r.logger.Info("XP reconciliation finished",
		slog.Int("checked", report.Checked),
		slog.Int("fixed", report.Fixed),
		slog.Int("failed", len(errs)),
		slog.Duration("elapsed", time.Since(start)),
	)
	if len(errs) > 0 {
		return report, fmt.Errorf("Reconciler.Run: %w: %w", model.ErrRepositoryUnavailable, errors.Join(errs...))
	}
	return report, nil
}

// fixUser はユーザーの行をロックした上で台帳を集計し直し、累積XPとレベルを書き直します
func (r *Reconciler) fixUser(ctx context.Context, userID string) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	lockClause := ""
	if r.db.DriverName() == "postgres" {
		lockClause = " FOR UPDATE"
	}

	var current sql.NullInt64
	err = tx.GetContext(ctx, &current, tx.Rebind("SELECT total_xp FROM user_levels WHERE user_id = ?"+lockClause), userID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, err
	}

	var ledger int64
	if err := tx.GetContext(ctx, &ledger, tx.Rebind("SELECT COALESCE(SUM(amount), 0) FROM xp_events WHERE user_id = ?"), userID); err != nil {
		return false, err
	}
	// ロック待ちの間に付与処理が追いついていれば何もしない
	if current.Valid && current.Int64 == ledger {
		return false, nil
	}

	info := gamification.CalculateLevel(int(ledger))
	now := r.now().UTC()
	if current.Valid {
		_, err = tx.ExecContext(ctx, tx.Rebind(
			"UPDATE user_levels SET total_xp = ?, current_level = ?, current_xp_in_level = ?, updated_at = ? WHERE user_id = ?"),
			ledger, info.Level, info.CurrentXPInLevel, now, userID)
	} else {
		_, err = tx.ExecContext(ctx, tx.Rebind(
			"INSERT INTO user_levels (user_id, total_xp, current_level, current_xp_in_level, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)"),
			userID, ledger, info.Level, info.CurrentXPInLevel, now, now)
	}
	if err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}

	r.logger.Warn("User level rewritten from ledger",
		slog.String("user_id", userID),
		slog.Int64("previous_total_xp", current.Int64),
		slog.Bool("level_row_missing", !current.Valid),
		slog.Int64("ledger_total_xp", ledger),
		slog.Int("level", info.Level),
	)
	return true, nil
}
