// cmd/reconcile/main.go
// xp_events の合計と user_levels を1回だけ照合して結果を出力します
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"readquest/internal/reconcile"
)

func main() {
	timeout := flag.Duration("timeout", 10*time.Minute, "照合全体のタイムアウト")
	flag.Parse()

	_ = godotenv.Load()
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: slog.LevelInfo, TimeFormat: time.RFC3339}))

	// 環境変数 DATABASE_URL から接続文字列を取得 (なければローカルのSQLite)
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		dbURL = "readquest.db"
		log.Println("DATABASE_URL environment variable not set, using default:", dbURL)
	}

	db, err := reconcile.Open(dbURL)
	if err != nil {
		log.Fatalf("Failed to open database connection: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	report, err := reconcile.NewReconciler(db, logger).Run(ctx)
	out, _ := json.Marshal(report)
	fmt.Println(string(out))
	if err != nil {
		logger.Error("Reconciliation finished with errors", slog.Any("error", err))
		os.Exit(1)
	}
}
