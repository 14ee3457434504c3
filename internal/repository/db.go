// internal/repository/db.go
package repository

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"readquest/internal/model"

	slogGorm "github.com/orandin/slog-gorm" // slogGormはエイリアス
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB は databaseURL に接続した *gorm.DB を返します。
// postgres:// / postgresql:// 以外のURLはSQLiteのファイル名として扱います (ローカル開発・テスト用)
func NewDB(databaseURL string, appLogger *slog.Logger) (*gorm.DB, error) {
	var gormLogLevel gormlogger.LogLevel
	if strings.ToLower(os.Getenv("APP_ENV")) == "dev" {
		gormLogLevel = gormlogger.Info
	} else {
		gormLogLevel = gormlogger.Warn
	}

	slogGormLogger := slogGorm.New(
		slogGorm.WithHandler(appLogger.Handler()),
		slogGorm.WithTraceAll(),
		slogGorm.WithSlowThreshold(500*time.Millisecond),
	)

	dialector, isSQLite := openDialector(databaseURL)
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: slogGormLogger.LogMode(gormLogLevel),
		// 一意制約違反を gorm.ErrDuplicatedKey に変換する
		TranslateError: true,
	})
	if err != nil {
		appLogger.Error("Failed to connect to database with GORM", slog.Any("error", err))
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		appLogger.Error("Error getting underlying sql.DB from GORM", slog.Any("error", err))
		return nil, err
	}

	if err = sqlDB.Ping(); err != nil {
		appLogger.Error("Error pinging database", slog.Any("error", err))
		sqlDB.Close()
		return nil, err
	}

	if isSQLite {
		// SQLiteは書き込みが直列なので接続を1本に絞る (インメモリDBは接続ごとに別DBになるため必須)
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	appLogger.Info("Database connection established with GORM", slog.Bool("sqlite", isSQLite))
	return db, nil
}

func openDialector(databaseURL string) (gorm.Dialector, bool) {
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") ||
		strings.Contains(databaseURL, "host=") {
		return postgres.Open(databaseURL), false
	}
	return sqlite.Open(strings.TrimPrefix(databaseURL, "sqlite://")), true
}

// AutoMigrate はエンジンが使う全テーブルを作成・更新します。
// profiles / user_books などは本番では別サービスが管理するため、開発・テスト環境向けです。
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.UserLevel{},
		&model.XPEvent{},
		&model.ReadingStreak{},
		&model.Badge{},
		&model.UserBadge{},
		&model.Notification{},
		&model.FeedItem{},
		&model.Profile{},
		&model.UserBook{},
		&model.BookReview{},
		&model.Friendship{},
	); err != nil {
		return fmt.Errorf("repository.AutoMigrate: %w", err)
	}
	return nil
}
