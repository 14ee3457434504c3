//go:build !integration

// internal/handlers/main_test.go
package handlers_test

import (
	"log"
	"os"
	"testing"

	"readquest/internal/repository"
)

// TestMain はパッケージ共通のテスト用DBを用意します。
// TEST_DATABASE_URL があればそのDB、なければインメモリSQLiteを使います。
func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		dsn = "file::memory:"
	}

	var err error
	testDB, err = repository.NewDB(dsn, newTestLogger())
	if err != nil {
		log.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := repository.AutoMigrate(testDB); err != nil {
		log.Fatalf("Could not migrate database: %v", err)
	}

	exitCode := m.Run()

	if sqlDB, err := testDB.DB(); err == nil {
		sqlDB.Close()
	}
	os.Exit(exitCode)
}
