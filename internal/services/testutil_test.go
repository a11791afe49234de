package services

import (
	"context"
	"testing"
	"time"

	"github.com/glucolog/glucolog/internal/database"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// testNow is a fixed Sunday so windowed metrics are deterministic.
var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func dayKey(offset int) string {
	return testNow.AddDate(0, 0, offset).Format("2006-01-02")
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, telegramID int64) *database.User {
	t.Helper()
	user, err := NewUserService(db).RegisterUser(context.Background(), telegramID, "tester", "Test", "User")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}
