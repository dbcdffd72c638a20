// Package databasetest provides stores for package tests.
package databasetest

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"repairshop/internal/database"
)

// NewSQLite returns a migrated, empty in-memory store closed on cleanup.
func NewSQLite(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(database.Config{Driver: database.DriverSQLite, SQLiteDSN: ":memory:"}, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// NewMock returns a MySQL-dialect store backed by sqlmock, for driving
// infrastructure failures.
func NewMock(t testing.TB) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("Failed to open gorm on sqlmock: %v", err)
	}

	t.Cleanup(func() { sqlDB.Close() })
	return db, mock
}
