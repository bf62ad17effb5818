// Package testutil holds helpers shared by package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"showup-server/internal/models"

	"gorm.io/gorm"
)

// NewDB opens a migrated sqlite database in a per-test temp dir.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := models.InitDB(models.DatabaseConfig{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "showup-test.db"),
	})
	if err != nil {
		t.Fatalf("init test db: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
