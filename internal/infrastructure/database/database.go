package database

import (
	"strings"

	"github.com/jamesdamant/overTheHedge/internal/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open opens a GORM DB. A postgres:// DSN gets the postgres driver
// (PreferSimpleProtocol avoids 42P05 behind connection poolers); anything
// else is treated as a sqlite file path, matching the original hedgefund.db
// deployment.
func Open(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{})
	}
	return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
}

// AutoMigrate creates the holdings and ingestion_runs tables when absent.
// Safe to run on every startup.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.Holding{}, &domain.IngestionRun{})
}
