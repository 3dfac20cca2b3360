package database

import (
	"testing"

	"github.com/jamesdamant/overTheHedge/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSqliteAndMigrate(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	assert.True(t, db.Migrator().HasTable(&domain.Holding{}))
	assert.True(t, db.Migrator().HasTable(&domain.IngestionRun{}))
}

func TestMigrateIsIdempotent(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	require.NoError(t, AutoMigrate(db))

	// rows survive a re-migration
	h := domain.Holding{NameOfIssuer: "APPLE INC", Cusip: "037833100", AccessionNumber: "acc-1"}
	require.NoError(t, db.Create(&h).Error)
	require.NoError(t, AutoMigrate(db))

	var n int64
	require.NoError(t, db.Model(&domain.Holding{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}
