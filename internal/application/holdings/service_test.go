package holdings

import (
	"context"
	"testing"

	"github.com/jamesdamant/overTheHedge/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupStore(t *testing.T) *Service {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Holding{}))
	return &Service{DB: db}
}

func sampleHolding(issuer, cusip, accession string) domain.Holding {
	return domain.Holding{
		NameOfIssuer:         issuer,
		TitleOfClass:         "COM",
		Cusip:                cusip,
		Value:                150000,
		SshPrnamt:            1000,
		SshPrnamtType:        "SH",
		InvestmentDiscretion: "SOLE",
		VotingSole:           1000,
		FundName:             "TEST FUND LP",
		Form:                 "13F-HR",
		AccessionNumber:      accession,
		FilingDate:           "2024-11-14",
		ReportDate:           "2024-09-30",
	}
}

func TestAppendManyRoundTrip(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	in := []domain.Holding{
		sampleHolding("APPLE INC", "037833100", "0001000045-24-000123"),
		sampleHolding("MICROSOFT CORP", "594918104", "0001000045-24-000123"),
	}
	require.NoError(t, s.AppendMany(ctx, in))

	out, err := s.SelectAll(ctx)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "APPLE INC", out[0].NameOfIssuer)
	assert.Equal(t, "COM", out[0].TitleOfClass)
	assert.Equal(t, "037833100", out[0].Cusip)
	assert.Equal(t, int64(150000), out[0].Value)
	assert.Equal(t, int64(1000), out[0].SshPrnamt)
	assert.Equal(t, "SH", out[0].SshPrnamtType)
	assert.Equal(t, "SOLE", out[0].InvestmentDiscretion)
	assert.Equal(t, "TEST FUND LP", out[0].FundName)
	assert.Equal(t, "2024-11-14", out[0].FilingDate)
	assert.Equal(t, "2024-09-30", out[0].ReportDate)
}

func TestAppendMany_EmptyIsNoop(t *testing.T) {
	s := setupStore(t)
	require.NoError(t, s.AppendMany(context.Background(), nil))
	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAppendOne(t *testing.T) {
	s := setupStore(t)
	h := sampleHolding("NVIDIA CORP", "67066G104", "0001000045-24-000123")
	require.NoError(t, s.AppendOne(context.Background(), &h))
	assert.NotZero(t, h.ID)
}

func TestAppendIsDuplicateTolerant(t *testing.T) {
	// No uniqueness constraint: re-ingesting an accession duplicates rows.
	s := setupStore(t)
	ctx := context.Background()
	rows := []domain.Holding{sampleHolding("APPLE INC", "037833100", "0001000045-24-000123")}
	require.NoError(t, s.AppendMany(ctx, rows))
	require.NoError(t, s.AppendMany(ctx, rows))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestSelectWhere(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	require.NoError(t, s.AppendMany(ctx, []domain.Holding{
		sampleHolding("APPLE INC", "037833100", "acc-1"),
		sampleHolding("MICROSOFT CORP", "594918104", "acc-2"),
	}))

	out, err := s.SelectWhere(ctx, "cusip", "594918104")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "MICROSOFT CORP", out[0].NameOfIssuer)

	out, err = s.SelectWhere(ctx, "accessionNumber", "acc-1")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "APPLE INC", out[0].NameOfIssuer)
}

func TestSelectWhere_DisallowedColumn(t *testing.T) {
	s := setupStore(t)
	for _, col := range []string{"id", "name; DROP TABLE holdings", "unknown"} {
		_, err := s.SelectWhere(context.Background(), col, "x")
		assert.ErrorIs(t, err, ErrInvalidColumn, col)
	}
}

func TestExistsAccession(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	ok, err := s.ExistsAccession(ctx, "0001000045-24-000123")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.AppendMany(ctx, []domain.Holding{
		sampleHolding("APPLE INC", "037833100", "0001000045-24-000123"),
	}))
	ok, err = s.ExistsAccession(ctx, "0001000045-24-000123")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRawQuery(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	require.NoError(t, s.AppendMany(ctx, []domain.Holding{
		sampleHolding("APPLE INC", "037833100", "acc-1"),
		sampleHolding("MICROSOFT CORP", "594918104", "acc-1"),
	}))

	rows, err := s.RawQuery(ctx, `SELECT COUNT(*) AS n FROM holdings`)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
