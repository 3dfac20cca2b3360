package holdings

import (
	"context"
	"errors"
	"fmt"

	"github.com/jamesdamant/overTheHedge/internal/domain"

	"gorm.io/gorm"
)

// ErrInvalidColumn means a filter named a column outside the allow-list.
var ErrInvalidColumn = errors.New("invalid column name")

// filterColumns is the allow-list for SelectWhere. Checked before any SQL
// is built, so a bad column never reaches the database.
var filterColumns = map[string]struct{}{
	"nameOfIssuer":         {},
	"titleOfClass":         {},
	"cusip":                {},
	"value":                {},
	"sshPrnamt":            {},
	"sshPrnamtType":        {},
	"investmentDiscretion": {},
	"voting_Sole":          {},
	"voting_Shared":        {},
	"voting_None":          {},
	"fundName":             {},
	"form":                 {},
	"accessionNumber":      {},
	"filingDate":           {},
	"reportDate":           {},
}

// Service is the append-only holdings store. No update or delete is exposed;
// rows written by ingestion are never mutated.
type Service struct {
	DB *gorm.DB
}

// AppendMany inserts the rows in one batched statement. Empty input is a no-op.
func (s *Service) AppendMany(ctx context.Context, rows []domain.Holding) error {
	if len(rows) == 0 {
		return nil
	}
	return s.DB.WithContext(ctx).CreateInBatches(rows, 500).Error
}

// AppendOne inserts a single row.
func (s *Service) AppendOne(ctx context.Context, h *domain.Holding) error {
	return s.DB.WithContext(ctx).Create(h).Error
}

// SelectAll returns every stored holding in insertion order.
func (s *Service) SelectAll(ctx context.Context) ([]domain.Holding, error) {
	var rows []domain.Holding
	err := s.DB.WithContext(ctx).Order("id").Find(&rows).Error
	return rows, err
}

// SelectWhere returns holdings where column equals value. The column must be
// in the allow-list; values are always bound parameters.
func (s *Service) SelectWhere(ctx context.Context, column, value string) ([]domain.Holding, error) {
	if _, ok := filterColumns[column]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidColumn, column)
	}
	var rows []domain.Holding
	err := s.DB.WithContext(ctx).Where(fmt.Sprintf("%q = ?", column), value).Order("id").Find(&rows).Error
	return rows, err
}

// Count returns the number of stored holdings.
func (s *Service) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&domain.Holding{}).Count(&n).Error
	return n, err
}

// ExistsAccession reports whether any holding from the accession is stored.
// Backs the opt-in skip mode; the store itself enforces no uniqueness.
func (s *Service) ExistsAccession(ctx context.Context, accession string) (bool, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&domain.Holding{}).
		Where(`"accessionNumber" = ?`, accession).Count(&n).Error
	return n > 0, err
}

// RawQuery runs an arbitrary SELECT and returns generic rows. Diagnostics
// only; never route untrusted input here.
func (s *Service) RawQuery(ctx context.Context, query string) ([]map[string]interface{}, error) {
	var rows []map[string]interface{}
	err := s.DB.WithContext(ctx).Raw(query).Scan(&rows).Error
	return rows, err
}
