package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jamesdamant/overTheHedge/internal/application/holdings"
	"github.com/jamesdamant/overTheHedge/internal/domain"
	"github.com/jamesdamant/overTheHedge/internal/edgar"
	"github.com/jamesdamant/overTheHedge/internal/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Mode controls what happens when the located accession is already stored.
type Mode string

const (
	// ModeAppend always inserts; re-ingesting a filing duplicates its rows,
	// exactly like the upstream source behaves.
	ModeAppend Mode = "append"
	// ModeSkip is the opt-in dedupe: a no-op when any row with the same
	// accession number is already stored.
	ModeSkip Mode = "skip"
)

// Pipeline stage names, reported on every failure.
const (
	StageLocate   = "locate"
	StageFetch    = "fetch"
	StageSanitize = "sanitize"
	StageExtract  = "extract"
	StageStore    = "store"
)

// StageError tags a pipeline failure with the stage it happened in.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return e.Stage + ": " + e.Err.Error()
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageErr(stage string, err error) error {
	return &StageError{Stage: stage, Err: err}
}

// RunSummary is what a completed ingestion reports back.
type RunSummary struct {
	RunID      uuid.UUID              `json:"run_id"`
	Metadata   domain.FilingMetadata  `json:"metadata"`
	Document   string                 `json:"document,omitempty"`
	RowsStored int                    `json:"rows_stored"`
	Skipped    bool                   `json:"skipped"`
	Timings    map[string]interface{} `json:"timings_ms"`
}

// Service runs the ingestion pipeline: locate, fetch, sanitize, extract,
// store. One call is one filing; stages run synchronously on the caller's
// goroutine.
type Service struct {
	Edgar       *edgar.Client
	Holdings    *holdings.Service
	DB          *gorm.DB
	DefaultForm string
	Metrics     *metrics.Metrics
}

// LatestFiling normalizes the CIK and resolves the most recent filing of the
// form type (service default when empty).
func (s *Service) LatestFiling(ctx context.Context, cik, form string) (domain.FilingMetadata, error) {
	padded, err := edgar.NormalizeCIK(cik)
	if err != nil {
		return domain.FilingMetadata{}, stageErr(StageLocate, err)
	}
	if form == "" {
		form = s.DefaultForm
	}
	meta, err := s.Edgar.LatestFiling(ctx, padded, form)
	if err != nil {
		return domain.FilingMetadata{}, stageErr(StageLocate, err)
	}
	return meta, nil
}

// FetchAndExtract fetches the filing's info table and returns its holdings
// without storing anything. The accession reference comes from meta, which
// callers obtain from LatestFiling.
func (s *Service) FetchAndExtract(ctx context.Context, cik string, meta domain.FilingMetadata) ([]domain.Holding, error) {
	padded, err := edgar.NormalizeCIK(cik)
	if err != nil {
		return nil, stageErr(StageFetch, err)
	}
	result, err := s.Edgar.FetchInfoTable(ctx, padded, meta.AccessionNumber)
	if err != nil {
		return nil, stageErr(StageFetch, err)
	}
	s.countProbes(result)

	clean := edgar.Sanitize(string(result.Data))

	rows, err := edgar.ExtractHoldings([]byte(clean), meta)
	if err != nil {
		return nil, stageErr(StageExtract, err)
	}
	return rows, nil
}

// Ingest runs the full pipeline for the filer's latest filing and records an
// IngestionRun row whatever the outcome.
func (s *Service) Ingest(ctx context.Context, cik, form string, mode Mode) (RunSummary, error) {
	if mode == "" {
		mode = ModeAppend
	}
	if form == "" {
		form = s.DefaultForm
	}
	summary := RunSummary{RunID: uuid.New(), Timings: map[string]interface{}{}}
	timings := map[string]int64{}

	padded, err := edgar.NormalizeCIK(cik)
	if err != nil {
		return summary, s.fail(ctx, &summary, cik, form, mode, timings, nil, stageErr(StageLocate, err))
	}

	start := time.Now()
	meta, err := s.Edgar.LatestFiling(ctx, padded, form)
	timings[StageLocate] = sinceMs(start)
	if err != nil {
		return summary, s.fail(ctx, &summary, padded, form, mode, timings, nil, stageErr(StageLocate, err))
	}
	summary.Metadata = meta

	if mode == ModeSkip {
		exists, err := s.Holdings.ExistsAccession(ctx, meta.AccessionNumber)
		if err != nil {
			return summary, s.fail(ctx, &summary, padded, form, mode, timings, nil, stageErr(StageStore, err))
		}
		if exists {
			summary.Skipped = true
			s.record(ctx, &summary, padded, form, mode, timings, nil, domain.RunStatusSkipped, "", "")
			s.metric().IngestRunsTotal.WithLabelValues(domain.RunStatusSkipped).Inc()
			log.Info().Str("cik", padded).Str("accession", meta.AccessionNumber).Msg("accession already stored, skipping")
			return summary, nil
		}
	}

	start = time.Now()
	result, err := s.Edgar.FetchInfoTable(ctx, padded, meta.AccessionNumber)
	timings[StageFetch] = sinceMs(start)
	if err != nil {
		return summary, s.fail(ctx, &summary, padded, form, mode, timings, nil, stageErr(StageFetch, err))
	}
	summary.Document = result.Document
	s.countProbes(result)

	start = time.Now()
	clean := edgar.Sanitize(string(result.Data))
	timings[StageSanitize] = sinceMs(start)

	start = time.Now()
	rows, err := edgar.ExtractHoldings([]byte(clean), meta)
	timings[StageExtract] = sinceMs(start)
	if err != nil {
		return summary, s.fail(ctx, &summary, padded, form, mode, timings, result.Tried, stageErr(StageExtract, err))
	}

	start = time.Now()
	if err := s.Holdings.AppendMany(ctx, rows); err != nil {
		return summary, s.fail(ctx, &summary, padded, form, mode, timings, result.Tried, stageErr(StageStore, err))
	}
	timings[StageStore] = sinceMs(start)

	summary.RowsStored = len(rows)
	s.record(ctx, &summary, padded, form, mode, timings, result.Tried, domain.RunStatusOK, "", "")
	s.metric().IngestRunsTotal.WithLabelValues(domain.RunStatusOK).Inc()
	s.metric().HoldingsStoredTotal.Add(float64(len(rows)))
	for stage, ms := range timings {
		s.metric().StageDuration.WithLabelValues(stage).Observe(float64(ms) / 1000)
	}

	log.Info().
		Str("cik", padded).
		Str("accession", meta.AccessionNumber).
		Str("document", result.Document).
		Int("rows", len(rows)).
		Msg("filing ingested")
	return summary, nil
}

// ListRuns returns the ingestion audit log, newest first.
func (s *Service) ListRuns(ctx context.Context) ([]domain.IngestionRun, error) {
	var runs []domain.IngestionRun
	err := s.DB.WithContext(ctx).Order("created_at DESC").Find(&runs).Error
	return runs, err
}

// fail records the failure and returns the stage-tagged error unchanged.
func (s *Service) fail(ctx context.Context, summary *RunSummary, cik, form string, mode Mode, timings map[string]int64, tried []string, err error) error {
	stage := ""
	var se *StageError
	if errors.As(err, &se) {
		stage = se.Stage
	}
	log.Error().Str("cik", cik).Str("stage", stage).Err(err).Msg("ingestion failed")
	s.record(ctx, summary, cik, form, mode, timings, tried, domain.RunStatusFailed, stage, err.Error())
	s.metric().IngestRunsTotal.WithLabelValues(domain.RunStatusFailed).Inc()
	return err
}

func (s *Service) record(ctx context.Context, summary *RunSummary, cik, form string, mode Mode, timings map[string]int64, tried []string, status, stage, errMsg string) {
	for k, v := range timings {
		summary.Timings[k] = v
	}
	detail, _ := json.Marshal(map[string]interface{}{
		"documents_tried": tried,
		"timings_ms":      timings,
	})
	run := domain.IngestionRun{
		RunID:           summary.RunID,
		CIK:             cik,
		Form:            form,
		AccessionNumber: summary.Metadata.AccessionNumber,
		Mode:            string(mode),
		RowsStored:      summary.RowsStored,
		Status:          status,
		FailedStage:     stage,
		Error:           errMsg,
		Detail:          datatypes.JSON(detail),
	}
	if err := s.DB.WithContext(ctx).Create(&run).Error; err != nil {
		log.Warn().Str("run_id", run.RunID.String()).Err(err).Msg("could not record ingestion run")
	}
}

func (s *Service) countProbes(result *edgar.InfoTableResult) {
	m := s.metric()
	for range result.Tried[:len(result.Tried)-1] {
		m.DocumentProbesTotal.WithLabelValues("miss").Inc()
	}
	m.DocumentProbesTotal.WithLabelValues("hit").Inc()
}

func (s *Service) metric() *metrics.Metrics {
	if s.Metrics != nil {
		return s.Metrics
	}
	return metrics.Default()
}

func sinceMs(t time.Time) int64 {
	return time.Since(t).Milliseconds()
}
