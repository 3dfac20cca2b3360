package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Run outcomes.
const (
	RunStatusOK      = "ok"
	RunStatusSkipped = "skipped"
	RunStatusFailed  = "failed"
)

// IngestionRun is the audit row written for every ingestion attempt,
// successful or not. Detail holds the probed document names and
// per-stage timings as JSON.
type IngestionRun struct {
	RunID           uuid.UUID      `gorm:"column:run_id;type:uuid;primaryKey" json:"run_id"`
	CIK             string         `gorm:"column:cik" json:"cik"`
	Form            string         `gorm:"column:form" json:"form"`
	AccessionNumber string         `gorm:"column:accessionNumber" json:"accessionNumber"`
	Mode            string         `gorm:"column:mode" json:"mode"`
	RowsStored      int            `gorm:"column:rows_stored" json:"rows_stored"`
	Status          string         `gorm:"column:status" json:"status"`
	FailedStage     string         `gorm:"column:failed_stage" json:"failed_stage,omitempty"`
	Error           string         `gorm:"column:error" json:"error,omitempty"`
	Detail          datatypes.JSON `gorm:"column:detail" json:"detail"`
	CreatedAt       time.Time      `gorm:"column:created_at" json:"created_at"`
}

func (IngestionRun) TableName() string {
	return "ingestion_runs"
}

func (r *IngestionRun) BeforeCreate(tx *gorm.DB) error {
	if r.RunID == uuid.Nil {
		r.RunID = uuid.New()
	}
	return nil
}
