package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RewriteRun is one /api/run-agent invocation persisted for history and
// offline evaluation.
type RewriteRun struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	InputText       string    `gorm:"type:text;not null" json:"input_text"`
	Audience        string    `gorm:"index" json:"audience,omitempty"`
	Intent          string    `json:"intent,omitempty"`
	ProductCategory string    `json:"product_category,omitempty"`
	LatencyMS       int       `json:"latency_ms"`
	TotalPlatforms  int       `json:"total_platforms"`
	OKCount         int       `json:"ok_count"`
	FailedCount     int       `json:"failed_count"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`

	Results []RewriteRunResult `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE" json:"results,omitempty"`
}

// RewriteRunResult is the stored per-platform outcome of a run.
type RewriteRunResult struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	RunID         uuid.UUID      `gorm:"type:uuid;index;not null" json:"run_id"`
	Platform      string         `gorm:"index;not null" json:"platform"`
	RewrittenText string         `gorm:"type:text" json:"rewritten_text"`
	Explanation   string         `gorm:"type:text" json:"explanation"`
	ValidationOK  bool           `json:"validation_ok"`
	Issues        datatypes.JSON `json:"issues,omitempty"`
	Entities      datatypes.JSON `json:"entities,omitempty"`
	ExamplesUsed  datatypes.JSON `json:"examples_used,omitempty"`
	Error         string         `gorm:"type:text" json:"error,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}
