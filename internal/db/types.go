package db

import (
	"time"

	"github.com/google/uuid"
)

// Run status values
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Run represents a conversion run record
type Run struct {
	ID          uuid.UUID  `json:"id"`
	SourcePath  string     `json:"source_path"`
	Model       string     `json:"model"`
	Status      string     `json:"status"`
	Error       *string    `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// RunInput holds the fields needed to create a run
type RunInput struct {
	ID         uuid.UUID
	SourcePath string
	Model      string
}

// Artifact represents one persisted artifact with its Markdown and HTML renderings
type Artifact struct {
	ID        uuid.UUID `json:"id"`
	RunID     uuid.UUID `json:"run_id"`
	Name      string    `json:"name"`
	Markdown  string    `json:"markdown"`
	HTML      string    `json:"html"`
	CreatedAt time.Time `json:"created_at"`
}
