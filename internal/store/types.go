package store

import (
	"errors"
	"time"

	"github.com/danielpatrickdp/walk-cycle/go-walker/internal/gait"
)

// ErrNotFound is returned when a clip id has no row.
var ErrNotFound = errors.New("not found")

// #region clip-summary
// ClipSummary is the list view of a stored clip.
type ClipSummary struct {
	ID        string      `json:"id"`
	Name      string      `json:"name,omitempty"`
	Evaluator string      `json:"evaluator"`
	Frequency float64     `json:"frequency"`
	Keyframes int         `json:"keyframes"`
	Traits    gait.Traits `json:"traits"`
	CreatedAt time.Time   `json:"created_at"`
}

// #endregion clip-summary

// #region generation-entry
// GenerationEntry is a single row in the generation_log table.
type GenerationEntry struct {
	ClipID      string
	TriggerType string // "generate" | "batch" | "rest"
	Evaluator   string
	Warnings    []string
	DurationMs  int64
	CreatedAt   time.Time
}

// #endregion generation-entry
