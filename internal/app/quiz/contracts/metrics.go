package contracts

import (
	"time"

	commitplan "github.com/murkotick/quiz-authoring-service/internal/pkg/committer"
)

// SaveMetrics records the outcome of save attempts.
type SaveMetrics interface {
	ObserveSave(kind, outcome string, summary commitplan.Summary, elapsed time.Duration)
}

// NopSaveMetrics discards observations.
type NopSaveMetrics struct{}

func (NopSaveMetrics) ObserveSave(string, string, commitplan.Summary, time.Duration) {}
