// Package store persists runs and processed leads. Lead logging is a
// best-effort collaborator: sink failures are reported, never fatal.
package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/leadscout/internal/model"
)

// LeadLogger records one processed lead in a persistence sink.
type LeadLogger interface {
	LogLead(ctx context.Context, lead *model.Lead) error
}

// Store defines the full persistence interface for pipeline runs.
type Store interface {
	CreateRun(ctx context.Context, sources []string) (*model.Run, error)
	UpdateRunState(ctx context.Context, runID string, state model.RunState) error
	FinishRun(ctx context.Context, runID string, report *model.RunReport) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, limit int) ([]model.Run, error)

	// ForRun returns a LeadLogger that attributes leads to the given run.
	ForRun(runID string) LeadLogger

	Migrate(ctx context.Context) error
	Close() error
}

// Multi fans each lead out to several sinks. A failing sink is logged and
// skipped; Multi itself never returns an error.
type Multi struct {
	Sinks []LeadLogger
}

func (m *Multi) LogLead(ctx context.Context, lead *model.Lead) error {
	for _, sink := range m.Sinks {
		if err := sink.LogLead(ctx, lead); err != nil {
			zap.L().Warn("store: lead sink failed",
				zap.String("address", lead.Address),
				zap.Error(err),
			)
		}
	}
	return nil
}

// Nop discards leads. Used when no persistence is configured and in tests.
type Nop struct{}

func (Nop) LogLead(context.Context, *model.Lead) error { return nil }
