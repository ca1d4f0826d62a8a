package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/sells-group/leadscout/internal/model"
)

// MemoryStore implements Store without persistence. It backs the
// "none" store driver and tests.
type MemoryStore struct {
	mu    sync.Mutex
	runs  map[string]*model.Run
	leads map[string][]*model.Lead
}

// NewMemory creates an empty MemoryStore.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		runs:  make(map[string]*model.Run),
		leads: make(map[string][]*model.Lead),
	}
}

func (m *MemoryStore) Migrate(_ context.Context) error { return nil }

func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) CreateRun(_ context.Context, sources []string) (*model.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	run := &model.Run{
		ID:        uuid.New().String(),
		Sources:   append([]string(nil), sources...),
		State:     model.StateIdle,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.runs[run.ID] = run
	return cloneRun(run), nil
}

func (m *MemoryStore) UpdateRunState(_ context.Context, runID string, state model.RunState) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	run, ok := m.runs[runID]
	if !ok {
		return eris.Errorf("memory: run %s not found", runID)
	}
	run.State = state
	run.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *MemoryStore) FinishRun(_ context.Context, runID string, report *model.RunReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	run, ok := m.runs[runID]
	if !ok {
		return eris.Errorf("memory: run %s not found", runID)
	}
	run.Report = report
	run.State = model.StateIdle
	run.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *MemoryStore) GetRun(_ context.Context, runID string) (*model.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	run, ok := m.runs[runID]
	if !ok {
		return nil, eris.Errorf("memory: run %s not found", runID)
	}
	return cloneRun(run), nil
}

func (m *MemoryStore) ListRuns(_ context.Context, limit int) ([]model.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if limit <= 0 {
		limit = 50
	}
	runs := make([]model.Run, 0, len(m.runs))
	for _, run := range m.runs {
		runs = append(runs, *cloneRun(run))
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})
	if len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// ForRun returns a LeadLogger accumulating in memory under runID.
func (m *MemoryStore) ForRun(runID string) LeadLogger {
	return &memoryLeadLogger{m: m, runID: runID}
}

// Leads returns the leads logged for a run, in log order.
func (m *MemoryStore) Leads(runID string) []*model.Lead {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*model.Lead(nil), m.leads[runID]...)
}

type memoryLeadLogger struct {
	m     *MemoryStore
	runID string
}

func (l *memoryLeadLogger) LogLead(_ context.Context, lead *model.Lead) error {
	l.m.mu.Lock()
	defer l.m.mu.Unlock()
	l.m.leads[l.runID] = append(l.m.leads[l.runID], lead)
	return nil
}

func cloneRun(run *model.Run) *model.Run {
	out := *run
	out.Sources = append([]string(nil), run.Sources...)
	return &out
}
