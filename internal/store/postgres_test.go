package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadscout/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return NewPostgresWithPool(mock), mock
}

func TestPostgresStore_CreateRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO runs`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), string(model.StateIdle), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	run, err := s.CreateRun(context.Background(), []string{"sample"})
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.StateIdle, run.State)
	assert.Equal(t, []string{"sample"}, run.Sources)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateRunState(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE runs SET state = \$1`).
		WithArgs(string(model.StateSourcing), pgxmock.AnyArg(), "run-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := s.UpdateRunState(context.Background(), "run-1", model.StateSourcing)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateRunState_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE runs SET state = \$1`).
		WithArgs(string(model.StateSourcing), pgxmock.AnyArg(), "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.UpdateRunState(context.Background(), "missing", model.StateSourcing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_FinishRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE runs SET report = \$1`).
		WithArgs(pgxmock.AnyArg(), string(model.StateIdle), pgxmock.AnyArg(), "run-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := s.FinishRun(context.Background(), "run-1", &model.RunReport{TotalLeads: 5})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	now := time.Now().UTC()
	report, err := json.Marshal(&model.RunReport{TotalLeads: 2})
	require.NoError(t, err)

	rows := pgxmock.NewRows([]string{"id", "sources", "state", "report", "created_at", "updated_at"}).
		AddRow("run-1", []byte(`["sample"]`), model.RunState("idle"), &report, now, now)
	mock.ExpectQuery(`SELECT id, sources, state, report, created_at, updated_at FROM runs WHERE id = \$1`).
		WithArgs("run-1").
		WillReturnRows(rows)

	run, err := s.GetRun(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, []string{"sample"}, run.Sources)
	require.NotNil(t, run.Report)
	assert.Equal(t, 2, run.Report.TotalLeads)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetRun_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, sources, state, report, created_at, updated_at FROM runs WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetRun(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListRuns(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	now := time.Now().UTC()
	rows := pgxmock.NewRows([]string{"id", "sources", "state", "report", "created_at", "updated_at"}).
		AddRow("run-2", []byte(`[]`), model.RunState("idle"), (*[]byte)(nil), now, now).
		AddRow("run-1", []byte(`["sample"]`), model.RunState("idle"), (*[]byte)(nil), now.Add(-time.Hour), now.Add(-time.Hour))
	mock.ExpectQuery(`SELECT id, sources, state, report, created_at, updated_at FROM runs ORDER BY created_at DESC`).
		WithArgs(10).
		WillReturnRows(rows)

	runs, err := s.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].ID)
	assert.Nil(t, runs[0].Report)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ForRun_LogLead(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO leads`).
		WithArgs(pgxmock.AnyArg(), "run-1", "123 Main St, Manhattan, NY", "John Smith", string(model.StatusNew), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	logger := s.ForRun("run-1")
	err := logger.LogLead(context.Background(), &model.Lead{
		Address: "123 Main St, Manhattan, NY",
		Owner:   "John Smith",
		Status:  model.StatusNew,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Migrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS runs`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
