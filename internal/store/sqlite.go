package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/leadscout/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	sources    TEXT NOT NULL,
	state      TEXT NOT NULL DEFAULT 'idle',
	report     TEXT,
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS leads (
	id         TEXT PRIMARY KEY,
	run_id     TEXT REFERENCES runs(id),
	address    TEXT NOT NULL,
	owner      TEXT NOT NULL,
	status     TEXT NOT NULL,
	lead       TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_runs_state ON runs(state);
CREATE INDEX IF NOT EXISTS idx_leads_run_id ON leads(run_id);
CREATE INDEX IF NOT EXISTS idx_leads_owner ON leads(owner);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateRun(ctx context.Context, sources []string) (*model.Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	sourcesJSON, err := json.Marshal(sources)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal sources")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, sources, state, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		id, string(sourcesJSON), string(model.StateIdle), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}

	return &model.Run{
		ID:        id,
		Sources:   sources,
		State:     model.StateIdle,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *SQLiteStore) UpdateRunState(ctx context.Context, runID string, state model.RunState) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET state = ?, updated_at = ? WHERE id = ?`,
		string(state), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update run state %s", runID)
	}
	return checkRowsAffected(res, runID)
}

func (s *SQLiteStore) FinishRun(ctx context.Context, runID string, report *model.RunReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal report")
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET report = ?, state = ?, updated_at = ? WHERE id = ?`,
		string(reportJSON), string(model.StateIdle), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: finish run %s", runID)
	}
	return checkRowsAffected(res, runID)
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, sources, state, report, created_at, updated_at FROM runs WHERE id = ?`,
		runID,
	)
	run, err := scanRun(row)
	if err != nil {
		if eris.Is(err, sql.ErrNoRows) {
			return nil, eris.Errorf("sqlite: run %s not found", runID)
		}
		return nil, err
	}
	return run, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]model.Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, sources, state, report, created_at, updated_at FROM runs ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: iterate runs")
}

// ForRun returns a LeadLogger writing to the leads table under runID.
func (s *SQLiteStore) ForRun(runID string) LeadLogger {
	return &sqliteLeadLogger{s: s, runID: runID}
}

type sqliteLeadLogger struct {
	s     *SQLiteStore
	runID string
}

func (l *sqliteLeadLogger) LogLead(ctx context.Context, lead *model.Lead) error {
	leadJSON, err := json.Marshal(lead)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal lead")
	}

	_, err = l.s.db.ExecContext(ctx,
		`INSERT INTO leads (id, run_id, address, owner, status, lead, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), l.runID, lead.Address, lead.Owner, string(lead.Status), string(leadJSON), time.Now().UTC(),
	)
	return eris.Wrap(err, "sqlite: insert lead")
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*model.Run, error) {
	var run model.Run
	var sourcesJSON string
	var reportJSON sql.NullString

	if err := row.Scan(&run.ID, &sourcesJSON, &run.State, &reportJSON, &run.CreatedAt, &run.UpdatedAt); err != nil {
		if eris.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, eris.Wrap(err, "sqlite: scan run")
	}

	if err := json.Unmarshal([]byte(sourcesJSON), &run.Sources); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal sources")
	}
	if reportJSON.Valid && reportJSON.String != "" {
		var report model.RunReport
		if err := json.Unmarshal([]byte(reportJSON.String), &report); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal report")
		}
		run.Report = &report
	}

	return &run, nil
}

func checkRowsAffected(res sql.Result, runID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Errorf("sqlite: run %s not found", runID)
	}
	return nil
}
