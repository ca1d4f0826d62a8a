package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/leadscout/internal/db"
	"github.com/sells-group/leadscout/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool db.Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool. Used by tests.
func NewPostgresWithPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	sources    JSONB NOT NULL,
	state      TEXT NOT NULL DEFAULT 'idle',
	report     JSONB,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS leads (
	id              TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	run_id          TEXT REFERENCES runs(id),
	address         TEXT NOT NULL,
	owner           TEXT NOT NULL,
	status          TEXT NOT NULL,
	lead            JSONB NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_runs_state ON runs(state);
CREATE INDEX IF NOT EXISTS idx_leads_run_id ON leads(run_id);
CREATE INDEX IF NOT EXISTS idx_leads_owner ON leads(owner);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateRun(ctx context.Context, sources []string) (*model.Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	sourcesJSON, err := json.Marshal(sources)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal sources")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO runs (id, sources, state, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		id, sourcesJSON, string(model.StateIdle), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert run")
	}

	return &model.Run{
		ID:        id,
		Sources:   sources,
		State:     model.StateIdle,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *PostgresStore) UpdateRunState(ctx context.Context, runID string, state model.RunState) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE runs SET state = $1, updated_at = $2 WHERE id = $3`,
		string(state), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update run state %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("run not found: %s", runID)
	}
	return nil
}

func (s *PostgresStore) FinishRun(ctx context.Context, runID string, report *model.RunReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal report")
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE runs SET report = $1, state = $2, updated_at = $3 WHERE id = $4`,
		reportJSON, string(model.StateIdle), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: finish run %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("run not found: %s", runID)
	}
	return nil
}

func (s *PostgresStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	var r model.Run
	var sourcesJSON []byte
	var reportNull *[]byte

	err := s.pool.QueryRow(ctx,
		`SELECT id, sources, state, report, created_at, updated_at FROM runs WHERE id = $1`,
		runID,
	).Scan(&r.ID, &sourcesJSON, &r.State, &reportNull, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, eris.Errorf("run not found: %s", runID)
		}
		return nil, eris.Wrapf(err, "postgres: get run %s", runID)
	}

	if err := json.Unmarshal(sourcesJSON, &r.Sources); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal sources")
	}
	if reportNull != nil {
		r.Report = &model.RunReport{}
		if err := json.Unmarshal(*reportNull, r.Report); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal report")
		}
	}
	return &r, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, limit int) ([]model.Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, sources, state, report, created_at, updated_at FROM runs ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		var r model.Run
		var sourcesJSON []byte
		var reportNull *[]byte

		if err := rows.Scan(&r.ID, &sourcesJSON, &r.State, &reportNull, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		if err := json.Unmarshal(sourcesJSON, &r.Sources); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal sources")
		}
		if reportNull != nil {
			r.Report = &model.RunReport{}
			if err := json.Unmarshal(*reportNull, r.Report); err != nil {
				return nil, eris.Wrap(err, "postgres: unmarshal report")
			}
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: list runs iterate")
}

// ForRun returns a LeadLogger writing to the leads table under runID.
func (s *PostgresStore) ForRun(runID string) LeadLogger {
	return &postgresLeadLogger{s: s, runID: runID}
}

type postgresLeadLogger struct {
	s     *PostgresStore
	runID string
}

func (l *postgresLeadLogger) LogLead(ctx context.Context, lead *model.Lead) error {
	leadJSON, err := json.Marshal(lead)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal lead")
	}

	_, err = l.s.pool.Exec(ctx,
		`INSERT INTO leads (id, run_id, address, owner, status, lead, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.New().String(), l.runID, lead.Address, lead.Owner, string(lead.Status), leadJSON, time.Now().UTC(),
	)
	return eris.Wrap(err, "postgres: insert lead")
}
