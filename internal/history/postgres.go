package history

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-jobapply-automation/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS job_applications (
	url          TEXT PRIMARY KEY,
	title        TEXT NOT NULL DEFAULT '',
	status       TEXT NOT NULL,
	reason       TEXT NOT NULL DEFAULT '',
	run_id       TEXT NOT NULL DEFAULT '',
	attempted_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type PostgresStore struct {
	db *pgxpool.Pool
}

func OpenPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 4
	config.MinConns = 1
	config.MaxConnLifetime = time.Hour

	// Transaction-mode poolers reject prepared statements.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create history table: %w", err)
	}

	return &PostgresStore{db: pool}, nil
}

func (s *PostgresStore) Applied(ctx context.Context, url string) (bool, error) {
	var status string
	err := s.db.QueryRow(ctx, "SELECT status FROM job_applications WHERE url = $1", url).Scan(&status)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up application: %w", err)
	}
	return status == string(models.StatusApplied), nil
}

// Record upserts by URL, keeping an APPLIED row as it is.
func (s *PostgresStore) Record(ctx context.Context, app models.Application) error {
	query := `
		INSERT INTO job_applications (url, title, status, reason, run_id, attempted_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (url)
		DO UPDATE SET title = EXCLUDED.title, status = EXCLUDED.status, reason = EXCLUDED.reason,
			run_id = EXCLUDED.run_id, attempted_at = EXCLUDED.attempted_at
		WHERE job_applications.status <> 'APPLIED'`

	attempted := app.AttemptedAt
	if attempted.IsZero() {
		attempted = time.Now()
	}
	_, err := s.db.Exec(ctx, query, app.URL, app.Title, string(app.Status), app.Reason, app.RunID, attempted)
	if err != nil {
		return fmt.Errorf("failed to record application: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	if s.db != nil {
		s.db.Close()
	}
	return nil
}
