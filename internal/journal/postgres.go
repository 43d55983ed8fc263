package journal

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/Vishnu2707/Text-to-Audio-Converter-Using-AWS-S3-Lambda-and-Polly/pkg/model"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

// PostgresJournal records conversion outcomes for alerting and
// dead-letter review. It is observability, not conversion state: the
// handler never consults it and works without it.
type PostgresJournal struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

// NewPostgresJournal opens the journal database and applies migrations
func NewPostgresJournal(ctx context.Context, databaseURL string, log *zap.Logger) (*PostgresJournal, error) {
	if log == nil {
		log = zap.NewNop()
	}

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("Journal database connection established")

	if err := runMigrations(databaseURL, log); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Journal migrations completed successfully")

	return &PostgresJournal{pool: pool, log: log}, nil
}

// Executing database migrations
func runMigrations(databaseURL string, log *zap.Logger) error {
	migrationsPath, err := filepath.Abs("migrations")
	if err != nil {
		return fmt.Errorf("failed to get migrations path: %w", err)
	}
	migrationsURL := fmt.Sprintf("file://%s", filepath.ToSlash(migrationsPath))

	log.Info("Running migrations", zap.String("path", migrationsURL))

	connConfig, err := pgx.ParseConfig(databaseURL)
	if err != nil {
		return fmt.Errorf("failed to parse database URL: %w", err)
	}

	db := stdlib.OpenDB(*connConfig)
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create postgres driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(migrationsURL, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}

// CreateJob inserts a new job record
func (p *PostgresJournal) CreateJob(ctx context.Context, job *model.Job) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO conversion_jobs
			(id, source_bucket, source_key, destination_key, status,
			 error_kind, error_text, attempts, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		job.ID, job.SourceBucket, job.SourceKey, job.DestinationKey,
		job.Status, job.ErrorKind, job.ErrorText, job.Attempts,
		job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

// UpdateJob persists the job's current status fields
func (p *PostgresJournal) UpdateJob(ctx context.Context, job *model.Job) error {
	_, err := p.pool.Exec(ctx, `
		UPDATE conversion_jobs
		SET destination_key = $2, status = $3, error_kind = $4,
		    error_text = $5, attempts = $6, updated_at = $7
		WHERE id = $1`,
		job.ID, job.DestinationKey, job.Status, job.ErrorKind,
		job.ErrorText, job.Attempts, job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	return nil
}

// GetJobByID fetches one job record
func (p *PostgresJournal) GetJobByID(ctx context.Context, id string) (*model.Job, error) {
	row := p.pool.QueryRow(ctx, `
		SELECT id, source_bucket, source_key, destination_key, status,
		       error_kind, error_text, attempts, created_at, updated_at
		FROM conversion_jobs WHERE id = $1`, id)

	var job model.Job
	err := row.Scan(
		&job.ID, &job.SourceBucket, &job.SourceKey, &job.DestinationKey,
		&job.Status, &job.ErrorKind, &job.ErrorText, &job.Attempts,
		&job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return &job, nil
}

// ListFailedJobs returns the most recent failed jobs for dead-letter review
func (p *PostgresJournal) ListFailedJobs(ctx context.Context, limit int) ([]model.Job, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, source_bucket, source_key, destination_key, status,
		       error_kind, error_text, attempts, created_at, updated_at
		FROM conversion_jobs
		WHERE status = $1
		ORDER BY updated_at DESC
		LIMIT $2`, model.JobStatusFailed, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list failed jobs: %w", err)
	}
	defer rows.Close()

	var jobs []model.Job
	for rows.Next() {
		var job model.Job
		err := rows.Scan(
			&job.ID, &job.SourceBucket, &job.SourceKey, &job.DestinationKey,
			&job.Status, &job.ErrorKind, &job.ErrorText, &job.Attempts,
			&job.CreatedAt, &job.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// Close releases the connection pool
func (p *PostgresJournal) Close() {
	p.pool.Close()
}
