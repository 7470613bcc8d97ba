// Package adminlog stores a summary of every archive run in PostgreSQL, so operators
// can query which archives were relayed and which entries failed.
package adminlog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finnishtransportagency/raita-sub002/extractor"
)

// schema creates the admin log tables
const schema = `
CREATE TABLE IF NOT EXISTS extraction_log (
    run_id        TEXT        PRIMARY KEY,
    archive       TEXT        NOT NULL,
    target_bucket TEXT        NOT NULL,
    key_prefix    TEXT        NOT NULL,
    success_count INTEGER     NOT NULL DEFAULT 0,
    failure_count INTEGER     NOT NULL DEFAULT 0,
    stream_error  TEXT,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS extraction_failure (
    id        BIGSERIAL PRIMARY KEY,
    run_id    TEXT      NOT NULL REFERENCES extraction_log (run_id),
    file_name TEXT      NOT NULL,
    cause     TEXT      NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_extraction_log_archive ON extraction_log (archive);
CREATE INDEX IF NOT EXISTS idx_extraction_failure_run ON extraction_failure (run_id);
`

const (
	insertRun = `INSERT INTO extraction_log (run_id, archive, target_bucket, key_prefix, success_count, failure_count, stream_error)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	insertFailure = `INSERT INTO extraction_failure (run_id, file_name, cause) VALUES ($1, $2, $3)`
)

// DB is the subset of [pgxpool.Pool] used by the sink.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Run identifies one archive run.
type Run struct {
	Archive      string
	TargetBucket string
	KeyPrefix    string
}

// PostgresSink writes run summaries to PostgreSQL.
type PostgresSink struct {
	db DB
}

// NewPostgresSink creates a sink that writes to db.
func NewPostgresSink(db DB) *PostgresSink {
	return &PostgresSink{db: db}
}

// Connect opens a connection pool for dsn and creates the admin log tables.
// The caller closes the returned pool.
func Connect(ctx context.Context, dsn string) (*PostgresSink, *pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping postgres: %w", err)
	}

	sink := NewPostgresSink(pool)
	if err := sink.Migrate(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return sink, pool, nil
}

// Migrate creates the admin log tables if they do not exist.
func (s *PostgresSink) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate admin log: %w", err)
	}
	return nil
}

// Record stores the summary row of res and one row per failed entry. All rows are
// sent as one batch.
func (s *PostgresSink) Record(ctx context.Context, run Run, res *extractor.Result) error {
	var streamErr string
	if res.StreamError != nil {
		streamErr = res.StreamError.Error()
	}

	b := &pgx.Batch{}
	b.Queue(insertRun,
		res.RunID,
		run.Archive,
		run.TargetBucket,
		run.KeyPrefix,
		len(res.Entries.Success),
		len(res.Entries.Failure),
		toPgText(streamErr),
	)
	for _, rec := range res.Entries.Failure {
		b.Queue(insertFailure, res.RunID, rec.FileName, rec.FailureCause)
	}

	br := s.db.SendBatch(ctx, b)
	for i := 0; i < b.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("record run %s: %w", res.RunID, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("record run %s: %w", res.RunID, err)
	}
	return nil
}

func toPgText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}
