package adminlog

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finnishtransportagency/raita-sub002/extractor"
)

// fakeDB records executed statements and batches
type fakeDB struct {
	execs   []string
	batches []*pgx.Batch
	execErr error
	failAt  int
}

func (f *fakeDB) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, sql)
	return pgconn.NewCommandTag("CREATE TABLE"), f.execErr
}

func (f *fakeDB) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	f.batches = append(f.batches, b)
	return &fakeResults{failAt: f.failAt}
}

// fakeResults fails the Exec call with index failAt-1, if failAt is set
type fakeResults struct {
	n      int
	failAt int
	closed bool
}

func (f *fakeResults) Exec() (pgconn.CommandTag, error) {
	f.n++
	if f.n == f.failAt {
		return pgconn.CommandTag{}, errors.New("violates foreign key constraint")
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (f *fakeResults) Query() (pgx.Rows, error) { return nil, errors.New("not implemented") }
func (f *fakeResults) QueryRow() pgx.Row { return nil }
func (f *fakeResults) Close() error {
	f.closed = true
	return nil
}

func TestRecord(t *testing.T) {
	db := &fakeDB{}
	res := extractor.Aggregate([]extractor.EntryRecord{
		{FileName: "a.csv", Status: extractor.StatusSuccess},
		{FileName: "b.csv", Status: extractor.StatusFailure, FailureCause: "Upload to S3 failed: disk full"},
		{FileName: "c.csv", Status: extractor.StatusFailure, FailureCause: "Failed to open read stream: zip: not a valid zip file"},
	}, errors.New("connection reset"))
	res.RunID = "run-1"

	err := NewPostgresSink(db).Record(context.Background(), Run{Archive: "s3://in/a.zip", TargetBucket: "out", KeyPrefix: "a"}, res)
	require.NoError(t, err)

	require.Len(t, db.batches, 1)
	q := db.batches[0].QueuedQueries
	require.Len(t, q, 3)

	assert.Equal(t, insertRun, q[0].SQL)
	assert.Equal(t, []any{"run-1", "s3://in/a.zip", "out", "a", 1, 2, pgtype.Text{String: "connection reset", Valid: true}}, q[0].Arguments)

	assert.Equal(t, insertFailure, q[1].SQL)
	assert.Equal(t, []any{"run-1", "b.csv", "Upload to S3 failed: disk full"}, q[1].Arguments)
	assert.Equal(t, []any{"run-1", "c.csv", "Failed to open read stream: zip: not a valid zip file"}, q[2].Arguments)
}

func TestRecordWithoutStreamError(t *testing.T) {
	db := &fakeDB{}
	res := extractor.Aggregate(nil, nil)
	res.RunID = "run-2"

	require.NoError(t, NewPostgresSink(db).Record(context.Background(), Run{Archive: "a.zip"}, res))
	q := db.batches[0].QueuedQueries
	require.Len(t, q, 1)
	assert.Equal(t, pgtype.Text{}, q[0].Arguments[6])
}

func TestRecordError(t *testing.T) {
	db := &fakeDB{failAt: 2}
	res := extractor.Aggregate([]extractor.EntryRecord{
		{FileName: "b.csv", Status: extractor.StatusFailure, FailureCause: "x"},
	}, nil)
	res.RunID = "run-3"

	err := NewPostgresSink(db).Record(context.Background(), Run{Archive: "a.zip"}, res)
	assert.EqualError(t, err, "record run run-3: violates foreign key constraint")
}

func TestMigrate(t *testing.T) {
	db := &fakeDB{}
	require.NoError(t, NewPostgresSink(db).Migrate(context.Background()))
	require.Len(t, db.execs, 1)
	assert.Contains(t, db.execs[0], "CREATE TABLE IF NOT EXISTS extraction_log")
	assert.Contains(t, db.execs[0], "CREATE TABLE IF NOT EXISTS extraction_failure")

	db.execErr = errors.New("permission denied")
	assert.EqualError(t, NewPostgresSink(db).Migrate(context.Background()), "migrate admin log: permission denied")
}
