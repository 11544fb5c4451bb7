package job

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // pure Go sqlite driver
)

// SQLiteStore keeps jobs in a SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (creating if needed) a job database at dsn.
func OpenSQLite(ctx context.Context, dsn string) (*SQLiteStore, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("job: sqlite dsn required")
	}
	db, err := sql.Open("sqlite", withPragmas(dsn, 5000))
	if err != nil {
		return nil, err
	}
	if isMemoryDSN(dsn) {
		// every pooled connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}
	s := &SQLiteStore{db: db, now: time.Now}
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) ensureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS report_jobs (
            job_id TEXT PRIMARY KEY,
            status TEXT NOT NULL,
            error TEXT NOT NULL DEFAULT '',
            result BLOB,
            created_at INTEGER NOT NULL,
            done_at INTEGER NOT NULL DEFAULT 0
        );`,
		`CREATE INDEX IF NOT EXISTS idx_report_jobs_status_done ON report_jobs(status, done_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("job: schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) Create(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO report_jobs(job_id, status, created_at) VALUES(?, ?, ?)`,
		id, string(StatusPending), s.now().UnixNano())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrExists
	}
	return nil
}

func (s *SQLiteStore) Complete(ctx context.Context, id string, artifact *Artifact) error {
	if artifact == nil {
		artifact = &Artifact{}
	}
	payload, err := encodeArtifact(artifact)
	if err != nil {
		return err
	}
	return s.finish(ctx, id, `UPDATE report_jobs SET status=?, result=?, done_at=? WHERE job_id=? AND status=?`,
		string(StatusReady), payload, s.now().UnixNano(), id, string(StatusPending))
}

func (s *SQLiteStore) Fail(ctx context.Context, id string, message string) error {
	return s.finish(ctx, id, `UPDATE report_jobs SET status=?, error=?, done_at=? WHERE job_id=? AND status=?`,
		string(StatusFailed), message, s.now().UnixNano(), id, string(StatusPending))
}

func (s *SQLiteStore) finish(ctx context.Context, id, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return ErrAlreadyFinal
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*Job, error) {
	var (
		status  string
		message string
		result  []byte
		created int64
		done    int64
	)
	err := s.db.QueryRowContext(ctx, `SELECT status, error, result, created_at, done_at FROM report_jobs WHERE job_id=?`, id).
		Scan(&status, &message, &result, &created, &done)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	j := &Job{ID: id, Status: Status(status), Error: message, CreatedAt: time.Unix(0, created)}
	if done > 0 {
		j.DoneAt = time.Unix(0, done)
	}
	if j.Status == StatusReady && len(result) > 0 {
		if j.Artifact, err = decodeArtifact(result); err != nil {
			return nil, fmt.Errorf("job: decode %s: %w", id, err)
		}
	}
	return j, nil
}

func (s *SQLiteStore) Prune(ctx context.Context, before time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM report_jobs WHERE status IN (?, ?) AND done_at < ?`,
		string(StatusReady), string(StatusFailed), before.UnixNano())
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func isMemoryDSN(dsn string) bool {
	lower := strings.ToLower(dsn)
	return dsn == ":memory:" || strings.HasPrefix(lower, "file::memory:") || strings.Contains(lower, "mode=memory")
}

// withPragmas appends WAL and busy_timeout pragmas to file DSNs when missing.
func withPragmas(dsn string, busyTimeoutMS int) string {
	if isMemoryDSN(dsn) {
		return dsn
	}
	lower := strings.ToLower(dsn)
	if !strings.Contains(lower, "_pragma=journal_mode") {
		dsn = addPragma(dsn, "journal_mode(WAL)")
	}
	if busyTimeoutMS > 0 && !strings.Contains(lower, "_pragma=busy_timeout") {
		dsn = addPragma(dsn, fmt.Sprintf("busy_timeout(%d)", busyTimeoutMS))
	}
	return dsn
}

func addPragma(dsn, pragma string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=" + pragma
}
