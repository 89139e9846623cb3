package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	// Pure-Go SQLite driver, no CGO.
	_ "modernc.org/sqlite"

	"github.com/giantswarm/personapool/internal/core"
	"github.com/giantswarm/personapool/internal/fileutil"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id          TEXT NOT NULL,
	level           TEXT NOT NULL,
	message         TEXT NOT NULL,
	emitted_at      TEXT NOT NULL,
	attachment      TEXT NOT NULL DEFAULT '',
	attachment_copy TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS records_run_id ON records (run_id, id);
`

// Options configures Open.
type Options struct {
	// RunID tags every record emitted through the ledger. Defaults to a
	// random UUID.
	RunID string
	// AttachmentDir receives attachment copies. Defaults to an
	// "attachments" directory next to the database.
	AttachmentDir string
	Logger        *slog.Logger
}

// Entry is a stored record.
type Entry struct {
	ID             int64
	RunID          string
	Level          core.Level
	Message        string
	EmittedAt      time.Time
	Attachment     string
	AttachmentCopy string
}

// Ledger is a core.Sink backed by SQLite. It is safe for concurrent use.
type Ledger struct {
	db        *sql.DB
	runID     string
	attachDir string
	log       *slog.Logger
}

var _ core.Sink = (*Ledger)(nil)

// Open opens or creates the ledger database at path.
func Open(ctx context.Context, path string, opts Options) (*Ledger, error) {
	if path == "" {
		return nil, errors.New("ledger path must not be empty")
	}
	if err := fileutil.EnsureDirForFile(path); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// One writer at a time; SQLite serializes writes anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create ledger schema: %w", err)
	}

	l := &Ledger{
		db:        db,
		runID:     opts.RunID,
		attachDir: opts.AttachmentDir,
		log:       opts.Logger,
	}
	if l.runID == "" {
		l.runID = uuid.NewString()
	}
	if l.attachDir == "" {
		l.attachDir = filepath.Join(filepath.Dir(path), "attachments")
	}
	if l.log == nil {
		l.log = core.Logger()
	}
	l.log = l.log.With("component", "ledger", "run_id", l.runID)
	return l, nil
}

// RunID returns the run the ledger writes records for.
func (l *Ledger) RunID() string {
	return l.runID
}

// Emit stores r. A record whose attachment cannot be read is rejected.
func (l *Ledger) Emit(ctx context.Context, r core.Record) error {
	if r.Time.IsZero() {
		r.Time = time.Now()
	}
	if r.Level == "" {
		r.Level = core.LevelInfo
	}

	var attachmentCopy string
	if r.Attachment != "" {
		dst := filepath.Join(l.attachDir, l.runID, uuid.NewString()+"-"+filepath.Base(r.Attachment))
		if err := fileutil.CopyFile(r.Attachment, dst, &fileutil.CopyFileOptions{Atomic: true}); err != nil {
			return fmt.Errorf("attach %s: %w", r.Attachment, err)
		}
		attachmentCopy = dst
	}

	_, err := l.db.ExecContext(ctx,
		`INSERT INTO records (run_id, level, message, emitted_at, attachment, attachment_copy) VALUES (?, ?, ?, ?, ?, ?)`,
		l.runID, string(r.Level), r.Message, r.Time.UTC().Format(time.RFC3339Nano), r.Attachment, attachmentCopy)
	if err != nil {
		if attachmentCopy != "" {
			_ = os.Remove(attachmentCopy)
		}
		return fmt.Errorf("store record: %w", err)
	}
	l.log.Debug("record stored", "level", r.Level, "message", r.Message)
	return nil
}

// Records lists the records of runID in emission order. An empty runID
// lists every run.
func (l *Ledger) Records(ctx context.Context, runID string) ([]Entry, error) {
	query := `SELECT id, run_id, level, message, emitted_at, attachment, attachment_copy FROM records`
	var args []any
	if runID != "" {
		query += ` WHERE run_id = ?`
		args = append(args, runID)
	}
	query += ` ORDER BY id`

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close() //nolint:errcheck // rows.Err below reports read errors

	var entries []Entry
	for rows.Next() {
		var (
			e         Entry
			level     string
			emittedAt string
		)
		if err := rows.Scan(&e.ID, &e.RunID, &level, &e.Message, &emittedAt, &e.Attachment, &e.AttachmentCopy); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		e.Level = core.Level(level)
		if e.EmittedAt, err = time.Parse(time.RFC3339Nano, emittedAt); err != nil {
			return nil, fmt.Errorf("record %d: parse time: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return entries, nil
}

// Close closes the database.
func (l *Ledger) Close() error {
	if err := l.db.Close(); err != nil {
		return fmt.Errorf("close ledger: %w", err)
	}
	return nil
}
