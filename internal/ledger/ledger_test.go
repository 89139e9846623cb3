package ledger

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/personapool/internal/core"
)

func openLedger(t *testing.T, path, runID string) *Ledger {
	t.Helper()
	l, err := Open(context.Background(), path, Options{RunID: runID})
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestLedger_EmitAndList(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	l := openLedger(t, filepath.Join(dir, "ledger.db"), "run-1")
	ctx := context.Background()

	logPath := filepath.Join(dir, "deviceLogs", "chrome-alice.log")
	require.NoError(t, os.MkdirAll(filepath.Dir(logPath), 0o755))
	require.NoError(t, os.WriteFile(logPath, []byte("[SEVERE] favicon.ico 404\n"), 0o600))

	at := time.Date(2026, 10, 18, 9, 30, 0, 123, time.UTC)
	require.NoError(t, l.Emit(ctx, core.Record{Message: "Chrome browser logs for user: alice", Level: core.LevelInfo, Time: at, Attachment: logPath}))
	require.NoError(t, l.Emit(ctx, core.Record{Message: "Skip terminating & closing app on Cloud device", Level: core.LevelDebug}))

	// The source log may be overwritten by the next scenario.
	require.NoError(t, os.WriteFile(logPath, []byte("next run"), 0o600))

	entries, err := l.Records(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	first := entries[0]
	assert.Equal(t, "run-1", first.RunID)
	assert.Equal(t, core.LevelInfo, first.Level)
	assert.True(t, at.Equal(first.EmittedAt))
	assert.Equal(t, logPath, first.Attachment)
	copied, err := os.ReadFile(first.AttachmentCopy)
	require.NoError(t, err)
	assert.Equal(t, "[SEVERE] favicon.ico 404\n", string(copied))
	assert.Equal(t, filepath.Join(dir, "attachments", "run-1"), filepath.Dir(first.AttachmentCopy))

	second := entries[1]
	assert.Equal(t, core.LevelDebug, second.Level)
	assert.Empty(t, second.AttachmentCopy)
	assert.False(t, second.EmittedAt.IsZero())
	assert.Less(t, first.ID, second.ID)
}

func TestLedger_MissingAttachment(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	l := openLedger(t, filepath.Join(dir, "ledger.db"), "run-1")

	err := l.Emit(context.Background(), core.Record{Message: "logs", Attachment: filepath.Join(dir, "gone.log")})
	require.ErrorIs(t, err, os.ErrNotExist)

	entries, err := l.Records(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLedger_RunsAreSeparated(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "ledger.db")
	ctx := context.Background()

	a := openLedger(t, path, "run-a")
	require.NoError(t, a.Emit(ctx, core.Record{Message: "from a"}))
	require.NoError(t, a.Close())

	b := openLedger(t, path, "")
	assert.NotEmpty(t, b.RunID())
	require.NoError(t, b.Emit(ctx, core.Record{Message: "from b"}))

	onlyA, err := b.Records(ctx, "run-a")
	require.NoError(t, err)
	require.Len(t, onlyA, 1)
	assert.Equal(t, "from a", onlyA[0].Message)
	assert.Equal(t, core.LevelInfo, onlyA[0].Level)

	all, err := b.Records(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestOpen_EmptyPath(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), "", Options{})
	assert.Error(t, err)
}

func TestLedger_IsRunContextSink(t *testing.T) {
	t.Parallel()

	l := openLedger(t, filepath.Join(t.TempDir(), "ledger.db"), "run-1")
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	rc := &core.RunContext{Sink: l, Now: func() time.Time { return now }}

	require.NoError(t, rc.Emit(context.Background(), core.Record{Message: "hello"}))
	entries, err := l.Records(context.Background(), "run-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, now.Equal(entries[0].EmittedAt))
}
