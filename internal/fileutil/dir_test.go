package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDir(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	plain := writeFile(t, root, "plain.txt", "x")
	tests := map[string]struct {
		path    string
		wantErr bool
	}{
		"nested":       {path: filepath.Join(root, "run", "deviceLogs")},
		"existing":     {path: root},
		"under a file": {path: filepath.Join(plain, "child"), wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := EnsureDir(tc.path)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.DirExists(t, tc.path)
		})
	}
}

func TestEnsureDirForFile(t *testing.T) {
	t.Parallel()

	logPath := filepath.Join(t.TempDir(), "scenario", "deviceLogs", "chrome-alice.log")
	require.NoError(t, EnsureDirForFile(logPath))
	assert.DirExists(t, filepath.Dir(logPath))
	assert.NoFileExists(t, logPath)
}

func writeFile(tb testing.TB, dir, name, content string) string {
	tb.Helper()
	path := filepath.Join(dir, name)
	require.NoError(tb, os.WriteFile(path, []byte(content), 0o600))
	return path
}
