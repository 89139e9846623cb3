package web

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giantswarm/personapool/internal/core"
	"github.com/giantswarm/personapool/internal/ledger"
	"github.com/giantswarm/personapool/internal/webdriver"
)

type fakeBrowser struct {
	visited   []string
	maximized bool
	quits     int
	navErr    error
	quitErr   error
}

func (b *fakeBrowser) ExecuteScript(string, ...any) (any, error) { return nil, nil }

func (b *fakeBrowser) Navigate(url string) error {
	b.visited = append(b.visited, url)
	return b.navErr
}

func (b *fakeBrowser) MaximizeWindow() error {
	b.maximized = true
	return nil
}

func (b *fakeBrowser) Quit() error {
	b.quits++
	return b.quitErr
}

type fakeLauncher struct {
	browser *fakeBrowser
	err     error
	opts    []webdriver.Options
}

func (l *fakeLauncher) Launch(_ context.Context, opts webdriver.Options) (core.Browser, error) {
	l.opts = append(l.opts, opts)
	if l.err != nil {
		return nil, l.err
	}
	return l.browser, nil
}

type recordingSink struct {
	records []core.Record
	err     error
}

func (s *recordingSink) Emit(_ context.Context, r core.Record) error {
	s.records = append(s.records, r)
	return s.err
}

func TestPolicyDefaults(t *testing.T) {
	t.Parallel()

	p := New(Config{Launcher: &fakeLauncher{}})
	assert.Equal(t, core.PlatformWeb, p.Platform())
	assert.Equal(t, 2, p.Capacity())
	assert.Equal(t, DefaultRemoteURL, p.remoteURL)

	assert.IsType(t, &webdriver.Launcher{}, New(Config{}).launcher)
}

func TestCreate_Attended(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	launcher := &fakeLauncher{browser: &fakeBrowser{}}
	rc := &core.RunContext{ScenarioLogDir: dir, BaseURL: "https://shop.example.test"}

	got, err := New(Config{Launcher: launcher}).Create(context.Background(), "alice", rc)
	require.NoError(t, err)

	wantLog := filepath.Join(dir, "deviceLogs", "chrome-alice.log")
	assert.Equal(t, wantLog, got.LogPath)
	assert.DirExists(t, filepath.Dir(wantLog))
	assert.Same(t, launcher.browser, got.Session)
	assert.Equal(t, []string{"https://shop.example.test"}, launcher.browser.visited)
	assert.True(t, launcher.browser.maximized)

	require.Len(t, launcher.opts, 1)
	opts := launcher.opts[0]
	assert.Empty(t, opts.RemoteURL)
	assert.Equal(t, wantLog, opts.LogPath)
	assert.Equal(t, "alice", opts.Name)
	assert.Equal(t, ExcludedSwitches(), opts.ExcludeSwitches)
	assert.Equal(t, false, opts.Prefs["credentials_enable_service"])
	assert.Equal(t, map[string]any{"jhb": true}, opts.Prefs["protocol_handler.excluded_schemes"])
}

func TestCreate_UnattendedUsesRemote(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		remote string
		want   string
	}{
		"default hub":  {want: DefaultRemoteURL},
		"override hub": {remote: "http://grid.internal:4444/wd/hub", want: "http://grid.internal:4444/wd/hub"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			launcher := &fakeLauncher{browser: &fakeBrowser{}}
			rc := &core.RunContext{Mode: core.ModeUnattended, ScenarioLogDir: t.TempDir(), BaseURL: "https://shop.example.test"}

			_, err := New(Config{Launcher: launcher, RemoteURL: tc.remote}).Create(context.Background(), "bob", rc)
			require.NoError(t, err)
			require.Len(t, launcher.opts, 1)
			assert.Equal(t, tc.want, launcher.opts[0].RemoteURL)
		})
	}
}

func TestCreate_Failures(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		mode       core.ExecutionMode
		baseURL    string
		remote     string
		launchErr  error
		navErr     error
		wantErr    error
		wantLaunch bool
		wantQuit   bool
	}{
		"missing base URL": {
			wantErr: core.ErrMissingConfiguration,
		},
		"malformed remote URL": {
			mode:    core.ModeUnattended,
			baseURL: "https://shop.example.test",
			remote:  "not a url",
			wantErr: core.ErrEnvironmentSetup,
		},
		"remote URL without scheme": {
			mode:    core.ModeUnattended,
			baseURL: "https://shop.example.test",
			remote:  "localhost:4444",
			wantErr: core.ErrEnvironmentSetup,
		},
		"remote URL with unsupported scheme": {
			mode:    core.ModeUnattended,
			baseURL: "https://shop.example.test",
			remote:  "ftp://grid.internal/wd/hub",
			wantErr: core.ErrEnvironmentSetup,
		},
		"remote URL without host": {
			mode:    core.ModeUnattended,
			baseURL: "https://shop.example.test",
			remote:  "http:///wd/hub",
			wantErr: core.ErrEnvironmentSetup,
		},
		"launch failure": {
			baseURL:    "https://shop.example.test",
			launchErr:  &core.EnvironmentSetupError{Reason: "chromedriver not ready"},
			wantErr:    core.ErrEnvironmentSetup,
			wantLaunch: true,
		},
		"navigation failure quits browser": {
			baseURL:    "https://shop.example.test",
			navErr:     errors.New("net::ERR_NAME_NOT_RESOLVED"),
			wantLaunch: true,
			wantQuit:   true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			b := &fakeBrowser{navErr: tc.navErr}
			launcher := &fakeLauncher{browser: b, err: tc.launchErr}
			rc := &core.RunContext{Mode: tc.mode, ScenarioLogDir: t.TempDir(), BaseURL: tc.baseURL}

			_, err := New(Config{Launcher: launcher, RemoteURL: tc.remote}).Create(context.Background(), "alice", rc)
			require.Error(t, err)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			}
			if tc.navErr != nil {
				assert.ErrorIs(t, err, tc.navErr)
			}
			assert.Equal(t, tc.wantLaunch, len(launcher.opts) == 1)
			assert.Equal(t, tc.wantQuit, b.quits == 1)
		})
	}
}

func TestClose(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		sinkErr  error
		quitErr  error
		wantErrs []string
	}{
		"clean": {},
		"attachment failure still quits": {
			sinkErr:  errors.New("attachment missing"),
			wantErrs: []string{"attach browser log: attachment missing"},
		},
		"both fail": {
			sinkErr:  errors.New("attachment missing"),
			quitErr:  errors.New("invalid session id"),
			wantErrs: []string{"attachment missing", "quit browser: invalid session id"},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			b := &fakeBrowser{quitErr: tc.quitErr}
			sink := &recordingSink{err: tc.sinkErr}
			rc := &core.RunContext{TestName: "checkout", ScenarioLogDir: t.TempDir(), BaseURL: "https://shop.example.test", Sink: sink}
			p := New(Config{Launcher: &fakeLauncher{browser: b}})
			pool := core.NewPool(rc, core.PoolConfig{Policies: []core.Policy{p}})
			h, err := pool.Allocate(context.Background(), "alice", core.PlatformWeb)
			require.NoError(t, err)
			require.NoError(t, os.WriteFile(h.LogPath(), []byte("[INFO] console"), 0o600))

			err = p.Close(context.Background(), h, rc)
			assert.Equal(t, 1, b.quits)
			require.Len(t, sink.records, 1)
			assert.Equal(t, "Chrome browser logs for user: alice", sink.records[0].Message)
			assert.Equal(t, h.LogPath(), sink.records[0].Attachment)
			if len(tc.wantErrs) == 0 {
				assert.NoError(t, err)
				return
			}
			for _, want := range tc.wantErrs {
				assert.ErrorContains(t, err, want)
			}
		})
	}
}

func TestClose_NilSession(t *testing.T) {
	t.Parallel()

	b := &fakeBrowser{}
	sink := &recordingSink{}
	rc := &core.RunContext{ScenarioLogDir: t.TempDir(), BaseURL: "https://shop.example.test", Sink: sink}
	p := New(Config{Launcher: &fakeLauncher{browser: b}})
	pool := core.NewPool(rc, core.PoolConfig{Policies: []core.Policy{p}})
	h, err := pool.Allocate(context.Background(), "alice", core.PlatformWeb)
	require.NoError(t, err)
	require.NoError(t, pool.TeardownAll(context.Background()))
	require.True(t, h.Closed())

	require.NoError(t, p.Close(context.Background(), h, rc))
	assert.Equal(t, 1, b.quits, "a closed handle has no browser to quit")
	assert.Len(t, sink.records, 2)
}

func TestTeardown_UnattendedReportsWithoutLocalLog(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	lg, err := ledger.Open(ctx, filepath.Join(dir, "ledger.db"), ledger.Options{RunID: "run-1"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = lg.Close() })

	b := &fakeBrowser{}
	rc := &core.RunContext{
		TestName:       "checkout",
		Mode:           core.ModeUnattended,
		ScenarioLogDir: filepath.Join(dir, "logs"),
		BaseURL:        "https://shop.example.test",
		Sink:           lg,
	}
	p := New(Config{Launcher: &fakeLauncher{browser: b}})
	pool := core.NewPool(rc, core.PoolConfig{Policies: []core.Policy{p}})
	_, err = pool.Allocate(ctx, "alice", core.PlatformWeb)
	require.NoError(t, err)

	require.NoError(t, pool.TeardownAll(ctx))
	assert.Equal(t, 1, b.quits)

	entries, err := lg.Records(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Chrome browser logs for user: alice", entries[0].Message)
	assert.Empty(t, entries[0].Attachment)
}

func TestTeardown_AttendedAttachesLocalLog(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	lg, err := ledger.Open(ctx, filepath.Join(dir, "ledger.db"), ledger.Options{RunID: "run-1"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = lg.Close() })

	rc := &core.RunContext{
		TestName:       "checkout",
		ScenarioLogDir: filepath.Join(dir, "logs"),
		BaseURL:        "https://shop.example.test",
		Sink:           lg,
	}
	p := New(Config{Launcher: &fakeLauncher{browser: &fakeBrowser{}}})
	pool := core.NewPool(rc, core.PoolConfig{Policies: []core.Policy{p}})
	h, err := pool.Allocate(ctx, "alice", core.PlatformWeb)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(h.LogPath(), []byte("[INFO] console"), 0o600))

	require.NoError(t, pool.TeardownAll(ctx))

	entries, err := lg.Records(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, LogPath(rc.ScenarioLogDir, "alice"), entries[0].Attachment)
	assert.FileExists(t, entries[0].AttachmentCopy)
}
