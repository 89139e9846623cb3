// Package web implements the session policy for Chrome browser sessions.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"

	"github.com/giantswarm/personapool/internal/core"
	"github.com/giantswarm/personapool/internal/fileutil"
	"github.com/giantswarm/personapool/internal/webdriver"
)

const (
	// DefaultCapacity is the number of concurrent browser sessions.
	DefaultCapacity = 2

	// DefaultRemoteURL is the Selenium hub unattended runs connect to.
	DefaultRemoteURL = "http://localhost:4444/wd/hub"
)

// Launcher starts a browser. *webdriver.Launcher implements it.
type Launcher interface {
	Launch(ctx context.Context, opts webdriver.Options) (core.Browser, error)
}

// Config configures a Policy.
type Config struct {
	// Launcher defaults to a webdriver.Launcher with its own port registry.
	Launcher Launcher
	// RemoteURL overrides DefaultRemoteURL.
	RemoteURL string
	// Capacity overrides DefaultCapacity.
	Capacity int
	Logger   *slog.Logger
}

// Policy is the core.Policy for core.PlatformWeb.
type Policy struct {
	launcher  Launcher
	remoteURL string
	capacity  int
	log       *slog.Logger
}

var _ core.Policy = (*Policy)(nil)

// New returns a Policy for cfg with defaults filled in.
func New(cfg Config) *Policy {
	p := &Policy{
		launcher:  cfg.Launcher,
		remoteURL: cfg.RemoteURL,
		capacity:  cfg.Capacity,
		log:       cfg.Logger,
	}
	if p.log == nil {
		p.log = core.Logger()
	}
	p.log = p.log.With("platform", string(core.PlatformWeb))
	if p.launcher == nil {
		p.launcher = webdriver.NewLauncher(nil, p.log)
	}
	if p.remoteURL == "" {
		p.remoteURL = DefaultRemoteURL
	}
	if p.capacity <= 0 {
		p.capacity = DefaultCapacity
	}
	return p
}

// Platform returns core.PlatformWeb.
func (p *Policy) Platform() core.Platform { return core.PlatformWeb }

// Capacity returns the concurrent session limit.
func (p *Policy) Capacity() int { return p.capacity }

// LogPath returns where the browser log of persona is written.
func LogPath(scenarioLogDir, persona string) string {
	return filepath.Join(scenarioLogDir, "deviceLogs", "chrome-"+persona+".log")
}

// ChromePrefs are the profile preferences every session starts with. Media
// and notification prompts are pre-allowed so they never block a page.
func ChromePrefs() map[string]any {
	return map[string]any{
		"credentials_enable_service":                                 false,
		"profile.password_manager_enabled":                           false,
		"profile.default_content_setting_values.notifications":       1,
		"profile.default_content_setting_values.media_stream_mic":    1,
		"profile.default_content_setting_values.media_stream_camera": 1,
		"protocol_handler.excluded_schemes":                          map[string]any{"jhb": true},
	}
}

// ExcludedSwitches are Chrome default switches removed from every session.
func ExcludedSwitches() []string {
	return []string{
		"enable-automation",
		"disable-notifications",
		"disable-default-apps",
		"disable-extensions",
		"enable-user-metrics",
		"incognito",
		"show-taps",
		"disable-infobars",
	}
}

// Create launches a browser for persona, opens rc.BaseURL and maximizes
// the window. The base URL is checked before anything is started.
func (p *Policy) Create(ctx context.Context, persona string, rc *core.RunContext) (core.Provisioned, error) {
	if rc.BaseURL == "" {
		return core.Provisioned{}, &core.MissingConfigurationError{Key: "BASE_URL"}
	}

	logPath := LogPath(rc.ScenarioLogDir, persona)
	if err := fileutil.EnsureDirForFile(logPath); err != nil {
		return core.Provisioned{}, fmt.Errorf("prepare browser log: %w", err)
	}

	opts := webdriver.Options{
		Name:            persona,
		Prefs:           ChromePrefs(),
		ExcludeSwitches: ExcludedSwitches(),
		LogPath:         logPath,
	}
	if rc.Unattended() {
		if err := checkRemoteURL(p.remoteURL); err != nil {
			return core.Provisioned{}, &core.EnvironmentSetupError{Reason: "invalid remote webdriver URL " + p.remoteURL, Err: err}
		}
		opts.RemoteURL = p.remoteURL
	}

	log := p.log.With("persona", persona, "mode", rc.Mode.String())
	log.Debug("launching browser", "log_path", logPath, "remote", opts.RemoteURL)

	browser, err := p.launcher.Launch(ctx, opts)
	if err != nil {
		return core.Provisioned{}, fmt.Errorf("launch browser for persona %q: %w", persona, err)
	}

	if err := openStartPage(browser, rc.BaseURL); err != nil {
		if quitErr := browser.Quit(); quitErr != nil {
			log.Warn("quit browser after failed start", "error", quitErr)
		}
		return core.Provisioned{}, err
	}

	return core.Provisioned{Session: browser, LogPath: logPath}, nil
}

// checkRemoteURL accepts absolute http(s) URLs with a host only.
func checkRemoteURL(raw string) error {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme %q is not http or https", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	return nil
}

func openStartPage(b core.Browser, baseURL string) error {
	if err := b.Navigate(baseURL); err != nil {
		return err
	}
	return b.MaximizeWindow()
}

// Close attaches the persona's browser log to the report and quits the
// browser. A failed attachment does not keep the browser open. Remote
// sessions write no local log, so their record goes out without one.
func (p *Policy) Close(ctx context.Context, h *core.Handle, rc *core.RunContext) error {
	var errs []error

	record := core.Record{
		Message: "Chrome browser logs for user: " + h.Persona(),
		Level:   core.LevelInfo,
	}
	if logPath := h.LogPath(); logPath != "" {
		if _, err := os.Stat(logPath); err == nil {
			record.Attachment = logPath
		} else {
			h.Logger().Debug("no browser log to attach", "log_path", logPath, "error", err)
		}
	}
	if err := rc.Emit(ctx, record); err != nil {
		errs = append(errs, fmt.Errorf("attach browser log: %w", err))
	}

	browser, _ := h.Session().(core.Browser)
	if browser == nil {
		h.Logger().Info("no browser to quit")
		return errors.Join(errs...)
	}
	if err := browser.Quit(); err != nil {
		errs = append(errs, fmt.Errorf("quit browser: %w", err))
	}
	return errors.Join(errs...)
}
