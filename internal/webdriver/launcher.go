package webdriver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tebeka/selenium"

	"github.com/giantswarm/personapool/internal/core"
	"github.com/giantswarm/personapool/internal/fileutil"
	"github.com/giantswarm/personapool/internal/netutil"
	"github.com/giantswarm/personapool/internal/process"
)

const (
	// DefaultChromeDriver is the chromedriver binary looked up in PATH.
	DefaultChromeDriver = "chromedriver"

	// DefaultStartTimeout bounds the wait for chromedriver or the hub to
	// answer /status.
	DefaultStartTimeout = 30 * time.Second

	// DefaultStopTimeout bounds the chromedriver shutdown in Quit.
	DefaultStopTimeout = 5 * time.Second

	statusPollInterval = 100 * time.Millisecond
)

// RemoteFactory opens a WebDriver session at urlPrefix.
type RemoteFactory func(caps selenium.Capabilities, urlPrefix string) (selenium.WebDriver, error)

// Launcher starts browser sessions. Its zero value is not usable; build one
// with NewLauncher.
type Launcher struct {
	ChromeDriver string
	StartTimeout time.Duration
	StopTimeout  time.Duration
	HTTPClient   *http.Client

	ports     *netutil.PortRegistry
	log       *slog.Logger
	newRemote RemoteFactory
}

// NewLauncher returns a Launcher with default binary and timeouts that
// allocates chromedriver ports from ports. A nil ports gets a private
// registry.
func NewLauncher(ports *netutil.PortRegistry, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = core.Logger()
	}
	if ports == nil {
		ports = netutil.NewPortRegistry(logger)
	}
	return &Launcher{
		ChromeDriver: DefaultChromeDriver,
		StartTimeout: DefaultStartTimeout,
		StopTimeout:  DefaultStopTimeout,
		HTTPClient:   http.DefaultClient,
		ports:        ports,
		log:          logger.With("component", "webdriver"),
		newRemote:    selenium.NewRemote,
	}
}

// Launch starts a Chrome session described by opts.
func (l *Launcher) Launch(ctx context.Context, opts Options) (core.Browser, error) {
	caps := Capabilities(opts)
	if opts.RemoteURL != "" {
		return l.launchRemote(ctx, opts.RemoteURL, caps)
	}
	return l.launchLocal(ctx, opts, caps)
}

func (l *Launcher) launchRemote(ctx context.Context, hub string, caps selenium.Capabilities) (core.Browser, error) {
	hub = strings.TrimSuffix(hub, "/")
	log := l.log.With("hub", hub)

	if err := process.WaitReady(ctx, process.WaitReadyConfig{
		Interval: statusPollInterval,
		Timeout:  l.startTimeout(),
		Name:     "selenium hub",
		Target:   hub,
		Logger:   log,
	}, process.HTTPStatusCheck(l.HTTPClient, hub+"/status", log)); err != nil {
		return nil, &core.EnvironmentSetupError{Reason: "remote webdriver endpoint not ready", Err: err}
	}

	wd, err := l.newRemote(caps, hub)
	if err != nil {
		return nil, &core.EnvironmentSetupError{Reason: "create remote browser session", Err: err}
	}
	log.Debug("remote browser session created", "session", wd.SessionID())
	return &browser{wd: wd, log: log}, nil
}

func (l *Launcher) launchLocal(ctx context.Context, opts Options, caps selenium.Capabilities) (_ core.Browser, retErr error) {
	name := "chromedriver"
	if opts.Name != "" {
		name += "-" + opts.Name
	}

	binary, err := exec.LookPath(l.chromeDriver())
	if err != nil {
		return nil, &core.EnvironmentSetupError{Reason: "locate chromedriver", Err: err}
	}

	logDir := filepath.Dir(opts.LogPath)
	if opts.LogPath == "" {
		logDir = filepath.Join(".", "deviceLogs")
	}
	if err := fileutil.EnsureDir(logDir); err != nil {
		return nil, err
	}

	port, err := l.ports.AllocatePort()
	if err != nil {
		return nil, &core.EnvironmentSetupError{Reason: "allocate chromedriver port", Err: err}
	}
	b := &browser{ports: l.ports, port: port, stopTimeout: l.stopTimeout(), log: l.log.With("process", name, "port", port)}
	defer func() {
		if retErr != nil {
			_ = b.Quit()
		}
	}()

	args := []string{"--port=" + strconv.Itoa(port)}
	if opts.LogPath != "" {
		args = append(args, "--log-path="+opts.LogPath, "--log-level=ALL")
	}
	// The daemon outlives ctx; Quit stops it.
	cmd := exec.Command(binary, args...) //nolint:gosec // G204: binary comes from configuration
	b.daemon = process.NewDaemon(name, l.log, b.stopTimeout)
	if err := b.daemon.Start(cmd, logDir); err != nil {
		return nil, &core.EnvironmentSetupError{Reason: "start chromedriver", Err: err}
	}

	endpoint := "http://127.0.0.1:" + strconv.Itoa(port)
	if err := process.WaitReady(ctx, process.WaitReadyConfig{
		Interval:      statusPollInterval,
		Timeout:       l.startTimeout(),
		Name:          name,
		Target:        endpoint,
		Logger:        b.log,
		ProcessExited: b.daemon.Exited(),
	}, process.HTTPStatusCheck(l.HTTPClient, endpoint+"/status", b.log)); err != nil {
		return nil, &core.EnvironmentSetupError{Reason: "chromedriver not ready", Err: err}
	}

	wd, err := l.newRemote(caps, endpoint)
	if err != nil {
		return nil, &core.EnvironmentSetupError{Reason: "create browser session", Err: err}
	}
	b.wd = wd
	b.log.Debug("local browser session created", "session", wd.SessionID())
	return b, nil
}

func (l *Launcher) chromeDriver() string {
	if l.ChromeDriver != "" {
		return l.ChromeDriver
	}
	return DefaultChromeDriver
}

func (l *Launcher) startTimeout() time.Duration {
	if l.StartTimeout > 0 {
		return l.StartTimeout
	}
	return DefaultStartTimeout
}

func (l *Launcher) stopTimeout() time.Duration {
	if l.StopTimeout > 0 {
		return l.StopTimeout
	}
	return DefaultStopTimeout
}

// browser adapts a selenium.WebDriver to core.Browser. In local mode it
// also owns the chromedriver daemon and its port.
type browser struct {
	wd          selenium.WebDriver
	daemon      *process.Daemon
	ports       *netutil.PortRegistry
	port        int
	stopTimeout time.Duration
	log         *slog.Logger
}

var _ core.Browser = (*browser)(nil)

func (b *browser) Navigate(url string) error {
	if err := b.wd.Get(url); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return nil
}

func (b *browser) MaximizeWindow() error {
	if err := b.wd.MaximizeWindow(""); err != nil {
		return fmt.Errorf("maximize window: %w", err)
	}
	return nil
}

func (b *browser) ExecuteScript(script string, args ...any) (any, error) {
	if args == nil {
		args = []any{}
	}
	return b.wd.ExecuteScript(script, args)
}

// Quit ends the WebDriver session, then stops chromedriver and frees its
// port. Later calls are no-ops.
func (b *browser) Quit() error {
	var errs []error
	if b.wd != nil {
		if err := b.wd.Quit(); err != nil {
			errs = append(errs, fmt.Errorf("quit browser session: %w", err))
		}
		b.wd = nil
	}
	if err := process.StopCloseAndNil(&b.daemon, b.stopTimeout); err != nil {
		errs = append(errs, fmt.Errorf("stop chromedriver: %w", err))
	}
	if b.ports != nil && b.port != 0 {
		b.ports.Release(b.port)
		b.port = 0
	}
	return errors.Join(errs...)
}
