// Package android implements the session policy for native Android app
// sessions. The mobile session itself is established before the run starts
// and arrives through core.RunContext; the policy prepares the device when a
// persona claims it and stops the app when the persona is torn down.
package android

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/giantswarm/personapool/internal/core"
	"github.com/giantswarm/personapool/internal/devicelock"
	"github.com/giantswarm/personapool/internal/shell"
)

const (
	// DefaultCapacity is the number of concurrent Android sessions.
	DefaultCapacity = 1

	// DefaultCloudScript is the script the device cloud exposes for running
	// adb commands on its devices.
	DefaultCloudScript = "pCloudy_executeAdbCommand"
)

// CommandRunner runs a host command. *shell.Runner implements it.
type CommandRunner interface {
	Run(ctx context.Context, argv []string) (shell.Result, error)
}

// Config configures a Policy.
type Config struct {
	// Runner executes adb on attended runs. Defaults to a shell.Runner.
	Runner CommandRunner
	// LockDir, when set, makes attended sessions take an exclusive lease on
	// the device serial.
	LockDir string
	// LockWait is how long to wait for another process to free the device.
	LockWait time.Duration
	// CloudScript overrides DefaultCloudScript.
	CloudScript string
	// Capacity overrides DefaultCapacity.
	Capacity int
	Logger   *slog.Logger
}

// Policy is the core.Policy for core.PlatformAndroid.
type Policy struct {
	runner      CommandRunner
	lockDir     string
	lockWait    time.Duration
	cloudScript string
	capacity    int
	log         *slog.Logger

	mu     sync.Mutex
	leases map[string]*devicelock.Lease
}

var _ core.Policy = (*Policy)(nil)

// New returns a Policy for cfg with defaults filled in.
func New(cfg Config) *Policy {
	p := &Policy{
		runner:      cfg.Runner,
		lockDir:     cfg.LockDir,
		lockWait:    cfg.LockWait,
		cloudScript: cfg.CloudScript,
		capacity:    cfg.Capacity,
		log:         cfg.Logger,
		leases:      make(map[string]*devicelock.Lease),
	}
	if p.log == nil {
		p.log = core.Logger()
	}
	p.log = p.log.With("platform", string(core.PlatformAndroid))
	if p.runner == nil {
		p.runner = shell.NewRunner(p.log)
	}
	if p.cloudScript == "" {
		p.cloudScript = DefaultCloudScript
	}
	if p.capacity <= 0 {
		p.capacity = DefaultCapacity
	}
	return p
}

// Platform returns core.PlatformAndroid.
func (p *Policy) Platform() core.Platform { return core.PlatformAndroid }

// Capacity returns the concurrent session limit.
func (p *Policy) Capacity() int { return p.capacity }

// Create hands the run's mobile session to persona after clearing toast
// and heads-up notification overlays on the device. Failing hygiene
// commands are logged and ignored.
func (p *Policy) Create(ctx context.Context, persona string, rc *core.RunContext) (core.Provisioned, error) {
	if rc.MobileDriver == nil {
		return core.Provisioned{}, &core.MissingConfigurationError{Key: "mobile driver"}
	}

	log := p.log.With("persona", persona, "mode", rc.Mode.String())

	if !rc.Unattended() && p.lockDir != "" && rc.DeviceSerial != "" {
		lease, err := devicelock.Acquire(ctx, p.lockDir, rc.DeviceSerial, p.lockWait, log)
		if err != nil {
			return core.Provisioned{}, fmt.Errorf("claim device for persona %q: %w", persona, err)
		}
		p.mu.Lock()
		p.leases[persona] = lease
		p.mu.Unlock()
	}

	commands := HygieneCommands(rc.AppPackageName)
	if rc.Unattended() {
		p.runOnCloud(log, rc.MobileDriver, commands)
	} else {
		p.runLocally(ctx, log, rc.DeviceSerial, commands)
	}

	return core.Provisioned{Session: rc.MobileDriver}, nil
}

// HygieneCommands returns the adb shell commands that keep overlays from
// covering the app under test.
func HygieneCommands(appPackage string) [][]string {
	return [][]string{
		{"appops", "set", appPackage, "TOAST_WINDOW", "deny"},
		{"settings", "put", "global", "heads_up_notifications_enabled", "0"},
	}
}

// AdbArgv builds "adb [-s serial] shell <command...>".
func AdbArgv(serial string, command []string) []string {
	argv := []string{"adb"}
	if serial != "" {
		argv = append(argv, "-s", serial)
	}
	argv = append(argv, "shell")
	return append(argv, command...)
}

func (p *Policy) runOnCloud(log *slog.Logger, driver core.MobileDriver, commands [][]string) {
	for _, c := range commands {
		cmd := "adb shell " + strings.Join(c, " ")
		res, err := driver.ExecuteScript(p.cloudScript, cmd)
		if err != nil {
			log.Warn("device hygiene command failed", "command", cmd, "error", err)
			continue
		}
		log.Debug("device hygiene command done", "command", cmd, "result", res)
	}
}

func (p *Policy) runLocally(ctx context.Context, log *slog.Logger, serial string, commands [][]string) {
	var g errgroup.Group
	for _, c := range commands {
		argv := AdbArgv(serial, c)
		g.Go(func() error {
			res, err := p.runner.Run(ctx, argv)
			switch {
			case err != nil:
				log.Warn("device hygiene command failed", "command", strings.Join(argv, " "), "error", err)
			case res.ExitCode != 0:
				log.Warn("device hygiene command failed", "command", strings.Join(argv, " "),
					"exit_code", res.ExitCode, "stderr", res.Stderr)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// Close stops the app under test on attended runs and reports its final
// state. Cloud devices are reset by their provider, so unattended runs only
// report.
func (p *Policy) Close(ctx context.Context, h *core.Handle, rc *core.RunContext) error {
	defer p.releaseLease(h.Persona())

	if rc.Unattended() {
		return rc.Emit(ctx, core.Record{
			Message: "Skip terminating & closing app on Cloud device",
			Level:   core.LevelDebug,
		})
	}

	driver, _ := h.Session().(core.MobileDriver)
	if driver == nil {
		driver = rc.MobileDriver
	}
	if driver == nil {
		h.Logger().Warn("no mobile driver to close")
		return nil
	}

	pkg := rc.AppPackageName
	var errs []error
	terminated, err := driver.TerminateApp(pkg)
	if err != nil {
		terminated = false
		errs = append(errs, fmt.Errorf("terminate app %s: %w", pkg, err))
	}
	stateText := "unknown"
	if state, err := driver.QueryAppState(pkg); err != nil {
		errs = append(errs, fmt.Errorf("query app state %s: %w", pkg, err))
	} else {
		stateText = state.String()
	}
	if err := driver.CloseApp(); err != nil {
		errs = append(errs, fmt.Errorf("close app %s: %w", pkg, err))
	}

	if err := rc.Emit(ctx, core.Record{
		Message: fmt.Sprintf("App: '%s' terminated? '%t'. Current application state: '%s'", pkg, terminated, stateText),
		Level:   core.LevelInfo,
	}); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (p *Policy) releaseLease(persona string) {
	p.mu.Lock()
	lease := p.leases[persona]
	delete(p.leases, persona)
	p.mu.Unlock()

	if err := lease.Release(); err != nil {
		p.log.Warn("release device lease", "persona", persona, "error", err)
	}
}
