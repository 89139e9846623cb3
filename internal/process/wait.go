package process

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
)

var (
	// ErrIntervalNotPositive indicates a non-positive poll interval.
	ErrIntervalNotPositive = errors.New("interval must be positive")

	// ErrTimeoutNotPositive indicates a non-positive timeout.
	ErrTimeoutNotPositive = errors.New("timeout must be positive")

	// ErrProcessExited indicates the process exited before becoming ready.
	ErrProcessExited = errors.New("process exited before becoming ready")
)

// ReadinessCheck reports whether the target is ready. attempt starts at 1.
// A non-nil error aborts polling.
type ReadinessCheck func(ctx context.Context, attempt int) (ready bool, err error)

// WaitReadyConfig configures WaitReady.
type WaitReadyConfig struct {
	Interval time.Duration
	Timeout  time.Duration
	// Name and Target only label log lines and errors, e.g. "chromedriver"
	// and "http://127.0.0.1:9515".
	Name   string
	Target string
	Logger *slog.Logger
	// ProcessExited aborts polling as soon as it is closed.
	ProcessExited <-chan struct{}
}

// WaitReady polls check every Interval until it reports ready, fails, or
// Timeout elapses.
func WaitReady(ctx context.Context, cfg WaitReadyConfig, check ReadinessCheck) error {
	if cfg.Name == "" {
		return errors.New("wait ready: name must not be empty")
	}
	if cfg.Interval <= 0 {
		return fmt.Errorf("wait for %s: %w", cfg.Name, ErrIntervalNotPositive)
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("wait for %s: %w", cfg.Name, ErrTimeoutNotPositive)
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	// The condition runs sequentially, so attempt needs no locking.
	attempt := 0
	err := wait.PollUntilContextTimeout(ctx, cfg.Interval, cfg.Timeout, true,
		func(pollCtx context.Context) (bool, error) {
			if cfg.ProcessExited != nil {
				select {
				case <-cfg.ProcessExited:
					return false, fmt.Errorf("process %s: %w", cfg.Name, ErrProcessExited)
				default:
				}
			}

			attempt++
			ready, err := check(pollCtx, attempt)
			if err != nil {
				return false, err
			}
			if ready {
				log.Debug("wait succeeded", "name", cfg.Name, "target", cfg.Target, "attempt", attempt)
			}
			return ready, nil
		})
	if err != nil {
		return fmt.Errorf("wait for %s readiness at %s: %w", cfg.Name, cfg.Target, err)
	}
	return nil
}

// HTTPStatusCheck returns a ReadinessCheck that is ready once GET url answers
// 200. Connection errors and other status codes mean "not yet".
func HTTPStatusCheck(client *http.Client, url string, log *slog.Logger) ReadinessCheck {
	if client == nil {
		client = http.DefaultClient
	}
	if log == nil {
		log = slog.Default()
	}
	return func(ctx context.Context, attempt int) (bool, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return false, fmt.Errorf("build status request: %w", err)
		}
		resp, err := client.Do(req)
		if err != nil {
			log.Debug("status probe", "url", url, "attempt", attempt, "error", err)
			return false, nil
		}
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			log.Debug("status probe", "url", url, "attempt", attempt, "status", resp.StatusCode)
			return false, nil
		}
		return true, nil
	}
}
