package devicelock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"github.com/giantswarm/personapool/internal/fileutil"
	"github.com/giantswarm/personapool/internal/sentinel"
)

// ErrDeviceBusy is returned by Acquire when another process holds the
// device for longer than the caller is willing to wait.
const ErrDeviceBusy = sentinel.Error("device is in use by another process")

// retryInterval is the pause between lock attempts while waiting.
const retryInterval = 50 * time.Millisecond

var fileNameReplacer = strings.NewReplacer(":", "_", "/", "_", `\`, "_")

// Lease is an exclusive hold on one device serial.
type Lease struct {
	serial string
	fl     *flock.Flock
	log    *slog.Logger
}

// Path returns the lock file backing serial inside dir.
func Path(dir, serial string) string {
	return filepath.Join(dir, "device-"+fileNameReplacer.Replace(serial)+".lock")
}

// Acquire takes the lease for serial. With wait <= 0 it tries once;
// otherwise it retries until wait elapses or ctx is done. A timeout while
// another process holds the lock yields ErrDeviceBusy.
func Acquire(ctx context.Context, dir, serial string, wait time.Duration, log *slog.Logger) (*Lease, error) {
	if serial == "" {
		return nil, errors.New("device serial must not be empty")
	}
	if log == nil {
		log = slog.Default()
	}
	if err := fileutil.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("device lock dir: %w", err)
	}

	fl := flock.New(Path(dir, serial))

	var (
		locked bool
		err    error
	)
	if wait <= 0 {
		locked, err = fl.TryLock()
	} else {
		waitCtx, cancel := context.WithTimeout(ctx, wait)
		defer cancel()
		locked, err = fl.TryLockContext(waitCtx, retryInterval)
		if err != nil && ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			err = nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("lock device %s: %w", serial, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrDeviceBusy, serial)
	}

	log.Debug("device lease acquired", "serial", serial, "path", fl.Path())
	return &Lease{serial: serial, fl: fl, log: log}, nil
}

// Serial returns the leased device serial.
func (l *Lease) Serial() string {
	return l.serial
}

// Release gives the device back. The lock file stays on disk; removing it
// could break a lock another process has just taken. Releasing a nil or
// already released lease is a no-op.
func (l *Lease) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	fl := l.fl
	l.fl = nil
	if err := fl.Close(); err != nil {
		return fmt.Errorf("release device %s: %w", l.serial, err)
	}
	l.log.Debug("device lease released", "serial", l.serial)
	return nil
}
