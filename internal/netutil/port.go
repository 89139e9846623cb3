package netutil

import (
	"fmt"
	"log/slog"
	"net"
	"sync"
)

// maxPortRetries bounds how often the kernel is asked again when it returns a
// port that is still registered.
const maxPortRetries = 20

// PortRegistry tracks ports reserved by this process. The kernel may hand
// the same ephemeral port to two callers once the first listener closes; the
// registry closes that window.
type PortRegistry struct {
	mu    sync.Mutex
	ports map[int]struct{}
	log   *slog.Logger
}

// NewPortRegistry returns an empty registry. A nil logger falls back to
// slog.Default().
func NewPortRegistry(logger *slog.Logger) *PortRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return &PortRegistry{
		ports: make(map[int]struct{}),
		log:   logger,
	}
}

func (r *PortRegistry) reserve(port int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ports[port]; ok {
		return false
	}
	r.ports[port] = struct{}{}
	return true
}

// Release makes port available again. Releasing an unknown port is a no-op.
func (r *PortRegistry) Release(port int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.ports, port)
}

// Reserved reports how many ports are currently held.
func (r *PortRegistry) Reserved() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ports)
}

// AllocatePort returns a free loopback port and registers it. The caller
// must Release it once the daemon listening on it has stopped.
func (r *PortRegistry) AllocatePort() (int, error) {
	addr, err := net.ResolveTCPAddr("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("resolve tcp address: %w", err)
	}

	for range maxPortRetries {
		l, err := net.ListenTCP("tcp", addr)
		if err != nil {
			return 0, fmt.Errorf("listen on tcp address: %w", err)
		}
		tcpAddr, ok := l.Addr().(*net.TCPAddr)
		if !ok {
			_ = l.Close()
			return 0, fmt.Errorf("unexpected address type: %T", l.Addr())
		}
		reserved := r.reserve(tcpAddr.Port)
		if closeErr := l.Close(); closeErr != nil {
			r.log.Warn("close listener after port allocation", "port", tcpAddr.Port, "error", closeErr)
		}
		if reserved {
			return tcpAddr.Port, nil
		}
		r.log.Debug("port already in registry, retrying", "port", tcpAddr.Port)
	}
	return 0, fmt.Errorf("allocate unique port: exhausted %d attempts", maxPortRetries)
}
