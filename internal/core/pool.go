package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"k8s.io/apimachinery/pkg/util/sets"
)

// Pool owns every live automation session of one test run, keyed by persona.
// It enforces identity uniqueness and per-platform capacity, delegates session
// construction and shutdown to the registered Policy, and tears everything
// down on TeardownAll.
//
// State invariants, holding between calls:
//   - a persona is in handles iff it is in platforms iff it is in order;
//   - counts[p] equals the number of handles on platform p;
//   - a persona has at most one live handle.
//
// A Pool is not safe for concurrent use. Every operation runs synchronously in
// the calling goroutine; callers that introduce parallelism must serialize
// access themselves.
type Pool struct {
	rc       *RunContext
	policies map[Platform]Policy
	limits   map[Platform]int
	conns    []ConnReleaser
	visual   VisualValidator

	handles   map[string]*Handle
	platforms map[string]Platform
	logPaths  map[string]string
	order     []string
	counts    map[Platform]int
	current   string

	log *slog.Logger
}

// NewPool creates a Pool bound to rc. It performs no I/O.
//
// Panics if rc is nil or cfg.Validate reports an error: both are programmer
// errors caught at construction time.
func NewPool(rc *RunContext, cfg PoolConfig) *Pool {
	if rc == nil {
		panic("personapool: NewPool run context must not be nil")
	}
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("personapool: invalid pool config: %v", err))
	}

	p := &Pool{
		rc:        rc,
		policies:  make(map[Platform]Policy, len(cfg.Policies)),
		limits:    make(map[Platform]int, len(cfg.Policies)),
		conns:     slices.Clone(cfg.ConnReleasers),
		visual:    cfg.VisualValidator,
		handles:   make(map[string]*Handle),
		platforms: make(map[string]Platform),
		logPaths:  make(map[string]string),
		counts:    make(map[Platform]int),
		log:       Logger(),
	}
	for _, policy := range cfg.Policies {
		platform := policy.Platform()
		p.policies[platform] = policy
		p.limits[platform] = policy.Capacity()
	}
	for platform, n := range cfg.Capacity {
		p.limits[platform] = n
	}
	return p
}

// Allocate creates a session for persona on platform and records it.
//
// Returns a *DuplicateSessionError if persona already has a session and a
// *CapacityExceededError if one more session would exceed the platform's
// limit. Policy failures are wrapped and returned; pool state is unchanged
// on every error path.
func (p *Pool) Allocate(ctx context.Context, persona string, platform Platform) (*Handle, error) {
	if persona == "" {
		return nil, ErrInvalidPersona
	}
	if _, exists := p.handles[persona]; exists {
		return nil, &DuplicateSessionError{Persona: persona, Known: p.known()}
	}
	policy, ok := p.policies[platform]
	if !ok {
		return nil, fmt.Errorf("%w: %q for persona %q", ErrUnsupportedPlatform, platform, persona)
	}
	limit := p.limits[platform]
	if inUse := p.counts[platform]; inUse >= limit {
		return nil, &CapacityExceededError{Persona: persona, Platform: platform, Limit: limit, InUse: inUse}
	}

	log := p.log.With("persona", persona, "platform", string(platform))
	log.Info("allocate: start", "in_use", p.counts[platform], "limit", limit)

	prov, err := policy.Create(ctx, persona, p.rc)
	if err != nil {
		return nil, fmt.Errorf("create %s session for persona %q: %w", platform, persona, err)
	}
	if prov.Session == nil {
		return nil, fmt.Errorf("create %s session for persona %q: policy returned no session", platform, persona)
	}

	h := newHandle(persona, p.rc.TestName, platform, prov, p.visual)
	p.handles[persona] = h
	p.platforms[persona] = platform
	if prov.LogPath != "" {
		p.logPaths[persona] = prov.LogPath
	}
	p.order = append(p.order, persona)
	p.counts[platform]++
	p.current = persona

	log.Info("allocate: done", "handle", h.ID(), "in_use", p.counts[platform], "limit", limit)
	return h, nil
}

// Get returns persona's handle and makes it the current one. Returns an
// *UnknownSessionError if persona has no session.
func (p *Pool) Get(persona string) (*Handle, error) {
	h, ok := p.handles[persona]
	if !ok {
		p.log.Debug("get: unknown persona", "persona", persona, "known", p.known())
		return nil, &UnknownSessionError{Persona: persona, Known: p.known()}
	}
	p.current = persona
	return h, nil
}

// PlatformOf returns the platform of persona's session. Returns an
// *UnknownSessionError if persona has no session.
func (p *Pool) PlatformOf(persona string) (Platform, error) {
	platform, ok := p.platforms[persona]
	if !ok {
		return "", &UnknownSessionError{Persona: persona, Known: p.known()}
	}
	return platform, nil
}

// Current returns the persona and handle most recently bound by Allocate or
// Get. ok is false when nothing is bound.
func (p *Pool) Current() (persona string, h *Handle, ok bool) {
	if p.current == "" {
		return "", nil, false
	}
	h, ok = p.handles[p.current]
	if !ok {
		return "", nil, false
	}
	return p.current, h, true
}

// Personas returns the personas with live sessions, in allocation order.
func (p *Pool) Personas() []string {
	return slices.Clone(p.order)
}

// Count returns the number of live sessions on platform.
func (p *Pool) Count(platform Platform) int {
	return p.counts[platform]
}

// Capacity returns the session limit for platform, or 0 if the platform has
// no policy.
func (p *Pool) Capacity(platform Platform) int {
	return p.limits[platform]
}

// LogPath returns the log file recorded for persona, if any.
func (p *Pool) LogPath(persona string) (string, bool) {
	path, ok := p.logPaths[persona]
	return path, ok
}

// TeardownAll closes every session in allocation order. For each persona it
// finalizes pending validation, releases idle log-shipping connections and
// asks the platform policy to close the session.
//
// Teardown is best-effort: a failing (or panicking) step is logged and the
// remaining steps and personas still run. Each session is closed exactly
// once. All failures are joined into the returned error, which is
// informational; the pool is empty afterwards regardless. Calling TeardownAll
// on an empty pool is a no-op.
func (p *Pool) TeardownAll(ctx context.Context) error {
	if len(p.order) == 0 {
		return nil
	}
	p.log.Info("teardown: closing all sessions", "count", len(p.order))

	var errs []error
	for _, persona := range p.order {
		h := p.handles[persona]
		h.log.Info("teardown: closing session")

		if h.visual != nil {
			if err := guard("validate results", func() error {
				return h.visual.HandleTestResults(persona)
			}); err != nil {
				h.log.Warn("teardown: result validation failed", "error", err)
				errs = append(errs, fmt.Errorf("persona %q: %w", persona, err))
			}
		}

		if err := p.releaseConns(); err != nil {
			h.log.Warn("teardown: releasing log-shipping connections failed", "error", err)
			errs = append(errs, fmt.Errorf("persona %q: %w", persona, err))
		}

		policy := p.policies[h.platform]
		if err := guard("close session", func() error {
			return policy.Close(ctx, h, p.rc)
		}); err != nil {
			h.log.Warn("teardown: closing session failed", "error", err)
			errs = append(errs, fmt.Errorf("persona %q: %w", persona, err))
		}
		h.detach()
	}

	p.reset()
	if len(errs) > 0 {
		p.log.Warn("teardown: done with failures", "failures", len(errs))
	} else {
		p.log.Info("teardown: done")
	}
	return errors.Join(errs...)
}

func (p *Pool) releaseConns() error {
	var errs []error
	for _, c := range p.conns {
		if err := guard("release connections", func() error {
			c.CloseIdleConnections()
			return nil
		}); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (p *Pool) reset() {
	clear(p.handles)
	clear(p.platforms)
	clear(p.logPaths)
	clear(p.counts)
	p.order = nil
	p.current = ""
}

// known returns the personas with sessions, sorted.
func (p *Pool) known() []string {
	return sets.List(sets.KeySet(p.handles))
}

// guard runs fn and converts a panic into an error so that one broken
// session cannot abort teardown of the others.
func guard(step string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: panic: %v", step, r)
		}
	}()
	if err := fn(); err != nil {
		return fmt.Errorf("%s: %w", step, err)
	}
	return nil
}
