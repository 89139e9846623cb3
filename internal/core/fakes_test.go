package core

import (
	"context"
	"errors"
	"sync"
)

// fakeSession records the scripts executed against it.
type fakeSession struct {
	mu      sync.Mutex
	scripts []string
}

func (s *fakeSession) ExecuteScript(script string, _ ...any) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scripts = append(s.scripts, script)
	return nil, nil
}

// fakePolicy is a Policy whose Create and Close behavior is scripted per test.
type fakePolicy struct {
	platform Platform
	capacity int

	createErr  error
	closeErr   map[string]error
	closePanic map[string]bool
	logPath    func(persona string) string

	created []string
	closed  []string
}

func newFakePolicy(platform Platform, capacity int) *fakePolicy {
	return &fakePolicy{
		platform:   platform,
		capacity:   capacity,
		closeErr:   map[string]error{},
		closePanic: map[string]bool{},
	}
}

func (f *fakePolicy) Platform() Platform { return f.platform }
func (f *fakePolicy) Capacity() int      { return f.capacity }

func (f *fakePolicy) Create(_ context.Context, persona string, _ *RunContext) (Provisioned, error) {
	if f.createErr != nil {
		return Provisioned{}, f.createErr
	}
	f.created = append(f.created, persona)
	prov := Provisioned{Session: &fakeSession{}}
	if f.logPath != nil {
		prov.LogPath = f.logPath(persona)
	}
	return prov, nil
}

func (f *fakePolicy) Close(_ context.Context, h *Handle, _ *RunContext) error {
	f.closed = append(f.closed, h.Persona())
	if f.closePanic[h.Persona()] {
		panic("driver exploded")
	}
	return f.closeErr[h.Persona()]
}

// fakeValidator records personas and fails for the configured ones.
type fakeValidator struct {
	seen []string
	fail map[string]bool
}

func (v *fakeValidator) HandleTestResults(persona string) error {
	v.seen = append(v.seen, persona)
	if v.fail[persona] {
		return errors.New("visual mismatch")
	}
	return nil
}

// fakeConns counts CloseIdleConnections calls and optionally panics.
type fakeConns struct {
	calls int
	panic bool
}

func (c *fakeConns) CloseIdleConnections() {
	c.calls++
	if c.panic {
		panic("transport already closed")
	}
}
