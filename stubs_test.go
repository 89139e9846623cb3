package personapool_test

import (
	"context"
	"errors"

	"github.com/giantswarm/personapool"
)

type stubSession struct {
	persona string
}

func (s *stubSession) ExecuteScript(string, ...any) (any, error) { return s.persona, nil }

// stubPolicy provisions stubSessions and records what it closed.
type stubPolicy struct {
	platform personapool.Platform
	capacity int
	closeErr map[string]error
	closed   []string
}

func newStubPolicy(platform personapool.Platform, capacity int) *stubPolicy {
	return &stubPolicy{platform: platform, capacity: capacity, closeErr: map[string]error{}}
}

func (p *stubPolicy) Platform() personapool.Platform { return p.platform }

func (p *stubPolicy) Capacity() int { return p.capacity }

func (p *stubPolicy) Create(_ context.Context, persona string, rc *personapool.RunContext) (personapool.Provisioned, error) {
	if persona == "broken" {
		return personapool.Provisioned{}, &personapool.EnvironmentSetupError{Reason: "device offline"}
	}
	return personapool.Provisioned{Session: &stubSession{persona: persona}, LogPath: rc.ScenarioLogDir + "/" + persona + ".log"}, nil
}

func (p *stubPolicy) Close(_ context.Context, h *personapool.PolicyHandle, _ *personapool.RunContext) error {
	p.closed = append(p.closed, h.Persona())
	return p.closeErr[h.Persona()]
}

type stubValidator struct {
	seen []string
}

func (v *stubValidator) HandleTestResults(persona string) error {
	v.seen = append(v.seen, persona)
	if persona == "mismatch" {
		return errors.New("screenshot differs")
	}
	return nil
}

type countingConns struct {
	calls int
}

func (c *countingConns) CloseIdleConnections() { c.calls++ }
