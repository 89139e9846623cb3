package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypedErrorsMatchSentinels(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err      error
		sentinel error
		contains string
	}{
		"duplicate": {
			err:      &DuplicateSessionError{Persona: "alice", Known: []string{"alice"}},
			sentinel: ErrDuplicateSession,
			contains: `"alice" (known personas: ["alice"])`,
		},
		"unknown with none known": {
			err:      &UnknownSessionError{Persona: "zed"},
			sentinel: ErrUnknownSession,
			contains: "known personas: none",
		},
		"capacity": {
			err:      &CapacityExceededError{Persona: "carol", Platform: PlatformWeb, Limit: 2, InUse: 2},
			sentinel: ErrCapacityExceeded,
			contains: "2 of 2 in use",
		},
		"environment": {
			err:      &EnvironmentSetupError{Reason: "invalid remote URL", Err: errors.New("missing protocol scheme")},
			sentinel: ErrEnvironmentSetup,
			contains: "invalid remote URL: missing protocol scheme",
		},
		"missing configuration": {
			err:      &MissingConfigurationError{Key: "BASE_URL"},
			sentinel: ErrMissingConfiguration,
			contains: "BASE_URL not provided",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.ErrorIs(t, tc.err, tc.sentinel)
			assert.ErrorIs(t, fmt.Errorf("allocate: %w", tc.err), tc.sentinel)
			assert.Contains(t, tc.err.Error(), tc.contains)
			assert.NotErrorIs(t, tc.err, ErrInvalidPersona)
		})
	}
}

func TestEnvironmentSetupErrorUnwraps(t *testing.T) {
	t.Parallel()

	cause := errors.New("dial tcp: connection refused")
	err := &EnvironmentSetupError{Reason: "remote endpoint not ready", Err: cause}
	assert.ErrorIs(t, err, cause)
}
