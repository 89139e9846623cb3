package core

import (
	"errors"
	"fmt"
)

// PoolConfig holds the configuration of a Pool. It is immutable once passed
// to NewPool.
type PoolConfig struct {
	// Policies are the platform policies the pool dispatches to. Exactly one
	// policy per platform.
	Policies []Policy

	// Capacity overrides Policy.Capacity for individual platforms.
	Capacity map[Platform]int

	// ConnReleasers have their idle connections closed for every persona
	// during teardown.
	ConnReleasers []ConnReleaser

	// VisualValidator, when set, finalizes pending validation for each
	// persona before its session is closed.
	VisualValidator VisualValidator
}

// Validate reports every problem with c at once, joined with errors.Join.
func (c PoolConfig) Validate() error {
	var errs []error

	if len(c.Policies) == 0 {
		errs = append(errs, errors.New("at least one platform policy is required"))
	}

	seen := make(map[Platform]struct{}, len(c.Policies))
	for i, p := range c.Policies {
		if p == nil {
			errs = append(errs, fmt.Errorf("policy %d is nil", i))
			continue
		}
		platform := p.Platform()
		if !platform.IsValid() {
			errs = append(errs, fmt.Errorf("policy %d has invalid platform %q", i, platform))
			continue
		}
		if _, dup := seen[platform]; dup {
			errs = append(errs, fmt.Errorf("duplicate policy for platform %s", platform))
		}
		seen[platform] = struct{}{}
		if p.Capacity() <= 0 {
			errs = append(errs, fmt.Errorf("policy for %s: capacity must be greater than 0, got %d", platform, p.Capacity()))
		}
	}

	for platform, n := range c.Capacity {
		if _, ok := seen[platform]; !ok {
			errs = append(errs, fmt.Errorf("capacity override for %s has no matching policy", platform))
		}
		if n <= 0 {
			errs = append(errs, fmt.Errorf("capacity override for %s must be greater than 0, got %d", platform, n))
		}
	}

	for i, r := range c.ConnReleasers {
		if r == nil {
			errs = append(errs, fmt.Errorf("connection releaser %d is nil", i))
		}
	}

	return errors.Join(errs...)
}
