package personapool

import (
	"fmt"
	"maps"
	"net/http"

	"github.com/giantswarm/personapool/internal/core"
)

// PoolOption configures a Pool during construction via NewPool.
//
// Like regexp.MustCompile, the With* functions panic on invalid input:
// option values are fixed when the test suite is written, so a bad value is a
// programmer error.
type PoolOption func(*poolConfig)

type poolConfig struct {
	policies      []Policy
	capacity      map[Platform]int
	connReleasers []ConnReleaser
	visual        VisualValidator
}

func defaultPoolConfig() poolConfig {
	return poolConfig{
		policies: []Policy{
			NewAndroidPolicy(AndroidConfig{}),
			NewWebPolicy(WebConfig{}),
		},
		connReleasers: []ConnReleaser{http.DefaultClient},
	}
}

func (c poolConfig) toCore() core.PoolConfig {
	return core.PoolConfig{
		Policies:        c.policies,
		Capacity:        maps.Clone(c.capacity),
		ConnReleasers:   c.connReleasers,
		VisualValidator: c.visual,
	}
}

// WithPolicies replaces the default Android and Web policies. Exactly one
// policy per platform is allowed.
//
// Panics if no policy is given or any policy is nil.
func WithPolicies(policies ...Policy) PoolOption {
	if len(policies) == 0 {
		panic("personapool: WithPolicies needs at least one policy")
	}
	for i, p := range policies {
		if p == nil {
			panic(fmt.Sprintf("personapool: policy %d must not be nil", i))
		}
	}
	return func(c *poolConfig) {
		c.policies = append([]Policy(nil), policies...)
	}
}

// WithCapacity overrides the concurrent session limit of platform.
//
// Default: 1 for PlatformAndroid, 2 for PlatformWeb.
//
// Panics if platform is invalid or n <= 0.
func WithCapacity(platform Platform, n int) PoolOption {
	if !platform.IsValid() {
		panic(fmt.Sprintf("personapool: invalid platform %q", platform))
	}
	if n <= 0 {
		panic(fmt.Sprintf("personapool: capacity for %s must be greater than 0, got %d", platform, n))
	}
	return func(c *poolConfig) {
		if c.capacity == nil {
			c.capacity = make(map[Platform]int)
		}
		c.capacity[platform] = n
	}
}

// WithConnReleasers sets the network clients whose idle connections are
// dropped for every persona on teardown, replacing the default
// http.DefaultClient. Call it without arguments to release nothing.
//
// Panics if any releaser is nil.
func WithConnReleasers(releasers ...ConnReleaser) PoolOption {
	for i, r := range releasers {
		if r == nil {
			panic(fmt.Sprintf("personapool: connection releaser %d must not be nil", i))
		}
	}
	return func(c *poolConfig) {
		c.connReleasers = append([]ConnReleaser(nil), releasers...)
	}
}

// WithVisualValidator sets the hook that finalizes visual validation for
// every persona before its session is closed.
//
// Panics if v is nil.
func WithVisualValidator(v VisualValidator) PoolOption {
	if v == nil {
		panic("personapool: visual validator must not be nil")
	}
	return func(c *poolConfig) {
		c.visual = v
	}
}
