package personapool

// ConfigSnapshot is a copy of the pool configuration NewPool would build,
// for asserting on option closures without creating a pool.
type ConfigSnapshot struct {
	Platforms          []Platform
	Capacity           map[Platform]int
	ConnReleasers      []ConnReleaser
	HasVisualValidator bool
}

// ApplyOptionsForTesting applies opts to the default configuration.
func ApplyOptionsForTesting(opts ...PoolOption) ConfigSnapshot {
	cfg := defaultPoolConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	platforms := make([]Platform, 0, len(cfg.policies))
	for _, p := range cfg.policies {
		platforms = append(platforms, p.Platform())
	}
	return ConfigSnapshot{
		Platforms:          platforms,
		Capacity:           cfg.toCore().Capacity,
		ConnReleasers:      cfg.connReleasers,
		HasVisualValidator: cfg.visual != nil,
	}
}
