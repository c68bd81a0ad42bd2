package recurrence

import "time"

// EngineConfig holds tuning options for the engine.
type EngineConfig struct {
	// Cache configuration
	CacheEnabled bool
	CacheConfig  CacheConfig

	// Injected dependencies. Nil values fall back to SystemZones and
	// time.Now.
	Zones ZoneSource
	Now   func() time.Time

	// Performance tuning
	MaxExpansionOccurrences int           // hard cap on occurrences walked per query
	LargeRangeThreshold     time.Duration // ranges beyond this get a limited first pass
	LargeRangeLimit         time.Duration // span of that limited first pass
}

// DefaultEngineConfig provides sensible defaults for production use.
var DefaultEngineConfig = EngineConfig{
	CacheEnabled: true,
	CacheConfig:  DefaultCacheConfig,

	MaxExpansionOccurrences: 1000,
	LargeRangeThreshold:     90 * 24 * time.Hour,
	LargeRangeLimit:         90 * 24 * time.Hour,
}

// HighThroughputConfig trades thoroughness for speed on busy schedulers.
var HighThroughputConfig = EngineConfig{
	CacheEnabled: true,
	CacheConfig: CacheConfig{
		TTL:             30 * time.Minute,
		MaxEntries:      5000,
		CleanupInterval: 10 * time.Minute,
	},

	MaxExpansionOccurrences: 500,
	LargeRangeThreshold:     30 * 24 * time.Hour,
	LargeRangeLimit:         30 * 24 * time.Hour,
}

// LowMemoryConfig keeps the cache small for memory-constrained deployments,
// recomputing more and remembering less.
var LowMemoryConfig = EngineConfig{
	CacheEnabled: true,
	CacheConfig: CacheConfig{
		TTL:             5 * time.Minute,
		MaxEntries:      100,
		CleanupInterval: 2 * time.Minute,
	},

	MaxExpansionOccurrences: 2000,
	LargeRangeThreshold:     180 * 24 * time.Hour,
	LargeRangeLimit:         180 * 24 * time.Hour,
}

// NoCacheConfig turns result caching off entirely.
var NoCacheConfig = EngineConfig{
	CacheEnabled: false,

	MaxExpansionOccurrences: 1000,
	LargeRangeThreshold:     365 * 24 * time.Hour,
	LargeRangeLimit:         365 * 24 * time.Hour,
}
