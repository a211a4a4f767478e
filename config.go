package solwatch

import (
	"fmt"
	"os"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
	"gopkg.in/yaml.v3"
)

// Config is the configuration for the Manager.
//
// All duration fields accept standard Go duration strings like "30s", "5m", "1h"
// when loaded from YAML.
type Config struct {
	// ThrottleInterval is the minimum spacing between consecutive outbound
	// registration calls. Global registration throughput never exceeds
	// 1/ThrottleInterval, which is what keeps bursts under provider rate limits.
	// Recommended: 100ms.
	ThrottleInterval time.Duration `yaml:"throttleInterval"`

	// MaxRetries is how many times a failed registration is retried before
	// the subscription is marked Error. 0 applies the default of 5.
	MaxRetries int `yaml:"maxRetries"`

	// RetryBaseDelay is the backoff before the first retry.
	// Recommended: 1 second.
	RetryBaseDelay time.Duration `yaml:"retryBaseDelay"`

	// RetryBackoffFactor is the multiplier applied per retry.
	// Recommended: 2.0.
	RetryBackoffFactor float64 `yaml:"retryBackoffFactor"`

	// RetryMaxDelay caps the backoff regardless of retry count.
	// Recommended: 30 seconds.
	RetryMaxDelay time.Duration `yaml:"retryMaxDelay"`

	// ReapInterval is how often the stale reaper sweeps the registry.
	// Recommended: 60 seconds.
	ReapInterval time.Duration `yaml:"reapInterval"`

	// StaleThreshold is how long a subscription may go without a push event
	// or retry before a sweep unsubscribes it. Bounds resource growth when
	// owners disappear without cleaning up.
	// Recommended: 10 minutes.
	StaleThreshold time.Duration `yaml:"staleThreshold"`

	// CacheCapacity is the maximum number of entries in the push-event cache.
	// The least-recently-used entry is evicted beyond this.
	CacheCapacity int `yaml:"cacheCapacity"`

	// CacheTTL is how long a cached value stays readable after its last write.
	// TTL expiry and LRU eviction are independent.
	CacheTTL time.Duration `yaml:"cacheTtl"`

	// CacheCleanupInterval is how often expired entries are swept proactively
	// so an idle cache does not retain stale memory.
	CacheCleanupInterval time.Duration `yaml:"cacheCleanupInterval"`

	// EventBufferSize is the capacity of each subscription's event channel.
	// When a subscriber stops draining, further events are dropped (and
	// counted) rather than blocking the receive pump.
	EventBufferSize int `yaml:"eventBufferSize"`

	// Commitment is the confirmation level applied to watches that do not
	// set one themselves.
	Commitment rpc.CommitmentType `yaml:"commitment"`
}

// DefaultConfig returns a Config with sensible defaults.
//
// Returns:
//   - Config: Configuration with default values
func DefaultConfig() Config {
	return Config{
		ThrottleInterval:     100 * time.Millisecond,
		MaxRetries:           5,
		RetryBaseDelay:       1 * time.Second,
		RetryBackoffFactor:   2.0,
		RetryMaxDelay:        30 * time.Second,
		ReapInterval:         60 * time.Second,
		StaleThreshold:       10 * time.Minute,
		CacheCapacity:        500,
		CacheTTL:             30 * time.Second,
		CacheCleanupInterval: 60 * time.Second,
		EventBufferSize:      16,
		Commitment:           rpc.CommitmentConfirmed,
	}
}

// SetDefaults fills in missing configuration values with production defaults.
//
// Parameters:
//   - cfg: Config to apply defaults to (modified in place)
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.ThrottleInterval == 0 {
		cfg.ThrottleInterval = defaults.ThrottleInterval
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = defaults.MaxRetries
	}
	if cfg.RetryBaseDelay == 0 {
		cfg.RetryBaseDelay = defaults.RetryBaseDelay
	}
	if cfg.RetryBackoffFactor == 0 {
		cfg.RetryBackoffFactor = defaults.RetryBackoffFactor
	}
	if cfg.RetryMaxDelay == 0 {
		cfg.RetryMaxDelay = defaults.RetryMaxDelay
	}
	if cfg.ReapInterval == 0 {
		cfg.ReapInterval = defaults.ReapInterval
	}
	if cfg.StaleThreshold == 0 {
		cfg.StaleThreshold = defaults.StaleThreshold
	}
	if cfg.CacheCapacity == 0 {
		cfg.CacheCapacity = defaults.CacheCapacity
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = defaults.CacheTTL
	}
	if cfg.CacheCleanupInterval == 0 {
		cfg.CacheCleanupInterval = defaults.CacheCleanupInterval
	}
	if cfg.EventBufferSize == 0 {
		cfg.EventBufferSize = defaults.EventBufferSize
	}
	if cfg.Commitment == "" {
		cfg.Commitment = defaults.Commitment
	}
}

// Validate checks configuration constraints and returns error for invalid values.
//
// Hard Validation Rules:
//   - ThrottleInterval > 0 (rate limiting requires spacing)
//   - RetryBaseDelay > 0 and RetryMaxDelay >= RetryBaseDelay
//   - RetryBackoffFactor >= 1.0 (backoff must not shrink)
//   - MaxRetries >= 0
//   - StaleThreshold > ReapInterval (a sweep must not reap records younger
//     than one sweep period)
//   - CacheCapacity > 0, CacheTTL > 0, CacheCleanupInterval > 0
//   - EventBufferSize > 0
//
// Returns:
//   - error: Validation error with clear explanation, nil if valid
func (cfg *Config) Validate() error {
	if cfg.ThrottleInterval <= 0 {
		return fmt.Errorf("ThrottleInterval must be > 0, got %v", cfg.ThrottleInterval)
	}

	if cfg.RetryBaseDelay <= 0 {
		return fmt.Errorf("RetryBaseDelay must be > 0, got %v", cfg.RetryBaseDelay)
	}

	if cfg.RetryMaxDelay < cfg.RetryBaseDelay {
		return fmt.Errorf(
			"RetryMaxDelay (%v) must be >= RetryBaseDelay (%v)",
			cfg.RetryMaxDelay, cfg.RetryBaseDelay,
		)
	}

	if cfg.RetryBackoffFactor < 1.0 {
		return fmt.Errorf("RetryBackoffFactor must be >= 1.0, got %v", cfg.RetryBackoffFactor)
	}

	if cfg.MaxRetries < 0 {
		return fmt.Errorf("MaxRetries must be >= 0, got %d", cfg.MaxRetries)
	}

	if cfg.ReapInterval <= 0 {
		return fmt.Errorf("ReapInterval must be > 0, got %v", cfg.ReapInterval)
	}

	if cfg.StaleThreshold <= cfg.ReapInterval {
		return fmt.Errorf(
			"StaleThreshold (%v) must be > ReapInterval (%v)",
			cfg.StaleThreshold, cfg.ReapInterval,
		)
	}

	if cfg.CacheCapacity <= 0 {
		return fmt.Errorf("CacheCapacity must be > 0, got %d", cfg.CacheCapacity)
	}

	if cfg.CacheTTL <= 0 {
		return fmt.Errorf("CacheTTL must be > 0, got %v", cfg.CacheTTL)
	}

	if cfg.CacheCleanupInterval <= 0 {
		return fmt.Errorf("CacheCleanupInterval must be > 0, got %v", cfg.CacheCleanupInterval)
	}

	if cfg.EventBufferSize <= 0 {
		return fmt.Errorf("EventBufferSize must be > 0, got %d", cfg.EventBufferSize)
	}

	return nil
}

// ValidateWithWarnings checks configuration and logs warnings for non-recommended values.
//
// This is called after Validate() in NewManager() to provide operator guidance.
//
// Parameters:
//   - logger: Logger instance for warning output
func (cfg *Config) ValidateWithWarnings(logger Logger) {
	// Warn if the throttle spacing is so short it no longer protects against
	// provider rate limits.
	if cfg.ThrottleInterval < 10*time.Millisecond {
		logger.Warn(
			"ThrottleInterval is very short, registration bursts may hit provider rate limits",
			"throttleInterval", cfg.ThrottleInterval,
			"recommended", "100ms or higher",
		)
	}

	// Warn if the staleness threshold is close to the sweep period.
	if cfg.StaleThreshold < 2*cfg.ReapInterval {
		logger.Warn(
			"StaleThreshold is below recommended minimum",
			"staleThreshold", cfg.StaleThreshold,
			"reapInterval", cfg.ReapInterval,
			"recommended", 2*cfg.ReapInterval,
		)
	}
}

// TestConfig returns a configuration optimized for fast test execution.
//
// Test timings are 10-100x faster than production defaults to enable rapid
// iteration without sacrificing test coverage. Use DefaultConfig() for
// production deployments.
//
// Returns:
//   - Config: Configuration with fast timings for tests
//
// Example:
//
//	cfg := solwatch.TestConfig()
//	mgr, err := solwatch.NewManager(clients, cfg)
func TestConfig() Config {
	cfg := DefaultConfig()

	cfg.ThrottleInterval = 1 * time.Millisecond
	cfg.RetryBaseDelay = 5 * time.Millisecond
	cfg.RetryMaxDelay = 50 * time.Millisecond
	cfg.ReapInterval = 20 * time.Millisecond
	cfg.StaleThreshold = 60 * time.Millisecond
	cfg.CacheTTL = 100 * time.Millisecond
	cfg.CacheCleanupInterval = 50 * time.Millisecond

	return cfg
}

// UnmarshalYAML decodes the config from YAML, accepting Go duration strings
// ("100ms", "10m") for every duration field.
func (cfg *Config) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		ThrottleInterval     string  `yaml:"throttleInterval"`
		MaxRetries           int     `yaml:"maxRetries"`
		RetryBaseDelay       string  `yaml:"retryBaseDelay"`
		RetryBackoffFactor   float64 `yaml:"retryBackoffFactor"`
		RetryMaxDelay        string  `yaml:"retryMaxDelay"`
		ReapInterval         string  `yaml:"reapInterval"`
		StaleThreshold       string  `yaml:"staleThreshold"`
		CacheCapacity        int     `yaml:"cacheCapacity"`
		CacheTTL             string  `yaml:"cacheTtl"`
		CacheCleanupInterval string  `yaml:"cacheCleanupInterval"`
		EventBufferSize      int     `yaml:"eventBufferSize"`
		Commitment           string  `yaml:"commitment"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	durations := []struct {
		name string
		src  string
		dst  *time.Duration
	}{
		{"throttleInterval", raw.ThrottleInterval, &cfg.ThrottleInterval},
		{"retryBaseDelay", raw.RetryBaseDelay, &cfg.RetryBaseDelay},
		{"retryMaxDelay", raw.RetryMaxDelay, &cfg.RetryMaxDelay},
		{"reapInterval", raw.ReapInterval, &cfg.ReapInterval},
		{"staleThreshold", raw.StaleThreshold, &cfg.StaleThreshold},
		{"cacheTtl", raw.CacheTTL, &cfg.CacheTTL},
		{"cacheCleanupInterval", raw.CacheCleanupInterval, &cfg.CacheCleanupInterval},
	}
	for _, d := range durations {
		if d.src == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.src)
		if err != nil {
			return fmt.Errorf("invalid duration for %s: %w", d.name, err)
		}
		*d.dst = parsed
	}

	cfg.MaxRetries = raw.MaxRetries
	cfg.RetryBackoffFactor = raw.RetryBackoffFactor
	cfg.CacheCapacity = raw.CacheCapacity
	cfg.EventBufferSize = raw.EventBufferSize
	cfg.Commitment = rpc.CommitmentType(raw.Commitment)

	return nil
}

// LoadConfigFile reads a YAML configuration file, applies defaults for
// omitted fields, and validates the result.
//
// Parameters:
//   - path: YAML file path
//
// Returns:
//   - Config: The loaded configuration
//   - error: Read, parse, or validation failure
func LoadConfigFile(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	SetDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return cfg, nil
}
