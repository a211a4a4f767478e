package solwatch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	require.Equal(t, 100*time.Millisecond, cfg.ThrottleInterval)
	require.Equal(t, 5, cfg.MaxRetries)
	require.Equal(t, time.Second, cfg.RetryBaseDelay)
	require.Equal(t, 2.0, cfg.RetryBackoffFactor)
	require.Equal(t, 30*time.Second, cfg.RetryMaxDelay)
	require.Equal(t, time.Minute, cfg.ReapInterval)
	require.Equal(t, 10*time.Minute, cfg.StaleThreshold)
	require.Equal(t, rpc.CommitmentConfirmed, cfg.Commitment)
}

func TestTestConfig_IsValid(t *testing.T) {
	cfg := TestConfig()
	require.NoError(t, cfg.Validate())
	require.Less(t, cfg.ReapInterval, DefaultConfig().ReapInterval)
}

func TestSetDefaults_FillsZeroFields(t *testing.T) {
	cfg := Config{ThrottleInterval: 250 * time.Millisecond}
	SetDefaults(&cfg)

	require.Equal(t, 250*time.Millisecond, cfg.ThrottleInterval, "explicit values survive")
	require.Equal(t, 5, cfg.MaxRetries)
	require.Equal(t, 500, cfg.CacheCapacity)
	require.Equal(t, 16, cfg.EventBufferSize)
	require.Equal(t, rpc.CommitmentConfirmed, cfg.Commitment)
	require.NoError(t, cfg.Validate())
}

func TestConfig_ValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero throttle interval", func(c *Config) { c.ThrottleInterval = -1 }},
		{"zero retry base delay", func(c *Config) { c.RetryBaseDelay = -1 }},
		{"max delay below base delay", func(c *Config) { c.RetryMaxDelay = c.RetryBaseDelay / 2 }},
		{"shrinking backoff factor", func(c *Config) { c.RetryBackoffFactor = 0.5 }},
		{"negative max retries", func(c *Config) { c.MaxRetries = -1 }},
		{"stale threshold below reap interval", func(c *Config) { c.StaleThreshold = c.ReapInterval }},
		{"zero cache capacity", func(c *Config) { c.CacheCapacity = -1 }},
		{"zero cache ttl", func(c *Config) { c.CacheTTL = -1 }},
		{"zero event buffer", func(c *Config) { c.EventBufferSize = -1 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	t.Run("loads yaml and applies defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		raw := "throttleInterval: 200ms\nmaxRetries: 3\ncommitment: finalized\n"
		require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

		cfg, err := LoadConfigFile(path)
		require.NoError(t, err)
		require.Equal(t, 200*time.Millisecond, cfg.ThrottleInterval)
		require.Equal(t, 3, cfg.MaxRetries)
		require.Equal(t, rpc.CommitmentFinalized, cfg.Commitment)
		require.Equal(t, 10*time.Minute, cfg.StaleThreshold, "omitted fields take defaults")
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("throttleInterval: -5ms\n"), 0o600))

		_, err := LoadConfigFile(path)
		require.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
	})
}
