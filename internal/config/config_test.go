package config

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
)

func TestLoadCacheConfigDefaults(t *testing.T) {
    cfg := LoadCacheConfig()
    assert.True(t, cfg.Enabled)
    assert.Equal(t, 30*time.Second, cfg.TTL)
    assert.Equal(t, "cache", cfg.Prefix)
    assert.Equal(t, 1<<20, cfg.MaxBodyBytes)
}

func TestLoadCacheConfigFromEnv(t *testing.T) {
    t.Setenv("CACHE_ENABLED", "off")
    t.Setenv("CACHE_TTL", "2m")
    t.Setenv("CACHE_PREFIX", "hotcache")

    cfg := LoadCacheConfig()
    assert.False(t, cfg.Enabled)
    assert.Equal(t, 2*time.Minute, cfg.TTL)
    assert.Equal(t, "hotcache", cfg.Prefix)
}

func TestLoadRateLimitConfigClamps(t *testing.T) {
    t.Setenv("RATE_LIMIT_CAPACITY", "0")
    t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-3")
    t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
    t.Setenv("RATE_LIMIT_TTL", "1s")

    cfg := LoadRateLimitConfig()
    assert.Equal(t, 1, cfg.Capacity)
    assert.Equal(t, 1, cfg.RefillTokens)
    assert.Equal(t, 2*time.Second, cfg.RefillInterval)
    // TTL never undercuts five refill intervals, or idle buckets would
    // expire mid-burst.
    assert.Equal(t, 10*time.Second, cfg.TTL)
}

func TestEnvHelpersIgnoreGarbage(t *testing.T) {
    t.Setenv("CACHE_TTL", "soon")
    t.Setenv("CACHE_MAX_BODY_BYTES", "lots")
    t.Setenv("CACHE_ENABLED", "maybe")

    cfg := LoadCacheConfig()
    assert.Equal(t, 30*time.Second, cfg.TTL)
    assert.Equal(t, 1<<20, cfg.MaxBodyBytes)
    assert.True(t, cfg.Enabled)
}
