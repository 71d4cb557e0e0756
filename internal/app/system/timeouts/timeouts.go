// Package timeouts provides the deadlines handlers put on remote-store calls.
//
// There are no retries anywhere in the portal: a call that exceeds its
// deadline surfaces as an error to the caller, who may try again.
//
//   - Ping: health checks
//   - Short: single-row reads and lookups
//   - Medium: list reads, single-row writes, sector aggregation
//   - Long: multi-step writes (photo uploads, demographic sync)
//   - Batch: backups
package timeouts

import (
	"sync"
	"time"
)

const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultMedium = 10 * time.Second
	DefaultLong   = 30 * time.Second
	DefaultBatch  = 5 * time.Minute
)

var (
	mu     sync.RWMutex
	values = Config{
		Ping:   DefaultPing,
		Short:  DefaultShort,
		Medium: DefaultMedium,
		Long:   DefaultLong,
		Batch:  DefaultBatch,
	}
)

// Config holds timeout overrides. Zero values keep the current value.
type Config struct {
	Ping   time.Duration
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
	Batch  time.Duration
}

// Configure applies non-zero overrides. Call once during startup.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	set := func(dst *time.Duration, v time.Duration) {
		if v > 0 {
			*dst = v
		}
	}
	set(&values.Ping, cfg.Ping)
	set(&values.Short, cfg.Short)
	set(&values.Medium, cfg.Medium)
	set(&values.Long, cfg.Long)
	set(&values.Batch, cfg.Batch)
}

// Reset restores the defaults. Useful for testing.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	values = Config{Ping: DefaultPing, Short: DefaultShort, Medium: DefaultMedium, Long: DefaultLong, Batch: DefaultBatch}
}

func get(f func(Config) time.Duration) time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return f(values)
}

func Ping() time.Duration { return get(func(c Config) time.Duration { return c.Ping }) }
func Short() time.Duration { return get(func(c Config) time.Duration { return c.Short }) }
func Medium() time.Duration { return get(func(c Config) time.Duration { return c.Medium }) }
func Long() time.Duration { return get(func(c Config) time.Duration { return c.Long }) }
func Batch() time.Duration { return get(func(c Config) time.Duration { return c.Batch }) }
