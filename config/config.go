// Package config loads tvm-agent settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"tvm-agent/report"
	"tvm-agent/service"
)

const (
	CacheMemory = "memory"
	CacheRedis  = "redis"

	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config holds the complete application configuration
type Config struct {
	Server    ServerConfig    `toml:"server"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
	Cache     CacheConfig     `toml:"cache"`
	Store     StoreConfig     `toml:"store"`
	Scan      ScanConfig      `toml:"scan"`
}

type ServerConfig struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
	IdleTimeout  Duration `toml:"idle_timeout"`
}

type RateLimitConfig struct {
	Capacity int      `toml:"capacity"`
	Window   Duration `toml:"window"`
}

type CacheConfig struct {
	Backend   string   `toml:"backend"`
	RedisAddr string   `toml:"redis_addr"`
	TTL       Duration `toml:"ttl"`
}

type StoreConfig struct {
	Backend    string `toml:"backend"`
	SQLitePath string `toml:"sqlite_path"`
}

// ScanConfig holds the inputs of the default rate scans.
type ScanConfig struct {
	Periods            float64   `toml:"periods"`
	Payment            float64   `toml:"payment"`
	FutureValue        float64   `toml:"future_value"`
	TargetPresentValue float64   `toml:"target_present_value"`
	PVRates            []float64 `toml:"pv_rates"`
	NPVRates           []float64 `toml:"npv_rates"`
}

// Duration wraps time.Duration for TOML strings such as "15s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  Duration{15 * time.Second},
			WriteTimeout: Duration{15 * time.Second},
			IdleTimeout:  Duration{60 * time.Second},
		},
		RateLimit: RateLimitConfig{
			Capacity: 5,
			Window:   Duration{time.Minute},
		},
		Cache: CacheConfig{
			Backend:   CacheMemory,
			RedisAddr: "localhost:6379",
			TTL:       Duration{time.Hour},
		},
		Store: StoreConfig{
			Backend:    StoreMemory,
			SQLitePath: "./data/scans.db",
		},
		Scan: ScanConfig{
			Periods:            service.DefaultPeriods,
			Payment:            service.DefaultPayment,
			FutureValue:        service.DefaultFutureValue,
			TargetPresentValue: service.DefaultTargetPresentValue,
			PVRates:            service.DefaultPVScanRates(),
			NPVRates:           service.DefaultNPVScanRates(),
		},
	}
}

// Load reads path on top of Default(). An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	path = os.ExpandEnv(path)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is empty"))
	}
	if c.RateLimit.Capacity <= 0 {
		errs = append(errs, errors.New("rate_limit.capacity must be positive"))
	}
	if c.RateLimit.Window.Duration <= 0 {
		errs = append(errs, errors.New("rate_limit.window must be positive"))
	}

	switch c.Cache.Backend {
	case CacheMemory:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			errs = append(errs, errors.New("cache.redis_addr is required for redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown cache.backend %q", c.Cache.Backend))
	}

	switch c.Store.Backend {
	case StoreMemory:
	case StoreSQLite:
		if c.Store.SQLitePath == "" {
			errs = append(errs, errors.New("store.sqlite_path is required for sqlite"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store.backend %q", c.Store.Backend))
	}

	return errors.Join(errs...)
}

// ReportParams converts the scan section for the report driver.
func (c *Config) ReportParams() report.Params {
	return report.Params{
		Periods:            c.Scan.Periods,
		Payment:            c.Scan.Payment,
		FutureValue:        c.Scan.FutureValue,
		TargetPresentValue: c.Scan.TargetPresentValue,
		PVRates:            c.Scan.PVRates,
		NPVRates:           c.Scan.NPVRates,
	}
}
