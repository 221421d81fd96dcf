package fetch

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "LISTER_FETCH__"

type RetryCfg struct {
	MaxRetries     int           `koanf:"max_retries"`
	InitialBackoff time.Duration `koanf:"initial_backoff"`
	MaxBackoff     time.Duration `koanf:"max_backoff"`
}

// RateCfg sizes the token bucket shared by every request of a driver.
type RateCfg struct {
	Capacity int64         `koanf:"capacity"` // burst size
	Refill   int64         `koanf:"refill"`   // tokens added per interval
	Interval time.Duration `koanf:"interval"`
}

type Config struct {
	Timeout      time.Duration `koanf:"timeout"`
	UserAgent    string        `koanf:"user_agent"`
	MaxBodyBytes int64         `koanf:"max_body_bytes"`
	InsecureTLS  bool          `koanf:"insecure_tls"`

	Retry RetryCfg `koanf:"retry"`
	Rate  RateCfg  `koanf:"rate"`
}

// ---------------------------------------------------------------------------
// Loader
// ---------------------------------------------------------------------------

// LoadConfig merges YAML (if present) with env-vars
// (prefix `LISTER_FETCH__`, nesting delimiter `__`).
func LoadConfig(path string) (Config, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil &&
			!errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}
	sv := k.String("schema_version")
	if sv != "" && sv != "v1" {
		return Config{}, fmt.Errorf("fetch schema_version %q not supported (want v1)", sv)
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return Config{}, err
	}

	cfg := DefaultConfig()
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, err
	}
	ApplyDefaults(&cfg)
	return cfg, nil
}

// LISTER_FETCH__RETRY__MAX_RETRIES -> retry.max_retries
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
}

// ---------------------------------------------------------------------------
// defaults
// ---------------------------------------------------------------------------

// DefaultConfig is the configuration used when no file or env overrides a key.
func DefaultConfig() Config {
	c := Config{Retry: RetryCfg{MaxRetries: 3}}
	ApplyDefaults(&c)
	return c
}

// ApplyDefaults fills zero values. MaxRetries is left alone: zero means a
// single attempt.
func ApplyDefaults(c *Config) {
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	if c.UserAgent == "" {
		c.UserAgent = "lister/1"
	}
	if c.MaxBodyBytes == 0 {
		c.MaxBodyBytes = 64 << 20
	}
	if c.Retry.MaxRetries < 0 {
		c.Retry.MaxRetries = 0
	}
	if c.Retry.InitialBackoff == 0 {
		c.Retry.InitialBackoff = 200 * time.Millisecond
	}
	if c.Retry.MaxBackoff == 0 {
		c.Retry.MaxBackoff = 5 * time.Second
	}
	if c.Rate.Capacity == 0 {
		c.Rate.Capacity = 10
	}
	if c.Rate.Refill == 0 {
		c.Rate.Refill = c.Rate.Capacity
	}
	if c.Rate.Interval == 0 {
		c.Rate.Interval = time.Second
	}
}
