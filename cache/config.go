package cache

import (
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the file form of the store options.
type Config struct {
	Size       int           `json:"size" yaml:"size"`
	DefaultTTL time.Duration `json:"default_ttl" yaml:"default_ttl"`
	MaxTTL     time.Duration `json:"max_ttl" yaml:"max_ttl"`
	Sliding    bool          `json:"sliding" yaml:"sliding"`
}

// DefaultConfig returns the configuration NewStore uses without options.
func DefaultConfig() Config {
	return Config{
		Size:       DefaultSize,
		DefaultTTL: DefaultTTL,
	}
}

// LoadConfig decodes a YAML document into a Config, starting from DefaultConfig.
// Durations are written the way time.ParseDuration reads them ("15m", "90s").
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("cache: decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings NewStore cannot honour.
func (c Config) Validate() error {
	if c.Size < 0 {
		return fmt.Errorf("cache: size must not be negative, got %d", c.Size)
	}
	if c.DefaultTTL < 0 {
		return fmt.Errorf("cache: default_ttl must not be negative, got %s", c.DefaultTTL)
	}
	if c.MaxTTL < 0 {
		return fmt.Errorf("cache: max_ttl must not be negative, got %s", c.MaxTTL)
	}
	if c.MaxTTL > 0 && c.DefaultTTL > c.MaxTTL {
		return fmt.Errorf("cache: default_ttl %s exceeds max_ttl %s", c.DefaultTTL, c.MaxTTL)
	}
	return nil
}

// Options converts the config to store options.
func (c Config) Options() []Option {
	return []Option{
		WithSize(c.Size),
		WithDefaultTTL(c.DefaultTTL),
		WithMaxTTL(c.MaxTTL),
		WithSlidingExpiration(c.Sliding),
	}
}
