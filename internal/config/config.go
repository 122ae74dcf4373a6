package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBackend = "cpu"
	DefaultDt      = 0.01
	DefaultFrames  = 100
	DefaultDHat    = 0.01
	DefaultGravity = -9.8
)

var (
	// ErrInvalidConfig indicates a configuration value outside its valid range.
	ErrInvalidConfig = errors.New("config: invalid value")
)

// Config is the scene configuration. Engines and sanity checkers read it
// through scene.Scene.Info.
type Config struct {
	Backend     string            `yaml:"backend"`
	Dt          float64           `yaml:"dt"`
	Frames      int               `yaml:"frames"`
	Workers     int               `yaml:"workers"`
	Gravity     [3]float64        `yaml:"gravity"`
	SanityCheck SanityCheckConfig `yaml:"sanity_check"`
	Contact     ContactConfig     `yaml:"contact"`
	Dump        DumpConfig        `yaml:"dump"`
	Log         LogConfig         `yaml:"log"`
}

type SanityCheckConfig struct {
	Enable bool `yaml:"enable"`
}

type ContactConfig struct {
	Enable bool    `yaml:"enable"`
	DHat   float64 `yaml:"d_hat"`
}

// DumpConfig controls frame dumps. An empty Path keeps dumps in memory.
type DumpConfig struct {
	Enable bool   `yaml:"enable"`
	Path   string `yaml:"path"`
	Every  int    `yaml:"every"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

func DefaultConfig() *Config {
	return &Config{
		Backend: DefaultBackend,
		Dt:      DefaultDt,
		Frames:  DefaultFrames,
		Gravity: [3]float64{0, 0, DefaultGravity},
		SanityCheck: SanityCheckConfig{
			Enable: true,
		},
		Contact: ContactConfig{
			Enable: true,
			DHat:   DefaultDHat,
		},
		Dump: DumpConfig{
			Enable: true,
			Every:  1,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch c.Backend {
	case "", "auto", "cpu", "cuda":
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidConfig, c.Backend)
	}
	if c.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, c.Dt)
	}
	if c.Frames < 0 {
		return fmt.Errorf("%w: frames must not be negative, got %d", ErrInvalidConfig, c.Frames)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.Contact.Enable && c.Contact.DHat <= 0 {
		return fmt.Errorf("%w: contact.d_hat must be positive when contact is enabled", ErrInvalidConfig)
	}
	if c.Dump.Every < 0 {
		return fmt.Errorf("%w: dump.every must not be negative, got %d", ErrInvalidConfig, c.Dump.Every)
	}
	return nil
}

// Clone returns an independent copy.
func (c *Config) Clone() *Config {
	out := *c
	return &out
}
