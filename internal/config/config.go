// Package config provides centralized configuration management using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration values for frontdesk.
type Config struct {
	Animation     bool          `mapstructure:"animation" yaml:"animation"`
	ExitDuration  time.Duration `mapstructure:"exit_duration" yaml:"exit_duration"`
	EnterDuration time.Duration `mapstructure:"enter_duration" yaml:"enter_duration"`
	DefaultStep   string        `mapstructure:"default_step" yaml:"default_step"`
	MaxOccupancy  int           `mapstructure:"max_occupancy" yaml:"max_occupancy"`
	DataDir       string        `mapstructure:"data_dir" yaml:"data_dir"`
	Publish       bool          `mapstructure:"publish" yaml:"publish"`
	LogLevel      string        `mapstructure:"log_level" yaml:"log_level"`
	LogFile       string        `mapstructure:"log_file" yaml:"log_file"`
}

const envPrefix = "FRONTDESK"

// Defaults returns the configuration used when nothing else is set.
func Defaults() *Config {
	return &Config{
		Animation:     true,
		ExitDuration:  150 * time.Millisecond,
		EnterDuration: 150 * time.Millisecond,
		MaxOccupancy:  4,
		DataDir:       ".frontdesk",
		LogLevel:      "info",
	}
}

// keys lists every configuration key with its default.
func keys() map[string]any {
	d := Defaults()
	return map[string]any{
		"animation":      d.Animation,
		"exit_duration":  d.ExitDuration,
		"enter_duration": d.EnterDuration,
		"default_step":   d.DefaultStep,
		"max_occupancy":  d.MaxOccupancy,
		"data_dir":       d.DataDir,
		"publish":        d.Publish,
		"log_level":      d.LogLevel,
		"log_file":       d.LogFile,
	}
}

// Load loads configuration with full precedence:
// ENV vars > project config > XDG global config > defaults
func Load() (*Config, error) {
	return LoadWithFlags(nil)
}

// LoadWithFlags is Load with flags taking precedence over everything else.
// A flag named like a key with dashes ("max-occupancy") overrides it once
// set on the command line.
func LoadWithFlags(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("frontdesk")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, def := range keys() {
		v.SetDefault(key, def)
		// Explicit binding so Unmarshal sees env-only values
		if err := v.BindEnv(key, envPrefix+"_"+strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
		if flags == nil {
			continue
		}
		if f := flags.Lookup(strings.ReplaceAll(key, "_", "-")); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("binding %s flag: %w", key, err)
			}
		}
	}

	if path := GlobalPath(); fileExists(path) {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	if path := ProjectPath(); fileExists(path) {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the check-in flow cannot run with.
func (c *Config) Validate() error {
	if c.ExitDuration < 0 || c.EnterDuration < 0 {
		return fmt.Errorf("invalid config: transition durations must not be negative")
	}
	if c.MaxOccupancy < 0 {
		return fmt.Errorf("invalid config: max_occupancy must not be negative")
	}
	if c.DataDir == "" {
		return fmt.Errorf("invalid config: data_dir is required")
	}
	return nil
}

// RegistrationsDir is where completed registrations are written.
func (c *Config) RegistrationsDir() string {
	return filepath.Join(c.DataDir, "registrations")
}

// NATSDir is the JetStream store directory.
func (c *Config) NATSDir() string {
	return filepath.Join(c.DataDir, "nats")
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/frontdesk/frontdesk.yml or $XDG_CONFIG_HOME/frontdesk/frontdesk.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "frontdesk", "frontdesk.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "frontdesk", "frontdesk.yml")
}

// ProjectPath returns the project-local config path.
func ProjectPath() string {
	return "frontdesk.yml"
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return write(path, cfg)
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	return write(ProjectPath(), cfg)
}

func write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
