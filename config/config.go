// Package config holds the emulator's run configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// MaxMemorySize is the size of the RV32 address space.
const MaxMemorySize = 1 << 32

// Config holds the parameters of an emulation run.
type Config struct {
	// MemorySize is the size of the flat memory in bytes.
	// Default: 1 MiB.
	MemorySize uint64 `json:"memory_size"`

	// LoadAddress is the byte address raw images are loaded at. It must be
	// word aligned. Default: 0.
	LoadAddress uint32 `json:"load_address"`

	// MaxInstructions stops a run that has not halted after this many
	// instructions. Default: 0 (no limit).
	MaxInstructions uint64 `json:"max_instructions"`

	// LogLevel is a logrus level name. Default: "info".
	LogLevel string `json:"log_level"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		MemorySize:      1 << 20,
		LoadAddress:     0,
		MaxInstructions: 0,
		LogLevel:        logrus.InfoLevel.String(),
	}
}

// LoadConfig loads a Config from a JSON file. Fields missing from the file
// keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a Config to a JSON file.
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that the configuration describes a usable machine.
func (c *Config) Validate() error {
	if c.MemorySize == 0 {
		return fmt.Errorf("memory_size must be > 0")
	}
	if c.MemorySize > MaxMemorySize {
		return fmt.Errorf("memory_size must be <= %d", uint64(MaxMemorySize))
	}
	if c.LoadAddress%4 != 0 {
		return fmt.Errorf("load_address must be word aligned")
	}
	if uint64(c.LoadAddress) >= c.MemorySize {
		return fmt.Errorf("load_address must be inside memory")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (logrus.Level, error) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

// Clone returns a copy of the Config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
