package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"monsterpet/internal/pet"
)

// Environment variables that override the config file
const (
	EnvPetName = "MONSTERPET_NAME"
	EnvAddr    = "MONSTERPET_ADDR"
	EnvLogFile = "MONSTERPET_LOG_FILE"
	EnvColor   = "MONSTERPET_COLOR"
	EnvIdleTTL = "MONSTERPET_IDLE_TTL"
)

const (
	DefaultAddr    = ":8080"
	DefaultColor   = "#FF75B5"
	DefaultIdleTTL = 30 * time.Minute
)

// TestConfigDir is used for testing to override the config directory
var TestConfigDir string

type Config struct {
	PetName string       `yaml:"pet_name"`
	Server  ServerConfig `yaml:"server"`
	Log     LogConfig    `yaml:"log"`
	UI      UIConfig     `yaml:"ui"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
	// IdleTTL is how long a game with no connected client and no requests
	// is kept before it is dropped
	IdleTTL time.Duration `yaml:"idle_ttl"`
}

type LogConfig struct {
	// File receives log output while the terminal UI owns the screen
	File string `yaml:"file"`
}

type UIConfig struct {
	Color string `yaml:"color"`
}

// Dir returns the directory holding the config and log files
func Dir() (string, error) {
	if TestConfigDir != "" {
		return TestConfigDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home directory: %w", err)
	}
	return filepath.Join(home, ".config", "monsterpet"), nil
}

// DefaultPath returns the default config file location
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the YAML file at path, applies defaults and then environment
// overrides. A missing file is not an error. Variables from a .env file in
// the working directory are loaded first if one exists.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var c Config
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Printf("No config at %s, using defaults", path)
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := c.ApplyEnv(); err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	return &c, nil
}

// ApplyEnv overrides fields with any environment variables that are set
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvPetName); v != "" {
		c.PetName = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		c.Log.File = v
	}
	if v := os.Getenv(EnvColor); v != "" {
		c.UI.Color = v
	}
	if v := os.Getenv(EnvIdleTTL); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvIdleTTL, err)
		}
		c.Server.IdleTTL = d
	}
	return nil
}

// ApplyDefaults fills every empty field
func (c *Config) ApplyDefaults() {
	if c.PetName == "" {
		c.PetName = pet.DefaultPetName
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.IdleTTL <= 0 {
		c.Server.IdleTTL = DefaultIdleTTL
	}
	if c.UI.Color == "" {
		c.UI.Color = DefaultColor
	}
	if c.Log.File == "" {
		if dir, err := Dir(); err == nil {
			c.Log.File = filepath.Join(dir, "monsterpet.log")
		}
	}
}

// OpenLogFile opens the configured log file for appending, creating its directory
func (c *Config) OpenLogFile() (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(c.Log.File), 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(c.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}
