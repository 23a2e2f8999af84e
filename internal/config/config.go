package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"SceneBoard/internal/input"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "sceneboard.yaml"

// Config is the board configuration loaded from YAML.
type Config struct {
	// Port the host listens on for joining boards
	Port int `yaml:"port"`

	// LogLevel is a logrus level name: debug, info, warn, error
	LogLevel string `yaml:"log_level"`

	// Discovery advertises hosts and browses for them over mDNS
	Discovery bool `yaml:"discovery"`

	Board  BoardConfig  `yaml:"board"`
	Window WindowConfig `yaml:"window"`
}

// BoardConfig holds the initial tool selection and drawing behaviour.
type BoardConfig struct {
	Tool  string  `yaml:"tool"`
	Color string  `yaml:"color"`
	Width float64 `yaml:"width"`
	Grid  bool    `yaml:"grid"`

	// EraserTolerance overrides the default hit distance of twice the
	// element's stroke width. Zero keeps the default.
	EraserTolerance float64 `yaml:"eraser_tolerance,omitempty"`
}

type WindowConfig struct {
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`
}

func Default() *Config {
	return &Config{
		Port:      8888,
		LogLevel:  "info",
		Discovery: true,
		Board: BoardConfig{
			Tool:  string(input.DefaultConfig.Tool),
			Color: input.DefaultConfig.Color,
			Width: input.DefaultConfig.Width,
			Grid:  true,
		},
		Window: WindowConfig{Width: 1024, Height: 768},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if _, err := c.Gesture(); err != nil {
		return err
	}
	if c.Board.EraserTolerance < 0 {
		return fmt.Errorf("eraser_tolerance must not be negative")
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive")
	}
	return nil
}

// Gesture is the initial tool configuration for the board.
func (c *Config) Gesture() (input.Config, error) {
	tool, err := input.ParseTool(c.Board.Tool)
	if err != nil {
		return input.Config{}, err
	}
	g := input.Config{Tool: tool, Color: c.Board.Color, Width: c.Board.Width}
	return g, g.Validate()
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
