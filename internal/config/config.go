// Package config loads the YAML configuration of the chessrules tools.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/hailam/chessrules/internal/board"
)

// ErrInvalidConfig is returned when a configuration value is out of range.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all program configuration.
type Config struct {
	// DataDir is where the game database lives. Empty means the platform
	// data directory.
	DataDir  string `yaml:"data_dir"`
	LogLevel string `yaml:"log_level"`

	// Board geometry and the position new games start from.
	Columns  string `yaml:"columns"`
	Rows     string `yaml:"rows"`
	StartFEN string `yaml:"start_fen"`

	Diagram Diagram `yaml:"diagram"`
}

// Diagram configures PNG board rendering. Colors are "#rrggbb".
type Diagram struct {
	SquareSize int    `yaml:"square_size"`
	Light      string `yaml:"light"`
	Dark       string `yaml:"dark"`
	Highlight  string `yaml:"highlight"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Columns:  board.Standard.Columns,
		Rows:     board.Standard.Rows,
		StartFEN: board.StartFEN,
		Diagram: Diagram{
			SquareSize: 48,
			Light:      "#f0d9b5",
			Dark:       "#b58863",
			Highlight:  "#cdd26a",
		},
	}
}

// Load reads the YAML file at path over the defaults. An empty path
// yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("'%s': %w", path, err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("'%s': %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("'%s': %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
func (c *Config) Save(path string) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("'%s': %w", path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("'%s': %w", path, err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write file '%s': %w", path, err)
	}
	return nil
}

// Validate checks every field.
func (c *Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	geo, err := c.Geometry()
	if err != nil {
		return err
	}
	if _, err := board.ParseFEN(geo, c.StartFEN); err != nil {
		return fmt.Errorf("%w: start_fen: %v", ErrInvalidConfig, err)
	}
	if c.Diagram.SquareSize < 8 || c.Diagram.SquareSize > 256 {
		return fmt.Errorf("%w: diagram.square_size %d not in [8, 256]", ErrInvalidConfig, c.Diagram.SquareSize)
	}
	for name, color := range map[string]string{
		"light":     c.Diagram.Light,
		"dark":      c.Diagram.Dark,
		"highlight": c.Diagram.Highlight,
	} {
		if _, err := ParseColor(color); err != nil {
			return fmt.Errorf("%w: diagram.%s: %v", ErrInvalidConfig, name, err)
		}
	}
	return nil
}

// Level returns the zerolog level named by LogLevel.
func (c *Config) Level() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("%w: log_level: %v", ErrInvalidConfig, err)
	}
	return level, nil
}

// Geometry returns the board geometry named by Columns and Rows.
func (c *Config) Geometry() (board.Geometry, error) {
	geo, err := board.NewGeometry(c.Columns, c.Rows)
	if err != nil {
		return board.Geometry{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return geo, nil
}

// RGB is a parsed "#rrggbb" color.
type RGB struct {
	R, G, B uint8
}

// ParseColor parses a "#rrggbb" string.
func ParseColor(s string) (RGB, error) {
	if len(s) != 7 || s[0] != '#' {
		return RGB{}, fmt.Errorf("color %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("color %q: %v", s, err)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Hex formats the color as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
