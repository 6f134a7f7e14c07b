package config

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/pixelstorm/internal/config/loader"
	"github.com/dshills/pixelstorm/internal/engine/history"
	"github.com/dshills/pixelstorm/internal/engine/surface"
	"github.com/dshills/pixelstorm/internal/plugin/lua"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "PIXELSTORM_"

// MaxCanvasSize bounds canvas width and height.
const MaxCanvasSize = 16384

// Config holds all settings.
type Config struct {
	Canvas  CanvasConfig  `toml:"canvas"`
	History HistoryConfig `toml:"history"`
	Script  ScriptConfig  `toml:"script"`
	Log     LogConfig     `toml:"log"`
}

// CanvasConfig holds the size and background of new documents.
type CanvasConfig struct {
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Background string `toml:"background"`
}

// HistoryConfig holds edit history settings.
type HistoryConfig struct {
	// SnapshotOrder is "legacy" or "chronological".
	SnapshotOrder string `toml:"snapshot_order"`
}

// ScriptConfig holds Lua script settings.
type ScriptConfig struct {
	// OperationLimit is the canvas operation budget of a script.
	// Zero disables the budget.
	OperationLimit int64 `toml:"operation_limit"`

	// Timeout bounds one script run, as a duration string ("5s").
	// "0s" disables the timeout.
	Timeout string `toml:"timeout"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Verbose bool `toml:"verbose"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Canvas: CanvasConfig{
			Width:      64,
			Height:     64,
			Background: "#ffffff",
		},
		History: HistoryConfig{
			SnapshotOrder: history.OrderLegacy.String(),
		},
		Script: ScriptConfig{
			OperationLimit: lua.DefaultOperationLimit,
			Timeout:        lua.DefaultExecutionTimeout.String(),
		},
	}
}

// Option configures Load.
type Option func(*options)

type options struct {
	fs        loader.FileSystem
	envPrefix string
}

// WithFS reads the config file from fs.
func WithFS(fs loader.FileSystem) Option {
	return func(o *options) {
		o.fs = fs
	}
}

// WithEnvPrefix sets the environment override prefix. An empty prefix
// disables environment overrides.
func WithEnvPrefix(prefix string) Option {
	return func(o *options) {
		o.envPrefix = prefix
	}
}

// Load builds the configuration from the defaults, the TOML file at path and
// the environment, then validates it. A missing file or an empty path means
// defaults.
func Load(path string, opts ...Option) (*Config, error) {
	o := &options{
		fs:        loader.DefaultFS(),
		envPrefix: EnvPrefix,
	}
	for _, opt := range opts {
		opt(o)
	}

	merged, err := Default().toMap()
	if err != nil {
		return nil, err
	}

	layers := []loader.Loader{loader.NewEnvLoader(o.envPrefix)}
	if path != "" {
		layers = append([]loader.Loader{loader.NewTOMLLoaderWithFS(o.fs, path)}, layers...)
	}
	for _, l := range layers {
		m, err := l.Load()
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, m)
	}

	cfg, err := fromMap(merged)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes and validates TOML data layered over the defaults.
// Environment variables are not consulted.
func Parse(data []byte) (*Config, error) {
	m, err := loader.Parse("<input>", data)
	if err != nil {
		return nil, err
	}
	merged, err := Default().toMap()
	if err != nil {
		return nil, err
	}
	cfg, err := fromMap(loader.DeepMerge(merged, m))
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// toMap converts c into the generic form the loaders produce.
func (c *Config) toMap() (map[string]any, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	m := make(map[string]any)
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return m, nil
}

// fromMap decodes a merged map, rejecting unknown settings and wrong types.
func fromMap(m map[string]any) (*Config, error) {
	data, err := toml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}

	cfg := &Config{}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			paths := make([]string, 0, len(strict.Errors))
			for _, e := range strict.Errors {
				paths = append(paths, strings.Join(e.Key(), "."))
			}
			return nil, &ValidationError{
				Path:    strings.Join(paths, ", "),
				Message: "unknown setting",
				Code:    ErrCodeUnknownSetting,
			}
		}
		return nil, &ValidationError{
			Path:    "config",
			Message: err.Error(),
			Code:    ErrCodeTypeMismatch,
		}
	}
	return cfg, nil
}

// Validate checks every setting and returns all failures joined.
func (c *Config) Validate() error {
	var errs []error

	if c.Canvas.Width < 1 || c.Canvas.Width > MaxCanvasSize {
		errs = append(errs, &ValidationError{
			Path:    "canvas.width",
			Message: fmt.Sprintf("must be between 1 and %d", MaxCanvasSize),
			Value:   c.Canvas.Width,
			Code:    ErrCodeOutOfRange,
		})
	}
	if c.Canvas.Height < 1 || c.Canvas.Height > MaxCanvasSize {
		errs = append(errs, &ValidationError{
			Path:    "canvas.height",
			Message: fmt.Sprintf("must be between 1 and %d", MaxCanvasSize),
			Value:   c.Canvas.Height,
			Code:    ErrCodeOutOfRange,
		})
	}
	if _, err := surface.ParseColor(c.Canvas.Background); err != nil {
		errs = append(errs, &ValidationError{
			Path:    "canvas.background",
			Message: "must be #rgb, #rrggbb or #rrggbbaa",
			Value:   c.Canvas.Background,
			Code:    ErrCodePatternMismatch,
		})
	}
	if _, err := history.ParseSnapshotOrder(c.History.SnapshotOrder); err != nil {
		errs = append(errs, &ValidationError{
			Path:    "history.snapshot_order",
			Message: "must be legacy or chronological",
			Value:   c.History.SnapshotOrder,
			Code:    ErrCodeInvalidEnum,
		})
	}
	if c.Script.OperationLimit < 0 {
		errs = append(errs, &ValidationError{
			Path:    "script.operation_limit",
			Message: "must not be negative",
			Value:   c.Script.OperationLimit,
			Code:    ErrCodeOutOfRange,
		})
	}

	if d, err := time.ParseDuration(c.Script.Timeout); err != nil {
		errs = append(errs, &ValidationError{
			Path:    "script.timeout",
			Message: "must be a duration such as 500ms or 5s",
			Value:   c.Script.Timeout,
			Code:    ErrCodePatternMismatch,
		})
	} else if d < 0 {
		errs = append(errs, &ValidationError{
			Path:    "script.timeout",
			Message: "must not be negative",
			Value:   c.Script.Timeout,
			Code:    ErrCodeOutOfRange,
		})
	}

	return errors.Join(errs...)
}

// ScriptTimeout returns the parsed script timeout. Invalid values, which
// Validate rejects, read as the default.
func (c *Config) ScriptTimeout() time.Duration {
	d, err := time.ParseDuration(c.Script.Timeout)
	if err != nil {
		return lua.DefaultExecutionTimeout
	}
	return d
}

// BackgroundColor returns the parsed canvas background.
// Invalid values yield white; Load rejects them.
func (c *Config) BackgroundColor() surface.Color {
	col, err := surface.ParseColor(c.Canvas.Background)
	if err != nil {
		return surface.White
	}
	return col
}

// SnapshotOrder returns the parsed history snapshot order.
func (c *Config) SnapshotOrder() history.SnapshotOrder {
	order, _ := history.ParseSnapshotOrder(c.History.SnapshotOrder)
	return order
}
