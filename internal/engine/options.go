package engine

import (
	"github.com/dshills/pixelstorm/internal/engine/history"
	"github.com/dshills/pixelstorm/internal/engine/surface"
)

// Default configuration values.
const (
	DefaultWidth  = 64
	DefaultHeight = 64
)

// DefaultBackground is the fill of a new document.
var DefaultBackground = surface.White

// Option configures an Engine during creation.
type Option func(*Engine)

// WithSize sets the document size in pixels.
func WithSize(width, height int) Option {
	return func(e *Engine) {
		if width > 0 && height > 0 {
			e.width = width
			e.height = height
		}
	}
}

// WithBackground sets the fill applied by the initial command.
func WithBackground(c surface.Color) Option {
	return func(e *Engine) {
		e.background = c
	}
}

// WithInitialCommand replaces the default new-document initial command.
func WithInitialCommand(cmd history.Command) Option {
	return func(e *Engine) {
		e.initial = cmd
	}
}

// WithSnapshotOrder sets how Snapshot orders the command log.
func WithSnapshotOrder(order history.SnapshotOrder) Option {
	return func(e *Engine) {
		e.order = order
	}
}

// WithLogger traces history replays to logger.
func WithLogger(logger history.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}
