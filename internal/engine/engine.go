package engine

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/dshills/pixelstorm/internal/engine/history"
	"github.com/dshills/pixelstorm/internal/engine/layer"
	"github.com/dshills/pixelstorm/internal/engine/surface"
)

// Re-export commonly used types for convenience.
type (
	// Command is a replayable edit command.
	Command = history.Command

	// Snapshot is the persistable form of a history.
	Snapshot = history.Snapshot

	// Listener is notified after every history change.
	Listener = history.Listener

	// Layer is one layer of the document.
	Layer = layer.Layer
)

// Engine is the main facade for a layered raster document.
// It combines the layer stack and the replay-based edit history.
//
// An Engine is not safe for concurrent use.
type Engine struct {
	// Core components
	layers  *layer.Collection
	history *history.Manager

	// Configuration
	width      int
	height     int
	background surface.Color
	initial    history.Command
	order      history.SnapshotOrder
	logger     history.Logger
}

// New creates an Engine with the given options. The document starts in the
// state produced by its initial command.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		width:      DefaultWidth,
		height:     DefaultHeight,
		background: DefaultBackground,
	}

	// Apply options to get configuration
	for _, opt := range opts {
		opt(e)
	}

	if e.initial == nil {
		e.initial = history.NewDocument(e.width, e.height, e.background)
	}

	e.layers = layer.NewCollection(e.width, e.height)

	histOpts := []history.Option{history.WithSnapshotOrder(e.order)}
	if e.logger != nil {
		histOpts = append(histOpts, history.WithLogger(e.logger))
	}
	e.history = history.NewManager(e.layers, histOpts...)
	e.history.SetInitialCommand(e.initial)

	if err := e.history.Reset(); err != nil {
		return nil, fmt.Errorf("initialize document: %w", err)
	}
	return e, nil
}

// ============================================================================
// History Operations
// ============================================================================

// Execute applies cmd and records it in the history.
func (e *Engine) Execute(cmd Command) error {
	return e.history.Add(cmd)
}

// ExecuteGrouped applies cmds as a single undo unit.
func (e *Engine) ExecuteGrouped(name string, cmds ...Command) error {
	return e.history.AddGroup(name, cmds...)
}

// Undo undoes the last command.
func (e *Engine) Undo() error {
	return e.history.Undo()
}

// Redo redoes the last undone command.
func (e *Engine) Redo() error {
	return e.history.Redo()
}

// Reset discards the history and returns to the initial state.
func (e *Engine) Reset() error {
	return e.history.Reset()
}

// Load replaces the history with snap and rebuilds the document.
func (e *Engine) Load(snap *Snapshot) error {
	return e.history.Load(snap)
}

// Snapshot returns the history as a flat command log.
func (e *Engine) Snapshot() *Snapshot {
	return e.history.Snapshot()
}

// CanUndo returns true if undo is available.
func (e *Engine) CanUndo() bool {
	return e.history.CanUndo()
}

// CanRedo returns true if redo is available.
func (e *Engine) CanRedo() bool {
	return e.history.CanRedo()
}

// UndoCount returns the number of undo operations available.
func (e *Engine) UndoCount() int {
	return e.history.UndoCount()
}

// RedoCount returns the number of redo operations available.
func (e *Engine) RedoCount() int {
	return e.history.RedoCount()
}

// AddListener registers a history listener.
func (e *Engine) AddListener(l Listener) {
	e.history.AddListener(l)
}

// RemoveListener unregisters a history listener.
func (e *Engine) RemoveListener(l Listener) {
	e.history.RemoveListener(l)
}

// History returns the underlying history manager.
func (e *Engine) History() *history.Manager {
	return e.history
}

// ============================================================================
// Layer Operations
// ============================================================================

// Size returns the document size.
func (e *Engine) Size() image.Point {
	return e.layers.Size()
}

// LayerCount returns the number of layers.
func (e *Engine) LayerCount() int {
	return e.layers.Count()
}

// Layer returns the layer at index (0 is the top).
func (e *Engine) Layer(index int) (*Layer, error) {
	return e.layers.LayerAt(index)
}

// CurrentLayerIndex returns the index of the current layer.
func (e *Engine) CurrentLayerIndex() int {
	return e.layers.CurrentIndex()
}

// Layers returns the layer collection.
func (e *Engine) Layers() *layer.Collection {
	return e.layers
}

// SetLayerVisible shows or hides a layer. Visibility is not recorded in the
// history but survives undo.
func (e *Engine) SetLayerVisible(index int, visible bool) error {
	l, err := e.layers.LayerAt(index)
	if err != nil {
		return err
	}
	l.SetVisible(visible)
	return nil
}

// Visibility returns the visible flag of every layer, top first.
func (e *Engine) Visibility() []bool {
	return e.layers.Visibility()
}

// Composite flattens the visible layers, bottom to top, into a new image.
func (e *Engine) Composite() *image.RGBA {
	size := e.layers.Size()
	dst := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))

	layers := e.layers.Layers()
	for i := len(layers) - 1; i >= 0; i-- {
		l := layers[i]
		if !l.Visible() {
			continue
		}
		draw.Draw(dst, dst.Bounds(), l.Primary().Image(), image.Point{}, draw.Over)
	}
	return dst
}
