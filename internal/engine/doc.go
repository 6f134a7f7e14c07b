// Package engine provides the layered raster document engine for pixelstorm.
//
// The engine package is the facade over the layer stack and its edit
// history. Every edit is a history.Command; undo and redo are implemented by
// replaying the command log from the document's initial command.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - surface: RGBA bitmaps and the rebindable drawing canvas
//   - layer: layers with hidden-state surfaces and the ordered layer stack
//   - history: commands, the replay-based undo/redo manager and snapshots
//   - codec: JSON and YAML persistence of history snapshots
//
// # Basic Usage
//
//	e, _ := engine.New(engine.WithSize(128, 128))
//
//	e.Execute(history.NewInsertLayerCommand())
//	e.Execute(history.NewFillRectCommand(0, 0, 16, 16, red))
//
//	e.Undo() // replays everything but the fill
//	e.Redo() // re-applies the fill
//
//	img := e.Composite() // visible layers, bottom to top
//
// # Visibility
//
// Layer visibility is view state, not history. SetLayerVisible does not add a
// command, and undo keeps the visibility of every layer that survives it.
//
// # Persistence
//
// Snapshot returns the history as a flat command log and Load rebuilds the
// document from one. The codec package stores snapshots on disk.
//
// # Thread Safety
//
// An Engine is not safe for concurrent use. All operations run synchronously
// on the caller's goroutine.
package engine
