// Package history provides replay-based undo/redo for the raster engine.
//
// Commands are never inverted. The Manager keeps the applied commands and the
// undone commands on two stacks and rebuilds document state by replaying:
//
//	m := history.NewManager(layers)
//	m.SetInitialCommand(history.NewDocument(64, 64, surface.White))
//	m.Reset()
//
//	m.Add(history.NewInsertLayerCommand())
//	m.Add(history.NewFillRectCommand(0, 0, 8, 8, red))
//
//	m.Undo() // reset layers, replay initial command + remaining history
//	m.Redo() // re-apply the undone command on the current state
//
// # Categories
//
// Every Command reports a Category. Two categories change the shape of the
// layer collection and get special treatment on undo:
//
//   - InsertLayer: the inserted layer (always index 0) is removed before replay
//   - MergeLayers: layer visibility is not carried across the replay
//
// Visibility is not recorded in history. Undo captures each layer's visible
// flag before the replay and restores it afterwards, unless the undone command
// opts out through VisibilityRestorer.
//
// # Snapshots
//
// Snapshot and Load turn the history into a flat command log and back. See
// SnapshotOrder for how the log is ordered.
//
// # Threading
//
// A Manager is single-threaded. Listeners are called synchronously after each
// successful mutation and must not call back into the Manager.
package history
