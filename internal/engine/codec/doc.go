// Package codec persists edit histories.
//
// A history is saved as a document holding the initial command and the
// flat command log of a history.Snapshot, plus an id, a format version and
// the save time. Two formats are supported, picked by file extension:
// JSON (.json) and YAML (.yaml, .yml).
//
// Every command is stored as a kind and its parameters:
//
//	{"kind": "fill_rect", "params": {"x": 1, "y": 2, "width": 3, "height": 4, "color": "#ff0000"}}
//
// Kinds are resolved through a Registry. DefaultRegistry knows every built-in
// command and Lua script commands; applications register their own kinds on
// a Registry of their own.
package codec
