// Package config provides the pixelstorm configuration.
//
// Configuration is layered, higher layers overriding lower:
//
//  1. Built-in defaults (Default)
//  2. A TOML file, if it exists
//  3. Environment variables prefixed with PIXELSTORM_
//
// A complete file looks like this:
//
//	[canvas]
//	width = 64
//	height = 64
//	background = "#ffffff"
//
//	[history]
//	snapshot_order = "legacy"   # or "chronological"
//
//	[script]
//	operation_limit = 100000
//
//	[log]
//	verbose = false
//
// Files that fail to parse return a *loader.ParseError. Unknown settings and
// out-of-range values return a *ValidationError, which matches
// ErrValidationFailed with errors.Is.
package config
