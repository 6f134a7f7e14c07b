// Package lua provides script commands: history commands whose effect is a
// Lua program run against the document.
//
// Scripts run in a fresh, sandboxed gopher-lua state on every Apply, so a
// script replays exactly like any other command. Only the base, table,
// string and math libraries are opened, and the functions that load code
// from files or strings are removed.
//
// # Canvas API
//
// A global canvas table gives the script access to the current layer:
//
//	canvas.fill_rect(x, y, w, h, "#rrggbb")
//	canvas.stroke(x0, y0, x1, y1, width, "#rrggbb")
//	canvas.clear()
//	canvas.width()
//	canvas.height()
//	canvas.layer_count()
//	canvas.current_layer()
//
// Every drawing call counts against an operation budget
// (WithOperationLimit). Exceeding it fails the script with
// ErrOperationLimit. A run is also bounded in time (WithExecutionTimeout);
// a script still running at the deadline fails with ErrTimeout.
//
// math.random and math.randomseed use a generator seeded from the command's
// Seed, which is persisted with the script.
//
// # Usage
//
//	cmd := lua.NewScriptCommand("checker", src, lua.WithOperationLimit(500))
//	if err := eng.Execute(cmd); err != nil {
//	    var se *lua.ScriptError
//	    if errors.As(err, &se) {
//	        log.Printf("script %s failed: %v", se.Name, se.Err)
//	    }
//	}
package lua
