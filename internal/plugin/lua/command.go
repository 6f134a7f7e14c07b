package lua

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dshills/pixelstorm/internal/engine/history"
	"github.com/dshills/pixelstorm/internal/engine/layer"
	"github.com/dshills/pixelstorm/internal/engine/surface"
)

// KindScript is the persisted kind of a ScriptCommand.
const KindScript = "lua_script"

// ScriptCommand is a generic command that draws by running a Lua script.
//
// Seed feeds math.random, so a script draws the same pixels on every replay.
type ScriptCommand struct {
	Name   string `json:"name" yaml:"name"`
	Source string `json:"source" yaml:"source"`
	Seed   int64  `json:"seed" yaml:"seed"`

	limit   int64
	timeout time.Duration
}

// Option configures a ScriptCommand.
type Option func(*ScriptCommand)

// WithOperationLimit sets the canvas operation budget. Zero or less disables
// the budget.
func WithOperationLimit(n int64) Option {
	return func(c *ScriptCommand) {
		c.limit = n
	}
}

// WithExecutionTimeout bounds the wall-clock time of one run. Zero or less
// disables the timeout.
func WithExecutionTimeout(d time.Duration) Option {
	return func(c *ScriptCommand) {
		c.timeout = d
	}
}

// WithSeed sets the seed of math.random.
func WithSeed(seed int64) Option {
	return func(c *ScriptCommand) {
		c.Seed = seed
	}
}

// NewScriptCommand creates a new script command.
func NewScriptCommand(name, source string, opts ...Option) *ScriptCommand {
	c := &ScriptCommand{
		Name:    name,
		Source:  source,
		limit:   DefaultOperationLimit,
		timeout: DefaultExecutionTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Apply runs the script in a fresh state against the bound canvas.
func (c *ScriptCommand) Apply(canvas *surface.Canvas, layers *layer.Collection) error {
	if c.Source == "" {
		return &ScriptError{Name: c.Name, Err: ErrEmptyScript}
	}

	L := newState()
	defer L.Close()

	ctx := context.Background()
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
		L.SetContext(ctx)
	}

	box := newSandbox(L, c.limit)
	box.install()
	installRandom(L, c.Seed)
	bridge := &canvasBridge{canvas: canvas, layers: layers, box: box}
	bridge.install(L)

	err := doWithRecovery(func() error {
		return L.DoString(c.Source)
	})
	if err == nil {
		return nil
	}
	switch {
	case box.exceeded:
		err = fmt.Errorf("%w after %d operations", ErrOperationLimit, c.limit)
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		err = fmt.Errorf("%w after %v", ErrTimeout, c.timeout)
	}
	return &ScriptError{Name: c.Name, Err: err}
}

// Category returns Generic.
func (c *ScriptCommand) Category() history.Category { return history.Generic }

// Kind returns the persisted command kind.
func (c *ScriptCommand) Kind() string { return KindScript }

// OperationLimit returns the canvas operation budget.
func (c *ScriptCommand) OperationLimit() int64 { return c.limit }

// ExecutionTimeout returns the wall-clock bound of one run.
func (c *ScriptCommand) ExecutionTimeout() time.Duration { return c.timeout }

// Description returns a human-readable description.
func (c *ScriptCommand) Description() string {
	if c.Name != "" {
		return "Script " + c.Name
	}
	return "Script"
}
