package codec

import (
	"fmt"
	"sort"

	"github.com/dshills/pixelstorm/internal/engine/history"
	"github.com/dshills/pixelstorm/internal/plugin/lua"
)

// Kinded is implemented by commands that can be persisted.
type Kinded interface {
	Kind() string
}

// Factory returns a new, zero-valued command that parameters are decoded into.
type Factory func() history.Command

// Registry maps command kinds to factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry returns a registry with every built-in command kind and
// Lua script commands.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(history.KindNewDocument, func() history.Command { return &history.NewDocumentCommand{} })
	r.Register(history.KindFillRect, func() history.Command { return &history.FillRectCommand{} })
	r.Register(history.KindStroke, func() history.Command { return &history.StrokeCommand{} })
	r.Register(history.KindClear, func() history.Command { return history.NewClearCommand() })
	r.Register(history.KindSelectLayer, func() history.Command { return &history.SelectLayerCommand{} })
	r.Register(history.KindInsertLayer, func() history.Command { return history.NewInsertLayerCommand() })
	r.Register(history.KindMergeLayers, func() history.Command { return &history.MergeLayersCommand{} })
	r.Register(lua.KindScript, func() history.Command { return lua.NewScriptCommand("", "") })
	return r
}

// Register adds or replaces the factory for kind.
func (r *Registry) Register(kind string, f Factory) {
	r.factories[kind] = f
}

// New creates an empty command of the given kind.
func (r *Registry) New(kind string) (history.Command, error) {
	if kind == history.KindCompound {
		return &history.CompoundCommand{}, nil
	}
	f, ok := r.factories[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return f(), nil
}

// Has reports whether kind can be decoded.
func (r *Registry) Has(kind string) bool {
	if kind == history.KindCompound {
		return true
	}
	_, ok := r.factories[kind]
	return ok
}

// Kinds returns the registered kinds in sorted order.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.factories))
	for k := range r.factories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// kindOf returns the persisted kind of cmd.
func kindOf(cmd history.Command) (string, error) {
	k, ok := cmd.(Kinded)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotPersistable, cmd.Description())
	}
	return k.Kind(), nil
}
