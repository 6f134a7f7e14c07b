package layer

import "github.com/dshills/pixelstorm/internal/engine/surface"

// Layer is one drawing surface plus its hidden-state alternate.
type Layer struct {
	primary   *surface.Bitmap
	alternate *surface.Bitmap
	visible   bool
}

// New creates an empty, visible layer of the given size.
func New(width, height int) *Layer {
	return &Layer{
		primary:   surface.NewBitmap(width, height),
		alternate: surface.NewBitmap(width, height),
		visible:   true,
	}
}

// Primary returns the surface that is composited and drawn into while visible.
func (l *Layer) Primary() *surface.Bitmap {
	return l.primary
}

// Alternate returns the surface that holds the layer content while hidden.
func (l *Layer) Alternate() *surface.Bitmap {
	return l.alternate
}

// Content returns the surface currently holding the layer's pixels.
func (l *Layer) Content() *surface.Bitmap {
	if l.visible {
		return l.primary
	}
	return l.alternate
}

// Visible reports whether the layer is shown.
func (l *Layer) Visible() bool {
	return l.visible
}

// SetVisible shows or hides the layer, moving its content between the
// primary and alternate surfaces. Setting the current value is a no-op.
func (l *Layer) SetVisible(visible bool) {
	if l.visible == visible {
		return
	}
	l.SwitchSurfaces(true)
	l.visible = visible
}

// SwitchSurfaces swaps the primary and alternate surfaces.
// When persist is false the surface swapped out of primary is cleared.
func (l *Layer) SwitchSurfaces(persist bool) {
	l.primary, l.alternate = l.alternate, l.primary
	if !persist {
		l.alternate.Clear()
	}
}

// Clone returns a deep copy of the layer.
func (l *Layer) Clone() *Layer {
	return &Layer{
		primary:   l.primary.Clone(),
		alternate: l.alternate.Clone(),
		visible:   l.visible,
	}
}
