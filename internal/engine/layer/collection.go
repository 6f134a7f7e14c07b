package layer

import (
	"fmt"
	"image"
)

// Collection is an ordered stack of layers with a current-layer cursor.
// It is not safe for concurrent use.
type Collection struct {
	width   int
	height  int
	layers  []*Layer
	current int
}

// NewCollection creates a collection in the baseline state.
func NewCollection(width, height int) *Collection {
	c := &Collection{width: width, height: height}
	c.Reset()
	return c
}

// Size returns the document size every layer shares.
func (c *Collection) Size() image.Point {
	return image.Pt(c.width, c.height)
}

// Count returns the number of layers.
func (c *Collection) Count() int {
	return len(c.layers)
}

// Current returns the layer at the cursor, or nil if the collection is empty.
func (c *Collection) Current() *Layer {
	if len(c.layers) == 0 {
		return nil
	}
	return c.layers[c.current]
}

// CurrentIndex returns the cursor position, or -1 if the collection is empty.
func (c *Collection) CurrentIndex() int {
	if len(c.layers) == 0 {
		return -1
	}
	return c.current
}

// SetCurrent moves the cursor.
func (c *Collection) SetCurrent(index int) error {
	if err := c.checkIndex(index); err != nil {
		return err
	}
	c.current = index
	return nil
}

// LayerAt returns the layer at index.
func (c *Collection) LayerAt(index int) (*Layer, error) {
	if err := c.checkIndex(index); err != nil {
		return nil, err
	}
	return c.layers[index], nil
}

// Layers returns a copy of the layer slice, top first.
func (c *Collection) Layers() []*Layer {
	result := make([]*Layer, len(c.layers))
	copy(result, c.layers)
	return result
}

// NewLayer creates an empty visible layer sized for this collection.
// The layer is not added.
func (c *Collection) NewLayer() *Layer {
	return New(c.width, c.height)
}

// InsertAt inserts l so that it ends up at index. Index may equal Count().
// The cursor keeps pointing at the same layer.
func (c *Collection) InsertAt(index int, l *Layer) error {
	if index < 0 || index > len(c.layers) {
		return fmt.Errorf("%w: insert at %d (count %d)", ErrIndexOutOfRange, index, len(c.layers))
	}

	c.layers = append(c.layers, nil)
	copy(c.layers[index+1:], c.layers[index:])
	c.layers[index] = l

	if len(c.layers) > 1 && index <= c.current {
		c.current++
	}
	return nil
}

// RemoveAt removes the layer at index. The cursor is adjusted to stay on the
// same layer, or clamped when the current layer itself was removed.
func (c *Collection) RemoveAt(index int) error {
	if err := c.checkIndex(index); err != nil {
		return err
	}

	c.layers[index] = nil
	c.layers = append(c.layers[:index], c.layers[index+1:]...)

	switch {
	case len(c.layers) == 0:
		c.current = 0
	case index < c.current:
		c.current--
	case c.current >= len(c.layers):
		c.current = len(c.layers) - 1
	}
	return nil
}

// Reset discards all layers and installs one empty, visible baseline layer.
func (c *Collection) Reset() {
	clear(c.layers)
	c.layers = []*Layer{New(c.width, c.height)}
	c.current = 0
}

// Visibility returns the visible flag of every layer, top first.
func (c *Collection) Visibility() []bool {
	result := make([]bool, len(c.layers))
	for i, l := range c.layers {
		result[i] = l.visible
	}
	return result
}

func (c *Collection) checkIndex(index int) error {
	if index < 0 || index >= len(c.layers) {
		return fmt.Errorf("%w: %d (count %d)", ErrIndexOutOfRange, index, len(c.layers))
	}
	return nil
}
