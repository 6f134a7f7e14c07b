package surface

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// Canvas is the drawing surface handed to commands.
// It draws into whichever bitmap it was last bound to.
type Canvas struct {
	target *Bitmap
}

// NewCanvas creates an unbound canvas.
func NewCanvas() *Canvas {
	return &Canvas{}
}

// Bind makes b the drawing target. Binding nil unbinds the canvas.
func (c *Canvas) Bind(b *Bitmap) {
	c.target = b
}

// Target returns the bound bitmap, or nil.
func (c *Canvas) Target() *Bitmap {
	return c.target
}

// Bounds returns the bounds of the bound bitmap, or the empty rectangle.
func (c *Canvas) Bounds() image.Rectangle {
	if c.target == nil {
		return image.Rectangle{}
	}
	return c.target.Bounds()
}

// Clear makes the bound bitmap fully transparent.
func (c *Canvas) Clear() error {
	if c.target == nil {
		return ErrNotBound
	}
	c.target.Clear()
	return nil
}

// FillRect composites col over r, clipped to the bitmap.
func (c *Canvas) FillRect(r image.Rectangle, col color.Color) error {
	if c.target == nil {
		return ErrNotBound
	}
	r = r.Canon().Intersect(c.target.Bounds())
	if r.Empty() {
		return nil
	}
	draw.Draw(c.target.img, r, image.NewUniform(col), image.Point{}, draw.Over)
	return nil
}

// Stroke draws a polyline with a square brush of the given width.
// A single point stamps the brush once.
func (c *Canvas) Stroke(points []image.Point, width int, col color.Color) error {
	if c.target == nil {
		return ErrNotBound
	}
	if len(points) == 0 {
		return nil
	}
	if width < 1 {
		width = 1
	}

	// Stamp every pixel once so translucent colors don't accumulate.
	mask := image.NewAlpha(c.target.Bounds())
	stamp := func(p image.Point) {
		half := width / 2
		r := image.Rect(p.X-half, p.Y-half, p.X-half+width, p.Y-half+width)
		draw.Draw(mask, r, image.Opaque, image.Point{}, draw.Src)
	}

	stamp(points[0])
	for i := 1; i < len(points); i++ {
		line(points[i-1], points[i], stamp)
	}

	draw.DrawMask(c.target.img, c.target.Bounds(), image.NewUniform(col), image.Point{}, mask, image.Point{}, draw.Over)
	return nil
}

// DrawOver composites src over the bound bitmap.
func (c *Canvas) DrawOver(src *Bitmap) error {
	if c.target == nil {
		return ErrNotBound
	}
	if src.Bounds() != c.target.Bounds() {
		return fmt.Errorf("%w: %v over %v", ErrSizeMismatch, src.Bounds(), c.target.Bounds())
	}
	draw.Draw(c.target.img, c.target.Bounds(), src.img, image.Point{}, draw.Over)
	return nil
}

// line visits every point of the segment from a to b (Bresenham).
func line(a, b image.Point, visit func(image.Point)) {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}

	err := dx + dy
	p := a
	for {
		visit(p)
		if p == b {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			p.X += sx
		}
		if e2 <= dx {
			err += dx
			p.Y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
