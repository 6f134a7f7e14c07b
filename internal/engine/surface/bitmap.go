package surface

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// Bitmap is a fixed-size RGBA pixel buffer.
type Bitmap struct {
	img *image.RGBA
}

// NewBitmap creates a transparent bitmap of the given size.
// Non-positive dimensions produce an empty bitmap.
func NewBitmap(width, height int) *Bitmap {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Bitmap{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// Image returns the underlying image. Writes to it mutate the bitmap.
func (b *Bitmap) Image() *image.RGBA {
	return b.img
}

// Bounds returns the bitmap bounds.
func (b *Bitmap) Bounds() image.Rectangle {
	return b.img.Bounds()
}

// Width returns the bitmap width in pixels.
func (b *Bitmap) Width() int {
	return b.img.Bounds().Dx()
}

// Height returns the bitmap height in pixels.
func (b *Bitmap) Height() int {
	return b.img.Bounds().Dy()
}

// At returns the pixel at (x, y). Out of bounds reads return transparent.
func (b *Bitmap) At(x, y int) color.RGBA {
	return b.img.RGBAAt(x, y)
}

// Clear sets every pixel to transparent.
func (b *Bitmap) Clear() {
	clear(b.img.Pix)
}

// Fill replaces every pixel with c.
func (b *Bitmap) Fill(c color.Color) {
	draw.Draw(b.img, b.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// IsEmpty reports whether every pixel is fully transparent.
func (b *Bitmap) IsEmpty() bool {
	for _, v := range b.img.Pix {
		if v != 0 {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the bitmap.
func (b *Bitmap) Clone() *Bitmap {
	img := image.NewRGBA(b.img.Bounds())
	copy(img.Pix, b.img.Pix)
	return &Bitmap{img: img}
}

// Equal reports whether both bitmaps have the same bounds and pixels.
func (b *Bitmap) Equal(other *Bitmap) bool {
	if b == nil || other == nil {
		return b == other
	}
	if b.img.Bounds() != other.img.Bounds() {
		return false
	}
	return bytes.Equal(b.img.Pix, other.img.Pix)
}

// CopyFrom replaces every pixel with the pixels of src.
func (b *Bitmap) CopyFrom(src *Bitmap) error {
	if src.Bounds() != b.Bounds() {
		return fmt.Errorf("%w: %v into %v", ErrSizeMismatch, src.Bounds(), b.Bounds())
	}
	copy(b.img.Pix, src.img.Pix)
	return nil
}
