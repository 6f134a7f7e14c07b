// Package surface provides the pixel targets that history commands render into.
//
// A Bitmap is a fixed-size RGBA pixel buffer owned by a layer. A Canvas is the
// drawing surface commands receive: it is rebound to a specific bitmap before
// every command execution, so the same Canvas value can be reused across an
// entire replay.
//
//	bmp := surface.NewBitmap(64, 64)
//	canvas := surface.NewCanvas()
//	canvas.Bind(bmp)
//	canvas.FillRect(image.Rect(0, 0, 8, 8), surface.MustParseColor("#ff0000"))
//
// Drawing on a Canvas that has no bound bitmap returns ErrNotBound.
package surface
