package lua

import (
	"image"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/pixelstorm/internal/engine/layer"
	"github.com/dshills/pixelstorm/internal/engine/surface"
)

// canvasBridge exposes the bound canvas and layer stack to a script.
type canvasBridge struct {
	canvas *surface.Canvas
	layers *layer.Collection
	box    *sandbox
}

// install registers the global canvas table.
func (b *canvasBridge) install(L *lua.LState) {
	tbl := L.NewTable()
	L.SetFuncs(tbl, map[string]lua.LGFunction{
		"fill_rect":     b.fillRect,
		"stroke":        b.stroke,
		"clear":         b.clear,
		"width":         b.width,
		"height":        b.height,
		"layer_count":   b.layerCount,
		"current_layer": b.currentLayer,
	})
	L.SetGlobal("canvas", tbl)
}

func (b *canvasBridge) fillRect(L *lua.LState) int {
	x := L.CheckInt(1)
	y := L.CheckInt(2)
	w := L.CheckInt(3)
	h := L.CheckInt(4)
	col := checkColor(L, 5)

	b.box.charge()
	if err := b.canvas.FillRect(image.Rect(x, y, x+w, y+h), col); err != nil {
		L.RaiseError("fill_rect: %v", err)
	}
	return 0
}

func (b *canvasBridge) stroke(L *lua.LState) int {
	x0 := L.CheckInt(1)
	y0 := L.CheckInt(2)
	x1 := L.CheckInt(3)
	y1 := L.CheckInt(4)
	width := L.CheckInt(5)
	col := checkColor(L, 6)

	b.box.charge()
	pts := []image.Point{image.Pt(x0, y0), image.Pt(x1, y1)}
	if err := b.canvas.Stroke(pts, width, col); err != nil {
		L.RaiseError("stroke: %v", err)
	}
	return 0
}

func (b *canvasBridge) clear(L *lua.LState) int {
	b.box.charge()
	if err := b.canvas.Clear(); err != nil {
		L.RaiseError("clear: %v", err)
	}
	return 0
}

func (b *canvasBridge) width(L *lua.LState) int {
	L.Push(lua.LNumber(b.layers.Size().X))
	return 1
}

func (b *canvasBridge) height(L *lua.LState) int {
	L.Push(lua.LNumber(b.layers.Size().Y))
	return 1
}

func (b *canvasBridge) layerCount(L *lua.LState) int {
	L.Push(lua.LNumber(b.layers.Count()))
	return 1
}

func (b *canvasBridge) currentLayer(L *lua.LState) int {
	L.Push(lua.LNumber(b.layers.CurrentIndex()))
	return 1
}

// checkColor reads a hex color argument.
func checkColor(L *lua.LState, n int) surface.Color {
	s := L.CheckString(n)
	col, err := surface.ParseColor(s)
	if err != nil {
		L.ArgError(n, err.Error())
	}
	return col
}
