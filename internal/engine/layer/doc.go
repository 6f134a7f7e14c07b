// Package layer provides the layer stack of a raster document.
//
// A Layer owns two bitmaps. The primary bitmap is what gets composited; the
// alternate bitmap holds the layer's pixels while the layer is hidden. Hiding a
// layer swaps the two so the content survives and the composited output shows
// nothing for that layer.
//
// A Collection is an ordered, index-addressed set of layers with a current
// layer cursor. Index 0 is the top of the stack. Reset collapses the
// collection to a single empty, visible baseline layer.
package layer
