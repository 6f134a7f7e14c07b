package history

import (
	"fmt"
	"image"

	"github.com/dshills/pixelstorm/internal/engine/layer"
	"github.com/dshills/pixelstorm/internal/engine/surface"
)

// Category tells the Manager whether a command changes the shape of the
// layer collection.
type Category int

const (
	// Generic commands get no structural bookkeeping.
	Generic Category = iota
	// InsertLayer commands insert a new layer at index 0.
	InsertLayer
	// MergeLayers commands combine two layers into one.
	MergeLayers
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case Generic:
		return "generic"
	case InsertLayer:
		return "insert_layer"
	case MergeLayers:
		return "merge_layers"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// Command is a replayable unit of document change.
//
// Apply must be deterministic: replaying the same commands from the same
// initial command has to produce the same pixels and layers. The canvas is
// bound to a layer surface by the caller before Apply runs.
type Command interface {
	// Apply performs the command and returns an error if it fails.
	Apply(canvas *surface.Canvas, layers *layer.Collection) error

	// Category reports the structural kind of the command.
	Category() Category

	// Description returns a human-readable description of the command.
	Description() string
}

// VisibilityRestorer is implemented by commands that decide explicitly
// whether layer visibility is carried across the replay when they are undone.
type VisibilityRestorer interface {
	RestoresVisibility() bool
}

// restoresVisibility reports whether undoing cmd should back up and restore
// layer visibility. Commands without an explicit answer restore unless they
// merge layers.
func restoresVisibility(cmd Command) bool {
	if vr, ok := cmd.(VisibilityRestorer); ok {
		return vr.RestoresVisibility()
	}
	return cmd.Category() != MergeLayers
}

// Command kinds, used to persist commands.
const (
	KindNewDocument = "new_document"
	KindFillRect    = "fill_rect"
	KindStroke      = "stroke"
	KindClear       = "clear"
	KindSelectLayer = "select_layer"
	KindInsertLayer = "insert_layer"
	KindMergeLayers = "merge_layers"
	KindCompound    = "compound"
)

// Point is a pixel position.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// NewDocumentCommand fills the baseline layer with a background color.
// It is the usual initial command of a document.
type NewDocumentCommand struct {
	Width      int           `json:"width" yaml:"width"`
	Height     int           `json:"height" yaml:"height"`
	Background surface.Color `json:"background" yaml:"background"`
}

// NewDocument creates a new document command.
func NewDocument(width, height int, background surface.Color) *NewDocumentCommand {
	return &NewDocumentCommand{
		Width:      width,
		Height:     height,
		Background: background,
	}
}

// Apply fills the bound surface with the background color.
func (c *NewDocumentCommand) Apply(canvas *surface.Canvas, layers *layer.Collection) error {
	if size := layers.Size(); (c.Width != 0 || c.Height != 0) && size != image.Pt(c.Width, c.Height) {
		return fmt.Errorf("%w: document %dx%d, layers %dx%d", ErrDocumentSize, c.Width, c.Height, size.X, size.Y)
	}
	if c.Background.A == 0 {
		return nil
	}
	return canvas.FillRect(canvas.Bounds(), c.Background)
}

// Category returns Generic.
func (c *NewDocumentCommand) Category() Category { return Generic }

// Kind returns the persisted command kind.
func (c *NewDocumentCommand) Kind() string { return KindNewDocument }

// Description returns a human-readable description.
func (c *NewDocumentCommand) Description() string {
	return fmt.Sprintf("New %dx%d document", c.Width, c.Height)
}

// FillRectCommand fills a rectangle on the current layer.
type FillRectCommand struct {
	X      int           `json:"x" yaml:"x"`
	Y      int           `json:"y" yaml:"y"`
	Width  int           `json:"width" yaml:"width"`
	Height int           `json:"height" yaml:"height"`
	Color  surface.Color `json:"color" yaml:"color"`
}

// NewFillRectCommand creates a new fill command.
func NewFillRectCommand(x, y, width, height int, col surface.Color) *FillRectCommand {
	return &FillRectCommand{X: x, Y: y, Width: width, Height: height, Color: col}
}

// Apply fills the rectangle on the bound surface.
func (c *FillRectCommand) Apply(canvas *surface.Canvas, _ *layer.Collection) error {
	return canvas.FillRect(image.Rect(c.X, c.Y, c.X+c.Width, c.Y+c.Height), c.Color)
}

// Category returns Generic.
func (c *FillRectCommand) Category() Category { return Generic }

// Kind returns the persisted command kind.
func (c *FillRectCommand) Kind() string { return KindFillRect }

// Description returns a human-readable description.
func (c *FillRectCommand) Description() string {
	return fmt.Sprintf("Fill %dx%d at (%d,%d)", c.Width, c.Height, c.X, c.Y)
}

// StrokeCommand draws a polyline with a square brush on the current layer.
type StrokeCommand struct {
	Points []Point       `json:"points" yaml:"points"`
	Width  int           `json:"width" yaml:"width"`
	Color  surface.Color `json:"color" yaml:"color"`
}

// NewStrokeCommand creates a new stroke command.
func NewStrokeCommand(width int, col surface.Color, points ...Point) *StrokeCommand {
	return &StrokeCommand{Points: points, Width: width, Color: col}
}

// Apply draws the stroke on the bound surface.
func (c *StrokeCommand) Apply(canvas *surface.Canvas, _ *layer.Collection) error {
	pts := make([]image.Point, len(c.Points))
	for i, p := range c.Points {
		pts[i] = image.Pt(p.X, p.Y)
	}
	return canvas.Stroke(pts, c.Width, c.Color)
}

// Category returns Generic.
func (c *StrokeCommand) Category() Category { return Generic }

// Kind returns the persisted command kind.
func (c *StrokeCommand) Kind() string { return KindStroke }

// Description returns a human-readable description.
func (c *StrokeCommand) Description() string {
	if len(c.Points) == 1 {
		return "Dot"
	}
	return fmt.Sprintf("Stroke through %d points", len(c.Points))
}

// ClearCommand erases the current layer.
type ClearCommand struct{}

// NewClearCommand creates a new clear command.
func NewClearCommand() *ClearCommand {
	return &ClearCommand{}
}

// Apply clears the bound surface.
func (c *ClearCommand) Apply(canvas *surface.Canvas, _ *layer.Collection) error {
	return canvas.Clear()
}

// Category returns Generic.
func (c *ClearCommand) Category() Category { return Generic }

// Kind returns the persisted command kind.
func (c *ClearCommand) Kind() string { return KindClear }

// Description returns a human-readable description.
func (c *ClearCommand) Description() string { return "Clear layer" }

// CompoundCommand groups generic commands as one undo unit.
// The canvas is rebound to the current layer before each child runs.
type CompoundCommand struct {
	Name     string
	Commands []Command
}

// NewCompoundCommand creates a new compound command.
func NewCompoundCommand(name string, commands ...Command) *CompoundCommand {
	return &CompoundCommand{
		Name:     name,
		Commands: commands,
	}
}

// Apply runs all commands in order.
func (c *CompoundCommand) Apply(canvas *surface.Canvas, layers *layer.Collection) error {
	if err := c.Validate(); err != nil {
		return err
	}
	for i, cmd := range c.Commands {
		if cur := layers.Current(); cur != nil {
			canvas.Bind(cur.Primary())
		}
		if err := cmd.Apply(canvas, layers); err != nil {
			return fmt.Errorf("compound command '%s' step %d: %w", c.Name, i, err)
		}
	}
	return nil
}

// Validate rejects structural children.
func (c *CompoundCommand) Validate() error {
	for i, cmd := range c.Commands {
		if cat := cmd.Category(); cat != Generic {
			return fmt.Errorf("%w: step %d is %s", ErrStructuralInCompound, i, cat)
		}
	}
	return nil
}

// Category returns Generic.
func (c *CompoundCommand) Category() Category { return Generic }

// Kind returns the persisted command kind.
func (c *CompoundCommand) Kind() string { return KindCompound }

// Description returns the compound command's name.
func (c *CompoundCommand) Description() string {
	if c.Name != "" {
		return c.Name
	}
	if len(c.Commands) == 1 {
		return c.Commands[0].Description()
	}
	return fmt.Sprintf("%d operations", len(c.Commands))
}

// Add adds a command to the compound command.
func (c *CompoundCommand) Add(cmd Command) {
	c.Commands = append(c.Commands, cmd)
}

// IsEmpty returns true if the compound command has no commands.
func (c *CompoundCommand) IsEmpty() bool {
	return len(c.Commands) == 0
}
