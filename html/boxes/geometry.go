package boxes

import (
	"fmt"

	pr "github.com/ariya/phantomjs-sub051/css/properties"
)

// Edges stores used values for the four logical sides of a box.
// Start and End are the line-left and line-right sides: they do not
// depend on the direction of the box.
type Edges struct {
	Before, After, Start, End pr.Float
}

// BlockSum returns Before + After.
func (e Edges) BlockSum() pr.Float { return e.Before + e.After }

// InlineSum returns Start + End.
func (e Edges) InlineSum() pr.Float { return e.Start + e.End }

type Point struct {
	X, Y pr.Float
}

// Rect is an axis aligned rectangle. Depending on the context, X and Y are
// either physical coordinates or logical (inline, block) coordinates.
type Rect struct {
	X, Y, Width, Height pr.Float
}

func (r Rect) String() string {
	return fmt.Sprintf("(%g, %g, %g, %g)", r.X, r.Y, r.Width, r.Height)
}

func (r Rect) MaxX() pr.Float { return r.X + r.Width }

func (r Rect) MaxY() pr.Float { return r.Y + r.Height }

func (r Rect) IsEmpty() bool { return r.Width <= 0 || r.Height <= 0 }

// Contains is true if [p] is inside [r]; the right and bottom edges are excluded.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.MaxX() && p.Y >= r.Y && p.Y < r.MaxY()
}

// ContainsRect is true if [o] is entirely inside [r].
func (r Rect) ContainsRect(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.MaxX() <= r.MaxX() && o.MaxY() <= r.MaxY()
}

func (r Rect) Intersects(o Rect) bool {
	if r.IsEmpty() || o.IsEmpty() {
		return false
	}
	return r.X < o.MaxX() && o.X < r.MaxX() && r.Y < o.MaxY() && o.Y < r.MaxY()
}

// Intersect returns the intersection of [r] and [o], or an empty rectangle.
func (r Rect) Intersect(o Rect) Rect {
	x0, y0 := max(r.X, o.X), max(r.Y, o.Y)
	x1, y1 := min(r.MaxX(), o.MaxX()), min(r.MaxY(), o.MaxY())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{x0, y0, x1 - x0, y1 - y0}
}

// Unite returns the smallest rectangle containing [r] and [o].
// Empty rectangles are ignored.
func (r Rect) Unite(o Rect) Rect {
	if o.IsEmpty() {
		return r
	}
	if r.IsEmpty() {
		return o
	}
	x0, y0 := min(r.X, o.X), min(r.Y, o.Y)
	x1, y1 := max(r.MaxX(), o.MaxX()), max(r.MaxY(), o.MaxY())
	return Rect{x0, y0, x1 - x0, y1 - y0}
}

// Translate returns [r] moved by (dx, dy).
func (r Rect) Translate(dx, dy pr.Float) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Geometry stores the result of the layout of a box, in the logical
// coordinates of its parent: the inline axis is "left", the block axis is "top".
type Geometry struct {
	// Border box position, relative to the parent's border box.
	LogicalLeft, LogicalTop pr.Float
	// Border box size.
	LogicalWidth, LogicalHeight pr.Float

	Margin, Border, Padding Edges

	// Collapsed margins: the largest positive and the largest negative
	// margin collapsing through each block edge.
	MaxPositiveMarginBefore, MaxNegativeMarginBefore pr.Float
	MaxPositiveMarginAfter, MaxNegativeMarginAfter   pr.Float

	// PaginationStrut is the offset added before the box to push it
	// to the next page or column.
	PaginationStrut pr.Float

	// RelativeOffset is the translation applied by relative positioning.
	RelativeOffset Point

	// Overflow rectangles, relative to the border box.
	LayoutOverflow, VisualOverflow Rect

	// HasColumns is set on multi-column containers; its children are then
	// positioned in a single tall strip, sliced by the column rectangles.
	HasColumns bool

	Lines []LineBox
}

// BorderBoxRect returns the logical border box, relative to the parent.
func (g *Geometry) BorderBoxRect() Rect {
	return Rect{g.LogicalLeft, g.LogicalTop, g.LogicalWidth, g.LogicalHeight}
}

// ContentLogicalWidth returns the width of the content box.
func (g *Geometry) ContentLogicalWidth() pr.Float {
	return max(0, g.LogicalWidth-g.Border.InlineSum()-g.Padding.InlineSum())
}

// ContentLogicalHeight returns the height of the content box.
func (g *Geometry) ContentLogicalHeight() pr.Float {
	return max(0, g.LogicalHeight-g.Border.BlockSum()-g.Padding.BlockSum())
}

// BorderAndPaddingBefore returns the offset of the content box from the
// before edge of the border box.
func (g *Geometry) BorderAndPaddingBefore() pr.Float { return g.Border.Before + g.Padding.Before }

func (g *Geometry) BorderAndPaddingAfter() pr.Float { return g.Border.After + g.Padding.After }

func (g *Geometry) BorderAndPaddingStart() pr.Float { return g.Border.Start + g.Padding.Start }

// MarginBoxHeight returns the height including the margins.
func (g *Geometry) MarginBoxHeight() pr.Float { return g.LogicalHeight + g.Margin.BlockSum() }

// MarginBoxWidth returns the width including the margins.
func (g *Geometry) MarginBoxWidth() pr.Float { return g.LogicalWidth + g.Margin.InlineSum() }

// LineBox is a line of inline content, positioned in the logical
// coordinates of the block containing it.
type LineBox struct {
	LogicalTop, LogicalHeight pr.Float
	// Extent of the content actually placed on the line.
	LogicalLeft, LogicalWidth pr.Float
	// Baseline is the distance between the line top and its baseline.
	Baseline pr.Float
	// PaginationStrut is the offset added before the line to push it
	// to the next page or column.
	PaginationStrut pr.Float
	// Floats records the floats positioned while building the line.
	Floats []BoxIndex
	Items  []LineItem
	// Dirty is set when a float recorded in [Floats] has been removed.
	Dirty bool
}

// LineItem is the part of an inline-level box placed on a line.
type LineItem struct {
	Box BoxIndex
	// Rune range for text boxes.
	Start, End                int
	LogicalLeft, LogicalWidth pr.Float
}

// LogicalBottom returns the bottom of the line.
func (l LineBox) LogicalBottom() pr.Float { return l.LogicalTop + l.LogicalHeight }

// ReplacedContent provides the natural size of replaced content
// (images, form controls).
type ReplacedContent interface {
	IntrinsicSize() (width, height pr.Float)
}

// Image is a replaced image whose size is known from its attributes.
type Image struct {
	Src           string
	Width, Height pr.Float
}

func (img Image) IntrinsicSize() (pr.Float, pr.Float) { return img.Width, img.Height }

// FormControl is a replaced widget, like a progress bar or a text field.
type FormControl struct {
	Type          string
	Width, Height pr.Float
}

func (fc FormControl) IntrinsicSize() (pr.Float, pr.Float) { return fc.Width, fc.Height }

// SetSelection marks the boxes between [start] and [end] (inclusive, in
// document order) as selected, and propagates the state to their
// containing blocks. A previous selection is cleared.
func (t *Tree) SetSelection(start, end BoxIndex) {
	t.ClearSelection()
	if start == NoBox || end == NoBox {
		return
	}
	if start == end {
		t.setSelectionState(start, SelectionBoth)
		return
	}
	t.setSelectionState(start, SelectionStart)
	for cur := t.NextInPreOrder(start, t.root); cur != NoBox && cur != end; cur = t.NextInPreOrder(cur, t.root) {
		b := &t.boxes[cur]
		if b.FirstChild == NoBox && !t.IsDescendantOf(end, cur) {
			t.setSelectionState(cur, SelectionInside)
		}
	}
	t.setSelectionState(end, SelectionEnd)
}

// ClearSelection resets the selection state of every box.
func (t *Tree) ClearSelection() {
	for i := range t.boxes {
		t.boxes[i].Selection = SelectionNone
	}
}

func (t *Tree) setSelectionState(i BoxIndex, state SelectionState) {
	t.boxes[i].Selection = state
	// propagate to the containing blocks
	for cb := t.ContainingBlock(i); cb != NoBox; cb = t.ContainingBlock(cb) {
		cbState := t.boxes[cb].Selection
		switch {
		case state == SelectionInside && cbState != SelectionNone:
			return
		case (state == SelectionStart && cbState == SelectionEnd) || (state == SelectionEnd && cbState == SelectionStart):
			t.boxes[cb].Selection = SelectionBoth
		case cbState == SelectionBoth:
		default:
			t.boxes[cb].Selection = state
		}
	}
}
