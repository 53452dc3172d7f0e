package layout

import (
	"sort"

	pr "github.com/ariya/phantomjs-sub051/css/properties"
	bo "github.com/ariya/phantomjs-sub051/html/boxes"
)

// Layout gives access to the committed geometry of a tree.
// Rectangles and points are in physical pixels, relative to the
// top left corner of the root box, unless stated otherwise.
//
// A Layout is only valid until the tree is modified and laid out again.
type Layout struct {
	c *Context
}

// Geometry returns the logical geometry of [i], relative to its parent.
func (l *Layout) Geometry(i bo.BoxIndex) bo.Geometry {
	l.c.checkValid(i)
	return l.c.box(i).Geometry
}

// AbsoluteRect returns the border box of [i]. The rectangle of a text box
// encloses its line fragments.
func (l *Layout) AbsoluteRect(i bo.BoxIndex) bo.Rect {
	l.c.checkValid(i)
	return l.c.physicalRect(l.c.absoluteLogicalRect(i))
}

// BorderBoxRect returns the border box of [i], relative to the border
// box of its parent.
func (l *Layout) BorderBoxRect(i bo.BoxIndex) bo.Rect {
	r := l.AbsoluteRect(i)
	if parent := l.c.box(i).Parent; parent != bo.NoBox {
		p := l.AbsoluteRect(parent)
		r = r.Translate(-p.X, -p.Y)
	}
	return r
}

// ContentOverflowRect returns the layout overflow of [i]: its border box
// extended by its lines, descendants and the floats it paints.
func (l *Layout) ContentOverflowRect(i bo.BoxIndex) bo.Rect {
	c := l.c
	c.checkValid(i)
	b := c.box(i)
	if b.IsText() || b.Kind == bo.LineBreakKind {
		return c.physicalRect(c.absoluteLogicalRect(i))
	}
	offset := c.absoluteLogicalOffset(i)
	return c.physicalRect(b.LayoutOverflow.Translate(offset.X, offset.Y))
}

// FirstLineBaseline returns the offset of the first baseline of [i] from
// the top of its border box (in the block direction), or -1 if it has none.
func (l *Layout) FirstLineBaseline(i bo.BoxIndex) pr.Float {
	l.c.checkValid(i)
	return l.c.firstLineBaseline(i)
}

// LastLineBaseline is like [FirstLineBaseline], for the last line.
func (l *Layout) LastLineBaseline(i bo.BoxIndex) pr.Float {
	l.c.checkValid(i)
	return l.c.lastLineBaseline(i)
}

// Pages returns the printed pages, or a single band covering the root
// when the layout is not paginated.
func (l *Layout) Pages() []Page { return l.c.pages() }

// ColumnInfo returns the columns of the multi-column container [i], or nil.
func (l *Layout) ColumnInfo(i bo.BoxIndex) *ColumnInfo { return l.c.columns[i] }

// SpaceShortages returns the shortages recorded by the last pass: the
// printed pages first, then the multi-column containers in tree order.
func (l *Layout) SpaceShortages() []SpaceShortage {
	out := append([]SpaceShortage(nil), l.c.pageShortages...)
	containers := make([]bo.BoxIndex, 0, len(l.c.columns))
	for i := range l.c.columns {
		containers = append(containers, i)
	}
	sort.Slice(containers, func(a, b int) bool { return containers[a] < containers[b] })
	for _, i := range containers {
		out = append(out, l.c.columns[i].shortages...)
	}
	return out
}

// checkValid reports queries on boxes whose geometry is not final.
func (c *Context) checkValid(i bo.BoxIndex) {
	assert(c.tree.GeometryValid(i), "query on box %d which needs layout", i)
}

// absoluteLogicalOffset returns the position of the border box of [i], in
// the logical coordinates of the root.
func (c *Context) absoluteLogicalOffset(i bo.BoxIndex) bo.Point {
	var p bo.Point
	root := c.tree.Root()
	for cur := i; cur != root && cur != bo.NoBox; {
		b := c.box(cur)
		p.X += b.LogicalLeft + b.RelativeOffset.X
		p.Y += b.LogicalTop + b.RelativeOffset.Y
		cur = b.Parent
		// positioned children of a multi-column container are not sliced
		if cur != bo.NoBox && c.box(cur).HasColumns && !b.IsOutOfFlowPositioned() {
			off := c.offsetForColumns(cur, p)
			p.X += off.X
			p.Y += off.Y
		}
	}
	return p
}

// absoluteLogicalRect returns the border box of [i] in the logical
// coordinates of the root. Text and line breaks have no box of their
// own: the union of their line items is used.
func (c *Context) absoluteLogicalRect(i bo.BoxIndex) bo.Rect {
	b := c.box(i)
	if !b.IsText() && b.Kind != bo.LineBreakKind {
		offset := c.absoluteLogicalOffset(i)
		return bo.Rect{X: offset.X, Y: offset.Y, Width: b.LogicalWidth, Height: b.LogicalHeight}
	}
	if b.Parent == bo.NoBox {
		return bo.Rect{}
	}
	var r bo.Rect
	for _, line := range c.box(b.Parent).Lines {
		for _, item := range line.Items {
			if item.Box != i {
				continue
			}
			ir := itemRect(line, item)
			if c.box(b.Parent).HasColumns {
				off := c.offsetForColumns(b.Parent, bo.Point{X: ir.X, Y: ir.Y})
				ir = ir.Translate(off.X, off.Y)
			}
			r = r.Unite(ir)
		}
	}
	offset := c.absoluteLogicalOffset(b.Parent)
	return r.Translate(offset.X, offset.Y)
}

func itemRect(line bo.LineBox, item bo.LineItem) bo.Rect {
	return bo.Rect{X: item.LogicalLeft, Y: line.LogicalTop, Width: item.LogicalWidth, Height: line.LogicalHeight}
}

// rootBlockExtent is the block size of the root, used to flip the
// block axis of vertical-rl documents.
func (c *Context) rootBlockExtent() pr.Float {
	return c.box(c.tree.Root()).LogicalHeight
}

// physicalRect converts a rectangle in the logical coordinates of the
// root to physical coordinates.
func (c *Context) physicalRect(r bo.Rect) bo.Rect {
	switch c.wm {
	case pr.VerticalLR:
		return bo.Rect{X: r.Y, Y: r.X, Width: r.Height, Height: r.Width}
	case pr.VerticalRL:
		return bo.Rect{X: c.rootBlockExtent() - r.MaxY(), Y: r.X, Width: r.Height, Height: r.Width}
	}
	return r
}

// logicalPoint converts a physical point to the logical coordinates of the root.
func (c *Context) logicalPoint(p bo.Point) bo.Point {
	switch c.wm {
	case pr.VerticalLR:
		return bo.Point{X: p.Y, Y: p.X}
	case pr.VerticalRL:
		return bo.Point{X: p.Y, Y: c.rootBlockExtent() - p.X}
	}
	return p
}
