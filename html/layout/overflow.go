package layout

import (
	pr "github.com/ariya/phantomjs-sub051/css/properties"
	bo "github.com/ariya/phantomjs-sub051/html/boxes"
)

// Overflow rectangles, relative to the border box of each block.
//
// The layout overflow includes the lines, the (relatively positioned)
// children and the floats painted by the block. Boxes clipping their
// content propagate only their border box to their parent, and do not
// extend their visual overflow.

// computeOverflow sets the overflow rectangles of the block [i], once
// its children and its positioned descendants have their final geometry.
func (c *Context) computeOverflow(i bo.BoxIndex) {
	b := c.box(i)
	borderBox := bo.Rect{Width: b.LogicalWidth, Height: b.LogicalHeight}
	var content bo.Rect

	for _, line := range b.Lines {
		content = content.Unite(bo.Rect{X: line.LogicalLeft, Y: line.LogicalTop, Width: line.LogicalWidth, Height: line.LogicalHeight})
	}

	for child := b.FirstChild; child != bo.NoBox; child = c.box(child).NextSibling {
		cb := c.box(child)
		if cb.Style.Display == pr.DisplayNone || cb.IsText() || cb.Kind == bo.LineBreakKind {
			continue
		}
		content = content.Unite(c.overflowInParent(child))
	}

	// floats of descendants overhanging into this block
	if reg := c.floats[i]; reg != nil {
		for _, f := range reg.objects {
			if !f.IsDescendant || !f.ShouldPaint || !f.Placed || c.box(f.Box).Parent == i {
				continue
			}
			fb := c.box(f.Box)
			r := bo.Rect{
				X: f.Rect.X + fb.Margin.Start, Y: f.Rect.Y + fb.Margin.Before,
				Width: fb.LogicalWidth, Height: fb.LogicalHeight,
			}
			content = content.Unite(r)
		}
	}

	if b.HasColumns && c.columns[i] != nil {
		content = c.adjustRectForColumns(i, content)
		for k := 0; k < c.columns[i].columnCount; k++ {
			content = content.Unite(c.columnRectAt(i, k))
		}
	}

	b.LayoutOverflow = borderBox.Unite(content)
	b.VisualOverflow = borderBox
	if !b.HasOverflowClip() {
		b.VisualOverflow = b.LayoutOverflow
	}
}

// overflowInParent returns the overflow of [child] propagated to its
// parent, in the coordinates of the parent.
func (c *Context) overflowInParent(child bo.BoxIndex) bo.Rect {
	cb := c.box(child)
	r := cb.LayoutOverflow
	if cb.HasOverflowClip() || r.IsEmpty() {
		r = bo.Rect{Width: cb.LogicalWidth, Height: cb.LogicalHeight}
	}
	return r.Translate(cb.LogicalLeft+cb.RelativeOffset.X, cb.LogicalTop+cb.RelativeOffset.Y)
}

// addPositionedOverflow extends the overflow of the boxes between the
// positioned descendant [d] and its containing block [i] (excluded), which
// were laid out before [d] was positioned.
func (c *Context) addPositionedOverflow(i, d bo.BoxIndex) {
	r := c.overflowInParent(d)
	for cur := c.box(d).Parent; cur != i && cur != bo.NoBox; cur = c.box(cur).Parent {
		b := c.box(cur)
		if b.HasColumns && c.columns[cur] != nil {
			r = c.adjustRectForColumns(cur, r)
		}
		b.LayoutOverflow = b.LayoutOverflow.Unite(r)
		if b.HasOverflowClip() {
			// the overflow stops at the clipping box
			return
		}
		b.VisualOverflow = b.VisualOverflow.Unite(r)
		r = c.overflowInParent(cur)
	}
}
