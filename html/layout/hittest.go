package layout

import (
	pr "github.com/ariya/phantomjs-sub051/css/properties"
	bo "github.com/ariya/phantomjs-sub051/html/boxes"
)

// Hit testing walks the tree in the reverse of the painting order:
// positioned children, then the inline content, then the floats painted
// by the block, then the in-flow block children, and finally the block
// itself. Subtrees whose overflow rectangle does not contain the point
// are skipped.

// HitTest returns the topmost box containing the physical point [p],
// or false if the point is outside of the root.
func (l *Layout) HitTest(p bo.Point) (bo.BoxIndex, bool) {
	c := l.c
	root := c.tree.Root()
	c.checkValid(root)
	hit := c.hitTestBox(root, c.logicalPoint(p))
	if debugMode {
		debugLogger.Line("hit test %v: %d", p, hit)
	}
	return hit, hit != bo.NoBox
}

// hitTestBox tests [p], relative to the border box of [i].
func (c *Context) hitTestBox(i bo.BoxIndex, p bo.Point) bo.BoxIndex {
	b := c.box(i)
	if b.Style.Display == pr.DisplayNone {
		return bo.NoBox
	}
	borderBox := bo.Rect{Width: b.LogicalWidth, Height: b.LogicalHeight}
	if !b.VisualOverflow.Unite(borderBox).Contains(p) {
		return bo.NoBox
	}

	if !b.HasOverflowClip() || borderBox.Contains(p) {
		if hit := c.hitTestChildren(i, p); hit != bo.NoBox {
			return hit
		}
	}

	// hidden boxes are transparent, their children are not
	if b.Style.Visibility != pr.Hidden && borderBox.Contains(p) {
		return i
	}
	return bo.NoBox
}

func (c *Context) hitTestChildren(i bo.BoxIndex, p bo.Point) bo.BoxIndex {
	b := c.box(i)
	for child := b.LastChild; child != bo.NoBox; child = c.box(child).PrevSibling {
		if c.box(child).IsOutOfFlowPositioned() {
			if hit := c.hitTestChild(child, p); hit != bo.NoBox {
				return hit
			}
		}
	}

	// the other children live in the strip sliced by the columns
	if b.HasColumns && c.columns[i] != nil {
		var inColumn bool
		if p, inColumn = c.pointInColumnContents(i, p); !inColumn {
			return bo.NoBox
		}
	}

	inline := c.tree.ChildrenInline(i)
	if inline {
		if hit := c.hitTestLines(i, p); hit != bo.NoBox {
			return hit
		}
	}

	if hit := c.hitTestFloats(i, p); hit != bo.NoBox {
		return hit
	}

	if inline {
		return bo.NoBox
	}
	for child := b.LastChild; child != bo.NoBox; child = c.box(child).PrevSibling {
		cb := c.box(child)
		if cb.IsFloatingOrPositioned() || cb.IsText() || cb.Kind == bo.LineBreakKind {
			continue
		}
		if hit := c.hitTestChild(child, p); hit != bo.NoBox {
			return hit
		}
	}
	return bo.NoBox
}

// hitTestChild tests [p], in the coordinates of the parent of [child].
func (c *Context) hitTestChild(child bo.BoxIndex, p bo.Point) bo.BoxIndex {
	cb := c.box(child)
	return c.hitTestBox(child, bo.Point{
		X: p.X - cb.LogicalLeft - cb.RelativeOffset.X,
		Y: p.Y - cb.LogicalTop - cb.RelativeOffset.Y,
	})
}

// hitTestLines tests the line items of [i]: text fragments are hit
// through their line rectangle, atomic inlines through their box.
func (c *Context) hitTestLines(i bo.BoxIndex, p bo.Point) bo.BoxIndex {
	lines := c.box(i).Lines
	for k := len(lines) - 1; k >= 0; k-- {
		line := lines[k]
		if p.Y < line.LogicalTop || p.Y >= line.LogicalBottom() {
			continue
		}
		for j := len(line.Items) - 1; j >= 0; j-- {
			item := line.Items[j]
			ib := c.box(item.Box)
			if !ib.IsText() && ib.Kind != bo.LineBreakKind {
				if hit := c.hitTestChild(item.Box, p); hit != bo.NoBox {
					return hit
				}
				continue
			}
			if ib.Style.Visibility != pr.Hidden && itemRect(line, item).Contains(p) {
				return item.Box
			}
		}
	}
	return bo.NoBox
}

// hitTestFloats tests the floats painted by [i], which may be nested
// in its children when they overhang them.
func (c *Context) hitTestFloats(i bo.BoxIndex, p bo.Point) bo.BoxIndex {
	reg := c.floats[i]
	if reg == nil {
		return bo.NoBox
	}
	for k := len(reg.objects) - 1; k >= 0; k-- {
		f := reg.objects[k]
		if !f.ShouldPaint || !f.IsDescendant || !f.Placed {
			continue
		}
		fb := c.box(f.Box)
		hit := c.hitTestBox(f.Box, bo.Point{
			X: p.X - f.Rect.X - fb.Margin.Start - fb.RelativeOffset.X,
			Y: p.Y - f.Rect.Y - fb.Margin.Before - fb.RelativeOffset.Y,
		})
		if hit != bo.NoBox {
			return hit
		}
	}
	return bo.NoBox
}
