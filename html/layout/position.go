package layout

import (
	pr "github.com/ariya/phantomjs-sub051/css/properties"
	bo "github.com/ariya/phantomjs-sub051/html/boxes"
)

// TextPosition is a caret position: an offset in the runes of a text box,
// or 0 (before) and 1 (after) for the other boxes.
type TextPosition struct {
	Box    bo.BoxIndex
	Offset int
}

// PositionForPoint returns the caret position closest to the physical
// point [p]. Unlike [Layout.HitTest], a point outside of every box still
// resolves: it goes to the nearest line or child in the block direction,
// then to the nearest item in the inline direction.
func (l *Layout) PositionForPoint(p bo.Point) TextPosition {
	c := l.c
	root := c.tree.Root()
	c.checkValid(root)
	pos := c.positionInBlock(root, c.logicalPoint(p))
	if debugMode {
		debugLogger.Line("position for %v: %v", p, pos)
	}
	return pos
}

// positionInBlock resolves [p], relative to the border box of [i].
func (c *Context) positionInBlock(i bo.BoxIndex, p bo.Point) TextPosition {
	b := c.box(i)
	if b.IsReplaced() {
		if p.Y < 0 || p.Y < b.LogicalHeight && p.X < b.LogicalWidth/2 {
			return TextPosition{Box: i}
		}
		return TextPosition{Box: i, Offset: 1}
	}

	if b.HasColumns {
		p, _ = c.pointInColumnContents(i, p)
	}

	if c.tree.ChildrenInline(i) {
		return c.positionInLines(i, p)
	}

	// children are candidates when they are visible and not empty
	last := bo.NoBox
	for child := b.LastChild; child != bo.NoBox; child = c.box(child).PrevSibling {
		if c.isPositionCandidate(child) {
			last = child
			break
		}
	}
	if last == bo.NoBox {
		return TextPosition{Box: i}
	}
	if p.Y > c.box(last).LogicalTop {
		return c.positionInChild(last, p)
	}
	for child := b.FirstChild; child != bo.NoBox; child = c.box(child).NextSibling {
		cb := c.box(child)
		if c.isPositionCandidate(child) && p.Y < cb.LogicalTop+cb.LogicalHeight {
			return c.positionInChild(child, p)
		}
	}
	return c.positionInChild(last, p)
}

func (c *Context) isPositionCandidate(i bo.BoxIndex) bool {
	b := c.box(i)
	return b.LogicalHeight > 0 && b.Style.Visibility != pr.Hidden &&
		!b.IsFloatingOrPositioned() && !b.IsText() && b.Kind != bo.LineBreakKind
}

// positionInChild resolves [p], in the coordinates of the parent of [child].
func (c *Context) positionInChild(child bo.BoxIndex, p bo.Point) TextPosition {
	cb := c.box(child)
	return c.positionInBlock(child, bo.Point{
		X: p.X - cb.LogicalLeft - cb.RelativeOffset.X,
		Y: p.Y - cb.LogicalTop - cb.RelativeOffset.Y,
	})
}

// positionInLines picks the first line whose bottom is below [p], or the
// last line, then the item of this line closest to [p] in the inline direction.
func (c *Context) positionInLines(i bo.BoxIndex, p bo.Point) TextPosition {
	var (
		line  bo.LineBox
		found bool
	)
	for _, l := range c.box(i).Lines {
		if len(l.Items) == 0 {
			continue
		}
		line, found = l, true
		if p.Y < l.LogicalBottom() {
			break
		}
	}
	if !found {
		return TextPosition{Box: i}
	}

	item, dist := line.Items[0], pr.Inf
	for _, it := range line.Items {
		var d pr.Float
		if left, right := it.LogicalLeft, it.LogicalLeft+it.LogicalWidth; p.X < left {
			d = left - p.X
		} else if p.X >= right {
			d = p.X - right
		}
		if d < dist {
			item, dist = it, d
			if d == 0 {
				break
			}
		}
	}

	ib := c.box(item.Box)
	switch {
	case ib.Kind == bo.LineBreakKind:
		return TextPosition{Box: item.Box}
	case ib.IsText():
		return TextPosition{Box: item.Box, Offset: c.offsetInItem(ib, item, p.X-item.LogicalLeft)}
	default:
		return c.positionInChild(item.Box, p)
	}
}

// offsetInItem returns the rune boundary of [item] closest to [x],
// relative to the start of the item.
func (c *Context) offsetInItem(b *bo.Box, item bo.LineItem, x pr.Float) int {
	m := c.opts.Measurer
	before := pr.Float(0)
	for k := item.Start; k < item.End; k++ {
		after := m.RunWidth(b.Text[item.Start:k+1], &b.Style)
		if x < (before+after)/2 {
			return k
		}
		before = after
	}
	return item.End
}
