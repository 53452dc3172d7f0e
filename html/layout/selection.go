package layout

import (
	pr "github.com/ariya/phantomjs-sub051/css/properties"
	bo "github.com/ariya/phantomjs-sub051/html/boxes"
)

// Selection gaps are the rectangles painted to complete a selection
// across the parts of the layout which are not selected themselves:
// the space between a selected line and the content edges, between two
// selected items of a line, and between two selected blocks.
//
// The gaps are computed by a depth first walk of the selection root,
// carrying a cursor (the bottom of the last selected content, and the
// inline extent available at that position) from one selected object to
// the next.

// SelectionGaps returns the gaps of the current selection (see
// [bo.Tree.SetSelection]) inside the block [root], in physical
// coordinates. The rectangles never extend outside the border box of [root].
func (l *Layout) SelectionGaps(root bo.BoxIndex) []bo.Rect {
	c := l.c
	c.checkValid(root)
	b := c.box(root)
	if !b.IsBlockFlow() || b.Selection == bo.SelectionNone {
		return nil
	}

	g := selectionGaps{c: c, root: root}
	g.lastLeft = g.leftOffset(root, 0)
	g.lastRight = g.rightOffset(root, 0)
	g.block(root, bo.Point{})

	borderBox := bo.Rect{Width: b.LogicalWidth, Height: b.LogicalHeight}
	offset := c.absoluteLogicalOffset(root)
	var out []bo.Rect
	for _, r := range g.rects {
		r = r.Intersect(borderBox)
		if r.IsEmpty() {
			continue
		}
		out = append(out, c.physicalRect(r.Translate(offset.X, offset.Y)))
	}
	return out
}

type selectionGaps struct {
	c    *Context
	root bo.BoxIndex

	// cursor, in the coordinates of root
	lastTop, lastLeft, lastRight pr.Float

	rects []bo.Rect
}

func (g *selectionGaps) add(r bo.Rect) {
	if !r.IsEmpty() {
		g.rects = append(g.rects, r)
	}
}

// block collects the gaps of the block [i], whose border box is at
// [offset] in the coordinates of the root.
func (g *selectionGaps) block(i bo.BoxIndex, offset bo.Point) {
	b := g.c.box(i)
	if b.HasColumns {
		// multi-column content gets no gaps: the cursor skips the whole block
		g.moveBelow(i, offset, b.LogicalHeight)
		return
	}

	if g.c.tree.ChildrenInline(i) {
		g.inlineGaps(i, offset)
	} else {
		g.blockGaps(i, offset)
	}

	// the selection extends past the root: fill until its bottom
	if i == g.root && b.Selection != bo.SelectionEnd && b.Selection != bo.SelectionBoth {
		g.add(g.blockGap(i, offset, b.LogicalHeight))
	}
}

// moveBelow moves the cursor to the block [position] of [i].
func (g *selectionGaps) moveBelow(i bo.BoxIndex, offset bo.Point, position pr.Float) {
	g.lastTop = offset.Y + position
	g.lastLeft = g.leftOffset(i, position)
	g.lastRight = g.rightOffset(i, position)
}

func (g *selectionGaps) blockGaps(i bo.BoxIndex, offset bo.Point) {
	c := g.c
	ltr := c.box(i).Style.IsLeftToRight()

	child := c.box(i).FirstChild
	for child != bo.NoBox && c.box(child).Selection == bo.SelectionNone {
		child = c.box(child).NextSibling
	}
	for sawEnd := false; child != bo.NoBox && !sawEnd; child = c.box(child).NextSibling {
		cb := c.box(child)
		state := cb.Selection
		if state == bo.SelectionBoth || state == bo.SelectionEnd {
			sawEnd = true
		}
		if cb.IsFloatingOrPositioned() || cb.Style.Display == pr.DisplayNone {
			continue
		}
		if cb.RelativeOffset != (bo.Point{}) {
			// moved away from the flow, like positioned boxes
			continue
		}

		paintsOwnGaps := state != bo.SelectionNone && c.isSelectionRoot(child)
		if paintsOwnGaps || (cb.IsReplaced() && state != bo.SelectionNone) {
			if state == bo.SelectionEnd || state == bo.SelectionInside {
				g.add(g.blockGap(i, offset, cb.LogicalTop))
			}

			// side gaps only when the selection goes past the child
			if paintsOwnGaps && (state == bo.SelectionStart || sawEnd) {
				state = bo.SelectionNone
			}
			leftGap, rightGap := selectionGapSides(state, ltr)
			if leftGap {
				g.add(g.leftGap(i, offset, cb.LogicalLeft, cb.LogicalTop, cb.LogicalHeight))
			}
			if rightGap {
				g.add(g.rightGap(i, offset, cb.LogicalLeft+cb.LogicalWidth, cb.LogicalTop, cb.LogicalHeight))
			}
			g.moveBelow(i, offset, cb.LogicalTop+cb.LogicalHeight)
		} else if state != bo.SelectionNone && cb.IsBlockFlow() {
			g.block(child, bo.Point{X: offset.X + cb.LogicalLeft, Y: offset.Y + cb.LogicalTop})
		}
	}
}

func (g *selectionGaps) inlineGaps(i bo.BoxIndex, offset bo.Point) {
	b := g.c.box(i)
	containsStart := b.Selection == bo.SelectionStart || b.Selection == bo.SelectionBoth
	if len(b.Lines) == 0 {
		if containsStart {
			// empty blocks with a height
			g.moveBelow(i, offset, b.LogicalHeight)
		}
		return
	}

	k := 0
	for k < len(b.Lines) && g.lineState(b.Lines[k]) == bo.SelectionNone {
		k++
	}
	lastSelected := -1
	for ; k < len(b.Lines); k++ {
		line := b.Lines[k]
		if g.lineState(line) == bo.SelectionNone {
			break
		}
		if !containsStart && lastSelected == -1 {
			g.add(g.blockGap(i, offset, line.LogicalTop))
		}
		g.lineGaps(i, offset, line)
		lastSelected = k
	}

	if containsStart && lastSelected == -1 {
		// the selection starts after the last line
		lastSelected = len(b.Lines) - 1
	}
	if lastSelected != -1 && b.Selection != bo.SelectionEnd && b.Selection != bo.SelectionBoth {
		g.moveBelow(i, offset, b.Lines[lastSelected].LogicalBottom())
	}
}

// lineState merges the selection states of the items of [line].
func (g *selectionGaps) lineState(line bo.LineBox) bo.SelectionState {
	var hasStart, hasEnd, hasInside bool
	for _, item := range line.Items {
		switch g.c.box(item.Box).Selection {
		case bo.SelectionStart:
			hasStart = true
		case bo.SelectionEnd:
			hasEnd = true
		case bo.SelectionBoth:
			hasStart, hasEnd = true, true
		case bo.SelectionInside:
			hasInside = true
		}
	}
	switch {
	case hasStart && hasEnd:
		return bo.SelectionBoth
	case hasStart:
		return bo.SelectionStart
	case hasEnd:
		return bo.SelectionEnd
	case hasInside:
		return bo.SelectionInside
	}
	return bo.SelectionNone
}

// lineGaps fills the sides of [line] the selection runs through, and
// the space between its selected items.
func (g *selectionGaps) lineGaps(i bo.BoxIndex, offset bo.Point, line bo.LineBox) {
	first, last := -1, -1
	for k, item := range line.Items {
		if g.c.box(item.Box).Selection != bo.SelectionNone {
			if first == -1 {
				first = k
			}
			last = k
		}
	}
	if first == -1 {
		return
	}

	leftGap, rightGap := selectionGapSides(g.lineState(line), g.c.box(i).Style.IsLeftToRight())
	// items are stored in visual order
	leftmost, rightmost := line.Items[first], line.Items[last]
	if leftmost.LogicalLeft > rightmost.LogicalLeft {
		leftmost, rightmost = rightmost, leftmost
	}
	if leftGap {
		g.add(g.leftGap(i, offset, leftmost.LogicalLeft, line.LogicalTop, line.LogicalHeight))
	}
	if rightGap {
		g.add(g.rightGap(i, offset, rightmost.LogicalLeft+rightmost.LogicalWidth, line.LogicalTop, line.LogicalHeight))
	}

	// holes between two adjacent selected items
	for k := first + 1; k <= last; k++ {
		previous, item := line.Items[k-1], line.Items[k]
		if g.c.box(previous.Box).Selection == bo.SelectionNone || g.c.box(item.Box).Selection == bo.SelectionNone {
			continue
		}
		gapLeft := min(previous.LogicalLeft+previous.LogicalWidth, item.LogicalLeft+item.LogicalWidth)
		gapRight := max(previous.LogicalLeft, item.LogicalLeft)
		g.add(bo.Rect{X: offset.X + gapLeft, Y: offset.Y + line.LogicalTop, Width: gapRight - gapLeft, Height: line.LogicalHeight})
	}
}

// selectionGapSides returns which sides of an object in the [state]
// selection state are crossed by the selection.
func selectionGapSides(state bo.SelectionState, ltr bool) (left, right bool) {
	left = state == bo.SelectionInside || (state == bo.SelectionEnd && ltr) || (state == bo.SelectionStart && !ltr)
	right = state == bo.SelectionInside || (state == bo.SelectionStart && ltr) || (state == bo.SelectionEnd && !ltr)
	return left, right
}

// blockGap fills the space between the cursor and [logicalBottom] (in the
// coordinates of [i]).
func (g *selectionGaps) blockGap(i bo.BoxIndex, offset bo.Point, logicalBottom pr.Float) bo.Rect {
	top := g.lastTop
	height := offset.Y + logicalBottom - top
	if height <= 0 {
		return bo.Rect{}
	}
	left := max(g.lastLeft, g.leftOffset(i, logicalBottom))
	right := min(g.lastRight, g.rightOffset(i, logicalBottom))
	if right <= left {
		return bo.Rect{}
	}
	return bo.Rect{X: left, Y: top, Width: right - left, Height: height}
}

// leftGap fills the space between the left edge available to the
// selection and [logicalLeft], on the band [top, top+height) of [i].
func (g *selectionGaps) leftGap(i bo.BoxIndex, offset bo.Point, logicalLeft, top, height pr.Float) bo.Rect {
	left := max(g.leftOffset(i, top), g.leftOffset(i, top+height))
	right := min(offset.X+logicalLeft, g.rightOffset(i, top), g.rightOffset(i, top+height))
	if right <= left {
		return bo.Rect{}
	}
	return bo.Rect{X: left, Y: offset.Y + top, Width: right - left, Height: height}
}

func (g *selectionGaps) rightGap(i bo.BoxIndex, offset bo.Point, logicalRight, top, height pr.Float) bo.Rect {
	left := max(offset.X+logicalRight, g.leftOffset(i, top), g.leftOffset(i, top+height))
	right := min(g.rightOffset(i, top), g.rightOffset(i, top+height))
	if right <= left {
		return bo.Rect{}
	}
	return bo.Rect{X: left, Y: offset.Y + top, Width: right - left, Height: height}
}

// leftOffset returns the left edge of the space available to the
// selection at [position] in [i], in the coordinates of the root. Without
// floats, the edge of the parent is used, up to the content edge of the root.
func (g *selectionGaps) leftOffset(i bo.BoxIndex, position pr.Float) pr.Float {
	c := g.c
	left, _ := c.logicalLeftOffsetForLine(i, position, 0)
	if left == c.logicalLeftOffsetForContent(i) {
		if parent := c.box(i).Parent; i != g.root && parent != bo.NoBox {
			return g.leftOffset(parent, position+c.box(i).LogicalTop)
		}
		return left
	}
	for cur := i; cur != g.root && cur != bo.NoBox; cur = c.box(cur).Parent {
		left += c.box(cur).LogicalLeft
	}
	return left
}

func (g *selectionGaps) rightOffset(i bo.BoxIndex, position pr.Float) pr.Float {
	c := g.c
	right, _ := c.logicalRightOffsetForLine(i, position, 0)
	if right == c.logicalRightOffsetForContent(i) {
		if parent := c.box(i).Parent; i != g.root && parent != bo.NoBox {
			return g.rightOffset(parent, position+c.box(i).LogicalTop)
		}
		return right
	}
	for cur := i; cur != g.root && cur != bo.NoBox; cur = c.box(cur).Parent {
		right += c.box(cur).LogicalLeft
	}
	return right
}

// isSelectionRoot is true for the blocks computing their own selection
// gaps, which are not filled by their ancestors.
func (c *Context) isSelectionRoot(i bo.BoxIndex) bool {
	b := c.box(i)
	return i == c.tree.Root() || b.HasOverflowClip() || b.IsFloatingOrPositioned() ||
		b.IsTableCell() || b.IsAtomicInline() || c.isWritingModeRoot(i)
}
