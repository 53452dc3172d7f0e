package layout

import (
	pr "github.com/ariya/phantomjs-sub051/css/properties"
	bo "github.com/ariya/phantomjs-sub051/html/boxes"
	"github.com/ariya/phantomjs-sub051/text"
)

// Line breaking and layout for inline-level boxes.
//
// The inline content of a block is first split into unbreakable items
// (words with their trailing spaces, atomic inlines, forced breaks), then
// packed greedily into lines narrowed by the floats of the block.

type inlineItemKind uint8

const (
	textItem inlineItemKind = iota
	atomicItem
	breakItem
	floatItem
	positionedItem
)

// inlineItem is an unbreakable piece of inline content.
type inlineItem struct {
	kind inlineItemKind
	box  bo.BoxIndex
	// rune range, for text items
	start, end int
	// advance, and advance without the trailing spaces hanging at the
	// end of a line
	width, trimmedWidth pr.Float
	// collapsible is set for white space only text
	collapsible bool
	// ownLine is set for block-level boxes met in inline content
	ownLine bool
}

// placedItem is an item of a line, at [offset] from the line start.
type placedItem struct {
	inlineItem
	offset pr.Float
}

// layoutInlineChildren builds the lines of the block [i].
func (c *Context) layoutInlineChildren(i bo.BoxIndex, relayoutChildren bool) {
	items := c.collectInlineItems(i, relayoutChildren)

	breakBeforeLine := -1
	for attempt := 0; attempt < 2; attempt++ {
		c.buildLines(i, items, breakBeforeLine)
		if !c.state().paginated {
			break
		}
		breakBeforeLine = c.lineToAvoidWidows(i)
		if breakBeforeLine < 0 {
			break
		}
		if debugMode {
			debugLogger.Line("block %d: break moved before line %d to avoid widows", i, breakBeforeLine)
		}
	}
}

// collectInlineItems splits the inline content of [i] into items, laying
// out the atomic inlines on the way.
func (c *Context) collectInlineItems(i bo.BoxIndex, relayoutChildren bool) []inlineItem {
	paginated := c.state().paginated
	var items []inlineItem
	for child := c.box(i).FirstChild; child != bo.NoBox; child = c.box(child).NextSibling {
		cb := c.box(child)
		if cb.Style.Display == pr.DisplayNone {
			continue
		}
		switch {
		case cb.IsOutOfFlowPositioned():
			c.positioned.add(c.tree.ContainingBlock(child), child)
			items = append(items, inlineItem{kind: positionedItem, box: child})
		case cb.IsFloating():
			if relayoutChildren {
				cb.ChildNeedsLayout = true
			}
			items = append(items, inlineItem{kind: floatItem, box: child})
		case cb.Kind == bo.LineBreakKind:
			items = append(items, inlineItem{kind: breakItem, box: child})
			c.markLaidOut(child)
		case cb.IsText():
			items = c.appendTextItems(items, child)
			c.markLaidOut(child)
		default:
			if relayoutChildren || c.hasPercentHeight(child) {
				cb.ChildNeedsLayout = true
			}
			c.layoutChildIfNeeded(child, paginated)
			cb = c.box(child)
			w := cb.MarginBoxWidth()
			items = append(items, inlineItem{
				kind: atomicItem, box: child,
				width: w, trimmedWidth: w,
				ownLine: !cb.IsInlineLevel(),
			})
		}
	}
	return items
}

func (c *Context) markLaidOut(i bo.BoxIndex) {
	b := c.box(i)
	b.NeedsLayout, b.ChildNeedsLayout = false, false
	b.EverHadLayout = true
}

// appendTextItems splits the text box [i] at its break opportunities.
// The end of a text box is a break opportunity, not a forced break.
func (c *Context) appendTextItems(items []inlineItem, i bo.BoxIndex) []inlineItem {
	m := c.opts.Measurer
	b := c.box(i)
	content := b.Text
	start := 0
	for _, br := range m.Breaks(content) {
		end := br.Offset
		if end <= start {
			continue
		}
		trimmed := text.TrimTrailingSpaces(content, start, end)
		items = append(items, inlineItem{
			kind: textItem, box: i,
			start: start, end: end,
			width:        m.RunWidth(content[start:end], &b.Style),
			trimmedWidth: m.RunWidth(content[start:trimmed], &b.Style),
			collapsible:  trimmed == start,
		})
		if br.Mandatory && end < len(content) {
			items = append(items, inlineItem{kind: breakItem, box: i})
		}
		start = end
	}
	return items
}

// buildLines packs [items] into the lines of [i], starting at its
// content edge. [breakBeforeLine], if non negative, is the index of a line
// pushed to the next band.
func (c *Context) buildLines(i bo.BoxIndex, items []inlineItem, breakBeforeLine int) {
	b := c.box(i)
	// floats are placed again with the lines
	if reg := c.floats[i]; reg != nil {
		for _, it := range items {
			if it.kind == floatItem {
				reg.Remove(it.box)
			}
		}
	}

	b.Lines = nil
	b.LogicalHeight = b.BorderAndPaddingBefore()
	strut := c.opts.Measurer.LineMetrics(&b.Style)

	for k := 0; k < len(items); {
		line, placed, next, ok := c.fillLine(i, items, k, strut)
		k = next
		if ok {
			c.paginateLine(i, &line, breakBeforeLine)
			c.placeAtomicItems(&line, placed)
			b.Lines = append(b.Lines, line)
			b.LogicalHeight = line.LogicalBottom()
		}
		// floats which did not fit on the line go below it
		c.positionNewFloats(i)
	}

	b.LogicalHeight += b.BorderAndPaddingAfter()
}

// fillLine builds the line starting at item [k], at the current height of
// [i]. It returns false if the line has no content (only floats, positioned
// boxes or collapsed spaces).
func (c *Context) fillLine(i bo.BoxIndex, items []inlineItem, k int, strut text.Metrics) (line bo.LineBox, placed []placedItem, next int, ok bool) {
	b := c.box(i)
	ltr := b.Style.IsLeftToRight()
	fullWidth := c.availableLogicalWidth(i)
	lineTop := b.LogicalHeight

	band := func() (left, right pr.Float) {
		left, _ = c.logicalLeftOffsetForLine(i, lineTop, strut.LineHeight)
		right, _ = c.logicalRightOffsetForLine(i, lineTop, strut.LineHeight)
		return left, max(left, right)
	}

	for step := 0; ; step++ {
		left, right := band()
		line = bo.LineBox{LogicalTop: lineTop}
		placed = placed[:0]
		var used pr.Float
		hasBreak, deferFloats, moveDown := false, false, false

		next = k
	fill:
		for ; next < len(items); next++ {
			it := items[next]
			switch it.kind {
			case positionedItem:
				x := left + used
				if !ltr {
					x = right - used
				}
				c.blockData(it.box).staticPosition = bo.Point{X: x, Y: lineTop}
			case floatItem:
				f := c.insertFloatingObject(i, it.box)
				line.Floats = append(line.Floats, it.box)
				if f.Placed {
					continue
				}
				if !deferFloats && (len(placed) == 0 || used+f.Rect.Width <= right-left) {
					saved := b.LogicalHeight
					b.LogicalHeight = lineTop
					c.positionNewFloats(i)
					b.LogicalHeight = saved
					left, right = band()
				} else {
					deferFloats = true
				}
			case breakItem:
				hasBreak = true
				next++
				break fill
			default:
				if it.kind == textItem && it.collapsible && len(placed) == 0 {
					continue // leading spaces
				}
				if len(placed) != 0 && (it.ownLine || used+it.trimmedWidth > right-left) {
					break fill
				}
				if len(placed) == 0 && it.trimmedWidth > right-left && right-left < fullWidth {
					// too narrow beside the floats: try below the next float
					if reg := c.floats[i]; reg != nil && step < maxFloatPlacementSteps {
						if y, found := reg.NextFloatBottomBelow(lineTop); found {
							lineTop = y
							moveDown = true
							break fill
						}
					}
				}
				placed = append(placed, placedItem{inlineItem: it, offset: used})
				used += it.width
				if it.ownLine {
					next++
					break fill
				}
			}
		}
		if moveDown {
			continue
		}

		// the only content of the line is white space
		if len(placed) != 0 && !hasBreak {
			allSpaces := true
			for _, p := range placed {
				allSpaces = allSpaces && p.kind == textItem && p.collapsible
			}
			if allSpaces {
				placed = placed[:0]
			}
		}
		if len(placed) == 0 && !hasBreak {
			return line, placed, next, false
		}

		c.alignLine(&line, placed, strut, left, right, ltr)
		return line, placed, next, true
	}
}

// alignLine sets the inline positions of the items of [line], and its
// height and baseline.
func (c *Context) alignLine(line *bo.LineBox, placed []placedItem, strut text.Metrics, left, right pr.Float, ltr bool) {
	m := c.opts.Measurer

	// trailing spaces hang
	var extent pr.Float
	for k := len(placed) - 1; k >= 0; k-- {
		if p := placed[k]; p.trimmedWidth != 0 || p.kind != textItem {
			extent = p.offset + p.trimmedWidth
			break
		}
	}

	above, below := strut.Baseline(), strut.LineHeight-strut.Baseline()
	line.Items = make([]bo.LineItem, 0, len(placed))
	for k, p := range placed {
		w := p.width
		if k == len(placed)-1 {
			w = p.trimmedWidth
		}
		x := left + p.offset
		if !ltr {
			x = right - p.offset - w
		}
		line.Items = append(line.Items, bo.LineItem{
			Box: p.box, Start: p.start, End: p.end,
			LogicalLeft: x, LogicalWidth: w,
		})

		if p.kind == textItem {
			metrics := m.LineMetrics(&c.box(p.box).Style)
			above = max(above, metrics.Baseline())
			below = max(below, metrics.LineHeight-metrics.Baseline())
		} else {
			cb := c.box(p.box)
			baseline := c.atomicInlineBaseline(p.box)
			above = max(above, baseline)
			below = max(below, cb.MarginBoxHeight()-baseline)
		}
	}

	line.Baseline = above
	line.LogicalHeight = above + below
	line.LogicalWidth = extent
	line.LogicalLeft = left
	if !ltr {
		line.LogicalLeft = right - extent
	}
}

// placeAtomicItems positions the atomic inlines of [line] on its baseline.
func (c *Context) placeAtomicItems(line *bo.LineBox, placed []placedItem) {
	for k, p := range placed {
		if p.kind != atomicItem {
			continue
		}
		cb := c.box(p.box)
		item := line.Items[k]
		cb.LogicalLeft = item.LogicalLeft + cb.Margin.Start
		cb.LogicalTop = line.LogicalTop + line.Baseline - c.atomicInlineBaseline(p.box) + cb.Margin.Before
		if p.ownLine {
			// block-level boxes start at the line top
			cb.LogicalTop = line.LogicalTop + cb.Margin.Before
		}
	}
}

// paginateLine pushes [line] to the next band when it straddles a band
// boundary, or when it is the line [breakBeforeLine]. Too few lines left
// before a break move the whole block instead.
func (c *Context) paginateLine(i bo.BoxIndex, line *bo.LineBox, breakBeforeLine int) {
	st := c.state()
	if !st.paginated {
		return
	}
	b := c.box(i)
	index := len(b.Lines)
	isFirstLine := index == 0

	var strut pr.Float
	if index == breakBeforeLine {
		strut = c.nextPageLogicalTop(line.LogicalTop) - line.LogicalTop
		line.PaginationStrut = strut
	} else {
		strut = c.adjustLinePositionForPagination(i, line, isFirstLine)
	}

	if strut > 0 && !isFirstLine && index < max(1, b.Style.Orphans) && c.canPropagateStrut(i) {
		// not enough lines before the break: move the whole block
		if toNext := c.nextPageLogicalTop(0); toNext > 0 {
			b.PaginationStrut = max(b.PaginationStrut, toNext)
		}
	}
	line.LogicalTop += strut
}

// lineToAvoidWidows returns the index of the line which must start the
// last band of [i] so that enough lines follow the last break, or -1.
func (c *Context) lineToAvoidWidows(i bo.BoxIndex) int {
	b := c.box(i)
	lines := b.Lines
	widows, orphans := max(1, b.Style.Widows), max(1, b.Style.Orphans)

	lastBreak := -1
	for k := len(lines) - 1; k > 0; k-- {
		if lines[k].PaginationStrut > 0 {
			lastBreak = k
			break
		}
	}
	if lastBreak < 0 {
		return -1
	}
	after := len(lines) - lastBreak
	if after >= widows {
		return -1
	}

	previousBreak := 0
	for k := lastBreak - 1; k > 0; k-- {
		if lines[k].PaginationStrut > 0 {
			previousBreak = k
			break
		}
	}
	newBreak := lastBreak - (widows - after)
	if newBreak <= 0 || newBreak-previousBreak < orphans {
		return -1
	}
	return newBreak
}
