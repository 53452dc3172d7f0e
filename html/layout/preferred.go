package layout

import (
	pr "github.com/ariya/phantomjs-sub051/css/properties"
	bo "github.com/ariya/phantomjs-sub051/html/boxes"
)

// Preferred widths: the minimum and maximum content widths of boxes,
// needed by shrink-to-fit widths (floats, inline-blocks, positioned boxes).
//
// See https://www.w3.org/TR/CSS21/visudet.html#float-width and
// https://www.w3.org/TR/css-sizing-3/#intrinsic-sizes

// Return the shrink-to-fit width of [i], given the [available] width.
func (c *Context) shrinkToFit(i bo.BoxIndex, available pr.Float) pr.Float {
	return min(max(c.minContentWidth(i, false), available), c.maxContentWidth(i, false))
}

// Return the min-content width for [i].
//
// This is the width by breaking at every line-break opportunity.
// If [outer] is true, the inline margins, borders and paddings are added.
func (c *Context) minContentWidth(i bo.BoxIndex, outer bool) pr.Float {
	return c.preferredWidth(i, outer, true)
}

// Return the max-content width for [i].
//
// This is the width by breaking only at forced line breaks.
func (c *Context) maxContentWidth(i bo.BoxIndex, outer bool) pr.Float {
	return c.preferredWidth(i, outer, false)
}

func (c *Context) preferredWidth(i bo.BoxIndex, outer, minContent bool) pr.Float {
	b := c.box(i)
	s := &b.Style

	var w pr.Float
	switch width := s.LogicalWidth(c.wm); {
	case width.IsFixed():
		w = width.Value
	case b.IsReplaced():
		w, _ = c.replacedSize(i, -1)
	case c.tree.ChildrenInline(i):
		w = c.inlinePreferredWidth(i, minContent)
	default:
		w = c.blockPreferredWidth(i, minContent)
	}

	if !minContent && s.SpecifiesColumns() && !b.IsReplaced() {
		if count := s.ColumnCount; count > 1 {
			w = w*pr.Float(count) + pr.Float(count-1)*s.UsedColumnGap()
		}
	}

	if maxWidth := s.LogicalMaxWidth(c.wm); maxWidth.IsFixed() {
		w = min(w, maxWidth.Value)
	}
	if minWidth := s.LogicalMinWidth(c.wm); minWidth.IsFixed() {
		w = max(w, minWidth.Value)
	}
	w = max(0, w)

	if outer {
		w += c.fixedInlineEdges(i)
	}
	return w
}

// fixedInlineEdges returns the inline margins, borders and paddings of
// [i] which do not depend on the containing block.
func (c *Context) fixedInlineEdges(i bo.BoxIndex) pr.Float {
	s := &c.box(i).Style
	var out pr.Float
	for _, side := range [...]pr.LogicalSide{pr.Start, pr.End} {
		if m := s.MarginFor(side, c.wm, pr.LTR); m.IsFixed() {
			out += m.Value
		}
		if p := s.PaddingFor(side, c.wm, pr.LTR); p.IsFixed() {
			out += clampNonNegative(p.Value)
		}
		out += clampNonNegative(s.BorderFor(side, c.wm, pr.LTR))
	}
	return out
}

// blockPreferredWidth returns the preferred width of the content of a
// block container with block-level children. Consecutive floats are
// placed side by side for the max-content width.
func (c *Context) blockPreferredWidth(i bo.BoxIndex, minContent bool) pr.Float {
	var result, floatsWidth pr.Float
	for child := c.box(i).FirstChild; child != bo.NoBox; child = c.box(child).NextSibling {
		cb := c.box(child)
		if cb.Style.Display == pr.DisplayNone || cb.IsOutOfFlowPositioned() {
			continue
		}
		childWidth := c.preferredWidth(child, true, minContent)
		if minContent {
			result = max(result, childWidth)
			continue
		}
		if cb.IsFloating() {
			if cb.Style.Clear != pr.ClearNone {
				result = max(result, floatsWidth)
				floatsWidth = 0
			}
			floatsWidth += childWidth
			continue
		}
		if c.avoidsFloats(child) {
			// placed beside the preceding floats
			childWidth += floatsWidth
		}
		result = max(result, floatsWidth, childWidth)
		floatsWidth = 0
	}
	return max(result, floatsWidth)
}

// inlinePreferredWidth returns the preferred width of inline content:
// the widest unbreakable item, or the widest line between forced breaks.
func (c *Context) inlinePreferredWidth(i bo.BoxIndex, minContent bool) pr.Float {
	m := c.opts.Measurer
	var result, line pr.Float
	for child := c.box(i).FirstChild; child != bo.NoBox; child = c.box(child).NextSibling {
		cb := c.box(child)
		if cb.Style.Display == pr.DisplayNone || cb.IsOutOfFlowPositioned() {
			continue
		}
		switch {
		case cb.Kind == bo.LineBreakKind:
			result = max(result, line)
			line = 0
		case cb.IsText():
			minWidth, maxWidth := m.PreferredWidths(cb.Text, &cb.Style)
			if minContent {
				result = max(result, minWidth)
			} else {
				line += maxWidth
			}
		default:
			childWidth := c.preferredWidth(child, true, minContent)
			if minContent {
				result = max(result, childWidth)
			} else {
				line += childWidth
			}
		}
	}
	return max(result, line)
}
