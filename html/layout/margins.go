package layout

import (
	pr "github.com/ariya/phantomjs-sub051/css/properties"
	bo "github.com/ariya/phantomjs-sub051/html/boxes"
)

// Vertical margins collapsing.
// See https://www.w3.org/TR/CSS21/box.html#collapsing-margins

type marginState uint8

const (
	// no in-flow content met yet: child margins may collapse
	// through the before edge of the container
	atBeforeEdge marginState = iota
	flowing
	// the after edge of the container has been reached
	atAfterEdge
)

// marginInfo is the margin collapsing state of a block, while its children
// are laid out. The pending margin is kept as its positive and negative parts.
type marginInfo struct {
	atBeforeSideOfBlock bool
	atAfterSideOfBlock  bool

	canCollapseWithChildren             bool
	canCollapseMarginBeforeWithChildren bool
	canCollapseMarginAfterWithChildren  bool

	// table cells and the body ignore quirky margins of their children
	quirkContainer bool

	marginBeforeQuirk           bool
	marginAfterQuirk            bool
	determinedMarginBeforeQuirk bool

	// set when a discarding margin takes part in the pending collapse
	discardMargin bool

	positiveMargin, negativeMargin pr.Float
}

func (c *Context) newMarginInfo(i bo.BoxIndex, beforeBorderPadding, afterBorderPadding pr.Float) marginInfo {
	b := c.box(i)
	mi := marginInfo{atBeforeSideOfBlock: true}
	mi.canCollapseWithChildren = c.canCollapseWithChildren(i)
	mi.canCollapseMarginBeforeWithChildren = mi.canCollapseWithChildren && beforeBorderPadding == 0 &&
		b.Style.MarginBeforeCollapse != pr.MarginCollapseSeparate
	mi.canCollapseMarginAfterWithChildren = mi.canCollapseWithChildren && afterBorderPadding == 0 &&
		b.Style.LogicalHeight(c.wm).IsAuto() && b.Style.MarginAfterCollapse != pr.MarginCollapseSeparate
	mi.quirkContainer = b.IsTableCell() || b.Tag == "body"

	discard := c.mustDiscardMarginBefore(i)
	mi.discardMargin = mi.canCollapseMarginBeforeWithChildren && discard
	if mi.canCollapseMarginBeforeWithChildren && !discard {
		mi.positiveMargin, mi.negativeMargin = b.MaxPositiveMarginBefore, b.MaxNegativeMarginBefore
	}
	return mi
}

func (m *marginInfo) state() marginState {
	switch {
	case m.atAfterSideOfBlock:
		return atAfterEdge
	case m.atBeforeSideOfBlock:
		return atBeforeEdge
	default:
		return flowing
	}
}

func (m *marginInfo) canCollapseWithMarginBefore() bool {
	return m.atBeforeSideOfBlock && m.canCollapseMarginBeforeWithChildren
}

func (m *marginInfo) canCollapseWithMarginAfter() bool {
	return m.atAfterSideOfBlock && m.canCollapseMarginAfterWithChildren
}

// margin returns the collapsed value of the pending margins.
func (m *marginInfo) margin() pr.Float { return m.positiveMargin - m.negativeMargin }

func (m *marginInfo) clearMargin() { m.positiveMargin, m.negativeMargin = 0, 0 }

func (m *marginInfo) setMargin(pos, neg pr.Float) { m.positiveMargin, m.negativeMargin = pos, neg }

func (m *marginInfo) setPositiveMarginIfLarger(p pr.Float) { m.positiveMargin = max(m.positiveMargin, p) }

func (m *marginInfo) setNegativeMarginIfLarger(n pr.Float) { m.negativeMargin = max(m.negativeMargin, n) }

// marginValues stores the positive and negative parts of the margins
// collapsing through the edges of a box.
type marginValues struct {
	positiveBefore, negativeBefore pr.Float
	positiveAfter, negativeAfter   pr.Float
}

func splitMargin(m pr.Float) (pos, neg pr.Float) {
	if m > 0 {
		return m, 0
	}
	return 0, -m
}

// marginValuesForChild returns the collapsed margins of [child]; blocks
// report the maxima collapsed through their edges during their own layout.
func (c *Context) marginValuesForChild(child bo.BoxIndex) marginValues {
	b := c.box(child)
	var out marginValues
	if c.isWritingModeRoot(child) {
		out.positiveBefore, out.negativeBefore = splitMargin(b.Margin.Before)
		out.positiveAfter, out.negativeAfter = splitMargin(b.Margin.After)
	} else {
		out = marginValues{
			b.MaxPositiveMarginBefore, b.MaxNegativeMarginBefore,
			b.MaxPositiveMarginAfter, b.MaxNegativeMarginAfter,
		}
	}
	if c.mustDiscardMarginBefore(child) {
		out.positiveBefore, out.negativeBefore = 0, 0
	}
	if c.mustDiscardMarginAfter(child) {
		out.positiveAfter, out.negativeAfter = 0, 0
	}
	return out
}

// initMaxMarginValues resets the collapsed margins of [i] to its own margins,
// before its children are laid out.
func (c *Context) initMaxMarginValues(i bo.BoxIndex) {
	b := c.box(i)
	b.MaxPositiveMarginBefore, b.MaxNegativeMarginBefore = splitMargin(b.Margin.Before)
	b.MaxPositiveMarginAfter, b.MaxNegativeMarginAfter = splitMargin(b.Margin.After)
	bd := c.blockData(i)
	bd.discardMarginBefore, bd.discardMarginAfter = false, false
	bd.marginBeforeQuirk = b.Style.IsMarginQuirk(pr.Before, c.wm)
	bd.marginAfterQuirk = b.Style.IsMarginQuirk(pr.After, c.wm)
}

func (c *Context) setMaxMarginBeforeValues(i bo.BoxIndex, pos, neg pr.Float) {
	b := c.box(i)
	b.MaxPositiveMarginBefore, b.MaxNegativeMarginBefore = pos, neg
}

func (c *Context) setMaxMarginAfterValues(i bo.BoxIndex, pos, neg pr.Float) {
	b := c.box(i)
	b.MaxPositiveMarginAfter, b.MaxNegativeMarginAfter = pos, neg
}

func (c *Context) mustDiscardMarginBefore(i bo.BoxIndex) bool {
	if c.box(i).Style.MarginBeforeCollapse == pr.MarginCollapseDiscard {
		return true
	}
	bd := c.blocks[i]
	return bd != nil && bd.discardMarginBefore
}

func (c *Context) mustDiscardMarginAfter(i bo.BoxIndex) bool {
	if c.box(i).Style.MarginAfterCollapse == pr.MarginCollapseDiscard {
		return true
	}
	bd := c.blocks[i]
	return bd != nil && bd.discardMarginAfter
}

func (c *Context) mustSeparateMarginBeforeForChild(child bo.BoxIndex) bool {
	return c.box(child).Style.MarginBeforeCollapse == pr.MarginCollapseSeparate
}

func (c *Context) mustSeparateMarginAfterForChild(child bo.BoxIndex) bool {
	return c.box(child).Style.MarginAfterCollapse == pr.MarginCollapseSeparate
}

func (c *Context) hasMarginBeforeQuirk(child bo.BoxIndex) bool {
	if bd := c.blocks[child]; bd != nil && c.box(child).IsBlockFlow() {
		return bd.marginBeforeQuirk
	}
	return c.box(child).Style.IsMarginQuirk(pr.Before, c.wm)
}

func (c *Context) hasMarginAfterQuirk(child bo.BoxIndex) bool {
	if bd := c.blocks[child]; bd != nil && c.box(child).IsBlockFlow() {
		return bd.marginAfterQuirk
	}
	return c.box(child).Style.IsMarginQuirk(pr.After, c.wm)
}

// canCollapseWithChildren is false for the blocks establishing a new
// formatting context, whose margins never collapse with their content.
func (c *Context) canCollapseWithChildren(i bo.BoxIndex) bool {
	b := c.box(i)
	return i != c.tree.Root() && !c.isRootElement(i) && !b.IsOutOfFlowPositioned() &&
		!b.IsFloating() && !b.IsTableCell() && !b.HasOverflowClip() &&
		b.Style.Display != pr.DisplayInlineBlock && !c.isWritingModeRoot(i) &&
		!b.Style.SpecifiesColumns()
}

// isSelfCollapsingBlock is true for blocks with no height and no
// content separating their before and after margins, which then collapse
// together.
func (c *Context) isSelfCollapsingBlock(i bo.BoxIndex) bool {
	b := c.box(i)
	if !b.IsBlockFlow() {
		return false
	}
	if b.LogicalHeight > 0 || b.Border.BlockSum()+b.Padding.BlockSum() != 0 ||
		b.Style.LogicalMinHeight(c.wm).Value > 0 ||
		b.Style.MarginBeforeCollapse == pr.MarginCollapseSeparate ||
		b.Style.MarginAfterCollapse == pr.MarginCollapseSeparate {
		return false
	}

	height := b.Style.LogicalHeight(c.wm)
	hasAutoHeight := height.IsAuto()
	if height.IsPercent() && !c.Quirks() {
		hasAutoHeight = true
		for cb := c.tree.ContainingBlock(i); cb != bo.NoBox && cb != c.tree.Root(); cb = c.tree.ContainingBlock(cb) {
			if c.box(cb).Style.LogicalHeight(c.wm).IsFixed() || c.box(cb).IsTableCell() {
				hasAutoHeight = false
			}
		}
	}

	if hasAutoHeight || (!height.IsAuto() && height.Value == 0) {
		if c.tree.ChildrenInline(i) {
			return len(b.Lines) == 0
		}
		for _, child := range c.tree.Children(i) {
			if c.box(child).IsFloatingOrPositioned() {
				continue
			}
			if !c.isSelfCollapsingBlock(child) {
				return false
			}
		}
		return true
	}
	return false
}

// collapseMargins collapses the before margin of [child] with the pending
// margins of [mi], and returns the top position of the child. The height of
// [container] is advanced accordingly.
func (c *Context) collapseMargins(container, child bo.BoxIndex, mi *marginInfo) pr.Float {
	quirks := c.Quirks()
	childDiscardMarginBefore := c.mustDiscardMarginBefore(child)
	childDiscardMarginAfter := c.mustDiscardMarginAfter(child)
	childIsSelfCollapsing := c.isSelfCollapsingBlock(child)

	// a discarding after margin also discards the before margin of an empty block
	childDiscardMarginBefore = childDiscardMarginBefore || (childDiscardMarginAfter && childIsSelfCollapsing)

	childMargins := c.marginValuesForChild(child)
	posTop, negTop := childMargins.positiveBefore, childMargins.negativeBefore
	if childIsSelfCollapsing {
		posTop = max(posTop, childMargins.positiveAfter)
		negTop = max(negTop, childMargins.negativeAfter)
	}

	topQuirk := c.hasMarginBeforeQuirk(child)
	cb := c.box(container)
	bd := c.blockData(container)

	if mi.canCollapseWithMarginBefore() {
		if !childDiscardMarginBefore && !mi.discardMargin {
			// the child collapses through our before edge
			if !quirks || !mi.quirkContainer || !topQuirk {
				c.setMaxMarginBeforeValues(container, max(posTop, cb.MaxPositiveMarginBefore), max(negTop, cb.MaxNegativeMarginBefore))
			}

			// as soon as a non quirky margin is involved, keep it
			if !mi.determinedMarginBeforeQuirk && !topQuirk && posTop-negTop != 0 {
				bd.marginBeforeQuirk = false
				mi.determinedMarginBeforeQuirk = true
			}

			// the quirky margin of the first child passes through a block
			// without margin (the <td><div><p> case)
			if !mi.determinedMarginBeforeQuirk && topQuirk && cb.Margin.Before == 0 {
				bd.marginBeforeQuirk = true
			}
		} else {
			bd.discardMarginBefore = true
		}
	}

	// every margin collapsing with a discarded one is discarded
	if childDiscardMarginBefore {
		mi.discardMargin = true
		mi.clearMargin()
	}

	if mi.quirkContainer && mi.atBeforeSideOfBlock && posTop-negTop != 0 {
		mi.marginBeforeQuirk = topQuirk
	}

	beforeCollapseLogicalTop := cb.LogicalHeight
	logicalTop := beforeCollapseLogicalTop
	if childIsSelfCollapsing {
		if !childDiscardMarginBefore && !mi.discardMargin {
			// position the empty block before collapsing its margins together
			collapsedBeforePos := max(mi.positiveMargin, childMargins.positiveBefore)
			collapsedBeforeNeg := max(mi.negativeMargin, childMargins.negativeBefore)
			mi.setMargin(collapsedBeforePos, collapsedBeforeNeg)

			mi.setPositiveMarginIfLarger(childMargins.positiveAfter)
			mi.setNegativeMarginIfLarger(childMargins.negativeAfter)

			if !mi.canCollapseWithMarginBefore() {
				logicalTop = cb.LogicalHeight + collapsedBeforePos - collapsedBeforeNeg
			}
		}
	} else {
		if c.mustSeparateMarginBeforeForChild(child) {
			assert(!mi.discardMargin || mi.margin() == 0, "discarded margin not cleared")
			var separateMargin pr.Float
			if !mi.canCollapseWithMarginBefore() {
				separateMargin = mi.margin()
			}
			cb.LogicalHeight += separateMargin + c.box(child).Margin.Before
			logicalTop = cb.LogicalHeight
		} else if !mi.discardMargin && (!mi.atBeforeSideOfBlock ||
			(!mi.canCollapseMarginBeforeWithChildren && (!quirks || !mi.quirkContainer || !mi.marginBeforeQuirk))) {
			// collapsing with the previous sibling, not with our before edge
			cb.LogicalHeight += max(mi.positiveMargin, posTop) - max(mi.negativeMargin, negTop)
			logicalTop = cb.LogicalHeight
		}

		mi.discardMargin = childDiscardMarginAfter
		if !mi.discardMargin {
			mi.setMargin(childMargins.positiveAfter, childMargins.negativeAfter)
		} else {
			mi.clearMargin()
		}

		if mi.margin() != 0 {
			mi.marginAfterQuirk = c.hasMarginAfterQuirk(child)
		}
	}

	// margins never push content past the next page or column boundary:
	// they collapse into the break instead
	if st := c.state(); st.paginated && st.pageHeight != 0 && logicalTop > beforeCollapseLogicalTop {
		oldLogicalTop := logicalTop
		logicalTop = min(logicalTop, c.nextPageLogicalTop(beforeCollapseLogicalTop))
		cb.LogicalHeight += logicalTop - oldLogicalTop
	}

	// a previous sibling's floats may now reach below our (reduced) height
	if prev := c.previousInFlowBlock(child); prev != bo.NoBox && !c.box(prev).IsFloatingOrPositioned() &&
		c.box(prev).IsBlockFlow() && cb.LogicalHeight < beforeCollapseLogicalTop {
		c.addOverhangingFloats(container, prev, false)
	}

	if debugMode {
		debugLogger.Line("collapse margins of %d in %d: top %g (state %d, pending %g)", child, container, logicalTop, mi.state(), mi.margin())
	}
	return logicalTop
}

func (c *Context) previousInFlowBlock(child bo.BoxIndex) bo.BoxIndex {
	for prev := c.box(child).PrevSibling; prev != bo.NoBox; prev = c.box(prev).PrevSibling {
		if !c.box(prev).IsFloatingOrPositioned() {
			return prev
		}
	}
	return bo.NoBox
}

// clearFloatsIfNeeded moves [child] below the floats it must clear, and
// returns its new top position.
func (c *Context) clearFloatsIfNeeded(container, child bo.BoxIndex, mi *marginInfo, oldTopPosMargin, oldTopNegMargin, logicalTop pr.Float) pr.Float {
	heightIncrease := c.getClearDelta(container, child, logicalTop)
	if heightIncrease == 0 {
		return logicalTop
	}

	cb := c.box(container)
	if c.isSelfCollapsingBlock(child) {
		// A cleared empty block can still collapse its margins with its
		// following siblings, but never with the after edge of its parent.
		atBottomOfBlock := true
		for next := c.box(child).NextSibling; next != bo.NoBox && atBottomOfBlock; next = c.box(next).NextSibling {
			if !c.box(next).IsFloatingOrPositioned() {
				atBottomOfBlock = false
			}
		}

		childMargins := c.marginValuesForChild(child)
		if atBottomOfBlock {
			mi.setMargin(childMargins.positiveAfter, childMargins.negativeAfter)
		} else {
			mi.setMargin(max(childMargins.positiveBefore, childMargins.positiveAfter),
				max(childMargins.negativeBefore, childMargins.negativeAfter))
		}

		// ready to be collapsed with the next sibling
		cb.LogicalHeight = logicalTop + heightIncrease - max(0, mi.margin())
	} else {
		cb.LogicalHeight += heightIncrease
	}

	if mi.canCollapseWithMarginBefore() {
		// the clearance separates the following content from our before edge
		c.setMaxMarginBeforeValues(container, oldTopPosMargin, oldTopNegMargin)
		mi.atBeforeSideOfBlock = false
		c.blockData(container).discardMarginBefore = false
	}

	return logicalTop + heightIncrease
}

// setCollapsedBottomMargin records the margins collapsing through the
// after edge of [i].
func (c *Context) setCollapsedBottomMargin(i bo.BoxIndex, mi *marginInfo) {
	if !mi.canCollapseWithMarginAfter() || mi.canCollapseWithMarginBefore() {
		return
	}
	bd := c.blockData(i)
	if mi.discardMargin {
		bd.discardMarginAfter = true
		return
	}
	b := c.box(i)
	c.setMaxMarginAfterValues(i, max(b.MaxPositiveMarginAfter, mi.positiveMargin), max(b.MaxNegativeMarginAfter, mi.negativeMargin))

	if !mi.marginAfterQuirk {
		bd.marginAfterQuirk = false
	}
	if mi.marginAfterQuirk && b.Margin.After == 0 {
		bd.marginAfterQuirk = true
	}
}

// handleAfterSideOfBlock finishes the child loop of [i]: the pending margin
// is either added to the height or collapsed through the after edge.
func (c *Context) handleAfterSideOfBlock(i bo.BoxIndex, beforeSide, afterSide pr.Float, mi *marginInfo) {
	mi.atAfterSideOfBlock = true
	b := c.box(i)

	if !mi.discardMargin && !mi.canCollapseWithMarginAfter() && !mi.canCollapseWithMarginBefore() &&
		(!c.Quirks() || !mi.quirkContainer || !mi.marginAfterQuirk) {
		b.LogicalHeight += mi.margin()
	}

	b.LogicalHeight += afterSide

	// negative margins never shrink a block below its borders and paddings
	b.LogicalHeight = max(b.LogicalHeight, beforeSide+afterSide)

	c.setCollapsedBottomMargin(i, mi)
}

// Return the amount of collapsed margin for a list of adjoining margins.
func collapseMargin(adjoiningMargins []pr.Float) pr.Float {
	var maxPos, minNeg pr.Float
	for _, m := range adjoiningMargins {
		if m > maxPos {
			maxPos = m
		} else if m < minNeg {
			minNeg = m
		}
	}
	return maxPos + minNeg
}
