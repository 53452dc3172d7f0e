package layout

import (
	pr "github.com/ariya/phantomjs-sub051/css/properties"
	bo "github.com/ariya/phantomjs-sub051/html/boxes"
)

// Layout for block-level and block-container boxes.

// layoutBlock lays out the block [i] and its descendants.
// Multi-column containers may need several passes, until the height
// of their columns is settled.
func (c *Context) layoutBlock(i bo.BoxIndex, relayoutChildren bool) {
	assert(!c.inProgress[i], "block %d laid out recursively", i)
	c.inProgress[i] = true
	defer delete(c.inProgress, i)

	if debugMode {
		debugLogger.LineWithIndent("Layout BLOCK %d (relayout children: %v)", i, relayoutChildren)
		defer debugLogger.LineWithDedent("")
	}

	var columnHeight pr.Float
	for pass := 0; ; pass++ {
		r := c.layoutBlockPass(i, relayoutChildren, columnHeight, pass)
		if !r.retry {
			break
		}
		columnHeight = r.columnHeight
		relayoutChildren = true
	}

	b := c.box(i)
	b.NeedsLayout, b.ChildNeedsLayout = false, false
	b.EverHadLayout = true
}

func (c *Context) layoutBlockPass(i bo.BoxIndex, relayoutChildren bool, columnHeight pr.Float, pass int) columnRetry {
	b := c.box(i)

	oldWidth := b.LogicalWidth
	var oldColumnWidth pr.Float
	if col := c.columns[i]; col != nil {
		oldColumnWidth = col.desiredColumnWidth
	}
	c.updateLogicalWidth(i)
	c.calcColumnWidth(i)
	col := c.columns[i]
	if oldWidth != b.LogicalWidth || (col != nil && oldColumnWidth != col.desiredColumnWidth) {
		relayoutChildren = true
	}

	c.clearFloats(i)

	previousHeight := b.LogicalHeight
	b.LogicalHeight = 0

	hasSpecifiedColumnHeight := false
	if col != nil {
		if columnHeight == 0 {
			if h, ok := c.specifiedContentLogicalHeight(i); ok && h > 0 {
				columnHeight, hasSpecifiedColumnHeight = c.constrainLogicalHeight(i, h), true
			}
		}
		col.columnHeight = columnHeight
		col.shortages = col.shortages[:0]
		if columnHeight == 0 {
			col.clearForcedBreaks()
			col.minimumColumnHeight = 0
		}
	}

	c.pushState(i, col, columnHeight)

	if !b.IsTableCell() {
		c.initMaxMarginValues(i)
		b.PaginationStrut = 0
	}

	c.markPercentHeightDescendants(i)

	var maxFloatLogicalBottom pr.Float
	if c.tree.ChildrenInline(i) {
		c.layoutInlineChildren(i, relayoutChildren)
	} else {
		maxFloatLogicalBottom = c.layoutBlockChildren(i, relayoutChildren)
	}

	// expand to enclose the floats of our own formatting context
	if lowest := c.lowestFloatBottom(i, pr.FloatNone); lowest > b.LogicalHeight-b.BorderAndPaddingAfter() &&
		c.expandsToEncloseOverhangingFloats(i) {
		b.LogicalHeight = lowest + b.BorderAndPaddingAfter()
	}

	if col != nil {
		if r := c.layoutColumns(i, hasSpecifiedColumnHeight, columnHeight, pass); r.retry {
			c.popState()
			return r
		}
	}

	c.computeLogicalHeight(i)

	if previousHeight != b.LogicalHeight {
		relayoutChildren = true
	}

	// floats of block children reaching below our (new) height
	if b.LogicalHeight < maxFloatLogicalBottom && !c.tree.ChildrenInline(i) {
		for child := b.FirstChild; child != bo.NoBox; child = c.box(child).NextSibling {
			if cb := c.box(child); cb.IsBlockFlow() && !cb.IsFloatingOrPositioned() {
				c.addOverhangingFloats(i, child, false)
			}
		}
	}

	c.layoutPositionedObjects(i, relayoutChildren || i == c.tree.Root())
	c.computeOverflow(i)

	c.popState()

	c.relativePositioning(i)
	return columnRetry{}
}

// expandsToEncloseOverhangingFloats is true for the blocks whose height
// includes the floats of their formatting context.
func (c *Context) expandsToEncloseOverhangingFloats(i bo.BoxIndex) bool {
	b := c.box(i)
	return b.Style.Display == pr.DisplayInlineBlock || b.IsFloatingOrPositioned() || b.HasOverflowClip() ||
		c.columns[i] != nil || b.IsTableCell() || c.isWritingModeRoot(i) ||
		i == c.tree.Root() || c.isRootElement(i)
}

// layoutBlockChildren lays out the block-level children of [i], and
// returns the lowest float bottom of its children.
func (c *Context) layoutBlockChildren(i bo.BoxIndex, relayoutChildren bool) pr.Float {
	b := c.box(i)
	beforeEdge, afterEdge := b.BorderAndPaddingBefore(), b.BorderAndPaddingAfter()
	b.LogicalHeight = beforeEdge

	mi := c.newMarginInfo(i, beforeEdge, afterEdge)

	var previousFloatLogicalBottom, maxFloatLogicalBottom pr.Float
	for child := b.FirstChild; child != bo.NoBox; child = c.box(child).NextSibling {
		cb := c.box(child)
		if cb.Style.Display == pr.DisplayNone {
			continue
		}
		if relayoutChildren || c.hasPercentHeight(child) {
			cb.ChildNeedsLayout = true
		}

		if c.handleSpecialChild(i, child, &mi) {
			continue
		}

		c.layoutBlockChild(i, child, &mi, &previousFloatLogicalBottom, &maxFloatLogicalBottom)
	}

	c.handleAfterSideOfBlock(i, beforeEdge, afterEdge, &mi)
	return maxFloatLogicalBottom
}

// handleSpecialChild registers the out of flow children, which are not
// laid out in the normal flow. It returns true for them.
func (c *Context) handleSpecialChild(i, child bo.BoxIndex, mi *marginInfo) bool {
	cb := c.box(child)
	switch {
	case cb.IsOutOfFlowPositioned():
		c.positioned.add(c.tree.ContainingBlock(child), child)
		c.adjustPositionedBlock(i, child, mi)
		return true
	case cb.IsFloating():
		c.insertFloatingObject(i, child)
		c.adjustFloatingBlock(i, mi)
		return true
	}
	return false
}

// adjustPositionedBlock records the static position of the positioned
// child [child]: the position it would have had in the normal flow.
func (c *Context) adjustPositionedBlock(i, child bo.BoxIndex, mi *marginInfo) {
	b := c.box(i)
	logicalTop := b.LogicalHeight
	if !mi.canCollapseWithMarginBefore() {
		c.computeBlockDirectionMargins(child)
		marginBefore := c.box(child).Margin.Before
		pos, neg := mi.positiveMargin, mi.negativeMargin
		if marginBefore > 0 {
			pos = max(pos, marginBefore)
		} else {
			neg = max(neg, -marginBefore)
		}
		logicalTop += (pos - neg) - marginBefore
	}

	startEdge := c.logicalLeftOffsetForContent(i)
	if !b.Style.IsLeftToRight() {
		startEdge = c.logicalRightOffsetForContent(i)
	}
	c.blockData(child).staticPosition = bo.Point{X: startEdge, Y: logicalTop}
}

// adjustFloatingBlock places the floats of [i] at the position of the
// current child, taking the pending margin into account.
func (c *Context) adjustFloatingBlock(i bo.BoxIndex, mi *marginInfo) {
	b := c.box(i)
	var marginOffset pr.Float
	if !mi.canCollapseWithMarginBefore() {
		marginOffset = mi.margin()
	}
	b.LogicalHeight += marginOffset
	c.positionNewFloats(i)
	b.LogicalHeight -= marginOffset
}

// childPlacement is the outcome of the positioning of a child after its
// layout: if the final position differs from the estimated one, a
// relayout is needed.
type childPlacement struct {
	logicalTop pr.Float
	retry      bool
}

func (c *Context) layoutBlockChild(i, child bo.BoxIndex, mi *marginInfo, previousFloatLogicalBottom, maxFloatLogicalBottom *pr.Float) {
	b, cb := c.box(i), c.box(child)

	oldPosMarginBefore, oldNegMarginBefore := b.MaxPositiveMarginBefore, b.MaxNegativeMarginBefore

	c.computeBlockDirectionMargins(child)

	// a separate before margin starts a new collapsing run
	if mi.atBeforeSideOfBlock && c.mustSeparateMarginBeforeForChild(child) {
		mi.clearMargin()
		mi.atBeforeSideOfBlock = false
	}

	logicalTopEstimate := c.estimateLogicalTopPosition(i, child, mi)
	oldLogicalTop := cb.LogicalTop
	cb.LogicalTop = logicalTopEstimate

	childRequiresLayout := false
	if logicalTopEstimate != oldLogicalTop && c.containsFloats(child) && !c.avoidsFloats(child) {
		// our floats intruding into the child have moved
		childRequiresLayout = true
	}
	if !cb.IsFloatingOrPositioned() && c.mayBeAffectedByFloats(child) &&
		max(*previousFloatLogicalBottom, c.lowestFloatBottom(i, pr.FloatNone)) > logicalTopEstimate {
		childRequiresLayout = true
	}
	if c.state().paginated {
		childRequiresLayout = true
	}

	if cb.IsBlockFlow() && c.containsFloats(child) {
		*previousFloatLogicalBottom = max(*previousFloatLogicalBottom, oldLogicalTop+c.lowestFloatBottom(child, pr.FloatNone))
	}

	childNeededLayout := c.layoutChildIfNeeded(child, childRequiresLayout)

	placement := c.placeBlockChild(i, child, mi, oldPosMarginBefore, oldNegMarginBefore, logicalTopEstimate)
	if placement.retry {
		// the estimate was wrong: lay the child out again at its final position
		cb.LogicalTop = placement.logicalTop
		if c.layoutChildIfNeeded(child, true) {
			childNeededLayout = true
		}
		// pagination of the new layout may move it again
		if c.state().paginated {
			if strut := cb.PaginationStrut; strut != 0 {
				cb.LogicalTop += strut
				cb.PaginationStrut = 0
				b.LogicalHeight += strut
			}
		}
	}

	if !c.isSelfCollapsingBlock(child) {
		mi.atBeforeSideOfBlock = false
	}

	c.determineLogicalLeftPositionForChild(i, child)

	b.LogicalHeight += cb.LogicalHeight
	if c.mustSeparateMarginAfterForChild(child) {
		b.LogicalHeight += cb.Margin.After
		mi.clearMargin()
	}

	// overhanging floats of the child intrude into the following siblings
	if !c.avoidsFloats(child) || c.containsFloats(child) {
		*maxFloatLogicalBottom = max(*maxFloatLogicalBottom, c.addOverhangingFloats(i, child, !childNeededLayout))
	}

	b.LogicalHeight = c.applyAfterBreak(child, b.LogicalHeight, mi)

	if debugMode {
		debugLogger.Line("block child %d at (%g, %g), height %g", child, cb.LogicalLeft, cb.LogicalTop, cb.LogicalHeight)
	}
}

// placeBlockChild resolves the final block position of [child], now that
// its height and margins are known: margins are collapsed, floats cleared
// and the pagination applied. The height of [i] is advanced accordingly.
func (c *Context) placeBlockChild(i, child bo.BoxIndex, mi *marginInfo, oldPosMarginBefore, oldNegMarginBefore, logicalTopEstimate pr.Float) childPlacement {
	b, cb := c.box(i), c.box(child)
	atBeforeSideOfBlock := mi.atBeforeSideOfBlock

	logicalTopBeforeClear := c.collapseMargins(i, child, mi)
	logicalTopAfterClear := c.clearFloatsIfNeeded(i, child, mi, oldPosMarginBefore, oldNegMarginBefore, logicalTopBeforeClear)

	if c.state().paginated {
		oldTop := logicalTopAfterClear

		newTop := c.applyBeforeBreak(child, oldTop, true)

		// an unsplittable child moves as a whole, otherwise its first line
		// (or first child) may have asked to move the whole child
		pushed := c.adjustForUnsplittableChild(child, newTop, false)
		var paginationStrut pr.Float
		if pushed != newTop {
			paginationStrut = pushed - newTop
		} else if cb.PaginationStrut != 0 {
			paginationStrut = cb.PaginationStrut
		}
		if paginationStrut != 0 {
			if atBeforeSideOfBlock && oldTop == logicalTopBeforeClear && c.canPropagateStrut(i) {
				// we are at the top of our own band: move ourselves instead
				b.PaginationStrut = max(b.PaginationStrut, paginationStrut+oldTop)
			} else {
				newTop += paginationStrut
			}
		}
		cb.PaginationStrut = 0

		b.LogicalHeight += newTop - oldTop
		logicalTopAfterClear = newTop
	}

	cb.LogicalTop = logicalTopAfterClear
	return childPlacement{
		logicalTop: logicalTopAfterClear,
		retry:      logicalTopAfterClear != logicalTopEstimate && c.needsRelayoutAfterMove(child),
	}
}

// needsRelayoutAfterMove is true when the layout of [child] depends on
// its block position: through the floats of its container, or through
// pagination.
func (c *Context) needsRelayoutAfterMove(child bo.BoxIndex) bool {
	if c.state().paginated {
		return true
	}
	cb := c.box(child)
	if !cb.IsBlockFlow() {
		return false
	}
	return c.mayBeAffectedByFloats(child) || (c.containsFloats(child) && !c.avoidsFloats(child))
}

// mayBeAffectedByFloats is true for children whose width or lines depend
// on the floats of their container.
func (c *Context) mayBeAffectedByFloats(child bo.BoxIndex) bool {
	cb := c.box(child)
	if !cb.IsBlockFlow() {
		return false
	}
	return !c.avoidsFloats(child) || c.shrinkToAvoidFloats(child)
}

// estimateLogicalTopPosition guesses the final position of [child] before
// its layout, so that floats and pagination can be taken into account.
func (c *Context) estimateLogicalTopPosition(i, child bo.BoxIndex, mi *marginInfo) pr.Float {
	b := c.box(i)
	logicalTopEstimate := b.LogicalHeight
	if !mi.canCollapseWithMarginBefore() {
		var positiveMarginBefore, negativeMarginBefore pr.Float
		if !c.mustDiscardMarginBefore(child) {
			childMargins := c.marginValuesForChild(child)
			positiveMarginBefore, negativeMarginBefore = childMargins.positiveBefore, childMargins.negativeBefore
		}
		logicalTopEstimate += collapseMargin([]pr.Float{
			mi.positiveMargin, -mi.negativeMargin,
			positiveMarginBefore, -negativeMarginBefore,
		})
	}

	st := c.state()
	if st.paginated && st.pageHeight != 0 && logicalTopEstimate > b.LogicalHeight {
		logicalTopEstimate = min(logicalTopEstimate, c.nextPageLogicalTop(b.LogicalHeight))
	}

	logicalTopEstimate += c.getClearDelta(i, child, logicalTopEstimate)

	if st.paginated {
		logicalTopEstimate = c.applyBeforeBreak(child, logicalTopEstimate, false)
		logicalTopEstimate = c.unsplittableOffset(child, logicalTopEstimate, false, false)
		if cb := c.box(child); !c.tree.SelfNeedsLayout(child) && cb.EverHadLayout {
			logicalTopEstimate += cb.PaginationStrut
		}
	}

	return logicalTopEstimate
}

// computeBlockDirectionMargins resolves the before and after margins of
// [child]; its inline margins depend on its width and are left untouched.
func (c *Context) computeBlockDirectionMargins(child bo.BoxIndex) {
	b := c.box(child)
	cbWidth := c.containingBlockLogicalWidth(child)
	s := &b.Style
	b.Margin.Before = clampFinite(s.MarginFor(pr.Before, c.wm, pr.LTR).ResolveOr(cbWidth, 0))
	b.Margin.After = clampFinite(s.MarginFor(pr.After, c.wm, pr.LTR).ResolveOr(cbWidth, 0))
}

// determineLogicalLeftPositionForChild sets the inline position of
// [child] in [i], shifting the blocks avoiding floats beside them.
// The position is computed from the start edge of [i], so that the
// start margin wins when the inline margins are over-constrained.
func (c *Context) determineLogicalLeftPositionForChild(i, child bo.BoxIndex) {
	b, cb := c.box(i), c.box(child)
	ltr := b.Style.IsLeftToRight()

	startEdge := b.Border.Start + b.Padding.Start
	if !ltr {
		startEdge = b.Border.End + b.Padding.End
	}
	totalAvailable := b.Border.InlineSum() + b.Padding.InlineSum() + c.availableLogicalWidth(i)

	childMarginStart := cb.Margin.Start
	if !ltr {
		childMarginStart = cb.Margin.End
	}
	newPosition := startEdge + childMarginStart

	if c.avoidsFloats(child) && c.containsFloats(i) && !cb.IsFloatingOrPositioned() {
		var startOff pr.Float
		if ltr {
			startOff, _ = c.logicalLeftOffsetForLine(i, cb.LogicalTop, 0)
		} else {
			right, _ := c.logicalRightOffsetForLine(i, cb.LogicalTop, 0)
			startOff = totalAvailable - right
		}
		startMarginStyle := cb.Style.MarginFor(pr.Start, c.wm, pr.LTR)
		if !ltr {
			startMarginStyle = cb.Style.MarginFor(pr.End, c.wm, pr.LTR)
		}
		if !startMarginStyle.IsAuto() {
			// a negative margin pulls the child over the floats only
			// as far as the content edge
			if childMarginStart < 0 {
				startOff += childMarginStart
			}
			newPosition = max(newPosition, startOff)
		} else if startOff != startEdge {
			c.computeInlineDirectionMargins(i, child, c.availableLogicalWidthForLine(i, cb.LogicalTop))
			childMarginStart = cb.Margin.Start
			if !ltr {
				childMarginStart = cb.Margin.End
			}
			newPosition = startOff + childMarginStart
		}
	}

	if ltr {
		cb.LogicalLeft = newPosition
	} else {
		cb.LogicalLeft = totalAvailable - newPosition - cb.LogicalWidth
	}
}

// computeInlineDirectionMargins resolves the auto inline margins of
// [child] against the space [available] left by the floats.
func (c *Context) computeInlineDirectionMargins(i, child bo.BoxIndex, available pr.Float) {
	cb := c.box(child)
	s := &cb.Style
	startAuto := s.MarginFor(pr.Start, c.wm, pr.LTR).IsAuto()
	endAuto := s.MarginFor(pr.End, c.wm, pr.LTR).IsAuto()
	free := available - cb.LogicalWidth
	switch {
	case startAuto && endAuto:
		cb.Margin.Start = max(0, free/2)
		cb.Margin.End = max(0, free-cb.Margin.Start)
	case startAuto:
		cb.Margin.Start = max(0, free-cb.Margin.End)
	case endAuto:
		cb.Margin.End = max(0, free-cb.Margin.Start)
	}
}

// widthFunc computes the used width of the box [i], given its specified
// width and the width of its containing block. It sets the border box
// width and the inline margins.
type widthFunc = func(c *Context, i bo.BoxIndex, width pr.Length, cbWidth pr.Float)

// handleMinMaxWidth decorates a [widthFunc] with the 'min-width' and
// 'max-width' constraints.
// See https://www.w3.org/TR/CSS21/visudet.html#min-max-widths
func handleMinMaxWidth(function widthFunc) widthFunc {
	return func(c *Context, i bo.BoxIndex, width pr.Length, cbWidth pr.Float) {
		function(c, i, width, cbWidth)
		b := c.box(i)
		ppb := b.Border.InlineSum() + b.Padding.InlineSum()
		used := b.LogicalWidth - ppb
		if maxWidth, ok := b.Style.LogicalMaxWidth(c.wm).Resolve(cbWidth); ok && used > maxWidth {
			function(c, i, pr.PxL(maxWidth), cbWidth)
			used = c.box(i).LogicalWidth - ppb
		}
		if minWidth, ok := b.Style.LogicalMinWidth(c.wm).Resolve(cbWidth); ok && used < minWidth {
			function(c, i, pr.PxL(minWidth), cbWidth)
		}
	}
}

var blockLevelWidth = handleMinMaxWidth(blockLevelWidth_)

// @handleMinMaxWidth
// Set the width and the inline margins of the block-level box [i].
// See https://www.w3.org/TR/CSS21/visudet.html#blockwidth
func blockLevelWidth_(c *Context, i bo.BoxIndex, width pr.Length, cbWidth pr.Float) {
	b := c.box(i)
	s := &b.Style

	// Only margin-left, margin-right and width can be "auto".
	// We want:  width of containing block ==
	//               margin-left + border-left-width + padding-left + width
	//               + padding-right + border-right-width + margin-right
	marginLAuto := s.MarginFor(pr.Start, c.wm, pr.LTR).IsAuto()
	marginRAuto := s.MarginFor(pr.End, c.wm, pr.LTR).IsAuto()
	marginL, marginR := b.Margin.Start, b.Margin.End
	if marginLAuto {
		marginL = 0
	}
	if marginRAuto {
		marginR = 0
	}
	paddingsPlusBorders := b.Border.InlineSum() + b.Padding.InlineSum()

	w, ok := width.Resolve(cbWidth)
	if ok {
		if total := paddingsPlusBorders + w + marginL + marginR; total > cbWidth {
			marginLAuto, marginRAuto = false, false
		}
	} else {
		marginLAuto, marginRAuto = false, false
		w = cbWidth - (paddingsPlusBorders + marginL + marginR)
		if c.shrinkToAvoidFloats(i) {
			lineWidth := c.availableLogicalWidthForLine(b.Parent, b.LogicalTop)
			w = min(w, lineWidth-(paddingsPlusBorders+marginL+marginR))
		}
	}
	w = max(0, w)

	// an over-constrained equation ignores the end margin, which is done
	// when positioning the box
	marginSum := cbWidth - paddingsPlusBorders - w
	switch {
	case marginLAuto && marginRAuto:
		marginL = marginSum / 2
		marginR = marginSum / 2
	case marginLAuto:
		marginL = marginSum - marginR
	case marginRAuto:
		marginR = marginSum - marginL
	}
	b.Margin.Start, b.Margin.End = marginL, marginR
	b.LogicalWidth = w + paddingsPlusBorders
}

var shrinkToFitWidth = handleMinMaxWidth(shrinkToFitWidth_)

// @handleMinMaxWidth
// Set the width of floats and inline-blocks: auto widths shrink to fit
// their content, and auto margins are 0.
// See https://www.w3.org/TR/CSS21/visudet.html#float-width
func shrinkToFitWidth_(c *Context, i bo.BoxIndex, width pr.Length, cbWidth pr.Float) {
	b := c.box(i)
	paddingsPlusBorders := b.Border.InlineSum() + b.Padding.InlineSum()
	w, ok := width.Resolve(cbWidth)
	if !ok {
		w = c.shrinkToFit(i, cbWidth-paddingsPlusBorders-b.Margin.InlineSum())
	}
	b.LogicalWidth = max(0, w) + paddingsPlusBorders
}

// updateLogicalWidth computes the inline edges and the used width of [i].
func (c *Context) updateLogicalWidth(i bo.BoxIndex) {
	b := c.box(i)
	cbWidth := c.containingBlockLogicalWidth(i)
	c.computeEdges(b, cbWidth)
	width := b.Style.LogicalWidth(c.wm)

	switch {
	case i == c.tree.Root():
		b.LogicalWidth = c.viewportLogicalWidth()
	case b.IsOutOfFlowPositioned():
		if b.IsReplaced() {
			c.absoluteReplacedWidth(i, cbWidth)
		} else {
			absoluteWidth(c, i, width, cbWidth)
		}
	case b.IsReplaced():
		c.replacedLogicalSize(i, cbWidth)
	case b.IsFloating() || b.Style.Display == pr.DisplayInlineBlock || b.IsTableCell():
		shrinkToFitWidth(c, i, width, cbWidth)
	default:
		blockLevelWidth(c, i, width, cbWidth)
	}
}

// replacedLogicalSize sets the width and height of the replaced box [i],
// centering it with auto margins when it is block-level.
// See https://www.w3.org/TR/CSS21/visudet.html#block-replaced-width
func (c *Context) replacedLogicalSize(i bo.BoxIndex, cbWidth pr.Float) {
	b := c.box(i)
	w, h := c.replacedSize(i, cbWidth)
	if !b.IsInlineLevel() && !b.IsFloating() {
		blockLevelWidth_(c, i, pr.PxL(w), cbWidth)
	} else {
		b.LogicalWidth = w + b.Border.InlineSum() + b.Padding.InlineSum()
	}
	b.LogicalHeight = h + b.Border.BlockSum() + b.Padding.BlockSum()
}

// replacedSize returns the used content size of the replaced box [i],
// keeping the intrinsic ratio when only one dimension is specified.
// See https://www.w3.org/TR/CSS21/visudet.html#inline-replaced-width
func (c *Context) replacedSize(i bo.BoxIndex, cbWidth pr.Float) (w, h pr.Float) {
	b := c.box(i)
	s := &b.Style
	var intrinsicWidth, intrinsicHeight pr.Float
	if b.Content != nil {
		intrinsicWidth, intrinsicHeight = b.Content.IntrinsicSize()
	}
	if !c.wm.IsHorizontal() {
		intrinsicWidth, intrinsicHeight = intrinsicHeight, intrinsicWidth
	}

	specifiedWidth, widthOK := s.LogicalWidth(c.wm).Resolve(cbWidth)
	specifiedHeight, heightOK := c.resolveHeightLength(i, s.LogicalHeight(c.wm))
	switch {
	case widthOK && heightOK:
		w, h = specifiedWidth, specifiedHeight
	case widthOK:
		w, h = specifiedWidth, intrinsicHeight
		if intrinsicWidth > 0 {
			h = specifiedWidth * intrinsicHeight / intrinsicWidth
		}
	case heightOK:
		w, h = intrinsicWidth, specifiedHeight
		if intrinsicHeight > 0 {
			w = specifiedHeight * intrinsicWidth / intrinsicHeight
		}
	default:
		w, h = intrinsicWidth, intrinsicHeight
	}
	w = c.clampLogicalWidth(i, w, cbWidth)
	h = c.constrainLogicalHeight(i, h)
	return max(0, w), max(0, h)
}

// clampLogicalWidth applies 'min-width' and 'max-width' to the content width [w].
func (c *Context) clampLogicalWidth(i bo.BoxIndex, w, cbWidth pr.Float) pr.Float {
	s := &c.box(i).Style
	if maxWidth, ok := s.LogicalMaxWidth(c.wm).Resolve(cbWidth); ok {
		w = min(w, maxWidth)
	}
	if minWidth, ok := s.LogicalMinWidth(c.wm).Resolve(cbWidth); ok {
		w = max(w, minWidth)
	}
	return w
}

// minimumLogicalWidth returns the margin box width [child] requires
// next to the floats of its container, without changing its geometry.
// Auto widths may shrink to nothing.
func (c *Context) minimumLogicalWidth(child bo.BoxIndex) pr.Float {
	b := c.box(child)
	s := &b.Style
	cbWidth := c.containingBlockLogicalWidth(child)
	resolve := func(l pr.Length) pr.Float { return clampFinite(l.ResolveOr(cbWidth, 0)) }

	var edges pr.Float
	for _, side := range [...]pr.LogicalSide{pr.Start, pr.End} {
		edges += clampNonNegative(resolve(s.PaddingFor(side, c.wm, pr.LTR))) +
			clampNonNegative(s.BorderFor(side, c.wm, pr.LTR))
		if m := s.MarginFor(side, c.wm, pr.LTR); !m.IsAuto() {
			edges += resolve(m)
		}
	}

	if b.IsReplaced() {
		w, _ := c.replacedSize(child, cbWidth)
		return edges + w
	}
	w, ok := s.LogicalWidth(c.wm).Resolve(cbWidth)
	if !ok {
		w = 0
	}
	return edges + max(0, c.clampLogicalWidth(child, w, cbWidth))
}

// shrinkToAvoidFloats is true for the blocks with an auto width which
// are narrowed to fit beside the floats of their container.
func (c *Context) shrinkToAvoidFloats(i bo.BoxIndex) bool {
	b := c.box(i)
	if b.Parent == bo.NoBox || b.IsInlineLevel() || b.IsFloatingOrPositioned() {
		return false
	}
	return c.avoidsFloats(i) && b.Style.LogicalWidth(c.wm).IsAuto()
}

// Return wether a box establishes a block formatting context.
// See https://www.w3.org/TR/CSS2/visuren.html#block-formatting
func (c *Context) establishesFormattingContext(i bo.BoxIndex) bool {
	b := c.box(i)
	return b.IsFloatingOrPositioned() || b.Style.SpecifiesColumns() || b.HasOverflowClip() ||
		b.Style.Display == pr.DisplayInlineBlock || b.IsTableCell() || c.isWritingModeRoot(i)
}

// avoidsFloats is true for the boxes placed beside the floats of their
// container instead of flowing around them.
func (c *Context) avoidsFloats(i bo.BoxIndex) bool {
	b := c.box(i)
	return b.IsReplaced() || b.Tag == "hr" || (b.IsBlockFlow() && c.establishesFormattingContext(i))
}

// specifiedContentLogicalHeight returns the content height given by the
// 'height' property of [i], or false if it is auto (or a percentage of an
// indefinite height).
func (c *Context) specifiedContentLogicalHeight(i bo.BoxIndex) (pr.Float, bool) {
	return c.resolveHeightLength(i, c.box(i).Style.LogicalHeight(c.wm))
}

// constrainLogicalHeight applies 'min-height' and 'max-height' to the
// content height [h].
func (c *Context) constrainLogicalHeight(i bo.BoxIndex, h pr.Float) pr.Float {
	s := &c.box(i).Style
	if maxHeight, ok := c.resolveHeightLength(i, s.LogicalMaxHeight(c.wm)); ok {
		h = min(h, maxHeight)
	}
	if minHeight, ok := c.resolveHeightLength(i, s.LogicalMinHeight(c.wm)); ok {
		h = max(h, minHeight)
	}
	return h
}

// computeLogicalHeight replaces the content height of [i] by its used
// height. The root box fills the viewport on screen.
// See https://www.w3.org/TR/CSS21/visudet.html#normal-block
func (c *Context) computeLogicalHeight(i bo.BoxIndex) {
	b := c.box(i)
	if b.IsOutOfFlowPositioned() {
		c.absoluteHeight(i)
		return
	}

	paddingsPlusBorders := b.Border.BlockSum() + b.Padding.BlockSum()
	h := b.LogicalHeight - paddingsPlusBorders
	if c.columns[i] == nil {
		if specified, ok := c.specifiedContentLogicalHeight(i); ok {
			h = specified
		}
	}
	h = c.constrainLogicalHeight(i, h)
	b.LogicalHeight = max(0, h) + paddingsPlusBorders

	if i == c.tree.Root() && c.opts.PageHeight == 0 {
		b.LogicalHeight = max(b.LogicalHeight, c.viewportLogicalHeight())
	}
}

// Translate the box [i] if it is relatively positioned.
func (c *Context) relativePositioning(i bo.BoxIndex) {
	b := c.box(i)
	b.RelativeOffset = bo.Point{}
	if b.Style.Position != pr.PositionRelative {
		return
	}

	cbWidth := c.containingBlockLogicalWidth(i)
	cbHeight, ok := c.percentageHeightBase(i)
	if !ok {
		cbHeight = -1 // percentages behave as auto
	}
	ltr := true
	if cb := c.tree.ContainingBlock(i); cb != bo.NoBox {
		ltr = c.box(cb).Style.IsLeftToRight()
	}

	s := &b.Style
	left, leftOK := s.LogicalOffset(pr.Start, c.wm, pr.LTR).Resolve(cbWidth)
	right, rightOK := s.LogicalOffset(pr.End, c.wm, pr.LTR).Resolve(cbWidth)
	top, topOK := s.LogicalOffset(pr.Before, c.wm, pr.LTR).Resolve(cbHeight)
	bottom, bottomOK := s.LogicalOffset(pr.After, c.wm, pr.LTR).Resolve(cbHeight)

	var translateX, translateY pr.Float
	switch {
	case leftOK && rightOK:
		if ltr {
			translateX = left
		} else {
			translateX = -right
		}
	case leftOK:
		translateX = left
	case rightOK:
		translateX = -right
	}

	if topOK {
		translateY = top
	} else if bottomOK {
		translateY = -bottom
	}
	b.RelativeOffset = bo.Point{X: clampFinite(translateX), Y: clampFinite(translateY)}
}

// layoutChildIfNeeded lays out [child] if it is dirty, or unconditionally
// when [force] is true. It returns true if a layout happened.
func (c *Context) layoutChildIfNeeded(child bo.BoxIndex, force bool) bool {
	b := c.box(child)
	if !force && !c.tree.SelfNeedsLayout(child) {
		return false
	}
	switch {
	case b.IsBlockFlow():
		c.layoutBlock(child, force)
	case b.IsReplaced():
		c.layoutReplaced(child)
	default:
		b.NeedsLayout, b.ChildNeedsLayout = false, false
	}
	return true
}

// layoutReplaced lays out the replaced box [i], which has no children.
func (c *Context) layoutReplaced(i bo.BoxIndex) {
	b := c.box(i)
	if b.IsOutOfFlowPositioned() {
		c.layoutAbsoluteReplaced(i)
	} else {
		c.updateLogicalWidth(i)
		c.initMaxMarginValues(i)
	}
	b.PaginationStrut = 0
	c.relativePositioning(i)

	rect := bo.Rect{Width: b.LogicalWidth, Height: b.LogicalHeight}
	b.LayoutOverflow, b.VisualOverflow = rect, rect
	b.NeedsLayout, b.ChildNeedsLayout = false, false
	b.EverHadLayout = true
}
