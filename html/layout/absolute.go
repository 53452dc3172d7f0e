package layout

import (
	pr "github.com/ariya/phantomjs-sub051/css/properties"
	bo "github.com/ariya/phantomjs-sub051/html/boxes"
)

// ---------------------- Absolutely positioned boxes management. ----------------
//
// Positioned boxes are registered by their containing block while its
// in-flow content is laid out, together with their static position, and are
// laid out once the size of the containing block is known.
// The offsets are resolved in the padding box of the containing block, and
// the result is stored relative to the parent, as for any other box.

// positionedFrame is the reference of a positioned box.
type positionedFrame struct {
	// size of the padding box of the containing block
	width, height pr.Float
	// position of the border box of the parent in this padding box
	parentOffset bo.Point
	// static position in the padding box, see [Context.adjustPositionedBlock]
	static    bo.Point
	staticLTR bool
	// direction of the containing block
	ltr bool
}

func (c *Context) positionedFrame(i bo.BoxIndex) positionedFrame {
	b := c.box(i)
	cb := c.tree.ContainingBlock(i)
	cbBox := c.box(cb)

	var off bo.Point
	for cur := b.Parent; cur != cb && cur != bo.NoBox; cur = c.box(cur).Parent {
		off.X += c.box(cur).LogicalLeft
		off.Y += c.box(cur).LogicalTop
	}
	off.X -= cbBox.Border.Start
	off.Y -= cbBox.Border.Before

	f := positionedFrame{
		width:        max(0, cbBox.LogicalWidth-cbBox.Border.InlineSum()),
		height:       max(0, cbBox.LogicalHeight-cbBox.Border.BlockSum()),
		parentOffset: off,
		staticLTR:    true,
		ltr:          cbBox.Style.IsLeftToRight(),
	}
	if b.Style.Position == pr.PositionFixed {
		f.width, f.height = c.viewportLogicalWidth(), c.viewportLogicalHeight()
	}
	if b.Parent != bo.NoBox {
		f.staticLTR = c.box(b.Parent).Style.IsLeftToRight()
	}
	st := c.blockData(i).staticPosition
	f.static = bo.Point{X: st.X + off.X, Y: st.Y + off.Y}
	return f
}

var absoluteWidth = handleMinMaxWidth(absoluteWidth_)

// @handleMinMaxWidth
// See https://www.w3.org/TR/CSS2/visudet.html#abs-non-replaced-width
func absoluteWidth_(c *Context, i bo.BoxIndex, width pr.Length, cbWidth pr.Float) {
	b := c.box(i)
	s := &b.Style
	f := c.positionedFrame(i)

	paddingsBorders := b.Border.InlineSum() + b.Padding.InlineSum()
	marginLAuto := s.MarginFor(pr.Start, c.wm, pr.LTR).IsAuto()
	marginRAuto := s.MarginFor(pr.End, c.wm, pr.LTR).IsAuto()
	marginL, marginR := b.Margin.Start, b.Margin.End
	if marginLAuto {
		marginL = 0
	}
	if marginRAuto {
		marginR = 0
	}
	left, leftOK := s.LogicalOffset(pr.Start, c.wm, pr.LTR).Resolve(cbWidth)
	right, rightOK := s.LogicalOffset(pr.End, c.wm, pr.LTR).Resolve(cbWidth)
	w, widthOK := width.Resolve(cbWidth)

	// border box left edge, in the padding box
	var x pr.Float
	staticX := func() pr.Float {
		if f.staticLTR {
			return f.static.X + marginL
		}
		return f.static.X - marginR - w - paddingsBorders
	}
	switch {
	case !leftOK && !rightOK && !widthOK:
		available := cbWidth - (paddingsBorders + marginL + marginR)
		w = c.shrinkToFit(i, available)
		x = staticX()
	case leftOK && rightOK && widthOK:
		widthForMargins := cbWidth - (right + left + w + paddingsBorders)
		switch {
		case marginLAuto && marginRAuto:
			if widthForMargins >= 0 {
				marginL = widthForMargins / 2
				marginR = marginL
			} else if f.ltr {
				marginL, marginR = 0, widthForMargins
			} else {
				marginL, marginR = widthForMargins, 0
			}
		case marginLAuto:
			marginL = widthForMargins - marginR
		case marginRAuto:
			marginR = widthForMargins - marginL
		case f.ltr:
			// over-constrained: 'right' is ignored
			marginR = widthForMargins - marginL
		default:
			marginL = widthForMargins - marginR
		}
		x = left + marginL
	default:
		spacing := paddingsBorders + marginL + marginR
		switch {
		case !leftOK && !widthOK:
			w = c.shrinkToFit(i, cbWidth-spacing-right)
			x = cbWidth - right - marginR - paddingsBorders - w
		case !leftOK && !rightOK:
			x = staticX()
		case !widthOK && !rightOK:
			w = c.shrinkToFit(i, cbWidth-spacing-left)
			x = left + marginL
		case !leftOK:
			x = cbWidth - right - marginR - paddingsBorders - w
		case !widthOK:
			w = cbWidth - right - left - spacing
			x = left + marginL
		default: // !rightOK
			x = left + marginL
		}
	}

	b.Margin.Start, b.Margin.End = marginL, marginR
	b.LogicalWidth = max(0, w) + paddingsBorders
	b.LogicalLeft = x - f.parentOffset.X
}

// absoluteHeight sets the height and the block position of the positioned
// box [i], whose content has been laid out.
// See https://www.w3.org/TR/CSS2/visudet.html#abs-non-replaced-height
func (c *Context) absoluteHeight(i bo.BoxIndex) {
	b := c.box(i)
	s := &b.Style
	f := c.positionedFrame(i)
	cbHeight := f.height

	paddingsBorders := b.Border.BlockSum() + b.Padding.BlockSum()
	marginTAuto := s.MarginFor(pr.Before, c.wm, pr.LTR).IsAuto()
	marginBAuto := s.MarginFor(pr.After, c.wm, pr.LTR).IsAuto()
	marginT, marginB := b.Margin.Before, b.Margin.After
	if marginTAuto {
		marginT = 0
	}
	if marginBAuto {
		marginB = 0
	}
	top, topOK := s.LogicalOffset(pr.Before, c.wm, pr.LTR).Resolve(cbHeight)
	bottom, bottomOK := s.LogicalOffset(pr.After, c.wm, pr.LTR).Resolve(cbHeight)

	h, heightOK := c.specifiedContentLogicalHeight(i)
	switch {
	case heightOK:
	case topOK && bottomOK:
		h = cbHeight - top - bottom - (paddingsBorders + marginT + marginB)
	default:
		h = b.LogicalHeight - paddingsBorders
	}
	h = max(0, c.constrainLogicalHeight(i, h))

	if topOK && bottomOK && heightOK {
		heightForMargins := cbHeight - (top + bottom + h + paddingsBorders)
		switch {
		case marginTAuto && marginBAuto:
			marginT = heightForMargins / 2
			marginB = marginT
		case marginTAuto:
			marginT = heightForMargins - marginB
		default:
			// also the over-constrained case: 'bottom' is ignored
			marginB = heightForMargins - marginT
		}
	}

	var y pr.Float
	switch {
	case !topOK && !bottomOK:
		// keep the static position
		y = f.static.Y + marginT
	case topOK:
		y = top + marginT
	default:
		y = cbHeight - bottom - marginB - paddingsBorders - h
	}

	b.Margin.Before, b.Margin.After = marginT, marginB
	b.LogicalHeight = h + paddingsBorders
	b.LogicalTop = y - f.parentOffset.Y
}

// absoluteReplacedWidth sets the size and the inline position of the
// positioned replaced box [i].
// See https://www.w3.org/TR/CSS21/visudet.html#abs-replaced-width
func (c *Context) absoluteReplacedWidth(i bo.BoxIndex, cbWidth pr.Float) {
	b := c.box(i)
	s := &b.Style
	f := c.positionedFrame(i)

	w, h := c.replacedSize(i, cbWidth)
	b.LogicalWidth = w + b.Border.InlineSum() + b.Padding.InlineSum()
	b.LogicalHeight = h + b.Border.BlockSum() + b.Padding.BlockSum()

	marginLAuto := s.MarginFor(pr.Start, c.wm, pr.LTR).IsAuto()
	marginRAuto := s.MarginFor(pr.End, c.wm, pr.LTR).IsAuto()
	marginL, marginR := b.Margin.Start, b.Margin.End
	if marginLAuto {
		marginL = 0
	}
	if marginRAuto {
		marginR = 0
	}
	left, leftOK := s.LogicalOffset(pr.Start, c.wm, pr.LTR).Resolve(cbWidth)
	right, rightOK := s.LogicalOffset(pr.End, c.wm, pr.LTR).Resolve(cbWidth)

	if !leftOK && !rightOK {
		// static position
		if f.staticLTR {
			left, leftOK = f.static.X, true
		} else {
			right, rightOK = cbWidth-f.static.X, true
		}
	}
	switch {
	case !leftOK || !rightOK:
		remaining := cbWidth - (b.LogicalWidth + marginL + marginR)
		if !leftOK {
			left = remaining - right
		}
	case marginLAuto || marginRAuto:
		remaining := cbWidth - (b.LogicalWidth + left + right)
		switch {
		case marginLAuto && marginRAuto:
			if remaining >= 0 {
				marginL = remaining / 2
				marginR = marginL
			} else if f.ltr {
				marginL, marginR = 0, remaining
			} else {
				marginL, marginR = remaining, 0
			}
		case marginLAuto:
			marginL = remaining - marginR
		default:
			marginR = remaining - marginL
		}
	default:
		// Over-constrained
		if !f.ltr {
			left = cbWidth - (b.LogicalWidth + marginL + marginR + right)
		}
	}

	b.Margin.Start, b.Margin.End = marginL, marginR
	b.LogicalLeft = left + marginL - f.parentOffset.X
}

// absoluteReplacedHeight sets the block position of the positioned
// replaced box [i], whose size is known.
// See https://www.w3.org/TR/CSS21/visudet.html#abs-replaced-height
func (c *Context) absoluteReplacedHeight(i bo.BoxIndex) {
	b := c.box(i)
	s := &b.Style
	f := c.positionedFrame(i)
	cbHeight := f.height

	marginTAuto := s.MarginFor(pr.Before, c.wm, pr.LTR).IsAuto()
	marginBAuto := s.MarginFor(pr.After, c.wm, pr.LTR).IsAuto()
	marginT, marginB := b.Margin.Before, b.Margin.After
	if marginTAuto {
		marginT = 0
	}
	if marginBAuto {
		marginB = 0
	}
	top, topOK := s.LogicalOffset(pr.Before, c.wm, pr.LTR).Resolve(cbHeight)
	bottom, bottomOK := s.LogicalOffset(pr.After, c.wm, pr.LTR).Resolve(cbHeight)

	if !topOK && !bottomOK {
		top, topOK = f.static.Y, true
	}
	switch {
	case !topOK || !bottomOK:
		remaining := cbHeight - (b.LogicalHeight + marginT + marginB)
		if !topOK {
			top = remaining - bottom
		}
	case marginTAuto || marginBAuto:
		remaining := cbHeight - (b.LogicalHeight + top + bottom)
		switch {
		case marginTAuto && marginBAuto:
			marginT = remaining / 2
			marginB = marginT
		case marginTAuto:
			marginT = remaining - marginB
		default:
			marginB = remaining - marginT
		}
	}
	// Over-constrained: 'bottom' is ignored

	b.Margin.Before, b.Margin.After = marginT, marginB
	b.LogicalTop = top + marginT - f.parentOffset.Y
}

// layoutAbsoluteReplaced lays out the positioned replaced box [i].
func (c *Context) layoutAbsoluteReplaced(i bo.BoxIndex) {
	c.updateLogicalWidth(i) // see absoluteReplacedWidth
	c.absoluteReplacedHeight(i)
	c.initMaxMarginValues(i)
}

// layoutPositionedObjects lays out the positioned boxes whose containing
// block is [i]. Their static position and their containing block may have
// changed with the layout of [i], so they are always laid out again.
// Entries which no longer belong to [i] are dropped.
func (c *Context) layoutPositionedObjects(i bo.BoxIndex, relayoutChildren bool) {
	for _, d := range c.positioned.descendants(i) {
		db := c.box(d)
		if !c.tree.IsDescendantOf(d, i) || !db.IsOutOfFlowPositioned() || c.tree.ContainingBlock(d) != i {
			c.positioned.remove(i, d)
			continue
		}
		if db.Style.Display == pr.DisplayNone {
			continue
		}
		if relayoutChildren {
			db.ChildNeedsLayout = true
		}
		c.layoutChildIfNeeded(d, true)
		c.addPositionedOverflow(i, d)

		if debugMode {
			debugLogger.Line("positioned %d in %d at (%g, %g)", d, i, db.LogicalLeft, db.LogicalTop)
		}
	}
}
