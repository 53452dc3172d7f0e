package layout

import (
	pr "github.com/ariya/phantomjs-sub051/css/properties"
	bo "github.com/ariya/phantomjs-sub051/html/boxes"
)

// Resolve height percentages into fixed values.
//
// A percentage height refers to the height of the containing block, which
// is only usable when it does not depend on the content. The containing
// block keeps track of the descendants resolved against its height, so
// that they are laid out again with it.

// percentageHeightBase returns the height percentages of [i] refer to,
// or false if this height is not definite.
func (c *Context) percentageHeightBase(i bo.BoxIndex) (pr.Float, bool) {
	cb := c.tree.ContainingBlock(i)
	if cb == bo.NoBox || cb == c.tree.Root() {
		// the initial containing block
		if c.opts.PageHeight > 0 {
			return c.opts.PageHeight, true
		}
		return c.viewportLogicalHeight(), true
	}

	cbBox := c.box(cb)
	if c.box(i).IsOutOfFlowPositioned() {
		// the padding box, known since positioned boxes are laid out last
		return max(0, cbBox.LogicalHeight-cbBox.Border.BlockSum()), true
	}

	h, ok := c.specifiedContentLogicalHeight(cb)
	if !ok {
		return 0, false
	}
	c.addPercentHeightDescendant(cb, i)
	return max(0, c.constrainLogicalHeight(cb, h)), true
}

// resolveHeightLength resolves a length of the block axis of [i] ('height',
// 'min-height' or 'max-height'). Auto, none and unresolvable percentages
// return false.
func (c *Context) resolveHeightLength(i bo.BoxIndex, l pr.Length) (pr.Float, bool) {
	switch {
	case l.IsFixed():
		return l.Value, true
	case l.IsPercent():
		base, ok := c.percentageHeightBase(i)
		if !ok {
			return 0, false
		}
		return l.Value * base / 100, true
	}
	return 0, false
}

// hasPercentHeight is true if one of the block axis sizes of [i] is a percentage.
func (c *Context) hasPercentHeight(i bo.BoxIndex) bool {
	s := &c.box(i).Style
	return s.LogicalHeight(c.wm).IsPercent() || s.LogicalMinHeight(c.wm).IsPercent() ||
		s.LogicalMaxHeight(c.wm).IsPercent()
}

// addPercentHeightDescendant records that the height of [descendant]
// depends on the height of [container].
func (c *Context) addPercentHeightDescendant(container, descendant bo.BoxIndex) {
	if c.percentHeight.has(container, descendant) {
		return
	}
	c.percentHeight.add(container, descendant)
	if debugMode {
		debugLogger.Line("percent height descendant %d of %d", descendant, container)
	}
}

// removePercentHeightDescendant drops [descendant] from every container
// tracking it.
func (c *Context) removePercentHeightDescendant(descendant bo.BoxIndex) {
	for _, container := range c.percentHeight.containers(descendant) {
		c.percentHeight.remove(container, descendant)
	}
}

// markPercentHeightDescendants marks the percent height descendants of
// [i] (and the boxes between them and [i]) as needing layout, since the
// height they depend on is about to be computed again. Stale entries,
// whose containing block changed, are dropped.
func (c *Context) markPercentHeightDescendants(i bo.BoxIndex) {
	for _, d := range c.percentHeight.descendants(i) {
		if !c.tree.IsDescendantOf(d, i) || c.tree.ContainingBlock(d) != i || !c.hasPercentHeight(d) {
			c.percentHeight.remove(i, d)
			continue
		}
		c.box(d).NeedsLayout = true
		for cur := c.box(d).Parent; cur != i && cur != bo.NoBox; cur = c.box(cur).Parent {
			c.box(cur).ChildNeedsLayout = true
		}
	}
}
