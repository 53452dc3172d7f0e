package layout

import (
	pr "github.com/ariya/phantomjs-sub051/css/properties"
	bo "github.com/ariya/phantomjs-sub051/html/boxes"
)

// Baselines are block offsets from the before edge of the border box.
// -1 means that the box has no baseline.

func (c *Context) firstLineBaseline(i bo.BoxIndex) pr.Float {
	b := c.box(i)
	if !b.IsBlockFlow() || c.isWritingModeRoot(i) {
		return -1
	}
	if c.tree.ChildrenInline(i) {
		if len(b.Lines) == 0 {
			return -1
		}
		line := b.Lines[0]
		return line.LogicalTop + line.Baseline
	}
	for child := b.FirstChild; child != bo.NoBox; child = c.box(child).NextSibling {
		if !c.isBaselineCandidate(child) {
			continue
		}
		if r := c.firstLineBaseline(child); r != -1 {
			return c.box(child).LogicalTop + r
		}
	}
	return -1
}

func (c *Context) lastLineBaseline(i bo.BoxIndex) pr.Float {
	b := c.box(i)
	if !b.IsBlockFlow() || c.isWritingModeRoot(i) {
		return -1
	}
	if c.tree.ChildrenInline(i) {
		if len(b.Lines) == 0 {
			return -1
		}
		line := b.Lines[len(b.Lines)-1]
		return line.LogicalTop + line.Baseline
	}
	for child := b.LastChild; child != bo.NoBox; child = c.box(child).PrevSibling {
		if !c.isBaselineCandidate(child) {
			continue
		}
		if r := c.lastLineBaseline(child); r != -1 {
			return c.box(child).LogicalTop + r
		}
	}
	return -1
}

// isBaselineCandidate is true for the in-flow children which may
// provide the baseline of their parent.
func (c *Context) isBaselineCandidate(i bo.BoxIndex) bool {
	b := c.box(i)
	return b.IsBlockFlow() && !b.IsFloatingOrPositioned() && b.Style.Display != pr.DisplayNone
}

// atomicInlineBaseline returns the distance between the top of the
// margin box of the atomic inline [i] and its baseline, that is the
// baseline of its last line, or its bottom margin edge when it has no
// line, is replaced or clips its content.
func (c *Context) atomicInlineBaseline(i bo.BoxIndex) pr.Float {
	b := c.box(i)
	if b.IsReplaced() || b.HasOverflowClip() {
		return b.MarginBoxHeight()
	}
	r := c.lastLineBaseline(i)
	if r == -1 {
		return b.MarginBoxHeight()
	}
	return b.Margin.Before + r
}
