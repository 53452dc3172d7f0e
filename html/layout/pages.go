package layout

import (
	"math"

	pr "github.com/ariya/phantomjs-sub051/css/properties"
	bo "github.com/ariya/phantomjs-sub051/html/boxes"
)

// Pagination splits the block axis into bands of equal height: the columns
// of a multi-column container, or the pages of a printed document.
// Content never straddles a band boundary when it can be pushed below it.

// layoutState is pushed for each block being laid out, so that the
// offset of the block from the first band is known.
type layoutState struct {
	box bo.BoxIndex
	// block offset of the border box of [box] in the pagination root
	offset pr.Float
	// block offset, in the pagination root, of the first band
	pageOffset pr.Float
	// height of a band, 0 when unknown (first pass of columns)
	pageHeight pr.Float

	// non nil when paginating the columns of a multi-column container
	columns *ColumnInfo
	// container owning [columns]
	columnsBox bo.BoxIndex

	paginated bool
}

var noState = layoutState{box: bo.NoBox, columnsBox: bo.NoBox}

// state returns the pagination state of the block being laid out.
func (c *Context) state() *layoutState {
	if len(c.states) == 0 {
		return &noState
	}
	return &c.states[len(c.states)-1]
}

// pushState starts the layout of the block [i]. [col] is the column
// information of [i], if any, and [columnHeight] the band height used
// for this pass of its columns.
func (c *Context) pushState(i bo.BoxIndex, col *ColumnInfo, columnHeight pr.Float) {
	b := c.box(i)
	if len(c.states) == 0 {
		ph := c.opts.PageHeight
		c.states = append(c.states, layoutState{
			box:        i,
			pageHeight: ph,
			paginated:  ph > 0,
			columnsBox: bo.NoBox,
		})
		return
	}

	prev := c.states[len(c.states)-1]
	st := prev
	st.box = i
	for cur := i; cur != prev.box && cur != bo.NoBox; cur = c.box(cur).Parent {
		st.offset += c.box(cur).LogicalTop
	}

	switch {
	case col != nil:
		st.columns = col
		st.columnsBox = i
		st.pageHeight = columnHeight
		st.pageOffset = st.offset + b.BorderAndPaddingBefore()
		st.paginated = true
	case c.isUnsplittable(i) || b.IsOutOfFlowPositioned():
		// the content of unsplittable boxes never paginates
		st.columns = nil
		st.columnsBox = bo.NoBox
		st.pageHeight = 0
		st.paginated = false
	}
	c.states = append(c.states, st)
}

func (c *Context) popState() {
	c.states = c.states[:len(c.states)-1]
}

// fmod returns the positive remainder of a / b.
func fmod(a, b pr.Float) pr.Float {
	m := pr.Float(math.Mod(float64(a), float64(b)))
	if m < 0 {
		m += b
	}
	return m
}

// pageLogicalOffset maps [y], in the coordinates of the block being laid
// out, to an offset from the start of the first band.
func (c *Context) pageLogicalOffset(y pr.Float) pr.Float {
	st := c.state()
	return st.offset + y - st.pageOffset
}

// nextPageLogicalTop returns the start of the band following [y],
// or [y] itself if it is exactly at a band boundary.
func (c *Context) nextPageLogicalTop(y pr.Float) pr.Float {
	st := c.state()
	if st.pageHeight <= 0 {
		return y
	}
	ph := st.pageHeight
	return y + fmod(ph-fmod(c.pageLogicalOffset(y), ph), ph)
}

// pageRemainingLogicalHeight returns the space left in the band of [y];
// at a band boundary, the whole band is available.
func (c *Context) pageRemainingLogicalHeight(y pr.Float) pr.Float {
	st := c.state()
	if st.pageHeight <= 0 {
		return pr.Inf
	}
	return st.pageHeight - fmod(c.pageLogicalOffset(y), st.pageHeight)
}

// SpaceShortage records content which did not fit in the remaining
// space of a band.
type SpaceShortage struct {
	// Container is the block whose content was paginated.
	Container bo.BoxIndex
	// Box is the unsplittable child, or the block owning the line.
	Box bo.BoxIndex
	// Offset is the block position where the content would have started,
	// in the coordinates of [Container].
	Offset pr.Float
	// Amount is the missing space: the content height minus the space
	// left in the band (or minus the band height when Oversized).
	Amount pr.Float
	// Oversized is true for content taller than a band, which is not pushed.
	Oversized bool
}

// recordShortage stores [s] in the column information of the current
// state, or in the printed pages list. A previous shortage recorded for
// the same box in the same container is replaced.
func (c *Context) recordShortage(s SpaceShortage) {
	st := c.state()
	list := &c.pageShortages
	if st.columns != nil {
		list = &st.columns.shortages
	}
	for k, other := range *list {
		if other.Box == s.Box && other.Container == s.Container {
			(*list)[k] = s
			return
		}
	}
	*list = append(*list, s)
}

// isUnsplittable is true for boxes moved as a whole to the next band
// instead of being split.
func (c *Context) isUnsplittable(i bo.BoxIndex) bool {
	b := c.box(i)
	return b.IsReplaced() || b.HasOverflowClip() || b.Style.BreakInsideAvoid ||
		b.Style.Display == pr.DisplayInlineBlock || c.isWritingModeRoot(i)
}

// adjustForUnsplittableChild returns the position of [child] pushed to
// the next band if it does not fit in the band of [logicalOffset], and
// records the shortage.
func (c *Context) adjustForUnsplittableChild(child bo.BoxIndex, logicalOffset pr.Float, includeMargins bool) pr.Float {
	return c.unsplittableOffset(child, logicalOffset, includeMargins, true)
}

func (c *Context) unsplittableOffset(child bo.BoxIndex, logicalOffset pr.Float, includeMargins, record bool) pr.Float {
	if !c.isUnsplittable(child) {
		return logicalOffset
	}
	b := c.box(child)
	childLogicalHeight := b.LogicalHeight
	if includeMargins {
		childLogicalHeight += b.Margin.BlockSum()
	}
	st := c.state()
	if st.columns != nil && record {
		st.columns.updateMinimumColumnHeight(childLogicalHeight)
	}
	ph := st.pageHeight
	if ph <= 0 {
		return logicalOffset
	}
	if childLogicalHeight > ph {
		if record {
			c.recordShortage(SpaceShortage{
				Container: st.box, Box: child, Offset: logicalOffset,
				Amount: childLogicalHeight - ph, Oversized: true,
			})
		}
		return logicalOffset
	}
	remaining := c.pageRemainingLogicalHeight(logicalOffset)
	if remaining < childLogicalHeight && remaining < ph {
		if record {
			c.recordShortage(SpaceShortage{
				Container: st.box, Box: child, Offset: logicalOffset,
				Amount: childLogicalHeight - remaining,
			})
		}
		return logicalOffset + remaining
	}
	return logicalOffset
}

// inNormalFlow is false for boxes inside a float or a positioned box
// (unless a multi-column container is closer), for which forced breaks
// are ignored.
func (c *Context) inNormalFlow(child bo.BoxIndex) bool {
	root := c.tree.Root()
	for cur := c.tree.ContainingBlock(child); cur != bo.NoBox && cur != root; cur = c.tree.ContainingBlock(cur) {
		if c.columns[cur] != nil {
			return true
		}
		if c.box(cur).IsFloatingOrPositioned() {
			return false
		}
	}
	return true
}

// forcedBreak returns true if [value] forces a break in the
// current pagination context.
func (c *Context) forcedBreak(value pr.Break) bool {
	st := c.state()
	if st.columns != nil {
		return value == pr.BreakColumn
	}
	return st.pageHeight > 0 && value == pr.BreakPage
}

// applyBeforeBreak moves [child] to the next band when it requests a
// break before itself. Breaks are recorded in the column information only
// when [record] is true.
func (c *Context) applyBeforeBreak(child bo.BoxIndex, logicalOffset pr.Float, record bool) pr.Float {
	if c.forcedBreak(c.box(child).Style.BreakBefore) && c.inNormalFlow(child) {
		if st := c.state(); st.columns != nil && record {
			st.columns.addForcedBreak(c.pageLogicalOffset(logicalOffset))
		}
		return c.nextPageLogicalTop(logicalOffset)
	}
	return logicalOffset
}

// applyAfterBreak moves the following content to the next band when
// [child] requests a break after itself.
func (c *Context) applyAfterBreak(child bo.BoxIndex, logicalOffset pr.Float, mi *marginInfo) pr.Float {
	if c.forcedBreak(c.box(child).Style.BreakAfter) && c.inNormalFlow(child) {
		// margins following a break are truncated
		mi.marginAfterQuirk = true
		if st := c.state(); st.columns != nil {
			st.columns.addForcedBreak(c.pageLogicalOffset(logicalOffset))
		}
		return c.nextPageLogicalTop(logicalOffset)
	}
	return logicalOffset
}

// adjustLinePositionForPagination pushes [line] (whose top already
// includes the previous struts) to the next band if it straddles a
// boundary. It returns the strut added before the line. When the first
// line of a block moves, the whole block moves instead, through its own
// pagination strut, and 0 is returned.
func (c *Context) adjustLinePositionForPagination(container bo.BoxIndex, line *bo.LineBox, isFirstLine bool) pr.Float {
	st := c.state()
	lineHeight := line.LogicalHeight
	if st.columns != nil {
		st.columns.updateMinimumColumnHeight(lineHeight)
	}
	line.PaginationStrut = 0
	ph := st.pageHeight
	if ph <= 0 {
		return 0
	}
	logicalOffset := line.LogicalTop
	if lineHeight > ph {
		c.recordShortage(SpaceShortage{
			Container: container, Box: container, Offset: logicalOffset,
			Amount: lineHeight - ph, Oversized: true,
		})
		return 0
	}
	remaining := c.pageRemainingLogicalHeight(logicalOffset)
	if remaining >= lineHeight {
		return 0
	}
	c.recordShortage(SpaceShortage{
		Container: container, Box: container, Offset: logicalOffset,
		Amount: lineHeight - remaining,
	})
	b := c.box(container)
	totalLogicalHeight := lineHeight + max(0, logicalOffset)
	if isFirstLine && totalLogicalHeight < ph && c.canPropagateStrut(container) {
		b.PaginationStrut = remaining + max(0, logicalOffset)
		return 0
	}
	line.PaginationStrut = remaining
	return remaining
}

// canPropagateStrut is true for blocks which may be moved by their parent
// to honor a pagination strut.
func (c *Context) canPropagateStrut(i bo.BoxIndex) bool {
	b := c.box(i)
	return i != c.tree.Root() && !c.isRootElement(i) && !b.IsOutOfFlowPositioned() && !b.IsTableCell() &&
		c.columns[i] == nil
}

// Page is a printed page band, in the logical coordinates of the root box.
type Page struct {
	LogicalTop, LogicalHeight pr.Float
}

// pages slices the root content into bands of the printed page height.
func (c *Context) pages() []Page {
	ph := c.opts.PageHeight
	root := c.box(c.tree.Root())
	if ph <= 0 {
		return []Page{{LogicalTop: 0, LogicalHeight: root.LogicalHeight}}
	}
	total := max(root.LogicalHeight, root.LayoutOverflow.MaxY())
	count := max(1, int(math.Ceil(float64(total/ph))))
	out := make([]Page, count)
	for k := range out {
		out[k] = Page{LogicalTop: pr.Float(k) * ph, LogicalHeight: ph}
	}
	return out
}
