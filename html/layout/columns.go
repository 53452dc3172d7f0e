package layout

import (
	"math"

	pr "github.com/ariya/phantomjs-sub051/css/properties"
	bo "github.com/ariya/phantomjs-sub051/html/boxes"
)

// Layout for columns.
//
// The children of a multi-column container are laid out in a single
// strip, one column wide, paginated with the column height. The strip is
// then sliced into columns by the query methods: content at strip offset
// y lies in column floor(y / height).

// Progression is the axis along which the columns follow each other.
type Progression uint8

const (
	InlineAxis Progression = iota
	BlockAxis
)

// ColumnInfo stores the column metrics of a multi-column container.
// It persists across layout passes.
type ColumnInfo struct {
	desiredColumnCount int
	desiredColumnWidth pr.Float

	columnHeight pr.Float
	columnCount  int

	forcedBreaks                       int
	forcedBreakOffset                  pr.Float
	maximumDistanceBetweenForcedBreaks pr.Float

	minimumColumnHeight pr.Float

	progression Progression
	// reversed is true when the first column is on the line-right side
	reversed bool

	shortages []SpaceShortage
}

func (col *ColumnInfo) DesiredColumnCount() int { return col.desiredColumnCount }

func (col *ColumnInfo) DesiredColumnWidth() pr.Float { return col.desiredColumnWidth }

// ColumnHeight is the height of the columns used by the last pass.
func (col *ColumnInfo) ColumnHeight() pr.Float { return col.columnHeight }

// ColumnCount is the number of columns actually filled, which may
// exceed the desired count when the content could not be balanced.
func (col *ColumnInfo) ColumnCount() int { return col.columnCount }

func (col *ColumnInfo) ForcedBreaks() int { return col.forcedBreaks }

func (col *ColumnInfo) MinimumColumnHeight() pr.Float { return col.minimumColumnHeight }

func (col *ColumnInfo) Progression() Progression { return col.progression }

func (col *ColumnInfo) Reversed() bool { return col.reversed }

// Shortages returns the space shortages recorded by the last pass.
func (col *ColumnInfo) Shortages() []SpaceShortage { return col.shortages }

func (col *ColumnInfo) setColumnCountAndHeight(count int, height pr.Float) {
	col.columnCount = count
	col.columnHeight = height
}

func (col *ColumnInfo) updateMinimumColumnHeight(height pr.Float) {
	col.minimumColumnHeight = max(col.minimumColumnHeight, height)
}

func (col *ColumnInfo) clearForcedBreaks() {
	col.forcedBreaks = 0
	col.forcedBreakOffset = 0
	col.maximumDistanceBetweenForcedBreaks = 0
}

// addForcedBreak records a forced break at [offsetFromFirstPage]. Breaks
// are only tracked while the column height is unknown, and two breaks at
// the same offset count once.
func (col *ColumnInfo) addForcedBreak(offsetFromFirstPage pr.Float) {
	if col.columnHeight != 0 {
		return
	}
	distanceFromLastBreak := offsetFromFirstPage - col.forcedBreakOffset
	if distanceFromLastBreak <= 0 {
		return
	}
	col.forcedBreaks++
	col.maximumDistanceBetweenForcedBreaks = max(col.maximumDistanceBetweenForcedBreaks, distanceFromLastBreak)
	col.forcedBreakOffset = offsetFromFirstPage
}

// minShortage returns the smallest recorded shortage, or 0.
func (col *ColumnInfo) minShortage() pr.Float {
	var out pr.Float
	for _, s := range col.shortages {
		if s.Amount > 0 && (out == 0 || s.Amount < out) {
			out = s.Amount
		}
	}
	return out
}

// calcColumnWidth computes the desired count and width of the columns of
// [i], creating or destroying its column information.
func (c *Context) calcColumnWidth(i bo.BoxIndex) {
	b := c.box(i)
	s := &b.Style
	availableWidth := b.ContentLogicalWidth()

	// printed documents and boxes without column properties use one column
	if i == c.tree.Root() || c.opts.PageHeight > 0 || !s.SpecifiesColumns() || b.FirstChild == bo.NoBox {
		delete(c.columns, i)
		b.HasColumns = false
		return
	}

	gap := s.UsedColumnGap()
	var (
		width pr.Float
		count int
	)
	if s.HasAutoColumnWidth() && !s.HasAutoColumnCount() {
		count = s.ColumnCount
		width = max(0, availableWidth-pr.Float(count-1)*gap) / pr.Float(count)
	} else {
		colWidth := max(1, s.ColumnWidth.Value)
		fit := int(math.Floor(float64((availableWidth + gap) / (colWidth + gap))))
		if s.HasAutoColumnCount() {
			count = max(1, fit)
		} else { // overconstrained: the smaller count wins
			count = max(1, min(s.ColumnCount, fit))
		}
		width = (availableWidth+gap)/pr.Float(count) - gap
	}

	if count == 1 && s.HasAutoColumnWidth() {
		delete(c.columns, i)
		b.HasColumns = false
		return
	}

	col := c.columns[i]
	if col == nil {
		col = &ColumnInfo{}
		c.columns[i] = col
	}
	col.desiredColumnCount = count
	col.desiredColumnWidth = max(0, width)
	col.progression = InlineAxis
	col.reversed = !s.IsLeftToRight()
	b.HasColumns = true
}

// desiredColumnWidth returns the width available to the children of [i].
func (c *Context) desiredColumnWidth(i bo.BoxIndex) pr.Float {
	if col := c.columns[i]; col != nil {
		return col.desiredColumnWidth
	}
	return c.box(i).ContentLogicalWidth()
}

// columnRetry is the outcome of a column pass: either final, or a
// request to lay the container out again with another column height.
type columnRetry struct {
	retry        bool
	columnHeight pr.Float
}

// layoutColumns decides, after a pass over the children of the
// multi-column container [i], whether the columns must be balanced again.
// [pass] counts the passes already done (0 for the unconstrained one).
func (c *Context) layoutColumns(i bo.BoxIndex, hasSpecifiedColumnHeight bool, columnHeight pr.Float, pass int) columnRetry {
	col := c.columns[i]
	if col == nil {
		return columnRetry{}
	}
	b := c.box(i)
	contentHeight := max(0, b.LogicalHeight-b.BorderAndPaddingBefore()-b.BorderAndPaddingAfter())
	desiredColumnCount := col.desiredColumnCount

	if !hasSpecifiedColumnHeight {
		newHeight := columnHeight
		minColumnCount := col.forcedBreaks + 1
		if minColumnCount >= desiredColumnCount {
			// the forced breaks decide: use the largest distance between them
			if columnHeight == 0 {
				distanceBetweenBreaks := max(col.maximumDistanceBetweenForcedBreaks, contentHeight-col.forcedBreakOffset)
				newHeight = max(col.minimumColumnHeight, distanceBetweenBreaks)
			}
		} else if contentHeight > columnHeight*pr.Float(desiredColumnCount) {
			balanced := pr.Float(math.Ceil(float64(contentHeight / pr.Float(desiredColumnCount))))
			if columnHeight == 0 {
				newHeight = max(col.minimumColumnHeight, balanced)
			} else if pass <= c.opts.MaxColumnRebalances {
				// the pushed content did not fit: grow by at least the
				// smallest shortage
				newHeight = max(col.minimumColumnHeight, balanced, columnHeight+col.minShortage())
			}
		}

		if newHeight != 0 && newHeight != columnHeight {
			if debugMode {
				debugLogger.Line("columns of %d: pass %d, height %g -> %g", i, pass, columnHeight, newHeight)
			}
			return columnRetry{retry: true, columnHeight: newHeight}
		}
	}

	if columnHeight > 0 {
		count := int(math.Ceil(float64(contentHeight / columnHeight)))
		col.setColumnCountAndHeight(count, columnHeight)
	} else {
		col.setColumnCountAndHeight(0, 0)
	}

	if col.columnCount > 0 {
		b.LogicalHeight = b.BorderAndPaddingBefore() + col.columnHeight + b.BorderAndPaddingAfter()
	}
	return columnRetry{}
}

// columnGap returns the used gap of [i].
func (c *Context) columnGap(i bo.BoxIndex) pr.Float { return c.box(i).Style.UsedColumnGap() }

// columnRectAt returns the logical rectangle of the column [index] of [i],
// relative to its border box.
func (c *Context) columnRectAt(i bo.BoxIndex, index int) bo.Rect {
	col := c.columns[i]
	b := c.box(i)
	colLogicalWidth := col.desiredColumnWidth
	colLogicalHeight := col.columnHeight
	colLogicalTop := b.BorderAndPaddingBefore()
	colGap := c.columnGap(i)
	colLogicalLeft := c.logicalLeftOffsetForContent(i) + pr.Float(index)*(colLogicalWidth+colGap)
	if col.reversed {
		colLogicalLeft = c.logicalLeftOffsetForContent(i) + b.ContentLogicalWidth() - colLogicalWidth - pr.Float(index)*(colLogicalWidth+colGap)
	}
	return bo.Rect{X: colLogicalLeft, Y: colLogicalTop, Width: colLogicalWidth, Height: colLogicalHeight}
}

// adjustPointToColumnContents maps [p], in the border box coordinates of
// the multi-column container [i], to the coordinates of the strip of
// its children. Points outside the columns (in the gaps, above or below)
// are clamped to the closest column.
func (c *Context) adjustPointToColumnContents(i bo.BoxIndex, p bo.Point) bo.Point {
	col := c.columns[i]
	if col == nil || col.columnCount == 0 {
		return p
	}
	colGap := c.columnGap(i)
	halfColGap := colGap / 2
	columnPoint := c.columnRectAt(i, 0)
	var logicalOffset pr.Float
	for k := 0; k < col.columnCount; k++ {
		colRect := c.columnRectAt(i, k)
		gapAndColumnRect := bo.Rect{X: colRect.X - halfColGap, Y: colRect.Y, Width: colRect.Width + colGap, Height: colRect.Height}
		if p.X >= gapAndColumnRect.X && p.X < gapAndColumnRect.MaxX() {
			if p.Y < gapAndColumnRect.Y {
				p = bo.Point{X: gapAndColumnRect.X, Y: gapAndColumnRect.Y}
			} else if p.Y >= gapAndColumnRect.MaxY() {
				p = bo.Point{X: gapAndColumnRect.X, Y: gapAndColumnRect.MaxY()}
			}
			return bo.Point{X: p.X + columnPoint.X - colRect.X, Y: p.Y + logicalOffset}
		}
		logicalOffset += colRect.Height
	}
	return p
}

// pointInColumnContents is like adjustPointToColumnContents, but only
// maps points actually inside a column.
func (c *Context) pointInColumnContents(i bo.BoxIndex, p bo.Point) (bo.Point, bool) {
	col := c.columns[i]
	if col == nil {
		return p, true
	}
	logicalLeft := c.logicalLeftOffsetForContent(i)
	for k := col.columnCount - 1; k >= 0; k-- {
		colRect := c.columnRectAt(i, k)
		if colRect.Contains(p) {
			return bo.Point{X: p.X - (colRect.X - logicalLeft), Y: p.Y + pr.Float(k)*col.columnHeight}, true
		}
	}
	return p, false
}

// adjustRectForColumns maps [r], in the strip coordinates of the children
// of [i], to the union of its pieces in each column.
func (c *Context) adjustRectForColumns(i bo.BoxIndex, r bo.Rect) bo.Rect {
	col := c.columns[i]
	if col == nil || col.columnCount == 0 {
		return r
	}
	logicalLeft := c.logicalLeftOffsetForContent(i)
	var result bo.Rect
	var currLogicalOffset pr.Float
	for k := 0; k < col.columnCount; k++ {
		colRect := c.columnRectAt(i, k)
		piece := r.Translate(colRect.X-logicalLeft, currLogicalOffset)
		currLogicalOffset -= colRect.Height
		result = result.Unite(piece.Intersect(colRect))
	}
	return result
}

// offsetForColumns returns the translation applied to the content of
// [i] at strip position [p]: the content lies in the column slicing the
// strip at p.Y.
func (c *Context) offsetForColumns(i bo.BoxIndex, p bo.Point) bo.Point {
	col := c.columns[i]
	if col == nil || col.columnCount == 0 {
		return bo.Point{}
	}
	b := c.box(i)
	logicalLeft := c.logicalLeftOffsetForContent(i)
	top := b.BorderAndPaddingBefore()
	for k := 0; k < col.columnCount; k++ {
		sliceTop := top + pr.Float(k)*col.columnHeight
		last := k == col.columnCount-1
		if (p.Y >= sliceTop && p.Y < sliceTop+col.columnHeight) || (k == 0 && p.Y < sliceTop) || last {
			return bo.Point{X: c.columnRectAt(i, k).X - logicalLeft, Y: -pr.Float(k) * col.columnHeight}
		}
	}
	return bo.Point{}
}
