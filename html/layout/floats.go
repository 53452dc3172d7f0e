package layout

import (
	"fmt"
	"sort"

	pr "github.com/ariya/phantomjs-sub051/css/properties"
	bo "github.com/ariya/phantomjs-sub051/html/boxes"
)

// FloatingObject is the entry of a floating box in the registry of a block.
// The same box may be registered in several blocks: the block laying it out,
// the blocks it intrudes into and the ancestors it overhangs.
type FloatingObject struct {
	Box  bo.BoxIndex
	Side pr.FloatSide
	// Rect is the margin box, in the logical coordinates of the block
	// owning the registry (relative to its border box).
	Rect bo.Rect
	// Placed is false until [Context.positionNewFloats] assigned a position.
	Placed bool
	// PaginationStrut is the offset added to push the float to the next
	// page or column.
	PaginationStrut pr.Float
	// ShouldPaint is true for the (unique) registry responsible for
	// painting and hit testing the float.
	ShouldPaint bool
	// IsDescendant is true when the float is a descendant of the block
	// owning the registry, false for floats intruding from a sibling or
	// the parent.
	IsDescendant bool
	// OriginatingLine is the index of the line being built when the float
	// was met in inline content, or -1.
	OriginatingLine int

	order int
}

func (f *FloatingObject) String() string {
	return fmt.Sprintf("float %d (%s) %s placed: %v", f.Box, f.Side, f.Rect, f.Placed)
}

func (f *FloatingObject) logicalTop() pr.Float    { return f.Rect.Y }
func (f *FloatingObject) logicalBottom() pr.Float { return f.Rect.MaxY() }
func (f *FloatingObject) logicalLeft() pr.Float   { return f.Rect.X }
func (f *FloatingObject) logicalRight() pr.Float  { return f.Rect.MaxX() }

// intervalIndex stores the placed floats of one side, sorted by top edge.
// maxBottom[k] is the lowest bottom edge among entries[:k+1], which bounds
// the backward scan of a query.
type intervalIndex struct {
	entries   []*FloatingObject
	maxBottom []pr.Float
}

func (ix *intervalIndex) less(a, b *FloatingObject) bool {
	if a.logicalTop() != b.logicalTop() {
		return a.logicalTop() < b.logicalTop()
	}
	return a.order < b.order
}

func (ix *intervalIndex) updateFrom(k int) {
	ix.maxBottom = ix.maxBottom[:len(ix.entries)]
	for ; k < len(ix.entries); k++ {
		b := ix.entries[k].logicalBottom()
		if k > 0 {
			b = max(b, ix.maxBottom[k-1])
		}
		ix.maxBottom[k] = b
	}
}

func (ix *intervalIndex) insert(f *FloatingObject) {
	k := sort.Search(len(ix.entries), func(i int) bool { return ix.less(f, ix.entries[i]) })
	ix.entries = append(ix.entries, nil)
	copy(ix.entries[k+1:], ix.entries[k:])
	ix.entries[k] = f
	ix.maxBottom = append(ix.maxBottom, 0)
	ix.updateFrom(k)
}

func (ix *intervalIndex) remove(f *FloatingObject) {
	for k, e := range ix.entries {
		if e == f {
			ix.entries = append(ix.entries[:k], ix.entries[k+1:]...)
			ix.updateFrom(k)
			return
		}
	}
}

// query calls [visit] for every entry intersecting the band [top, bottom),
// or containing [top] when bottom <= top.
func (ix *intervalIndex) query(top, bottom pr.Float, visit func(*FloatingObject)) {
	point := bottom <= top
	var end int
	if point {
		end = sort.Search(len(ix.entries), func(i int) bool { return ix.entries[i].logicalTop() > top })
	} else {
		end = sort.Search(len(ix.entries), func(i int) bool { return ix.entries[i].logicalTop() >= bottom })
	}
	for k := end - 1; k >= 0 && ix.maxBottom[k] > top; k-- {
		f := ix.entries[k]
		if f.logicalBottom() > top {
			visit(f)
		}
	}
}

// FloatRegistry stores the floats affecting the content of a block,
// in insertion order. Placed floats are also indexed by side for
// band queries.
type FloatRegistry struct {
	objects     []*FloatingObject
	byBox       map[bo.BoxIndex]*FloatingObject
	left, right intervalIndex
	nextOrder   int
}

func NewFloatRegistry() *FloatRegistry {
	return &FloatRegistry{byBox: map[bo.BoxIndex]*FloatingObject{}}
}

func (r *FloatRegistry) Len() int { return len(r.objects) }

// Floats returns the registered floats, in insertion order.
func (r *FloatRegistry) Floats() []*FloatingObject { return r.objects }

// Get returns the entry for the floating box [box], or nil.
func (r *FloatRegistry) Get(box bo.BoxIndex) *FloatingObject { return r.byBox[box] }

func (r *FloatRegistry) index(side pr.FloatSide) *intervalIndex {
	if side == pr.FloatRight {
		return &r.right
	}
	return &r.left
}

func (r *FloatRegistry) add(f *FloatingObject) {
	assert(r.byBox[f.Box] == nil, "float %d registered twice", f.Box)
	f.order = r.nextOrder
	r.nextOrder++
	r.objects = append(r.objects, f)
	r.byBox[f.Box] = f
	if f.Placed {
		r.index(f.Side).insert(f)
	}
}

// setPlaced marks [f] as placed, once its Rect is final.
func (r *FloatRegistry) setPlaced(f *FloatingObject) {
	assert(!f.Placed, "float %d placed twice", f.Box)
	f.Placed = true
	r.index(f.Side).insert(f)
}

// Remove unregisters the floating box [box], returning false if it
// was not registered.
func (r *FloatRegistry) Remove(box bo.BoxIndex) bool {
	f := r.byBox[box]
	if f == nil {
		return false
	}
	delete(r.byBox, box)
	for k, o := range r.objects {
		if o == f {
			r.objects = append(r.objects[:k], r.objects[k+1:]...)
			break
		}
	}
	if f.Placed {
		r.index(f.Side).remove(f)
	}
	return true
}

// RemoveBelow removes the trailing floats registered after [last] which
// are not placed or placed at or below [offset].
func (r *FloatRegistry) RemoveBelow(last *FloatingObject, offset pr.Float) {
	for len(r.objects) != 0 {
		f := r.objects[len(r.objects)-1]
		if f == last || (f.Placed && f.logicalTop() < offset) {
			return
		}
		r.Remove(f.Box)
	}
}

func (r *FloatRegistry) clear() {
	r.objects = r.objects[:0]
	r.byBox = map[bo.BoxIndex]*FloatingObject{}
	r.left, r.right = intervalIndex{}, intervalIndex{}
}

// OffsetFromSide returns the offset from the [side] of the block which is
// free of floats in the band [top, bottom): the largest right edge of the
// intersecting left floats, or the smallest left edge of the right floats,
// starting from [fixedOffset]. A band with bottom <= top is a point query.
//
// heightRemaining is the distance between [top] and the bottom of the float
// defining the offset, or +Inf if no float is involved.
func (r *FloatRegistry) OffsetFromSide(side pr.FloatSide, fixedOffset, top, bottom pr.Float) (offset, heightRemaining pr.Float) {
	offset, heightRemaining = fixedOffset, pr.Inf
	bestOrder := -1
	r.index(side).query(top, bottom, func(f *FloatingObject) {
		var edge pr.Float
		var better bool
		if side == pr.FloatRight {
			edge = f.logicalLeft()
			better = edge < offset || (bestOrder != -1 && edge == offset && f.order > bestOrder)
		} else {
			edge = f.logicalRight()
			better = edge > offset || (bestOrder != -1 && edge == offset && f.order > bestOrder)
		}
		if better {
			offset, bestOrder = edge, f.order
			heightRemaining = f.logicalBottom() - top
		}
	})
	return offset, heightRemaining
}

// LowestFloatBottom returns the lowest bottom edge of the placed floats of
// [side], or of both sides for [pr.FloatNone]; 0 if there is none.
func (r *FloatRegistry) LowestFloatBottom(side pr.FloatSide) pr.Float {
	var out pr.Float
	if side != pr.FloatRight {
		if n := len(r.left.maxBottom); n != 0 {
			out = max(out, r.left.maxBottom[n-1])
		}
	}
	if side != pr.FloatLeft {
		if n := len(r.right.maxBottom); n != 0 {
			out = max(out, r.right.maxBottom[n-1])
		}
	}
	return out
}

// NextFloatBottomBelow returns the smallest float bottom edge strictly
// below [y], or false if there is none.
func (r *FloatRegistry) NextFloatBottomBelow(y pr.Float) (pr.Float, bool) {
	bottom, found := pr.Inf, false
	for _, f := range r.objects {
		if fb := f.logicalBottom(); f.Placed && fb > y && fb < bottom {
			bottom, found = fb, true
		}
	}
	return bottom, found
}

// HasFloats is true if the registry is not empty.
func (r *FloatRegistry) HasFloats() bool { return r != nil && len(r.objects) != 0 }

func (c *Context) floatRegistry(i bo.BoxIndex) *FloatRegistry {
	reg := c.floats[i]
	if reg == nil {
		reg = NewFloatRegistry()
		c.floats[i] = reg
	}
	return reg
}

func (c *Context) containsFloats(i bo.BoxIndex) bool { return c.floats[i].HasFloats() }

func (c *Context) lowestFloatBottom(i bo.BoxIndex, side pr.FloatSide) pr.Float {
	if reg := c.floats[i]; reg != nil {
		return reg.LowestFloatBottom(side)
	}
	return 0
}

// logicalLeftOffsetForContent and logicalRightOffsetForContent bound the
// content of [i], ignoring floats.
func (c *Context) logicalLeftOffsetForContent(i bo.BoxIndex) pr.Float {
	b := c.box(i)
	return b.Border.Start + b.Padding.Start
}

func (c *Context) logicalRightOffsetForContent(i bo.BoxIndex) pr.Float {
	return c.logicalLeftOffsetForContent(i) + c.availableLogicalWidth(i)
}

// availableLogicalWidth is the content width of [i], or its column
// width for multi-column containers.
func (c *Context) availableLogicalWidth(i bo.BoxIndex) pr.Float {
	if col := c.columns[i]; col != nil {
		return col.desiredColumnWidth
	}
	return c.box(i).ContentLogicalWidth()
}

// logicalLeftOffsetForLine returns the left edge of the space left free by
// the left floats of [i] at [top] (point query) or in [top, top+height).
func (c *Context) logicalLeftOffsetForLine(i bo.BoxIndex, top, height pr.Float) (pr.Float, pr.Float) {
	fixed := c.logicalLeftOffsetForContent(i)
	reg := c.floats[i]
	if reg == nil {
		return fixed, pr.Inf
	}
	return reg.OffsetFromSide(pr.FloatLeft, fixed, top, top+height)
}

func (c *Context) logicalRightOffsetForLine(i bo.BoxIndex, top, height pr.Float) (pr.Float, pr.Float) {
	fixed := c.logicalRightOffsetForContent(i)
	reg := c.floats[i]
	if reg == nil {
		return fixed, pr.Inf
	}
	return reg.OffsetFromSide(pr.FloatRight, fixed, top, top+height)
}

func (c *Context) availableLogicalWidthForLine(i bo.BoxIndex, top pr.Float) pr.Float {
	left, _ := c.logicalLeftOffsetForLine(i, top, 0)
	right, _ := c.logicalRightOffsetForLine(i, top, 0)
	return max(0, right-left)
}

// insertFloatingObject registers the floating child [child] in the
// registry of [container], laying it out when its geometry does not depend
// on its position.
func (c *Context) insertFloatingObject(container, child bo.BoxIndex) *FloatingObject {
	reg := c.floatRegistry(container)
	if f := reg.Get(child); f != nil {
		return f
	}

	b := c.box(child)
	affectedByPagination := b.IsBlockFlow() && c.state().pageHeight != 0
	if !affectedByPagination || c.isWritingModeRoot(container) {
		c.layoutChildIfNeeded(child, false)
	} else {
		c.updateLogicalWidth(child)
	}
	b = c.box(child)

	f := &FloatingObject{
		Box:             child,
		Side:            b.Style.Float,
		ShouldPaint:     true,
		IsDescendant:    true,
		OriginatingLine: -1,
	}
	f.Rect.Width = b.LogicalWidth + b.Margin.InlineSum()
	reg.add(f)
	return f
}

// positionNewFloats assigns a position to the floats of [container] which
// are not placed yet, starting at the current (running) height.
// It returns false if there was nothing to do.
func (c *Context) positionNewFloats(container bo.BoxIndex) bool {
	reg := c.floats[container]
	if reg == nil || len(reg.objects) == 0 || reg.objects[len(reg.objects)-1].Placed {
		return false
	}

	// the first float to place follows the last placed one
	start := len(reg.objects) - 1
	var lastPlaced *FloatingObject
	for start > 0 {
		if reg.objects[start-1].Placed {
			lastPlaced = reg.objects[start-1]
			break
		}
		start--
	}

	logicalTop := c.box(container).LogicalHeight
	// a float never starts above the previously placed one
	if lastPlaced != nil {
		logicalTop = max(lastPlaced.logicalTop(), logicalTop)
	}

	// the loop may mutate the registry through nested layouts
	pending := append([]*FloatingObject(nil), reg.objects[start:]...)
	for _, f := range pending {
		if f.Placed {
			continue
		}
		child := f.Box
		childBox := c.box(child)

		rightOffset := c.logicalRightOffsetForContent(container)
		leftOffset := c.logicalLeftOffsetForContent(container)
		floatLogicalWidth := min(f.Rect.Width, rightOffset-leftOffset)

		switch childBox.Style.Clear {
		case pr.ClearLeft:
			logicalTop = max(reg.LowestFloatBottom(pr.FloatLeft), logicalTop)
		case pr.ClearRight:
			logicalTop = max(reg.LowestFloatBottom(pr.FloatRight), logicalTop)
		case pr.ClearBoth:
			logicalTop = max(reg.LowestFloatBottom(pr.FloatNone), logicalTop)
		}

		var floatLogicalLeft pr.Float
		for attempt := 0; ; attempt++ {
			left, heightRemainingLeft := c.logicalLeftOffsetForLine(container, logicalTop, 0)
			right, heightRemainingRight := c.logicalRightOffsetForLine(container, logicalTop, 0)
			if right-left >= floatLogicalWidth || attempt > maxFloatPlacementSteps {
				assert(attempt <= maxFloatPlacementSteps, "float %d: no room found", child)
				if f.Side == pr.FloatRight {
					floatLogicalLeft = right - f.Rect.Width
				} else {
					floatLogicalLeft = max(0, left)
				}
				break
			}
			logicalTop += min(heightRemainingLeft, heightRemainingRight)
		}

		f.Rect.X = floatLogicalLeft
		childBox.LogicalLeft = floatLogicalLeft + childBox.Margin.Start
		childBox.LogicalTop = logicalTop + childBox.Margin.Before

		if c.state().paginated {
			c.layoutChildIfNeeded(child, true)

			// unsplittable floats move down with their margins
			newLogicalTop := c.adjustForUnsplittableChild(child, logicalTop, true)

			childBox = c.box(child)
			if childBox.IsBlockFlow() && childBox.PaginationStrut != 0 {
				newLogicalTop += childBox.PaginationStrut
				childBox.PaginationStrut = 0
			}

			if newLogicalTop != logicalTop {
				f.PaginationStrut = newLogicalTop - logicalTop
				logicalTop = newLogicalTop
				childBox.LogicalTop = logicalTop + childBox.Margin.Before
				c.layoutChildIfNeeded(child, true)
			}
		}

		childBox = c.box(child)
		f.Rect.Y = logicalTop
		f.Rect.Height = childBox.LogicalHeight + childBox.Margin.BlockSum()
		reg.setPlaced(f)
		if debugMode {
			debugLogger.Line("placed %s", f)
		}
	}
	return true
}

// maxFloatPlacementSteps bounds the search of a band wide enough
// for a float; each step skips below at least one float.
const maxFloatPlacementSteps = 10_000

// addOverhangingFloats registers in [container] the floats of its child
// [child] extending below the current height of [container], and returns
// the lowest float bottom of the child, in [container] coordinates.
func (c *Context) addOverhangingFloats(container, child bo.BoxIndex, makeChildPaintOtherFloats bool) pr.Float {
	cb := c.box(child)
	if cb.HasOverflowClip() || !c.containsFloats(child) || child == c.tree.Root() ||
		c.columns[child] != nil || c.isWritingModeRoot(child) {
		return 0
	}

	childLeft, childTop := cb.LogicalLeft, cb.LogicalTop
	height := c.box(container).LogicalHeight
	reg := c.floatRegistry(container)
	var lowest pr.Float
	for _, f := range c.floats[child].objects {
		logicalBottom := childTop + f.logicalBottom()
		lowest = max(lowest, logicalBottom)

		if logicalBottom > height {
			if reg.Get(f.Box) == nil {
				// the outermost overlapping block paints the float
				cp := &FloatingObject{
					Box:             f.Box,
					Side:            f.Side,
					Rect:            f.Rect.Translate(childLeft, childTop),
					Placed:          true,
					ShouldPaint:     true,
					IsDescendant:    true,
					OriginatingLine: -1,
				}
				f.ShouldPaint = false
				reg.add(cp)
			}
		} else {
			if makeChildPaintOtherFloats && !f.ShouldPaint && c.tree.IsDescendantOf(f.Box, child) {
				f.ShouldPaint = true
			}
		}
	}
	return lowest
}

// addIntrudingFloats copies into [i] the floats of [prev] (the parent or
// the previous sibling of [i]) reaching below [topOffset]. The offsets
// map the coordinates of [prev] into those of [i].
func (c *Context) addIntrudingFloats(i, prev bo.BoxIndex, leftOffset, topOffset pr.Float) {
	prevReg := c.floats[prev]
	if !prevReg.HasFloats() {
		return
	}
	reg := c.floatRegistry(i)
	for _, f := range prevReg.objects {
		if !f.Placed || f.logicalBottom() <= topOffset || reg.Get(f.Box) != nil {
			continue
		}
		reg.add(&FloatingObject{
			Box:             f.Box,
			Side:            f.Side,
			Rect:            f.Rect.Translate(-leftOffset, -topOffset),
			Placed:          true,
			ShouldPaint:     false, // only the originating chain paints
			IsDescendant:    false,
			OriginatingLine: -1,
		})
	}
}

// clearFloats rebuilds the registry of [i] at the start of its layout,
// with the floats intruding from its parent and previous sibling.
func (c *Context) clearFloats(i bo.BoxIndex) {
	b := c.box(i)
	if c.avoidsFloats(i) || i == c.tree.Root() || c.isRootElement(i) || b.IsFloatingOrPositioned() || b.IsTableCell() {
		if reg := c.floats[i]; reg != nil {
			reg.clear()
		}
		return
	}
	if reg := c.floats[i]; reg != nil {
		reg.clear()
	}

	parent := b.Parent
	if parent == bo.NoBox || !c.box(parent).IsBlockFlow() {
		return
	}

	// the previous sibling with overhanging floats, skipping out of flow
	// boxes and blocks shifted to avoid floats
	parentHasFloats := false
	prev := b.PrevSibling
	for prev != bo.NoBox {
		pb := c.box(prev)
		if !(pb.IsFloatingOrPositioned() || !pb.IsBlockFlow() || c.avoidsFloats(prev)) {
			break
		}
		if pb.IsFloating() {
			parentHasFloats = true
		}
		prev = pb.PrevSibling
	}

	b = c.box(i)
	childLeft := c.logicalLeftOffsetForContent(parent) + b.Margin.Start
	logicalTopOffset := b.LogicalTop
	if parentHasFloats {
		c.addIntrudingFloats(i, parent, childLeft, logicalTopOffset)
	}

	var logicalLeftOffset pr.Float
	if prev != bo.NoBox {
		pb := c.box(prev)
		logicalTopOffset -= pb.LogicalTop
		logicalLeftOffset = childLeft - pb.LogicalLeft
	} else {
		prev = parent
		logicalLeftOffset = childLeft
	}

	if c.lowestFloatBottom(prev, pr.FloatNone) > logicalTopOffset {
		c.addIntrudingFloats(i, prev, logicalLeftOffset, logicalTopOffset)
	}
}

// markLinesWithFloat flags the lines of [container] which met the
// float [float] while being built.
func (c *Context) markLinesWithFloat(container, float bo.BoxIndex) {
	lines := c.box(container).Lines
	for k := range lines {
		for _, fl := range lines[k].Floats {
			if fl == float {
				lines[k].Dirty = true
			}
		}
	}
}

// getClearDelta returns the offset to add to [top] so that [child]
// clears the floats of [container], as requested by its 'clear' property,
// or so that a block avoiding floats finds enough room next to them.
func (c *Context) getClearDelta(container, child bo.BoxIndex, top pr.Float) pr.Float {
	reg := c.floats[container]
	if !reg.HasFloats() {
		return 0
	}

	var bottom pr.Float
	clear := c.box(child).Style.Clear
	switch clear {
	case pr.ClearLeft:
		bottom = reg.LowestFloatBottom(pr.FloatLeft)
	case pr.ClearRight:
		bottom = reg.LowestFloatBottom(pr.FloatRight)
	case pr.ClearBoth:
		bottom = reg.LowestFloatBottom(pr.FloatNone)
	}
	var result pr.Float
	if clear != pr.ClearNone {
		result = max(0, bottom-top)
	}

	if result == 0 && c.avoidsFloats(child) {
		available := c.availableLogicalWidth(container)
		y := top
		for {
			widthAtY := c.availableLogicalWidthForLine(container, y)
			if widthAtY == available {
				return y - top
			}
			if childWidth := c.minimumLogicalWidth(child); childWidth <= widthAtY {
				return y - top
			}
			next, ok := reg.NextFloatBottomBelow(y)
			if !ok {
				return y - top
			}
			y = next
		}
	}
	return result
}
