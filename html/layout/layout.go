// Package layout computes the geometry of a box tree: block flow with
// floats and collapsing margins, inline lines, positioned boxes, multi-column
// containers and printed pages.
//
// The engine works in logical coordinates: the inline axis is called "left"
// and "width", the block axis "top" and "height", relative to the writing
// mode of the root box. Physical coordinates are only used by the query
// methods of [Layout].
//
// A layout pass is single threaded and never suspended. Independent trees
// may be laid out concurrently, each with its own [Context].
package layout

import (
	"os"
	"path/filepath"

	pr "github.com/ariya/phantomjs-sub051/css/properties"
	bo "github.com/ariya/phantomjs-sub051/html/boxes"
	"github.com/ariya/phantomjs-sub051/logger"
	"github.com/ariya/phantomjs-sub051/text"
	"github.com/ariya/phantomjs-sub051/utils"
	"github.com/ariya/phantomjs-sub051/utils/testutils"
	"github.com/ariya/phantomjs-sub051/utils/testutils/tracer"
)

const (
	// if true, print debug information into Stdout
	debugMode = false
	traceMode = false
)

var (
	debugLogger testutils.IndentLogger // used only when debugMode is true
	traceLogger tracer.Tracer          // used only when traceMode is true
)

func init() {
	if traceMode {
		traceLogger = tracer.NewTracer(filepath.Join(os.TempDir(), "trace_go.txt"))
	}
}

// Options configures a [Context].
type Options struct {
	// Size of the initial containing block, in physical pixels.
	ViewportWidth, ViewportHeight pr.Float

	// Quirks enables the legacy margin rules of quirks mode documents.
	// It is also enabled by [bo.Tree.QuirksMode].
	Quirks bool

	// PageHeight, if positive, paginates the root box into printed pages
	// of this (logical) height.
	PageHeight pr.Float

	// MaxColumnRebalances is the number of corrective passes allowed when
	// the balanced column height turns out to be too small.
	MaxColumnRebalances int

	// Measurer provides the text metrics. It defaults to [text.NewFixedPitch].
	Measurer text.Measurer
}

// DefaultOptions returns an 800x600 screen viewport, with no pagination.
func DefaultOptions() Options {
	return Options{
		ViewportWidth:       800,
		ViewportHeight:      600,
		MaxColumnRebalances: 1,
		Measurer:            text.NewFixedPitch(),
	}
}

// blockData is the layout state of a block kept between passes,
// which does not belong to its public geometry.
type blockData struct {
	marginBeforeQuirk, marginAfterQuirk     bool
	discardMarginBefore, discardMarginAfter bool

	// static position of a positioned box, relative to its parent
	staticPosition bo.Point
}

// Context owns every side table of the layout of one tree: float
// registries, column information, tracked descendants, and the
// pagination state of the current pass.
type Context struct {
	tree *bo.Tree
	opts Options
	wm   pr.WritingMode

	floats        map[bo.BoxIndex]*FloatRegistry
	columns       map[bo.BoxIndex]*ColumnInfo
	blocks        map[bo.BoxIndex]*blockData
	positioned    descendantIndex
	percentHeight descendantIndex

	states     []layoutState
	inProgress map[bo.BoxIndex]bool

	// shortages recorded by the printed pagination of the last pass
	pageShortages []SpaceShortage
	pass          int
}

// NewContext prepares the layout of [tree]. The context must be
// used for every subsequent pass on the same tree, since it keeps
// the state needed by incremental layout.
func NewContext(tree *bo.Tree, opts Options) *Context {
	def := DefaultOptions()
	if opts.ViewportWidth <= 0 {
		opts.ViewportWidth = def.ViewportWidth
	}
	if opts.ViewportHeight <= 0 {
		opts.ViewportHeight = def.ViewportHeight
	}
	if opts.MaxColumnRebalances < 0 {
		opts.MaxColumnRebalances = 0
	}
	if opts.PageHeight < 0 {
		opts.PageHeight = 0
	}
	if opts.Measurer == nil {
		opts.Measurer = def.Measurer
	}
	c := &Context{
		tree:          tree,
		opts:          opts,
		floats:        map[bo.BoxIndex]*FloatRegistry{},
		columns:       map[bo.BoxIndex]*ColumnInfo{},
		blocks:        map[bo.BoxIndex]*blockData{},
		positioned:    newDescendantIndex(),
		percentHeight: newDescendantIndex(),
		inProgress:    map[bo.BoxIndex]bool{},
	}
	tree.OnRemove(c.forgetBox)
	return c
}

// LayoutTree is a convenience function laying out [tree] once.
func LayoutTree(tree *bo.Tree, opts Options) *Layout {
	return NewContext(tree, opts).Layout()
}

// Layout runs a layout pass if some box of the tree needs it, and
// returns the query interface on the result.
func (c *Context) Layout() *Layout {
	root := c.tree.Root()
	if c.tree.SelfNeedsLayout(root) {
		c.pass++
		c.wm = c.tree.Box(root).Style.WritingMode
		c.pageShortages = c.pageShortages[:0]
		logger.ProgressLogger.Infof("Layout pass %d (%d boxes, %s)", c.pass, c.tree.Len(), c.wm)
		c.layoutRoot()
		if traceMode {
			traceLogger.DumpTree(c.tree, root, "after layout")
		}
	}
	return &Layout{c: c}
}

// RemoveBox detaches the subtree rooted at [i] from the tree, and drops
// every reference the layout keeps to its boxes.
func (c *Context) RemoveBox(i bo.BoxIndex) {
	c.tree.Remove(i)
}

// forgetBox is called by the tree for each removed box.
func (c *Context) forgetBox(i bo.BoxIndex) {
	c.positioned.removeBox(i)
	c.percentHeight.removeBox(i)
	for container, reg := range c.floats {
		if container == i {
			continue
		}
		if reg.Remove(i) {
			c.markLinesWithFloat(container, i)
			c.tree.MarkNeedsLayout(container)
		}
	}
	delete(c.floats, i)
	delete(c.columns, i)
	delete(c.blocks, i)
}

// Quirks is true when the legacy margin rules apply.
func (c *Context) Quirks() bool { return c.opts.Quirks || c.tree.QuirksMode }

// Floats returns the float registry of the block [i], or nil.
func (c *Context) Floats(i bo.BoxIndex) *FloatRegistry { return c.floats[i] }

// ColumnInfo returns the column information of the multi-column
// container [i], or nil.
func (c *Context) ColumnInfo(i bo.BoxIndex) *ColumnInfo { return c.columns[i] }

func (c *Context) box(i bo.BoxIndex) *bo.Box { return c.tree.Box(i) }

func (c *Context) blockData(i bo.BoxIndex) *blockData {
	bd := c.blocks[i]
	if bd == nil {
		bd = new(blockData)
		c.blocks[i] = bd
	}
	return bd
}

func (c *Context) viewportLogicalWidth() pr.Float {
	if c.wm.IsHorizontal() {
		return c.opts.ViewportWidth
	}
	return c.opts.ViewportHeight
}

func (c *Context) viewportLogicalHeight() pr.Float {
	if c.wm.IsHorizontal() {
		return c.opts.ViewportHeight
	}
	return c.opts.ViewportWidth
}

func (c *Context) layoutRoot() {
	root := c.tree.Root()
	b := c.box(root)
	b.LogicalLeft, b.LogicalTop = 0, 0
	c.states = c.states[:0]
	c.layoutBlock(root, false)
}

// isRootElement is true for the top level element (usually <html>),
// which never collapses its margins with its children.
func (c *Context) isRootElement(i bo.BoxIndex) bool {
	return c.box(i).Parent == c.tree.Root()
}

// isWritingModeRoot is true for a block whose writing mode differs from
// its parent's.
func (c *Context) isWritingModeRoot(i bo.BoxIndex) bool {
	b := c.box(i)
	if b.Parent == bo.NoBox {
		return false
	}
	return b.Style.WritingMode != c.box(b.Parent).Style.WritingMode
}

// containingBlockLogicalWidth returns the content width of the
// containing block of [i], or the viewport width for the root.
func (c *Context) containingBlockLogicalWidth(i bo.BoxIndex) pr.Float {
	cb := c.tree.ContainingBlock(i)
	if cb == bo.NoBox {
		return c.viewportLogicalWidth()
	}
	cbBox := c.box(cb)
	if c.box(i).IsOutOfFlowPositioned() {
		// padding box
		return max(0, cbBox.LogicalWidth-cbBox.Border.InlineSum())
	}
	if col := c.columns[cb]; col != nil {
		return col.desiredColumnWidth
	}
	return cbBox.ContentLogicalWidth()
}

// computeEdges resolves margins, borders and paddings of [b] against the
// containing block width; auto margins are resolved to 0.
func (c *Context) computeEdges(b *bo.Box, cbWidth pr.Float) {
	s := &b.Style
	resolve := func(l pr.Length) pr.Float { return clampFinite(l.ResolveOr(cbWidth, 0)) }
	b.Margin = bo.Edges{
		Before: resolve(s.MarginFor(pr.Before, c.wm, pr.LTR)),
		After:  resolve(s.MarginFor(pr.After, c.wm, pr.LTR)),
		Start:  resolve(s.MarginFor(pr.Start, c.wm, pr.LTR)),
		End:    resolve(s.MarginFor(pr.End, c.wm, pr.LTR)),
	}
	b.Padding = bo.Edges{
		Before: clampNonNegative(resolve(s.PaddingFor(pr.Before, c.wm, pr.LTR))),
		After:  clampNonNegative(resolve(s.PaddingFor(pr.After, c.wm, pr.LTR))),
		Start:  clampNonNegative(resolve(s.PaddingFor(pr.Start, c.wm, pr.LTR))),
		End:    clampNonNegative(resolve(s.PaddingFor(pr.End, c.wm, pr.LTR))),
	}
	b.Border = bo.Edges{
		Before: clampNonNegative(s.BorderFor(pr.Before, c.wm, pr.LTR)),
		After:  clampNonNegative(s.BorderFor(pr.After, c.wm, pr.LTR)),
		Start:  clampNonNegative(s.BorderFor(pr.Start, c.wm, pr.LTR)),
		End:    clampNonNegative(s.BorderFor(pr.End, c.wm, pr.LTR)),
	}
}

func clampNonNegative(v pr.Float) pr.Float {
	if v < 0 || v != v {
		return 0
	}
	return v
}

func clampFinite(v pr.Float) pr.Float {
	if !utils.IsFinite(pr.Fl(v)) {
		return 0
	}
	return v
}
