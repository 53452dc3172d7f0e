package boxes

import (
	"testing"

	pr "github.com/ariya/phantomjs-sub051/css/properties"
	tu "github.com/ariya/phantomjs-sub051/utils/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blockStyle() pr.Style {
	s := pr.InitialStyle()
	s.Display = pr.DisplayBlock
	return s
}

// sampleTree returns the tree
//
//	root
//	  a
//	    a1
//	    a2
//	  b
func sampleTree() (t *Tree, a, a1, a2, b BoxIndex) {
	t = NewTree(pr.InitialStyle())
	a = t.AppendBlock(t.Root(), blockStyle())
	a1 = t.AppendBlock(a, blockStyle())
	a2 = t.AppendBlock(a, blockStyle())
	b = t.AppendBlock(t.Root(), blockStyle())
	return
}

func clearDirtyBits(t *Tree) {
	for i := range t.boxes {
		t.boxes[i].NeedsLayout, t.boxes[i].ChildNeedsLayout = false, false
	}
}

func TestTreeStructure(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tree, a, a1, a2, b := sampleTree()
	root := tree.Root()
	tu.AssertEqual(t, tree.Box(root).Kind, ViewKind)
	tu.AssertEqual(t, tree.Len(), 5)
	tu.AssertEqual(t, tree.Children(root), []BoxIndex{a, b})
	tu.AssertEqual(t, tree.Children(a), []BoxIndex{a1, a2})
	tu.AssertEqual(t, tree.Children(a1), []BoxIndex(nil))
	tu.AssertEqual(t, tree.Subtree(root), []BoxIndex{root, a, a1, a2, b})

	assert.Equal(t, a1, tree.Box(a2).PrevSibling)
	assert.Equal(t, NoBox, tree.Box(a2).NextSibling)
	assert.Equal(t, a, tree.Box(a2).Parent)
	assert.Equal(t, NoBox, tree.Box(root).Parent)

	assert.True(t, tree.IsDescendantOf(a1, root))
	assert.True(t, tree.IsDescendantOf(a2, a))
	assert.False(t, tree.IsDescendantOf(a, a1))
	assert.False(t, tree.IsDescendantOf(a, a))
	assert.False(t, tree.IsDescendantOf(b, a))
}

func TestTreeInsertBefore(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tree, a, a1, a2, b := sampleTree()
	first := tree.newBox(BlockKind, blockStyle())
	tree.InsertBefore(a, first, a1)
	middle := tree.newBox(BlockKind, blockStyle())
	tree.InsertBefore(a, middle, a2)
	tu.AssertEqual(t, tree.Children(a), []BoxIndex{first, a1, middle, a2})
	assert.Equal(t, first, tree.Box(a).FirstChild)
	assert.Equal(t, middle, tree.Box(a1).NextSibling)
	assert.Equal(t, middle, tree.Box(a2).PrevSibling)

	last := tree.newBox(BlockKind, blockStyle())
	tree.InsertBefore(tree.Root(), last, NoBox)
	tu.AssertEqual(t, tree.Children(tree.Root()), []BoxIndex{a, b, last})
}

func TestTreePreOrder(t *testing.T) {
	tree, a, a1, a2, b := sampleTree()
	root := tree.Root()

	var walk []BoxIndex
	for cur := root; cur != NoBox; cur = tree.NextInPreOrder(cur, root) {
		walk = append(walk, cur)
	}
	tu.AssertEqual(t, walk, []BoxIndex{root, a, a1, a2, b})

	// the walk stops at the end of the given subtree
	assert.Equal(t, NoBox, tree.NextInPreOrder(a2, a))
	assert.Equal(t, b, tree.NextInPreOrder(a2, root))
}

func TestTreeRemove(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tree, a, a1, a2, b := sampleTree()
	var removed []BoxIndex
	tree.OnRemove(func(i BoxIndex) { removed = append(removed, i) })
	tree.SetContinuation(a1, b)

	tree.Remove(a)
	tu.AssertEqual(t, removed, []BoxIndex{a, a1, a2})
	tu.AssertEqual(t, tree.Children(tree.Root()), []BoxIndex{b})
	assert.Equal(t, NoBox, tree.Box(a).Parent)
	assert.Equal(t, NoBox, tree.Box(b).PrevSibling)
	assert.Equal(t, NoBox, tree.Continuation(a1))
	// indices stay stable
	tu.AssertEqual(t, tree.Len(), 5)
	assert.False(t, tree.GeometryValid(a1))

	// removing twice, or removing the root, does nothing
	tree.Remove(a)
	tree.Remove(tree.Root())
	tu.AssertEqual(t, len(removed), 3)
}

func TestTreeDirtyBits(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tree, a, a1, a2, b := sampleTree()
	root := tree.Root()
	// new boxes need layout
	for _, i := range tree.Subtree(root) {
		assert.True(t, tree.Box(i).NeedsLayout)
		assert.False(t, tree.GeometryValid(i))
	}

	clearDirtyBits(tree)
	for _, i := range tree.Subtree(root) {
		assert.True(t, tree.GeometryValid(i))
	}

	tree.MarkNeedsLayout(a1)
	assert.True(t, tree.Box(a1).NeedsLayout)
	assert.False(t, tree.Box(a).NeedsLayout)
	assert.True(t, tree.Box(a).ChildNeedsLayout)
	assert.True(t, tree.Box(root).ChildNeedsLayout)
	assert.False(t, tree.SelfNeedsLayout(a2))
	assert.False(t, tree.SelfNeedsLayout(b))
	assert.True(t, tree.SelfNeedsLayout(root))
	// an ancestor is dirty: the geometry of its descendants is not final
	assert.False(t, tree.GeometryValid(a2))

	clearDirtyBits(tree)
	tree.MarkSubtreeNeedsLayout(a)
	for _, i := range []BoxIndex{a, a1, a2} {
		assert.True(t, tree.Box(i).NeedsLayout)
	}
	assert.False(t, tree.Box(b).NeedsLayout)
	assert.True(t, tree.Box(root).ChildNeedsLayout)
}

func TestTreeSetStyle(t *testing.T) {
	tree, a, _, _, _ := sampleTree()
	clearDirtyBits(tree)

	logs := tu.CaptureLogs()
	style := blockStyle()
	style.Height = pr.PxL(20)
	tree.SetStyle(a, style)
	logs.AssertNoLogs(t)
	assert.Equal(t, pr.PxL(20), tree.Box(a).Style.Height)
	assert.True(t, tree.Box(a).NeedsLayout)
	assert.True(t, tree.Box(tree.Root()).ChildNeedsLayout)

	// invalid values are clamped, with a warning
	logs = tu.CaptureLogs()
	style.Width = pr.PxL(-5)
	style.Widows = 0
	tree.SetStyle(a, style)
	logs.AssertLogs(t, 1)
	assert.Equal(t, pr.PxL(0), tree.Box(a).Style.Width)
	assert.Equal(t, 1, tree.Box(a).Style.Widows)
}

func TestTreeContinuation(t *testing.T) {
	tree, a, _, _, b := sampleTree()
	assert.Equal(t, NoBox, tree.Continuation(a))
	tree.SetContinuation(a, b)
	assert.Equal(t, b, tree.Continuation(a))
	tree.SetContinuation(a, NoBox)
	assert.Equal(t, NoBox, tree.Continuation(a))
}

func TestContainingBlock(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tree := NewTree(pr.InitialStyle())
	root := tree.Root()
	static := tree.AppendBlock(root, blockStyle())
	relativeStyle := blockStyle()
	relativeStyle.Position = pr.PositionRelative
	relative := tree.AppendBlock(static, relativeStyle)
	inner := tree.AppendBlock(relative, blockStyle())

	absStyle := blockStyle()
	absStyle.Position = pr.PositionAbsolute
	abs := tree.AppendBlock(inner, absStyle)
	absInStatic := tree.AppendBlock(static, absStyle)
	fixedStyle := blockStyle()
	fixedStyle.Position = pr.PositionFixed
	fixed := tree.AppendBlock(inner, fixedStyle)
	text := tree.AppendText(inner, "x")

	for _, test := range []struct {
		box, expected BoxIndex
	}{
		{root, NoBox},
		{static, root},
		{inner, relative},
		{abs, relative},
		{absInStatic, root},
		{fixed, root},
		{text, inner},
	} {
		if got := tree.ContainingBlock(test.box); got != test.expected {
			t.Fatalf("box %d: expected %d, got %d", test.box, test.expected, got)
		}
	}
}

func TestBoxPredicates(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tree := NewTree(pr.InitialStyle())
	root := tree.Root()
	block := tree.AppendBlock(root, blockStyle())
	text := tree.AppendText(block, "x")

	ibStyle := pr.InitialStyle()
	ibStyle.Display = pr.DisplayInlineBlock
	ib := tree.AppendBlock(block, ibStyle)
	img := tree.AppendReplaced(block, pr.InitialStyle(), Image{Width: 10, Height: 20})

	floatStyle := blockStyle()
	floatStyle.Float = pr.FloatLeft
	float := tree.AppendBlock(block, floatStyle)
	clipStyle := blockStyle()
	clipStyle.Overflow = pr.OverflowHidden
	clip := tree.AppendBlock(root, clipStyle)

	assert.True(t, tree.Box(root).IsBlockFlow())
	assert.False(t, tree.Box(root).IsInlineLevel())
	assert.True(t, tree.Box(text).IsInlineLevel())
	assert.True(t, tree.Box(text).IsText())
	assert.False(t, tree.Box(text).IsAtomicInline())
	assert.True(t, tree.Box(ib).IsAtomicInline())
	assert.True(t, tree.Box(img).IsAtomicInline())
	assert.True(t, tree.Box(img).IsReplaced())
	assert.True(t, tree.Box(float).IsFloating())
	assert.False(t, tree.Box(float).IsInlineLevel())
	assert.True(t, tree.Box(float).IsFloatingOrPositioned())
	assert.True(t, tree.Box(clip).HasOverflowClip())
	assert.False(t, tree.Box(block).HasOverflowClip())

	assert.True(t, tree.ChildrenInline(block))
	assert.False(t, tree.ChildrenInline(root))

	// text inherits from its parent
	assert.Equal(t, tree.Box(block).Style.FontSize, tree.Box(text).Style.FontSize)
	assert.True(t, tree.Box(text).Anonymous)

	w, h := tree.Box(img).Content.IntrinsicSize()
	assert.Equal(t, pr.Float(10), w)
	assert.Equal(t, pr.Float(20), h)

	tree.Box(block).Tag = "div"
	assert.Equal(t, "<Block div>", tree.Box(block).String())
	assert.Equal(t, "<Text anonymous>", tree.Box(text).String())
}

func TestSelection(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tree := NewTree(pr.InitialStyle())
	root := tree.Root()
	a := tree.AppendBlock(root, blockStyle())
	ta := tree.AppendText(a, "aa")
	c := tree.AppendBlock(root, blockStyle())
	tc := tree.AppendText(c, "cc")
	b := tree.AppendBlock(root, blockStyle())
	tb := tree.AppendText(b, "bb")

	states := func() []SelectionState {
		var out []SelectionState
		for _, i := range []BoxIndex{root, a, ta, c, tc, b, tb} {
			out = append(out, tree.Box(i).Selection)
		}
		return out
	}

	tree.SetSelection(ta, tb)
	tu.AssertEqual(t, states(), []SelectionState{
		SelectionBoth,
		SelectionStart, SelectionStart,
		SelectionInside, SelectionInside,
		SelectionEnd, SelectionEnd,
	})

	tree.SetSelection(tc, tc)
	tu.AssertEqual(t, states(), []SelectionState{
		SelectionBoth,
		SelectionNone, SelectionNone,
		SelectionBoth, SelectionBoth,
		SelectionNone, SelectionNone,
	})
	assert.Equal(t, "both", tree.Box(tc).Selection.String())

	tree.SetSelection(ta, NoBox)
	for _, s := range states() {
		require.Equal(t, SelectionNone, s)
	}
}

func TestRect(t *testing.T) {
	r := Rect{10, 20, 30, 40}
	assert.Equal(t, "(10, 20, 30, 40)", r.String())
	assert.Equal(t, pr.Float(40), r.MaxX())
	assert.Equal(t, pr.Float(60), r.MaxY())

	assert.True(t, r.Contains(Point{10, 20}))
	assert.True(t, r.Contains(Point{39, 59}))
	assert.False(t, r.Contains(Point{40, 30}))
	assert.False(t, r.Contains(Point{20, 60}))

	assert.True(t, r.ContainsRect(Rect{15, 25, 25, 35}))
	assert.False(t, r.ContainsRect(Rect{15, 25, 26, 35}))

	o := Rect{30, 50, 20, 20}
	assert.True(t, r.Intersects(o))
	assert.Equal(t, Rect{30, 50, 10, 10}, r.Intersect(o))
	assert.Equal(t, Rect{10, 20, 40, 50}, r.Unite(o))
	assert.False(t, r.Intersects(Rect{40, 20, 10, 10}))
	assert.Equal(t, Rect{}, r.Intersect(Rect{40, 20, 10, 10}))

	// empty rectangles are ignored by Unite
	empty := Rect{0, 0, 0, 10}
	assert.True(t, empty.IsEmpty())
	assert.False(t, empty.Intersects(r))
	assert.Equal(t, r, r.Unite(empty))
	assert.Equal(t, r, empty.Unite(r))

	assert.Equal(t, Rect{5, 25, 30, 40}, r.Translate(-5, 5))
}

func TestGeometrySizes(t *testing.T) {
	g := Geometry{
		LogicalLeft: 1, LogicalTop: 2, LogicalWidth: 100, LogicalHeight: 50,
		Margin:  Edges{Before: 5, After: 6, Start: 7, End: 8},
		Border:  Edges{Before: 1, After: 1, Start: 2, End: 2},
		Padding: Edges{Before: 3, After: 4, Start: 5, End: 5},
	}
	assert.Equal(t, Rect{1, 2, 100, 50}, g.BorderBoxRect())
	assert.Equal(t, pr.Float(86), g.ContentLogicalWidth())
	assert.Equal(t, pr.Float(41), g.ContentLogicalHeight())
	assert.Equal(t, pr.Float(4), g.BorderAndPaddingBefore())
	assert.Equal(t, pr.Float(5), g.BorderAndPaddingAfter())
	assert.Equal(t, pr.Float(7), g.BorderAndPaddingStart())
	assert.Equal(t, pr.Float(61), g.MarginBoxHeight())
	assert.Equal(t, pr.Float(115), g.MarginBoxWidth())

	// the content box never has a negative size
	g.LogicalWidth = 5
	assert.Equal(t, pr.Float(0), g.ContentLogicalWidth())

	line := LineBox{LogicalTop: 20, LogicalHeight: 15}
	assert.Equal(t, pr.Float(35), line.LogicalBottom())
}
