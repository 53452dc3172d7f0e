package layout

import (
	"testing"

	bo "github.com/ariya/phantomjs-sub051/html/boxes"
	tu "github.com/ariya/phantomjs-sub051/utils/testutils"
)

const selectionBody = `<div id="a" style="width:200px">aa</div><div id="b" style="height:20px"></div><div id="c" style="width:200px">cc</div>`

func TestSelectionGapsAcrossBlocks(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tree, l := render(t, selectionBody)
	a, b, c := byID(t, tree, "a"), byID(t, tree, "b"), byID(t, tree, "c")
	textA, textC := tree.Box(a).FirstChild, tree.Box(c).FirstChild
	tree.SetSelection(textA, textC)

	tu.AssertEqual(t, tree.Box(b).Selection, bo.SelectionInside)
	tu.AssertEqual(t, tree.Box(byID(t, tree, "body")).Selection, bo.SelectionBoth)

	// right of the first line, then the whole band down to the last line
	tu.AssertEqual(t, l.SelectionGaps(byID(t, tree, "body")), []bo.Rect{
		rect(10, 0, 790, 20),
		rect(0, 20, 800, 20),
	})
	// clipped to the root of the gaps
	tu.AssertEqual(t, l.SelectionGaps(a), []bo.Rect{rect(10, 0, 190, 20)})
}

func TestSelectionGapsNone(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tree, l := render(t, selectionBody)
	body := byID(t, tree, "body")
	if gaps := l.SelectionGaps(body); gaps != nil {
		t.Fatalf("unexpected gaps %v", gaps)
	}

	// a selection inside a single text fills nothing
	textA := tree.Box(byID(t, tree, "a")).FirstChild
	tree.SetSelection(textA, textA)
	tu.AssertEqual(t, len(l.SelectionGaps(body)), 0)

	tree.ClearSelection()
	if gaps := l.SelectionGaps(body); gaps != nil {
		t.Fatalf("unexpected gaps %v", gaps)
	}
}

func TestSelectionGapsBetweenItems(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tree, l := render(t, `<div id="d" style="width:200px">aa<img id="i" width=10 height=10>bb</div>`)
	d := byID(t, tree, "d")
	children := tree.Children(d)
	tree.SetSelection(children[0], children[2])
	tu.AssertEqual(t, tree.Box(children[1]).Selection, bo.SelectionInside)
	// adjacent selected items leave no hole, and the selection starts and
	// ends on the line
	tu.AssertEqual(t, len(l.SelectionGaps(d)), 0)
}
