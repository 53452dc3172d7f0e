package layout

import (
	"testing"

	pr "github.com/ariya/phantomjs-sub051/css/properties"
	bo "github.com/ariya/phantomjs-sub051/html/boxes"
	tu "github.com/ariya/phantomjs-sub051/utils/testutils"
)

func assertPosition(t *testing.T, l *Layout, x, y pr.Float, exp TextPosition) {
	t.Helper()
	if got := l.PositionForPoint(bo.Point{X: x, Y: y}); got != exp {
		t.Fatalf("position at (%g, %g): expected %v, got %v", x, y, exp, got)
	}
}

func TestPositionForPointText(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	// three lines: "aaaa ", "bbbb " and "cccc", 5px per rune
	tree, l := render(t, `<div id="d" style="width:40px">aaaa bbbb cccc</div>`)
	text := tree.Box(byID(t, tree, "d")).FirstChild

	assertPosition(t, l, 12, 25, TextPosition{Box: text, Offset: 7})
	assertPosition(t, l, 3, 5, TextPosition{Box: text, Offset: 1})
	assertPosition(t, l, 0, 45, TextPosition{Box: text, Offset: 10})
	// past the end of the line
	assertPosition(t, l, 500, 5, TextPosition{Box: text, Offset: 5})
	// above the content, the first line is used
	assertPosition(t, l, 3, -10, TextPosition{Box: text, Offset: 1})
	// below the content, the last line is used
	assertPosition(t, l, 12, 500, TextPosition{Box: text, Offset: 12})
}

func TestPositionForPointBlocks(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tree, l := render(t, `<div id="a">aa</div><div id="e" style="height:30px"></div><div id="z" style="height:0"></div>`)
	text := tree.Box(byID(t, tree, "a")).FirstChild
	e := byID(t, tree, "e")

	assertPosition(t, l, 7, 10, TextPosition{Box: text, Offset: 1})
	// a block without lines nor children
	assertPosition(t, l, 7, 30, TextPosition{Box: e})
	// empty blocks are skipped: the last candidate is e
	assertPosition(t, l, 7, 300, TextPosition{Box: e})
}

func TestPositionForPointSkipsFloats(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tree, l := render(t, `<div id="f" style="float:left;width:50px;height:50px"></div><div id="b">bb</div>`)
	text := tree.Box(byID(t, tree, "b")).FirstChild
	// the line of b is shortened by the float
	assertPosition(t, l, 10, 10, TextPosition{Box: text})
	assertPosition(t, l, 58, 10, TextPosition{Box: text, Offset: 2})
}
