package layout

import (
	"testing"

	pr "github.com/ariya/phantomjs-sub051/css/properties"
	bo "github.com/ariya/phantomjs-sub051/html/boxes"
	tu "github.com/ariya/phantomjs-sub051/utils/testutils"
)

func TestInlineLineBreaking(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tree, l := render(t, `<div id="d" style="width:40px">aaaa bbbb cccc</div>`)
	d := byID(t, tree, "d")
	lines := tree.Box(d).Lines
	tu.AssertEqual(t, len(lines), 3)
	for k, line := range lines {
		tu.AssertEqual(t, line.LogicalTop, pr.Float(20*k))
		tu.AssertEqual(t, line.LogicalHeight, pr.Float(20))
		tu.AssertEqual(t, line.Baseline, pr.Float(13))
		// the trailing space hangs
		tu.AssertEqual(t, line.LogicalWidth, pr.Float(20))
		tu.AssertEqual(t, len(line.Items), 1)
		tu.AssertEqual(t, line.Items[0].Start, 5*k)
	}
	assertRect(t, l, tree, "d", rect(0, 0, 40, 60))
	tu.AssertEqual(t, l.FirstLineBaseline(d), pr.Float(13))
	tu.AssertEqual(t, l.LastLineBaseline(d), pr.Float(53))
}

func TestInlineItems(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tree, l := render(t, `<div id="d">hello world</div>`)
	d := byID(t, tree, "d")
	text := tree.Box(d).FirstChild
	line := tree.Box(d).Lines[0]
	tu.AssertEqual(t, line.Items, []bo.LineItem{
		{Box: text, Start: 0, End: 6, LogicalLeft: 0, LogicalWidth: 30},
		{Box: text, Start: 6, End: 11, LogicalLeft: 30, LogicalWidth: 25},
	})
	tu.AssertEqual(t, l.AbsoluteRect(text), rect(0, 0, 55, 20))
	tu.AssertEqual(t, l.ContentOverflowRect(text), rect(0, 0, 55, 20))
}

func TestInlineForcedBreak(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tree, l := render(t, `<div id="d">aa<br>bb</div>`)
	d := byID(t, tree, "d")
	lines := tree.Box(d).Lines
	tu.AssertEqual(t, len(lines), 2)
	tu.AssertEqual(t, lines[1].LogicalTop, pr.Float(20))
	tu.AssertEqual(t, lines[1].Items[0].Box, tree.Box(d).LastChild)
	assertRect(t, l, tree, "d", rect(0, 0, 800, 40))
}

func TestInlineRightToLeft(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tree, _ := render(t, `<div id="d" style="direction:rtl;width:100px">aaaa bb</div>`)
	line := tree.Box(byID(t, tree, "d")).Lines[0]
	// 25 + 10 pixels aligned on the right, the hanging space included in the first item
	tu.AssertEqual(t, line.LogicalLeft, pr.Float(65))
	tu.AssertEqual(t, line.LogicalWidth, pr.Float(35))
	tu.AssertEqual(t, line.Items[0].LogicalLeft, pr.Float(75))
	tu.AssertEqual(t, line.Items[1].LogicalLeft, pr.Float(65))
}

func TestInlineBlockOnBaseline(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tree, l := render(t, `<div id="d"><span id="ib" style="display:inline-block;width:30px;height:30px"></span>aa</div>`)
	d := byID(t, tree, "d")
	line := tree.Box(d).Lines[0]
	// the empty inline block sits on the baseline with its bottom edge
	tu.AssertEqual(t, line.Baseline, pr.Float(30))
	tu.AssertEqual(t, line.LogicalHeight, pr.Float(37))
	assertRect(t, l, tree, "ib", rect(0, 0, 30, 30))
	tu.AssertEqual(t, line.Items[1].LogicalLeft, pr.Float(30))
	tu.AssertEqual(t, l.FirstLineBaseline(d), pr.Float(30))
	assertRect(t, l, tree, "d", rect(0, 0, 800, 37))
}

func TestInlineWhitespaceOnly(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tree, l := render(t, `<div id="d" style="width:100px"><span> </span></div><div id="n" style="height:10px"></div>`)
	tu.AssertEqual(t, len(tree.Box(byID(t, tree, "d")).Lines), 0)
	assertRect(t, l, tree, "n", rect(0, 0, 800, 10))
	tu.AssertEqual(t, l.FirstLineBaseline(byID(t, tree, "d")), pr.Float(-1))
}

func TestInlineWrapsLongWord(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	// an unbreakable word overflows instead of looping
	tree, l := render(t, `<div id="d" style="width:20px">aaaaaaaa bb</div>`)
	d := byID(t, tree, "d")
	lines := tree.Box(d).Lines
	tu.AssertEqual(t, len(lines), 2)
	tu.AssertEqual(t, lines[0].LogicalWidth, pr.Float(40))
	tu.AssertEqual(t, l.ContentOverflowRect(d).Width, pr.Float(40))
}
