package layout

import (
	"fmt"
	"testing"

	pr "github.com/ariya/phantomjs-sub051/css/properties"
	tu "github.com/ariya/phantomjs-sub051/utils/testutils"
)

func printOptions(pageHeight pr.Float) Options {
	opts := DefaultOptions()
	opts.PageHeight = pageHeight
	return opts
}

func TestPagesUnsplittableChild(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tree, l := renderWith(t, `<div style="height:50px"></div><img id="i" style="display:block" width=80 height=80>`, printOptions(100))
	assertRect(t, l, tree, "i", rect(0, 100, 80, 80))
	tu.AssertEqual(t, l.SpaceShortages(), []SpaceShortage{
		{Container: byID(t, tree, "body"), Box: byID(t, tree, "i"), Offset: 50, Amount: 30},
	})
	// the root is not stretched to the viewport when printing
	tu.AssertEqual(t, l.Pages(), []Page{{0, 100}, {100, 100}})
	tu.AssertEqual(t, l.AbsoluteRect(tree.Root()).Height, pr.Float(180))
}

func TestPagesOversizedChild(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tree, l := renderWith(t, `<div style="height:50px"></div><img id="i" style="display:block" width=80 height=150>`, printOptions(100))
	// taller than a page: left in place
	assertRect(t, l, tree, "i", rect(0, 50, 80, 150))
	tu.AssertEqual(t, l.SpaceShortages(), []SpaceShortage{
		{Container: byID(t, tree, "body"), Box: byID(t, tree, "i"), Offset: 50, Amount: 50, Oversized: true},
	})
	tu.AssertEqual(t, len(l.Pages()), 2)
}

func TestPagesForcedBreak(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tree, l := renderWith(t, `<div id="a" style="height:10px"></div><div id="b" style="height:10px;break-before:page"></div>`, printOptions(100))
	assertRect(t, l, tree, "b", rect(0, 100, 800, 10))
	tu.AssertEqual(t, len(l.Pages()), 2)

	// column breaks are ignored outside of columns
	tree, l = renderWith(t, `<div id="a" style="height:10px"></div><div id="b" style="height:10px;break-before:column"></div>`, printOptions(100))
	assertRect(t, l, tree, "b", rect(0, 10, 800, 10))
}

func TestPagesMoveBlockWithFirstLine(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tree, l := renderWith(t, `<div style="height:90px"></div><div id="t">aaaa</div>`, printOptions(100))
	assertRect(t, l, tree, "t", rect(0, 100, 800, 20))
	tu.AssertEqual(t, tree.Box(byID(t, tree, "t")).Lines[0].LogicalTop, pr.Float(0))
}

func TestPagesWidows(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	document := `<div style="height:30px"></div><div id="t" style="width:40px;widows:%s">aaaa bbbb cccc dddd eeee</div>`
	linesTop := func(widows string) []pr.Float {
		tree, _ := renderWith(t, fmt.Sprintf(document, widows), printOptions(100))
		var out []pr.Float
		for _, line := range tree.Box(byID(t, tree, "t")).Lines {
			out = append(out, line.LogicalTop)
		}
		return out
	}

	// the fourth line straddles the first page
	tu.AssertEqual(t, linesTop("2"), []pr.Float{0, 20, 40, 70, 90})
	// three lines must follow the break: the third line moves too
	tu.AssertEqual(t, linesTop("3"), []pr.Float{0, 20, 70, 90, 110})
	// not enough lines would be left before the break
	tu.AssertEqual(t, linesTop("4"), []pr.Float{0, 20, 40, 70, 90})
}

func TestPagesDisabledInColumns(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	// printed documents lay multi-column containers out in one column
	tree, l := renderWith(t, `<div id="m" style="column-count:2"><div style="height:10px"></div></div>`, printOptions(100))
	if l.ColumnInfo(byID(t, tree, "m")) != nil {
		t.Fatal("unexpected columns")
	}
	assertRect(t, l, tree, "m", rect(0, 0, 800, 10))
}
