package layout

import (
	"strings"
	"testing"

	pr "github.com/ariya/phantomjs-sub051/css/properties"
	bo "github.com/ariya/phantomjs-sub051/html/boxes"
	tu "github.com/ariya/phantomjs-sub051/utils/testutils"
)

func TestColumnsBalanced(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	body := `<div id="m" style="column-count:3;column-gap:0;width:300px">` +
		strings.Repeat(`<div style="height:100px"></div>`, 9) + `</div>`
	tree, l := render(t, body)
	m := byID(t, tree, "m")

	col := l.ColumnInfo(m)
	if col == nil {
		t.Fatal("missing column information")
	}
	tu.AssertEqual(t, col.DesiredColumnCount(), 3)
	tu.AssertEqual(t, col.DesiredColumnWidth(), pr.Float(100))
	tu.AssertEqual(t, col.ColumnHeight(), pr.Float(300))
	tu.AssertEqual(t, col.ColumnCount(), 3)
	tu.AssertEqual(t, col.ForcedBreaks(), 0)
	tu.AssertEqual(t, col.Progression(), InlineAxis)
	tu.AssertEqual(t, len(col.Shortages()), 0)
	tu.AssertEqual(t, l.AbsoluteRect(m), rect(0, 0, 300, 300))

	children := tree.Children(m)
	// the children are laid out in a single strip, sliced in columns
	tu.AssertEqual(t, l.Geometry(children[4]).LogicalTop, pr.Float(400))
	tu.AssertEqual(t, l.AbsoluteRect(children[3]), rect(100, 0, 100, 100))
	tu.AssertEqual(t, l.AbsoluteRect(children[4]), rect(100, 100, 100, 100))
	tu.AssertEqual(t, l.AbsoluteRect(children[8]), rect(200, 200, 100, 100))

	hit, ok := l.HitTest(bo.Point{X: 150, Y: 50})
	tu.AssertEqual(t, ok, true)
	tu.AssertEqual(t, hit, children[3])
}

func TestColumnsForcedBreak(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tree, l := render(t, `<div id="m" style="column-count:2;column-gap:0;width:200px">`+
		`<div id="c0" style="height:50px"></div>`+
		`<div id="c1" style="height:50px;break-before:column"></div>`+
		`<div id="c2" style="height:50px"></div>`+
		`</div>`)
	col := l.ColumnInfo(byID(t, tree, "m"))
	tu.AssertEqual(t, col.ColumnHeight(), pr.Float(100))
	tu.AssertEqual(t, col.ForcedBreaks(), 1)
	assertRect(t, l, tree, "c0", rect(0, 0, 100, 50))
	assertRect(t, l, tree, "c1", rect(100, 0, 100, 50))
	assertRect(t, l, tree, "c2", rect(100, 50, 100, 50))
}

const columnImages = `<div id="m" style="column-count:2;column-gap:0;width:200px">` +
	`<img id="i0" style="display:block" width=60 height=60>` +
	`<img id="i1" style="display:block" width=60 height=60>` +
	`<img id="i2" style="display:block" width=60 height=60>` +
	`</div>`

func TestColumnsRebalance(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	// the first guess (half of 180px) cuts the images: one more pass
	// stretches the columns by the smallest shortage
	tree, l := render(t, columnImages)
	m := byID(t, tree, "m")
	col := l.ColumnInfo(m)
	tu.AssertEqual(t, col.ColumnHeight(), pr.Float(120))
	tu.AssertEqual(t, col.ColumnCount(), 2)
	tu.AssertEqual(t, len(l.SpaceShortages()), 0)
	assertRect(t, l, tree, "i1", rect(0, 60, 60, 60))
	assertRect(t, l, tree, "i2", rect(100, 0, 60, 60))
	tu.AssertEqual(t, col.MinimumColumnHeight(), pr.Float(60))
}

func TestColumnsShortages(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	opts := DefaultOptions()
	opts.MaxColumnRebalances = 0
	tree, l := renderWith(t, columnImages, opts)
	m := byID(t, tree, "m")
	col := l.ColumnInfo(m)
	tu.AssertEqual(t, col.ColumnHeight(), pr.Float(90))
	// the pushed images overflow into a third column
	tu.AssertEqual(t, col.ColumnCount(), 3)

	i1, i2 := byID(t, tree, "i1"), byID(t, tree, "i2")
	exp := []SpaceShortage{
		{Container: m, Box: i1, Offset: 60, Amount: 30},
		{Container: m, Box: i2, Offset: 150, Amount: 30},
	}
	tu.AssertEqual(t, l.SpaceShortages(), exp)
	tu.AssertEqual(t, col.Shortages(), exp)
	assertRect(t, l, tree, "i1", rect(100, 0, 60, 60))
	assertRect(t, l, tree, "i2", rect(200, 0, 60, 60))
}

func TestColumnsOfText(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tree, l := render(t, `<div id="m" style="column-count:2;column-gap:0;width:40px">aaaa bbbb cccc dddd</div>`)
	m := byID(t, tree, "m")
	col := l.ColumnInfo(m)
	tu.AssertEqual(t, col.DesiredColumnWidth(), pr.Float(20))
	tu.AssertEqual(t, len(tree.Box(m).Lines), 4)
	tu.AssertEqual(t, col.ColumnHeight(), pr.Float(40))
	tu.AssertEqual(t, col.ColumnCount(), 2)
	text := tree.Box(m).FirstChild
	// the four lines fill the two columns
	tu.AssertEqual(t, l.AbsoluteRect(text), rect(0, 0, 40, 40))
	tu.AssertEqual(t, l.AbsoluteRect(m), rect(0, 0, 40, 40))
}
