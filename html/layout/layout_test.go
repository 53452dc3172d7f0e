package layout

import (
	"fmt"
	"testing"

	pr "github.com/ariya/phantomjs-sub051/css/properties"
	bo "github.com/ariya/phantomjs-sub051/html/boxes"
	tu "github.com/ariya/phantomjs-sub051/utils/testutils"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// With a 10px font and 20px lines, the fixed pitch measurer gives 5px per
// character and a baseline at 13px from the line top.
const testBody = `<body id="body" style="margin:0;font-size:10px;line-height:20px">`

// renderDocument builds and lays out a standard mode document.
func renderDocument(t *testing.T, content string, opts Options) (*bo.Tree, *Context) {
	t.Helper()
	tree, err := bo.BuildHTMLString("<!DOCTYPE html>" + content)
	if err != nil {
		t.Fatal(err)
	}
	c := NewContext(tree, opts)
	c.Layout()
	return tree, c
}

// render lays out [body] (the content of the <body> element) in an 800x600 viewport.
func render(t *testing.T, body string) (*bo.Tree, *Layout) {
	t.Helper()
	return renderWith(t, body, DefaultOptions())
}

func renderWith(t *testing.T, body string, opts Options) (*bo.Tree, *Layout) {
	t.Helper()
	tree, c := renderDocument(t, testBody+body+"</body>", opts)
	return tree, &Layout{c: c}
}

func byID(t *testing.T, tree *bo.Tree, id string) bo.BoxIndex {
	t.Helper()
	i := tree.FindByID(id)
	if i == bo.NoBox {
		t.Fatalf("no box with id %q", id)
	}
	return i
}

func rect(x, y, w, h pr.Float) bo.Rect {
	return bo.Rect{X: x, Y: y, Width: w, Height: h}
}

func assertRect(t *testing.T, l *Layout, tree *bo.Tree, id string, exp bo.Rect) {
	t.Helper()
	if got := l.AbsoluteRect(byID(t, tree, id)); got != exp {
		t.Fatalf("box %s: expected %s, got %s", id, exp, got)
	}
}

func TestLayoutRootFillsViewport(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tree, l := render(t, `<div id="a" style="height:50px"></div>`)
	root := tree.Root()
	tu.AssertEqual(t, l.AbsoluteRect(root), rect(0, 0, 800, 600))
	assertRect(t, l, tree, "body", rect(0, 0, 800, 50))
	assertRect(t, l, tree, "a", rect(0, 0, 800, 50))
	tu.AssertEqual(t, l.Pages(), []Page{{LogicalTop: 0, LogicalHeight: 600}})

	for _, i := range tree.Subtree(root) {
		if !tree.GeometryValid(i) {
			t.Fatalf("box %d still needs layout", i)
		}
	}
}

func TestLayoutQuirksMode(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	// quirky margins are ignored at the top of the body
	tree, err := bo.BuildHTMLString(`<html><body><p id="p">x</p></body></html>`)
	if err != nil {
		t.Fatal(err)
	}
	if !tree.QuirksMode {
		t.Fatal("expected a quirks mode document")
	}
	l := LayoutTree(tree, DefaultOptions())
	tu.AssertEqual(t, l.AbsoluteRect(byID(t, tree, "p")).Y, pr.Float(8))

	tree, err = bo.BuildHTMLString(`<!DOCTYPE html><html><body><p id="p">x</p></body></html>`)
	if err != nil {
		t.Fatal(err)
	}
	l = LayoutTree(tree, DefaultOptions())
	tu.AssertEqual(t, l.AbsoluteRect(byID(t, tree, "p")).Y, pr.Float(16))
}

func TestLayoutBorderBoxRect(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tree, l := render(t, `<div id="p" style="margin-left:10px;padding:5px;border:2px"><div id="c" style="height:10px"></div></div>`)
	p, c := byID(t, tree, "p"), byID(t, tree, "c")
	tu.AssertEqual(t, l.AbsoluteRect(p), rect(10, 0, 790, 24))
	tu.AssertEqual(t, l.BorderBoxRect(c), rect(7, 7, 776, 10))
	g := l.Geometry(c)
	tu.AssertEqual(t, g.BorderBoxRect(), rect(7, 7, 776, 10))
}

func TestLayoutIdempotent(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	const doc = testBody + `<div style="float:left;width:100px;height:45px"></div>` +
		`<div style="margin:10px 0">aaaa bbbb cccc dddd</div>` +
		`<div style="position:relative;top:5px"><div style="position:absolute;right:0;width:20px;height:20px"></div></div>` +
		`<div style="column-count:2;width:200px"><div style="height:60px"></div><div style="height:60px"></div></div>` +
		`</body>`
	tree, c := renderDocument(t, doc, DefaultOptions())

	snapshot := func() []bo.Geometry {
		var out []bo.Geometry
		for _, i := range tree.Subtree(tree.Root()) {
			out = append(out, tree.Box(i).Geometry)
		}
		return out
	}
	first := snapshot()

	// a clean tree is not laid out again
	c.Layout()
	if diff := tu.Diff(first, snapshot()); diff != "" {
		t.Fatalf("clean layout changed the geometry:\n%s", diff)
	}

	// a full relayout gives the same result
	tree.MarkSubtreeNeedsLayout(tree.Root())
	c.Layout()
	if diff := tu.Diff(first, snapshot()); diff != "" {
		t.Fatalf("relayout changed the geometry:\n%s", diff)
	}
}

func TestLayoutIncremental(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	document := func(height int) string {
		return fmt.Sprintf(testBody+`<div id="a" style="height:10px;margin-bottom:10px"></div>`+
			`<div id="b" style="height:%dpx"></div><div id="c">aaaa bbbb</div></body>`, height)
	}
	tree, c := renderDocument(t, document(10), DefaultOptions())

	b := byID(t, tree, "b")
	style := tree.Box(b).Style
	style.Height.Value = 30
	tree.SetStyle(b, style)
	if tree.GeometryValid(byID(t, tree, "c")) {
		t.Fatal("geometry of c should be invalidated")
	}
	c.Layout()

	fresh, _ := renderDocument(t, document(30), DefaultOptions())
	tu.AssertEqual(t, tree.Len(), fresh.Len())
	for _, i := range fresh.Subtree(fresh.Root()) {
		exp, got := fresh.Box(i).BorderBoxRect(), tree.Box(i).BorderBoxRect()
		if exp != got {
			t.Fatalf("box %d: expected %s, got %s", i, exp, got)
		}
	}
	tu.AssertEqual(t, (&Layout{c: c}).AbsoluteRect(byID(t, tree, "c")), rect(0, 50, 800, 20))
}

func TestLayoutRemoveBox(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tree, c := renderDocument(t, testBody+`<div id="f" style="float:left;width:100px;height:40px"></div><div id="t">aaaa</div></body>`, DefaultOptions())
	f, text := byID(t, tree, "f"), byID(t, tree, "t")
	tu.AssertEqual(t, tree.Box(text).Lines[0].Items[0].LogicalLeft, pr.Float(100))

	c.RemoveBox(f)
	c.Layout()
	tu.AssertEqual(t, tree.Box(text).Lines[0].Items[0].LogicalLeft, pr.Float(0))
	for container, reg := range c.floats {
		if reg.Get(f) != nil {
			t.Fatalf("float still registered in %d", container)
		}
	}
	if tree.FindByID("f") != bo.NoBox {
		t.Fatal("removed box still reachable")
	}
}

func TestPhysicalCoordinates(t *testing.T) {
	tree := bo.NewTree(pr.InitialStyle())
	c := NewContext(tree, DefaultOptions())
	c.box(tree.Root()).LogicalHeight = 500

	r := rect(10, 20, 30, 40)
	tu.AssertEqual(t, c.physicalRect(r), r)

	c.wm = pr.VerticalLR
	tu.AssertEqual(t, c.physicalRect(r), rect(20, 10, 40, 30))
	tu.AssertEqual(t, c.logicalPoint(bo.Point{X: 25, Y: 15}), bo.Point{X: 15, Y: 25})

	c.wm = pr.VerticalRL
	tu.AssertEqual(t, c.physicalRect(r), rect(440, 10, 40, 30))
	tu.AssertEqual(t, c.logicalPoint(bo.Point{X: 450, Y: 15}), bo.Point{X: 15, Y: 50})
}
