package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	pr "github.com/ariya/phantomjs-sub051/css/properties"
	bo "github.com/ariya/phantomjs-sub051/html/boxes"
	"github.com/ariya/phantomjs-sub051/html/layout"
	"github.com/ariya/phantomjs-sub051/logger"
	json "github.com/json-iterator/go"
)

// dumpFile builds and lays out the HTML file at [path].
func dumpFile(path string, cfg Config) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	tree, err := bo.BuildHTML(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	l := layout.LayoutTree(tree, cfg.options())
	logger.ProgressLogger.Infof("laid out %s: %d boxes", path, tree.Len())

	if cfg.Format == formatJSON {
		return dumpJSON(path, tree, l)
	}
	return dumpText(path, tree, l), nil
}

// describe returns the kind of the box, followed by its tag and id.
func describe(b *bo.Box) string {
	name := b.Tag
	if b.Anonymous {
		name = "anonymous"
	}
	if b.ID != "" {
		name += "#" + b.ID
	}
	if name == "" {
		return b.Kind.String()
	}
	return b.Kind.String() + " " + name
}

func dumpText(path string, tree *bo.Tree, l *layout.Layout) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n", path)

	var printer func(i bo.BoxIndex, depth int)
	printer = func(i bo.BoxIndex, depth int) {
		b := tree.Box(i)
		fmt.Fprintf(&buf, "%s%s %s", strings.Repeat("  ", depth), describe(b), l.AbsoluteRect(i))
		if len(b.Lines) != 0 {
			fmt.Fprintf(&buf, " lines=%d", len(b.Lines))
		}
		if b.IsText() {
			fmt.Fprintf(&buf, " %q", string(b.Text))
		}
		buf.WriteByte('\n')
		for _, c := range tree.Children(i) {
			printer(c, depth+1)
		}
	}
	printer(tree.Root(), 0)

	for _, s := range l.SpaceShortages() {
		fmt.Fprintf(&buf, "shortage: %s at %s, missing %s", describe(tree.Box(s.Box)), s.Offset, s.Amount)
		if s.Oversized {
			buf.WriteString(" (oversized)")
		}
		buf.WriteByte('\n')
	}
	fmt.Fprintf(&buf, "pages: %d\n", len(l.Pages()))
	return buf.Bytes()
}

type rectJSON struct {
	X      pr.Float `json:"x"`
	Y      pr.Float `json:"y"`
	Width  pr.Float `json:"width"`
	Height pr.Float `json:"height"`
}

func newRectJSON(r bo.Rect) rectJSON { return rectJSON{r.X, r.Y, r.Width, r.Height} }

type lineJSON struct {
	Top      pr.Float `json:"top"`
	Height   pr.Float `json:"height"`
	Baseline pr.Float `json:"baseline"`
	Items    int      `json:"items"`
}

type boxJSON struct {
	Kind     string     `json:"kind"`
	Tag      string     `json:"tag,omitempty"`
	ID       string     `json:"id,omitempty"`
	Rect     rectJSON   `json:"rect"`
	Overflow *rectJSON  `json:"overflow,omitempty"`
	Text     string     `json:"text,omitempty"`
	Lines    []lineJSON `json:"lines,omitempty"`
	Children []boxJSON  `json:"children,omitempty"`
}

type shortageJSON struct {
	Box       string   `json:"box"`
	Offset    pr.Float `json:"offset"`
	Amount    pr.Float `json:"amount"`
	Oversized bool     `json:"oversized,omitempty"`
}

type pageJSON struct {
	Top    pr.Float `json:"top"`
	Height pr.Float `json:"height"`
}

type documentJSON struct {
	File      string         `json:"file"`
	Quirks    bool           `json:"quirks"`
	Pages     []pageJSON     `json:"pages"`
	Shortages []shortageJSON `json:"shortages,omitempty"`
	Root      boxJSON        `json:"root"`
}

func newBoxJSON(tree *bo.Tree, l *layout.Layout, i bo.BoxIndex) boxJSON {
	b := tree.Box(i)
	rect := l.AbsoluteRect(i)
	out := boxJSON{
		Kind: b.Kind.String(),
		Tag:  b.Tag,
		ID:   b.ID,
		Rect: newRectJSON(rect),
	}
	if overflow := l.ContentOverflowRect(i); overflow != rect {
		r := newRectJSON(overflow)
		out.Overflow = &r
	}
	if b.IsText() {
		out.Text = string(b.Text)
	}
	for _, line := range b.Lines {
		out.Lines = append(out.Lines, lineJSON{line.LogicalTop, line.LogicalHeight, line.Baseline, len(line.Items)})
	}
	for _, c := range tree.Children(i) {
		out.Children = append(out.Children, newBoxJSON(tree, l, c))
	}
	return out
}

func dumpJSON(path string, tree *bo.Tree, l *layout.Layout) ([]byte, error) {
	doc := documentJSON{
		File:   path,
		Quirks: tree.QuirksMode,
		Root:   newBoxJSON(tree, l, tree.Root()),
	}
	for _, p := range l.Pages() {
		doc.Pages = append(doc.Pages, pageJSON{p.LogicalTop, p.LogicalHeight})
	}
	for _, s := range l.SpaceShortages() {
		doc.Shortages = append(doc.Shortages, shortageJSON{describe(tree.Box(s.Box)), s.Offset, s.Amount, s.Oversized})
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding geometry: %w", err)
	}
	return append(out, '\n'), nil
}
