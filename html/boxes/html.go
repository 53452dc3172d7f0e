package boxes

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	pr "github.com/ariya/phantomjs-sub051/css/properties"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrNoRoot is returned when the parsed document has no root element.
var ErrNoRoot = errors.New("boxes: document has no root element")

type handlerFunction = func(t *Tree, element *html.Node, parent BoxIndex, style pr.Style) BoxIndex

// htmlHandlers map a tag name to a callback creating the box needed
// for elements which are not plain containers.
var htmlHandlers = map[atom.Atom]handlerFunction{
	atom.Img:      handleImg,
	atom.Progress: handleProgress,
	atom.Input:    handleInput,
	atom.Br:       handleBr,
}

// Elements generating no box.
var skippedElements = map[atom.Atom]bool{
	atom.Head: true, atom.Script: true, atom.Style: true, atom.Title: true,
	atom.Meta: true, atom.Link: true, atom.Template: true, atom.Noscript: true,
}

var blockElements = map[atom.Atom]bool{
	atom.Html: true, atom.Body: true, atom.Div: true, atom.P: true, atom.Section: true,
	atom.Article: true, atom.Header: true, atom.Footer: true, atom.Nav: true, atom.Main: true,
	atom.Aside: true, atom.Blockquote: true, atom.Ul: true, atom.Ol: true, atom.Form: true,
	atom.Pre: true, atom.Address: true, atom.Figure: true, atom.Dl: true, atom.Dt: true,
	atom.Dd: true, atom.Center: true, atom.Hr: true, atom.Table: true, atom.Tbody: true,
	atom.Thead: true, atom.Tfoot: true, atom.Tr: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
}

// font size factor and margin (in em) of headings
var headings = map[atom.Atom][2]pr.Float{
	atom.H1: {2, .67}, atom.H2: {1.5, .83}, atom.H3: {1.17, 1},
	atom.H4: {1, 1.33}, atom.H5: {.83, 1.67}, atom.H6: {.67, 2.33},
}

// BuildHTMLString is a convenience wrapper around [BuildHTML].
func BuildHTMLString(content string) (*Tree, error) {
	return BuildHTML(strings.NewReader(content))
}

// BuildHTML parses an HTML document and returns its box tree, styled
// by a minimal user agent stylesheet, presentational attributes and
// "style" attributes. Documents without doctype are rendered in quirks mode.
func BuildHTML(r io.Reader) (*Tree, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	var root *html.Node
	quirks := true
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.DoctypeNode:
			quirks = c.Data != "html"
		case c.Type == html.ElementNode && c.DataAtom == atom.Html:
			root = c
		}
	}
	if root == nil {
		return nil, ErrNoRoot
	}

	t := NewTree(pr.InitialStyle())
	t.QuirksMode = quirks
	rootStyle := t.Box(t.Root()).Style
	t.buildElement(root, t.Root(), &rootStyle)
	t.wrapInlineRuns(t.Root())
	return t, nil
}

// userAgentStyle returns the style of [element] before its attributes are applied.
func userAgentStyle(element *html.Node, parent *pr.Style) pr.Style {
	style := pr.InheritedFrom(parent)
	tag := element.DataAtom
	if blockElements[tag] {
		style.Display = pr.DisplayBlock
	}
	// the direction is needed to resolve the start side of the padding
	switch attribute(element, "dir") {
	case "rtl":
		style.Direction = pr.RTL
	case "ltr":
		style.Direction = pr.LTR
	}
	em := style.FontSize
	quirkyVertical := func(v pr.Float) {
		style.Margin[pr.Top], style.Margin[pr.Bottom] = pr.PxL(v), pr.PxL(v)
		style.MarginTopQuirk, style.MarginBottomQuirk = true, true
	}
	switch tag {
	case atom.Body:
		style.Margin = [4]pr.Length{pr.PxL(8), pr.PxL(8), pr.PxL(8), pr.PxL(8)}
	case atom.P, atom.Dl:
		quirkyVertical(em)
	case atom.Ul, atom.Ol:
		quirkyVertical(em)
		style.Padding[pr.PhysicalSide(pr.Start, style.WritingMode, style.Direction)] = pr.PxL(40)
	case atom.Li:
		style.Display = pr.DisplayListItem
	case atom.Blockquote:
		quirkyVertical(em)
		style.Margin[pr.Left], style.Margin[pr.Right] = pr.PxL(40), pr.PxL(40)
	case atom.Dd:
		style.Margin[pr.PhysicalSide(pr.Start, style.WritingMode, style.Direction)] = pr.PxL(40)
	case atom.Hr:
		style.Margin = [4]pr.Length{pr.PxL(em / 2), pr.AutoLength, pr.PxL(em / 2), pr.AutoLength}
		style.Border = [4]pr.Float{1, 1, 1, 1}
	case atom.Td, atom.Th:
		style.Display = pr.DisplayTableCell
		style.Padding = [4]pr.Length{pr.PxL(1), pr.PxL(1), pr.PxL(1), pr.PxL(1)}
	}
	if h, ok := headings[tag]; ok {
		style.FontSize = em * h[0]
		quirkyVertical(style.FontSize * h[1])
	}
	return style
}

// applyAttributes applies presentational hints, then the "style" attribute.
func applyAttributes(element *html.Node, style *pr.Style) {
	attrs := map[string]string{}
	for _, a := range element.Attr {
		attrs[a.Key] = a.Val
	}
	if lang, ok := attrs["lang"]; ok {
		style.Lang = lang
	}
	switch element.DataAtom {
	case atom.Body:
		// legacy margin attributes
		if v, ok := pixelAttribute(attrs, "marginwidth", "leftmargin"); ok {
			style.Margin[pr.Left], style.Margin[pr.Right] = pr.PxL(v), pr.PxL(v)
		}
		if v, ok := pixelAttribute(attrs, "marginheight", "topmargin"); ok {
			style.Margin[pr.Top], style.Margin[pr.Bottom] = pr.PxL(v), pr.PxL(v)
		}
	case atom.Img, atom.Progress, atom.Input, atom.Div, atom.Td, atom.Th, atom.Table, atom.Hr:
		if v, ok := lengthAttribute(attrs["width"]); ok {
			style.Width = v
		}
		if v, ok := lengthAttribute(attrs["height"]); ok {
			style.Height = v
		}
	}
	if css, ok := attrs["style"]; ok {
		before := style.Margin
		pr.ParseDeclarations(css, style)
		// an author margin is never quirky
		if style.Margin[pr.Top] != before[pr.Top] {
			style.MarginTopQuirk = false
		}
		if style.Margin[pr.Bottom] != before[pr.Bottom] {
			style.MarginBottomQuirk = false
		}
	}
}

func pixelAttribute(attrs map[string]string, names ...string) (pr.Float, bool) {
	for _, name := range names {
		if v, err := strconv.Atoi(strings.TrimSpace(attrs[name])); err == nil && v >= 0 {
			return pr.Float(v), true
		}
	}
	return 0, false
}

// lengthAttribute parses the "width" and "height" attributes:
// non negative integers, optionally followed by %.
func lengthAttribute(value string) (pr.Length, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return pr.Length{}, false
	}
	isPercent := strings.HasSuffix(value, "%")
	f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSuffix(value, "%"), "px"), 32)
	if err != nil || f < 0 {
		return pr.Length{}, false
	}
	if isPercent {
		return pr.PercL(pr.Float(f)), true
	}
	return pr.PxL(pr.Float(f)), true
}

func (t *Tree) buildElement(element *html.Node, parent BoxIndex, parentStyle *pr.Style) {
	if skippedElements[element.DataAtom] {
		return
	}
	style := userAgentStyle(element, parentStyle)
	applyAttributes(element, &style)
	if style.Display == pr.DisplayNone {
		return
	}

	if handler, ok := htmlHandlers[element.DataAtom]; ok {
		if box := handler(t, element, parent, style); box != NoBox {
			t.boxes[box].Tag = element.Data
			t.boxes[box].ID = attribute(element, "id")
		}
		return
	}

	if style.Display == pr.DisplayInline && !style.IsFloatingOrPositioned() {
		// inline elements are flattened: their content joins the parent,
		// styled by the element.
		t.buildChildren(element, parent, style)
		return
	}

	box := t.AppendBlock(parent, style)
	t.boxes[box].Tag = element.Data
	t.boxes[box].ID = attribute(element, "id")
	t.buildChildren(element, box, t.boxes[box].Style)
	t.wrapInlineRuns(box)
}

// buildChildren takes [style] by value since a pointer into the arena
// would be invalidated by the allocations.
func (t *Tree) buildChildren(element *html.Node, parent BoxIndex, style pr.Style) {
	for c := element.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			t.buildElement(c, parent, &style)
		case html.TextNode:
			t.buildText(c.Data, parent, &style)
		}
	}
}

func (t *Tree) buildText(data string, parent BoxIndex, style *pr.Style) {
	text := strings.Join(strings.Fields(data), " ")
	if text == "" {
		// whitespace only: kept as a separator between inline content
		last := t.boxes[parent].LastChild
		if last == NoBox || !t.boxes[last].IsInlineLevel() {
			return
		}
		text = " "
	} else {
		if isSpace(data[0]) {
			text = " " + text
		}
		if isSpace(data[len(data)-1]) {
			text += " "
		}
	}
	child := t.Append(parent, TextKind, pr.InheritedFrom(style))
	t.boxes[child].Text = []rune(text)
	t.boxes[child].Anonymous = true
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\t' || c == '\r' || c == '\f'
}

func attribute(element *html.Node, key string) string {
	for _, a := range element.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// Handle “<img>“ elements: the attributes give the natural size.
func handleImg(t *Tree, element *html.Node, parent BoxIndex, style pr.Style) BoxIndex {
	var img Image
	img.Src = attribute(element, "src")
	if w, ok := lengthAttribute(attribute(element, "width")); ok && w.IsFixed() {
		img.Width = w.Value
	}
	if h, ok := lengthAttribute(attribute(element, "height")); ok && h.IsFixed() {
		img.Height = h.Value
	}
	return t.AppendReplaced(parent, style, img)
}

// Handle “<progress>“ elements, rendered as a fixed size bar.
func handleProgress(t *Tree, _ *html.Node, parent BoxIndex, style pr.Style) BoxIndex {
	if style.Display == pr.DisplayInline {
		style.Display = pr.DisplayInlineBlock
	}
	return t.AppendReplaced(parent, style, FormControl{Type: "progress", Width: 160, Height: 16})
}

// Handle “<input>“ elements; range inputs are sliders with a thumb.
func handleInput(t *Tree, element *html.Node, parent BoxIndex, style pr.Style) BoxIndex {
	if style.Display == pr.DisplayInline {
		style.Display = pr.DisplayInlineBlock
	}
	var control FormControl
	switch type_ := strings.ToLower(attribute(element, "type")); type_ {
	case "hidden":
		return NoBox
	case "range":
		control = FormControl{Type: type_, Width: 129, Height: 16}
	case "checkbox", "radio":
		control = FormControl{Type: type_, Width: 13, Height: 13}
	default:
		control = FormControl{Type: "text", Width: 150, Height: 18}
	}
	return t.AppendReplaced(parent, style, control)
}

// Handle “<br>“ elements.
func handleBr(t *Tree, _ *html.Node, parent BoxIndex, style pr.Style) BoxIndex {
	style.Display = pr.DisplayInline
	style.Float, style.Position = pr.FloatNone, pr.PositionStatic
	return t.Append(parent, LineBreakKind, style)
}

// wrapInlineRuns wraps the inline-level children of [parent] into anonymous
// blocks when they are mixed with block-level children, so that a block
// container has either only block-level or only inline-level in-flow children.
func (t *Tree) wrapInlineRuns(parent BoxIndex) {
	children := t.Children(parent)
	hasBlock, hasInline := false, false
	for _, c := range children {
		b := &t.boxes[c]
		if b.IsInlineLevel() {
			hasInline = true
		} else if !b.IsFloatingOrPositioned() {
			hasBlock = true
		}
	}
	if !hasBlock || !hasInline {
		return
	}

	var run []BoxIndex
	flush := func(before BoxIndex) {
		inline := false
		for _, c := range run {
			inline = inline || t.boxes[c].IsInlineLevel()
		}
		if inline && !t.isCollapsibleRun(run) {
			anon := t.newBox(BlockKind, anonymousBlockStyle(&t.boxes[parent].Style))
			t.boxes[anon].Anonymous = true
			t.InsertBefore(parent, anon, before)
			for _, c := range run {
				t.moveTo(c, anon)
			}
		} else if inline {
			// whitespace only runs between blocks are dropped
			for _, c := range run {
				if t.boxes[c].IsText() {
					t.unlink(c)
				}
			}
		}
		run = run[:0]
	}
	for _, c := range children {
		b := &t.boxes[c]
		if b.IsInlineLevel() || b.IsFloatingOrPositioned() {
			run = append(run, c)
			continue
		}
		flush(c)
	}
	flush(NoBox)
}

// isCollapsibleRun is true if the only inline content of [run] is whitespace.
func (t *Tree) isCollapsibleRun(run []BoxIndex) bool {
	for _, c := range run {
		b := &t.boxes[c]
		if !b.IsInlineLevel() {
			continue
		}
		if !b.IsText() || strings.TrimSpace(string(b.Text)) != "" {
			return false
		}
	}
	return true
}

func anonymousBlockStyle(parent *pr.Style) pr.Style {
	style := pr.InheritedFrom(parent)
	style.Display = pr.DisplayBlock
	return style
}

// unlink detaches [i] from its parent, without notifying the remove listeners.
func (t *Tree) unlink(i BoxIndex) {
	b := &t.boxes[i]
	parent := b.Parent
	if b.PrevSibling != NoBox {
		t.boxes[b.PrevSibling].NextSibling = b.NextSibling
	} else {
		t.boxes[parent].FirstChild = b.NextSibling
	}
	if b.NextSibling != NoBox {
		t.boxes[b.NextSibling].PrevSibling = b.PrevSibling
	} else {
		t.boxes[parent].LastChild = b.PrevSibling
	}
	b.Parent, b.PrevSibling, b.NextSibling = NoBox, NoBox, NoBox
}

// moveTo appends the attached box [i] to [newParent].
func (t *Tree) moveTo(i, newParent BoxIndex) {
	t.unlink(i)
	t.InsertBefore(newParent, i, NoBox)
}
