// Package boxes defines the box tree consumed and annotated by the layout engine.
//
// Boxes live in an arena ([Tree]) and reference each other with stable
// indices: a parent exclusively owns its children, while the parent and
// sibling links carry no ownership.
package boxes

import (
	"fmt"

	pr "github.com/ariya/phantomjs-sub051/css/properties"
	"github.com/ariya/phantomjs-sub051/logger"
)

// BoxIndex addresses a box in its [Tree].
type BoxIndex int

// NoBox is the null index.
const NoBox BoxIndex = -1

// Kind is the type of a box. Behavior specific to a kind is
// dispatched on this tag.
type Kind uint8

const (
	// ViewKind is the root of the tree: the initial containing block.
	ViewKind Kind = iota
	// BlockKind is a block container (possibly inline-level when
	// its display is inline-block, see [Box.IsAtomicInline]).
	BlockKind
	// TextKind is a run of text, always inline-level and a leaf.
	TextKind
	// ReplacedKind is a leaf whose intrinsic size is provided by
	// its [ReplacedContent].
	ReplacedKind
	// LineBreakKind is a forced line break (<br>).
	LineBreakKind
)

var kindNames = [...]string{"View", "Block", "Text", "Replaced", "LineBreak"}

func (k Kind) String() string { return kindNames[k] }

// SelectionState describes how a box relates to the current selection.
type SelectionState uint8

const (
	SelectionNone SelectionState = iota
	// The selection starts inside the box.
	SelectionStart
	// The box is entirely selected.
	SelectionInside
	// The selection ends inside the box.
	SelectionEnd
	// The selection starts and ends inside the box.
	SelectionBoth
)

var selectionNames = [...]string{"none", "start", "inside", "end", "both"}

func (s SelectionState) String() string { return selectionNames[s] }

// Box is a node of the box tree.
type Box struct {
	Kind      Kind
	Tag       string // element name, empty for anonymous boxes
	ID        string // element id, used by tests and tools
	Anonymous bool
	Style     pr.Style

	Text    []rune          // for TextKind
	Content ReplacedContent // for ReplacedKind

	Parent, FirstChild, LastChild BoxIndex
	PrevSibling, NextSibling      BoxIndex

	// NeedsLayout is set when the box itself must be laid out again,
	// ChildNeedsLayout when one of its descendants must.
	NeedsLayout, ChildNeedsLayout bool
	// EverHadLayout is set once the first layout pass completed.
	EverHadLayout bool

	Selection SelectionState

	Geometry
}

func (b *Box) String() string {
	name := b.Tag
	if b.Anonymous {
		name = "anonymous"
	}
	return fmt.Sprintf("<%s %s>", b.Kind, name)
}

func (b *Box) IsText() bool { return b.Kind == TextKind }

func (b *Box) IsReplaced() bool { return b.Kind == ReplacedKind }

// IsBlockFlow is true for boxes laying out their children as a block
// container.
func (b *Box) IsBlockFlow() bool { return b.Kind == ViewKind || b.Kind == BlockKind }

func (b *Box) IsFloating() bool {
	return b.Kind != ViewKind && !b.IsText() && b.Kind != LineBreakKind && b.Style.IsFloating()
}

// IsOutOfFlowPositioned is true for absolutely and fixed positioned boxes.
func (b *Box) IsOutOfFlowPositioned() bool {
	return b.Kind != ViewKind && !b.IsText() && b.Kind != LineBreakKind && b.Style.IsOutOfFlowPositioned()
}

func (b *Box) IsFloatingOrPositioned() bool { return b.IsFloating() || b.IsOutOfFlowPositioned() }

// IsInlineLevel is true for in-flow boxes taking part in an
// inline formatting context.
func (b *Box) IsInlineLevel() bool {
	switch b.Kind {
	case TextKind, LineBreakKind:
		return true
	case ViewKind:
		return false
	}
	if b.IsFloatingOrPositioned() {
		return false
	}
	return b.Style.Display == pr.DisplayInline || b.Style.Display == pr.DisplayInlineBlock
}

// IsAtomicInline is true for inline-level boxes laid out as a whole:
// inline-blocks and inline replaced boxes.
func (b *Box) IsAtomicInline() bool {
	return (b.Kind == BlockKind || b.Kind == ReplacedKind) && b.IsInlineLevel()
}

func (b *Box) IsTableCell() bool {
	return b.Kind == BlockKind && b.Style.Display == pr.DisplayTableCell
}

// HasOverflowClip is true for boxes clipping their content.
func (b *Box) HasOverflowClip() bool {
	return b.IsBlockFlow() && b.Kind != ViewKind && b.Style.HasOverflowClip()
}

// Tree is the arena storing all the boxes of a document.
type Tree struct {
	boxes []Box
	root  BoxIndex

	// continuations maps a box split across a structural boundary to its continuation.
	continuations map[BoxIndex]BoxIndex

	removeListeners []func(BoxIndex)

	// QuirksMode is set for documents rendered in legacy mode.
	QuirksMode bool
}

// NewTree returns a tree with a single root box, styled by [rootStyle].
func NewTree(rootStyle pr.Style) *Tree {
	t := &Tree{continuations: map[BoxIndex]BoxIndex{}}
	rootStyle.Display = pr.DisplayBlock
	rootStyle.Float = pr.FloatNone
	rootStyle.Position = pr.PositionStatic
	t.root = t.newBox(ViewKind, rootStyle)
	return t
}

// Root returns the index of the root (view) box.
func (t *Tree) Root() BoxIndex { return t.root }

// Len returns the number of boxes ever allocated, including detached ones.
func (t *Tree) Len() int { return len(t.boxes) }

// Box returns the box at index [i]. The pointer is invalidated by the
// next allocation in the tree.
func (t *Tree) Box(i BoxIndex) *Box { return &t.boxes[i] }

func (t *Tree) newBox(kind Kind, style pr.Style) BoxIndex {
	if fixed := style.Sanitize(); len(fixed) != 0 {
		logger.WarningLogger.Warnf("clamped invalid values for %v", fixed)
	}
	t.boxes = append(t.boxes, Box{
		Kind:        kind,
		Style:       style,
		Parent:      NoBox,
		FirstChild:  NoBox,
		LastChild:   NoBox,
		PrevSibling: NoBox,
		NextSibling: NoBox,
		NeedsLayout: true,
	})
	return BoxIndex(len(t.boxes) - 1)
}

// Append creates a new box and appends it as last child of [parent].
func (t *Tree) Append(parent BoxIndex, kind Kind, style pr.Style) BoxIndex {
	child := t.newBox(kind, style)
	t.InsertBefore(parent, child, NoBox)
	return child
}

// AppendBlock appends a block container.
func (t *Tree) AppendBlock(parent BoxIndex, style pr.Style) BoxIndex {
	return t.Append(parent, BlockKind, style)
}

// AppendText appends a text run, styled as its parent.
func (t *Tree) AppendText(parent BoxIndex, text string) BoxIndex {
	style := pr.InheritedFrom(&t.boxes[parent].Style)
	child := t.Append(parent, TextKind, style)
	t.boxes[child].Text = []rune(text)
	t.boxes[child].Anonymous = true
	return child
}

// AppendReplaced appends a replaced box whose intrinsic size is given by [content].
func (t *Tree) AppendReplaced(parent BoxIndex, style pr.Style, content ReplacedContent) BoxIndex {
	child := t.Append(parent, ReplacedKind, style)
	t.boxes[child].Content = content
	return child
}

// InsertBefore attaches the detached box [child] to [parent], before [before]
// (or at the end if [before] is [NoBox]).
func (t *Tree) InsertBefore(parent, child, before BoxIndex) {
	c := &t.boxes[child]
	c.Parent = parent
	p := &t.boxes[parent]
	if before == NoBox {
		c.PrevSibling = p.LastChild
		c.NextSibling = NoBox
		if p.LastChild != NoBox {
			t.boxes[p.LastChild].NextSibling = child
		} else {
			p.FirstChild = child
		}
		p.LastChild = child
	} else {
		b := &t.boxes[before]
		c.PrevSibling = b.PrevSibling
		c.NextSibling = before
		if b.PrevSibling != NoBox {
			t.boxes[b.PrevSibling].NextSibling = child
		} else {
			p.FirstChild = child
		}
		b.PrevSibling = child
	}
	t.MarkNeedsLayout(child)
	t.MarkNeedsLayout(parent)
}

// OnRemove registers a callback invoked for every box detached by [Tree.Remove].
func (t *Tree) OnRemove(f func(BoxIndex)) {
	t.removeListeners = append(t.removeListeners, f)
}

// Remove detaches the subtree rooted at [i]. The slots stay allocated so that
// other indices remain stable.
func (t *Tree) Remove(i BoxIndex) {
	if i == t.root {
		return
	}
	b := &t.boxes[i]
	parent := b.Parent
	if parent == NoBox {
		return
	}
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
	t.MarkNeedsLayout(parent)

	for _, d := range t.Subtree(i) {
		delete(t.continuations, d)
		for _, f := range t.removeListeners {
			f(d)
		}
	}
}

// Children returns the children of [i], in document order.
func (t *Tree) Children(i BoxIndex) []BoxIndex {
	var out []BoxIndex
	for c := t.boxes[i].FirstChild; c != NoBox; c = t.boxes[c].NextSibling {
		out = append(out, c)
	}
	return out
}

// Subtree returns [i] and all its descendants, in pre-order.
func (t *Tree) Subtree(i BoxIndex) []BoxIndex {
	out := []BoxIndex{i}
	for c := t.boxes[i].FirstChild; c != NoBox; c = t.boxes[c].NextSibling {
		out = append(out, t.Subtree(c)...)
	}
	return out
}

// NextInPreOrder returns the box following [i] in a pre-order walk
// restricted to the subtree of [stayWithin].
func (t *Tree) NextInPreOrder(i, stayWithin BoxIndex) BoxIndex {
	if c := t.boxes[i].FirstChild; c != NoBox {
		return c
	}
	for cur := i; cur != stayWithin && cur != NoBox; cur = t.boxes[cur].Parent {
		if n := t.boxes[cur].NextSibling; n != NoBox {
			return n
		}
	}
	return NoBox
}

// IsDescendantOf is true if [ancestor] is a strict ancestor of [i].
func (t *Tree) IsDescendantOf(i, ancestor BoxIndex) bool {
	for p := t.boxes[i].Parent; p != NoBox; p = t.boxes[p].Parent {
		if p == ancestor {
			return true
		}
	}
	return false
}

// SetStyle replaces the style of [i] and marks it for layout.
func (t *Tree) SetStyle(i BoxIndex, style pr.Style) {
	if fixed := style.Sanitize(); len(fixed) != 0 {
		logger.WarningLogger.Warnf("clamped invalid values for %v", fixed)
	}
	t.boxes[i].Style = style
	t.MarkNeedsLayout(i)
}

// MarkNeedsLayout sets the dirty bit of [i] and the child dirty bit of
// all its ancestors.
func (t *Tree) MarkNeedsLayout(i BoxIndex) {
	t.boxes[i].NeedsLayout = true
	for p := t.boxes[i].Parent; p != NoBox; p = t.boxes[p].Parent {
		if t.boxes[p].ChildNeedsLayout {
			break
		}
		t.boxes[p].ChildNeedsLayout = true
	}
}

// MarkSubtreeNeedsLayout dirties [i] and all its descendants.
func (t *Tree) MarkSubtreeNeedsLayout(i BoxIndex) {
	for _, d := range t.Subtree(i) {
		t.boxes[d].NeedsLayout = true
	}
	t.MarkNeedsLayout(i)
}

// SelfNeedsLayout is true when [i] or one of its descendants is dirty.
func (t *Tree) SelfNeedsLayout(i BoxIndex) bool {
	return t.boxes[i].NeedsLayout || t.boxes[i].ChildNeedsLayout
}

// GeometryValid is true when the geometry of [i] is final: its own dirty bits
// and those of all its ancestors are clear.
func (t *Tree) GeometryValid(i BoxIndex) bool {
	if t.boxes[i].Parent == NoBox && i != t.root {
		return false
	}
	for cur := i; cur != NoBox; cur = t.boxes[cur].Parent {
		if t.boxes[cur].NeedsLayout || t.boxes[cur].ChildNeedsLayout {
			return false
		}
	}
	return true
}

// SetContinuation records that [next] continues [box].
func (t *Tree) SetContinuation(box, next BoxIndex) {
	if next == NoBox {
		delete(t.continuations, box)
		return
	}
	t.continuations[box] = next
}

// Continuation returns the box continuing [box], or [NoBox].
func (t *Tree) Continuation(box BoxIndex) BoxIndex {
	if c, ok := t.continuations[box]; ok {
		return c
	}
	return NoBox
}

// ChildrenInline is true when the in-flow children of [i] are inline-level.
func (t *Tree) ChildrenInline(i BoxIndex) bool {
	for c := t.boxes[i].FirstChild; c != NoBox; c = t.boxes[c].NextSibling {
		if t.boxes[c].IsInlineLevel() {
			return true
		}
	}
	return false
}

// ContainingBlock returns the box whose content box is the reference
// for the position and percentages of [i].
func (t *Tree) ContainingBlock(i BoxIndex) BoxIndex {
	b := &t.boxes[i]
	switch {
	case i == t.root:
		return NoBox
	case b.Kind != TextKind && b.Style.Position == pr.PositionFixed:
		return t.root
	case b.Kind != TextKind && b.Style.Position == pr.PositionAbsolute:
		for p := b.Parent; p != NoBox; p = t.boxes[p].Parent {
			if p == t.root || t.boxes[p].Style.Position != pr.PositionStatic {
				return p
			}
		}
		return t.root
	}
	for p := b.Parent; p != NoBox; p = t.boxes[p].Parent {
		if t.boxes[p].IsBlockFlow() {
			return p
		}
	}
	return NoBox
}

// FindByID returns the first box with the given element id, or [NoBox].
func (t *Tree) FindByID(id string) BoxIndex {
	for _, i := range t.Subtree(t.root) {
		if t.boxes[i].ID == id {
			return i
		}
	}
	return NoBox
}
