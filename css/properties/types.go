// Package properties defines the resolved ("computed") style consumed by the
// layout engine: a flat record of lengths and keywords, with no cascade.
package properties

import (
	"fmt"
	"math"

	"github.com/ariya/phantomjs-sub051/utils"
)

type Fl = utils.Fl

// Float is the numeric type used for every length, in CSS pixels.
type Float Fl

// Inf is used for "none" max sizes and unconstrained heights.
var Inf = Float(math.Inf(1))

func (f Float) String() string {
	return fmt.Sprintf("%g", float32(f))
}

// Unit qualifies a [Length].
type Unit uint8

const (
	Px Unit = iota
	Perc
	Auto
	None // only valid for max-width and max-height
)

func (u Unit) String() string {
	switch u {
	case Px:
		return "px"
	case Perc:
		return "%"
	case Auto:
		return "auto"
	case None:
		return "none"
	default:
		return "<invalid unit>"
	}
}

// Length is a resolved length: either a pixel value, a percentage
// of the containing block, "auto" or "none".
type Length struct {
	Value Float
	Unit  Unit
}

var (
	AutoLength = Length{Unit: Auto}
	NoneLength = Length{Value: Inf, Unit: None}
	ZeroLength = Length{}
)

func PxL(v Float) Length { return Length{Value: v, Unit: Px} }

func PercL(v Float) Length { return Length{Value: v, Unit: Perc} }

func (l Length) IsAuto() bool { return l.Unit == Auto }

func (l Length) IsNone() bool { return l.Unit == None }

func (l Length) IsPercent() bool { return l.Unit == Perc }

// IsFixed is true for pixel values.
func (l Length) IsFixed() bool { return l.Unit == Px }

func (l Length) String() string {
	switch l.Unit {
	case Auto, None:
		return l.Unit.String()
	default:
		return fmt.Sprintf("%g%s", float32(l.Value), l.Unit)
	}
}

// Resolve returns the used value of the length against [base]. Percentages
// against a negative (indefinite) base, "auto" and "none" are not resolved.
func (l Length) Resolve(base Float) (Float, bool) {
	switch l.Unit {
	case Px:
		return l.Value, true
	case Perc:
		if base < 0 {
			return 0, false
		}
		return l.Value * base / 100, true
	default:
		return 0, false
	}
}

// ResolveOr is like Resolve, but returns [fallback] for unresolved lengths.
func (l Length) ResolveOr(base, fallback Float) Float {
	if v, ok := l.Resolve(base); ok {
		return v
	}
	return fallback
}

// Physical sides, in the order used by the shorthand properties.
const (
	Top = iota
	Right
	Bottom
	Left
)

// LogicalSide is a side relative to the writing mode and direction.
type LogicalSide uint8

const (
	Before LogicalSide = iota
	After
	Start
	End
)

type Display uint8

const (
	DisplayInline Display = iota
	DisplayBlock
	DisplayInlineBlock
	DisplayTableCell
	DisplayListItem
	DisplayNone
)

var displayNames = [...]string{"inline", "block", "inline-block", "table-cell", "list-item", "none"}

func (d Display) String() string { return displayNames[d] }

// IsBlockLevel is true for displays generating block-level boxes.
func (d Display) IsBlockLevel() bool {
	return d == DisplayBlock || d == DisplayListItem || d == DisplayTableCell
}

type FloatSide uint8

const (
	FloatNone FloatSide = iota
	FloatLeft
	FloatRight
)

var floatNames = [...]string{"none", "left", "right"}

func (f FloatSide) String() string { return floatNames[f] }

type Clear uint8

const (
	ClearNone Clear = iota
	ClearLeft
	ClearRight
	ClearBoth
)

var clearNames = [...]string{"none", "left", "right", "both"}

func (c Clear) String() string { return clearNames[c] }

type Position uint8

const (
	PositionStatic Position = iota
	PositionRelative
	PositionAbsolute
	PositionFixed
)

var positionNames = [...]string{"static", "relative", "absolute", "fixed"}

func (p Position) String() string { return positionNames[p] }

type Overflow uint8

const (
	OverflowVisible Overflow = iota
	OverflowHidden
	OverflowScroll
	OverflowAuto
)

var overflowNames = [...]string{"visible", "hidden", "scroll", "auto"}

func (o Overflow) String() string { return overflowNames[o] }

type Visibility uint8

const (
	Visible Visibility = iota
	Hidden
)

type WritingMode uint8

const (
	HorizontalTB WritingMode = iota
	VerticalRL
	VerticalLR
)

var writingModeNames = [...]string{"horizontal-tb", "vertical-rl", "vertical-lr"}

func (w WritingMode) String() string { return writingModeNames[w] }

// IsHorizontal is true when the block axis is vertical.
func (w WritingMode) IsHorizontal() bool { return w == HorizontalTB }

// IsFlippedBlocks is true when blocks progress from right to left.
func (w WritingMode) IsFlippedBlocks() bool { return w == VerticalRL }

type Direction uint8

const (
	LTR Direction = iota
	RTL
)

func (d Direction) String() string {
	if d == RTL {
		return "rtl"
	}
	return "ltr"
}

// Break is the value of the break-before and break-after properties.
type Break uint8

const (
	BreakAuto Break = iota
	BreakAvoid
	BreakPage
	BreakColumn
)

var breakNames = [...]string{"auto", "avoid", "page", "column"}

func (b Break) String() string { return breakNames[b] }

// MarginCollapse is the value of the margin-before-collapse and
// margin-after-collapse properties.
type MarginCollapse uint8

const (
	MarginCollapseCollapse MarginCollapse = iota
	MarginCollapseSeparate
	MarginCollapseDiscard
)

var marginCollapseNames = [...]string{"collapse", "separate", "discard"}

func (m MarginCollapse) String() string { return marginCollapseNames[m] }

// PhysicalSide maps a logical side to the index of the physical side
// (Top, Right, Bottom or Left).
func PhysicalSide(side LogicalSide, wm WritingMode, dir Direction) int {
	switch wm {
	case VerticalRL, VerticalLR:
		switch side {
		case Before:
			if wm == VerticalRL {
				return Right
			}
			return Left
		case After:
			if wm == VerticalRL {
				return Left
			}
			return Right
		case Start:
			if dir == RTL {
				return Bottom
			}
			return Top
		default:
			if dir == RTL {
				return Top
			}
			return Bottom
		}
	default:
		switch side {
		case Before:
			return Top
		case After:
			return Bottom
		case Start:
			if dir == RTL {
				return Right
			}
			return Left
		default:
			if dir == RTL {
				return Left
			}
			return Right
		}
	}
}
