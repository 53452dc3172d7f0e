package properties

import (
	"github.com/ariya/phantomjs-sub051/utils"
)

// Style is the resolved style of one box.
type Style struct {
	Display Display

	Width, Height       Length
	MinWidth, MaxWidth  Length
	MinHeight, MaxHeight Length

	// Indexed by Top, Right, Bottom, Left
	Margin  [4]Length
	Padding [4]Length
	Border  [4]Float

	Float    FloatSide
	Clear    Clear
	Position Position
	// Offsets of positioned boxes, indexed by Top, Right, Bottom, Left
	Offsets [4]Length

	Overflow   Overflow
	Visibility Visibility

	ColumnCount int    // 0 means auto
	ColumnWidth Length // auto or px
	ColumnGap   Length // auto means normal (1em)

	WritingMode WritingMode
	Direction   Direction

	BreakBefore, BreakAfter Break
	BreakInsideAvoid        bool

	MarginBeforeCollapse, MarginAfterCollapse MarginCollapse
	// Set on legacy user agent margins, which are ignored
	// inside quirk containers in quirks mode.
	MarginTopQuirk, MarginBottomQuirk bool

	Orphans, Widows int

	FontSize   Float
	LineHeight Float // 0 means normal
	Lang       string
}

// InitialStyle returns the initial values of every property.
func InitialStyle() Style {
	return Style{
		Display:     DisplayInline,
		Width:       AutoLength,
		Height:      AutoLength,
		MinWidth:    ZeroLength,
		MaxWidth:    NoneLength,
		MinHeight:   ZeroLength,
		MaxHeight:   NoneLength,
		Offsets:     [4]Length{AutoLength, AutoLength, AutoLength, AutoLength},
		ColumnWidth: AutoLength,
		ColumnGap:   AutoLength,
		Orphans:     2,
		Widows:      2,
		FontSize:    16,
	}
}

// InheritedFrom returns the initial style of a child of a box
// styled with [parent].
func InheritedFrom(parent *Style) Style {
	s := InitialStyle()
	if parent == nil {
		return s
	}
	s.WritingMode = parent.WritingMode
	s.Direction = parent.Direction
	s.Visibility = parent.Visibility
	s.Orphans, s.Widows = parent.Orphans, parent.Widows
	s.FontSize, s.LineHeight = parent.FontSize, parent.LineHeight
	s.Lang = parent.Lang
	return s
}

func (s *Style) IsFloating() bool { return s.Float != FloatNone }

// IsOutOfFlowPositioned is true for absolute and fixed boxes.
func (s *Style) IsOutOfFlowPositioned() bool {
	return s.Position == PositionAbsolute || s.Position == PositionFixed
}

func (s *Style) IsFloatingOrPositioned() bool {
	return s.IsFloating() || s.IsOutOfFlowPositioned()
}

func (s *Style) IsLeftToRight() bool { return s.Direction == LTR }

func (s *Style) IsHorizontalWritingMode() bool { return s.WritingMode.IsHorizontal() }

func (s *Style) HasOverflowClip() bool { return s.Overflow != OverflowVisible }

func (s *Style) HasAutoColumnCount() bool { return s.ColumnCount <= 0 }

func (s *Style) HasAutoColumnWidth() bool { return !s.ColumnWidth.IsFixed() }

// SpecifiesColumns is true when the box is a multi-column container.
func (s *Style) SpecifiesColumns() bool {
	return !s.HasAutoColumnCount() || !s.HasAutoColumnWidth()
}

// UsedColumnGap resolves "normal" to 1em.
func (s *Style) UsedColumnGap() Float {
	if v, ok := s.ColumnGap.Resolve(0); ok {
		return v
	}
	return s.FontSize
}

// UsedLineHeight resolves "normal" to 1.2em.
func (s *Style) UsedLineHeight() Float {
	if s.LineHeight > 0 {
		return s.LineHeight
	}
	return Float(utils.Round(Fl(1.2 * s.FontSize)))
}

// MarginFor returns the margin on the given logical side, as seen from
// a container with writing mode [wm] and direction [dir].
func (s *Style) MarginFor(side LogicalSide, wm WritingMode, dir Direction) Length {
	return s.Margin[PhysicalSide(side, wm, dir)]
}

func (s *Style) PaddingFor(side LogicalSide, wm WritingMode, dir Direction) Length {
	return s.Padding[PhysicalSide(side, wm, dir)]
}

func (s *Style) BorderFor(side LogicalSide, wm WritingMode, dir Direction) Float {
	return s.Border[PhysicalSide(side, wm, dir)]
}

// IsMarginQuirk reports whether the margin on the logical side (Before or After)
// comes from a legacy quirky default.
func (s *Style) IsMarginQuirk(side LogicalSide, wm WritingMode) bool {
	switch PhysicalSide(side, wm, LTR) {
	case Top:
		return s.MarginTopQuirk
	case Bottom:
		return s.MarginBottomQuirk
	}
	return false
}

// LogicalWidth returns the specified size in the inline axis of [wm].
func (s *Style) LogicalWidth(wm WritingMode) Length {
	if wm.IsHorizontal() {
		return s.Width
	}
	return s.Height
}

func (s *Style) LogicalHeight(wm WritingMode) Length {
	if wm.IsHorizontal() {
		return s.Height
	}
	return s.Width
}

func (s *Style) LogicalMinWidth(wm WritingMode) Length {
	if wm.IsHorizontal() {
		return s.MinWidth
	}
	return s.MinHeight
}

func (s *Style) LogicalMaxWidth(wm WritingMode) Length {
	if wm.IsHorizontal() {
		return s.MaxWidth
	}
	return s.MaxHeight
}

func (s *Style) LogicalMinHeight(wm WritingMode) Length {
	if wm.IsHorizontal() {
		return s.MinHeight
	}
	return s.MinWidth
}

func (s *Style) LogicalMaxHeight(wm WritingMode) Length {
	if wm.IsHorizontal() {
		return s.MaxHeight
	}
	return s.MaxWidth
}

// LogicalOffset returns the positioning offset on a logical side.
func (s *Style) LogicalOffset(side LogicalSide, wm WritingMode, dir Direction) Length {
	return s.Offsets[PhysicalSide(side, wm, dir)]
}
