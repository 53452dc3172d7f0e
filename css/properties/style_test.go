package properties

import (
	"math"
	"testing"

	tu "github.com/ariya/phantomjs-sub051/utils/testutils"
	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	s := InitialStyle()
	tu.AssertEqual(t, s.Sanitize(), []string(nil))

	s.Height = PxL(-5)
	s.MinWidth, s.MaxWidth = PxL(20), PxL(10)
	s.Padding[Top] = AutoLength
	s.Border[Left] = -1
	s.Margin[Bottom] = PxL(-3)
	s.ColumnCount = -2
	s.ColumnWidth = PercL(10)
	s.Orphans = 0
	s.FontSize = Float(math.NaN())
	s.LineHeight = -1
	s.Offsets[Left] = PxL(-8)

	fixed := s.Sanitize()
	tu.AssertEqual(t, fixed, []string{
		"height", "max-width", "padding-top", "border-left-width", "column-count",
		"column-width", "orphans", "font-size", "line-height",
	})
	assert.Equal(t, PxL(0), s.Height)
	assert.Equal(t, PxL(20), s.MaxWidth)
	assert.Equal(t, ZeroLength, s.Padding[Top])
	assert.Equal(t, Float(0), s.Border[Left])
	// negative margins and offsets are valid
	assert.Equal(t, PxL(-3), s.Margin[Bottom])
	assert.Equal(t, PxL(-8), s.Offsets[Left])
	assert.Equal(t, 0, s.ColumnCount)
	assert.Equal(t, AutoLength, s.ColumnWidth)
	assert.Equal(t, 1, s.Orphans)
	assert.Equal(t, Float(16), s.FontSize)
	assert.Equal(t, Float(0), s.LineHeight)

	// a sanitized style is stable
	tu.AssertEqual(t, s.Sanitize(), []string(nil))
}

func TestSanitizeNonFinite(t *testing.T) {
	s := InitialStyle()
	s.Width = PxL(Inf)
	s.MinHeight = AutoLength
	s.MaxHeight = AutoLength
	s.Margin[Top] = NoneLength
	s.Offsets[Top] = Length{Value: 1, Unit: None + 1}

	fixed := s.Sanitize()
	tu.AssertEqual(t, fixed, []string{"width", "margin-top", "top"})
	assert.Equal(t, AutoLength, s.Width)
	assert.Equal(t, ZeroLength, s.MinHeight)
	assert.Equal(t, NoneLength, s.MaxHeight)
	assert.Equal(t, ZeroLength, s.Margin[Top])
	assert.Equal(t, AutoLength, s.Offsets[Top])
}

func TestLengthResolve(t *testing.T) {
	v, ok := PercL(50).Resolve(200)
	assert.True(t, ok)
	assert.Equal(t, Float(100), v)

	v, ok = PxL(12).Resolve(-1)
	assert.True(t, ok)
	assert.Equal(t, Float(12), v)

	// an indefinite base does not resolve percentages
	_, ok = PercL(50).Resolve(-1)
	assert.False(t, ok)
	_, ok = AutoLength.Resolve(100)
	assert.False(t, ok)
	_, ok = NoneLength.Resolve(100)
	assert.False(t, ok)

	assert.Equal(t, Float(7), AutoLength.ResolveOr(100, 7))
	assert.Equal(t, Float(25), PercL(25).ResolveOr(100, 7))

	assert.Equal(t, "12px", PxL(12).String())
	assert.Equal(t, "2.5%", PercL(2.5).String())
	assert.Equal(t, "auto", AutoLength.String())
	assert.Equal(t, "none", NoneLength.String())
	assert.Equal(t, "0.5", Float(0.5).String())
}

func TestPhysicalSide(t *testing.T) {
	for _, test := range []struct {
		wm       WritingMode
		dir      Direction
		expected [4]int // Before, After, Start, End
	}{
		{HorizontalTB, LTR, [4]int{Top, Bottom, Left, Right}},
		{HorizontalTB, RTL, [4]int{Top, Bottom, Right, Left}},
		{VerticalRL, LTR, [4]int{Right, Left, Top, Bottom}},
		{VerticalLR, LTR, [4]int{Left, Right, Top, Bottom}},
		{VerticalLR, RTL, [4]int{Left, Right, Bottom, Top}},
	} {
		var got [4]int
		for side := Before; side <= End; side++ {
			got[side] = PhysicalSide(side, test.wm, test.dir)
		}
		assert.Equal(t, test.expected, got, "%s %s", test.wm, test.dir)
	}
}

func TestLogicalAccessors(t *testing.T) {
	s := parsed("width:10px; height:20px; min-width:1px; min-height:2px; max-width:30px; max-height:40px; " +
		"margin:1px 2px 3px 4px; padding:5px 6px 7px 8px; border-width:1px 2px 3px 4px; top:9px; left:11px")

	assert.Equal(t, PxL(10), s.LogicalWidth(HorizontalTB))
	assert.Equal(t, PxL(20), s.LogicalHeight(HorizontalTB))
	assert.Equal(t, PxL(20), s.LogicalWidth(VerticalRL))
	assert.Equal(t, PxL(10), s.LogicalHeight(VerticalLR))
	assert.Equal(t, PxL(2), s.LogicalMinWidth(VerticalRL))
	assert.Equal(t, PxL(1), s.LogicalMinHeight(VerticalRL))
	assert.Equal(t, PxL(30), s.LogicalMaxWidth(HorizontalTB))
	assert.Equal(t, PxL(40), s.LogicalMaxWidth(VerticalLR))
	assert.Equal(t, PxL(40), s.LogicalMaxHeight(HorizontalTB))

	assert.Equal(t, PxL(4), s.MarginFor(Start, HorizontalTB, LTR))
	assert.Equal(t, PxL(2), s.MarginFor(Start, HorizontalTB, RTL))
	assert.Equal(t, PxL(6), s.PaddingFor(Before, VerticalRL, LTR))
	assert.Equal(t, Float(3), s.BorderFor(After, HorizontalTB, LTR))
	assert.Equal(t, PxL(9), s.LogicalOffset(Start, VerticalLR, LTR))
	assert.Equal(t, PxL(11), s.LogicalOffset(Before, VerticalLR, LTR))
}

func TestMarginQuirk(t *testing.T) {
	s := InitialStyle()
	s.MarginTopQuirk = true
	assert.True(t, s.IsMarginQuirk(Before, HorizontalTB))
	assert.False(t, s.IsMarginQuirk(After, HorizontalTB))
	// quirks only apply to the top and bottom margins
	assert.False(t, s.IsMarginQuirk(Before, VerticalRL))
}

func TestInheritedFrom(t *testing.T) {
	parent := parsed("display:block; width:10px; direction:rtl; font-size:20px; line-height:30px; widows:3; visibility:hidden; float:left")
	parent.Lang = "fr"

	s := InheritedFrom(&parent)
	assert.Equal(t, DisplayInline, s.Display)
	assert.Equal(t, AutoLength, s.Width)
	assert.Equal(t, FloatNone, s.Float)
	assert.Equal(t, RTL, s.Direction)
	assert.Equal(t, Float(20), s.FontSize)
	assert.Equal(t, Float(30), s.LineHeight)
	assert.Equal(t, 3, s.Widows)
	assert.Equal(t, Hidden, s.Visibility)
	assert.Equal(t, "fr", s.Lang)
	assert.False(t, s.IsLeftToRight())

	tu.AssertEqual(t, InheritedFrom(nil), InitialStyle())
}

func TestStylePredicates(t *testing.T) {
	s := parsed("position:fixed")
	assert.True(t, s.IsOutOfFlowPositioned())
	assert.True(t, s.IsFloatingOrPositioned())
	assert.False(t, s.IsFloating())

	s = parsed("position:relative; float:right; overflow:auto")
	assert.False(t, s.IsOutOfFlowPositioned())
	assert.True(t, s.IsFloating())
	assert.True(t, s.HasOverflowClip())
	assert.True(t, s.IsHorizontalWritingMode())

	assert.True(t, DisplayListItem.IsBlockLevel())
	assert.False(t, DisplayInlineBlock.IsBlockLevel())
	assert.True(t, VerticalRL.IsFlippedBlocks())
	assert.False(t, VerticalLR.IsFlippedBlocks())
}
