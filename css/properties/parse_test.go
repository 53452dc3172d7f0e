package properties

import (
	"testing"

	tu "github.com/ariya/phantomjs-sub051/utils/testutils"
	"github.com/stretchr/testify/assert"
)

func parsed(css string) Style {
	s := InitialStyle()
	ParseDeclarations(css, &s)
	return s
}

func TestParseBoxModel(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	s := parsed("width: 50px; HEIGHT:10%; margin: 1px 2px; padding:1em; border: 2px solid; max-width:none; min-height:0")
	assert.Equal(t, PxL(50), s.Width)
	assert.Equal(t, PercL(10), s.Height)
	assert.Equal(t, [4]Length{PxL(1), PxL(2), PxL(1), PxL(2)}, s.Margin)
	assert.Equal(t, [4]Length{PxL(16), PxL(16), PxL(16), PxL(16)}, s.Padding)
	assert.Equal(t, [4]Float{2, 2, 2, 2}, s.Border)
	assert.Equal(t, NoneLength, s.MaxWidth)
	assert.Equal(t, ZeroLength, s.MinHeight)

	s = parsed("margin: 1px 2px 3px; padding: 1px 2px 3px 4px; border-width: 1px 0")
	assert.Equal(t, [4]Length{PxL(1), PxL(2), PxL(3), PxL(2)}, s.Margin)
	assert.Equal(t, [4]Length{PxL(1), PxL(2), PxL(3), PxL(4)}, s.Padding)
	assert.Equal(t, [4]Float{1, 0, 1, 0}, s.Border)

	s = parsed("margin: 0; margin-left: auto; padding-top: 5px; border-right-width: 3px; margin-bottom: -4px")
	assert.Equal(t, [4]Length{ZeroLength, ZeroLength, PxL(-4), AutoLength}, s.Margin)
	assert.Equal(t, PxL(5), s.Padding[Top])
	assert.Equal(t, Float(3), s.Border[Right])
}

func TestParseKeywords(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	s := parsed("display:inline-block; float:Left; clear:both; position:absolute; top:5px; right:10%; overflow:hidden; visibility:collapse")
	assert.Equal(t, DisplayInlineBlock, s.Display)
	assert.Equal(t, FloatLeft, s.Float)
	assert.Equal(t, ClearBoth, s.Clear)
	assert.Equal(t, PositionAbsolute, s.Position)
	assert.Equal(t, [4]Length{PxL(5), PercL(10), AutoLength, AutoLength}, s.Offsets)
	assert.Equal(t, OverflowHidden, s.Overflow)
	assert.Equal(t, Hidden, s.Visibility)

	s = parsed("writing-mode: vertical-rl; direction: rtl")
	assert.Equal(t, VerticalRL, s.WritingMode)
	assert.Equal(t, RTL, s.Direction)
}

func TestParseColumns(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	s := parsed("columns: 3 100px; column-gap: 5px")
	assert.Equal(t, 3, s.ColumnCount)
	assert.Equal(t, PxL(100), s.ColumnWidth)
	assert.Equal(t, PxL(5), s.ColumnGap)
	assert.True(t, s.SpecifiesColumns())

	s = parsed("column-count: 2; column-count: auto; column-width: 10em; column-gap: normal")
	assert.True(t, s.HasAutoColumnCount())
	assert.Equal(t, PxL(160), s.ColumnWidth)
	assert.Equal(t, AutoLength, s.ColumnGap)
	assert.Equal(t, Float(16), s.UsedColumnGap())

	empty := parsed("")
	assert.False(t, empty.SpecifiesColumns())
}

func TestParseBreaks(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	s := parsed("page-break-before: always; break-after: column; break-inside: avoid-column; orphans: 3; widows: 4")
	assert.Equal(t, BreakPage, s.BreakBefore)
	assert.Equal(t, BreakColumn, s.BreakAfter)
	assert.True(t, s.BreakInsideAvoid)
	assert.Equal(t, 3, s.Orphans)
	assert.Equal(t, 4, s.Widows)

	s = parsed("break-before: avoid-page; page-break-after: avoid")
	assert.Equal(t, BreakAvoid, s.BreakBefore)
	assert.Equal(t, BreakAvoid, s.BreakAfter)
}

func TestParseMarginCollapse(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	s := parsed("-webkit-margin-collapse: separate")
	assert.Equal(t, MarginCollapseSeparate, s.MarginBeforeCollapse)
	assert.Equal(t, MarginCollapseSeparate, s.MarginAfterCollapse)

	s = parsed("margin-after-collapse: discard")
	assert.Equal(t, MarginCollapseCollapse, s.MarginBeforeCollapse)
	assert.Equal(t, MarginCollapseDiscard, s.MarginAfterCollapse)

	s = parsed("-webkit-margin-before-collapse: discard")
	assert.Equal(t, MarginCollapseDiscard, s.MarginBeforeCollapse)
	assert.Equal(t, MarginCollapseCollapse, s.MarginAfterCollapse)
}

func TestParseFont(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	// em units use the font size of the box
	s := parsed("font-size: 2em; line-height: 1.5; width: 1em")
	assert.Equal(t, Float(32), s.FontSize)
	assert.Equal(t, Float(48), s.LineHeight)
	assert.Equal(t, PxL(32), s.Width)

	s = parsed("font-size: 10px; line-height: 150%")
	assert.Equal(t, Float(15), s.LineHeight)
	assert.Equal(t, Float(15), s.UsedLineHeight())

	s = parsed("font-size: 10px; line-height: 30px; line-height: normal")
	assert.Equal(t, Float(0), s.LineHeight)
	assert.Equal(t, Float(12), s.UsedLineHeight())
}

func TestParseInvalidDeclarations(t *testing.T) {
	for _, test := range []struct {
		css  string
		logs int
	}{
		{"width 10px", 1},
		{"float: middle", 1},
		{"margin: 1px 2px 3px 4px 5px", 1},
		{"width: 10; height: 1.5px", 1},
		{"orphans: many; color: red", 2},
		{"font-size: 50%", 1},
		{"border: thick", 1},
		{"padding-top:", 1},
		{" ; ;", 0},
	} {
		logs := tu.CaptureLogs()
		s := parsed(test.css)
		logs.AssertLogs(t, test.logs)
		// invalid values are ignored
		assert.Equal(t, AutoLength, s.Width, test.css)
		assert.Equal(t, FloatNone, s.Float, test.css)
		assert.Equal(t, 2, s.Orphans, test.css)
		assert.Equal(t, Float(16), s.FontSize, test.css)
	}
}

func TestParseTokenizedDeclarations(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	s := parsed("width: 10px; /* keep; this */ height: 20px")
	assert.Equal(t, PxL(10), s.Width)
	assert.Equal(t, PxL(20), s.Height)

	s = parsed("width: 10px !important; width: 20px; height: 5px ! IMPORTANT; height: 6px")
	assert.Equal(t, PxL(10), s.Width)
	assert.Equal(t, PxL(5), s.Height)

	s = parsed("margin:/**/1px/**/ 2px;padding-left:3PX")
	assert.Equal(t, [4]Length{PxL(1), PxL(2), PxL(1), PxL(2)}, s.Margin)
	assert.Equal(t, PxL(3), s.Padding[Left])
}

func TestParseRejectedDeclarations(t *testing.T) {
	logs := tu.CaptureLogs()
	s := parsed(`@media print { width: 1px }; content: "a;b"; height: 2px`)
	// the at-rule, then the unsupported property
	logs.AssertLogs(t, 2)
	assert.Equal(t, AutoLength, s.Width)
	assert.Equal(t, PxL(2), s.Height)
}

func TestParseLength(t *testing.T) {
	for _, test := range []struct {
		value    string
		expected Length
	}{
		{"auto", AutoLength},
		{"none", NoneLength},
		{"0", ZeroLength},
		{"-0", ZeroLength},
		{"12px", PxL(12)},
		{"-3.5px", PxL(-3.5)},
		{"1.5em", PxL(15)},
		{"25%", PercL(25)},
	} {
		got, err := parseLength(test.value, 10)
		assert.NoError(t, err, test.value)
		assert.Equal(t, test.expected, got, test.value)
	}

	for _, value := range []string{"12", "px", "1.2.3em", "auto%"} {
		_, err := parseLength(value, 10)
		assert.Error(t, err, value)
	}
}
