package text

import (
	"testing"

	pr "github.com/ariya/phantomjs-sub051/css/properties"
	tu "github.com/ariya/phantomjs-sub051/utils/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreaks(t *testing.T) {
	fp := NewFixedPitch()

	tu.AssertEqual(t, fp.Breaks([]rune("hello world")), []Break{{6, false}, {11, true}})
	tu.AssertEqual(t, fp.Breaks([]rune("ab\ncd")), []Break{{3, true}, {5, true}})
	tu.AssertEqual(t, fp.Breaks(nil), []Break{{0, true}})
	tu.AssertEqual(t, fp.Breaks([]rune("unbreakable")), []Break{{11, true}})
}

func TestBreaksDictionaryScript(t *testing.T) {
	fp := NewFixedPitch()
	text := []rune("สวัสดี")
	breaks := fp.Breaks(text)
	require.Greater(t, len(breaks), 2)
	assert.Equal(t, Break{len(text), true}, breaks[len(breaks)-1])
	for i := 1; i < len(breaks); i++ {
		assert.Less(t, breaks[i-1].Offset, breaks[i].Offset)
	}
	// a combining vowel is never separated from its base
	for _, br := range breaks {
		assert.NotEqual(t, 2, br.Offset)
	}
}

func TestMergeBreaks(t *testing.T) {
	got := mergeBreaks([]Break{{2, false}, {5, true}}, []Break{{1, false}, {2, true}, {4, false}})
	tu.AssertEqual(t, got, []Break{{1, false}, {2, true}, {4, false}, {5, true}})
}

func TestRunWidth(t *testing.T) {
	fp := NewFixedPitch()
	style := pr.InitialStyle()

	assert.Equal(t, pr.Float(16), fp.RunWidth([]rune("ab"), &style))
	assert.Equal(t, pr.Float(32), fp.RunWidth([]rune("日本"), &style))
	assert.Equal(t, pr.Float(8), fp.RunWidth([]rune("é"), &style))

	assert.Equal(t, pr.Float(8), fp.RunWidth([]rune("±"), &style))
	style.Lang = "ja_JP"
	assert.Equal(t, pr.Float(16), fp.RunWidth([]rune("±"), &style))

	style.FontSize = 10
	assert.Equal(t, pr.Float(10), fp.RunWidth([]rune("ab"), &style))
}

func TestPreferredWidths(t *testing.T) {
	fp := NewFixedPitch()
	style := pr.InitialStyle()

	minW, maxW := fp.PreferredWidths([]rune("aa bbbb c"), &style)
	assert.Equal(t, pr.Float(32), minW)
	assert.Equal(t, pr.Float(72), maxW)

	minW, maxW = fp.PreferredWidths([]rune("aaa\nbb b"), &style)
	assert.Equal(t, pr.Float(24), minW)
	assert.Equal(t, pr.Float(32), maxW)
}

func TestLineMetrics(t *testing.T) {
	fp := NewFixedPitch()
	style := pr.InitialStyle()
	m := fp.LineMetrics(&style)
	assert.Equal(t, pr.Float(12.8), m.Ascent)
	// "normal" is 1.2em
	assert.InDelta(t, 19.2, float64(m.LineHeight), 1e-4)
	assert.InDelta(t, 14.4, float64(m.Baseline()), 1e-4)

	style.LineHeight = 40
	m = fp.LineMetrics(&style)
	assert.Equal(t, pr.Float(40), m.LineHeight)
	assert.InDelta(t, 24.8, float64(m.Baseline()), 1e-4)
}

func TestTrimTrailingSpaces(t *testing.T) {
	text := []rune("ab  cd ")
	assert.Equal(t, 2, TrimTrailingSpaces(text, 0, 4))
	assert.Equal(t, 6, TrimTrailingSpaces(text, 0, 7))
	assert.Equal(t, 2, TrimTrailingSpaces(text, 2, 4))
}
