// Package text provides the line breaking and measurement service used by
// the layout engine for inline content.
//
// Text shaping is outside the scope of the engine: the layout only needs
// break opportunities, run advances and line metrics, exposed by [Measurer].
package text

import (
	"unicode"

	pr "github.com/ariya/phantomjs-sub051/css/properties"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/segmenter"
	"golang.org/x/text/width"
)

// Break is a line break opportunity: a line may end right before
// the rune at Offset.
type Break struct {
	Offset int
	// Mandatory is true for hard breaks (new lines, paragraph separators, end of text).
	Mandatory bool
}

// Metrics are the vertical metrics of a line of text.
type Metrics struct {
	Ascent, Descent pr.Float
	// LineHeight is the used 'line-height'.
	LineHeight pr.Float
}

// Baseline returns the position of the baseline from the top of a line
// box of height [Metrics.LineHeight], the leading being split equally
// above and below the glyphs.
func (m Metrics) Baseline() pr.Float {
	return (m.LineHeight-m.Ascent-m.Descent)/2 + m.Ascent
}

// Measurer is the text service consumed by the inline layout.
// Implementations are not required to be safe for concurrent use.
type Measurer interface {
	// Breaks returns the break opportunities of [text], sorted by offset.
	// The last break is always at len(text).
	Breaks(text []rune) []Break
	// RunWidth returns the advance of [text], rendered with [style].
	RunWidth(text []rune, style *pr.Style) pr.Float
	// PreferredWidths returns the min-content width (the widest unbreakable
	// segment) and the max-content width (the widest hard line) of [text].
	PreferredWidths(text []rune, style *pr.Style) (minWidth, maxWidth pr.Float)
	// LineMetrics returns the vertical metrics of a line styled by [style].
	LineMetrics(style *pr.Style) Metrics
}

var _ Measurer = (*FixedPitch)(nil)

// FixedPitch is a deterministic [Measurer]: every narrow rune has
// the same advance, wide (East Asian) runes count double and combining
// marks have no advance. It is used by tests and by the CLI, where
// reproducible geometry matters more than typographic fidelity.
type FixedPitch struct {
	// AdvanceRatio is the advance of a narrow rune, as a fraction of the font size.
	AdvanceRatio pr.Float
	// AscentRatio and DescentRatio are fractions of the font size.
	AscentRatio, DescentRatio pr.Float

	segmenter segmenter.Segmenter
}

// NewFixedPitch returns a measurer whose narrow runes are half an em wide.
func NewFixedPitch() *FixedPitch {
	return &FixedPitch{AdvanceRatio: 0.5, AscentRatio: 0.8, DescentRatio: 0.2}
}

// Breaks uses the Unicode line breaking algorithm. Scripts written without
// spaces between words (Thai, Lao, Khmer, Myanmar) require a dictionary to
// find word boundaries; lacking one, a break is allowed between any two
// grapheme clusters of these scripts.
func (fp *FixedPitch) Breaks(text []rune) []Break {
	if len(text) == 0 {
		return []Break{{Offset: 0, Mandatory: true}}
	}
	fp.segmenter.Init(text)
	var out []Break
	iter := fp.segmenter.LineIterator()
	for iter.Next() {
		line := iter.Line()
		out = append(out, Break{Offset: line.Offset + len(line.Text), Mandatory: line.IsMandatoryBreak})
	}
	if hasDictionaryScript(text) {
		out = mergeBreaks(out, fp.graphemeBreaks(text))
	}
	if len(out) == 0 || out[len(out)-1].Offset != len(text) {
		out = append(out, Break{Offset: len(text), Mandatory: true})
	}
	return out
}

func isDictionaryScript(r rune) bool {
	switch language.LookupScript(r) {
	case language.Thai, language.Lao, language.Khmer, language.Myanmar:
		return true
	}
	return false
}

func hasDictionaryScript(text []rune) bool {
	for _, r := range text {
		if isDictionaryScript(r) {
			return true
		}
	}
	return false
}

// graphemeBreaks returns the boundaries between two graphemes of a
// dictionary script. The segmenter must be initialized with [text].
func (fp *FixedPitch) graphemeBreaks(text []rune) []Break {
	var out []Break
	iter := fp.segmenter.GraphemeIterator()
	for iter.Next() {
		g := iter.Grapheme()
		end := g.Offset + len(g.Text)
		if end >= len(text) {
			break
		}
		if isDictionaryScript(text[end-1]) && isDictionaryScript(text[end]) {
			out = append(out, Break{Offset: end})
		}
	}
	return out
}

// mergeBreaks merges two sorted lists, a mandatory break winning over
// an optional one at the same offset.
func mergeBreaks(a, b []Break) []Break {
	out := make([]Break, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case j == len(b) || (i < len(a) && a[i].Offset < b[j].Offset):
			out = append(out, a[i])
			i++
		case i == len(a) || b[j].Offset < a[i].Offset:
			out = append(out, b[j])
			j++
		default:
			out = append(out, Break{Offset: a[i].Offset, Mandatory: a[i].Mandatory || b[j].Mandatory})
			i++
			j++
		}
	}
	return out
}

// runeAdvance returns the advance of [r], in units of narrow runes.
// Ambiguous runes are wide in Chinese, Japanese and Korean text.
func runeAdvance(r rune, cjk bool) pr.Float {
	if r == '\n' || r == '\r' || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Cc, r) || unicode.Is(unicode.Cf, r) {
		return 0
	}
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	case width.EastAsianAmbiguous:
		if cjk {
			return 2
		}
	}
	return 1
}

func isCJK(lang string) bool {
	switch language.NewLanguage(lang).Primary() {
	case "zh", "ja", "ko":
		return true
	}
	return false
}

func (fp *FixedPitch) RunWidth(text []rune, style *pr.Style) pr.Float {
	cjk := isCJK(style.Lang)
	var units pr.Float
	for _, r := range text {
		units += runeAdvance(r, cjk)
	}
	return units * fp.AdvanceRatio * style.FontSize
}

func (fp *FixedPitch) PreferredWidths(text []rune, style *pr.Style) (minWidth, maxWidth pr.Float) {
	start, lineStart := 0, 0
	for _, br := range fp.Breaks(text) {
		segment := text[start:TrimTrailingSpaces(text, start, br.Offset)]
		minWidth = max(minWidth, fp.RunWidth(segment, style))
		if br.Mandatory {
			line := text[lineStart:TrimTrailingSpaces(text, lineStart, br.Offset)]
			maxWidth = max(maxWidth, fp.RunWidth(line, style))
			lineStart = br.Offset
		}
		start = br.Offset
	}
	return minWidth, maxWidth
}

func (fp *FixedPitch) LineMetrics(style *pr.Style) Metrics {
	return Metrics{
		Ascent:     fp.AscentRatio * style.FontSize,
		Descent:    fp.DescentRatio * style.FontSize,
		LineHeight: style.UsedLineHeight(),
	}
}

// TrimTrailingSpaces returns the end of text[start:end] once the
// trailing white space (which hangs at the end of a line) is removed.
func TrimTrailingSpaces(text []rune, start, end int) int {
	for end > start && unicode.IsSpace(text[end-1]) {
		end--
	}
	return end
}
