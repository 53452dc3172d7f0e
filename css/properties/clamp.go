package properties

import (
	"github.com/ariya/phantomjs-sub051/utils"
)

// validLength clamps [l] to a well-defined value: non finite values fall back
// to [fallback], negative values are clamped to zero when [allowNegative] is false.
func validLength(l Length, fallback Length, allowNegative bool) (Length, bool) {
	if l.Unit > None {
		return fallback, false
	}
	if l.Unit == Auto || l.Unit == None {
		return l, true
	}
	if !utils.IsFinite(Fl(l.Value)) {
		return fallback, false
	}
	if !allowNegative && l.Value < 0 {
		return Length{Unit: l.Unit}, false
	}
	return l, true
}

// Sanitize clamps malformed or contradictory values in place, and returns
// the names of the properties which have been corrected.
// Sizes and paddings may not be negative, margins and offsets may.
func (s *Style) Sanitize() (fixed []string) {
	check := func(name string, l *Length, fallback Length, allowNegative bool) {
		var ok bool
		*l, ok = validLength(*l, fallback, allowNegative)
		if !ok {
			fixed = append(fixed, name)
		}
	}
	check("width", &s.Width, AutoLength, false)
	check("height", &s.Height, AutoLength, false)
	check("min-width", &s.MinWidth, ZeroLength, false)
	check("min-height", &s.MinHeight, ZeroLength, false)
	check("max-width", &s.MaxWidth, NoneLength, false)
	check("max-height", &s.MaxHeight, NoneLength, false)
	if s.MinWidth.IsAuto() || s.MinWidth.IsNone() {
		s.MinWidth = ZeroLength
	}
	if s.MinHeight.IsAuto() || s.MinHeight.IsNone() {
		s.MinHeight = ZeroLength
	}
	if s.MaxWidth.IsAuto() {
		s.MaxWidth = NoneLength
	}
	if s.MaxHeight.IsAuto() {
		s.MaxHeight = NoneLength
	}
	// max < min resolves to min
	if s.MaxWidth.Unit == s.MinWidth.Unit && s.MaxWidth.Value < s.MinWidth.Value {
		s.MaxWidth = s.MinWidth
		fixed = append(fixed, "max-width")
	}
	if s.MaxHeight.Unit == s.MinHeight.Unit && s.MaxHeight.Value < s.MinHeight.Value {
		s.MaxHeight = s.MinHeight
		fixed = append(fixed, "max-height")
	}
	sides := [4]string{"top", "right", "bottom", "left"}
	for i := range s.Margin {
		check("margin-"+sides[i], &s.Margin[i], ZeroLength, true)
		check("padding-"+sides[i], &s.Padding[i], ZeroLength, false)
		if s.Padding[i].IsAuto() || s.Padding[i].IsNone() {
			s.Padding[i] = ZeroLength
			fixed = append(fixed, "padding-"+sides[i])
		}
		if s.Margin[i].IsNone() {
			s.Margin[i] = ZeroLength
			fixed = append(fixed, "margin-"+sides[i])
		}
		if b := s.Border[i]; !utils.IsFinite(Fl(b)) || b < 0 {
			s.Border[i] = 0
			fixed = append(fixed, "border-"+sides[i]+"-width")
		}
		check(sides[i], &s.Offsets[i], AutoLength, true)
	}
	if s.ColumnCount < 0 {
		s.ColumnCount = 0
		fixed = append(fixed, "column-count")
	}
	check("column-width", &s.ColumnWidth, AutoLength, false)
	if s.ColumnWidth.IsPercent() || s.ColumnWidth.IsNone() {
		s.ColumnWidth = AutoLength
		fixed = append(fixed, "column-width")
	}
	check("column-gap", &s.ColumnGap, AutoLength, false)
	if s.Orphans < 1 {
		s.Orphans = 1
		fixed = append(fixed, "orphans")
	}
	if s.Widows < 1 {
		s.Widows = 1
		fixed = append(fixed, "widows")
	}
	if !utils.IsFinite(Fl(s.FontSize)) || s.FontSize <= 0 {
		s.FontSize = 16
		fixed = append(fixed, "font-size")
	}
	if !utils.IsFinite(Fl(s.LineHeight)) || s.LineHeight < 0 {
		s.LineHeight = 0
		fixed = append(fixed, "line-height")
	}
	return fixed
}
