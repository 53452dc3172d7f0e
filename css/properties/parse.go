package properties

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ariya/phantomjs-sub051/css/parser"
	"github.com/ariya/phantomjs-sub051/logger"
)

// ParseDeclarations applies the declarations found in [css] (the content of a
// "style" attribute) to [style]. Important declarations win over the
// others. Unsupported properties and invalid values are reported through
// the warning logger and ignored.
func ParseDeclarations(css string, style *Style) {
	var important []parser.Declaration
	for _, c := range parser.ParseDeclarationListString(css) {
		switch c := c.(type) {
		case parser.Declaration:
			if c.Important {
				important = append(important, c)
				continue
			}
			applyParsedDeclaration(c, style)
		case parser.AtRule:
			logger.WarningLogger.Warnf("ignored at-rule @%s at %s: not allowed in declarations", c.AtKeyword, c.Pos())
		case parser.ParseError:
			logger.WarningLogger.Warnf("invalid declaration at %s: %s", c.Pos(), c.Message)
		}
	}
	for _, decl := range important {
		applyParsedDeclaration(decl, style)
	}
}

func applyParsedDeclaration(decl parser.Declaration, style *Style) {
	name := strings.ToLower(decl.Name)
	value := strings.ToLower(strings.TrimSpace(parser.Serialize(decl.Value)))
	if err := applyDeclaration(name, value, style); err != nil {
		logger.WarningLogger.Warnf("ignored declaration %s: %s", name, err)
	}
}

var sideSuffixes = map[string]int{"top": Top, "right": Right, "bottom": Bottom, "left": Left}

func applyDeclaration(name, value string, s *Style) error {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return fmt.Errorf("empty value")
	}
	switch name {
	case "display":
		return keyword(value, &s.Display, map[string]Display{
			"inline": DisplayInline, "block": DisplayBlock, "inline-block": DisplayInlineBlock,
			"table-cell": DisplayTableCell, "list-item": DisplayListItem, "none": DisplayNone,
		})
	case "width", "height", "min-width", "min-height", "max-width", "max-height":
		l, err := parseLength(value, s.FontSize)
		if err != nil {
			return err
		}
		switch name {
		case "width":
			s.Width = l
		case "height":
			s.Height = l
		case "min-width":
			s.MinWidth = l
		case "min-height":
			s.MinHeight = l
		case "max-width":
			s.MaxWidth = l
		default:
			s.MaxHeight = l
		}
	case "margin", "padding":
		ls, err := parseBoxShorthand(fields, s.FontSize)
		if err != nil {
			return err
		}
		if name == "margin" {
			s.Margin = ls
		} else {
			s.Padding = ls
		}
	case "border-width", "border":
		var widths [4]Float
		if name == "border" {
			l, err := parseLength(fields[0], s.FontSize)
			if err != nil || !l.IsFixed() {
				return fmt.Errorf("invalid border width %q", fields[0])
			}
			widths = [4]Float{l.Value, l.Value, l.Value, l.Value}
		} else {
			ls, err := parseBoxShorthand(fields, s.FontSize)
			if err != nil {
				return err
			}
			for i, l := range ls {
				widths[i] = l.Value
			}
		}
		s.Border = widths
	case "float":
		return keyword(value, &s.Float, map[string]FloatSide{"none": FloatNone, "left": FloatLeft, "right": FloatRight})
	case "clear":
		return keyword(value, &s.Clear, map[string]Clear{"none": ClearNone, "left": ClearLeft, "right": ClearRight, "both": ClearBoth})
	case "position":
		return keyword(value, &s.Position, map[string]Position{
			"static": PositionStatic, "relative": PositionRelative, "absolute": PositionAbsolute, "fixed": PositionFixed,
		})
	case "top", "right", "bottom", "left":
		l, err := parseLength(value, s.FontSize)
		if err != nil {
			return err
		}
		s.Offsets[sideSuffixes[name]] = l
	case "overflow":
		return keyword(value, &s.Overflow, map[string]Overflow{
			"visible": OverflowVisible, "hidden": OverflowHidden, "scroll": OverflowScroll, "auto": OverflowAuto,
		})
	case "visibility":
		return keyword(value, &s.Visibility, map[string]Visibility{"visible": Visible, "hidden": Hidden, "collapse": Hidden})
	case "column-count":
		return parseColumnCount(value, s)
	case "column-width":
		l, err := parseLength(value, s.FontSize)
		if err != nil {
			return err
		}
		s.ColumnWidth = l
	case "columns":
		for _, f := range fields {
			if f == "auto" {
				continue
			}
			if _, err := strconv.Atoi(f); err == nil {
				if err := parseColumnCount(f, s); err != nil {
					return err
				}
				continue
			}
			l, err := parseLength(f, s.FontSize)
			if err != nil {
				return err
			}
			s.ColumnWidth = l
		}
	case "column-gap":
		if value == "normal" {
			s.ColumnGap = AutoLength
			return nil
		}
		l, err := parseLength(value, s.FontSize)
		if err != nil {
			return err
		}
		s.ColumnGap = l
	case "writing-mode":
		return keyword(value, &s.WritingMode, map[string]WritingMode{
			"horizontal-tb": HorizontalTB, "vertical-rl": VerticalRL, "vertical-lr": VerticalLR,
		})
	case "direction":
		return keyword(value, &s.Direction, map[string]Direction{"ltr": LTR, "rtl": RTL})
	case "break-before", "break-after", "page-break-before", "page-break-after":
		breaks := map[string]Break{
			"auto": BreakAuto, "avoid": BreakAvoid, "avoid-page": BreakAvoid, "avoid-column": BreakAvoid,
			"page": BreakPage, "always": BreakPage, "left": BreakPage, "right": BreakPage, "column": BreakColumn,
		}
		if strings.HasSuffix(name, "before") {
			return keyword(value, &s.BreakBefore, breaks)
		}
		return keyword(value, &s.BreakAfter, breaks)
	case "break-inside", "page-break-inside":
		s.BreakInsideAvoid = strings.HasPrefix(value, "avoid")
	case "margin-before-collapse", "margin-after-collapse", "margin-collapse",
		"-webkit-margin-before-collapse", "-webkit-margin-after-collapse", "-webkit-margin-collapse":
		mcs := map[string]MarginCollapse{"collapse": MarginCollapseCollapse, "separate": MarginCollapseSeparate, "discard": MarginCollapseDiscard}
		name = strings.TrimPrefix(name, "-webkit-")
		if name != "margin-after-collapse" {
			if err := keyword(value, &s.MarginBeforeCollapse, mcs); err != nil {
				return err
			}
		}
		if name != "margin-before-collapse" {
			return keyword(value, &s.MarginAfterCollapse, mcs)
		}
	case "orphans", "widows":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		if name == "orphans" {
			s.Orphans = n
		} else {
			s.Widows = n
		}
	case "font-size":
		l, err := parseLength(value, s.FontSize)
		if err != nil || !l.IsFixed() {
			return fmt.Errorf("invalid font size %q", value)
		}
		s.FontSize = l.Value
	case "line-height":
		if value == "normal" {
			s.LineHeight = 0
			return nil
		}
		if f, err := strconv.ParseFloat(value, 32); err == nil {
			s.LineHeight = Float(f) * s.FontSize
			return nil
		}
		l, err := parseLength(value, s.FontSize)
		if err != nil {
			return err
		}
		s.LineHeight = l.ResolveOr(s.FontSize, 0)
	default:
		for _, prefix := range [...]string{"margin-", "padding-", "border-"} {
			if !strings.HasPrefix(name, prefix) {
				continue
			}
			side := strings.TrimSuffix(strings.TrimPrefix(name, prefix), "-width")
			index, ok := sideSuffixes[side]
			if !ok {
				break
			}
			l, err := parseLength(fields[0], s.FontSize)
			if err != nil {
				return err
			}
			switch prefix {
			case "margin-":
				s.Margin[index] = l
			case "padding-":
				s.Padding[index] = l
			default:
				s.Border[index] = l.Value
			}
			return nil
		}
		return fmt.Errorf("unsupported property")
	}
	return nil
}

func keyword[T any](value string, target *T, values map[string]T) error {
	v, ok := values[value]
	if !ok {
		return fmt.Errorf("invalid keyword %q", value)
	}
	*target = v
	return nil
}

func parseColumnCount(value string, s *Style) error {
	if value == "auto" {
		s.ColumnCount = 0
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid column count %q", value)
	}
	s.ColumnCount = n
	return nil
}

// parseBoxShorthand expands the one to four values of margin-like shorthands.
func parseBoxShorthand(fields []string, fontSize Float) (out [4]Length, err error) {
	if len(fields) > 4 {
		return out, fmt.Errorf("too many values")
	}
	ls := make([]Length, len(fields))
	for i, f := range fields {
		if ls[i], err = parseLength(f, fontSize); err != nil {
			return out, err
		}
	}
	switch len(ls) {
	case 1:
		out = [4]Length{ls[0], ls[0], ls[0], ls[0]}
	case 2:
		out = [4]Length{ls[0], ls[1], ls[0], ls[1]}
	case 3:
		out = [4]Length{ls[0], ls[1], ls[2], ls[1]}
	case 4:
		out = [4]Length{ls[0], ls[1], ls[2], ls[3]}
	}
	return out, nil
}

// parseLength accepts "auto", "none", unitless zero, and numbers
// with px, pt, em or % units.
func parseLength(value string, fontSize Float) (Length, error) {
	switch value {
	case "auto":
		return AutoLength, nil
	case "none":
		return NoneLength, nil
	}
	units := []struct {
		suffix string
		unit   Unit
		factor Float
	}{
		{"px", Px, 1}, {"pt", Px, 4. / 3}, {"em", Px, fontSize}, {"%", Perc, 1},
	}
	for _, u := range units {
		if !strings.HasSuffix(value, u.suffix) {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSuffix(value, u.suffix), 32)
		if err != nil {
			return Length{}, fmt.Errorf("invalid length %q", value)
		}
		return Length{Value: Float(f) * u.factor, Unit: u.unit}, nil
	}
	f, err := strconv.ParseFloat(value, 32)
	if err != nil || f != 0 {
		return Length{}, fmt.Errorf("invalid length %q", value)
	}
	return ZeroLength, nil
}
