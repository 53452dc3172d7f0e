package parser

import (
	"strings"
)

// Serialize returns the CSS text for [l]. Escapes are not restored:
// identifiers and strings are written with their unescaped value.
func Serialize(l []Token) string {
	var w strings.Builder
	serializeTo(l, &w)
	return w.String()
}

func serializeTo(l []Token, w *strings.Builder) {
	for _, token := range l {
		token.serializeTo(w)
	}
}

func serializeStringValue(value string) string {
	var chunks strings.Builder
	for _, c := range value {
		switch c {
		case '"':
			chunks.WriteString(`\"`)
		case '\\':
			chunks.WriteString(`\\`)
		case '\n':
			chunks.WriteString(`\A `)
		default:
			chunks.WriteRune(c)
		}
	}
	return chunks.String()
}

func (t WhitespaceToken) serializeTo(w *strings.Builder) { w.WriteString(t.Value) }
func (t IdentToken) serializeTo(w *strings.Builder)      { w.WriteString(t.Value) }
func (t LiteralToken) serializeTo(w *strings.Builder)    { w.WriteString(t.Value) }

func (t Comment) serializeTo(w *strings.Builder) {
	w.WriteString("/*")
	w.WriteString(t.Value)
	w.WriteString("*/")
}

func (t AtKeywordToken) serializeTo(w *strings.Builder) {
	w.WriteByte('@')
	w.WriteString(t.Value)
}

func (t HashToken) serializeTo(w *strings.Builder) {
	w.WriteByte('#')
	w.WriteString(t.Value)
}

func (t StringToken) serializeTo(w *strings.Builder) {
	w.WriteByte('"')
	w.WriteString(serializeStringValue(t.Value))
	w.WriteByte('"')
}

func (t NumberToken) serializeTo(w *strings.Builder) { w.WriteString(t.Representation) }

func (t PercentageToken) serializeTo(w *strings.Builder) {
	w.WriteString(t.Representation)
	w.WriteByte('%')
}

func (t DimensionToken) serializeTo(w *strings.Builder) {
	w.WriteString(t.Representation)
	w.WriteString(t.Unit)
}

func (t FunctionBlock) serializeTo(w *strings.Builder) {
	w.WriteString(t.Name)
	w.WriteByte('(')
	serializeTo(*t.Arguments, w)
	w.WriteByte(')')
}

func (t ParenthesesBlock) serializeTo(w *strings.Builder) {
	w.WriteByte('(')
	serializeTo(*t.Content, w)
	w.WriteByte(')')
}

func (t SquareBracketsBlock) serializeTo(w *strings.Builder) {
	w.WriteByte('[')
	serializeTo(*t.Content, w)
	w.WriteByte(']')
}

func (t CurlyBracketsBlock) serializeTo(w *strings.Builder) {
	w.WriteByte('{')
	serializeTo(*t.Content, w)
	w.WriteByte('}')
}

// ParseError tokens are dropped, except unmatched closing characters.
func (t ParseError) serializeTo(w *strings.Builder) {
	switch t.Reason {
	case ")", "]", "}":
		w.WriteString(t.Reason)
	}
}
