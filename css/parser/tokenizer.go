package parser

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ariya/phantomjs-sub051/utils"
)

var (
	numberRe    = regexp.MustCompile(`^[-+]?([0-9]*\.)?[0-9]+([eE][+-]?[0-9]+)?`)
	hexEscapeRe = regexp.MustCompile(`^([0-9A-Fa-f]{1,6})[ \n\t]?`)
)

type nestedBlock struct {
	tokens  *[]Token
	endChar byte
}

// Tokenize parses a list of component values.
// If [skipComments] is true, the returned tokens (and recursively the content
// of blocks and functions) do not contain any [Comment].
func Tokenize(css []byte, skipComments bool) []Token {
	css = bytes.ReplaceAll(css, []byte("\u0000"), []byte("\uFFFD"))
	css = bytes.ReplaceAll(css, []byte("\r\n"), []byte("\n"))
	css = bytes.ReplaceAll(css, []byte("\r"), []byte("\n"))
	css = bytes.ReplaceAll(css, []byte("\f"), []byte("\n"))

	length := len(css)
	tokenStartPos, pos := 0, 0
	line, lastNewline := 1, -1
	var out []Token  // possibly nested tokens
	ts := &out       // current list of tokens
	var endChar byte // pop the stack when encountering this character
	var stack []nestedBlock

	pushBlock := func(content *[]Token, end byte) {
		stack = append(stack, nestedBlock{tokens: ts, endChar: endChar})
		endChar = end
		ts = content
	}

mainLoop:
	for pos < length {
		newline := bytes.LastIndexByte(css[tokenStartPos:pos], '\n')
		if newline != -1 {
			newline += tokenStartPos
			line += 1 + bytes.Count(css[tokenStartPos:newline], []byte{'\n'})
			lastNewline = newline
		}
		// first character in a line is in column 1
		tokenPos := newPosition(line, pos-lastNewline)

		tokenStartPos = pos
		c := css[pos]

		if c == ' ' || c == '\n' || c == '\t' {
			pos += 1
			for pos < length && (css[pos] == ' ' || css[pos] == '\n' || css[pos] == '\t') {
				pos += 1
			}
			*ts = append(*ts, WhitespaceToken{pos: tokenPos, Value: string(css[tokenStartPos:pos])})
			continue
		}

		if bytes.HasPrefix(css[pos:], []byte("-->")) { // before identifiers
			*ts = append(*ts, LiteralToken{pos: tokenPos, Value: "-->"})
			pos += 3
			continue
		} else if isIdentStart(css, pos) {
			var value string
			value, pos = consumeIdent(css, pos)
			if !(pos < length && css[pos] == '(') {
				*ts = append(*ts, IdentToken{pos: tokenPos, Value: value})
				continue
			}
			pos += 1 // skip the "("
			fn := FunctionBlock{pos: tokenPos, Name: value, Arguments: new([]Token)}
			*ts = append(*ts, fn)
			pushBlock(fn.Arguments, ')')
			continue
		}

		if match := numberRe.FindIndex(css[pos:]); match != nil {
			repr := string(css[pos+match[0] : pos+match[1]])
			pos += match[1]
			value, _ := strconv.ParseFloat(repr, 32)
			if value == 0 {
				value = 0 // drop the sign of -0
			}
			_, err := strconv.ParseInt(repr, 10, 0)
			n := NumericToken{
				pos:            tokenPos,
				Representation: repr,
				IsInteger:      err == nil,
				Value:          utils.Fl(value),
			}
			if pos < length && isIdentStart(css, pos) {
				var unit string
				unit, pos = consumeIdent(css, pos)
				*ts = append(*ts, DimensionToken{NumericToken: n, Unit: unit})
			} else if pos < length && css[pos] == '%' {
				pos += 1
				*ts = append(*ts, PercentageToken(n))
			} else {
				*ts = append(*ts, NumberToken(n))
			}
			continue
		}

		switch c {
		case '@':
			pos += 1
			if pos < length && isIdentStart(css, pos) {
				var ident string
				ident, pos = consumeIdent(css, pos)
				*ts = append(*ts, AtKeywordToken{pos: tokenPos, Value: ident})
			} else {
				*ts = append(*ts, LiteralToken{pos: tokenPos, Value: "@"})
			}
		case '#':
			pos += 1
			if pos < length {
				r, _ := utf8.DecodeRune(css[pos:])
				if ('0' <= r && r <= '9' || 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || r == '-' || r == '_') ||
					r > 0x7F ||
					(r == '\\' && !bytes.HasPrefix(css[pos:], []byte("\\\n"))) {
					isIdentifier := isIdentStart(css, pos)
					var ident string
					ident, pos = consumeIdent(css, pos)
					*ts = append(*ts, HashToken{pos: tokenPos, Value: ident, IsIdentifier: isIdentifier})
					continue
				}
			}
			*ts = append(*ts, LiteralToken{pos: tokenPos, Value: "#"})
		case '{':
			block := CurlyBracketsBlock{pos: tokenPos, Content: new([]Token)}
			*ts = append(*ts, block)
			pushBlock(block.Content, '}')
			pos += 1
		case '[':
			block := SquareBracketsBlock{pos: tokenPos, Content: new([]Token)}
			*ts = append(*ts, block)
			pushBlock(block.Content, ']')
			pos += 1
		case '(':
			block := ParenthesesBlock{pos: tokenPos, Content: new([]Token)}
			*ts = append(*ts, block)
			pushBlock(block.Content, ')')
			pos += 1
		case 0:
			// never matches endChar at the top level
			pos += 1
		case endChar:
			// the top-level endChar is 0, so the stack is not empty here
			var block nestedBlock
			block, stack = stack[len(stack)-1], stack[:len(stack)-1]
			ts, endChar = block.tokens, block.endChar
			pos += 1
		case '}', ']', ')':
			*ts = append(*ts, ParseError{pos: tokenPos, Reason: string(rune(c)), Message: "Unmatched " + string(rune(c))})
			pos += 1
		case '\'', '"':
			var (
				quoted   string
				addValue bool
				err      error
			)
			quoted, pos, addValue, err = consumeQuotedString(css, pos)
			if addValue {
				*ts = append(*ts, StringToken{pos: tokenPos, Value: quoted})
			}
			if err != nil {
				*ts = append(*ts, ParseError{pos: tokenPos, Reason: err.Error(), Message: "bad string token"})
			}
		default:
			switch {
			case bytes.HasPrefix(css[pos:], []byte("/*")):
				index := bytes.Index(css[pos+2:], []byte("*/"))
				if index == -1 {
					if !skipComments {
						*ts = append(*ts, Comment{pos: tokenPos, Value: string(css[pos+2:])})
					}
					break mainLoop
				}
				if !skipComments {
					*ts = append(*ts, Comment{pos: tokenPos, Value: string(css[pos+2 : pos+2+index])})
				}
				pos += 2 + index + 2
			case bytes.HasPrefix(css[pos:], []byte("<!--")):
				*ts = append(*ts, LiteralToken{pos: tokenPos, Value: "<!--"})
				pos += 4
			case bytes.HasPrefix(css[pos:], []byte("||")):
				*ts = append(*ts, LiteralToken{pos: tokenPos, Value: "||"})
				pos += 2
			case c == '~' || c == '|' || c == '^' || c == '$' || c == '*':
				pos += 1
				if pos < length && css[pos] == '=' {
					pos += 1
					*ts = append(*ts, LiteralToken{pos: tokenPos, Value: string(rune(c)) + "="})
				} else {
					*ts = append(*ts, LiteralToken{pos: tokenPos, Value: string(rune(c))})
				}
			default:
				r, w := utf8.DecodeRune(css[pos:])
				pos += w
				*ts = append(*ts, LiteralToken{pos: tokenPos, Value: string(r)})
			}
		}
	}
	return out
}

// isNameStart reports whether the character at [pos] is a name-start code point.
// See https://www.w3.org/TR/css-syntax-3/#name-start-code-point
func isNameStart(css []byte, pos int) bool {
	c, _ := utf8.DecodeRune(css[pos:])
	return c > 0x7F || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_'
}

// isIdentStart reports whether [pos] starts a CSS identifier.
// See https://www.w3.org/TR/css-syntax-3/#would-start-an-identifier
func isIdentStart(css []byte, pos int) bool {
	switch {
	case isNameStart(css, pos):
		return true
	case css[pos] == '-':
		pos += 1
		if pos >= len(css) {
			return false
		}
		nameStart := isNameStart(css, pos) || css[pos] == '-'
		validEscape := css[pos] == '\\' && !bytes.HasPrefix(css[pos:], []byte("\\\n"))
		return nameStart || validEscape
	case css[pos] == '\\':
		return !bytes.HasPrefix(css[pos:], []byte("\\\n"))
	}
	return false
}

// See http://dev.w3.org/csswg/css-syntax/#consume-a-name
func consumeIdent(value []byte, pos int) (string, int) {
	var chunks strings.Builder
	L := len(value)
	startPos := pos
	for pos < L {
		c, w := utf8.DecodeRune(value[pos:])
		if c == '-' || c == '_' || '0' <= c && c <= '9' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c > 0x7F {
			pos += w
		} else if c == '\\' && !bytes.HasPrefix(value[pos:], []byte("\\\n")) {
			chunks.Write(value[startPos:pos])
			var car string
			car, pos = consumeEscape(value, pos+w)
			chunks.WriteString(car)
			startPos = pos
		} else {
			break
		}
	}
	chunks.Write(value[startPos:pos])
	return chunks.String(), pos
}

// consumeQuotedString returns the unescaped value, the new position,
// whether the value should be kept and an error for bad or unfinished strings.
// css[pos] is assumed to be a quote.
// See http://dev.w3.org/csswg/css-syntax/#consume-a-string-token
func consumeQuotedString(css []byte, pos int) (string, int, bool, error) {
	quote := rune(css[pos])
	pos += 1
	var chunks strings.Builder
	length := len(css)
	startPos := pos
	closed := false
mainLoop:
	for pos < length {
		c, w := utf8.DecodeRune(css[pos:])
		switch c {
		case quote:
			chunks.Write(css[startPos:pos])
			pos += w
			closed = true
			break mainLoop
		case '\\':
			chunks.Write(css[startPos:pos])
			pos += w
			if pos < length {
				if css[pos] == '\n' { // escaped newlines are ignored
					pos += 1
				} else {
					var cs string
					cs, pos = consumeEscape(css, pos)
					chunks.WriteString(cs)
				}
			}
			startPos = pos
		case '\n':
			return "", pos, false, errors.New("bad-string")
		default:
			pos += w
		}
	}
	var err error
	if !closed {
		chunks.Write(css[startPos:pos])
		err = errors.New("eof-in-string")
	}
	return chunks.String(), pos, true, err
}

// consumeEscape returns the unescaped character and the new position.
// [pos] is just after a '\' not followed by a newline.
// See http://dev.w3.org/csswg/css-syntax/#consume-an-escaped-character
func consumeEscape(css []byte, pos int) (string, int) {
	hexMatch := hexEscapeRe.FindSubmatch(css[pos:])
	if len(hexMatch) >= 2 {
		codepoint, err := strconv.ParseInt(string(hexMatch[1]), 16, 0)
		if err != nil {
			panic(fmt.Sprintf("codepoint should be valid hexadecimal, got %s", hexMatch[0]))
		}
		char := "\uFFFD"
		if 0 < codepoint && codepoint <= unicode.MaxRune {
			char = string(rune(codepoint))
		}
		return char, pos + len(hexMatch[0])
	} else if pos < len(css) {
		r, w := utf8.DecodeRune(css[pos:])
		return string(r), pos + w
	}
	return "\uFFFD", pos
}
