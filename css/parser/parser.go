package parser

import (
	"fmt"
	"strings"
)

// Compound is a parsed chunk of a declaration list:
// a [Declaration], an [AtRule] or a [ParseError].
type Compound interface {
	Pos() Pos
	isCompound()
}

type Declaration struct {
	Name      string
	Value     []Token
	pos       Pos
	Important bool
}

type AtRule struct {
	AtKeyword        string
	Prelude, Content []Token
	pos              Pos
}

func (Declaration) isCompound() {}
func (AtRule) isCompound()      {}
func (ParseError) isCompound()  {}

func (t Declaration) Pos() Pos { return t.pos }
func (t AtRule) Pos() Pos      { return t.pos }

// ParseDeclarationListString tokenizes [css], dropping comments, and calls
// [ParseDeclarationList].
func ParseDeclarationListString(css string) []Compound {
	return ParseDeclarationList(Tokenize([]byte(css), true))
}

// ParseDeclarationList parses a declaration list, as found in the "style"
// attribute of an HTML element. At-rules are returned as [AtRule] and should
// be rejected by callers not expecting them.
//
// Whitespace and comments at the top level of the list are dropped. They are
// kept in declaration values.
func ParseDeclarationList(input []Token) []Compound {
	tokens := NewIter(input)
	var result []Compound
	for tokens.HasNext() {
		switch token := tokens.Next().(type) {
		case WhitespaceToken, Comment:
		case AtKeywordToken:
			result = append(result, consumeAtRule(token, tokens))
		case LiteralToken:
			if token.Value != ";" {
				result = append(result, consumeDeclarationInList(token, tokens))
			}
		default:
			result = append(result, consumeDeclarationInList(token, tokens))
		}
	}
	return result
}

// consumeAtRule consumes just enough of [tokens] for the rule
// started by [atKeyword].
func consumeAtRule(atKeyword AtKeywordToken, tokens *TokensIter) AtRule {
	var prelude, content []Token
	for tokens.HasNext() {
		token := tokens.Next()
		if curly, ok := token.(CurlyBracketsBlock); ok {
			content = *curly.Content
			break
		}
		if lit, ok := token.(LiteralToken); ok && lit.Value == ";" {
			break
		}
		prelude = append(prelude, token)
	}
	return AtRule{AtKeyword: atKeyword.Value, Prelude: prelude, Content: content, pos: atKeyword.pos}
}

// consumeDeclarationInList is like [parseDeclaration], but stops at the first ";".
func consumeDeclarationInList(firstToken Token, tokens *TokensIter) Compound {
	var others []Token
	for tokens.HasNext() {
		token := tokens.Next()
		if lit, ok := token.(LiteralToken); ok && lit.Value == ";" {
			break
		}
		others = append(others, token)
	}
	return parseDeclaration(firstToken, NewIter(others))
}

// parseDeclaration consumes [tokens] until the end of the declaration
// and returns either a [ParseError] or a [Declaration].
func parseDeclaration(firstToken Token, tokens *TokensIter) Compound {
	name, ok := firstToken.(IdentToken)
	if !ok {
		return ParseError{
			pos:     firstToken.Pos(),
			Reason:  "invalid",
			Message: fmt.Sprintf("Expected <ident> for declaration name, got %s.", firstToken.Kind()),
		}
	}
	colon := tokens.NextSignificant()
	if colon == nil {
		return ParseError{pos: firstToken.Pos(), Reason: "invalid", Message: "Expected ':' after declaration name, got EOF"}
	}
	if lit, ok := colon.(LiteralToken); !ok || lit.Value != ":" {
		return ParseError{
			pos:     colon.Pos(),
			Reason:  "invalid",
			Message: fmt.Sprintf("Expected ':' after declaration name, got %s.", colon.Kind()),
		}
	}

	const (
		sValue = iota
		sBang
		sImportant
	)
	var (
		value           []Token
		state           = sValue
		bangPosition, i = 0, -1
	)
	for tokens.HasNext() {
		i += 1
		token := tokens.Next()
		switch token := token.(type) {
		case LiteralToken:
			if state == sValue && token.Value == "!" {
				state = sBang
				bangPosition = i
			} else {
				state = sValue
			}
		case IdentToken:
			if state == sBang && strings.EqualFold(token.Value, "important") {
				state = sImportant
			} else {
				state = sValue
			}
		case WhitespaceToken, Comment:
		default:
			state = sValue
		}
		value = append(value, token)
	}

	if state == sImportant {
		value = value[:bangPosition]
	}

	return Declaration{
		pos:       name.pos,
		Name:      name.Value,
		Value:     value,
		Important: state == sImportant,
	}
}
