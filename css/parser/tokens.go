package parser

import (
	"fmt"
	"strings"

	"github.com/ariya/phantomjs-sub051/utils"
)

// Pos is the position of a token in the input, starting at 1:1.
type Pos struct {
	Line, Column int
}

func newPosition(line, column int) Pos { return Pos{Line: line, Column: column} }

func (p Pos) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Column) }

// Kind identifies the type of a [Token].
type Kind uint8

const (
	KWhitespace Kind = iota
	KComment
	KIdent
	KAtKeyword
	KHash
	KString
	KNumber
	KPercentage
	KDimension
	KLiteral
	KFunctionBlock
	KParenthesesBlock
	KSquareBracketsBlock
	KCurlyBracketsBlock
	KParseError
)

func (k Kind) String() string {
	switch k {
	case KWhitespace:
		return "whitespace"
	case KComment:
		return "comment"
	case KIdent:
		return "ident"
	case KAtKeyword:
		return "at-keyword"
	case KHash:
		return "hash"
	case KString:
		return "string"
	case KNumber:
		return "number"
	case KPercentage:
		return "percentage"
	case KDimension:
		return "dimension"
	case KLiteral:
		return "literal"
	case KFunctionBlock:
		return "function"
	case KParenthesesBlock:
		return "() block"
	case KSquareBracketsBlock:
		return "[] block"
	case KCurlyBracketsBlock:
		return "{} block"
	case KParseError:
		return "error"
	default:
		return fmt.Sprintf("<kind %d>", k)
	}
}

// Token is a component value of a CSS input.
type Token interface {
	Pos() Pos
	Kind() Kind
	serializeTo(w *strings.Builder)
}

type (
	WhitespaceToken struct {
		pos   Pos
		Value string
	}
	Comment struct {
		pos   Pos
		Value string
	}
	// IdentToken stores the unescaped identifier, with its original case.
	IdentToken struct {
		pos   Pos
		Value string
	}
	AtKeywordToken struct {
		pos   Pos
		Value string
	}
	HashToken struct {
		pos          Pos
		Value        string
		IsIdentifier bool
	}
	StringToken struct {
		pos   Pos
		Value string
	}
	LiteralToken struct {
		pos   Pos
		Value string
	}
)

// NumericToken is shared by numbers, percentages and dimensions.
// [Representation] is the number as written in the input.
type NumericToken struct {
	pos            Pos
	Representation string
	Value          utils.Fl
	IsInteger      bool
}

type (
	NumberToken     NumericToken
	PercentageToken NumericToken
	DimensionToken  struct {
		NumericToken
		Unit string
	}
)

// FunctionBlock is a function call like "calc(...)".
type FunctionBlock struct {
	pos       Pos
	Name      string
	Arguments *[]Token
}

type (
	ParenthesesBlock struct {
		pos     Pos
		Content *[]Token
	}
	SquareBracketsBlock struct {
		pos     Pos
		Content *[]Token
	}
	CurlyBracketsBlock struct {
		pos     Pos
		Content *[]Token
	}
)

// ParseError is both a token (for invalid input detected by the tokenizer)
// and a [Compound] (for invalid declarations).
type ParseError struct {
	pos     Pos
	Reason  string
	Message string
}

func (t WhitespaceToken) Pos() Pos     { return t.pos }
func (t Comment) Pos() Pos             { return t.pos }
func (t IdentToken) Pos() Pos          { return t.pos }
func (t AtKeywordToken) Pos() Pos      { return t.pos }
func (t HashToken) Pos() Pos           { return t.pos }
func (t StringToken) Pos() Pos         { return t.pos }
func (t LiteralToken) Pos() Pos        { return t.pos }
func (t NumberToken) Pos() Pos         { return t.pos }
func (t PercentageToken) Pos() Pos     { return t.pos }
func (t DimensionToken) Pos() Pos      { return t.pos }
func (t FunctionBlock) Pos() Pos       { return t.pos }
func (t ParenthesesBlock) Pos() Pos    { return t.pos }
func (t SquareBracketsBlock) Pos() Pos { return t.pos }
func (t CurlyBracketsBlock) Pos() Pos  { return t.pos }
func (t ParseError) Pos() Pos          { return t.pos }

func (WhitespaceToken) Kind() Kind     { return KWhitespace }
func (Comment) Kind() Kind             { return KComment }
func (IdentToken) Kind() Kind          { return KIdent }
func (AtKeywordToken) Kind() Kind      { return KAtKeyword }
func (HashToken) Kind() Kind           { return KHash }
func (StringToken) Kind() Kind         { return KString }
func (LiteralToken) Kind() Kind        { return KLiteral }
func (NumberToken) Kind() Kind         { return KNumber }
func (PercentageToken) Kind() Kind     { return KPercentage }
func (DimensionToken) Kind() Kind      { return KDimension }
func (FunctionBlock) Kind() Kind       { return KFunctionBlock }
func (ParenthesesBlock) Kind() Kind    { return KParenthesesBlock }
func (SquareBracketsBlock) Kind() Kind { return KSquareBracketsBlock }
func (CurlyBracketsBlock) Kind() Kind  { return KCurlyBracketsBlock }
func (ParseError) Kind() Kind          { return KParseError }

// TokensIter walks a list of tokens.
type TokensIter struct {
	tokens []Token
	index  int
}

func NewIter(tokens []Token) *TokensIter { return &TokensIter{tokens: tokens} }

func (it *TokensIter) HasNext() bool { return it.index < len(it.tokens) }

// Next returns the next token. It must only be called when [HasNext] is true.
func (it *TokensIter) Next() Token {
	t := it.tokens[it.index]
	it.index++
	return t
}

// NextSignificant returns the next token that is neither whitespace nor
// a comment, or nil at the end of the input.
func (it *TokensIter) NextSignificant() Token {
	for it.HasNext() {
		switch t := it.Next(); t.Kind() {
		case KWhitespace, KComment:
		default:
			return t
		}
	}
	return nil
}
