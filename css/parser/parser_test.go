package parser

import (
	"testing"

	tu "github.com/ariya/phantomjs-sub051/utils/testutils"
)

func kinds(tokens []Token) []Kind {
	out := make([]Kind, len(tokens))
	for i, t := range tokens {
		out[i] = t.Kind()
	}
	return out
}

func TestTokenizeKinds(t *testing.T) {
	for _, test := range []struct {
		css      string
		expected []Kind
	}{
		{"width: 10px", []Kind{KIdent, KLiteral, KWhitespace, KDimension}},
		{"-webkit-margin-collapse:discard", []Kind{KIdent, KLiteral, KIdent}},
		{"50% 2 -0", []Kind{KPercentage, KWhitespace, KNumber, KWhitespace, KNumber}},
		{"@media #id 'a'", []Kind{KAtKeyword, KWhitespace, KHash, KWhitespace, KString}},
		{"f(1) (a) [b] {c}", []Kind{KFunctionBlock, KWhitespace, KParenthesesBlock, KWhitespace, KSquareBracketsBlock, KWhitespace, KCurlyBracketsBlock}},
		{"a/* b */c", []Kind{KIdent, KIdent}},
		{"a ) -", []Kind{KIdent, KWhitespace, KParseError, KWhitespace, KLiteral}},
		{"a /* unclosed", []Kind{KIdent, KWhitespace}},
	} {
		tu.AssertEqual(t, kinds(Tokenize([]byte(test.css), true)), test.expected)
	}

	tu.AssertEqual(t, kinds(Tokenize([]byte("a/* b */"), false)), []Kind{KIdent, KComment})
}

func TestTokenizeValues(t *testing.T) {
	tokens := Tokenize([]byte(`-3.5PX 25% 2 -0 "a\"b" \66 oo`), true)
	if len(tokens) != 11 {
		t.Fatalf("unexpected tokens %v", tokens)
	}

	dim := tokens[0].(DimensionToken)
	tu.AssertEqual(t, dim.Representation, "-3.5")
	tu.AssertEqual(t, float64(dim.Value), -3.5)
	tu.AssertEqual(t, dim.Unit, "PX")
	tu.AssertEqual(t, dim.IsInteger, false)

	tu.AssertEqual(t, float64(tokens[2].(PercentageToken).Value), 25.)
	tu.AssertEqual(t, tokens[4].(NumberToken).IsInteger, true)
	tu.AssertEqual(t, float64(tokens[6].(NumberToken).Value), 0.)
	tu.AssertEqual(t, tokens[8].(StringToken).Value, `a"b`)
	// the hexadecimal escape and its trailing space make one identifier
	tu.AssertEqual(t, tokens[10].(IdentToken).Value, "foo")
}

func TestTokenizePositions(t *testing.T) {
	tokens := Tokenize([]byte("a\n  b"), true)
	tu.AssertEqual(t, tokens[0].Pos(), Pos{1, 1})
	tu.AssertEqual(t, tokens[2].Pos(), Pos{2, 3})
	tu.AssertEqual(t, tokens[2].Pos().String(), "2:3")
}

type declaration struct {
	name, value string
	important   bool
}

func parseList(t *testing.T, css string) (decls []declaration, errors int, atRules []string) {
	t.Helper()
	for _, c := range ParseDeclarationListString(css) {
		switch c := c.(type) {
		case Declaration:
			decls = append(decls, declaration{c.Name, Serialize(c.Value), c.Important})
		case ParseError:
			errors++
		case AtRule:
			atRules = append(atRules, c.AtKeyword)
		}
	}
	return decls, errors, atRules
}

func TestDeclarationList(t *testing.T) {
	for _, test := range []struct {
		css      string
		expected []declaration
	}{
		{"width: 10px; /* keep; this */ height: 20px", []declaration{{"width", " 10px", false}, {"height", " 20px", false}}},
		{`content: "a;b"; WIDTH:1px`, []declaration{{"content", ` "a;b"`, false}, {"WIDTH", "1px", false}}},
		{"width: calc(1px; 2px); height: 1px", []declaration{{"width", " calc(1px; 2px)", false}, {"height", " 1px", false}}},
		{"width: 1px !important; height: 2px ! IMPORTANT", []declaration{{"width", " 1px ", true}, {"height", " 2px ", true}}},
		{"width: 1px !important 2px", []declaration{{"width", " 1px !important 2px", false}}},
		{"width: 1px /* unclosed", []declaration{{"width", " 1px ", false}}},
		{"padding-top:", []declaration{{"padding-top", "", false}}},
		{" ; ;", nil},
	} {
		decls, errors, _ := parseList(t, test.css)
		tu.AssertEqual(t, errors, 0)
		tu.AssertEqual(t, decls, test.expected)
	}
}

func TestDeclarationListErrors(t *testing.T) {
	decls, errors, _ := parseList(t, "10px: a; : b; width 1px; height")
	tu.AssertEqual(t, len(decls), 0)
	tu.AssertEqual(t, errors, 4)

	decls, errors, atRules := parseList(t, "@media print { width: 1px }; height: 1px")
	tu.AssertEqual(t, errors, 0)
	tu.AssertEqual(t, atRules, []string{"media"})
	tu.AssertEqual(t, decls, []declaration{{"height", " 1px", false}})
}

func TestSerialize(t *testing.T) {
	for _, css := range []string{
		`a "b\"c" #id 1.50em 10% (x) [y] {z} f(1, 2)`,
		"margin: 0 auto",
		"@page a/**/b",
	} {
		tu.AssertEqual(t, Serialize(Tokenize([]byte(css), false)), css)
	}
	tu.AssertEqual(t, Serialize(Tokenize([]byte("a/**/b"), true)), "ab")
}
