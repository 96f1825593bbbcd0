package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leoscript/leoscript/lexer"
	"github.com/leoscript/leoscript/token"
)

func kinds(t *testing.T, src string) []token.Kind {
	t.Helper()
	toks, err := lexer.Tokenize("test.leo", src)
	require.NoError(t, err)
	var ks []token.Kind
	for _, tok := range toks {
		ks = append(ks, tok.Kind)
	}
	return ks
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	assert.Equal(t, []token.Kind{token.Function, token.Identifier, token.End, token.EOF},
		kinds(t, "function main end"))
}

func TestEndIsCaseInsensitive(t *testing.T) {
	for _, src := range []string{"end", "End", "END", "eNd"} {
		toks, err := lexer.Tokenize("t.leo", src)
		require.NoError(t, err)
		require.Len(t, toks, 2)
		assert.Equal(t, token.End, toks[0].Kind)
	}
}

func TestColonColonIsOneToken(t *testing.T) {
	toks, err := lexer.Tokenize("t.leo", "a::b")
	require.NoError(t, err)
	require.Len(t, toks, 4)
	assert.Equal(t, token.ColonColon, toks[1].Kind)
}

func TestLineComment(t *testing.T) {
	assert.Equal(t, []token.Kind{token.Identifier, token.EOF}, kinds(t, "a -- this is ignored\n"))
}

func TestStringEscapes(t *testing.T) {
	toks, err := lexer.Tokenize("t.leo", `"a\nb\t\"c\\"`)
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, "a\nb\t\"c\\", toks[0].Text)
}

func TestNumberLiterals(t *testing.T) {
	toks, err := lexer.Tokenize("t.leo", "1 2.5 10")
	require.NoError(t, err)
	assert.Equal(t, token.Integer, toks[0].Kind)
	assert.Equal(t, token.Float, toks[1].Kind)
	assert.Equal(t, "2.5", toks[1].Text)
	assert.Equal(t, token.Integer, toks[2].Kind)
}

func TestPositionsTrackLineAndColumn(t *testing.T) {
	toks, err := lexer.Tokenize("t.leo", "a\n  b")
	require.NoError(t, err)
	assert.Equal(t, 1, toks[0].Pos.Line)
	assert.Equal(t, 1, toks[0].Pos.Column)
	assert.Equal(t, 2, toks[1].Pos.Line)
	assert.Equal(t, 3, toks[1].Pos.Column)
}

func TestUnterminatedStringIsError(t *testing.T) {
	_, err := lexer.Tokenize("t.leo", `"abc`)
	require.Error(t, err)
}

func TestOperators(t *testing.T) {
	assert.Equal(t, []token.Kind{
		token.Plus, token.Minus, token.Star, token.Slash, token.Caret,
		token.EqualEqual, token.NotEqual, token.Less, token.LessEqual,
		token.Greater, token.GreaterEqual, token.Equal, token.EOF,
	}, kinds(t, "+ - * / ^ == != < <= > >= ="))
}
