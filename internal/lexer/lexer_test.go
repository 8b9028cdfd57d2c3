package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rustlite/rlc/internal/lexer"
	"github.com/rustlite/rlc/internal/token"
)

func kinds(t *testing.T, toks []token.Token) []token.Kind {
	t.Helper()
	ks := make([]token.Kind, len(toks))
	for i, tok := range toks {
		ks[i] = tok.Kind
	}
	return ks
}

func TestLex_KeywordsClassifySeparatelyFromIdentifiers(t *testing.T) {
	toks, err := lexer.Lex(0, "fn answer count")
	require.NoError(t, err)
	require.Equal(t, []token.Kind{token.Keyword, token.Identifier, token.Identifier, token.EOF}, kinds(t, toks))
}

func TestLex_MaximalMunchPrefersLongerOperators(t *testing.T) {
	toks, err := lexer.Lex(0, "a >>= b")
	require.NoError(t, err)
	require.Equal(t, ">>=", toks[1].Text)
}

func TestLex_NumberSuffixIsPartOfTheTokenText(t *testing.T) {
	toks, err := lexer.Lex(0, "42i32 7usize")
	require.NoError(t, err)
	require.Equal(t, "42i32", toks[0].Text)
	require.Equal(t, "7usize", toks[1].Text)
}

func TestLex_DigitSeparatorsSurviveIntoText(t *testing.T) {
	toks, err := lexer.Lex(0, "1_000_000")
	require.NoError(t, err)
	require.Equal(t, "1_000_000", toks[0].Text)
}

func TestLex_StringEscapesDecodeIntoValueButNotText(t *testing.T) {
	toks, err := lexer.Lex(0, `"a\nb"`)
	require.NoError(t, err)
	require.Equal(t, `"a\nb"`, toks[0].Text)
	require.Equal(t, "a\nb", toks[0].Value)
}

func TestLex_CStringGetsItsOwnKind(t *testing.T) {
	toks, err := lexer.Lex(0, `c"hi"`)
	require.NoError(t, err)
	require.Equal(t, token.CString, toks[0].Kind)
	require.Equal(t, "hi", toks[0].Value)
}

func TestLex_LineAndBlockCommentsAreSkipped(t *testing.T) {
	toks, err := lexer.Lex(0, "a // trailing comment\n/* block */ b")
	require.NoError(t, err)
	require.Equal(t, []token.Kind{token.Identifier, token.Identifier, token.EOF}, kinds(t, toks))
}

func TestLex_NestedBlockCommentsTrackDepth(t *testing.T) {
	toks, err := lexer.Lex(0, "/* outer /* inner */ still-comment */ a")
	require.NoError(t, err)
	require.Len(t, toks, 2)
	require.Equal(t, "a", toks[0].Text)
}

func TestLex_UnterminatedStringIsALexError(t *testing.T) {
	_, err := lexer.Lex(0, `"never closes`)
	require.Error(t, err)
}

func TestLex_IllegalCharacterIsReported(t *testing.T) {
	_, err := lexer.Lex(0, "$")
	require.Error(t, err)
}

func TestLex_ColonColonIsOneSeparatorToken(t *testing.T) {
	toks, err := lexer.Lex(0, "a::b")
	require.NoError(t, err)
	require.Equal(t, "::", toks[1].Text)
	require.Equal(t, token.Separator, toks[1].Kind)
}

func TestLex_DelimitersClassifySeparatelyFromOperators(t *testing.T) {
	toks, err := lexer.Lex(0, "(a)")
	require.NoError(t, err)
	require.Equal(t, token.Delimiter, toks[0].Kind)
	require.Equal(t, token.Delimiter, toks[2].Kind)
}

func TestLex_EveryStreamEndsInExactlyOneEOF(t *testing.T) {
	toks, err := lexer.Lex(0, "let x = 1i32;")
	require.NoError(t, err)
	require.Equal(t, token.EOF, toks[len(toks)-1].Kind)
}
