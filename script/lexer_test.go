package script

import (
	"testing"

	"github.com/matryer/is"
)

func allTokens(t *testing.T, src string) []Token {
	t.Helper()
	is := is.New(t)
	lex := NewLexer(src)
	var toks []Token
	for {
		tok, err := lex.Next()
		is.True(err == nil)
		if tok.Kind == TokenEOF {
			return toks
		}
		toks = append(toks, tok)
	}
}

func TestLexerPunctuationAndOperators(t *testing.T) {
	is := is.New(t)
	toks := allTokens(t, `( ) := :! :+ :- == .. ..= $`)
	kinds := make([]TokenKind, len(toks))
	for i, tok := range toks {
		kinds[i] = tok.Kind
	}
	is.Equal(kinds, []TokenKind{
		TokenParenOpen, TokenParenClose, TokenColonEqual, TokenColonNegated,
		TokenColonPlus, TokenColonMinus, TokenDoubleEqual, TokenRange, TokenRange, TokenDollarSign,
	})
	is.True(!toks[7].RangeInclusive)
	is.True(toks[8].RangeInclusive)
}

func TestLexerSymbolAllowsDigitsUnderscoreDollar(t *testing.T) {
	is := is.New(t)
	toks := allTokens(t, `mood health_2 item$sub`)
	is.Equal(len(toks), 3)
	for _, tok := range toks {
		is.Equal(tok.Kind, TokenSymbol)
	}
	is.Equal(toks[0].Symbol, "mood")
	is.Equal(toks[1].Symbol, "health_2")
	is.Equal(toks[2].Symbol, "item$sub")
}

func TestLexerNumberVariants(t *testing.T) {
	is := is.New(t)
	toks := allTokens(t, `0 42 -7 3.14 -0.5 1e3 2.5E-2`)
	want := []float32{0, 42, -7, 3.14, -0.5, 1e3, 2.5e-2}
	is.Equal(len(toks), len(want))
	for i, tok := range toks {
		is.Equal(tok.Kind, TokenNumber)
		is.Equal(tok.Number, want[i])
	}
}

func TestLexerStringLiteralStripsQuotes(t *testing.T) {
	is := is.New(t)
	toks := allTokens(t, `"hello there"`)
	is.Equal(len(toks), 1)
	is.Equal(toks[0].Kind, TokenString)
	is.Equal(toks[0].String, "hello there")
}

func TestLexerTracksLineAndColumn(t *testing.T) {
	is := is.New(t)
	toks := allTokens(t, "one\ntwo")
	is.Equal(toks[0].Line, 1)
	is.Equal(toks[1].Line, 2)
	is.Equal(toks[1].Column, 1)
}

func TestLexerUnrecognizedCharacterErrors(t *testing.T) {
	is := is.New(t)
	lex := NewLexer(`@`)
	_, err := lex.Next()
	is.True(err != nil)
}

func TestLexerSkipsWhitespace(t *testing.T) {
	is := is.New(t)
	toks := allTokens(t, "  \t\n  mood  \n")
	is.Equal(len(toks), 1)
	is.Equal(toks[0].Symbol, "mood")
}
