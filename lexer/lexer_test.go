package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func allTokens(t *testing.T, src string) []Token {
	t.Helper()
	lex := New(NewStringSource(src))
	var toks []Token
	for {
		tok, err := lex.NextToken()
		assert.NoError(t, err)
		if tok.Type == EOS {
			break
		}
		toks = append(toks, tok)
	}
	return toks
}

func TestLexer_Punctuation(t *testing.T) {
	toks := allTokens(t, "( ) { } [ ] . , ;")
	want := []TokenType{LPAREN, RPAREN, LBRACE, RBRACE, LBRACKET, RBRACKET, DOT, COMMA, SEMICOLON}
	assert.Len(t, toks, len(want))
	for i, w := range want {
		assert.Equal(t, w, toks[i].Type)
	}
}

func TestLexer_Operators(t *testing.T) {
	toks := allTokens(t, "= == != < <= > >= + - * /")
	want := []TokenType{ASSIGN, EQUAL, NOT_EQUAL, LESS, LESS_EQ, GREATER, GREATER_EQ, PLUS, MINUS, TIMES, DIVIDE}
	assert.Len(t, toks, len(want))
	for i, w := range want {
		assert.Equal(t, w, toks[i].Type)
	}
}

func TestLexer_BareBangIsError(t *testing.T) {
	lex := New(NewStringSource("!"))
	_, err := lex.NextToken()
	assert.Error(t, err)
}

func TestLexer_KeywordsAndIdentifiers(t *testing.T) {
	toks := allTokens(t, "struct array for while if elseif else new return int double bool string void true false null foo_Bar9")
	assert.Equal(t, STRUCT, toks[0].Type)
	assert.Equal(t, ARRAY, toks[1].Type)
	assert.Equal(t, FOR, toks[2].Type)
	assert.Equal(t, WHILE, toks[3].Type)
	assert.Equal(t, IF, toks[4].Type)
	assert.Equal(t, ELSEIF, toks[5].Type)
	assert.Equal(t, ELSE, toks[6].Type)
	assert.Equal(t, NEW, toks[7].Type)
	assert.Equal(t, RETURN, toks[8].Type)
	assert.Equal(t, INT_TYPE, toks[9].Type)
	assert.Equal(t, DOUBLE_TYPE, toks[10].Type)
	assert.Equal(t, BOOL_TYPE, toks[11].Type)
	assert.Equal(t, STRING_TYPE, toks[12].Type)
	assert.Equal(t, VOID_TYPE, toks[13].Type)
	assert.Equal(t, BOOL_VAL, toks[14].Type)
	assert.Equal(t, BOOL_VAL, toks[15].Type)
	assert.Equal(t, NULL_VAL, toks[16].Type)
	assert.Equal(t, ID, toks[17].Type)
	assert.Equal(t, "foo_Bar9", toks[17].Lexeme)
}

func TestLexer_Numbers(t *testing.T) {
	toks := allTokens(t, "0 7 42 3.14 0.5")
	assert.Equal(t, INT_VAL, toks[0].Type)
	assert.Equal(t, INT_VAL, toks[1].Type)
	assert.Equal(t, INT_VAL, toks[2].Type)
	assert.Equal(t, "42", toks[2].Lexeme)
	assert.Equal(t, DOUBLE_VAL, toks[3].Type)
	assert.Equal(t, "3.14", toks[3].Lexeme)
	assert.Equal(t, DOUBLE_VAL, toks[4].Type)
}

func TestLexer_LeadingZeroIsError(t *testing.T) {
	lex := New(NewStringSource("007"))
	_, err := lex.NextToken()
	assert.Error(t, err)
}

func TestLexer_TrailingDotIsError(t *testing.T) {
	lex := New(NewStringSource("7."))
	_, err := lex.NextToken()
	assert.Error(t, err)
}

func TestLexer_StringLiteral(t *testing.T) {
	toks := allTokens(t, `"hello\nworld"`)
	assert.Equal(t, STRING_VAL, toks[0].Type)
	assert.Equal(t, `hello\nworld`, toks[0].Lexeme)
}

func TestLexer_MultilineStringIsError(t *testing.T) {
	lex := New(NewStringSource("\"abc\ndef\""))
	_, err := lex.NextToken()
	assert.Error(t, err)
}

func TestLexer_CommentIsSurfaced(t *testing.T) {
	lex := New(NewStringSource("// a comment\n1"))
	tok, err := lex.NextToken()
	assert.NoError(t, err)
	assert.Equal(t, COMMENT, tok.Type)
	tok, err = lex.NextToken()
	assert.NoError(t, err)
	assert.Equal(t, INT_VAL, tok.Type)
}

func TestLexer_LineColumnTracking(t *testing.T) {
	lex := New(NewStringSource("a\nb"))
	tok1, _ := lex.NextToken()
	tok2, _ := lex.NextToken()
	assert.Equal(t, 1, tok1.Line)
	assert.Equal(t, 2, tok2.Line)
}
