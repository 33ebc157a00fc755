// © 2026 RTForge
//
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rtforge/appconfc/internal/cfg"
	"github.com/rtforge/appconfc/internal/exc"
	"github.com/rtforge/appconfc/internal/fs"
)

func lexTokens(t *testing.T, input string) ([]*cfg.Token, exc.Reporter) {
	t.Helper()

	ctx := context.Background()
	rep := exc.NewReporter(nil)
	lexer := NewLexerApp(rep)
	lf, err := lexer.Lex(ctx, fs.NewFileString("/test.rtapp", input, cfg.FileKindApp))
	require.Nil(t, err)
	stream, err := lf.Tokens(ctx)
	require.Nil(t, err)
	tokens := []*cfg.Token{}
	for tok := stream.Next(ctx); tok.IsPresent(); tok = stream.Next(ctx) {
		tokens = append(tokens, tok.Value())
	}
	return tokens, rep
}

func TestLexer(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		input  string
		kinds  []cfg.TokenType
		values []string
	}{
		{
			name:   "field",
			input:  "device: stm32",
			kinds:  []cfg.TokenType{cfg.TokenTypeIdentifier, cfg.TokenTypeColon, cfg.TokenTypeIdentifier, cfg.TokenTypeEOF},
			values: []string{"device", ":", "stm32", ""},
		},
		{
			name:   "path separator",
			input:  "Foo::new",
			kinds:  []cfg.TokenType{cfg.TokenTypeIdentifier, cfg.TokenTypeColonColon, cfg.TokenTypeIdentifier, cfg.TokenTypeEOF},
			values: []string{"Foo", "::", "new", ""},
		},
		{
			name:   "keywords",
			input:  "true false truey",
			kinds:  []cfg.TokenType{cfg.TokenTypeKeywordTrue, cfg.TokenTypeKeywordFalse, cfg.TokenTypeIdentifier, cfg.TokenTypeEOF},
			values: []string{"true", "false", "truey", ""},
		},
		{
			name:  "integer bases",
			input: "0 42 0xFF 0o17 0b1010 1_000",
			kinds: []cfg.TokenType{
				cfg.TokenTypeIntegerDecimal,
				cfg.TokenTypeIntegerDecimal,
				cfg.TokenTypeIntegerHex,
				cfg.TokenTypeIntegerOctal,
				cfg.TokenTypeIntegerBinary,
				cfg.TokenTypeIntegerDecimal,
				cfg.TokenTypeEOF,
			},
			values: []string{"0", "42", "0xFF", "0o17", "0b1010", "1_000", ""},
		},
		{
			name:   "text literal with escapes",
			input:  `"on\n"`,
			kinds:  []cfg.TokenType{cfg.TokenTypeText, cfg.TokenTypeEOF},
			values: []string{"on\n", ""},
		},
		{
			name:   "line comment",
			input:  "x // note\ny",
			kinds:  []cfg.TokenType{cfg.TokenTypeIdentifier, cfg.TokenTypeComment, cfg.TokenTypeNewline, cfg.TokenTypeIdentifier, cfg.TokenTypeEOF},
			values: []string{"x", " note", "\n", "y", ""},
		},
		{
			name:  "delimiters and punctuation",
			input: "{}[]() , ; = .",
			kinds: []cfg.TokenType{
				cfg.TokenTypeCurlyOpen, cfg.TokenTypeCurlyClose,
				cfg.TokenTypeSquareOpen, cfg.TokenTypeSquareClose,
				cfg.TokenTypeParenOpen, cfg.TokenTypeParenClose,
				cfg.TokenTypeComma, cfg.TokenTypeSemicolon,
				cfg.TokenTypeEqual, cfg.TokenTypeDot,
				cfg.TokenTypeEOF,
			},
			values: []string{"{", "}", "[", "]", "(", ")", ",", ";", "=", ".", ""},
		},
		{
			name:  "operators",
			input: "< > + - * / % & | ^ ! ? @",
			kinds: []cfg.TokenType{
				cfg.TokenTypeAngleOpen, cfg.TokenTypeAngleClose,
				cfg.TokenTypePlus, cfg.TokenTypeMinus, cfg.TokenTypeStar,
				cfg.TokenTypeSlash, cfg.TokenTypePercent,
				cfg.TokenTypeAmpersand, cfg.TokenTypePipe, cfg.TokenTypeCaret,
				cfg.TokenTypeExclamation, cfg.TokenTypeQuestion, cfg.TokenTypeAt,
				cfg.TokenTypeEOF,
			},
			values: []string{"<", ">", "+", "-", "*", "/", "%", "&", "|", "^", "!", "?", "@", ""},
		},
		{
			name:   "windows newline",
			input:  "a\r\nb",
			kinds:  []cfg.TokenType{cfg.TokenTypeIdentifier, cfg.TokenTypeNewline, cfg.TokenTypeIdentifier, cfg.TokenTypeEOF},
			values: []string{"a", "\r\n", "b", ""},
		},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			tokens, rep := lexTokens(t, testCase.input)
			require.Empty(t, rep.Reported())
			kinds := make([]cfg.TokenType, 0, len(tokens))
			values := make([]string, 0, len(tokens))
			for _, tok := range tokens {
				kinds = append(kinds, tok.Type)
				values = append(values, tok.Value)
			}
			require.Equal(t, testCase.kinds, kinds)
			require.Equal(t, testCase.values, values)
		})
	}
}

func TestLexerErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		input string
		code  string
	}{
		{
			name:  "invalid character",
			input: "device: #",
			code:  exc.CodeInvalidCharacter,
		},
		{
			name:  "integer suffix",
			input: "1f",
			code:  exc.CodeInvalidNumber,
		},
		{
			name:  "hex digit out of base",
			input: "0b12",
			code:  exc.CodeInvalidNumber,
		},
		{
			name:  "missing digits after base prefix",
			input: "0x",
			code:  exc.CodeInvalidNumber,
		},
		{
			name:  "unterminated text literal",
			input: `"on`,
			code:  exc.CodeUnexpectedEOF,
		},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			tokens, rep := lexTokens(t, testCase.input)
			caught := rep.Reported()
			require.Len(t, caught, 1)
			require.Equal(t, testCase.code, caught[0].Code())
			// A failed stream must not end in an EOF token that the tree
			// builder could mistake for a clean end of input.
			if len(tokens) > 0 {
				require.NotEqual(t, cfg.TokenTypeEOF, tokens[len(tokens)-1].Type)
			}
		})
	}
}

func TestLexerSpans(t *testing.T) {
	t.Parallel()

	tokens, rep := lexTokens(t, "ab cd")
	require.Empty(t, rep.Reported())
	require.Len(t, tokens, 3)

	first := tokens[0]
	require.Equal(t, int32(1), first.Span.Start.Line)
	require.Equal(t, int32(0), first.Span.Start.Column)
	require.Equal(t, int32(2), first.Span.End.Column)

	second := tokens[1]
	require.Equal(t, int32(1), second.Span.Start.Line)
	require.Equal(t, int32(3), second.Span.Start.Column)
	require.Equal(t, int32(5), second.Span.End.Column)
}
