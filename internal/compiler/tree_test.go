// © 2026 RTForge
//
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/rtforge/appconfc/internal/cfg"
	"github.com/rtforge/appconfc/internal/exc"
	"github.com/rtforge/appconfc/internal/fs"
)

var ignoreSpans = []cmp.Option{
	cmpopts.IgnoreFields(cfg.Token{}, "Span"),
	cmpopts.IgnoreFields(cfg.Group{}, "Span"),
}

func buildTestTrees(t *testing.T, input string) ([]cfg.Tree, error) {
	t.Helper()

	ctx := context.Background()
	rep := exc.NewReporter(nil)
	lexer := NewLexerApp(rep)
	lf, err := lexer.Lex(ctx, fs.NewFileString("/test.rtapp", input, cfg.FileKindApp))
	require.Nil(t, err)
	stream, err := lf.Tokens(ctx)
	require.Nil(t, err)
	return buildTrees(ctx, "/test.rtapp", stream)
}

func testLeaf(kind cfg.TokenType, value string) cfg.Tree {
	return cfg.Leaf{Token: cfg.Token{Type: kind, Value: value}}
}

func TestBuildTrees(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected []cfg.Tree
	}{
		{
			name:  "flat group",
			input: "{a: b}",
			expected: []cfg.Tree{
				cfg.Group{
					Delim: cfg.DelimiterBrace,
					Trees: []cfg.Tree{
						testLeaf(cfg.TokenTypeIdentifier, "a"),
						testLeaf(cfg.TokenTypeColon, ":"),
						testLeaf(cfg.TokenTypeIdentifier, "b"),
					},
				},
			},
		},
		{
			name:  "nested delimiters",
			input: "{[()]}",
			expected: []cfg.Tree{
				cfg.Group{
					Delim: cfg.DelimiterBrace,
					Trees: []cfg.Tree{
						cfg.Group{
							Delim: cfg.DelimiterBracket,
							Trees: []cfg.Tree{
								cfg.Group{
									Delim: cfg.DelimiterParen,
									Trees: []cfg.Tree{},
								},
							},
						},
					},
				},
			},
		},
		{
			name:  "newlines and comments dropped",
			input: "{\n// setup\na\n}",
			expected: []cfg.Tree{
				cfg.Group{
					Delim: cfg.DelimiterBrace,
					Trees: []cfg.Tree{
						testLeaf(cfg.TokenTypeIdentifier, "a"),
					},
				},
			},
		},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			trees, err := buildTestTrees(t, testCase.input)
			require.Nil(t, err)
			if diff := cmp.Diff(testCase.expected, trees, ignoreSpans...); diff != "" {
				t.Fatalf("tree mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildTreesErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		input string
		code  string
	}{
		{
			name:  "unclosed group",
			input: "{a",
			code:  exc.CodeUnexpectedEOF,
		},
		{
			name:  "mismatched closer",
			input: "(]",
			code:  exc.CodeUnbalancedDelimiter,
		},
		{
			name:  "stray closer",
			input: "}",
			code:  exc.CodeUnbalancedDelimiter,
		},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			_, err := buildTestTrees(t, testCase.input)
			require.Error(t, err)
			e, ok := err.(exc.Exception)
			require.True(t, ok)
			require.Equal(t, testCase.code, e.Code())
		})
	}
}

func TestBuildTreesGroupSpan(t *testing.T) {
	t.Parallel()

	trees, err := buildTestTrees(t, "{ab}")
	require.Nil(t, err)
	require.Len(t, trees, 1)
	group, ok := trees[0].(cfg.Group)
	require.True(t, ok)
	require.Equal(t, int32(0), group.Span.Start.Column)
	require.Equal(t, int32(4), group.Span.End.Column)
}

// Re-emitting a fragment as text and tokenizing the result must reproduce
// the original token sequence.
func TestFragmentRoundTrip(t *testing.T) {
	t.Parallel()

	input := `Foo::new(0x1F, "on", [a, b]) < 2`
	trees, err := buildTestTrees(t, input)
	require.Nil(t, err)
	rendered := cfg.Fragment(trees).Text()

	relexed, err := buildTestTrees(t, rendered)
	require.Nil(t, err)
	if diff := cmp.Diff(trees, relexed, ignoreSpans...); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}
