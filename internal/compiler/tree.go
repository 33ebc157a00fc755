// © 2026 RTForge
//
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"context"
	"fmt"

	"github.com/rtforge/appconfc/internal/cfg"
	"github.com/rtforge/appconfc/internal/exc"
	"github.com/rtforge/appconfc/internal/iter"
)

var openDelimiters = map[cfg.TokenType]cfg.Delimiter{
	cfg.TokenTypeParenOpen:  cfg.DelimiterParen,
	cfg.TokenTypeCurlyOpen:  cfg.DelimiterBrace,
	cfg.TokenTypeSquareOpen: cfg.DelimiterBracket,
}

var closerFor = map[cfg.TokenType]cfg.TokenType{
	cfg.TokenTypeParenOpen:  cfg.TokenTypeParenClose,
	cfg.TokenTypeCurlyOpen:  cfg.TokenTypeCurlyClose,
	cfg.TokenTypeSquareOpen: cfg.TokenTypeSquareClose,
}

var closerMarks = map[cfg.TokenType]string{
	cfg.TokenTypeParenClose:  ")",
	cfg.TokenTypeCurlyClose:  "}",
	cfg.TokenTypeSquareClose: "]",
}

// buildTrees converts the flat token stream of one configuration file into
// the delimiter-nested tree form consumed by the parser, pairing each
// opening delimiter with its matching closer. Newlines and comments carry
// no grammatical meaning and are filtered out up front.
func buildTrees(ctx context.Context, uri string, tokens cfg.Iterator[*cfg.Token]) ([]cfg.Tree, error) {
	filtered_tokens := iter.NewIteratorFilter(tokens, cfg.Filter[*cfg.Token](iter.FilterFunc[*cfg.Token](func(ctx context.Context, t *cfg.Token) bool {
		switch t.Type {
		case cfg.TokenTypeNewline, cfg.TokenTypeComment:
			return false
		default:
			return true
		}
	})))
	b := &treeBuilder{
		ctx:    ctx,
		uri:    uri,
		tokens: filtered_tokens,
	}
	trees, _, err := b.build(cfg.TokenTypeUnknown)
	return trees, err
}

type treeBuilder struct {
	ctx    context.Context
	uri    string
	loc    cfg.Location
	tokens cfg.Iterator[*cfg.Token]
}

// build accumulates trees until the closing token type given as terminator,
// or until end of stream when the terminator is TokenTypeUnknown. The
// closing token is returned so the caller can complete the group's span.
func (b *treeBuilder) build(terminator cfg.TokenType) ([]cfg.Tree, *cfg.Token, error) {
	trees := []cfg.Tree{}
	for {
		maybe_token := b.tokens.Next(b.ctx)
		if !maybe_token.IsPresent() || maybe_token.Value().Type == cfg.TokenTypeEOF {
			if terminator != cfg.TokenTypeUnknown {
				return nil, nil, b.exc(exc.CodeUnexpectedEOF, fmt.Sprintf("unexpected end of input (expecting `%s`)", closerMarks[terminator]))
			}
			return trees, nil, nil
		}
		token := maybe_token.Value()
		if token.Span != nil && token.Span.End != nil {
			b.loc = *token.Span.End
		}
		switch token.Type {
		case cfg.TokenTypeParenOpen, cfg.TokenTypeCurlyOpen, cfg.TokenTypeSquareOpen:
			inner, closeToken, err := b.build(closerFor[token.Type])
			if err != nil {
				return nil, nil, err
			}
			trees = append(trees, cfg.Group{
				Delim: openDelimiters[token.Type],
				Span:  &cfg.Span{Start: token.Span.Start, End: closeToken.Span.End},
				Trees: inner,
			})
		case cfg.TokenTypeParenClose, cfg.TokenTypeCurlyClose, cfg.TokenTypeSquareClose:
			if token.Type == terminator {
				return trees, token, nil
			}
			if terminator != cfg.TokenTypeUnknown {
				return nil, nil, b.exc(exc.CodeUnbalancedDelimiter, fmt.Sprintf("mismatched closing delimiter `%s` (expecting `%s`)", token.Value, closerMarks[terminator]))
			}
			return nil, nil, b.exc(exc.CodeUnbalancedDelimiter, fmt.Sprintf("unexpected `%s` without a matching opening delimiter", token.Value))
		default:
			trees = append(trees, cfg.Leaf{Token: *token})
		}
	}
}

func (b *treeBuilder) exc(code string, message string) exc.Exception {
	return exc.New(exc.Location{URI: b.uri, Location: b.loc}, code, message)
}

// treeSpan reports the source span covered by a tree, when known.
func treeSpan(t cfg.Tree) *cfg.Span {
	switch v := t.(type) {
	case cfg.Leaf:
		return v.Token.Span
	case cfg.Group:
		return v.Span
	}
	return nil
}
