// © 2026 RTForge
//
// SPDX-License-Identifier: Apache-2.0

package cfg

import (
	"strconv"
	"strings"
)

// Delimiter identifies the kind of bracketing around a Group.
type Delimiter uint8

const (
	DelimiterParen   Delimiter = 1
	DelimiterBrace   Delimiter = 2
	DelimiterBracket Delimiter = 3
)

func (d Delimiter) String() string {
	switch d {
	case DelimiterParen:
		return "parenthesis"
	case DelimiterBrace:
		return "brace"
	case DelimiterBracket:
		return "bracket"
	}
	return "unknown"
}

// Marks returns the opening and closing characters of the delimiter.
func (d Delimiter) Marks() (string, string) {
	switch d {
	case DelimiterParen:
		return "(", ")"
	case DelimiterBrace:
		return "{", "}"
	case DelimiterBracket:
		return "[", "]"
	}
	return "", ""
}

// Tree is one node of the delimiter-nested token form consumed by the
// parser: either a single leaf token or a delimited group wrapping an
// ordered sequence of nested trees.
type Tree interface {
	tree()
}

type Leaf struct {
	Token Token
}

func (Leaf) tree() {}

type Group struct {
	Delim Delimiter
	Span  *Span
	Trees []Tree
}

func (Group) tree() {}

// Fragment is a captured run of trees whose internal grammar is never
// interpreted. It is carried through the AST verbatim so that a downstream
// code generator sees exactly the tokens that were written.
type Fragment []Tree

// Text re-emits the fragment as source text. Feeding the result back
// through the tokenizer reproduces an equivalent token sequence.
func (f Fragment) Text() string {
	var b strings.Builder
	for i, t := range f {
		if i > 0 {
			b.WriteByte(' ')
		}
		writeTreeText(&b, t)
	}
	return b.String()
}

func (f Fragment) MarshalYAML() (interface{}, error) {
	return f.Text(), nil
}

func writeTreeText(b *strings.Builder, t Tree) {
	switch v := t.(type) {
	case Leaf:
		if v.Token.Type == TokenTypeText {
			b.WriteString(strconv.Quote(v.Token.Value))
			return
		}
		b.WriteString(v.Token.Value)
	case Group:
		open, closeMark := v.Delim.Marks()
		b.WriteString(open)
		for i, inner := range v.Trees {
			if i > 0 {
				b.WriteByte(' ')
			}
			writeTreeText(b, inner)
		}
		b.WriteString(closeMark)
	}
}
