// © 2026 RTForge
//
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"context"
	"strings"
	"unicode"

	"github.com/rtforge/appconfc/internal/cfg"
	"github.com/rtforge/appconfc/internal/exc"
	"github.com/rtforge/appconfc/internal/iter"
	"github.com/rtforge/appconfc/internal/optional"
)

const (
	lexerAppLookahead = 2
)

// LexerApp implements a tokenizer for the application configuration syntax.
// It emits the flat token stream that the tree builder groups into the
// delimiter-nested form consumed by the parser.
type LexerApp struct {
	reporter exc.Reporter
}

func NewLexerApp(reporter exc.Reporter) *LexerApp {
	return &LexerApp{reporter: reporter}
}

func (self *LexerApp) Lex(ctx context.Context, f cfg.File) (cfg.LexerFile, error) {
	return &lexerFileApp{
		File:     f,
		reporter: self.reporter,
	}, nil
}

type lexerFileApp struct {
	cfg.File
	reporter exc.Reporter
}

func (self *lexerFileApp) Tokens(ctx context.Context) (cfg.Iterator[*cfg.Token], error) {
	b, err := self.File.Body(ctx)
	if err != nil {
		return nil, err
	}
	points := iter.NewLookahead(iter.NewUnicodeFileBodyCtx(ctx, b), lexerAppLookahead)
	return &lexerFileAppTokens{
		uri:      self.File.Path(ctx),
		body:     points,
		reporter: self.reporter,
		line:     1,
		col:      0,
		offset:   -1,
	}, nil
}

type lexerFileAppTokens struct {
	uri      string
	body     cfg.Lookahead[cfg.CodePoint]
	reporter exc.Reporter
	line     int32
	col      int32
	offset   int64
	done     bool
}

func (self *lexerFileAppTokens) Next(ctx context.Context) optional.Optional[*cfg.Token] {
	if self.done {
		return optional.None[*cfg.Token]()
	}
	for point := self.next(ctx); point.IsPresent(); point = self.next(ctx) {
		r := rune(point.Value())
		switch r {
		case 0x0009, 0x0020:
			continue // Generally ignore space and tab.
		case '\n':
			return self.newLineToken("\n", 1)
		case '\r':
			if n := self.body.Lookahead(ctx, 1); n.IsPresent() && n.Value() == '\n' {
				_ = self.next(ctx)
				return self.newLineToken("\r\n", 2)
			}
			return self.newLineToken("\r", 1)
		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			return self.readNumber(ctx, r)
		case '"':
			return self.readText(ctx)
		case '/':
			n := self.body.Lookahead(ctx, 1)
			if n.IsPresent() && n.Value() == '/' {
				_ = self.next(ctx)
				return self.readCommentLine(ctx)
			}
			return self.punct(cfg.TokenTypeSlash, "/")
		case ':':
			n := self.body.Lookahead(ctx, 1)
			if n.IsPresent() && n.Value() == ':' {
				_ = self.next(ctx)
				t := newTokenLineSpan(self.line, self.col, self.offset, 2, cfg.TokenTypeColonColon, "::")
				return optional.Some(t)
			}
			return self.punct(cfg.TokenTypeColon, ":")
		case ',':
			return self.punct(cfg.TokenTypeComma, ",")
		case ';':
			return self.punct(cfg.TokenTypeSemicolon, ";")
		case '=':
			return self.punct(cfg.TokenTypeEqual, "=")
		case '.':
			return self.punct(cfg.TokenTypeDot, ".")
		case '<':
			return self.punct(cfg.TokenTypeAngleOpen, "<")
		case '>':
			return self.punct(cfg.TokenTypeAngleClose, ">")
		case '+':
			return self.punct(cfg.TokenTypePlus, "+")
		case '-':
			return self.punct(cfg.TokenTypeMinus, "-")
		case '*':
			return self.punct(cfg.TokenTypeStar, "*")
		case '%':
			return self.punct(cfg.TokenTypePercent, "%")
		case '&':
			return self.punct(cfg.TokenTypeAmpersand, "&")
		case '|':
			return self.punct(cfg.TokenTypePipe, "|")
		case '^':
			return self.punct(cfg.TokenTypeCaret, "^")
		case '!':
			return self.punct(cfg.TokenTypeExclamation, "!")
		case '?':
			return self.punct(cfg.TokenTypeQuestion, "?")
		case '@':
			return self.punct(cfg.TokenTypeAt, "@")
		case '{':
			return self.punct(cfg.TokenTypeCurlyOpen, "{")
		case '}':
			return self.punct(cfg.TokenTypeCurlyClose, "}")
		case '[':
			return self.punct(cfg.TokenTypeSquareOpen, "[")
		case ']':
			return self.punct(cfg.TokenTypeSquareClose, "]")
		case '(':
			return self.punct(cfg.TokenTypeParenOpen, "(")
		case ')':
			return self.punct(cfg.TokenTypeParenClose, ")")
		default:
			if r == '_' || unicode.IsLetter(r) {
				return self.readWord(ctx, r)
			}
			return self.fail(exc.CodeInvalidCharacter, "unexpected character "+string(r))
		}
	}
	if !self.done {
		self.done = true
		t := newTokenLineSpan(self.line, self.col+1, self.offset+1, 1, cfg.TokenTypeEOF, "")
		return optional.Some(t)
	}
	return optional.None[*cfg.Token]()
}

func (self *lexerFileAppTokens) punct(kind cfg.TokenType, value string) optional.Optional[*cfg.Token] {
	t := newToken(self.line, self.col-1, self.offset, self.line, self.col, self.offset+1, kind, value)
	return optional.Some(t)
}

var lexerAppKeywords = map[string]cfg.TokenType{
	"true":  cfg.TokenTypeKeywordTrue,
	"false": cfg.TokenTypeKeywordFalse,
}

func (self *lexerFileAppTokens) readWord(ctx context.Context, first rune) optional.Optional[*cfg.Token] {
	var builder strings.Builder
	_, _ = builder.WriteRune(first)
	for {
		n := self.body.Lookahead(ctx, 1)
		if !n.IsPresent() {
			break
		}
		r := rune(n.Value())
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		_ = self.next(ctx)
		_, _ = builder.WriteRune(r)
	}
	word := builder.String()
	kind, ok := lexerAppKeywords[word]
	if !ok {
		kind = cfg.TokenTypeIdentifier
	}
	t := newTokenLineSpan(self.line, self.col, self.offset, builder.Len(), kind, word)
	return optional.Some(t)
}

// readNumber reads an unsigned integer literal in one of the four supported
// bases. A literal immediately followed by identifier characters (a suffix)
// is rejected; the configuration grammar has no suffixed literals.
func (self *lexerFileAppTokens) readNumber(ctx context.Context, first rune) optional.Optional[*cfg.Token] {
	kind := cfg.TokenTypeIntegerDecimal
	digits := "0123456789_"
	var builder strings.Builder
	_, _ = builder.WriteRune(first)
	if first == '0' {
		if n := self.body.Lookahead(ctx, 1); n.IsPresent() {
			switch n.Value() {
			case 'x', 'X':
				kind = cfg.TokenTypeIntegerHex
				digits = "0123456789abcdefABCDEF_"
			case 'o', 'O':
				kind = cfg.TokenTypeIntegerOctal
				digits = "01234567_"
			case 'b', 'B':
				kind = cfg.TokenTypeIntegerBinary
				digits = "01_"
			}
			if kind != cfg.TokenTypeIntegerDecimal {
				_ = self.next(ctx)
				_, _ = builder.WriteRune(rune(n.Value()))
			}
		}
	}
	count := 0
	for {
		n := self.body.Lookahead(ctx, 1)
		if !n.IsPresent() {
			break
		}
		r := rune(n.Value())
		if !strings.ContainsRune(digits, r) {
			if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
				return self.fail(exc.CodeInvalidNumber, "invalid character "+string(r)+" in integer literal "+builder.String())
			}
			break
		}
		_ = self.next(ctx)
		_, _ = builder.WriteRune(r)
		count = count + 1
	}
	if kind != cfg.TokenTypeIntegerDecimal && count == 0 {
		return self.fail(exc.CodeInvalidNumber, "missing digits after integer base prefix "+builder.String())
	}
	t := newTokenLineSpan(self.line, self.col, self.offset, builder.Len(), kind, builder.String())
	return optional.Some(t)
}

func (self *lexerFileAppTokens) readText(ctx context.Context) optional.Optional[*cfg.Token] {
	var builder strings.Builder
	size := 2 // Both quote characters count against the span.
	for {
		n := self.body.Lookahead(ctx, 1)
		if !n.IsPresent() {
			return self.fail(exc.CodeUnexpectedEOF, "EOF while reading text literal")
		}
		r := rune(n.Value())
		_ = self.next(ctx)
		size = size + 1
		switch r {
		case '"':
			t := newTokenLineSpan(self.line, self.col, self.offset, size-1, cfg.TokenTypeText, builder.String())
			return optional.Some(t)
		case '\\':
			esc := self.body.Lookahead(ctx, 1)
			if !esc.IsPresent() {
				return self.fail(exc.CodeUnexpectedEOF, "EOF while reading text literal escape")
			}
			_ = self.next(ctx)
			size = size + 1
			switch esc.Value() {
			case 'n':
				_, _ = builder.WriteRune('\n')
			case 't':
				_, _ = builder.WriteRune('\t')
			case 'r':
				_, _ = builder.WriteRune('\r')
			default:
				_, _ = builder.WriteRune(rune(esc.Value()))
			}
		default:
			_, _ = builder.WriteRune(r)
		}
	}
}

func (self *lexerFileAppTokens) readCommentLine(ctx context.Context) optional.Optional[*cfg.Token] {
	var builder strings.Builder
	for {
		n := self.body.Lookahead(ctx, 1)
		if !n.IsPresent() || n.Value() == '\n' || n.Value() == '\r' {
			// The newline is left in the stream so it still produces its
			// own token.
			t := newTokenLineSpan(self.line, self.col, self.offset, builder.Len()+2, cfg.TokenTypeComment, builder.String())
			return optional.Some(t)
		}
		_ = self.next(ctx)
		_, _ = builder.WriteRune(rune(n.Value()))
	}
}

func (self *lexerFileAppTokens) next(ctx context.Context) optional.Optional[cfg.CodePoint] {
	n := self.body.Next(ctx)
	if n.IsPresent() {
		self.addCol(rune(n.Value()))
	}
	return n
}

// fail reports a lexing error and ends the token stream. No EOF token is
// emitted after a failure so the downstream tree builder cannot mistake a
// truncated stream for a complete one.
func (self *lexerFileAppTokens) fail(code string, message string) optional.Optional[*cfg.Token] {
	_ = self.reporter.Report(self.exc(code, message))
	self.done = true
	return optional.None[*cfg.Token]()
}

func (self *lexerFileAppTokens) exc(code string, message string) exc.Exception {
	return exc.New(exc.Location{URI: self.uri, Location: cfg.Location{Line: self.line, Column: self.col, Offset: self.offset}}, code, message)
}

func (self *lexerFileAppTokens) newLine() {
	self.line = self.line + 1
	self.col = 0
	self.offset = self.offset + 1
}

func (self *lexerFileAppTokens) newLineToken(v string, size int) optional.Optional[*cfg.Token] {
	t := newToken(self.line, self.col-int32(size-1), self.offset-int64(size), self.line+1, 1, self.offset, cfg.TokenTypeNewline, v)
	self.newLine()
	return optional.Some(t)
}

func (self *lexerFileAppTokens) addCol(r rune) {
	self.col = self.col + 1
	self.offset = self.offset + int64(len(string(r)))
}

func (self *lexerFileAppTokens) Close(ctx context.Context) error {
	return self.body.Close(ctx)
}

func newTokenLineSpan(line int32, col int32, offset int64, size int, kind cfg.TokenType, value string) *cfg.Token {
	return &cfg.Token{
		Span: &cfg.Span{
			Start: &cfg.Location{
				Line:   line,
				Column: col - int32(size),
				Offset: offset - int64(size),
			},
			End: &cfg.Location{
				Line:   line,
				Column: col,
				Offset: offset,
			},
		},
		Type:  kind,
		Value: value,
	}
}

func newToken(startLine int32, startCol int32, startOffset int64, endLine int32, endCol int32, endOffset int64, kind cfg.TokenType, value string) *cfg.Token {
	return &cfg.Token{
		Span: &cfg.Span{
			Start: &cfg.Location{
				Line:   startLine,
				Column: startCol,
				Offset: startOffset,
			},
			End: &cfg.Location{
				Line:   endLine,
				Column: endCol,
				Offset: endOffset,
			},
		},
		Type:  kind,
		Value: value,
	}
}
