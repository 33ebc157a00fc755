// © 2026 RTForge
//
// SPDX-License-Identifier: Apache-2.0

package cfg

import (
	"context"

	"github.com/rtforge/appconfc/internal/optional"
)

// CodePoint is a single unicode code point read from a configuration file.
type CodePoint int32

type Iterator[T any] interface {
	Next(ctx context.Context) optional.Optional[T]
	Close(ctx context.Context) error
}

type Lookahead[T any] interface {
	Iterator[T]
	Lookahead(ctx context.Context, n uint8) optional.Optional[T]
}

type Filter[T any] interface {
	Keep(ctx context.Context, value T) bool
}

type FileKind uint8

const (
	FileKindNone FileKind = 0
	FileKindApp  FileKind = 1
)

type FileBody interface {
	Read(ctx context.Context, size int32) ([]byte, error)
	Close(ctx context.Context) error
}

type File interface {
	Path(ctx context.Context) string
	Kind(ctx context.Context) FileKind
	Body(ctx context.Context) (FileBody, error)
}

type FileSystem interface {
	Open(ctx context.Context, uri string) ([]File, error)
	Write(ctx context.Context, uri string, content string) error
}

type LexerFile interface {
	File
	Tokens(ctx context.Context) (Iterator[*Token], error)
}

type Lexer interface {
	Lex(ctx context.Context, f File) (LexerFile, error)
}

type Compiler interface {
	Compile(ctx context.Context, req *CompileRequest) (*CompileResponse, error)
}

type CompileRequest struct {
	Files      []string
	DumpTokens bool
	DumpTree   bool
	SkipCheck  bool
}

type CompileResponse struct {
	Apps []*AppUnit
}

// AppUnit is one compiled configuration file and the application
// description parsed out of it.
type AppUnit struct {
	URI string
	App *App
}

type Location struct {
	Line   int32
	Column int32
	Offset int64
}

type Span struct {
	Start *Location
	End   *Location
}

type Token struct {
	Span  *Span
	Type  TokenType
	Value string
}

type TokenType uint16

const (
	TokenTypeUnknown        TokenType = 0
	TokenTypeIdentifier     TokenType = 1
	TokenTypeIntegerDecimal TokenType = 2
	TokenTypeIntegerHex     TokenType = 3
	TokenTypeIntegerOctal   TokenType = 4
	TokenTypeIntegerBinary  TokenType = 5
	TokenTypeKeywordTrue    TokenType = 6
	TokenTypeKeywordFalse   TokenType = 7
	TokenTypeText           TokenType = 8
	TokenTypeComment        TokenType = 9
	TokenTypeNewline        TokenType = 10
	TokenTypeColon          TokenType = 11
	TokenTypeColonColon     TokenType = 12
	TokenTypeComma          TokenType = 13
	TokenTypeSemicolon      TokenType = 14
	TokenTypeEqual          TokenType = 15
	TokenTypeDot            TokenType = 16
	TokenTypeAngleOpen      TokenType = 17
	TokenTypeAngleClose     TokenType = 18
	TokenTypePlus           TokenType = 19
	TokenTypeMinus          TokenType = 20
	TokenTypeStar           TokenType = 21
	TokenTypeSlash          TokenType = 22
	TokenTypePercent        TokenType = 23
	TokenTypeAmpersand      TokenType = 24
	TokenTypePipe           TokenType = 25
	TokenTypeCaret          TokenType = 26
	TokenTypeExclamation    TokenType = 27
	TokenTypeQuestion       TokenType = 28
	TokenTypeAt             TokenType = 29
	TokenTypeCurlyOpen      TokenType = 30
	TokenTypeCurlyClose     TokenType = 31
	TokenTypeSquareOpen     TokenType = 32
	TokenTypeSquareClose    TokenType = 33
	TokenTypeParenOpen      TokenType = 34
	TokenTypeParenClose     TokenType = 35
	TokenTypeEOF            TokenType = 36
)

var tokenTypeNames = map[TokenType]string{
	TokenTypeUnknown:        "Unknown",
	TokenTypeIdentifier:     "Identifier",
	TokenTypeIntegerDecimal: "IntegerDecimal",
	TokenTypeIntegerHex:     "IntegerHex",
	TokenTypeIntegerOctal:   "IntegerOctal",
	TokenTypeIntegerBinary:  "IntegerBinary",
	TokenTypeKeywordTrue:    "KeywordTrue",
	TokenTypeKeywordFalse:   "KeywordFalse",
	TokenTypeText:           "Text",
	TokenTypeComment:        "Comment",
	TokenTypeNewline:        "Newline",
	TokenTypeColon:          "Colon",
	TokenTypeColonColon:     "ColonColon",
	TokenTypeComma:          "Comma",
	TokenTypeSemicolon:      "Semicolon",
	TokenTypeEqual:          "Equal",
	TokenTypeDot:            "Dot",
	TokenTypeAngleOpen:      "AngleOpen",
	TokenTypeAngleClose:     "AngleClose",
	TokenTypePlus:           "Plus",
	TokenTypeMinus:          "Minus",
	TokenTypeStar:           "Star",
	TokenTypeSlash:          "Slash",
	TokenTypePercent:        "Percent",
	TokenTypeAmpersand:      "Ampersand",
	TokenTypePipe:           "Pipe",
	TokenTypeCaret:          "Caret",
	TokenTypeExclamation:    "Exclamation",
	TokenTypeQuestion:       "Question",
	TokenTypeAt:             "At",
	TokenTypeCurlyOpen:      "CurlyOpen",
	TokenTypeCurlyClose:     "CurlyClose",
	TokenTypeSquareOpen:     "SquareOpen",
	TokenTypeSquareClose:    "SquareClose",
	TokenTypeParenOpen:      "ParenOpen",
	TokenTypeParenClose:     "ParenClose",
	TokenTypeEOF:            "EOF",
}

func (t TokenType) String() string {
	if name, ok := tokenTypeNames[t]; ok {
		return name
	}
	return "Unknown"
}
