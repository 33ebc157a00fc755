// © 2026 RTForge
//
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rtforge/appconfc/internal/cfg"
	"github.com/rtforge/appconfc/internal/exc"
	"github.com/rtforge/appconfc/internal/iter"
	"github.com/rtforge/appconfc/internal/optional"
)

// ParserApp implements the recursive-descent parser over the token-tree
// form of an application configuration.
type ParserApp struct {
	reporter exc.Reporter
}

func NewParserApp(reporter exc.Reporter) *ParserApp {
	return &ParserApp{reporter: reporter}
}

// Parse consumes the file's token stream and returns the validated App.
// A failure is a chain of context notes, outermost construct first, ending
// in the original error; no partial App is ever returned alongside one.
func (self *ParserApp) Parse(ctx context.Context, f cfg.LexerFile) (*cfg.App, error) {
	ft, err := f.Tokens(ctx)
	if err != nil {
		return nil, err
	}
	uri := f.Path(ctx)
	trees, err := buildTrees(ctx, uri, ft)
	if err != nil {
		return nil, self.report(uri, err)
	}
	p := &appParser{ctx: ctx, uri: uri}
	app, err := p.parseApp(p.newCursor(trees))
	if err != nil {
		return nil, self.report(uri, err)
	}
	return app, nil
}

func (self *ParserApp) report(uri string, err error) error {
	if e, ok := err.(exc.Exception); ok {
		_ = self.reporter.Report(e)
		return err
	}
	_ = self.reporter.Report(exc.WrapUnknown(exc.Location{URI: uri}, err))
	return err
}

type appParser struct {
	ctx context.Context
	uri string
}

// treeCursor walks one level of a token-tree sequence. Entering a nested
// group creates a fresh cursor over the group's inner trees, so tokens
// from outside a group can never leak into its sub-parse.
type treeCursor struct {
	ctx   context.Context
	loc   cfg.Location
	trees cfg.Lookahead[cfg.Tree]
}

func (p *appParser) newCursor(trees []cfg.Tree) *treeCursor {
	return &treeCursor{
		ctx:   p.ctx,
		trees: iter.NewLookahead(iter.NewSlice(trees), 1),
	}
}

func (p *appParser) newGroupCursor(group cfg.Group) *treeCursor {
	cur := p.newCursor(group.Trees)
	if group.Span != nil && group.Span.Start != nil {
		cur.loc = *group.Span.Start
	}
	return cur
}

func (c *treeCursor) peek() cfg.Tree {
	maybe_tree := c.trees.Lookahead(c.ctx, 0)
	if !maybe_tree.IsPresent() {
		return nil
	}
	return maybe_tree.Value()
}

func (c *treeCursor) advance() {
	if t := c.peek(); t != nil {
		if span := treeSpan(t); span != nil && span.End != nil {
			c.loc = *span.End
		}
	}
	_ = c.trees.Next(c.ctx)
}

func (c *treeCursor) next() cfg.Tree {
	t := c.peek()
	c.advance()
	return t
}

// delimited consumes exactly one tree, requires it to be a group with the
// given delimiter kind, and applies f to a cursor over the group's inner
// trees. Every brace-, bracket-, or paren-wrapped sub-grammar is entered
// through this chokepoint.
func delimited[R any](p *appParser, cur *treeCursor, delim cfg.Delimiter, f func(*treeCursor) (R, error)) (R, error) {
	var zero R
	t := cur.next()
	if t == nil {
		return zero, p.exc(cur, exc.CodeUnexpectedEOF, fmt.Sprintf("expected a %s-delimited group, found end of input", delim))
	}
	group, ok := t.(cfg.Group)
	if !ok {
		return zero, p.exc(cur, exc.CodeWrongDelimiter, fmt.Sprintf("expected a %s-delimited group, found %s", delim, describeTree(t)))
	}
	if group.Delim != delim {
		return zero, p.exc(cur, exc.CodeWrongDelimiter, fmt.Sprintf("expected a %s-delimited group, found a %s-delimited group", delim, group.Delim))
	}
	return f(p.newGroupCursor(group))
}

// fields walks a comma-separated list of `key : value` pairs, invoking f
// once per key with the cursor positioned just after the colon. The
// handler consumes as many trees as its own grammar requires; fields then
// expects a comma or the end of the sequence.
func (p *appParser) fields(cur *treeCursor, f func(key cfg.Token, cur *treeCursor) error) error {
	for {
		t := cur.next()
		if t == nil {
			return nil
		}
		leaf, ok := t.(cfg.Leaf)
		if !ok || leaf.Token.Type != cfg.TokenTypeIdentifier {
			return p.exc(cur, exc.CodeUnexpectedToken, fmt.Sprintf("expected a field name, found %s", describeTree(t)))
		}
		t = cur.next()
		if colon, ok := t.(cfg.Leaf); !ok || colon.Token.Type != cfg.TokenTypeColon {
			return p.exc(cur, exc.CodeUnexpectedToken, fmt.Sprintf("expected `:` after field `%s`, found %s", leaf.Token.Value, describeTree(t)))
		}
		if err := f(leaf.Token, cur); err != nil {
			return err
		}
		t = cur.next()
		if t == nil {
			return nil
		}
		if comma, ok := t.(cfg.Leaf); !ok || comma.Token.Type != cfg.TokenTypeComma {
			return p.exc(cur, exc.CodeUnexpectedToken, fmt.Sprintf("expected `,` between fields, found %s", describeTree(t)))
		}
	}
}

// parseApp is the top-level rule: one brace-delimited group holding the
// five recognized fields. Nothing may follow the group.
func (p *appParser) parseApp(cur *treeCursor) (*cfg.App, error) {
	app, err := delimited(p, cur, cfg.DelimiterBrace, func(cur *treeCursor) (*cfg.App, error) {
		var device cfg.Fragment
		var idle *cfg.Idle
		var init *cfg.Init
		var resources cfg.Statics
		var tasks cfg.Tasks

		err := p.fields(cur, func(key cfg.Token, cur *treeCursor) error {
			switch key.Value {
			case "device":
				if device != nil {
					return p.dupField(cur, "device")
				}
				d, err := p.parsePath(cur)
				if err != nil {
					return exc.Note("parsing `device`", err)
				}
				device = d
			case "idle":
				if idle != nil {
					return p.dupField(cur, "idle")
				}
				i, err := p.parseIdle(cur)
				if err != nil {
					return exc.Note("parsing `idle`", err)
				}
				idle = i
			case "init":
				if init != nil {
					return p.dupField(cur, "init")
				}
				i, err := p.parseInit(cur)
				if err != nil {
					return exc.Note("parsing `init`", err)
				}
				init = i
			case "resources":
				if resources != nil {
					return p.dupField(cur, "resources")
				}
				s, err := p.parseStatics(cur)
				if err != nil {
					return exc.Note("parsing `resources`", err)
				}
				resources = s
			case "tasks":
				if tasks != nil {
					return p.dupField(cur, "tasks")
				}
				t, err := p.parseTasks(cur)
				if err != nil {
					return exc.Note("parsing `tasks`", err)
				}
				tasks = t
			default:
				return p.exc(cur, exc.CodeUnknownField, fmt.Sprintf("unknown field `%s`", key.Value))
			}
			return nil
		})
		if err != nil {
			return nil, err
		}

		if device == nil {
			return nil, p.missingField(cur, "device")
		}
		if idle == nil {
			return nil, p.missingField(cur, "idle")
		}
		if init == nil {
			return nil, p.missingField(cur, "init")
		}
		if resources == nil {
			resources = cfg.Statics{}
		}
		if tasks == nil {
			tasks = cfg.Tasks{}
		}
		return &cfg.App{
			Device:    device,
			Idle:      *idle,
			Init:      *init,
			Resources: resources,
			Tasks:     tasks,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	if t := cur.peek(); t != nil {
		return nil, p.exc(cur, exc.CodeUnexpectedToken, fmt.Sprintf("unexpected %s after the configuration block", describeTree(t)))
	}
	return app, nil
}

func (p *appParser) parseInit(cur *treeCursor) (*cfg.Init, error) {
	return delimited(p, cur, cfg.DelimiterBrace, func(cur *treeCursor) (*cfg.Init, error) {
		var path cfg.Fragment

		err := p.fields(cur, func(key cfg.Token, cur *treeCursor) error {
			switch key.Value {
			case "path":
				if path != nil {
					return p.dupField(cur, "path")
				}
				pth, err := p.parsePath(cur)
				if err != nil {
					return err
				}
				path = pth
			default:
				return p.exc(cur, exc.CodeUnknownField, fmt.Sprintf("unknown field `%s`", key.Value))
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		if path == nil {
			return nil, p.missingField(cur, "path")
		}
		return &cfg.Init{Path: path}, nil
	})
}

func (p *appParser) parseIdle(cur *treeCursor) (*cfg.Idle, error) {
	return delimited(p, cur, cfg.DelimiterBrace, func(cur *treeCursor) (*cfg.Idle, error) {
		var path cfg.Fragment
		var locals cfg.Statics
		var resources cfg.Idents

		err := p.fields(cur, func(key cfg.Token, cur *treeCursor) error {
			switch key.Value {
			case "path":
				if path != nil {
					return p.dupField(cur, "path")
				}
				pth, err := p.parsePath(cur)
				if err != nil {
					return err
				}
				path = pth
			case "locals":
				if locals != nil {
					return p.dupField(cur, "locals")
				}
				l, err := p.parseStatics(cur)
				if err != nil {
					return exc.Note("parsing `locals`", err)
				}
				locals = l
			case "resources":
				if resources != nil {
					return p.dupField(cur, "resources")
				}
				r, err := p.parseIdents(cur)
				if err != nil {
					return exc.Note("parsing `resources`", err)
				}
				resources = r
			default:
				return p.exc(cur, exc.CodeUnknownField, fmt.Sprintf("unknown field `%s`", key.Value))
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		if path == nil {
			return nil, p.missingField(cur, "path")
		}
		if locals == nil {
			locals = cfg.Statics{}
		}
		if resources == nil {
			resources = cfg.NewIdents()
		}
		return &cfg.Idle{Path: path, Locals: locals, Resources: resources}, nil
	})
}

// parseTasks accepts any identifier as a task name; the value of each
// entry is parsed by parseTask.
func (p *appParser) parseTasks(cur *treeCursor) (cfg.Tasks, error) {
	return delimited(p, cur, cfg.DelimiterBrace, func(cur *treeCursor) (cfg.Tasks, error) {
		tasks := cfg.Tasks{}

		err := p.fields(cur, func(key cfg.Token, cur *treeCursor) error {
			if _, ok := tasks[key.Value]; ok {
				return p.exc(cur, exc.CodeDuplicateName, fmt.Sprintf("task `%s` listed more than once", key.Value))
			}
			task, err := p.parseTask(cur)
			if err != nil {
				return exc.Note(fmt.Sprintf("parsing task `%s`", key.Value), err)
			}
			tasks[key.Value] = *task
			return nil
		})
		if err != nil {
			return nil, err
		}
		return tasks, nil
	})
}

func (p *appParser) parseTask(cur *treeCursor) (*cfg.Task, error) {
	return delimited(p, cur, cfg.DelimiterBrace, func(cur *treeCursor) (*cfg.Task, error) {
		enabled := optional.None[bool]()
		priority := optional.None[uint8]()
		var resources cfg.Idents

		err := p.fields(cur, func(key cfg.Token, cur *treeCursor) error {
			switch key.Value {
			case "enabled":
				if enabled.IsPresent() {
					return p.dupField(cur, "enabled")
				}
				v, err := p.parseBool(cur)
				if err != nil {
					return exc.Note("parsing `enabled`", err)
				}
				enabled = optional.Some(v)
			case "priority":
				if priority.IsPresent() {
					return p.dupField(cur, "priority")
				}
				v, err := p.parseU8(cur)
				if err != nil {
					return exc.Note("parsing `priority`", err)
				}
				priority = optional.Some(v)
			case "resources":
				if resources != nil {
					return p.dupField(cur, "resources")
				}
				r, err := p.parseIdents(cur)
				if err != nil {
					return exc.Note("parsing `resources`", err)
				}
				resources = r
			default:
				return p.exc(cur, exc.CodeUnknownField, fmt.Sprintf("unknown field `%s`", key.Value))
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		if resources == nil {
			resources = cfg.NewIdents()
		}
		return &cfg.Task{Enabled: enabled, Priority: priority, Resources: resources}, nil
	})
}

// parseIdents reads a bracket-delimited set of identifiers. Duplicates are
// rejected; a trailing comma before the closing bracket is allowed; an
// empty pair of brackets yields an empty set.
func (p *appParser) parseIdents(cur *treeCursor) (cfg.Idents, error) {
	return delimited(p, cur, cfg.DelimiterBracket, func(cur *treeCursor) (cfg.Idents, error) {
		idents := cfg.NewIdents()
		for {
			t := cur.next()
			if t == nil {
				return idents, nil
			}
			leaf, ok := t.(cfg.Leaf)
			if !ok || leaf.Token.Type != cfg.TokenTypeIdentifier {
				return nil, p.exc(cur, exc.CodeUnexpectedToken, fmt.Sprintf("expected an identifier, found %s", describeTree(t)))
			}
			if idents.Contains(leaf.Token.Value) {
				return nil, p.exc(cur, exc.CodeDuplicateName, fmt.Sprintf("identifier `%s` listed more than once", leaf.Token.Value))
			}
			idents.Add(leaf.Token.Value)
			t = cur.next()
			if t == nil {
				return idents, nil
			}
			if comma, ok := t.(cfg.Leaf); !ok || comma.Token.Type != cfg.TokenTypeComma {
				return nil, p.exc(cur, exc.CodeUnexpectedToken, fmt.Sprintf("expected `,` between identifiers, found %s", describeTree(t)))
			}
		}
	})
}

// parseStatics reads a brace-delimited map of `name : type = value ;`
// declarations. Entries are terminated by the semicolon consumed inside
// parseStatic rather than separated by commas.
func (p *appParser) parseStatics(cur *treeCursor) (cfg.Statics, error) {
	return delimited(p, cur, cfg.DelimiterBrace, func(cur *treeCursor) (cfg.Statics, error) {
		statics := cfg.Statics{}
		for {
			t := cur.next()
			if t == nil {
				return statics, nil
			}
			leaf, ok := t.(cfg.Leaf)
			if !ok || leaf.Token.Type != cfg.TokenTypeIdentifier {
				return nil, p.exc(cur, exc.CodeUnexpectedToken, fmt.Sprintf("expected a resource name, found %s", describeTree(t)))
			}
			name := leaf.Token.Value
			if _, ok := statics[name]; ok {
				return nil, p.exc(cur, exc.CodeDuplicateName, fmt.Sprintf("resource `%s` listed more than once", name))
			}
			t = cur.next()
			if colon, ok := t.(cfg.Leaf); !ok || colon.Token.Type != cfg.TokenTypeColon {
				return nil, p.exc(cur, exc.CodeUnexpectedToken, fmt.Sprintf("expected `:` after resource `%s`, found %s", name, describeTree(t)))
			}
			s, err := p.parseStatic(cur)
			if err != nil {
				return nil, exc.Note(fmt.Sprintf("parsing `%s`", name), err)
			}
			statics[name] = *s
		}
	})
}

// parseStatic scans `type = expression ;`. Nested groups are opaque to
// both scans, so an equals sign or semicolon inside a group can never
// split the fragments.
func (p *appParser) parseStatic(cur *treeCursor) (*cfg.Static, error) {
	ty := cfg.Fragment{}
	for {
		t := cur.next()
		if t == nil {
			return nil, p.exc(cur, exc.CodeUnexpectedEOF, "expected `=`, found end of input")
		}
		if leaf, ok := t.(cfg.Leaf); ok && leaf.Token.Type == cfg.TokenTypeEqual {
			break
		}
		ty = append(ty, t)
	}
	if len(ty) == 0 {
		return nil, p.exc(cur, exc.CodeEmptyFragment, "type is missing")
	}

	expr := cfg.Fragment{}
	for {
		t := cur.next()
		if t == nil {
			return nil, p.exc(cur, exc.CodeUnexpectedEOF, "expected `;`, found end of input")
		}
		if leaf, ok := t.(cfg.Leaf); ok && leaf.Token.Type == cfg.TokenTypeSemicolon {
			break
		}
		expr = append(expr, t)
	}
	if len(expr) == 0 {
		return nil, p.exc(cur, exc.CodeEmptyFragment, "initial value is missing")
	}
	return &cfg.Static{Ty: ty, Expr: expr}, nil
}

// parsePath captures a dotted-path fragment verbatim: everything up to,
// but not including, the next top-level comma. Nested groups are kept
// opaque, and the capture may end at the end of the enclosing sequence.
func (p *appParser) parsePath(cur *treeCursor) (cfg.Fragment, error) {
	fragment := cfg.Fragment{}
	for {
		t := cur.peek()
		if t == nil {
			return fragment, nil
		}
		if leaf, ok := t.(cfg.Leaf); ok && leaf.Token.Type == cfg.TokenTypeComma {
			return fragment, nil
		}
		fragment = append(fragment, t)
		cur.advance()
	}
}

func (p *appParser) parseBool(cur *treeCursor) (bool, error) {
	t := cur.next()
	if leaf, ok := t.(cfg.Leaf); ok {
		switch leaf.Token.Type {
		case cfg.TokenTypeKeywordTrue:
			return true, nil
		case cfg.TokenTypeKeywordFalse:
			return false, nil
		}
	}
	return false, p.exc(cur, exc.CodeExpectedBool, fmt.Sprintf("expected boolean, found %s", describeTree(t)))
}

func (p *appParser) parseU8(cur *treeCursor) (uint8, error) {
	t := cur.next()
	if leaf, ok := t.(cfg.Leaf); ok {
		switch leaf.Token.Type {
		case cfg.TokenTypeIntegerDecimal, cfg.TokenTypeIntegerHex, cfg.TokenTypeIntegerOctal, cfg.TokenTypeIntegerBinary:
			// The token type decides the base. ParseUint's base-0 detection
			// would turn a leading-zero decimal literal into octal.
			digits := strings.ReplaceAll(leaf.Token.Value, "_", "")
			base := 10
			switch leaf.Token.Type {
			case cfg.TokenTypeIntegerHex:
				base, digits = 16, digits[2:]
			case cfg.TokenTypeIntegerOctal:
				base, digits = 8, digits[2:]
			case cfg.TokenTypeIntegerBinary:
				base, digits = 2, digits[2:]
			}
			v, err := strconv.ParseUint(digits, base, 64)
			if err != nil {
				return 0, p.exc(cur, exc.CodeExpectedInteger, fmt.Sprintf("invalid integer literal `%s`", leaf.Token.Value))
			}
			if v > 255 {
				return 0, p.exc(cur, exc.CodeIntegerOutOfRange, fmt.Sprintf("%s is out of the [0, 255] priority range", leaf.Token.Value))
			}
			return uint8(v), nil
		}
	}
	return 0, p.exc(cur, exc.CodeExpectedInteger, fmt.Sprintf("expected integer, found %s", describeTree(t)))
}

func (p *appParser) exc(cur *treeCursor, code string, message string) exc.Exception {
	return exc.New(exc.Location{URI: p.uri, Location: cur.loc}, code, message)
}

func (p *appParser) dupField(cur *treeCursor, name string) exc.Exception {
	return p.exc(cur, exc.CodeDuplicateField, fmt.Sprintf("duplicated `%s` field", name))
}

func (p *appParser) missingField(cur *treeCursor, name string) exc.Exception {
	return p.exc(cur, exc.CodeMissingField, fmt.Sprintf("`%s` field is missing", name))
}

func describeTree(t cfg.Tree) string {
	switch v := t.(type) {
	case nil:
		return "end of input"
	case cfg.Leaf:
		return fmt.Sprintf("`%s`", v.Token.Value)
	case cfg.Group:
		open, closeMark := v.Delim.Marks()
		return fmt.Sprintf("a `%s %s` group", open, closeMark)
	}
	return "unknown input"
}
