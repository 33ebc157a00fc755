// © 2026 RTForge
//
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/rtforge/appconfc/internal/cfg"
	"github.com/rtforge/appconfc/internal/exc"
	"github.com/rtforge/appconfc/internal/target"
)

type Option func(c *compiler) error

func OptionWithFS(fs cfg.FileSystem) Option {
	return func(c *compiler) error {
		c.FS = fs
		return nil
	}
}

func OptionWithLookupEnv(lookupEnv func(string) (string, bool)) Option {
	return func(c *compiler) error {
		c.LookupENV = lookupEnv
		return nil
	}
}

func OptionWithExcReporter(reporter exc.Reporter) Option {
	return func(c *compiler) error {
		c.Reporter = reporter
		return nil
	}
}

func New(opts ...Option) (cfg.Compiler, error) {
	c := &compiler{}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.LookupENV == nil {
		c.LookupENV = os.LookupEnv
	}
	if c.FS == nil {
		dfs, err := NewDefaultFS(c.LookupENV)
		if err != nil {
			return nil, err
		}
		c.FS = dfs
	}
	if c.MaxConcurrency == 0 {
		max := runtime.GOMAXPROCS(-1)
		cpus := runtime.NumCPU()
		if max > cpus {
			max = cpus
		}
		c.MaxConcurrency = max
	}
	if c.Semaphore == nil {
		c.Semaphore = newSemaphore(c.MaxConcurrency)
	}
	if c.Reporter == nil {
		c.Reporter = exc.NewReporter(nil)
	}
	return c, nil
}

type compiler struct {
	LookupENV      func(string) (string, bool)
	FS             cfg.FileSystem
	MaxConcurrency int
	Semaphore      *semaphore
	Reporter       exc.Reporter
}

func (self *compiler) Compile(ctx context.Context, req *cfg.CompileRequest) (*cfg.CompileResponse, error) {
	targets := make([]string, 0, len(req.Files))
	for _, f := range req.Files {
		targets = append(targets, target.Normalize(f))
	}
	files := make([]cfg.File, 0, len(targets))
	for _, t := range targets {
		in, err := self.FS.Open(ctx, t)
		if err != nil {
			if e, ok := err.(exc.Exception); ok {
				return nil, self.Reporter.Report(e)
			}
			return nil, self.Reporter.Report(exc.WrapUnknown(exc.Location{URI: t}, err))
		}
		for _, inf := range in {
			if inf.Kind(ctx) == cfg.FileKindNone {
				continue
			}
			files = append(files, inf)
		}
	}
	units := make([]*cfg.AppUnit, 0, len(files))
	loaded := &sync.Map{}
	results := make(chan fileResult)
	expectedResults := len(files)

	for _, file := range files {
		go func(file cfg.File) {
			unit, err := self.compileFile(ctx, file, loaded, req)
			results <- fileResult{unit, err}
		}(file)
	}

	var firstErr error
	for x := 0; x < expectedResults; x = x + 1 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case result := <-results:
			if result.err != nil && firstErr == nil {
				firstErr = result.err
			}
			if result.unit != nil {
				units = append(units, result.unit)
			}
		}
	}

	caught := self.Reporter.Reported()
	if len(caught) > 0 {
		return &cfg.CompileResponse{Apps: units}, MultiException(caught)
	}
	if firstErr != nil {
		return &cfg.CompileResponse{Apps: units}, firstErr
	}
	return &cfg.CompileResponse{Apps: units}, nil
}

func (self *compiler) compileFile(ctx context.Context, file cfg.File, loaded *sync.Map, req *cfg.CompileRequest) (*cfg.AppUnit, error) {
	self.Semaphore.Lock()
	defer self.Semaphore.Unlock()
	if _, ok := loaded.LoadOrStore(file.Path(ctx), true); ok {
		return nil, nil
	}
	if file.Kind(ctx) != cfg.FileKindApp {
		e := exc.New(exc.Location{URI: file.Path(ctx)}, exc.CodeUnsupportedFileFormat, "unsupported file format")
		return nil, self.Reporter.Report(e)
	}

	lexer := NewLexerApp(self.Reporter)
	parser := NewParserApp(self.Reporter)
	lf, err := lexer.Lex(ctx, file)
	if err != nil {
		return nil, err
	}
	if req.DumpTokens {
		// Dumping consumes a stream of its own; parsing below re-opens the
		// file through the lexer rather than sharing a stream.
		stream, err := lf.Tokens(ctx)
		if err != nil {
			return nil, err
		}
		for tok := stream.Next(ctx); tok.IsPresent(); tok = stream.Next(ctx) {
			token := tok.Value()
			fmt.Printf("%-24s", token.Type)
			if token.Type != cfg.TokenTypeNewline {
				fmt.Printf("'%s'", token.Value)
			}
			fmt.Println()
		}
	}
	app, err := parser.Parse(ctx, lf)
	if err != nil {
		return nil, err
	}
	if !req.SkipCheck {
		if err := check(file.Path(ctx), app, self.Reporter); err != nil {
			return nil, err
		}
	}
	if req.DumpTree {
		out, err := yaml.Marshal(app)
		if err != nil {
			return nil, err
		}
		fmt.Println(string(out))
	}
	return &cfg.AppUnit{URI: file.Path(ctx), App: app}, nil
}

type fileResult struct {
	unit *cfg.AppUnit
	err  error
}

type semaphore struct {
	x chan bool
}

func newSemaphore(v int) *semaphore {
	return &semaphore{
		x: make(chan bool, v),
	}
}

func (self *semaphore) Lock() {
	self.x <- false
}

func (self *semaphore) Unlock() {
	<-self.x
}

type MultiException []exc.Exception

func (self MultiException) Error() string {
	var b strings.Builder
	for _, err := range self[:len(self)-1] {
		b.WriteString(err.Error())
		b.WriteString("; ")
	}
	b.WriteString(self[len(self)-1].Error())
	return b.String()
}
