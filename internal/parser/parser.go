package parser

import (
	"context"
	"fmt"

	"cfront/internal/ast"
	"cfront/internal/decl"
	"cfront/internal/diag"
	"cfront/internal/lexer"
	"cfront/internal/source"
	"cfront/internal/symbols"
	"cfront/internal/token"
	"cfront/internal/trace"
)

// Options configures one ParseFile call.
type Options struct {
	Trace         bool
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
	// OutOfOrderDecls makes identifier resolution consult the file-scope
	// symbol table after the local scope chain misses. That table holds
	// the top-level declarations parsed so far; parsing is single-pass, so
	// a name declared only further down the file still resolves to
	// ExprUnknownSymbol. When false (the default), the file-scope table is
	// not consulted and such a reference resolves to ExprUnknownSymbol.
	OutOfOrderDecls bool
	// Pedantic rejects the '@' function-literal extension with a
	// diagnostic instead of parsing it.
	Pedantic bool
}

// Enough reports whether the error budget for this parse has been spent.
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

// Result is what ParseFile hands back to its caller.
type Result struct {
	File ast.FileID
	Bag  *diag.Bag
}

// Parser holds all per-translation-unit state: the token source, the AST
// and type-expression arenas it builds into, and the scope/typedef-name
// bookkeeping the declarator grammar needs to disambiguate identifiers
// from type-names.
type Parser struct {
	lx     *lexer.Lexer
	toks   *tokBuf
	arenas *ast.Builder
	types  *decl.TypeExprs
	syms   *symbols.Table

	file ast.FileID
	fs   *source.FileSet
	opts Options

	lastSpan  source.Span
	exprDepth int
	tracer    trace.Tracer

	// typedefNames records every name a `typedef` declaration has bound so
	// far, the only state IsTypename needs beyond the builtin keyword set.
	typedefNames map[string]bool

	// scope is the innermost currently-open lexical scope; NoScopeID at
	// file scope (between function definitions).
	scope symbols.ScopeID
	// nextParamIndex is the ordinal the next SymbolParam declared in the
	// function scope currently being opened receives.
	nextParamIndex uint32

	// speculative is non-zero while probing a typename inside a rewindable
	// attempt (cast vs. parenthesized expression, sizeof/_Alignof operand,
	// compound-literal type). Diagnostics raised while it is set are
	// dropped rather than reported, since the attempt may still be rewound.
	speculative int

	// pendingSynthetic collects the top-level FuncDefStmt handles that
	// `@` function-literal expressions emit as a side effect of parsing; they
	// are appended to the file's statement list once parseTopLevel returns.
	pendingSynthetic []ast.StmtID
}

// ParseFile parses one translation unit from lx into arenas, returning the
// FileID of the resulting ast.File.
func ParseFile(ctx context.Context, fs *source.FileSet, lx *lexer.Lexer, arenas *ast.Builder, types *decl.TypeExprs, syms *symbols.Table, opts Options) Result {
	if types == nil {
		types = decl.NewTypeExprs(0)
	}
	if syms == nil {
		syms = symbols.NewTable(symbols.Hints{}, arenas.StringsInterner)
	}
	p := &Parser{
		lx:           lx,
		toks:         newTokBuf(lx),
		arenas:       arenas,
		types:        types,
		syms:         syms,
		fs:           fs,
		opts:         opts,
		tracer:       trace.FromContext(ctx),
		typedefNames: make(map[string]bool),
		scope:        symbols.NoScopeID,
	}
	startSpan := p.peek().Span
	stmts := p.parseTopLevel()
	endSpan := p.lastSpan
	p.file = arenas.NewFile(startSpan.Cover(endSpan), stmts)

	var bag *diag.Bag
	if br, ok := opts.Reporter.(*diag.BagReporter); ok {
		bag = br.Bag
	}
	return Result{File: p.file, Bag: bag}
}

func (p *Parser) peek() token.Token     { return p.toks.Peek() }
func (p *Parser) peekN(n int) token.Token { return p.toks.PeekN(n) }

func (p *Parser) advance() token.Token {
	tok := p.toks.Advance()
	if tok.Kind != token.EOF && tok.Kind != token.Invalid {
		p.lastSpan = tok.Span
	}
	return tok
}

func (p *Parser) at(k token.Kind) bool { return p.peek().Kind == k }

func (p *Parser) atOr(kinds ...token.Kind) bool {
	cur := p.peek().Kind
	for _, k := range kinds {
		if cur == k {
			return true
		}
	}
	return false
}

func (p *Parser) mark() int      { return p.toks.Mark() }
func (p *Parser) rewind(m int)   { p.toks.Rewind(m) }

// IsError reports whether any error diagnostic has been emitted so far.
func (p *Parser) IsError() bool { return p.opts.CurrentErrors != 0 }

// parseTopLevel is the translation-unit loop: a sequence of function
// definitions/declarations and global variable declarations.
func (p *Parser) parseTopLevel() []ast.StmtID {
	var stmts []ast.StmtID
	for !p.at(token.EOF) {
		before := p.peek()

		decls, ok := p.parseTopLevelDecl()
		stmts = append(stmts, decls...)
		if !ok {
			p.resyncTop()
		}

		if !p.at(token.EOF) {
			after := p.peek()
			if after.Kind == before.Kind && after.Span == before.Span {
				p.advance()
			}
		}
	}
	stmts = append(stmts, p.pendingSynthetic...)
	return stmts
}

// resyncTop skips tokens until ';' or a token that plausibly starts the
// next top-level declaration.
func (p *Parser) resyncTop() {
	prev := p.peek()
	p.resyncUntil(token.Semicolon, token.RBrace, token.EOF)
	if !p.at(token.EOF) && p.peek().Span == prev.Span && p.peek().Kind == prev.Kind {
		p.advance()
	}
	if p.at(token.Semicolon) {
		p.advance()
	}
}

func (p *Parser) traceSpan(name string) func() {
	if p.tracer == nil || p.tracer.Level() < trace.LevelDebug {
		return func() {}
	}
	s := trace.Begin(p.tracer, trace.ScopeNode, name, 0)
	return func() {
		if s != nil {
			s.End(fmt.Sprintf("depth=%d", p.exprDepth))
		}
	}
}
