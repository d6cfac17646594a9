package driver

import (
	"context"

	"fortio.org/safecast"

	"cfront/internal/ast"
	"cfront/internal/astcache"
	"cfront/internal/decl"
	"cfront/internal/diag"
	"cfront/internal/lexer"
	"cfront/internal/parser"
	"cfront/internal/source"
	"cfront/internal/symbols"
)

// ParseResult is what Parse hands back for one translation unit.
type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Builder *ast.Builder
	Types   *decl.TypeExprs
	Syms    *symbols.Table
	FileID  ast.FileID
	Bag     *diag.Bag
	// Locs is the derived-location table populated while lexing this file,
	// letting diagfmt render macro-expansion/#include backtraces. Nil on a
	// cache hit, since no lexing occurred.
	Locs *source.LocStore
}

// Options controls how Parse and ParseDir configure a run.
type Options struct {
	MaxDiagnostics  int
	OutOfOrderDecls bool
	Pedantic        bool
	// Cache, when non-nil, is consulted before lexing/parsing a file: a
	// content-hash hit rehydrates cached diagnostics instead of re-running
	// the passes, and a miss populates the cache once parsing finishes.
	// ParseResult.Builder/Types/Syms are left nil on a cache hit; callers
	// that need the AST (not just diagnostics) should not pass a Cache.
	Cache *astcache.Cache
}

// Parse loads path and runs it through the lexer and expression/declaration
// parser, producing one ast.Builder's worth of arenas for the translation
// unit plus whatever diagnostics the lex/parse passes raised.
func Parse(path string, opts Options) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)

	if opts.Cache != nil {
		if entry, ok, _ := opts.Cache.Get(file.Hash); ok {
			return &ParseResult{
				FileSet: fs,
				File:    file,
				Bag:     entry.Rehydrate(fileID, opts.MaxDiagnostics),
			}, nil
		}
	}

	bag := diag.NewBag(opts.MaxDiagnostics)
	reporter := &diag.BagReporter{Bag: bag}
	locs := source.NewLocStore()
	lx := lexer.New(file, lexer.Options{Reporter: reporter, Locs: locs})
	builder := ast.NewBuilder(ast.Hints{}, nil)
	types := decl.NewTypeExprs(0)
	syms := symbols.NewTable(symbols.Hints{}, builder.StringsInterner)

	maxErrors, err := safecast.Conv[uint](opts.MaxDiagnostics)
	if err != nil {
		return nil, err
	}

	parseOpts := parser.Options{
		Reporter:        reporter,
		MaxErrors:       maxErrors,
		OutOfOrderDecls: opts.OutOfOrderDecls,
		Pedantic:        opts.Pedantic,
	}

	result := parser.ParseFile(context.Background(), fs, lx, builder, types, syms, parseOpts)

	if opts.Cache != nil {
		_ = opts.Cache.Put(file.Hash, bag)
	}

	return &ParseResult{
		FileSet: fs,
		File:    file,
		Builder: builder,
		Types:   types,
		Syms:    syms,
		FileID:  result.File,
		Bag:     bag,
		Locs:    locs,
	}, nil
}
