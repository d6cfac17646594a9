package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"fortio.org/safecast"
	"golang.org/x/sync/errgroup"

	"cfront/internal/ast"
	"cfront/internal/decl"
	"cfront/internal/diag"
	"cfront/internal/lexer"
	"cfront/internal/parser"
	"cfront/internal/source"
	"cfront/internal/symbols"
	"cfront/internal/token"
)

// TokenizeDirResult is one file's share of a TokenizeDir run.
type TokenizeDirResult struct {
	Path   string
	FileID source.FileID
	Tokens []token.Token
	Bag    *diag.Bag
	Locs   *source.LocStore
}

// ParseDirResult is one file's share of a ParseDir run.
type ParseDirResult struct {
	Path    string
	FileID  ast.FileID
	Builder *ast.Builder
	Types   *decl.TypeExprs
	Bag     *diag.Bag
	// Locs is nil on a cache hit, since no lexing occurred for that file.
	Locs *source.LocStore
}

// ListCFiles walks dir collecting every *.c/*.h file, sorted by path, the
// same listing TokenizeDir/ParseDir use internally. Exported so callers
// (the CLI's progress view) can build a file list before the run starts.
func ListCFiles(dir string) ([]string, error) {
	return listCFiles(dir)
}

func listCFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext == ".c" || ext == ".h" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// TokenizeDir tokenizes every *.c/*.h file under dir concurrently, capped
// at jobs workers (0 meaning GOMAXPROCS). Results are returned in the same
// order listCFiles produced (sorted, deterministic), not completion order.
// progress may be nil; if non-nil it receives a Queued event for every
// file up front and a Working/Done(or Error) pair as each file is lexed.
func TokenizeDir(ctx context.Context, dir string, maxDiagnostics, jobs int, progress ProgressSink) (*source.FileSet, []TokenizeDirResult, error) {
	files, err := listCFiles(dir)
	if err != nil {
		return nil, nil, err
	}
	if len(files) == 0 {
		return source.NewFileSetWithBase(dir), nil, nil
	}
	for _, p := range files {
		emit(progress, p, StageLex, StatusQueued, nil)
	}

	fileSet := source.NewFileSetWithBase(dir)
	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error, len(files))
	for _, p := range files {
		id, loadErr := fileSet.Load(p)
		if loadErr != nil {
			loadErrors[p] = loadErr
			continue
		}
		fileIDs[p] = id
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]TokenizeDirResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func(i int, path string) func() error {
			return func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}

				bag := diag.NewBag(maxDiagnostics)
				if loadErr, hadErr := loadErrors[path]; hadErr {
					bag.Add(&diag.Diagnostic{
						Severity: diag.SevError,
						Code:     diag.IOLoadFileError,
						Message:  "failed to load file: " + loadErr.Error(),
						Primary:  source.Span{},
					})
					emit(progress, path, StageLex, StatusError, loadErr)
					results[i] = TokenizeDirResult{Path: path, Bag: bag}
					return nil
				}

				emit(progress, path, StageLex, StatusWorking, nil)
				fileID := fileIDs[path]
				file := fileSet.Get(fileID)
				reporterAdapter := &lexer.ReporterAdapter{Bag: bag}
				locs := source.NewLocStore()
				lx := lexer.New(file, lexer.Options{Reporter: reporterAdapter.Reporter(), Locs: locs})

				var tokens []token.Token
				for {
					tok := lx.Next()
					tokens = append(tokens, tok)
					if tok.Kind == token.EOF {
						break
					}
				}

				emit(progress, path, StageLex, StatusDone, nil)
				results[i] = TokenizeDirResult{Path: path, FileID: fileID, Tokens: tokens, Bag: bag, Locs: locs}
				return nil
			}
		}(i, path))
	}

	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}

// ParseDir parses every *.c/*.h file under dir concurrently, capped at jobs
// workers (0 meaning GOMAXPROCS). Each file gets its own ast.Builder, type
// table, and symbol table — translation units do not share parser state,
// matching spec.md §4.2's "single-threaded per translation unit" model.
// progress may be nil; if non-nil it receives the same Queued/Working/
// Done(or Error) sequence TokenizeDir emits, tagged StageParse.
func ParseDir(ctx context.Context, dir string, opts Options, jobs int, progress ProgressSink) (*source.FileSet, []ParseDirResult, error) {
	files, err := listCFiles(dir)
	if err != nil {
		return nil, nil, err
	}
	if len(files) == 0 {
		return source.NewFileSetWithBase(dir), nil, nil
	}
	for _, p := range files {
		emit(progress, p, StageParse, StatusQueued, nil)
	}

	fileSet := source.NewFileSetWithBase(dir)
	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error, len(files))
	for _, p := range files {
		id, loadErr := fileSet.Load(p)
		if loadErr != nil {
			loadErrors[p] = loadErr
			continue
		}
		fileIDs[p] = id
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	maxErrors, err := safecast.Conv[uint](opts.MaxDiagnostics)
	if err != nil {
		return nil, nil, err
	}

	results := make([]ParseDirResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func(i int, path string) func() error {
			return func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}

				bag := diag.NewBag(opts.MaxDiagnostics)
				if loadErr, hadErr := loadErrors[path]; hadErr {
					bag.Add(&diag.Diagnostic{
						Severity: diag.SevError,
						Code:     diag.IOLoadFileError,
						Message:  "failed to load file: " + loadErr.Error(),
						Primary:  source.Span{},
					})
					emit(progress, path, StageParse, StatusError, loadErr)
					results[i] = ParseDirResult{Path: path, Bag: bag}
					return nil
				}

				emit(progress, path, StageParse, StatusWorking, nil)
				fileID := fileIDs[path]
				file := fileSet.Get(fileID)

				if opts.Cache != nil {
					if entry, ok, _ := opts.Cache.Get(file.Hash); ok {
						emit(progress, path, StageParse, StatusDone, nil)
						results[i] = ParseDirResult{
							Path: path,
							Bag:  entry.Rehydrate(fileID, opts.MaxDiagnostics),
						}
						return nil
					}
				}

				reporter := &diag.BagReporter{Bag: bag}
				locs := source.NewLocStore()
				lx := lexer.New(file, lexer.Options{Reporter: reporter, Locs: locs})
				builder := ast.NewBuilder(ast.Hints{}, nil)
				types := decl.NewTypeExprs(0)
				syms := symbols.NewTable(symbols.Hints{}, builder.StringsInterner)

				parseOpts := parser.Options{
					Reporter:        reporter,
					MaxErrors:       maxErrors,
					OutOfOrderDecls: opts.OutOfOrderDecls,
					Pedantic:        opts.Pedantic,
				}
				result := parser.ParseFile(gctx, fileSet, lx, builder, types, syms, parseOpts)

				if opts.Cache != nil {
					_ = opts.Cache.Put(file.Hash, bag)
				}

				emit(progress, path, StageParse, StatusDone, nil)
				results[i] = ParseDirResult{
					Path:    path,
					FileID:  result.File,
					Builder: builder,
					Types:   types,
					Bag:     bag,
					Locs:    locs,
				}
				return nil
			}
		}(i, path))
	}

	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}
