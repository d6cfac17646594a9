package driver

import (
	"cfront/internal/diag"
	"cfront/internal/lexer"
	"cfront/internal/source"
	"cfront/internal/token"
)

// TokenizeResult is what Tokenize hands back for one translation unit.
type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
	Locs    *source.LocStore
}

// Tokenize loads path, runs it through the lexer to exhaustion, and
// collects every token alongside whatever diagnostics the scan raised.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)

	bag := diag.NewBag(maxDiagnostics)
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

	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  tokens,
		Bag:     bag,
		Locs:    locs,
	}, nil
}
