package lexer

import (
	"cfront/internal/diag"
	"cfront/internal/source"
)

// Options configures a Lexer.
type Options struct {
	Reporter diag.Reporter
	// Locs, if set, receives a derived-location entry for every token's
	// start position, enabling macro-expansion backtrace rendering by
	// internal/diagfmt. Nil disables this (unit tests that don't care
	// about backtraces commonly leave it nil).
	Locs *source.LocStore
}

// locFor records sp in lx.opts.Locs (if tracking is enabled) and returns the
// resulting LocID, or source.NoLocID when Locs is nil.
func (lx *Lexer) locFor(sp source.Span) source.LocID {
	if lx.opts.Locs == nil {
		return source.NoLocID
	}
	lc := lx.file.LineCol(sp.Start)
	return lx.opts.Locs.Add(lx.file.ID, lc.Line, lc.Col, sp.Len())
}

func (lx *Lexer) reportLex(code diag.Code, sev diag.Severity, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, sev, lx.locFor(sp), sp, msg, nil, nil)
	}
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	lx.reportLex(code, diag.SevError, sp, msg)
}
