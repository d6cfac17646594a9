package diag

import (
	"fmt"
	"sync"
	"sync/atomic"

	"cfront/internal/source"
)

// DefaultErrorLimit is the hard ceiling on reported errors before the engine
// starts refusing further work, mirroring the excerpt's REPORT_MAX-backed
// tally in diagnostic.c.
const DefaultErrorLimit = 20

// Engine is the diagnostic-reporting instance a parse of one translation
// unit reports into. It is deliberately an explicit value rather than a
// process-global singleton: a multi-file driver can run one Engine per
// goroutine (as internal/driver's errgroup-based directory runs do with
// one Bag per file) without any of them
// contending on a shared mutex or corrupting each other's error counts.
type Engine struct {
	fileSet *source.FileSet
	bag     *Bag

	mu         sync.Mutex
	errorLimit int
	counters   [4]atomic.Int64 // indexed by Severity
	exceeded   bool
}

// NewEngine creates an Engine reporting into a fresh Bag, with the given
// source set (used to resolve spans for merging) and error-count ceiling.
// A non-positive limit falls back to DefaultErrorLimit.
func NewEngine(fileSet *source.FileSet, errorLimit int) *Engine {
	if errorLimit <= 0 {
		errorLimit = DefaultErrorLimit
	}
	return &Engine{
		fileSet:    fileSet,
		bag:        NewBag(4096),
		errorLimit: errorLimit,
	}
}

// Bag returns the underlying diagnostic collection for rendering/sorting.
func (e *Engine) Bag() *Bag { return e.bag }

// Count returns how many diagnostics of sev have been reported.
func (e *Engine) Count(sev Severity) int64 { return e.counters[sev].Load() }

// ExceededLimit reports whether the error ceiling has already been hit.
func (e *Engine) ExceededLimit() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.exceeded
}

// tryReserve enforces the error-count ceiling shared by Report and
// ReportTwoSpots. It returns false (having already emitted the sentinel
// diagnostic, at most once) once the caller should stop adding diagnostics
// of its own for this call. Must be called with e.mu held.
func (e *Engine) tryReserve(code Code, sev Severity, primary source.Span) bool {
	if sev != SevError {
		return true
	}
	if e.exceeded {
		return false
	}
	if int(e.counters[SevError].Load()) >= e.errorLimit {
		e.exceeded = true
		e.bag.Add(&Diagnostic{
			Severity: SevError,
			Code:     code,
			Message:  fmt.Sprintf("EXCEEDED ERROR LIMIT OF %d", e.errorLimit),
			Primary:  primary,
		})
		return false
	}
	return true
}

// Report emits a single-span diagnostic. Once the error-count ceiling is
// reached, further errors are replaced by one sentinel diagnostic and then
// silently dropped, so a pathological input cannot produce unbounded output.
// loc, if not source.NoLocID, names the LocStore entry primary was derived
// from, letting diagfmt render a macro/#include backtrace ahead of it.
func (e *Engine) Report(code Code, sev Severity, loc source.LocID, primary source.Span, msg string, notes []Note, fixes []Fix) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.tryReserve(code, sev, primary) {
		return
	}
	e.counters[sev].Add(1)
	e.bag.Add(&Diagnostic{Severity: sev, Code: code, Message: msg, Primary: primary, Loc: loc, Notes: notes, Fixes: fixes})
}

// ReportRanged emits a diagnostic whose primary span is the union of two
// spans that the caller knows sit on the same physical line (e.g. the two
// ends of a binary expression). If they share a file and line, the spans
// are merged into one underline running from the lower start column to the
// higher end column; otherwise the second span becomes a note.
func (e *Engine) ReportRanged(code Code, sev Severity, first, second source.Span, msg string) {
	if e.fileSet != nil && first.File == second.File {
		s1, _ := e.fileSet.Resolve(first)
		s2, _ := e.fileSet.Resolve(second)
		if s1.Line == s2.Line {
			merged := first
			if second.Start < merged.Start {
				merged.Start = second.Start
			}
			if second.End > merged.End {
				merged.End = second.End
			}
			e.Report(code, sev, source.NoLocID, merged, msg, nil, nil)
			return
		}
	}
	e.Report(code, sev, source.NoLocID, first, msg, []Note{{Span: second, Msg: "related location"}}, nil)
}

// ReportTwoSpots emits a genuine two-location diagnostic: primary and
// secondary are each rendered with their own underline (merged onto one
// gutter line when they share a physical line), mirroring the excerpt's
// report_two_spots rather than collapsing secondary into a plain note.
// interjection, if non-empty, is printed as a free-standing line between the
// two locations when they sit in different files or lines (report_two_spots'
// optional explanatory line between the two source blocks).
func (e *Engine) ReportTwoSpots(code Code, sev Severity, primary, secondary source.Span, msg, secondaryMsg, interjection string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.tryReserve(code, sev, primary) {
		return
	}
	e.counters[sev].Add(1)
	e.bag.Add(&Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
		Secondary: &TwoSpot{
			Span:         secondary,
			Msg:          secondaryMsg,
			Interjection: interjection,
		},
	})
}

// Reporter adapts the Engine to the narrower Reporter interface consumed by
// lexer/parser collaborators that don't need the ceiling/merging extras.
func (e *Engine) Reporter() Reporter { return engineReporter{e} }

type engineReporter struct{ e *Engine }

func (r engineReporter) Report(code Code, sev Severity, loc source.LocID, primary source.Span, msg string, notes []Note, fixes []Fix) {
	r.e.Report(code, sev, loc, primary, msg, notes, fixes)
}
