package ast

import (
	"cfront/internal/source"
)

// File represents one translation unit: a flat sequence of top-level
// statements (function definitions, the synthetic statements a `@`
// function literal emits at top level, and declarations).
type File struct {
	Span  source.Span
	Stmts []StmtID
}

// Files manages allocation of File nodes.
type Files struct {
	Arena *Arena[File]
}

// NewFiles creates a new Files arena with the given capacity hint.
func NewFiles(capHint uint) *Files {
	return &Files{Arena: NewArena[File](capHint)}
}

// New creates a new file in the arena.
func (f *Files) New(sp source.Span, stmts []StmtID) FileID {
	return FileID(f.Arena.Allocate(File{
		Span:  sp,
		Stmts: append([]StmtID(nil), stmts...),
	}))
}

// Get returns the file with the given ID.
func (f *Files) Get(id FileID) *File {
	return f.Arena.Get(uint32(id))
}
