package ast

import (
	"cfront/internal/source"
)

// Hints provides capacity hints for the builder.
type Hints struct{ Files, Stmts, Exprs uint }

// Builder bundles the three arenas a translation unit needs (files,
// statements, expressions) plus the string interner they all key literals
// and identifiers through. The declaration collaborator (internal/decl)
// owns its own type-expression storage and is threaded through separately,
// since it resolves TypeIDs rather than allocating AST nodes of its own.
type Builder struct {
	Files           *Files
	Stmts           *Stmts
	Exprs           *Exprs
	StringsInterner *source.Interner
}

// NewBuilder creates a Builder configured with capacity hints and a shared
// string interner. If any hint field is zero, a default capacity is applied
// (Files=64, Stmts=256, Exprs=256). If stringsInterner is nil, a new
// interner is created.
func NewBuilder(hints Hints, stringsInterner *source.Interner) *Builder {
	if hints.Files == 0 {
		hints.Files = 1 << 6
	}
	if hints.Stmts == 0 {
		hints.Stmts = 1 << 8
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 8
	}
	if stringsInterner == nil {
		stringsInterner = source.NewInterner()
	}
	return &Builder{
		Files:           NewFiles(hints.Files),
		Stmts:           NewStmts(hints.Stmts),
		Exprs:           NewExprs(hints.Exprs),
		StringsInterner: stringsInterner,
	}
}

// NewFile creates a new translation-unit file from its already-parsed
// top-level statements.
func (b *Builder) NewFile(sp source.Span, stmts []StmtID) FileID {
	return b.Files.New(sp, stmts)
}

// NewStmt creates a new statement ID with a raw kind/payload pair; prefer
// the typed Stmts.NewXxx constructors where one exists.
func (b *Builder) NewStmt(kind StmtKind, sp source.Span, payload PayloadID) StmtID {
	return b.Stmts.New(kind, sp, payload)
}
