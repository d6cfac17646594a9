package symbols

import (
	"cfront/internal/ast"
	"cfront/internal/source"
	"cfront/internal/types"
)

// SymbolKind classifies what a name in scope refers to, matching the three
// outcomes the expression parser's primary-identifier rule distinguishes:
// a function parameter (gets an ordinal), a local variable or nested
// function (gets a declaring-statement handle), or a label.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolParam
	SymbolLocal
	SymbolLabel
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolParam:
		return "param"
	case SymbolLocal:
		return "local"
	case SymbolLabel:
		return "label"
	default:
		return "invalid"
	}
}

// Symbol describes one declared name.
type Symbol struct {
	Name  source.StringID
	Kind  SymbolKind
	Scope ScopeID
	Span  source.Span
	Type  types.TypeID

	// ParamIndex is the zero-based ordinal of a SymbolParam.
	ParamIndex uint32
	// Decl is the declaring statement of a SymbolLocal (the DeclStmt the
	// expression parser emits an ExprSymbol reference against).
	Decl ast.StmtID
}
