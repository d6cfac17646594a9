package symbols

import "cfront/internal/source"

// Hints provide optional capacity suggestions for the symbol table arenas.
type Hints struct{ Scopes, Symbols uint }

// Table aggregates the local scope stack, the flat label namespace, and an
// optional global table consulted only when the caller has configured
// out-of-order top-level declarations (spec.md §6).
type Table struct {
	Scopes  *Scopes
	Symbols *Symbols
	Strings *source.Interner

	labels  map[source.StringID]SymbolID
	globals map[source.StringID]SymbolID
}

// NewTable builds a fresh table with optional capacity hints. If strings is
// nil, a fresh interner is allocated.
func NewTable(h Hints, strings *source.Interner) *Table {
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Table{
		Scopes:  NewScopes(uint32(h.Scopes)),
		Symbols: NewSymbols(uint32(h.Symbols)),
		Strings: strings,
		labels:  make(map[source.StringID]SymbolID),
		globals: make(map[source.StringID]SymbolID),
	}
}

// NewFunctionScope opens the top scope of a function body, where parameters
// live.
func (t *Table) NewFunctionScope(span source.Span) ScopeID {
	return t.Scopes.New(ScopeFunction, NoScopeID, span)
}

// NewBlockScope opens a nested block scope under parent.
func (t *Table) NewBlockScope(parent ScopeID, span source.Span) ScopeID {
	return t.Scopes.New(ScopeBlock, parent, span)
}

// Declare adds a symbol to scope. It reports ok=false without mutating
// anything if name is already declared directly in scope (shadowing an
// enclosing scope's name is fine; redeclaring within the same scope is the
// caller's SynDuplicateLocal).
func (t *Table) Declare(scope ScopeID, kind SymbolKind, name source.StringID, span source.Span) (SymbolID, bool) {
	sc := t.Scopes.Get(scope)
	if sc == nil {
		return NoSymbolID, false
	}
	if _, exists := sc.Names[name]; exists {
		return NoSymbolID, false
	}
	id := t.Symbols.New(Symbol{Name: name, Kind: kind, Scope: scope, Span: span})
	sc.Names[name] = id
	sc.Symbols = append(sc.Symbols, id)
	return id, true
}

// Lookup walks scope and its ancestors looking for name.
func (t *Table) Lookup(scope ScopeID, name source.StringID) (*Symbol, bool) {
	_, sym, ok := t.LookupID(scope, name)
	return sym, ok
}

// LookupID behaves like Lookup but also returns the resolved SymbolID, for
// callers (an ExprSymbol's Ref) that need a stable handle rather than just
// the snapshot Symbol.
func (t *Table) LookupID(scope ScopeID, name source.StringID) (SymbolID, *Symbol, bool) {
	for cur := scope; cur.IsValid(); {
		sc := t.Scopes.Get(cur)
		if sc == nil {
			return NoSymbolID, nil, false
		}
		if id, ok := sc.Names[name]; ok {
			return id, t.Symbols.Get(id), true
		}
		cur = sc.Parent
	}
	return NoSymbolID, nil, false
}

// DeclareLabel registers a goto-label. Labels share one namespace per
// translation unit in this simplified model (spec.md leaves per-function
// label scoping as an implementation detail); a duplicate label name
// reports ok=false.
func (t *Table) DeclareLabel(name source.StringID, span source.Span) (SymbolID, bool) {
	if _, exists := t.labels[name]; exists {
		return NoSymbolID, false
	}
	id := t.Symbols.New(Symbol{Name: name, Kind: SymbolLabel, Span: span})
	t.labels[name] = id
	return id, true
}

// LookupLabel finds a previously declared label.
func (t *Table) LookupLabel(name source.StringID) (*Symbol, bool) {
	id, ok := t.labels[name]
	if !ok {
		return nil, false
	}
	return t.Symbols.Get(id), true
}

// DeclareGlobal registers a file-scope symbol, consulted by identifier
// resolution only when out-of-order top-level declarations are enabled.
func (t *Table) DeclareGlobal(name source.StringID, id SymbolID) {
	t.globals[name] = id
}

// LookupGlobal finds a file-scope symbol.
func (t *Table) LookupGlobal(name source.StringID) (*Symbol, bool) {
	_, sym, ok := t.LookupGlobalID(name)
	return sym, ok
}

// LookupGlobalID behaves like LookupGlobal but also returns the SymbolID.
func (t *Table) LookupGlobalID(name source.StringID) (SymbolID, *Symbol, bool) {
	id, ok := t.globals[name]
	if !ok {
		return NoSymbolID, nil, false
	}
	return id, t.Symbols.Get(id), true
}
