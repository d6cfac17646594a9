package source

import "testing"

func TestLocStoreAddAndGet(t *testing.T) {
	s := NewLocStore()
	if s.Len() != 0 {
		t.Fatalf("expected empty store, got Len=%d", s.Len())
	}

	id := s.Add(3, 10, 5, 4)
	if id == NoLocID {
		t.Fatalf("Add returned NoLocID")
	}
	if s.Len() != 1 {
		t.Fatalf("expected Len=1, got %d", s.Len())
	}

	l := s.Get(id)
	if l.File != 3 || l.Line != 10 || l.Col != 5 || l.Len != 4 || l.Kind != LocFile || l.Parent != NoLocID {
		t.Fatalf("unexpected Loc: %+v", l)
	}
}

func TestLocStoreGetInvalidID(t *testing.T) {
	s := NewLocStore()
	s.Add(0, 1, 1, 1)

	if got := s.Get(NoLocID); got != (Loc{}) {
		t.Fatalf("expected zero Loc for NoLocID, got %+v", got)
	}
	if got := s.Get(LocID(99)); got != (Loc{}) {
		t.Fatalf("expected zero Loc for out-of-range id, got %+v", got)
	}
}

func TestLocStoreAddMacroChain(t *testing.T) {
	s := NewLocStore()
	invoke := s.Add(1, 20, 3, 6)
	macro := s.AddMacro(1, 20, 3, 6, invoke, "MAX")

	got := s.Get(macro)
	if got.Kind != LocMacro || got.MacroName != "MAX" || got.Parent != invoke {
		t.Fatalf("unexpected macro Loc: %+v", got)
	}
}

func TestLocStoreChainWalksToRoot(t *testing.T) {
	s := NewLocStore()
	root := s.Add(0, 1, 1, 1)
	mid := s.AddMacro(0, 2, 1, 3, root, "OUTER")
	leaf := s.AddMacro(0, 3, 1, 3, mid, "INNER")

	chain := s.Chain(leaf)
	if len(chain) != 3 {
		t.Fatalf("expected chain of length 3, got %d: %+v", len(chain), chain)
	}
	if chain[0].MacroName != "INNER" || chain[1].MacroName != "OUTER" || chain[2].Kind != LocFile {
		t.Fatalf("expected innermost-first ordering INNER, OUTER, file-root, got %+v", chain)
	}
}

func TestLocStoreChainOfNoLocIDIsEmpty(t *testing.T) {
	s := NewLocStore()
	s.Add(0, 1, 1, 1)

	chain := s.Chain(NoLocID)
	if len(chain) != 0 {
		t.Fatalf("expected empty chain for NoLocID, got %+v", chain)
	}
}

func TestSimulateExpansionBuildsOutermostFirstChain(t *testing.T) {
	s := NewLocStore()

	leaf := s.SimulateExpansion(
		ExpansionFrame{File: 1, Line: 5, Col: 1, Kind: LocFile},
		ExpansionFrame{File: 2, Line: 40, Col: 9, Len: 3, Kind: LocMacro, MacroName: "MAX"},
		ExpansionFrame{File: 2, Line: 41, Col: 2, Len: 3, Kind: LocMacro, MacroName: "MIN"},
	)

	chain := s.Chain(leaf)
	if len(chain) != 3 {
		t.Fatalf("expected 3 frames, got %d: %+v", len(chain), chain)
	}
	// Chain() reports innermost first, so the last-appended frame (the
	// innermost expansion) comes first and the #include root comes last.
	if chain[0].MacroName != "MIN" || chain[1].MacroName != "MAX" || chain[2].Kind != LocFile {
		t.Fatalf("unexpected chain order: %+v", chain)
	}
	if chain[2].Parent != NoLocID {
		t.Fatalf("expected root frame to have no parent, got %+v", chain[2])
	}
}

func TestSimulateExpansionEmptyReturnsNoLocID(t *testing.T) {
	s := NewLocStore()
	if id := s.SimulateExpansion(); id != NoLocID {
		t.Fatalf("expected NoLocID for an empty expansion, got %v", id)
	}
}
