package types

import (
	"fmt"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs for the primitive types every C translation unit
// needs without asking the declaration layer to re-register them. Bool
// mirrors spec.md's TYPE_BOOL sentinel; the width-qualified int/unsigned
// pairs cover the standard integer conversion rank ladder.
type Builtins struct {
	Void    TypeID
	Bool    TypeID
	Char    TypeID
	SChar   TypeID
	UChar   TypeID
	Short   TypeID
	UShort  TypeID
	Int     TypeID
	UInt    TypeID
	Long    TypeID
	ULong   TypeID
	LLong   TypeID
	ULLong  TypeID
	Float   TypeID
	Double  TypeID
	LDouble TypeID
}

// Interner hands out stable TypeIDs for structural type descriptors, the
// same lookup-or-allocate discipline as the teacher's source-string
// interner.
type Interner struct {
	types []Type
	index map[typeKey]TypeID

	builtins Builtins
	fns      []FnInfo
	tags     []TagInfo
}

// NewInterner constructs an interner pre-seeded with every builtin primitive.
func NewInterner() *Interner {
	in := &Interner{
		index: make(map[typeKey]TypeID, 64),
	}
	in.fns = append(in.fns, FnInfo{})
	in.tags = append(in.tags, TagInfo{})
	in.internRaw(Type{Kind: KindInvalid}) // reserve slot 0 for NoTypeID

	in.builtins.Void = in.Intern(Type{Kind: KindVoid})
	in.builtins.Bool = in.Intern(Type{Kind: KindBool})
	in.builtins.Char = in.Intern(Type{Kind: KindChar})
	in.builtins.SChar = in.Intern(MakeInt(Width8, false))
	in.builtins.UChar = in.Intern(MakeInt(Width8, true))
	in.builtins.Short = in.Intern(MakeInt(Width16, false))
	in.builtins.UShort = in.Intern(MakeInt(Width16, true))
	in.builtins.Int = in.Intern(MakeInt(Width32, false))
	in.builtins.UInt = in.Intern(MakeInt(Width32, true))
	in.builtins.Long = in.Intern(MakeInt(Width64, false))
	in.builtins.ULong = in.Intern(MakeInt(Width64, true))
	in.builtins.LLong = in.Intern(MakeInt(Width64, false))
	in.builtins.ULLong = in.Intern(MakeInt(Width64, true))
	in.builtins.Float = in.Intern(MakeFloat(Width32))
	in.builtins.Double = in.Intern(MakeFloat(Width64))
	in.builtins.LDouble = in.Intern(MakeFloat(Width64))
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if t.Kind == KindInvalid {
		return NoTypeID
	}
	key := typeKey(t)
	if id, ok := in.index[key]; ok {
		return id
	}
	return in.internRaw(t)
}

// internRaw adds the descriptor to the storage without consulting the map.
func (in *Interner) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	in.types = append(in.types, t)
	key := typeKey(t)
	in.index[key] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

type typeKey struct {
	Kind     Kind
	Elem     TypeID
	Count    uint32
	Width    Width
	Unsigned bool
	Payload  uint32
}

// IsScalar reports whether id is arithmetic or a pointer — the operand
// class the unary/binary operator tables accept without consulting
// struct/union member rules.
func (in *Interner) IsScalar(id TypeID) bool {
	tt, ok := in.Lookup(id)
	if !ok {
		return false
	}
	switch tt.Kind {
	case KindBool, KindChar, KindInt, KindFloat, KindPointer:
		return true
	default:
		return false
	}
}

// IsArithmetic reports whether id is an integer or floating type.
func (in *Interner) IsArithmetic(id TypeID) bool {
	tt, ok := in.Lookup(id)
	if !ok {
		return false
	}
	switch tt.Kind {
	case KindBool, KindChar, KindInt, KindFloat:
		return true
	default:
		return false
	}
}
