package types

import "fmt"

// TypeID uniquely identifies a type inside the interner. This is the
// semantically-interned handle the declaration/cast/sizeof/_Generic paths
// resolve identifiers and type-names to; it is deliberately a distinct type
// from ast.TypeID (the syntactic type-expression node the parser builds
// while it is still just reading tokens).
type TypeID uint32

// NoTypeID / TypeNone marks the absence of a type (the sentinel spec.md's
// declaration layer calls TYPE_NONE).
const NoTypeID TypeID = 0

// Kind enumerates the type shapes the expression parser's collaborators need
// to answer: is this a pointer, a function, an array, does it need a
// Payload slot. Struct/union/enum bodies are summarized as an opaque tag
// (KindTag) rather than modeled field-by-field, matching the declaration
// layer's "type system internals are out of scope" boundary.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindVoid
	KindBool
	KindChar
	KindInt
	KindFloat
	KindPointer
	KindArray
	KindFunction
	KindTag // opaque struct/union/enum reference, resolved by name elsewhere
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindVoid:
		return "void"
	case KindBool:
		return "bool"
	case KindChar:
		return "char"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindPointer:
		return "pointer"
	case KindArray:
		return "array"
	case KindFunction:
		return "function"
	case KindTag:
		return "tag"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Width captures the precision of integer/float primitives, and the
// signedness of integers.
type Width uint8

const (
	WidthAny Width = 0
	Width8   Width = 8
	Width16  Width = 16
	Width32  Width = 32
	Width64  Width = 64
)

// ArrayDynamicLength marks an array whose length was omitted (`int a[]`).
const ArrayDynamicLength = ^uint32(0)

// Type is a compact descriptor for any supported type. Elem is the pointee
// (KindPointer) or element type (KindArray); Payload indexes into Interner's
// side table for the kind that needs one (KindFunction -> fns, KindTag ->
// tags).
type Type struct {
	Kind     Kind
	Elem     TypeID
	Count    uint32 // KindArray length; ArrayDynamicLength for T[]
	Width    Width  // KindInt/KindFloat precision
	Unsigned bool   // KindInt signedness
	Payload  uint32
}

// MakeInt describes a signed or unsigned integer of the given width
// (WidthAny for plain `int`).
func MakeInt(width Width, unsigned bool) Type {
	return Type{Kind: KindInt, Width: width, Unsigned: unsigned}
}

// MakeFloat describes a floating-point type (Width64 for long double).
func MakeFloat(width Width) Type {
	return Type{Kind: KindFloat, Width: width}
}

// MakePointer describes a `T*` pointer to elem.
func MakePointer(elem TypeID) Type {
	return Type{Kind: KindPointer, Elem: elem}
}

// MakeArray describes a `T[count]` array; use ArrayDynamicLength for `T[]`.
func MakeArray(elem TypeID, count uint32) Type {
	return Type{Kind: KindArray, Elem: elem, Count: count}
}
