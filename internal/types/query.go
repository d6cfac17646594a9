package types

import "cfront/internal/source"

// TagInfo names an opaque struct/union/enum reference. Bodies are not
// modeled field-by-field; only enough to distinguish one tag from another
// and to answer `_Generic`'s type-compatibility question and sizeof's
// "is this a type name" probe.
type TagInfo struct {
	Name source.StringID
}

// RegisterTag creates or finds an opaque tag type for the given name.
func (in *Interner) RegisterTag(name source.StringID) TypeID {
	for id := TypeID(1); int(id) < len(in.types); id++ {
		tt := in.types[id]
		if tt.Kind != KindTag {
			continue
		}
		if int(tt.Payload) < len(in.tags) && in.tags[tt.Payload].Name == name {
			return id
		}
	}
	in.tags = append(in.tags, TagInfo{Name: name})
	slot := uint32(len(in.tags) - 1)
	return in.internRaw(Type{Kind: KindTag, Payload: slot})
}

// TagInfo retrieves tag metadata by TypeID.
func (in *Interner) TagInfo(id TypeID) (*TagInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindTag {
		return nil, false
	}
	if int(tt.Payload) >= len(in.tags) {
		return nil, false
	}
	return &in.tags[tt.Payload], true
}

// PointerElem returns the pointee of a pointer type.
func (in *Interner) PointerElem(id TypeID) (TypeID, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindPointer {
		return NoTypeID, false
	}
	return tt.Elem, true
}

// ArrayElem returns the element type and length of an array type. Length is
// ArrayDynamicLength for a declarator that omitted a bound (`int a[]`).
func (in *Interner) ArrayElem(id TypeID) (elem TypeID, count uint32, ok bool) {
	tt, found := in.Lookup(id)
	if !found || tt.Kind != KindArray {
		return NoTypeID, 0, false
	}
	return tt.Elem, tt.Count, true
}

// IsPointer reports whether id is a pointer type.
func (in *Interner) IsPointer(id TypeID) bool {
	tt, ok := in.Lookup(id)
	return ok && tt.Kind == KindPointer
}

// IsFunction reports whether id is a function type.
func (in *Interner) IsFunction(id TypeID) bool {
	tt, ok := in.Lookup(id)
	return ok && tt.Kind == KindFunction
}

// Decay returns the pointer type a function or array type decays to in
// expression context (the usual C function/array-to-pointer conversion);
// for any other kind it returns id unchanged.
func (in *Interner) Decay(id TypeID) TypeID {
	tt, ok := in.Lookup(id)
	if !ok {
		return id
	}
	switch tt.Kind {
	case KindArray:
		return in.Intern(MakePointer(tt.Elem))
	case KindFunction:
		return in.Intern(MakePointer(id))
	default:
		return id
	}
}
