package ast

import (
	"cfront/internal/source"
)

// Exprs owns every expression arena for one translation unit: the spine
// Arena[Expr] plus one typed arena per ExprKind's payload, and the three
// flat pools (call arguments, initializer nodes, _Generic associations)
// that back variable-length children without a slice header per node.
type Exprs struct {
	Arena *Arena[Expr]

	IntLits   *Arena[ExprIntLitData]
	FloatLits *Arena[ExprFloatLitData]
	CharLits  *Arena[ExprCharLitData]
	StrLits   *Arena[ExprStringLitData]

	Params   *Arena[ExprParamData]
	Symbols  *Arena[ExprSymbolData]
	Unknowns *Arena[ExprUnknownSymbolData]

	Members   *Arena[ExprMemberData]
	Arrows    *Arena[ExprArrowData]
	Indices   *Arena[ExprIndexData]
	Calls     *Arena[ExprCallData]
	Casts     *Arena[ExprCastData]
	Compounds *Arena[ExprCompoundLiteralData]
	Generics  *Arena[ExprGenericData]
	FuncLits  *Arena[ExprFuncLiteralData]

	Unaries      *Arena[ExprUnaryData]
	SizeofExprs  *Arena[ExprSizeofExprData]
	SizeofTypes  *Arena[ExprSizeofTypeData]
	AlignofTypes *Arena[ExprAlignofTypeData]
	Binaries     *Arena[ExprBinaryData]
	Ternaries    *Arena[ExprTernaryData]
	Groups       *Arena[ExprGroupData]

	// Flat pools backing variable-length children (see ArgID, InitNodeID,
	// GenericAssocID in ids.go).
	Args          *Arena[ExprID]
	InitNodes     *Arena[InitNode]
	GenericAssocs *Arena[GenericAssoc]
}

// NewExprs creates a new Exprs with per-kind arenas preallocated using
// capHint as the initial capacity. If capHint is 0, a default capacity of
// 1<<8 is used.
func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Exprs{
		Arena: NewArena[Expr](capHint),

		IntLits:   NewArena[ExprIntLitData](capHint),
		FloatLits: NewArena[ExprFloatLitData](capHint),
		CharLits:  NewArena[ExprCharLitData](capHint),
		StrLits:   NewArena[ExprStringLitData](capHint),

		Params:   NewArena[ExprParamData](capHint),
		Symbols:  NewArena[ExprSymbolData](capHint),
		Unknowns: NewArena[ExprUnknownSymbolData](capHint),

		Members:   NewArena[ExprMemberData](capHint),
		Arrows:    NewArena[ExprArrowData](capHint),
		Indices:   NewArena[ExprIndexData](capHint),
		Calls:     NewArena[ExprCallData](capHint),
		Casts:     NewArena[ExprCastData](capHint),
		Compounds: NewArena[ExprCompoundLiteralData](capHint),
		Generics:  NewArena[ExprGenericData](capHint),
		FuncLits:  NewArena[ExprFuncLiteralData](capHint),

		Unaries:      NewArena[ExprUnaryData](capHint),
		SizeofExprs:  NewArena[ExprSizeofExprData](capHint),
		SizeofTypes:  NewArena[ExprSizeofTypeData](capHint),
		AlignofTypes: NewArena[ExprAlignofTypeData](capHint),
		Binaries:     NewArena[ExprBinaryData](capHint),
		Ternaries:    NewArena[ExprTernaryData](capHint),
		Groups:       NewArena[ExprGroupData](capHint),

		Args:          NewArena[ExprID](capHint),
		InitNodes:     NewArena[InitNode](capHint),
		GenericAssocs: NewArena[GenericAssoc](capHint),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload PayloadID) ExprID {
	return ExprID(e.Arena.Allocate(Expr{Kind: kind, Span: span, Payload: payload}))
}

// Get returns the expression with the given ID.
func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

// NewIntLit creates a new integer literal expression.
func (e *Exprs) NewIntLit(span source.Span, raw source.StringID, unsigned bool, longCount uint8) ExprID {
	payload := e.IntLits.Allocate(ExprIntLitData{Raw: raw, Unsigned: unsigned, LongCount: longCount})
	return e.new(ExprIntLit, span, PayloadID(payload))
}

// IntLit returns the integer-literal data for the given expression ID.
func (e *Exprs) IntLit(id ExprID) (*ExprIntLitData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprIntLit {
		return nil, false
	}
	return e.IntLits.Get(uint32(expr.Payload)), true
}

// NewFloatLit creates a new floating literal expression.
func (e *Exprs) NewFloatLit(span source.Span, raw source.StringID, isFloat, isLongDouble bool) ExprID {
	payload := e.FloatLits.Allocate(ExprFloatLitData{Raw: raw, IsFloat: isFloat, IsLongDouble: isLongDouble})
	return e.new(ExprFloatLit, span, PayloadID(payload))
}

// FloatLit returns the float-literal data for the given expression ID.
func (e *Exprs) FloatLit(id ExprID) (*ExprFloatLitData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprFloatLit {
		return nil, false
	}
	return e.FloatLits.Get(uint32(expr.Payload)), true
}

// NewCharLit creates a new character-constant expression.
func (e *Exprs) NewCharLit(span source.Span, value int32, wide bool) ExprID {
	payload := e.CharLits.Allocate(ExprCharLitData{Value: value, Wide: wide})
	return e.new(ExprCharLit, span, PayloadID(payload))
}

// CharLit returns the char-literal data for the given expression ID.
func (e *Exprs) CharLit(id ExprID) (*ExprCharLitData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprCharLit {
		return nil, false
	}
	return e.CharLits.Get(uint32(expr.Payload)), true
}

// NewStringLit creates a new (already concatenated) string-literal expression.
func (e *Exprs) NewStringLit(span source.Span, value source.StringID, wide bool) ExprID {
	payload := e.StrLits.Allocate(ExprStringLitData{Value: value, Wide: wide})
	return e.new(ExprStringLit, span, PayloadID(payload))
}

// StringLit returns the string-literal data for the given expression ID.
func (e *Exprs) StringLit(id ExprID) (*ExprStringLitData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprStringLit {
		return nil, false
	}
	return e.StrLits.Get(uint32(expr.Payload)), true
}

// NewParam creates a new resolved-parameter reference.
func (e *Exprs) NewParam(span source.Span, name source.StringID, index uint32) ExprID {
	payload := e.Params.Allocate(ExprParamData{Name: name, Index: index})
	return e.new(ExprParam, span, PayloadID(payload))
}

// Param returns the parameter-reference data for the given expression ID.
func (e *Exprs) Param(id ExprID) (*ExprParamData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprParam {
		return nil, false
	}
	return e.Params.Get(uint32(expr.Payload)), true
}

// NewSymbol creates a new resolved-symbol reference.
func (e *Exprs) NewSymbol(span source.Span, name source.StringID, ref uint32) ExprID {
	payload := e.Symbols.Allocate(ExprSymbolData{Name: name, Ref: ref})
	return e.new(ExprSymbol, span, PayloadID(payload))
}

// Symbol returns the symbol-reference data for the given expression ID.
func (e *Exprs) Symbol(id ExprID) (*ExprSymbolData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprSymbol {
		return nil, false
	}
	return e.Symbols.Get(uint32(expr.Payload)), true
}

// NewUnknownSymbol creates a new unresolved-identifier placeholder.
func (e *Exprs) NewUnknownSymbol(span source.Span, name source.StringID) ExprID {
	payload := e.Unknowns.Allocate(ExprUnknownSymbolData{Name: name})
	return e.new(ExprUnknownSymbol, span, PayloadID(payload))
}

// UnknownSymbol returns the unresolved-identifier data for the given expression ID.
func (e *Exprs) UnknownSymbol(id ExprID) (*ExprUnknownSymbolData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprUnknownSymbol {
		return nil, false
	}
	return e.Unknowns.Get(uint32(expr.Payload)), true
}

// NewMember creates a new `.field` access expression.
func (e *Exprs) NewMember(span source.Span, target ExprID, field source.StringID) ExprID {
	payload := e.Members.Allocate(ExprMemberData{Target: target, Field: field})
	return e.new(ExprMember, span, PayloadID(payload))
}

// Member returns the member-access data for the given expression ID.
func (e *Exprs) Member(id ExprID) (*ExprMemberData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprMember {
		return nil, false
	}
	return e.Members.Get(uint32(expr.Payload)), true
}

// NewArrow creates a new `->field` access expression.
func (e *Exprs) NewArrow(span source.Span, target ExprID, field source.StringID) ExprID {
	payload := e.Arrows.Allocate(ExprArrowData{Target: target, Field: field})
	return e.new(ExprArrow, span, PayloadID(payload))
}

// Arrow returns the arrow-access data for the given expression ID.
func (e *Exprs) Arrow(id ExprID) (*ExprArrowData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprArrow {
		return nil, false
	}
	return e.Arrows.Get(uint32(expr.Payload)), true
}

// NewIndex creates a new `target[index]` expression.
func (e *Exprs) NewIndex(span source.Span, target, index ExprID) ExprID {
	payload := e.Indices.Allocate(ExprIndexData{Target: target, Index: index})
	return e.new(ExprIndex, span, PayloadID(payload))
}

// Index returns the index data for the given expression ID.
func (e *Exprs) Index(id ExprID) (*ExprIndexData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprIndex {
		return nil, false
	}
	return e.Indices.Get(uint32(expr.Payload)), true
}

// appendArgs copies vals into the flat Args pool and returns the start ID
// and count of the contiguous run. Allocating them back to back here (and
// nowhere else, between a call's argument parse and this allocation) is
// what keeps the run contiguous; callers that stage arguments through a
// scratch arena first must copy them in here immediately once parsing of
// the argument list finishes.
func (e *Exprs) appendArgs(vals []ExprID) (ArgID, uint32) {
	if len(vals) == 0 {
		return NoArgID, 0
	}
	start := ArgID(e.Args.Allocate(vals[0]))
	for _, v := range vals[1:] {
		e.Args.Allocate(v)
	}
	return start, uint32(len(vals))
}

// CallArgs materializes the argument list of a call from the flat Args pool.
func (e *Exprs) CallArgs(d *ExprCallData) []ExprID {
	out := make([]ExprID, d.ArgCount)
	for i := uint32(0); i < d.ArgCount; i++ {
		out[i] = *e.Args.Get(uint32(d.ArgStart) + i)
	}
	return out
}

// NewCall creates a new call expression, copying args into the flat Args pool.
func (e *Exprs) NewCall(span source.Span, target ExprID, args []ExprID) ExprID {
	start, count := e.appendArgs(args)
	payload := e.Calls.Allocate(ExprCallData{Target: target, ArgStart: start, ArgCount: count})
	return e.new(ExprCall, span, PayloadID(payload))
}

// Call returns the call data for the given expression ID.
func (e *Exprs) Call(id ExprID) (*ExprCallData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprCall {
		return nil, false
	}
	return e.Calls.Get(uint32(expr.Payload)), true
}

// NewCast creates a new `(Type)Operand` cast expression.
func (e *Exprs) NewCast(span source.Span, typ TypeID, operand ExprID) ExprID {
	payload := e.Casts.Allocate(ExprCastData{Type: typ, Operand: operand})
	return e.new(ExprCast, span, PayloadID(payload))
}

// Cast returns the cast data for the given expression ID.
func (e *Exprs) Cast(id ExprID) (*ExprCastData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprCast {
		return nil, false
	}
	return e.Casts.Get(uint32(expr.Payload)), true
}

// appendInitNodes copies nodes into the flat InitNodes pool, preserving
// preorder, and returns the start ID and count of the contiguous run.
func (e *Exprs) appendInitNodes(nodes []InitNode) (InitNodeID, uint32) {
	if len(nodes) == 0 {
		return NoInitNodeID, 0
	}
	start := InitNodeID(e.InitNodes.Allocate(nodes[0]))
	for _, n := range nodes[1:] {
		e.InitNodes.Allocate(n)
	}
	return start, uint32(len(nodes))
}

// InitNodesOf materializes the initializer-node run of a compound literal.
func (e *Exprs) InitNodesOf(d *ExprCompoundLiteralData) []InitNode {
	out := make([]InitNode, d.InitCount)
	for i := uint32(0); i < d.InitCount; i++ {
		out[i] = *e.InitNodes.Get(uint32(d.InitStart) + i)
	}
	return out
}

// NewCompoundLiteral creates a new `(Type){ initializers... }` expression.
func (e *Exprs) NewCompoundLiteral(span source.Span, typ TypeID, nodes []InitNode) ExprID {
	start, count := e.appendInitNodes(nodes)
	payload := e.Compounds.Allocate(ExprCompoundLiteralData{Type: typ, InitStart: start, InitCount: count})
	return e.new(ExprCompoundLiteral, span, PayloadID(payload))
}

// CompoundLiteral returns the compound-literal data for the given expression ID.
func (e *Exprs) CompoundLiteral(id ExprID) (*ExprCompoundLiteralData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprCompoundLiteral {
		return nil, false
	}
	return e.Compounds.Get(uint32(expr.Payload)), true
}

// appendGenericAssocs copies assocs into the flat GenericAssocs pool and
// returns the start ID and count of the contiguous run.
func (e *Exprs) appendGenericAssocs(assocs []GenericAssoc) (GenericAssocID, uint32) {
	if len(assocs) == 0 {
		return NoGenericAssocID, 0
	}
	start := GenericAssocID(e.GenericAssocs.Allocate(assocs[0]))
	for _, a := range assocs[1:] {
		e.GenericAssocs.Allocate(a)
	}
	return start, uint32(len(assocs))
}

// GenericAssocsOf materializes the association list of a `_Generic` expression.
func (e *Exprs) GenericAssocsOf(d *ExprGenericData) []GenericAssoc {
	out := make([]GenericAssoc, d.AssocCount)
	for i := uint32(0); i < d.AssocCount; i++ {
		out[i] = *e.GenericAssocs.Get(uint32(d.AssocStart) + i)
	}
	return out
}

// NewGeneric creates a new `_Generic(controlling, assoc, ...)` expression.
func (e *Exprs) NewGeneric(span source.Span, controlling ExprID, assocs []GenericAssoc) ExprID {
	start, count := e.appendGenericAssocs(assocs)
	payload := e.Generics.Allocate(ExprGenericData{Controlling: controlling, AssocStart: start, AssocCount: count})
	return e.new(ExprGeneric, span, PayloadID(payload))
}

// Generic returns the `_Generic` data for the given expression ID.
func (e *Exprs) Generic(id ExprID) (*ExprGenericData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprGeneric {
		return nil, false
	}
	return e.Generics.Get(uint32(expr.Payload)), true
}

// NewFuncLiteral creates a new `@(params) { body }` function-literal expression.
func (e *Exprs) NewFuncLiteral(span source.Span, typ TypeID, body StmtID) ExprID {
	payload := e.FuncLits.Allocate(ExprFuncLiteralData{Type: typ, Body: body})
	return e.new(ExprFuncLiteral, span, PayloadID(payload))
}

// FuncLiteral returns the function-literal data for the given expression ID.
func (e *Exprs) FuncLiteral(id ExprID) (*ExprFuncLiteralData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprFuncLiteral {
		return nil, false
	}
	return e.FuncLits.Get(uint32(expr.Payload)), true
}

// NewUnary creates a new unary expression (everything but sizeof/_Alignof).
func (e *Exprs) NewUnary(span source.Span, op ExprUnaryOp, operand ExprID) ExprID {
	payload := e.Unaries.Allocate(ExprUnaryData{Op: op, Operand: operand})
	return e.new(ExprUnary, span, PayloadID(payload))
}

// Unary returns the unary data for the given expression ID.
func (e *Exprs) Unary(id ExprID) (*ExprUnaryData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprUnary {
		return nil, false
	}
	return e.Unaries.Get(uint32(expr.Payload)), true
}

// NewSizeofExpr creates a new `sizeof expr` expression.
func (e *Exprs) NewSizeofExpr(span source.Span, operand ExprID) ExprID {
	payload := e.SizeofExprs.Allocate(ExprSizeofExprData{Operand: operand})
	return e.new(ExprSizeofExpr, span, PayloadID(payload))
}

// SizeofExpr returns the sizeof-expression data for the given expression ID.
func (e *Exprs) SizeofExpr(id ExprID) (*ExprSizeofExprData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprSizeofExpr {
		return nil, false
	}
	return e.SizeofExprs.Get(uint32(expr.Payload)), true
}

// NewSizeofType creates a new `sizeof(Type)` expression.
func (e *Exprs) NewSizeofType(span source.Span, typ TypeID) ExprID {
	payload := e.SizeofTypes.Allocate(ExprSizeofTypeData{Type: typ})
	return e.new(ExprSizeofType, span, PayloadID(payload))
}

// SizeofType returns the sizeof-type data for the given expression ID.
func (e *Exprs) SizeofType(id ExprID) (*ExprSizeofTypeData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprSizeofType {
		return nil, false
	}
	return e.SizeofTypes.Get(uint32(expr.Payload)), true
}

// NewAlignofType creates a new `_Alignof(Type)` expression.
func (e *Exprs) NewAlignofType(span source.Span, typ TypeID) ExprID {
	payload := e.AlignofTypes.Allocate(ExprAlignofTypeData{Type: typ})
	return e.new(ExprAlignofType, span, PayloadID(payload))
}

// AlignofType returns the _Alignof data for the given expression ID.
func (e *Exprs) AlignofType(id ExprID) (*ExprAlignofTypeData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprAlignofType {
		return nil, false
	}
	return e.AlignofTypes.Get(uint32(expr.Payload)), true
}

// NewBinary creates a new binary (or compound-assignment) expression.
func (e *Exprs) NewBinary(span source.Span, op ExprBinaryOp, left, right ExprID) ExprID {
	payload := e.Binaries.Allocate(ExprBinaryData{Op: op, Left: left, Right: right})
	return e.new(ExprBinary, span, PayloadID(payload))
}

// Binary returns the binary data for the given expression ID.
func (e *Exprs) Binary(id ExprID) (*ExprBinaryData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprBinary {
		return nil, false
	}
	return e.Binaries.Get(uint32(expr.Payload)), true
}

// NewTernary creates a new `cond ? then : else` expression.
func (e *Exprs) NewTernary(span source.Span, cond, then, els ExprID) ExprID {
	payload := e.Ternaries.Allocate(ExprTernaryData{Cond: cond, Then: then, Else: els})
	return e.new(ExprTernary, span, PayloadID(payload))
}

// Ternary returns the ternary data for the given expression ID.
func (e *Exprs) Ternary(id ExprID) (*ExprTernaryData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprTernary {
		return nil, false
	}
	return e.Ternaries.Get(uint32(expr.Payload)), true
}

// NewGroup creates a new parenthesized-group expression.
func (e *Exprs) NewGroup(span source.Span, inner ExprID) ExprID {
	payload := e.Groups.Allocate(ExprGroupData{Inner: inner})
	return e.new(ExprGroup, span, PayloadID(payload))
}

// Group returns the group data for the given expression ID.
func (e *Exprs) Group(id ExprID) (*ExprGroupData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprGroup {
		return nil, false
	}
	return e.Groups.Get(uint32(expr.Payload)), true
}
