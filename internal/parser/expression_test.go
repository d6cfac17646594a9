package parser

import (
	"context"
	"testing"

	"cfront/internal/ast"
	"cfront/internal/decl"
	"cfront/internal/diag"
	"cfront/internal/lexer"
	"cfront/internal/source"
	"cfront/internal/symbols"
	"cfront/internal/testkit"
)

// parseTU runs a full translation unit through the lexer and parser, the
// same collaborator wiring cmd/cfront uses, and returns the arenas, the
// parsed file, and whatever diagnostics were reported.
func parseTU(t *testing.T, src string) (*ast.Builder, ast.FileID, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.c", []byte(src))
	file := fs.Get(fileID)

	bag := diag.NewBag(256)
	reporter := diag.BagReporter{Bag: bag}

	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	arenas := ast.NewBuilder(ast.Hints{}, nil)
	types := decl.NewTypeExprs(0)
	syms := symbols.NewTable(symbols.Hints{}, arenas.StringsInterner)

	opts := Options{MaxErrors: 256, Reporter: reporter}
	res := ParseFile(context.Background(), fs, lx, arenas, types, syms, opts)

	if err := testkit.CheckSpanInvariants(arenas, res.File, file); err != nil {
		t.Fatalf("span invariants violated: %v", err)
	}
	if err := testkit.CheckExprIndexInvariant(arenas.Exprs, arenas.Exprs.Arena.Len()); err != nil {
		t.Fatalf("I1 violated: %v", err)
	}
	return arenas, res.File, bag
}

// firstBodyStmt returns the first statement inside the first top-level
// function definition's body block.
func firstBodyStmt(t *testing.T, arenas *ast.Builder, fileID ast.FileID) ast.StmtID {
	t.Helper()
	f := arenas.Files.Get(fileID)
	if f == nil || len(f.Stmts) == 0 {
		t.Fatal("expected at least one top-level statement")
	}
	fn := arenas.Stmts.FuncDef(f.Stmts[0])
	if fn == nil {
		t.Fatalf("expected a function definition, got stmt kind %v", arenas.Stmts.Get(f.Stmts[0]).Kind)
	}
	block := arenas.Stmts.Block(fn.Body)
	if block == nil || len(block.Stmts) == 0 {
		t.Fatal("expected a non-empty function body")
	}
	return block.Stmts[0]
}

// exprFromStmt pulls the ast.ExprID out of whichever statement kind can
// carry one (expression-statement, return, or local declaration).
func exprFromStmt(t *testing.T, arenas *ast.Builder, stmtID ast.StmtID) ast.ExprID {
	t.Helper()
	stmt := arenas.Stmts.Get(stmtID)
	switch stmt.Kind {
	case ast.StmtExpr:
		return arenas.Stmts.Expr(stmtID).Expr
	case ast.StmtReturn:
		return arenas.Stmts.Return(stmtID).Expr
	case ast.StmtDecl:
		return arenas.Stmts.Decl(stmtID).Value
	default:
		t.Fatalf("statement kind %v does not carry an expression", stmt.Kind)
		return ast.NoExprID
	}
}

// parseExprOK wraps exprSrc as a statement inside a function body and
// returns its parsed root expression, failing the test on any diagnostic.
func parseExprOK(t *testing.T, exprSrc string) (ast.ExprID, *ast.Builder) {
	t.Helper()
	arenas, fileID, bag := parseTU(t, "void f(void) { "+exprSrc+"; }")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics parsing %q: %+v", exprSrc, bag.Items())
	}
	stmtID := firstBodyStmt(t, arenas, fileID)
	return exprFromStmt(t, arenas, stmtID), arenas
}

// parseDeclExprOK parses a local declaration statement (so casts/compound
// literals/designated initializers that need a surrounding `Type name = `
// can be exercised) and returns the initializer expression.
func parseDeclExprOK(t *testing.T, declSrc string) (ast.ExprID, *ast.Builder) {
	t.Helper()
	arenas, fileID, bag := parseTU(t, "void f(void) { "+declSrc+"; }")
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics parsing %q: %+v", declSrc, bag.Items())
	}
	stmtID := firstBodyStmt(t, arenas, fileID)
	return exprFromStmt(t, arenas, stmtID), arenas
}

func binOp(t *testing.T, arenas *ast.Builder, id ast.ExprID) *ast.ExprBinaryData {
	t.Helper()
	d, ok := arenas.Exprs.Binary(id)
	if !ok {
		t.Fatalf("expected ExprBinary, got kind %v", arenas.Exprs.Get(id).Kind)
	}
	return d
}

func intLitText(t *testing.T, arenas *ast.Builder, id ast.ExprID) string {
	t.Helper()
	lit, ok := arenas.Exprs.IntLit(id)
	if !ok {
		t.Fatalf("expected ExprIntLit, got kind %v", arenas.Exprs.Get(id).Kind)
	}
	text, _ := arenas.StringsInterner.Lookup(lit.Raw)
	return text
}

func symName(t *testing.T, arenas *ast.Builder, id ast.ExprID) string {
	t.Helper()
	switch arenas.Exprs.Get(id).Kind {
	case ast.ExprSymbol:
		d, _ := arenas.Exprs.Symbol(id)
		text, _ := arenas.StringsInterner.Lookup(d.Name)
		return text
	case ast.ExprUnknownSymbol:
		d, _ := arenas.Exprs.UnknownSymbol(id)
		text, _ := arenas.StringsInterner.Lookup(d.Name)
		return text
	case ast.ExprParam:
		d, _ := arenas.Exprs.Param(id)
		text, _ := arenas.StringsInterner.Lookup(d.Name)
		return text
	default:
		t.Fatalf("expected an identifier-shaped expression, got kind %v", arenas.Exprs.Get(id).Kind)
		return ""
	}
}

// --- P1: precedence ---------------------------------------------------

func TestPrecedenceMultiplicationOverAddition(t *testing.T) {
	// a + b * c ⇒ PLUS(a, TIMES(b, c)), scenario 1 of spec.md §8.
	id, arenas := parseExprOK(t, "1 + 2 * 3")
	plus := binOp(t, arenas, id)
	if plus.Op != ast.BinAdd {
		t.Fatalf("expected root BinAdd, got %v", plus.Op)
	}
	if intLitText(t, arenas, plus.Left) != "1" {
		t.Fatalf("expected left operand 1")
	}
	times := binOp(t, arenas, plus.Right)
	if times.Op != ast.BinMul {
		t.Fatalf("expected right child BinMul, got %v", times.Op)
	}
	if intLitText(t, arenas, times.Left) != "2" || intLitText(t, arenas, times.Right) != "3" {
		t.Fatalf("unexpected multiplication operands")
	}
}

func TestPrecedenceAllPairs(t *testing.T) {
	// For every adjacent (lower, higher) pair of binary precedence levels
	// from `||` to `*`, `a lo b hi c` parses with
	// the looser operator at the root and the tighter pair as its right
	// child, per spec.md P1.
	cases := []struct {
		name   string
		src    string
		root   ast.ExprBinaryOp
		inner  ast.ExprBinaryOp
	}{
		{"or_vs_and", "a || b && c", ast.BinLogicalOr, ast.BinLogicalAnd},
		{"and_vs_bitor", "a && b | c", ast.BinLogicalAnd, ast.BinBitOr},
		{"bitor_vs_bitxor", "a | b ^ c", ast.BinBitOr, ast.BinBitXor},
		{"bitxor_vs_bitand", "a ^ b & c", ast.BinBitXor, ast.BinBitAnd},
		{"bitand_vs_eq", "a & b == c", ast.BinBitAnd, ast.BinEq},
		{"eq_vs_rel", "a == b < c", ast.BinEq, ast.BinLess},
		{"rel_vs_shift", "a < b << c", ast.BinLess, ast.BinShl},
		{"shift_vs_add", "a << b + c", ast.BinShl, ast.BinAdd},
		{"add_vs_mul", "a + b * c", ast.BinAdd, ast.BinMul},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			id, arenas := parseExprOK(t, tt.src)
			root := binOp(t, arenas, id)
			if root.Op != tt.root {
				t.Fatalf("expected root %v, got %v", tt.root, root.Op)
			}
			inner := binOp(t, arenas, root.Right)
			if inner.Op != tt.inner {
				t.Fatalf("expected inner %v, got %v", tt.inner, inner.Op)
			}
		})
	}
}

// --- P2: left-associativity --------------------------------------------

func TestLeftAssociativity(t *testing.T) {
	cases := []struct {
		name string
		src  string
		op   ast.ExprBinaryOp
	}{
		{"add", "a + b + c", ast.BinAdd},
		{"mul", "a * b * c", ast.BinMul},
		{"comma", "a , b , c", ast.BinComma},
		{"bitor", "a | b | c", ast.BinBitOr},
		{"logicaland", "a && b && c", ast.BinLogicalAnd},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			id, arenas := parseExprOK(t, tt.src)
			root := binOp(t, arenas, id)
			if root.Op != tt.op {
				t.Fatalf("expected root op %v, got %v", tt.op, root.Op)
			}
			left := binOp(t, arenas, root.Left)
			if left.Op != tt.op {
				t.Fatalf("expected (a op b) as left child, got %v", left.Op)
			}
			if symName(t, arenas, left.Left) != "a" || symName(t, arenas, left.Right) != "b" {
				t.Fatalf("expected left child operands a, b")
			}
			if symName(t, arenas, root.Right) != "c" {
				t.Fatalf("expected root right operand c")
			}
		})
	}
}

// --- P3: right-associativity of assignment and ?: -----------------------

func TestAssignmentRightAssociative(t *testing.T) {
	id, arenas := parseExprOK(t, "a = b = 3")
	outer := binOp(t, arenas, id)
	if outer.Op != ast.BinAssign {
		t.Fatalf("expected BinAssign root, got %v", outer.Op)
	}
	if symName(t, arenas, outer.Left) != "a" {
		t.Fatalf("expected left operand a")
	}
	inner := binOp(t, arenas, outer.Right)
	if inner.Op != ast.BinAssign {
		t.Fatalf("expected nested BinAssign, got %v", inner.Op)
	}
	if symName(t, arenas, inner.Left) != "b" || intLitText(t, arenas, inner.Right) != "3" {
		t.Fatalf("expected b = 3 as the nested assignment")
	}
}

func TestTernaryRightAssociative(t *testing.T) {
	id, arenas := parseExprOK(t, "a ? b : c ? d : e")
	outer, ok := arenas.Exprs.Ternary(id)
	if !ok {
		t.Fatalf("expected ExprTernary root")
	}
	if symName(t, arenas, outer.Cond) != "a" || symName(t, arenas, outer.Then) != "b" {
		t.Fatalf("unexpected outer ternary cond/then")
	}
	inner, ok := arenas.Exprs.Ternary(outer.Else)
	if !ok {
		t.Fatalf("expected nested ExprTernary in the else branch")
	}
	if symName(t, arenas, inner.Cond) != "c" || symName(t, arenas, inner.Then) != "d" || symName(t, arenas, inner.Else) != "e" {
		t.Fatalf("unexpected nested ternary operands")
	}
}

// --- P4: string concatenation -------------------------------------------

func TestStringConcatenation(t *testing.T) {
	id, arenas := parseExprOK(t, `"foo" "bar"`)
	lit, ok := arenas.Exprs.StringLit(id)
	if !ok {
		t.Fatalf("expected ExprStringLit")
	}
	text, _ := arenas.StringsInterner.Lookup(lit.Value)
	if text != "foobar" {
		t.Fatalf("expected concatenated interior %q, got %q", "foobar", text)
	}
	if lit.Wide {
		t.Fatalf("expected a narrow literal")
	}
}

func TestStringConcatenationThreeNarrow(t *testing.T) {
	id, arenas := parseExprOK(t, `"a" "b" "c"`)
	lit, ok := arenas.Exprs.StringLit(id)
	if !ok {
		t.Fatalf("expected ExprStringLit")
	}
	text, _ := arenas.StringsInterner.Lookup(lit.Value)
	if text != "abc" {
		t.Fatalf("expected concatenated interior %q, got %q", "abc", text)
	}
}

func TestWideStringConcatenation(t *testing.T) {
	id, arenas := parseExprOK(t, `L"foo" L"bar"`)
	lit, ok := arenas.Exprs.StringLit(id)
	if !ok {
		t.Fatalf("expected ExprStringLit")
	}
	if !lit.Wide {
		t.Fatalf("expected a wide literal")
	}
	text, _ := arenas.StringsInterner.Lookup(lit.Value)
	if text != "foobar" {
		t.Fatalf("expected concatenated interior %q, got %q", "foobar", text)
	}
}

// --- _Generic -------------------------------------------------------------

func TestGenericWithDefault(t *testing.T) {
	// _Generic(x, int: 1, default: 0) ⇒ scenario 4 of spec.md §8.
	id, arenas := parseExprOK(t, "_Generic(x, int: 1, default: 0)")
	g, ok := arenas.Exprs.Generic(id)
	if !ok {
		t.Fatalf("expected ExprGeneric")
	}
	if symName(t, arenas, g.Controlling) != "x" {
		t.Fatalf("expected controlling expression x")
	}
	assocs := arenas.Exprs.GenericAssocsOf(g)
	if len(assocs) != 2 {
		t.Fatalf("expected 2 associations, got %d", len(assocs))
	}
	if assocs[0].IsDefault {
		t.Fatalf("expected first association to be the int: case")
	}
	if intLitText(t, arenas, assocs[0].Value) != "1" {
		t.Fatalf("expected first association value 1")
	}
	if !assocs[1].IsDefault {
		t.Fatalf("expected second association to be default:")
	}
	if intLitText(t, arenas, assocs[1].Value) != "0" {
		t.Fatalf("expected default association value 0")
	}
}

func TestGenericDuplicateDefaultIsFatal(t *testing.T) {
	_, _, bag := parseTU(t, "void f(void) { _Generic(x, default: 1, default: 2); }")
	if !bag.HasErrors() {
		t.Fatal("expected a diagnostic for duplicate default")
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.SynGenericDuplicateDefault {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected SynGenericDuplicateDefault, got %+v", bag.Items())
	}
}

// --- compound literal vs. cast ambiguity, designated initializers --------

func TestCompoundLiteralThreeLeaves(t *testing.T) {
	// (int[3]){1,2,3} ⇒ scenario 5 of spec.md §8 (three leaf entries,
	// preorder).
	id, arenas := parseDeclExprOK(t, "int *p = (int[3]){1,2,3}")
	lit, ok := arenas.Exprs.CompoundLiteral(id)
	if !ok {
		t.Fatalf("expected ExprCompoundLiteral, got kind %v", arenas.Exprs.Get(id).Kind)
	}
	nodes := arenas.Exprs.InitNodesOf(lit)
	if len(nodes) != 3 {
		t.Fatalf("expected 3 initializer leaves, got %d", len(nodes))
	}
	for i, want := range []string{"1", "2", "3"} {
		if len(nodes[i].Designators) != 0 {
			t.Fatalf("element %d should have no designator", i)
		}
		if intLitText(t, arenas, nodes[i].Value) != want {
			t.Fatalf("element %d: expected %s, got different value", i, want)
		}
	}
}

func TestCastExpression(t *testing.T) {
	id, arenas := parseExprOK(t, "(int)x")
	c, ok := arenas.Exprs.Cast(id)
	if !ok {
		t.Fatalf("expected ExprCast, got kind %v", arenas.Exprs.Get(id).Kind)
	}
	if symName(t, arenas, c.Operand) != "x" {
		t.Fatalf("expected cast operand x")
	}
}

func TestDesignatedInitializerFieldAndIndex(t *testing.T) {
	id, arenas := parseDeclExprOK(t, "struct point q = { .x = 1, [1] = 2, 3 }")
	lit, ok := arenas.Exprs.CompoundLiteral(id)
	if !ok {
		t.Fatalf("expected ExprCompoundLiteral")
	}
	nodes := arenas.Exprs.InitNodesOf(lit)
	if len(nodes) != 3 {
		t.Fatalf("expected 3 initializer records, got %d", len(nodes))
	}
	if len(nodes[0].Designators) != 1 || nodes[0].Designators[0].Kind != ast.DesignatorField {
		t.Fatalf("expected first element to carry a field designator")
	}
	if len(nodes[1].Designators) != 1 || nodes[1].Designators[0].Kind != ast.DesignatorIndex {
		t.Fatalf("expected second element to carry an index designator")
	}
	if len(nodes[2].Designators) != 0 {
		t.Fatalf("expected third element to be a plain positional leaf")
	}
}

func TestDesignatedInitializerGNURange(t *testing.T) {
	id, arenas := parseDeclExprOK(t, "int a[5] = { [0 ... 2] = 9 }")
	lit, ok := arenas.Exprs.CompoundLiteral(id)
	if !ok {
		t.Fatalf("expected ExprCompoundLiteral")
	}
	nodes := arenas.Exprs.InitNodesOf(lit)
	if len(nodes) != 1 || len(nodes[0].Designators) != 1 {
		t.Fatalf("expected one designated element")
	}
	if nodes[0].Designators[0].Kind != ast.DesignatorRange {
		t.Fatalf("expected a range designator")
	}
}

func TestDesignatedInitializerBadRangeIsFatal(t *testing.T) {
	_, _, bag := parseTU(t, "void f(void) { int a[5] = { [4 ... 1] = 9 }; }")
	if !bag.HasErrors() {
		t.Fatal("expected a diagnostic for a negative-width GNU range")
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.SynDesignatorBadRange {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected SynDesignatorBadRange, got %+v", bag.Items())
	}
}

// --- sizeof / _Alignof ambiguity ------------------------------------------

func TestSizeofType(t *testing.T) {
	id, arenas := parseExprOK(t, "sizeof(int)")
	if _, ok := arenas.Exprs.SizeofType(id); !ok {
		t.Fatalf("expected ExprSizeofType, got kind %v", arenas.Exprs.Get(id).Kind)
	}
}

func TestSizeofExprOperand(t *testing.T) {
	id, arenas := parseExprOK(t, "sizeof x")
	d, ok := arenas.Exprs.SizeofExpr(id)
	if !ok {
		t.Fatalf("expected ExprSizeofExpr, got kind %v", arenas.Exprs.Get(id).Kind)
	}
	if symName(t, arenas, d.Operand) != "x" {
		t.Fatalf("expected sizeof operand x")
	}
}

func TestSizeofCompoundLiteralIsNotSizeofType(t *testing.T) {
	// sizeof (int){0} ⇒ SIZEOF-EXPR whose operand is an INITIALIZER of type
	// int, not SIZEOF-TYPE int. Scenario 6 of spec.md §8.
	id, arenas := parseExprOK(t, "sizeof (int){0}")
	d, ok := arenas.Exprs.SizeofExpr(id)
	if !ok {
		t.Fatalf("expected ExprSizeofExpr wrapping the compound literal, got kind %v", arenas.Exprs.Get(id).Kind)
	}
	if _, ok := arenas.Exprs.CompoundLiteral(d.Operand); !ok {
		t.Fatalf("expected the sizeof operand to be an ExprCompoundLiteral")
	}
}

func TestAlignofType(t *testing.T) {
	id, arenas := parseExprOK(t, "_Alignof(double)")
	if _, ok := arenas.Exprs.AlignofType(id); !ok {
		t.Fatalf("expected ExprAlignofType, got kind %v", arenas.Exprs.Get(id).Kind)
	}
}

// --- unary operator mapping ------------------------------------------------

func TestUnaryPlusIsTransparent(t *testing.T) {
	id, arenas := parseExprOK(t, "+x")
	if symName(t, arenas, id) != "x" {
		t.Fatalf("expected unary '+' to be transparent, got kind %v", arenas.Exprs.Get(id).Kind)
	}
}

func TestDoubleBangCanonicalisesToBoolCast(t *testing.T) {
	id, arenas := parseExprOK(t, "!!x")
	c, ok := arenas.Exprs.Cast(id)
	if !ok {
		t.Fatalf("expected '!!x' to canonicalise to ExprCast, got kind %v", arenas.Exprs.Get(id).Kind)
	}
	if symName(t, arenas, c.Operand) != "x" {
		t.Fatalf("expected the cast operand to be x")
	}
}

func TestAddressOfTakesPostfixOperand(t *testing.T) {
	id, arenas := parseExprOK(t, "&a[0]")
	u, ok := arenas.Exprs.Unary(id)
	if !ok || u.Op != ast.UnaryAddr {
		t.Fatalf("expected UnaryAddr root")
	}
	if _, ok := arenas.Exprs.Index(u.Operand); !ok {
		t.Fatalf("expected '&a[0]' to bind as &(a[0]), i.e. the operand is the index expression")
	}
}

func TestPreIncrementChainsWithDeref(t *testing.T) {
	id, arenas := parseExprOK(t, "*--p")
	outer, ok := arenas.Exprs.Unary(id)
	if !ok || outer.Op != ast.UnaryDeref {
		t.Fatalf("expected UnaryDeref root")
	}
	inner, ok := arenas.Exprs.Unary(outer.Operand)
	if !ok || inner.Op != ast.UnaryPreDec {
		t.Fatalf("expected '*--p' to chain the pre-decrement under the dereference")
	}
}

func TestPostfixIncrementTerminatesLoop(t *testing.T) {
	id, arenas := parseExprOK(t, "a++")
	u, ok := arenas.Exprs.Unary(id)
	if !ok || u.Op != ast.UnaryPostInc {
		t.Fatalf("expected UnaryPostInc root")
	}
	if symName(t, arenas, u.Operand) != "a" {
		t.Fatalf("expected operand a")
	}
}

// --- postfix forms ----------------------------------------------------

func TestMemberAndArrowAccess(t *testing.T) {
	id, arenas := parseExprOK(t, "s.a->b")
	arrow, ok := arenas.Exprs.Arrow(id)
	if !ok {
		t.Fatalf("expected ExprArrow root, got kind %v", arenas.Exprs.Get(id).Kind)
	}
	member, ok := arenas.Exprs.Member(arrow.Target)
	if !ok {
		t.Fatalf("expected ExprMember target")
	}
	if symName(t, arenas, member.Target) != "s" {
		t.Fatalf("expected base s")
	}
}

func TestCallArguments(t *testing.T) {
	id, arenas := parseExprOK(t, "f(a, b, 1 + 2)")
	call, ok := arenas.Exprs.Call(id)
	if !ok {
		t.Fatalf("expected ExprCall")
	}
	args := arenas.Exprs.CallArgs(call)
	if len(args) != 3 {
		t.Fatalf("expected 3 arguments, got %d", len(args))
	}
	third := binOp(t, arenas, args[2])
	if third.Op != ast.BinAdd {
		t.Fatalf("expected third argument to be an addition")
	}
}

// --- error conditions ---------------------------------------------------

func TestUnrecognisedPrimaryIsFatal(t *testing.T) {
	_, _, bag := parseTU(t, "void f(void) { int x = ; }")
	if !bag.HasErrors() {
		t.Fatal("expected a diagnostic for the missing expression")
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.SynExpectExpression {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected SynExpectExpression, got %+v", bag.Items())
	}
}

func TestUnclosedParenIsFatal(t *testing.T) {
	_, _, bag := parseTU(t, "void f(void) { int x = (1 + 2; }")
	if !bag.HasErrors() {
		t.Fatal("expected a diagnostic for the unclosed '('")
	}
}

func TestAssignmentToNonLvalueReported(t *testing.T) {
	_, _, bag := parseTU(t, "void f(void) { 1 = 2; }")
	if !bag.HasErrors() {
		t.Fatal("expected a diagnostic for assigning to a non-lvalue")
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.SynAssignmentNotLvalue {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected SynAssignmentNotLvalue, got %+v", bag.Items())
	}
}

// --- error-count ceiling (P7) -------------------------------------------

func TestErrorCeilingAbortsAfterTwentyErrors(t *testing.T) {
	fs := source.NewFileSet()
	// 21 independent malformed statements, each its own error.
	src := "void f(void) {\n"
	for i := 0; i < 21; i++ {
		src += "  @@@ ;\n"
	}
	src += "}\n"
	fileID := fs.AddVirtual("limit.c", []byte(src))
	file := fs.Get(fileID)

	engine := diag.NewEngine(fs, diag.DefaultErrorLimit)
	reporter := engine.Reporter()
	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	arenas := ast.NewBuilder(ast.Hints{}, nil)
	types := decl.NewTypeExprs(0)
	syms := symbols.NewTable(symbols.Hints{}, arenas.StringsInterner)
	opts := Options{MaxErrors: 0, Reporter: reporter}
	ParseFile(context.Background(), fs, lx, arenas, types, syms, opts)

	if !engine.ExceededLimit() {
		t.Fatal("expected the error-count ceiling to trip after 21 errors")
	}
	sawCeiling := false
	for _, d := range engine.Bag().Items() {
		if d.Message == "EXCEEDED ERROR LIMIT OF 20" {
			sawCeiling = true
		}
	}
	if !sawCeiling {
		t.Fatalf("expected the sentinel ceiling diagnostic, got %+v", engine.Bag().Items())
	}
}

// --- out-of-order top-level declarations --------------------------------

func TestUnknownIdentifierBecomesPlaceholder(t *testing.T) {
	arenas, fileID, bag := parseTU(t, "void f(void) { g(); }")
	if bag.HasErrors() {
		t.Fatalf("expected no error for the undeclared identifier 'g', got %+v", bag.Items())
	}
	stmtID := firstBodyStmt(t, arenas, fileID)
	call, ok := arenas.Exprs.Call(exprFromStmt(t, arenas, stmtID))
	if !ok {
		t.Fatalf("expected ExprCall")
	}
	if arenas.Exprs.Get(call.Target).Kind != ast.ExprUnknownSymbol {
		t.Fatalf("expected an ExprUnknownSymbol placeholder for the forward reference")
	}
}

func TestOutOfOrderDeclsResolvesForwardReference(t *testing.T) {
	// Single-pass parsing only sees h's prototype, parsed before g, so the
	// call inside g resolves against the file-scope table rather than the
	// still-unparsed definition further down.
	fs := source.NewFileSet()
	src := "void h(void);\nvoid g(void) { h(); }\nvoid h(void) {}\n"
	fileID := fs.AddVirtual("ooo.c", []byte(src))
	file := fs.Get(fileID)
	bag := diag.NewBag(64)
	reporter := diag.BagReporter{Bag: bag}
	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	arenas := ast.NewBuilder(ast.Hints{}, nil)
	types := decl.NewTypeExprs(0)
	syms := symbols.NewTable(symbols.Hints{}, arenas.StringsInterner)
	opts := Options{MaxErrors: 64, Reporter: reporter, OutOfOrderDecls: true}
	ParseFile(context.Background(), fs, lx, arenas, types, syms, opts)
	if bag.HasErrors() {
		t.Fatalf("expected no diagnostics with OutOfOrderDecls set, got %+v", bag.Items())
	}
}

func TestPedanticRejectsFuncLiteral(t *testing.T) {
	fs := source.NewFileSet()
	src := "int f(void) { return (@ int(void){ return 1; })(); }\n"
	fileID := fs.AddVirtual("pedantic.c", []byte(src))
	file := fs.Get(fileID)
	bag := diag.NewBag(64)
	reporter := diag.BagReporter{Bag: bag}
	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	arenas := ast.NewBuilder(ast.Hints{}, nil)
	types := decl.NewTypeExprs(0)
	syms := symbols.NewTable(symbols.Hints{}, arenas.StringsInterner)
	opts := Options{MaxErrors: 64, Reporter: reporter, Pedantic: true}
	ParseFile(context.Background(), fs, lx, arenas, types, syms, opts)

	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.SynPedanticFuncLiteral {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a SynPedanticFuncLiteral diagnostic, got %+v", bag.Items())
	}
}
