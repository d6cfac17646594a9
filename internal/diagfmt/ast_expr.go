package diagfmt

import (
	"fmt"
	"strconv"
	"strings"

	"cfront/internal/ast"
	"cfront/internal/decl"
	"cfront/internal/source"
)

// formatExprKind returns the debug/JSON tag for one expression kind.
func formatExprKind(kind ast.ExprKind) string {
	switch kind {
	case ast.ExprIntLit:
		return "IntLit"
	case ast.ExprFloatLit:
		return "FloatLit"
	case ast.ExprCharLit:
		return "CharLit"
	case ast.ExprStringLit:
		return "StringLit"
	case ast.ExprParam:
		return "Param"
	case ast.ExprSymbol:
		return "Symbol"
	case ast.ExprUnknownSymbol:
		return "UnknownSymbol"
	case ast.ExprMember:
		return "Member"
	case ast.ExprArrow:
		return "Arrow"
	case ast.ExprIndex:
		return "Index"
	case ast.ExprCall:
		return "Call"
	case ast.ExprCast:
		return "Cast"
	case ast.ExprCompoundLiteral:
		return "CompoundLiteral"
	case ast.ExprGeneric:
		return "Generic"
	case ast.ExprFuncLiteral:
		return "FuncLiteral"
	case ast.ExprUnary:
		return "Unary"
	case ast.ExprSizeofExpr:
		return "SizeofExpr"
	case ast.ExprSizeofType:
		return "SizeofType"
	case ast.ExprAlignofType:
		return "AlignofType"
	case ast.ExprBinary:
		return "Binary"
	case ast.ExprTernary:
		return "Ternary"
	case ast.ExprGroup:
		return "Group"
	default:
		return "Unknown"
	}
}

// formatUnaryOpString returns an operator's source spelling and whether it
// is written after its operand (post-increment/post-decrement).
func formatUnaryOpString(op ast.ExprUnaryOp) (string, bool) {
	switch op {
	case ast.UnaryPlus:
		return "+", false
	case ast.UnaryMinus:
		return "-", false
	case ast.UnaryLogicalNot:
		return "!", false
	case ast.UnaryBitNot:
		return "~", false
	case ast.UnaryDeref:
		return "*", false
	case ast.UnaryAddr:
		return "&", false
	case ast.UnaryPreInc:
		return "++", false
	case ast.UnaryPreDec:
		return "--", false
	case ast.UnaryPostInc:
		return "++", true
	case ast.UnaryPostDec:
		return "--", true
	default:
		return "?", false
	}
}

// formatBinaryOpString returns a binary/compound-assignment operator's
// source spelling.
func formatBinaryOpString(op ast.ExprBinaryOp) string {
	switch op {
	case ast.BinMul:
		return "*"
	case ast.BinDiv:
		return "/"
	case ast.BinMod:
		return "%"
	case ast.BinAdd:
		return "+"
	case ast.BinSub:
		return "-"
	case ast.BinShl:
		return "<<"
	case ast.BinShr:
		return ">>"
	case ast.BinLess:
		return "<"
	case ast.BinLessEq:
		return "<="
	case ast.BinGreater:
		return ">"
	case ast.BinGreaterEq:
		return ">="
	case ast.BinEq:
		return "=="
	case ast.BinNotEq:
		return "!="
	case ast.BinBitAnd:
		return "&"
	case ast.BinBitXor:
		return "^"
	case ast.BinBitOr:
		return "|"
	case ast.BinLogicalAnd:
		return "&&"
	case ast.BinLogicalOr:
		return "||"
	case ast.BinComma:
		return ","
	case ast.BinAssign:
		return "="
	case ast.BinMulAssign:
		return "*="
	case ast.BinDivAssign:
		return "/="
	case ast.BinModAssign:
		return "%="
	case ast.BinAddAssign:
		return "+="
	case ast.BinSubAssign:
		return "-="
	case ast.BinShlAssign:
		return "<<="
	case ast.BinShrAssign:
		return ">>="
	case ast.BinBitAndAssign:
		return "&="
	case ast.BinBitXorAssign:
		return "^="
	case ast.BinBitOrAssign:
		return "|="
	default:
		return "?"
	}
}

func escapeCharLit(v int32) string {
	quoted := strconv.QuoteRune(rune(v))
	return quoted[1 : len(quoted)-1]
}

func lookupString(b *ast.Builder, id source.StringID) string {
	s, _ := b.StringsInterner.Lookup(id)
	return s
}

// formatInitNode renders one designated-or-plain initializer element of a
// compound literal, e.g. ".x = 1" or "[0 ... 3] = 0" or a bare value.
func formatInitNode(b *ast.Builder, types *decl.TypeExprs, n ast.InitNode) string {
	var sb strings.Builder
	for _, d := range n.Designators {
		switch d.Kind {
		case ast.DesignatorField:
			sb.WriteString(".")
			sb.WriteString(lookupString(b, d.Field))
		case ast.DesignatorIndex:
			sb.WriteString("[")
			sb.WriteString(formatExprInline(b, types, d.Index))
			sb.WriteString("]")
		case ast.DesignatorRange:
			sb.WriteString("[")
			sb.WriteString(formatExprInline(b, types, d.Index))
			sb.WriteString(" ... ")
			sb.WriteString(formatExprInline(b, types, d.RangeEnd))
			sb.WriteString("]")
		}
	}
	if sb.Len() > 0 {
		sb.WriteString(" = ")
	}
	sb.WriteString(formatExprInline(b, types, n.Value))
	return sb.String()
}

// formatExprInline renders an expression as the C source text it was
// parsed from would read. ExprGroup nodes already carry the source's own
// parens, so no operator-precedence-driven re-parenthesization is needed.
func formatExprInline(b *ast.Builder, types *decl.TypeExprs, id ast.ExprID) string {
	if !id.IsValid() {
		return ""
	}
	e := b.Exprs.Get(id)
	if e == nil {
		return "<invalid>"
	}

	switch e.Kind {
	case ast.ExprIntLit:
		d, _ := b.Exprs.IntLit(id)
		return lookupString(b, d.Raw)
	case ast.ExprFloatLit:
		d, _ := b.Exprs.FloatLit(id)
		return lookupString(b, d.Raw)
	case ast.ExprCharLit:
		d, _ := b.Exprs.CharLit(id)
		prefix := ""
		if d.Wide {
			prefix = "L"
		}
		return fmt.Sprintf("%s'%s'", prefix, escapeCharLit(d.Value))
	case ast.ExprStringLit:
		d, _ := b.Exprs.StringLit(id)
		prefix := ""
		if d.Wide {
			prefix = "L"
		}
		return fmt.Sprintf("%s%q", prefix, lookupString(b, d.Value))
	case ast.ExprParam:
		d, _ := b.Exprs.Param(id)
		return lookupString(b, d.Name)
	case ast.ExprSymbol:
		d, _ := b.Exprs.Symbol(id)
		return lookupString(b, d.Name)
	case ast.ExprUnknownSymbol:
		d, _ := b.Exprs.UnknownSymbol(id)
		return lookupString(b, d.Name)
	case ast.ExprMember:
		d, _ := b.Exprs.Member(id)
		return fmt.Sprintf("%s.%s", formatExprInline(b, types, d.Target), lookupString(b, d.Field))
	case ast.ExprArrow:
		d, _ := b.Exprs.Arrow(id)
		return fmt.Sprintf("%s->%s", formatExprInline(b, types, d.Target), lookupString(b, d.Field))
	case ast.ExprIndex:
		d, _ := b.Exprs.Index(id)
		return fmt.Sprintf("%s[%s]", formatExprInline(b, types, d.Target), formatExprInline(b, types, d.Index))
	case ast.ExprCall:
		d, _ := b.Exprs.Call(id)
		args := b.Exprs.CallArgs(d)
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = formatExprInline(b, types, a)
		}
		return fmt.Sprintf("%s(%s)", formatExprInline(b, types, d.Target), strings.Join(parts, ", "))
	case ast.ExprCast:
		d, _ := b.Exprs.Cast(id)
		return fmt.Sprintf("(%s)%s", formatTypeExprInline(b, types, d.Type), formatExprInline(b, types, d.Operand))
	case ast.ExprCompoundLiteral:
		d, _ := b.Exprs.CompoundLiteral(id)
		nodes := b.Exprs.InitNodesOf(d)
		parts := make([]string, len(nodes))
		for i, n := range nodes {
			parts[i] = formatInitNode(b, types, n)
		}
		return fmt.Sprintf("(%s){%s}", formatTypeExprInline(b, types, d.Type), strings.Join(parts, ", "))
	case ast.ExprGeneric:
		d, _ := b.Exprs.Generic(id)
		assocs := b.Exprs.GenericAssocsOf(d)
		parts := make([]string, len(assocs))
		for i, a := range assocs {
			if a.IsDefault {
				parts[i] = fmt.Sprintf("default: %s", formatExprInline(b, types, a.Value))
			} else {
				parts[i] = fmt.Sprintf("%s: %s", formatTypeExprInline(b, types, a.Type), formatExprInline(b, types, a.Value))
			}
		}
		return fmt.Sprintf("_Generic(%s, %s)", formatExprInline(b, types, d.Controlling), strings.Join(parts, ", "))
	case ast.ExprFuncLiteral:
		d, _ := b.Exprs.FuncLiteral(id)
		return fmt.Sprintf("@%s{ ... }", formatTypeExprInline(b, types, d.Type))
	case ast.ExprUnary:
		d, _ := b.Exprs.Unary(id)
		operand := formatExprInline(b, types, d.Operand)
		sym, postfix := formatUnaryOpString(d.Op)
		if postfix {
			return operand + sym
		}
		return sym + operand
	case ast.ExprSizeofExpr:
		d, _ := b.Exprs.SizeofExpr(id)
		return fmt.Sprintf("sizeof %s", formatExprInline(b, types, d.Operand))
	case ast.ExprSizeofType:
		d, _ := b.Exprs.SizeofType(id)
		return fmt.Sprintf("sizeof(%s)", formatTypeExprInline(b, types, d.Type))
	case ast.ExprAlignofType:
		d, _ := b.Exprs.AlignofType(id)
		return fmt.Sprintf("_Alignof(%s)", formatTypeExprInline(b, types, d.Type))
	case ast.ExprBinary:
		d, _ := b.Exprs.Binary(id)
		return fmt.Sprintf("%s %s %s", formatExprInline(b, types, d.Left), formatBinaryOpString(d.Op), formatExprInline(b, types, d.Right))
	case ast.ExprTernary:
		d, _ := b.Exprs.Ternary(id)
		return fmt.Sprintf("%s ? %s : %s", formatExprInline(b, types, d.Cond), formatExprInline(b, types, d.Then), formatExprInline(b, types, d.Else))
	case ast.ExprGroup:
		d, _ := b.Exprs.Group(id)
		return fmt.Sprintf("(%s)", formatExprInline(b, types, d.Inner))
	default:
		return "<expr>"
	}
}

// formatExprSummary truncates formatExprInline's output for use as a tree
// node label, so a thousand-element initializer doesn't blow out a single
// line of --format=tree output.
func formatExprSummary(b *ast.Builder, types *decl.TypeExprs, id ast.ExprID) string {
	s := formatExprInline(b, types, id)
	const maxLen = 80
	if len(s) > maxLen {
		return s[:maxLen-1] + "…"
	}
	return s
}

// exprChildren returns the direct child expressions of id, in evaluation
// order, for tree/JSON traversal.
func exprChildren(b *ast.Builder, id ast.ExprID) []ast.ExprID {
	e := b.Exprs.Get(id)
	if e == nil {
		return nil
	}
	switch e.Kind {
	case ast.ExprMember:
		d, _ := b.Exprs.Member(id)
		return []ast.ExprID{d.Target}
	case ast.ExprArrow:
		d, _ := b.Exprs.Arrow(id)
		return []ast.ExprID{d.Target}
	case ast.ExprIndex:
		d, _ := b.Exprs.Index(id)
		return []ast.ExprID{d.Target, d.Index}
	case ast.ExprCall:
		d, _ := b.Exprs.Call(id)
		return append([]ast.ExprID{d.Target}, b.Exprs.CallArgs(d)...)
	case ast.ExprCast:
		d, _ := b.Exprs.Cast(id)
		return []ast.ExprID{d.Operand}
	case ast.ExprCompoundLiteral:
		d, _ := b.Exprs.CompoundLiteral(id)
		nodes := b.Exprs.InitNodesOf(d)
		out := make([]ast.ExprID, 0, len(nodes))
		for _, n := range nodes {
			out = append(out, n.Value)
		}
		return out
	case ast.ExprGeneric:
		d, _ := b.Exprs.Generic(id)
		assocs := b.Exprs.GenericAssocsOf(d)
		out := make([]ast.ExprID, 0, len(assocs)+1)
		out = append(out, d.Controlling)
		for _, a := range assocs {
			out = append(out, a.Value)
		}
		return out
	case ast.ExprUnary:
		d, _ := b.Exprs.Unary(id)
		return []ast.ExprID{d.Operand}
	case ast.ExprSizeofExpr:
		d, _ := b.Exprs.SizeofExpr(id)
		return []ast.ExprID{d.Operand}
	case ast.ExprBinary:
		d, _ := b.Exprs.Binary(id)
		return []ast.ExprID{d.Left, d.Right}
	case ast.ExprTernary:
		d, _ := b.Exprs.Ternary(id)
		return []ast.ExprID{d.Cond, d.Then, d.Else}
	case ast.ExprGroup:
		d, _ := b.Exprs.Group(id)
		return []ast.ExprID{d.Inner}
	default:
		return nil
	}
}

// buildExprNode builds the JSON/tree node for one expression, recursing
// into its children.
func buildExprNode(b *ast.Builder, types *decl.TypeExprs, id ast.ExprID) ASTNodeOutput {
	e := b.Exprs.Get(id)
	if e == nil {
		return ASTNodeOutput{Type: "Expr", Kind: "Invalid"}
	}
	node := ASTNodeOutput{
		Type: "Expr",
		Kind: formatExprKind(e.Kind),
		Span: e.Span,
		Text: formatExprSummary(b, types, id),
	}
	for _, child := range exprChildren(b, id) {
		node.Children = append(node.Children, buildExprNode(b, types, child))
	}
	return node
}
