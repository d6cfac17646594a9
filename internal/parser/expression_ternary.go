package parser

import (
	"cfront/internal/ast"
	"cfront/internal/diag"
	"cfront/internal/token"
)

// parseTernaryExpr parses `cond ? true_expr : false_expr`, with cond already
// parsed and passed in. The true branch is a full expression (a bare comma
// there is the comma operator, not a second ternary argument); the false
// branch sits back at the conditional-expression level so chained
// `a ? b : c ? d : e` parses right-associatively.
func (p *Parser) parseTernaryExpr(cond ast.ExprID) (ast.ExprID, bool) {
	p.advance() // '?'

	trueExpr, ok := p.parseExpr()
	if !ok {
		p.err(diag.SynExpectExpression, "expected expression after '?'")
		return ast.NoExprID, false
	}

	if _, ok := p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' in ternary expression"); !ok {
		return ast.NoExprID, false
	}

	falseExpr, ok := p.parseBinaryExpr(precTernary)
	if !ok {
		p.err(diag.SynExpectExpression, "expected expression after ':'")
		return ast.NoExprID, false
	}

	condSpan := p.arenas.Exprs.Get(cond).Span
	falseSpan := p.arenas.Exprs.Get(falseExpr).Span
	return p.arenas.Exprs.NewTernary(condSpan.Cover(falseSpan), cond, trueExpr, falseExpr), true
}
