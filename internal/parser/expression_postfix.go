package parser

import (
	"cfront/internal/ast"
	"cfront/internal/diag"
	"cfront/internal/token"
)

// parsePostfixExpr parses a primary-expression followed by any run of
// postfix operators.
func (p *Parser) parsePostfixExpr() (ast.ExprID, bool) {
	expr, ok := p.parsePrimaryExpr()
	if !ok {
		return ast.NoExprID, false
	}
	return p.parsePostfixTail(expr)
}

// parsePostfixTail runs the postfix-operator loop starting from an
// already-parsed expression. Compound literals and the parenthesized-group
// primary both need to keep reading subscripts/calls/members after
// themselves, so this is factored out of parsePostfixExpr.
func (p *Parser) parsePostfixTail(expr ast.ExprID) (ast.ExprID, bool) {
	for {
		switch p.peek().Kind {
		case token.LBracket:
			newExpr, ok := p.parseIndexExpr(expr)
			if !ok {
				return ast.NoExprID, false
			}
			expr = newExpr
		case token.LParen:
			newExpr, ok := p.parseCallExpr(expr)
			if !ok {
				return ast.NoExprID, false
			}
			expr = newExpr
		case token.Dot:
			p.advance()
			fieldID, ok := p.parseIdent()
			if !ok {
				return ast.NoExprID, false
			}
			targetSpan := p.arenas.Exprs.Get(expr).Span
			expr = p.arenas.Exprs.NewMember(targetSpan.Cover(p.lastSpan), expr, fieldID)
		case token.Arrow:
			p.advance()
			fieldID, ok := p.parseIdent()
			if !ok {
				return ast.NoExprID, false
			}
			targetSpan := p.arenas.Exprs.Get(expr).Span
			expr = p.arenas.Exprs.NewArrow(targetSpan.Cover(p.lastSpan), expr, fieldID)
		case token.PlusPlus, token.MinusMinus:
			op, _ := p.getPostfixUnaryOperator(p.peek().Kind)
			opTok := p.advance()
			if !p.isLvalueExpr(expr) {
				p.report(diag.SynInvalidUnaryOperand, diag.SevError, opTok.Span, "operand of increment/decrement is not assignable")
			}
			targetSpan := p.arenas.Exprs.Get(expr).Span
			// Postfix ++/-- occurs at most once and terminates the loop:
			// a++[0] does not keep subscripting, a++ ++ is not (a++)++.
			return p.arenas.Exprs.NewUnary(targetSpan.Cover(opTok.Span), op, expr), true
		default:
			return expr, true
		}
	}
}

// parseIndexExpr parses `target[index]`.
func (p *Parser) parseIndexExpr(target ast.ExprID) (ast.ExprID, bool) {
	p.advance() // '['
	index, ok := p.parseExpr()
	if !ok {
		p.err(diag.SynExpectExpression, "expected index expression")
		return ast.NoExprID, false
	}
	closeTok, ok := p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']' after index")
	if !ok {
		return ast.NoExprID, false
	}
	targetSpan := p.arenas.Exprs.Get(target).Span
	return p.arenas.Exprs.NewIndex(targetSpan.Cover(closeTok.Span), target, index), true
}

// parseCallExpr parses `target(args...)`, each argument at the
// assignment-expression level so a bare top-level comma separates arguments
// rather than being read as the comma operator.
func (p *Parser) parseCallExpr(target ast.ExprID) (ast.ExprID, bool) {
	p.advance() // '('
	var args []ast.ExprID
	if !p.at(token.RParen) {
		for {
			arg, ok := p.parseAssignExpr()
			if !ok {
				p.resyncUntil(token.RParen, token.Semicolon, token.LBrace, token.EOF)
				if p.at(token.RParen) {
					p.advance()
				}
				return ast.NoExprID, false
			}
			args = append(args, arg)
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
	}
	closeTok, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after function arguments")
	if !ok {
		return ast.NoExprID, false
	}
	targetSpan := p.arenas.Exprs.Get(target).Span
	return p.arenas.Exprs.NewCall(targetSpan.Cover(closeTok.Span), target, args), true
}
