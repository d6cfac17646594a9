package parser

import (
	"cfront/internal/ast"
	"cfront/internal/decl"
	"cfront/internal/diag"
	"cfront/internal/token"
)

// parseExpr parses a full comma expression, the entry point used for
// statement-expressions and for-loop clauses.
func (p *Parser) parseExpr() (ast.ExprID, bool) {
	return p.parseBinaryExpr(precComma)
}

// parseAssignExpr parses an assignment-expression: everything above comma.
// Call arguments, initializer elements, and array/case-label bounds all
// enter the climb here so a bare `,` ends the expression instead of being
// read as the comma operator.
func (p *Parser) parseAssignExpr() (ast.ExprID, bool) {
	return p.parseBinaryExpr(precAssignment)
}

// parseConstExpr parses a constant-expression: the ternary level and up,
// so an assignment inside an array size or case label is rejected the way
// the grammar requires.
func (p *Parser) parseConstExpr() (ast.ExprID, bool) {
	return p.parseBinaryExpr(precTernary)
}

// parseBinaryExpr is the generic precedence-climbing loop shared by every
// binary, assignment, and comma operator, plus the ternary operator, which
// the same loop takes whenever minPrec admits it so that a comma or
// assignment after a conditional still continues the climb. minPrec is the
// lowest precedence this call is willing to consume; callers pick their
// entry level by passing precComma/precAssignment/precTernary.
func (p *Parser) parseBinaryExpr(minPrec int) (ast.ExprID, bool) {
	p.exprDepth++
	defer func() { p.exprDepth-- }()
	end := p.traceSpan("parse_binary_expr")
	defer end()

	left, ok := p.parseCastExpr()
	if !ok {
		return ast.NoExprID, false
	}

	for {
		tok := p.peek()
		if tok.Kind == token.Question && minPrec <= precTernary {
			cond, ok := p.parseTernaryExpr(left)
			if !ok {
				return ast.NoExprID, false
			}
			left = cond
			continue
		}
		prec, rightAssoc := p.getBinaryOperatorPrec(tok.Kind)
		if prec < 0 || prec < minPrec {
			break
		}
		opTok := p.advance()
		op := p.tokenKindToBinaryOp(opTok.Kind)

		if op.IsAssignment() && !p.isLvalueExpr(left) {
			p.report(diag.SynAssignmentNotLvalue, diag.SevError, p.arenas.Exprs.Get(left).Span, "left-hand side of assignment is not assignable")
		}

		nextMin := prec + 1
		if rightAssoc {
			nextMin = prec
		}
		right, ok := p.parseBinaryExpr(nextMin)
		if !ok {
			p.err(diag.SynExpectExpression, "expected expression after binary operator")
			return ast.NoExprID, false
		}

		leftSpan := p.arenas.Exprs.Get(left).Span
		rightSpan := p.arenas.Exprs.Get(right).Span
		left = p.arenas.Exprs.NewBinary(leftSpan.Cover(rightSpan), op, left, right)
	}
	return left, true
}

// isLvalueExpr reports whether id names an expression the assignment
// operators may target: a resolved name, a member/arrow/index access, a
// dereference, or a parenthesized one of those.
func (p *Parser) isLvalueExpr(id ast.ExprID) bool {
	e := p.arenas.Exprs.Get(id)
	if e == nil {
		return false
	}
	switch e.Kind {
	case ast.ExprParam, ast.ExprSymbol, ast.ExprUnknownSymbol, ast.ExprMember, ast.ExprArrow, ast.ExprIndex:
		return true
	case ast.ExprUnary:
		d, ok := p.arenas.Exprs.Unary(id)
		return ok && d.Op == ast.UnaryDeref
	case ast.ExprGroup:
		d, ok := p.arenas.Exprs.Group(id)
		return ok && p.isLvalueExpr(d.Inner)
	default:
		return false
	}
}

// parseCastExpr parses the cast-expression level: an optional
// `(type-name)` prefix applied to another cast-expression, or a plain
// unary-expression. The `(type-name)` prefix is ambiguous with a
// parenthesized expression and with a compound literal, so it is probed
// speculatively and rewound if it does not pan out.
func (p *Parser) parseCastExpr() (ast.ExprID, bool) {
	if p.at(token.LParen) && p.isTypename(p.peekN(1)) {
		mark := p.mark()
		openTok := p.advance() // '('

		p.speculative++
		typ, ok := p.parseTypeName()
		p.speculative--

		if ok && p.at(token.RParen) {
			p.advance() // ')'
			if p.at(token.LBrace) {
				lit, ok := p.parseCompoundLiteralBody(typ, openTok.Span)
				if !ok {
					return ast.NoExprID, false
				}
				return p.parsePostfixTail(lit)
			}
			operand, ok := p.parseCastExpr()
			if !ok {
				p.err(diag.SynExpectExpression, "expected expression after cast")
				return ast.NoExprID, false
			}
			operandSpan := p.arenas.Exprs.Get(operand).Span
			return p.arenas.Exprs.NewCast(openTok.Span.Cover(operandSpan), typ, operand), true
		}
		p.rewind(mark)
	}
	return p.parseUnaryExpr()
}

// parseUnaryExpr parses the unary-expression level. `&x` and `++x`/`--x`
// take a level-1 (postfix-expression) operand; every other prefix operator
// takes a level-2 (unary-expression) operand, so `!`, `~`, `-`, and `*`
// chain onto each other (`-*p`, `*--p`). Two adjacent `!` tokens are a
// special case: C has no `!!` operator, so the pair is canonicalised to a
// cast of the operand to `_Bool` rather than double logical negation.
// Unary `+` is transparent: its operand is returned unchanged, with no
// ExprUnary node of its own.
func (p *Parser) parseUnaryExpr() (ast.ExprID, bool) {
	tok := p.peek()

	if tok.Kind == token.KwSizeof {
		return p.parseSizeof()
	}
	if tok.Kind == token.KwAlignof {
		return p.parseAlignof()
	}

	if tok.Kind == token.Bang && p.peekN(1).Kind == token.Bang {
		firstTok := p.advance()
		p.advance() // second '!'
		operand, ok := p.parseUnaryExpr()
		if !ok {
			p.err(diag.SynExpectExpression, "expected expression after '!!'")
			return ast.NoExprID, false
		}
		operandSpan := p.arenas.Exprs.Get(operand).Span
		boolType := p.types.New(decl.TypeExpr{Kind: decl.Builtin, Span: firstTok.Span, Specs: decl.Specifiers{Bool: true}})
		return p.arenas.Exprs.NewCast(firstTok.Span.Cover(operandSpan), boolType, operand), true
	}

	if tok.Kind == token.Plus {
		p.advance()
		operand, ok := p.parseUnaryExpr()
		if !ok {
			p.err(diag.SynExpectExpression, "expected expression after unary '+'")
			return ast.NoExprID, false
		}
		return operand, true
	}

	if op, ok := p.getPrefixUnaryOperator(tok.Kind); ok {
		opTok := p.advance()
		if op == ast.UnaryPreInc || op == ast.UnaryPreDec || op == ast.UnaryAddr {
			operand, ok := p.parsePostfixExpr()
			if !ok {
				p.err(diag.SynExpectExpression, "expected expression after prefix operator")
				return ast.NoExprID, false
			}
			if op == ast.UnaryAddr && !p.isLvalueExpr(operand) {
				p.report(diag.SynInvalidUnaryOperand, diag.SevError, opTok.Span, "cannot take the address of this expression")
			}
			operandSpan := p.arenas.Exprs.Get(operand).Span
			return p.arenas.Exprs.NewUnary(opTok.Span.Cover(operandSpan), op, operand), true
		}

		operand, ok := p.parseUnaryExpr()
		if !ok {
			p.err(diag.SynExpectExpression, "expected expression after unary operator")
			return ast.NoExprID, false
		}
		operandSpan := p.arenas.Exprs.Get(operand).Span
		return p.arenas.Exprs.NewUnary(opTok.Span.Cover(operandSpan), op, operand), true
	}

	return p.parsePostfixExpr()
}

// parseSizeof parses `sizeof unary-expression` or `sizeof ( type-name )`,
// probing the parenthesized form speculatively since `sizeof(x)` is legal
// either way depending on whether x names a type. `sizeof (T){...}` is a
// third case the naive two-way split misses: the `(T)` reads as a type-name,
// but the `{` that follows means the parenthesized type was a compound
// literal's type, not sizeof's direct operand, so the whole `(T){...}`
// becomes the operand expression instead of producing a type-form node.
func (p *Parser) parseSizeof() (ast.ExprID, bool) {
	kw := p.advance()
	if p.at(token.LParen) && p.isTypename(p.peekN(1)) {
		mark := p.mark()
		openTok := p.advance() // '('
		p.speculative++
		typ, ok := p.parseTypeName()
		p.speculative--
		if ok && p.at(token.RParen) {
			closeTok := p.advance()
			if p.at(token.LBrace) {
				lit, ok := p.parseCompoundLiteralBody(typ, openTok.Span)
				if !ok {
					return ast.NoExprID, false
				}
				operand, ok := p.parsePostfixTail(lit)
				if !ok {
					return ast.NoExprID, false
				}
				operandSpan := p.arenas.Exprs.Get(operand).Span
				return p.arenas.Exprs.NewSizeofExpr(kw.Span.Cover(operandSpan), operand), true
			}
			return p.arenas.Exprs.NewSizeofType(kw.Span.Cover(closeTok.Span), typ), true
		}
		p.rewind(mark)
	}
	operand, ok := p.parseUnaryExpr()
	if !ok {
		p.err(diag.SynExpectExpression, "expected expression after 'sizeof'")
		return ast.NoExprID, false
	}
	operandSpan := p.arenas.Exprs.Get(operand).Span
	return p.arenas.Exprs.NewSizeofExpr(kw.Span.Cover(operandSpan), operand), true
}

// parseAlignof parses `_Alignof ( type-name )`; C has no operand-expression
// form for this one.
func (p *Parser) parseAlignof() (ast.ExprID, bool) {
	kw := p.advance()
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after '_Alignof'"); !ok {
		return ast.NoExprID, false
	}
	typ, ok := p.parseTypeName()
	if !ok {
		p.err(diag.SynExpectTypename, "expected type-name in '_Alignof'")
		return ast.NoExprID, false
	}
	closeTok, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after '_Alignof' type-name")
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewAlignofType(kw.Span.Cover(closeTok.Span), typ), true
}
