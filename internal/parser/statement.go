package parser

import (
	"cfront/internal/ast"
	"cfront/internal/diag"
	"cfront/internal/symbols"
	"cfront/internal/token"
)

// parseBlock parses a `{ ... }` compound statement, opening a nested block
// scope under the parser's current scope and restoring it on return. It is
// the body of a top-level function definition or an `@` function literal.
func (p *Parser) parseBlock() (ast.StmtID, bool) {
	openTok, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' to begin block")
	if !ok {
		return ast.NoStmtID, false
	}

	savedScope := p.scope
	p.scope = p.syms.NewBlockScope(p.scope, openTok.Span)
	defer func() { p.scope = savedScope }()

	var stmts []ast.StmtID
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		before := p.peek()
		stmt, ok := p.parseStatement()
		if ok {
			stmts = append(stmts, stmt)
		} else {
			p.resyncUntil(token.Semicolon, token.RBrace, token.EOF)
			if p.at(token.Semicolon) {
				p.advance()
			}
		}
		if !p.at(token.EOF) {
			after := p.peek()
			if after.Kind == before.Kind && after.Span == before.Span {
				p.advance()
			}
		}
	}

	closeTok, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close block")
	if !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewBlock(openTok.Span.Cover(closeTok.Span), stmts), true
}

// parseStatement parses one statement inside a block: a local declaration,
// a nested block, a control-flow statement, or an expression-statement.
func (p *Parser) parseStatement() (ast.StmtID, bool) {
	switch p.peek().Kind {
	case token.LBrace:
		return p.parseBlock()
	case token.KwReturn:
		return p.parseReturnStmt()
	case token.KwIf:
		return p.parseIfStmt()
	case token.KwWhile:
		return p.parseWhileStmt()
	case token.KwFor:
		return p.parseForStmt()
	case token.KwBreak:
		tok := p.advance()
		_, ok := p.expectSemicolon("expected ';' after 'break'")
		return p.arenas.Stmts.NewBreak(tok.Span), ok
	case token.KwContinue:
		tok := p.advance()
		_, ok := p.expectSemicolon("expected ';' after 'continue'")
		return p.arenas.Stmts.NewContinue(tok.Span), ok
	case token.Semicolon:
		tok := p.advance()
		return p.arenas.Stmts.NewExpr(tok.Span, ast.NoExprID), true
	}

	if p.isTypename(p.peek()) {
		return p.parseLocalDecl()
	}
	return p.parseExprStmt()
}

// parseLocalDecl parses a local variable declaration, declaring each
// declarator into the current block/function scope.
func (p *Parser) parseLocalDecl() (ast.StmtID, bool) {
	startSpan := p.peek().Span
	base, _, ok := p.parseDeclSpecifiers()
	if !ok {
		p.err(diag.SynExpectTypename, "expected declaration")
		return ast.NoStmtID, false
	}

	var last ast.StmtID
	for {
		name, typ, _, _, ok := p.parseDeclarator(base)
		if !ok {
			return ast.NoStmtID, false
		}

		val := ast.NoExprID
		if p.at(token.Assign) {
			p.advance()
			v, ok := p.parseAssignExpr()
			if !ok {
				return ast.NoStmtID, false
			}
			val = v
		}

		last = p.arenas.Stmts.NewDecl(startSpan.Cover(p.lastSpan), name, typ, val)
		if _, ok := p.syms.Declare(p.scope, symbols.SymbolLocal, name, startSpan); !ok {
			p.err(diag.SynDuplicateLocal, "duplicate local declaration")
		}

		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}

	_, ok = p.expectSemicolon("expected ';' after declaration")
	return last, ok
}

// parseExprStmt parses an expression used as a statement.
func (p *Parser) parseExprStmt() (ast.StmtID, bool) {
	startSpan := p.peek().Span
	expr, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	semiTok, ok := p.expectSemicolon("expected ';' after expression")
	if !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewExpr(startSpan.Cover(semiTok.Span), expr), true
}

// parseReturnStmt parses `return [expr] ;`.
func (p *Parser) parseReturnStmt() (ast.StmtID, bool) {
	kw := p.advance()
	expr := ast.NoExprID
	if !p.at(token.Semicolon) {
		e, ok := p.parseExpr()
		if !ok {
			return ast.NoStmtID, false
		}
		expr = e
	}
	semiTok, ok := p.expectSemicolon("expected ';' after 'return'")
	if !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewReturn(kw.Span.Cover(semiTok.Span), expr), true
}

// parseIfStmt parses `if ( cond ) stmt [else stmt]`.
func (p *Parser) parseIfStmt() (ast.StmtID, bool) {
	kw := p.advance()
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after 'if'"); !ok {
		return ast.NoStmtID, false
	}
	cond, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after 'if' condition"); !ok {
		return ast.NoStmtID, false
	}
	thenStmt, ok := p.parseStatement()
	if !ok {
		return ast.NoStmtID, false
	}
	elseStmt := ast.NoStmtID
	end := p.arenas.Stmts.Get(thenStmt).Span
	if p.at(token.KwElse) {
		p.advance()
		e, ok := p.parseStatement()
		if !ok {
			return ast.NoStmtID, false
		}
		elseStmt = e
		end = p.arenas.Stmts.Get(elseStmt).Span
	}
	return p.arenas.Stmts.NewIf(kw.Span.Cover(end), cond, thenStmt, elseStmt), true
}

// parseWhileStmt parses `while ( cond ) stmt`.
func (p *Parser) parseWhileStmt() (ast.StmtID, bool) {
	kw := p.advance()
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after 'while'"); !ok {
		return ast.NoStmtID, false
	}
	cond, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after 'while' condition"); !ok {
		return ast.NoStmtID, false
	}
	body, ok := p.parseStatement()
	if !ok {
		return ast.NoStmtID, false
	}
	bodySpan := p.arenas.Stmts.Get(body).Span
	return p.arenas.Stmts.NewWhile(kw.Span.Cover(bodySpan), cond, body), true
}

// parseForStmt parses a classic C-style `for (init; cond; post) stmt`. The
// init-clause may be a declaration or an expression-statement; both already
// consume their own trailing `;`.
func (p *Parser) parseForStmt() (ast.StmtID, bool) {
	kw := p.advance()
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after 'for'"); !ok {
		return ast.NoStmtID, false
	}

	savedScope := p.scope
	p.scope = p.syms.NewBlockScope(p.scope, kw.Span)
	defer func() { p.scope = savedScope }()

	init := ast.NoStmtID
	switch {
	case p.at(token.Semicolon):
		p.advance()
	case p.isTypename(p.peek()):
		s, ok := p.parseLocalDecl()
		if !ok {
			return ast.NoStmtID, false
		}
		init = s
	default:
		s, ok := p.parseExprStmt()
		if !ok {
			return ast.NoStmtID, false
		}
		init = s
	}

	cond := ast.NoExprID
	if !p.at(token.Semicolon) {
		c, ok := p.parseExpr()
		if !ok {
			return ast.NoStmtID, false
		}
		cond = c
	}
	if _, ok := p.expectSemicolon("expected ';' after 'for' condition"); !ok {
		return ast.NoStmtID, false
	}

	post := ast.NoExprID
	if !p.at(token.RParen) {
		pe, ok := p.parseExpr()
		if !ok {
			return ast.NoStmtID, false
		}
		post = pe
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after 'for' clauses"); !ok {
		return ast.NoStmtID, false
	}

	body, ok := p.parseStatement()
	if !ok {
		return ast.NoStmtID, false
	}
	bodySpan := p.arenas.Stmts.Get(body).Span
	return p.arenas.Stmts.NewForClassic(kw.Span.Cover(bodySpan), init, cond, post, body), true
}
