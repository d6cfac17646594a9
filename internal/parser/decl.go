package parser

import (
	"cfront/internal/ast"
	"cfront/internal/decl"
	"cfront/internal/diag"
	"cfront/internal/source"
	"cfront/internal/symbols"
	"cfront/internal/token"
)

// paramDecl is one entry of a function declarator's parameter list before
// it has a function scope to live in.
type paramDecl struct {
	Name source.StringID // NoStringID for an unnamed prototype parameter
	Type ast.TypeID
}

// isTypename reports whether tok can begin a declaration-specifier list:
// a storage class, qualifier, builtin type keyword, struct/union/enum, or
// an identifier already bound by a `typedef`. This is the single place the
// cast/compound-literal and sizeof/_Alignof ambiguities consult to decide
// whether a parenthesized token sequence is a type or an expression.
func (p *Parser) isTypename(tok token.Token) bool {
	if tok.IsBuiltinTypeKeyword() || tok.IsTypeQualifier() || tok.IsStorageClass() {
		return true
	}
	switch tok.Kind {
	case token.KwStruct, token.KwUnion, token.KwEnum:
		return true
	case token.Ident:
		return p.typedefNames[tok.Text]
	default:
		return false
	}
}

// parseDeclSpecifiers consumes a run of declaration-specifier tokens
// (storage class, qualifiers, type specifiers, a struct/union/enum tag, or
// a single typedef-name) and returns the ast.TypeID of the resulting base
// type plus whether `typedef` was among the storage classes seen.
func (p *Parser) parseDeclSpecifiers() (ast.TypeID, bool, bool) {
	var specs decl.Specifiers
	tagType := ast.NoTypeID
	isTypedef := false
	sawAny := false
	startTok := p.peek()

specLoop:
	for {
		tok := p.peek()
		switch {
		case tok.IsStorageClass():
			p.advance()
			if tok.Kind == token.KwTypedef {
				isTypedef = true
			}
			sawAny = true
		case tok.IsTypeQualifier():
			switch tok.Kind {
			case token.KwConst:
				specs.Const = true
			case token.KwVolatile:
				specs.Volatile = true
			case token.KwRestrict:
				specs.Restrict = true
			case token.KwAtomic:
				specs.Atomic = true
			}
			p.advance()
			sawAny = true
		case tok.Kind == token.KwInline || tok.Kind == token.KwNoreturn:
			p.advance()
			sawAny = true
		case tok.IsBuiltinTypeKeyword():
			switch tok.Kind {
			case token.KwVoid:
				specs.Void = true
			case token.KwChar:
				specs.Char = true
			case token.KwShort:
				specs.Short = true
			case token.KwInt:
				specs.Int = true
			case token.KwLong:
				if specs.Long {
					specs.LongLong = true
				} else {
					specs.Long = true
				}
			case token.KwFloat:
				specs.Float = true
			case token.KwDouble:
				specs.Double = true
			case token.KwSigned:
				specs.Signed = true
			case token.KwUnsigned:
				specs.Unsigned = true
			case token.KwBool:
				specs.Bool = true
			case token.KwComplex:
				// _Complex is accepted but not modeled further; no component
				// of the expression grammar needs complex-number arithmetic.
			}
			p.advance()
			sawAny = true
		case tok.Kind == token.KwStruct || tok.Kind == token.KwUnion || tok.Kind == token.KwEnum:
			t, ok := p.parseTagSpecifier(tok.Kind)
			if !ok {
				return ast.NoTypeID, false, false
			}
			tagType = t
			sawAny = true
		case tok.Kind == token.Ident && !sawAny && p.typedefNames[tok.Text]:
			p.advance()
			tagType = p.types.New(decl.TypeExpr{
				Kind:    decl.Tag,
				Span:    tok.Span,
				TagName: p.arenas.StringsInterner.Intern(tok.Text),
			})
			sawAny = true
		default:
			break specLoop
		}
	}

	if !sawAny {
		return ast.NoTypeID, false, false
	}
	span := startTok.Span.Cover(p.lastSpan)
	if tagType.IsValid() {
		return tagType, isTypedef, true
	}
	id := p.types.New(decl.TypeExpr{Kind: decl.Builtin, Span: span, Specs: specs})
	return id, isTypedef, true
}

// parseTagSpecifier parses `struct`/`union`/`enum` [tag] [`{` ... `}`]. The
// body, if present, is skipped as a balanced brace run: member layout is not
// part of the type-expression tree the expression parser needs.
func (p *Parser) parseTagSpecifier(kind token.Kind) (ast.TypeID, bool) {
	kw := p.advance()
	var tagKind decl.TagKeyword
	switch kind {
	case token.KwStruct:
		tagKind = decl.TagStruct
	case token.KwUnion:
		tagKind = decl.TagUnion
	default:
		tagKind = decl.TagEnum
	}

	name := source.NoStringID
	span := kw.Span
	if p.at(token.Ident) {
		nameTok := p.advance()
		name = p.arenas.StringsInterner.Intern(nameTok.Text)
		span = span.Cover(nameTok.Span)
	}
	if p.at(token.LBrace) {
		bodySpan := p.skipBalancedBraces()
		span = span.Cover(bodySpan)
	} else if name == source.NoStringID {
		p.err(diag.SynExpectIdentifier, "expected tag name or '{' after struct/union/enum")
		return ast.NoTypeID, false
	}
	return p.types.New(decl.TypeExpr{Kind: decl.Tag, Span: span, TagKind: tagKind, TagName: name}), true
}

// skipBalancedBraces consumes a `{ ... }` run, tracking nesting depth, and
// returns the span it covered.
func (p *Parser) skipBalancedBraces() source.Span {
	open := p.advance()
	depth := 1
	last := open
	for depth > 0 && !p.at(token.EOF) {
		tok := p.advance()
		last = tok
		switch tok.Kind {
		case token.LBrace:
			depth++
		case token.RBrace:
			depth--
		}
	}
	return open.Span.Cover(last.Span)
}

// parseTypeName parses a type-name: declaration-specifiers followed by an
// optional abstract declarator (pointer prefix and/or a single array
// suffix; no name, no function-parameter suffix). Used by casts, sizeof,
// _Alignof, compound literals, and _Generic associations.
func (p *Parser) parseTypeName() (ast.TypeID, bool) {
	base, _, ok := p.parseDeclSpecifiers()
	if !ok {
		return ast.NoTypeID, false
	}
	typ := base
	for p.at(token.Star) {
		starTok := p.advance()
		for p.peek().IsTypeQualifier() {
			p.advance()
		}
		typ = p.types.New(decl.TypeExpr{Kind: decl.Pointer, Span: starTok.Span, Elem: typ})
	}
	if p.at(token.LBracket) {
		open := p.advance()
		lenExpr := ast.NoExprID
		if !p.at(token.RBracket) {
			e, ok := p.parseConstExpr()
			if !ok {
				return ast.NoTypeID, false
			}
			lenExpr = e
		}
		closeTok, ok := p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']' after array size")
		if !ok {
			return ast.NoTypeID, false
		}
		typ = p.types.New(decl.TypeExpr{Kind: decl.Array, Span: open.Span.Cover(closeTok.Span), Elem: typ, Len: lenExpr})
	}
	return typ, true
}

// parseDeclarator parses a flat declarator over base: a pointer prefix, an
// identifier, and at most one array or function-parameter suffix.
// Parenthesized (function-pointer) declarators are not supported; see
// DESIGN.md.
func (p *Parser) parseDeclarator(base ast.TypeID) (source.StringID, ast.TypeID, []paramDecl, bool, bool) {
	typ := base
	startSpan := p.peek().Span
	for p.at(token.Star) {
		starTok := p.advance()
		for p.peek().IsTypeQualifier() {
			p.advance()
		}
		typ = p.types.New(decl.TypeExpr{Kind: decl.Pointer, Span: startSpan.Cover(starTok.Span), Elem: typ})
	}

	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected identifier in declarator")
	if !ok {
		return source.NoStringID, ast.NoTypeID, nil, false, false
	}
	name := p.arenas.StringsInterner.Intern(nameTok.Text)

	var params []paramDecl
	variadic := false
	switch {
	case p.at(token.LBracket):
		open := p.advance()
		lenExpr := ast.NoExprID
		if !p.at(token.RBracket) {
			e, ok := p.parseConstExpr()
			if !ok {
				return name, ast.NoTypeID, nil, false, false
			}
			lenExpr = e
		}
		closeTok, ok := p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']' after array size")
		if !ok {
			return name, ast.NoTypeID, nil, false, false
		}
		typ = p.types.New(decl.TypeExpr{Kind: decl.Array, Span: open.Span.Cover(closeTok.Span), Elem: typ, Len: lenExpr})
	case p.at(token.LParen):
		var ok bool
		params, variadic, ok = p.parseParamList()
		if !ok {
			return name, ast.NoTypeID, nil, false, false
		}
		ptypes := make([]ast.TypeID, len(params))
		for i, pd := range params {
			ptypes[i] = pd.Type
		}
		typ = p.types.New(decl.TypeExpr{Kind: decl.Function, Span: startSpan.Cover(p.lastSpan), Elem: typ, Params: ptypes, Variadic: variadic})
	}
	return name, typ, params, variadic, true
}

// parseParamList parses a function declarator's `( ... )` parameter list,
// including the `(void)` empty-parameter-list spelling and a trailing `...`.
func (p *Parser) parseParamList() ([]paramDecl, bool, bool) {
	p.advance() // '('
	var params []paramDecl
	variadic := false

	if p.at(token.RParen) {
		p.advance()
		return params, false, true
	}
	if p.at(token.KwVoid) && p.peekN(1).Kind == token.RParen {
		p.advance()
		p.advance()
		return params, false, true
	}

	for {
		if p.at(token.Ellipsis) {
			p.advance()
			variadic = true
			break
		}
		base, _, ok := p.parseDeclSpecifiers()
		if !ok {
			p.err(diag.SynExpectTypename, "expected parameter type")
			return nil, false, false
		}
		typ := base
		for p.at(token.Star) {
			starTok := p.advance()
			for p.peek().IsTypeQualifier() {
				p.advance()
			}
			typ = p.types.New(decl.TypeExpr{Kind: decl.Pointer, Span: starTok.Span, Elem: typ})
		}
		name := source.NoStringID
		if p.at(token.Ident) {
			nameTok := p.advance()
			name = p.arenas.StringsInterner.Intern(nameTok.Text)
			if p.at(token.LBracket) {
				open := p.advance()
				lenExpr := ast.NoExprID
				if !p.at(token.RBracket) {
					e, ok := p.parseConstExpr()
					if !ok {
						return nil, false, false
					}
					lenExpr = e
				}
				closeTok, ok := p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']' after array size")
				if !ok {
					return nil, false, false
				}
				typ = p.types.New(decl.TypeExpr{Kind: decl.Array, Span: open.Span.Cover(closeTok.Span), Elem: typ, Len: lenExpr})
			}
		}
		params = append(params, paramDecl{Name: name, Type: typ})
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}

	_, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after parameter list")
	if !ok {
		return nil, false, false
	}
	return params, variadic, true
}

// parseTopLevelDecl parses one top-level declaration: a declaration-
// specifier sequence followed by one or more comma-separated declarators,
// or a single function declarator whose body makes it a definition. It
// returns every statement the declaration produced (more than one for
// `int a, b;`).
func (p *Parser) parseTopLevelDecl() ([]ast.StmtID, bool) {
	startSpan := p.peek().Span
	base, isTypedef, ok := p.parseDeclSpecifiers()
	if !ok {
		p.err(diag.SynExpectTypename, "expected declaration")
		return nil, false
	}
	if p.at(token.Semicolon) {
		p.advance() // a lone tag declaration, e.g. `struct Foo;`
		return nil, true
	}

	var out []ast.StmtID
	for {
		name, typ, params, variadic, ok := p.parseDeclarator(base)
		if !ok {
			return out, false
		}

		if isTypedef {
			if text, ok := p.arenas.StringsInterner.Lookup(name); ok {
				p.typedefNames[text] = true
			}
			if p.at(token.Comma) {
				p.advance()
				continue
			}
			break
		}

		if p.types.IsFunction(typ) {
			stmt, hadBody, ok := p.finishFunctionDecl(startSpan, name, typ, params, variadic)
			if !ok {
				return out, false
			}
			out = append(out, stmt)
			p.declareGlobalSymbol(name, startSpan, stmt)
			if hadBody {
				return out, true
			}
		} else {
			val := ast.NoExprID
			if p.at(token.Assign) {
				p.advance()
				v, ok := p.parseAssignExpr()
				if !ok {
					return out, false
				}
				val = v
			}
			d := p.arenas.Stmts.NewDecl(startSpan.Cover(p.lastSpan), name, typ, val)
			p.declareGlobalSymbol(name, startSpan, d)
			out = append(out, d)
		}

		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}

	_, ok = p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after declaration")
	return out, ok
}

// finishFunctionDecl parses the body of a function declarator if one
// follows (`{`), otherwise leaves it as a prototype. On a definition, it
// opens a function scope, declares every named parameter in it, and
// restores the parser's scope/parameter-index state on the way out.
func (p *Parser) finishFunctionDecl(span source.Span, name source.StringID, typ ast.TypeID, params []paramDecl, variadic bool) (ast.StmtID, bool, bool) {
	paramNames := make([]source.StringID, len(params))
	for i, pd := range params {
		paramNames[i] = pd.Name
	}

	if !p.at(token.LBrace) {
		stmt := p.arenas.Stmts.NewFuncDef(span.Cover(p.lastSpan), name, typ, paramNames, ast.NoStmtID)
		return stmt, false, true
	}

	fnScope := p.syms.NewFunctionScope(p.peek().Span)
	savedScope, savedNextParam := p.scope, p.nextParamIndex
	p.scope, p.nextParamIndex = fnScope, 0
	for _, pd := range params {
		if pd.Name != source.NoStringID {
			if id, ok := p.syms.Declare(fnScope, symbols.SymbolParam, pd.Name, span); ok {
				if sym := p.syms.Symbols.Get(id); sym != nil {
					sym.ParamIndex = p.nextParamIndex
				}
			} else {
				p.err(diag.SynDuplicateLocal, "duplicate parameter name")
			}
		}
		p.nextParamIndex++
	}

	body, ok := p.parseBlock()
	p.scope, p.nextParamIndex = savedScope, savedNextParam
	if !ok {
		return ast.NoStmtID, true, false
	}
	bodySpan := p.arenas.Stmts.Get(body).Span
	stmt := p.arenas.Stmts.NewFuncDef(span.Cover(bodySpan), name, typ, paramNames, body)
	return stmt, true, true
}

// declareGlobalSymbol registers name in the file-scope symbol table,
// consulted by identifier resolution only when OutOfOrderDecls is set.
func (p *Parser) declareGlobalSymbol(name source.StringID, span source.Span, declStmt ast.StmtID) {
	id := p.syms.Symbols.New(symbols.Symbol{Name: name, Kind: symbols.SymbolLocal, Scope: symbols.NoScopeID, Span: span, Decl: declStmt})
	p.syms.DeclareGlobal(name, id)
}
