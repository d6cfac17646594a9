package parser

import (
	"strconv"
	"strings"

	"golang.org/x/text/width"

	"cfront/internal/ast"
	"cfront/internal/decl"
	"cfront/internal/diag"
	"cfront/internal/source"
	"cfront/internal/symbols"
	"cfront/internal/token"
)

// parsePrimaryExpr parses the atomic forms an expression can start with:
// literals, an identifier, a parenthesized group, `_Generic`, and the `@`
// function-literal extension. Casts and compound literals are handled one
// level up, in parseCastExpr, since both need to look past the `(` before
// deciding they aren't a primary expression at all.
func (p *Parser) parsePrimaryExpr() (ast.ExprID, bool) {
	switch p.peek().Kind {
	case token.IntLit:
		return p.parseIntLit()
	case token.FloatLit:
		return p.parseFloatLit()
	case token.CharLit, token.WideCharLit:
		return p.parseCharLit()
	case token.StringLit, token.WideStringLit:
		return p.parseStringLit()
	case token.Ident:
		idTok := p.advance()
		return p.resolveIdent(idTok), true
	case token.LParen:
		return p.parseGroupExpr()
	case token.KwGeneric:
		return p.parseGeneric()
	case token.At:
		return p.parseFuncLiteral()
	default:
		p.err(diag.SynExpectExpression, "expected expression")
		return ast.NoExprID, false
	}
}

// resolveIdent classifies a bare identifier against the symbol table,
// producing one of the three kinds the expression arena distinguishes: a
// function parameter, a symbol already visible in some scope, or (when
// neither the local scope chain nor, if enabled, the file-scope table has
// it) an unresolved placeholder. The placeholder is not an error: the
// parser reports no diagnostic for it.
func (p *Parser) resolveIdent(tok token.Token) ast.ExprID {
	name := p.arenas.StringsInterner.Intern(tok.Text)

	if id, sym, ok := p.syms.LookupID(p.scope, name); ok {
		return p.exprForSymbol(tok.Span, name, id, sym)
	}
	if p.opts.OutOfOrderDecls {
		if id, sym, ok := p.syms.LookupGlobalID(name); ok {
			return p.exprForSymbol(tok.Span, name, id, sym)
		}
	}
	return p.arenas.Exprs.NewUnknownSymbol(tok.Span, name)
}

func (p *Parser) exprForSymbol(span source.Span, name source.StringID, id symbols.SymbolID, sym *symbols.Symbol) ast.ExprID {
	if sym.Kind == symbols.SymbolParam {
		return p.arenas.Exprs.NewParam(span, name, sym.ParamIndex)
	}
	return p.arenas.Exprs.NewSymbol(span, name, uint32(id))
}

// parseGroupExpr parses a parenthesized expression, kept as its own
// ExprGroup node so a fix-it can recover the original parens.
func (p *Parser) parseGroupExpr() (ast.ExprID, bool) {
	openTok := p.advance() // '('
	inner, ok := p.parseExpr()
	if !ok {
		p.resyncUntil(token.RParen, token.Semicolon)
		if p.at(token.RParen) {
			p.advance()
		}
		return ast.NoExprID, false
	}
	closeTok, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after expression")
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewGroup(openTok.Span.Cover(closeTok.Span), inner), true
}

// parseGeneric parses `_Generic(controlling, assoc, assoc, ...)`, where each
// assoc is `type-name : assignment-expression` or `default : assignment-expression`.
func (p *Parser) parseGeneric() (ast.ExprID, bool) {
	kw := p.advance() // '_Generic'
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after '_Generic'"); !ok {
		return ast.NoExprID, false
	}
	controlling, ok := p.parseAssignExpr()
	if !ok {
		return ast.NoExprID, false
	}
	if _, ok := p.expect(token.Comma, diag.SynUnexpectedToken, "expected ',' after controlling expression"); !ok {
		return ast.NoExprID, false
	}

	var assocs []ast.GenericAssoc
	sawDefault := false
	for {
		if p.at(token.KwDefault) {
			defTok := p.advance()
			if sawDefault {
				p.report(diag.SynGenericDuplicateDefault, diag.SevError, defTok.Span, "'_Generic' selection has more than one 'default' association")
			}
			sawDefault = true
			if _, ok := p.expect(token.Colon, diag.SynGenericExpectColon, "expected ':' after 'default'"); !ok {
				return ast.NoExprID, false
			}
			value, ok := p.parseAssignExpr()
			if !ok {
				return ast.NoExprID, false
			}
			assocs = append(assocs, ast.GenericAssoc{IsDefault: true, Value: value})
		} else {
			typ, ok := p.parseTypeName()
			if !ok {
				p.err(diag.SynExpectTypename, "expected type-name or 'default' in '_Generic' association")
				return ast.NoExprID, false
			}
			if _, ok := p.expect(token.Colon, diag.SynGenericExpectColon, "expected ':' after '_Generic' type"); !ok {
				return ast.NoExprID, false
			}
			value, ok := p.parseAssignExpr()
			if !ok {
				return ast.NoExprID, false
			}
			assocs = append(assocs, ast.GenericAssoc{Type: typ, Value: value})
		}
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}

	closeTok, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after '_Generic' associations")
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewGeneric(kw.Span.Cover(closeTok.Span), controlling, assocs), true
}

// parseFuncLiteral parses the `@ return-type ( params ) { body }`
// function-literal extension. It opens its own function scope exactly like
// a top-level function definition, and records the synthetic FuncDefStmt it
// builds in p.pendingSynthetic so parseTopLevel can give it a place in the
// file's statement list.
func (p *Parser) parseFuncLiteral() (ast.ExprID, bool) {
	atTok := p.advance() // '@'

	if p.opts.Pedantic {
		p.report(diag.SynPedanticFuncLiteral, diag.SevError, atTok.Span, "'@' function-literal extension is not permitted in -pedantic mode")
		return ast.NoExprID, false
	}

	base, _, ok := p.parseDeclSpecifiers()
	if !ok {
		p.err(diag.SynExpectTypename, "expected return type after '@'")
		return ast.NoExprID, false
	}
	if !p.at(token.LParen) {
		p.err(diag.SynFunctionLiteralNotFn, "expected '(' to begin function-literal parameter list")
		return ast.NoExprID, false
	}
	params, variadic, ok := p.parseParamList()
	if !ok {
		return ast.NoExprID, false
	}
	ptypes := make([]ast.TypeID, len(params))
	for i, pd := range params {
		ptypes[i] = pd.Type
	}
	fnType := p.types.New(decl.TypeExpr{Kind: decl.Function, Span: atTok.Span.Cover(p.lastSpan), Elem: base, Params: ptypes, Variadic: variadic})

	fnScope := p.syms.NewFunctionScope(p.peek().Span)
	savedScope, savedNextParam := p.scope, p.nextParamIndex
	p.scope, p.nextParamIndex = fnScope, 0
	for _, pd := range params {
		if pd.Name != source.NoStringID {
			if id, ok := p.syms.Declare(fnScope, symbols.SymbolParam, pd.Name, atTok.Span); ok {
				if sym := p.syms.Symbols.Get(id); sym != nil {
					sym.ParamIndex = p.nextParamIndex
				}
			}
		}
		p.nextParamIndex++
	}
	body, ok := p.parseBlock()
	p.scope, p.nextParamIndex = savedScope, savedNextParam
	if !ok {
		return ast.NoExprID, false
	}

	paramNames := make([]source.StringID, len(params))
	for i, pd := range params {
		paramNames[i] = pd.Name
	}
	bodySpan := p.arenas.Stmts.Get(body).Span
	funcStmt := p.arenas.Stmts.NewFuncDef(atTok.Span.Cover(bodySpan), source.NoStringID, fnType, paramNames, body)
	p.pendingSynthetic = append(p.pendingSynthetic, funcStmt)

	return p.arenas.Exprs.NewFuncLiteral(atTok.Span.Cover(bodySpan), fnType, funcStmt), true
}

// parseCompoundLiteralBody parses the `{ initializers... }` of a compound
// literal (or, with typ == ast.NoTypeID, a bare brace initializer nested
// inside one — its type is filled in once the declaration layer knows the
// enclosing element type).
func (p *Parser) parseCompoundLiteralBody(typ ast.TypeID, startSpan source.Span) (ast.ExprID, bool) {
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' to begin initializer list"); !ok {
		return ast.NoExprID, false
	}
	var nodes []ast.InitNode
	if !p.at(token.RBrace) {
		for {
			designators, ok := p.parseDesignatorsOpt()
			if !ok {
				return ast.NoExprID, false
			}
			value, ok := p.parseInitializerValue()
			if !ok {
				return ast.NoExprID, false
			}
			nodes = append(nodes, ast.InitNode{Designators: designators, Value: value})
			if p.at(token.Comma) {
				p.advance()
				if p.at(token.RBrace) {
					break
				}
				continue
			}
			break
		}
	}
	closeTok, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' after initializer list")
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewCompoundLiteral(startSpan.Cover(closeTok.Span), typ, nodes), true
}

// parseInitializerValue parses one initializer-list element: a nested
// braced initializer, or a plain assignment-expression.
func (p *Parser) parseInitializerValue() (ast.ExprID, bool) {
	if p.at(token.LBrace) {
		return p.parseCompoundLiteralBody(ast.NoTypeID, p.peek().Span)
	}
	return p.parseAssignExpr()
}

// parseDesignatorsOpt parses zero or more `.field` / `[index]` /
// `[lo ... hi]` designator steps followed by `=`, or nothing at all for a
// plain positional initializer element.
func (p *Parser) parseDesignatorsOpt() ([]ast.Designator, bool) {
	var out []ast.Designator
	for p.at(token.Dot) || p.at(token.LBracket) {
		if p.at(token.Dot) {
			p.advance()
			fieldID, ok := p.parseIdent()
			if !ok {
				return nil, false
			}
			out = append(out, ast.Designator{Kind: ast.DesignatorField, Field: fieldID})
			continue
		}
		p.advance() // '['
		idx, ok := p.parseConstExpr()
		if !ok {
			return nil, false
		}
		if p.at(token.Ellipsis) {
			ellipsisTok := p.advance()
			end, ok := p.parseConstExpr()
			if !ok {
				return nil, false
			}
			if lo, hi, bothLits := p.rangeDesignatorBounds(idx, end); bothLits && hi < lo {
				p.report(diag.SynDesignatorBadRange, diag.SevError, ellipsisTok.Span.Cover(p.lastSpan),
					"array designator range has zero or negative width")
				return nil, false
			}
			out = append(out, ast.Designator{Kind: ast.DesignatorRange, Index: idx, RangeEnd: end})
		} else {
			out = append(out, ast.Designator{Kind: ast.DesignatorIndex, Index: idx})
		}
		if _, ok := p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']' in designator"); !ok {
			return nil, false
		}
	}
	if len(out) > 0 {
		if _, ok := p.expect(token.Assign, diag.SynUnexpectedToken, "expected '=' after designator"); !ok {
			return nil, false
		}
	}
	return out, true
}

// rangeDesignatorBounds extracts the bounds of a `[lo ... hi]` GNU range
// designator when both ends parsed down to plain integer-literal
// expressions, so the zero/negative-width check (spec.md §4.2) can run
// without the constant folding the declaration layer would otherwise need
// to provide. Any non-literal bound (an identifier, a cast, arithmetic)
// makes bothLits false and the check is skipped: this parser does not fold
// constants.
func (p *Parser) rangeDesignatorBounds(lo, hi ast.ExprID) (loVal, hiVal int64, bothLits bool) {
	loLit, ok := p.arenas.Exprs.IntLit(lo)
	if !ok {
		return 0, 0, false
	}
	hiLit, ok := p.arenas.Exprs.IntLit(hi)
	if !ok {
		return 0, 0, false
	}
	loText, ok := p.arenas.StringsInterner.Lookup(loLit.Raw)
	if !ok {
		return 0, 0, false
	}
	hiText, ok := p.arenas.StringsInterner.Lookup(hiLit.Raw)
	if !ok {
		return 0, 0, false
	}
	loVal, err := strconv.ParseInt(trimIntSuffix(loText), 0, 64)
	if err != nil {
		return 0, 0, false
	}
	hiVal, err = strconv.ParseInt(trimIntSuffix(hiText), 0, 64)
	if err != nil {
		return 0, 0, false
	}
	return loVal, hiVal, true
}

// trimIntSuffix strips the u/U/l/L suffix letters off an integer-literal
// lexeme so strconv.ParseInt can read the digits.
func trimIntSuffix(text string) string {
	i := len(text)
	for i > 0 {
		switch text[i-1] {
		case 'u', 'U', 'l', 'L':
			i--
		default:
			return text[:i]
		}
	}
	return text[:i]
}

// parseIntLit parses an integer constant, recording its unsigned/long
// suffix flags verbatim; width and signedness resolution is left to the
// layer that has a target ABI to resolve them against.
func (p *Parser) parseIntLit() (ast.ExprID, bool) {
	tok := p.advance()
	unsigned, longCount := intLitSuffix(tok.Text)
	raw := p.arenas.StringsInterner.Intern(tok.Text)
	return p.arenas.Exprs.NewIntLit(tok.Span, raw, unsigned, longCount), true
}

// parseFloatLit parses a floating constant, recording its f/l suffix.
func (p *Parser) parseFloatLit() (ast.ExprID, bool) {
	tok := p.advance()
	isFloat, isLongDouble := floatLitSuffix(tok.Text)
	raw := p.arenas.StringsInterner.Intern(tok.Text)
	return p.arenas.Exprs.NewFloatLit(tok.Span, raw, isFloat, isLongDouble), true
}

// parseCharLit parses (and decodes) a character constant.
func (p *Parser) parseCharLit() (ast.ExprID, bool) {
	tok := p.advance()
	value, wide := decodeCharLit(tok.Text)
	return p.arenas.Exprs.NewCharLit(tok.Span, value, wide), true
}

// parseStringLit parses a run of adjacent string-literal tokens,
// concatenating them into a single ExprStringLit the way C's translation
// phase 6 does.
func (p *Parser) parseStringLit() (ast.ExprID, bool) {
	startTok := p.peek()
	var b strings.Builder
	wide := false
	last := startTok
	for p.at(token.StringLit) || p.at(token.WideStringLit) {
		tok := p.advance()
		last = tok
		if tok.Kind == token.WideStringLit {
			wide = true
		}
		b.WriteString(unescapeCString(stripStringQuotes(tok.Text)))
	}
	text := b.String()
	if wide {
		// A wide literal's wchar_t elements are meant to be read as display
		// characters, not raw bytes, so fullwidth/halfwidth compatibility
		// variants (common when a wide literal embeds East Asian punctuation)
		// fold to their canonical form before the literal is interned.
		text = width.Fold.String(text)
	}
	value := p.arenas.StringsInterner.Intern(text)
	return p.arenas.Exprs.NewStringLit(startTok.Span.Cover(last.Span), value, wide), true
}

func stripStringQuotes(text string) string {
	if len(text) > 0 && text[0] == 'L' {
		text = text[1:]
	}
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		return text[1 : len(text)-1]
	}
	return text
}

// intLitSuffix reads the u/U and l/L suffix letters off the tail of an
// integer-literal lexeme.
func intLitSuffix(text string) (unsigned bool, longCount uint8) {
	i := len(text)
	for i > 0 {
		switch text[i-1] {
		case 'u', 'U':
			unsigned = true
		case 'l', 'L':
			if longCount < 2 {
				longCount++
			}
		default:
			return unsigned, longCount
		}
		i--
	}
	return unsigned, longCount
}

// floatLitSuffix reads the f/F or l/L suffix letter off the tail of a
// floating-literal lexeme.
func floatLitSuffix(text string) (isFloat, isLongDouble bool) {
	if len(text) == 0 {
		return false, false
	}
	switch text[len(text)-1] {
	case 'f', 'F':
		return true, false
	case 'l', 'L':
		return false, true
	default:
		return false, false
	}
}

// decodeCharLit strips a character constant's quotes/prefix and decodes its
// (possibly escaped) content into a code point. Only the common single-
// character escapes are recognized; \x/\u/octal escapes decode to the
// escape letter itself rather than their numeric value, a simplification
// the expression grammar's scope doesn't need resolved precisely (see
// DESIGN.md).
func decodeCharLit(text string) (int32, bool) {
	wide := false
	s := text
	if len(s) > 0 && s[0] == 'L' {
		wide = true
		s = s[1:]
	}
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		s = s[1 : len(s)-1]
	}
	decoded := unescapeCString(s)
	if len(decoded) == 0 {
		return 0, wide
	}
	r := []rune(decoded)
	return r[0], wide
}

// unescapeCString processes the common backslash escapes in s (already
// stripped of its surrounding quotes/prefix).
func unescapeCString(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'a':
			b.WriteByte(7)
		case 'b':
			b.WriteByte(8)
		case 'f':
			b.WriteByte(12)
		case 'v':
			b.WriteByte(11)
		case '0':
			b.WriteByte(0)
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
