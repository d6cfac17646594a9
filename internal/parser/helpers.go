package parser

import (
	"cfront/internal/diag"
	"cfront/internal/fix"
	"cfront/internal/source"
	"cfront/internal/token"
)

// getDiagnosticSpan returns the best span available for a diagnostic
// anchored at the current token: the current token's span, or the zero-
// width position right after the last consumed token when sitting on EOF.
func (p *Parser) getDiagnosticSpan() source.Span {
	cur := p.peek()
	if cur.Kind == token.EOF || cur.Kind == token.Invalid {
		if p.lastSpan.End > 0 {
			return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
		}
	}
	return cur.Span
}

// currentErrorSpan returns the span to anchor an "expected X" diagnostic
// on: the current token, or just past the last consumed token at EOF.
func (p *Parser) currentErrorSpan() source.Span {
	cur := p.peek()
	if cur.Kind == token.EOF {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return cur.Span
}

// expect consumes and returns the next token if it matches k; otherwise it
// reports code/msg and returns a zero-width Invalid token.
func (p *Parser) expect(k token.Kind, code diag.Code, msg string, augment ...func(*diag.ReportBuilder)) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	diagSpan := p.currentErrorSpan()
	var fn func(*diag.ReportBuilder)
	if len(augment) > 0 {
		fn = augment[0]
	}
	p.emitDiagnostic(code, diag.SevError, diagSpan, msg, fn)
	return token.Token{Kind: token.Invalid, Span: diagSpan, Text: p.peek().Text}, false
}

// expectSemicolon is expect(token.Semicolon, ...) with a "did you mean ';'"
// quick fix attached: inserting the missing ';' right before the offending
// token is an unambiguous, always-safe textual repair, so it is worth
// offering even though the parser itself never applies fixes.
func (p *Parser) expectSemicolon(msg string) (token.Token, bool) {
	return p.expect(token.Semicolon, diag.SynExpectSemicolon, msg, func(b *diag.ReportBuilder) {
		at := p.currentErrorSpan()
		insertAt := source.Span{File: at.File, Start: at.Start, End: at.Start}
		b.WithFixSuggestion(fix.InsertText("insert ';'", insertAt, ";", ""))
	})
}

func (p *Parser) err(code diag.Code, msg string) {
	p.report(code, diag.SevError, p.getDiagnosticSpan(), msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) {
	p.emitDiagnostic(code, sev, sp, msg, nil)
}

func (p *Parser) emitDiagnostic(code diag.Code, sev diag.Severity, sp source.Span, msg string, augment func(*diag.ReportBuilder)) {
	if p.speculative > 0 {
		return
	}
	if p.opts.Reporter == nil {
		return
	}
	if sev == diag.SevError {
		p.opts.CurrentErrors++
	}
	if p.opts.Enough() {
		return
	}
	loc := p.peek().Loc
	if augment == nil {
		p.opts.Reporter.Report(code, sev, loc, sp, msg, nil, nil)
		return
	}
	builder := diag.NewReportBuilder(p.opts.Reporter, sev, code, sp, msg)
	builder.WithLoc(loc)
	augment(builder)
	builder.Emit()
}

// resyncUntil consumes tokens until Peek matches one of stop or hits EOF.
// The stop token itself is left unconsumed.
func (p *Parser) resyncUntil(stop ...token.Kind) {
	for !p.at(token.EOF) {
		cur := p.peek().Kind
		for _, k := range stop {
			if cur == k {
				return
			}
		}
		p.advance()
	}
}

// parseIdent expects an identifier, interns its text, and returns the
// resulting StringID.
func (p *Parser) parseIdent() (source.StringID, bool) {
	if p.at(token.Ident) {
		tok := p.advance()
		return p.arenas.StringsInterner.Intern(tok.Text), true
	}
	p.err(diag.SynExpectIdentifier, "expected identifier, got \""+p.peek().Text+"\"")
	return source.NoStringID, false
}
