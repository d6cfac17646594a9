package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"fortio.org/safecast"

	"cfront/internal/diag"
	"cfront/internal/source"
	"cfront/internal/token"
)

const maxTokenLength = 64 * 1024 // hard limit in bytes to avoid pathological tokens

// Lexer converts source content into a stream of C tokens. It is a
// collaborator to the in-scope token cursor: narrow but real, since the
// expression parser's cast/sizeof/compound-literal ambiguities cannot be
// resolved without an actual token stream to rewind over.
type Lexer struct {
	file    *source.File
	cursor  Cursor
	opts    Options
	look    *token.Token
	hold    []token.Trivia
	last    token.Token
	hasLast bool
}

// New creates a new Lexer for the provided file.
func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// SetRange restricts the lexer to a specific byte range within the file.
func (lx *Lexer) SetRange(start, end uint32) {
	if lx == nil {
		return
	}
	lx.cursor.Off = start
	if end != 0 {
		lx.cursor.Limit = end
	}
	lx.look = nil
	lx.hold = nil
	lx.last = token.Token{}
	lx.hasLast = false
}

// Next returns the next significant token with its leading trivia attached.
// Returns EOF forever once the end of the range is reached.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		lx.last = tok
		lx.hasLast = true
		return tok
	}

	lx.collectLeadingTrivia()

	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.EmptySpan()}
	}

	ch := lx.cursor.Peek()
	var tok token.Token
	switch {
	case ch == 'L' && lx.isWidePrefix():
		tok = lx.scanWideLiteral()
	case isIdentStartByte(ch):
		tok = lx.scanIdentOrKeyword()
	case ch >= utf8RuneSelf:
		tok = lx.scanIdentOrKeyword()
	case isDec(ch):
		tok = lx.scanNumber()
	case ch == '.' && lx.isNumberAfterDot():
		tok = lx.scanNumber()
	case ch == '"':
		tok = lx.scanString(token.StringLit)
	case ch == '\'':
		tok = lx.scanChar(token.CharLit)
	default:
		tok = lx.scanOperatorOrPunct()
	}

	tok.Leading = lx.hold
	lx.hold = nil
	lx.enforceTokenLength(&tok)
	if lx.opts.Locs != nil {
		lc := lx.file.LineCol(tok.Span.Start)
		length, err := safecast.Conv[uint32](len(tok.Text))
		if err != nil {
			length = 0
		}
		tok.Loc = lx.opts.Locs.Add(lx.file.ID, lc.Line, lc.Col, length)
	}
	lx.last = tok
	lx.hasLast = true
	return tok
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// Push injects a token back into the one-token lookahead buffer.
func (lx *Lexer) Push(tok token.Token) {
	lx.look = &tok
}

// EmptySpan returns a zero-length span at the current cursor position.
func (lx *Lexer) EmptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) enforceTokenLength(tok *token.Token) {
	if tok == nil {
		return
	}
	length := tok.Span.End - tok.Span.Start
	if length <= maxTokenLength {
		return
	}
	msg := fmt.Sprintf("token length %d exceeds limit %d", length, maxTokenLength)
	lx.errLex(diag.LexTokenTooLong, tok.Span, msg)
	tok.Kind = token.Invalid
	if tok.Text == "" && tok.Span.End > tok.Span.Start && int(tok.Span.End) <= len(lx.file.Content) {
		tok.Text = string(lx.file.Content[tok.Span.Start:tok.Span.End])
	}
	if off, err := safecast.Conv[uint32](len(lx.file.Content)); err == nil {
		lx.cursor.Off = off
	}
}

// ===== identifiers / keywords =====

func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	r, sz := lx.peekRune()
	if sz == 0 {
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: token.Invalid, Span: sp}
	}
	if r < utf8RuneSelf {
		if !isIdentStartByte(byte(r)) {
			return lx.scanOperatorOrPunct()
		}
		lx.cursor.Bump()
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	} else {
		if !isIdentStartRune(r) {
			return lx.scanOperatorOrPunct()
		}
		lx.bumpRune()
		for {
			r2, sz2 := lx.peekRune()
			if sz2 == 0 || !isIdentContinueRune(r2) {
				break
			}
			lx.bumpRune()
		}
	}
	sp := lx.cursor.SpanFrom(start)
	lex := lx.file.Content[sp.Start:sp.End]
	if k, ok := token.LookupKeyword(string(lex)); ok {
		return token.Token{Kind: k, Span: sp, Text: string(lex)}
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: string(lex)}
}

const utf8RuneSelf = 0x80

// isWidePrefix reports whether the current 'L' begins a wide char/string
// literal (L"..." or L'...') rather than an identifier named L/Lxyz.
func (lx *Lexer) isWidePrefix() bool {
	b0, b1, ok := lx.cursor.Peek2()
	return ok && b0 == 'L' && (b1 == '"' || b1 == '\'')
}

func (lx *Lexer) scanWideLiteral() token.Token {
	lx.cursor.Bump() // 'L'
	if lx.cursor.Peek() == '"' {
		return lx.scanString(token.WideStringLit)
	}
	return lx.scanChar(token.WideCharLit)
}

// ===== numbers (integer/float constants, with C suffixes) =====

func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	if lx.cursor.Peek() == '.' {
		lx.cursor.Bump()
		kind = token.FloatLit
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		lx.scanExponent(&kind)
		lx.scanFloatSuffix()
		return lx.emitNumber(start, kind)
	}

	if lx.cursor.Peek() == '0' {
		lx.cursor.Bump()
		switch lx.cursor.Peek() {
		case 'b', 'B':
			lx.cursor.Bump()
			for lx.cursor.Peek() == '0' || lx.cursor.Peek() == '1' {
				lx.cursor.Bump()
			}
			lx.scanIntSuffix()
			return lx.emitNumber(start, token.IntLit)
		case 'x', 'X':
			lx.cursor.Bump()
			for isHex(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
			if lx.cursor.Peek() == '.' {
				lx.cursor.Bump()
				kind = token.FloatLit
				for isHex(lx.cursor.Peek()) {
					lx.cursor.Bump()
				}
			}
			if lx.cursor.Peek() == 'p' || lx.cursor.Peek() == 'P' {
				kind = token.FloatLit
				lx.cursor.Bump()
				if lx.cursor.Peek() == '+' || lx.cursor.Peek() == '-' {
					lx.cursor.Bump()
				}
				for isDec(lx.cursor.Peek()) {
					lx.cursor.Bump()
				}
			}
			if kind == token.FloatLit {
				lx.scanFloatSuffix()
			} else {
				lx.scanIntSuffix()
			}
			return lx.emitNumber(start, kind)
		default:
			for isOctalDigit(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
		}
	} else {
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}

	if lx.cursor.Peek() == '.' {
		lx.cursor.Bump()
		kind = token.FloatLit
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}
	lx.scanExponent(&kind)
	if kind == token.FloatLit {
		lx.scanFloatSuffix()
	} else {
		lx.scanIntSuffix()
	}
	return lx.emitNumber(start, kind)
}

func (lx *Lexer) scanExponent(kind *token.Kind) {
	if lx.cursor.Peek() == 'e' || lx.cursor.Peek() == 'E' {
		*kind = token.FloatLit
		lx.cursor.Bump()
		if lx.cursor.Peek() == '+' || lx.cursor.Peek() == '-' {
			lx.cursor.Bump()
		}
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}
}

// scanIntSuffix consumes any combination of u/U and l/L/ll/LL.
func (lx *Lexer) scanIntSuffix() {
	for {
		switch lx.cursor.Peek() {
		case 'u', 'U', 'l', 'L':
			lx.cursor.Bump()
		default:
			return
		}
	}
}

// scanFloatSuffix consumes f/F/l/L.
func (lx *Lexer) scanFloatSuffix() {
	switch lx.cursor.Peek() {
	case 'f', 'F', 'l', 'L':
		lx.cursor.Bump()
	}
}

func (lx *Lexer) emitNumber(start Mark, kind token.Kind) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

// ===== char / string literals =====

func (lx *Lexer) scanChar(kind token.Kind) token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening quote
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '\'' {
			lx.cursor.Bump()
			return lx.emitNumber(start, kind)
		}
		if b == '\\' {
			lx.cursor.Bump()
			if lx.cursor.EOF() {
				break
			}
			lx.cursor.Bump()
			continue
		}
		if b == '\n' {
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexUnterminatedChar, sp, "newline in character literal")
			return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		}
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedChar, sp, "unterminated character literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

func (lx *Lexer) scanString(kind token.Kind) token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '"' {
			lx.cursor.Bump()
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		}
		if b == '\\' {
			lx.cursor.Bump()
			if lx.cursor.EOF() {
				break
			}
			lx.cursor.Bump()
			continue
		}
		if b == '\n' {
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexUnterminatedString, sp, "newline in string literal")
			return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		}
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

// ===== operators / punctuators (maximal munch) =====

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	emit := func(k token.Kind) token.Token {
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: k, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
	}

	switch {
	case lx.try3('.', '.', '.'):
		return emit(token.Ellipsis)
	case lx.try2('-', '>'):
		return emit(token.Arrow)
	case lx.try2('+', '+'):
		return emit(token.PlusPlus)
	case lx.try2('-', '-'):
		return emit(token.MinusMinus)
	case lx.try2('&', '&'):
		return emit(token.AndAnd)
	case lx.try2('|', '|'):
		return emit(token.OrOr)
	case lx.try2('=', '='):
		return emit(token.EqEq)
	case lx.try2('!', '='):
		return emit(token.BangEq)
	case lx.try2('+', '='):
		return emit(token.PlusAssign)
	case lx.try2('-', '='):
		return emit(token.MinusAssign)
	case lx.try2('*', '='):
		return emit(token.StarAssign)
	case lx.try2('/', '='):
		return emit(token.SlashAssign)
	case lx.try2('%', '='):
		return emit(token.PercentAssign)
	case lx.try2('&', '='):
		return emit(token.AmpAssign)
	case lx.try2('|', '='):
		return emit(token.PipeAssign)
	case lx.try2('^', '='):
		return emit(token.CaretAssign)
	case lx.try3('<', '<', '='):
		return emit(token.ShlAssign)
	case lx.try3('>', '>', '='):
		return emit(token.ShrAssign)
	case lx.try2('<', '<'):
		return emit(token.Shl)
	case lx.try2('>', '>'):
		return emit(token.Shr)
	case lx.try2('<', '='):
		return emit(token.LtEq)
	case lx.try2('>', '='):
		return emit(token.GtEq)
	}

	ch := lx.cursor.Bump()
	switch ch {
	case '+':
		return emit(token.Plus)
	case '-':
		return emit(token.Minus)
	case '*':
		return emit(token.Star)
	case '/':
		return emit(token.Slash)
	case '%':
		return emit(token.Percent)
	case '=':
		return emit(token.Assign)
	case '!':
		return emit(token.Bang)
	case '<':
		return emit(token.Lt)
	case '>':
		return emit(token.Gt)
	case '&':
		return emit(token.Amp)
	case '|':
		return emit(token.Pipe)
	case '^':
		return emit(token.Caret)
	case '~':
		return emit(token.Tilde)
	case '?':
		return emit(token.Question)
	case ':':
		return emit(token.Colon)
	case ';':
		return emit(token.Semicolon)
	case ',':
		return emit(token.Comma)
	case '.':
		return emit(token.Dot)
	case '(':
		return emit(token.LParen)
	case ')':
		return emit(token.RParen)
	case '{':
		return emit(token.LBrace)
	case '}':
		return emit(token.RBrace)
	case '[':
		return emit(token.LBracket)
	case ']':
		return emit(token.RBracket)
	case '@':
		return emit(token.At)
	default:
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexUnknownChar, sp, "unknown character")
		return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
	}
}

// ===== byte/rune helpers over Cursor =====

func (lx *Lexer) peekRune() (r rune, size int) {
	if lx.cursor.EOF() {
		return utf8.RuneError, 0
	}
	b := lx.cursor.Peek()
	if b < utf8.RuneSelf {
		return rune(b), 1
	}
	r, sz := utf8.DecodeRune(lx.file.Content[lx.cursor.Off:])
	return r, sz
}

func (lx *Lexer) bumpRune() {
	_, sz := lx.peekRune()
	if sz == 0 {
		return
	}
	usz, err := safecast.Conv[uint32](sz)
	if err != nil {
		panic(fmt.Errorf("bumpRune overflow: %w", err))
	}
	lx.cursor.Off += usz
}

func isIdentStartByte(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}
func isIdentContinueByte(b byte) bool {
	return isIdentStartByte(b) || (b >= '0' && b <= '9')
}
func isIdentStartRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}
func isIdentContinueRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }
func isOctalDigit(b byte) bool { return b >= '0' && b <= '7' }
func isHex(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func (lx *Lexer) isNumberAfterDot() bool {
	b0, b1, ok := lx.cursor.Peek2()
	return ok && b0 == '.' && isDec(b1)
}

func (lx *Lexer) try3(a, b, c byte) bool {
	b0, b1, b2, ok := lx.cursor.Peek3()
	if !ok || b0 != a || b1 != b || b2 != c {
		return false
	}
	lx.cursor.Bump()
	lx.cursor.Bump()
	lx.cursor.Bump()
	return true
}

func (lx *Lexer) try2(a, b byte) bool {
	b0, b1, ok := lx.cursor.Peek2()
	if !ok || b0 != a || b1 != b {
		return false
	}
	lx.cursor.Bump()
	lx.cursor.Bump()
	return true
}
