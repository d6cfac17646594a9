package token

import (
	"cfront/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia

	// Loc is the derived-location id for this token's start, used by the
	// diagnostic engine to render macro-expansion backtraces. NoLocID for
	// tokens produced outside a LocStore-aware lexer (e.g. unit tests).
	Loc source.LocID
}

// IsLiteral reports whether the token is a numeric, character, or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, CharLit, WideCharLit, StringLit, WideStringLit:
		return true
	default:
		return false
	}
}

// IsStringLiteral reports whether the token is a narrow or wide string literal.
func (t Token) IsStringLiteral() bool {
	return t.Kind == StringLit || t.Kind == WideStringLit
}

// IsPunctOrOp reports whether the token is a punctuation or operator.
func (t Token) IsPunctOrOp() bool {
	switch t.Kind {
	case Plus, Minus, Star, Slash, Percent, Assign, PlusAssign, MinusAssign, StarAssign,
		SlashAssign, PercentAssign, AmpAssign, PipeAssign, CaretAssign, ShlAssign, ShrAssign,
		EqEq, Bang, BangEq, Lt, LtEq, Gt, GtEq, Shl, Shr, Amp, Pipe, Caret, Tilde, AndAnd, OrOr,
		Question, Colon, Semicolon, Comma, Dot, Ellipsis, Arrow, PlusPlus, MinusMinus,
		LParen, RParen, LBrace, RBrace, LBracket, RBracket, At:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	switch t.Kind {
	case KwAuto, KwBreak, KwCase, KwChar, KwConst, KwContinue, KwDefault, KwDo, KwDouble,
		KwElse, KwEnum, KwExtern, KwFloat, KwFor, KwGoto, KwIf, KwInline, KwInt, KwLong,
		KwRegister, KwRestrict, KwReturn, KwShort, KwSigned, KwSizeof, KwStatic, KwStruct,
		KwSwitch, KwTypedef, KwUnion, KwUnsigned, KwVoid, KwVolatile, KwWhile, KwAlignof,
		KwAlignas, KwAtomic, KwBool, KwComplex, KwGeneric, KwNoreturn, KwStaticAssert,
		KwThreadLocal:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsTypeQualifier reports whether the token is const/volatile/restrict/_Atomic.
func (t Token) IsTypeQualifier() bool {
	switch t.Kind {
	case KwConst, KwVolatile, KwRestrict, KwAtomic:
		return true
	default:
		return false
	}
}

// IsStorageClass reports whether the token begins a storage-class specifier.
func (t Token) IsStorageClass() bool {
	switch t.Kind {
	case KwTypedef, KwExtern, KwStatic, KwAuto, KwRegister, KwThreadLocal:
		return true
	default:
		return false
	}
}

// IsBuiltinTypeKeyword reports whether the token is one of the builtin type
// specifier keywords (void, char, int, the sign/size modifiers, _Bool, ...).
func (t Token) IsBuiltinTypeKeyword() bool {
	switch t.Kind {
	case KwVoid, KwChar, KwShort, KwInt, KwLong, KwFloat, KwDouble, KwSigned,
		KwUnsigned, KwBool, KwComplex:
		return true
	default:
		return false
	}
}
