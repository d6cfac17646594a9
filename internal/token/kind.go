package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident

	// Keywords. C23-ish surface plus the extension keywords the parser
	// exercises (_Generic, _Alignof, @ function literals have their own
	// punctuator below).
	KwAuto
	KwBreak
	KwCase
	KwChar
	KwConst
	KwContinue
	KwDefault
	KwDo
	KwDouble
	KwElse
	KwEnum
	KwExtern
	KwFloat
	KwFor
	KwGoto
	KwIf
	KwInline
	KwInt
	KwLong
	KwRegister
	KwRestrict
	KwReturn
	KwShort
	KwSigned
	KwSizeof
	KwStatic
	KwStruct
	KwSwitch
	KwTypedef
	KwUnion
	KwUnsigned
	KwVoid
	KwVolatile
	KwWhile
	KwAlignof   // _Alignof
	KwAlignas   // _Alignas
	KwAtomic    // _Atomic
	KwBool      // _Bool
	KwComplex   // _Complex
	KwGeneric   // _Generic
	KwNoreturn  // _Noreturn
	KwStaticAssert
	KwThreadLocal

	// Literals.
	IntLit
	FloatLit
	CharLit
	WideCharLit
	StringLit
	WideStringLit

	// Punctuators / operators.
	Plus       // +
	Minus      // -
	Star       // *
	Slash      // /
	Percent    // %
	Assign     // =
	PlusAssign // +=
	MinusAssign
	StarAssign
	SlashAssign
	PercentAssign
	AmpAssign
	PipeAssign
	CaretAssign
	ShlAssign
	ShrAssign
	EqEq   // ==
	Bang   // !
	BangEq // !=
	Lt
	LtEq
	Gt
	GtEq
	Shl // <<
	Shr // >>
	Amp // &
	Pipe
	Caret
	Tilde // ~
	AndAnd
	OrOr
	Question
	Colon
	Semicolon
	Comma
	Dot    // .
	Ellipsis // ...
	Arrow  // ->
	PlusPlus
	MinusMinus
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	At // @ (function-literal extension)
)
