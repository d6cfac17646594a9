package token

var keywords = map[string]Kind{
	"auto":           KwAuto,
	"break":          KwBreak,
	"case":           KwCase,
	"char":           KwChar,
	"const":          KwConst,
	"continue":       KwContinue,
	"default":        KwDefault,
	"do":             KwDo,
	"double":         KwDouble,
	"else":           KwElse,
	"enum":           KwEnum,
	"extern":         KwExtern,
	"float":          KwFloat,
	"for":            KwFor,
	"goto":           KwGoto,
	"if":             KwIf,
	"inline":         KwInline,
	"int":            KwInt,
	"long":           KwLong,
	"register":       KwRegister,
	"restrict":       KwRestrict,
	"return":         KwReturn,
	"short":          KwShort,
	"signed":         KwSigned,
	"sizeof":         KwSizeof,
	"static":         KwStatic,
	"struct":         KwStruct,
	"switch":         KwSwitch,
	"typedef":        KwTypedef,
	"union":          KwUnion,
	"unsigned":       KwUnsigned,
	"void":           KwVoid,
	"volatile":       KwVolatile,
	"while":          KwWhile,
	"_Alignof":       KwAlignof,
	"_Alignas":       KwAlignas,
	"_Atomic":        KwAtomic,
	"_Bool":          KwBool,
	"_Complex":       KwComplex,
	"_Generic":       KwGeneric,
	"_Noreturn":      KwNoreturn,
	"_Static_assert": KwStaticAssert,
	"_Thread_local":  KwThreadLocal,
}

// LookupKeyword reports the keyword Kind for ident, if any. Keywords are
// case-sensitive, as in C.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
