package diag

import (
	"fmt"
)

type Code uint16

const (
	// Unknown / fallback.
	UnknownCode Code = 0

	// Lexical (1000-1999).
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexTokenTooLong             Code = 1005
	LexUnterminatedChar         Code = 1006

	// Syntax / parser (2000-2999).
	SynInfo                   Code = 2000
	SynUnexpectedToken        Code = 2001
	SynUnclosedDelimiter      Code = 2002
	SynUnclosedParen          Code = 2003
	SynUnclosedBrace          Code = 2004
	SynUnclosedBracket        Code = 2005
	SynExpectSemicolon        Code = 2006
	SynExpectExpression       Code = 2007
	SynExpectIdentifier       Code = 2008
	SynExpectTypename         Code = 2009
	SynExpectColon            Code = 2010
	SynExpectRParen           Code = 2011
	SynExpectRBracket         Code = 2012
	SynExpectRBrace           Code = 2013
	SynGenericDuplicateDefault Code = 2014
	SynGenericNoMatch         Code = 2015
	SynGenericExpectColon     Code = 2016
	SynFunctionLiteralNotFn   Code = 2017
	SynDesignatorBadRange     Code = 2018
	SynCastOrCompoundLiteral  Code = 2019
	SynSizeofAmbiguous        Code = 2020
	SynAssignmentNotLvalue    Code = 2021
	SynStringConcatWidthMismatch Code = 2022
	SynInvalidUnaryOperand    Code = 2023
	SynPedanticFuncLiteral    Code = 2024

	// Resolution of narrow collaborators (2100-2199): symbols/types the
	// expression parser needs to resolve identifiers and type-names, but
	// which belong to the declaration/symbol layer rather than the
	// expression grammar itself.
	SynUnresolvedIdentifier Code = 2100
	SynNotAFunctionType     Code = 2101
	SynDuplicateLocal       Code = 2102

	// I/O (4000-4999).
	IOLoadFileError Code = 4001

	// Driver / project (5000-5999).
	ProjInfo             Code = 5000
	ProjDuplicateModule  Code = 5001
	ProjMissingModule    Code = 5002
	ProjInvalidModulePath Code = 5005

	// Observability (6000-6999).
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:                  "Unknown error",
	LexInfo:                      "Lexical information",
	LexUnknownChar:               "Unknown character",
	LexUnterminatedString:        "Unterminated string literal",
	LexUnterminatedBlockComment:  "Unterminated block comment",
	LexBadNumber:                 "Malformed numeric constant",
	LexTokenTooLong:              "Token too long",
	LexUnterminatedChar:          "Unterminated character literal",
	SynInfo:                      "Syntax information",
	SynUnexpectedToken:           "Unexpected token",
	SynUnclosedDelimiter:         "Unclosed delimiter",
	SynUnclosedParen:             "Expected ')'",
	SynUnclosedBrace:             "Expected '}'",
	SynUnclosedBracket:           "Expected ']'",
	SynExpectSemicolon:           "Expected ';'",
	SynExpectExpression:          "Expected expression",
	SynExpectIdentifier:          "Expected identifier",
	SynExpectTypename:            "Expected type-name",
	SynExpectColon:               "Expected ':'",
	SynExpectRParen:              "Expected ')'",
	SynExpectRBracket:            "Expected ']'",
	SynExpectRBrace:              "Expected '}'",
	SynGenericDuplicateDefault:   "_Generic selection has more than one default case",
	SynGenericNoMatch:            "_Generic selection has no matching association",
	SynGenericExpectColon:        "Expected ':' in _Generic association",
	SynFunctionLiteralNotFn:      "@ function-literal type does not name a function type",
	SynDesignatorBadRange:        "Invalid designated-initializer array range",
	SynCastOrCompoundLiteral:     "Ambiguous cast or compound literal",
	SynSizeofAmbiguous:           "Ambiguous sizeof/_Alignof operand",
	SynAssignmentNotLvalue:       "Left-hand side of assignment is not assignable",
	SynStringConcatWidthMismatch: "Cannot concatenate string literals of different character widths",
	SynInvalidUnaryOperand:       "Invalid operand for unary operator",
	SynPedanticFuncLiteral:       "@ function-literal extension is rejected under -pedantic",
	SynUnresolvedIdentifier:      "Use of undeclared identifier",
	SynNotAFunctionType:          "Declarator does not describe a function type",
	SynDuplicateLocal:            "Redefinition of local symbol",
	IOLoadFileError:              "I/O load file error",
	ProjInfo:                     "Project information",
	ProjDuplicateModule:          "Duplicate translation unit",
	ProjMissingModule:            "Missing translation unit",
	ProjInvalidModulePath:        "Invalid source path",
	ObsInfo:                      "Observability information",
	ObsTimings:                   "Pipeline timings",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
