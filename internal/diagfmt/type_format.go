package diagfmt

import (
	"fmt"
	"strings"

	"cfront/internal/ast"
	"cfront/internal/decl"
)

// formatSpecifiers renders a bag of declaration-specifier flags the way a
// programmer would type them, qualifiers first.
func formatSpecifiers(s decl.Specifiers) string {
	var parts []string
	if s.Const {
		parts = append(parts, "const")
	}
	if s.Volatile {
		parts = append(parts, "volatile")
	}
	if s.Restrict {
		parts = append(parts, "restrict")
	}
	if s.Atomic {
		parts = append(parts, "_Atomic")
	}
	if s.Unsigned {
		parts = append(parts, "unsigned")
	}
	if s.Signed {
		parts = append(parts, "signed")
	}
	switch {
	case s.Void:
		parts = append(parts, "void")
	case s.Bool:
		parts = append(parts, "_Bool")
	case s.Char:
		parts = append(parts, "char")
	case s.Double:
		if s.Long {
			parts = append(parts, "long", "double")
		} else {
			parts = append(parts, "double")
		}
	case s.Float:
		parts = append(parts, "float")
	default:
		if s.LongLong {
			parts = append(parts, "long", "long")
		} else if s.Long {
			parts = append(parts, "long")
		} else if s.Short {
			parts = append(parts, "short")
		}
		parts = append(parts, "int")
	}
	if len(parts) == 0 {
		return "int"
	}
	return strings.Join(parts, " ")
}

// formatTagKeyword renders `struct`/`union`/`enum`.
func formatTagKeyword(k decl.TagKeyword) string {
	switch k {
	case decl.TagUnion:
		return "union"
	case decl.TagEnum:
		return "enum"
	default:
		return "struct"
	}
}

// formatTypeExprInline renders a type-expression tree as a single-line C
// type spelling (e.g. "const int *", "int[10]", "struct point"). It needs
// builder access because an array's Len is itself an expression.
func formatTypeExprInline(b *ast.Builder, types *decl.TypeExprs, id ast.TypeID) string {
	if types == nil || !id.IsValid() {
		return "<type>"
	}
	te := types.Get(id)
	if te == nil {
		return "<type>"
	}
	switch te.Kind {
	case decl.Builtin:
		return formatSpecifiers(te.Specs)
	case decl.Pointer:
		return formatTypeExprInline(b, types, te.Elem) + " *"
	case decl.Array:
		elem := formatTypeExprInline(b, types, te.Elem)
		if te.Len.IsValid() {
			return fmt.Sprintf("%s[%s]", elem, formatExprInline(b, types, te.Len))
		}
		return elem + "[]"
	case decl.Function:
		ret := formatTypeExprInline(b, types, te.Elem)
		parts := make([]string, 0, len(te.Params)+1)
		for _, p := range te.Params {
			parts = append(parts, formatTypeExprInline(b, types, p))
		}
		if te.Variadic {
			parts = append(parts, "...")
		}
		if len(parts) == 0 {
			parts = append(parts, "void")
		}
		return fmt.Sprintf("%s(%s)", ret, strings.Join(parts, ", "))
	case decl.Tag:
		name := "<anonymous>"
		if b != nil && te.TagName != 0 {
			if s, ok := b.StringsInterner.Lookup(te.TagName); ok {
				name = s
			}
		}
		return fmt.Sprintf("%s %s", formatTagKeyword(te.TagKind), name)
	default:
		return "<type>"
	}
}
