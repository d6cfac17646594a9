package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"cfront/internal/ast"
	"cfront/internal/decl"
	"cfront/internal/source"
)

// ASTNodeOutput is the shared tree shape both the pretty/tree text
// renderers and the JSON encoder walk; Fields holds per-kind structured
// extras (a declaration's name/type, a function's parameter list) that
// don't fit a single Text summary.
type ASTNodeOutput struct {
	Type     string          `json:"type"`
	Kind     string          `json:"kind,omitempty"`
	Span     source.Span     `json:"span"`
	Text     string          `json:"text,omitempty"`
	Children []ASTNodeOutput `json:"children,omitempty"`
	Fields   map[string]any  `json:"fields,omitempty"`
}

func formatStmtKind(k ast.StmtKind) string {
	switch k {
	case ast.StmtBlock:
		return "Block"
	case ast.StmtDecl:
		return "Decl"
	case ast.StmtExpr:
		return "Expr"
	case ast.StmtReturn:
		return "Return"
	case ast.StmtIf:
		return "If"
	case ast.StmtWhile:
		return "While"
	case ast.StmtForClassic:
		return "For"
	case ast.StmtBreak:
		return "Break"
	case ast.StmtContinue:
		return "Continue"
	case ast.StmtFuncDef:
		return "FuncDef"
	default:
		return "Unknown"
	}
}

// buildStmtNode builds the JSON/tree node for one statement, recursing into
// its nested statements and the expressions it carries.
func buildStmtNode(b *ast.Builder, types *decl.TypeExprs, id ast.StmtID) ASTNodeOutput {
	s := b.Stmts.Get(id)
	if s == nil {
		return ASTNodeOutput{Type: "Stmt", Kind: "Invalid"}
	}
	node := ASTNodeOutput{Type: "Stmt", Kind: formatStmtKind(s.Kind), Span: s.Span}

	switch s.Kind {
	case ast.StmtBlock:
		blk := b.Stmts.Block(id)
		for _, c := range blk.Stmts {
			node.Children = append(node.Children, buildStmtNode(b, types, c))
		}
	case ast.StmtDecl:
		d := b.Stmts.Decl(id)
		node.Fields = map[string]any{
			"name": lookupString(b, d.Name),
			"type": formatTypeExprInline(b, types, d.Type),
		}
		if d.Value.IsValid() {
			node.Text = formatExprSummary(b, types, d.Value)
			node.Children = append(node.Children, buildExprNode(b, types, d.Value))
		}
	case ast.StmtExpr:
		d := b.Stmts.Expr(id)
		if d.Expr.IsValid() {
			node.Text = formatExprSummary(b, types, d.Expr)
			node.Children = append(node.Children, buildExprNode(b, types, d.Expr))
		}
	case ast.StmtReturn:
		d := b.Stmts.Return(id)
		if d.Expr.IsValid() {
			node.Text = formatExprSummary(b, types, d.Expr)
			node.Children = append(node.Children, buildExprNode(b, types, d.Expr))
		}
	case ast.StmtIf:
		d := b.Stmts.If(id)
		node.Text = formatExprSummary(b, types, d.Cond)
		node.Children = append(node.Children, buildExprNode(b, types, d.Cond), buildStmtNode(b, types, d.Then))
		if d.Else.IsValid() {
			node.Children = append(node.Children, buildStmtNode(b, types, d.Else))
		}
	case ast.StmtWhile:
		d := b.Stmts.While(id)
		node.Text = formatExprSummary(b, types, d.Cond)
		node.Children = append(node.Children, buildExprNode(b, types, d.Cond), buildStmtNode(b, types, d.Body))
	case ast.StmtForClassic:
		d := b.Stmts.ForClassic(id)
		if d.Init.IsValid() {
			node.Children = append(node.Children, buildStmtNode(b, types, d.Init))
		}
		if d.Cond.IsValid() {
			node.Children = append(node.Children, buildExprNode(b, types, d.Cond))
		}
		if d.Post.IsValid() {
			node.Children = append(node.Children, buildExprNode(b, types, d.Post))
		}
		node.Children = append(node.Children, buildStmtNode(b, types, d.Body))
	case ast.StmtFuncDef:
		d := b.Stmts.FuncDef(id)
		params := make([]string, len(d.Params))
		for i, p := range d.Params {
			params[i] = lookupString(b, p)
		}
		node.Fields = map[string]any{
			"type":   formatTypeExprInline(b, types, d.Type),
			"params": params,
		}
		node.Text = lookupString(b, d.Name)
		if d.Body.IsValid() {
			node.Children = append(node.Children, buildStmtNode(b, types, d.Body))
		}
	}
	return node
}

// formatFieldsInline renders an ASTNodeOutput's Fields map as a compact
// "key=value, key=value" suffix for text output.
func formatFieldsInline(fields map[string]any) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, fields[k])
	}
	return strings.Join(parts, ", ")
}

// renderNodeLines renders node and its subtree as box-drawing tree lines.
// The root node (isRoot) is printed bare, without a connector, so a
// top-level statement list can be rendered either flat (one call per
// statement, isRoot=false) or wrapped under a single synthetic root
// (isRoot=true for just the root).
func renderNodeLines(node ASTNodeOutput, prefix string, isLast bool, isRoot bool) []string {
	label := node.Kind
	if node.Text != "" {
		label = fmt.Sprintf("%s: %s", node.Kind, node.Text)
	}
	if extra := formatFieldsInline(node.Fields); extra != "" {
		label = fmt.Sprintf("%s (%s)", label, extra)
	}

	var lines []string
	childPrefix := prefix
	if isRoot {
		lines = append(lines, label)
		childPrefix = prefix
	} else {
		connector := "├─ "
		childPrefix = prefix + "│  "
		if isLast {
			connector = "└─ "
			childPrefix = prefix + "   "
		}
		lines = append(lines, prefix+connector+label)
	}

	for i, c := range node.Children {
		lines = append(lines, renderNodeLines(c, childPrefix, i == len(node.Children)-1, false)...)
	}
	return lines
}

// FormatASTPretty prints one line per top-level statement, each with its
// own box-drawing subtree, below a "path (span: ...)" header.
func FormatASTPretty(w io.Writer, builder *ast.Builder, types *decl.TypeExprs, fileID ast.FileID, fs *source.FileSet) error {
	file := builder.Files.Get(fileID)
	if file == nil {
		return fmt.Errorf("file not found")
	}

	header := "File"
	if fs != nil {
		srcFile := fs.Get(file.Span.File)
		header = srcFile.FormatPath("auto", fs.BaseDir())
	}
	fmt.Fprintf(w, "%s (span: %s)\n", header, formatSpan(file.Span, fs))

	for i, stmtID := range file.Stmts {
		node := buildStmtNode(builder, types, stmtID)
		for _, line := range renderNodeLines(node, "", i == len(file.Stmts)-1, false) {
			fmt.Fprintln(w, line)
		}
	}
	return nil
}

// FormatASTTree prints the whole file as a single rooted tree.
func FormatASTTree(w io.Writer, builder *ast.Builder, types *decl.TypeExprs, fileID ast.FileID, fs *source.FileSet) error {
	file := builder.Files.Get(fileID)
	if file == nil {
		return fmt.Errorf("file not found")
	}

	root := ASTNodeOutput{Type: "File", Kind: "File", Span: file.Span}
	for _, stmtID := range file.Stmts {
		root.Children = append(root.Children, buildStmtNode(builder, types, stmtID))
	}

	for _, line := range renderNodeLines(root, "", true, true) {
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
	return nil
}

// BuildASTJSON builds the JSON-serializable AST tree for one file.
func BuildASTJSON(builder *ast.Builder, types *decl.TypeExprs, fileID ast.FileID) (ASTNodeOutput, error) {
	file := builder.Files.Get(fileID)
	if file == nil {
		return ASTNodeOutput{}, fmt.Errorf("file not found")
	}

	var children []ASTNodeOutput
	for _, stmtID := range file.Stmts {
		children = append(children, buildStmtNode(builder, types, stmtID))
	}

	return ASTNodeOutput{
		Type:     "File",
		Span:     file.Span,
		Children: children,
	}, nil
}

func FormatASTJSON(w io.Writer, builder *ast.Builder, types *decl.TypeExprs, fileID ast.FileID) error {
	output, err := BuildASTJSON(builder, types, fileID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
