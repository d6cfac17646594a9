package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"cfront/internal/diag"
	"cfront/internal/fix"
	"cfront/internal/source"
)

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	// Создаём FileSet
	fs := source.NewFileSet()

	// Добавляем тестовый файл
	content := []byte("let x = \"unterminated string\n")
	fileID := fs.AddVirtual("/home/user/project/src/test.sg", content)

	// Устанавливаем базовую директорию для relative paths
	fs.SetBaseDir("/home/user/project")

	// Создаём диагностику
	bag := diag.NewBag(10)
	d := diag.New(
		diag.SevError,
		diag.LexUnterminatedString,
		source.Span{File: fileID, Start: 8, End: 28},
		"Unterminated string literal",
	)
	bag.Add(&d)

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{
			name:     "Absolute path",
			mode:     PathModeAbsolute,
			contains: "/home/user/project/src/test.sg",
		},
		{
			name:     "Relative path",
			mode:     PathModeRelative,
			contains: "src/test.sg",
		},
		{
			name:     "Basename only",
			mode:     PathModeBasename,
			contains: "test.sg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			opts := PrettyOpts{
				Color:    false,
				Context:  1,
				PathMode: tt.mode,
			}

			Pretty(&buf, bag, fs, nil, opts)
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}

			// Проверяем что есть основные элементы
			if !strings.Contains(output, "ERROR") {
				t.Error("Expected ERROR in output")
			}
			if !strings.Contains(output, "LEX1002") {
				t.Error("Expected LEX1002 code in output")
			}
			if !strings.Contains(output, "Unterminated string") {
				t.Error("Expected error message in output")
			}
		})
	}
}

// TestPathModeAuto проверяет авто-режим выбора пути
func TestPathModeAuto(t *testing.T) {
	fs := source.NewFileSet()

	tests := []struct {
		name     string
		path     string
		expected string // что должно быть в выводе
	}{
		{
			name:     "Short path - as is",
			path:     "test.sg",
			expected: "test.sg",
		},
		{
			name:     "Long absolute path - basename",
			path:     "/very/long/absolute/path/to/some/nested/directory/file.sg",
			expected: "file.sg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := []byte("let x = 42\n")
			fileID := fs.AddVirtual(tt.path, content)

			bag := diag.NewBag(10)
			d := diag.New(
				diag.SevWarning,
				diag.LexUnknownChar,
				source.Span{File: fileID, Start: 8, End: 10},
				"Test warning",
			)
			bag.Add(&d)

			var buf bytes.Buffer
			opts := PrettyOpts{
				Color:    false,
				Context:  0,
				PathMode: PathModeAuto,
			}

			Pretty(&buf, bag, fs, nil, opts)
			output := buf.String()

			if !strings.Contains(output, tt.expected) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.expected, output)
			}
		})
	}
}

func TestPrettyWrapsLongLinesInThickMode(t *testing.T) {
	fs := source.NewFileSet()
	long := strings.Repeat("x", 40) + " + bad_token_here"
	content := []byte(long + "\n")
	fileID := fs.AddVirtual("wide.c", content)

	start := uint32(strings.Index(long, "bad_token_here"))
	end := start + uint32(len("bad_token_here"))

	bag := diag.NewBag(4)
	d := diag.New(diag.SevError, diag.SynUnexpectedToken, source.Span{File: fileID, Start: start, End: end}, "unexpected token")
	bag.Add(&d)

	var buf bytes.Buffer
	opts := PrettyOpts{Color: false, Context: 0, PathMode: PathModeBasename, Width: 20}
	Pretty(&buf, bag, fs, nil, opts)
	output := buf.String()

	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	for _, line := range lines {
		if strings.Contains(line, "|") {
			continue // gutter lines can legitimately be exactly width-sized
		}
	}
	if !strings.Contains(output, "bad_token_here") {
		t.Fatalf("expected the wrapped output to still contain the offending token, got:\n%s", output)
	}
	if !strings.Contains(output, "^") {
		t.Fatalf("expected an underline caret in the wrapped output, got:\n%s", output)
	}
	// the line is longer than the configured width, so its text must be
	// split across more than one printed row.
	sourceRows := 0
	for _, line := range lines {
		if strings.Contains(line, "xxxx") || strings.Contains(line, "bad_token_here") {
			sourceRows++
		}
	}
	if sourceRows < 2 {
		t.Fatalf("expected the long line to wrap across multiple rows, got:\n%s", output)
	}
}

func TestPrettyNoWrapWhenWidthUnset(t *testing.T) {
	fs := source.NewFileSet()
	long := strings.Repeat("y", 120)
	content := []byte(long + "\n")
	fileID := fs.AddVirtual("wide2.c", content)

	bag := diag.NewBag(4)
	d := diag.New(diag.SevError, diag.SynUnexpectedToken, source.Span{File: fileID, Start: 0, End: 1}, "unexpected token")
	bag.Add(&d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, nil, PrettyOpts{Color: false, Context: 0, PathMode: PathModeBasename})
	output := buf.String()
	if !strings.Contains(output, long) {
		t.Fatalf("expected the full unwrapped line with Width unset, got:\n%s", output)
	}
}

func TestPrettyThinErrorsOmitsSnippetAndReordersPrefix(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("int x = 1 +;\n")
	fileID := fs.AddVirtual("thin.c", content)

	bag := diag.NewBag(4)
	d := diag.New(diag.SevError, diag.SynExpectExpression, source.Span{File: fileID, Start: 11, End: 12}, "expected expression")
	bag.Add(&d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, nil, PrettyOpts{Color: false, PathMode: PathModeBasename, ThinErrors: true})
	output := buf.String()

	if !strings.HasPrefix(output, "thin.c:1:12:") {
		t.Fatalf("expected thin-error output to lead with the file position, got:\n%s", output)
	}
	if strings.Contains(output, "int x = 1 +;") {
		t.Fatalf("thin-error mode must not print the source-line snippet, got:\n%s", output)
	}
	if strings.Contains(output, "^") {
		t.Fatalf("thin-error mode must not draw an underline, got:\n%s", output)
	}
}

type staticFixThunk struct {
	fix *diag.Fix
}

func (t staticFixThunk) ID() string {
	if t.fix.ID != "" {
		return t.fix.ID
	}
	return "static-fix"
}

func (t staticFixThunk) Build(_ diag.FixBuildContext) (diag.Fix, error) {
	return *t.fix, nil
}

func TestPrettyNotesAndFixes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("import core::util\n")
	fileID := fs.AddVirtual("test.sg", content)

	bag := diag.NewBag(4)
	primary := source.Span{File: fileID, Start: 6, End: 10}
	d := diag.New(diag.SevWarning, diag.SynUnexpectedToken, primary, "unexpected token")

	noteSpan := source.Span{File: fileID, Start: 11, End: 15}
	d = d.WithNote(noteSpan, "remove trailing identifier")

	insertSpan := source.Span{File: fileID, Start: primary.End, End: primary.End}
	d = d.WithFix("insert semicolon", diag.FixEdit{Span: insertSpan, NewText: ";"})

	staticFix := fix.WrapWith(
		"wrap import block",
		source.Span{File: fileID, Start: 0, End: uint32(len(content))},
		"/* ",
		" */",
		fix.WithID("wrap-import-001"),
	)

	lazyFix := &diag.Fix{
		Title:         "wrap import block",
		Kind:          diag.FixKindRefactor,
		Applicability: diag.FixApplicabilitySafeWithHeuristics,
		Thunk: staticFixThunk{
			fix: &staticFix,
		},
	}
	d = d.WithFixSuggestion(*lazyFix)

	bag.Add(&d)

	var buf bytes.Buffer
	opts := PrettyOpts{
		Color:     false,
		Context:   0,
		PathMode:  PathModeBasename,
		ShowNotes: true,
		ShowFixes: true,
	}
	Pretty(&buf, bag, fs, nil, opts)

	output := buf.String()

	if !strings.Contains(output, "note: test.sg:1:12") {
		t.Fatalf("expected note with location, got:\n%s", output)
	}

	if !strings.Contains(output, "fix #1: insert semicolon") {
		t.Fatalf("expected first fix entry, got:\n%s", output)
	}

	if !strings.Contains(output, "apply=\";\"") {
		t.Fatalf("expected fix edit apply preview, got:\n%s", output)
	}

	if !strings.Contains(output, "id=wrap-import-001") {
		t.Fatalf("expected lazy fix id in output, got:\n%s", output)
	}
}

func TestPrettyFixPreview(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("let a = 42 // missing semicolon")
	fileID := fs.AddVirtual("example.sg", content)

	bag := diag.NewBag(2)
	insertSpan := source.Span{File: fileID, Start: 10, End: 10}
	d := diag.New(diag.SevWarning, diag.LexUnknownChar, insertSpan, "missing semicolon")
	d = d.WithFix("insert semicolon", diag.FixEdit{
		Span:    insertSpan,
		NewText: ";",
	})

	bag.Add(&d)

	var buf bytes.Buffer
	opts := PrettyOpts{
		Color:       false,
		Context:     0,
		PathMode:    PathModeBasename,
		ShowFixes:   true,
		ShowPreview: true,
	}
	Pretty(&buf, bag, fs, nil, opts)

	output := buf.String()
	if !strings.Contains(output, "preview:") {
		t.Fatalf("expected preview header in output, got:\n%s", output)
	}
	if !strings.Contains(output, "- let a = 42 // missing semicolon") {
		t.Fatalf("expected before line in preview, got:\n%s", output)
	}
	if !strings.Contains(output, "+ let a = 42; // missing semicolon") {
		t.Fatalf("expected after line in preview, got:\n%s", output)
	}
}

func TestPrettyBacktraceWalksOutermostFirst(t *testing.T) {
	fs := source.NewFileSet()
	headerID := fs.AddVirtual("header.h", []byte("#define MAX(a, b) ((a) > (b) ? (a) : (b))\n"))
	mainID := fs.AddVirtual("main.c", []byte("int x = MAX(1, 2);\n"))

	locs := source.NewLocStore()
	includeSite := locs.Add(mainID, 1, 1, 7)
	macroSite := locs.AddMacro(headerID, 1, 9, 3, includeSite, "MAX")

	bag := diag.NewBag(4)
	d := diag.New(diag.SevError, diag.SynUnexpectedToken, source.Span{File: headerID, Start: 8, End: 11}, "comparison in expansion")
	d.Loc = macroSite
	bag.Add(&d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, locs, PrettyOpts{Color: false, Context: 0, PathMode: PathModeBasename})
	output := buf.String()

	includeIdx := strings.Index(output, "In file included from main.c:1:")
	if includeIdx < 0 {
		t.Fatalf("expected an #include backtrace frame, got:\n%s", output)
	}
	headerIdx := strings.Index(output, "header.h:1:9")
	if headerIdx < 0 {
		t.Fatalf("expected the diagnostic's own location in output, got:\n%s", output)
	}
	if includeIdx > headerIdx {
		t.Fatalf("expected the #include frame (outermost) to print before the diagnostic's own location, got:\n%s", output)
	}
}

func TestPrettyTwoSpotSameLineMergesUnderlines(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("int a, a;\n")
	fileID := fs.AddVirtual("dup.c", content)

	engine := diag.NewEngine(fs, diag.DefaultErrorLimit)
	first := source.Span{File: fileID, Start: 4, End: 5}
	second := source.Span{File: fileID, Start: 7, End: 8}
	engine.ReportTwoSpots(diag.SynUnexpectedToken, diag.SevError, first, second, "duplicate declaration", "previous declaration here", "")

	var buf bytes.Buffer
	Pretty(&buf, engine.Bag(), fs, nil, PrettyOpts{Color: false, PathMode: PathModeBasename})
	output := buf.String()

	if !strings.Contains(output, "previous declaration here") {
		t.Fatalf("expected the secondary message on its own line, got:\n%s", output)
	}
	if strings.Count(output, "int a, a;") != 1 {
		t.Fatalf("expected the shared source line printed exactly once, got:\n%s", output)
	}
	caretCount := strings.Count(output, "^")
	if caretCount != 2 {
		t.Fatalf("expected two underline carets (one per span) merged onto one gutter line, got %d in:\n%s", caretCount, output)
	}
}

func TestPrettyTwoSpotCrossFilePrintsInterjection(t *testing.T) {
	fs := source.NewFileSet()
	headerID := fs.AddVirtual("iface.h", []byte("void run(void);\n"))
	implID := fs.AddVirtual("impl.c", []byte("void run(int x) {}\n"))

	engine := diag.NewEngine(fs, diag.DefaultErrorLimit)
	primary := source.Span{File: implID, Start: 5, End: 8}
	secondary := source.Span{File: headerID, Start: 5, End: 8}
	engine.ReportTwoSpots(diag.SynUnexpectedToken, diag.SevError, primary, secondary,
		"conflicting declaration", "previously declared here", "the signatures must match")

	var buf bytes.Buffer
	Pretty(&buf, engine.Bag(), fs, nil, PrettyOpts{Color: false, PathMode: PathModeBasename})
	output := buf.String()

	if !strings.Contains(output, "meanwhile in... iface.h") {
		t.Fatalf("expected a cross-file separator naming the secondary file, got:\n%s", output)
	}
	if !strings.Contains(output, "the signatures must match") {
		t.Fatalf("expected the interjection line, got:\n%s", output)
	}
	if !strings.Contains(output, "previously declared here") {
		t.Fatalf("expected the secondary message, got:\n%s", output)
	}
}
