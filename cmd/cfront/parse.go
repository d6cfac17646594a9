package main

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"cfront/internal/diagfmt"
	"cfront/internal/driver"
	"cfront/internal/source"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <file.c|directory>",
	Short: "Parse a C source file or directory and print its AST",
	Long:  `parse runs a translation unit (or every *.c/*.h file under a directory) through the expression and declaration parser and prints the resulting syntax tree`,
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "pretty", "output format (pretty|json|tree)")
	parseCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	parseCmd.Flags().Bool("pedantic", false, "reject the '@' function-literal extension")
}

func parseOptsFromFlags(cmd *cobra.Command, maxDiagnostics int) (driver.Options, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return driver.Options{}, err
	}
	outOfOrder, err := boolFlagOrConfig(cmd.Root().PersistentFlags(), "out-of-order-decls", cfg.OutOfOrderDecls)
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get out-of-order-decls flag: %w", err)
	}
	pedantic, err := boolFlagOrConfig(cmd.Flags(), "pedantic", cfg.Pedantic)
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get pedantic flag: %w", err)
	}
	return driver.Options{
		MaxDiagnostics:  maxDiagnostics,
		OutOfOrderDecls: outOfOrder,
		Pedantic:        pedantic,
	}, nil
}

func runParse(cmd *cobra.Command, args []string) error {
	path := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	maxDiagnostics, err := intFlagOrConfig(cmd.Root().PersistentFlags(), "max-diagnostics", cfg.ErrorLimit)
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	thinErrors, err := boolFlagOrConfig(cmd.Root().PersistentFlags(), "thin-errors", cfg.ThinErrors)
	if err != nil {
		return fmt.Errorf("failed to get thin-errors flag: %w", err)
	}

	st, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}

	useColor, err := colorEnabled(cmd, os.Stderr)
	if err != nil {
		return err
	}
	prettyOpts := diagfmt.PrettyOpts{Color: useColor, Context: 2, ThinErrors: thinErrors}

	popts, err := parseOptsFromFlags(cmd, maxDiagnostics)
	if err != nil {
		return err
	}

	if !st.IsDir() {
		result, err := driver.Parse(path, popts)
		if err != nil {
			return fmt.Errorf("parsing failed: %w", err)
		}
		if result.Bag.HasErrors() || result.Bag.HasWarnings() {
			diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, result.Locs, prettyOpts)
		}
		switch format {
		case "pretty":
			return diagfmt.FormatASTPretty(os.Stdout, result.Builder, result.Types, result.FileID, result.FileSet)
		case "json":
			return diagfmt.FormatASTJSON(os.Stdout, result.Builder, result.Types, result.FileID)
		case "tree":
			return diagfmt.FormatASTTree(os.Stdout, result.Builder, result.Types, result.FileID, result.FileSet)
		default:
			return fmt.Errorf("unknown format: %s", format)
		}
	}

	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	uiFlag, err := cmd.Root().PersistentFlags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}

	var fs *source.FileSet
	var results []driver.ParseDirResult
	if shouldUseTUI(mode, quiet) {
		files, listErr := driver.ListCFiles(path)
		if listErr != nil {
			return fmt.Errorf("parsing failed: %w", listErr)
		}
		fs, results, err = runParseDirWithUI(cmd.Context(), "parsing "+path, path, popts, jobs, files)
	} else {
		fs, results, err = driver.ParseDir(cmd.Context(), path, popts, jobs, nil)
	}
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	for _, r := range results {
		if r.Bag.HasErrors() || r.Bag.HasWarnings() {
			diagfmt.Pretty(os.Stderr, r.Bag, fs, r.Locs, prettyOpts)
		}
	}

	displayPathOf := func(r driver.ParseDirResult) string {
		if r.FileID != 0 && r.Builder != nil {
			f := r.Builder.Files.Get(r.FileID)
			return fs.Get(f.Span.File).FormatPath("auto", fs.BaseDir())
		}
		return r.Path
	}

	switch format {
	case "pretty":
		for idx, r := range results {
			if !quiet {
				fmt.Fprintf(os.Stdout, "== %s ==\n", displayPathOf(r))
			}
			if r.Builder != nil {
				if err := diagfmt.FormatASTPretty(os.Stdout, r.Builder, r.Types, r.FileID, fs); err != nil {
					return err
				}
			}
			if !quiet && idx < len(results)-1 {
				fmt.Fprintln(os.Stdout)
			}
		}
	case "json":
		output := make(map[string]*diagfmt.ASTNodeOutput, len(results))
		for _, r := range results {
			displayPath := displayPathOf(r)
			if r.Builder == nil {
				output[displayPath] = nil
				continue
			}
			node, err := diagfmt.BuildASTJSON(r.Builder, r.Types, r.FileID)
			if err != nil {
				return err
			}
			nodeCopy := node
			output[displayPath] = &nodeCopy
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(output)
	case "tree":
		for idx, r := range results {
			if !quiet {
				fmt.Fprintf(os.Stdout, "== %s ==\n", displayPathOf(r))
			}
			if r.Builder != nil {
				if err := diagfmt.FormatASTTree(os.Stdout, r.Builder, r.Types, r.FileID, fs); err != nil {
					return err
				}
			}
			if !quiet && idx < len(results)-1 {
				fmt.Fprintln(os.Stdout)
			}
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	return nil
}
