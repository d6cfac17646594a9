package main

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"cfront/internal/diagfmt"
	"cfront/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokens [flags] <file.c|directory>",
	Short: "Tokenize a C source file or directory",
	Long:  `tokens lexes a single translation unit or every *.c/*.h file under a directory and prints the resulting token stream`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	tokenizeCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
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

	st, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}

	useColor, err := colorEnabled(cmd, os.Stderr)
	if err != nil {
		return err
	}
	prettyOpts := diagfmt.PrettyOpts{Color: useColor, Context: 2}

	if !st.IsDir() {
		result, err := driver.Tokenize(path, maxDiagnostics)
		if err != nil {
			return fmt.Errorf("tokenization failed: %w", err)
		}
		if result.Bag.HasErrors() || result.Bag.HasWarnings() {
			diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, result.Locs, prettyOpts)
		}
		switch format {
		case "pretty":
			return diagfmt.FormatTokensPretty(os.Stdout, result.Tokens, result.FileSet)
		case "json":
			return diagfmt.FormatTokensJSON(os.Stdout, result.Tokens)
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

	fs, results, err := driver.TokenizeDir(cmd.Context(), path, maxDiagnostics, jobs, nil)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	for _, r := range results {
		if r.Bag.HasErrors() || r.Bag.HasWarnings() {
			diagfmt.Pretty(os.Stderr, r.Bag, fs, r.Locs, prettyOpts)
		}
	}

	switch format {
	case "pretty":
		for idx, r := range results {
			if !quiet {
				displayPath := r.Path
				if r.FileID != 0 {
					displayPath = fs.Get(r.FileID).FormatPath("auto", fs.BaseDir())
				}
				fmt.Fprintf(os.Stdout, "== %s ==\n", displayPath)
			}
			if err := diagfmt.FormatTokensPretty(os.Stdout, r.Tokens, fs); err != nil {
				return err
			}
			if !quiet && idx < len(results)-1 {
				fmt.Fprintln(os.Stdout)
			}
		}
	case "json":
		output := make(map[string][]diagfmt.TokenOutput, len(results))
		for _, r := range results {
			displayPath := r.Path
			if r.FileID != 0 {
				displayPath = fs.Get(r.FileID).FormatPath("auto", fs.BaseDir())
			}
			output[displayPath] = diagfmt.TokenOutputsJSON(r.Tokens)
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(output)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	return nil
}
