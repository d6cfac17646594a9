package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"cfront/internal/astcache"
	"cfront/internal/diag"
	"cfront/internal/diagfmt"
	"cfront/internal/driver"
	"cfront/internal/source"
)

var diagCmd = &cobra.Command{
	Use:   "diag [flags] <file.c|directory>",
	Short: "Parse a C source file or directory and report its diagnostics",
	Long:  `diag runs the lex/parse pipeline over a translation unit (or every *.c/*.h file under a directory) and renders whatever diagnostics were raised`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDiag,
}

func init() {
	diagCmd.Flags().String("format", "pretty", "output format (pretty|json|sarif)")
	diagCmd.Flags().Bool("no-warnings", false, "suppress warnings and info diagnostics")
	diagCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	diagCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	diagCmd.Flags().Bool("pedantic", false, "reject the '@' function-literal extension")
	diagCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	diagCmd.Flags().Bool("cache", false, "cache diagnostics on disk keyed by file content, skipping unchanged files on later runs")
}

func runDiag(cmd *cobra.Command, args []string) error {
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
	noWarnings, err := cmd.Flags().GetBool("no-warnings")
	if err != nil {
		return fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	warningsAsErrors, err := cmd.Flags().GetBool("warnings-as-errors")
	if err != nil {
		return fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	thinErrors, err := boolFlagOrConfig(cmd.Root().PersistentFlags(), "thin-errors", cfg.ThinErrors)
	if err != nil {
		return fmt.Errorf("failed to get thin-errors flag: %w", err)
	}
	fullpath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}

	popts, err := parseOptsFromFlags(cmd, maxDiagnostics)
	if err != nil {
		return err
	}

	useCache, err := cmd.Flags().GetBool("cache")
	if err != nil {
		return fmt.Errorf("failed to get cache flag: %w", err)
	}
	if useCache {
		cache, err := astcache.Open("cfront")
		if err != nil {
			return fmt.Errorf("failed to open diagnostics cache: %w", err)
		}
		popts.Cache = cache
	}

	st, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}

	pathMode := diagfmt.PathModeAuto
	if fullpath {
		pathMode = diagfmt.PathModeAbsolute
	}

	applyFilters := func(bag *diag.Bag) {
		if noWarnings {
			bag.Filter(func(d *diag.Diagnostic) bool {
				return d.Severity != diag.SevWarning && d.Severity != diag.SevInfo
			})
		}
		if warningsAsErrors {
			bag.Transform(func(d *diag.Diagnostic) *diag.Diagnostic {
				if d.Severity == diag.SevWarning {
					d.Severity = diag.SevError
				}
				return d
			})
			bag.Sort()
		}
	}

	var bags []*diag.Bag
	var locs []*source.LocStore
	var fileSet *source.FileSet
	if !st.IsDir() {
		result, err := driver.Parse(path, popts)
		if err != nil {
			return fmt.Errorf("diagnosis failed: %w", err)
		}
		applyFilters(result.Bag)
		bags = []*diag.Bag{result.Bag}
		locs = []*source.LocStore{result.Locs}
		fileSet = result.FileSet
	} else {
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
		quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
		if err != nil {
			return fmt.Errorf("failed to get quiet flag: %w", err)
		}

		var results []driver.ParseDirResult
		if shouldUseTUI(mode, quiet) {
			files, listErr := driver.ListCFiles(path)
			if listErr != nil {
				return fmt.Errorf("diagnosis failed: %w", listErr)
			}
			fileSet, results, err = runParseDirWithUI(cmd.Context(), "diagnosing "+path, path, popts, jobs, files)
		} else {
			fileSet, results, err = driver.ParseDir(cmd.Context(), path, popts, jobs, nil)
		}
		if err != nil {
			return fmt.Errorf("diagnosis failed: %w", err)
		}
		for _, r := range results {
			applyFilters(r.Bag)
			bags = append(bags, r.Bag)
			locs = append(locs, r.Locs)
		}
	}

	exitCode := 0
	switch format {
	case "pretty":
		opts := diagfmt.PrettyOpts{Color: mustColor(cmd), Context: 2, PathMode: pathMode, ThinErrors: thinErrors}
		for i, bag := range bags {
			diagfmt.Pretty(os.Stdout, bag, fileSet, locs[i], opts)
		}
	case "json":
		for _, bag := range bags {
			if err := diagfmt.JSON(os.Stdout, bag, fileSet, diagfmt.JSONOpts{IncludePositions: true, PathMode: pathMode}); err != nil {
				return err
			}
		}
	case "sarif":
		merged := diag.NewBag(len(bags) * maxDiagnostics)
		for _, bag := range bags {
			for _, d := range bag.Items() {
				merged.Add(d)
			}
		}
		meta := diagfmt.SarifRunMeta{ToolName: "cfront", ToolVersion: rootCmd.Version}
		if err := diagfmt.Sarif(os.Stdout, merged, fileSet, meta); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	for _, bag := range bags {
		if bag.HasErrors() {
			exitCode = 1
		}
	}
	if exitCode != 0 {
		// Diagnostics were already printed above; suppress cobra's usage
		// dump and return a silent error so the process exits non-zero.
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("")
	}
	return nil
}

func mustColor(cmd *cobra.Command) bool {
	useColor, err := colorEnabled(cmd, os.Stdout)
	if err != nil {
		return false
	}
	return useColor
}
