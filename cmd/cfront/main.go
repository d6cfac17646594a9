package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"golang.org/x/term"

	"cfront/internal/config"
	"cfront/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "cfront",
	Short: "C expression parser and diagnostic engine",
	Long:  `cfront lexes and parses C translation units and renders their diagnostics`,
}

// main configures the root CLI command (version, subcommands, persistent
// flags) and executes it, exiting with status 1 on failure.
func main() {
	rootCmd.Version = version.VersionString()

	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(diagCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to collect per file")
	rootCmd.PersistentFlags().Bool("out-of-order-decls", false, "resolve identifiers against not-yet-parsed top-level declarations")
	rootCmd.PersistentFlags().Bool("thin-errors", false, "render diagnostics without source-line snippets or underlines")
	rootCmd.PersistentFlags().String("ui", "auto", "directory-mode progress view (auto|on|off)")
	rootCmd.PersistentFlags().String("config", ".cfront.toml", "path to a cfront TOML config file (missing file is not an error)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the --config file (if present) and layers its values
// under whatever the user passed explicitly on the command line: a flag
// the user set always wins, and an unset flag falls back to the config
// file's value instead of the flag's own zero-value default.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	return config.Load(path)
}

// boolFlagOrConfig returns flags.Lookup(name)'s value if the user
// explicitly set it on the command line, otherwise fallback (typically a
// config.Config field) — flags always win over the config file.
func boolFlagOrConfig(flags *pflag.FlagSet, name string, fallback bool) (bool, error) {
	if flags.Changed(name) {
		return flags.GetBool(name)
	}
	return fallback, nil
}

// intFlagOrConfig mirrors boolFlagOrConfig for integer-valued flags.
func intFlagOrConfig(flags *pflag.FlagSet, name string, fallback int) (int, error) {
	if flags.Changed(name) {
		return flags.GetInt(name)
	}
	return fallback, nil
}

// stringFlagOrConfig mirrors boolFlagOrConfig for string-valued flags.
func stringFlagOrConfig(flags *pflag.FlagSet, name string, fallback string) (string, error) {
	if flags.Changed(name) {
		return flags.GetString(name)
	}
	return fallback, nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func colorEnabled(cmd *cobra.Command, f *os.File) (bool, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return false, err
	}
	colorFlag, err := stringFlagOrConfig(cmd.Root().PersistentFlags(), "color", cfg.Color)
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	return colorFlag == "on" || (colorFlag == "auto" && isTerminal(f)), nil
}
