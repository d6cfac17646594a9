package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cfront/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print cfront's build fingerprint",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := cmd.Flags().GetString("format")
		if err != nil {
			return fmt.Errorf("failed to get format flag: %w", err)
		}
		v := strings.TrimSpace(version.Version)
		if v == "" {
			v = "dev"
		}
		switch format {
		case "pretty":
			fmt.Fprintf(cmd.OutOrStdout(), "cfront %s\n", v)
		case "json":
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Tool    string `json:"tool"`
				Version string `json:"version"`
			}{Tool: "cfront", Version: v})
		default:
			return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}
