// Package config loads cfront's process-wide settings object (spec.md
// §6): the pedantic/out-of-order-decls/thin-errors/error-limit/color
// knobs that both the CLI flags and an on-disk TOML file can set, with
// flags always taking precedence when both are present.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is cfront's settings object, loaded from a TOML file such as
// .cfront.toml in the working directory or a project root.
type Config struct {
	Pedantic        bool   `toml:"pedantic"`
	OutOfOrderDecls bool   `toml:"out_of_order_decls"`
	ThinErrors      bool   `toml:"thin_errors"`
	ErrorLimit      int    `toml:"error_limit"`
	Color           string `toml:"color"`
}

// Default returns the settings cfront uses when no config file is present.
func Default() Config {
	return Config{
		Pedantic:        false,
		OutOfOrderDecls: false,
		ThinErrors:      false,
		ErrorLimit:      100,
		Color:           "auto",
	}
}

type fileConfig struct {
	Parse parseSection `toml:"parse"`
	Diag  diagSection  `toml:"diag"`
}

type parseSection struct {
	Pedantic        bool `toml:"pedantic"`
	OutOfOrderDecls bool `toml:"out_of_order_decls"`
}

type diagSection struct {
	ThinErrors bool   `toml:"thin_errors"`
	ErrorLimit int    `toml:"error_limit"`
	Color      string `toml:"color"`
}

// Load parses path as a cfront config file. A missing file is not an
// error: it returns Default() unchanged, matching the optional nature of
// spec.md §6's settings object (every one of its fields already has a
// sensible CLI-flag default).
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("%s: %w", path, err)
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return cfg, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}

	if meta.IsDefined("parse", "pedantic") {
		cfg.Pedantic = raw.Parse.Pedantic
	}
	if meta.IsDefined("parse", "out_of_order_decls") {
		cfg.OutOfOrderDecls = raw.Parse.OutOfOrderDecls
	}
	if meta.IsDefined("diag", "thin_errors") {
		cfg.ThinErrors = raw.Diag.ThinErrors
	}
	if meta.IsDefined("diag", "error_limit") {
		cfg.ErrorLimit = raw.Diag.ErrorLimit
	}
	if meta.IsDefined("diag", "color") {
		color := strings.TrimSpace(strings.ToLower(raw.Diag.Color))
		switch color {
		case "auto", "on", "off":
			cfg.Color = color
		default:
			return cfg, fmt.Errorf("%s: invalid diag.color %q (expected auto|on|off)", path, raw.Diag.Color)
		}
	}

	return cfg, nil
}
