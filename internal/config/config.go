// Package config loads the REPL's on-disk preferences file
// (~/.satconfrc.toml): the diagnosis timeout, how many diagnoses to search
// for before giving up, and whether to force colored output regardless of
// whether stdout is a terminal.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Prefs is the REPL's tunable behavior, loaded from TOML.
type Prefs struct {
	DiagnosisTimeout time.Duration `toml:"-"`
	RawTimeout       string        `toml:"diagnosis_timeout"`
	MaxDiagnoses     int           `toml:"max_diagnoses"`
	Color            string        `toml:"color"` // "auto" | "on" | "off"
}

// Default returns the preferences used when no rc file is present.
func Default() Prefs {
	return Prefs{
		DiagnosisTimeout: 5 * time.Second,
		MaxDiagnoses:     10,
		Color:            "auto",
	}
}

// Path returns the default rc file location, ~/.satconfrc.toml.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".satconfrc.toml"), nil
}

// Load reads and parses the rc file at path, falling back to Default for
// any field it does not set. A missing file is not an error.
func Load(path string) (Prefs, error) {
	p := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return p, nil
	}
	if _, err := toml.DecodeFile(path, &p); err != nil {
		return p, err
	}
	if p.RawTimeout != "" {
		d, err := time.ParseDuration(p.RawTimeout)
		if err != nil {
			return p, err
		}
		p.DiagnosisTimeout = d
	}
	if p.MaxDiagnoses <= 0 {
		p.MaxDiagnoses = Default().MaxDiagnoses
	}
	if p.Color == "" {
		p.Color = "auto"
	}
	return p, nil
}
