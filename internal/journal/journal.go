// Package journal maps journal short codes to canonical display names.
package journal

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// builtin covers the journals ADS abbreviates in astronomy bibtex entries.
var builtin = map[string]string{
	"A&A":     "Astronomy & Astrophysics",
	"A&ARv":   "Astronomy and Astrophysics Review",
	"AJ":      "The Astronomical Journal",
	"ARA&A":   "Annual Review of Astronomy and Astrophysics",
	"ApJ":     "The Astrophysical Journal",
	"ApJL":    "The Astrophysical Journal Letters",
	"ApJS":    "The Astrophysical Journal Supplement Series",
	"Icar":    "Icarus",
	"MNRAS":   "Monthly Notices of the Royal Astronomical Society",
	"Nature":  "Nature",
	"PASJ":    "Publications of the Astronomical Society of Japan",
	"PASP":    "Publications of the Astronomical Society of the Pacific",
	"PhRvD":   "Physical Review D",
	"PhRvL":   "Physical Review Letters",
	"Science": "Science",
	"arXiv":   "arXiv e-prints",
}

// Table resolves journal short codes in both directions.
type Table struct {
	names map[string]string // code -> display name
	codes map[string]string // display name -> code
}

// NewTable returns a table preloaded with the built-in journal set.
func NewTable() *Table {
	t := &Table{
		names: make(map[string]string, len(builtin)),
		codes: make(map[string]string, len(builtin)),
	}
	for code, name := range builtin {
		t.names[code] = name
		t.codes[name] = code
	}
	return t
}

// LoadOverrides merges a user YAML file of code -> name pairs on top of the
// built-in table. User entries win on collision.
func (t *Table) LoadOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading journal overrides: %w", err)
	}

	overrides := make(map[string]string)
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return fmt.Errorf("parsing journal overrides: %w", err)
	}

	for code, name := range overrides {
		t.names[code] = name
		t.codes[name] = code
	}
	return nil
}

// Name returns the canonical display name for a journal code. Unknown codes
// are returned unchanged so raw publication names still display.
func (t *Table) Name(code string) string {
	if name, ok := t.names[code]; ok {
		return name
	}
	return code
}

// Code returns the short code for a publication name as reported by the
// authority. The name itself is returned when no code is known, so the
// stored journal field round-trips through Name.
func (t *Table) Code(pubName string) string {
	if code, ok := t.codes[pubName]; ok {
		return code
	}
	return pubName
}
