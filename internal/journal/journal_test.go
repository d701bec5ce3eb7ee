package journal

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNameAndCode(t *testing.T) {
	tbl := NewTable()

	tests := []struct {
		code string
		name string
	}{
		{"MNRAS", "Monthly Notices of the Royal Astronomical Society"},
		{"ApJ", "The Astrophysical Journal"},
		{"A&A", "Astronomy & Astrophysics"},
		{"arXiv", "arXiv e-prints"},
	}
	for _, tt := range tests {
		if got := tbl.Name(tt.code); got != tt.name {
			t.Errorf("Name(%q) = %q, want %q", tt.code, got, tt.name)
		}
		if got := tbl.Code(tt.name); got != tt.code {
			t.Errorf("Code(%q) = %q, want %q", tt.name, got, tt.code)
		}
	}
}

func TestUnknownRoundTrips(t *testing.T) {
	tbl := NewTable()

	// Publication names the table doesn't know pass through both ways, so
	// a stored journal field always displays as something sensible.
	raw := "Journal of Obscure Results"
	if got := tbl.Code(raw); got != raw {
		t.Errorf("Code(%q) = %q", raw, got)
	}
	if got := tbl.Name(raw); got != raw {
		t.Errorf("Name(%q) = %q", raw, got)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journals.yml")
	overrides := "JOR: Journal of Obscure Results\nMNRAS: Mon. Not. R. Astron. Soc.\n"
	if err := os.WriteFile(path, []byte(overrides), 0644); err != nil {
		t.Fatalf("writing overrides: %v", err)
	}

	tbl := NewTable()
	if err := tbl.LoadOverrides(path); err != nil {
		t.Fatalf("LoadOverrides: %v", err)
	}

	if got := tbl.Name("JOR"); got != "Journal of Obscure Results" {
		t.Errorf("new code Name = %q", got)
	}
	// User entries win over the built-in set.
	if got := tbl.Name("MNRAS"); got != "Mon. Not. R. Astron. Soc." {
		t.Errorf("overridden Name = %q", got)
	}
	// Untouched entries remain.
	if got := tbl.Name("ApJ"); got != "The Astrophysical Journal" {
		t.Errorf("builtin Name = %q", got)
	}
}

func TestLoadOverridesErrors(t *testing.T) {
	tbl := NewTable()
	if err := tbl.LoadOverrides(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Error("LoadOverrides accepted a missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yml")
	if err := os.WriteFile(path, []byte("- not\n- a\n- map\n"), 0644); err != nil {
		t.Fatalf("writing file: %v", err)
	}
	if err := tbl.LoadOverrides(path); err == nil {
		t.Error("LoadOverrides accepted non-map YAML")
	}
}
