package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFile(t *testing.T) {
	Reset()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LibraryDir != "" || cfg.PDFDir != "" {
		t.Errorf("missing file yielded non-empty config: %+v", cfg)
	}
}

func TestSaveAndLoad(t *testing.T) {
	Reset()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := &Config{
		LibraryDir: "/data/papers",
		PDFDir:     "/data/papers/pdfs",
	}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	Reset()
	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.LibraryDir != "/data/papers" || loaded.PDFDir != "/data/papers/pdfs" {
		t.Errorf("Load = %+v", loaded)
	}
}

func TestLoadCaches(t *testing.T) {
	Reset()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := &Config{LibraryDir: "/data/papers"}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	Reset()
	cached, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.LibraryDir = "/elsewhere"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	again, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if again != cached {
		t.Error("Load did not return the cached config")
	}
	Reset()
	fresh, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if fresh.LibraryDir != "/elsewhere" {
		t.Errorf("after Reset, LibraryDir = %q", fresh.LibraryDir)
	}
}

func TestLibraryPathPrecedence(t *testing.T) {
	dir := t.TempDir()

	t.Setenv(EnvLibraryDir, dir)
	cfg := &Config{LibraryDir: "/configured"}
	if got := cfg.LibraryPath(); got != dir {
		t.Errorf("env override: LibraryPath = %q, want %q", got, dir)
	}

	t.Setenv(EnvLibraryDir, "")
	if got := cfg.LibraryPath(); got != "/configured" {
		t.Errorf("configured: LibraryPath = %q", got)
	}

	empty := &Config{}
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	if got := empty.LibraryPath(); got != filepath.Join(home, ".plib") {
		t.Errorf("default: LibraryPath = %q", got)
	}
}

func TestDerivedPaths(t *testing.T) {
	t.Setenv(EnvLibraryDir, "/lib")

	cfg := &Config{}
	if got := cfg.DBPath(); got != filepath.Join("/lib", DBFile) {
		t.Errorf("DBPath = %q", got)
	}
	if got := cfg.PDFPath(); got != "/lib/pdfs" {
		t.Errorf("PDFPath = %q", got)
	}

	cfg.PDFDir = "/elsewhere/pdfs"
	if got := cfg.PDFPath(); got != "/elsewhere/pdfs" {
		t.Errorf("explicit PDFPath = %q", got)
	}
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	if got := ExpandTilde("~/papers"); got != filepath.Join(home, "papers") {
		t.Errorf("ExpandTilde = %q", got)
	}
	if got := ExpandTilde("/absolute/path"); got != "/absolute/path" {
		t.Errorf("ExpandTilde changed absolute path: %q", got)
	}
	if got := ExpandTilde(""); got != "" {
		t.Errorf("ExpandTilde(\"\") = %q", got)
	}
}
