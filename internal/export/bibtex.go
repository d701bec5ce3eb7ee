// Package export produces BibTeX text for papers in the library.
//
// The authority's BibTeX is treated as the source of truth: export rewrites
// only the entry key line to the paper's citation keyword and leaves every
// other byte exactly as the authority returned it.
package export

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/paperlib/paperlib/internal/paper"
)

// entryKeyPattern matches the opening line of a BibTeX entry:
// "@TYPE{key," with optional whitespace.
var entryKeyPattern = regexp.MustCompile(`(@[A-Za-z]+\s*\{)\s*[^,\s]+(\s*,)`)

// Entry returns the BibTeX entry for one paper with its key line rewritten
// to the paper's current citation keyword. Entries always end in a single
// trailing newline.
func Entry(p paper.Paper) string {
	bibtex := strings.TrimRight(p.Bibtex, "\n")
	if bibtex == "" {
		return ""
	}

	rewritten := false
	lines := strings.Split(bibtex, "\n")
	for i, line := range lines {
		if entryKeyPattern.MatchString(line) {
			lines[i] = entryKeyPattern.ReplaceAllString(line, "${1}"+p.CitationKeyword+"${2}")
			rewritten = true
			break
		}
	}
	if !rewritten {
		return bibtex + "\n"
	}
	return strings.Join(lines, "\n") + "\n"
}

// Entries formats papers as a .bib document: one entry per paper, entries
// separated by a blank line, in the order given.
func Entries(papers []paper.Paper) string {
	var entries []string
	for _, p := range papers {
		if e := Entry(p); e != "" {
			entries = append(entries, e)
		}
	}
	return strings.Join(entries, "\n")
}

// WriteFile writes papers to a UTF-8 .bib file.
func WriteFile(path string, papers []paper.Paper) error {
	if err := os.WriteFile(path, []byte(Entries(papers)), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
