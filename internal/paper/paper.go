// Package paper defines the core domain types for the paper library.
package paper

import (
	"strings"
	"time"
)

// Paper represents one entry in the library.
//
// A paper is identified by its ADS bibcode once a formal publication record
// exists. Papers that only exist on arXiv carry their arXiv id and either no
// bibcode or a provisional arXiv bibcode; those are "pending" until the
// authority records a journal publication.
type Paper struct {
	// Identity
	Bibcode string `json:"bibcode,omitempty"`
	ArxivID string `json:"arxiv_id,omitempty"`

	// Authoritative metadata, overwritten on reconciliation
	Title    string   `json:"title"`
	Authors  []string `json:"authors"` // "Last, First" strings, in order
	Journal  string   `json:"journal,omitempty"` // short code into the journal table
	Year     int      `json:"year"`
	Abstract string   `json:"abstract,omitempty"`
	Bibtex   string   `json:"bibtex,omitempty"` // raw entry text from the authority

	// User-owned fields, never overwritten by a merge
	CitationKeyword string `json:"citation_keyword"`
	Notes           string `json:"notes,omitempty"`
	LocalPDFPath    string `json:"local_pdf_path,omitempty"`

	// Bookkeeping
	Pending   bool      `json:"pending"`
	AddedAt   time.Time `json:"added_at"`
	LastCheck time.Time `json:"last_check,omitempty"` // zero when never reconciled
}

// ID returns the stable row identifier: the bibcode once known, otherwise
// the arXiv id.
func (p Paper) ID() string {
	if p.Bibcode != "" {
		return p.Bibcode
	}
	return p.ArxivID
}

// FirstAuthor returns the first author, or "" for an empty author list.
func (p Paper) FirstAuthor() string {
	if len(p.Authors) == 0 {
		return ""
	}
	return p.Authors[0]
}

// ProvisionalBibcode reports whether a bibcode is an arXiv placeholder
// rather than a journal publication record. ADS issues bibcodes like
// "2021arXiv210612420B" for papers that have not yet appeared in a journal.
func ProvisionalBibcode(bibcode string) bool {
	return strings.Contains(bibcode, "arXiv")
}

// SortKey selects the ordering of library queries.
type SortKey string

const (
	SortTitle  SortKey = "title"
	SortAuthor SortKey = "author"
	SortYear   SortKey = "year"
	SortAdded  SortKey = "added"
)

// ValidSortKey reports whether k is a recognized sort key.
func ValidSortKey(k SortKey) bool {
	switch k {
	case SortTitle, SortAuthor, SortYear, SortAdded:
		return true
	}
	return false
}
