// Package ads defines the bibliographic lookup contract and its
// implementation against the NASA ADS API.
package ads

import (
	"context"
	"strings"

	"github.com/paperlib/paperlib/internal/paper"
	"github.com/paperlib/paperlib/internal/resolve"
)

// Record is a normalized bibliographic record from the authority.
//
// Whichever of Bibcode/ArxivID the authority currently knows is populated.
// A missing or provisional bibcode is the signal that the paper has not yet
// acquired a formal journal publication.
type Record struct {
	Bibcode  string
	ArxivID  string
	Title    string
	Authors  []string // "Last, First" strings, in order
	Journal  string   // raw publication name as reported by the authority
	Year     int
	Abstract string
	Bibtex   string // raw BibTeX entry text
}

// Pending reports whether the authority has no formal publication record
// for this paper yet.
func (r Record) Pending() bool {
	return r.Bibcode == "" || paper.ProvisionalBibcode(r.Bibcode)
}

// Lookup maps an identifier to a bibliographic record.
//
// Implementations return errors from this package's taxonomy: ErrNotFound
// and ErrAuthMissing are terminal for the call, ErrRateLimited and
// ErrTransient are retryable by the caller. Lookup itself never retries.
type Lookup interface {
	Fetch(ctx context.Context, id resolve.Identifier) (*Record, error)
}

// arxivIDFromIdentifiers extracts the arXiv id from an ADS identifier list,
// whose entries look like "arXiv:2106.12420".
func arxivIDFromIdentifiers(identifiers []string) string {
	for _, ident := range identifiers {
		if rest, ok := strings.CutPrefix(ident, "arXiv:"); ok {
			return rest
		}
	}
	return ""
}
