// Package resolve classifies user-supplied paper references.
//
// A reference can be an ADS bibcode, an ADS abstract-page URL, an arXiv
// abstract or PDF URL, or a bare arXiv id. Resolution is pure string work;
// no network access happens here.
package resolve

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// ErrInvalidReference is returned when the input matches none of the
// recognized reference shapes.
var ErrInvalidReference = errors.New("unrecognized paper reference")

// Kind is the class of a resolved identifier.
type Kind int

const (
	// KindBibcode is a 19-character ADS bibcode.
	KindBibcode Kind = iota
	// KindArxiv is an arXiv identifier (new or old form), version stripped.
	KindArxiv
)

// String returns the kind name for logs and JSON output.
func (k Kind) String() string {
	if k == KindBibcode {
		return "bibcode"
	}
	return "arxiv"
}

// Identifier is a canonical reference to one logical paper.
type Identifier struct {
	Kind  Kind
	Value string
}

func (id Identifier) String() string {
	return id.Value
}

var (
	// Bibcodes are exactly 19 characters: YYYYJJJJJVVVVMPPPPA.
	// The journal code may contain '&' (e.g. A&A).
	bibcodePattern = regexp.MustCompile(`^[12]\d{3}[A-Za-z&.][A-Za-z0-9&.]{13}[A-Z.]$`)

	// New-form arXiv ids: YYMM.NNNN or YYMM.NNNNN, optional version.
	arxivNewPattern = regexp.MustCompile(`^(\d{4}\.\d{4,5})(v\d+)?$`)

	// Old-form arXiv ids: archive[.SC]/YYMMNNN, optional version.
	arxivOldPattern = regexp.MustCompile(`^([a-z-]+(?:\.[A-Z]{2})?/\d{7})(v\d+)?$`)
)

// Resolve turns a user-supplied reference string into an Identifier.
// All URL and bare forms of the same paper normalize to the same value;
// a bibcode is preferred when one is derivable without network access.
func Resolve(input string) (Identifier, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return Identifier{}, fmt.Errorf("empty input: %w", ErrInvalidReference)
	}

	if strings.Contains(s, "ui.adsabs.harvard.edu") {
		return resolveADSURL(s)
	}
	if strings.Contains(s, "arxiv.org") {
		return resolveArxivURL(s)
	}

	// Bare identifiers. "arXiv:" prefixes are common in citations.
	if rest, ok := cutPrefixFold(s, "arxiv:"); ok {
		s = rest
	}
	if bibcodePattern.MatchString(s) {
		return Identifier{Kind: KindBibcode, Value: s}, nil
	}
	if id, ok := arxivID(s); ok {
		return Identifier{Kind: KindArxiv, Value: id}, nil
	}

	return Identifier{}, fmt.Errorf("%q: %w", input, ErrInvalidReference)
}

// resolveADSURL extracts the bibcode from an ADS abstract-page URL.
// The bibcode is always the path segment after "abs", possibly URL-escaped
// (A&A bibcodes contain '%26').
func resolveADSURL(s string) (Identifier, error) {
	segments := strings.Split(s, "/")
	for i, seg := range segments {
		if seg != "abs" || i+1 >= len(segments) {
			continue
		}
		raw := segments[i+1]
		bibcode, err := url.PathUnescape(raw)
		if err != nil {
			bibcode = raw
		}
		if bibcodePattern.MatchString(bibcode) {
			return Identifier{Kind: KindBibcode, Value: bibcode}, nil
		}
	}
	return Identifier{}, fmt.Errorf("no bibcode in ADS URL %q: %w", s, ErrInvalidReference)
}

// resolveArxivURL extracts the arXiv id from an abstract or PDF URL.
func resolveArxivURL(s string) (Identifier, error) {
	for _, marker := range []string{"/abs/", "/pdf/"} {
		idx := strings.Index(s, marker)
		if idx < 0 {
			continue
		}
		rest := s[idx+len(marker):]
		if q := strings.IndexAny(rest, "?#"); q >= 0 {
			rest = rest[:q]
		}
		rest = strings.TrimSuffix(rest, ".pdf")
		rest = strings.TrimSuffix(rest, "/")
		if id, ok := arxivID(rest); ok {
			return Identifier{Kind: KindArxiv, Value: id}, nil
		}
	}
	return Identifier{}, fmt.Errorf("no arXiv id in URL %q: %w", s, ErrInvalidReference)
}

// arxivID validates s as an arXiv id and strips any version suffix, so all
// versions of a preprint normalize to the same identifier.
func arxivID(s string) (string, bool) {
	if m := arxivNewPattern.FindStringSubmatch(s); m != nil {
		return m[1], true
	}
	if m := arxivOldPattern.FindStringSubmatch(s); m != nil {
		return m[1], true
	}
	return "", false
}

// cutPrefixFold is strings.CutPrefix with ASCII case folding.
func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):], true
	}
	return s, false
}
