package paper

import "regexp"

// keywordPattern matches citation keywords that are safe inside a BibTeX
// entry key: no whitespace, commas, braces, or leading punctuation.
var keywordPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9:.&_+/-]*$`)

// DefaultKeyword returns the default citation keyword for a paper with the
// given identifiers: the bibcode when present, otherwise the arXiv id.
func DefaultKeyword(bibcode, arxivID string) string {
	if bibcode != "" {
		return bibcode
	}
	return arxivID
}

// ValidKeyword reports whether s can be used as a citation keyword.
func ValidKeyword(s string) bool {
	return keywordPattern.MatchString(s)
}

// HasDefaultKeyword reports whether the paper's citation keyword is still a
// default value rather than a user-chosen one. Any of the paper's current
// identifiers counts as a default, so keywords left at the old arXiv id are
// re-defaulted when a paper is promoted to a journal bibcode.
func HasDefaultKeyword(p Paper) bool {
	switch p.CitationKeyword {
	case "":
		return true
	case p.Bibcode, p.ArxivID:
		return true
	}
	return false
}
