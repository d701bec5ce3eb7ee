package export

import (
	"fmt"
	"regexp"
	"strings"
)

// ParsedEntry is a decoded BibTeX entry, used to verify that exported text
// still carries the stored metadata.
type ParsedEntry struct {
	Type   string
	Key    string
	Fields map[string]string // field names lowercased, brace-stripped values
}

var entryStartPattern = regexp.MustCompile(`@([A-Za-z]+)\s*\{\s*([^,\s]+)\s*,`)

// ParseEntry decodes a single BibTeX entry. Field values may span lines;
// braces inside values are balanced, ADS style.
func ParseEntry(entry string) (*ParsedEntry, error) {
	m := entryStartPattern.FindStringSubmatchIndex(entry)
	if m == nil {
		return nil, fmt.Errorf("no BibTeX entry found")
	}

	parsed := &ParsedEntry{
		Type:   strings.ToLower(entry[m[2]:m[3]]),
		Key:    entry[m[4]:m[5]],
		Fields: make(map[string]string),
	}

	rest := entry[m[1]:]
	for {
		name, value, remaining, ok := nextField(rest)
		if !ok {
			break
		}
		parsed.Fields[strings.ToLower(name)] = value
		rest = remaining
	}
	return parsed, nil
}

var fieldStartPattern = regexp.MustCompile(`([A-Za-z][A-Za-z0-9_-]*)\s*=\s*`)

// nextField scans the next "name = {value}" or "name = "value"" pair,
// tracking brace depth so wrapped multi-line values stay intact.
func nextField(s string) (name, value, rest string, ok bool) {
	m := fieldStartPattern.FindStringSubmatchIndex(s)
	if m == nil {
		return "", "", "", false
	}
	name = s[m[2]:m[3]]
	after := s[m[1]:]
	if after == "" {
		return "", "", "", false
	}

	switch after[0] {
	case '{':
		depth := 0
		for i, r := range after {
			switch r {
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					return name, collapseSpace(after[1:i]), after[i+1:], true
				}
			}
		}
	case '"':
		if end := strings.IndexByte(after[1:], '"'); end >= 0 {
			return name, collapseSpace(after[1 : end+1]), after[end+2:], true
		}
	default:
		// Bare value (numbers): runs to the next comma or closing brace.
		if end := strings.IndexAny(after, ",}\n"); end >= 0 {
			return name, strings.TrimSpace(after[:end]), after[end:], true
		}
	}
	return "", "", "", false
}

// collapseSpace normalizes the whitespace ADS uses to wrap long values.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
