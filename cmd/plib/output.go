package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/paperlib/paperlib/internal/paper"
)

const (
	// ListTitleMaxLen truncates titles in list output.
	ListTitleMaxLen = 70
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitWithError outputs an error in the appropriate format and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Paper  string `json:"paper,omitempty"`
	Path   string `json:"path,omitempty"`
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// formatAuthorsShort formats "Last, First" authors with "et al." past maxCount.
func formatAuthorsShort(authors []string, maxCount int) string {
	if len(authors) == 0 {
		return ""
	}
	var names []string
	for i, a := range authors {
		if i >= maxCount {
			names = append(names, "et al.")
			break
		}
		if last, _, ok := strings.Cut(a, ","); ok {
			names = append(names, strings.TrimSpace(last))
		} else {
			names = append(names, a)
		}
	}
	return strings.Join(names, ", ")
}

// paperSummary is the JSON shape for one paper in command output.
type paperSummary struct {
	ID              string   `json:"id"`
	Bibcode         string   `json:"bibcode,omitempty"`
	ArxivID         string   `json:"arxiv_id,omitempty"`
	Title           string   `json:"title"`
	Authors         []string `json:"authors"`
	Journal         string   `json:"journal,omitempty"`
	Year            int      `json:"year"`
	CitationKeyword string   `json:"citation_keyword"`
	Pending         bool     `json:"pending"`
	Tags            []string `json:"tags,omitempty"`
	Notes           string   `json:"notes,omitempty"`
	LocalPDFPath    string   `json:"local_pdf_path,omitempty"`
}

func summarize(p paper.Paper, tags []string) paperSummary {
	return paperSummary{
		ID:              p.ID(),
		Bibcode:         p.Bibcode,
		ArxivID:         p.ArxivID,
		Title:           p.Title,
		Authors:         p.Authors,
		Journal:         p.Journal,
		Year:            p.Year,
		CitationKeyword: p.CitationKeyword,
		Pending:         p.Pending,
		Tags:            tags,
		Notes:           p.Notes,
		LocalPDFPath:    p.LocalPDFPath,
	}
}

// printPaperHuman prints one paper in human-readable detail.
func printPaperHuman(p paper.Paper, tags []string, journalName string) {
	fmt.Printf("%s\n", p.Title)
	fmt.Printf("  %s (%d)\n", formatAuthorsShort(p.Authors, 5), p.Year)
	if journalName != "" {
		fmt.Printf("  %s\n", journalName)
	}
	fmt.Printf("  key: %s\n", p.CitationKeyword)
	if p.Bibcode != "" {
		fmt.Printf("  bibcode: %s\n", p.Bibcode)
	}
	if p.ArxivID != "" {
		fmt.Printf("  arXiv: %s\n", p.ArxivID)
	}
	if p.Pending {
		fmt.Printf("  status: awaiting journal publication\n")
	}
	if len(tags) > 0 {
		fmt.Printf("  tags: %s\n", strings.Join(tags, ", "))
	}
	if p.LocalPDFPath != "" {
		fmt.Printf("  pdf: %s\n", p.LocalPDFPath)
	}
	if p.Notes != "" {
		fmt.Printf("  notes: %s\n", p.Notes)
	}
}
