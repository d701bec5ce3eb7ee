// Package pdfget downloads paper PDFs, preferring the publisher copy and
// falling back to the arXiv-hosted one.
package pdfget

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/paperlib/paperlib/internal/paper"
)

const (
	// DefaultTimeout bounds one download attempt.
	DefaultTimeout = 60 * time.Second

	// PublisherGateway resolves a bibcode to the publisher-hosted PDF.
	PublisherGateway = "https://ui.adsabs.harvard.edu/link_gateway/%s/PUB_PDF"

	// ArxivPDF is the arXiv-hosted PDF URL for an arXiv id.
	ArxivPDF = "https://arxiv.org/pdf/%s"
)

// ErrNoPDF indicates every download source failed or returned non-PDF data.
var ErrNoPDF = errors.New("no downloadable PDF found")

// Fetcher downloads and validates PDFs.
type Fetcher struct {
	httpClient *http.Client
	gatewayURL string
	arxivURL   string
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.httpClient = hc
	}
}

// WithURLs overrides the download URL templates (for testing).
func WithURLs(gateway, arxiv string) FetcherOption {
	return func(f *Fetcher) {
		f.gatewayURL = gateway
		f.arxivURL = arxiv
	}
}

// NewFetcher creates a Fetcher.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		gatewayURL: PublisherGateway,
		arxivURL:   ArxivPDF,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads the paper's PDF into dir and returns the saved path.
// The publisher copy is tried first when a bibcode exists; the arXiv copy
// is the fallback. Downloads that are not parseable PDFs are discarded.
func (f *Fetcher) Fetch(ctx context.Context, p paper.Paper, dir string) (string, error) {
	var urls []string
	if p.Bibcode != "" && !paper.ProvisionalBibcode(p.Bibcode) {
		urls = append(urls, fmt.Sprintf(f.gatewayURL, p.Bibcode))
	}
	if p.ArxivID != "" {
		urls = append(urls, fmt.Sprintf(f.arxivURL, p.ArxivID))
	}
	if len(urls) == 0 {
		return "", fmt.Errorf("paper has no identifiers: %w", ErrNoPDF)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating PDF directory: %w", err)
	}
	dest := filepath.Join(dir, Filename(p))

	var lastErr error
	for _, u := range urls {
		if err := f.download(ctx, u, dest); err != nil {
			lastErr = err
			continue
		}
		return dest, nil
	}
	return "", fmt.Errorf("%w: %v", ErrNoPDF, lastErr)
}

// download saves one URL to dest, keeping the file only if it validates.
func (f *Fetcher) download(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching %s: status %d", url, resp.StatusCode)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".download-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("saving %s: %w", url, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := Validate(tmpName); err != nil {
		return fmt.Errorf("%s: %w", url, err)
	}
	return os.Rename(tmpName, dest)
}

// Validate checks that the file at path is a readable PDF with at least
// one page. Publisher gateways sometimes return HTML paywalls with a 200.
func Validate(path string) error {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return fmt.Errorf("not a PDF: %w", err)
	}
	defer file.Close()

	if reader.NumPage() < 1 {
		return fmt.Errorf("PDF has no pages")
	}
	return nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._&-]+`)

// Filename returns the local file name for a paper's PDF, derived from its
// citation keyword.
func Filename(p paper.Paper) string {
	name := p.CitationKeyword
	if name == "" {
		name = p.ID()
	}
	return unsafeFilenameChars.ReplaceAllString(name, "_") + ".pdf"
}
