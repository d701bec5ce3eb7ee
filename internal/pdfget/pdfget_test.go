package pdfget

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/paperlib/paperlib/internal/paper"
)

// minimalPDF builds a one-page PDF with a correct xref table.
func minimalPDF() []byte {
	var buf bytes.Buffer
	var offsets []int

	buf.WriteString("%PDF-1.4\n")
	objects := []string{
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n",
		"2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n",
		"3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> >>\nendobj\n",
	}
	for _, obj := range objects {
		offsets = append(offsets, buf.Len())
		buf.WriteString(obj)
	}

	xrefStart := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(objects)+1, xrefStart)
	return buf.Bytes()
}

// sourceServer fakes the publisher gateway and arXiv, recording hits.
type sourceServer struct {
	*httptest.Server

	mu   sync.Mutex
	hits []string

	gatewayBody []byte // nil = 404
	arxivBody   []byte
}

func newSourceServer(t *testing.T) *sourceServer {
	t.Helper()
	s := &sourceServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits = append(s.hits, r.URL.Path)
		s.mu.Unlock()

		var body []byte
		switch {
		case len(r.URL.Path) > len("/gateway/") && r.URL.Path[:9] == "/gateway/":
			body = s.gatewayBody
		default:
			body = s.arxivBody
		}
		if body == nil {
			http.NotFound(w, r)
			return
		}
		w.Write(body)
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *sourceServer) fetcher() *Fetcher {
	return NewFetcher(WithURLs(s.URL+"/gateway/%s", s.URL+"/pdf/%s"))
}

func (s *sourceServer) paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.hits...)
}

func TestFetchPublisherFirst(t *testing.T) {
	srv := newSourceServer(t)
	srv.gatewayBody = minimalPDF()

	p := paper.Paper{
		Bibcode:         "2021MNRAS.508.5935B",
		ArxivID:         "2106.12420",
		CitationKeyword: "bellazzini2021",
	}
	dest, err := srv.fetcher().Fetch(context.Background(), p, t.TempDir())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if filepath.Base(dest) != "bellazzini2021.pdf" {
		t.Errorf("saved as %q", dest)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Errorf("saved file: %v", err)
	}

	hits := srv.paths()
	if len(hits) != 1 || hits[0] != "/gateway/2021MNRAS.508.5935B/PUB_PDF" {
		t.Errorf("requests = %v", hits)
	}
}

func TestFetchFallsBackToArxiv(t *testing.T) {
	srv := newSourceServer(t)
	srv.gatewayBody = []byte("<html>Subscribe to read this article</html>")
	srv.arxivBody = minimalPDF()

	p := paper.Paper{
		Bibcode:         "2021MNRAS.508.5935B",
		ArxivID:         "2106.12420",
		CitationKeyword: "bellazzini2021",
	}
	dest, err := srv.fetcher().Fetch(context.Background(), p, t.TempDir())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if err := Validate(dest); err != nil {
		t.Errorf("saved file invalid: %v", err)
	}

	hits := srv.paths()
	if len(hits) != 2 || hits[1] != "/pdf/2106.12420" {
		t.Errorf("requests = %v", hits)
	}
}

func TestFetchProvisionalBibcodeSkipsGateway(t *testing.T) {
	srv := newSourceServer(t)
	srv.arxivBody = minimalPDF()

	p := paper.Paper{
		Bibcode: "2021arXiv210612420B",
		ArxivID: "2106.12420",
	}
	if _, err := srv.fetcher().Fetch(context.Background(), p, t.TempDir()); err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	hits := srv.paths()
	if len(hits) != 1 || hits[0] != "/pdf/2106.12420" {
		t.Errorf("requests = %v", hits)
	}
}

func TestFetchRejectsNonPDF(t *testing.T) {
	srv := newSourceServer(t)
	srv.gatewayBody = []byte("<html>paywall</html>")
	srv.arxivBody = []byte("<html>captcha</html>")

	p := paper.Paper{Bibcode: "2021MNRAS.508.5935B", ArxivID: "2106.12420"}
	dir := t.TempDir()
	if _, err := srv.fetcher().Fetch(context.Background(), p, dir); !errors.Is(err, ErrNoPDF) {
		t.Fatalf("err = %v, want ErrNoPDF", err)
	}

	// Rejected downloads leave no file behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("directory not clean: %v", entries)
	}
}

func TestFetchNoIdentifiers(t *testing.T) {
	srv := newSourceServer(t)
	if _, err := srv.fetcher().Fetch(context.Background(), paper.Paper{}, t.TempDir()); !errors.Is(err, ErrNoPDF) {
		t.Errorf("err = %v, want ErrNoPDF", err)
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.pdf")
	if err := os.WriteFile(good, minimalPDF(), 0644); err != nil {
		t.Fatalf("writing file: %v", err)
	}
	if err := Validate(good); err != nil {
		t.Errorf("Validate(good): %v", err)
	}

	bad := filepath.Join(dir, "bad.pdf")
	if err := os.WriteFile(bad, []byte("<html>not a pdf</html>"), 0644); err != nil {
		t.Fatalf("writing file: %v", err)
	}
	if err := Validate(bad); err == nil {
		t.Error("Validate accepted an HTML file")
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		name string
		p    paper.Paper
		want string
	}{
		{
			name: "keyword",
			p:    paper.Paper{CitationKeyword: "bellazzini2021"},
			want: "bellazzini2021.pdf",
		},
		{
			name: "unsafe characters replaced",
			p:    paper.Paper{CitationKeyword: "astro-ph/9901231"},
			want: "astro-ph_9901231.pdf",
		},
		{
			name: "falls back to id",
			p:    paper.Paper{ArxivID: "2106.12420"},
			want: "2106.12420.pdf",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Filename(tt.p); got != tt.want {
				t.Errorf("Filename = %q, want %q", got, tt.want)
			}
		})
	}
}
