package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paperlib/paperlib/internal/paper"
)

const adsEntry = `@ARTICLE{2021MNRAS.508.5935B,
       author = {{Bellazzini}, M. and {Magrini}, L.},
        title = "{The Smallest Scale of Hierarchy Survey}",
      journal = {\mnras},
     keywords = {galaxies: dwarf, Astrophysics - Astrophysics of Galaxies},
         year = 2021,
       volume = {508},
        pages = {5935-5952},
          doi = {10.1093/mnras/stab2838},
       adsurl = {https://ui.adsabs.harvard.edu/abs/2021MNRAS.508.5935B},
      adsnote = {Provided by the SAO/NASA Astrophysics Data System}
}
`

func TestEntryRewritesOnlyKey(t *testing.T) {
	p := paper.Paper{
		Bibcode:         "2021MNRAS.508.5935B",
		CitationKeyword: "bellazzini2021",
		Bibtex:          adsEntry,
	}

	got := Entry(p)
	if !strings.HasPrefix(got, "@ARTICLE{bellazzini2021,") {
		t.Errorf("key not rewritten: %q", strings.SplitN(got, "\n", 2)[0])
	}

	// Every byte below the key line is untouched.
	wantBody := strings.SplitN(adsEntry, "\n", 2)[1]
	gotBody := strings.SplitN(got, "\n", 2)[1]
	if gotBody != wantBody {
		t.Errorf("entry body changed:\ngot:  %q\nwant: %q", gotBody, wantBody)
	}
}

func TestEntryDefaultKeyword(t *testing.T) {
	p := paper.Paper{
		Bibcode:         "2021MNRAS.508.5935B",
		CitationKeyword: "2021MNRAS.508.5935B",
		Bibtex:          adsEntry,
	}
	if got := Entry(p); got != adsEntry {
		t.Errorf("default keyword export differs from stored entry")
	}
}

func TestEntryTrailingNewline(t *testing.T) {
	p := paper.Paper{CitationKeyword: "k", Bibtex: "@ARTICLE{x,\n year = 2021\n}"}
	got := Entry(p)
	if !strings.HasSuffix(got, "}\n") || strings.HasSuffix(got, "}\n\n") {
		t.Errorf("entry should end in exactly one newline: %q", got)
	}

	if got := Entry(paper.Paper{CitationKeyword: "k"}); got != "" {
		t.Errorf("paper without stored BibTeX exported %q", got)
	}
}

func TestEntries(t *testing.T) {
	papers := []paper.Paper{
		{CitationKeyword: "a", Bibtex: "@ARTICLE{x,\n year = 2021\n}\n"},
		{CitationKeyword: "b"}, // nothing stored, skipped
		{CitationKeyword: "c", Bibtex: "@ARTICLE{y,\n year = 2022\n}\n"},
	}

	got := Entries(papers)
	if strings.Count(got, "@ARTICLE") != 2 {
		t.Errorf("Entries = %q", got)
	}
	if !strings.Contains(got, "}\n\n@ARTICLE{c,") {
		t.Errorf("entries not blank-line separated: %q", got)
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.bib")
	papers := []paper.Paper{{CitationKeyword: "bellazzini2021", Bibtex: adsEntry}}

	if err := WriteFile(path, papers); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.HasPrefix(string(data), "@ARTICLE{bellazzini2021,") {
		t.Errorf("file contents = %q", data)
	}
}

func TestParseEntryRoundTrip(t *testing.T) {
	p := paper.Paper{CitationKeyword: "bellazzini2021", Bibtex: adsEntry}

	parsed, err := ParseEntry(Entry(p))
	if err != nil {
		t.Fatalf("ParseEntry: %v", err)
	}
	if parsed.Type != "article" {
		t.Errorf("type = %q", parsed.Type)
	}
	if parsed.Key != "bellazzini2021" {
		t.Errorf("key = %q", parsed.Key)
	}
	if got := parsed.Fields["title"]; got != "{The Smallest Scale of Hierarchy Survey}" {
		t.Errorf("title = %q", got)
	}
	if got := parsed.Fields["year"]; got != "2021" {
		t.Errorf("year = %q", got)
	}
	if got := parsed.Fields["author"]; got != "{Bellazzini}, M. and {Magrini}, L." {
		t.Errorf("author = %q", got)
	}
	if got := parsed.Fields["doi"]; got != "10.1093/mnras/stab2838" {
		t.Errorf("doi = %q", got)
	}
}

func TestParseEntryMultilineValue(t *testing.T) {
	entry := "@ARTICLE{x,\n title = \"{A Title\n   Wrapped Across Lines}\",\n year = 2020\n}\n"
	parsed, err := ParseEntry(entry)
	if err != nil {
		t.Fatalf("ParseEntry: %v", err)
	}
	if got := parsed.Fields["title"]; got != "{A Title Wrapped Across Lines}" {
		t.Errorf("title = %q", got)
	}
}

func TestParseEntryNoEntry(t *testing.T) {
	if _, err := ParseEntry("plain text"); err == nil {
		t.Error("ParseEntry accepted non-BibTeX input")
	}
}
