package paper

import "testing"

func TestID(t *testing.T) {
	tests := []struct {
		name string
		p    Paper
		want string
	}{
		{"bibcode wins", Paper{Bibcode: "2021MNRAS.508.5935B", ArxivID: "2106.12420"}, "2021MNRAS.508.5935B"},
		{"arxiv fallback", Paper{ArxivID: "2106.12420"}, "2106.12420"},
		{"empty", Paper{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.ID(); got != tt.want {
				t.Errorf("ID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProvisionalBibcode(t *testing.T) {
	tests := []struct {
		bibcode string
		want    bool
	}{
		{"2021arXiv210612420B", true},
		{"2021MNRAS.508.5935B", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ProvisionalBibcode(tt.bibcode); got != tt.want {
			t.Errorf("ProvisionalBibcode(%q) = %v, want %v", tt.bibcode, got, tt.want)
		}
	}
}

func TestFirstAuthor(t *testing.T) {
	p := Paper{Authors: []string{"Bellazzini, M.", "Magrini, L."}}
	if got := p.FirstAuthor(); got != "Bellazzini, M." {
		t.Errorf("FirstAuthor() = %q", got)
	}
	if got := (Paper{}).FirstAuthor(); got != "" {
		t.Errorf("FirstAuthor() on empty = %q", got)
	}
}

func TestValidSortKey(t *testing.T) {
	for _, k := range []SortKey{SortTitle, SortAuthor, SortYear, SortAdded} {
		if !ValidSortKey(k) {
			t.Errorf("ValidSortKey(%q) = false", k)
		}
	}
	if ValidSortKey("bibcode") {
		t.Error("ValidSortKey(\"bibcode\") = true")
	}
}

func TestDefaultKeyword(t *testing.T) {
	if got := DefaultKeyword("2021MNRAS.508.5935B", "2106.12420"); got != "2021MNRAS.508.5935B" {
		t.Errorf("DefaultKeyword = %q", got)
	}
	if got := DefaultKeyword("", "2106.12420"); got != "2106.12420" {
		t.Errorf("DefaultKeyword = %q", got)
	}
}

func TestValidKeyword(t *testing.T) {
	tests := []struct {
		keyword string
		want    bool
	}{
		{"2021MNRAS.508.5935B", true},
		{"2106.12420", true},
		{"astro-ph/9901231", true},
		{"smith2021_dwarfs", true},
		{"2019A&A...625A..77F", true},
		{"", false},
		{"has space", false},
		{"has,comma", false},
		{"{braced}", false},
		{"-leading", false},
	}
	for _, tt := range tests {
		if got := ValidKeyword(tt.keyword); got != tt.want {
			t.Errorf("ValidKeyword(%q) = %v, want %v", tt.keyword, got, tt.want)
		}
	}
}

func TestHasDefaultKeyword(t *testing.T) {
	tests := []struct {
		name string
		p    Paper
		want bool
	}{
		{
			name: "empty keyword",
			p:    Paper{Bibcode: "2021MNRAS.508.5935B"},
			want: true,
		},
		{
			name: "keyword is bibcode",
			p:    Paper{Bibcode: "2021MNRAS.508.5935B", CitationKeyword: "2021MNRAS.508.5935B"},
			want: true,
		},
		{
			name: "keyword is stale arxiv id",
			p: Paper{
				Bibcode:         "2021MNRAS.508.5935B",
				ArxivID:         "2106.12420",
				CitationKeyword: "2106.12420",
			},
			want: true,
		},
		{
			name: "custom keyword",
			p: Paper{
				Bibcode:         "2021MNRAS.508.5935B",
				CitationKeyword: "bellazzini2021",
			},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasDefaultKeyword(tt.p); got != tt.want {
				t.Errorf("HasDefaultKeyword() = %v, want %v", got, tt.want)
			}
		})
	}
}
