package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/paperlib/paperlib/internal/ads"
	"github.com/paperlib/paperlib/internal/paper"
)

// InsertNew adds a paper from an authority record. The row is keyed by the
// bibcode when present, otherwise by the arXiv id; the citation keyword
// defaults to the same identifier and the reconciliation clock is unset.
func (s *Store) InsertNew(rec ads.Record, now time.Time) (*paper.Paper, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.paperFromRecord(rec, now)
	if err != nil {
		return nil, err
	}

	err = s.withTx(func(tx *sql.Tx) error {
		var existing string
		err := tx.QueryRow(
			`SELECT id FROM papers WHERE id = ? OR bibcode = ? OR arxiv_id = ?`,
			p.ID(), p.Bibcode, p.ArxivID,
		).Scan(&existing)
		if err == nil {
			return fmt.Errorf("%s: %w", existing, ErrDuplicatePaper)
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("checking duplicates: %w", err)
		}
		return insertPaper(tx, p)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// paperFromRecord builds a fresh Paper row from an authority record.
func (s *Store) paperFromRecord(rec ads.Record, now time.Time) (*paper.Paper, error) {
	if rec.Bibcode == "" && rec.ArxivID == "" {
		return nil, fmt.Errorf("record carries no identifier")
	}
	p := &paper.Paper{
		Bibcode:         rec.Bibcode,
		ArxivID:         rec.ArxivID,
		Title:           rec.Title,
		Authors:         rec.Authors,
		Year:            rec.Year,
		Abstract:        rec.Abstract,
		Bibtex:          rec.Bibtex,
		CitationKeyword: paper.DefaultKeyword(rec.Bibcode, rec.ArxivID),
		Pending:         rec.Pending(),
		AddedAt:         now.UTC(),
	}
	if !p.Pending {
		p.Journal = s.journals.Code(rec.Journal)
	}
	return p, nil
}

func insertPaper(tx *sql.Tx, p *paper.Paper) error {
	authorsJSON, err := json.Marshal(p.Authors)
	if err != nil {
		return fmt.Errorf("encoding authors: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO papers (
			id, bibcode, arxiv_id, title, authors_json, journal, year,
			abstract, bibtex, citation_keyword, notes, local_pdf_path,
			pending, added_at, last_check
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID(), nullable(p.Bibcode), nullable(p.ArxivID), p.Title,
		string(authorsJSON), nullable(p.Journal), p.Year,
		nullable(p.Abstract), nullable(p.Bibtex), p.CitationKeyword,
		p.Notes, nullable(p.LocalPDFPath), boolInt(p.Pending),
		p.AddedAt.UTC().Format(timeFormat), nullableTime(p.LastCheck),
	)
	if isUniqueViolation(err, "papers.citation_keyword") {
		return fmt.Errorf("%q: %w", p.CitationKeyword, ErrDuplicateKeyword)
	}
	if err != nil {
		return fmt.Errorf("inserting paper %s: %w", p.ID(), err)
	}
	return nil
}

// Get looks up a paper by row id, bibcode, arXiv id, or citation keyword.
func (s *Store) Get(ref string) (*paper.Paper, error) {
	row := s.db.QueryRow(`SELECT `+paperFields+` FROM papers
		WHERE id = ? OR bibcode = ? OR arxiv_id = ? OR citation_keyword = ?`,
		ref, ref, ref, ref)
	p, err := scanPaper(row)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%s: %w", ref, ErrNotFound)
	}
	return p, nil
}

// Count returns the number of papers in the library.
func (s *Store) Count() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM papers`).Scan(&n)
	return n, err
}

// PendingPapers returns all papers awaiting a formal publication record,
// in row id order.
func (s *Store) PendingPapers() ([]paper.Paper, error) {
	rows, err := s.db.Query(`SELECT ` + paperFields + ` FROM papers WHERE pending = 1 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing pending papers: %w", err)
	}
	defer rows.Close()
	return scanPapers(rows)
}

// SetCitationKeyword changes a paper's citation keyword. An empty keyword
// resets to the default (bibcode, or arXiv id when no bibcode is known).
func (s *Store) SetCitationKeyword(ref, keyword string) (*paper.Paper, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.Get(ref)
	if err != nil {
		return nil, err
	}

	if keyword == "" {
		keyword = paper.DefaultKeyword(p.Bibcode, p.ArxivID)
	}
	if !paper.ValidKeyword(keyword) {
		return nil, fmt.Errorf("%q: %w", keyword, ErrInvalidKeyword)
	}

	err = s.withTx(func(tx *sql.Tx) error {
		var other string
		err := tx.QueryRow(`SELECT id FROM papers WHERE citation_keyword = ? AND id != ?`,
			keyword, p.ID()).Scan(&other)
		if err == nil {
			return fmt.Errorf("%q held by %s: %w", keyword, other, ErrDuplicateKeyword)
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("checking keyword: %w", err)
		}
		_, err = tx.Exec(`UPDATE papers SET citation_keyword = ? WHERE id = ?`, keyword, p.ID())
		return err
	})
	if err != nil {
		return nil, err
	}
	p.CitationKeyword = keyword
	return p, nil
}

// SetNotes replaces a paper's notes.
func (s *Store) SetNotes(ref, notes string) error {
	return s.updateField(ref, `notes`, notes)
}

// SetLocalPDF records the path of a locally saved PDF.
func (s *Store) SetLocalPDF(ref, path string) error {
	return s.updateField(ref, `local_pdf_path`, path)
}

func (s *Store) updateField(ref, column, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.Get(ref)
	if err != nil {
		return err
	}
	return s.withTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`UPDATE papers SET `+column+` = ? WHERE id = ?`, value, p.ID())
		return err
	})
}

// TouchReconciled records that a paper was checked against the authority,
// leaving every other field untouched. Failed lookups also pass through
// here so the throttle window applies to them.
func (s *Store) TouchReconciled(ref string, t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.Get(ref)
	if err != nil {
		return err
	}
	return s.withTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`UPDATE papers SET last_check = ? WHERE id = ?`,
			t.UTC().Format(timeFormat), p.ID())
		return err
	})
}

// DeletePaper removes a paper and its tag associations. Irreversible.
func (s *Store) DeletePaper(ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.Get(ref)
	if err != nil {
		return err
	}
	return s.withTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM paper_tags WHERE paper_id = ?`, p.ID()); err != nil {
			return fmt.Errorf("removing tag associations: %w", err)
		}
		if _, err := tx.Exec(`DELETE FROM papers WHERE id = ?`, p.ID()); err != nil {
			return fmt.Errorf("removing paper: %w", err)
		}
		return nil
	})
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
