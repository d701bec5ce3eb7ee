package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/paperlib/paperlib/internal/ads"
	"github.com/paperlib/paperlib/internal/paper"
)

// ApplyRecord merges a fresh authority record into the stored paper.
//
// Authoritative fields (title, authors, journal, year, abstract, bibtex)
// are overwritten from the record. User-owned fields (notes, PDF path, tag
// associations, a custom citation keyword) are preserved unconditionally; a
// keyword still at its default tracks the paper's new identity instead.
//
// When the record carries a bibcode distinct from the current row id the
// paper is re-keyed inside the same transaction: the old row is deleted,
// the merged row inserted under the new id, and tag associations moved. If
// another paper already holds the new bibcode the merge is rejected with a
// ConflictError and nothing changes.
func (s *Store) ApplyRecord(ref string, rec ads.Record, now time.Time) (*paper.Paper, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.Get(ref)
	if err != nil {
		return nil, err
	}

	merged := mergeRecord(*cur, rec, now)
	if !merged.Pending {
		merged.Journal = s.journals.Code(rec.Journal)
	}

	err = s.withTx(func(tx *sql.Tx) error {
		if merged.ID() != cur.ID() {
			return s.rekey(tx, cur.ID(), &merged)
		}
		return updatePaper(tx, cur.ID(), &merged)
	})
	if err != nil {
		return nil, err
	}
	return &merged, nil
}

// mergeRecord computes the merged paper value. Pure; persistence and
// conflict checks happen in ApplyRecord.
func mergeRecord(cur paper.Paper, rec ads.Record, now time.Time) paper.Paper {
	wasDefault := paper.HasDefaultKeyword(cur)

	next := cur
	next.Bibcode = rec.Bibcode
	next.Title = rec.Title
	next.Authors = rec.Authors
	next.Year = rec.Year
	next.Abstract = rec.Abstract
	next.Bibtex = rec.Bibtex
	next.Journal = ""
	next.Pending = rec.Pending()
	next.LastCheck = now.UTC()

	// The arXiv id never disappears once known, even if the authority
	// stops reporting it after publication.
	if rec.ArxivID != "" {
		next.ArxivID = rec.ArxivID
	}

	if wasDefault {
		next.CitationKeyword = paper.DefaultKeyword(next.Bibcode, next.ArxivID)
	}
	return next
}

// rekey moves a paper to a new row id: conflict check, delete old row,
// insert merged row, move tag associations. All inside the caller's
// transaction so readers never see an intermediate state.
func (s *Store) rekey(tx *sql.Tx, oldID string, merged *paper.Paper) error {
	var existing string
	err := tx.QueryRow(`SELECT id FROM papers WHERE (id = ? OR bibcode = ?) AND id != ?`,
		merged.ID(), merged.Bibcode, oldID).Scan(&existing)
	if err == nil {
		return &ConflictError{PaperID: oldID, ExistingID: existing, Bibcode: merged.Bibcode}
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("checking bibcode conflict: %w", err)
	}

	// Delete first: the merged row reuses the old row's arXiv id, which is
	// declared UNIQUE.
	if _, err := tx.Exec(`DELETE FROM papers WHERE id = ?`, oldID); err != nil {
		return fmt.Errorf("removing old row %s: %w", oldID, err)
	}
	if err := insertPaper(tx, merged); err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE paper_tags SET paper_id = ? WHERE paper_id = ?`,
		merged.ID(), oldID); err != nil {
		return fmt.Errorf("moving tag associations: %w", err)
	}
	return nil
}

// updatePaper rewrites a paper's row in place, keeping the row id.
func updatePaper(tx *sql.Tx, id string, p *paper.Paper) error {
	authorsJSON, err := json.Marshal(p.Authors)
	if err != nil {
		return fmt.Errorf("encoding authors: %w", err)
	}

	_, err = tx.Exec(`
		UPDATE papers SET
			bibcode = ?, arxiv_id = ?, title = ?, authors_json = ?,
			journal = ?, year = ?, abstract = ?, bibtex = ?,
			citation_keyword = ?, pending = ?, last_check = ?
		WHERE id = ?`,
		nullable(p.Bibcode), nullable(p.ArxivID), p.Title, string(authorsJSON),
		nullable(p.Journal), p.Year, nullable(p.Abstract), nullable(p.Bibtex),
		p.CitationKeyword, boolInt(p.Pending), nullableTime(p.LastCheck),
		id,
	)
	if isUniqueViolation(err, "papers.citation_keyword") {
		return fmt.Errorf("%q: %w", p.CitationKeyword, ErrDuplicateKeyword)
	}
	if err != nil {
		return fmt.Errorf("updating paper %s: %w", id, err)
	}
	return nil
}
