// Package store persists the paper library in SQLite.
//
// The store is the single mutation gate: every write happens inside one
// transaction behind one mutex, so readers never observe a half-applied
// merge and uniqueness invariants are checked in exactly one place.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/paperlib/paperlib/internal/journal"
	"github.com/paperlib/paperlib/internal/paper"
)

// Errors returned by store operations.
var (
	// ErrDuplicatePaper indicates a paper with the same bibcode (or, for a
	// bibcode-less record, the same arXiv id) is already in the library.
	ErrDuplicatePaper = errors.New("paper already in library")

	// ErrDuplicateKeyword indicates a citation keyword collision.
	ErrDuplicateKeyword = errors.New("citation keyword already in use")

	// ErrInvalidKeyword indicates a keyword that cannot appear in a BibTeX key.
	ErrInvalidKeyword = errors.New("invalid citation keyword")

	// ErrNotFound indicates the paper is not in the library.
	ErrNotFound = errors.New("paper not found in library")

	// ErrTagNotFound indicates the named tag does not exist.
	ErrTagNotFound = errors.New("tag not found")

	// ErrMergeConflict indicates two distinct papers resolved to the same
	// bibcode. Resolution is a user decision; neither paper is touched.
	ErrMergeConflict = errors.New("papers resolve to the same bibcode")
)

// ConflictError carries the identities involved in a merge conflict.
type ConflictError struct {
	PaperID    string // the paper whose merge was rejected
	ExistingID string // the paper already holding the bibcode
	Bibcode    string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("papers %s and %s resolve to bibcode %s", e.PaperID, e.ExistingID, e.Bibcode)
}

func (e *ConflictError) Unwrap() error { return ErrMergeConflict }

// paperFields is the standard column list for SELECT queries.
const paperFields = `papers.id, papers.bibcode, papers.arxiv_id, papers.title,
	papers.authors_json, papers.journal, papers.year, papers.abstract,
	papers.bibtex, papers.citation_keyword, papers.notes, papers.local_pdf_path,
	papers.pending, papers.added_at, papers.last_check`

// timeFormat is the column encoding for timestamps, always UTC.
const timeFormat = time.RFC3339Nano

// Store owns the library database.
type Store struct {
	db       *sql.DB
	journals *journal.Table

	mu sync.Mutex // serializes all mutations
}

// Option configures a Store.
type Option func(*Store)

// WithJournalTable sets the journal abbreviation table used to normalize
// publication names to short codes.
func WithJournalTable(t *journal.Table) Option {
	return func(s *Store) {
		s.journals = t
	}
}

// Open opens or creates the library database at the given path.
func Open(path string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating library directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	s := &Store{db: db, journals: journal.NewTable()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS papers (
			id TEXT PRIMARY KEY,
			bibcode TEXT UNIQUE,
			arxiv_id TEXT UNIQUE,
			title TEXT NOT NULL,
			authors_json TEXT NOT NULL,
			journal TEXT,
			year INTEGER,
			abstract TEXT,
			bibtex TEXT,
			citation_keyword TEXT NOT NULL UNIQUE,
			notes TEXT NOT NULL DEFAULT '',
			local_pdf_path TEXT,
			pending INTEGER NOT NULL DEFAULT 0,
			added_at TEXT NOT NULL,
			last_check TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_papers_pending ON papers(pending);

		CREATE TABLE IF NOT EXISTS tags (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE
		);

		CREATE TABLE IF NOT EXISTS paper_tags (
			paper_id TEXT NOT NULL,
			tag_id INTEGER NOT NULL,
			PRIMARY KEY (paper_id, tag_id)
		);
	`
	_, err := db.Exec(schema)
	return err
}

// withTx runs fn inside a transaction, rolling back on any error so failed
// mutations leave the store unchanged.
func (s *Store) withTx(fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// scanner covers sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanPaper(sc scanner) (*paper.Paper, error) {
	var p paper.Paper
	var id string
	var bibcode, arxivID, jrnl, abstract, bibtex, pdfPath, lastCheck sql.NullString
	var year sql.NullInt64
	var authorsJSON, addedAt string
	var pending int

	err := sc.Scan(
		&id, &bibcode, &arxivID, &p.Title, &authorsJSON, &jrnl, &year,
		&abstract, &bibtex, &p.CitationKeyword, &p.Notes, &pdfPath,
		&pending, &addedAt, &lastCheck,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	p.Bibcode = bibcode.String
	p.ArxivID = arxivID.String
	p.Journal = jrnl.String
	p.Abstract = abstract.String
	p.Bibtex = bibtex.String
	p.LocalPDFPath = pdfPath.String
	p.Year = int(year.Int64)
	p.Pending = pending != 0

	if err := json.Unmarshal([]byte(authorsJSON), &p.Authors); err != nil {
		return nil, fmt.Errorf("parsing authors for %s: %w", id, err)
	}
	if p.AddedAt, err = time.Parse(timeFormat, addedAt); err != nil {
		return nil, fmt.Errorf("parsing added_at for %s: %w", id, err)
	}
	if lastCheck.Valid {
		if p.LastCheck, err = time.Parse(timeFormat, lastCheck.String); err != nil {
			return nil, fmt.Errorf("parsing last_check for %s: %w", id, err)
		}
	}
	return &p, nil
}

func scanPapers(rows *sql.Rows) ([]paper.Paper, error) {
	var papers []paper.Paper
	for rows.Next() {
		p, err := scanPaper(rows)
		if err != nil {
			return nil, err
		}
		if p != nil {
			papers = append(papers, *p)
		}
	}
	return papers, rows.Err()
}

// nullable converts a string to sql.NullString, treating empty as NULL so
// UNIQUE columns ignore absent identifiers.
func nullable(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullableTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(timeFormat), Valid: true}
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure on
// the given column (e.g. "papers.citation_keyword").
func isUniqueViolation(err error, column string) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: "+column)
}
