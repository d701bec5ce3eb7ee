package store

import (
	"fmt"
	"iter"

	"github.com/paperlib/paperlib/internal/paper"
)

// Query selects and orders papers for listing and export.
type Query struct {
	Tag  string        // restrict to papers carrying this tag; empty = all
	Sort paper.SortKey // zero value sorts by date added
}

// orderBy maps sort keys to deterministic ORDER BY clauses. Every clause
// falls back to the row id so repeated queries over unchanged data return
// identical orderings.
func orderBy(key paper.SortKey) (string, error) {
	switch key {
	case paper.SortTitle:
		return `lower(papers.title), papers.id`, nil
	case paper.SortAuthor:
		return `lower(json_extract(papers.authors_json, '$[0]')), papers.id`, nil
	case paper.SortYear:
		return `papers.year, papers.id`, nil
	case paper.SortAdded, "":
		return `papers.added_at, papers.id`, nil
	}
	return "", fmt.Errorf("unknown sort key %q", key)
}

func (s *Store) buildQuery(q Query) (string, []any, error) {
	order, err := orderBy(q.Sort)
	if err != nil {
		return "", nil, err
	}

	sqlText := `SELECT ` + paperFields + ` FROM papers`
	var args []any
	if q.Tag != "" {
		sqlText += `
			JOIN paper_tags pt ON pt.paper_id = papers.id
			JOIN tags t ON t.id = pt.tag_id AND t.name = ?`
		args = append(args, q.Tag)
	}
	sqlText += ` ORDER BY ` + order
	return sqlText, args, nil
}

// Papers returns a lazy, restartable sequence of papers. Each range over
// the sequence re-runs the query, so the caller always sees a consistent
// snapshot of the store at iteration time.
func (s *Store) Papers(q Query) iter.Seq2[paper.Paper, error] {
	return func(yield func(paper.Paper, error) bool) {
		sqlText, args, err := s.buildQuery(q)
		if err != nil {
			yield(paper.Paper{}, err)
			return
		}

		rows, err := s.db.Query(sqlText, args...)
		if err != nil {
			yield(paper.Paper{}, fmt.Errorf("querying papers: %w", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			p, err := scanPaper(rows)
			if err != nil {
				yield(paper.Paper{}, err)
				return
			}
			if !yield(*p, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(paper.Paper{}, err)
		}
	}
}

// AllPapers collects a query result into a slice.
func (s *Store) AllPapers(q Query) ([]paper.Paper, error) {
	var papers []paper.Paper
	for p, err := range s.Papers(q) {
		if err != nil {
			return nil, err
		}
		papers = append(papers, p)
	}
	return papers, nil
}
