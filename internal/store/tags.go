package store

import (
	"database/sql"
	"fmt"
)

// AddTag creates a tag. Adding an existing tag is a no-op.
func (s *Store) AddTag(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if name == "" {
		return fmt.Errorf("tag name must not be empty")
	}
	return s.withTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO tags (name) VALUES (?) ON CONFLICT(name) DO NOTHING`, name)
		return err
	})
}

// DeleteTag removes a tag and its associations. Papers are never deleted.
func (s *Store) DeleteTag(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withTx(func(tx *sql.Tx) error {
		var id int64
		err := tx.QueryRow(`SELECT id FROM tags WHERE name = ?`, name).Scan(&id)
		if err == sql.ErrNoRows {
			return fmt.Errorf("%q: %w", name, ErrTagNotFound)
		}
		if err != nil {
			return fmt.Errorf("looking up tag: %w", err)
		}
		if _, err := tx.Exec(`DELETE FROM paper_tags WHERE tag_id = ?`, id); err != nil {
			return fmt.Errorf("removing associations: %w", err)
		}
		if _, err := tx.Exec(`DELETE FROM tags WHERE id = ?`, id); err != nil {
			return fmt.Errorf("removing tag: %w", err)
		}
		return nil
	})
}

// Tags returns all tag names, sorted.
func (s *Store) Tags() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM tags ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// SetTags replaces a paper's tag set. Unknown tags are created on first use.
func (s *Store) SetTags(ref string, tags []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.Get(ref)
	if err != nil {
		return err
	}

	return s.withTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM paper_tags WHERE paper_id = ?`, p.ID()); err != nil {
			return fmt.Errorf("clearing tags: %w", err)
		}
		for _, name := range tags {
			if name == "" {
				continue
			}
			if _, err := tx.Exec(`INSERT INTO tags (name) VALUES (?) ON CONFLICT(name) DO NOTHING`, name); err != nil {
				return fmt.Errorf("creating tag %q: %w", name, err)
			}
			if _, err := tx.Exec(`
				INSERT INTO paper_tags (paper_id, tag_id)
				SELECT ?, id FROM tags WHERE name = ?`, p.ID(), name); err != nil {
				return fmt.Errorf("tagging %s with %q: %w", p.ID(), name, err)
			}
		}
		return nil
	})
}

// TagsOf returns a paper's tags, sorted.
func (s *Store) TagsOf(ref string) ([]string, error) {
	p, err := s.Get(ref)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT t.name FROM tags t
		JOIN paper_tags pt ON pt.tag_id = t.id
		WHERE pt.paper_id = ?
		ORDER BY t.name`, p.ID())
	if err != nil {
		return nil, fmt.Errorf("listing paper tags: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// HasTag reports whether the paper carries the tag. Single indexed lookup.
func (s *Store) HasTag(ref, tag string) (bool, error) {
	p, err := s.Get(ref)
	if err != nil {
		return false, err
	}

	var one int
	err = s.db.QueryRow(`
		SELECT 1 FROM paper_tags pt
		JOIN tags t ON t.id = pt.tag_id
		WHERE pt.paper_id = ? AND t.name = ?`, p.ID(), tag).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
