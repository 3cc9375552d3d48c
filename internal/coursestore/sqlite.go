// Package coursestore persists catalog course metadata in SQLite and serves
// it through course.Lookup, optionally behind an LRU cache.
package coursestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"github.com/papapumpkin/degreeplan/internal/course"
)

// schema contains the DDL executed on every open.
const schema = `
CREATE TABLE IF NOT EXISTS courses (
    subject     TEXT    NOT NULL,
    class_id    INTEGER NOT NULL,
    name        TEXT    NOT NULL DEFAULT '',
    credits_min INTEGER NOT NULL DEFAULT 0,
    credits_max INTEGER NOT NULL DEFAULT 0,
    nupaths     TEXT    NOT NULL DEFAULT '[]',
    prereqs     TEXT    NOT NULL DEFAULT 'null',
    coreqs      TEXT    NOT NULL DEFAULT 'null',
    updated_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (subject, class_id)
);
`

// Store is a course catalog in a local SQLite database in WAL mode.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and creates the schema if
// it does not exist.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("coursestore: open database: %w", err)
	}

	// SQLite has a single writer; one connection keeps the pragmas below in
	// effect for every statement.
	db.SetMaxOpenConns(1)

	for _, p := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, fmt.Errorf("coursestore: %s: %w", p, err)
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("coursestore: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Put inserts or replaces courses in a single transaction.
func (s *Store) Put(ctx context.Context, courses ...course.Course) error {
	if len(courses) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("coursestore: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	const q = `
		INSERT INTO courses (subject, class_id, name, credits_min, credits_max, nupaths, prereqs, coreqs, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(subject, class_id) DO UPDATE SET
			name        = excluded.name,
			credits_min = excluded.credits_min,
			credits_max = excluded.credits_max,
			nupaths     = excluded.nupaths,
			prereqs     = excluded.prereqs,
			coreqs      = excluded.coreqs,
			updated_at  = CURRENT_TIMESTAMP`

	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		return fmt.Errorf("coursestore: prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, c := range courses {
		nupaths, prereqs, coreqs, err := encode(c)
		if err != nil {
			return fmt.Errorf("coursestore: encode %s: %w", c.Code(), err)
		}
		if _, err := stmt.ExecContext(ctx, c.Subject, c.ClassID, c.Name, c.CreditsMin, c.CreditsMax, nupaths, prereqs, coreqs); err != nil {
			return fmt.Errorf("coursestore: put %s: %w", c.Code(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("coursestore: commit: %w", err)
	}
	return nil
}

// FetchCourse returns the stored course, or nil if none is stored.
func (s *Store) FetchCourse(ctx context.Context, subject string, classID int) (*course.Course, error) {
	const q = `SELECT name, credits_min, credits_max, nupaths, prereqs, coreqs
		FROM courses WHERE subject = ? AND class_id = ?`

	c := course.Course{Ref: course.Ref{Subject: subject, ClassID: classID}}
	var nupaths, prereqs, coreqs string
	err := s.db.QueryRowContext(ctx, q, subject, classID).Scan(&c.Name, &c.CreditsMin, &c.CreditsMax, &nupaths, &prereqs, &coreqs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("coursestore: fetch %s: %w", c.Code(), err)
	}
	if err := json.Unmarshal([]byte(nupaths), &c.NUPaths); err != nil {
		return nil, fmt.Errorf("coursestore: decode nupaths of %s: %w", c.Code(), err)
	}
	if err := json.Unmarshal([]byte(prereqs), &c.Prereqs); err != nil {
		return nil, fmt.Errorf("coursestore: decode prereqs of %s: %w", c.Code(), err)
	}
	if err := json.Unmarshal([]byte(coreqs), &c.Coreqs); err != nil {
		return nil, fmt.Errorf("coursestore: decode coreqs of %s: %w", c.Code(), err)
	}
	return &c, nil
}

// Count returns the number of stored courses.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM courses").Scan(&n); err != nil {
		return 0, fmt.Errorf("coursestore: count: %w", err)
	}
	return n, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func encode(c course.Course) (nupaths, prereqs, coreqs string, err error) {
	paths := c.NUPaths
	if paths == nil {
		paths = []string{}
	}
	b, err := json.Marshal(paths)
	if err != nil {
		return "", "", "", err
	}
	p, err := json.Marshal(c.Prereqs)
	if err != nil {
		return "", "", "", err
	}
	q, err := json.Marshal(c.Coreqs)
	if err != nil {
		return "", "", "", err
	}
	return string(b), string(p), string(q), nil
}
