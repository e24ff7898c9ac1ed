// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive keeps a history of published clustering runs in SQLite.
// Each run records its method, catalog, and per-paper assignments, and the
// papers seen by any run are indexed for full-text search. The archive is
// history for inspection and export; it never feeds a later run.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paper-clusters/internal/catalog"
	"github.com/pdiddy/paper-clusters/pkg/types"
)

const dbFile = "archive.db"

// Store manages the archive database.
type Store struct {
	db  *sql.DB
	dir string
	now func() time.Time
}

// Open opens or creates the archive database at dir/archive.db and
// creates the schema if it does not exist.
func Open(cfg types.ArchiveConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, dir: cfg.Dir, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Dir returns the archive directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			method TEXT NOT NULL,
			n_clusters INTEGER NOT NULL,
			paper_count INTEGER NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS clusters (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			cluster_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			top_words TEXT NOT NULL,
			size INTEGER,
			PRIMARY KEY (run_id, cluster_id)
		)`,
		`CREATE TABLE IF NOT EXISTS assignments (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			paper_id TEXT NOT NULL,
			cluster_id INTEGER NOT NULL,
			PRIMARY KEY (run_id, paper_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_assignments_cluster ON assignments(run_id, cluster_id)`,
		`CREATE TABLE IF NOT EXISTS papers (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			title TEXT,
			authors TEXT,
			abstract TEXT,
			keywords TEXT,
			year INTEGER,
			venue TEXT,
			citations INTEGER
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// Full-text index over paper text, kept in sync by triggers.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='papers_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE papers_fts USING fts4(content="papers", title, abstract, keywords)`,
			`CREATE TRIGGER papers_bu BEFORE UPDATE ON papers BEGIN
				DELETE FROM papers_fts WHERE docid=old.rowid;
			END`,
			`CREATE TRIGGER papers_bd BEFORE DELETE ON papers BEGIN
				DELETE FROM papers_fts WHERE docid=old.rowid;
			END`,
			`CREATE TRIGGER papers_au AFTER UPDATE ON papers BEGIN
				INSERT INTO papers_fts(docid, title, abstract, keywords)
				VALUES (new.rowid, new.title, new.abstract, new.keywords);
			END`,
			`CREATE TRIGGER papers_ai AFTER INSERT ON papers BEGIN
				INSERT INTO papers_fts(docid, title, abstract, keywords)
				VALUES (new.rowid, new.title, new.abstract, new.keywords);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// Record stores a published snapshot as a new run in one transaction.
// It satisfies catalog.Recorder.
func (s *Store) Record(ctx context.Context, snap *catalog.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	created := snap.PublishedAt
	if created.IsZero() {
		created = s.now()
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (method, n_clusters, paper_count, created_at) VALUES (?, ?, ?, ?)`,
		string(snap.Method), snap.K, len(snap.Papers), created.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading run id: %w", err)
	}

	clusterStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO clusters (run_id, cluster_id, name, top_words, size) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing cluster insert: %w", err)
	}
	defer clusterStmt.Close()

	for _, c := range snap.Clusters {
		wordsJSON, _ := json.Marshal(c.TopWords)
		var size sql.NullInt64
		if c.Size != nil {
			size = sql.NullInt64{Int64: int64(*c.Size), Valid: true}
		}
		if _, err := clusterStmt.ExecContext(ctx, runID, c.ID, c.Name, string(wordsJSON), size); err != nil {
			return fmt.Errorf("inserting cluster %d: %w", c.ID, err)
		}
	}

	paperStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO papers (id, title, authors, abstract, keywords, year, venue, citations)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, authors=excluded.authors, abstract=excluded.abstract,
			keywords=excluded.keywords, year=excluded.year, venue=excluded.venue,
			citations=excluded.citations`)
	if err != nil {
		return fmt.Errorf("preparing paper upsert: %w", err)
	}
	defer paperStmt.Close()

	assignStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO assignments (run_id, paper_id, cluster_id) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing assignment insert: %w", err)
	}
	defer assignStmt.Close()

	for _, p := range snap.Papers {
		authorsJSON, _ := json.Marshal(p.Authors)
		keywordsJSON, _ := json.Marshal(p.Keywords)
		if _, err := paperStmt.ExecContext(ctx,
			p.ID, p.Title, string(authorsJSON), p.Abstract, string(keywordsJSON),
			p.Year, p.Venue, p.Citations,
		); err != nil {
			return fmt.Errorf("upserting paper %s: %w", p.ID, err)
		}
		if p.ClusterID == nil {
			continue
		}
		if _, err := assignStmt.ExecContext(ctx, runID, p.ID, *p.ClusterID); err != nil {
			return fmt.Errorf("inserting assignment for %s: %w", p.ID, err)
		}
	}

	return tx.Commit()
}
