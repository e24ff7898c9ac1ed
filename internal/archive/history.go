// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pdiddy/paper-clusters/pkg/types"
)

// ErrRunNotFound is returned when a run id is not in the archive.
var ErrRunNotFound = errors.New("run not found")

const defaultRunLimit = 20

// Run summarizes one archived clustering run.
type Run struct {
	ID         int64     `json:"id" yaml:"id"`
	Method     string    `json:"method" yaml:"method"`
	K          int       `json:"n_clusters" yaml:"n_clusters"`
	PaperCount int       `json:"paper_count" yaml:"paper_count"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
}

// Runs lists the most recent runs, newest first. A non-positive limit
// uses the default of 20.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = defaultRunLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, method, n_clusters, paper_count, created_at FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun returns run id, or ErrRunNotFound.
func (s *Store) GetRun(ctx context.Context, id int64) (Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, method, n_clusters, paper_count, created_at FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("run %d: %w", id, ErrRunNotFound)
	}
	return r, err
}

// LatestRun returns the newest run, or ErrRunNotFound for an empty archive.
func (s *Store) LatestRun(ctx context.Context) (Run, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM runs ORDER BY id DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("archive is empty: %w", ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("querying latest run: %w", err)
	}
	return s.GetRun(ctx, id)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		r       Run
		created string
	)
	if err := sc.Scan(&r.ID, &r.Method, &r.K, &r.PaperCount, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scanning run: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return Run{}, fmt.Errorf("parsing run %d timestamp: %w", r.ID, err)
	}
	r.CreatedAt = t
	return r, nil
}

// Clusters returns the catalog of run id ordered by cluster id.
func (s *Store) Clusters(ctx context.Context, runID int64) ([]types.Cluster, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT cluster_id, name, top_words, size FROM clusters WHERE run_id = ? ORDER BY cluster_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying clusters: %w", err)
	}
	defer rows.Close()

	var clusters []types.Cluster
	for rows.Next() {
		var (
			c         types.Cluster
			wordsJSON string
			size      sql.NullInt64
		)
		if err := rows.Scan(&c.ID, &c.Name, &wordsJSON, &size); err != nil {
			return nil, fmt.Errorf("scanning cluster: %w", err)
		}
		if err := json.Unmarshal([]byte(wordsJSON), &c.TopWords); err != nil {
			return nil, fmt.Errorf("decoding top words of cluster %d: %w", c.ID, err)
		}
		if size.Valid {
			n := int(size.Int64)
			c.Size = &n
		}
		clusters = append(clusters, c)
	}
	return clusters, rows.Err()
}

// Members returns the ids of the papers assigned to each cluster of run
// id, keyed by cluster id, each list in paper id order.
func (s *Store) Members(ctx context.Context, runID int64) (map[int][]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT cluster_id, paper_id FROM assignments WHERE run_id = ? ORDER BY cluster_id, paper_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying assignments: %w", err)
	}
	defer rows.Close()

	members := make(map[int][]string)
	for rows.Next() {
		var (
			clusterID int
			paperID   string
		)
		if err := rows.Scan(&clusterID, &paperID); err != nil {
			return nil, fmt.Errorf("scanning assignment: %w", err)
		}
		members[clusterID] = append(members[clusterID], paperID)
	}
	return members, rows.Err()
}

// SearchPapers runs a full-text query over archived paper titles,
// abstracts, and keywords. Matches are ordered by citations descending,
// then id, and carry their assignment from the newest run, if any.
func (s *Store) SearchPapers(ctx context.Context, query string, limit int) ([]types.Paper, error) {
	if limit <= 0 {
		limit = defaultRunLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT p.id, p.title, p.authors, p.abstract, p.keywords, p.year, p.venue, p.citations,
			a.cluster_id, c.name
		FROM papers_fts
		JOIN papers p ON p.rowid = papers_fts.docid
		LEFT JOIN assignments a ON a.paper_id = p.id AND a.run_id = (SELECT max(id) FROM runs)
		LEFT JOIN clusters c ON c.run_id = a.run_id AND c.cluster_id = a.cluster_id
		WHERE papers_fts MATCH ?
		ORDER BY p.citations DESC, p.id
		LIMIT ?`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("searching archive: %w", err)
	}
	defer rows.Close()

	var papers []types.Paper
	for rows.Next() {
		var (
			p                   types.Paper
			authorsJSON, kwJSON string
			clusterID           sql.NullInt64
			clusterName         sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Title, &authorsJSON, &p.Abstract, &kwJSON,
			&p.Year, &p.Venue, &p.Citations, &clusterID, &clusterName); err != nil {
			return nil, fmt.Errorf("scanning paper: %w", err)
		}
		if err := json.Unmarshal([]byte(authorsJSON), &p.Authors); err != nil {
			return nil, fmt.Errorf("decoding authors of %s: %w", p.ID, err)
		}
		if err := json.Unmarshal([]byte(kwJSON), &p.Keywords); err != nil {
			return nil, fmt.Errorf("decoding keywords of %s: %w", p.ID, err)
		}
		if clusterID.Valid && clusterName.Valid {
			p.SetCluster(int(clusterID.Int64), clusterName.String)
		}
		papers = append(papers, p)
	}
	return papers, rows.Err()
}
