// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists pipeline runs in a local SQLite database. The
// analysis core is stateless by design; keeping history across sessions is
// this boundary collaborator's job.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/covenant-tracker/internal/pipeline"
	"github.com/pdiddy/covenant-tracker/pkg/types"
)

const defaultMaxResults = 100

// Store manages the run-history SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path, creating the schema if it
// does not exist.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
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

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			document TEXT NOT NULL,
			as_of TEXT NOT NULL,
			created_at TEXT NOT NULL,
			total INTEGER NOT NULL,
			missed INTEGER NOT NULL,
			due_soon INTEGER NOT NULL,
			risk_index REAL NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS obligations (
			id TEXT NOT NULL,
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			category TEXT NOT NULL,
			description TEXT NOT NULL,
			responsible_party TEXT NOT NULL,
			frequency TEXT NOT NULL,
			risk_score INTEGER NOT NULL,
			risk_tier TEXT NOT NULL,
			status TEXT NOT NULL,
			span_start INTEGER NOT NULL,
			span_end INTEGER NOT NULL,
			deadlines TEXT NOT NULL,
			PRIMARY KEY (id, run_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_obligations_run ON obligations(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_obligations_status ON obligations(status)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveRun persists one pipeline result and returns the new run ID.
func (s *Store) SaveRun(ctx context.Context, document string, asOf time.Time, res pipeline.Result) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	r, err := tx.ExecContext(ctx,
		`INSERT INTO runs (document, as_of, created_at, total, missed, due_soon, risk_index)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		document,
		asOf.UTC().Format("2006-01-02"),
		time.Now().UTC().Format(time.RFC3339),
		res.Summary.Total,
		res.Summary.Missed,
		res.Summary.DueSoon,
		res.Summary.RiskIndex,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := r.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	for _, ob := range res.Obligations {
		deadlines, err := json.Marshal(ob.Deadlines)
		if err != nil {
			return 0, fmt.Errorf("encoding deadlines for %s: %w", ob.ID, err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO obligations
			 (id, run_id, category, description, responsible_party, frequency,
			  risk_score, risk_tier, status, span_start, span_end, deadlines)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			ob.ID, runID, string(ob.Category), ob.Description, ob.ResponsibleParty,
			string(ob.Frequency), ob.RiskScore, string(ob.RiskTier), string(ob.Status),
			ob.Span.Start, ob.Span.End, string(deadlines),
		)
		if err != nil {
			return 0, fmt.Errorf("inserting obligation %s: %w", ob.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// Filter selects stored obligations. Zero values match everything; a zero
// RunID means the most recent run.
type Filter struct {
	RunID    int64
	Category types.ObligationCategory
	Tier     types.RiskTier
	Status   types.ComplianceStatus
	Limit    int
}

// StoredObligation is an obligation with its run provenance.
type StoredObligation struct {
	types.Obligation
	RunID    int64  `json:"run_id" yaml:"run_id"`
	Document string `json:"document" yaml:"document"`
	AsOf     string `json:"as_of" yaml:"as_of"`
}

// Retrieve queries stored obligations with structured filters, ordered by
// appearance in the source document.
func (s *Store) Retrieve(ctx context.Context, f Filter) ([]StoredObligation, error) {
	runID := f.RunID
	if runID == 0 {
		var err error
		runID, err = s.latestRunID(ctx)
		if err != nil {
			return nil, err
		}
	}

	var qb strings.Builder
	qb.WriteString(
		`SELECT o.id, o.category, o.description, o.responsible_party, o.frequency,
			o.risk_score, o.risk_tier, o.status, o.span_start, o.span_end, o.deadlines,
			o.run_id, r.document, r.as_of
		FROM obligations o
		JOIN runs r ON r.id = o.run_id
		WHERE o.run_id = ?`)
	args := []any{runID}

	if f.Category != "" {
		qb.WriteString(" AND o.category = ?")
		args = append(args, string(f.Category))
	}
	if f.Tier != "" {
		qb.WriteString(" AND o.risk_tier = ?")
		args = append(args, string(f.Tier))
	}
	if f.Status != "" {
		qb.WriteString(" AND o.status = ?")
		args = append(args, string(f.Status))
	}

	limit := f.Limit
	if limit <= 0 {
		limit = defaultMaxResults
	}
	qb.WriteString(" ORDER BY o.span_start LIMIT ?")
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying obligations: %w", err)
	}
	defer rows.Close()

	var out []StoredObligation
	for rows.Next() {
		var (
			so        StoredObligation
			deadlines string
		)
		if err := rows.Scan(
			&so.ID, &so.Category, &so.Description, &so.ResponsibleParty, &so.Frequency,
			&so.RiskScore, &so.RiskTier, &so.Status, &so.Span.Start, &so.Span.End,
			&deadlines, &so.RunID, &so.Document, &so.AsOf,
		); err != nil {
			return nil, fmt.Errorf("scanning obligation: %w", err)
		}
		if err := json.Unmarshal([]byte(deadlines), &so.Deadlines); err != nil {
			return nil, fmt.Errorf("decoding deadlines for %s: %w", so.ID, err)
		}
		out = append(out, so)
	}
	return out, rows.Err()
}

func (s *Store) latestRunID(ctx context.Context) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM runs ORDER BY id DESC LIMIT 1`).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("no runs stored yet")
	}
	if err != nil {
		return 0, fmt.Errorf("finding latest run: %w", err)
	}
	return id, nil
}

// RunInfo summarizes one stored run.
type RunInfo struct {
	ID        int64   `json:"id" yaml:"id"`
	Document  string  `json:"document" yaml:"document"`
	AsOf      string  `json:"as_of" yaml:"as_of"`
	CreatedAt string  `json:"created_at" yaml:"created_at"`
	Total     int     `json:"total" yaml:"total"`
	Missed    int     `json:"missed" yaml:"missed"`
	DueSoon   int     `json:"due_soon" yaml:"due_soon"`
	RiskIndex float64 `json:"risk_index" yaml:"risk_index"`
}

// Runs lists stored runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]RunInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, document, as_of, created_at, total, missed, due_soon, risk_index
		 FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var out []RunInfo
	for rows.Next() {
		var r RunInfo
		if err := rows.Scan(&r.ID, &r.Document, &r.AsOf, &r.CreatedAt,
			&r.Total, &r.Missed, &r.DueSoon, &r.RiskIndex); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
