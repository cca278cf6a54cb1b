// Package resultstore records finished audit runs in a single-file SQLite
// database so results accumulate across invocations and feed irvtable.
// Only computed outcomes are stored, never ballot data.
package resultstore

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"irvaudit/pkg/api"
)

const schema = `
CREATE TABLE IF NOT EXISTS audit_runs (
	run_id           TEXT PRIMARY KEY,
	created_at       TEXT NOT NULL,
	source           TEXT,
	description      TEXT,
	rules            TEXT NOT NULL,
	candidates       INTEGER NOT NULL,
	ballots          INTEGER NOT NULL,
	winner           TEXT NOT NULL,
	rounds           INTEGER NOT NULL,
	simple_lower     INTEGER,
	lower_bound      INTEGER,
	upper_bound      INTEGER,
	exact_margin     INTEGER,
	condorcet_winner TEXT,
	condorcet_agrees INTEGER
);
CREATE INDEX IF NOT EXISTS audit_runs_created_at ON audit_runs(created_at);
`

// Store wraps the runs database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open result store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init result store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Put records one finished run. Reports with the same run id overwrite,
// which only happens when a caller retries a failed store.
func (s *Store) Put(ctx context.Context, rep *api.ReportV1) error {
	var simple, lower, upper, exact *int
	if m := rep.Margin; m != nil {
		simple, lower = &m.SimpleLower, &m.Lower
		if !m.UpperUnbounded {
			upper = &m.Upper
		}
		exact = m.Exact
	}
	var condWinner *string
	var condAgrees *bool
	if c := rep.Condorcet; c != nil && c.HasWinner {
		condWinner, condAgrees = &c.WinnerName, &c.AgreesWithIRV
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO audit_runs (
			run_id, created_at, source, description, rules, candidates,
			ballots, winner, rounds, simple_lower, lower_bound, upper_bound,
			exact_margin, condorcet_winner, condorcet_agrees
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rep.RunID, rep.GeneratedAt, rep.Source, rep.Description,
		rep.Result.Rules, len(rep.Candidates), rep.Ballots,
		rep.Result.WinnerName, len(rep.Result.Rounds),
		simple, lower, upper, exact, condWinner, condAgrees,
	)
	if err != nil {
		return fmt.Errorf("store run %s: %w", rep.RunID, err)
	}
	return nil
}

// Row is one recorded run. Nil pointers mean the value was not computed.
type Row struct {
	RunID           string
	CreatedAt       string
	Source          string
	Description     string
	Rules           string
	Candidates      int
	Ballots         int
	Winner          string
	Rounds          int
	SimpleLower     *int
	LowerBound      *int
	UpperBound      *int
	ExactMargin     *int
	CondorcetWinner *string
	CondorcetAgrees *bool
}

// List returns every recorded run, oldest first.
func (s *Store) List(ctx context.Context) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, created_at, source, description, rules, candidates,
		       ballots, winner, rounds, simple_lower, lower_bound, upper_bound,
		       exact_margin, condorcet_winner, condorcet_agrees
		FROM audit_runs ORDER BY created_at, run_id`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.RunID, &r.CreatedAt, &r.Source, &r.Description,
			&r.Rules, &r.Candidates, &r.Ballots, &r.Winner, &r.Rounds,
			&r.SimpleLower, &r.LowerBound, &r.UpperBound, &r.ExactMargin,
			&r.CondorcetWinner, &r.CondorcetAgrees); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
