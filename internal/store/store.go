// Package store persists sampling runs and their curated problems in a
// local SQLite database.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"

	"github.com/rkoshiba/janmon/internal"
	"github.com/rkoshiba/janmon/internal/batch"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		mode TEXT NOT NULL,
		model TEXT,
		candidates_per_instruction INTEGER NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS instructions (
		id TEXT PRIMARY KEY,
		run_id TEXT NOT NULL,
		instruction_number INTEGER NOT NULL,
		instruction_text TEXT NOT NULL,
		success BOOLEAN DEFAULT FALSE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	CREATE TABLE IF NOT EXISTS candidates (
		id TEXT PRIMARY KEY,
		instruction_id TEXT NOT NULL,
		candidate_number INTEGER NOT NULL,
		question TEXT,
		status TEXT NOT NULL,
		reason TEXT,
		han INTEGER,
		fu INTEGER,
		score INTEGER,
		yaku TEXT,
		compliance_judged BOOLEAN DEFAULT FALSE,
		compliance_verdict TEXT,
		compliance_reason TEXT,
		selected BOOLEAN DEFAULT FALSE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (instruction_id) REFERENCES instructions(id),
		UNIQUE(instruction_id, candidate_number)
	);

	CREATE INDEX IF NOT EXISTS idx_instructions_run ON instructions(run_id);
	CREATE INDEX IF NOT EXISTS idx_candidates_instruction ON candidates(instruction_id);
	CREATE INDEX IF NOT EXISTS idx_candidates_selected ON candidates(selected);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveRun records a new curation run.
func (s *Store) SaveRun(ctx context.Context, run internal.Run) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, mode, model, candidates_per_instruction, created_at) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Mode, run.Model, run.Candidates, run.Timestamp)
	return err
}

// SaveInstructionResult persists one instruction's candidates and selection
// atomically.
func (s *Store) SaveInstructionResult(ctx context.Context, runID string, res batch.InstructionResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	instructionID := uuid.New().String()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO instructions (id, run_id, instruction_number, instruction_text, success) VALUES (?, ?, ?, ?, ?)`,
		instructionID, runID, res.Index, normalizeText(res.Instruction), res.Outcome.Success)
	if err != nil {
		return err
	}

	selectedIndex := 0
	if res.Outcome.Selected != nil {
		selectedIndex = res.Outcome.Selected.Index
	}

	for _, cand := range res.Candidates {
		sr := cand.Result
		if sr == nil {
			continue
		}

		var han, fu, score int
		var yakuJSON string
		if sr.Score != nil {
			han, fu, score = sr.Score.Han, sr.Score.Fu, sr.Score.Score
			b, err := json.Marshal(sr.Score.Yaku)
			if err != nil {
				return fmt.Errorf("marshaling yaku: %w", err)
			}
			yakuJSON = string(b)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO candidates (id, instruction_id, candidate_number, question, status, reason, han, fu, score, yaku, compliance_judged, compliance_verdict, compliance_reason, selected)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.New().String(), instructionID, cand.Index, cand.Question,
			sr.Status, sr.Reason, han, fu, score, yakuJSON,
			sr.ComplianceJudged, sr.ComplianceVerdict, sr.ComplianceReason,
			cand.Index == selectedIndex)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Problem is a curated problem: the selected candidate of an instruction,
// joined with its instruction context.
type Problem struct {
	RunID           string    `json:"run_id"`
	Instruction     string    `json:"instruction"`
	Question        string    `json:"question"`
	Han             int       `json:"han"`
	Fu              int       `json:"fu"`
	Score           int       `json:"score"`
	Yaku            []string  `json:"yaku"`
	Compliant       bool      `json:"compliant"`
	ComplianceNotes string    `json:"compliance_notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// ListProblems returns all selected verified problems, most recent first.
func (s *Store) ListProblems(ctx context.Context) ([]Problem, error) {
	return s.queryProblems(ctx,
		`SELECT i.run_id, i.instruction_text, c.question, c.han, c.fu, c.score, c.yaku,
		        c.compliance_verdict, c.compliance_reason, c.created_at
		 FROM candidates c JOIN instructions i ON c.instruction_id = i.id
		 WHERE c.selected AND c.status = 'verified'
		 ORDER BY c.created_at DESC`)
}

// ProblemsByInstruction returns selected problems whose instruction text
// matches after normalization.
func (s *Store) ProblemsByInstruction(ctx context.Context, instruction string) ([]Problem, error) {
	return s.queryProblems(ctx,
		`SELECT i.run_id, i.instruction_text, c.question, c.han, c.fu, c.score, c.yaku,
		        c.compliance_verdict, c.compliance_reason, c.created_at
		 FROM candidates c JOIN instructions i ON c.instruction_id = i.id
		 WHERE c.selected AND c.status = 'verified' AND i.instruction_text = ?
		 ORDER BY c.created_at DESC`,
		normalizeText(instruction))
}

func (s *Store) queryProblems(ctx context.Context, query string, args ...interface{}) ([]Problem, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var problems []Problem
	for rows.Next() {
		var p Problem
		var yakuJSON, verdict, notes sql.NullString
		if err := rows.Scan(&p.RunID, &p.Instruction, &p.Question, &p.Han, &p.Fu, &p.Score,
			&yakuJSON, &verdict, &notes, &p.CreatedAt); err != nil {
			return nil, err
		}
		if yakuJSON.Valid && yakuJSON.String != "" {
			if err := json.Unmarshal([]byte(yakuJSON.String), &p.Yaku); err != nil {
				return nil, fmt.Errorf("unmarshaling yaku: %w", err)
			}
		}
		p.Compliant = verdict.Valid && verdict.String == "Yes"
		p.ComplianceNotes = notes.String
		problems = append(problems, p)
	}

	return problems, rows.Err()
}

// StoreStats summarises stored runs and candidates.
type StoreStats struct {
	TotalRuns         int
	TotalInstructions int
	TotalCandidates   int
	SelectedProblems  int
	CompliantProblems int
}

// Stats returns summary statistics for the problem store.
func (s *Store) Stats(ctx context.Context) (*StoreStats, error) {
	stats := &StoreStats{}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&stats.TotalRuns); err != nil {
		return nil, err
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM instructions`).Scan(&stats.TotalInstructions); err != nil {
		return nil, err
	}

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN selected AND status = 'verified' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN selected AND status = 'verified' AND compliance_verdict = 'Yes' THEN 1 ELSE 0 END), 0)
		FROM candidates`).Scan(
		&stats.TotalCandidates,
		&stats.SelectedProblems,
		&stats.CompliantProblems,
	)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// Clear removes all stored runs, instructions and candidates.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM candidates`)
	if err != nil {
		return 0, err
	}
	deleted, _ := res.RowsAffected()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM instructions`); err != nil {
		return deleted, err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM runs`); err != nil {
		return deleted, err
	}
	return deleted, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// normalizeText trims whitespace and applies Unicode NFC normalization so
// instruction lookups compare consistently.
func normalizeText(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}
