package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ImportRun records one conversion of CSV datasets into the database.
type ImportRun struct {
	ID         string
	Postings   string // source path of the postings dataset
	Skills     string // source path of the skills dataset, "" when absent
	Rows       int
	Skipped    int
	SkillRows  int
	ImportedAt time.Time
}

// RecordImport stores run, assigning an ID when it has none, and returns the
// stored run.
func (s *SQLiteStore) RecordImport(ctx context.Context, run ImportRun) (ImportRun, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.ImportedAt.IsZero() {
		run.ImportedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO imports (id, postings, skills, rows, skipped, skill_rows, imported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Postings, nullString(run.Skills), run.Rows, run.Skipped, run.SkillRows, run.ImportedAt,
	)
	if err != nil {
		return run, fmt.Errorf("recording import %s: %w", run.ID, err)
	}
	return run, nil
}

// Imports lists recorded runs, newest first.
func (s *SQLiteStore) Imports(ctx context.Context) ([]ImportRun, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, postings, COALESCE(skills, ''), rows, skipped, skill_rows, imported_at
		FROM imports ORDER BY imported_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying imports: %w", err)
	}
	defer rows.Close()

	var runs []ImportRun
	for rows.Next() {
		var r ImportRun
		if err := rows.Scan(&r.ID, &r.Postings, &r.Skills, &r.Rows, &r.Skipped, &r.SkillRows, &r.ImportedAt); err != nil {
			return nil, fmt.Errorf("scanning import: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
