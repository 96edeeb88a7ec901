package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sgjobs/jobpulse/internal/model"
)

// Table names inside a jobpulse SQLite file.
const (
	PostingsTable = "job_postings"
	SkillsTable   = "skill_counts"
	ImportsTable  = "imports"
)

// SQLiteStore holds the postings and skills datasets in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures the
// dataset tables exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := open(dbPath)
	if err != nil {
		return nil, err
	}

	createTables := []string{
		`CREATE TABLE IF NOT EXISTS job_postings (
			job_id           TEXT,
			posting_date     TEXT NOT NULL,
			category         TEXT NOT NULL,
			min_exp          REAL,
			num_applications INTEGER NOT NULL DEFAULT 0,
			num_vacancies    INTEGER NOT NULL DEFAULT 0,
			num_views        INTEGER NOT NULL DEFAULT 0,
			average_salary   REAL,
			skill            TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS skill_counts (
			skill     TEXT NOT NULL,
			month     TEXT NOT NULL,
			category  TEXT,
			job_count INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS imports (
			id          TEXT PRIMARY KEY,
			postings    TEXT NOT NULL,
			skills      TEXT,
			rows        INTEGER NOT NULL,
			skipped     INTEGER NOT NULL,
			skill_rows  INTEGER NOT NULL,
			imported_at DATETIME NOT NULL
		)`,
	}
	for _, stmt := range createTables {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating dataset tables: %w", err)
		}
	}

	return &SQLiteStore{db: db}, nil
}

// OpenReadOnly opens an existing database without creating tables and puts
// the connection in query-only mode.
func OpenReadOnly(dbPath string) (*SQLiteStore, error) {
	db, err := open(dbPath)
	if err != nil {
		return nil, err
	}
	// One connection so the pragma applies to every query.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA query_only = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting query_only: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func open(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}
	return db, nil
}

// ReplacePostings deletes every stored posting and writes postings in one
// transaction.
func (s *SQLiteStore) ReplacePostings(ctx context.Context, postings []model.JobPosting) error {
	return s.replace(ctx, PostingsTable, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO job_postings
			(job_id, posting_date, category, min_exp, num_applications, num_vacancies, num_views, average_salary, skill)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("preparing posting insert: %w", err)
		}
		defer stmt.Close()

		for _, p := range postings {
			_, err := stmt.ExecContext(ctx,
				nullString(p.JobID),
				p.PostingDate.UTC().Format(time.RFC3339Nano),
				p.Category,
				nullFloat(p.MinExp),
				p.NumApplications,
				p.NumVacancies,
				p.NumViews,
				nullFloat(p.AverageSalary),
				nullString(p.Skill),
			)
			if err != nil {
				return fmt.Errorf("inserting posting %q: %w", p.JobID, err)
			}
		}
		return nil
	})
}

// ReplaceSkills deletes every stored skill count and writes skills in one
// transaction.
func (s *SQLiteStore) ReplaceSkills(ctx context.Context, skills []model.SkillCount) error {
	return s.replace(ctx, SkillsTable, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			"INSERT INTO skill_counts (skill, month, category, job_count) VALUES (?, ?, ?, ?)")
		if err != nil {
			return fmt.Errorf("preparing skill insert: %w", err)
		}
		defer stmt.Close()

		for _, sc := range skills {
			_, err := stmt.ExecContext(ctx, sc.Skill, sc.Month.Format(model.MonthLayout), nullString(sc.Category), sc.JobCount)
			if err != nil {
				return fmt.Errorf("inserting skill %q: %w", sc.Skill, err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) replace(ctx context.Context, table string, insert func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("clearing %s: %w", table, err)
	}
	if err := insert(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing %s: %w", table, err)
	}
	return nil
}

// Count returns the number of rows in one of the dataset tables.
func (s *SQLiteStore) Count(ctx context.Context, table string) (int, error) {
	if !knownTable(table) {
		return 0, fmt.Errorf("unknown table %q", table)
	}
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting %s: %w", table, err)
	}
	return n, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func knownTable(table string) bool {
	return table == PostingsTable || table == SkillsTable || table == ImportsTable
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
