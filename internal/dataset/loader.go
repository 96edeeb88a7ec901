// Package dataset loads the postings and skills datasets into memory with an
// explicit schema and caches them for a bounded time.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sgjobs/jobpulse/internal/model"
	"github.com/sgjobs/jobpulse/internal/store"
)

// Loader reads dataset files and normalizes them.
type Loader struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewLoader returns a Loader that logs through logger.
func NewLoader(logger *slog.Logger) *Loader {
	return &Loader{logger: logger, now: time.Now}
}

// Load reads the postings file at path. The source is chosen by extension:
// .csv files are parsed directly, .db/.sqlite/.sqlite3 files are read from
// the job_postings table. Malformed rows are skipped and counted.
func (l *Loader) Load(ctx context.Context, path string) (*model.Table, error) {
	start := l.now()
	raw, err := l.read(ctx, path, store.PostingsTable)
	if err != nil {
		return nil, err
	}
	canonicalize(raw)
	if err := checkPostingSchema(raw); err != nil {
		return nil, err
	}

	table := &model.Table{Path: path, Postings: make([]model.JobPosting, 0, len(raw.Rows))}
	var firstErr error
	for _, row := range raw.Rows {
		p, err := coercePosting(raw.Source, row)
		if err != nil {
			table.Skipped++
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		table.Postings = append(table.Postings, p)
	}
	table.LoadedAt = l.now()

	if firstErr != nil {
		l.logger.Debug("skipped malformed rows", "path", path, "count", table.Skipped, "first", firstErr)
	}
	l.logger.Info("dataset loaded",
		"path", path,
		"rows", len(table.Postings),
		"skipped", table.Skipped,
		"duration", table.LoadedAt.Sub(start).String(),
	)
	return table, nil
}

// LoadSkills reads the skills timeline file at path (CSV or the skill_counts
// table of a SQLite file).
func (l *Loader) LoadSkills(ctx context.Context, path string) ([]model.SkillCount, error) {
	raw, err := l.read(ctx, path, store.SkillsTable)
	if err != nil {
		return nil, err
	}
	canonicalize(raw)
	if err := checkSkillSchema(raw); err != nil {
		return nil, err
	}

	skills := make([]model.SkillCount, 0, len(raw.Rows))
	skipped := 0
	for _, row := range raw.Rows {
		s, err := coerceSkill(raw.Source, row)
		if err != nil {
			skipped++
			continue
		}
		skills = append(skills, s)
	}
	l.logger.Info("skills loaded", "path", path, "rows", len(skills), "skipped", skipped)
	return skills, nil
}

func (l *Loader) read(ctx context.Context, path, sqliteTable string) (*model.RawTable, error) {
	if path == "" {
		return nil, model.Unavailable(path, errors.New("no path configured"))
	}
	if _, err := os.Stat(path); err != nil {
		return nil, model.Unavailable(path, err)
	}

	var src model.RawSource
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		src = NewCSVSource(path)
	case ".db", ".sqlite", ".sqlite3":
		db, err := store.OpenReadOnly(path)
		if err != nil {
			return nil, model.Unavailable(path, err)
		}
		defer db.Close()
		src = db.Source(sqliteTable)
	default:
		return nil, model.Unavailable(path, fmt.Errorf("unsupported file type %q", ext))
	}

	raw, err := src.ReadTable(ctx)
	if err != nil {
		var de *model.DataError
		if errors.As(err, &de) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, model.Unavailable(path, err)
	}
	return raw, nil
}
