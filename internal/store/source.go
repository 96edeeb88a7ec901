package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sgjobs/jobpulse/internal/model"
)

// Ensure TableSource implements model.RawSource.
var _ model.RawSource = (*TableSource)(nil)

// TableSource exposes one dataset table as an untyped model.RawTable so the
// loader can apply the same schema checks it applies to CSV files.
type TableSource struct {
	db    *sql.DB
	table string
}

// Source returns a RawSource reading every row of table.
func (s *SQLiteStore) Source(table string) *TableSource {
	return &TableSource{db: s.db, table: table}
}

// ReadTable selects all rows. NULL values become empty strings, which the
// loader treats as missing.
func (t *TableSource) ReadTable(ctx context.Context) (*model.RawTable, error) {
	if !knownTable(t.table) {
		return nil, fmt.Errorf("unknown table %q", t.table)
	}
	rows, err := t.db.QueryContext(ctx, "SELECT * FROM "+t.table)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", t.table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading %s columns: %w", t.table, err)
	}

	raw := &model.RawTable{Source: t.table, Columns: columns}
	values := make([]sql.NullString, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}

	line := 0
	for rows.Next() {
		line++
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scanning %s row %d: %w", t.table, line, err)
		}
		fields := make(map[string]string, len(columns))
		for i, c := range columns {
			if values[i].Valid {
				fields[c] = values[i].String
			}
		}
		raw.Rows = append(raw.Rows, model.RawRow{Line: line, Fields: fields})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s: %w", t.table, err)
	}
	return raw, nil
}
