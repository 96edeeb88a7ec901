package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sgjobs/jobpulse/internal/model"
)

// Ensure CSVSource implements model.RawSource.
var _ model.RawSource = (*CSVSource)(nil)

// CSVSource reads a comma-separated file with a header row.
type CSVSource struct {
	path string
}

// NewCSVSource returns a source for the CSV file at path.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// ReadTable reads the full file. Header names are normalized with
// NormalizeColumn. Rows whose field count differs from the header are kept
// with the fields that are present; coercion decides whether they are usable.
func (s *CSVSource) ReadTable(ctx context.Context) (*model.RawTable, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, model.Unavailable(s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, model.Unavailable(s.path, errors.New("empty file"))
		}
		return nil, model.Unavailable(s.path, fmt.Errorf("read header: %w", err))
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = NormalizeColumn(h)
	}

	table := &model.RawTable{Source: s.path, Columns: columns}
	for line := 1; ; line++ {
		if line%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// A broken quote or similar; the row is unusable but the file is not.
			table.Rows = append(table.Rows, model.RawRow{Line: line})
			continue
		}
		fields := make(map[string]string, len(columns))
		for i, v := range rec {
			if i >= len(columns) {
				break
			}
			fields[columns[i]] = strings.TrimSpace(v)
		}
		table.Rows = append(table.Rows, model.RawRow{Line: line, Fields: fields})
	}
	return table, nil
}

// NormalizeColumn converts a header such as "Posting Date" to "posting_date".
func NormalizeColumn(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}
