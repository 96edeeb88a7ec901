package report

import (
	"fmt"
	"io"

	"github.com/sgjobs/jobpulse/internal/dashboard"
	"github.com/sgjobs/jobpulse/internal/model"
)

// Writer prints dashboard results in one format.
type Writer struct {
	w      io.Writer
	format Format
}

// NewWriter returns a Writer for w. An empty format means FormatTable.
func NewWriter(w io.Writer, format Format) *Writer {
	if format == "" {
		format = FormatTable
	}
	return &Writer{w: w, format: format}
}

// write encodes res as-is, or renders it through table with the notice first.
func write[T any](w *Writer, res dashboard.Result[T], table func(T) string) error {
	if w.format != FormatTable {
		return encode(w.w, w.format, res)
	}
	if _, err := fmt.Fprint(w.w, Notice(res.Notice)+table(res.Data)); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

func (w *Writer) Overview(res dashboard.Result[model.Overview]) error {
	return write(w, res, OverviewTable)
}

func (w *Writer) Summary(res dashboard.Result[dashboard.SummaryView]) error {
	return write(w, res, SummaryTables)
}

func (w *Writer) Velocity(res dashboard.Result[[]model.VelocityPoint]) error {
	return write(w, res, VelocityTable)
}

// Matrix prints the grid. Encoded output carries the flattened cells next to
// the dense grid.
func (w *Writer) Matrix(res dashboard.Result[model.BulkMatrix]) error {
	if w.format != FormatTable {
		type matrixOut struct {
			model.BulkMatrix `yaml:",inline"`
			Cells            []model.MatrixCell `json:"cells" yaml:"cells"`
		}
		out := dashboard.Result[matrixOut]{
			Data:   matrixOut{BulkMatrix: res.Data, Cells: res.Data.Cells()},
			Notice: res.Notice,
		}
		return encode(w.w, w.format, out)
	}
	return write(w, res, MatrixTable)
}

func (w *Writer) Skills(res dashboard.Result[[]model.SkillTimelinePoint]) error {
	return write(w, res, SkillsTable)
}

func (w *Writer) Experience(res dashboard.Result[dashboard.ExperienceView]) error {
	return write(w, res, ExperienceTables)
}
