package model

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"
)

func TestDataError_IsMatchesKind(t *testing.T) {
	unavailable := Unavailable("data/x.csv", fs.ErrNotExist)
	malformed := Malformed("data/x.csv", 4, "posting_date", errors.New("bad date"))

	if !errors.Is(unavailable, ErrDataUnavailable) || errors.Is(unavailable, ErrMalformedRow) {
		t.Error("Unavailable error matched the wrong sentinel")
	}
	if !errors.Is(malformed, ErrMalformedRow) || errors.Is(malformed, ErrDataUnavailable) {
		t.Error("Malformed error matched the wrong sentinel")
	}
	if !errors.Is(unavailable, fs.ErrNotExist) {
		t.Error("Unavailable should unwrap to the cause")
	}

	wrapped := fmt.Errorf("loading: %w", unavailable)
	if !errors.Is(wrapped, ErrDataUnavailable) {
		t.Error("wrapped DataError lost its kind")
	}
}

func TestDataError_Message(t *testing.T) {
	err := Malformed("jobs.csv", 7, "min_exp", errors.New("not a number"))
	msg := err.Error()
	for _, want := range []string{"MALFORMED_ROW", "jobs.csv", "line 7", `"min_exp"`, "not a number"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}
	if len(err.StackTrace()) == 0 {
		t.Error("expected a captured stack")
	}

	col := MissingColumn("jobs.csv", "category")
	if col.Kind != KindDataUnavailable || col.Column != "category" {
		t.Errorf("MissingColumn = %+v", col)
	}
}
