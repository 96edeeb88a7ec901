package experience

import (
	"math"
	"testing"
)

func ptr(v float64) *float64 { return &v }

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		minExp *float64
		want   Segment
	}{
		{name: "zero is entry", minExp: ptr(0), want: Entry},
		{name: "two is entry (right-closed)", minExp: ptr(2), want: Entry},
		{name: "two and a half is mid", minExp: ptr(2.5), want: Mid},
		{name: "five is mid", minExp: ptr(5), want: Mid},
		{name: "ten is senior", minExp: ptr(10), want: Senior},
		{name: "just above ten is expert", minExp: ptr(10.1), want: Expert},
		{name: "large value is expert", minExp: ptr(40), want: Expert},
		{name: "negative is unsegmented", minExp: ptr(-1), want: Unsegmented},
		{name: "nan is unsegmented", minExp: ptr(math.NaN()), want: Unsegmented},
		{name: "missing is unsegmented", minExp: nil, want: Unsegmented},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.minExp); got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassify_Sequence(t *testing.T) {
	in := []*float64{ptr(0), ptr(2), ptr(2.5), ptr(10), ptr(10.1), ptr(-1), nil}
	want := []string{"0-2", "0-2", ">2-5", "5-10", "10+", "unsegmented", "unsegmented"}
	for i, v := range in {
		if got := string(Classify(v)); got != want[i] {
			t.Errorf("Classify(in[%d]) = %q, want %q", i, got, want[i])
		}
	}
}

func TestSegmentLabel(t *testing.T) {
	if got := Entry.Label(); got != "0-2 yrs (Entry/Junior)" {
		t.Errorf("Entry.Label() = %q", got)
	}
	if got := Segment("odd").Label(); got != "odd" {
		t.Errorf("unknown Label() = %q, want passthrough", got)
	}
	if n := len(Segments()); n != 4 {
		t.Errorf("len(Segments()) = %d, want 4", n)
	}
}
