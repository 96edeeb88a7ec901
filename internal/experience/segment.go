// Package experience bins years-of-experience values into fixed segments.
package experience

import "math"

// Segment is one experience bucket.
type Segment string

const (
	Entry       Segment = "0-2"
	Mid         Segment = ">2-5"
	Senior      Segment = "5-10"
	Expert      Segment = "10+"
	Unsegmented Segment = "unsegmented"
)

var labels = map[Segment]string{
	Entry:       "0-2 yrs (Entry/Junior)",
	Mid:         ">2-5 yrs (Mid-Level)",
	Senior:      ">5-10 yrs (Senior)",
	Expert:      "10+ yrs (Expert)",
	Unsegmented: "Unsegmented",
}

// Segments returns the four real buckets in ascending order.
func Segments() []Segment {
	return []Segment{Entry, Mid, Senior, Expert}
}

// Label returns the display label, e.g. "0-2 yrs (Entry/Junior)".
func (s Segment) Label() string {
	if l, ok := labels[s]; ok {
		return l
	}
	return string(s)
}

// Classify maps years of experience onto the right-closed intervals
// [0,2], (2,5], (5,10], (10,inf). Nil, NaN and negative values are Unsegmented.
func Classify(minExp *float64) Segment {
	if minExp == nil {
		return Unsegmented
	}
	return ClassifyValue(*minExp)
}

// ClassifyValue is Classify for a present value.
func ClassifyValue(v float64) Segment {
	switch {
	case math.IsNaN(v) || v < 0:
		return Unsegmented
	case v <= 2:
		return Entry
	case v <= 5:
		return Mid
	case v <= 10:
		return Senior
	default:
		return Expert
	}
}
