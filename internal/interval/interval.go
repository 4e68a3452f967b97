// Package interval содержит чистую интервальную арифметику движка
// планирования: пересечения полуоткрытых интервалов, нормализацию перехода
// через полночь, буферные зоны и поиск свободных окон.
//
// Все интервалы полуоткрытые [Start, End): граничащие интервалы
// (конец одного равен началу другого) пересечением НЕ считаются.
package interval

import (
	"time"

	"github.com/m04kA/TMS-SchedulingService/pkg/types"
)

// Overlap classifies how two spans relate
type Overlap int

const (
	OverlapNone Overlap = iota
	OverlapPartial
	OverlapContained // one span fully contains the other
)

// Span is an absolute half-open time interval [Start, End)
type Span struct {
	Start time.Time
	End   time.Time
}

// IsValid reports whether End is strictly after Start
func (s Span) IsValid() bool {
	return s.End.After(s.Start)
}

// Duration returns the span length
func (s Span) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// Contains reports whether s fully contains other
func (s Span) Contains(other Span) bool {
	return !other.Start.Before(s.Start) && !other.End.After(s.End)
}

// Expand widens the span by the given number of minutes on both sides
func (s Span) Expand(minutes int) Span {
	d := time.Duration(minutes) * time.Minute
	return Span{Start: s.Start.Add(-d), End: s.End.Add(d)}
}

// Overlaps reports whether two half-open spans intersect.
// [a.Start, a.End) и [b.Start, b.End) пересекаются тогда и только тогда,
// когда a.Start < b.End && b.Start < a.End. Строгие неравенства -
// граничные интервалы не пересекаются.
func Overlaps(a, b Span) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// Detect classifies the intersection of two spans.
// Symmetric: Detect(a, b) == Detect(b, a) for all pairs.
func Detect(a, b Span) Overlap {
	if !Overlaps(a, b) {
		return OverlapNone
	}
	if a.Contains(b) || b.Contains(a) {
		return OverlapContained
	}
	return OverlapPartial
}

// NormalizeDayBoundary expands a calendar date plus wall-clock start/end
// into an absolute span in loc. An end time numerically less than the
// start time means the window crosses midnight into the following day;
// end == "00:00" maps to midnight of the following day.
//
// end == start дает нулевой интервал (Span.IsValid() == false) -
// вызывающая сторона трактует это как invalid_time_boundary.
func NormalizeDayBoundary(date time.Time, start, end types.TimeString, loc *time.Location) (Span, error) {
	startMin, err := start.Minutes()
	if err != nil {
		return Span{}, err
	}

	endMin, err := end.Minutes()
	if err != nil {
		return Span{}, err
	}

	year, month, day := date.Date()
	s := time.Date(year, month, day, startMin/60, startMin%60, 0, 0, loc)

	endDate := date
	if endMin < startMin {
		endDate = date.AddDate(0, 0, 1)
	}
	ey, em, ed := endDate.Date()
	e := time.Date(ey, em, ed, endMin/60, endMin%60, 0, 0, loc)

	return Span{Start: s, End: e}, nil
}

// BufferViolation describes an existing span whose buffer zone intersects
// a candidate. Index refers to the input slice.
type BufferViolation struct {
	Index   int
	Zone    Span    // the buffer-expanded window that was hit
	Overlap Overlap // how the candidate intersects the zone
	Direct  bool    // true if the candidate hits the raw span, not just the buffer
}

// BufferImpact expands every existing span by bufferMinutes on both sides
// and returns a violation for each zone the candidate intersects.
// An empty result means the candidate respects the buffer policy.
func BufferImpact(candidate Span, existing []Span, bufferMinutes int) []BufferViolation {
	violations := make([]BufferViolation, 0)

	for i, span := range existing {
		zone := span.Expand(bufferMinutes)
		if !Overlaps(candidate, zone) {
			continue
		}
		violations = append(violations, BufferViolation{
			Index:   i,
			Zone:    zone,
			Overlap: Detect(candidate, zone),
			Direct:  Overlaps(candidate, span),
		})
	}

	return violations
}

// DayBounds returns the calendar day span containing t, in loc
func DayBounds(t time.Time, loc *time.Location) Span {
	year, month, day := t.In(loc).Date()
	start := time.Date(year, month, day, 0, 0, 0, 0, loc)
	return Span{Start: start, End: start.AddDate(0, 0, 1)}
}

// WeekBounds returns the Monday-to-Monday week span containing t, in loc.
// Единственное определение границ недели для недельных лимитов.
func WeekBounds(t time.Time, loc *time.Location) Span {
	local := t.In(loc)
	year, month, day := local.Date()
	midnight := time.Date(year, month, day, 0, 0, 0, 0, loc)

	// time.Weekday: Sunday = 0
	offset := int(local.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}

	start := midnight.AddDate(0, 0, -offset)
	return Span{Start: start, End: start.AddDate(0, 0, 7)}
}

// SameDay reports whether two instants fall on the same calendar day in loc
func SameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
