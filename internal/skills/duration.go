package skills

import (
	"iter"
	"slices"
	"time"
)

// DurationFunc reduces a set of occurrences to a number of months of experience.
type DurationFunc func(occurrences iter.Seq[*Occurrence]) float64

// Span is a closed date interval.
type Span struct {
	Start time.Time
	End   time.Time
}

// MonthsBetween returns the whole calendar-month difference from a to b.
// It ignores the day of month and is negative when a is after b.
func MonthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

// Spans collects the date interval of every occurrence that has both dates.
// Inverted intervals (end before start) are dropped.
func Spans(occurrences iter.Seq[*Occurrence]) []Span {
	var spans []Span
	for occ := range occurrences {
		if occ.StartDate == nil || occ.EndDate == nil {
			continue
		}
		if occ.EndDate.Before(*occ.StartDate) {
			continue
		}
		spans = append(spans, Span{Start: *occ.StartDate, End: *occ.EndDate})
	}
	return spans
}

// MergeSpans merges overlapping or touching spans. The input is not modified.
func MergeSpans(spans []Span) []Span {
	if len(spans) == 0 {
		return nil
	}
	sorted := slices.Clone(spans)
	slices.SortFunc(sorted, func(a, b Span) int {
		return a.Start.Compare(b.Start)
	})

	merged := make([]Span, 0, len(sorted))
	current := sorted[0]
	for _, s := range sorted[1:] {
		if !s.Start.After(current.End) {
			if s.End.After(current.End) {
				current.End = s.End
			}
			continue
		}
		merged = append(merged, current)
		current = s
	}
	return append(merged, current)
}

// CareerMonths is the whole-month DurationFunc used for the career and per-work axes.
// Overlapping time is counted once.
func CareerMonths(occurrences iter.Seq[*Occurrence]) float64 {
	total := 0
	for _, s := range MergeSpans(Spans(occurrences)) {
		total += max(0, MonthsBetween(s.Start, s.End))
	}
	return float64(total)
}

// YearMonths returns a DurationFunc that counts only time inside the given calendar year,
// weighting partial months by day of month.
func YearMonths(year int) DurationFunc {
	return CumulativeMonths(year, year)
}

// CumulativeMonths returns a DurationFunc counting time from January 1 of first through
// December 31 of last. It equals the sum of YearMonths over first..last, since a month
// fraction is zero on January 1. last < first counts nothing.
func CumulativeMonths(first, last int) DurationFunc {
	from, to := yearStart(first), yearStart(last+1)
	return func(occurrences iter.Seq[*Occurrence]) float64 {
		if last < first {
			return 0
		}
		return clippedMonths(from, to, Spans(occurrences))
	}
}

func yearStart(year int) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// clippedMonths is the fractional merged duration of spans inside [from, to).
func clippedMonths(from, to time.Time, spans []Span) float64 {
	clipped := make([]Span, 0, len(spans))
	for _, s := range spans {
		start, end := s.Start, s.End
		if start.Before(from) {
			start = from
		}
		if end.After(to) {
			end = to
		}
		if !end.After(start) {
			continue
		}
		clipped = append(clipped, Span{Start: start, End: end})
	}

	total := 0.0
	for _, s := range MergeSpans(clipped) {
		total += max(0, fractionalMonths(s.Start, s.End))
	}
	return total
}

// fractionalMonths is MonthsBetween refined by the elapsed fraction of the first and last month.
func fractionalMonths(a, b time.Time) float64 {
	return float64(MonthsBetween(a, b)) + monthFraction(b) - monthFraction(a)
}

func monthFraction(t time.Time) float64 {
	return float64(t.Day()-1) / float64(daysIn(t.Year(), t.Month()))
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
