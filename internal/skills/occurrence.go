package skills

import (
	"iter"
	"slices"
	"strings"
	"time"

	"github.com/jonathan/resume-insights/internal/types"
)

// Source identifies the resume section a skill mention came from.
type Source string

const (
	// SourceProfile is the resume's top-level skills section.
	SourceProfile Source = "skills"
	// SourceWork is the skills list of one work entry.
	SourceWork Source = "work"
)

// SourceID tags a batch of mentions with where they came from. Its dates bound the
// mentions that carry no dates of their own.
type SourceID struct {
	Source    Source
	ID        string
	StartDate *time.Time
	EndDate   *time.Time
}

// Occurrence is one skill mention with its source and resolved date range.
type Occurrence struct {
	Name      string
	Level     string
	Keywords  []string
	Source    SourceID
	StartDate *time.Time
	EndDate   *time.Time
}

func newOccurrence(m types.SkillMention, src SourceID) *Occurrence {
	occ := &Occurrence{
		Name:      strings.TrimSpace(m.Name),
		Level:     m.Level,
		Source:    src,
		StartDate: m.StartDate.TimePtr(),
		EndDate:   m.EndDate.TimePtr(),
	}
	if occ.StartDate == nil {
		occ.StartDate = src.StartDate
	}
	if occ.EndDate == nil {
		occ.EndDate = src.EndDate
	}
	for _, kw := range m.Keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			occ.Keywords = append(occ.Keywords, kw)
		}
	}
	return occ
}

// OccurrenceIndex groups occurrences by skill name. Occurrences are never removed;
// filtered views are new indices.
type OccurrenceIndex struct {
	buckets map[string][]*Occurrence
	names   []string
	size    int
}

// NewOccurrenceIndex returns an empty index.
func NewOccurrenceIndex() *OccurrenceIndex {
	return &OccurrenceIndex{buckets: make(map[string][]*Occurrence)}
}

// IndexOccurrences builds an index from a sequence of occurrences.
func IndexOccurrences(occurrences iter.Seq[*Occurrence]) *OccurrenceIndex {
	x := NewOccurrenceIndex()
	for occ := range occurrences {
		x.Add(occ)
	}
	return x
}

// Append adds a batch of mentions tagged with src and returns the index.
// Mentions with an empty name are skipped.
func (x *OccurrenceIndex) Append(mentions []types.SkillMention, src SourceID) *OccurrenceIndex {
	for _, m := range mentions {
		occ := newOccurrence(m, src)
		if occ.Name == "" {
			continue
		}
		x.Add(occ)
	}
	return x
}

// Add inserts a single occurrence under its name.
func (x *OccurrenceIndex) Add(occ *Occurrence) {
	if _, ok := x.buckets[occ.Name]; !ok {
		x.names = append(x.names, occ.Name)
	}
	x.buckets[occ.Name] = append(x.buckets[occ.Name], occ)
	x.size++
}

// Merge adds every occurrence of other to x and returns x.
func (x *OccurrenceIndex) Merge(other *OccurrenceIndex) *OccurrenceIndex {
	for occ := range other.All() {
		x.Add(occ)
	}
	return x
}

// Get returns the occurrences recorded for name.
func (x *OccurrenceIndex) Get(name string) []*Occurrence {
	return x.buckets[name]
}

// Names returns the indexed skill names in first-seen order.
func (x *OccurrenceIndex) Names() []string {
	return slices.Clone(x.names)
}

// Len returns the total number of occurrences.
func (x *OccurrenceIndex) Len() int {
	return x.size
}

// All yields every occurrence, bucket by bucket in first-seen order.
func (x *OccurrenceIndex) All() iter.Seq[*Occurrence] {
	return func(yield func(*Occurrence) bool) {
		for _, name := range x.names {
			for _, occ := range x.buckets[name] {
				if !yield(occ) {
					return
				}
			}
		}
	}
}

// Filter returns a new index holding the occurrences for which keep returns true.
func (x *OccurrenceIndex) Filter(keep func(*Occurrence) bool) *OccurrenceIndex {
	return IndexOccurrences(func(yield func(*Occurrence) bool) {
		for occ := range x.All() {
			if keep(occ) && !yield(occ) {
				return
			}
		}
	})
}

// Years returns the calendar years touched by the occurrence's date range, ascending.
// An occurrence with a single date touches only that date's year.
func (o *Occurrence) Years() []int {
	switch {
	case o.StartDate == nil && o.EndDate == nil:
		return nil
	case o.StartDate == nil:
		return []int{o.EndDate.Year()}
	case o.EndDate == nil:
		return []int{o.StartDate.Year()}
	}
	from, to := o.StartDate.Year(), o.EndDate.Year()
	if to < from {
		from, to = to, from
	}
	years := make([]int, 0, to-from+1)
	for y := from; y <= to; y++ {
		years = append(years, y)
	}
	return years
}
