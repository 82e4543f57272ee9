package skills

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"time"

	"github.com/jonathan/resume-insights/internal/types"
	"go.uber.org/zap"
)

// CareerRoot names the synthetic root of the whole-career index.
const CareerRoot = "Career"

// ProfileSourceID identifies the resume's skills section.
const ProfileSourceID = "skills"

// Analyzer holds everything derived from one resume. It is built once by Analyze and
// never modified; analyzing a new resume produces a new Analyzer.
type Analyzer struct {
	Resume      *types.Resume
	Now         time.Time
	Tree        *Tree
	Occurrences *OccurrenceIndex

	Career         *StatsIndex
	Work           map[string]*StatsIndex
	Year           map[int]*StatsIndex
	YearCumulative map[int]*StatsIndex

	workIDs []string
	years   []int
}

// Option configures Analyze.
type Option func(*options)

type options struct {
	now    time.Time
	logger *zap.Logger
}

// WithNow sets the date that closes open-ended ranges: undated profile skills and
// current positions. Without it the wall clock at call time is used.
func WithNow(now time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithLogger sets the logger used for skipped skills and timing.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Analyze builds the skill tree of resume and its career, per-work, per-year and
// cumulative-by-year stats indices.
func Analyze(resume *types.Resume, opts ...Option) (*Analyzer, error) {
	if resume == nil {
		return nil, &AnalysisError{Message: "resume is required", Cause: ErrNoResume}
	}
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.now.IsZero() {
		o.now = time.Now()
	}
	now := o.now.UTC()
	logger := o.logger.With(zap.String("candidate", resume.Basics.Name))
	started := time.Now()

	a := &Analyzer{
		Resume:         resume,
		Now:            now,
		Work:           make(map[string]*StatsIndex),
		Year:           make(map[int]*StatsIndex),
		YearCumulative: make(map[int]*StatsIndex),
	}

	profile := NewOccurrenceIndex().Append(resume.Skills, SourceID{
		Source:  SourceProfile,
		ID:      ProfileSourceID,
		EndDate: &now,
	})

	work := make(map[string]*OccurrenceIndex)
	for i, w := range resume.Work {
		id := types.WorkID(i, w)
		end := w.EndDate.TimePtr()
		if end == nil {
			end = &now
		}
		idx, ok := work[id]
		if !ok {
			idx = NewOccurrenceIndex()
			work[id] = idx
			a.workIDs = append(a.workIDs, id)
		}
		idx.Append(w.Skills, SourceID{
			Source:    SourceWork,
			ID:        id,
			StartDate: w.StartDate.TimePtr(),
			EndDate:   end,
		})
	}

	a.Occurrences = NewOccurrenceIndex().Merge(profile)
	for _, id := range a.workIDs {
		a.Occurrences.Merge(work[id])
	}

	a.Tree = BuildTree(a.Occurrences.All())
	for _, e := range a.Tree.RemovedEdges() {
		logger.Debug("removed cyclic keyword edge", zap.String("parent", e.Parent), zap.String("child", e.Child))
	}
	top := a.Tree.TopLevel()

	byYear := make(map[int][]*Occurrence)
	for occ := range a.Occurrences.All() {
		for _, y := range occ.Years() {
			byYear[y] = append(byYear[y], occ)
		}
	}
	a.years = slices.Sorted(maps.Keys(byYear))

	for _, y := range a.years {
		a.Year[y] = BuildStatsIndex(strconv.Itoa(y), top, a.Tree,
			IndexOccurrences(slices.Values(byYear[y])), YearMonths(y), logger)
	}

	seen := make(map[*Occurrence]struct{})
	var cumulative []*Occurrence
	for _, y := range a.years {
		for _, occ := range byYear[y] {
			if _, ok := seen[occ]; !ok {
				seen[occ] = struct{}{}
				cumulative = append(cumulative, occ)
			}
		}
		a.YearCumulative[y] = BuildStatsIndex(strconv.Itoa(y), top, a.Tree,
			IndexOccurrences(slices.Values(cumulative)), CumulativeMonths(a.years[0], y), logger)
	}

	a.Career = BuildStatsIndex(CareerRoot, top, a.Tree, a.Occurrences, CareerMonths, logger)

	for _, id := range a.workIDs {
		a.Work[id] = BuildStatsIndex(id, top, a.Tree, work[id], CareerMonths, logger)
	}

	logger.Debug("skill analysis complete",
		zap.Int("occurrences", a.Occurrences.Len()),
		zap.Int("skills", a.Tree.Len()),
		zap.Int("years", len(a.years)),
		zap.Int("work_entries", len(a.workIDs)),
		zap.Duration("elapsed", time.Since(started)))

	return a, nil
}

// AnalyzeAsync runs Analyze on its own goroutine. When ctx ends first the in-flight
// result is discarded and ctx.Err() is returned.
func AnalyzeAsync(ctx context.Context, resume *types.Resume, opts ...Option) (*Analyzer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type result struct {
		analyzer *Analyzer
		err      error
	}
	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: &AnalysisError{Message: fmt.Sprintf("analysis panicked: %v", r)}}
			}
		}()
		a, err := Analyze(resume, opts...)
		done <- result{analyzer: a, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.analyzer, r.err
	}
}

// Years returns every calendar year touched by an occurrence, ascending.
func (a *Analyzer) Years() []int {
	return slices.Clone(a.years)
}

// WorkIDs returns the work entry ids in resume order.
func (a *Analyzer) WorkIDs() []string {
	return slices.Clone(a.workIDs)
}
