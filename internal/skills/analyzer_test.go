package skills

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonathan/resume-insights/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exampleResume() *types.Resume {
	return &types.Resume{
		Basics: types.Basics{Name: "Ada"},
		Skills: []types.SkillMention{
			mention("JavaScript", "ES6", "TypeScript"),
		},
		Work: []types.Work{
			{
				ID:        "acme",
				Name:      "Acme",
				StartDate: types.NewDate(2020, time.January, 1),
				EndDate:   types.NewDate(2021, time.January, 1),
				Skills: []types.SkillMention{
					mention("React", "JavaScript"),
					mention("JavaScript"),
				},
			},
		},
	}
}

func TestAnalyze_NilResume(t *testing.T) {
	a, err := Analyze(nil)

	assert.Nil(t, a)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoResume))
	var analysisErr *AnalysisError
	assert.True(t, errors.As(err, &analysisErr))
}

func TestAnalyze_ExampleScenario(t *testing.T) {
	a, err := Analyze(exampleResume(), WithNow(*day(2021, 6, 1)))
	require.NoError(t, err)

	js, ok := a.Tree.Get("JavaScript")
	require.True(t, ok)
	assert.Equal(t, []string{"ES6", "TypeScript"}, js.Children())
	react, _ := a.Tree.Get("React")
	assert.Equal(t, []string{"JavaScript"}, react.Children())
	assert.Empty(t, a.Tree.RemovedEdges())
	assert.Equal(t, []string{"React"}, a.Tree.TopLevel())

	require.Contains(t, a.Work, "acme")
	assert.Equal(t, 12.0, a.Work["acme"].Months("JavaScript"))
	assert.Equal(t, 12.0, a.Work["acme"].Months("React"))
	assert.Equal(t, 12.0, a.Career.Months("JavaScript"))
	assert.Equal(t, 12.0, a.Career.Root.Months)
	assert.Equal(t, CareerRoot, a.Career.Name())

	assert.Equal(t, 3, a.Occurrences.Len())
	assert.Equal(t, []string{"acme"}, a.WorkIDs())
	assert.Equal(t, []int{2020, 2021}, a.Years())
	assert.InDelta(t, 12.0, a.Year[2020].Months("React"), 1e-9)
	assert.InDelta(t, 0.0, a.Year[2021].Months("React"), 1e-9)
	assert.InDelta(t, 12.0, a.YearCumulative[2021].Months("React"), 1e-9)
}

func TestAnalyze_ProfileSkillsEndAtNow(t *testing.T) {
	resume := &types.Resume{
		Skills: []types.SkillMention{
			{Name: "Go", StartDate: types.NewDate(2020, time.January, 1)},
		},
	}

	a, err := Analyze(resume, WithNow(*day(2020, 10, 1)))
	require.NoError(t, err)

	assert.Equal(t, 9.0, a.Career.Months("Go"))
	occurrences := a.Occurrences.Get("Go")
	require.Len(t, occurrences, 1)
	assert.Equal(t, SourceProfile, occurrences[0].Source.Source)
	assert.Equal(t, ProfileSourceID, occurrences[0].Source.ID)
}

func TestAnalyze_CurrentPositionEndsAtNow(t *testing.T) {
	resume := &types.Resume{
		Work: []types.Work{{
			ID:        "current",
			Name:      "Now Inc",
			StartDate: types.NewDate(2020, time.January, 1),
			Skills:    []types.SkillMention{mention("Go")},
		}},
	}

	a, err := Analyze(resume, WithNow(*day(2020, 7, 1)))
	require.NoError(t, err)

	assert.Equal(t, 6.0, a.Work["current"].Months("Go"))
}

func TestAnalyze_WorkIndicesAreScoped(t *testing.T) {
	resume := &types.Resume{
		Work: []types.Work{
			{
				ID:        "first",
				Name:      "First",
				StartDate: types.NewDate(2018, time.January, 1),
				EndDate:   types.NewDate(2019, time.January, 1),
				Skills:    []types.SkillMention{mention("Go"), mention("SQL")},
			},
			{
				ID:        "second",
				Name:      "Second",
				StartDate: types.NewDate(2018, time.July, 1),
				EndDate:   types.NewDate(2020, time.January, 1),
				Skills:    []types.SkillMention{mention("Go")},
			},
		},
	}

	a, err := Analyze(resume, WithNow(*day(2022, 1, 1)))
	require.NoError(t, err)

	assert.Equal(t, 12.0, a.Work["first"].Months("Go"))
	assert.Equal(t, 18.0, a.Work["second"].Months("Go"))
	assert.Equal(t, 0.0, a.Work["second"].Months("SQL"))
	assert.Equal(t, 24.0, a.Career.Months("Go"), "overlapping jobs counted once")
	assert.Equal(t, []string{"first", "second"}, a.WorkIDs())
}

func TestAnalyze_GeneratesMissingWorkIDs(t *testing.T) {
	resume := &types.Resume{
		Work: []types.Work{{
			Name:      "Anonymous",
			StartDate: types.NewDate(2019, time.January, 1),
			EndDate:   types.NewDate(2019, time.June, 1),
			Skills:    []types.SkillMention{mention("Go")},
		}},
	}

	a, err := Analyze(resume, WithNow(*day(2022, 1, 1)))
	require.NoError(t, err)

	id := types.WorkID(0, resume.Work[0])
	assert.Equal(t, []string{id}, a.WorkIDs())
	assert.Equal(t, 5.0, a.Work[id].Months("Go"))
	assert.Empty(t, resume.Work[0].ID, "input resume is not modified")
}

func TestAnalyze_DuplicateWorkIDsShareIndex(t *testing.T) {
	resume := &types.Resume{
		Work: []types.Work{
			{ID: "acme", Name: "Acme", StartDate: types.NewDate(2018, time.January, 1), EndDate: types.NewDate(2018, time.April, 1), Skills: []types.SkillMention{mention("Go")}},
			{ID: "acme", Name: "Acme", StartDate: types.NewDate(2020, time.January, 1), EndDate: types.NewDate(2020, time.April, 1), Skills: []types.SkillMention{mention("Go")}},
		},
	}

	a, err := Analyze(resume, WithNow(*day(2022, 1, 1)))
	require.NoError(t, err)

	assert.Equal(t, []string{"acme"}, a.WorkIDs())
	assert.Equal(t, 6.0, a.Work["acme"].Months("Go"))
}

func TestAnalyze_CumulativeIsMonotonic(t *testing.T) {
	resume := &types.Resume{
		Skills: []types.SkillMention{
			mention("Languages", "Go", "Python"),
			{Name: "Python", StartDate: types.NewDate(2016, time.September, 15), EndDate: types.NewDate(2017, time.March, 1)},
		},
		Work: []types.Work{
			{
				ID:        "one",
				Name:      "One",
				StartDate: types.NewDate(2018, time.March, 15),
				EndDate:   types.NewDate(2019, time.August, 1),
				Skills:    []types.SkillMention{mention("Go"), mention("Docker")},
			},
			{
				ID:        "two",
				Name:      "Two",
				StartDate: types.NewDate(2019, time.June, 1),
				Skills:    []types.SkillMention{mention("Python"), mention("Docker")},
			},
		},
	}

	a, err := Analyze(resume, WithNow(*day(2022, 5, 10)))
	require.NoError(t, err)

	years := a.Years()
	require.Equal(t, []int{2016, 2017, 2018, 2019, 2020, 2021, 2022}, years)

	for i := 1; i < len(years); i++ {
		prev, cur := a.YearCumulative[years[i-1]], a.YearCumulative[years[i]]
		assert.GreaterOrEqual(t, cur.Root.Months, prev.Root.Months, "root %d", years[i])
		for _, name := range a.Tree.Names() {
			assert.GreaterOrEqual(t, cur.Months(name), prev.Months(name), "%s in %d", name, years[i])
		}
	}

	total := 0.0
	for _, y := range years {
		total += a.Year[y].Months("Docker")
	}
	assert.InDelta(t, total, a.YearCumulative[2022].Months("Docker"), 1e-9)
}

func TestAnalyze_YearPartitionOnlyHoldsOverlappingOccurrences(t *testing.T) {
	resume := &types.Resume{
		Work: []types.Work{
			{ID: "old", Name: "Old", StartDate: types.NewDate(2015, time.January, 1), EndDate: types.NewDate(2015, time.June, 1), Skills: []types.SkillMention{mention("Perl")}},
			{ID: "new", Name: "New", StartDate: types.NewDate(2020, time.January, 1), EndDate: types.NewDate(2020, time.June, 1), Skills: []types.SkillMention{mention("Go")}},
		},
	}

	a, err := Analyze(resume, WithNow(*day(2022, 1, 1)))
	require.NoError(t, err)

	assert.Equal(t, []int{2015, 2020}, a.Years())
	perl, ok := a.Year[2020].Get("Perl")
	require.True(t, ok, "tree shape is shared by every index")
	assert.Empty(t, perl.Own)
	assert.Equal(t, 0.0, perl.Months)
	assert.InDelta(t, 5.0, a.YearCumulative[2020].Months("Perl"), 1e-9)
}

func TestAnalyze_WideYearRange(t *testing.T) {
	resume := &types.Resume{
		Skills: []types.SkillMention{
			mention("Languages", "Go", "COBOL"),
			{Name: "COBOL", StartDate: types.NewDate(1900, time.January, 1), EndDate: types.NewDate(1950, time.January, 1)},
			{Name: "Go", StartDate: types.NewDate(2012, time.July, 1)},
		},
	}

	a, err := Analyze(resume, WithNow(*day(2024, 1, 1)))
	require.NoError(t, err)

	years := a.Years()
	require.Len(t, years, 51+13, "1900-1950 and 2012-2024")
	last := a.YearCumulative[2024]
	assert.InDelta(t, 600.0, last.Months("COBOL"), 1e-9)
	assert.InDelta(t, 138.0, last.Months("Go"), 1e-9)
	assert.InDelta(t, 738.0, last.Months("Languages"), 1e-9)
	assert.InDelta(t, a.Career.Months("Languages"), last.Months("Languages"), 1e-9)
	assert.InDelta(t, 600.0, a.YearCumulative[1950].Months("COBOL"), 1e-9)
	assert.InDelta(t, 0.0, a.Year[1950].Months("COBOL"), 1e-9)
}

func TestAnalyzeAsync(t *testing.T) {
	a, err := AnalyzeAsync(context.Background(), exampleResume(), WithNow(*day(2021, 6, 1)))
	require.NoError(t, err)
	assert.Equal(t, 12.0, a.Career.Months("React"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a, err = AnalyzeAsync(ctx, exampleResume())
	assert.Nil(t, a)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = AnalyzeAsync(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoResume)
}
