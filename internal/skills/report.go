package skills

import (
	"cmp"
	"slices"
	"strconv"
	"time"

	"github.com/jonathan/resume-insights/internal/types"
)

// Report converts the analysis into its serializable snapshot.
func (a *Analyzer) Report() *types.SkillReport {
	report := &types.SkillReport{
		Candidate:      a.Resume.Basics.Name,
		GeneratedAt:    time.Now().UTC(),
		Now:            a.Now,
		Skills:         make([]types.SkillNode, 0, a.Tree.Len()),
		TopLevel:       nonNil(a.Tree.TopLevel()),
		Career:         statsNode(a.Career.Root),
		Work:           make(map[string]types.StatsNode, len(a.Work)),
		Year:           make(map[string]types.StatsNode, len(a.Year)),
		YearCumulative: make(map[string]types.StatsNode, len(a.YearCumulative)),
	}

	for node := range a.Tree.All() {
		report.Skills = append(report.Skills, types.SkillNode{
			ID:          node.ID,
			Name:        node.Name,
			Children:    nonNil(node.Children()),
			Parents:     nonNil(a.Tree.Parents(node.Name)),
			IsCategory:  node.IsCategory,
			IsSkill:     node.IsSkill,
			Occurrences: len(node.Occurrences),
		})
	}
	for id, x := range a.Work {
		report.Work[id] = statsNode(x.Root)
	}
	for y, x := range a.Year {
		report.Year[strconv.Itoa(y)] = statsNode(x.Root)
	}
	for y, x := range a.YearCumulative {
		report.YearCumulative[strconv.Itoa(y)] = statsNode(x.Root)
	}
	return report
}

// TopCategories returns up to n top-level skills of the career axis ordered by months,
// longest first, as report nodes. n <= 0 returns all of them.
func (a *Analyzer) TopCategories(n int) []types.StatsNode {
	top := slices.Clone(a.Career.Root.Children)
	slices.SortStableFunc(top, func(x, y *Stats) int {
		if c := cmp.Compare(y.Months, x.Months); c != 0 {
			return c
		}
		return cmp.Compare(x.Name(), y.Name())
	})
	if n > 0 && len(top) > n {
		top = top[:n]
	}
	nodes := make([]types.StatsNode, len(top))
	for i, s := range top {
		nodes[i] = statsNode(s)
	}
	return nodes
}

func statsNode(s *Stats) types.StatsNode {
	node := types.StatsNode{
		Name:        s.Name(),
		Months:      s.Months,
		Occurrences: len(s.Own),
	}
	for _, c := range s.Children {
		node.Children = append(node.Children, statsNode(c))
	}
	return node
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
