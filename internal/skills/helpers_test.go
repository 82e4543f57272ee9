package skills

import (
	"iter"
	"slices"
	"time"

	"github.com/jonathan/resume-insights/internal/types"
)

func day(year int, month time.Month, d int) *time.Time {
	t := time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func occ(name string, start, end *time.Time, keywords ...string) *Occurrence {
	return &Occurrence{
		Name:      name,
		Keywords:  keywords,
		Source:    SourceID{Source: SourceProfile, ID: ProfileSourceID},
		StartDate: start,
		EndDate:   end,
	}
}

func seq(occurrences ...*Occurrence) iter.Seq[*Occurrence] {
	return slices.Values(occurrences)
}

func mention(name string, keywords ...string) types.SkillMention {
	return types.SkillMention{Name: name, Keywords: keywords}
}

// reachesItself reports whether name can be reached again by following child edges.
func reachesItself(t *Tree, name string) bool {
	seen := make(map[string]bool)
	stack := []string{name}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node, ok := t.Get(cur)
		if !ok {
			continue
		}
		for _, child := range node.Children() {
			if child == name {
				return true
			}
			if !seen[child] {
				seen[child] = true
				stack = append(stack, child)
			}
		}
	}
	return false
}
