package types

import "time"

// SkillReport is the serializable snapshot of one skill analysis.
type SkillReport struct {
	Candidate      string               `json:"candidate,omitempty"`
	GeneratedAt    time.Time            `json:"generated_at"`
	Now            time.Time            `json:"now"`
	Skills         []SkillNode          `json:"skills"`
	TopLevel       []string             `json:"top_level"`
	Career         StatsNode            `json:"career"`
	Work           map[string]StatsNode `json:"work"`
	Year           map[string]StatsNode `json:"year"`
	YearCumulative map[string]StatsNode `json:"year_cumulative"`
}

// SkillNode describes one node of the de-duplicated skill tree.
type SkillNode struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Children    []string `json:"children"`
	Parents     []string `json:"parents"`
	IsCategory  bool     `json:"is_category"`
	IsSkill     bool     `json:"is_skill"`
	Occurrences int      `json:"occurrences"`
}

// StatsNode is one node of an aggregation axis: the experience attributed to a skill
// and everything beneath it within that axis.
type StatsNode struct {
	Name        string      `json:"name"`
	Months      float64     `json:"months"`
	Occurrences int         `json:"occurrences"`
	Children    []StatsNode `json:"children,omitempty"`
}

// SkillDetail collects one skill's node and its stats on every axis of a report.
type SkillDetail struct {
	Skill          SkillNode            `json:"skill"`
	Career         StatsNode            `json:"career"`
	Work           map[string]StatsNode `json:"work"`
	Year           map[string]StatsNode `json:"year"`
	YearCumulative map[string]StatsNode `json:"year_cumulative"`
}

// Detail looks up a skill by name across the report. Axis entries where the skill
// is absent are omitted.
func (r *SkillReport) Detail(name string) (*SkillDetail, bool) {
	var node *SkillNode
	for i := range r.Skills {
		if r.Skills[i].Name == name {
			node = &r.Skills[i]
			break
		}
	}
	if node == nil {
		return nil, false
	}

	d := &SkillDetail{
		Skill:          *node,
		Career:         StatsNode{Name: name},
		Work:           findInAxis(r.Work, name),
		Year:           findInAxis(r.Year, name),
		YearCumulative: findInAxis(r.YearCumulative, name),
	}
	if s, ok := findBelow(r.Career, name); ok {
		d.Career = s
	}
	return d, true
}

// FindStats searches root's subtree depth-first for the node named name.
func FindStats(root StatsNode, name string) (StatsNode, bool) {
	if root.Name == name {
		return root, true
	}
	for _, c := range root.Children {
		if s, ok := FindStats(c, name); ok {
			return s, true
		}
	}
	return StatsNode{}, false
}

// findBelow is FindStats excluding root itself.
func findBelow(root StatsNode, name string) (StatsNode, bool) {
	for _, c := range root.Children {
		if s, ok := FindStats(c, name); ok {
			return s, true
		}
	}
	return StatsNode{}, false
}

func findInAxis(axis map[string]StatsNode, name string) map[string]StatsNode {
	out := make(map[string]StatsNode, len(axis))
	for key, root := range axis {
		if s, ok := findBelow(root, name); ok {
			out[key] = s
		}
	}
	return out
}
