package skills

import (
	"iter"
	"maps"
	"slices"

	"go.uber.org/zap"
)

// Stats is the experience attributed to one skill within one aggregation context.
type Stats struct {
	Skill    *Skill
	Own      []*Occurrence
	Months   float64
	Children []*Stats
}

// Name returns the skill name.
func (s *Stats) Name() string {
	return s.Skill.Name
}

// Occurrences yields the node's own occurrences followed by those of every descendant,
// depth first. A descendant shared by two branches is visited once.
func (s *Stats) Occurrences() iter.Seq[*Occurrence] {
	return func(yield func(*Occurrence) bool) {
		seen := make(map[*Stats]struct{})
		var walk func(*Stats) bool
		walk = func(n *Stats) bool {
			if _, ok := seen[n]; ok {
				return true
			}
			seen[n] = struct{}{}
			for _, occ := range n.Own {
				if !yield(occ) {
					return false
				}
			}
			for _, c := range n.Children {
				if !walk(c) {
					return false
				}
			}
			return true
		}
		walk(s)
	}
}

// Child returns the direct child called name.
func (s *Stats) Child(name string) (*Stats, bool) {
	for _, c := range s.Children {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

// StatsIndex is one aggregation pass over the tree: a synthetic root plus a lookup of
// every skill reached from it.
type StatsIndex struct {
	Tree   *Tree
	Root   *Stats
	byName map[string]*Stats
}

// BuildStatsIndex computes the stats of every node reachable from rootChildren.
//
// Nodes are seeded with their occurrences from the supplied index, not the tree, so one
// tree serves every filtered context. Children are computed first; a node's months are
// then duration applied to its own and all descendant occurrences together, so time
// shared between branches is not counted twice. Child names missing from the tree are
// skipped and logged.
func BuildStatsIndex(
	rootName string,
	rootChildren []string,
	tree *Tree,
	occurrences *OccurrenceIndex,
	duration DurationFunc,
	logger *zap.Logger,
) *StatsIndex {
	if logger == nil {
		logger = zap.NewNop()
	}
	x := &StatsIndex{Tree: tree, byName: make(map[string]*Stats)}

	var visit func(name, parent string) *Stats
	visit = func(name, parent string) *Stats {
		if s, ok := x.byName[name]; ok {
			return s
		}
		node, ok := tree.Get(name)
		if !ok {
			logger.Warn("skipping skill missing from tree",
				zap.String("index", rootName),
				zap.String("skill", name),
				zap.String("parent", parent))
			return nil
		}
		s := &Stats{Skill: node, Own: occurrences.Get(name)}
		for _, child := range node.Children() {
			if c := visit(child, name); c != nil {
				s.Children = append(s.Children, c)
			}
		}
		s.Months = duration(s.Occurrences())
		x.byName[name] = s
		return s
	}

	root := &Stats{Skill: rootSkill(rootName, rootChildren)}
	for _, name := range rootChildren {
		if c := visit(name, rootName); c != nil {
			root.Children = append(root.Children, c)
		}
	}
	root.Months = duration(root.Occurrences())
	x.Root = root
	return x
}

func rootSkill(name string, children []string) *Skill {
	s := &Skill{
		Name:       name,
		IsRoot:     true,
		IsCategory: len(children) > 0,
		IsSkill:    len(children) == 0,
		children:   make(map[string]struct{}, len(children)),
	}
	for _, c := range children {
		s.children[c] = struct{}{}
	}
	return s
}

// Name returns the name of the synthetic root.
func (x *StatsIndex) Name() string {
	return x.Root.Name()
}

// Get returns the stats of the skill called name.
func (x *StatsIndex) Get(name string) (*Stats, bool) {
	s, ok := x.byName[name]
	return s, ok
}

// Months returns the months attributed to name, or 0 when it is not in the index.
func (x *StatsIndex) Months(name string) float64 {
	if s, ok := x.byName[name]; ok {
		return s.Months
	}
	return 0
}

// Len returns the number of skills in the index, excluding the root.
func (x *StatsIndex) Len() int {
	return len(x.byName)
}

// Names returns the skill names in the index, sorted.
func (x *StatsIndex) Names() []string {
	return slices.Sorted(maps.Keys(x.byName))
}

// All yields the stats of every skill in name order.
func (x *StatsIndex) All() iter.Seq[*Stats] {
	return func(yield func(*Stats) bool) {
		for _, name := range x.Names() {
			if !yield(x.byName[name]) {
				return
			}
		}
	}
}
