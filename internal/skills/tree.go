package skills

import (
	"iter"
	"maps"
	"slices"

	"github.com/google/uuid"
)

// skillNamespace seeds the deterministic UUIDv5 ids of skill nodes.
var skillNamespace = uuid.MustParse("0c9e2a61-7f3b-5d4c-8a1e-2b6f9d3c7e15")

// Skill is one node of the skill tree, keyed by name. Keywords of a mention become
// child edges; parents are derived by the Tree.
type Skill struct {
	ID          string
	Name        string
	Occurrences []*Occurrence
	IsCategory  bool
	IsSkill     bool
	IsRoot      bool

	children map[string]struct{}
}

func newSkill(name string) *Skill {
	return &Skill{
		ID:       uuid.NewSHA1(skillNamespace, []byte(name)).String(),
		Name:     name,
		IsSkill:  true,
		children: make(map[string]struct{}),
	}
}

// Children returns the names of the node's children, sorted.
func (s *Skill) Children() []string {
	return slices.Sorted(maps.Keys(s.children))
}

// Edge is a parent -> child keyword relation.
type Edge struct {
	Parent string
	Child  string
}

// Tree is the de-duplicated skill hierarchy. After BuildTree returns, the child relation
// is acyclic and node classification no longer changes.
type Tree struct {
	nodes    map[string]*Skill
	parents  map[string][]string
	topLevel []string
	removed  []Edge
}

// BuildTree builds the skill tree from every occurrence of an analysis.
//
// Each name becomes one node; keywords become child edges, and a keyword with no entry of
// its own becomes a synthetic leaf. Cycles are broken by removing back edges found by a
// depth-first walk that visits top-level nodes and children in name order, so the result
// does not depend on input order. Classification is settled after cycle removal.
func BuildTree(occurrences iter.Seq[*Occurrence]) *Tree {
	t := &Tree{nodes: make(map[string]*Skill)}

	for occ := range occurrences {
		node, ok := t.nodes[occ.Name]
		if !ok {
			node = newSkill(occ.Name)
			t.nodes[occ.Name] = node
		}
		node.Occurrences = append(node.Occurrences, occ)
		if len(occ.Keywords) > 0 {
			node.IsCategory = true
			node.IsSkill = false
		}
		for _, kw := range occ.Keywords {
			node.children[kw] = struct{}{}
		}
	}

	for _, name := range t.Names() {
		for kw := range t.nodes[name].children {
			if _, ok := t.nodes[kw]; !ok {
				t.nodes[kw] = newSkill(kw)
			}
		}
	}

	t.removeCycles()
	t.classify()
	t.index()
	return t
}

// classify makes a node a category exactly when it keeps at least one child. Nodes whose
// only keywords closed cycles become skills again.
func (t *Tree) classify() {
	for _, node := range t.nodes {
		node.IsCategory = len(node.children) > 0
		node.IsSkill = !node.IsCategory
	}
}

// removeCycles deletes every child edge that closes a cycle on the current descent path.
func (t *Tree) removeCycles() {
	const (
		unvisited = iota
		onPath
		done
	)
	state := make(map[string]int, len(t.nodes))

	var visit func(name string)
	visit = func(name string) {
		state[name] = onPath
		node := t.nodes[name]
		for _, child := range node.Children() {
			switch state[child] {
			case onPath:
				delete(node.children, child)
				t.removed = append(t.removed, Edge{Parent: name, Child: child})
			case unvisited:
				visit(child)
			}
		}
		state[name] = done
	}

	// Roots first so forward structure reachable from them survives; nodes that only
	// sit on cycles are reached by the second pass.
	for _, name := range t.rootNames() {
		if state[name] == unvisited {
			visit(name)
		}
	}
	for _, name := range t.Names() {
		if state[name] == unvisited {
			visit(name)
		}
	}
}

// rootNames returns the names with no incoming child edge, sorted.
func (t *Tree) rootNames() []string {
	referenced := make(map[string]struct{})
	for _, node := range t.nodes {
		for child := range node.children {
			referenced[child] = struct{}{}
		}
	}
	var roots []string
	for _, name := range t.Names() {
		if _, ok := referenced[name]; !ok {
			roots = append(roots, name)
		}
	}
	return roots
}

// index rebuilds the parent lookup and the top-level set from the child edges.
func (t *Tree) index() {
	t.parents = make(map[string][]string, len(t.nodes))
	for _, name := range t.Names() {
		for _, child := range t.nodes[name].Children() {
			t.parents[child] = append(t.parents[child], name)
		}
	}
	t.topLevel = t.rootNames()
}

// Get returns the node called name.
func (t *Tree) Get(name string) (*Skill, bool) {
	node, ok := t.nodes[name]
	return node, ok
}

// Len returns the number of nodes.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Names returns every node name, sorted.
func (t *Tree) Names() []string {
	return slices.Sorted(maps.Keys(t.nodes))
}

// TopLevel returns the names of nodes that are nobody's child, sorted.
func (t *Tree) TopLevel() []string {
	return slices.Clone(t.topLevel)
}

// Parents returns the names of the nodes that list name as a child, sorted.
func (t *Tree) Parents(name string) []string {
	return slices.Clone(t.parents[name])
}

// RemovedEdges returns the edges deleted to break cycles, in removal order.
func (t *Tree) RemovedEdges() []Edge {
	return slices.Clone(t.removed)
}

// All yields every node in name order.
func (t *Tree) All() iter.Seq[*Skill] {
	return func(yield func(*Skill) bool) {
		for _, name := range t.Names() {
			if !yield(t.nodes[name]) {
				return
			}
		}
	}
}
