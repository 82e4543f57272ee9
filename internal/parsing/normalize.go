// Package parsing canonicalizes the free-form skill names found in resumes.
package parsing

import (
	"strings"
)

// skillNormalizations maps common skill name variants to canonical names
var skillNormalizations = map[string]string{
	"golang":     "Go",
	"go lang":    "Go",
	"javascript": "JavaScript",
	"js":         "JavaScript",
	"es6":        "ES6",
	"typescript": "TypeScript",
	"ts":         "TypeScript",
	"k8s":        "Kubernetes",
	"kubernetes": "Kubernetes",
	"react.js":   "React",
	"reactjs":    "React",
	"vue.js":     "Vue",
	"vuejs":      "Vue",
	"node.js":    "Node.js",
	"nodejs":     "Node.js",
	"node":       "Node.js",
	"postgres":   "PostgreSQL",
	"postgresql": "PostgreSQL",
	"psql":       "PostgreSQL",
	"mysql":      "MySQL",
	"sql":        "SQL",
	"aws":        "AWS",
	"gcp":        "GCP",
	"html":       "HTML",
	"css":        "CSS",
	"c#":         "C#",
	"c++":        "C++",
	"py":         "Python",
}

// Normalizer canonicalizes skill names using the built-in alias table plus
// caller supplied aliases. Extra aliases win over built-in ones.
type Normalizer struct {
	aliases map[string]string
}

// NewNormalizer returns a Normalizer with extra aliases layered over the defaults.
// Alias keys are matched case-insensitively.
func NewNormalizer(extra map[string]string) *Normalizer {
	aliases := make(map[string]string, len(skillNormalizations)+len(extra))
	for k, v := range skillNormalizations {
		aliases[k] = v
	}
	for k, v := range extra {
		k = strings.ToLower(strings.TrimSpace(k))
		v = strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		aliases[k] = v
	}
	return &Normalizer{aliases: aliases}
}

var defaultNormalizer = NewNormalizer(nil)

// NormalizeSkillName normalizes a skill name to its canonical form using the default aliases
func NormalizeSkillName(skillName string) string {
	return defaultNormalizer.Name(skillName)
}

// Name returns the canonical form of a skill name.
func (n *Normalizer) Name(skillName string) string {
	normalized := strings.TrimSpace(skillName)
	if normalized == "" {
		return ""
	}

	lower := strings.ToLower(normalized)
	if canonical, ok := n.aliases[lower]; ok {
		return canonical
	}

	// Mixed case is treated as intentional
	if normalized != strings.ToUpper(normalized) && normalized != strings.ToLower(normalized) {
		return normalized
	}

	if strings.Contains(normalized, " ") || len(normalized) < 2 {
		return normalized
	}

	if normalized == strings.ToUpper(normalized) {
		return strings.ToUpper(normalized[:1]) + strings.ToLower(normalized[1:])
	}
	return strings.ToUpper(normalized[:1]) + normalized[1:]
}

// Names normalizes each name, dropping empties and duplicates while keeping
// first-seen order.
func (n *Normalizer) Names(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = n.Name(name)
		if name == "" {
			continue
		}
		if _, exists := seen[name]; exists {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
