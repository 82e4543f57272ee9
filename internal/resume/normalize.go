package resume

import (
	"github.com/jonathan/resume-insights/internal/parsing"
	"github.com/jonathan/resume-insights/internal/types"
)

// Normalize applies all normalization steps to a resume using the default skill aliases
func Normalize(r *types.Resume) {
	NormalizeWith(r, parsing.NewNormalizer(nil))
}

// NormalizeWith canonicalizes skill names with n and fills in missing work ids
func NormalizeWith(r *types.Resume, n *parsing.Normalizer) {
	NormalizeSkills(r, n)
	r.EnsureWorkIDs()
}

// NormalizeSkills canonicalizes skill and keyword names in the skills section and
// every work entry, and de-duplicates keywords
func NormalizeSkills(r *types.Resume, n *parsing.Normalizer) {
	normalizeMentions(r.Skills, n)
	for i := range r.Work {
		normalizeMentions(r.Work[i].Skills, n)
	}
}

func normalizeMentions(mentions []types.SkillMention, n *parsing.Normalizer) {
	for i := range mentions {
		m := &mentions[i]
		m.Name = n.Name(m.Name)
		m.Keywords = n.Names(m.Keywords)
	}
}
