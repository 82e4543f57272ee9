package types

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// workNamespace seeds the UUIDv5 ids generated for work entries without an explicit id.
var workNamespace = uuid.MustParse("6f0b7f4e-3d1c-5a8e-9b2a-1c4d7e9f0a35")

// Resume is the subset of a JSON Resume document consumed by the skill analysis.
type Resume struct {
	Basics Basics         `json:"basics"`
	Skills []SkillMention `json:"skills,omitempty" validate:"dive"`
	Work   []Work         `json:"work,omitempty" validate:"dive"`
}

// Basics holds the candidate's identity section.
type Basics struct {
	Name     string    `json:"name,omitempty"`
	Label    string    `json:"label,omitempty"`
	Email    string    `json:"email,omitempty" validate:"omitempty,email"`
	Phone    string    `json:"phone,omitempty"`
	URL      string    `json:"url,omitempty" validate:"omitempty,url"`
	Summary  string    `json:"summary,omitempty"`
	Location *Location `json:"location,omitempty"`
	Profiles []Profile `json:"profiles,omitempty"`
}

// Location is the candidate's postal location.
type Location struct {
	City        string `json:"city,omitempty"`
	Region      string `json:"region,omitempty"`
	CountryCode string `json:"countryCode,omitempty"`
}

// Profile is a social or professional network profile.
type Profile struct {
	Network  string `json:"network,omitempty"`
	Username string `json:"username,omitempty"`
	URL      string `json:"url,omitempty"`
}

// SkillMention is one skill entry, either in the resume's skills section or inside a work entry.
// Keywords name child skills and make the mention a category.
type SkillMention struct {
	Name      string   `json:"name" validate:"required"`
	Level     string   `json:"level,omitempty"`
	Keywords  []string `json:"keywords,omitempty"`
	StartDate *Date    `json:"startDate,omitempty"`
	EndDate   *Date    `json:"endDate,omitempty"`
}

// Work is one employment entry. A missing EndDate means the position is current.
type Work struct {
	ID         string         `json:"id,omitempty"`
	Name       string         `json:"name,omitempty"`
	Position   string         `json:"position,omitempty"`
	URL        string         `json:"url,omitempty" validate:"omitempty,url"`
	StartDate  *Date          `json:"startDate,omitempty"`
	EndDate    *Date          `json:"endDate,omitempty"`
	Summary    string         `json:"summary,omitempty"`
	Highlights []string       `json:"highlights,omitempty"`
	Skills     []SkillMention `json:"skills,omitempty" validate:"dive"`
}

// WorkID returns the entry's explicit id, or a deterministic id derived from its
// position in the resume and its identifying fields.
func WorkID(index int, w Work) string {
	if id := strings.TrimSpace(w.ID); id != "" {
		return id
	}
	key := strings.Join([]string{strconv.Itoa(index), w.Name, w.Position, dateKey(w.StartDate)}, "|")
	return uuid.NewSHA1(workNamespace, []byte(key)).String()
}

// EnsureWorkIDs fills every missing work id in place.
func (r *Resume) EnsureWorkIDs() {
	for i := range r.Work {
		r.Work[i].ID = WorkID(i, r.Work[i])
	}
}

func dateKey(d *Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}
