package resume

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/resume-insights/internal/types"
)

var validate = validator.New()

// MinYear is the earliest year a resume date may name.
const MinYear = 1900

// dateRangeRule names the FieldError rule for dates outside [MinYear, now+1y].
const dateRangeRule = "date_range"

// Validate checks the struct-level constraints of a resume: every skill mention is named,
// contact fields are well formed and every date falls between MinYear and a year from now.
func Validate(r *types.Resume) error {
	return validateAt(r, time.Now())
}

func validateAt(r *types.Resume, now time.Time) error {
	if r == nil {
		return &ValidationError{Fields: []FieldError{{Field: "Resume", Rule: "required"}}}
	}

	out := &ValidationError{}
	if err := validate.Struct(r); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("failed to validate resume: %w", err)
		}
		for _, fe := range fieldErrs {
			out.Fields = append(out.Fields, FieldError{Field: fe.Namespace(), Rule: fe.Tag()})
		}
	}
	out.Fields = append(out.Fields, dateRangeErrors(r, now)...)

	if len(out.Fields) == 0 {
		return nil
	}
	return out
}

func dateRangeErrors(r *types.Resume, now time.Time) []FieldError {
	earliest := time.Date(MinYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	latest := now.AddDate(1, 0, 0)

	var errs []FieldError
	check := func(field string, d *types.Date) {
		t := d.TimePtr()
		if t != nil && (t.Before(earliest) || t.After(latest)) {
			errs = append(errs, FieldError{Field: field, Rule: dateRangeRule})
		}
	}
	mentions := func(prefix string, ms []types.SkillMention) {
		for i, m := range ms {
			check(fmt.Sprintf("%s[%d].StartDate", prefix, i), m.StartDate)
			check(fmt.Sprintf("%s[%d].EndDate", prefix, i), m.EndDate)
		}
	}

	mentions("Resume.Skills", r.Skills)
	for i, w := range r.Work {
		check(fmt.Sprintf("Resume.Work[%d].StartDate", i), w.StartDate)
		check(fmt.Sprintf("Resume.Work[%d].EndDate", i), w.EndDate)
		mentions(fmt.Sprintf("Resume.Work[%d].Skills", i), w.Skills)
	}
	return errs
}

// Warnings reports date ranges whose end precedes their start. They do not stop an
// analysis; the affected ranges contribute no time.
func Warnings(r *types.Resume) []string {
	var warnings []string
	check := func(where string, start, end *types.Date) {
		s, e := start.TimePtr(), end.TimePtr()
		if s != nil && e != nil && e.Before(*s) {
			warnings = append(warnings, fmt.Sprintf("%s: end date %s is before start date %s", where, end, start))
		}
	}

	for i, m := range r.Skills {
		check(fmt.Sprintf("skills[%d] %q", i, m.Name), m.StartDate, m.EndDate)
	}
	for i, w := range r.Work {
		check(fmt.Sprintf("work[%d] %q", i, w.Name), w.StartDate, w.EndDate)
		for j, m := range w.Skills {
			check(fmt.Sprintf("work[%d].skills[%d] %q", i, j, m.Name), m.StartDate, m.EndDate)
		}
	}
	return warnings
}
