package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-insights/internal/types"
)

// DefaultListLimit bounds ListAnalyses when the caller passes no limit.
const DefaultListLimit = 50

// MaxListLimit is the largest page ListAnalyses returns.
const MaxListLimit = 500

// AnalysisInput is what callers provide to store an analysis.
type AnalysisInput struct {
	Candidate string
	Source    string // file path or URL the resume came from
	Report    *types.SkillReport
}

// Analysis is a stored analysis including its full report.
type Analysis struct {
	AnalysisSummary
	Report *types.SkillReport `json:"report"`
}

// AnalysisSummary is a lightweight view of an analysis for listing
type AnalysisSummary struct {
	ID           uuid.UUID `json:"id"`
	Candidate    string    `json:"candidate"`
	Source       string    `json:"source"`
	AsOf         time.Time `json:"as_of"`
	SkillCount   int       `json:"skill_count"`
	CareerMonths float64   `json:"career_months"`
	CreatedAt    time.Time `json:"created_at"`
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return min(limit, MaxListLimit)
}
