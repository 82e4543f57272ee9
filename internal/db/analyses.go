package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/resume-insights/internal/types"
)

// SaveAnalysis stores a report and returns the stored row
func (db *DB) SaveAnalysis(ctx context.Context, input *AnalysisInput) (*Analysis, error) {
	if input == nil || input.Report == nil {
		return nil, fmt.Errorf("analysis report is required")
	}

	reportJSON, err := json.Marshal(input.Report)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}

	candidate := input.Candidate
	if candidate == "" {
		candidate = input.Report.Candidate
	}

	a := &Analysis{
		AnalysisSummary: AnalysisSummary{
			ID:           uuid.New(),
			Candidate:    candidate,
			Source:       input.Source,
			AsOf:         input.Report.Now,
			SkillCount:   len(input.Report.Skills),
			CareerMonths: input.Report.Career.Months,
		},
		Report: input.Report,
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO skill_analyses (id, candidate, source, as_of, skill_count, career_months, report)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at`,
		a.ID, a.Candidate, a.Source, a.AsOf, a.SkillCount, a.CareerMonths, reportJSON,
	).Scan(&a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save analysis: %w", err)
	}
	return a, nil
}

// GetAnalysis retrieves an analysis by ID. Returns nil, nil when it does not exist.
func (db *DB) GetAnalysis(ctx context.Context, id uuid.UUID) (*Analysis, error) {
	var a Analysis
	var reportJSON []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, candidate, source, as_of, skill_count, career_months, created_at, report
		 FROM skill_analyses WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.Candidate, &a.Source, &a.AsOf, &a.SkillCount, &a.CareerMonths, &a.CreatedAt, &reportJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	var report types.SkillReport
	if err := json.Unmarshal(reportJSON, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	a.Report = &report
	return &a, nil
}

// ListAnalyses returns the most recent analyses, newest first
func (db *DB) ListAnalyses(ctx context.Context, limit int) ([]AnalysisSummary, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, candidate, source, as_of, skill_count, career_months, created_at
		 FROM skill_analyses ORDER BY created_at DESC, id LIMIT $1`,
		clampLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	analyses := []AnalysisSummary{}
	for rows.Next() {
		var a AnalysisSummary
		if err := rows.Scan(&a.ID, &a.Candidate, &a.Source, &a.AsOf, &a.SkillCount, &a.CareerMonths, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		analyses = append(analyses, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate analyses: %w", err)
	}
	return analyses, nil
}

// DeleteAnalysis deletes an analysis. Returns an error wrapping ErrNotFound if it does not exist.
func (db *DB) DeleteAnalysis(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM skill_analyses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete analysis: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("analysis %s: %w", id, ErrNotFound)
	}
	return nil
}
