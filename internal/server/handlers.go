package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonathan/resume-insights/internal/db"
	"github.com/jonathan/resume-insights/internal/parsing"
	"github.com/jonathan/resume-insights/internal/resume"
	"github.com/jonathan/resume-insights/internal/skills"
	"github.com/jonathan/resume-insights/internal/types"
	"go.uber.org/zap"
)

// AnalysisRequest represents the request body for POST /analyses
type AnalysisRequest struct {
	Resume    *types.Resume `json:"resume,omitempty" validate:"-"` // checked by resume.Validate
	URL       string        `json:"url,omitempty" validate:"omitempty,http_url"`
	Now       string        `json:"now,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Normalize bool          `json:"normalize,omitempty"`
	Save      *bool         `json:"save,omitempty"` // defaults to true when storage is enabled
}

// AnalysisResponse represents the response for POST /analyses and GET /analyses/{id}
type AnalysisResponse struct {
	ID        string             `json:"id,omitempty"`
	Source    string             `json:"source,omitempty"`
	CreatedAt string             `json:"created_at,omitempty"`
	Warnings  []string           `json:"warnings,omitempty"`
	Report    *types.SkillReport `json:"report"`
}

// ListAnalysesResponse represents the response for GET /analyses
type ListAnalysesResponse struct {
	Analyses []db.AnalysisSummary `json:"analyses"`
	Count    int                  `json:"count"`
}

// handleCreateAnalysis analyzes an inline or remote resume
func (s *Server) handleCreateAnalysis(w http.ResponseWriter, r *http.Request) {
	var req AnalysisRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validateRequest(&req); err != nil {
		s.writeError(w, err)
		return
	}

	ctx := r.Context()
	res := req.Resume
	source := "inline"
	if req.URL != "" {
		data, err := s.fetchResume(ctx, req.URL)
		if err != nil {
			s.writeError(w, err)
			return
		}
		if res, err = resume.Parse(data); err != nil {
			s.writeError(w, err)
			return
		}
		source = req.URL
	}

	if err := resume.Validate(res); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Normalize {
		resume.NormalizeWith(res, parsing.NewNormalizer(s.skillAliases))
	}

	opts := []skills.Option{skills.WithLogger(s.logger)}
	if req.Now != "" {
		now, _ := time.Parse(time.DateOnly, req.Now) // format checked by validateRequest
		opts = append(opts, skills.WithNow(now))
	}

	analysis, err := skills.AnalyzeAsync(ctx, res, opts...)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := AnalysisResponse{
		Source:   source,
		Warnings: resume.Warnings(res),
		Report:   analysis.Report(),
	}

	save := req.Save == nil || *req.Save
	if s.store == nil || !save {
		s.jsonResponse(w, http.StatusOK, resp)
		return
	}

	saved, err := s.store.SaveAnalysis(ctx, &db.AnalysisInput{Source: source, Report: resp.Report})
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp.ID = saved.ID.String()
	resp.CreatedAt = saved.CreatedAt.Format(time.RFC3339)
	s.jsonResponse(w, http.StatusCreated, resp)
}

// handleListAnalyses lists stored analyses, newest first
func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, &ErrStorageDisabled{})
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.writeError(w, &ErrValidation{Field: "limit", Message: "must be a positive integer"})
			return
		}
		limit = n
	}

	analyses, err := s.store.ListAnalyses(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ListAnalysesResponse{Analyses: analyses, Count: len(analyses)})
}

// handleGetAnalysis returns one stored analysis with its report
func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	analysis, ok := s.loadAnalysis(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, AnalysisResponse{
		ID:        analysis.ID.String(),
		Source:    analysis.Source,
		CreatedAt: analysis.CreatedAt.Format(time.RFC3339),
		Report:    analysis.Report,
	})
}

// handleGetAnalysisSkill returns one skill's stats across every axis of a stored analysis
func (s *Server) handleGetAnalysisSkill(w http.ResponseWriter, r *http.Request) {
	analysis, ok := s.loadAnalysis(w, r)
	if !ok {
		return
	}

	name := r.PathValue("name")
	detail, found := analysis.Report.Detail(name)
	if !found {
		s.writeError(w, &ErrNotFound{Resource: "skill", ID: name})
		return
	}
	s.jsonResponse(w, http.StatusOK, detail)
}

// handleDeleteAnalysis deletes a stored analysis
func (s *Server) handleDeleteAnalysis(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, &ErrStorageDisabled{})
		return
	}
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.DeleteAnalysis(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// loadAnalysis resolves the {id} path value, writing the error response itself on failure.
func (s *Server) loadAnalysis(w http.ResponseWriter, r *http.Request) (*db.Analysis, bool) {
	if s.store == nil {
		s.writeError(w, &ErrStorageDisabled{})
		return nil, false
	}
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	analysis, err := s.store.GetAnalysis(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	if analysis == nil {
		s.writeError(w, &ErrNotFound{Resource: "analysis", ID: id.String()})
		return nil, false
	}
	return analysis, true
}

func parseID(r *http.Request) (uuid.UUID, error) {
	raw := r.PathValue("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: "id", Message: "must be a UUID"}
	}
	return id, nil
}

// validateRequest maps validator failures onto ErrValidation.
func (s *Server) validateRequest(req *AnalysisRequest) error {
	switch {
	case req.Resume == nil && req.URL == "":
		return &ErrValidation{Field: "resume", Message: "either resume or url is required"}
	case req.Resume != nil && req.URL != "":
		return &ErrValidation{Field: "resume", Message: "resume and url are mutually exclusive"}
	}

	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	fe := fieldErrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "http_url":
		return &ErrValidation{Field: field, Message: "must be an http(s) URL"}
	case "datetime":
		return &ErrValidation{Field: field, Message: "must be a YYYY-MM-DD date"}
	default:
		return &ErrValidation{Field: field, Message: "failed " + fe.Tag()}
	}
}

// writeError maps err to a status and writes it, logging server-side failures.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err), zap.Int("status", status))
	}
	s.errorResponse(w, status, err.Error())
}
