package server

import (
	"net/http"

	"github.com/jonathan/job-match/internal/schemas"
	"github.com/jonathan/job-match/internal/types"
)

// handleAnalyze runs a skills gap analysis for a candidate against a target role.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req types.GapAnalysisRequest
	if err := s.decodeBody(w, r, schemas.GapRequestSchema, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, validationError(err))
		return
	}

	s.jsonResponse(w, http.StatusOK, s.analyzer.Analyze(req))
}
