package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/job-match/internal/ranking"
	"github.com/jonathan/job-match/internal/schemas"
	"github.com/jonathan/job-match/internal/types"
)

// handleMatchCandidateToJobs scores one candidate against the jobs in the body
// and returns them best first.
func (s *Server) handleMatchCandidateToJobs(w http.ResponseWriter, r *http.Request) {
	var req types.MatchRequest
	if err := s.decodeBody(w, r, schemas.MatchRequestSchema, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, validationError(err))
		return
	}

	resp, err := s.ranker.RankJobs(r.Context(), *req.Candidate, req.Jobs)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if n, ok := topParam(r); ok {
		resp.Matches = ranking.TopN(resp.Matches, n)
		resp.TotalMatches = len(resp.Matches)
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

// handleWeights reports the weights the ranker applies.
func (s *Server) handleWeights(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, types.NewWeightsResponse(s.ranker.Weights()))
}

// decodeBody reads the body, checks it against schemaName when a registry is
// configured, then decodes it into dst.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, schemaName string, dst any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return &ErrValidation{Field: "body", Message: fmt.Sprintf("exceeds %d bytes", tooLarge.Limit)}
		}
		return &ErrValidation{Field: "body", Message: "could not be read"}
	}

	if s.schemas != nil {
		if err := s.schemas.Validate(schemaName, body); err != nil {
			var verr *schemas.ValidationError
			if errors.As(err, &verr) && len(verr.Errors) > 0 {
				first := verr.Errors[0]
				return &ErrValidation{Field: first.Field, Message: first.Message}
			}
			return fmt.Errorf("schema check failed: %w", err)
		}
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	return nil
}

// validationError converts validator failures into an ErrValidation naming the
// first offending field.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &ErrValidation{Field: fe.Namespace(), Message: "failed " + fe.Tag() + " check"}
	}
	return &ErrValidation{Field: "body", Message: err.Error()}
}

// topParam reads the optional ?top=N query parameter.
func topParam(r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("top")
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

