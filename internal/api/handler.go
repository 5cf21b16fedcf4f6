package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/DafnaShemesh/taskmatch/pkg/lexicon"
)

// Matcher resolves an utterance to a task. Satisfied by *match.Matcher.
type Matcher interface {
	Match(ctx context.Context, utterance string) (lexicon.TaskID, error)
}

// MatchRequest is the body of POST /v1/match. An empty utterance is legal
// input; the matcher answers it with the no-match sentinel. The length cap
// only protects the transport.
type MatchRequest struct {
	Utterance string `json:"utterance" validate:"max=4096"`
}

// MatchResponse carries the resolved task identifier.
type MatchResponse struct {
	Task string `json:"task"`
}

// MatchHandler serves match requests.
type MatchHandler struct {
	matcher  Matcher
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewMatchHandler creates the handler.
func NewMatchHandler(matcher Matcher, logger zerolog.Logger) *MatchHandler {
	return &MatchHandler{
		matcher:  matcher,
		validate: validator.New(),
		logger:   logger,
	}
}

// Match handles POST /v1/match.
func (h *MatchHandler) Match(w http.ResponseWriter, r *http.Request) {
	var req MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "utterance exceeds maximum length")
		return
	}

	task, err := h.matcher.Match(r.Context(), req.Utterance)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("Match failed")
		respondError(w, http.StatusBadGateway, "match failed")
		return
	}

	respondJSON(w, http.StatusOK, MatchResponse{Task: string(task)})
}
