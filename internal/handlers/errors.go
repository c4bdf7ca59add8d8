package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/goccy/go-json"

	"spellingvocab/internal/quiz"
	"spellingvocab/internal/service"
	"spellingvocab/internal/validation"
)

func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		log.Printf("%s: %v", logMsg, err)
	}

	http.Error(w, userMsg, status)
}

type errorBody struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Warning: failed to encode response: %v", err)
	}
}

// respondJSONError is respondWithError for API routes
func respondJSONError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		log.Printf("%s: %v", logMsg, err)
	}

	respondJSON(w, status, errorBody{Error: userMsg})
}

// respondServiceError maps quiz and service errors onto HTTP statuses.
// Client mistakes are not logged.
func respondServiceError(w http.ResponseWriter, logMsg string, err error) {
	var verr validation.ValidationError
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		respondJSONError(w, http.StatusUnauthorized, "Session expired", "", nil)
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrUnknownPrompt),
		errors.As(err, &verr):
		respondJSONError(w, http.StatusBadRequest, err.Error(), "", nil)
	case errors.Is(err, quiz.ErrMissingData):
		respondJSONError(w, http.StatusUnprocessableEntity, err.Error(), "", nil)
	case errors.Is(err, quiz.ErrNotRunning),
		errors.Is(err, quiz.ErrWrongMode),
		errors.Is(err, service.ErrResultsNotReady):
		respondJSONError(w, http.StatusConflict, err.Error(), "", nil)
	default:
		respondJSONError(w, http.StatusInternalServerError, ErrInternalServerError, logMsg, err)
	}
}

// decodeJSON reads a size-limited JSON body into v
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondJSONError(w, http.StatusBadRequest, ErrInvalidRequestBody, "", nil)
		return false
	}
	return true
}
