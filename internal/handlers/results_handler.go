package handlers

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"spellingvocab/internal/quiz"
	"spellingvocab/internal/service"
	"spellingvocab/internal/validation"
)

//go:embed templates/*.html
var templateFS embed.FS

var resultsTemplate = template.Must(template.ParseFS(templateFS, "templates/results.html"))

// ResultsSender delivers a run summary by email
type ResultsSender interface {
	IsEnabled() bool
	SendResults(ctx context.Context, toEmail string, sum quiz.Summary) error
}

// ResultsHandler renders and emails quiz results
type ResultsHandler struct {
	quiz   *service.QuizService
	mailer ResultsSender
}

// NewResultsHandler creates a new results handler
func NewResultsHandler(quiz *service.QuizService, mailer ResultsSender) *ResultsHandler {
	return &ResultsHandler{quiz: quiz, mailer: mailer}
}

// Page renders the results of the finished run as HTML
func (h *ResultsHandler) Page(w http.ResponseWriter, r *http.Request) {
	sum, err := h.quiz.Results(GetSessionID(r.Context()))
	if errors.Is(err, service.ErrResultsNotReady) {
		http.Error(w, "No finished quiz yet", http.StatusNotFound)
		return
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to load results", err)
		return
	}

	var buf bytes.Buffer
	if err := resultsTemplate.Execute(&buf, sum); err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to render results", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

type emailRequest struct {
	Email string `json:"email"`
}

type emailResponse struct {
	Sent bool   `json:"sent"`
	To   string `json:"to"`
}

// Email sends the results of the finished run to an address
func (h *ResultsHandler) Email(w http.ResponseWriter, r *http.Request) {
	if h.mailer == nil || !h.mailer.IsEnabled() {
		respondJSONError(w, http.StatusServiceUnavailable, "Email is not configured", "", nil)
		return
	}

	var req emailRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	to := strings.TrimSpace(req.Email)
	if err := validation.ValidateEmail(to); err != nil {
		respondServiceError(w, "", err)
		return
	}

	sum, err := h.quiz.Results(GetSessionID(r.Context()))
	if err != nil {
		respondServiceError(w, "Failed to load results", err)
		return
	}

	if err := h.mailer.SendResults(r.Context(), to, sum); err != nil {
		respondJSONError(w, http.StatusBadGateway, "Failed to send email", "Failed to send results email", err)
		return
	}
	respondJSON(w, http.StatusOK, emailResponse{Sent: true, To: to})
}
