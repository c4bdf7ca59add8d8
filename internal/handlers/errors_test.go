package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"spellingvocab/internal/quiz"
	"spellingvocab/internal/service"
	"spellingvocab/internal/validation"
)

func TestRespondWithErrorWritesStatusAndBody(t *testing.T) {
	recorder := httptest.NewRecorder()

	respondWithError(recorder, 418, "Teapot", "", nil)

	if recorder.Code != 418 {
		t.Fatalf("expected status 418, got %d", recorder.Code)
	}

	body := strings.TrimSpace(recorder.Body.String())
	if body != "Teapot" {
		t.Fatalf("expected body 'Teapot', got %q", body)
	}
}

func TestRespondWithErrorLogsMessage(t *testing.T) {
	var buf bytes.Buffer
	logger := log.Default()
	originalOutput := logger.Writer()
	logger.SetOutput(&buf)
	defer logger.SetOutput(originalOutput)

	recorder := httptest.NewRecorder()
	err := errors.New("boom")

	respondWithError(recorder, 500, "Internal server error", "", err)

	logOutput := buf.String()
	if !strings.Contains(logOutput, "Internal server error") {
		t.Fatalf("expected log to include user message, got %q", logOutput)
	}
	if !strings.Contains(logOutput, "boom") {
		t.Fatalf("expected log to include error, got %q", logOutput)
	}
}

func TestRespondJSONErrorWritesJSON(t *testing.T) {
	recorder := httptest.NewRecorder()

	respondJSONError(recorder, http.StatusBadRequest, "Bad input", "", nil)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", recorder.Code)
	}
	if ct := recorder.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON content type, got %q", ct)
	}
	body := strings.TrimSpace(recorder.Body.String())
	if body != `{"error":"Bad input"}` {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestRespondServiceErrorStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"missing session", service.ErrSessionNotFound, http.StatusUnauthorized},
		{"invalid input", fmt.Errorf("%w: unknown voice", service.ErrInvalidInput), http.StatusBadRequest},
		{"unknown prompt", service.ErrUnknownPrompt, http.StatusBadRequest},
		{"validation", validation.ValidationError{Field: "answer", Message: "too long"}, http.StatusBadRequest},
		{"missing data", quiz.ErrMissingData, http.StatusUnprocessableEntity},
		{"not running", quiz.ErrNotRunning, http.StatusConflict},
		{"wrong mode", quiz.ErrWrongMode, http.StatusConflict},
		{"no results", service.ErrResultsNotReady, http.StatusConflict},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			respondServiceError(recorder, "test", tt.err)
			if recorder.Code != tt.want {
				t.Errorf("respondServiceError(%v) status = %d, want %d", tt.err, recorder.Code, tt.want)
			}
		})
	}
}
