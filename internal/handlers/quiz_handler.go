package handlers

import (
	"log"
	"net/http"
	"time"

	"spellingvocab/internal/audio"
	"spellingvocab/internal/quiz"
	"spellingvocab/internal/security"
	"spellingvocab/internal/service"
	"spellingvocab/internal/validation"
)

// QuizHandler serves the quiz JSON API
type QuizHandler struct {
	quiz   *service.QuizService
	tokens *security.SessionTokens
	csrf   *security.CSRFGenerator
	debug  bool
}

// NewQuizHandler creates a new quiz handler
func NewQuizHandler(quiz *service.QuizService, tokens *security.SessionTokens, csrf *security.CSRFGenerator, debug bool) *QuizHandler {
	return &QuizHandler{quiz: quiz, tokens: tokens, csrf: csrf, debug: debug}
}

type listInfo struct {
	Name  string `json:"name"`
	Words int    `json:"words"`
}

type gradeInfo struct {
	Grade int        `json:"grade"`
	Lists []listInfo `json:"lists"`
}

type catalogResponse struct {
	Grades []gradeInfo   `json:"grades"`
	Voices []audio.Voice `json:"voices"`
	Speeds []audio.Speed `json:"speeds"`
	Total  int           `json:"total"`
}

// Catalog lists grades, lists and the available voices
func (h *QuizHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	c := h.quiz.Catalog()
	resp := catalogResponse{
		Voices: audio.Voices(),
		Speeds: audio.Speeds(),
		Total:  c.Len(),
	}
	for _, g := range c.Grades() {
		info := gradeInfo{Grade: g}
		for _, name := range c.ListNames(g) {
			info.Lists = append(info.Lists, listInfo{Name: name, Words: len(c.Words(g, name))})
		}
		resp.Grades = append(resp.Grades, info)
	}
	respondJSON(w, http.StatusOK, resp)
}

type sessionResponse struct {
	Token     string                `json:"token"`
	CSRFToken string                `json:"csrfToken"`
	ExpiresAt time.Time             `json:"expiresAt"`
	Selection service.SelectionView `json:"selection"`
}

// CreateSession starts a quiz session and sets the session cookie
func (h *QuizHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.quiz.CreateSession()
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to create session", err)
		return
	}

	token, expires, err := h.tokens.Issue(sess.ID)
	if err != nil {
		h.quiz.DeleteSession(sess.ID)
		respondJSONError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to issue session token", err)
		return
	}
	csrfToken, err := h.csrf.GenerateToken(sess.ID)
	if err != nil {
		h.quiz.DeleteSession(sess.ID)
		respondJSONError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to generate CSRF token", err)
		return
	}

	sel, err := h.quiz.Selection(sess.ID)
	if err != nil {
		respondServiceError(w, "Failed to load selection", err)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, security.SessionCookieName, token, expires))
	respondJSON(w, http.StatusCreated, sessionResponse{
		Token:     token,
		CSRFToken: csrfToken,
		ExpiresAt: expires,
		Selection: sel,
	})
}

// DeleteSession ends the caller's session
func (h *QuizHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	h.quiz.DeleteSession(GetSessionID(r.Context()))
	http.SetCookie(w, security.CreateDeleteCookie(r, security.SessionCookieName))
	w.WriteHeader(http.StatusNoContent)
}

// GetSelection returns the current grade, list and quiz type
func (h *QuizHandler) GetSelection(w http.ResponseWriter, r *http.Request) {
	sel, err := h.quiz.Selection(GetSessionID(r.Context()))
	if err != nil {
		respondServiceError(w, "Failed to load selection", err)
		return
	}
	respondJSON(w, http.StatusOK, sel)
}

// UpdateSelection changes grade, list or quiz type
func (h *QuizHandler) UpdateSelection(w http.ResponseWriter, r *http.Request) {
	var req service.SelectionUpdate
	if !decodeJSON(w, r, &req) {
		return
	}

	sel, err := h.quiz.UpdateSelection(GetSessionID(r.Context()), req)
	if err != nil {
		respondServiceError(w, "Failed to update selection", err)
		return
	}
	respondJSON(w, http.StatusOK, sel)
}

type wordsResponse struct {
	Words []quiz.WordRow `json:"words"`
}

// Words returns the active list as a word table
func (h *QuizHandler) Words(w http.ResponseWriter, r *http.Request) {
	rows, err := h.quiz.WordTable(GetSessionID(r.Context()))
	if err != nil {
		respondServiceError(w, "Failed to load word table", err)
		return
	}
	if rows == nil {
		rows = []quiz.WordRow{}
	}
	respondJSON(w, http.StatusOK, wordsResponse{Words: rows})
}

type voiceRequest struct {
	Voice string `json:"voice"`
	Speed string `json:"speed"`
}

type voiceResponse struct {
	service.VoiceView
	Events []service.Event `json:"events"`
}

// SetVoice changes the speaking voice and speed and previews them
func (h *QuizHandler) SetVoice(w http.ResponseWriter, r *http.Request) {
	var req voiceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	view, events, err := h.quiz.SetVoice(GetSessionID(r.Context()), req.Voice, req.Speed)
	if err != nil {
		respondServiceError(w, "Failed to set voice", err)
		return
	}
	respondJSON(w, http.StatusOK, voiceResponse{VoiceView: view, Events: events})
}

// Start begins a run
func (h *QuizHandler) Start(w http.ResponseWriter, r *http.Request) {
	up, err := h.quiz.Start(GetSessionID(r.Context()))
	if err != nil {
		respondServiceError(w, "Failed to start quiz", err)
		return
	}
	respondJSON(w, http.StatusOK, up)
}

// Current polls the run state and collects pending events
func (h *QuizHandler) Current(w http.ResponseWriter, r *http.Request) {
	up, err := h.quiz.Current(GetSessionID(r.Context()))
	if err != nil {
		respondServiceError(w, "Failed to load quiz state", err)
		return
	}
	respondJSON(w, http.StatusOK, up)
}

type answerRequest struct {
	Choice *int `json:"choice"`
}

type answerResponse struct {
	Outcome quiz.ChoiceOutcome `json:"outcome"`
	service.Update
}

// Answer submits an option for a definitions or synonyms question
func (h *QuizHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Choice == nil {
		respondJSONError(w, http.StatusBadRequest, "choice is required", "", nil)
		return
	}

	out, up, err := h.quiz.Answer(GetSessionID(r.Context()), *req.Choice)
	if err != nil {
		respondServiceError(w, "Failed to submit answer", err)
		return
	}
	respondJSON(w, http.StatusOK, answerResponse{Outcome: out, Update: up})
}

type spellRequest struct {
	Answer string `json:"answer"`
}

type spellResponse struct {
	Outcome quiz.SpellingOutcome `json:"outcome"`
	service.Update
}

// Spell submits typed input for a spelling word
func (h *QuizHandler) Spell(w http.ResponseWriter, r *http.Request) {
	var req spellRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validation.ValidateAnswer(req.Answer); err != nil {
		respondServiceError(w, "", err)
		return
	}

	out, up, err := h.quiz.Spell(GetSessionID(r.Context()), req.Answer)
	if err != nil {
		respondServiceError(w, "Failed to submit spelling", err)
		return
	}
	respondJSON(w, http.StatusOK, spellResponse{Outcome: out, Update: up})
}

type revealResponse struct {
	Feedback quiz.Feedback `json:"feedback"`
	service.Update
}

// Reveal shows the answer to the current question
func (h *QuizHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	fb, up, err := h.quiz.Reveal(GetSessionID(r.Context()))
	if err != nil {
		respondServiceError(w, "Failed to reveal answer", err)
		return
	}
	respondJSON(w, http.StatusOK, revealResponse{Feedback: fb, Update: up})
}

type speakRequest struct {
	Prompt string `json:"prompt"`
}

type eventsResponse struct {
	Events []service.Event `json:"events"`
}

// Speak replays the current word or its definition
func (h *QuizHandler) Speak(w http.ResponseWriter, r *http.Request) {
	var req speakRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}

	events, err := h.quiz.Speak(GetSessionID(r.Context()), req.Prompt)
	if err != nil {
		respondServiceError(w, "Failed to speak prompt", err)
		return
	}
	if h.debug {
		log.Printf("[DEBUG] Replayed %q prompt", req.Prompt)
	}
	respondJSON(w, http.StatusOK, eventsResponse{Events: events})
}

// Results returns the summary of the finished run
func (h *QuizHandler) Results(w http.ResponseWriter, r *http.Request) {
	sum, err := h.quiz.Results(GetSessionID(r.Context()))
	if err != nil {
		respondServiceError(w, "Failed to load results", err)
		return
	}
	respondJSON(w, http.StatusOK, sum)
}
