package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"spellingvocab/internal/audio"
	"spellingvocab/internal/service"
)

const warmTimeout = 10 * time.Minute

// SpeechHandler serves cached speech and its admin operations
type SpeechHandler struct {
	cache *audio.Cache
	quiz  *service.QuizService
}

// NewSpeechHandler creates a new speech handler
func NewSpeechHandler(cache *audio.Cache, quiz *service.QuizService) *SpeechHandler {
	return &SpeechHandler{cache: cache, quiz: quiz}
}

// Serve returns a cached MP3 by name
func (h *SpeechHandler) Serve(w http.ResponseWriter, r *http.Request) {
	path, err := h.cache.Path(chi.URLParam(r, "file"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeFile(w, r, path)
}

type warmRequest struct {
	Phrases []string `json:"phrases"`
	Voice   string   `json:"voice"`
	Speed   string   `json:"speed"`
}

type warmResponse struct {
	Requested int               `json:"requested"`
	Generated int               `json:"generated"`
	Files     map[string]string `json:"files"`
	Error     string            `json:"error,omitempty"`
}

// Warm synthesizes phrases ahead of time. With no phrases it covers every
// word in the catalog and every fixed phrase.
func (h *SpeechHandler) Warm(w http.ResponseWriter, r *http.Request) {
	if !h.cache.Enabled() {
		respondJSONError(w, http.StatusServiceUnavailable, "Speech synthesis is disabled", "", nil)
		return
	}

	var req warmRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}

	voice, speed := audio.DefaultVoice(), audio.DefaultSpeed()
	if req.Voice != "" {
		v, err := audio.LookupVoice(req.Voice)
		if err != nil {
			respondJSONError(w, http.StatusBadRequest, err.Error(), "", nil)
			return
		}
		voice = v
	}
	if req.Speed != "" {
		sp, err := audio.LookupSpeed(req.Speed)
		if err != nil {
			respondJSONError(w, http.StatusBadRequest, err.Error(), "", nil)
			return
		}
		speed = sp
	}

	phrases := req.Phrases
	if len(phrases) == 0 {
		phrases = h.quiz.Phrases()
	}

	ctx, cancel := context.WithTimeout(r.Context(), warmTimeout)
	defer cancel()

	files, err := h.cache.Warm(ctx, phrases, voice, speed)
	resp := warmResponse{Requested: len(phrases), Generated: len(files), Files: files}
	if err != nil {
		log.Printf("Warning: audio warm stopped early: %v", err)
		resp.Error = err.Error()
		respondJSON(w, http.StatusBadGateway, resp)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

type pruneResponse struct {
	Removed int `json:"removed"`
}

// Prune deletes cached audio older than the olderThan query parameter, or
// everything when it is absent
func (h *SpeechHandler) Prune(w http.ResponseWriter, r *http.Request) {
	var maxAge time.Duration
	if s := r.URL.Query().Get("olderThan"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil || d < 0 {
			respondJSONError(w, http.StatusBadRequest, "olderThan must be a duration such as 720h", "", nil)
			return
		}
		maxAge = d
	}

	n, err := h.cache.Prune(maxAge)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to prune audio cache", err)
		return
	}
	log.Printf("Removed %d cached audio files", n)
	respondJSON(w, http.StatusOK, pruneResponse{Removed: n})
}
