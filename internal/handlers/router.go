package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"spellingvocab/internal/audio"
	"spellingvocab/internal/security"
	"spellingvocab/internal/service"
)

// RouterConfig holds everything the HTTP routes depend on
type RouterConfig struct {
	Quiz          *service.QuizService
	Cache         *audio.Cache
	Mailer        ResultsSender
	Tokens        *security.SessionTokens
	CSRF          *security.CSRFGenerator
	EmailLimiter  *security.RateLimiter
	AdminUser     string
	AdminPassHash string
	CORSOrigins   []string
	Debug         bool
}

type healthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
	Words    int    `json:"words"`
}

// NewRouter builds the HTTP handler for the quiz server
func NewRouter(rc RouterConfig) http.Handler {
	quizHandler := NewQuizHandler(rc.Quiz, rc.Tokens, rc.CSRF, rc.Debug)
	resultsHandler := NewResultsHandler(rc.Quiz, rc.Mailer)
	speechHandler := NewSpeechHandler(rc.Cache, rc.Quiz)
	mw := NewMiddleware(rc.Quiz, rc.Tokens, rc.CSRF, rc.Debug)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, Logging, middleware.Recoverer)

	origins := rc.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", security.CSRFHeader},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: len(rc.CORSOrigins) > 0,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, healthResponse{
			Status:   "ok",
			Sessions: rc.Quiz.SessionCount(),
			Words:    rc.Quiz.Catalog().Len(),
		})
	})
	r.Get("/speech/{file}", speechHandler.Serve)

	r.Route("/api", func(r chi.Router) {
		r.Get("/catalog", quizHandler.Catalog)
		r.Post("/sessions", quizHandler.CreateSession)

		r.Group(func(r chi.Router) {
			r.Use(mw.RequireSession)

			r.Delete("/sessions", quizHandler.DeleteSession)
			r.Get("/selection", quizHandler.GetSelection)
			r.Put("/selection", quizHandler.UpdateSelection)
			r.Get("/selection/words", quizHandler.Words)
			r.Put("/voice", quizHandler.SetVoice)

			r.Route("/quiz", func(r chi.Router) {
				r.Post("/start", quizHandler.Start)
				r.Get("/current", quizHandler.Current)
				r.Post("/answer", quizHandler.Answer)
				r.Post("/spell", quizHandler.Spell)
				r.Post("/reveal", quizHandler.Reveal)
				r.Post("/speak", quizHandler.Speak)
				r.Get("/results", quizHandler.Results)

				if rc.EmailLimiter != nil {
					r.With(RateLimit(rc.EmailLimiter)).Post("/results/email", resultsHandler.Email)
				} else {
					r.Post("/results/email", resultsHandler.Email)
				}
			})
		})
	})

	r.With(mw.RequireSession).Get("/quiz/results", resultsHandler.Page)

	r.Route("/admin", func(r chi.Router) {
		r.Use(RequireAdmin(rc.AdminUser, rc.AdminPassHash))
		r.Post("/audio/warm", speechHandler.Warm)
		r.Delete("/audio", speechHandler.Prune)
	})

	return r
}
