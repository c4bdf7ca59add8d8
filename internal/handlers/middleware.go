package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"spellingvocab/internal/security"
	"spellingvocab/internal/service"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const SessionContextKey ContextKey = "quizSession"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	quiz   *service.QuizService
	tokens *security.SessionTokens
	csrf   *security.CSRFGenerator
	debug  bool
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(quiz *service.QuizService, tokens *security.SessionTokens, csrf *security.CSRFGenerator, debug bool) *Middleware {
	return &Middleware{quiz: quiz, tokens: tokens, csrf: csrf, debug: debug}
}

// RequireSession resolves the quiz session from the bearer token or the
// session cookie. Cookie-authenticated mutating requests must also carry
// the CSRF header.
func (m *Middleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := security.TokenFromRequest(r)
		if token == "" {
			respondJSONError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
			return
		}

		sessionID, err := m.tokens.Parse(token)
		if err != nil || !m.quiz.Exists(sessionID) {
			if m.debug {
				log.Printf("[DEBUG] Rejected session token: %v", err)
			}
			http.SetCookie(w, security.CreateDeleteCookie(r, security.SessionCookieName))
			respondJSONError(w, http.StatusUnauthorized, "Session expired", "", nil)
			return
		}

		if fromCookie(r) && isMutating(r.Method) && !m.csrf.ValidateToken(sessionID, r.Header.Get(security.CSRFHeader)) {
			respondJSONError(w, http.StatusForbidden, ErrInvalidCSRFToken, "", nil)
			return
		}

		ctx := context.WithValue(r.Context(), SessionContextKey, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RateLimit rejects clients that exceed rl
func RateLimit(rl *security.RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.Allow(security.GetClientIP(r)) {
				w.Header().Set("Retry-After", "60")
				respondJSONError(w, http.StatusTooManyRequests, ErrTooManyRequests, "", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin checks HTTP basic auth against the configured admin user and
// bcrypt hash. Admin routes are disabled when no hash is configured.
func RequireAdmin(user, passHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if passHash == "" {
				respondJSONError(w, http.StatusNotFound, "Not found", "", nil)
				return
			}
			u, p, ok := r.BasicAuth()
			if !ok || u != user || !security.CheckPassword(p, passHash) {
				w.Header().Set("WWW-Authenticate", `Basic realm="admin"`)
				respondJSONError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// GetSessionID retrieves the quiz session ID from the request context
func GetSessionID(ctx context.Context) string {
	id, _ := ctx.Value(SessionContextKey).(string)
	return id
}

func fromCookie(r *http.Request) bool {
	return !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ")
}

func isMutating(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	}
	return true
}
