package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"spellingvocab/internal/audio"
	"spellingvocab/internal/config"
	"spellingvocab/internal/database"
	"spellingvocab/internal/handlers"
	"spellingvocab/internal/quiz"
	"spellingvocab/internal/repository"
	"spellingvocab/internal/security"
	"spellingvocab/internal/service"
)

const (
	sessionCleanupInterval = 5 * time.Minute
	audioPruneInterval     = 24 * time.Hour
	emailRateLimit         = 5
)

func main() {
	// Load configuration
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The database only backs the word catalog
	var store service.WordStore
	if cfg.CatalogSource == "database" {
		db, err := database.Open(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()
		log.Printf("Database connection established (type: %s)", cfg.DatabaseType)
		store = repository.NewWordRepository(db)
	}

	wordCatalog, err := service.LoadCatalog(cfg, store)
	if err != nil {
		log.Fatalf("Failed to load word catalog: %v", err)
	}
	log.Printf("Loaded %d words across %d grades", wordCatalog.Len(), len(wordCatalog.Grades()))

	cache, err := newAudioCache(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize speech: %v", err)
	}

	poolScope, err := quiz.ParsePoolScope(cfg.DistractorScope)
	if err != nil {
		log.Fatalf("Invalid DISTRACTOR_SCOPE: %v", err)
	}

	quizService := service.NewQuizService(wordCatalog, cache, service.QuizOptions{
		NextQuestionDelay: cfg.NextQuestionDelay,
		ResultsDelay:      cfg.ResultsDelay,
		PoolScope:         poolScope,
		SessionTTL:        cfg.SessionDuration,
		IdleTimeout:       cfg.SessionIdleTimeout,
		Debug:             cfg.Debug,
	})
	go quizService.RunCleanup(ctx, sessionCleanupInterval)
	if cfg.AudioMaxAge > 0 {
		go pruneAudio(ctx, cache, cfg.AudioMaxAge)
	}

	mailer, err := service.NewResultsMailer(ctx, cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, cfg.Debug)
	if err != nil {
		log.Printf("Warning: Failed to initialize email service: %v", err)
		mailer = &service.ResultsMailer{}
	}

	secret := cfg.SessionSecret
	if secret == "" {
		secret = security.GenerateSessionID()
		log.Println("Warning: SESSION_SECRET not set, sessions will not survive a restart")
	}

	emailLimiter := security.NewRateLimiter(emailRateLimit, time.Hour)
	defer emailLimiter.Stop()

	handler := handlers.NewRouter(handlers.RouterConfig{
		Quiz:          quizService,
		Cache:         cache,
		Mailer:        mailer,
		Tokens:        security.NewSessionTokens(secret, cfg.SessionDuration),
		CSRF:          security.NewCSRFGenerator(secret),
		EmailLimiter:  emailLimiter,
		AdminUser:     cfg.AdminUser,
		AdminPassHash: cfg.AdminPassHash,
		CORSOrigins:   cfg.CORSOrigins,
		Debug:         cfg.Debug,
	})

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Minute, // admin audio warm runs long
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Warning: graceful shutdown failed: %v", err)
	}
}

// newAudioCache picks the speech synthesizer for TTS_PROVIDER
func newAudioCache(ctx context.Context, cfg *config.Config) (*audio.Cache, error) {
	var synth audio.Synthesizer
	switch cfg.TTSProvider {
	case "translate":
		synth = audio.NewTranslateSynthesizer()
	case "cloud":
		s, err := audio.NewCloudSynthesizer(ctx, cfg.GoogleTTSAPIKey)
		if err != nil {
			return nil, err
		}
		synth = s
	case "none", "":
		log.Println("Speech synthesis disabled, serving cached audio only")
	default:
		log.Printf("Warning: unknown TTS_PROVIDER %q, speech synthesis disabled", cfg.TTSProvider)
	}

	if cfg.TTSProvider != "" {
		log.Printf("Audio cache at %s (provider: %s)", cfg.AudioPath, cfg.TTSProvider)
	}
	return audio.NewCache(cfg.AudioPath, synth)
}

func pruneAudio(ctx context.Context, cache *audio.Cache, maxAge time.Duration) {
	ticker := time.NewTicker(audioPruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := cache.Prune(maxAge)
			if err != nil {
				log.Printf("Warning: failed to prune audio cache: %v", err)
			} else if n > 0 {
				log.Printf("Pruned %d cached audio files", n)
			}
		}
	}
}
