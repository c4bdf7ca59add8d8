package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"spellingvocab/internal/audio"
	"spellingvocab/internal/catalog"
	"spellingvocab/internal/models"
	"spellingvocab/internal/quiz"
	"spellingvocab/internal/security"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrResultsNotReady = errors.New("quiz results not ready")
	ErrUnknownPrompt   = errors.New("unknown speech prompt")
	ErrInvalidInput    = errors.New("invalid input")
)

// QuizOptions configures the quiz service
type QuizOptions struct {
	NextQuestionDelay time.Duration
	ResultsDelay      time.Duration
	PoolScope         quiz.PoolScope
	SessionTTL        time.Duration
	IdleTimeout       time.Duration
	Debug             bool

	// Scheduler overrides the timer source, mainly for tests. The default
	// uses time.AfterFunc guarded by the session lock.
	Scheduler func(mu *sync.Mutex) quiz.Scheduler
}

// SelectionView describes the current selection and what can be chosen
type SelectionView struct {
	Grade     int      `json:"grade"`
	List      string   `json:"list"`
	QuizType  string   `json:"quizType"`
	Grades    []int    `json:"grades"`
	Lists     []string `json:"lists"`
	QuizTypes []string `json:"quizTypes"`
	WordCount int      `json:"wordCount"`
}

// SelectionUpdate changes any of grade, list and quiz type. A grade change
// resets the list to the grade's first list unless List is also set.
type SelectionUpdate struct {
	Grade    *int    `json:"grade,omitempty"`
	List     *string `json:"list,omitempty"`
	QuizType *string `json:"quizType,omitempty"`
}

// VoiceView is the speech setting of a session
type VoiceView struct {
	Voice audio.Voice `json:"voice"`
	Speed audio.Speed `json:"speed"`
}

// Update is returned by every quiz operation: the state after the call and
// the events produced since the client last collected them
type Update struct {
	State  quiz.State `json:"state"`
	Events []Event    `json:"events"`
}

type quizEntry struct {
	mu     sync.Mutex
	meta   models.Session
	quiz   *quiz.Session
	events *eventBuffer
}

// QuizService keeps one quiz session per client in memory
type QuizService struct {
	catalog *catalog.Catalog
	audio   *audio.Cache
	opts    QuizOptions

	mu       sync.RWMutex
	sessions map[string]*quizEntry
}

// NewQuizService creates a quiz service. cache may be nil when speech is disabled.
func NewQuizService(c *catalog.Catalog, cache *audio.Cache, opts QuizOptions) *QuizService {
	if opts.Scheduler == nil {
		opts.Scheduler = func(mu *sync.Mutex) quiz.Scheduler { return lockedScheduler{mu: mu} }
	}
	return &QuizService{
		catalog:  c,
		audio:    cache,
		opts:     opts,
		sessions: make(map[string]*quizEntry),
	}
}

// Catalog returns the catalog sessions are built on
func (s *QuizService) Catalog() *catalog.Catalog {
	return s.catalog
}

// lockedScheduler runs callbacks under the session lock so timer
// callbacks never race with requests on the same session
type lockedScheduler struct {
	mu *sync.Mutex
}

func (l lockedScheduler) AfterFunc(d time.Duration, f func()) quiz.Timer {
	return time.AfterFunc(d, func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		f()
	})
}

// CreateSession starts a new session with the default selection
func (s *QuizService) CreateSession() (models.Session, error) {
	now := time.Now()
	entry := &quizEntry{
		meta: models.Session{
			ID:        security.GenerateSessionID(),
			CreatedAt: now,
			LastSeen:  now,
			ExpiresAt: now.Add(s.opts.SessionTTL),
		},
		events: &eventBuffer{
			cache: s.audio,
			voice: audio.DefaultVoice(),
			speed: audio.DefaultSpeed(),
			debug: s.opts.Debug,
		},
	}
	if s.opts.SessionTTL <= 0 {
		entry.meta.ExpiresAt = now.Add(24 * time.Hour)
	}

	entry.quiz = quiz.NewSession(s.catalog, quiz.Options{
		NextQuestionDelay: s.opts.NextQuestionDelay,
		ResultsDelay:      s.opts.ResultsDelay,
		PoolScope:         s.opts.PoolScope,
		Rand:              rand.New(rand.NewSource(now.UnixNano())),
		Scheduler:         s.opts.Scheduler(&entry.mu),
		Renderer:          entry.events,
		Speaker:           entry.events,
	})

	s.mu.Lock()
	s.sessions[entry.meta.ID] = entry
	s.mu.Unlock()

	if s.opts.Debug {
		log.Printf("[DEBUG] Created quiz session %s", entry.meta.ID)
	}
	return entry.meta, nil
}

// withSession runs fn with the session locked, refreshing its idle timer
func (s *QuizService) withSession(id string, fn func(e *quizEntry) error) error {
	s.mu.RLock()
	entry, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return ErrSessionNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.meta.IsExpired() || entry.meta.IsIdle(s.opts.IdleTimeout) {
		entry.quiz.Stop()
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return ErrSessionNotFound
	}
	entry.meta.Touch(s.opts.SessionTTL)
	return fn(entry)
}

// Exists reports whether id names a live session
func (s *QuizService) Exists(id string) bool {
	return s.withSession(id, func(*quizEntry) error { return nil }) == nil
}

// DeleteSession stops and forgets a session
func (s *QuizService) DeleteSession(id string) {
	s.mu.Lock()
	entry, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if ok {
		entry.mu.Lock()
		entry.quiz.Stop()
		entry.mu.Unlock()
	}
}

func (s *QuizService) selectionView(e *quizEntry) SelectionView {
	sel := e.quiz.Selection()
	return SelectionView{
		Grade:     sel.Grade(),
		List:      sel.List(),
		QuizType:  sel.QuizType().String(),
		Grades:    s.catalog.Grades(),
		Lists:     sel.ListNames(),
		QuizTypes: []string{models.Spelling.String(), models.Definitions.String(), models.Synonyms.String()},
		WordCount: sel.Len(),
	}
}

// Selection returns the session's current selection
func (s *QuizService) Selection(id string) (SelectionView, error) {
	var view SelectionView
	err := s.withSession(id, func(e *quizEntry) error {
		view = s.selectionView(e)
		return nil
	})
	return view, err
}

// UpdateSelection applies a selection change. Any run, finished or not, is
// discarded since its words no longer match the selection.
func (s *QuizService) UpdateSelection(id string, u SelectionUpdate) (SelectionView, error) {
	var view SelectionView
	err := s.withSession(id, func(e *quizEntry) error {
		sel := e.quiz.Selection()

		var quizType models.QuizType
		if u.QuizType != nil {
			t, err := models.ParseQuizType(*u.QuizType)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}
			quizType = t
		}

		if u.Grade != nil {
			if err := sel.SetGrade(*u.Grade); err != nil {
				return err
			}
		}
		if u.List != nil {
			if err := sel.SelectList(*u.List); err != nil {
				return err
			}
		}
		if u.QuizType != nil {
			if err := sel.SelectQuizType(quizType); err != nil {
				return err
			}
		}

		if e.quiz.Active() {
			e.quiz.Stop()
			e.events.drain()
		}
		view = s.selectionView(e)
		return nil
	})
	return view, err
}

// WordTable returns the active list with the detail column for the quiz type
func (s *QuizService) WordTable(id string) ([]quiz.WordRow, error) {
	var rows []quiz.WordRow
	err := s.withSession(id, func(e *quizEntry) error {
		rows = e.quiz.Selection().WordTable()
		return nil
	})
	return rows, err
}

// SetVoice changes the speaking voice and speed, then speaks a preview
func (s *QuizService) SetVoice(id, voiceKey, speedKey string) (VoiceView, []Event, error) {
	var (
		view   VoiceView
		events []Event
	)
	err := s.withSession(id, func(e *quizEntry) error {
		voice, speed := e.events.voice, e.events.speed
		if voiceKey != "" {
			v, err := audio.LookupVoice(voiceKey)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}
			voice = v
		}
		if speedKey != "" {
			sp, err := audio.LookupSpeed(speedKey)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}
			speed = sp
		}

		e.events.voice, e.events.speed = voice, speed
		e.events.Speak(quiz.VoicePreview)
		view = VoiceView{Voice: voice, Speed: speed}
		events = e.events.drain()
		return nil
	})
	return view, events, err
}

// Start begins a new run for the session's selection
func (s *QuizService) Start(id string) (Update, error) {
	var up Update
	err := s.withSession(id, func(e *quizEntry) error {
		e.events.drain()
		if err := e.quiz.Start(); err != nil {
			return err
		}
		if s.opts.Debug {
			sel := e.quiz.Selection()
			log.Printf("[DEBUG] Session %s started %s quiz on grade %d list %q", id, sel.QuizType(), sel.Grade(), sel.List())
		}
		up = Update{State: e.quiz.State(), Events: e.events.drain()}
		return nil
	})
	return up, err
}

// Current returns the state and any events produced by timers since the
// last call
func (s *QuizService) Current(id string) (Update, error) {
	var up Update
	err := s.withSession(id, func(e *quizEntry) error {
		up = Update{State: e.quiz.State(), Events: e.events.drain()}
		return nil
	})
	return up, err
}

// Answer submits an option index for a choice quiz
func (s *QuizService) Answer(id string, choice int) (quiz.ChoiceOutcome, Update, error) {
	var (
		out quiz.ChoiceOutcome
		up  Update
	)
	err := s.withSession(id, func(e *quizEntry) error {
		o, err := e.quiz.Answer(choice)
		if err != nil {
			return err
		}
		out = o
		up = Update{State: e.quiz.State(), Events: e.events.drain()}
		return nil
	})
	return out, up, err
}

// Spell submits typed input for a spelling quiz
func (s *QuizService) Spell(id, input string) (quiz.SpellingOutcome, Update, error) {
	var (
		out quiz.SpellingOutcome
		up  Update
	)
	err := s.withSession(id, func(e *quizEntry) error {
		o, err := e.quiz.Spell(input)
		if err != nil {
			return err
		}
		out = o
		up = Update{State: e.quiz.State(), Events: e.events.drain()}
		return nil
	})
	return out, up, err
}

// Reveal shows the current answer without scoring it
func (s *QuizService) Reveal(id string) (quiz.Feedback, Update, error) {
	var (
		fb quiz.Feedback
		up Update
	)
	err := s.withSession(id, func(e *quizEntry) error {
		f, err := e.quiz.Reveal()
		if err != nil {
			return err
		}
		fb = f
		up = Update{State: e.quiz.State(), Events: e.events.drain()}
		return nil
	})
	return fb, up, err
}

// Speak replays a prompt for the current word: "word" or "definition"
func (s *QuizService) Speak(id, prompt string) ([]Event, error) {
	var events []Event
	err := s.withSession(id, func(e *quizEntry) error {
		var err error
		switch prompt {
		case "", "word":
			err = e.quiz.SpeakWord()
		case "definition":
			err = e.quiz.SpeakDefinition()
		default:
			return fmt.Errorf("%w: %s", ErrUnknownPrompt, prompt)
		}
		if err != nil {
			return err
		}
		events = e.events.drain()
		return nil
	})
	return events, err
}

// Results returns the summary of a finished run
func (s *QuizService) Results(id string) (quiz.Summary, error) {
	var sum quiz.Summary
	err := s.withSession(id, func(e *quizEntry) error {
		got, ok := e.quiz.Summary()
		if !ok {
			return ErrResultsNotReady
		}
		sum = got
		return nil
	})
	return sum, err
}

// CleanupIdle removes expired and idle sessions and returns how many went
func (s *QuizService) CleanupIdle() int {
	s.mu.Lock()
	var stale []*quizEntry
	for id, entry := range s.sessions {
		if !entry.mu.TryLock() {
			continue // in use, so not idle
		}
		if entry.meta.IsExpired() || entry.meta.IsIdle(s.opts.IdleTimeout) {
			delete(s.sessions, id)
			stale = append(stale, entry)
		} else {
			entry.mu.Unlock()
		}
	}
	s.mu.Unlock()

	for _, entry := range stale {
		entry.quiz.Stop()
		entry.mu.Unlock()
	}
	return len(stale)
}

// RunCleanup reaps idle sessions every interval until ctx is done
func (s *QuizService) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.CleanupIdle(); n > 0 {
				log.Printf("Removed %d idle quiz sessions", n)
			}
		}
	}
}

// Phrases lists everything a quiz may speak over the catalog, for
// generating audio ahead of time
func (s *QuizService) Phrases() []string {
	phrases := quiz.FixedPhrases()
	for _, w := range s.catalog.AllWords() {
		phrases = append(phrases, w.Name, quiz.WordWithExample(w), quiz.WordWithDefinition(w))
	}

	seen := make(map[string]bool, len(phrases))
	out := phrases[:0]
	for _, p := range phrases {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

// SessionCount returns the number of live sessions
func (s *QuizService) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
