package quiz

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"spellingvocab/internal/catalog"
	"spellingvocab/internal/models"
)

// PoolScope decides which words feed the distractor pool of choice quizzes
type PoolScope int

const (
	// ScopeList draws distractors from the active list only
	ScopeList PoolScope = iota
	// ScopeCatalog draws distractors from every word in the catalog
	ScopeCatalog
)

// ParsePoolScope accepts "list" or "catalog"
func ParsePoolScope(s string) (PoolScope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "list":
		return ScopeList, nil
	case "catalog", "all":
		return ScopeCatalog, nil
	}
	return ScopeList, fmt.Errorf("unknown distractor scope %q", s)
}

const (
	DefaultNextQuestionDelay = time.Second
	DefaultResultsDelay      = 500 * time.Millisecond
)

// Options configures a Session. Zero values fall back to an inline
// scheduler, discarding sinks and a randomly seeded source.
type Options struct {
	NextQuestionDelay time.Duration
	ResultsDelay      time.Duration
	PoolScope         PoolScope
	Rand              *rand.Rand
	Scheduler         Scheduler
	Renderer          Renderer
	Speaker           Speaker
}

// State is a snapshot of a session for display
type State struct {
	QuizType string        `json:"quizType"`
	Running  bool          `json:"running"`
	Complete bool          `json:"complete"`
	Pending  bool          `json:"pending"`
	Progress Progress      `json:"progress"`
	Choice   *ChoiceView   `json:"choice,omitempty"`
	Spelling *SpellingView `json:"spelling,omitempty"`
	Results  *Summary      `json:"results,omitempty"`
}

// Session owns the selection, the tally and the engine of the current run.
// It is driven by one actor and is not safe for concurrent use.
type Session struct {
	catalog   *catalog.Catalog
	selection *Selection
	opts      Options
	rng       *rand.Rand
	renderer  Renderer
	speaker   Speaker
	scheduler Scheduler

	tally        Tally
	mode         models.QuizType
	choice       *ChoiceEngine
	spelling     *SpellingEngine
	running      bool
	resultsShown bool

	pending Timer
	run     uint64
}

// NewSession creates a session over a loaded catalog
func NewSession(c *catalog.Catalog, opts Options) *Session {
	s := &Session{
		catalog:   c,
		selection: NewSelection(c),
		opts:      opts,
		rng:       opts.Rand,
		renderer:  opts.Renderer,
		speaker:   opts.Speaker,
		scheduler: opts.Scheduler,
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.renderer == nil {
		s.renderer = discardRenderer{}
	}
	if s.speaker == nil {
		s.speaker = discardSpeaker{}
	}
	if s.scheduler == nil {
		s.scheduler = InlineScheduler{}
	}
	return s
}

func (s *Session) Selection() *Selection { return s.selection }
func (s *Session) Running() bool         { return s.running }

// Active reports whether a run exists, running or finished
func (s *Session) Active() bool { return s.choice != nil || s.spelling != nil }

// Start begins a new run for the current selection. Any pending timer from
// the previous run is cancelled and its callback becomes a no-op.
func (s *Session) Start() error {
	s.reset()

	words := s.selection.ActiveWords()
	if len(words) == 0 {
		return fmt.Errorf("grade %d list %q: %w", s.selection.Grade(), s.selection.List(), ErrMissingData)
	}
	s.mode = s.selection.QuizType()

	if s.mode.IsChoice() {
		engine, err := NewChoiceEngine(s.mode, words, s.pool(words), &s.tally, s.rng)
		if err != nil {
			return err
		}
		s.choice = engine
		s.running = true
		s.showQuestion()
		return nil
	}

	engine, err := NewSpellingEngine(words, &s.tally)
	if err != nil {
		return err
	}
	s.spelling = engine
	s.running = true
	s.showSpelling(StartMessage(len(words)))
	return nil
}

// Stop cancels any pending timer and abandons the run
func (s *Session) Stop() {
	s.reset()
}

func (s *Session) reset() {
	s.cancelPending()
	s.run++
	s.choice = nil
	s.spelling = nil
	s.running = false
	s.resultsShown = false
	s.tally.Reset()
}

func (s *Session) pool(words []models.Word) []string {
	if s.opts.PoolScope == ScopeCatalog {
		return BuildPool(s.catalog.AllWords(), s.mode)
	}
	return BuildPool(words, s.mode)
}

// Answer submits a choice index for the current question
func (s *Session) Answer(choice int) (ChoiceOutcome, error) {
	if s.choice == nil {
		if s.spelling != nil {
			return ChoiceOutcome{}, ErrWrongMode
		}
		return ChoiceOutcome{}, ErrNotRunning
	}

	out := s.choice.Submit(choice)
	if !out.Accepted {
		return out, nil
	}

	s.speaker.Speak(RandomResponse(s.rng, out.Correct))
	s.renderer.RenderFeedback(Feedback{
		Correct:      out.Correct,
		TryAgain:     out.TryAgain,
		Choice:       out.Choice,
		CorrectIndex: out.CorrectIndex,
		Answer:       out.Answer,
	})

	if out.Advanced {
		if out.Complete {
			s.schedule(s.opts.ResultsDelay, s.finish)
		} else {
			s.schedule(s.opts.NextQuestionDelay, s.showQuestion)
		}
	}
	return out, nil
}

// Spell submits free-text input for the current spelling word. Input after
// the run has finished starts a new run over the current selection.
func (s *Session) Spell(input string) (SpellingOutcome, error) {
	if s.spelling == nil {
		if s.choice != nil {
			return SpellingOutcome{}, ErrWrongMode
		}
		return SpellingOutcome{}, ErrNotRunning
	}

	if s.spelling.Complete() {
		if err := s.Start(); err != nil {
			return SpellingOutcome{}, err
		}
		return SpellingOutcome{Restarted: true, Given: input}, nil
	}

	out := s.spelling.Submit(input)
	switch {
	case out.TryAgain:
		s.speaker.Speak(TryAgainMessage)
		s.renderer.RenderFeedback(Feedback{TryAgain: true, CorrectIndex: -1, Message: TryAgainMessage})
		return out, nil
	case out.Advanced:
		s.renderer.RenderFeedback(Feedback{
			Correct:      out.Correct,
			Skipped:      out.Skipped,
			CorrectIndex: -1,
			Answer:       out.Expected,
			Message:      out.Expected,
		})
	}

	if out.Complete {
		s.finish()
	} else if out.Advanced {
		s.showSpelling("")
	}
	return out, nil
}

// Reveal shows the current answer without scoring it. Between choice
// questions there is nothing to reveal and an empty feedback is returned.
func (s *Session) Reveal() (Feedback, error) {
	fb := Feedback{Revealed: true, CorrectIndex: -1}
	switch {
	case s.choice != nil:
		idx, answer, ok := s.choice.Reveal()
		if !ok {
			if s.choice.Complete() {
				return fb, ErrNotRunning
			}
			return Feedback{CorrectIndex: -1}, nil
		}
		fb.CorrectIndex = idx
		fb.Answer = answer
	case s.spelling != nil:
		word, ok := s.spelling.Reveal()
		if !ok {
			return fb, ErrNotRunning
		}
		fb.Answer = word
		fb.Message = word
	default:
		return fb, ErrNotRunning
	}
	s.renderer.RenderFeedback(fb)
	return fb, nil
}

// SpeakWord replays the prompt for the current word
func (s *Session) SpeakWord() error {
	switch {
	case s.choice != nil:
		q, ok := s.choice.Current()
		if !ok {
			return ErrNotRunning
		}
		s.speaker.Speak(q.Word.Name)
	case s.spelling != nil:
		w, ok := s.spelling.Current()
		if !ok {
			return ErrNotRunning
		}
		s.speaker.Speak(WordWithExample(w))
	default:
		return ErrNotRunning
	}
	return nil
}

// SpeakDefinition reads out the current word with its definition
func (s *Session) SpeakDefinition() error {
	var (
		w  models.Word
		ok bool
	)
	switch {
	case s.choice != nil:
		var q ChoiceQuestion
		q, ok = s.choice.Current()
		w = q.Word
	case s.spelling != nil:
		w, ok = s.spelling.Current()
	}
	if !ok {
		return ErrNotRunning
	}
	s.speaker.Speak(WordWithDefinition(w))
	return nil
}

// Summary returns the results of the run once every word has been answered
func (s *Session) Summary() (Summary, bool) {
	switch {
	case s.choice != nil && s.choice.Complete():
		return s.choice.Summary(), true
	case s.spelling != nil && s.spelling.Complete():
		return s.spelling.Summary(), true
	}
	return Summary{}, false
}

// State returns a snapshot of the run for display
func (s *Session) State() State {
	st := State{QuizType: s.selection.QuizType().String(), Running: s.running}

	switch {
	case s.choice != nil:
		st.QuizType = s.choice.QuizType().String()
		st.Complete = s.choice.Complete()
		st.Progress = Progress{Index: s.choice.Index(), Total: s.choice.Len()}
		if q, ok := s.choice.Current(); ok {
			view := s.choiceView(q)
			st.Choice = &view
		} else if !st.Complete {
			st.Pending = true
		}
	case s.spelling != nil:
		st.QuizType = models.Spelling.String()
		st.Complete = s.spelling.Complete()
		st.Progress = Progress{Index: s.spelling.Index(), Total: s.spelling.Len()}
		if w, ok := s.spelling.Current(); ok {
			view := s.spellingView(w, "")
			st.Spelling = &view
		}
	}

	if s.resultsShown {
		if sum, ok := s.Summary(); ok {
			st.Results = &sum
		}
	}
	return st
}

func (s *Session) showQuestion() {
	q, err := s.choice.PrepareQuestion()
	if err != nil {
		if !errors.Is(err, ErrPoolTooSmall) {
			return
		}
		log.Printf("Warning: %v", err)
	}
	s.renderer.RenderChoice(s.choiceView(q))
	s.speaker.Speak(q.Word.Name)
}

func (s *Session) choiceView(q ChoiceQuestion) ChoiceView {
	return ChoiceView{
		QuizType: s.choice.QuizType().String(),
		Word:     q.Word.Name,
		Options:  q.Options,
		Degraded: q.Degraded,
		Progress: Progress{Index: q.Index, Total: s.choice.Len()},
	}
}

func (s *Session) showSpelling(message string) {
	w, ok := s.spelling.Current()
	if !ok {
		return
	}
	s.renderer.RenderSpelling(s.spellingView(w, message))
	s.speaker.Speak(WordWithExample(w))
}

func (s *Session) spellingView(w models.Word, message string) SpellingView {
	return SpellingView{
		Definition: DefinitionLine(w),
		Example:    MaskExample(w.Example, w.Name),
		Synonyms:   w.Synonyms,
		Message:    message,
		Progress:   Progress{Index: s.spelling.Index(), Total: s.spelling.Len()},
	}
}

func (s *Session) finish() {
	sum, ok := s.Summary()
	if !ok {
		return
	}
	s.running = false
	s.resultsShown = true
	s.renderer.RenderResults(sum)
	s.speaker.Speak(sum.Message)
}

// schedule runs f after d unless a newer run has started by then
func (s *Session) schedule(d time.Duration, f func()) {
	s.cancelPending()
	run := s.run
	fire := func() {
		if s.run != run {
			return
		}
		s.pending = nil
		f()
	}
	if d <= 0 {
		fire()
		return
	}
	s.pending = s.scheduler.AfterFunc(d, fire)
}

func (s *Session) cancelPending() {
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
}
