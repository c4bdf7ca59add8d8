package quiz

import "time"

// Progress is the position within a run
type Progress struct {
	Index int `json:"index"`
	Total int `json:"total"`
}

// ChoiceView is what a renderer shows for a choice question
type ChoiceView struct {
	QuizType string              `json:"quizType"`
	Word     string              `json:"word"`
	Options  [OptionCount]string `json:"options"`
	Degraded bool                `json:"degraded,omitempty"`
	Progress Progress            `json:"progress"`
}

// SpellingView is what a renderer shows for a spelling word
type SpellingView struct {
	Definition string   `json:"definition"`
	Example    string   `json:"example"`
	Synonyms   string   `json:"synonyms"`
	Message    string   `json:"message,omitempty"`
	Progress   Progress `json:"progress"`
}

// Feedback is shown after an answer or a reveal. CorrectIndex is -1 unless
// the correct option may be shown.
type Feedback struct {
	Correct      bool   `json:"correct"`
	TryAgain     bool   `json:"tryAgain"`
	Skipped      bool   `json:"skipped"`
	Revealed     bool   `json:"revealed"`
	Choice       int    `json:"choice"`
	CorrectIndex int    `json:"correctIndex"`
	Answer       string `json:"answer,omitempty"`
	Message      string `json:"message,omitempty"`
}

// Renderer receives display updates from a session
type Renderer interface {
	RenderChoice(ChoiceView)
	RenderSpelling(SpellingView)
	RenderFeedback(Feedback)
	RenderResults(Summary)
}

// Speaker receives phrases to vocalize. Calls are fire-and-forget.
type Speaker interface {
	Speak(phrase string)
}

// Timer is a pending scheduled callback
type Timer interface {
	Stop() bool
}

// Scheduler defers callbacks used for pacing between questions. A Session
// is not safe for concurrent use, so callbacks must not run concurrently
// with other calls on the same session.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// InlineScheduler runs callbacks immediately on the calling goroutine
type InlineScheduler struct{}

func (InlineScheduler) AfterFunc(_ time.Duration, f func()) Timer {
	f()
	return firedTimer{}
}

type firedTimer struct{}

func (firedTimer) Stop() bool { return false }

type discardRenderer struct{}

func (discardRenderer) RenderChoice(ChoiceView)     {}
func (discardRenderer) RenderSpelling(SpellingView) {}
func (discardRenderer) RenderFeedback(Feedback)     {}
func (discardRenderer) RenderResults(Summary)       {}

type discardSpeaker struct{}

func (discardSpeaker) Speak(string) {}
