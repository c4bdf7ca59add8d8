package service

import (
	"context"
	"log"
	"time"

	"spellingvocab/internal/audio"
	"spellingvocab/internal/quiz"
)

const (
	maxBufferedEvents = 64
	speechWarmTimeout = 15 * time.Second
)

// Event types delivered to clients
const (
	EventQuestion = "question"
	EventSpelling = "spelling"
	EventFeedback = "feedback"
	EventResults  = "results"
	EventSpeech   = "speech"
)

// Speech is a phrase to vocalize. AudioURL is set when an MP3 is (or will
// shortly be) available from the speech cache.
type Speech struct {
	Text     string `json:"text"`
	AudioURL string `json:"audioUrl,omitempty"`
}

// Event is one display or speech update produced by a quiz session
type Event struct {
	Type     string             `json:"type"`
	Choice   *quiz.ChoiceView   `json:"choice,omitempty"`
	Spelling *quiz.SpellingView `json:"spelling,omitempty"`
	Feedback *quiz.Feedback     `json:"feedback,omitempty"`
	Results  *quiz.Summary      `json:"results,omitempty"`
	Speech   *Speech            `json:"speech,omitempty"`
}

// eventBuffer is both the Renderer and the Speaker of a session. Events
// accumulate until the client collects them. Callers hold the session lock.
type eventBuffer struct {
	events []Event
	cache  *audio.Cache
	voice  audio.Voice
	speed  audio.Speed
	debug  bool
}

func (b *eventBuffer) push(e Event) {
	if len(b.events) >= maxBufferedEvents {
		b.events = b.events[1:]
	}
	b.events = append(b.events, e)
}

// drain returns and clears the buffered events
func (b *eventBuffer) drain() []Event {
	out := b.events
	b.events = nil
	if out == nil {
		out = []Event{}
	}
	return out
}

func (b *eventBuffer) RenderChoice(v quiz.ChoiceView) {
	b.push(Event{Type: EventQuestion, Choice: &v})
}

func (b *eventBuffer) RenderSpelling(v quiz.SpellingView) {
	b.push(Event{Type: EventSpelling, Spelling: &v})
}

func (b *eventBuffer) RenderFeedback(f quiz.Feedback) {
	b.push(Event{Type: EventFeedback, Feedback: &f})
}

func (b *eventBuffer) RenderResults(s quiz.Summary) {
	b.push(Event{Type: EventResults, Results: &s})
}

// Speak records the phrase and starts synthesizing it in the background
func (b *eventBuffer) Speak(phrase string) {
	sp := &Speech{Text: phrase}
	if b.cache != nil && b.cache.Enabled() {
		sp.AudioURL = "/speech/" + b.cache.Filename(phrase, b.voice, b.speed)
		go b.warm(phrase, b.voice, b.speed)
	}
	b.push(Event{Type: EventSpeech, Speech: sp})
}

func (b *eventBuffer) warm(phrase string, voice audio.Voice, speed audio.Speed) {
	ctx, cancel := context.WithTimeout(context.Background(), speechWarmTimeout)
	defer cancel()

	if _, err := b.cache.Get(ctx, phrase, voice, speed); err != nil {
		log.Printf("Warning: speech synthesis failed: %v", err)
	} else if b.debug {
		log.Printf("[DEBUG] Speech ready for %q", phrase)
	}
}
