package quiz

import "spellingvocab/internal/models"

// SpellingOutcome describes what a submitted spelling changed
type SpellingOutcome struct {
	Accepted bool `json:"accepted"`
	Correct  bool `json:"correct"`
	Skipped  bool `json:"skipped"`
	TryAgain bool `json:"tryAgain"`
	Advanced bool `json:"advanced"`
	Complete bool `json:"complete"`
	// Restarted is set when input after the last word began a new run
	Restarted bool   `json:"restarted,omitempty"`
	Expected  string `json:"expected,omitempty"`
	Given     string `json:"given"`
	Index     int    `json:"index"`
}

// SpellingEngine runs the spelling quiz. Input is compared exactly, without
// trimming or case folding. Empty input skips the word. A first mismatch
// earns one more try; the second records the miss and advances.
type SpellingEngine struct {
	words    []models.Word
	tally    *Tally
	index    int
	firstTry bool
}

// NewSpellingEngine prepares an engine for words and starts it
func NewSpellingEngine(words []models.Word, tally *Tally) (*SpellingEngine, error) {
	if len(words) == 0 {
		return nil, ErrMissingData
	}
	e := &SpellingEngine{words: words, tally: tally}
	e.Start()
	return e, nil
}

// Start clears progress and rewinds to the first word
func (e *SpellingEngine) Start() {
	e.tally.Reset()
	e.index = 0
	e.firstTry = true
}

func (e *SpellingEngine) Index() int           { return e.index }
func (e *SpellingEngine) Len() int             { return len(e.words) }
func (e *SpellingEngine) FirstTry() bool       { return e.firstTry }
func (e *SpellingEngine) Complete() bool       { return e.index >= len(e.words) }
func (e *SpellingEngine) Words() []models.Word { return e.words }

// Current returns the word being spelled
func (e *SpellingEngine) Current() (models.Word, bool) {
	if e.Complete() {
		return models.Word{}, false
	}
	return e.words[e.index], true
}

// Submit scores input against the current word. Input after the last word
// is not accepted.
func (e *SpellingEngine) Submit(input string) SpellingOutcome {
	word, ok := e.Current()
	if !ok {
		return SpellingOutcome{Given: input, Index: e.index}
	}

	out := SpellingOutcome{Accepted: true, Expected: word.Name, Given: input, Index: e.index}
	switch {
	case input == word.Name:
		out.Correct = true
		e.tally.RecordRight(word.Name)
		e.tally.MarkCorrect(e.index)
	case input == "":
		out.Skipped = true
		e.tally.RecordSkipped(word.Name)
	case e.firstTry:
		e.firstTry = false
		out.TryAgain = true
		out.Expected = ""
		return out
	default:
		e.tally.RecordWrong(word.Name, word.Name, input)
	}

	e.advance()
	out.Advanced = true
	out.Index = e.index
	out.Complete = e.Complete()
	return out
}

// Reveal returns the current word's spelling without scoring it
func (e *SpellingEngine) Reveal() (string, bool) {
	word, ok := e.Current()
	return word.Name, ok
}

func (e *SpellingEngine) advance() {
	e.index++
	e.firstTry = true
}

// Summary builds the results view for the run
func (e *SpellingEngine) Summary() Summary {
	return e.tally.Summarize(e.words, models.Spelling)
}
