package quiz

import (
	"fmt"
	"math/rand"

	"spellingvocab/internal/models"
)

const (
	// OptionCount is the number of options shown for every choice question
	OptionCount = 4

	// drawsPerPoolEntry bounds rejection sampling to len(pool)*drawsPerPoolEntry draws
	drawsPerPoolEntry = 8

	// PlaceholderOption fills slots when the pool has no distractor at all
	PlaceholderOption = "(no other option)"
)

// ChoiceQuestion is the option set for one word
type ChoiceQuestion struct {
	Index        int                 `json:"index"`
	Word         models.Word         `json:"word"`
	Options      [OptionCount]string `json:"options"`
	CorrectIndex int                 `json:"-"`
	Degraded     bool                `json:"degraded,omitempty"`
}

// Answer is the text of the correct option
func (q ChoiceQuestion) Answer() string {
	return q.Options[q.CorrectIndex]
}

// ChoiceOutcome describes what a submitted choice changed
type ChoiceOutcome struct {
	// Accepted is false when the submission was ignored
	Accepted     bool   `json:"accepted"`
	Correct      bool   `json:"correct"`
	TryAgain     bool   `json:"tryAgain"`
	Advanced     bool   `json:"advanced"`
	Complete     bool   `json:"complete"`
	Choice       int    `json:"choice"`
	Chosen       string `json:"chosen,omitempty"`
	CorrectIndex int    `json:"correctIndex"`
	Answer       string `json:"answer,omitempty"`
	Index        int    `json:"index"`
}

// BuildPool collects the possible answers for a choice quiz: every
// definition for Definitions, every individual synonym for Synonyms.
// Empty values and the none-of-the-above sentinel are left out.
func BuildPool(words []models.Word, quizType models.QuizType) []string {
	var pool []string
	for _, w := range words {
		switch quizType {
		case models.Definitions:
			if w.Definition != "" && w.Definition != models.NoneOfTheAbove {
				pool = append(pool, w.Definition)
			}
		case models.Synonyms:
			for _, s := range w.SynonymList() {
				if s != models.NoneOfTheAbove {
					pool = append(pool, s)
				}
			}
		}
	}
	return pool
}

// ChoiceEngine runs a definitions or synonyms quiz over the active words.
//
// A question is answerable only while ready is set. A wrong answer leaves
// the question in place once; the second wrong answer records a miss and
// advances. Correct answers always advance.
type ChoiceEngine struct {
	quizType models.QuizType
	words    []models.Word
	pool     []string
	tally    *Tally
	rng      *rand.Rand

	index          int
	current        ChoiceQuestion
	ready          bool
	retryAvailable bool
}

// NewChoiceEngine prepares an engine for words, drawing distractors from pool
func NewChoiceEngine(quizType models.QuizType, words []models.Word, pool []string, tally *Tally, rng *rand.Rand) (*ChoiceEngine, error) {
	if !quizType.IsChoice() {
		return nil, fmt.Errorf("%v: %w", quizType, ErrWrongMode)
	}
	if len(words) == 0 {
		return nil, ErrMissingData
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	e := &ChoiceEngine{
		quizType: quizType,
		words:    words,
		pool:     pool,
		tally:    tally,
		rng:      rng,
	}
	e.Start()
	return e, nil
}

// Start clears progress and rewinds to the first word
func (e *ChoiceEngine) Start() {
	e.tally.Reset()
	e.index = 0
	e.current = ChoiceQuestion{}
	e.ready = false
	e.retryAvailable = true
}

func (e *ChoiceEngine) QuizType() models.QuizType { return e.quizType }
func (e *ChoiceEngine) Index() int                { return e.index }
func (e *ChoiceEngine) Len() int                  { return len(e.words) }
func (e *ChoiceEngine) Ready() bool               { return e.ready }
func (e *ChoiceEngine) Complete() bool            { return e.index >= len(e.words) }
func (e *ChoiceEngine) Words() []models.Word      { return e.words }

// Current returns the prepared question, if any
func (e *ChoiceEngine) Current() (ChoiceQuestion, bool) {
	return e.current, e.ready
}

// PrepareQuestion builds the option set for the current word and marks the
// engine ready. When the pool lacks distinct values the question is still
// returned, flagged Degraded, together with ErrPoolTooSmall.
func (e *ChoiceEngine) PrepareQuestion() (ChoiceQuestion, error) {
	if e.Complete() {
		return ChoiceQuestion{}, ErrNotRunning
	}

	word := e.words[e.index]
	answer := e.correctAnswer(word)
	var exclude []string
	if e.quizType == models.Synonyms {
		exclude = word.SynonymList()
	}
	options, correct, degraded := e.buildOptions(answer, exclude)

	e.current = ChoiceQuestion{
		Index:        e.index,
		Word:         word,
		Options:      options,
		CorrectIndex: correct,
		Degraded:     degraded,
	}
	e.ready = true

	if degraded {
		return e.current, fmt.Errorf("word %q: %w", word.Name, ErrPoolTooSmall)
	}
	return e.current, nil
}

func (e *ChoiceEngine) correctAnswer(w models.Word) string {
	if e.quizType == models.Definitions {
		return w.Definition
	}
	synonyms := w.SynonymList()
	if len(synonyms) == 0 {
		return models.NoneOfTheAbove
	}
	return synonyms[e.rng.Intn(len(synonyms))]
}

// buildOptions draws distractors around answer, never picking a value in
// exclude. The answer always appears exactly once. The sentinel answer is
// pinned to the last slot; otherwise every slot is shuffled.
func (e *ChoiceEngine) buildOptions(answer string, exclude []string) ([OptionCount]string, int, bool) {
	sentinel := answer == models.NoneOfTheAbove
	target := OptionCount

	chosen := make([]string, 0, OptionCount)
	seen := map[string]bool{answer: true}
	for _, x := range exclude {
		seen[x] = true
	}
	if sentinel {
		target = OptionCount - 1
	} else {
		chosen = append(chosen, answer)
	}

	for draws := len(e.pool) * drawsPerPoolEntry; draws > 0 && len(chosen) < target; draws-- {
		candidate := e.pool[e.rng.Intn(len(e.pool))]
		if seen[candidate] {
			continue
		}
		seen[candidate] = true
		chosen = append(chosen, candidate)
	}

	// Sampling can miss the last few distinct values of a skewed pool.
	for _, candidate := range e.pool {
		if len(chosen) >= target {
			break
		}
		if !seen[candidate] {
			seen[candidate] = true
			chosen = append(chosen, candidate)
		}
	}

	degraded := len(chosen) < target
	if degraded {
		distractors := append([]string(nil), chosen...)
		if !sentinel {
			distractors = distractors[1:]
		}
		for i := 0; len(chosen) < target; i++ {
			filler := PlaceholderOption
			if len(distractors) > 0 {
				filler = distractors[i%len(distractors)]
			}
			chosen = append(chosen, filler)
		}
	}

	e.rng.Shuffle(len(chosen), func(i, j int) { chosen[i], chosen[j] = chosen[j], chosen[i] })
	if sentinel {
		chosen = append(chosen, models.NoneOfTheAbove)
	}

	var options [OptionCount]string
	correct := 0
	for i, opt := range chosen {
		options[i] = opt
		if opt == answer {
			correct = i
		}
	}
	return options, correct, degraded
}

// Submit scores a choice for the current question. Submissions while the
// engine is not ready, or with an index outside 0..3, are ignored.
func (e *ChoiceEngine) Submit(choice int) ChoiceOutcome {
	if !e.ready || e.Complete() || choice < 0 || choice >= OptionCount {
		return ChoiceOutcome{Index: e.index, Choice: choice, CorrectIndex: -1}
	}

	q := e.current
	out := ChoiceOutcome{
		Accepted:     true,
		Choice:       choice,
		Chosen:       q.Options[choice],
		CorrectIndex: -1,
		Index:        e.index,
	}

	switch {
	case choice == q.CorrectIndex:
		out.Correct = true
		e.tally.RecordRight(q.Word.Name)
		e.tally.MarkCorrect(e.index)
	case e.retryAvailable:
		e.retryAvailable = false
		out.TryAgain = true
		return out
	default:
		e.tally.RecordWrong(q.Word.Name, q.Answer(), q.Options[choice])
	}

	out.CorrectIndex = q.CorrectIndex
	out.Answer = q.Answer()
	e.advance()
	out.Advanced = true
	out.Index = e.index
	out.Complete = e.Complete()
	return out
}

// Reveal returns the current correct option without scoring it
func (e *ChoiceEngine) Reveal() (int, string, bool) {
	if !e.ready {
		return -1, "", false
	}
	return e.current.CorrectIndex, e.current.Answer(), true
}

func (e *ChoiceEngine) advance() {
	e.ready = false
	e.retryAvailable = true
	e.index++
}

// Summary builds the results view for the run
func (e *ChoiceEngine) Summary() Summary {
	return e.tally.Summarize(e.words, e.quizType)
}
