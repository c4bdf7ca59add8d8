package quiz

import (
	"fmt"

	"spellingvocab/internal/models"
)

// TallyRow is one recorded outcome for a word in a run
type TallyRow struct {
	Word     string `json:"word"`
	Expected string `json:"expected"`
	Given    string `json:"given"`
}

// Tally accumulates the outcome of a single quiz run. It is reset at the
// start of every run and only appended to while the run lasts.
type Tally struct {
	correct        int
	right          []string
	wrong          []TallyRow
	skipped        []TallyRow
	correctIndices map[int]bool
}

// Reset clears every count and row
func (t *Tally) Reset() {
	t.correct = 0
	t.right = nil
	t.wrong = nil
	t.skipped = nil
	t.correctIndices = nil
}

// RecordRight counts a correct answer for word
func (t *Tally) RecordRight(word string) {
	t.correct++
	t.right = append(t.right, word)
}

// RecordWrong adds a wrong row
func (t *Tally) RecordWrong(word, expected, given string) {
	t.wrong = append(t.wrong, TallyRow{Word: word, Expected: expected, Given: given})
}

// RecordSkipped adds a skipped row
func (t *Tally) RecordSkipped(word string) {
	t.skipped = append(t.skipped, TallyRow{Word: word, Expected: word, Given: models.SkippedAnswer})
}

// MarkCorrect remembers that the word at index was answered correctly
func (t *Tally) MarkCorrect(index int) {
	if t.correctIndices == nil {
		t.correctIndices = make(map[int]bool)
	}
	t.correctIndices[index] = true
}

func (t *Tally) IsCorrect(index int) bool { return t.correctIndices[index] }
func (t *Tally) Correct() int             { return t.correct }
func (t *Tally) Right() []string          { return append([]string(nil), t.right...) }
func (t *Tally) Wrong() []TallyRow        { return append([]TallyRow(nil), t.wrong...) }
func (t *Tally) Skipped() []TallyRow      { return append([]TallyRow(nil), t.skipped...) }

// WordResult marks a word of a choice quiz as answered correctly or not
type WordResult struct {
	Word    string `json:"word"`
	Detail  string `json:"detail"`
	Correct bool   `json:"correct"`
}

// Summary is the results view of a finished run
type Summary struct {
	QuizType models.QuizType `json:"quizType"`
	Correct  int             `json:"correct"`
	Total    int             `json:"total"`
	Percent  float64         `json:"percent"`
	Headline string          `json:"headline"`
	Message  string          `json:"message"`
	Right    []string        `json:"right"`
	Wrong    []TallyRow      `json:"wrong"`
	Skipped  []TallyRow      `json:"skipped"`
	Words    []WordResult    `json:"words,omitempty"`
}

// Missed reports whether any word was not answered correctly
func (s Summary) Missed() bool {
	return s.Correct < s.Total
}

// Summarize builds the results view for a run over words
func (t *Tally) Summarize(words []models.Word, quizType models.QuizType) Summary {
	total := len(words)
	var percent float64
	if total > 0 {
		percent = float64(t.correct) / float64(total) * 100
	}

	s := Summary{
		QuizType: quizType,
		Correct:  t.correct,
		Total:    total,
		Percent:  percent,
		Headline: CompletionHeadline(t.correct, total),
		Message:  CompletionMessage(percent),
		Right:    t.Right(),
		Wrong:    t.Wrong(),
		Skipped:  t.Skipped(),
	}

	if quizType.IsChoice() {
		for i, row := range wordTable(words, quizType) {
			s.Words = append(s.Words, WordResult{Word: row.Word, Detail: row.Detail, Correct: t.IsCorrect(i)})
		}
	}
	return s
}

// CompletionHeadline formats the score line shown when a run finishes
func CompletionHeadline(correct, total int) string {
	return fmt.Sprintf("Correct: %d out of %d", correct, total)
}

// CompletionMessage picks the spoken message for a score percentage
func CompletionMessage(percent float64) string {
	switch {
	case percent >= 100:
		return "Perfect! You're awesome!"
	case percent >= 85:
		return "Great job!"
	case percent >= 70:
		return "Good, but you can do even better."
	case percent >= 50:
		return "Study up and give it another try."
	default:
		return "You may want to take a good look at the list."
	}
}
