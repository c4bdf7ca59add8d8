package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spellingvocab/internal/models"
)

func newSpelling(t *testing.T, names ...string) (*SpellingEngine, *Tally) {
	t.Helper()
	var words []models.Word
	for _, n := range names {
		words = append(words, models.Word{Name: n, Definition: n + " def"})
	}
	tally := &Tally{}
	e, err := NewSpellingEngine(words, tally)
	require.NoError(t, err)
	return e, tally
}

func TestNewSpellingEngineRequiresWords(t *testing.T) {
	_, err := NewSpellingEngine(nil, &Tally{})
	assert.ErrorIs(t, err, ErrMissingData)
}

func TestSpellingSubmit(t *testing.T) {
	tests := []struct {
		name         string
		inputs       []string
		wantCorrect  int
		wantWrong    int
		wantSkipped  int
		wantIndex    int
		wantFirstTry bool
	}{
		{name: "exact match advances", inputs: []string{"brave"}, wantCorrect: 1, wantIndex: 1, wantFirstTry: true},
		{name: "empty input skips on first try", inputs: []string{""}, wantSkipped: 1, wantIndex: 1, wantFirstTry: true},
		{name: "first mismatch waits", inputs: []string{"brav"}, wantIndex: 0, wantFirstTry: false},
		{name: "second mismatch records one row", inputs: []string{"brav", "braev"}, wantWrong: 1, wantIndex: 1, wantFirstTry: true},
		{name: "mismatch then match", inputs: []string{"brav", "brave"}, wantCorrect: 1, wantIndex: 1, wantFirstTry: true},
		{name: "mismatch then empty skips", inputs: []string{"brav", ""}, wantSkipped: 1, wantIndex: 1, wantFirstTry: true},
		{name: "case sensitive", inputs: []string{"Brave", "BRAVE"}, wantWrong: 1, wantIndex: 1, wantFirstTry: true},
		{name: "no trimming", inputs: []string{"brave ", " brave"}, wantWrong: 1, wantIndex: 1, wantFirstTry: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, tally := newSpelling(t, "brave", "gather")
			for _, in := range tt.inputs {
				e.Submit(in)
			}
			assert.Equal(t, tt.wantCorrect, tally.Correct())
			assert.Len(t, tally.Wrong(), tt.wantWrong)
			assert.Len(t, tally.Skipped(), tt.wantSkipped)
			assert.Equal(t, tt.wantIndex, e.Index())
			assert.Equal(t, tt.wantFirstTry, e.FirstTry())
		})
	}
}

func TestSpellingOutcomes(t *testing.T) {
	e, tally := newSpelling(t, "brave")

	out := e.Submit("brav")
	assert.True(t, out.Accepted)
	assert.True(t, out.TryAgain)
	assert.Empty(t, out.Expected)

	out = e.Submit("bravo")
	assert.True(t, out.Advanced)
	assert.True(t, out.Complete)
	assert.Equal(t, "brave", out.Expected)

	rows := tally.Wrong()
	require.Len(t, rows, 1)
	assert.Equal(t, TallyRow{Word: "brave", Expected: "brave", Given: "bravo"}, rows[0])

	out = e.Submit("brave")
	assert.False(t, out.Accepted)
	assert.Zero(t, tally.Correct())
}

func TestSkippedRow(t *testing.T) {
	e, tally := newSpelling(t, "brave")
	e.Submit("")

	rows := tally.Skipped()
	require.Len(t, rows, 1)
	assert.Equal(t, models.SkippedAnswer, rows[0].Given)
	assert.Equal(t, "brave", rows[0].Expected)
}

func TestSpellingEndToEnd(t *testing.T) {
	e, tally := newSpelling(t, "brave", "gather", "ancient")

	e.Submit("brave")
	e.Submit("")
	e.Submit("anshent")
	out := e.Submit("ancient!")

	assert.True(t, out.Complete)
	assert.Equal(t, 3, e.Index())
	assert.True(t, e.Complete())
	assert.Equal(t, 1, tally.Correct())
	assert.Len(t, tally.Skipped(), 1)
	assert.Len(t, tally.Wrong(), 1)

	_, ok := e.Current()
	assert.False(t, ok)

	sum := e.Summary()
	assert.Equal(t, "Correct: 1 out of 3", sum.Headline)
	assert.Equal(t, "You may want to take a good look at the list.", sum.Message)
	assert.Equal(t, []string{"brave"}, sum.Right)
	assert.Empty(t, sum.Words)
	assert.True(t, sum.Missed())
}

func TestSpellingStartResets(t *testing.T) {
	e, tally := newSpelling(t, "brave", "gather")
	e.Submit("brave")
	e.Submit("x")

	e.Start()

	assert.Zero(t, e.Index())
	assert.True(t, e.FirstTry())
	assert.Zero(t, tally.Correct())
	assert.Empty(t, tally.Right())
}

func TestSpellingReveal(t *testing.T) {
	e, tally := newSpelling(t, "brave")

	word, ok := e.Reveal()
	assert.True(t, ok)
	assert.Equal(t, "brave", word)
	assert.Zero(t, tally.Correct())
	assert.Zero(t, e.Index())
}
