package quiz

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spellingvocab/internal/models"
)

func testWords() []models.Word {
	return []models.Word{
		{Name: "brave", PartOfSpeech: "adjective", Definition: "showing courage", Example: "A brave dog.", Synonyms: "bold, courageous, fearless"},
		{Name: "gather", PartOfSpeech: "verb", Definition: "to bring together", Example: "We gather leaves.", Synonyms: "collect,assemble"},
		{Name: "habitat", PartOfSpeech: "noun", Definition: "a natural home", Example: "A pond habitat.", Synonyms: "N/A"},
		{Name: "rapid", PartOfSpeech: "adjective", Definition: "happening fast", Example: "A rapid river.", Synonyms: "fast, quick, swift"},
		{Name: "observe", PartOfSpeech: "verb", Definition: "to watch carefully", Example: "Observe the birds.", Synonyms: "watch, notice"},
	}
}

func newChoice(t *testing.T, quizType models.QuizType, words []models.Word, seed int64) (*ChoiceEngine, *Tally) {
	t.Helper()
	tally := &Tally{}
	e, err := NewChoiceEngine(quizType, words, BuildPool(words, quizType), tally, rand.New(rand.NewSource(seed)))
	require.NoError(t, err)
	return e, tally
}

func countOf(options [OptionCount]string, value string) int {
	n := 0
	for _, o := range options {
		if o == value {
			n++
		}
	}
	return n
}

func TestBuildPool(t *testing.T) {
	words := testWords()

	defs := BuildPool(words, models.Definitions)
	assert.Len(t, defs, 5)
	assert.Equal(t, "showing courage", defs[0])

	syns := BuildPool(words, models.Synonyms)
	assert.Contains(t, syns, "courageous")
	assert.Contains(t, syns, "assemble")
	assert.NotContains(t, syns, "N/A")
	assert.NotContains(t, syns, " bold")
	assert.Len(t, syns, 10)

	assert.Empty(t, BuildPool(words, models.Spelling))
}

func TestNewChoiceEngineRejects(t *testing.T) {
	_, err := NewChoiceEngine(models.Definitions, nil, nil, &Tally{}, nil)
	assert.ErrorIs(t, err, ErrMissingData)

	_, err = NewChoiceEngine(models.Spelling, testWords(), nil, &Tally{}, nil)
	assert.ErrorIs(t, err, ErrWrongMode)
}

func TestSynonymQuestionHasExactlyOneValidAnswer(t *testing.T) {
	words := testWords()
	for seed := int64(0); seed < 50; seed++ {
		e, _ := newChoice(t, models.Synonyms, words, seed)
		q, err := e.PrepareQuestion()
		require.NoError(t, err)

		answer := q.Options[q.CorrectIndex]
		assert.Contains(t, words[0].SynonymList(), answer)

		valid := 0
		for _, o := range q.Options {
			for _, s := range words[0].SynonymList() {
				if o == s {
					valid++
				}
			}
		}
		assert.Equal(t, 1, valid, "seed %d options %v", seed, q.Options)
	}
}

func TestNoSynonymsPinsSentinelLast(t *testing.T) {
	words := testWords()
	for seed := int64(0); seed < 50; seed++ {
		e, _ := newChoice(t, models.Synonyms, words, seed)
		e.index = 2

		q, err := e.PrepareQuestion()
		require.NoError(t, err)
		assert.Equal(t, models.NoneOfTheAbove, q.Options[OptionCount-1])
		assert.Equal(t, OptionCount-1, q.CorrectIndex)
		assert.Equal(t, 1, countOf(q.Options, models.NoneOfTheAbove))
	}
}

func TestOptionsAreDistinct(t *testing.T) {
	words := testWords()
	for _, quizType := range []models.QuizType{models.Definitions, models.Synonyms} {
		for seed := int64(0); seed < 30; seed++ {
			e, _ := newChoice(t, quizType, words, seed)
			for !e.Complete() {
				q, err := e.PrepareQuestion()
				require.NoError(t, err)
				assert.False(t, q.Degraded)

				seen := map[string]bool{}
				for _, o := range q.Options {
					assert.False(t, seen[o], "duplicate %q in %v", o, q.Options)
					seen[o] = true
				}
				e.Submit(q.CorrectIndex)
			}
		}
	}
}

func TestCorrectPositionIsRandomized(t *testing.T) {
	positions := map[int]bool{}
	for seed := int64(0); seed < 40; seed++ {
		e, _ := newChoice(t, models.Definitions, testWords(), seed)
		q, err := e.PrepareQuestion()
		require.NoError(t, err)
		positions[q.CorrectIndex] = true
	}
	assert.Greater(t, len(positions), 1)
}

func TestSubmitWhenNotReadyIsIgnored(t *testing.T) {
	e, tally := newChoice(t, models.Definitions, testWords(), 1)

	out := e.Submit(0)
	assert.False(t, out.Accepted)
	assert.Zero(t, tally.Correct())
	assert.Empty(t, tally.Wrong())

	q, err := e.PrepareQuestion()
	require.NoError(t, err)
	require.True(t, e.Submit(q.CorrectIndex).Advanced)

	// The next question has not been prepared yet.
	out = e.Submit(0)
	assert.False(t, out.Accepted)
	assert.Equal(t, 1, tally.Correct())
	assert.Equal(t, 1, e.Index())
}

func TestSubmitOutOfRangeIsIgnored(t *testing.T) {
	e, tally := newChoice(t, models.Definitions, testWords(), 1)
	_, err := e.PrepareQuestion()
	require.NoError(t, err)

	for _, choice := range []int{-1, 4, 99} {
		out := e.Submit(choice)
		assert.False(t, out.Accepted)
	}
	assert.True(t, e.Ready())
	assert.Zero(t, e.Index())
	assert.Empty(t, tally.Wrong())
}

func wrongChoice(q ChoiceQuestion) int {
	return (q.CorrectIndex + 1) % OptionCount
}

func TestTwoWrongAnswersAdvanceOnceWithOneRow(t *testing.T) {
	e, tally := newChoice(t, models.Definitions, testWords(), 7)
	q, err := e.PrepareQuestion()
	require.NoError(t, err)

	first := e.Submit(wrongChoice(q))
	assert.True(t, first.Accepted)
	assert.True(t, first.TryAgain)
	assert.False(t, first.Advanced)
	assert.Equal(t, -1, first.CorrectIndex)
	assert.Zero(t, e.Index())
	assert.Empty(t, tally.Wrong())

	again, ready := e.Current()
	require.True(t, ready)
	assert.Equal(t, q.Options, again.Options)

	second := e.Submit(wrongChoice(q))
	assert.True(t, second.Advanced)
	assert.False(t, second.Correct)
	assert.Equal(t, q.CorrectIndex, second.CorrectIndex)
	assert.Equal(t, 1, e.Index())

	wrong := tally.Wrong()
	require.Len(t, wrong, 1)
	assert.Equal(t, "brave", wrong[0].Word)
	assert.Equal(t, "showing courage", wrong[0].Expected)
	assert.Equal(t, q.Options[wrongChoice(q)], wrong[0].Given)

	// Retry resets for the next question.
	q2, err := e.PrepareQuestion()
	require.NoError(t, err)
	assert.True(t, e.Submit(wrongChoice(q2)).TryAgain)
}

func TestWrongThenRightCountsAsCorrect(t *testing.T) {
	e, tally := newChoice(t, models.Definitions, testWords(), 3)
	q, err := e.PrepareQuestion()
	require.NoError(t, err)

	e.Submit(wrongChoice(q))
	out := e.Submit(q.CorrectIndex)

	assert.True(t, out.Correct)
	assert.True(t, out.Advanced)
	assert.Equal(t, 1, tally.Correct())
	assert.True(t, tally.IsCorrect(0))
	assert.Empty(t, tally.Wrong())
}

func TestRunCompletes(t *testing.T) {
	words := testWords()
	e, tally := newChoice(t, models.Synonyms, words, 11)

	for i := 0; i < len(words); i++ {
		q, err := e.PrepareQuestion()
		require.NoError(t, err)
		out := e.Submit(q.CorrectIndex)
		assert.Equal(t, i == len(words)-1, out.Complete)
	}

	assert.True(t, e.Complete())
	_, err := e.PrepareQuestion()
	assert.ErrorIs(t, err, ErrNotRunning)

	sum := e.Summary()
	assert.Equal(t, len(words), tally.Correct())
	assert.Equal(t, "Correct: 5 out of 5", sum.Headline)
	assert.Equal(t, "Perfect! You're awesome!", sum.Message)
	require.Len(t, sum.Words, len(words))
	assert.Equal(t, models.NoSynonymsLabel, sum.Words[2].Detail)
	for _, w := range sum.Words {
		assert.True(t, w.Correct)
	}
}

func TestMinimalPoolTerminates(t *testing.T) {
	words := []models.Word{{Name: "habitat", Definition: "a natural home", Synonyms: "N/A"}}
	e, _ := newChoice(t, models.Synonyms, words, 1)

	q, err := e.PrepareQuestion()
	assert.ErrorIs(t, err, ErrPoolTooSmall)
	assert.True(t, q.Degraded)
	assert.Len(t, q.Options, OptionCount)
	assert.Equal(t, models.NoneOfTheAbove, q.Options[OptionCount-1])
	assert.Equal(t, OptionCount-1, q.CorrectIndex)
	assert.Equal(t, 1, countOf(q.Options, models.NoneOfTheAbove))
	for _, o := range q.Options[:OptionCount-1] {
		assert.Equal(t, PlaceholderOption, o)
	}
	assert.True(t, e.Ready())
}

func TestSmallPoolKeepsAnswerUnique(t *testing.T) {
	words := []models.Word{
		{Name: "a", Definition: "first"},
		{Name: "b", Definition: "second"},
	}
	for seed := int64(0); seed < 20; seed++ {
		e, _ := newChoice(t, models.Definitions, words, seed)
		q, err := e.PrepareQuestion()
		assert.ErrorIs(t, err, ErrPoolTooSmall)
		assert.Equal(t, 1, countOf(q.Options, "first"))
		assert.Equal(t, 3, countOf(q.Options, "second"))
		assert.Equal(t, "first", q.Options[q.CorrectIndex])
	}
}

func TestRevealDoesNotScore(t *testing.T) {
	e, tally := newChoice(t, models.Definitions, testWords(), 5)

	_, _, ok := e.Reveal()
	assert.False(t, ok)

	q, err := e.PrepareQuestion()
	require.NoError(t, err)

	idx, answer, ok := e.Reveal()
	require.True(t, ok)
	assert.Equal(t, q.CorrectIndex, idx)
	assert.Equal(t, "showing courage", answer)
	assert.True(t, e.Ready())
	assert.Zero(t, tally.Correct())
	assert.Zero(t, e.Index())
}
