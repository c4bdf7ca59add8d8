package catalog

import (
	"errors"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spellingvocab/internal/models"
)

func rec(grade int, list, word string) models.RawWord {
	return models.RawWord{Grade: grade, List: list, Word: word, Definition: word + " def", Synonyms: "N/A"}
}

func TestLoadPreservesOrder(t *testing.T) {
	c, err := Load([]models.RawWord{
		rec(3, "B", "one"),
		rec(3, "A", "two"),
		rec(3, "B", "three"),
		rec(1, "C", "four"),
	})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 3}, c.Grades())
	assert.Equal(t, []string{"B", "A"}, c.ListNames(3))

	words := c.Words(3, "B")
	require.Len(t, words, 2)
	assert.Equal(t, "one", words[0].Name)
	assert.Equal(t, "three", words[1].Name)
	assert.Equal(t, 4, c.Len())
}

func TestLoadDropsMalformedRecords(t *testing.T) {
	c, err := Load([]models.RawWord{
		rec(3, "A", "good"),
		rec(12, "A", "too-high"),
		rec(-1, "A", "negative"),
		rec(3, "", "no-list"),
		rec(3, "A", " "),
	})
	require.Error(t, err)
	require.NotNil(t, c)

	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	assert.Len(t, merr.Errors, 4)
	assert.ErrorIs(t, merr.Errors[0], ErrInvalidRecord)

	assert.Equal(t, 1, c.Len())
	assert.Equal(t, []string{"A"}, c.ListNames(3))
}

func TestLookupsOnUnknownKeys(t *testing.T) {
	c, err := Load([]models.RawWord{rec(2, "A", "x")})
	require.NoError(t, err)

	assert.Empty(t, c.ListNames(5))
	assert.Empty(t, c.ListNames(42))
	assert.Empty(t, c.Words(2, "missing"))
	assert.False(t, c.HasList(2, "missing"))
	assert.True(t, c.HasList(2, "A"))
}

func TestWordsReturnsCopy(t *testing.T) {
	c, err := Load([]models.RawWord{rec(2, "A", "x")})
	require.NoError(t, err)

	words := c.Words(2, "A")
	words[0].Name = "mutated"
	assert.Equal(t, "x", c.Words(2, "A")[0].Name)
}

func TestAllWordsAndRecords(t *testing.T) {
	input := []models.RawWord{
		rec(4, "D", "d1"),
		rec(2, "A", "a1"),
		rec(2, "A", "a2"),
	}
	c, err := Load(input)
	require.NoError(t, err)

	var names []string
	for _, w := range c.AllWords() {
		names = append(names, w.Name)
	}
	assert.Equal(t, []string{"a1", "a2", "d1"}, names)

	records := c.Records()
	require.Len(t, records, 3)
	assert.Equal(t, 2, records[0].Grade)
	assert.Equal(t, "A", records[0].List)
	assert.Equal(t, "d1", records[2].Word)
}

func TestLoadJSON(t *testing.T) {
	body := `[
		{"Grade": 3, "List": "L", "Word": "brave", "PartOfSpeech": "adjective",
		 "Definition": "showing courage", "Example": "A brave dog.", "Synonyms": "bold, fearless"}
	]`
	c, err := LoadJSON(strings.NewReader(body))
	require.NoError(t, err)

	words := c.Words(3, "L")
	require.Len(t, words, 1)
	assert.Equal(t, "adjective", words[0].PartOfSpeech)
	assert.Equal(t, []string{"bold", "fearless"}, words[0].SynonymList())
}

func TestLoadJSONRejectsGarbage(t *testing.T) {
	_, err := LoadJSON(strings.NewReader(`{not json`))
	assert.Error(t, err)
}

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.True(t, c.HasList(3, "3rd - 2018 - words 18-34"))
	assert.NotEmpty(t, c.Grades())
	for _, grade := range c.Grades() {
		for _, name := range c.ListNames(grade) {
			assert.NotEmpty(t, c.Words(grade, name), "grade %d list %q", grade, name)
		}
	}
}
