package quiz

import (
	"fmt"
	"math/rand"
	"regexp"
	"unicode"
	"unicode/utf8"

	"spellingvocab/internal/models"
)

const (
	TryAgainMessage = "One more try!"
	VoicePreview    = "This is the sound and speed of my voice with the current settings."
	exampleMask     = " _______ "
)

var (
	correctResponses   = [...]string{"Right!", "Correct!", "Good!", "Yes!"}
	incorrectResponses = [...]string{"Nope.", "Incorrect.", "Not quite.", "Not it."}
)

// RandomResponse picks a spoken reaction to an answer
func RandomResponse(rng *rand.Rand, correct bool) string {
	if correct {
		return correctResponses[rng.Intn(len(correctResponses))]
	}
	return incorrectResponses[rng.Intn(len(incorrectResponses))]
}

// FixedPhrases lists every spoken phrase that does not depend on a word
func FixedPhrases() []string {
	out := []string{TryAgainMessage, VoicePreview}
	out = append(out, correctResponses[:]...)
	out = append(out, incorrectResponses[:]...)
	for _, pct := range []float64{100, 85, 70, 50, 0} {
		out = append(out, CompletionMessage(pct))
	}
	return out
}

// StartMessage announces a spelling run
func StartMessage(count int) string {
	return fmt.Sprintf("%d words to spell.  Good luck!", count)
}

// WordWithExample is spoken when a spelling word comes up
func WordWithExample(w models.Word) string {
	example := w.Example
	if example == models.NoSynonyms {
		example = ""
	}
	return capitalize(w.Name) + ". " + example
}

// WordWithDefinition is spoken when the definition is requested
func WordWithDefinition(w models.Word) string {
	return w.Name + ". " + w.PartOfSpeech + ". " + w.Definition
}

// DefinitionLine is the printed clue for a spelling word
func DefinitionLine(w models.Word) string {
	return "(" + w.PartOfSpeech + ") " + w.Definition
}

// MaskExample hides every occurrence of word in example, ignoring case
func MaskExample(example, word string) string {
	if word == "" {
		return example
	}
	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(word))
	return re.ReplaceAllLiteralString(example, exampleMask)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
