package models

import (
	"fmt"
	"strings"
)

const (
	// NoSynonyms marks a word that has no common synonyms
	NoSynonyms = "N/A"
	// NoneOfTheAbove is the correct answer for a synonyms question on a word without synonyms
	NoneOfTheAbove = "none of the above"
	// SkippedAnswer is recorded as the given answer for a skipped spelling word
	SkippedAnswer = "<skipped>"
	// NoSynonymsLabel is shown in word tables in place of NoSynonyms
	NoSynonymsLabel = "(no common synonyms)"
)

// Word represents a single vocabulary entry within a list
type Word struct {
	Name         string `json:"name"`
	PartOfSpeech string `json:"partOfSpeech"`
	Definition   string `json:"definition"`
	Example      string `json:"example"`
	Synonyms     string `json:"synonyms"`
}

// HasSynonyms reports whether the word carries at least one synonym
func (w Word) HasSynonyms() bool {
	return len(w.SynonymList()) > 0
}

// SynonymList splits the comma-joined synonyms, trimming each entry and
// dropping empty and N/A entries
func (w Word) SynonymList() []string {
	if strings.TrimSpace(w.Synonyms) == NoSynonyms {
		return nil
	}
	var out []string
	for _, s := range strings.Split(w.Synonyms, ",") {
		s = strings.TrimSpace(s)
		if s == "" || s == NoSynonyms {
			continue
		}
		out = append(out, s)
	}
	return out
}

// RawWord is a flat catalog record as it appears in the word feed
type RawWord struct {
	Grade        int    `json:"Grade"`
	List         string `json:"List"`
	Word         string `json:"Word"`
	PartOfSpeech string `json:"PartOfSpeech"`
	Definition   string `json:"Definition"`
	Example      string `json:"Example"`
	Synonyms     string `json:"Synonyms"`
}

// ToWord drops the grouping fields
func (r RawWord) ToWord() Word {
	return Word{
		Name:         r.Word,
		PartOfSpeech: r.PartOfSpeech,
		Definition:   r.Definition,
		Example:      r.Example,
		Synonyms:     r.Synonyms,
	}
}

// QuizType selects which quiz runs over the active words
type QuizType int

const (
	Spelling QuizType = iota
	Definitions
	Synonyms
)

var quizTypeNames = map[QuizType]string{
	Spelling:    "Spelling",
	Definitions: "Definitions",
	Synonyms:    "Synonyms",
}

func (q QuizType) String() string {
	if name, ok := quizTypeNames[q]; ok {
		return name
	}
	return fmt.Sprintf("QuizType(%d)", int(q))
}

// IsChoice reports whether the quiz is multiple choice
func (q QuizType) IsChoice() bool {
	return q == Definitions || q == Synonyms
}

// ParseQuizType accepts a quiz type name, case-insensitively
func ParseQuizType(s string) (QuizType, error) {
	for q, name := range quizTypeNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return q, nil
		}
	}
	return Spelling, fmt.Errorf("unknown quiz type %q", s)
}

func (q QuizType) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

func (q *QuizType) UnmarshalText(text []byte) error {
	parsed, err := ParseQuizType(string(text))
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}
