package quiz

import (
	"fmt"

	"spellingvocab/internal/catalog"
	"spellingvocab/internal/models"
)

const (
	DefaultGrade = 3
	DefaultList  = "3rd - 2018 - words 18-34"
)

// WordRow is one line of the word table shown for the active list
type WordRow struct {
	Word   string `json:"word"`
	Detail string `json:"detail"`
}

// Selection tracks the chosen grade, list and quiz type. The list name is
// always a key of the catalog's lists for the chosen grade, unless the
// catalog is empty.
type Selection struct {
	catalog  *catalog.Catalog
	grade    int
	list     string
	quizType models.QuizType
}

// NewSelection starts at the default grade and list when the catalog has
// them, otherwise at the first list of the lowest grade.
func NewSelection(c *catalog.Catalog) *Selection {
	s := &Selection{catalog: c, quizType: models.Spelling}
	if c.HasList(DefaultGrade, DefaultList) {
		s.grade = DefaultGrade
		s.list = DefaultList
		return s
	}
	if err := s.SetGrade(DefaultGrade); err == nil {
		return s
	}
	if grades := c.Grades(); len(grades) > 0 {
		_ = s.SetGrade(grades[0])
	}
	return s
}

func (s *Selection) Grade() int                { return s.grade }
func (s *Selection) List() string              { return s.list }
func (s *Selection) QuizType() models.QuizType { return s.quizType }

// SetGrade switches grade and resets the list to the grade's first list.
// The selection is left untouched when the grade has no lists.
func (s *Selection) SetGrade(grade int) error {
	names := s.catalog.ListNames(grade)
	if len(names) == 0 {
		return fmt.Errorf("grade %d: %w", grade, ErrMissingData)
	}
	s.grade = grade
	s.list = names[0]
	return nil
}

// SelectList picks a list within the current grade
func (s *Selection) SelectList(name string) error {
	if !s.catalog.HasList(s.grade, name) {
		return fmt.Errorf("grade %d list %q: %w", s.grade, name, ErrMissingData)
	}
	s.list = name
	return nil
}

// SelectQuizType sets the quiz type used by the next run
func (s *Selection) SelectQuizType(t models.QuizType) error {
	switch t {
	case models.Spelling, models.Definitions, models.Synonyms:
		s.quizType = t
		return nil
	}
	return fmt.Errorf("unsupported quiz type %v", t)
}

// ListNames returns the lists available for the current grade
func (s *Selection) ListNames() []string {
	return s.catalog.ListNames(s.grade)
}

// ActiveWords returns the words of the selected list in quiz order
func (s *Selection) ActiveWords() []models.Word {
	return s.catalog.Words(s.grade, s.list)
}

// Len is the number of active words
func (s *Selection) Len() int {
	return len(s.ActiveWords())
}

// WordTable lists the active words with their definitions, or with their
// synonyms when the synonyms quiz is selected.
func (s *Selection) WordTable() []WordRow {
	return wordTable(s.ActiveWords(), s.quizType)
}

func wordTable(words []models.Word, quizType models.QuizType) []WordRow {
	rows := make([]WordRow, 0, len(words))
	for _, w := range words {
		detail := w.Definition
		if quizType == models.Synonyms {
			detail = w.Synonyms
			if !w.HasSynonyms() {
				detail = models.NoSynonymsLabel
			}
		}
		rows = append(rows, WordRow{Word: w.Name, Detail: detail})
	}
	return rows
}
