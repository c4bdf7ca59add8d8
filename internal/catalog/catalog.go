package catalog

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/hashicorp/go-multierror"

	"spellingvocab/internal/models"
)

// MaxGrade is the highest grade a record may carry. Grades run 0..MaxGrade.
const MaxGrade = 9

//go:embed data/words.json
var embedded embed.FS

// ErrInvalidRecord is wrapped by every per-record problem reported from Load
var ErrInvalidRecord = errors.New("invalid word record")

type gradeLists struct {
	names []string
	words map[string][]models.Word
}

// Catalog holds words grouped by grade and list. It is read-only once built,
// so it can be shared between sessions without locking.
type Catalog struct {
	grades [MaxGrade + 1]*gradeLists
	total  int
}

// Load groups records by grade and list, preserving input order within each
// list and the first-seen order of lists within a grade.
//
// Malformed records are dropped. Load always returns a usable catalog; the
// error, when non-nil, is a *multierror.Error describing every dropped record.
func Load(records []models.RawWord) (*Catalog, error) {
	c := &Catalog{}
	var result *multierror.Error

	for i, rec := range records {
		if err := Validate(rec); err != nil {
			result = multierror.Append(result, fmt.Errorf("record %d (%q): %w", i, rec.Word, err))
			continue
		}

		g := c.grades[rec.Grade]
		if g == nil {
			g = &gradeLists{words: make(map[string][]models.Word)}
			c.grades[rec.Grade] = g
		}
		if _, ok := g.words[rec.List]; !ok {
			g.names = append(g.names, rec.List)
		}
		g.words[rec.List] = append(g.words[rec.List], rec.ToWord())
		c.total++
	}

	return c, result.ErrorOrNil()
}

// Validate reports why a record cannot be placed in a catalog
func Validate(rec models.RawWord) error {
	switch {
	case rec.Grade < 0 || rec.Grade > MaxGrade:
		return fmt.Errorf("%w: grade %d out of range", ErrInvalidRecord, rec.Grade)
	case strings.TrimSpace(rec.List) == "":
		return fmt.Errorf("%w: missing list name", ErrInvalidRecord)
	case strings.TrimSpace(rec.Word) == "":
		return fmt.Errorf("%w: missing word", ErrInvalidRecord)
	}
	return nil
}

// LoadJSON decodes a JSON array of records and builds a catalog from it.
// A decode failure is fatal; dropped records are reported as in Load.
func LoadJSON(r io.Reader) (*Catalog, error) {
	records, err := DecodeRecords(r)
	if err != nil {
		return nil, err
	}
	return Load(records)
}

// DecodeRecords reads a JSON array of raw word records
func DecodeRecords(r io.Reader) ([]models.RawWord, error) {
	var records []models.RawWord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode word records: %w", err)
	}
	return records, nil
}

// LoadFile reads the catalog from a JSON file on disk
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()
	return LoadJSON(f)
}

// Default returns the catalog bundled with the binary
func Default() (*Catalog, error) {
	f, err := embedded.Open("data/words.json")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded catalog: %w", err)
	}
	defer f.Close()
	return LoadJSON(f)
}

// DefaultRecords returns the bundled records, for seeding a database
func DefaultRecords() ([]models.RawWord, error) {
	f, err := embedded.Open("data/words.json")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded catalog: %w", err)
	}
	defer f.Close()
	return DecodeRecords(f)
}

// Grades returns the grades that have at least one list, ascending
func (c *Catalog) Grades() []int {
	var out []int
	for grade, g := range c.grades {
		if g != nil && len(g.names) > 0 {
			out = append(out, grade)
		}
	}
	return out
}

// ListNames returns the list names for a grade in insertion order
func (c *Catalog) ListNames(grade int) []string {
	g := c.grade(grade)
	if g == nil {
		return nil
	}
	return append([]string(nil), g.names...)
}

// HasList reports whether the grade contains a list with the given name
func (c *Catalog) HasList(grade int, listName string) bool {
	g := c.grade(grade)
	if g == nil {
		return false
	}
	_, ok := g.words[listName]
	return ok
}

// Words returns the words of a list in their canonical quiz order
func (c *Catalog) Words(grade int, listName string) []models.Word {
	g := c.grade(grade)
	if g == nil {
		return nil
	}
	return append([]models.Word(nil), g.words[listName]...)
}

// AllWords returns every word, grade by grade and list by list
func (c *Catalog) AllWords() []models.Word {
	out := make([]models.Word, 0, c.total)
	for _, g := range c.grades {
		if g == nil {
			continue
		}
		for _, name := range g.names {
			out = append(out, g.words[name]...)
		}
	}
	return out
}

// Records flattens the catalog back into feed records
func (c *Catalog) Records() []models.RawWord {
	out := make([]models.RawWord, 0, c.total)
	for grade, g := range c.grades {
		if g == nil {
			continue
		}
		for _, name := range g.names {
			for _, w := range g.words[name] {
				out = append(out, models.RawWord{
					Grade:        grade,
					List:         name,
					Word:         w.Name,
					PartOfSpeech: w.PartOfSpeech,
					Definition:   w.Definition,
					Example:      w.Example,
					Synonyms:     w.Synonyms,
				})
			}
		}
	}
	return out
}

// Len returns the number of words in the catalog
func (c *Catalog) Len() int {
	return c.total
}

func (c *Catalog) grade(grade int) *gradeLists {
	if grade < 0 || grade > MaxGrade {
		return nil
	}
	return c.grades[grade]
}
