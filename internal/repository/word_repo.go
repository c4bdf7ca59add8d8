package repository

import (
	"fmt"

	"spellingvocab/internal/database"
	"spellingvocab/internal/models"
)

// ListStat summarizes one stored word list
type ListStat struct {
	Grade int    `json:"grade"`
	List  string `json:"list"`
	Words int    `json:"words"`
}

// WordRepository stores catalog records for the "database" catalog source
type WordRepository struct {
	db *database.DB
}

// NewWordRepository creates a new word repository
func NewWordRepository(db *database.DB) *WordRepository {
	return &WordRepository{db: db}
}

// ReplaceAll swaps the stored catalog for records in one transaction.
// Record order is kept through the position column.
func (r *WordRepository) ReplaceAll(records []models.RawWord) (int, error) {
	err := r.db.WithTx(func(tx *database.Tx) error {
		if _, err := tx.Exec("DELETE FROM words"); err != nil {
			return fmt.Errorf("failed to clear words: %w", err)
		}
		return insertWords(tx, records, 0)
	})
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// Append adds records after the words already stored
func (r *WordRepository) Append(records []models.RawWord) (int, error) {
	err := r.db.WithTx(func(tx *database.Tx) error {
		var next int
		if err := tx.QueryRow("SELECT COALESCE(MAX(position), -1) + 1 FROM words").Scan(&next); err != nil {
			return fmt.Errorf("failed to read word position: %w", err)
		}
		return insertWords(tx, records, next)
	})
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

func insertWords(tx database.DBTX, records []models.RawWord, start int) error {
	query := `
		INSERT INTO words (grade, list_name, position, word, part_of_speech, definition, example, synonyms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	for i, rec := range records {
		_, err := tx.Exec(query,
			rec.Grade,
			rec.List,
			start+i,
			rec.Word,
			rec.PartOfSpeech,
			rec.Definition,
			rec.Example,
			rec.Synonyms,
		)
		if err != nil {
			return fmt.Errorf("failed to insert word %q: %w", rec.Word, err)
		}
	}
	return nil
}

// ListAll returns every stored record in insertion order
func (r *WordRepository) ListAll() ([]models.RawWord, error) {
	query := `
		SELECT grade, list_name, word, part_of_speech, definition, example, synonyms
		FROM words
		ORDER BY position, id
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query words: %w", err)
	}
	defer rows.Close()

	var records []models.RawWord
	for rows.Next() {
		var rec models.RawWord
		if err := rows.Scan(
			&rec.Grade,
			&rec.List,
			&rec.Word,
			&rec.PartOfSpeech,
			&rec.Definition,
			&rec.Example,
			&rec.Synonyms,
		); err != nil {
			return nil, fmt.Errorf("failed to scan word: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// DeleteList removes one list and reports how many words went with it
func (r *WordRepository) DeleteList(grade int, list string) (int64, error) {
	result, err := r.db.Exec("DELETE FROM words WHERE grade = ? AND list_name = ?", grade, list)
	if err != nil {
		return 0, fmt.Errorf("failed to delete list: %w", err)
	}
	return result.RowsAffected()
}

// Stats returns word counts per list, ordered by grade then first appearance
func (r *WordRepository) Stats() ([]ListStat, error) {
	query := `
		SELECT grade, list_name, COUNT(*)
		FROM words
		GROUP BY grade, list_name
		ORDER BY grade, MIN(position)
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query list stats: %w", err)
	}
	defer rows.Close()

	var stats []ListStat
	for rows.Next() {
		var s ListStat
		if err := rows.Scan(&s.Grade, &s.List, &s.Words); err != nil {
			return nil, fmt.Errorf("failed to scan list stats: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
