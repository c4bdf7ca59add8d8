package service

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/goccy/go-json"

	"spellingvocab/internal/catalog"
	"spellingvocab/internal/models"
	"spellingvocab/internal/repository"
)

const backupVersion = "1.0"

// BackupData is the export format of the word store
type BackupData struct {
	Version      string           `json:"version"`
	ExportedAt   time.Time        `json:"exported_at"`
	DatabaseType string           `json:"database_type"`
	Words        []models.RawWord `json:"words"`
}

// WordStoreBackend is the repository surface used for import and export
type WordStoreBackend interface {
	WordStore
	Append(records []models.RawWord) (int, error)
	Stats() ([]repository.ListStat, error)
}

// ImportResult reports what an import did
type ImportResult struct {
	Imported int
	Dropped  []error
}

// WordBackupService moves word records between JSON files and the word store
type WordBackupService struct {
	store  WordStoreBackend
	dbType string
}

// NewWordBackupService creates a backup service over a word store
func NewWordBackupService(store WordStoreBackend, dbType string) *WordBackupService {
	return &WordBackupService{store: store, dbType: dbType}
}

// Export writes every stored word to outputPath
func (s *WordBackupService) Export(outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	n, err := s.ExportToWriter(file)
	if err != nil {
		return err
	}

	log.Printf("Exported %d words to %s", n, outputPath)
	return nil
}

// ExportToWriter writes the backup document to w and returns the word count
func (s *WordBackupService) ExportToWriter(w io.Writer) (int, error) {
	records, err := s.store.ListAll()
	if err != nil {
		return 0, fmt.Errorf("failed to export words: %w", err)
	}

	backup := BackupData{
		Version:      backupVersion,
		ExportedAt:   time.Now().UTC(),
		DatabaseType: s.dbType,
		Words:        records,
	}
	if backup.Words == nil {
		backup.Words = []models.RawWord{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return 0, fmt.Errorf("failed to encode backup: %w", err)
	}
	return len(records), nil
}

// Import reads a backup document, or a bare array of word records, from
// inputPath. With replace set, the stored words are swapped for the file's.
func (s *WordBackupService) Import(inputPath string, replace bool) (ImportResult, error) {
	file, err := os.Open(inputPath)
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()
	return s.ImportFromReader(file, replace)
}

// ImportFromReader is Import for an already open stream
func (s *WordBackupService) ImportFromReader(r io.Reader, replace bool) (ImportResult, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to read input: %w", err)
	}

	records, err := decodeBackup(raw)
	if err != nil {
		return ImportResult{}, err
	}

	var result ImportResult
	valid := records[:0]
	for i, rec := range records {
		if err := catalog.Validate(rec); err != nil {
			result.Dropped = append(result.Dropped, fmt.Errorf("record %d (%q): %w", i, rec.Word, err))
			continue
		}
		valid = append(valid, rec)
	}
	records = valid

	if replace {
		result.Imported, err = s.store.ReplaceAll(records)
	} else {
		result.Imported, err = s.store.Append(records)
	}
	if err != nil {
		return result, fmt.Errorf("failed to import words: %w", err)
	}
	return result, nil
}

// Stats returns per-list word counts from the store
func (s *WordBackupService) Stats() ([]repository.ListStat, error) {
	return s.store.Stats()
}

func decodeBackup(raw []byte) ([]models.RawWord, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return catalog.DecodeRecords(bytes.NewReader(trimmed))
	}

	var backup BackupData
	if err := json.Unmarshal(trimmed, &backup); err != nil {
		return nil, fmt.Errorf("failed to decode backup: %w", err)
	}
	if backup.Version != "" && backup.Version != backupVersion {
		log.Printf("Warning: backup version %s, expected %s", backup.Version, backupVersion)
	}
	return backup.Words, nil
}
