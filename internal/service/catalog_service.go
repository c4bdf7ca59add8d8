package service

import (
	"errors"
	"fmt"
	"log"

	"github.com/hashicorp/go-multierror"

	"spellingvocab/internal/catalog"
	"spellingvocab/internal/config"
	"spellingvocab/internal/models"
	"spellingvocab/internal/repository"
)

// WordStore is the part of the word repository the catalog loader needs
type WordStore interface {
	ListAll() ([]models.RawWord, error)
	ReplaceAll(records []models.RawWord) (int, error)
}

var _ WordStore = (*repository.WordRepository)(nil)

// LoadCatalog builds the word catalog from the configured source.
// Dropped records are logged and do not fail the load.
func LoadCatalog(cfg *config.Config, store WordStore) (*catalog.Catalog, error) {
	var (
		c   *catalog.Catalog
		err error
	)

	switch cfg.CatalogSource {
	case "", "embedded":
		c, err = catalog.Default()
	case "file":
		if cfg.CatalogPath == "" {
			return nil, errors.New("CATALOG_PATH is required when CATALOG_SOURCE=file")
		}
		c, err = catalog.LoadFile(cfg.CatalogPath)
	case "database":
		if store == nil {
			return nil, errors.New("database catalog source needs a word store")
		}
		c, err = loadFromStore(store, cfg.Debug)
	default:
		return nil, fmt.Errorf("unknown catalog source: %s", cfg.CatalogSource)
	}

	if err != nil {
		var merr *multierror.Error
		if c == nil || !errors.As(err, &merr) {
			return nil, err
		}
		log.Printf("Warning: dropped %d malformed word records", len(merr.Errors))
		if cfg.Debug {
			for _, e := range merr.Errors {
				log.Printf("[DEBUG] %v", e)
			}
		}
	}

	log.Printf("Word catalog loaded from %s: %d words in grades %v", sourceName(cfg.CatalogSource), c.Len(), c.Grades())
	return c, nil
}

// loadFromStore reads the stored words, seeding the store with the bundled
// catalog the first time it is found empty
func loadFromStore(store WordStore, debug bool) (*catalog.Catalog, error) {
	records, err := store.ListAll()
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		records, err = catalog.DefaultRecords()
		if err != nil {
			return nil, err
		}
		n, err := store.ReplaceAll(records)
		if err != nil {
			return nil, fmt.Errorf("failed to seed word store: %w", err)
		}
		log.Printf("Seeded empty word store with %d bundled words", n)
	} else if debug {
		log.Printf("[DEBUG] Read %d word records from database", len(records))
	}

	return catalog.Load(records)
}

func sourceName(source string) string {
	if source == "" {
		return "embedded"
	}
	return source
}
