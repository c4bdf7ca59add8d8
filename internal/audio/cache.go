package audio

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/zeebo/xxh3"
)

// ErrInvalidFilename is returned for names that do not belong to the cache
var ErrInvalidFilename = errors.New("invalid audio filename")

const filePrefix = "speech_"

// Cache stores synthesized phrases as MP3 files in a directory. The file
// name is derived from the voice, the speed and the text, so a phrase is
// synthesized at most once per voice setting.
type Cache struct {
	dir   string
	synth Synthesizer
	mu    sync.Mutex
}

// NewCache creates the audio directory if needed. A nil synth gives a
// cache that serves existing files but cannot create new ones.
func NewCache(dir string, synth Synthesizer) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create audio directory: %w", err)
	}
	return &Cache{dir: dir, synth: synth}, nil
}

// Enabled reports whether new phrases can be synthesized
func (c *Cache) Enabled() bool {
	return c.synth != nil
}

// Filename returns the cache file name for a phrase
func (c *Cache) Filename(text string, voice Voice, speed Speed) string {
	key := voice.Key + "|" + strconv.FormatFloat(speed.Rate, 'f', 2, 64) + "|" + text
	return fmt.Sprintf("%s%016x.mp3", filePrefix, xxh3.HashString(key))
}

// Get returns the file name holding audio for text, synthesizing it on a miss
func (c *Cache) Get(ctx context.Context, text string, voice Voice, speed Speed) (string, error) {
	filename := c.Filename(text, voice, speed)
	path := filepath.Join(c.dir, filename)

	if _, err := os.Stat(path); err == nil {
		return filename, nil
	}
	if c.synth == nil {
		return "", ErrUnavailable
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another request may have written it while we waited.
	if _, err := os.Stat(path); err == nil {
		return filename, nil
	}

	data, err := c.synth.Synthesize(ctx, text, voice, speed)
	if err != nil {
		return "", fmt.Errorf("failed to generate audio: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write audio file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to write audio file: %w", err)
	}
	return filename, nil
}

// Path resolves a cache file name to a path inside the audio directory
func (c *Cache) Path(filename string) (string, error) {
	if filename != filepath.Base(filename) || !strings.HasPrefix(filename, filePrefix) || filepath.Ext(filename) != ".mp3" {
		return "", ErrInvalidFilename
	}
	return filepath.Join(c.dir, filename), nil
}

// Warm synthesizes every phrase ahead of time, returning phrase to file name
func (c *Cache) Warm(ctx context.Context, phrases []string, voice Voice, speed Speed) (map[string]string, error) {
	results := make(map[string]string, len(phrases))

	for _, phrase := range phrases {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		filename, err := c.Get(ctx, phrase, voice, speed)
		if err != nil {
			return results, fmt.Errorf("failed to generate audio for '%s': %w", phrase, err)
		}
		results[phrase] = filename
	}

	return results, nil
}

// Remove deletes a cached file
func (c *Cache) Remove(filename string) error {
	path, err := c.Path(filename)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil // Already deleted
	}
	return os.Remove(path)
}

// Files returns the names of all cached MP3 files
func (c *Cache) Files() ([]string, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), filePrefix) && filepath.Ext(entry.Name()) == ".mp3" {
			files = append(files, entry.Name())
		}
	}
	return files, nil
}

// Prune removes cached files not modified within maxAge and returns how
// many were removed
func (c *Cache) Prune(maxAge time.Duration) (int, error) {
	files, err := c.Files()
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, name := range files {
		info, err := os.Stat(filepath.Join(c.dir, name))
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := c.Remove(name); err != nil {
			log.Printf("Warning: failed to remove audio file %s: %v", name, err)
			continue
		}
		removed++
	}
	return removed, nil
}
