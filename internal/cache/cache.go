package cache

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Fingerprint derives the cache key for a synthesis request. Identical
// inputs always yield the identical fingerprint; any changed input changes
// it. The fingerprint doubles as the media filename component.
func Fingerprint(text, voiceID string, stability, similarityBoost float64) string {
	h := md5.New()
	h.Write([]byte(text))
	h.Write([]byte(voiceID))
	h.Write([]byte(fmt.Sprintf("%.2f", stability)))
	h.Write([]byte(fmt.Sprintf("%.2f", similarityBoost)))
	return hex.EncodeToString(h.Sum(nil))[:8]
}

// Filename returns the media filename for a fingerprint.
func Filename(fingerprint string) string {
	return fmt.Sprintf("tts_bg_%s.mp3", fingerprint)
}

// Store is a content-addressed directory of generated audio files.
type Store struct {
	dir   string
	index *Index
}

// NewStore creates a cache store rooted at dir. The directory is created on
// first write, not here.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// WithIndex attaches a metadata index to the store. Index failures never
// fail cache operations.
func (s *Store) WithIndex(index *Index) *Store {
	s.index = index
	return s
}

// Dir returns the cache directory path.
func (s *Store) Dir() string {
	return s.dir
}

// Lookup returns the cached audio bytes for a fingerprint, or ok=false on a
// cache miss.
func (s *Store) Lookup(fingerprint string) ([]byte, bool) {
	path := filepath.Join(s.dir, Filename(fingerprint))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Save writes audio bytes under the fingerprint-derived name and returns the
// file path. Re-saving the same fingerprint overwrites with identical
// content, so Save is idempotent.
func (s *Store) Save(fingerprint string, data []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	path := filepath.Join(s.dir, Filename(fingerprint))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write cache file: %w", err)
	}

	return path, nil
}

// Record stores synthesis metadata in the attached index, if any.
func (s *Store) Record(fingerprint, text, voiceID string, chars int) {
	if s.index == nil {
		return
	}
	if err := s.index.Record(fingerprint, text, voiceID, chars); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to index cache entry %s: %v\n", fingerprint, err)
	}
}

// Stats returns the number of cached audio files and their total size.
func (s *Store) Stats() (fileCount int, totalSize int64, err error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, 0, nil
		}
		return 0, 0, err
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), "tts_bg_") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return 0, 0, err
		}
		fileCount++
		totalSize += info.Size()
	}

	return fileCount, totalSize, nil
}

// Clear removes all cached audio files.
func (s *Store) Clear() error {
	if s.dir == "" {
		return nil
	}
	return os.RemoveAll(s.dir)
}
