package cache

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"
)

func TestFingerprint(t *testing.T) {
	base := Fingerprint("Здравей", "voice1", 0.75, 0.75)

	if matched, _ := regexp.MatchString(`^[0-9a-f]{8}$`, base); !matched {
		t.Errorf("Fingerprint() = %q, want 8 lowercase hex characters", base)
	}

	// Same inputs must always produce the same fingerprint.
	if again := Fingerprint("Здравей", "voice1", 0.75, 0.75); again != base {
		t.Errorf("Fingerprint() not deterministic: %q vs %q", base, again)
	}

	// Any changed input must change the fingerprint.
	tests := []struct {
		name            string
		text            string
		voiceID         string
		stability       float64
		similarityBoost float64
	}{
		{"different text", "Довиждане", "voice1", 0.75, 0.75},
		{"different voice", "Здравей", "voice2", 0.75, 0.75},
		{"different stability", "Здравей", "voice1", 0.50, 0.75},
		{"different similarity boost", "Здравей", "voice1", 0.75, 0.50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fingerprint(tt.text, tt.voiceID, tt.stability, tt.similarityBoost)
			if got == base {
				t.Errorf("Fingerprint() = %q, want different from base %q", got, base)
			}
		})
	}
}

func TestFilename(t *testing.T) {
	got := Filename("abc12345")
	want := "tts_bg_abc12345.mp3"
	if got != want {
		t.Errorf("Filename() = %q, want %q", got, want)
	}
}

func TestStoreSaveAndLookup(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "cache"))
	audio := []byte("fake mp3 audio data")

	// Lookup before save is a miss.
	if _, ok := store.Lookup("deadbeef"); ok {
		t.Error("Lookup() on empty store = hit, want miss")
	}

	path, err := store.Save("deadbeef", audio)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if filepath.Base(path) != "tts_bg_deadbeef.mp3" {
		t.Errorf("Save() path = %q, want basename tts_bg_deadbeef.mp3", path)
	}

	got, ok := store.Lookup("deadbeef")
	if !ok {
		t.Fatal("Lookup() after Save() = miss, want hit")
	}
	if !bytes.Equal(got, audio) {
		t.Errorf("Lookup() = %q, want %q", got, audio)
	}

	// Re-saving the same fingerprint is idempotent.
	if _, err := store.Save("deadbeef", audio); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}
	got, _ = store.Lookup("deadbeef")
	if !bytes.Equal(got, audio) {
		t.Errorf("Lookup() after re-save = %q, want %q", got, audio)
	}
}

func TestStoreStats(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	store := NewStore(dir)

	// A missing cache directory counts as empty.
	count, size, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if count != 0 || size != 0 {
		t.Errorf("Stats() on missing dir = (%d, %d), want (0, 0)", count, size)
	}

	if _, err := store.Save("aaaa1111", []byte("12345")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := store.Save("bbbb2222", []byte("1234567890")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Unrelated files are not counted.
	if err := os.WriteFile(filepath.Join(dir, "index.db"), []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	count, size, err = store.Stats()
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if count != 2 {
		t.Errorf("Stats() count = %d, want 2", count)
	}
	if size != 15 {
		t.Errorf("Stats() size = %d, want 15", size)
	}
}

func TestStoreClear(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	store := NewStore(dir)

	if _, err := store.Save("aaaa1111", []byte("audio")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, ok := store.Lookup("aaaa1111"); ok {
		t.Error("Lookup() after Clear() = hit, want miss")
	}
}
