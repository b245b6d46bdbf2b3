package anki

import (
	"context"
	"testing"

	"codeberg.org/snonux/ankivoice/internal/testutil"
)

func TestMediaFileExists(t *testing.T) {
	id3 := make([]byte, 2048)
	copy(id3, []byte("ID3"))

	garbage := make([]byte, 2048)
	copy(garbage, []byte("RIFF"))

	tests := []struct {
		name     string
		filename string
		content  []byte
		want     bool
	}{
		{
			name:     "missing file",
			filename: "missing.mp3",
			want:     false,
		},
		{
			name:     "valid MPEG frame header",
			filename: "frame.mp3",
			content:  testutil.MP3Bytes(),
			want:     true,
		},
		{
			name:     "valid ID3 header",
			filename: "id3.mp3",
			content:  id3,
			want:     true,
		},
		{
			name:     "too small",
			filename: "small.mp3",
			content:  []byte{0xFF, 0xFB, 0x90, 0x00},
			want:     false,
		},
		{
			name:     "not MP3 data",
			filename: "garbage.mp3",
			content:  garbage,
			want:     false,
		},
	}

	fake := testutil.NewFakeAnki(t)
	for _, tt := range tests {
		if tt.content != nil {
			fake.Media[tt.filename] = tt.content
		}
	}

	client := NewClient(fake.URL())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := client.MediaFileExists(context.Background(), tt.filename)
			if err != nil {
				t.Fatalf("MediaFileExists() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("MediaFileExists(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

func TestLooksLikeMP3(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{"ID3 tag", []byte("ID3\x04rest"), true},
		{"frame sync FB", []byte{0xFF, 0xFB, 0x00}, true},
		{"frame sync F3", []byte{0xFF, 0xF3, 0x00}, true},
		{"plain text", []byte("hello"), false},
		{"empty", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := looksLikeMP3(tt.data); got != tt.want {
				t.Errorf("looksLikeMP3() = %v, want %v", got, tt.want)
			}
		})
	}
}
