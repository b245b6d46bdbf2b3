package voices

import (
	"context"
	"errors"
	"strings"
	"testing"

	"codeberg.org/snonux/ankivoice/internal/tts"
)

type stubSynth struct {
	voices []tts.Voice
	err    error
}

func (s *stubSynth) Synthesize(ctx context.Context, text string) ([]byte, error) {
	return nil, nil
}

func (s *stubSynth) ListVoices(ctx context.Context) ([]tts.Voice, error) {
	return s.voices, s.err
}

func (s *stubSynth) Name() string { return "stub" }

func TestListAvailableVoices(t *testing.T) {
	lister := NewLister(&stubSynth{voices: []tts.Voice{
		{ID: "v1", Name: "Rachel", Category: "premade"},
		{ID: "v2", Name: "Custom"},
	}})

	if err := lister.ListAvailableVoices(context.Background()); err != nil {
		t.Errorf("ListAvailableVoices() error = %v", err)
	}
}

func TestListAvailableVoicesEmpty(t *testing.T) {
	lister := NewLister(&stubSynth{})

	if err := lister.ListAvailableVoices(context.Background()); err != nil {
		t.Errorf("ListAvailableVoices() error = %v", err)
	}
}

func TestListAvailableVoicesError(t *testing.T) {
	lister := NewLister(&stubSynth{err: errors.New("boom")})

	err := lister.ListAvailableVoices(context.Background())
	if err == nil || !strings.Contains(err.Error(), "failed to list voices") {
		t.Errorf("ListAvailableVoices() error = %v, want failed to list voices", err)
	}
}
