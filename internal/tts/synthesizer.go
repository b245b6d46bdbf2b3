package tts

import (
	"context"
	"fmt"
)

// Voice describes a selectable TTS voice.
type Voice struct {
	ID          string
	Name        string
	Category    string
	Description string
}

// Synthesizer defines the interface for text-to-speech providers.
type Synthesizer interface {
	// Synthesize converts text to audio and returns the raw MP3 bytes.
	Synthesize(ctx context.Context, text string) ([]byte, error)

	// ListVoices returns the voices available to the configured account.
	ListVoices(ctx context.Context) ([]Voice, error)

	// Name returns the provider name.
	Name() string
}

// Config holds common configuration for TTS providers.
type Config struct {
	Provider string // Provider name: "elevenlabs" or "openai"

	APIKey          string
	VoiceID         string
	Stability       float64 // 0.0 to 1.0
	SimilarityBoost float64 // 0.0 to 1.0

	// BaseURL overrides the provider endpoint, used by tests.
	BaseURL string
}

// NewSynthesizer creates the appropriate TTS provider based on configuration.
func NewSynthesizer(config *Config) (Synthesizer, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("%s API key is required", config.Provider)
	}

	switch config.Provider {
	case "elevenlabs":
		return NewElevenLabsClient(config), nil
	case "openai":
		return NewOpenAIProvider(config), nil
	default:
		return nil, fmt.Errorf("unknown TTS provider: %s", config.Provider)
	}
}

// AuthError indicates the API rejected the configured credentials. It is
// fatal for the whole run.
type AuthError struct {
	Provider string
}

func (e *AuthError) Error() string {
	return e.Provider + ": invalid API credentials"
}

// RateLimitError indicates the API refused the request due to rate or quota
// limits. The run halts rather than retrying, since unattended retries could
// incur cost.
type RateLimitError struct {
	Provider string
}

func (e *RateLimitError) Error() string {
	return e.Provider + ": rate limit exceeded"
}

// SynthesisError is any other non-success response. It fails only the
// current card.
type SynthesisError struct {
	Provider string
	Code     int
	Message  string
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("%s: synthesis failed (status %d): %s", e.Provider, e.Code, e.Message)
}
