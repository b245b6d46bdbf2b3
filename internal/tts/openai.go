package tts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

// openAIVoices are the fixed voices the OpenAI TTS API offers.
var openAIVoices = []Voice{
	{ID: "alloy", Name: "Alloy"},
	{ID: "ash", Name: "Ash"},
	{ID: "coral", Name: "Coral"},
	{ID: "echo", Name: "Echo"},
	{ID: "fable", Name: "Fable"},
	{ID: "nova", Name: "Nova"},
	{ID: "onyx", Name: "Onyx"},
	{ID: "sage", Name: "Sage"},
	{ID: "shimmer", Name: "Shimmer"},
}

// OpenAIProvider implements Synthesizer for OpenAI TTS. It is the alternate
// backend; stability and similarity settings have no OpenAI equivalent and
// are ignored (they still participate in cache fingerprints).
type OpenAIProvider struct {
	client *openai.Client
	config *Config
}

// NewOpenAIProvider creates a new OpenAI TTS provider.
func NewOpenAIProvider(config *Config) *OpenAIProvider {
	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}
}

// Synthesize generates speech for text and returns raw MP3 bytes.
func (p *OpenAIProvider) Synthesize(ctx context.Context, text string) ([]byte, error) {
	voice := p.config.VoiceID
	if voice == "" {
		voice = "nova"
	}

	resp, err := p.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.TTSModel1HD,
		Input:          text,
		Voice:          openai.SpeechVoice(voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, p.mapError(err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio data: %w", err)
	}
	if len(audio) == 0 {
		return nil, &SynthesisError{
			Provider: "openai",
			Message:  "no audio data received",
		}
	}

	return audio, nil
}

// ListVoices returns the fixed OpenAI voice set.
func (p *OpenAIProvider) ListVoices(ctx context.Context) ([]Voice, error) {
	voices := make([]Voice, len(openAIVoices))
	copy(voices, openAIVoices)
	return voices, nil
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

func (p *OpenAIProvider) mapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return &AuthError{Provider: "openai"}
		case http.StatusTooManyRequests:
			return &RateLimitError{Provider: "openai"}
		default:
			return &SynthesisError{
				Provider: "openai",
				Code:     apiErr.HTTPStatusCode,
				Message:  apiErr.Message,
			}
		}
	}
	return fmt.Errorf("OpenAI TTS API error: %w", err)
}
