package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

const (
	elevenLabsAPIURL  = "https://api.elevenlabs.io"
	elevenLabsModel   = "eleven_multilingual_v2"
	elevenLabsFormat  = "mp3_44100_128"
	elevenLabsTimeout = 60 * time.Second
)

// ElevenLabsClient implements Synthesizer for the ElevenLabs API.
type ElevenLabsClient struct {
	config     *Config
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

type speechRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceListResponse struct {
	Voices []struct {
		VoiceID     string `json:"voice_id"`
		Name        string `json:"name"`
		Category    string `json:"category"`
		Description string `json:"description"`
	} `json:"voices"`
}

// NewElevenLabsClient creates a new ElevenLabs TTS client.
func NewElevenLabsClient(config *Config) *ElevenLabsClient {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = elevenLabsAPIURL
	}

	// After repeated consecutive failures further synthesis is refused for
	// the rest of the run. Failed cards are never retried within a run.
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "elevenlabs",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &ElevenLabsClient{
		config:  config,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: elevenLabsTimeout,
		},
		breaker: breaker,
	}
}

// Synthesize generates speech for text using the configured voice and
// settings, returning raw MP3 bytes.
func (c *ElevenLabsClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	audio, err := c.breaker.Execute(func() (any, error) {
		return c.synthesize(ctx, text)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &SynthesisError{
				Provider: "elevenlabs",
				Message:  "too many consecutive failures, refusing further synthesis",
			}
		}
		return nil, err
	}
	return audio.([]byte), nil
}

func (c *ElevenLabsClient) synthesize(ctx context.Context, text string) ([]byte, error) {
	body, err := json.Marshal(&speechRequest{
		Text:    text,
		ModelID: elevenLabsModel,
		VoiceSettings: voiceSettings{
			Stability:       c.config.Stability,
			SimilarityBoost: c.config.SimilarityBoost,
			Style:           0.0,
			UseSpeakerBoost: true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqURL := fmt.Sprintf("%s/v1/text-to-speech/%s?output_format=%s",
		c.baseURL, c.config.VoiceID, elevenLabsFormat)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("xi-api-key", c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio data: %w", err)
	}
	if len(audio) == 0 {
		return nil, &SynthesisError{
			Provider: "elevenlabs",
			Code:     resp.StatusCode,
			Message:  "no audio data received",
		}
	}

	return audio, nil
}

// ListVoices returns the voices available to the configured account.
func (c *ElevenLabsClient) ListVoices(ctx context.Context) ([]Voice, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/voices", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("xi-api-key", c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	var list voiceListResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to decode voice list: %w", err)
	}

	voices := make([]Voice, 0, len(list.Voices))
	for _, v := range list.Voices {
		voices = append(voices, Voice{
			ID:          v.VoiceID,
			Name:        v.Name,
			Category:    v.Category,
			Description: v.Description,
		})
	}

	return voices, nil
}

// Name returns the provider name.
func (c *ElevenLabsClient) Name() string {
	return "elevenlabs"
}

func (c *ElevenLabsClient) checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &AuthError{Provider: "elevenlabs"}
	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitError{Provider: "elevenlabs"}
	default:
		body, _ := io.ReadAll(resp.Body)
		return &SynthesisError{
			Provider: "elevenlabs",
			Code:     resp.StatusCode,
			Message:  string(body),
		}
	}
}
