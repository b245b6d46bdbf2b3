package cli

import "time"

// DefaultVoiceID is the ElevenLabs voice used when none is configured
// (Rachel, the multilingual default).
const DefaultVoiceID = "21m00Tcm4TlvDq8ikWAM"

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile     string
	Deck        string
	ListDecks   bool
	ListVoices  bool
	CacheStats  bool
	DryRun      bool
	ExamplesTSV string

	// Backend flags
	AnkiURL     string
	SourceField string
	AudioField  string

	// TTS flags
	TTSProvider     string
	VoiceID         string
	Stability       float64
	SimilarityBoost float64
	RateLimitDelay  time.Duration

	// Cache flags
	CacheDir string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		AnkiURL:         "http://localhost:8765",
		SourceField:     "Front",
		AudioField:      "Audio",
		TTSProvider:     "elevenlabs",
		VoiceID:         DefaultVoiceID,
		Stability:       0.75,
		SimilarityBoost: 0.75,
		RateLimitDelay:  500 * time.Millisecond,
		CacheDir:        "./tts_cache",
	}
}
