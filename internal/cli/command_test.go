package cli

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func TestCreateRootCommand(t *testing.T) {
	flags := NewFlags()
	cmd := CreateRootCommand(flags)

	// Test basic command properties
	if cmd.Use != "ankivoice" {
		t.Errorf("Expected Use to be 'ankivoice', got %s", cmd.Use)
	}

	if !strings.Contains(cmd.Short, "Bulgarian TTS audio") {
		t.Errorf("Expected Short description to contain 'Bulgarian TTS audio'")
	}

	// Test that flags are set up
	flagTests := []struct {
		name     string
		expected bool
	}{
		{"config", true},
		{"deck", true},
		{"list-decks", true},
		{"list-voices", true},
		{"cache-stats", true},
		{"dry-run", true},
		{"examples-tsv", true},
		{"anki-url", true},
		{"source-field", true},
		{"audio-field", true},
		{"tts-provider", true},
		{"voice-id", true},
		{"stability", true},
		{"similarity-boost", true},
		{"delay", true},
		{"cache-dir", true},
	}

	for _, tt := range flagTests {
		t.Run("flag_"+tt.name, func(t *testing.T) {
			var flag *pflag.Flag
			if tt.name == "config" {
				flag = cmd.PersistentFlags().Lookup(tt.name)
			} else {
				flag = cmd.Flags().Lookup(tt.name)
			}
			if flag == nil && tt.expected {
				t.Errorf("Expected flag %s to exist", tt.name)
			}
		})
	}
}

func TestSetupFlags(t *testing.T) {
	cmd := &cobra.Command{}
	flags := NewFlags()

	setupFlags(cmd, flags)

	// Test backend URL default
	urlFlag := cmd.Flags().Lookup("anki-url")
	if urlFlag == nil {
		t.Fatal("anki-url flag not found")
	}
	if urlFlag.DefValue != "http://localhost:8765" {
		t.Errorf("Expected default anki-url to be http://localhost:8765, got %s", urlFlag.DefValue)
	}

	// Test voice default
	voiceFlag := cmd.Flags().Lookup("voice-id")
	if voiceFlag == nil {
		t.Fatal("voice-id flag not found")
	}
	if voiceFlag.DefValue != DefaultVoiceID {
		t.Errorf("Expected default voice-id to be %s, got %s", DefaultVoiceID, voiceFlag.DefValue)
	}

	// Test deck shorthand
	deckFlag := cmd.Flags().Lookup("deck")
	if deckFlag == nil {
		t.Fatal("deck flag not found")
	}
	if deckFlag.Shorthand != "d" {
		t.Errorf("Expected deck shorthand to be d, got %s", deckFlag.Shorthand)
	}
}

func TestFlagParsing(t *testing.T) {
	flags := NewFlags()
	cmd := CreateRootCommand(flags)

	err := cmd.ParseFlags([]string{
		"--deck", "Bulgarian Vocab",
		"--dry-run",
		"--stability", "0.5",
		"--delay", "250ms",
	})
	if err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}

	if flags.Deck != "Bulgarian Vocab" {
		t.Errorf("Deck = %q, want Bulgarian Vocab", flags.Deck)
	}
	if !flags.DryRun {
		t.Error("DryRun = false, want true")
	}
	if flags.Stability != 0.5 {
		t.Errorf("Stability = %v, want 0.5", flags.Stability)
	}
	if flags.RateLimitDelay.String() != "250ms" {
		t.Errorf("RateLimitDelay = %v, want 250ms", flags.RateLimitDelay)
	}
}

func TestGetAPIKey(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	t.Setenv("ELEVENLABS_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	// Without environment or config the key is empty.
	if key := GetAPIKey("elevenlabs"); key != "" {
		t.Errorf("GetAPIKey() = %q, want empty", key)
	}

	// Config file value is used as fallback.
	viper.Set("tts.api_key", "config-key")
	if key := GetAPIKey("elevenlabs"); key != "config-key" {
		t.Errorf("GetAPIKey() = %q, want config-key", key)
	}

	// Environment variable wins over config.
	t.Setenv("ELEVENLABS_API_KEY", "env-key")
	if key := GetAPIKey("elevenlabs"); key != "env-key" {
		t.Errorf("GetAPIKey() = %q, want env-key", key)
	}

	// The openai provider uses its own key.
	viper.Set("tts.openai_key", "openai-config-key")
	if key := GetAPIKey("openai"); key != "openai-config-key" {
		t.Errorf("GetAPIKey(openai) = %q, want openai-config-key", key)
	}
	t.Setenv("OPENAI_API_KEY", "openai-env-key")
	if key := GetAPIKey("openai"); key != "openai-env-key" {
		t.Errorf("GetAPIKey(openai) = %q, want openai-env-key", key)
	}
}
