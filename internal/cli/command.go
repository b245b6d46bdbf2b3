package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/ankivoice/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ankivoice",
		Short: "Bulgarian TTS audio for Anki decks",
		Long: `ankivoice generates Bulgarian text-to-speech audio for cards in a
running Anki instance (via the AnkiConnect add-on) using the ElevenLabs API.

Generated audio is cached locally and uploaded into Anki's media collection,
and a [sound:...] reference is appended to the card's audio field.

Examples:
  ankivoice --list-decks
  ankivoice --deck "Bulgarian Vocab" --dry-run
  ankivoice --deck "Bulgarian Vocab" --voice-id pNInz6obpgDQGcFmaJgB
  ankivoice --deck "Bulgarian Vocab" --examples-tsv words.tsv`,
		Args:    cobra.NoArgs,
		Version: internal.Version,
	}

	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.ankivoice.yaml)")

	// Mode flags
	cmd.Flags().StringVarP(&flags.Deck, "deck", "d", "", "Name of the Anki deck to process")
	cmd.Flags().BoolVar(&flags.ListDecks, "list-decks", false, "List available Anki decks")
	cmd.Flags().BoolVar(&flags.ListVoices, "list-voices", false, "List available TTS voices")
	cmd.Flags().BoolVar(&flags.CacheStats, "cache-stats", false, "Show local audio cache statistics")
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "Run every step except backend mutations and report would-be changes")
	cmd.Flags().StringVar(&flags.ExamplesTSV, "examples-tsv", "", "Import example sentences from a TSV file into the deck instead of generating audio")

	// Backend flags
	cmd.Flags().StringVar(&flags.AnkiURL, "anki-url", flags.AnkiURL, "AnkiConnect endpoint URL")
	cmd.Flags().StringVar(&flags.SourceField, "source-field", flags.SourceField, "Field containing Bulgarian text")
	cmd.Flags().StringVar(&flags.AudioField, "audio-field", flags.AudioField, "Field to append the sound reference to")

	// TTS flags
	cmd.Flags().StringVar(&flags.TTSProvider, "tts-provider", flags.TTSProvider, "TTS provider: elevenlabs or openai")
	cmd.Flags().StringVar(&flags.VoiceID, "voice-id", flags.VoiceID, "Voice ID to synthesize with")
	cmd.Flags().Float64Var(&flags.Stability, "stability", flags.Stability, "Voice stability (0.0 to 1.0)")
	cmd.Flags().Float64Var(&flags.SimilarityBoost, "similarity-boost", flags.SimilarityBoost, "Voice similarity boost (0.0 to 1.0)")
	cmd.Flags().DurationVar(&flags.RateLimitDelay, "delay", flags.RateLimitDelay, "Minimum delay between TTS API calls")

	// Cache flags
	cmd.Flags().StringVar(&flags.CacheDir, "cache-dir", flags.CacheDir, "Local audio cache directory")

	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("anki.url", cmd.Flags().Lookup("anki-url"))
	viper.BindPFlag("anki.source_field", cmd.Flags().Lookup("source-field"))
	viper.BindPFlag("anki.audio_field", cmd.Flags().Lookup("audio-field"))
	viper.BindPFlag("tts.provider", cmd.Flags().Lookup("tts-provider"))
	viper.BindPFlag("tts.voice_id", cmd.Flags().Lookup("voice-id"))
	viper.BindPFlag("tts.stability", cmd.Flags().Lookup("stability"))
	viper.BindPFlag("tts.similarity_boost", cmd.Flags().Lookup("similarity-boost"))
	viper.BindPFlag("tts.rate_limit_delay", cmd.Flags().Lookup("delay"))
	viper.BindPFlag("cache.directory", cmd.Flags().Lookup("cache-dir"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".ankivoice" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".ankivoice")
	}

	// Environment variables
	viper.SetEnvPrefix("ANKIVOICE")
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetElevenLabsKey retrieves the ElevenLabs API key from environment or config
func GetElevenLabsKey() string {
	// First check environment variable
	if key := os.Getenv("ELEVENLABS_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("tts.api_key")
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	return viper.GetString("tts.openai_key")
}

// GetAPIKey returns the key for the selected TTS provider.
func GetAPIKey(provider string) string {
	if provider == "openai" {
		return GetOpenAIKey()
	}
	return GetElevenLabsKey()
}
