package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/ankivoice/internal/anki"
	"codeberg.org/snonux/ankivoice/internal/cache"
	"codeberg.org/snonux/ankivoice/internal/cli"
	"codeberg.org/snonux/ankivoice/internal/examples"
	"codeberg.org/snonux/ankivoice/internal/processor"
	"codeberg.org/snonux/ankivoice/internal/tts"
	"codeberg.org/snonux/ankivoice/internal/voices"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Set the run function
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, args, flags)
	}

	// Execute command
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, args []string, flags *cli.Flags) error {
	ctx := context.Background()
	backend := anki.NewClient(viper.GetString("anki.url"))

	// Handle --cache-stats flag
	if flags.CacheStats {
		return printCacheStats(viper.GetString("cache.directory"))
	}

	// Handle --list-decks flag
	if flags.ListDecks {
		return listDecks(ctx, backend)
	}

	provider := viper.GetString("tts.provider")

	// Handle --list-voices flag
	if flags.ListVoices {
		synth, err := newSynthesizer(provider)
		if err != nil {
			return err
		}
		return voices.NewLister(synth).ListAvailableVoices(ctx)
	}

	if flags.Deck == "" {
		return fmt.Errorf("please specify a deck with --deck or use --list-decks to see available decks")
	}

	// Handle --examples-tsv import mode
	if flags.ExamplesTSV != "" {
		importer := examples.NewImporter(backend, viper.GetString("anki.source_field"), flags.DryRun)
		summary, err := importer.Run(ctx, flags.Deck, flags.ExamplesTSV)
		if err != nil {
			return err
		}
		printImportSummary(summary, flags.DryRun)
		return nil
	}

	return processDeck(ctx, backend, provider, flags)
}

func processDeck(ctx context.Context, backend *anki.Client, provider string, flags *cli.Flags) error {
	var synth tts.Synthesizer

	apiKey := cli.GetAPIKey(provider)
	switch {
	case apiKey != "":
		var err error
		synth, err = tts.NewSynthesizer(&tts.Config{
			Provider:        provider,
			APIKey:          apiKey,
			VoiceID:         viper.GetString("tts.voice_id"),
			Stability:       viper.GetFloat64("tts.stability"),
			SimilarityBoost: viper.GetFloat64("tts.similarity_boost"),
		})
		if err != nil {
			return err
		}
	case flags.DryRun:
		// A dry run never synthesizes, so it works without credentials.
	default:
		return fmt.Errorf("%s API key is required, set ELEVENLABS_API_KEY (or OPENAI_API_KEY) or tts.api_key in the config file", provider)
	}

	cacheDir := viper.GetString("cache.directory")
	store := cache.NewStore(cacheDir)
	if index, err := cache.OpenIndex(filepath.Join(cacheDir, "index.db")); err == nil {
		defer index.Close()
		store = store.WithIndex(index)
	} else {
		fmt.Fprintf(os.Stderr, "Warning: cache index unavailable: %v\n", err)
	}

	proc := processor.New(processor.Config{
		Deck:            flags.Deck,
		SourceField:     viper.GetString("anki.source_field"),
		AudioField:      viper.GetString("anki.audio_field"),
		VoiceID:         viper.GetString("tts.voice_id"),
		Stability:       viper.GetFloat64("tts.stability"),
		SimilarityBoost: viper.GetFloat64("tts.similarity_boost"),
		RateLimitDelay:  viper.GetDuration("tts.rate_limit_delay"),
		DryRun:          flags.DryRun,
	}, backend, synth, store)

	_, err := proc.Run(ctx)
	return err
}

func newSynthesizer(provider string) (tts.Synthesizer, error) {
	apiKey := cli.GetAPIKey(provider)
	if apiKey == "" {
		return nil, fmt.Errorf("%s API key is required, set ELEVENLABS_API_KEY (or OPENAI_API_KEY) or tts.api_key in the config file", provider)
	}

	return tts.NewSynthesizer(&tts.Config{
		Provider:        provider,
		APIKey:          apiKey,
		VoiceID:         viper.GetString("tts.voice_id"),
		Stability:       viper.GetFloat64("tts.stability"),
		SimilarityBoost: viper.GetFloat64("tts.similarity_boost"),
	})
}

func listDecks(ctx context.Context, backend *anki.Client) error {
	decks, err := backend.DeckNames(ctx)
	if err != nil {
		return err
	}

	fmt.Println("Available decks:")
	for i, deck := range decks {
		fmt.Printf("%d. %s\n", i+1, deck)
	}
	return nil
}

func printCacheStats(cacheDir string) error {
	store := cache.NewStore(cacheDir)
	fileCount, totalSize, err := store.Stats()
	if err != nil {
		return fmt.Errorf("failed to read cache directory: %w", err)
	}

	fmt.Printf("Cache directory: %s\n", cacheDir)
	fmt.Printf("Audio files: %d (%.1f KiB)\n", fileCount, float64(totalSize)/1024)

	indexPath := filepath.Join(cacheDir, "index.db")
	if _, err := os.Stat(indexPath); err != nil {
		return nil
	}
	index, err := cache.OpenIndex(indexPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cache index unavailable: %v\n", err)
		return nil
	}
	defer index.Close()

	entries, totalChars, err := index.Stats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to read cache index: %v\n", err)
		return nil
	}
	fmt.Printf("Indexed syntheses: %d (%d characters sent)\n", entries, totalChars)
	return nil
}

func printImportSummary(summary *examples.Summary, dryRun bool) {
	fmt.Printf("\n=== Import Summary ===\n")
	fmt.Printf("Total notes: %d\n", summary.Total)
	fmt.Printf("Matched: %d\n", summary.Matched)
	if dryRun {
		fmt.Printf("Would update: %d\n", summary.Updated)
	} else {
		fmt.Printf("Updated: %d\n", summary.Updated)
	}
	fmt.Printf("Skipped: %d\n", summary.Skipped)
	fmt.Printf("======================\n")
}
