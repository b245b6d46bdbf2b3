package voices

import (
	"context"
	"fmt"
	"sort"

	"codeberg.org/snonux/ankivoice/internal/tts"
)

// Lister handles listing available TTS voices
type Lister struct {
	synthesizer tts.Synthesizer
}

// NewLister creates a new voice lister
func NewLister(synthesizer tts.Synthesizer) *Lister {
	return &Lister{synthesizer: synthesizer}
}

// ListAvailableVoices prints all voices available to the configured account,
// grouped by category.
func (l *Lister) ListAvailableVoices(ctx context.Context) error {
	voices, err := l.synthesizer.ListVoices(ctx)
	if err != nil {
		return fmt.Errorf("failed to list voices: %w", err)
	}

	if len(voices) == 0 {
		fmt.Println("No voices available")
		return nil
	}

	// Group by category
	byCategory := map[string][]tts.Voice{}
	for _, voice := range voices {
		category := voice.Category
		if category == "" {
			category = "uncategorized"
		}
		byCategory[category] = append(byCategory[category], voice)
	}

	categories := make([]string, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	fmt.Printf("Available %s voices:\n", l.synthesizer.Name())
	for _, category := range categories {
		fmt.Printf("\n%s:\n", category)
		for _, voice := range byCategory[category] {
			if voice.Description != "" {
				fmt.Printf("  %s (ID: %s) - %s\n", voice.Name, voice.ID, voice.Description)
			} else {
				fmt.Printf("  %s (ID: %s)\n", voice.Name, voice.ID)
			}
		}
	}

	return nil
}
