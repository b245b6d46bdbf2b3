package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"codeberg.org/snonux/ankivoice/internal/anki"
	"codeberg.org/snonux/ankivoice/internal/cache"
	"codeberg.org/snonux/ankivoice/internal/text"
	"codeberg.org/snonux/ankivoice/internal/tts"
)

// soundTagRe matches the [sound:filename] directive Anki uses to reference
// audio in a field.
var soundTagRe = regexp.MustCompile(`\[sound:([^\]]+)\]`)

// Config holds the immutable per-run settings of the pipeline.
type Config struct {
	Deck            string
	SourceField     string
	AudioField      string
	VoiceID         string
	Stability       float64
	SimilarityBoost float64
	RateLimitDelay  time.Duration
	DryRun          bool
}

// Processor runs the card processing pipeline: list cards, filter, clean
// text, consult the cache, synthesize, upload media and update fields.
type Processor struct {
	config  Config
	backend *anki.Client
	synth   tts.Synthesizer
	store   *cache.Store

	lastSynthesis time.Time
}

// New creates a new pipeline processor.
func New(config Config, backend *anki.Client, synth tts.Synthesizer, store *cache.Store) *Processor {
	return &Processor{
		config:  config,
		backend: backend,
		synth:   synth,
		store:   store,
	}
}

// Summary reports the outcome of a pipeline run.
type Summary struct {
	Total       int
	Processed   int
	Skipped     int
	Failed      int
	SkipReasons map[string]int

	// DryRunChars is the total character count that would have been billed.
	DryRunChars int
}

func newSummary() *Summary {
	return &Summary{SkipReasons: map[string]int{}}
}

func (s *Summary) skip(reason string) {
	s.Skipped++
	s.SkipReasons[reason]++
}

// Run processes all cards of the configured deck in deck-listing order. It
// returns a non-nil summary for everything up to the point of failure.
func (p *Processor) Run(ctx context.Context) (*Summary, error) {
	summary := newSummary()

	decks, err := p.backend.DeckNames(ctx)
	if err != nil {
		return summary, err
	}
	if !containsString(decks, p.config.Deck) {
		return summary, fmt.Errorf("deck %q not found, available decks: %s",
			p.config.Deck, strings.Join(decks, ", "))
	}

	cardIDs, err := p.backend.FindCards(ctx, p.config.Deck)
	if err != nil {
		return summary, err
	}
	if len(cardIDs) == 0 {
		fmt.Printf("No cards found in deck %q\n", p.config.Deck)
		return summary, nil
	}
	fmt.Printf("Found %d cards in deck %q\n", len(cardIDs), p.config.Deck)

	cards, err := p.backend.CardsInfo(ctx, cardIDs)
	if err != nil {
		return summary, err
	}

	// Multiple cards can share a note; process each note once, keeping
	// deck-listing order.
	noteIDs := make([]int64, 0, len(cards))
	seen := make(map[int64]bool, len(cards))
	for _, card := range cards {
		if !seen[card.Note] {
			seen[card.Note] = true
			noteIDs = append(noteIDs, card.Note)
		}
	}

	notes, err := p.backend.NotesInfo(ctx, noteIDs)
	if err != nil {
		return summary, err
	}
	summary.Total = len(notes)

	for _, note := range notes {
		if err := p.processNote(ctx, note, summary); err != nil {
			if isFatal(err) {
				return summary, err
			}
			fmt.Fprintf(os.Stderr, "Error processing note %d: %v\n", note.NoteID, err)
			summary.Failed++
		}
	}

	p.printSummary(summary)
	return summary, nil
}

func (p *Processor) processNote(ctx context.Context, note anki.Note, summary *Summary) error {
	field, ok := note.Fields[p.config.SourceField]
	if !ok {
		fmt.Printf("Note %d has no field %q, skipping\n", note.NoteID, p.config.SourceField)
		summary.skip("missing source field")
		return nil
	}

	cleaned := text.Clean(field.Value)
	if suitable, reason := text.Suitability(cleaned); !suitable {
		if reason != "no text" {
			fmt.Printf("Skipping %q: %s\n", truncate(cleaned, 20), reason)
		}
		summary.skip(reason)
		return nil
	}

	fingerprint := cache.Fingerprint(cleaned, p.config.VoiceID, p.config.Stability, p.config.SimilarityBoost)
	filename := cache.Filename(fingerprint)

	audioValue := strings.TrimSpace(note.Fields[p.config.AudioField].Value)
	if audioValue != "" {
		done, err := p.checkExistingAudio(ctx, note, audioValue)
		if err != nil {
			return err
		}
		if done {
			summary.skip("already has audio")
			return nil
		}
		// Stale reference cleared, regenerate below.
		audioValue = ""
	}

	// A previous run may have uploaded the media without getting to the
	// field update. Re-tag without synthesizing.
	exists, err := p.backend.MediaFileExists(ctx, filename)
	if err != nil {
		return err
	}
	if exists {
		fmt.Printf("Media file %q already in Anki for note %d\n", filename, note.NoteID)
		if !p.config.DryRun {
			if err := p.writeSoundReference(ctx, note.NoteID, audioValue, filename); err != nil {
				return err
			}
		}
		summary.skip("media already in Anki")
		return nil
	}

	fmt.Printf("Processing: %s\n", truncate(cleaned, 50))

	audio, hit := p.store.Lookup(fingerprint)
	if hit {
		fmt.Println("  Using cached audio")
	} else if p.config.DryRun {
		fmt.Printf("  [dry-run] Would synthesize %d characters\n", len([]rune(cleaned)))
		summary.DryRunChars += len([]rune(cleaned))
		summary.Processed++
		return nil
	} else {
		audio, err = p.synthesizeWithDelay(ctx, cleaned)
		if err != nil {
			return err
		}
		fmt.Println("  Generated new TTS audio")

		if _, err := p.store.Save(fingerprint, audio); err != nil {
			return err
		}
		p.store.Record(fingerprint, cleaned, p.config.VoiceID, len([]rune(cleaned)))
	}

	if p.config.DryRun {
		fmt.Printf("  [dry-run] Would upload %q and update note %d\n", filename, note.NoteID)
		summary.Processed++
		return nil
	}

	if err := p.backend.StoreMediaFile(ctx, filename, audio); err != nil {
		return err
	}
	if err := p.writeSoundReference(ctx, note.NoteID, audioValue, filename); err != nil {
		return err
	}

	fmt.Printf("  Added audio to note %d\n", note.NoteID)
	summary.Processed++
	return nil
}

// checkExistingAudio inspects a non-empty audio field. It returns done=true
// when the field already references valid audio. Stale or unrecognized
// content is cleared so the note gets regenerated.
func (p *Processor) checkExistingAudio(ctx context.Context, note anki.Note, audioValue string) (bool, error) {
	match := soundTagRe.FindStringSubmatch(audioValue)
	if match == nil {
		fmt.Printf("Note %d has unrecognized audio field content %q, regenerating\n", note.NoteID, audioValue)
		return false, p.clearAudioField(ctx, note.NoteID)
	}

	existing := match[1]
	valid, err := p.backend.MediaFileExists(ctx, existing)
	if err != nil {
		return false, err
	}
	if valid {
		return true, nil
	}

	fmt.Printf("Note %d references invalid media file %q, regenerating\n", note.NoteID, existing)
	return false, p.clearAudioField(ctx, note.NoteID)
}

func (p *Processor) clearAudioField(ctx context.Context, noteID int64) error {
	if p.config.DryRun {
		return nil
	}
	return p.backend.UpdateNoteFields(ctx, noteID, map[string]string{p.config.AudioField: ""})
}

// writeSoundReference appends the sound directive to the current audio field
// content. A field that already carries the directive is left untouched.
func (p *Processor) writeSoundReference(ctx context.Context, noteID int64, current, filename string) error {
	tag := fmt.Sprintf("[sound:%s]", filename)
	if strings.Contains(current, tag) {
		return nil
	}

	value := tag
	if current != "" {
		value = current + " " + tag
	}
	return p.backend.UpdateNoteFields(ctx, noteID, map[string]string{p.config.AudioField: value})
}

// synthesizeWithDelay enforces the fixed inter-request delay before calling
// the TTS backend.
func (p *Processor) synthesizeWithDelay(ctx context.Context, cleaned string) ([]byte, error) {
	if !p.lastSynthesis.IsZero() {
		if wait := p.config.RateLimitDelay - time.Since(p.lastSynthesis); wait > 0 {
			time.Sleep(wait)
		}
	}
	p.lastSynthesis = time.Now()

	return p.synth.Synthesize(ctx, cleaned)
}

func (p *Processor) printSummary(summary *Summary) {
	fmt.Printf("\n=== Processing Summary ===\n")
	fmt.Printf("Total notes: %d\n", summary.Total)
	if p.config.DryRun {
		fmt.Printf("Would process: %d\n", summary.Processed)
		fmt.Printf("Characters to be billed: %d\n", summary.DryRunChars)
	} else {
		fmt.Printf("Processed: %d\n", summary.Processed)
	}
	fmt.Printf("Skipped: %d\n", summary.Skipped)
	for reason, count := range summary.SkipReasons {
		fmt.Printf("  %s: %d\n", reason, count)
	}
	if summary.Failed > 0 {
		fmt.Printf("Failed: %d\n", summary.Failed)
	}
	fmt.Printf("==========================\n")
}

// isFatal reports whether err should abort the remaining queue: the backend
// is unreachable, the TTS credentials are bad, or the TTS quota is gone.
func isFatal(err error) bool {
	var connErr *anki.ConnectionError
	var authErr *tts.AuthError
	var rateErr *tts.RateLimitError
	return errors.As(err, &connErr) || errors.As(err, &authErr) || errors.As(err, &rateErr)
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
