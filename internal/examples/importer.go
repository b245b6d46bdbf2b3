package examples

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"codeberg.org/snonux/ankivoice/internal/anki"
)

const (
	bulgarianExampleField = "Bulgarian_Example"
	englishExampleField   = "English_Example"
)

// Example holds the example sentences for one vocabulary entry.
type Example struct {
	English          string
	BulgarianExample string
	EnglishExample   string
}

// Importer adds example sentences from a TSV file to existing notes in a
// deck, matching on the Bulgarian text in the source field.
type Importer struct {
	client      *anki.Client
	sourceField string
	dryRun      bool
}

// NewImporter creates a new example importer.
func NewImporter(client *anki.Client, sourceField string, dryRun bool) *Importer {
	return &Importer{
		client:      client,
		sourceField: sourceField,
		dryRun:      dryRun,
	}
}

// LoadTSV reads examples from a tab-separated file with a header row of
// Bulgarian, English, Bulgarian_Example, English_Example columns. Rows
// without a Bulgarian word or without both examples are ignored.
func LoadTSV(path string) (map[string]Example, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open TSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse TSV file: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("TSV file is empty")
	}

	columns := map[string]int{}
	for i, name := range rows[0] {
		columns[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"Bulgarian", bulgarianExampleField, englishExampleField} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("TSV file is missing required column %q", required)
		}
	}

	cell := func(row []string, name string) string {
		i := columns[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	data := make(map[string]Example)
	for _, row := range rows[1:] {
		bulgarian := cell(row, "Bulgarian")
		example := Example{
			BulgarianExample: cell(row, bulgarianExampleField),
			EnglishExample:   cell(row, englishExampleField),
		}
		if i, ok := columns["English"]; ok && i < len(row) {
			example.English = strings.TrimSpace(row[i])
		}

		if bulgarian == "" || example.BulgarianExample == "" || example.EnglishExample == "" {
			continue
		}
		data[bulgarian] = example
	}

	return data, nil
}

// Summary reports the outcome of an import run.
type Summary struct {
	Total   int
	Matched int
	Updated int
	Skipped int
}

// Run imports examples from the TSV file at tsvPath into the named deck.
func (im *Importer) Run(ctx context.Context, deckName, tsvPath string) (*Summary, error) {
	fmt.Printf("Loading examples from %s...\n", tsvPath)
	data, err := LoadTSV(tsvPath)
	if err != nil {
		return nil, err
	}
	fmt.Printf("Loaded %d examples\n", len(data))

	decks, err := im.client.DeckNames(ctx)
	if err != nil {
		return nil, err
	}
	if !containsString(decks, deckName) {
		return nil, fmt.Errorf("deck %q not found, available decks: %s", deckName, strings.Join(decks, ", "))
	}

	noteIDs, err := im.client.FindNotes(ctx, deckName)
	if err != nil {
		return nil, err
	}
	if len(noteIDs) == 0 {
		fmt.Printf("No notes found in deck %q\n", deckName)
		return &Summary{}, nil
	}

	notes, err := im.client.NotesInfo(ctx, noteIDs)
	if err != nil {
		return nil, err
	}
	fmt.Printf("Found %d notes in deck %q\n", len(notes), deckName)

	if err := im.ensureExampleFields(ctx, notes); err != nil {
		return nil, err
	}

	summary := &Summary{Total: len(notes)}
	for _, note := range notes {
		front := strings.TrimSpace(note.Fields[im.sourceField].Value)
		if front == "" {
			fmt.Fprintf(os.Stderr, "Warning: note %d has an empty %s field\n", note.NoteID, im.sourceField)
			summary.Skipped++
			continue
		}

		example, ok := data[front]
		if !ok {
			summary.Skipped++
			continue
		}
		summary.Matched++

		currentBG := strings.TrimSpace(note.Fields[bulgarianExampleField].Value)
		currentEN := strings.TrimSpace(note.Fields[englishExampleField].Value)
		if currentBG != "" && currentEN != "" {
			fmt.Printf("  Note %d (%s): already has examples, skipping\n", note.NoteID, front)
			summary.Skipped++
			continue
		}

		fields := map[string]string{}
		if currentBG == "" {
			fields[bulgarianExampleField] = example.BulgarianExample
		}
		if currentEN == "" {
			fields[englishExampleField] = example.EnglishExample
		}

		if im.dryRun {
			fmt.Printf("  [dry-run] Would update note %d (%s)\n", note.NoteID, front)
			summary.Updated++
			continue
		}

		if err := im.client.UpdateNoteFields(ctx, note.NoteID, fields); err != nil {
			fmt.Fprintf(os.Stderr, "Error updating note %d: %v\n", note.NoteID, err)
			summary.Skipped++
			continue
		}
		fmt.Printf("  Updated note %d (%s)\n", note.NoteID, front)
		summary.Updated++
	}

	return summary, nil
}

// ensureExampleFields adds the example fields to the note type when absent.
func (im *Importer) ensureExampleFields(ctx context.Context, notes []anki.Note) error {
	if len(notes) == 0 {
		return nil
	}

	modelName := notes[0].ModelName
	fieldNames, err := im.client.ModelFieldNames(ctx, modelName)
	if err != nil {
		return err
	}

	for _, field := range []string{bulgarianExampleField, englishExampleField} {
		if containsString(fieldNames, field) {
			continue
		}
		if im.dryRun {
			fmt.Printf("[dry-run] Would add field %q to note type %q\n", field, modelName)
			continue
		}
		fmt.Printf("Adding field %q to note type %q...\n", field, modelName)
		if err := im.client.AddModelField(ctx, modelName, field); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not add field %q: %v\n", field, err)
		}
	}

	return nil
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
