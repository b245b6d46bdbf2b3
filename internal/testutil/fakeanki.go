package testutil

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// FakeNote is an in-memory note held by FakeAnki.
type FakeNote struct {
	ModelName  string
	Fields     map[string]string
	FieldOrder []string
}

// FakeAnki simulates an AnkiConnect endpoint backed by in-memory state. It
// records every action invoked so tests can assert on mutation counts.
type FakeAnki struct {
	mu sync.Mutex

	Decks       map[string][]int64 // deck name -> card IDs
	Cards       map[int64]int64    // card ID -> note ID
	Notes       map[int64]*FakeNote
	Media       map[string][]byte
	ModelFields map[string][]string

	Calls []string

	server *httptest.Server
}

// NewFakeAnki starts a fake AnkiConnect server, closed automatically when
// the test finishes.
func NewFakeAnki(t *testing.T) *FakeAnki {
	t.Helper()

	f := &FakeAnki{
		Decks:       map[string][]int64{},
		Cards:       map[int64]int64{},
		Notes:       map[int64]*FakeNote{},
		Media:       map[string][]byte{},
		ModelFields: map[string][]string{},
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.server.Close)

	return f
}

// URL returns the fake server's endpoint.
func (f *FakeAnki) URL() string {
	return f.server.URL
}

// AddNote registers a note and one card for it in the given deck.
func (f *FakeAnki) AddNote(deck string, cardID, noteID int64, modelName string, fieldOrder []string, fields map[string]string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Decks[deck] = append(f.Decks[deck], cardID)
	f.Cards[cardID] = noteID
	f.Notes[noteID] = &FakeNote{
		ModelName:  modelName,
		Fields:     fields,
		FieldOrder: fieldOrder,
	}
	if _, ok := f.ModelFields[modelName]; !ok {
		f.ModelFields[modelName] = append([]string{}, fieldOrder...)
	}
}

// CallCount returns how often the given action was invoked.
func (f *FakeAnki) CallCount(action string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	count := 0
	for _, call := range f.Calls {
		if call == action {
			count++
		}
	}
	return count
}

func (f *FakeAnki) handle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action  string          `json:"action"`
		Version int             `json:"version"`
		Params  json.RawMessage `json:"params"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.Calls = append(f.Calls, req.Action)
	result, err := f.dispatch(req.Action, req.Params)
	f.mu.Unlock()

	resp := map[string]any{"result": result, "error": nil}
	if err != nil {
		resp["result"] = nil
		resp["error"] = err.Error()
	}
	json.NewEncoder(w).Encode(resp)
}

func (f *FakeAnki) dispatch(action string, params json.RawMessage) (any, error) {
	switch action {
	case "deckNames":
		names := make([]string, 0, len(f.Decks))
		for name := range f.Decks {
			names = append(names, name)
		}
		return names, nil

	case "findCards", "findNotes":
		var p struct {
			Query string `json:"query"`
		}
		json.Unmarshal(params, &p)
		deck := strings.Trim(strings.TrimPrefix(p.Query, "deck:"), `"`)
		cardIDs := f.Decks[deck]
		if action == "findCards" {
			return cardIDs, nil
		}
		noteIDs := make([]int64, 0, len(cardIDs))
		seen := map[int64]bool{}
		for _, cardID := range cardIDs {
			noteID := f.Cards[cardID]
			if !seen[noteID] {
				seen[noteID] = true
				noteIDs = append(noteIDs, noteID)
			}
		}
		return noteIDs, nil

	case "cardsInfo":
		var p struct {
			Cards []int64 `json:"cards"`
		}
		json.Unmarshal(params, &p)
		infos := make([]map[string]any, 0, len(p.Cards))
		for _, cardID := range p.Cards {
			infos = append(infos, map[string]any{
				"cardId": cardID,
				"note":   f.Cards[cardID],
			})
		}
		return infos, nil

	case "notesInfo":
		var p struct {
			Notes []int64 `json:"notes"`
		}
		json.Unmarshal(params, &p)
		infos := make([]map[string]any, 0, len(p.Notes))
		for _, noteID := range p.Notes {
			note, ok := f.Notes[noteID]
			if !ok {
				return nil, fmt.Errorf("note not found: %d", noteID)
			}
			fields := map[string]any{}
			for i, name := range note.FieldOrder {
				fields[name] = map[string]any{"value": note.Fields[name], "order": i}
			}
			infos = append(infos, map[string]any{
				"noteId":    noteID,
				"modelName": note.ModelName,
				"fields":    fields,
			})
		}
		return infos, nil

	case "modelNames":
		names := make([]string, 0, len(f.ModelFields))
		for name := range f.ModelFields {
			names = append(names, name)
		}
		return names, nil

	case "modelFieldNames":
		var p struct {
			ModelName string `json:"modelName"`
		}
		json.Unmarshal(params, &p)
		fields, ok := f.ModelFields[p.ModelName]
		if !ok {
			return nil, fmt.Errorf("model not found: %s", p.ModelName)
		}
		return fields, nil

	case "addField":
		var p struct {
			ModelName string `json:"modelName"`
			FieldName string `json:"fieldName"`
		}
		json.Unmarshal(params, &p)
		f.ModelFields[p.ModelName] = append(f.ModelFields[p.ModelName], p.FieldName)
		for _, note := range f.Notes {
			if note.ModelName == p.ModelName {
				note.FieldOrder = append(note.FieldOrder, p.FieldName)
				note.Fields[p.FieldName] = ""
			}
		}
		return nil, nil

	case "storeMediaFile":
		var p struct {
			Filename string `json:"filename"`
			Data     string `json:"data"`
		}
		json.Unmarshal(params, &p)
		data, err := base64.StdEncoding.DecodeString(p.Data)
		if err != nil {
			return nil, fmt.Errorf("invalid media data: %v", err)
		}
		f.Media[p.Filename] = data
		return p.Filename, nil

	case "retrieveMediaFile":
		var p struct {
			Filename string `json:"filename"`
		}
		json.Unmarshal(params, &p)
		data, ok := f.Media[p.Filename]
		if !ok {
			return false, nil
		}
		return base64.StdEncoding.EncodeToString(data), nil

	case "updateNoteFields":
		var p struct {
			Note struct {
				ID     int64             `json:"id"`
				Fields map[string]string `json:"fields"`
			} `json:"note"`
		}
		json.Unmarshal(params, &p)
		note, ok := f.Notes[p.Note.ID]
		if !ok {
			return nil, fmt.Errorf("note not found: %d", p.Note.ID)
		}
		for name, value := range p.Note.Fields {
			note.Fields[name] = value
		}
		return nil, nil

	default:
		return nil, fmt.Errorf("unsupported action: %s", action)
	}
}
