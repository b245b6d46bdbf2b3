package anki

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultURL is where the AnkiConnect add-on listens by default.
	DefaultURL = "http://localhost:8765"

	apiVersion  = 6
	httpTimeout = 30 * time.Second
)

// Client talks to a running Anki instance via the AnkiConnect add-on.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a new AnkiConnect client. An empty url selects
// DefaultURL.
func NewClient(url string) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: httpTimeout,
		},
	}
}

// ConnectionError indicates the Anki backend could not be reached. It is
// fatal for the whole run.
type ConnectionError struct {
	URL string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("could not connect to Anki at %s (is Anki running with the AnkiConnect add-on installed?): %v", e.URL, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

type apiRequest struct {
	Action  string `json:"action"`
	Version int    `json:"version"`
	Params  any    `json:"params,omitempty"`
}

type apiResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *string         `json:"error"`
}

// Field is a single note field with its rendering order.
type Field struct {
	Value string `json:"value"`
	Order int    `json:"order"`
}

// Note holds note identity and field contents as returned by notesInfo.
type Note struct {
	NoteID    int64            `json:"noteId"`
	ModelName string           `json:"modelName"`
	Fields    map[string]Field `json:"fields"`
}

// CardInfo holds the card attributes needed to reach the owning note.
type CardInfo struct {
	CardID int64 `json:"cardId"`
	Note   int64 `json:"note"`
}

func (c *Client) invoke(ctx context.Context, action string, params, result any) error {
	body, err := json.Marshal(&apiRequest{
		Action:  action,
		Version: apiVersion,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", action, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ConnectionError{URL: c.url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("ankiconnect %s returned status %d: %s", action, resp.StatusCode, respBody)
	}

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", action, err)
	}
	if apiResp.Error != nil && *apiResp.Error != "" {
		return fmt.Errorf("ankiconnect %s error: %s", action, *apiResp.Error)
	}

	if result != nil && len(apiResp.Result) > 0 {
		if err := json.Unmarshal(apiResp.Result, result); err != nil {
			return fmt.Errorf("failed to decode %s result: %w", action, err)
		}
	}

	return nil
}

// DeckNames returns all deck names.
func (c *Client) DeckNames(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.invoke(ctx, "deckNames", nil, &names); err != nil {
		return nil, err
	}
	return names, nil
}

// FindCards returns the IDs of all cards in the named deck.
func (c *Client) FindCards(ctx context.Context, deckName string) ([]int64, error) {
	params := map[string]string{
		"query": fmt.Sprintf("deck:%q", deckName),
	}
	var ids []int64
	if err := c.invoke(ctx, "findCards", params, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// FindNotes returns the IDs of all notes in the named deck.
func (c *Client) FindNotes(ctx context.Context, deckName string) ([]int64, error) {
	params := map[string]string{
		"query": fmt.Sprintf("deck:%q", deckName),
	}
	var ids []int64
	if err := c.invoke(ctx, "findNotes", params, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// CardsInfo returns card attributes for the given card IDs.
func (c *Client) CardsInfo(ctx context.Context, cardIDs []int64) ([]CardInfo, error) {
	params := map[string][]int64{"cards": cardIDs}
	var cards []CardInfo
	if err := c.invoke(ctx, "cardsInfo", params, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// NotesInfo returns note contents for the given note IDs, preserving order.
func (c *Client) NotesInfo(ctx context.Context, noteIDs []int64) ([]Note, error) {
	params := map[string][]int64{"notes": noteIDs}
	var notes []Note
	if err := c.invoke(ctx, "notesInfo", params, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// ModelNames returns all note type names.
func (c *Client) ModelNames(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.invoke(ctx, "modelNames", nil, &names); err != nil {
		return nil, err
	}
	return names, nil
}

// ModelFieldNames returns the field names of a note type.
func (c *Client) ModelFieldNames(ctx context.Context, modelName string) ([]string, error) {
	params := map[string]string{"modelName": modelName}
	var names []string
	if err := c.invoke(ctx, "modelFieldNames", params, &names); err != nil {
		return nil, err
	}
	return names, nil
}

// AddModelField adds a new field to a note type.
func (c *Client) AddModelField(ctx context.Context, modelName, fieldName string) error {
	params := map[string]string{
		"modelName": modelName,
		"fieldName": fieldName,
	}
	return c.invoke(ctx, "addField", params, nil)
}

// StoreMediaFile uploads data into Anki's media collection under filename.
func (c *Client) StoreMediaFile(ctx context.Context, filename string, data []byte) error {
	params := map[string]string{
		"filename": filename,
		"data":     base64.StdEncoding.EncodeToString(data),
	}
	return c.invoke(ctx, "storeMediaFile", params, nil)
}

// RetrieveMediaFile fetches a media file's contents. A missing file returns
// nil bytes and no error.
func (c *Client) RetrieveMediaFile(ctx context.Context, filename string) ([]byte, error) {
	params := map[string]string{"filename": filename}
	var raw json.RawMessage
	if err := c.invoke(ctx, "retrieveMediaFile", params, &raw); err != nil {
		return nil, err
	}

	// AnkiConnect returns false for a missing file, base64 otherwise.
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return nil, nil
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode media file %s: %w", filename, err)
	}
	return data, nil
}

// UpdateNoteFields overwrites the given fields of a note.
func (c *Client) UpdateNoteFields(ctx context.Context, noteID int64, fields map[string]string) error {
	params := map[string]any{
		"note": map[string]any{
			"id":     noteID,
			"fields": fields,
		},
	}
	return c.invoke(ctx, "updateNoteFields", params, nil)
}
