// Package anki talks to a running Anki instance through the AnkiConnect
// add-on's HTTP JSON API. It covers deck and note queries, note field
// updates and the media collection, including validation of uploaded MP3
// files.
package anki
