// Package processor contains the core pipeline for adding TTS audio to
// Anki cards. It orchestrates card listing, Bulgarian text detection and
// cleaning, the local audio cache, speech synthesis, media upload and note
// field updates. This package serves as the main coordinator between all
// other components.
package processor
