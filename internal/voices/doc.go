// Package voices provides functionality for listing and categorizing the
// TTS voices available to the configured API key. It helps users discover
// voice IDs to use for synthesis.
package voices
