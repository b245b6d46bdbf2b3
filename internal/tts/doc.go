// Package tts provides text-to-speech synthesis behind a common
// Synthesizer interface, with ElevenLabs as the primary backend and OpenAI
// as an alternate.
package tts
