// Package text decides whether card content is Bulgarian and normalizes it
// for speech synthesis. All functions are pure.
package text
