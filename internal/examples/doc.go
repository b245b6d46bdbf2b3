// Package examples imports Bulgarian and English example sentences from a
// TSV file into existing Anki notes, matching rows to notes by the Bulgarian
// text in the configured source field.
package examples
