// Package buffer implements the text document behind the configuration
// editor.
//
// Coordinates are 0-based (Row, Col) where Col counts grapheme clusters.
// Ranges are half-open selections in document coordinates: [Start, End).
package buffer
