// Package chunker splits extracted document text into bounded, overlapping
// segments suitable for embedding and retrieval. Splits prefer sentence
// boundaries so that a chunk rarely ends mid-sentence.
package chunker

import (
	"errors"
	"strings"
)

// ErrInvalidChunkSize is returned when Chunk is called with a non-positive
// chunk size.
var ErrInvalidChunkSize = errors.New("chunk size must be positive")

// Chunk splits text into segments of at most chunkSize characters.
// Consecutive segments share overlap characters of source text so that
// context survives a split boundary.
//
// When a window's right edge falls before the end of the text, it is pulled
// back to the last '.' strictly inside the window, avoiding mid-sentence
// splits. If no such boundary exists the window is cut at chunkSize.
// Segments are trimmed of surrounding whitespace; empty segments are dropped.
func Chunk(text string, chunkSize, overlap int) ([]string, error) {
	if chunkSize <= 0 {
		return nil, ErrInvalidChunkSize
	}

	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	if len(text) <= chunkSize {
		return []string{text}, nil
	}

	if overlap < 0 {
		overlap = 0
	}
	// The start index must strictly advance each iteration; an overlap at or
	// above chunkSize would otherwise loop forever.
	if overlap >= chunkSize {
		overlap = chunkSize - 1
	}

	var chunks []string
	start := 0
	for start < len(text) {
		end := start + chunkSize
		if end < len(text) {
			if period := strings.LastIndex(text[start:end], "."); period > 0 {
				end = start + period + 1
			}
		} else {
			end = len(text)
		}

		if chunk := strings.TrimSpace(text[start:end]); chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end >= len(text) {
			break
		}

		next := end - overlap
		if next <= start {
			next = start + 1
		}
		start = next
	}

	return chunks, nil
}
