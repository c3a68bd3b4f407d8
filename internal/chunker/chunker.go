// Package chunker splits document text into overlapping fixed-size
// windows, or into heading-delimited sections for structured sources.
package chunker

// DefaultSize is the default number of characters per window.
const DefaultSize = 1500

// DefaultOverlap is the default number of overlapping characters.
const DefaultOverlap = 150

// Span is one window of the source text with absolute character
// offsets, half-open [Start, End).
type Span struct {
	Text  string
	Start int
	End   int
}

// Split slices text into fixed windows of size characters advancing by
// size-overlap. Empty input yields no spans. The advance step is
// floored at one character so a misconfigured overlap can never loop
// forever, and the final window always ends exactly at len(text).
func Split(text string, size, overlap int) []Span {
	if text == "" || size <= 0 {
		return nil
	}
	if overlap < 0 {
		overlap = 0
	}

	step := size - overlap
	if step < 1 {
		step = 1
	}

	length := len(text)
	spans := make([]Span, 0, length/step+1)

	for start := 0; start < length; start += step {
		end := start + size
		if end > length {
			end = length
		}
		spans = append(spans, Span{
			Text:  text[start:end],
			Start: start,
			End:   end,
		})
		if end == length {
			break
		}
	}

	return spans
}
