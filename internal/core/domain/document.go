package domain

import "time"

// Document represents an ingested source text.
// It is immutable once stored: re-ingesting a file produces a new
// document, and rebuilding an index supersedes chunks rather than
// mutating them.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Title is the human-readable title, inferred from the source
	// file name when not supplied.
	Title string

	// URI is the original location (file path, URL, etc).
	URI string

	// Content is the full text content.
	Content string

	// Structured marks documents with heading markup (LaTeX or
	// markdown) that should be chunked section-wise.
	Structured bool

	// CreatedAt is when the document was ingested.
	CreatedAt time.Time
}

// Chunk is the unit of indexing and retrieval: a contiguous, possibly
// overlapping slice of a document's text plus the feature sets derived
// from it. Chunks are immutable after creation.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Index is the ordinal position within the document.
	// Indices are contiguous per document starting at 0; the highest
	// persisted index defines the resume point for an interrupted run.
	Index int

	// Content is the text content of this chunk.
	Content string

	// Start and End are absolute character offsets into the parent
	// document's content, half-open [Start, End).
	Start int
	End   int

	// SectionPath holds the titles of every enclosing heading level
	// for section-wise chunks. Empty for fixed-window chunks.
	SectionPath []string

	// Features holds the extracted keyword/number/markup sets used
	// by the relevance scorer.
	Features ChunkFeatures
}

// ChunkFeatures holds the per-chunk sets derived by the feature
// extractor. All slices preserve first-occurrence order and are capped
// at extraction time, so consumers may treat them as bounded.
type ChunkFeatures struct {
	// Keywords are lowercase tokens, stopwords removed.
	Keywords []string

	// Numbers are numeric literals found in the text.
	Numbers []string

	// Macros are LaTeX command tokens. Only populated when math
	// feature extraction is enabled.
	Macros []string

	// Environments are LaTeX \begin{...} environment names.
	Environments []string

	// Symbols are Unicode math symbols and Greek-letter macro names.
	Symbols []string

	// Tags are heuristic thematic labels used to bias retrieval.
	Tags []string
}

// HasKeyword reports whether the chunk's keyword set contains word.
func (f *ChunkFeatures) HasKeyword(word string) bool {
	for _, k := range f.Keywords {
		if k == word {
			return true
		}
	}
	return false
}

// HasNumber reports whether the chunk's number set contains lit.
func (f *ChunkFeatures) HasNumber(lit string) bool {
	for _, n := range f.Numbers {
		if n == lit {
			return true
		}
	}
	return false
}
