// Package extract derives per-chunk feature sets: keywords, numeric
// literals, LaTeX markup and thematic tags. All caps and detector
// tables are fixed configuration, so extraction is deterministic.
package extract

import (
	"regexp"
	"strings"

	"github.com/inkwell-labs/lectern/internal/core/domain"
)

// Feature-set caps. Fixed configuration, not computed thresholds.
const (
	KeywordCap     = 30
	NumberCap      = 50
	MacroCap       = 80
	EnvironmentCap = 50
	SymbolCap      = 80
	TagCap         = 12
)

// stopwords are dropped from keyword sets. Deliberately small: the
// scorer relies on overlap counts, not IDF.
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {},
	"you": {}, "all": {}, "can": {}, "was": {}, "one": {}, "our": {},
	"out": {}, "has": {}, "have": {}, "this": {}, "that": {}, "with": {},
	"from": {}, "they": {}, "will": {}, "what": {}, "when": {},
	"which": {}, "their": {}, "there": {}, "been": {}, "more": {},
	"also": {}, "into": {}, "such": {}, "then": {}, "than": {},
}

var numberPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// Options selects which optional feature families to extract.
type Options struct {
	// Math enables LaTeX macro, environment and symbol extraction.
	Math bool

	// Tags enables thematic tag detection.
	Tags bool

	// Preset force-includes a fixed tag bundle regardless of content.
	Preset string

	// ExtraTags are unioned into the detected tag set.
	ExtraTags []string
}

// Features extracts every enabled feature family from chunk text.
func Features(text string, opts Options) domain.ChunkFeatures {
	f := domain.ChunkFeatures{
		Keywords: Keywords(text),
		Numbers:  Numbers(text),
	}
	if opts.Math {
		f.Macros = Macros(text)
		f.Environments = Environments(text)
		f.Symbols = Symbols(text)
	}
	if opts.Tags {
		f.Tags = Tags(text, opts.Preset, opts.ExtraTags)
	}
	return f
}

// Keywords lowercases the text, maps every non-alphanumeric rune to a
// space, splits, and keeps tokens longer than two characters that are
// not stopwords. First-occurrence order is preserved and the result is
// capped at KeywordCap.
func Keywords(text string) []string {
	lowered := strings.ToLower(text)
	mapped := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return ' '
	}, lowered)

	var keywords []string
	seen := make(map[string]struct{})
	for _, tok := range strings.Fields(mapped) {
		if len(tok) <= 2 {
			continue
		}
		if _, stop := stopwords[tok]; stop {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		keywords = append(keywords, tok)
		if len(keywords) >= KeywordCap {
			break
		}
	}
	return keywords
}

// Numbers collects signed and unsigned integer and decimal literals,
// deduplicated in first-occurrence order, capped at NumberCap.
func Numbers(text string) []string {
	matches := numberPattern.FindAllString(text, -1)
	var numbers []string
	seen := make(map[string]struct{})
	for _, m := range matches {
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		numbers = append(numbers, m)
		if len(numbers) >= NumberCap {
			break
		}
	}
	return numbers
}
