package extract

import (
	"regexp"
	"strings"
)

// ThemeTerms are the canonical thematic tags, in detector order. The
// relevance scorer boosts queries that mention any of them directly.
var ThemeTerms = []string{
	"mechanics",
	"waves",
	"thermodynamics",
	"electromagnetism",
	"quantum",
	"relativity",
	"probability",
	"geometry",
	"calculus",
}

// tagDetector maps a content pattern to one canonical tag. Detectors
// run in order against the lowercased text.
type tagDetector struct {
	tag     string
	pattern *regexp.Regexp
}

var tagDetectors = []tagDetector{
	{"mechanics", regexp.MustCompile(`\b(newton|momentum|inertia|force|torque|kinematic)`)},
	{"waves", regexp.MustCompile(`\b(wave|frequency|amplitude|oscillat|resonan|harmonic)`)},
	{"thermodynamics", regexp.MustCompile(`\b(entropy|enthalpy|thermal|heat engine|boltzmann|temperature)`)},
	{"electromagnetism", regexp.MustCompile(`\b(maxwell|electric|magnetic|coulomb|faraday|induct)`)},
	{"quantum", regexp.MustCompile(`\b(quantum|wavefunction|eigenstate|hamiltonian|schr(o|ö)dinger|spin)`)},
	{"relativity", regexp.MustCompile(`\b(relativit|lorentz|spacetime|minkowski|geodesic)`)},
	{"probability", regexp.MustCompile(`\b(probabilit|stochastic|random variable|distribution|bayes|variance)`)},
	{"geometry", regexp.MustCompile(`\b(manifold|curvature|tensor|metric|topolog|euclidean)`)},
	{"calculus", regexp.MustCompile(`\b(derivative|integral|differential|gradient|laplacian|converge)`)},
}

// tagPresets force-include a fixed bundle regardless of content.
var tagPresets = map[string][]string{
	"classical":   {"mechanics", "waves", "thermodynamics"},
	"modern":      {"quantum", "relativity"},
	"mathematics": {"probability", "geometry", "calculus"},
}

// Tags applies the ordered detector list to the lowercased text,
// force-includes the preset bundle, unions in extra tags, and caps the
// result at TagCap. First-occurrence order is preserved: preset first,
// then detections, then extras.
func Tags(text, preset string, extra []string) []string {
	var tags []string
	seen := make(map[string]struct{})

	add := func(tag string) {
		if tag == "" || len(tags) >= TagCap {
			return
		}
		if _, dup := seen[tag]; dup {
			return
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	for _, tag := range tagPresets[preset] {
		add(tag)
	}

	lowered := strings.ToLower(text)
	for _, d := range tagDetectors {
		if d.pattern.MatchString(lowered) {
			add(d.tag)
		}
	}

	for _, tag := range extra {
		add(strings.ToLower(strings.TrimSpace(tag)))
	}

	return tags
}
