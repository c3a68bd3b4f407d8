package chunker

import (
	"regexp"
	"strings"
)

// Section is one heading-delimited region of a structured document.
// Path holds the titles of every enclosing heading level, outermost
// first. Offsets are absolute into the parent text, half-open.
type Section struct {
	Path  []string
	Text  string
	Start int
	End   int
}

// Heading markers at four nesting levels. LaTeX sectioning commands
// and markdown hashes are both recognised so mixed exports chunk the
// same way.
var latexHeadings = []*regexp.Regexp{
	regexp.MustCompile(`^\\(?:part)\*?\{(.+?)\}`),
	regexp.MustCompile(`^\\(?:chapter)\*?\{(.+?)\}`),
	regexp.MustCompile(`^\\(?:section)\*?\{(.+?)\}`),
	regexp.MustCompile(`^\\(?:subsection)\*?\{(.+?)\}`),
}

var markdownHeading = regexp.MustCompile(`^(#{1,4})\s+(.*)`)

// headingLevel returns the nesting level (1-4) and title of a heading
// line, or 0 if the line is not a heading marker.
func headingLevel(line string) (int, string) {
	trimmed := strings.TrimLeft(line, " \t")
	for i, re := range latexHeadings {
		if m := re.FindStringSubmatch(trimmed); m != nil {
			return i + 1, strings.TrimSpace(m[1])
		}
	}
	if m := markdownHeading.FindStringSubmatch(trimmed); m != nil {
		return len(m[1]), strings.TrimSpace(m[2])
	}
	return 0, ""
}

// HasHeadings reports whether text contains at least one recognised
// heading marker. Documents with headings are chunked section-wise.
func HasHeadings(text string) bool {
	for _, line := range strings.SplitAfter(text, "\n") {
		if level, _ := headingLevel(line); level > 0 {
			return true
		}
	}
	return false
}

// SplitSections scans text line-by-line and emits one section per
// heading transition. Content before the first heading becomes a
// section with an empty path. Empty input yields no sections.
func SplitSections(text string) []Section {
	if text == "" {
		return nil
	}

	var (
		sections []Section
		titles   [4]string
		path     []string
		secStart int
		offset   int
	)

	flush := func(end int) {
		if end <= secStart {
			return
		}
		body := text[secStart:end]
		if strings.TrimSpace(body) == "" {
			return
		}
		sections = append(sections, Section{
			Path:  append([]string(nil), path...),
			Text:  body,
			Start: secStart,
			End:   end,
		})
	}

	lines := strings.SplitAfter(text, "\n")
	for _, line := range lines {
		if level, title := headingLevel(line); level > 0 {
			flush(offset)
			secStart = offset

			titles[level-1] = title
			for i := level; i < len(titles); i++ {
				titles[i] = ""
			}
			path = path[:0]
			for i := 0; i < level; i++ {
				if titles[i] != "" {
					path = append(path, titles[i])
				}
			}
		}
		offset += len(line)
	}
	flush(len(text))

	return sections
}
