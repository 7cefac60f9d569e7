package tickets

import (
	"fmt"
	"regexp"
	"unicode"
	"unicode/utf8"

	"github.com/thomas-vilte/matepr/internal/regex"
)

// Extractor finds ticket keys in free text. A candidate only counts when it is followed by a separator
// ('_', '-', '/', whitespace) or by the end of the text, so "ABC-123X" is ignored while "ABC-123-fix" is not.
type Extractor struct {
	pattern *regexp.Regexp
	// exact is pattern anchored to the whole input
	exact *regexp.Regexp
}

var defaultExtractor = &Extractor{pattern: regex.TicketRef, exact: regex.TicketID}

// NewExtractor compiles a custom ticket grammar. An empty pattern selects the default one.
func NewExtractor(pattern string) (*Extractor, error) {
	if pattern == "" {
		return defaultExtractor, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid ticket pattern %q: %w", pattern, err)
	}
	return &Extractor{pattern: re, exact: regexp.MustCompile(`^(?:` + pattern + `)$`)}, nil
}

// DefaultExtractor uses the PROJ-123 grammar.
func DefaultExtractor() *Extractor {
	return defaultExtractor
}

// Extract returns the distinct ticket keys of text in order of first appearance. It never returns nil.
func (e *Extractor) Extract(text string) []string {
	return e.ExtractFromAll(text)
}

// ExtractFromAll extracts across several texts, keeping encounter order over the whole input.
func (e *Extractor) ExtractFromAll(texts ...string) []string {
	refs := make([]string, 0)
	seen := make(map[string]struct{})
	for _, text := range texts {
		for _, ref := range e.scan(text) {
			if _, ok := seen[ref]; ok {
				continue
			}
			seen[ref] = struct{}{}
			refs = append(refs, ref)
		}
	}
	return refs
}

func (e *Extractor) scan(text string) []string {
	var found []string
	for offset := 0; offset < len(text); {
		loc := e.pattern.FindStringIndex(text[offset:])
		if loc == nil {
			break
		}
		start, end := offset+loc[0], offset+loc[1]
		if end == start {
			offset = end + 1
			continue
		}
		if end == len(text) || isSeparator(text[end:]) {
			found = append(found, text[start:end])
			offset = end
			continue
		}
		// retry from the next byte so "ABC-12X DEF-3" still yields DEF-3
		offset = start + 1
	}
	return found
}

// isSeparator checks the first rune of rest. Any Unicode space counts, including NBSP and em space.
func isSeparator(rest string) bool {
	r, _ := utf8.DecodeRuneInString(rest)
	switch r {
	case '_', '-', '/':
		return true
	}
	return unicode.IsSpace(r)
}

// ExtractTicketRefs runs the default grammar over text.
func ExtractTicketRefs(text string) []string {
	return defaultExtractor.Extract(text)
}

// IsTicketID reports whether id is exactly one ticket key of this grammar.
func (e *Extractor) IsTicketID(id string) bool {
	return e.exact.MatchString(id)
}

// IsTicketID reports whether id is exactly one ticket key of the default grammar.
func IsTicketID(id string) bool {
	return defaultExtractor.IsTicketID(id)
}
