package ai

import (
	"strings"

	"github.com/thomas-vilte/matepr/internal/regex"
)

// CleanOutput strips a surrounding markdown fence and outer whitespace from a model answer.
func CleanOutput(s string) string {
	s = strings.TrimSpace(s)
	if m := regex.MarkdownFence.FindStringSubmatch(s); m != nil {
		s = strings.TrimSpace(m[1])
	}
	return s
}

// NormalizeBullets rewrites every non-empty line as a "- " bullet, whatever list marker the model chose.
func NormalizeBullets(s string) string {
	lines := strings.Split(CleanOutput(s), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = regex.LeadingBullet.ReplaceAllString(line, "")
		out = append(out, "- "+line)
	}
	return strings.Join(out, "\n")
}
