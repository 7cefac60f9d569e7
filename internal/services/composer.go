package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/thomas-vilte/matepr/internal/models"
)

const (
	noTicketsComment  = "<!-- No JIRA tickets found -->"
	attributionFooter = "---\n_This description was generated by matepr from the branch diff._"
	screenshotsTable  = "| Before | After |\n|--------|-------|\n|        |       |"
)

// ComposeInput is what goes into a PR description.
type ComposeInput struct {
	Narrative  models.NarrativeBundle
	Changes    *models.ChangeSet
	Tickets    []string
	FigmaLinks []string
}

// Composer assembles PR descriptions into the fixed Markdown layout. It is pure: the same input always yields
// the same string.
type Composer struct {
	jiraBaseURL string
}

func NewComposer(jiraBaseURL string) *Composer {
	return &Composer{jiraBaseURL: strings.TrimRight(jiraBaseURL, "/")}
}

func (c *Composer) Compose(in ComposeInput) string {
	var b strings.Builder

	writeSection(&b, "Description", in.Narrative.DetailedSummary)
	writeSection(&b, "Key Changes", in.Narrative.KeyChanges)
	writeSection(&b, "Motivation & Context", in.Narrative.MotivationContext)
	writeSection(&b, "JIRA Ticket(s)", c.ticketLinks(in.Tickets))

	if len(in.FigmaLinks) > 0 {
		links := make([]string, 0, len(in.FigmaLinks))
		for _, l := range in.FigmaLinks {
			links = append(links, "- "+l)
		}
		writeSection(&b, "Design Links", strings.Join(links, "\n"))
	}

	writeSection(&b, "Screenshots", screenshotsTable)
	writeSection(&b, "Change Analysis", changeAnalysis(in.Changes))
	b.WriteString(attributionFooter)
	b.WriteString("\n")

	return b.String()
}

// StaticBody is the minimal body used when enrichment is unavailable: branch names and an empty analysis.
func (c *Composer) StaticBody(head, base string) string {
	var b strings.Builder

	writeSection(&b, "Description", fmt.Sprintf("Merges `%s` into `%s`.", head, base))
	writeSection(&b, "Change Analysis", changeAnalysis(nil))
	b.WriteString(attributionFooter)
	b.WriteString("\n")

	return b.String()
}

func (c *Composer) ticketLinks(tickets []string) string {
	if len(tickets) == 0 {
		return noTicketsComment
	}
	lines := make([]string, 0, len(tickets))
	for _, t := range tickets {
		if c.jiraBaseURL == "" {
			lines = append(lines, "- "+t)
			continue
		}
		lines = append(lines, fmt.Sprintf("- [%s](%s/browse/%s)", t, c.jiraBaseURL, t))
	}
	return strings.Join(lines, "\n")
}

func writeSection(b *strings.Builder, title, content string) {
	b.WriteString("## ")
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(content)
	b.WriteString("\n\n")
}

func changeAnalysis(changes *models.ChangeSet) string {
	lines := []string{
		fmt.Sprintf("- **New Files Added:** %d", changes.CountByStatus(models.FileAdded)),
		fmt.Sprintf("- **Files Modified:** %d", changes.CountByStatus(models.FileModified)),
		fmt.Sprintf("- **Files Deleted:** %d", changes.CountByStatus(models.FileRemoved)),
		fmt.Sprintf("- **Total Files Changed:** %d", changes.FileCount()),
	}
	if changes.FileCount() > 0 {
		lines = append(lines,
			fmt.Sprintf("- **Lines:** +%d / -%d", changes.Stats.Additions, changes.Stats.Deletions),
			"",
			"**File Types:** "+fileTypeHistogram(changes.Files))
	}
	return strings.Join(lines, "\n")
}

type extensionCount struct {
	label string
	count int
}

// fileTypeHistogram sorts by count descending; ties keep the order extensions were first seen.
func fileTypeHistogram(files []models.FileChange) string {
	index := make(map[string]int)
	counts := make([]extensionCount, 0)
	for _, f := range files {
		label := fileExtension(f.Filename)
		if label == "" {
			label = "other"
		} else {
			label = "." + label
		}
		if i, ok := index[label]; ok {
			counts[i].count++
			continue
		}
		index[label] = len(counts)
		counts = append(counts, extensionCount{label: label, count: 1})
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].count > counts[j].count
	})

	parts := make([]string, 0, len(counts))
	for _, ec := range counts {
		parts = append(parts, fmt.Sprintf("%s (%d)", ec.label, ec.count))
	}
	return strings.Join(parts, ", ")
}
