package ai

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// PromptKind selects one of the three narrative instructions.
type PromptKind string

const (
	PromptSummary    PromptKind = "summary"
	PromptKeyChanges PromptKind = "key_changes"
	PromptMotivation PromptKind = "motivation"
)

// PromptKinds is the order in which the fragments are requested.
var PromptKinds = []PromptKind{PromptSummary, PromptKeyChanges, PromptMotivation}

type (
	// PromptData is the shared context block every narrative prompt starts with.
	PromptData struct {
		Head          string
		Base          string
		FilesChanged  int
		Additions     int
		Deletions     int
		Net           int
		Ticket        *TicketPromptData
		OtherTickets  []string
		CustomContext string
		Files         []string
	}

	TicketPromptData struct {
		Key         string
		Summary     string
		Description string
		Status      string
		Priority    string
		Assignee    string
		IssueType   string
		Components  []string
		Labels      []string
		DesignLinks int
		// KeyOnly is set when the ticket could not be fetched and only its key is known.
		KeyOnly bool
	}
)

// RenderPrompt renders a prompt template with the provided data
func RenderPrompt(name, tmplStr string, data interface{}) (string, error) {
	tmpl, err := template.New(name).Funcs(template.FuncMap{"join": strings.Join}).Parse(tmplStr)
	if err != nil {
		return "", fmt.Errorf("error parsing template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("error executing template %s: %w", name, err)
	}

	return buf.String(), nil
}

// NarrativePrompt renders the context block followed by the instruction for kind.
func NarrativePrompt(kind PromptKind, data PromptData) (string, error) {
	instruction, ok := instructions[kind]
	if !ok {
		return "", fmt.Errorf("unknown prompt kind: %s", kind)
	}
	return RenderPrompt(string(kind), contextTemplate+"\n"+instruction, data)
}

const contextTemplate = `You are helping write the description of a GitHub pull request.

# Context
Branch: {{.Head}} -> {{.Base}}
Files changed: {{.FilesChanged}}
Lines: +{{.Additions}} / -{{.Deletions}} (net {{.Net}})
{{- with .Ticket}}
{{- if .KeyOnly}}
Ticket: {{.Key}} (details unavailable)
{{- else}}
Ticket: {{.Key}} - {{.Summary}}
Status: {{.Status}}
{{- if .Priority}}
Priority: {{.Priority}}
{{- end}}
{{- if .IssueType}}
Type: {{.IssueType}}
{{- end}}
Assignee: {{.Assignee}}
{{- if .Components}}
Components: {{join .Components ", "}}
{{- end}}
{{- if .Labels}}
Labels: {{join .Labels ", "}}
{{- end}}
{{- if .DesignLinks}}
Design links attached: {{.DesignLinks}}
{{- end}}
{{- if .Description}}
Ticket description:
{{.Description}}
{{- end}}
{{- end}}
{{- end}}
{{- if .OtherTickets}}
Other referenced tickets: {{join .OtherTickets ", "}}
{{- end}}
{{- if .CustomContext}}

Notes from the author:
{{.CustomContext}}
{{- end}}

Changed files:
{{- range .Files}}
- {{.}}
{{- end}}
`

var instructions = map[PromptKind]string{
	PromptSummary: `# Task
Write a 2-3 sentence description of what this pull request changes.
Use only the information above. Do not invent features, files, tickets or behavior that are not listed.
Answer with plain prose only, no headings and no markdown fences.`,

	PromptKeyChanges: `# Task
Write 4-6 bullet points with the key changes of this pull request, grouped logically and written for a business reader.
Do not mention file names or line numbers.
Use only the information above. Do not invent anything that is not listed.
Answer with one "- " bullet per line and nothing else.`,

	PromptMotivation: `# Task
Write 2-3 sentences explaining the motivation for this change and its impact.
Use only the information above. Do not invent anything that is not listed.
If the motivation is not stated, describe only what the listed changes do for the project.
Answer with plain prose only, no headings and no markdown fences.`,
}
