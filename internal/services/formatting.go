package services

import (
	"strings"

	"github.com/thomas-vilte/matepr/internal/config"
	"github.com/thomas-vilte/matepr/internal/i18n"
	"github.com/thomas-vilte/matepr/internal/models"
)

// defaultTranslations falls back to English when the configured language cannot be loaded.
func defaultTranslations(cfg *config.Config) *i18n.Translations {
	lang := cfg.Language
	if lang == "" {
		lang = "en"
	}
	if t, err := i18n.NewTranslations(lang); err == nil {
		return t
	}
	t, _ := i18n.NewTranslations("en")
	return t
}

type msgData = map[string]interface{}

func formatPullRequest(t *i18n.Translations, r *models.PullRequestResult) string {
	lines := []string{
		t.GetMessage("pr_created", 0, msgData{"Number": r.Number}),
		"",
		t.GetMessage("pr_field_title", 0, msgData{"Title": r.Title}),
		t.GetMessage("pr_field_url", 0, msgData{"URL": r.URL}),
		t.GetMessage("pr_field_branches", 0, msgData{"Head": r.Head, "Base": r.Base}),
	}

	if r.Draft {
		lines = append(lines, t.GetMessage("pr_field_state_draft", 0, msgData{"State": r.State}))
	} else {
		lines = append(lines, t.GetMessage("pr_field_state", 0, msgData{"State": r.State}))
	}
	if r.Author != "" {
		lines = append(lines, t.GetMessage("pr_field_author", 0, msgData{"Author": r.Author}))
	}
	if r.CreatedAt != "" {
		lines = append(lines, t.GetMessage("pr_field_created_at", 0, msgData{"CreatedAt": r.CreatedAt}))
	}

	if r.IncludesDiffAnalysis {
		lines = append(lines, t.GetMessage("pr_body_enriched", 0, msgData{"Length": r.BodyLength}))
	} else {
		lines = append(lines, t.GetMessage("pr_body_static", 0, msgData{"Length": r.BodyLength}))
	}

	return strings.Join(lines, "\n")
}

func formatSummary(t *i18n.Translations, r *models.PRSummaryResult) string {
	lines := []string{
		t.GetMessage("summary_header", 0, msgData{"Head": r.Head, "Base": r.Base}),
		t.GetMessage("summary_stats", r.FilesChanged, msgData{
			"Count":     r.FilesChanged,
			"Additions": r.Stats.Additions,
			"Deletions": r.Stats.Deletions,
		}),
	}

	if len(r.Tickets) > 0 {
		lines = append(lines, t.GetMessage("summary_tickets", 0, msgData{"Tickets": strings.Join(r.Tickets, ", ")}))
	} else {
		lines = append(lines, t.GetMessage("summary_no_tickets", 0, nil))
	}

	if r.AIGenerated {
		lines = append(lines, t.GetMessage("summary_ai", 0, nil))
	} else {
		lines = append(lines, t.GetMessage("summary_static", 0, nil))
	}

	lines = append(lines, "", r.Description)
	return strings.Join(lines, "\n")
}

func formatRepository(t *i18n.Translations, info *models.RepositoryInfo) string {
	repo := info.Repository
	lines := []string{t.GetMessage("repo_header", 0, msgData{"FullName": repo.FullName})}

	if repo.Description != "" {
		lines = append(lines, t.GetMessage("repo_field_description", 0, msgData{"Description": repo.Description}))
	}
	lines = append(lines, t.GetMessage("repo_field_default_branch", 0, msgData{"Branch": repo.DefaultBranch}))
	if repo.Language != "" {
		lines = append(lines, t.GetMessage("repo_field_language", 0, msgData{"Language": repo.Language}))
	}
	lines = append(lines,
		t.GetMessage("repo_field_visibility", 0, msgData{"Visibility": repo.Visibility}),
		t.GetMessage("repo_field_stats", 0, msgData{
			"Stars":      repo.Stars,
			"Forks":      repo.Forks,
			"OpenIssues": repo.OpenIssues,
		}),
		"",
		t.GetMessage("repo_branches", len(info.Branches), msgData{"Count": len(info.Branches)}),
	)

	for _, b := range info.Branches {
		name := b.Name
		if b.Protected {
			name = t.GetMessage("repo_branch_protected", 0, msgData{"Name": b.Name})
		}
		lines = append(lines, "- "+name)
	}

	return strings.Join(lines, "\n")
}

func formatTicket(t *i18n.Translations, lookup models.TicketLookup) string {
	ticket := lookup.Ticket
	lines := []string{t.GetMessage("ticket_header", 0, msgData{"Key": ticket.Key, "Summary": ticket.Summary})}

	if !lookup.Success {
		lines = append(lines, t.GetMessage("ticket_unavailable", 0, msgData{"Error": lookup.Error}))
		if ticket.URL != "" {
			lines = append(lines, t.GetMessage("ticket_field_url", 0, msgData{"URL": ticket.URL}))
		}
		return strings.Join(lines, "\n")
	}

	lines = append(lines, t.GetMessage("ticket_field_status", 0, msgData{"Status": ticket.Status}))
	if ticket.Priority != "" {
		lines = append(lines, t.GetMessage("ticket_field_priority", 0, msgData{"Priority": ticket.Priority}))
	}
	if ticket.IssueType != "" {
		lines = append(lines, t.GetMessage("ticket_field_type", 0, msgData{"Type": ticket.IssueType}))
	}
	lines = append(lines, t.GetMessage("ticket_field_assignee", 0, msgData{"Assignee": ticket.Assignee}))
	if ticket.Reporter != "" {
		lines = append(lines, t.GetMessage("ticket_field_reporter", 0, msgData{"Reporter": ticket.Reporter}))
	}
	if len(ticket.Labels) > 0 {
		lines = append(lines, t.GetMessage("ticket_field_labels", 0, msgData{"Labels": strings.Join(ticket.Labels, ", ")}))
	}
	if ticket.URL != "" {
		lines = append(lines, t.GetMessage("ticket_field_url", 0, msgData{"URL": ticket.URL}))
	}

	lines = append(lines, "")
	if len(ticket.FigmaLinks) == 0 {
		lines = append(lines, t.GetMessage("ticket_no_figma", 0, nil))
	} else {
		lines = append(lines, t.GetMessage("ticket_figma_links", len(ticket.FigmaLinks), msgData{"Count": len(ticket.FigmaLinks)}))
		for _, l := range ticket.FigmaLinks {
			lines = append(lines, "- "+l)
		}
	}

	return strings.Join(lines, "\n")
}
