package models

import "fmt"

const TicketStatusUnknown = "Unknown"

// TicketDetail is the normalized issue tracker record used by the PR pipeline.
type TicketDetail struct {
	Key         string   `json:"key"`
	Summary     string   `json:"summary"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Priority    string   `json:"priority"`
	Assignee    string   `json:"assignee"`
	Reporter    string   `json:"reporter"`
	IssueType   string   `json:"issueType"`
	Created     string   `json:"created"`
	Updated     string   `json:"updated"`
	Labels      []string `json:"labels"`
	Components  []string `json:"components"`
	FixVersions []string `json:"fixVersions"`
	FigmaLinks  []string `json:"figmaLinks"`
	URL         string   `json:"url"`
}

// TicketLookup is the degraded-but-usable answer of a ticket fetch. When Success is false only Key and URL of
// Ticket can be trusted.
type TicketLookup struct {
	Success bool         `json:"success"`
	Ticket  TicketDetail `json:"ticket"`
	Error   string       `json:"error,omitempty"`
}

// PlaceholderTicket is substituted when a ticket cannot be fetched.
func PlaceholderTicket(key, browseURL string) TicketDetail {
	return TicketDetail{
		Key:         key,
		Summary:     fmt.Sprintf("Ticket %s (details unavailable)", key),
		Status:      TicketStatusUnknown,
		Labels:      []string{},
		Components:  []string{},
		FixVersions: []string{},
		FigmaLinks:  []string{},
		URL:         browseURL,
	}
}
