package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/thomas-vilte/matepr/internal/config"
	domainErrors "github.com/thomas-vilte/matepr/internal/errors"
	"github.com/thomas-vilte/matepr/internal/httpclient"
	"github.com/thomas-vilte/matepr/internal/logger"
	"github.com/thomas-vilte/matepr/internal/models"
	"github.com/thomas-vilte/matepr/internal/regex"
)

const (
	serviceName        = "jira"
	unassignedAssignee = "Unassigned"
)

// JiraService reads issues through the JIRA REST API v2.
type JiraService struct {
	baseURL     string
	token       string
	client      httpclient.HTTPClient
	designLinks *regexp.Regexp
}

func NewJiraService(cfg *config.Config, client httpclient.HTTPClient) *JiraService {
	designLinks := regex.FigmaLink
	if cfg.Pipeline.DesignLinkPattern != "" {
		if re, err := regexp.Compile(cfg.Pipeline.DesignLinkPattern); err == nil {
			designLinks = re
		}
	}

	return &JiraService{
		baseURL:     strings.TrimRight(cfg.Jira.BaseURL, "/"),
		token:       cfg.Jira.Token,
		client:      client,
		designLinks: designLinks,
	}
}

type (
	issueResponse struct {
		Key    string       `json:"key"`
		Fields *issueFields `json:"fields"`
	}

	issueFields struct {
		Summary     string          `json:"summary"`
		Description json.RawMessage `json:"description"`
		Status      *namedField     `json:"status"`
		Priority    *namedField     `json:"priority"`
		IssueType   *namedField     `json:"issuetype"`
		Assignee    *userField      `json:"assignee"`
		Reporter    *userField      `json:"reporter"`
		Created     string          `json:"created"`
		Updated     string          `json:"updated"`
		Labels      []string        `json:"labels"`
		Components  []namedField    `json:"components"`
		FixVersions []namedField    `json:"fixVersions"`
	}

	namedField struct {
		Name string `json:"name"`
	}

	userField struct {
		DisplayName string `json:"displayName"`
	}

	errorResponse struct {
		ErrorMessages []string          `json:"errorMessages"`
		Errors        map[string]string `json:"errors"`
	}

	// AtlassianDoc is the rich-text description format of JIRA Cloud.
	AtlassianDoc struct {
		Type    string       `json:"type"`
		Version int          `json:"version"`
		Content []DocContent `json:"content"`
	}

	DocContent struct {
		Type    string         `json:"type"`
		Text    string         `json:"text,omitempty"`
		Attrs   map[string]any `json:"attrs,omitempty"`
		Content []DocContent   `json:"content,omitempty"`
	}
)

// Configured reports whether a JIRA base URL is set.
func (s *JiraService) Configured() bool {
	return s.baseURL != ""
}

// BrowseURL is the human link of a ticket.
func (s *JiraService) BrowseURL(key string) string {
	return fmt.Sprintf("%s/browse/%s", s.baseURL, key)
}

// FetchTicket returns the normalized ticket or the reason it could not be read.
func (s *JiraService) FetchTicket(ctx context.Context, ticketID string) (*models.TicketDetail, error) {
	if !s.Configured() {
		return nil, domainErrors.ErrJiraNotConfigured
	}

	issue, err := s.fetchIssue(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	return s.normalize(ticketID, issue), nil
}

// GetTicketDetails never fails. When the ticket cannot be read the lookup carries a placeholder and the reason.
func (s *JiraService) GetTicketDetails(ctx context.Context, ticketID string) models.TicketLookup {
	log := logger.FromContext(ctx).With("ticket", ticketID)

	ticket, err := s.FetchTicket(ctx, ticketID)
	if err != nil {
		log.Warn("ticket lookup degraded to placeholder", "error", err)
		return models.TicketLookup{
			Success: false,
			Ticket:  models.PlaceholderTicket(ticketID, s.BrowseURL(ticketID)),
			Error:   err.Error(),
		}
	}

	log.Debug("ticket fetched", "status", ticket.Status, "figma_links", len(ticket.FigmaLinks))
	return models.TicketLookup{Success: true, Ticket: *ticket}
}

func (s *JiraService) fetchIssue(ctx context.Context, ticketID string) (*issueResponse, error) {
	endpoint := fmt.Sprintf("%s/rest/api/2/issue/%s", s.baseURL, url.PathEscape(ticketID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, domainErrors.ErrTicketFetch.WithError(err).WithContext("ticket", ticketID)
	}
	req.Header.Set("Accept", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, domainErrors.ErrTicketFetch.WithError(err).WithContext("ticket", ticketID)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domainErrors.ErrTicketFetch.WithError(err).WithContext("ticket", ticketID)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, domainErrors.NewUpstreamAPIError(serviceName, "get issue", resp.StatusCode, upstreamMessage(body), nil)
	}

	var issue issueResponse
	if err := json.Unmarshal(body, &issue); err != nil {
		return nil, domainErrors.ErrTicketMalformed.WithError(err).WithContext("ticket", ticketID)
	}
	if issue.Fields == nil {
		return nil, domainErrors.ErrTicketMalformed.WithContext("ticket", ticketID)
	}
	return &issue, nil
}

func (s *JiraService) normalize(ticketID string, issue *issueResponse) *models.TicketDetail {
	f := issue.Fields
	key := issue.Key
	if key == "" {
		key = ticketID
	}

	description := parseDescription(f.Description)

	ticket := &models.TicketDetail{
		Key:         key,
		Summary:     f.Summary,
		Description: description,
		Status:      nameOf(f.Status),
		Priority:    nameOf(f.Priority),
		IssueType:   nameOf(f.IssueType),
		Assignee:    unassignedAssignee,
		Reporter:    displayName(f.Reporter),
		Created:     f.Created,
		Updated:     f.Updated,
		Labels:      nonNil(f.Labels),
		Components:  names(f.Components),
		FixVersions: names(f.FixVersions),
		FigmaLinks:  s.designLinks.FindAllString(f.Summary+"\n"+description, -1),
		URL:         s.BrowseURL(key),
	}
	if f.Assignee != nil && f.Assignee.DisplayName != "" {
		ticket.Assignee = f.Assignee.DisplayName
	}
	if ticket.FigmaLinks == nil {
		ticket.FigmaLinks = []string{}
	}
	return ticket
}

// parseDescription accepts both the v2 plain string and an Atlassian document.
func parseDescription(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}

	var doc AtlassianDoc
	if err := json.Unmarshal(raw, &doc); err == nil {
		return parseAtlassianDoc(doc.Content)
	}
	return ""
}

func parseAtlassianDoc(content []DocContent) string {
	var result strings.Builder
	parseAtlassianDocRecursive(content, &result)
	return strings.TrimSpace(result.String())
}

func parseAtlassianDocRecursive(content []DocContent, result *strings.Builder) {
	for _, item := range content {
		switch item.Type {
		case "text":
			result.WriteString(item.Text)
		case "hardBreak":
			result.WriteString("\n")
		case "inlineCard", "blockCard", "embedCard":
			if u, ok := item.Attrs["url"].(string); ok {
				result.WriteString(u)
			}
		case "paragraph", "heading", "codeBlock", "blockquote":
			parseAtlassianDocRecursive(item.Content, result)
			if len(item.Content) > 0 {
				result.WriteString("\n")
			}
		case "listItem":
			result.WriteString("- ")
			parseAtlassianDocRecursive(item.Content, result)
		default:
			parseAtlassianDocRecursive(item.Content, result)
		}
	}
}

func upstreamMessage(body []byte) string {
	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		return strings.TrimSpace(string(body))
	}
	msgs := append([]string{}, errResp.ErrorMessages...)
	fields := make([]string, 0, len(errResp.Errors))
	for field := range errResp.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		msgs = append(msgs, field+": "+errResp.Errors[field])
	}
	return strings.Join(msgs, "; ")
}

func nameOf(f *namedField) string {
	if f == nil {
		return ""
	}
	return f.Name
}

func displayName(u *userField) string {
	if u == nil {
		return ""
	}
	return u.DisplayName
}

func names(fields []namedField) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.Name)
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
