package dto

import (
	"time"

	"github.com/thomas-vilte/matepr/internal/models"
	"github.com/thomas-vilte/matepr/internal/tools"
)

type (
	CreatePRRequest struct {
		Owner string `json:"owner"`
		Repo  string `json:"repo"`
		Title string `json:"title" binding:"required"`
		Head  string `json:"head" binding:"required"`
		Base  string `json:"base" binding:"required"`
		Body  string `json:"body"`
		Draft bool   `json:"draft"`
	}

	TestGitHubRequest struct {
		Owner string `json:"owner"`
		Repo  string `json:"repo"`
	}

	TestGitHubResponse struct {
		Success           bool                   `json:"success"`
		User              string                 `json:"user"`
		Repository        *models.RepositoryInfo `json:"repository,omitempty"`
		FormattedResponse string                 `json:"formatted_response"`
	}

	HealthResponse struct {
		Status    string    `json:"status"`
		Timestamp time.Time `json:"timestamp"`
	}

	InfoResponse struct {
		Name         string          `json:"name"`
		Version      string          `json:"version"`
		Endpoints    []string        `json:"endpoints"`
		Tools        []string        `json:"tools"`
		Integrations map[string]bool `json:"integrations"`
	}

	ToolsResponse struct {
		Tools []tools.Tool `json:"tools"`
	}

	ErrorResponse struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
)

// ToolArgs is the create_pull_request input for a REST request. The REST surface always asks for diff analysis.
func (r CreatePRRequest) ToolArgs() tools.CreatePullRequestArgs {
	include := true
	return tools.CreatePullRequestArgs{
		Owner:               r.Owner,
		Repo:                r.Repo,
		Title:               r.Title,
		Head:                r.Head,
		Base:                r.Base,
		Body:                r.Body,
		Draft:               r.Draft,
		IncludeDiffAnalysis: &include,
	}
}
