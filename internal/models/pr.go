package models

import "time"

type (
	// CreatePullRequestParams is the input of the create-PR operation. A nil IncludeDiffAnalysis means true.
	CreatePullRequestParams struct {
		Owner               string
		Repo                string
		Title               string
		Head                string
		Base                string
		Body                string
		Draft               bool
		IncludeDiffAnalysis *bool
	}

	// NewPullRequest is what is submitted to the source-control host.
	NewPullRequest struct {
		Title string
		Head  string
		Base  string
		Body  string
		Draft bool
	}

	// PullRequest is the source-control host's view of a created PR.
	PullRequest struct {
		Number    int
		Title     string
		URL       string
		State     string
		Draft     bool
		Head      string
		Base      string
		Body      string
		Author    string
		CreatedAt time.Time
	}

	// PullRequestResult is returned to callers; the formatted rendering is produced from the same value.
	PullRequestResult struct {
		Number               int    `json:"number"`
		Title                string `json:"title"`
		URL                  string `json:"url"`
		State                string `json:"state"`
		Draft                bool   `json:"draft"`
		Head                 string `json:"head"`
		Base                 string `json:"base"`
		CreatedAt            string `json:"created_at"`
		Author               string `json:"author"`
		BodyLength           int    `json:"body_length"`
		IncludesDiffAnalysis bool   `json:"includes_diff_analysis"`
	}

	PRSummaryParams struct {
		Owner string
		Repo  string
		Head  string
		Base  string
		Title string
		Body  string
	}

	// PRSummaryResult is the enrichment pipeline output without a PR being created.
	PRSummaryResult struct {
		Title        string    `json:"title,omitempty"`
		Head         string    `json:"head"`
		Base         string    `json:"base"`
		Description  string    `json:"description"`
		Tickets      []string  `json:"tickets"`
		FigmaLinks   []string  `json:"figma_links"`
		FilesChanged int       `json:"files_changed"`
		Stats        DiffStats `json:"stats"`
		AIGenerated  bool      `json:"ai_generated"`
	}
)

// IncludesDiffAnalysis resolves the default of the optional flag.
func (p CreatePullRequestParams) IncludesDiffAnalysis() bool {
	return p.IncludeDiffAnalysis == nil || *p.IncludeDiffAnalysis
}
