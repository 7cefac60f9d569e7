package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/thomas-vilte/matepr/internal/config"
	domainErrors "github.com/thomas-vilte/matepr/internal/errors"
	"github.com/thomas-vilte/matepr/internal/logger"
	"github.com/thomas-vilte/matepr/internal/models"
	"github.com/thomas-vilte/matepr/internal/vcs"
	"github.com/thomas-vilte/matepr/internal/version"
)

var _ vcs.VCSClient = (*GitHubClient)(nil)

const (
	serviceName    = "github"
	branchPageSize = 100
	// tokenType makes oauth2 send "Authorization: token <T>".
	tokenType = "token"
)

type PullRequestsService interface {
	Create(ctx context.Context, owner, repo string, pull *github.NewPullRequest) (*github.PullRequest, *github.Response, error)
}

type RepositoriesService interface {
	Get(ctx context.Context, owner, repo string) (*github.Repository, *github.Response, error)
	CompareCommits(ctx context.Context, owner, repo, base, head string, opts *github.ListOptions) (*github.CommitsComparison, *github.Response, error)
	ListBranches(ctx context.Context, owner, repo string, opts *github.BranchListOptions) ([]*github.Branch, *github.Response, error)
}

type UsersService interface {
	Get(ctx context.Context, user string) (*github.User, *github.Response, error)
}

type GitHubClient struct {
	prService    PullRequestsService
	repoService  RepositoriesService
	usersService UsersService
}

// NewGitHubClient builds a client authenticated with the configured token against the configured API base.
func NewGitHubClient(cfg config.GitHubConfig, timeout time.Duration) (*GitHubClient, error) {
	base := &http.Client{Timeout: timeout}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token, TokenType: tokenType})
	httpClient := oauth2.NewClient(ctx, ts)
	httpClient.Timeout = timeout

	client := github.NewClient(httpClient)
	client.UserAgent = "matepr/" + version.Version

	if cfg.APIURL != "" {
		apiURL := cfg.APIURL
		if !strings.HasSuffix(apiURL, "/") {
			apiURL += "/"
		}
		u, err := url.Parse(apiURL)
		if err != nil {
			return nil, domainErrors.NewAppError(domainErrors.TypeConfiguration, "invalid GitHub API URL", err).
				WithContext("api_url", cfg.APIURL)
		}
		client.BaseURL = u
	}

	return NewGitHubClientWithServices(client.PullRequests, client.Repositories, client.Users), nil
}

func NewGitHubClientWithServices(prService PullRequestsService, repoService RepositoriesService, usersService UsersService) *GitHubClient {
	return &GitHubClient{
		prService:    prService,
		repoService:  repoService,
		usersService: usersService,
	}
}

func (ghc *GitHubClient) CompareBranches(ctx context.Context, owner, repo, head, base string) (*models.ChangeSet, error) {
	log := logger.FromContext(ctx)

	comparison, resp, err := ghc.repoService.CompareCommits(ctx, owner, repo, base, head, nil)
	if err != nil {
		return nil, wrapError("compare branches", resp, err)
	}

	files := make([]models.FileChange, 0, len(comparison.Files))
	for _, f := range comparison.Files {
		files = append(files, models.FileChange{
			Filename:         f.GetFilename(),
			Status:           normalizeStatus(f.GetStatus()),
			Additions:        f.GetAdditions(),
			Deletions:        f.GetDeletions(),
			PreviousFilename: f.GetPreviousFilename(),
		})
	}

	changes := models.NewChangeSet(files)
	log.Debug("branches compared",
		"head", head,
		"base", base,
		"files", len(changes.Files),
		"additions", changes.Stats.Additions,
		"deletions", changes.Stats.Deletions)

	return changes, nil
}

func (ghc *GitHubClient) CreatePullRequest(ctx context.Context, owner, repo string, pr models.NewPullRequest) (*models.PullRequest, error) {
	created, resp, err := ghc.prService.Create(ctx, owner, repo, &github.NewPullRequest{
		Title: github.Ptr(pr.Title),
		Head:  github.Ptr(pr.Head),
		Base:  github.Ptr(pr.Base),
		Body:  github.Ptr(pr.Body),
		Draft: github.Ptr(pr.Draft),
	})
	if err != nil {
		return nil, wrapError("create pull request", resp, err)
	}

	return &models.PullRequest{
		Number:    created.GetNumber(),
		Title:     created.GetTitle(),
		URL:       created.GetHTMLURL(),
		State:     created.GetState(),
		Draft:     created.GetDraft(),
		Head:      created.GetHead().GetRef(),
		Base:      created.GetBase().GetRef(),
		Body:      created.GetBody(),
		Author:    created.GetUser().GetLogin(),
		CreatedAt: created.GetCreatedAt().Time,
	}, nil
}

func (ghc *GitHubClient) GetRepository(ctx context.Context, owner, repo string) (*models.Repository, error) {
	r, resp, err := ghc.repoService.Get(ctx, owner, repo)
	if err != nil {
		return nil, wrapError("get repository", resp, err)
	}

	repository := &models.Repository{
		FullName:      r.GetFullName(),
		Name:          r.GetName(),
		Owner:         r.GetOwner().GetLogin(),
		Description:   r.GetDescription(),
		URL:           r.GetHTMLURL(),
		DefaultBranch: r.GetDefaultBranch(),
		Language:      r.GetLanguage(),
		Visibility:    r.GetVisibility(),
		Private:       r.GetPrivate(),
		Stars:         r.GetStargazersCount(),
		Forks:         r.GetForksCount(),
		OpenIssues:    r.GetOpenIssuesCount(),
	}
	if !r.GetUpdatedAt().IsZero() {
		repository.UpdatedAt = r.GetUpdatedAt().Format(time.RFC3339)
	}
	return repository, nil
}

// ListBranches walks every page of branches.
func (ghc *GitHubClient) ListBranches(ctx context.Context, owner, repo string) ([]models.Branch, error) {
	opts := &github.BranchListOptions{ListOptions: github.ListOptions{PerPage: branchPageSize}}
	branches := make([]models.Branch, 0)

	for {
		page, resp, err := ghc.repoService.ListBranches(ctx, owner, repo, opts)
		if err != nil {
			return nil, wrapError("list branches", resp, err)
		}
		for _, b := range page {
			branches = append(branches, models.Branch{
				Name:      b.GetName(),
				SHA:       b.GetCommit().GetSHA(),
				Protected: b.GetProtected(),
			})
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return branches, nil
}

func (ghc *GitHubClient) GetAuthenticatedUser(ctx context.Context) (string, error) {
	user, resp, err := ghc.usersService.Get(ctx, "")
	if err != nil {
		return "", wrapError("get authenticated user", resp, err)
	}

	if user.GetLogin() == "" {
		return "", fmt.Errorf("authenticated user has no login")
	}

	return user.GetLogin(), nil
}

// normalizeStatus folds GitHub's file statuses into the four the pipeline knows.
func normalizeStatus(status string) models.FileStatus {
	switch status {
	case "added", "copied":
		return models.FileAdded
	case "removed":
		return models.FileRemoved
	case "renamed":
		return models.FileRenamed
	default:
		return models.FileModified
	}
}

// wrapError turns an API answer into an UpstreamAPIError. Failures without a status (DNS, TLS, timeouts) stay
// VCS errors.
func wrapError(operation string, resp *github.Response, err error) error {
	status := 0
	if resp != nil && resp.Response != nil {
		status = resp.StatusCode
	}

	message := ""
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) {
		message = ghErr.Message
		for _, e := range ghErr.Errors {
			if e.Message != "" {
				message += ": " + e.Message
			}
		}
		if ghErr.Response != nil {
			status = ghErr.Response.StatusCode
		}
	}

	if status == 0 {
		return domainErrors.NewAppError(domainErrors.TypeVCS, "GitHub request failed", err).
			WithContext("operation", operation)
	}
	return domainErrors.NewUpstreamAPIError(serviceName, operation, status, message, err)
}
