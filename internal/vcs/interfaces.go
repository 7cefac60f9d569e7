package vcs

import (
	"context"

	"github.com/thomas-vilte/matepr/internal/models"
)

// VCSClient is the source-control host as seen by the services. Owner and repository are passed per call
// because a single process serves many repositories.
type VCSClient interface {
	// CompareBranches returns the files that differ between base and head (base...head).
	CompareBranches(ctx context.Context, owner, repo, head, base string) (*models.ChangeSet, error)
	// CreatePullRequest opens a pull request.
	CreatePullRequest(ctx context.Context, owner, repo string, pr models.NewPullRequest) (*models.PullRequest, error)
	GetRepository(ctx context.Context, owner, repo string) (*models.Repository, error)
	ListBranches(ctx context.Context, owner, repo string) ([]models.Branch, error)
	// GetAuthenticatedUser returns the login the token belongs to.
	GetAuthenticatedUser(ctx context.Context) (string, error)
}
