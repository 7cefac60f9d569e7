package github

import (
	"context"

	"github.com/google/go-github/v80/github"
	"github.com/stretchr/testify/mock"
)

type MockPRService struct {
	mock.Mock
}

func (m *MockPRService) Create(ctx context.Context, owner, repo string, pull *github.NewPullRequest) (*github.PullRequest, *github.Response, error) {
	args := m.Called(ctx, owner, repo, pull)
	pr, _ := args.Get(0).(*github.PullRequest)
	resp, _ := args.Get(1).(*github.Response)
	return pr, resp, args.Error(2)
}

type MockRepoService struct {
	mock.Mock
}

func (m *MockRepoService) Get(ctx context.Context, owner, repo string) (*github.Repository, *github.Response, error) {
	args := m.Called(ctx, owner, repo)
	r, _ := args.Get(0).(*github.Repository)
	resp, _ := args.Get(1).(*github.Response)
	return r, resp, args.Error(2)
}

func (m *MockRepoService) CompareCommits(ctx context.Context, owner, repo, base, head string, opts *github.ListOptions) (*github.CommitsComparison, *github.Response, error) {
	args := m.Called(ctx, owner, repo, base, head, opts)
	cmp, _ := args.Get(0).(*github.CommitsComparison)
	resp, _ := args.Get(1).(*github.Response)
	return cmp, resp, args.Error(2)
}

func (m *MockRepoService) ListBranches(ctx context.Context, owner, repo string, opts *github.BranchListOptions) ([]*github.Branch, *github.Response, error) {
	args := m.Called(ctx, owner, repo, opts)
	branches, _ := args.Get(0).([]*github.Branch)
	resp, _ := args.Get(1).(*github.Response)
	return branches, resp, args.Error(2)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Get(ctx context.Context, user string) (*github.User, *github.Response, error) {
	args := m.Called(ctx, user)
	u, _ := args.Get(0).(*github.User)
	resp, _ := args.Get(1).(*github.Response)
	return u, resp, args.Error(2)
}
