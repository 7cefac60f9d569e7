package handler_test

import (
	"context"
	"encoding/json"

	"github.com/thomas-vilte/matepr/internal/models"
	"github.com/thomas-vilte/matepr/internal/tools"
)

type mockToolExecutor struct {
	executeFn func(ctx context.Context, name string, rawArgs json.RawMessage) (tools.Envelope, error)
}

func (m *mockToolExecutor) Catalog() []tools.Tool {
	return tools.Catalog()
}

func (m *mockToolExecutor) Execute(ctx context.Context, name string, rawArgs json.RawMessage) (tools.Envelope, error) {
	if m.executeFn != nil {
		return m.executeFn(ctx, name, rawArgs)
	}
	return tools.Envelope{"success": true}, nil
}

type mockGitHubService struct {
	checkFn func(ctx context.Context) (string, error)
	repoFn  func(ctx context.Context, owner, repo string) (*models.RepositoryInfo, error)
}

func (m *mockGitHubService) CheckConnection(ctx context.Context) (string, error) {
	if m.checkFn != nil {
		return m.checkFn(ctx)
	}
	return "octocat", nil
}

func (m *mockGitHubService) GetRepositoryInfo(ctx context.Context, owner, repo string) (*models.RepositoryInfo, error) {
	if m.repoFn != nil {
		return m.repoFn(ctx, owner, repo)
	}
	return &models.RepositoryInfo{Repository: models.Repository{FullName: owner + "/" + repo}, Branches: []models.Branch{}}, nil
}

func (m *mockGitHubService) FormatConnection(login string) string {
	return "connected as " + login
}

func (m *mockGitHubService) FormatRepositoryInfo(info *models.RepositoryInfo) string {
	return "repo " + info.Repository.FullName
}
