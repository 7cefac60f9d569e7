package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/thomas-vilte/matepr/internal/models"
)

type (
	MockVCSClient struct {
		mock.Mock
	}

	MockTextGenerator struct {
		mock.Mock
	}

	MockTicketProvider struct {
		mock.Mock
	}

	MockNarrativeGenerator struct {
		mock.Mock
	}
)

func (m *MockVCSClient) CompareBranches(ctx context.Context, owner, repo, head, base string) (*models.ChangeSet, error) {
	args := m.Called(ctx, owner, repo, head, base)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChangeSet), args.Error(1)
}

func (m *MockVCSClient) CreatePullRequest(ctx context.Context, owner, repo string, pr models.NewPullRequest) (*models.PullRequest, error) {
	args := m.Called(ctx, owner, repo, pr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PullRequest), args.Error(1)
}

func (m *MockVCSClient) GetRepository(ctx context.Context, owner, repo string) (*models.Repository, error) {
	args := m.Called(ctx, owner, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Repository), args.Error(1)
}

func (m *MockVCSClient) ListBranches(ctx context.Context, owner, repo string) ([]models.Branch, error) {
	args := m.Called(ctx, owner, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Branch), args.Error(1)
}

func (m *MockVCSClient) GetAuthenticatedUser(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockTextGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockTextGenerator) Name() string {
	return "mock"
}

func (m *MockTextGenerator) Model() string {
	return "mock-model"
}

func (m *MockTicketProvider) GetTicketDetails(ctx context.Context, ticketID string) models.TicketLookup {
	args := m.Called(ctx, ticketID)
	return args.Get(0).(models.TicketLookup)
}

func (m *MockNarrativeGenerator) GenerateOrFallback(ctx context.Context, in NarrativeInput) models.NarrativeResult {
	args := m.Called(ctx, in)
	return args.Get(0).(models.NarrativeResult)
}
