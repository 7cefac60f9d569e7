package tools

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/thomas-vilte/matepr/internal/models"
)

type (
	mockPRService struct {
		mock.Mock
	}
	mockRepoService struct {
		mock.Mock
	}
	mockTicketService struct {
		mock.Mock
	}
)

func (m *mockPRService) CreatePullRequest(ctx context.Context, params models.CreatePullRequestParams) (*models.PullRequestResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PullRequestResult), args.Error(1)
}

func (m *mockPRService) GeneratePRSummary(ctx context.Context, params models.PRSummaryParams) (*models.PRSummaryResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PRSummaryResult), args.Error(1)
}

func (m *mockPRService) FormatPullRequest(result *models.PullRequestResult) string {
	return "formatted pr"
}

func (m *mockPRService) FormatSummary(result *models.PRSummaryResult) string {
	return "formatted summary"
}

func (m *mockRepoService) GetRepositoryInfo(ctx context.Context, owner, repo string) (*models.RepositoryInfo, error) {
	args := m.Called(ctx, owner, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RepositoryInfo), args.Error(1)
}

func (m *mockRepoService) FormatRepositoryInfo(info *models.RepositoryInfo) string {
	return "formatted repo"
}

func (m *mockTicketService) GetTicketDetails(ctx context.Context, ticketID string) (*models.TicketLookup, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TicketLookup), args.Error(1)
}

func (m *mockTicketService) FormatTicket(lookup *models.TicketLookup) string {
	return "formatted ticket"
}
