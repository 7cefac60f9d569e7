package services

import (
	"context"

	"github.com/thomas-vilte/matepr/internal/config"
	domainErrors "github.com/thomas-vilte/matepr/internal/errors"
	"github.com/thomas-vilte/matepr/internal/i18n"
	"github.com/thomas-vilte/matepr/internal/logger"
	"github.com/thomas-vilte/matepr/internal/models"
	"github.com/thomas-vilte/matepr/internal/vcs"
)

type RepositoryService struct {
	vcsClient vcs.VCSClient
	config    *config.Config
	trans     *i18n.Translations
}

func NewRepositoryService(client vcs.VCSClient, cfg *config.Config, trans *i18n.Translations) *RepositoryService {
	if cfg == nil {
		cfg = &config.Config{}
	}
	if trans == nil {
		trans = defaultTranslations(cfg)
	}
	return &RepositoryService{vcsClient: client, config: cfg, trans: trans}
}

// GetRepositoryInfo returns the repository metadata together with every branch.
func (s *RepositoryService) GetRepositoryInfo(ctx context.Context, owner, repo string) (*models.RepositoryInfo, error) {
	if !s.config.GitHub.Enabled() || s.vcsClient == nil {
		return nil, domainErrors.ErrGitHubTokenMissing
	}
	owner, repo, err := resolveRepo(s.config, owner, repo)
	if err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx).With("owner", owner, "repo", repo)

	repository, err := s.vcsClient.GetRepository(ctx, owner, repo)
	if err != nil {
		return nil, err
	}
	branches, err := s.vcsClient.ListBranches(ctx, owner, repo)
	if err != nil {
		return nil, err
	}

	log.Debug("repository info fetched", "branches", len(branches))

	return &models.RepositoryInfo{Repository: *repository, Branches: branches}, nil
}

// CheckConnection returns the login the configured token belongs to.
func (s *RepositoryService) CheckConnection(ctx context.Context) (string, error) {
	if !s.config.GitHub.Enabled() || s.vcsClient == nil {
		return "", domainErrors.ErrGitHubTokenMissing
	}
	return s.vcsClient.GetAuthenticatedUser(ctx)
}

func (s *RepositoryService) FormatRepositoryInfo(info *models.RepositoryInfo) string {
	return formatRepository(s.trans, info)
}

func (s *RepositoryService) FormatConnection(login string) string {
	return s.trans.GetMessage("github_connected", 0, msgData{"Login": login})
}
