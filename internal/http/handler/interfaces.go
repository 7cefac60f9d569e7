package handler

import (
	"context"
	"encoding/json"

	"github.com/thomas-vilte/matepr/internal/models"
	"github.com/thomas-vilte/matepr/internal/tools"
)

type (
	ToolExecutor interface {
		Catalog() []tools.Tool
		Execute(ctx context.Context, name string, rawArgs json.RawMessage) (tools.Envelope, error)
	}

	GitHubService interface {
		CheckConnection(ctx context.Context) (string, error)
		GetRepositoryInfo(ctx context.Context, owner, repo string) (*models.RepositoryInfo, error)
		FormatConnection(login string) string
		FormatRepositoryInfo(info *models.RepositoryInfo) string
	}
)
