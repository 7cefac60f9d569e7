package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thomas-vilte/matepr/internal/http/dto"
	"github.com/thomas-vilte/matepr/internal/tools"
)

type GitHubHandler struct {
	github GitHubService
}

func NewGitHubHandler(github GitHubService) *GitHubHandler {
	return &GitHubHandler{github: github}
}

// TestConnection checks the token and, when a repository is named, that it can be read.
func (h *GitHubHandler) TestConnection(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.TestGitHubRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	login, err := h.github.CheckConnection(ctx)
	if err != nil {
		_ = c.Error(err)
		c.JSON(tools.StatusCode(err), tools.ErrorEnvelope(err))
		return
	}

	resp := dto.TestGitHubResponse{
		Success:           true,
		User:              login,
		FormattedResponse: h.github.FormatConnection(login),
	}

	if req.Repo != "" {
		info, err := h.github.GetRepositoryInfo(ctx, req.Owner, req.Repo)
		if err != nil {
			_ = c.Error(err)
			c.JSON(tools.StatusCode(err), tools.ErrorEnvelope(err))
			return
		}
		resp.Repository = info
		resp.FormattedResponse += "\n\n" + h.github.FormatRepositoryInfo(info)
	}

	c.JSON(http.StatusOK, resp)
}
