package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thomas-vilte/matepr/internal/http/dto"
	"github.com/thomas-vilte/matepr/internal/tools"
)

type PullRequestHandler struct {
	tools ToolExecutor
}

func NewPullRequestHandler(tools ToolExecutor) *PullRequestHandler {
	return &PullRequestHandler{tools: tools}
}

func (h *PullRequestHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreatePRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	args, err := json.Marshal(req.ToolArgs())
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "could not encode request"})
		return
	}

	env, err := h.tools.Execute(ctx, tools.CreatePullRequest, args)
	if err != nil {
		_ = c.Error(err)
		c.JSON(tools.StatusCode(err), env)
		return
	}

	c.JSON(http.StatusCreated, env)
}
