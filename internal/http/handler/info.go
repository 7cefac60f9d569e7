package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/thomas-vilte/matepr/internal/config"
	"github.com/thomas-vilte/matepr/internal/http/dto"
	"github.com/thomas-vilte/matepr/internal/version"
)

type InfoHandler struct {
	cfg   *config.Config
	tools ToolExecutor
	now   func() time.Time
}

func NewInfoHandler(cfg *config.Config, tools ToolExecutor) *InfoHandler {
	return &InfoHandler{cfg: cfg, tools: tools, now: time.Now}
}

func (h *InfoHandler) Info(c *gin.Context) {
	names := make([]string, 0)
	for _, t := range h.tools.Catalog() {
		names = append(names, t.Name)
	}

	c.JSON(http.StatusOK, dto.InfoResponse{
		Name:    "matepr",
		Version: version.Version,
		Endpoints: []string{
			"GET /",
			"GET /health",
			"GET /tools",
			"POST /test-github",
			"POST /create-pr",
		},
		Tools: names,
		Integrations: map[string]bool{
			"github": h.cfg.GitHub.Enabled(),
			"jira":   h.cfg.Jira.Enabled(),
			"llm":    h.cfg.LLM.Enabled(),
		},
	})
}

func (h *InfoHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok", Timestamp: h.now().UTC()})
}

func (h *InfoHandler) Tools(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ToolsResponse{Tools: h.tools.Catalog()})
}
