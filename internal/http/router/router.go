package router

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/thomas-vilte/matepr/internal/config"
	"github.com/thomas-vilte/matepr/internal/http/handler"
	"github.com/thomas-vilte/matepr/internal/http/middleware"
)

type Handlers struct {
	Info        *handler.InfoHandler
	GitHub      *handler.GitHubHandler
	PullRequest *handler.PullRequestHandler
}

// New builds the engine. Order matters: the OTel span comes first so recovery and request logs carry its ids.
func New(cfg *config.Config, h Handlers) *gin.Engine {
	router := gin.New()

	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS())

	SetupRoutes(router, h)
	return router
}

func SetupRoutes(router *gin.Engine, h Handlers) {
	router.GET("/", h.Info.Info)
	router.GET("/health", h.Info.Health)
	router.GET("/tools", h.Info.Tools)

	router.POST("/test-github", h.GitHub.TestConnection)
	router.POST("/create-pr", h.PullRequest.Create)
}
