package di

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/thomas-vilte/matepr/internal/ai"
	"github.com/thomas-vilte/matepr/internal/ai/registry"
	"github.com/thomas-vilte/matepr/internal/config"
	"github.com/thomas-vilte/matepr/internal/http/handler"
	"github.com/thomas-vilte/matepr/internal/http/router"
	"github.com/thomas-vilte/matepr/internal/httpclient"
	"github.com/thomas-vilte/matepr/internal/i18n"
	"github.com/thomas-vilte/matepr/internal/logger"
	"github.com/thomas-vilte/matepr/internal/mcpserver"
	"github.com/thomas-vilte/matepr/internal/services"
	"github.com/thomas-vilte/matepr/internal/tickets"
	"github.com/thomas-vilte/matepr/internal/tickets/jira"
	"github.com/thomas-vilte/matepr/internal/tools"
	"github.com/thomas-vilte/matepr/internal/vcs"
	"github.com/thomas-vilte/matepr/internal/vcs/github"
)

// Container builds every component once from the configuration. Missing credentials are not an error here: each
// operation reports its own missing credential when it is called.
type Container struct {
	config       *config.Config
	translations *i18n.Translations
	aiRegistry   *registry.AIProviderRegistry
	httpClient   httpclient.HTTPClient

	mu            sync.Mutex
	vcsClient     vcs.VCSClient
	generator     ai.TextGenerator
	generatorDone bool
	prService     *services.PRService
	repoService   *services.RepositoryService
	ticketService *services.TicketService
	dispatcher    *tools.Dispatcher
}

func NewContainer(cfg *config.Config, trans *i18n.Translations) *Container {
	return &Container{
		config:       cfg,
		translations: trans,
		aiRegistry:   registry.NewDefaultRegistry(),
		httpClient:   httpclient.New(cfg.HTTP.Timeout),
	}
}

// SetVCSClient replaces the GitHub client, e.g. with a test double.
func (c *Container) SetVCSClient(client vcs.VCSClient) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vcsClient = client
}

// SetTextGenerator replaces the language model backend.
func (c *Container) SetTextGenerator(g ai.TextGenerator) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generator = g
	c.generatorDone = true
}

func (c *Container) SetHTTPClient(client httpclient.HTTPClient) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.httpClient = client
}

func (c *Container) RegisterAIProvider(name string, factory registry.ProviderFactory) error {
	return c.aiRegistry.Register(name, factory)
}

func (c *Container) GetAIRegistry() *registry.AIProviderRegistry {
	return c.aiRegistry
}

// vcs returns nil when no token is configured.
func (c *Container) vcs() (vcs.VCSClient, error) {
	if c.vcsClient != nil || !c.config.GitHub.Enabled() {
		return c.vcsClient, nil
	}
	client, err := github.NewGitHubClient(c.config.GitHub, c.config.HTTP.Timeout)
	if err != nil {
		return nil, fmt.Errorf("error creating GitHub client: %w", err)
	}
	c.vcsClient = client
	return c.vcsClient, nil
}

// textGenerator returns nil when the model is not configured or the backend cannot be built; the narrative then
// falls back to templated text.
func (c *Container) textGenerator(ctx context.Context) ai.TextGenerator {
	if c.generatorDone {
		return c.generator
	}
	c.generatorDone = true

	if !c.config.LLM.Enabled() {
		logger.Info(ctx, "language model not configured, descriptions use templated text")
		return nil
	}

	g, err := c.aiRegistry.Create(ctx, c.config.LLM, c.config.HTTP.Timeout)
	if err != nil {
		logger.Warn(ctx, "language model unavailable, descriptions use templated text",
			"provider", c.config.LLM.Provider, "error", err)
		return nil
	}
	c.generator = g
	return c.generator
}

func (c *Container) jira() *jira.JiraService {
	return jira.NewJiraService(c.config, c.httpClient)
}

// ticketProvider is nil when JIRA is not configured so the narrative skips the lookup entirely.
func (c *Container) ticketProvider() tickets.TicketDetailProvider {
	if !c.config.Jira.Enabled() {
		return nil
	}
	return c.jira()
}

func (c *Container) GetPRService(ctx context.Context) (*services.PRService, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prServiceLocked(ctx)
}

func (c *Container) prServiceLocked(ctx context.Context) (*services.PRService, error) {
	if c.prService != nil {
		return c.prService, nil
	}

	client, err := c.vcs()
	if err != nil {
		return nil, err
	}

	extractor, err := tickets.NewExtractor(c.config.Pipeline.TicketPattern)
	if err != nil {
		return nil, err
	}

	narrativeOpts := []services.NarrativeOption{services.WithParallelDispatch(c.config.Pipeline.Parallel)}
	if g := c.textGenerator(ctx); g != nil {
		narrativeOpts = append(narrativeOpts, services.WithNarrativeGenerator(g))
	}
	if p := c.ticketProvider(); p != nil {
		narrativeOpts = append(narrativeOpts, services.WithNarrativeTicketProvider(p))
	}

	opts := []services.PROption{
		services.WithPRConfig(c.config),
		services.WithPRTranslations(c.translations),
		services.WithPRExtractor(extractor),
		services.WithPRComposer(services.NewComposer(c.config.Jira.BaseURL)),
		services.WithPRNarrative(services.NewNarrativeService(narrativeOpts...)),
	}
	if client != nil {
		opts = append(opts, services.WithPRVCSClient(client))
	}

	c.prService = services.NewPRService(opts...)
	return c.prService, nil
}

func (c *Container) GetRepositoryService() (*services.RepositoryService, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.repoServiceLocked()
}

func (c *Container) repoServiceLocked() (*services.RepositoryService, error) {
	if c.repoService != nil {
		return c.repoService, nil
	}
	client, err := c.vcs()
	if err != nil {
		return nil, err
	}
	c.repoService = services.NewRepositoryService(client, c.config, c.translations)
	return c.repoService, nil
}

func (c *Container) GetTicketService() *services.TicketService {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ticketServiceLocked()
}

func (c *Container) ticketServiceLocked() *services.TicketService {
	if c.ticketService == nil {
		c.ticketService = services.NewTicketService(c.jira(), c.config, c.translations)
	}
	return c.ticketService
}

// GetDispatcher wires the tool catalog to the services.
func (c *Container) GetDispatcher(ctx context.Context) (*tools.Dispatcher, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.dispatcher != nil {
		return c.dispatcher, nil
	}

	prs, err := c.prServiceLocked(ctx)
	if err != nil {
		return nil, err
	}
	repos, err := c.repoServiceLocked()
	if err != nil {
		return nil, err
	}

	c.dispatcher = tools.NewDispatcher(prs, repos, c.ticketServiceLocked())
	return c.dispatcher, nil
}

// GetRouter builds the REST façade over the same dispatcher the MCP server uses.
func (c *Container) GetRouter(ctx context.Context) (*gin.Engine, error) {
	dispatcher, err := c.GetDispatcher(ctx)
	if err != nil {
		return nil, err
	}
	repos, err := c.GetRepositoryService()
	if err != nil {
		return nil, err
	}

	return router.New(c.config, router.Handlers{
		Info:        handler.NewInfoHandler(c.config, dispatcher),
		GitHub:      handler.NewGitHubHandler(repos),
		PullRequest: handler.NewPullRequestHandler(dispatcher),
	}), nil
}

func (c *Container) GetMCPServer(ctx context.Context, log *slog.Logger) (*mcpserver.Server, error) {
	dispatcher, err := c.GetDispatcher(ctx)
	if err != nil {
		return nil, err
	}
	return mcpserver.NewServer(dispatcher, log), nil
}

func (c *Container) GetConfig() *config.Config {
	return c.config
}

func (c *Container) GetTranslations() *i18n.Translations {
	return c.translations
}
