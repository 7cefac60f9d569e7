package di

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/thomas-vilte/matepr/internal/ai"
	"github.com/thomas-vilte/matepr/internal/config"
	domainErrors "github.com/thomas-vilte/matepr/internal/errors"
	"github.com/thomas-vilte/matepr/internal/i18n"
	"github.com/thomas-vilte/matepr/internal/models"
	"github.com/thomas-vilte/matepr/internal/services"
)

type mockProviderFactory struct {
	mock.Mock
}

func (m *mockProviderFactory) Create(ctx context.Context, cfg config.LLMConfig, timeout time.Duration) (ai.TextGenerator, error) {
	args := m.Called(ctx, cfg, timeout)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(ai.TextGenerator), args.Error(1)
}

func newTestContainer(t *testing.T, mutate func(cfg *config.Config)) *Container {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Language: "en",
		GitHub:   config.GitHubConfig{Owner: "acme", APIURL: config.DefaultGitHubAPIURL},
		LLM:      config.LLMConfig{Provider: config.ProviderOpenAI, Model: "gpt-4o-mini"},
		Pipeline: config.PipelineConfig{
			TicketPattern: config.DefaultTicketPattern,
			TitleSuffix:   config.DefaultTitleSuffix,
		},
		HTTP: config.HTTPConfig{Timeout: 5 * time.Second},
	}
	if mutate != nil {
		mutate(cfg)
	}

	trans, err := i18n.NewTranslations("en")
	require.NoError(t, err)
	return NewContainer(cfg, trans)
}

func TestContainer_WithoutGitHubToken(t *testing.T) {
	c := newTestContainer(t, nil)

	prs, err := c.GetPRService(context.Background())
	require.NoError(t, err, "a missing token is reported per operation")

	_, err = prs.CreatePullRequest(context.Background(), models.CreatePullRequestParams{
		Repo: "api", Title: "t", Head: "ABC-1-x", Base: "main",
	})
	assert.True(t, errors.Is(err, domainErrors.ErrGitHubTokenMissing))

	repos, err := c.GetRepositoryService()
	require.NoError(t, err)
	_, err = repos.GetRepositoryInfo(context.Background(), "", "api")
	assert.True(t, errors.Is(err, domainErrors.ErrGitHubTokenMissing))
}

func TestContainer_BuildsGitHubClientFromToken(t *testing.T) {
	c := newTestContainer(t, func(cfg *config.Config) { cfg.GitHub.Token = "ghp_test" })

	client, err := c.vcs()

	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestContainer_UsesInjectedVCSClient(t *testing.T) {
	c := newTestContainer(t, func(cfg *config.Config) { cfg.GitHub.Token = "ghp_test" })
	vcsClient := &services.MockVCSClient{}
	vcsClient.On("GetAuthenticatedUser", mock.Anything).Return("octocat", nil)
	c.SetVCSClient(vcsClient)

	repos, err := c.GetRepositoryService()
	require.NoError(t, err)
	login, err := repos.CheckConnection(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "octocat", login)
	vcsClient.AssertExpectations(t)
}

func TestContainer_TextGenerator(t *testing.T) {
	t.Run("nil when the model is not configured", func(t *testing.T) {
		c := newTestContainer(t, nil)
		assert.Nil(t, c.textGenerator(context.Background()))
	})

	t.Run("created once through the registry", func(t *testing.T) {
		c := newTestContainer(t, func(cfg *config.Config) {
			cfg.LLM.Provider = "fake"
			cfg.LLM.APIKey = "key"
		})
		generator := &services.MockTextGenerator{}
		factory := &mockProviderFactory{}
		factory.On("Create", mock.Anything, c.config.LLM, 5*time.Second).Return(generator, nil).Once()
		require.NoError(t, c.RegisterAIProvider("fake", factory.Create))

		assert.Same(t, generator, c.textGenerator(context.Background()))
		assert.Same(t, generator, c.textGenerator(context.Background()))
		factory.AssertExpectations(t)
	})

	t.Run("nil when the backend cannot be built", func(t *testing.T) {
		c := newTestContainer(t, func(cfg *config.Config) {
			cfg.LLM.Provider = "fake"
			cfg.LLM.APIKey = "key"
		})
		factory := &mockProviderFactory{}
		factory.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("bad key"))
		require.NoError(t, c.RegisterAIProvider("fake", factory.Create))

		assert.Nil(t, c.textGenerator(context.Background()))
	})

	t.Run("injected generator wins", func(t *testing.T) {
		c := newTestContainer(t, nil)
		generator := &services.MockTextGenerator{}
		c.SetTextGenerator(generator)
		assert.Same(t, generator, c.textGenerator(context.Background()))
	})
}

func TestContainer_TicketService(t *testing.T) {
	t.Run("reports missing JIRA configuration", func(t *testing.T) {
		c := newTestContainer(t, nil)

		_, err := c.GetTicketService().GetTicketDetails(context.Background(), "ABC-1")

		assert.True(t, errors.Is(err, domainErrors.ErrJiraNotConfigured))
	})

	t.Run("provider only when JIRA is configured", func(t *testing.T) {
		c := newTestContainer(t, nil)
		assert.Nil(t, c.ticketProvider())

		c.config.Jira.BaseURL = "https://jira.example.com"
		assert.NotNil(t, c.ticketProvider())
	})
}

func TestContainer_Singletons(t *testing.T) {
	c := newTestContainer(t, nil)
	ctx := context.Background()

	first, err := c.GetDispatcher(ctx)
	require.NoError(t, err)
	second, err := c.GetDispatcher(ctx)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Same(t, c.GetTicketService(), c.GetTicketService())
}

func TestContainer_InvalidTicketPattern(t *testing.T) {
	c := newTestContainer(t, func(cfg *config.Config) { cfg.Pipeline.TicketPattern = "([A-Z" })

	_, err := c.GetPRService(context.Background())

	assert.Error(t, err)
}

func TestContainer_Surfaces(t *testing.T) {
	c := newTestContainer(t, nil)
	ctx := context.Background()

	engine, err := c.GetRouter(ctx)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tools", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "create_pull_request")

	srv, err := c.GetMCPServer(ctx, nil)
	require.NoError(t, err)
	assert.NotNil(t, srv)
}
