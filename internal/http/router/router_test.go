package router_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/thomas-vilte/matepr/internal/config"
	"github.com/thomas-vilte/matepr/internal/http/handler"
	"github.com/thomas-vilte/matepr/internal/http/middleware"
	"github.com/thomas-vilte/matepr/internal/http/router"
	"github.com/thomas-vilte/matepr/internal/models"
	"github.com/thomas-vilte/matepr/internal/tools"
)

type stubExecutor struct{}

func (stubExecutor) Catalog() []tools.Tool { return tools.Catalog() }

func (stubExecutor) Execute(context.Context, string, json.RawMessage) (tools.Envelope, error) {
	panic("unexpected call")
}

type stubGitHub struct{}

func (stubGitHub) CheckConnection(context.Context) (string, error) { return "octocat", nil }

func (stubGitHub) GetRepositoryInfo(context.Context, string, string) (*models.RepositoryInfo, error) {
	return &models.RepositoryInfo{}, nil
}

func (stubGitHub) FormatConnection(string) string { return "" }

func (stubGitHub) FormatRepositoryInfo(*models.RepositoryInfo) string { return "" }

var _ = Describe("Router", func() {
	var engine *gin.Engine

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		cfg := &config.Config{}
		engine = router.New(cfg, router.Handlers{
			Info:        handler.NewInfoHandler(cfg, stubExecutor{}),
			GitHub:      handler.NewGitHubHandler(stubGitHub{}),
			PullRequest: handler.NewPullRequestHandler(stubExecutor{}),
		})
	})

	It("generates a request id", func() {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get(middleware.RequestIDHeader)).To(HaveLen(36))
	})

	It("echoes a caller supplied request id", func() {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set(middleware.RequestIDHeader, "req-123")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		Expect(w.Header().Get(middleware.RequestIDHeader)).To(Equal("req-123"))
	})

	It("answers CORS preflight requests", func() {
		req := httptest.NewRequest(http.MethodOptions, "/create-pr", nil)
		req.Header.Set("Origin", "https://agent.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusNoContent))
		Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("*"))
	})

	It("recovers from panics with a JSON 500", func() {
		// a valid body reaches the executor stub, which panics
		req := httptest.NewRequest(http.MethodPost, "/create-pr",
			strings.NewReader(`{"repo":"api","title":"t","head":"h","base":"b"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusInternalServerError))
		Expect(w.Body.String()).To(ContainSubstring("internal server error"))
	})

	It("serves the root info", func() {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"name":"matepr"`))
	})
})
