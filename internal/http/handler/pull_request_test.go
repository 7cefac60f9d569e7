package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	domainErrors "github.com/thomas-vilte/matepr/internal/errors"
	"github.com/thomas-vilte/matepr/internal/http/handler"
	"github.com/thomas-vilte/matepr/internal/tools"
)

var _ = Describe("PullRequestHandler", func() {
	var (
		router *gin.Engine
		exec   *mockToolExecutor
	)

	post := func(body any) *httptest.ResponseRecorder {
		raw, _ := json.Marshal(body)
		req := httptest.NewRequest(http.MethodPost, "/create-pr", bytes.NewBuffer(raw))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		exec = &mockToolExecutor{}
		router.POST("/create-pr", handler.NewPullRequestHandler(exec).Create)
	})

	It("creates the pull request with diff analysis on", func() {
		var gotName string
		var gotArgs tools.CreatePullRequestArgs
		exec.executeFn = func(_ context.Context, name string, raw json.RawMessage) (tools.Envelope, error) {
			gotName = name
			Expect(json.Unmarshal(raw, &gotArgs)).To(Succeed())
			return tools.Envelope{"success": true, "number": 9}, nil
		}

		w := post(map[string]any{"repo": "api", "title": "Fix", "head": "PAY-1-fix", "base": "main"})

		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(gotName).To(Equal(tools.CreatePullRequest))
		Expect(gotArgs.Repo).To(Equal("api"))
		Expect(gotArgs.IncludeDiffAnalysis).NotTo(BeNil())
		Expect(*gotArgs.IncludeDiffAnalysis).To(BeTrue())

		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["number"]).To(BeNumerically("==", 9))
	})

	It("returns 400 when required fields are missing", func() {
		called := false
		exec.executeFn = func(_ context.Context, _ string, _ json.RawMessage) (tools.Envelope, error) {
			called = true
			return nil, nil
		}

		w := post(map[string]any{"repo": "api", "title": "Fix"})

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(called).To(BeFalse())
	})

	It("returns 400 when no repository can be resolved", func() {
		exec.executeFn = func(_ context.Context, _ string, _ json.RawMessage) (tools.Envelope, error) {
			err := domainErrors.ErrRepoRequired
			return tools.ErrorEnvelope(err), err
		}

		w := post(map[string]any{"title": "Fix", "head": "h", "base": "b"})

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["success"]).To(BeFalse())
		Expect(resp["error"]).To(Equal("repository name is required"))
	})

	It("passes upstream statuses through with the envelope", func() {
		exec.executeFn = func(_ context.Context, _ string, _ json.RawMessage) (tools.Envelope, error) {
			err := domainErrors.NewUpstreamAPIError("github", "create pull request", 422, "A pull request already exists", nil)
			return tools.ErrorEnvelope(err), err
		}

		w := post(map[string]any{"repo": "api", "title": "Fix", "head": "h", "base": "b"})

		Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["details"]).To(HaveKeyWithValue("status", BeNumerically("==", 422)))
	})

	It("answers 503 with the remediation when GitHub is not configured", func() {
		exec.executeFn = func(_ context.Context, _ string, _ json.RawMessage) (tools.Envelope, error) {
			err := domainErrors.ErrGitHubTokenMissing
			return tools.ErrorEnvelope(err), err
		}

		w := post(map[string]any{"repo": "api", "title": "Fix", "head": "h", "base": "b"})

		Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
		Expect(w.Body.String()).To(ContainSubstring("GITHUB_TOKEN"))
	})
})
