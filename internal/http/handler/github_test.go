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
	"github.com/thomas-vilte/matepr/internal/models"
)

var _ = Describe("GitHubHandler", func() {
	var (
		router *gin.Engine
		svc    *mockGitHubService
	)

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/test-github", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		svc = &mockGitHubService{}
		router.POST("/test-github", handler.NewGitHubHandler(svc).TestConnection)
	})

	It("reports the authenticated user for an empty body", func() {
		w := post("")

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["user"]).To(Equal("octocat"))
		Expect(resp).NotTo(HaveKey("repository"))
	})

	It("includes the repository when one is named", func() {
		svc.repoFn = func(_ context.Context, owner, repo string) (*models.RepositoryInfo, error) {
			Expect(owner).To(Equal("acme"))
			return &models.RepositoryInfo{Repository: models.Repository{FullName: "acme/" + repo}}, nil
		}

		w := post(`{"owner":"acme","repo":"api"}`)

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["formatted_response"]).To(Equal("connected as octocat\n\nrepo acme/api"))
	})

	It("maps a bad token to 401", func() {
		svc.checkFn = func(context.Context) (string, error) {
			return "", domainErrors.NewUpstreamAPIError("github", "get user", 401, "Bad credentials", nil)
		}

		w := post(`{}`)

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
		Expect(w.Body.String()).To(ContainSubstring("Authentication failed"))
	})

	It("rejects malformed JSON", func() {
		w := post(`{"owner":`)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})
})
