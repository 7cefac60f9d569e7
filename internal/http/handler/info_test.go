package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/thomas-vilte/matepr/internal/config"
	"github.com/thomas-vilte/matepr/internal/http/handler"
)

var _ = Describe("InfoHandler", func() {
	var router *gin.Engine

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		cfg := &config.Config{
			GitHub: config.GitHubConfig{Token: "ghp_x"},
			LLM:    config.LLMConfig{APIKey: "k", Model: "gpt-4o-mini"},
		}
		h := handler.NewInfoHandler(cfg, &mockToolExecutor{})

		router.GET("/", h.Info)
		router.GET("/health", h.Health)
		router.GET("/tools", h.Tools)
	})

	It("describes the service and its integrations", func() {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["name"]).To(Equal("matepr"))
		Expect(resp["endpoints"]).To(ContainElement("POST /create-pr"))
		Expect(resp["tools"]).To(HaveLen(4))
		Expect(resp["integrations"]).To(Equal(map[string]any{"github": true, "jira": false, "llm": true}))
	})

	It("reports health", func() {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["status"]).To(Equal("ok"))
		Expect(resp["timestamp"]).NotTo(BeEmpty())
	})

	It("lists the tool catalog with schemas", func() {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tools", nil))

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp struct {
			Tools []struct {
				Name        string         `json:"name"`
				InputSchema map[string]any `json:"inputSchema"`
			} `json:"tools"`
		}
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Tools).To(HaveLen(4))
		Expect(resp.Tools[0].Name).To(Equal("create_pull_request"))
		Expect(resp.Tools[0].InputSchema).To(HaveKeyWithValue("type", "object"))
	})
})
