package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/thomas-vilte/matepr/internal/ai"
	"github.com/thomas-vilte/matepr/internal/config"
	domainErrors "github.com/thomas-vilte/matepr/internal/errors"
	"github.com/thomas-vilte/matepr/internal/logger"
)

var _ ai.TextGenerator = (*Generator)(nil)

const ProviderName = config.ProviderGemini

type Generator struct {
	Client    *genai.Client
	model     string
	maxTokens int
}

func NewGenerator(ctx context.Context, cfg config.LLMConfig, timeout time.Duration) (*Generator, error) {
	if !cfg.Enabled() {
		return nil, domainErrors.ErrLLMNotConfigured.WithContext("provider", ProviderName)
	}

	clientCfg := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: timeout},
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, domainErrors.NewAppError(domainErrors.TypeConfiguration, "error creating Gemini client", err)
	}

	return &Generator{
		Client:    client,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}, nil
}

// GetGenerateConfig keeps answers short and fairly deterministic.
func GetGenerateConfig(maxTokens int) *genai.GenerateContentConfig {
	genConfig := &genai.GenerateContentConfig{
		Temperature: float32Ptr(0.3),
	}
	if maxTokens > 0 {
		genConfig.MaxOutputTokens = int32(maxTokens)
	}
	return genConfig
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	resp, err := g.Client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), GetGenerateConfig(g.maxTokens))
	if err != nil {
		return "", domainErrors.ErrAIGeneration.WithError(fmt.Errorf("gemini generate: %w", err))
	}

	text := strings.TrimSpace(resp.Text())
	logger.Debug(ctx, "llm generation completed",
		"model", g.model,
		"duration_ms", time.Since(start).Milliseconds())

	if text == "" {
		return "", domainErrors.ErrInvalidAIOutput.WithContext("provider", ProviderName)
	}
	return text, nil
}

func (g *Generator) Name() string {
	return ProviderName
}

func (g *Generator) Model() string {
	return g.model
}

func float32Ptr(f float32) *float32 {
	return &f
}
