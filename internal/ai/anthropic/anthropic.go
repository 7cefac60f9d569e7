package anthropic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/thomas-vilte/matepr/internal/ai"
	"github.com/thomas-vilte/matepr/internal/config"
	domainErrors "github.com/thomas-vilte/matepr/internal/errors"
	"github.com/thomas-vilte/matepr/internal/logger"
)

var _ ai.TextGenerator = (*Generator)(nil)

const (
	ProviderName     = config.ProviderAnthropic
	defaultMaxTokens = 1024
)

type Generator struct {
	client    anthropic.Client
	model     string
	maxTokens int
}

func NewGenerator(cfg config.LLMConfig, timeout time.Duration) (*Generator, error) {
	if !cfg.Enabled() {
		return nil, domainErrors.ErrLLMNotConfigured.WithContext("provider", ProviderName)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(timeout),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	return &Generator{
		client:    anthropic.NewClient(opts...),
		model:     cfg.Model,
		maxTokens: maxTokens,
	}, nil
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	resp, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: int64(g.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", domainErrors.ErrAIGeneration.WithError(fmt.Errorf("anthropic messages: %w", err))
	}

	logger.Debug(ctx, "llm messages completed",
		"model", g.model,
		"duration_ms", time.Since(start).Milliseconds(),
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens)

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return "", domainErrors.ErrInvalidAIOutput.WithContext("provider", ProviderName)
	}
	return text.String(), nil
}

func (g *Generator) Name() string {
	return ProviderName
}

func (g *Generator) Model() string {
	return g.model
}
