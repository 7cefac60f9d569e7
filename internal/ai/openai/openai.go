package openai

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/thomas-vilte/matepr/internal/ai"
	"github.com/thomas-vilte/matepr/internal/config"
	domainErrors "github.com/thomas-vilte/matepr/internal/errors"
	"github.com/thomas-vilte/matepr/internal/logger"
)

var _ ai.TextGenerator = (*Generator)(nil)

const ProviderName = config.ProviderOpenAI

// Generator talks to any chat-completion compatible endpoint.
type Generator struct {
	client    openai.Client
	model     string
	user      string
	maxTokens int
}

func NewGenerator(cfg config.LLMConfig, timeout time.Duration) (*Generator, error) {
	if !cfg.Enabled() {
		return nil, domainErrors.ErrLLMNotConfigured.WithContext("provider", ProviderName)
	}

	opts := []option.RequestOption{
		option.WithRequestTimeout(timeout),
		option.WithMaxRetries(0),
	}
	if cfg.AuthHeader != "" {
		opts = append(opts, option.WithHeader(cfg.AuthHeader, cfg.APIKey))
	} else {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Generator{
		client:    openai.NewClient(opts...),
		model:     cfg.Model,
		user:      cfg.Username,
		maxTokens: cfg.MaxTokens,
	}, nil
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}
	if g.maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(g.maxTokens))
	}
	if g.user != "" {
		params.User = openai.String(g.user)
	}

	start := time.Now()
	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", domainErrors.ErrAIGeneration.WithError(fmt.Errorf("openai chat: %w", err))
	}

	logger.Debug(ctx, "llm chat completed",
		"model", g.model,
		"duration_ms", time.Since(start).Milliseconds(),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens)

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", domainErrors.ErrInvalidAIOutput.WithContext("provider", ProviderName)
	}

	return resp.Choices[0].Message.Content, nil
}

func (g *Generator) Name() string {
	return ProviderName
}

func (g *Generator) Model() string {
	return g.model
}
