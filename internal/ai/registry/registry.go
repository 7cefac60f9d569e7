package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/thomas-vilte/matepr/internal/ai"
	"github.com/thomas-vilte/matepr/internal/ai/anthropic"
	"github.com/thomas-vilte/matepr/internal/ai/gemini"
	"github.com/thomas-vilte/matepr/internal/ai/openai"
	"github.com/thomas-vilte/matepr/internal/config"
	domainErrors "github.com/thomas-vilte/matepr/internal/errors"
)

// ProviderFactory builds a text generator from the LLM configuration.
type ProviderFactory func(ctx context.Context, cfg config.LLMConfig, timeout time.Duration) (ai.TextGenerator, error)

// AIProviderRegistry maps provider names to their factories.
type AIProviderRegistry struct {
	mu        sync.RWMutex
	factories map[string]ProviderFactory
}

func NewAIProviderRegistry() *AIProviderRegistry {
	return &AIProviderRegistry{
		factories: make(map[string]ProviderFactory),
	}
}

// NewDefaultRegistry knows openai, gemini and anthropic.
func NewDefaultRegistry() *AIProviderRegistry {
	r := NewAIProviderRegistry()
	_ = r.Register(openai.ProviderName, func(_ context.Context, cfg config.LLMConfig, timeout time.Duration) (ai.TextGenerator, error) {
		return openai.NewGenerator(cfg, timeout)
	})
	_ = r.Register(gemini.ProviderName, func(ctx context.Context, cfg config.LLMConfig, timeout time.Duration) (ai.TextGenerator, error) {
		return gemini.NewGenerator(ctx, cfg, timeout)
	})
	_ = r.Register(anthropic.ProviderName, func(_ context.Context, cfg config.LLMConfig, timeout time.Duration) (ai.TextGenerator, error) {
		return anthropic.NewGenerator(cfg, timeout)
	})
	return r
}

func (r *AIProviderRegistry) Register(name string, factory ProviderFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("AI provider '%s' is already registered", name)
	}

	r.factories[name] = factory
	return nil
}

func (r *AIProviderRegistry) Get(name string) (ProviderFactory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, exists := r.factories[name]
	if !exists {
		return nil, domainErrors.ErrUnknownLLMProvider.WithContext("provider", name)
	}

	return factory, nil
}

// List returns the registered provider names sorted.
func (r *AIProviderRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	providers := make([]string, 0, len(r.factories))
	for name := range r.factories {
		providers = append(providers, name)
	}
	sort.Strings(providers)
	return providers
}

func (r *AIProviderRegistry) IsRegistered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.factories[name]
	return exists
}

// Create resolves cfg.Provider and builds the generator.
func (r *AIProviderRegistry) Create(ctx context.Context, cfg config.LLMConfig, timeout time.Duration) (ai.TextGenerator, error) {
	factory, err := r.Get(cfg.Provider)
	if err != nil {
		return nil, err
	}
	return factory(ctx, cfg, timeout)
}
