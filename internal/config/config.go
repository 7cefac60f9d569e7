package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"

	DefaultGitHubAPIURL      = "https://api.github.com/"
	DefaultTicketPattern     = `[A-Z][A-Z0-9]*-[0-9]+`
	DefaultDesignLinkPattern = `https://(?:www\.)?figma\.com/(?:file|design)/[A-Za-z0-9]+/[^\s?]*`
	DefaultTitleSuffix       = " 🤖"
)

type (
	Config struct {
		Env      string         `toml:"env"`
		Port     string         `toml:"port"`
		LogLevel string         `toml:"log_level"`
		Language string         `toml:"language"`
		GitHub   GitHubConfig   `toml:"github"`
		Jira     JiraConfig     `toml:"jira"`
		LLM      LLMConfig      `toml:"llm"`
		Pipeline PipelineConfig `toml:"pipeline"`
		OTel     OTelConfig     `toml:"otel"`
		HTTP     HTTPConfig     `toml:"http"`
	}

	GitHubConfig struct {
		Token       string `toml:"token"`
		Owner       string `toml:"owner"`
		APIURL      string `toml:"api_url"`
		DefaultRepo string `toml:"default_repo"`
	}

	JiraConfig struct {
		BaseURL string `toml:"base_url"`
		Token   string `toml:"token"`
	}

	LLMConfig struct {
		Provider   string `toml:"provider"`
		BaseURL    string `toml:"base_url"`
		APIKey     string `toml:"api_key"`
		Model      string `toml:"model"`
		Username   string `toml:"username"`
		AuthHeader string `toml:"auth_header"`
		MaxTokens  int    `toml:"max_tokens"`
	}

	// PipelineConfig holds the knobs of the PR description pipeline. The two patterns are
	// configuration rather than constants so other trackers and design tools can be plugged in.
	PipelineConfig struct {
		Parallel          bool   `toml:"parallel"`
		TicketPattern     string `toml:"ticket_pattern"`
		DesignLinkPattern string `toml:"design_link_pattern"`
		TitleSuffix       string `toml:"title_suffix"`
	}

	OTelConfig struct {
		Endpoint       string `toml:"endpoint"`
		Headers        string `toml:"headers"`
		ServiceName    string `toml:"service_name"`
		ServiceVersion string `toml:"service_version"`
	}

	HTTPConfig struct {
		Timeout time.Duration `toml:"-"`
		// TimeoutRaw is the TOML form of Timeout ("30s").
		TimeoutRaw string `toml:"timeout"`
	}
)

// Load builds the configuration once at process start. Precedence: process env > .env file (development only) >
// TOML file at path (optional) > defaults.
func Load(path string) (*Config, error) {
	if getEnv("MATEPR_ENV", "development") == "development" {
		_ = godotenv.Load(".env")
	}

	cfg := defaults()

	if path == "" {
		path = os.Getenv("MATEPR_CONFIG")
	}
	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Env:      "development",
		Port:     "3000",
		LogLevel: "info",
		Language: "en",
		GitHub: GitHubConfig{
			APIURL: DefaultGitHubAPIURL,
		},
		LLM: LLMConfig{
			Provider:  ProviderOpenAI,
			Model:     "gpt-4o-mini",
			MaxTokens: 1024,
		},
		Pipeline: PipelineConfig{
			TicketPattern:     DefaultTicketPattern,
			DesignLinkPattern: DefaultDesignLinkPattern,
			TitleSuffix:       DefaultTitleSuffix,
		},
		OTel: OTelConfig{
			ServiceName:    "matepr",
			ServiceVersion: "dev",
		},
		HTTP: HTTPConfig{
			Timeout: 30 * time.Second,
		},
	}
}

func loadFile(path string, cfg *Config) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("error reading config file %s: %w", path, err)
	}
	if cfg.HTTP.TimeoutRaw != "" {
		d, err := time.ParseDuration(cfg.HTTP.TimeoutRaw)
		if err != nil {
			return fmt.Errorf("invalid http.timeout %q: %w", cfg.HTTP.TimeoutRaw, err)
		}
		cfg.HTTP.Timeout = d
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Env = getEnv("MATEPR_ENV", cfg.Env)
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.Language = getEnv("RESPONSE_LANGUAGE", cfg.Language)

	cfg.GitHub.Token = getEnv("GITHUB_TOKEN", cfg.GitHub.Token)
	cfg.GitHub.Owner = getEnv("GITHUB_OWNER", cfg.GitHub.Owner)
	cfg.GitHub.APIURL = getEnv("GITHUB_API_URL", cfg.GitHub.APIURL)
	cfg.GitHub.DefaultRepo = getEnv("DEFAULT_REPO", cfg.GitHub.DefaultRepo)

	cfg.Jira.BaseURL = strings.TrimRight(getEnv("JIRA_BASE_URL", cfg.Jira.BaseURL), "/")
	cfg.Jira.Token = getEnv("JIRA_TOKEN", cfg.Jira.Token)

	cfg.LLM.Provider = strings.ToLower(getEnv("LLM_PROVIDER", cfg.LLM.Provider))
	cfg.LLM.BaseURL = getEnv("LLM_BASE_URL", cfg.LLM.BaseURL)
	cfg.LLM.APIKey = getEnv("LLM_API_KEY", cfg.LLM.APIKey)
	cfg.LLM.Model = getEnv("LLM_MODEL", cfg.LLM.Model)
	cfg.LLM.Username = getEnv("LLM_USERNAME", cfg.LLM.Username)
	cfg.LLM.AuthHeader = getEnv("LLM_AUTH_HEADER", cfg.LLM.AuthHeader)
	cfg.LLM.MaxTokens = getEnvInt("LLM_MAX_TOKENS", cfg.LLM.MaxTokens)

	cfg.Pipeline.Parallel = getEnvBool("NARRATIVE_PARALLEL", cfg.Pipeline.Parallel)
	cfg.Pipeline.TicketPattern = getEnv("TICKET_PATTERN", cfg.Pipeline.TicketPattern)
	cfg.Pipeline.DesignLinkPattern = getEnv("DESIGN_LINK_PATTERN", cfg.Pipeline.DesignLinkPattern)
	cfg.Pipeline.TitleSuffix = getEnv("PR_TITLE_SUFFIX", cfg.Pipeline.TitleSuffix)

	cfg.OTel.Endpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTel.Endpoint)
	cfg.OTel.Headers = getEnv("OTEL_EXPORTER_OTLP_HEADERS", cfg.OTel.Headers)
	cfg.OTel.ServiceName = getEnv("OTEL_SERVICE_NAME", cfg.OTel.ServiceName)
	cfg.OTel.ServiceVersion = getEnv("OTEL_SERVICE_VERSION", cfg.OTel.ServiceVersion)

	cfg.HTTP.Timeout = getEnvDuration("HTTP_TIMEOUT", cfg.HTTP.Timeout)
}

// Validate checks the values that would otherwise fail deep inside a request. Secrets are not required here:
// each operation reports its own missing credential.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderGemini, ProviderAnthropic:
	default:
		return fmt.Errorf("unsupported LLM provider: %s", c.LLM.Provider)
	}

	if _, err := regexp.Compile(c.Pipeline.TicketPattern); err != nil {
		return fmt.Errorf("invalid ticket pattern: %w", err)
	}
	if _, err := regexp.Compile(c.Pipeline.DesignLinkPattern); err != nil {
		return fmt.Errorf("invalid design link pattern: %w", err)
	}

	switch c.Language {
	case "en", "es":
	default:
		return fmt.Errorf("unsupported response language: %s", c.Language)
	}

	if c.HTTP.Timeout <= 0 {
		return errors.New("http timeout must be greater than 0")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c GitHubConfig) Enabled() bool {
	return c.Token != ""
}

func (c JiraConfig) Enabled() bool {
	return c.BaseURL != ""
}

func (c LLMConfig) Enabled() bool {
	return c.APIKey != "" && c.Model != ""
}

func (c OTelConfig) Enabled() bool {
	return c.Endpoint != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
