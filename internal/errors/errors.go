package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType defines the category of the error
type ErrorType string

const (
	TypeConfiguration ErrorType = "CONFIGURATION"
	TypeValidation    ErrorType = "VALIDATION"
	TypeAI            ErrorType = "AI"
	TypeVCS           ErrorType = "VCS"
	TypeTicket        ErrorType = "TICKET"
	TypeInternal      ErrorType = "INTERNAL"
)

// AppError represents a domain-level error with a type and an underlying error
type AppError struct {
	Type       ErrorType
	Message    string
	Context    map[string]interface{}
	Err        error
	Suggestion string
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches on type and message so that sentinel values keep working after WithError/WithContext copies.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Message == t.Message
}

// WithError creates a new AppError with an underlying error
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        err,
		Suggestion: e.Suggestion,
	}
}

// WithContext creates a new AppError with additional context
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	ctx := make(map[string]interface{})
	for k, v := range e.Context {
		ctx[k] = v
	}
	ctx[key] = value
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    ctx,
		Err:        e.Err,
		Suggestion: e.Suggestion,
	}
}

func (e *AppError) WithSuggestion(suggestion string) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        e.Err,
		Suggestion: suggestion,
	}
}

// NewAppError creates a new AppError
func NewAppError(t ErrorType, msg string, err error) *AppError {
	return &AppError{
		Type:    t,
		Message: msg,
		Err:     err,
	}
}

// IsConfiguration reports whether err is (or wraps) a configuration error.
func IsConfiguration(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == TypeConfiguration
}

// Configuration errors
var (
	ErrGitHubTokenMissing = NewAppError(TypeConfiguration, "GitHub token is not configured", nil).
				WithSuggestion("Set GITHUB_TOKEN in the environment or .env file.\nCreate a token with 'repo' scope at: https://github.com/settings/tokens")

	ErrOwnerMissing = NewAppError(TypeConfiguration, "repository owner is not configured", nil).
			WithSuggestion("Pass 'owner' explicitly or set GITHUB_OWNER")

	ErrJiraNotConfigured = NewAppError(TypeConfiguration, "JIRA base URL is not configured", nil).
				WithSuggestion("Set JIRA_BASE_URL (and JIRA_TOKEN for private instances)")

	ErrLLMNotConfigured = NewAppError(TypeConfiguration, "language model is not configured", nil).
				WithSuggestion("Set LLM_API_KEY and LLM_MODEL (and LLM_BASE_URL for self-hosted endpoints)")

	ErrUnknownLLMProvider = NewAppError(TypeConfiguration, "unknown language model provider", nil).
				WithSuggestion("Use one of: openai, gemini, anthropic")
)

// Validation errors
var (
	ErrRepoRequired = NewAppError(TypeValidation, "repository name is required", nil).
			WithSuggestion("Pass 'repo' or set DEFAULT_REPO")

	ErrInvalidTicketID = NewAppError(TypeValidation, "invalid ticket id", nil).
				WithSuggestion("Ticket ids look like PROJ-123")

	ErrMissingField = NewAppError(TypeValidation, "required field is missing", nil)
)

// AI errors
var (
	ErrAIGeneration = NewAppError(TypeAI, "AI generation failed", nil).
			WithSuggestion("Try again or check your LLM configuration")

	ErrInvalidAIOutput = NewAppError(TypeAI, "invalid AI output", nil)
)

// Ticket errors
var (
	ErrTicketFetch = NewAppError(TypeTicket, "failed to fetch ticket", nil)

	ErrTicketMalformed = NewAppError(TypeTicket, "ticket response is missing fields", nil)
)

// UpstreamAPIError is a non-2xx answer from GitHub or JIRA. Message is the human readable text from the fixed
// status table; Details keeps what the upstream service actually said.
type UpstreamAPIError struct {
	Service    string
	Operation  string
	StatusCode int
	Message    string
	Details    string
	Err        error
}

func (e *UpstreamAPIError) Error() string {
	return fmt.Sprintf("%s %s failed (%d): %s", e.Service, e.Operation, e.StatusCode, e.Message)
}

func (e *UpstreamAPIError) Unwrap() error {
	return e.Err
}

// NewUpstreamAPIError maps the status code to its user-facing message.
func NewUpstreamAPIError(service, operation string, status int, upstreamMessage string, err error) *UpstreamAPIError {
	return &UpstreamAPIError{
		Service:    service,
		Operation:  operation,
		StatusCode: status,
		Message:    StatusMessage(status, upstreamMessage),
		Details:    upstreamMessage,
		Err:        err,
	}
}

// StatusMessage is the fixed status table shared by every upstream client.
func StatusMessage(status int, upstreamMessage string) string {
	switch status {
	case http.StatusUnauthorized:
		return "Authentication failed. Check that your token is valid and has not expired."
	case http.StatusForbidden:
		return "Access denied. Your token does not have the permissions required for this operation."
	case http.StatusNotFound:
		return "Resource not found. Check the owner, repository, branch or ticket name."
	case http.StatusUnprocessableEntity:
		return "Validation failed. The branches may not exist, have no differences, or a pull request may already exist."
	}
	if upstreamMessage != "" {
		return upstreamMessage
	}
	return "Unknown error occurred"
}
