package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_WithError(t *testing.T) {
	baseErr := errors.New("original error")
	appErr := ErrAIGeneration.WithError(baseErr)

	if appErr.Err != baseErr {
		t.Errorf("Expected underlying error to be %v, got %v", baseErr, appErr.Err)
	}

	if appErr.Type != TypeAI {
		t.Errorf("Expected type %s, got %s", TypeAI, appErr.Type)
	}

	if !errors.Is(appErr, baseErr) {
		t.Error("Expected errors.Is to find the wrapped error")
	}
}

func TestAppError_WithContext(t *testing.T) {
	appErr := ErrTicketFetch.WithContext("ticket", "ABC-1").WithContext("status", 404)

	if appErr.Context["ticket"] != "ABC-1" {
		t.Errorf("Expected ticket context 'ABC-1', got %v", appErr.Context["ticket"])
	}

	if ErrTicketFetch.Context != nil {
		t.Error("WithContext must not mutate the sentinel")
	}
}

func TestAppError_IsMatchesCopies(t *testing.T) {
	err := fmt.Errorf("create pr: %w", ErrGitHubTokenMissing.WithContext("operation", "create_pull_request"))

	if !errors.Is(err, ErrGitHubTokenMissing) {
		t.Error("Expected copy of sentinel to match with errors.Is")
	}
	if errors.Is(err, ErrOwnerMissing) {
		t.Error("Did not expect a different sentinel to match")
	}
	if !IsConfiguration(err) {
		t.Error("Expected IsConfiguration to be true")
	}
}

func TestAppError_Error_Format(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		contains []string
	}{
		{
			name:     "Simple error without underlying error",
			err:      ErrRepoRequired,
			contains: []string{"VALIDATION", "repository name is required"},
		},
		{
			name:     "Error with underlying error",
			err:      ErrAIGeneration.WithError(errors.New("503 from upstream")),
			contains: []string{"AI", "AI generation failed", "503 from upstream"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, want := range tt.contains {
				if !strings.Contains(msg, want) {
					t.Errorf("Expected %q to contain %q", msg, want)
				}
			}
		})
	}
}

func TestStatusMessage(t *testing.T) {
	tests := []struct {
		status   int
		upstream string
		want     string
	}{
		{http.StatusUnauthorized, "Bad credentials", "Authentication failed"},
		{http.StatusForbidden, "", "Access denied"},
		{http.StatusNotFound, "Not Found", "Resource not found"},
		{http.StatusUnprocessableEntity, "Validation Failed", "Validation failed"},
		{http.StatusInternalServerError, "Server Error", "Server Error"},
		{http.StatusBadGateway, "", "Unknown error occurred"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			got := StatusMessage(tt.status, tt.upstream)
			if !strings.HasPrefix(got, tt.want) {
				t.Errorf("StatusMessage(%d) = %q, want prefix %q", tt.status, got, tt.want)
			}
		})
	}
}

func TestUpstreamAPIError(t *testing.T) {
	cause := errors.New("raw")
	err := NewUpstreamAPIError("github", "create pull request", http.StatusNotFound, "Not Found", cause)

	var upstream *UpstreamAPIError
	if !errors.As(fmt.Errorf("wrap: %w", err), &upstream) {
		t.Fatal("Expected errors.As to find UpstreamAPIError")
	}
	if upstream.Details != "Not Found" {
		t.Errorf("Expected raw upstream message in details, got %q", upstream.Details)
	}
	if !errors.Is(err, cause) {
		t.Error("Expected cause to be unwrapped")
	}
	if !strings.Contains(err.Error(), "(404)") {
		t.Errorf("Expected status code in message, got %q", err.Error())
	}
}
