package jira

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/thomas-vilte/matepr/internal/config"
	domainErrors "github.com/thomas-vilte/matepr/internal/errors"
)

type MockHTTPClient struct {
	mock.Mock
}

func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*http.Response), args.Error(1)
}

func jsonResponse(status int, body string) *http.Response {
	rec := httptest.NewRecorder()
	rec.Header().Set("Content-Type", "application/json")
	rec.WriteHeader(status)
	_, _ = rec.WriteString(body)
	return rec.Result()
}

func newTestService(client *MockHTTPClient, token string) *JiraService {
	cfg := &config.Config{
		Jira: config.JiraConfig{BaseURL: "https://jira.example.com/", Token: token},
	}
	return NewJiraService(cfg, client)
}

const issueWithADF = `{
  "key": "PAY-42",
  "fields": {
    "summary": "Checkout redesign https://www.figma.com/file/AbC123/Checkout",
    "description": {
      "type": "doc",
      "version": 1,
      "content": [
        {"type": "paragraph", "content": [{"type": "text", "text": "See mocks:"}]},
        {"type": "paragraph", "content": [{"type": "inlineCard", "attrs": {"url": "https://figma.com/design/Xyz9/Cart?node-id=1"}}]},
        {"type": "bulletList", "content": [
          {"type": "listItem", "content": [{"type": "paragraph", "content": [{"type": "text", "text": "update totals"}]}]}
        ]}
      ]
    },
    "status": {"name": "In Progress"},
    "priority": {"name": "High"},
    "issuetype": {"name": "Story"},
    "assignee": null,
    "reporter": {"displayName": "Ana"},
    "created": "2024-05-01T10:00:00.000+0000",
    "updated": "2024-05-02T10:00:00.000+0000",
    "labels": ["frontend"],
    "components": [{"name": "web"}],
    "fixVersions": [{"name": "1.4.0"}, {"name": "1.5.0"}]
  }
}`

func TestFetchTicket_Success(t *testing.T) {
	mockClient := new(MockHTTPClient)
	service := newTestService(mockClient, "secret")

	mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		return req.Method == http.MethodGet &&
			req.URL.String() == "https://jira.example.com/rest/api/2/issue/PAY-42" &&
			req.Header.Get("Authorization") == "Bearer secret" &&
			req.Header.Get("Accept") == "application/json"
	})).Return(jsonResponse(http.StatusOK, issueWithADF), nil).Once()

	ticket, err := service.FetchTicket(context.Background(), "PAY-42")

	require.NoError(t, err)
	assert.Equal(t, "PAY-42", ticket.Key)
	assert.Equal(t, "In Progress", ticket.Status)
	assert.Equal(t, "High", ticket.Priority)
	assert.Equal(t, "Story", ticket.IssueType)
	assert.Equal(t, "Unassigned", ticket.Assignee)
	assert.Equal(t, "Ana", ticket.Reporter)
	assert.Equal(t, []string{"frontend"}, ticket.Labels)
	assert.Equal(t, []string{"web"}, ticket.Components)
	assert.Equal(t, []string{"1.4.0", "1.5.0"}, ticket.FixVersions)
	assert.Equal(t, "https://jira.example.com/browse/PAY-42", ticket.URL)
	assert.Contains(t, ticket.Description, "See mocks:")
	assert.Contains(t, ticket.Description, "- update totals")
	assert.Equal(t, []string{
		"https://www.figma.com/file/AbC123/Checkout",
		"https://figma.com/design/Xyz9/Cart",
	}, ticket.FigmaLinks)
	mockClient.AssertExpectations(t)
}

func TestFetchTicket_RepeatedDesignLinksAreKept(t *testing.T) {
	mockClient := new(MockHTTPClient)
	service := newTestService(mockClient, "")

	body := `{"key":"UX-9","fields":{"summary":"Dashboard https://www.figma.com/file/AbC123/Dash",` +
		`"description":"Same mock as the summary: https://www.figma.com/file/AbC123/Dash","status":{"name":"To Do"}}}`
	mockClient.On("Do", mock.Anything).Return(jsonResponse(http.StatusOK, body), nil).Once()

	ticket, err := service.FetchTicket(context.Background(), "UX-9")

	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://www.figma.com/file/AbC123/Dash",
		"https://www.figma.com/file/AbC123/Dash",
	}, ticket.FigmaLinks)
}

func TestFetchTicket_PlainDescriptionAndAnonymous(t *testing.T) {
	mockClient := new(MockHTTPClient)
	service := newTestService(mockClient, "")

	body := `{"key":"OPS-1","fields":{"summary":"Rotate keys","description":"plain text","status":{"name":"Done"},"assignee":{"displayName":"Luis"}}}`
	mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		return req.Header.Get("Authorization") == ""
	})).Return(jsonResponse(http.StatusOK, body), nil).Once()

	ticket, err := service.FetchTicket(context.Background(), "OPS-1")

	require.NoError(t, err)
	assert.Equal(t, "plain text", ticket.Description)
	assert.Equal(t, "Luis", ticket.Assignee)
	assert.Empty(t, ticket.FigmaLinks)
	assert.NotNil(t, ticket.FigmaLinks)
	assert.NotNil(t, ticket.Labels)
	mockClient.AssertExpectations(t)
}

func TestFetchTicket_Errors(t *testing.T) {
	t.Run("not found maps to upstream error", func(t *testing.T) {
		mockClient := new(MockHTTPClient)
		service := newTestService(mockClient, "secret")
		mockClient.On("Do", mock.Anything).
			Return(jsonResponse(http.StatusNotFound, `{"errorMessages":["Issue does not exist or you do not have permission to see it."]}`), nil).Once()

		_, err := service.FetchTicket(context.Background(), "NOPE-1")

		var upstream *domainErrors.UpstreamAPIError
		require.ErrorAs(t, err, &upstream)
		assert.Equal(t, http.StatusNotFound, upstream.StatusCode)
		assert.Contains(t, upstream.Message, "Resource not found")
		assert.Equal(t, "Issue does not exist or you do not have permission to see it.", upstream.Details)
	})

	t.Run("missing fields is malformed", func(t *testing.T) {
		mockClient := new(MockHTTPClient)
		service := newTestService(mockClient, "")
		mockClient.On("Do", mock.Anything).Return(jsonResponse(http.StatusOK, `{"key":"A-1"}`), nil).Once()

		_, err := service.FetchTicket(context.Background(), "A-1")

		assert.ErrorIs(t, err, domainErrors.ErrTicketMalformed)
	})

	t.Run("transport failure", func(t *testing.T) {
		mockClient := new(MockHTTPClient)
		service := newTestService(mockClient, "")
		mockClient.On("Do", mock.Anything).Return(nil, errors.New("connection refused")).Once()

		_, err := service.FetchTicket(context.Background(), "A-1")

		assert.ErrorIs(t, err, domainErrors.ErrTicketFetch)
		assert.ErrorContains(t, err, "connection refused")
	})

	t.Run("not configured makes no call", func(t *testing.T) {
		mockClient := new(MockHTTPClient)
		service := NewJiraService(&config.Config{}, mockClient)

		_, err := service.FetchTicket(context.Background(), "A-1")

		assert.ErrorIs(t, err, domainErrors.ErrJiraNotConfigured)
		mockClient.AssertNotCalled(t, "Do", mock.Anything)
	})
}

func TestGetTicketDetails_DegradesToPlaceholder(t *testing.T) {
	mockClient := new(MockHTTPClient)
	service := newTestService(mockClient, "secret")
	mockClient.On("Do", mock.Anything).Return(jsonResponse(http.StatusNotFound, `{}`), nil).Once()

	lookup := service.GetTicketDetails(context.Background(), "ABC-404")

	assert.False(t, lookup.Success)
	assert.NotEmpty(t, lookup.Error)
	assert.Equal(t, "ABC-404", lookup.Ticket.Key)
	assert.Equal(t, "Ticket ABC-404 (details unavailable)", lookup.Ticket.Summary)
	assert.Equal(t, "Unknown", lookup.Ticket.Status)
	assert.Equal(t, []string{}, lookup.Ticket.FigmaLinks)
	assert.Equal(t, "https://jira.example.com/browse/ABC-404", lookup.Ticket.URL)
}

func TestGetTicketDetails_Success(t *testing.T) {
	mockClient := new(MockHTTPClient)
	service := newTestService(mockClient, "")
	mockClient.On("Do", mock.Anything).Return(jsonResponse(http.StatusOK, issueWithADF), nil).Once()

	lookup := service.GetTicketDetails(context.Background(), "PAY-42")

	assert.True(t, lookup.Success)
	assert.Empty(t, lookup.Error)
	assert.Equal(t, "Checkout redesign https://www.figma.com/file/AbC123/Checkout", lookup.Ticket.Summary)
}

func TestParseDescription(t *testing.T) {
	assert.Equal(t, "", parseDescription(nil))
	assert.Equal(t, "", parseDescription([]byte("null")))
	assert.Equal(t, "hi", parseDescription([]byte(`"hi"`)))
	assert.Equal(t, "a\nb", parseDescription([]byte(`{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"a"},{"type":"hardBreak"},{"type":"text","text":"b"}]}]}`)))
}
