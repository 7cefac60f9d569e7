package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	domainErrors "github.com/thomas-vilte/matepr/internal/errors"
	"github.com/thomas-vilte/matepr/internal/logger"
	"github.com/thomas-vilte/matepr/internal/models"
)

type (
	PullRequestService interface {
		CreatePullRequest(ctx context.Context, params models.CreatePullRequestParams) (*models.PullRequestResult, error)
		GeneratePRSummary(ctx context.Context, params models.PRSummaryParams) (*models.PRSummaryResult, error)
		FormatPullRequest(result *models.PullRequestResult) string
		FormatSummary(result *models.PRSummaryResult) string
	}

	RepositoryService interface {
		GetRepositoryInfo(ctx context.Context, owner, repo string) (*models.RepositoryInfo, error)
		FormatRepositoryInfo(info *models.RepositoryInfo) string
	}

	TicketService interface {
		GetTicketDetails(ctx context.Context, ticketID string) (*models.TicketLookup, error)
		FormatTicket(lookup *models.TicketLookup) string
	}
)

var ErrUnknownTool = domainErrors.NewAppError(domainErrors.TypeValidation, "unknown tool", nil)

// Dispatcher routes tool calls to the services. It is the error boundary: every outcome is an Envelope.
type Dispatcher struct {
	prs     PullRequestService
	repos   RepositoryService
	tickets TicketService
}

func NewDispatcher(prs PullRequestService, repos RepositoryService, tickets TicketService) *Dispatcher {
	return &Dispatcher{prs: prs, repos: repos, tickets: tickets}
}

func (d *Dispatcher) Catalog() []Tool {
	return Catalog()
}

// Call runs the named tool with JSON arguments.
func (d *Dispatcher) Call(ctx context.Context, name string, rawArgs json.RawMessage) Envelope {
	env, _ := d.Execute(ctx, name, rawArgs)
	return env
}

// Execute is Call for transports that also need the error, e.g. to pick an HTTP status.
func (d *Dispatcher) Execute(ctx context.Context, name string, rawArgs json.RawMessage) (Envelope, error) {
	ctx = logger.With(ctx, "tool", name)
	start := time.Now()

	env, err := d.execute(ctx, name, rawArgs)
	if err != nil {
		logger.Error(ctx, "tool call failed", err, "duration_ms", time.Since(start).Milliseconds())
		return ErrorEnvelope(err), err
	}

	logger.Info(ctx, "tool call completed",
		"success", env.Success(),
		"duration_ms", time.Since(start).Milliseconds())
	return env, nil
}

func (d *Dispatcher) execute(ctx context.Context, name string, rawArgs json.RawMessage) (Envelope, error) {
	switch name {
	case CreatePullRequest:
		var args CreatePullRequestArgs
		if err := decodeArgs(rawArgs, &args); err != nil {
			return nil, err
		}
		result, err := d.prs.CreatePullRequest(ctx, models.CreatePullRequestParams{
			Owner:               args.Owner,
			Repo:                args.Repo,
			Title:               args.Title,
			Head:                args.Head,
			Base:                args.Base,
			Body:                args.Body,
			Draft:               args.Draft,
			IncludeDiffAnalysis: args.IncludeDiffAnalysis,
		})
		if err != nil {
			return nil, err
		}
		return successEnvelope(result, d.prs.FormatPullRequest(result),
			fmt.Sprintf("Pull request #%d created", result.Number)), nil

	case GetRepositoryInfo:
		var args GetRepositoryInfoArgs
		if err := decodeArgs(rawArgs, &args); err != nil {
			return nil, err
		}
		info, err := d.repos.GetRepositoryInfo(ctx, args.Owner, args.Repo)
		if err != nil {
			return nil, err
		}
		return successEnvelope(info, d.repos.FormatRepositoryInfo(info), ""), nil

	case GetJiraTicketDetails:
		var args GetJiraTicketDetailsArgs
		if err := decodeArgs(rawArgs, &args); err != nil {
			return nil, err
		}
		lookup, err := d.tickets.GetTicketDetails(ctx, args.TicketID)
		if err != nil {
			return nil, err
		}
		env := successEnvelope(lookup, d.tickets.FormatTicket(lookup), "")
		// a degraded lookup is still an answer: the placeholder ticket goes out with success=false
		if !lookup.Success {
			env["success"] = false
			env["error"] = lookup.Error
		}
		return env, nil

	case GeneratePRSummary:
		var args GeneratePRSummaryArgs
		if err := decodeArgs(rawArgs, &args); err != nil {
			return nil, err
		}
		summary, err := d.prs.GeneratePRSummary(ctx, models.PRSummaryParams{
			Owner: args.Owner,
			Repo:  args.Repo,
			Head:  args.Head,
			Base:  args.Base,
			Title: args.Title,
			Body:  args.Body,
		})
		if err != nil {
			return nil, err
		}
		return successEnvelope(summary, d.prs.FormatSummary(summary), ""), nil

	default:
		return nil, ErrUnknownTool.WithContext("tool", name)
	}
}

func decodeArgs(raw json.RawMessage, target any) error {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return domainErrors.NewAppError(domainErrors.TypeValidation, "invalid tool arguments", err)
	}
	return nil
}
