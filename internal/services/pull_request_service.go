package services

import (
	"context"
	"strings"
	"time"

	"github.com/thomas-vilte/matepr/internal/config"
	domainErrors "github.com/thomas-vilte/matepr/internal/errors"
	"github.com/thomas-vilte/matepr/internal/i18n"
	"github.com/thomas-vilte/matepr/internal/logger"
	"github.com/thomas-vilte/matepr/internal/models"
	"github.com/thomas-vilte/matepr/internal/tickets"
	"github.com/thomas-vilte/matepr/internal/vcs"
)

// prState is a step of the create-PR flow. Transitions are logged so a failed request shows where it stopped.
type prState string

const (
	stateValidatingCredentials prState = "validating-credentials"
	stateAnalyzingDiff         prState = "analyzing-diff"
	stateSubmitting            prState = "submitting"
	stateDone                  prState = "done"
	stateFailed                prState = "failed"
)

// prNarrativeGenerator is what PRService needs from the narrative step.
type prNarrativeGenerator interface {
	GenerateOrFallback(ctx context.Context, in NarrativeInput) models.NarrativeResult
}

type PRService struct {
	vcsClient vcs.VCSClient
	narrative prNarrativeGenerator
	extractor *tickets.Extractor
	composer  *Composer
	config    *config.Config
	trans     *i18n.Translations
}

type PROption func(*PRService)

func WithPRVCSClient(c vcs.VCSClient) PROption {
	return func(s *PRService) {
		s.vcsClient = c
	}
}

func WithPRNarrative(n prNarrativeGenerator) PROption {
	return func(s *PRService) {
		s.narrative = n
	}
}

func WithPRExtractor(e *tickets.Extractor) PROption {
	return func(s *PRService) {
		s.extractor = e
	}
}

func WithPRComposer(c *Composer) PROption {
	return func(s *PRService) {
		s.composer = c
	}
}

func WithPRConfig(cfg *config.Config) PROption {
	return func(s *PRService) {
		s.config = cfg
	}
}

func WithPRTranslations(t *i18n.Translations) PROption {
	return func(s *PRService) {
		s.trans = t
	}
}

func NewPRService(opts ...PROption) *PRService {
	s := &PRService{}
	for _, opt := range opts {
		opt(s)
	}
	if s.config == nil {
		s.config = &config.Config{}
	}
	if s.extractor == nil {
		s.extractor = tickets.DefaultExtractor()
	}
	if s.composer == nil {
		s.composer = NewComposer(s.config.Jira.BaseURL)
	}
	if s.narrative == nil {
		s.narrative = NewNarrativeService()
	}
	if s.trans == nil {
		s.trans = defaultTranslations(s.config)
	}
	return s
}

// CreatePullRequest opens a PR, enriching its body from the branch diff unless disabled. Enrichment failures
// never fail the request: the static body is used instead.
func (s *PRService) CreatePullRequest(ctx context.Context, params models.CreatePullRequestParams) (*models.PullRequestResult, error) {
	ctx = logger.With(ctx, "head", params.Head, "base", params.Base)
	log := logger.FromContext(ctx)

	s.transition(ctx, stateValidatingCredentials)
	if err := s.checkCredentials(); err != nil {
		s.fail(ctx, err)
		return nil, err
	}

	owner, repo, err := s.resolveRepo(params.Owner, params.Repo)
	if err != nil {
		s.fail(ctx, err)
		return nil, err
	}
	if err := requireFields(map[string]string{"title": params.Title, "head": params.Head, "base": params.Base}); err != nil {
		s.fail(ctx, err)
		return nil, err
	}

	body := params.Body
	enriched := false
	if params.IncludesDiffAnalysis() {
		s.transition(ctx, stateAnalyzingDiff)
		body, enriched = s.enrichedBody(ctx, owner, repo, params)
	} else if strings.TrimSpace(body) == "" {
		body = s.composer.StaticBody(params.Head, params.Base)
	}

	s.transition(ctx, stateSubmitting)
	pr, err := s.vcsClient.CreatePullRequest(ctx, owner, repo, models.NewPullRequest{
		Title: s.withTitleSuffix(params.Title),
		Head:  params.Head,
		Base:  params.Base,
		Body:  body,
		Draft: params.Draft,
	})
	if err != nil {
		s.fail(ctx, err)
		return nil, err
	}

	s.transition(ctx, stateDone)
	log.Info("pull request created",
		"pr_number", pr.Number,
		"url", pr.URL,
		"includes_diff_analysis", enriched)

	return &models.PullRequestResult{
		Number:               pr.Number,
		Title:                pr.Title,
		URL:                  pr.URL,
		State:                pr.State,
		Draft:                pr.Draft,
		Head:                 pr.Head,
		Base:                 pr.Base,
		CreatedAt:            formatTime(pr.CreatedAt),
		Author:               pr.Author,
		BodyLength:           len([]rune(body)),
		IncludesDiffAnalysis: enriched,
	}, nil
}

// enrichedBody runs diff, extraction, narrative and composition. Any failure discards the chain and returns the
// static body.
func (s *PRService) enrichedBody(ctx context.Context, owner, repo string, params models.CreatePullRequestParams) (string, bool) {
	summary, err := s.summarize(ctx, owner, repo, params.Head, params.Base, params.Body)
	if err != nil {
		logger.Warn(ctx, "diff analysis failed, using static body", "error", err)
		return s.composer.StaticBody(params.Head, params.Base), false
	}
	return summary.Description, true
}

// GeneratePRSummary runs the enrichment pipeline without creating a PR. Only credential and validation errors are
// returned: a failed diff degrades to the static body, like a failed narrative degrades to templated text.
func (s *PRService) GeneratePRSummary(ctx context.Context, params models.PRSummaryParams) (*models.PRSummaryResult, error) {
	ctx = logger.With(ctx, "head", params.Head, "base", params.Base)

	if err := s.checkCredentials(); err != nil {
		return nil, err
	}
	owner, repo, err := s.resolveRepo(params.Owner, params.Repo)
	if err != nil {
		return nil, err
	}
	if err := requireFields(map[string]string{"head": params.Head, "base": params.Base}); err != nil {
		return nil, err
	}

	result, err := s.summarize(ctx, owner, repo, params.Head, params.Base, params.Body)
	if err != nil {
		logger.Warn(ctx, "diff analysis failed, using static body", "error", err)
		result = s.staticSummary(params.Head, params.Base)
	}
	result.Title = params.Title
	return result, nil
}

func (s *PRService) staticSummary(head, base string) *models.PRSummaryResult {
	return &models.PRSummaryResult{
		Head:        head,
		Base:        base,
		Description: s.composer.StaticBody(head, base),
		Tickets:     []string{},
		FigmaLinks:  []string{},
	}
}

func (s *PRService) summarize(ctx context.Context, owner, repo, head, base, customBody string) (*models.PRSummaryResult, error) {
	changes, err := s.vcsClient.CompareBranches(ctx, owner, repo, head, base)
	if err != nil {
		return nil, err
	}

	refs := s.extractor.ExtractFromAll(head, customBody)
	narrative := s.narrative.GenerateOrFallback(ctx, NarrativeInput{
		Head:          head,
		Base:          base,
		Changes:       changes,
		TicketRefs:    refs,
		CustomContext: customBody,
	})

	// the JIRA section only lists keys found in the summary text or the head branch
	ticketKeys := s.extractor.ExtractFromAll(narrative.Bundle.DetailedSummary, head)

	figmaLinks := []string{}
	if narrative.Ticket != nil && narrative.Ticket.Success {
		figmaLinks = narrative.Ticket.Ticket.FigmaLinks
	}

	description := s.composer.Compose(ComposeInput{
		Narrative:  narrative.Bundle,
		Changes:    changes,
		Tickets:    ticketKeys,
		FigmaLinks: figmaLinks,
	})

	logger.Debug(ctx, "description composed",
		"files", len(changes.Files),
		"tickets", len(ticketKeys),
		"ai_generated", narrative.Generated)

	return &models.PRSummaryResult{
		Head:         head,
		Base:         base,
		Description:  description,
		Tickets:      ticketKeys,
		FigmaLinks:   figmaLinks,
		FilesChanged: len(changes.Files),
		Stats:        changes.Stats,
		AIGenerated:  narrative.Generated,
	}, nil
}

func (s *PRService) checkCredentials() error {
	if !s.config.GitHub.Enabled() || s.vcsClient == nil {
		return domainErrors.ErrGitHubTokenMissing
	}
	return nil
}

func (s *PRService) resolveRepo(owner, repo string) (string, string, error) {
	return resolveRepo(s.config, owner, repo)
}

// withTitleSuffix appends the configured suffix once.
func (s *PRService) withTitleSuffix(title string) string {
	suffix := s.config.Pipeline.TitleSuffix
	if suffix == "" || strings.HasSuffix(title, suffix) {
		return title
	}
	return title + suffix
}

func (s *PRService) transition(ctx context.Context, state prState) {
	logger.Debug(ctx, "create pull request", "state", string(state))
}

func (s *PRService) fail(ctx context.Context, err error) {
	logger.Error(ctx, "create pull request", err, "state", string(stateFailed))
}

// FormatPullRequest renders the human readable form of a result. It reads only from result so both stay
// consistent.
func (s *PRService) FormatPullRequest(result *models.PullRequestResult) string {
	return formatPullRequest(s.trans, result)
}

func (s *PRService) FormatSummary(result *models.PRSummaryResult) string {
	return formatSummary(s.trans, result)
}

func resolveRepo(cfg *config.Config, owner, repo string) (string, string, error) {
	if owner == "" {
		owner = cfg.GitHub.Owner
	}
	if repo == "" {
		repo = cfg.GitHub.DefaultRepo
	}
	if owner == "" {
		return "", "", domainErrors.ErrOwnerMissing
	}
	if repo == "" {
		return "", "", domainErrors.ErrRepoRequired
	}
	return owner, repo, nil
}

func requireFields(fields map[string]string) error {
	for _, name := range []string{"title", "head", "base", "ticketId"} {
		if v, ok := fields[name]; ok && strings.TrimSpace(v) == "" {
			return domainErrors.ErrMissingField.WithContext("field", name).
				WithSuggestion("Provide a value for '" + name + "'")
		}
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
