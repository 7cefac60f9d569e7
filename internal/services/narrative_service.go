package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/thomas-vilte/matepr/internal/ai"
	domainErrors "github.com/thomas-vilte/matepr/internal/errors"
	"github.com/thomas-vilte/matepr/internal/logger"
	"github.com/thomas-vilte/matepr/internal/models"
	"github.com/thomas-vilte/matepr/internal/tickets"
)

// NarrativeInput is everything the three narrative prompts are built from.
type NarrativeInput struct {
	Head          string
	Base          string
	Changes       *models.ChangeSet
	TicketRefs    []string
	CustomContext string
}

// NarrativeService writes the prose fragments of a PR description with a language model.
type NarrativeService struct {
	generator ai.TextGenerator
	tickets   tickets.TicketDetailProvider
	parallel  bool
}

type NarrativeOption func(*NarrativeService)

func WithNarrativeGenerator(g ai.TextGenerator) NarrativeOption {
	return func(s *NarrativeService) {
		s.generator = g
	}
}

func WithNarrativeTicketProvider(p tickets.TicketDetailProvider) NarrativeOption {
	return func(s *NarrativeService) {
		s.tickets = p
	}
}

// WithParallelDispatch sends the three prompts concurrently instead of one after another.
func WithParallelDispatch(parallel bool) NarrativeOption {
	return func(s *NarrativeService) {
		s.parallel = parallel
	}
}

func NewNarrativeService(opts ...NarrativeOption) *NarrativeService {
	s := &NarrativeService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate returns a fully generated bundle or the first error. It never returns partial text.
func (s *NarrativeService) Generate(ctx context.Context, in NarrativeInput) (models.NarrativeBundle, error) {
	return s.generate(ctx, in, s.lookupFirstTicket(ctx, in.TicketRefs))
}

// GenerateOrFallback applies the all-or-nothing policy: any failure yields the templated bundle.
func (s *NarrativeService) GenerateOrFallback(ctx context.Context, in NarrativeInput) models.NarrativeResult {
	log := logger.FromContext(ctx)
	lookup := s.lookupFirstTicket(ctx, in.TicketRefs)

	bundle, err := s.generate(ctx, in, lookup)
	if err != nil {
		log.Warn("narrative generation failed, using templated fallback", "error", err)
		return models.NarrativeResult{
			Bundle:    FallbackBundle(in.Changes),
			Generated: false,
			Ticket:    lookup,
		}
	}

	return models.NarrativeResult{Bundle: bundle, Generated: true, Ticket: lookup}
}

func (s *NarrativeService) lookupFirstTicket(ctx context.Context, refs []string) *models.TicketLookup {
	if len(refs) == 0 || s.tickets == nil {
		return nil
	}
	lookup := s.tickets.GetTicketDetails(ctx, refs[0])
	return &lookup
}

func (s *NarrativeService) generate(ctx context.Context, in NarrativeInput, lookup *models.TicketLookup) (models.NarrativeBundle, error) {
	if s.generator == nil {
		return models.NarrativeBundle{}, domainErrors.ErrLLMNotConfigured
	}

	data := buildPromptData(in, lookup)
	prompts := make([]string, len(ai.PromptKinds))
	for i, kind := range ai.PromptKinds {
		p, err := ai.NarrativePrompt(kind, data)
		if err != nil {
			return models.NarrativeBundle{}, domainErrors.NewAppError(domainErrors.TypeInternal, "error rendering prompt", err)
		}
		prompts[i] = p
	}

	log := logger.FromContext(ctx)
	log.Debug("generating narrative",
		"provider", s.generator.Name(),
		"model", s.generator.Model(),
		"parallel", s.parallel)

	var (
		answers []string
		err     error
	)
	if s.parallel {
		answers, err = s.dispatchParallel(ctx, prompts)
	} else {
		answers, err = s.dispatchSequential(ctx, prompts)
	}
	if err != nil {
		return models.NarrativeBundle{}, err
	}

	bundle := models.NarrativeBundle{
		DetailedSummary:   ai.CleanOutput(answers[0]),
		KeyChanges:        ai.NormalizeBullets(answers[1]),
		MotivationContext: ai.CleanOutput(answers[2]),
	}
	if bundle.DetailedSummary == "" || bundle.KeyChanges == "" || bundle.MotivationContext == "" {
		return models.NarrativeBundle{}, domainErrors.ErrInvalidAIOutput.WithContext("reason", "empty fragment")
	}
	return bundle, nil
}

func (s *NarrativeService) dispatchSequential(ctx context.Context, prompts []string) ([]string, error) {
	answers := make([]string, len(prompts))
	for i, p := range prompts {
		out, err := s.generator.Generate(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("%s prompt: %w", ai.PromptKinds[i], err)
		}
		answers[i] = out
	}
	return answers, nil
}

func (s *NarrativeService) dispatchParallel(ctx context.Context, prompts []string) ([]string, error) {
	answers := make([]string, len(prompts))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range prompts {
		g.Go(func() error {
			out, err := s.generator.Generate(gctx, p)
			if err != nil {
				return fmt.Errorf("%s prompt: %w", ai.PromptKinds[i], err)
			}
			answers[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return answers, nil
}

func buildPromptData(in NarrativeInput, lookup *models.TicketLookup) ai.PromptData {
	changes := in.Changes
	if changes == nil {
		changes = models.NewChangeSet(nil)
	}

	data := ai.PromptData{
		Head:          in.Head,
		Base:          in.Base,
		FilesChanged:  len(changes.Files),
		Additions:     changes.Stats.Additions,
		Deletions:     changes.Stats.Deletions,
		Net:           changes.Stats.Net(),
		CustomContext: strings.TrimSpace(in.CustomContext),
		Files:         FileSummaryLines(changes),
	}

	if lookup != nil {
		t := lookup.Ticket
		data.Ticket = &ai.TicketPromptData{Key: t.Key, Summary: t.Summary, KeyOnly: !lookup.Success}
		if lookup.Success {
			data.Ticket.Description = t.Description
			data.Ticket.Status = t.Status
			data.Ticket.Priority = t.Priority
			data.Ticket.Assignee = t.Assignee
			data.Ticket.IssueType = t.IssueType
			data.Ticket.Components = t.Components
			data.Ticket.Labels = t.Labels
			data.Ticket.DesignLinks = len(t.FigmaLinks)
		}
	}
	if len(in.TicketRefs) > 1 {
		data.OtherTickets = in.TicketRefs[1:]
	}

	return data
}

// FileSummaryLines renders one "filename (status, category): +a/-d" line per file.
func FileSummaryLines(changes *models.ChangeSet) []string {
	if changes == nil {
		return []string{}
	}
	lines := make([]string, 0, len(changes.Files))
	for _, f := range changes.Files {
		lines = append(lines, fmt.Sprintf("%s (%s, %s): +%d/-%d",
			f.Filename, f.Status, fileCategory(f.Filename), f.Additions, f.Deletions))
	}
	return lines
}

// FallbackBundle is the deterministic narrative built only from counts.
func FallbackBundle(changes *models.ChangeSet) models.NarrativeBundle {
	if changes == nil {
		changes = models.NewChangeSet(nil)
	}
	files := len(changes.Files)
	adds := changes.Stats.Additions
	dels := changes.Stats.Deletions

	return models.NarrativeBundle{
		DetailedSummary: fmt.Sprintf("This pull request changes %s with %s and %s.",
			plural(files, "file"), plural(adds, "addition"), plural(dels, "deletion")),
		KeyChanges: fmt.Sprintf("- Updated %s\n- Added %s and removed %s",
			plural(files, "file"), plural(adds, "line"), plural(dels, "line")),
		MotivationContext: fmt.Sprintf("The net change is %+d lines across %s. See the change analysis below for details.",
			changes.Stats.Net(), plural(files, "file")),
	}
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
