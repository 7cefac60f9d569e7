package services

import (
	"context"
	"strings"

	"github.com/thomas-vilte/matepr/internal/config"
	domainErrors "github.com/thomas-vilte/matepr/internal/errors"
	"github.com/thomas-vilte/matepr/internal/i18n"
	"github.com/thomas-vilte/matepr/internal/models"
	"github.com/thomas-vilte/matepr/internal/tickets"
)

type TicketService struct {
	provider  tickets.TicketDetailProvider
	extractor *tickets.Extractor
	config    *config.Config
	trans     *i18n.Translations
}

func NewTicketService(provider tickets.TicketDetailProvider, cfg *config.Config, trans *i18n.Translations) *TicketService {
	if cfg == nil {
		cfg = &config.Config{}
	}
	if trans == nil {
		trans = defaultTranslations(cfg)
	}
	// Validate already rejects a pattern that does not compile
	extractor, err := tickets.NewExtractor(cfg.Pipeline.TicketPattern)
	if err != nil {
		extractor = tickets.DefaultExtractor()
	}
	return &TicketService{provider: provider, extractor: extractor, config: cfg, trans: trans}
}

// GetTicketDetails validates the key and looks it up. Fetch failures come back as an unsuccessful lookup, not as
// an error.
func (s *TicketService) GetTicketDetails(ctx context.Context, ticketID string) (*models.TicketLookup, error) {
	ticketID = strings.TrimSpace(ticketID)
	if err := requireFields(map[string]string{"ticketId": ticketID}); err != nil {
		return nil, err
	}
	if !s.extractor.IsTicketID(ticketID) {
		return nil, domainErrors.ErrInvalidTicketID.WithContext("ticketId", ticketID)
	}
	if !s.config.Jira.Enabled() || s.provider == nil {
		return nil, domainErrors.ErrJiraNotConfigured
	}

	lookup := s.provider.GetTicketDetails(ctx, ticketID)
	return &lookup, nil
}

func (s *TicketService) FormatTicket(lookup *models.TicketLookup) string {
	return formatTicket(s.trans, *lookup)
}
