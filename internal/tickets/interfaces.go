package tickets

import (
	"context"

	"github.com/thomas-vilte/matepr/internal/models"
)

// TicketDetailProvider resolves a ticket key to its details. Implementations never fail: a lookup that could not be
// completed comes back with Success=false and a placeholder ticket.
type TicketDetailProvider interface {
	GetTicketDetails(ctx context.Context, ticketID string) models.TicketLookup
}

// TicketFetcher is the strict variant used where the caller wants the error.
type TicketFetcher interface {
	FetchTicket(ctx context.Context, ticketID string) (*models.TicketDetail, error)
}
