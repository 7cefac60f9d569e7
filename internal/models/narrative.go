package models

// NarrativeBundle holds the three prose fragments of a PR description. A bundle is either fully generated or
// fully templated, never a mix.
type NarrativeBundle struct {
	DetailedSummary   string `json:"detailedSummary"`
	KeyChanges        string `json:"keyChanges"`
	MotivationContext string `json:"motivationContext"`
}

// NarrativeResult tells the caller which of the two bundle kinds it got.
type NarrativeResult struct {
	Bundle    NarrativeBundle
	Generated bool
	// Tickets is the first-ticket lookup used as context, nil when no ticket was referenced.
	Ticket *TicketLookup
}
