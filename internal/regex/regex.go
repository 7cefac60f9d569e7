package regex

import "regexp"

var (
	// Ticket and design link defaults; both can be overridden through configuration.
	TicketRef = regexp.MustCompile(`[A-Z][A-Z0-9]*-[0-9]+`)
	TicketID  = regexp.MustCompile(`^[A-Z][A-Z0-9]*-[0-9]+$`)
	FigmaLink = regexp.MustCompile(`https://(?:www\.)?figma\.com/(?:file|design)/[A-Za-z0-9]+/[^\s?]*`)

	// AI output cleanup
	MarkdownFence = regexp.MustCompile("(?s)^```(?:[a-z]+)?\n?(.*?)\n?```$")
	LeadingBullet = regexp.MustCompile(`^\s*(?:[-*•]|\d+\.)\s+`)
)
