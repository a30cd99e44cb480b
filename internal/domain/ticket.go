package domain

import (
	"fmt"
	"strings"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityHigh   TicketPriority = "HIGH"
)

// ParseTicketStatus normalizes a client-supplied status value.
func ParseTicketStatus(raw string) (TicketStatus, error) {
	switch TicketStatus(strings.ToUpper(strings.TrimSpace(raw))) {
	case TicketStatusOpen:
		return TicketStatusOpen, nil
	case TicketStatusInProgress:
		return TicketStatusInProgress, nil
	case TicketStatusClosed:
		return TicketStatusClosed, nil
	}
	return "", fmt.Errorf("unknown ticket status %q", raw)
}

// ParseTicketPriority normalizes a client-supplied priority value.
func ParseTicketPriority(raw string) (TicketPriority, error) {
	switch TicketPriority(strings.ToUpper(strings.TrimSpace(raw))) {
	case TicketPriorityLow:
		return TicketPriorityLow, nil
	case TicketPriorityMedium:
		return TicketPriorityMedium, nil
	case TicketPriorityHigh:
		return TicketPriorityHigh, nil
	}
	return "", fmt.Errorf("unknown ticket priority %q", raw)
}

// Rank orders priorities for sorting, highest first.
func (p TicketPriority) Rank() int {
	switch p {
	case TicketPriorityHigh:
		return 3
	case TicketPriorityMedium:
		return 2
	case TicketPriorityLow:
		return 1
	}
	return 0
}

// Ticket is the aggregate for helpdesk requests.
type Ticket struct {
	ID          string
	Title       string
	Description string
	Status      TicketStatus
	Priority    TicketPriority
	CreatedBy   string
	AssignedTo  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ClosedAt    *time.Time
}

// IsOpen reports whether the ticket is still being worked (OPEN or IN_PROGRESS).
func (t *Ticket) IsOpen() bool {
	return t.Status == TicketStatusOpen || t.Status == TicketStatusInProgress
}

// IsClosed reports whether the ticket is closed.
func (t *Ticket) IsClosed() bool {
	return t.Status == TicketStatusClosed
}

// DaysOpen returns whole days between creation and closure, or now while open.
func (t *Ticket) DaysOpen(now time.Time) int {
	end := now
	if t.ClosedAt != nil {
		end = *t.ClosedAt
	}
	return int(end.Sub(t.CreatedAt).Hours() / 24)
}

// NormalizeClosedAt enforces the closed_at invariant before every persist:
// closed_at is set exactly when status is CLOSED, regardless of which code
// path changed the status.
func (t *Ticket) NormalizeClosedAt(now time.Time) {
	if t.Status == TicketStatusClosed {
		if t.ClosedAt == nil {
			closed := now
			t.ClosedAt = &closed
		}
		return
	}
	t.ClosedAt = nil
}
