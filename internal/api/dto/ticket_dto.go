package dto

import (
	"time"

	"github.com/JoshyLop/intranet-tickets-api/internal/domain"
)

// CreateTicketRequest is the payload for filing a ticket. The creator and the
// initial status are never taken from the payload.
type CreateTicketRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Priority    string  `json:"priority"`
	AssignedTo  *string `json:"assigned_to"`
}

// UpdateTicketRequest is a partial edit. Absent fields stay unchanged; an
// empty assigned_to clears the assignee.
type UpdateTicketRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	AssignedTo  *string `json:"assigned_to"`
}

// TicketSummary is the list representation of a ticket.
type TicketSummary struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Status     string     `json:"status"`
	Priority   string     `json:"priority"`
	CreatedBy  string     `json:"created_by"`
	AssignedTo *string    `json:"assigned_to"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	ClosedAt   *time.Time `json:"closed_at"`
	DaysOpen   int        `json:"days_open"`
}

// TicketDetail is the single-ticket representation including the comment
// thread visible to the caller.
type TicketDetail struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      string            `json:"status"`
	Priority    string            `json:"priority"`
	CreatedBy   string            `json:"created_by"`
	AssignedTo  *string           `json:"assigned_to"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	ClosedAt    *time.Time        `json:"closed_at"`
	IsOpen      bool              `json:"is_open"`
	IsClosed    bool              `json:"is_closed"`
	DaysOpen    int               `json:"days_open"`
	Comments    []CommentResponse `json:"comments"`
}

// NewTicketSummary maps a domain ticket to its list representation.
func NewTicketSummary(ticket *domain.Ticket, now time.Time) TicketSummary {
	return TicketSummary{
		ID:         ticket.ID,
		Title:      ticket.Title,
		Status:     string(ticket.Status),
		Priority:   string(ticket.Priority),
		CreatedBy:  ticket.CreatedBy,
		AssignedTo: ticket.AssignedTo,
		CreatedAt:  ticket.CreatedAt,
		UpdatedAt:  ticket.UpdatedAt,
		ClosedAt:   ticket.ClosedAt,
		DaysOpen:   ticket.DaysOpen(now),
	}
}

// NewTicketSummaries maps a slice of tickets.
func NewTicketSummaries(tickets []domain.Ticket, now time.Time) []TicketSummary {
	summaries := make([]TicketSummary, 0, len(tickets))
	for i := range tickets {
		summaries = append(summaries, NewTicketSummary(&tickets[i], now))
	}
	return summaries
}

// NewTicketDetail maps a domain ticket plus its visible comments.
func NewTicketDetail(ticket *domain.Ticket, comments []domain.Comment, now time.Time) TicketDetail {
	return TicketDetail{
		ID:          ticket.ID,
		Title:       ticket.Title,
		Description: ticket.Description,
		Status:      string(ticket.Status),
		Priority:    string(ticket.Priority),
		CreatedBy:   ticket.CreatedBy,
		AssignedTo:  ticket.AssignedTo,
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
		ClosedAt:    ticket.ClosedAt,
		IsOpen:      ticket.IsOpen(),
		IsClosed:    ticket.IsClosed(),
		DaysOpen:    ticket.DaysOpen(now),
		Comments:    NewCommentResponses(comments),
	}
}
