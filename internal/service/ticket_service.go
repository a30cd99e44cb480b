package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/JoshyLop/intranet-tickets-api/internal/domain"
	"github.com/JoshyLop/intranet-tickets-api/internal/events"
	"github.com/JoshyLop/intranet-tickets-api/internal/repository"
	"github.com/JoshyLop/intranet-tickets-api/internal/validation"
	"github.com/JoshyLop/intranet-tickets-api/pkg/apperrors"
)

// TicketService coordinates the ticket lifecycle. Caller identity is always
// passed explicitly; there is no ambient request user.
type TicketService struct {
	tickets    repository.TicketRepository
	comments   repository.CommentRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// TicketDependencies bundles repositories for the ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	CommentRepo repository.CommentRepository
	UserRepo    repository.UserRepository
	Dispatcher  events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		comments:   deps.CommentRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
	}
}

// TicketCreateInput describes ticket creation payload. Creator and status are
// never part of the input; both are forced server-side.
type TicketCreateInput struct {
	Title       string
	Description string
	Priority    string
	AssignedTo  *string
}

// TicketUpdateInput describes a partial update. Nil fields are unchanged.
// An empty AssignedTo clears the assignee. id, created_at, closed_at and the
// creator are not representable here and therefore cannot be overwritten.
type TicketUpdateInput struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	AssignedTo  *string
}

// TicketQuery describes list filtering and ordering.
type TicketQuery struct {
	Statuses   []domain.TicketStatus
	Priorities []domain.TicketPriority
	CreatedBy  *string
	AssignedTo *string
	Search     *string
	Ordering   string
	Limit      int
	Offset     int
}

// Create files a new ticket. The creator is always the caller and the initial
// status is always OPEN, regardless of any client-supplied values.
func (s *TicketService) Create(ctx context.Context, caller *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	title, err := validation.Title(input.Title)
	if err != nil {
		return nil, err
	}
	description, err := validation.Description(input.Description)
	if err != nil {
		return nil, err
	}

	priority := domain.TicketPriorityMedium
	if input.Priority != "" {
		priority, err = domain.ParseTicketPriority(input.Priority)
		if err != nil {
			return nil, apperrors.NewValidation("invalid priority", map[string]any{"field": "priority"})
		}
	}

	assignedTo, err := s.resolveAssignee(ctx, input.AssignedTo)
	if err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		Title:       title,
		Description: description,
		Status:      domain.TicketStatusOpen,
		Priority:    priority,
		CreatedBy:   caller.ID,
		AssignedTo:  assignedTo,
	}
	ticket.NormalizeClosedAt(time.Now())

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.FromError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		ActorID:  caller.ID,
		Payload: events.TicketCreatedPayload{
			Title:    ticket.Title,
			Priority: ticket.Priority,
		},
	})
	return ticket, nil
}

// List returns tickets matching the query.
func (s *TicketService) List(ctx context.Context, query TicketQuery) ([]domain.Ticket, error) {
	if !repository.TicketOrderingValid(query.Ordering) {
		return nil, apperrors.NewValidation("unsupported ordering", map[string]any{"field": "ordering"})
	}
	tickets, err := s.tickets.List(ctx, repository.TicketFilter{
		Statuses:   query.Statuses,
		Priorities: query.Priorities,
		CreatedBy:  query.CreatedBy,
		AssignedTo: query.AssignedTo,
		Search:     query.Search,
		Ordering:   query.Ordering,
		Limit:      query.Limit,
		Offset:     query.Offset,
	})
	if err != nil {
		return nil, apperrors.FromError(err)
	}
	return tickets, nil
}

// ListMine returns tickets created by the caller.
func (s *TicketService) ListMine(ctx context.Context, caller *domain.User, query TicketQuery) ([]domain.Ticket, error) {
	query.CreatedBy = &caller.ID
	return s.List(ctx, query)
}

// ListAssignedToMe returns tickets assigned to the caller.
func (s *TicketService) ListAssignedToMe(ctx context.Context, caller *domain.User, query TicketQuery) ([]domain.Ticket, error) {
	query.AssignedTo = &caller.ID
	return s.List(ctx, query)
}

// Get fetches a ticket with its comment thread. Internal comments are visible
// only when the caller has the staff capability.
func (s *TicketService) Get(ctx context.Context, caller *domain.User, ticketID string) (*domain.Ticket, []domain.Comment, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, nil, err
	}
	comments, err := s.comments.ListByTicket(ctx, ticket.ID, caller.HasStaffCapability())
	if err != nil {
		return nil, nil, apperrors.FromError(err)
	}
	return ticket, comments, nil
}

// Update applies a partial edit. The closed_at invariant is re-established
// before persisting no matter which fields changed, and leaving the CLOSED
// state through a direct status edit is gated exactly like the reopen action.
func (s *TicketService) Update(ctx context.Context, caller *domain.User, ticketID string, input TicketUpdateInput) (*domain.Ticket, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	oldStatus := ticket.Status
	oldAssignee := ticket.AssignedTo

	if input.Title != nil {
		title, err := validation.Title(*input.Title)
		if err != nil {
			return nil, err
		}
		ticket.Title = title
	}
	if input.Description != nil {
		description, err := validation.Description(*input.Description)
		if err != nil {
			return nil, err
		}
		ticket.Description = description
	}
	if input.Priority != nil {
		priority, err := domain.ParseTicketPriority(*input.Priority)
		if err != nil {
			return nil, apperrors.NewValidation("invalid priority", map[string]any{"field": "priority"})
		}
		ticket.Priority = priority
	}
	if input.Status != nil {
		status, err := domain.ParseTicketStatus(*input.Status)
		if err != nil {
			return nil, apperrors.NewValidation("invalid status", map[string]any{"field": "status"})
		}
		if oldStatus == domain.TicketStatusClosed && status != domain.TicketStatusClosed && !caller.HasStaffCapability() {
			return nil, apperrors.NewForbidden("only staff may reopen a closed ticket")
		}
		ticket.Status = status
	}
	if input.AssignedTo != nil {
		if *input.AssignedTo == "" {
			ticket.AssignedTo = nil
		} else {
			assignee, err := s.resolveAssignee(ctx, input.AssignedTo)
			if err != nil {
				return nil, err
			}
			ticket.AssignedTo = assignee
		}
	}

	ticket.NormalizeClosedAt(time.Now())
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.FromError(err)
	}

	if ticket.Status != oldStatus {
		s.publishStatusChange(ctx, caller.ID, ticket, oldStatus)
	}
	if !assigneesEqual(oldAssignee, ticket.AssignedTo) {
		s.publish(ctx, events.Event{
			Type:     events.EventTicketAssigned,
			TicketID: ticket.ID,
			ActorID:  caller.ID,
			Payload:  events.TicketAssignedPayload{AssignedTo: ticket.AssignedTo},
		})
	}
	return ticket, nil
}

// Close transitions the ticket to CLOSED. Closing an already closed ticket is
// a no-op conflict.
func (s *TicketService) Close(ctx context.Context, caller *domain.User, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.IsClosed() {
		return nil, apperrors.NewConflict("ticket already closed", map[string]any{"ticket_id": ticket.ID})
	}

	oldStatus := ticket.Status
	ticket.Status = domain.TicketStatusClosed
	ticket.NormalizeClosedAt(time.Now())
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.FromError(err)
	}
	s.publishStatusChange(ctx, caller.ID, ticket, oldStatus)
	return ticket, nil
}

// Reopen transitions a closed ticket back to OPEN. Requires the staff
// capability; reopening a ticket that is not closed is a no-op conflict.
func (s *TicketService) Reopen(ctx context.Context, caller *domain.User, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.getTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !caller.HasStaffCapability() {
		return nil, apperrors.NewForbidden("only staff may reopen a closed ticket")
	}
	if !ticket.IsClosed() {
		return nil, apperrors.NewConflict("ticket not closed", map[string]any{"ticket_id": ticket.ID})
	}

	oldStatus := ticket.Status
	ticket.Status = domain.TicketStatusOpen
	ticket.NormalizeClosedAt(time.Now())
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.FromError(err)
	}
	s.publishStatusChange(ctx, caller.ID, ticket, oldStatus)
	return ticket, nil
}

// Delete removes a ticket and, via the storage cascade, its comments.
// Administrators only.
func (s *TicketService) Delete(ctx context.Context, caller *domain.User, ticketID string) error {
	if !caller.IsAdmin {
		return apperrors.NewForbidden("only administrators may delete tickets")
	}
	if err := s.tickets.Delete(ctx, ticketID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return apperrors.FromError(err)
	}
	return nil
}

func (s *TicketService) getTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.FromError(err)
	}
	return ticket, nil
}

func (s *TicketService) resolveAssignee(ctx context.Context, assignedTo *string) (*string, error) {
	if assignedTo == nil || *assignedTo == "" {
		return nil, nil
	}
	assignee, err := s.users.GetByID(ctx, *assignedTo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewValidation("assignee does not exist", map[string]any{"field": "assigned_to"})
		}
		return nil, apperrors.FromError(err)
	}
	return &assignee.ID, nil
}

func (s *TicketService) publishStatusChange(ctx context.Context, actorID string, ticket *domain.Ticket, oldStatus domain.TicketStatus) {
	s.publish(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		ActorID:  actorID,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: ticket.Status,
		},
	})
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func assigneesEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
