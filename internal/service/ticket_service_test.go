package service

import (
	"context"
	"testing"

	"github.com/JoshyLop/intranet-tickets-api/internal/domain"
	"github.com/JoshyLop/intranet-tickets-api/internal/events"
	"github.com/JoshyLop/intranet-tickets-api/pkg/apperrors"
)

var (
	employee = domain.User{ID: "user-employee", Username: "erin"}
	agent    = domain.User{ID: "user-agent", Username: "sam", IsStaff: true}
	admin    = domain.User{ID: "user-admin", Username: "root", IsStaff: true, IsAdmin: true}
)

func newTicketFixture() (*TicketService, *fakeTicketRepo, events.Dispatcher) {
	ticketRepo := newFakeTicketRepo()
	dispatcher := events.NewInMemoryDispatcher()
	svc := NewTicketService(TicketDependencies{
		TicketRepo:  ticketRepo,
		CommentRepo: newFakeCommentRepo(),
		UserRepo:    newFakeUserRepo(employee, agent, admin),
		Dispatcher:  dispatcher,
	})
	return svc, ticketRepo, dispatcher
}

func mustCreateTicket(t *testing.T, svc *TicketService, caller *domain.User) *domain.Ticket {
	t.Helper()
	ticket, err := svc.Create(context.Background(), caller, TicketCreateInput{
		Title:       "VPN keeps dropping",
		Description: "The VPN disconnects every few minutes since Monday.",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return ticket
}

func TestTicketLifecycle(t *testing.T) {
	svc, _, _ := newTicketFixture()
	ctx := context.Background()

	ticket := mustCreateTicket(t, svc, &employee)
	if ticket.Status != domain.TicketStatusOpen {
		t.Fatalf("new ticket status = %q, want OPEN", ticket.Status)
	}
	if ticket.ClosedAt != nil {
		t.Fatal("new ticket must have nil closed_at")
	}
	if ticket.CreatedBy != employee.ID {
		t.Fatalf("creator = %q, want the caller", ticket.CreatedBy)
	}
	if ticket.Priority != domain.TicketPriorityMedium {
		t.Fatalf("default priority = %q, want MEDIUM", ticket.Priority)
	}

	closed, err := svc.Close(ctx, &employee, ticket.ID)
	if err != nil {
		t.Fatalf("Close: %v", err)
	}
	if closed.Status != domain.TicketStatusClosed || closed.ClosedAt == nil {
		t.Fatalf("close must set CLOSED with closed_at, got %q %v", closed.Status, closed.ClosedAt)
	}

	if _, err := svc.Close(ctx, &employee, ticket.ID); !apperrors.IsCode(err, "CONFLICT") {
		t.Fatalf("closing a closed ticket must conflict, got %v", err)
	}

	// Non-staff may not reopen; the ticket stays closed.
	if _, err := svc.Reopen(ctx, &employee, ticket.ID); !apperrors.IsCode(err, "FORBIDDEN") {
		t.Fatalf("non-staff reopen must be forbidden, got %v", err)
	}
	current, _, err := svc.Get(ctx, &agent, ticket.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if current.Status != domain.TicketStatusClosed {
		t.Fatalf("status changed by a forbidden reopen: %q", current.Status)
	}

	reopened, err := svc.Reopen(ctx, &agent, ticket.ID)
	if err != nil {
		t.Fatalf("staff Reopen: %v", err)
	}
	if reopened.Status != domain.TicketStatusOpen || reopened.ClosedAt != nil {
		t.Fatalf("reopen must restore OPEN with nil closed_at, got %q %v", reopened.Status, reopened.ClosedAt)
	}

	if _, err := svc.Reopen(ctx, &agent, ticket.ID); !apperrors.IsCode(err, "CONFLICT") {
		t.Fatalf("reopening an open ticket must conflict, got %v", err)
	}
}

func TestTicketCreateValidation(t *testing.T) {
	svc, _, _ := newTicketFixture()
	ctx := context.Background()

	if _, err := svc.Create(ctx, &employee, TicketCreateInput{
		Title:       "VPN!",
		Description: "short",
	}); !apperrors.IsCode(err, "VALIDATION_FAILED") {
		t.Fatalf("short description must fail validation, got %v", err)
	}

	if _, err := svc.Create(ctx, &employee, TicketCreateInput{
		Title:       "help",
		Description: "The VPN disconnects every few minutes.",
	}); !apperrors.IsCode(err, "VALIDATION_FAILED") {
		t.Fatalf("four-character title must fail validation, got %v", err)
	}

	if _, err := svc.Create(ctx, &employee, TicketCreateInput{
		Title:       "VPN keeps dropping",
		Description: "The VPN disconnects every few minutes.",
		Priority:    "URGENT",
	}); !apperrors.IsCode(err, "VALIDATION_FAILED") {
		t.Fatalf("unknown priority must fail validation, got %v", err)
	}

	ghost := "user-ghost"
	if _, err := svc.Create(ctx, &employee, TicketCreateInput{
		Title:       "VPN keeps dropping",
		Description: "The VPN disconnects every few minutes.",
		AssignedTo:  &ghost,
	}); !apperrors.IsCode(err, "VALIDATION_FAILED") {
		t.Fatalf("unknown assignee must fail validation, got %v", err)
	}
}

func TestTicketUpdateReopenGate(t *testing.T) {
	svc, _, _ := newTicketFixture()
	ctx := context.Background()

	ticket := mustCreateTicket(t, svc, &employee)
	if _, err := svc.Close(ctx, &agent, ticket.ID); err != nil {
		t.Fatalf("Close: %v", err)
	}

	open := "OPEN"
	if _, err := svc.Update(ctx, &employee, ticket.ID, TicketUpdateInput{Status: &open}); !apperrors.IsCode(err, "FORBIDDEN") {
		t.Fatalf("leaving CLOSED via edit must be staff-gated, got %v", err)
	}

	updated, err := svc.Update(ctx, &agent, ticket.ID, TicketUpdateInput{Status: &open})
	if err != nil {
		t.Fatalf("staff Update: %v", err)
	}
	if updated.Status != domain.TicketStatusOpen || updated.ClosedAt != nil {
		t.Fatalf("edit-reopen must clear closed_at, got %q %v", updated.Status, updated.ClosedAt)
	}
}

func TestTicketUpdateClosesViaStatusEdit(t *testing.T) {
	svc, _, _ := newTicketFixture()
	ctx := context.Background()

	ticket := mustCreateTicket(t, svc, &employee)
	closed := "closed"
	updated, err := svc.Update(ctx, &employee, ticket.ID, TicketUpdateInput{Status: &closed})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != domain.TicketStatusClosed || updated.ClosedAt == nil {
		t.Fatalf("status edit to CLOSED must stamp closed_at, got %q %v", updated.Status, updated.ClosedAt)
	}
}

func TestTicketUpdateAssignee(t *testing.T) {
	svc, _, _ := newTicketFixture()
	ctx := context.Background()

	ticket := mustCreateTicket(t, svc, &employee)

	agentID := agent.ID
	updated, err := svc.Update(ctx, &employee, ticket.ID, TicketUpdateInput{AssignedTo: &agentID})
	if err != nil {
		t.Fatalf("Update assign: %v", err)
	}
	if updated.AssignedTo == nil || *updated.AssignedTo != agent.ID {
		t.Fatalf("assignee not set: %v", updated.AssignedTo)
	}

	empty := ""
	updated, err = svc.Update(ctx, &employee, ticket.ID, TicketUpdateInput{AssignedTo: &empty})
	if err != nil {
		t.Fatalf("Update unassign: %v", err)
	}
	if updated.AssignedTo != nil {
		t.Fatalf("empty assigned_to must clear the assignee, got %v", updated.AssignedTo)
	}
}

func TestTicketListFilters(t *testing.T) {
	svc, _, _ := newTicketFixture()
	ctx := context.Background()

	mine := mustCreateTicket(t, svc, &employee)
	other := mustCreateTicket(t, svc, &agent)
	if _, err := svc.Close(ctx, &agent, other.ID); err != nil {
		t.Fatalf("Close: %v", err)
	}

	mineList, err := svc.ListMine(ctx, &employee, TicketQuery{})
	if err != nil {
		t.Fatalf("ListMine: %v", err)
	}
	if len(mineList) != 1 || mineList[0].ID != mine.ID {
		t.Fatalf("ListMine = %v", mineList)
	}

	closedList, err := svc.List(ctx, TicketQuery{Statuses: []domain.TicketStatus{domain.TicketStatusClosed}})
	if err != nil {
		t.Fatalf("List closed: %v", err)
	}
	if len(closedList) != 1 || closedList[0].ID != other.ID {
		t.Fatalf("closed filter = %v", closedList)
	}

	if _, err := svc.List(ctx, TicketQuery{Ordering: "-bogus"}); !apperrors.IsCode(err, "VALIDATION_FAILED") {
		t.Fatalf("unsupported ordering must fail validation, got %v", err)
	}
}

func TestTicketDeleteAdminOnly(t *testing.T) {
	svc, repo, _ := newTicketFixture()
	ctx := context.Background()

	ticket := mustCreateTicket(t, svc, &employee)

	if err := svc.Delete(ctx, &agent, ticket.ID); !apperrors.IsCode(err, "FORBIDDEN") {
		t.Fatalf("non-admin delete must be forbidden, got %v", err)
	}
	if err := svc.Delete(ctx, &admin, ticket.ID); err != nil {
		t.Fatalf("admin Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, ticket.ID); err == nil {
		t.Fatal("ticket must be gone after delete")
	}
	if err := svc.Delete(ctx, &admin, ticket.ID); !apperrors.IsCode(err, "NOT_FOUND") {
		t.Fatalf("deleting a missing ticket must be not found, got %v", err)
	}
}

func TestTicketStatusChangeEvents(t *testing.T) {
	svc, _, dispatcher := newTicketFixture()
	ctx := context.Background()

	var seen []events.Event
	dispatcher.Subscribe(events.EventTicketStatusChanged, func(_ context.Context, event events.Event) error {
		seen = append(seen, event)
		return nil
	})

	ticket := mustCreateTicket(t, svc, &employee)
	if _, err := svc.Close(ctx, &employee, ticket.ID); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := svc.Reopen(ctx, &agent, ticket.ID); err != nil {
		t.Fatalf("Reopen: %v", err)
	}

	if len(seen) != 2 {
		t.Fatalf("expected 2 status-change events, got %d", len(seen))
	}
	first, ok := seen[0].Payload.(events.TicketStatusChangedPayload)
	if !ok {
		t.Fatalf("unexpected payload type %T", seen[0].Payload)
	}
	if first.OldStatus != domain.TicketStatusOpen || first.NewStatus != domain.TicketStatusClosed {
		t.Fatalf("first transition = %q -> %q", first.OldStatus, first.NewStatus)
	}
}

func TestTicketGetNotFound(t *testing.T) {
	svc, _, _ := newTicketFixture()
	if _, _, err := svc.Get(context.Background(), &employee, "ticket-404"); !apperrors.IsCode(err, "NOT_FOUND") {
		t.Fatalf("missing ticket must be not found, got %v", err)
	}
}
