package service

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/JoshyLop/intranet-tickets-api/internal/domain"
	"github.com/JoshyLop/intranet-tickets-api/internal/validation"
	"github.com/JoshyLop/intranet-tickets-api/pkg/apperrors"
)

func newCommentFixture(t *testing.T) (*CommentService, *domain.Ticket) {
	t.Helper()
	ticketRepo := newFakeTicketRepo()
	commentRepo := newFakeCommentRepo()

	ticketSvc := NewTicketService(TicketDependencies{
		TicketRepo:  ticketRepo,
		CommentRepo: commentRepo,
		UserRepo:    newFakeUserRepo(employee, agent, admin),
	})
	ticket := mustCreateTicket(t, ticketSvc, &employee)

	svc := NewCommentService(CommentDependencies{
		CommentRepo: commentRepo,
		TicketRepo:  ticketRepo,
	})
	return svc, ticket
}

func TestCommentCreate(t *testing.T) {
	svc, ticket := newCommentFixture(t)
	ctx := context.Background()

	comment, err := svc.Create(ctx, &employee, CommentCreateInput{
		TicketID: ticket.ID,
		Content:  "  Tried rebooting, no luck.  ",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if comment.AuthorID != employee.ID {
		t.Fatalf("author = %q, want the caller", comment.AuthorID)
	}
	if comment.Content != "Tried rebooting, no luck." {
		t.Fatalf("content not trimmed: %q", comment.Content)
	}
	if comment.IsEdited() {
		t.Fatal("fresh comment must not read as edited")
	}

	if _, err := svc.Create(ctx, &employee, CommentCreateInput{
		TicketID: ticket.ID,
		Content:  "ok",
	}); !apperrors.IsCode(err, "VALIDATION_FAILED") {
		t.Fatalf("two-character comment must fail validation, got %v", err)
	}

	if _, err := svc.Create(ctx, &employee, CommentCreateInput{
		TicketID: "ticket-404",
		Content:  "Commenting into the void.",
	}); !apperrors.IsCode(err, "NOT_FOUND") {
		t.Fatalf("comment on a missing ticket must be not found, got %v", err)
	}
}

func TestPreview(t *testing.T) {
	if got := preview("  short note  ", 120); got != "short note" {
		t.Fatalf("preview = %q", got)
	}

	long := strings.Repeat("ñ", 130)
	got := preview(long, 120)
	if !utf8.ValidString(got) {
		t.Fatalf("preview split a character: %q", got)
	}
	if got != strings.Repeat("ñ", 117)+"..." {
		t.Fatalf("preview = %q", got)
	}

	if got := preview("abc", 2); got != "ab" {
		t.Fatalf("tiny preview = %q", got)
	}
}

func TestCommentAttachmentCap(t *testing.T) {
	svc, ticket := newCommentFixture(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, &employee, CommentCreateInput{
		TicketID: ticket.ID,
		Content:  "Log file attached.",
		Attachment: &AttachmentInput{
			StorageKey: "blobs/log-1",
			FileName:   "vpn.log",
			MimeType:   "text/plain",
			SizeBytes:  validation.MaxAttachmentBytes + 1,
		},
	}); !apperrors.IsCode(err, "VALIDATION_FAILED") {
		t.Fatalf("oversized attachment must fail validation, got %v", err)
	}

	comment, err := svc.Create(ctx, &employee, CommentCreateInput{
		TicketID: ticket.ID,
		Content:  "Log file attached.",
		Attachment: &AttachmentInput{
			StorageKey: "blobs/log-1",
			FileName:   "vpn.log",
			MimeType:   "text/plain",
			SizeBytes:  2048,
		},
	})
	if err != nil {
		t.Fatalf("Create with attachment: %v", err)
	}
	if comment.Attachment == nil || comment.Attachment.FileName != "vpn.log" {
		t.Fatalf("attachment not stored: %+v", comment.Attachment)
	}
}

func TestInternalCommentVisibility(t *testing.T) {
	svc, ticket := newCommentFixture(t)
	ctx := context.Background()

	public, err := svc.Create(ctx, &employee, CommentCreateInput{
		TicketID: ticket.ID,
		Content:  "Anything I can try meanwhile?",
	})
	if err != nil {
		t.Fatalf("Create public: %v", err)
	}
	internal, err := svc.Create(ctx, &agent, CommentCreateInput{
		TicketID:   ticket.ID,
		Content:    "Known outage, see INC-2231.",
		IsInternal: true,
	})
	if err != nil {
		t.Fatalf("Create internal: %v", err)
	}

	visible, err := svc.List(ctx, &employee, CommentQuery{TicketID: &ticket.ID})
	if err != nil {
		t.Fatalf("List as employee: %v", err)
	}
	if len(visible) != 1 || visible[0].ID != public.ID {
		t.Fatalf("non-staff must see only public comments, got %v", visible)
	}

	all, err := svc.List(ctx, &agent, CommentQuery{TicketID: &ticket.ID})
	if err != nil {
		t.Fatalf("List as staff: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("staff must see both comments, got %d", len(all))
	}
	if !all[0].CreatedAt.Before(all[1].CreatedAt) {
		t.Fatal("comments must be ordered oldest first")
	}

	// A direct fetch of a hidden comment reads as not-found, not forbidden.
	if _, err := svc.Get(ctx, &employee, internal.ID); !apperrors.IsCode(err, "NOT_FOUND") {
		t.Fatalf("hidden comment fetch must be not found, got %v", err)
	}
	if _, err := svc.Get(ctx, &agent, internal.ID); err != nil {
		t.Fatalf("staff fetch of internal comment: %v", err)
	}
}

func TestCommentUpdatePermissions(t *testing.T) {
	svc, ticket := newCommentFixture(t)
	ctx := context.Background()

	comment, err := svc.Create(ctx, &employee, CommentCreateInput{
		TicketID: ticket.ID,
		Content:  "Original wording.",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	other := domain.User{ID: "user-other", Username: "pat"}
	revised := "Revised wording."
	if _, err := svc.Update(ctx, &other, comment.ID, CommentUpdateInput{Content: &revised}); !apperrors.IsCode(err, "FORBIDDEN") {
		t.Fatalf("non-author edit must be forbidden, got %v", err)
	}

	updated, err := svc.Update(ctx, &employee, comment.ID, CommentUpdateInput{Content: &revised})
	if err != nil {
		t.Fatalf("author Update: %v", err)
	}
	if updated.Content != revised {
		t.Fatalf("content = %q", updated.Content)
	}
	if !updated.IsEdited() {
		t.Fatal("edited comment must read as edited")
	}

	if _, err := svc.Update(ctx, &agent, comment.ID, CommentUpdateInput{Content: &revised}); err != nil {
		t.Fatalf("staff edit of another author's comment: %v", err)
	}
}

func TestCommentDeletePermissions(t *testing.T) {
	svc, ticket := newCommentFixture(t)
	ctx := context.Background()

	comment, err := svc.Create(ctx, &employee, CommentCreateInput{
		TicketID: ticket.ID,
		Content:  "Please remove this.",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	other := domain.User{ID: "user-other", Username: "pat"}
	if err := svc.Delete(ctx, &other, comment.ID); !apperrors.IsCode(err, "FORBIDDEN") {
		t.Fatalf("non-author delete must be forbidden, got %v", err)
	}
	if _, err := svc.Get(ctx, &employee, comment.ID); err != nil {
		t.Fatalf("comment must survive a forbidden delete: %v", err)
	}

	if err := svc.Delete(ctx, &employee, comment.ID); err != nil {
		t.Fatalf("author Delete: %v", err)
	}
	if _, err := svc.Get(ctx, &agent, comment.ID); !apperrors.IsCode(err, "NOT_FOUND") {
		t.Fatalf("deleted comment must be not found, got %v", err)
	}
}
