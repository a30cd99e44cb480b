package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/JoshyLop/intranet-tickets-api/internal/domain"
	"github.com/JoshyLop/intranet-tickets-api/internal/events"
	"github.com/JoshyLop/intranet-tickets-api/internal/repository"
	"github.com/JoshyLop/intranet-tickets-api/internal/validation"
	"github.com/JoshyLop/intranet-tickets-api/pkg/apperrors"
)

// CommentService coordinates the comment thread on tickets.
type CommentService struct {
	comments   repository.CommentRepository
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
}

// CommentDependencies bundles repositories for the comment service.
type CommentDependencies struct {
	CommentRepo repository.CommentRepository
	TicketRepo  repository.TicketRepository
	Dispatcher  events.Dispatcher
}

// NewCommentService constructs the service.
func NewCommentService(deps CommentDependencies) *CommentService {
	return &CommentService{
		comments:   deps.CommentRepo,
		tickets:    deps.TicketRepo,
		dispatcher: deps.Dispatcher,
	}
}

// AttachmentInput describes attachment metadata supplied on create/update.
type AttachmentInput struct {
	StorageKey string
	FileName   string
	MimeType   string
	SizeBytes  int64
}

// CommentCreateInput describes comment creation payload. The author is never
// part of the input; it is forced to the caller.
type CommentCreateInput struct {
	TicketID   string
	Content    string
	IsInternal bool
	Attachment *AttachmentInput
}

// CommentUpdateInput describes a partial edit. Nil fields are unchanged.
type CommentUpdateInput struct {
	Content    *string
	IsInternal *bool
	Attachment *AttachmentInput
}

// CommentQuery describes list filtering.
type CommentQuery struct {
	TicketID   *string
	AuthorID   *string
	IsInternal *bool
	Search     *string
	Limit      int
	Offset     int
}

// Create adds a comment to an existing ticket, authored by the caller.
func (s *CommentService) Create(ctx context.Context, caller *domain.User, input CommentCreateInput) (*domain.Comment, error) {
	content, err := validation.CommentContent(input.Content)
	if err != nil {
		return nil, err
	}
	attachment, err := resolveAttachment(input.Attachment)
	if err != nil {
		return nil, err
	}

	if _, err := s.tickets.GetByID(ctx, input.TicketID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": input.TicketID})
		}
		return nil, apperrors.FromError(err)
	}

	comment := &domain.Comment{
		TicketID:   input.TicketID,
		AuthorID:   caller.ID,
		Content:    content,
		IsInternal: input.IsInternal,
		Attachment: attachment,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.FromError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventCommentAdded,
		TicketID: comment.TicketID,
		ActorID:  caller.ID,
		Payload: events.CommentAddedPayload{
			CommentID:      comment.ID,
			AuthorID:       comment.AuthorID,
			IsInternal:     comment.IsInternal,
			ContentPreview: preview(comment.Content, 120),
		},
	})
	return comment, nil
}

// Get fetches a single comment. For non-staff callers the internal-comment
// filter is part of the lookup itself, so a hidden comment reads as
// not-found rather than revealing its existence.
func (s *CommentService) Get(ctx context.Context, caller *domain.User, commentID string) (*domain.Comment, error) {
	return s.getComment(ctx, caller, commentID)
}

// List returns comments matching the query, oldest first. Non-staff callers
// never see internal comments whatever filters they request.
func (s *CommentService) List(ctx context.Context, caller *domain.User, query CommentQuery) ([]domain.Comment, error) {
	comments, err := s.comments.List(ctx, repository.CommentFilter{
		TicketID:        query.TicketID,
		AuthorID:        query.AuthorID,
		IsInternal:      query.IsInternal,
		Search:          query.Search,
		IncludeInternal: caller.HasStaffCapability(),
		Limit:           query.Limit,
		Offset:          query.Offset,
	})
	if err != nil {
		return nil, apperrors.FromError(err)
	}
	return comments, nil
}

// Update edits a comment. Only the author or staff may edit.
func (s *CommentService) Update(ctx context.Context, caller *domain.User, commentID string, input CommentUpdateInput) (*domain.Comment, error) {
	comment, err := s.getComment(ctx, caller, commentID)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != caller.ID && !caller.HasStaffCapability() {
		return nil, apperrors.NewForbidden("only the author or staff may edit this comment")
	}

	if input.Content != nil {
		content, err := validation.CommentContent(*input.Content)
		if err != nil {
			return nil, err
		}
		comment.Content = content
	}
	if input.IsInternal != nil {
		comment.IsInternal = *input.IsInternal
	}
	if input.Attachment != nil {
		attachment, err := resolveAttachment(input.Attachment)
		if err != nil {
			return nil, err
		}
		comment.Attachment = attachment
	}

	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, apperrors.FromError(err)
	}
	return comment, nil
}

// Delete removes a comment. Only the author or staff may delete; anyone else
// gets a permission error and the comment stays.
func (s *CommentService) Delete(ctx context.Context, caller *domain.User, commentID string) error {
	comment, err := s.getComment(ctx, caller, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != caller.ID && !caller.HasStaffCapability() {
		return apperrors.NewForbidden("only the author or staff may delete this comment")
	}
	if err := s.comments.Delete(ctx, comment.ID); err != nil {
		return apperrors.FromError(err)
	}
	return nil
}

func (s *CommentService) getComment(ctx context.Context, caller *domain.User, commentID string) (*domain.Comment, error) {
	comment, err := s.comments.GetByID(ctx, commentID, caller.HasStaffCapability())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("comment", map[string]any{"comment_id": commentID})
		}
		return nil, apperrors.FromError(err)
	}
	return comment, nil
}

func (s *CommentService) publish(ctx context.Context, event events.Event) {
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

func resolveAttachment(input *AttachmentInput) (*domain.AttachmentReference, error) {
	if input == nil {
		return nil, nil
	}
	if err := validation.Attachment(input.SizeBytes); err != nil {
		return nil, err
	}
	return &domain.AttachmentReference{
		StorageKey: input.StorageKey,
		FileName:   input.FileName,
		MimeType:   input.MimeType,
		SizeBytes:  input.SizeBytes,
	}, nil
}

// preview shortens content for event payloads, cutting on character
// boundaries so multibyte text is never split mid-rune.
func preview(body string, max int) string {
	body = strings.TrimSpace(body)
	runes := []rune(body)
	if len(runes) <= max {
		return body
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
