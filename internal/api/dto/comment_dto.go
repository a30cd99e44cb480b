package dto

import (
	"time"

	"github.com/JoshyLop/intranet-tickets-api/internal/domain"
)

// AttachmentRequest carries attachment metadata; the bytes live in the blob
// store and are referenced by storage key.
type AttachmentRequest struct {
	StorageKey string `json:"storage_key"`
	FileName   string `json:"file_name"`
	MimeType   string `json:"mime_type"`
	SizeBytes  int64  `json:"size_bytes"`
}

// CreateCommentRequest is the payload for adding a comment. The author is
// never taken from the payload.
type CreateCommentRequest struct {
	TicketID   string             `json:"ticket_id"`
	Content    string             `json:"content"`
	IsInternal bool               `json:"is_internal"`
	Attachment *AttachmentRequest `json:"attachment"`
}

// UpdateCommentRequest is a partial edit. Absent fields stay unchanged.
type UpdateCommentRequest struct {
	Content    *string            `json:"content"`
	IsInternal *bool              `json:"is_internal"`
	Attachment *AttachmentRequest `json:"attachment"`
}

// AttachmentResponse is the wire form of an attachment reference.
type AttachmentResponse struct {
	StorageKey string `json:"storage_key"`
	FileName   string `json:"file_name"`
	MimeType   string `json:"mime_type"`
	SizeBytes  int64  `json:"size_bytes"`
}

// CommentResponse is the wire form of a comment.
type CommentResponse struct {
	ID         string              `json:"id"`
	TicketID   string              `json:"ticket_id"`
	AuthorID   string              `json:"author_id"`
	Content    string              `json:"content"`
	IsInternal bool                `json:"is_internal"`
	Attachment *AttachmentResponse `json:"attachment"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
	IsEdited   bool                `json:"is_edited"`
}

// NewCommentResponse maps a domain comment to its wire form.
func NewCommentResponse(comment *domain.Comment) CommentResponse {
	response := CommentResponse{
		ID:         comment.ID,
		TicketID:   comment.TicketID,
		AuthorID:   comment.AuthorID,
		Content:    comment.Content,
		IsInternal: comment.IsInternal,
		CreatedAt:  comment.CreatedAt,
		UpdatedAt:  comment.UpdatedAt,
		IsEdited:   comment.IsEdited(),
	}
	if comment.Attachment != nil {
		response.Attachment = &AttachmentResponse{
			StorageKey: comment.Attachment.StorageKey,
			FileName:   comment.Attachment.FileName,
			MimeType:   comment.Attachment.MimeType,
			SizeBytes:  comment.Attachment.SizeBytes,
		}
	}
	return response
}

// NewCommentResponses maps a slice of comments.
func NewCommentResponses(comments []domain.Comment) []CommentResponse {
	responses := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		responses = append(responses, NewCommentResponse(&comments[i]))
	}
	return responses
}
