package domain

import "time"

// Comment is a message attached to a ticket. Internal comments are visible to
// staff only.
type Comment struct {
	ID         string
	TicketID   string
	AuthorID   string
	Content    string
	IsInternal bool
	Attachment *AttachmentReference
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// AttachmentReference stores metadata for a comment attachment. The bytes live
// in an external blob store; only the reference is persisted.
type AttachmentReference struct {
	StorageKey string
	FileName   string
	MimeType   string
	SizeBytes  int64
}

// IsEdited reports whether the comment was modified after creation.
func (c *Comment) IsEdited() bool {
	return c.UpdatedAt.After(c.CreatedAt)
}
