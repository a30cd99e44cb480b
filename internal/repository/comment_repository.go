package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JoshyLop/intranet-tickets-api/internal/domain"
)

// CommentFilter captures comment list parameters. When IncludeInternal is
// false the internal-comment clause is compiled into the query, so hidden
// comments never reach the caller in any form.
type CommentFilter struct {
	TicketID        *string
	AuthorID        *string
	IsInternal      *bool
	Search          *string
	IncludeInternal bool
	Limit           int
	Offset          int
}

// CommentRepository manages comment persistence.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	Update(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id string, includeInternal bool) (*domain.Comment, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter CommentFilter) ([]domain.Comment, error)
	ListByTicket(ctx context.Context, ticketID string, includeInternal bool) ([]domain.Comment, error)
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository builds repository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

const commentColumns = `id, ticket_id, author_id, content, is_internal,
       attachment_key, attachment_name, attachment_mime, attachment_size,
       created_at, updated_at`

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	const query = `
        INSERT INTO comments (ticket_id, author_id, content, is_internal,
            attachment_key, attachment_name, attachment_mime, attachment_size)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	key, name, mime, size := attachmentColumns(comment.Attachment)
	return r.pool.QueryRow(ctx, query,
		comment.TicketID,
		comment.AuthorID,
		comment.Content,
		comment.IsInternal,
		key, name, mime, size,
	).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
}

func (r *commentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	const query = `
        UPDATE comments SET content=$1, is_internal=$2,
            attachment_key=$3, attachment_name=$4, attachment_mime=$5, attachment_size=$6,
            updated_at=NOW()
        WHERE id=$7
        RETURNING updated_at`
	key, name, mime, size := attachmentColumns(comment.Attachment)
	return r.pool.QueryRow(ctx, query,
		comment.Content,
		comment.IsInternal,
		key, name, mime, size,
		comment.ID,
	).Scan(&comment.UpdatedAt)
}

// GetByID fetches a comment. For callers without the staff capability the
// internal-comment clause is part of the lookup, so a hidden comment scans
// zero rows and reads as not-found rather than forbidden.
func (r *commentRepository) GetByID(ctx context.Context, id string, includeInternal bool) (*domain.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE id=$1`
	if !includeInternal {
		query += ` AND is_internal=FALSE`
	}
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	comments, err := scanComments(rows)
	if err != nil {
		return nil, err
	}
	if len(comments) == 0 {
		return nil, pgx.ErrNoRows
	}
	return &comments[0], nil
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM comments WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *commentRepository) List(ctx context.Context, filter CommentFilter) ([]domain.Comment, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.TicketID != nil {
		args = append(args, *filter.TicketID)
		clauses = append(clauses, fmt.Sprintf("ticket_id=$%d", len(args)))
	}
	if filter.AuthorID != nil {
		args = append(args, *filter.AuthorID)
		clauses = append(clauses, fmt.Sprintf("author_id=$%d", len(args)))
	}
	if filter.IsInternal != nil {
		args = append(args, *filter.IsInternal)
		clauses = append(clauses, fmt.Sprintf("is_internal=$%d", len(args)))
	}
	if !filter.IncludeInternal {
		clauses = append(clauses, "is_internal=FALSE")
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.Search)) + "%"
		args = append(args, search)
		clauses = append(clauses, fmt.Sprintf("LOWER(content) LIKE $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	// Comments are always returned oldest first.
	query := fmt.Sprintf(`SELECT %s FROM comments WHERE %s ORDER BY created_at ASC LIMIT %d OFFSET %d`,
		commentColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComments(rows)
}

func (r *commentRepository) ListByTicket(ctx context.Context, ticketID string, includeInternal bool) ([]domain.Comment, error) {
	return r.List(ctx, CommentFilter{
		TicketID:        &ticketID,
		IncludeInternal: includeInternal,
		Limit:           1000,
	})
}

func attachmentColumns(att *domain.AttachmentReference) (key, name, mime *string, size *int64) {
	if att == nil {
		return nil, nil, nil, nil
	}
	return &att.StorageKey, &att.FileName, &att.MimeType, &att.SizeBytes
}

func scanComments(rows pgx.Rows) ([]domain.Comment, error) {
	var result []domain.Comment
	for rows.Next() {
		var comment domain.Comment
		var key, name, mime *string
		var size *int64
		if err := rows.Scan(
			&comment.ID,
			&comment.TicketID,
			&comment.AuthorID,
			&comment.Content,
			&comment.IsInternal,
			&key, &name, &mime, &size,
			&comment.CreatedAt,
			&comment.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if key != nil {
			comment.Attachment = &domain.AttachmentReference{
				StorageKey: *key,
				FileName:   deref(name),
				MimeType:   deref(mime),
				SizeBytes:  derefInt64(size),
			}
		}
		result = append(result, comment)
	}
	return result, rows.Err()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt64(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}
