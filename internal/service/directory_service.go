package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/JoshyLop/intranet-tickets-api/internal/domain"
	"github.com/JoshyLop/intranet-tickets-api/internal/repository"
	"github.com/JoshyLop/intranet-tickets-api/pkg/apperrors"
)

// DirectoryService exposes read-only access to the user directory.
type DirectoryService struct {
	users repository.UserRepository
}

// NewDirectoryService constructs the service.
func NewDirectoryService(users repository.UserRepository) *DirectoryService {
	return &DirectoryService{users: users}
}

// UserQuery describes directory listing parameters.
type UserQuery struct {
	Search *string
	Limit  int
	Offset int
}

// List returns directory records ordered by username.
func (s *DirectoryService) List(ctx context.Context, query UserQuery) ([]domain.User, error) {
	users, err := s.users.List(ctx, repository.UserFilter{
		Search: query.Search,
		Limit:  query.Limit,
		Offset: query.Offset,
	})
	if err != nil {
		return nil, apperrors.FromError(err)
	}
	return users, nil
}

// Get fetches a single directory record.
func (s *DirectoryService) Get(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.FromError(err)
	}
	return user, nil
}
