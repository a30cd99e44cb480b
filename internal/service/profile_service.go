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

// ProfileService manages the helpdesk-specific extension of directory records.
type ProfileService struct {
	profiles   repository.ProfileRepository
	dispatcher events.Dispatcher
}

// NewProfileService constructs the service.
func NewProfileService(profiles repository.ProfileRepository, dispatcher events.Dispatcher) *ProfileService {
	return &ProfileService{profiles: profiles, dispatcher: dispatcher}
}

// AvatarInput describes avatar metadata supplied on update.
type AvatarInput struct {
	StorageKey string
	MimeType   string
	SizeBytes  int64
}

// ProfileUpdateInput describes a partial profile edit. Nil fields are unchanged.
type ProfileUpdateInput struct {
	Department     *string
	Phone          *string
	IsSupportStaff *bool
	Avatar         *AvatarInput
}

// ProfileQuery describes list filtering.
type ProfileQuery struct {
	IsSupportStaff *bool
	Department     *string
	Search         *string
	Limit          int
	Offset         int
}

// CreateProfileFor provisions the profile for a newly created directory
// record. Called explicitly from the registration workflow; there is no
// hidden signal coupling.
func (s *ProfileService) CreateProfileFor(ctx context.Context, userID string) (*domain.UserProfile, error) {
	profile := &domain.UserProfile{UserID: userID}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, apperrors.FromError(err)
	}
	s.publish(ctx, events.Event{
		Type:    events.EventProfileCreated,
		ActorID: userID,
		Payload: events.ProfileCreatedPayload{UserID: userID},
	})
	return profile, nil
}

// CreateFor creates a profile over the API. A caller may provision only their
// own missing profile; administrators may provision for anyone.
func (s *ProfileService) CreateFor(ctx context.Context, caller *domain.User, userID string) (*domain.UserProfile, error) {
	if userID == "" {
		userID = caller.ID
	}
	if userID != caller.ID && !caller.IsAdmin {
		return nil, apperrors.NewForbidden("only administrators may create profiles for other users")
	}
	if _, err := s.profiles.GetByUser(ctx, userID); err == nil {
		return nil, apperrors.NewConflict("profile already exists", map[string]any{"user_id": userID})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.FromError(err)
	}
	return s.CreateProfileFor(ctx, userID)
}

// Me returns the caller's own profile.
func (s *ProfileService) Me(ctx context.Context, caller *domain.User) (*domain.UserProfile, error) {
	return s.Get(ctx, caller.ID)
}

// Get fetches a profile by user id.
func (s *ProfileService) Get(ctx context.Context, userID string) (*domain.UserProfile, error) {
	profile, err := s.profiles.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("profile", map[string]any{"user_id": userID})
		}
		return nil, apperrors.FromError(err)
	}
	return profile, nil
}

// List returns profiles matching the query.
func (s *ProfileService) List(ctx context.Context, query ProfileQuery) ([]domain.UserProfile, error) {
	profiles, err := s.profiles.List(ctx, repository.ProfileFilter{
		IsSupportStaff: query.IsSupportStaff,
		Department:     query.Department,
		Search:         query.Search,
		Limit:          query.Limit,
		Offset:         query.Offset,
	})
	if err != nil {
		return nil, apperrors.FromError(err)
	}
	return profiles, nil
}

// Update edits a profile. Only the owner or an administrator may edit.
func (s *ProfileService) Update(ctx context.Context, caller *domain.User, userID string, input ProfileUpdateInput) (*domain.UserProfile, error) {
	if userID != caller.ID && !caller.IsAdmin {
		return nil, apperrors.NewForbidden("only the owner or an administrator may edit this profile")
	}
	profile, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Department != nil {
		profile.Department = *input.Department
	}
	if input.Phone != nil {
		profile.Phone = *input.Phone
	}
	if input.IsSupportStaff != nil {
		profile.IsSupportStaff = *input.IsSupportStaff
	}
	if input.Avatar != nil {
		if err := validation.Avatar(input.Avatar.MimeType, input.Avatar.SizeBytes); err != nil {
			return nil, err
		}
		profile.Avatar = &domain.AvatarReference{
			StorageKey: input.Avatar.StorageKey,
			MimeType:   input.Avatar.MimeType,
			SizeBytes:  input.Avatar.SizeBytes,
		}
	}

	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, apperrors.FromError(err)
	}
	return profile, nil
}

// Delete removes a profile. Administrators only; profiles otherwise live as
// long as their directory record.
func (s *ProfileService) Delete(ctx context.Context, caller *domain.User, userID string) error {
	if !caller.IsAdmin {
		return apperrors.NewForbidden("only administrators may delete profiles")
	}
	if err := s.profiles.Delete(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("profile", map[string]any{"user_id": userID})
		}
		return apperrors.FromError(err)
	}
	return nil
}

func (s *ProfileService) publish(ctx context.Context, event events.Event) {
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
