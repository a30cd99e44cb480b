package dto

import (
	"time"

	"github.com/JoshyLop/intranet-tickets-api/internal/domain"
)

// AvatarRequest carries avatar metadata for a profile update.
type AvatarRequest struct {
	StorageKey string `json:"storage_key"`
	MimeType   string `json:"mime_type"`
	SizeBytes  int64  `json:"size_bytes"`
}

// CreateProfileRequest provisions a missing profile. user_id is optional and
// defaults to the caller.
type CreateProfileRequest struct {
	UserID string `json:"user_id"`
}

// UpdateProfileRequest is a partial profile edit.
type UpdateProfileRequest struct {
	Department     *string        `json:"department"`
	Phone          *string        `json:"phone"`
	IsSupportStaff *bool          `json:"is_support_staff"`
	Avatar         *AvatarRequest `json:"avatar"`
}

// AvatarResponse is the wire form of an avatar reference.
type AvatarResponse struct {
	StorageKey string `json:"storage_key"`
	MimeType   string `json:"mime_type"`
	SizeBytes  int64  `json:"size_bytes"`
}

// ProfileResponse is the wire form of a user profile.
type ProfileResponse struct {
	UserID         string          `json:"user_id"`
	Department     string          `json:"department"`
	Phone          string          `json:"phone"`
	Avatar         *AvatarResponse `json:"avatar"`
	IsSupportStaff bool            `json:"is_support_staff"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// NewProfileResponse maps a domain profile to its wire form.
func NewProfileResponse(profile *domain.UserProfile) ProfileResponse {
	response := ProfileResponse{
		UserID:         profile.UserID,
		Department:     profile.Department,
		Phone:          profile.Phone,
		IsSupportStaff: profile.IsSupportStaff,
		CreatedAt:      profile.CreatedAt,
		UpdatedAt:      profile.UpdatedAt,
	}
	if profile.Avatar != nil {
		response.Avatar = &AvatarResponse{
			StorageKey: profile.Avatar.StorageKey,
			MimeType:   profile.Avatar.MimeType,
			SizeBytes:  profile.Avatar.SizeBytes,
		}
	}
	return response
}

// NewProfileResponses maps a slice of profiles.
func NewProfileResponses(profiles []domain.UserProfile) []ProfileResponse {
	responses := make([]ProfileResponse, 0, len(profiles))
	for i := range profiles {
		responses = append(responses, NewProfileResponse(&profiles[i]))
	}
	return responses
}
