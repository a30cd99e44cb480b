package domain

import "time"

// UserProfile extends a directory record with helpdesk-specific attributes.
// Exactly one profile exists per user; it is provisioned when the user is
// created and lives as long as the user does.
type UserProfile struct {
	UserID         string
	Department     string
	Phone          string
	Avatar         *AvatarReference
	IsSupportStaff bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AvatarReference stores metadata for a profile image kept in the blob store.
type AvatarReference struct {
	StorageKey string
	MimeType   string
	SizeBytes  int64
}
