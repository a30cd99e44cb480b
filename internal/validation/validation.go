package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/JoshyLop/intranet-tickets-api/pkg/apperrors"
)

// Field length minimums and upload caps.
const (
	MinTitleLength       = 5
	MinDescriptionLength = 10
	MinCommentLength     = 3

	MaxAttachmentBytes = 10 << 20
	MaxAvatarBytes     = 5 << 20
)

var allowedAvatarMimeTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

// Title trims and validates a ticket title.
func Title(raw string) (string, error) {
	return minLength("title", raw, MinTitleLength)
}

// Description trims and validates a ticket description.
func Description(raw string) (string, error) {
	return minLength("description", raw, MinDescriptionLength)
}

// CommentContent trims and validates comment text.
func CommentContent(raw string) (string, error) {
	return minLength("content", raw, MinCommentLength)
}

// Attachment checks the byte size cap for comment attachments.
func Attachment(sizeBytes int64) error {
	if sizeBytes <= 0 {
		return apperrors.NewValidation("attachment size must be positive", map[string]any{
			"field": "attachment",
		})
	}
	if sizeBytes > MaxAttachmentBytes {
		return apperrors.NewValidation(
			fmt.Sprintf("attachment exceeds the %d byte limit", MaxAttachmentBytes),
			map[string]any{"field": "attachment", "size_bytes": sizeBytes, "max_bytes": MaxAttachmentBytes},
		)
	}
	return nil
}

// Avatar checks the byte size cap and the image content-type allow-list.
func Avatar(mimeType string, sizeBytes int64) error {
	if sizeBytes <= 0 || sizeBytes > MaxAvatarBytes {
		return apperrors.NewValidation(
			fmt.Sprintf("avatar exceeds the %d byte limit", MaxAvatarBytes),
			map[string]any{"field": "avatar", "size_bytes": sizeBytes, "max_bytes": MaxAvatarBytes},
		)
	}
	if _, ok := allowedAvatarMimeTypes[strings.ToLower(mimeType)]; !ok {
		return apperrors.NewValidation("avatar content type not allowed", map[string]any{
			"field":     "avatar",
			"mime_type": mimeType,
		})
	}
	return nil
}

// minLength counts characters, not bytes, so accented text is measured the
// way users read it.
func minLength(field, raw string, min int) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if utf8.RuneCountInString(trimmed) < min {
		return "", apperrors.NewValidation(
			fmt.Sprintf("%s must be at least %d characters", field, min),
			map[string]any{"field": field, "min_length": min},
		)
	}
	return trimmed, nil
}
