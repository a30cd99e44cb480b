package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JoshyLop/intranet-tickets-api/internal/domain"
)

// ProfileFilter defines profile listing parameters.
type ProfileFilter struct {
	IsSupportStaff *bool
	Department     *string
	Search         *string
	Limit          int
	Offset         int
}

// ProfileRepository manages user profile persistence.
type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.UserProfile) error
	Update(ctx context.Context, profile *domain.UserProfile) error
	GetByUser(ctx context.Context, userID string) (*domain.UserProfile, error)
	Delete(ctx context.Context, userID string) error
	List(ctx context.Context, filter ProfileFilter) ([]domain.UserProfile, error)
}

type profileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository constructs repository.
func NewProfileRepository(pool *pgxpool.Pool) ProfileRepository {
	return &profileRepository{pool: pool}
}

const profileColumns = `user_id, department, phone, avatar_key, avatar_mime, avatar_size,
       is_support_staff, created_at, updated_at`

func (r *profileRepository) Create(ctx context.Context, profile *domain.UserProfile) error {
	const query = `
        INSERT INTO user_profiles (user_id, department, phone, avatar_key, avatar_mime, avatar_size, is_support_staff)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING created_at, updated_at`
	key, mime, size := avatarColumns(profile.Avatar)
	return r.pool.QueryRow(ctx, query,
		profile.UserID,
		profile.Department,
		profile.Phone,
		key, mime, size,
		profile.IsSupportStaff,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)
}

func (r *profileRepository) Update(ctx context.Context, profile *domain.UserProfile) error {
	const query = `
        UPDATE user_profiles SET department=$1, phone=$2, avatar_key=$3, avatar_mime=$4,
            avatar_size=$5, is_support_staff=$6, updated_at=NOW()
        WHERE user_id=$7
        RETURNING updated_at`
	key, mime, size := avatarColumns(profile.Avatar)
	return r.pool.QueryRow(ctx, query,
		profile.Department,
		profile.Phone,
		key, mime, size,
		profile.IsSupportStaff,
		profile.UserID,
	).Scan(&profile.UpdatedAt)
}

func (r *profileRepository) GetByUser(ctx context.Context, userID string) (*domain.UserProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM user_profiles WHERE user_id=$1`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	profiles, err := scanProfiles(rows)
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, pgx.ErrNoRows
	}
	return &profiles[0], nil
}

func (r *profileRepository) Delete(ctx context.Context, userID string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM user_profiles WHERE user_id=$1`, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *profileRepository) List(ctx context.Context, filter ProfileFilter) ([]domain.UserProfile, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.IsSupportStaff != nil {
		args = append(args, *filter.IsSupportStaff)
		clauses = append(clauses, fmt.Sprintf("is_support_staff=$%d", len(args)))
	}
	if filter.Department != nil {
		args = append(args, *filter.Department)
		clauses = append(clauses, fmt.Sprintf("department=$%d", len(args)))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.Search)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(department) LIKE %s OR phone LIKE %s)", placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM user_profiles WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		profileColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProfiles(rows)
}

func avatarColumns(avatar *domain.AvatarReference) (key, mime *string, size *int64) {
	if avatar == nil {
		return nil, nil, nil
	}
	return &avatar.StorageKey, &avatar.MimeType, &avatar.SizeBytes
}

func scanProfiles(rows pgx.Rows) ([]domain.UserProfile, error) {
	var result []domain.UserProfile
	for rows.Next() {
		var profile domain.UserProfile
		var key, mime *string
		var size *int64
		if err := rows.Scan(
			&profile.UserID,
			&profile.Department,
			&profile.Phone,
			&key, &mime, &size,
			&profile.IsSupportStaff,
			&profile.CreatedAt,
			&profile.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if key != nil {
			profile.Avatar = &domain.AvatarReference{
				StorageKey: *key,
				MimeType:   deref(mime),
				SizeBytes:  derefInt64(size),
			}
		}
		result = append(result, profile)
	}
	return result, rows.Err()
}
