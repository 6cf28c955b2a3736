package profile

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgball2608/elixir/internal/domain"
	"github.com/orgball2608/elixir/internal/repositories"
	"github.com/orgball2608/elixir/pkg/logger"
)

type PgxRepository struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

func NewPgxRepository(pool *pgxpool.Pool, logger logger.Logger) *PgxRepository {
	return &PgxRepository{
		pool:   pool,
		logger: logger.WithComponent("ProfileRepo"),
	}
}

var _ Repository = (*PgxRepository)(nil)

func (r *PgxRepository) Create(ctx context.Context, profile domain.Profile) error {
	query, args, err := repositories.SqBuilder.
		Insert("profiles").
		Columns("user_id", "username", "bio", "image_url").
		Values(profile.UserID.String(), profile.Username, profile.Bio, profile.AvatarURL).
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == repositories.UniqueViolation {
			return ErrAlreadyExists
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (r *PgxRepository) GetByUserID(ctx context.Context, userID domain.Identity) (*domain.Profile, error) {
	query, args, err := repositories.SqBuilder.
		Select("user_id", "username", "bio", "image_url", "created_at").
		From("profiles").
		Where(sq.Eq{"user_id": userID.String()}).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	var (
		profile domain.Profile
		id      string
	)
	err = r.pool.QueryRow(ctx, query, args...).Scan(
		&id,
		&profile.Username,
		&profile.Bio,
		&profile.AvatarURL,
		&profile.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile by user id: %w", err)
	}
	profile.UserID = domain.Identity(id)

	return &profile, nil
}

func (r *PgxRepository) Update(ctx context.Context, userID domain.Identity, update Update) error {
	query, args, err := repositories.SqBuilder.
		Update("profiles").
		Set("bio", update.Bio).
		Set("image_url", update.AvatarURL).
		Where(sq.Eq{"user_id": userID.String()}).
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
