package credential

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
)

type PgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) *PgxRepository {
	return &PgxRepository{pool: pool}
}

var _ Repository = (*PgxRepository)(nil)

func (r *PgxRepository) Create(ctx context.Context, cred domain.Credential) error {
	query, args, err := repositories.SqBuilder.
		Insert("auth_users").
		Columns("user_id", "email", "password_hash").
		Values(cred.UserID.String(), cred.Email, cred.PasswordHash).
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
		return fmt.Errorf("failed to create credential: %w", err)
	}
	return nil
}

func (r *PgxRepository) GetByEmail(ctx context.Context, email string) (*domain.Credential, error) {
	query, args, err := repositories.SqBuilder.
		Select("user_id", "email", "password_hash", "created_at").
		From("auth_users").
		Where(sq.Eq{"email": email}).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	var (
		cred domain.Credential
		id   string
	)
	err = r.pool.QueryRow(ctx, query, args...).Scan(&id, &cred.Email, &cred.PasswordHash, &cred.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get credential by email: %w", err)
	}
	cred.UserID = domain.Identity(id)

	return &cred, nil
}
