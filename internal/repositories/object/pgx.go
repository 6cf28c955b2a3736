package object

import (
	"context"
	"errors"
	"fmt"
	"time"

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

func (r *PgxRepository) Put(ctx context.Context, obj domain.Object) error {
	query, args, err := repositories.SqBuilder.
		Insert("storage_objects").
		Columns("bucket", "key", "content_type", "data").
		Values(obj.Bucket, obj.Key, obj.ContentType, obj.Data).
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
		return fmt.Errorf("failed to store object %s/%s: %w", obj.Bucket, obj.Key, err)
	}
	return nil
}

func (r *PgxRepository) Get(ctx context.Context, bucket, key string) (*domain.Object, error) {
	query, args, err := repositories.SqBuilder.
		Select("bucket", "key", "content_type", "data", "created_at").
		From("storage_objects").
		Where(sq.Eq{"bucket": bucket, "key": key}).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	var obj domain.Object
	err = r.pool.QueryRow(ctx, query, args...).Scan(&obj.Bucket, &obj.Key, &obj.ContentType, &obj.Data, &obj.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get object %s/%s: %w", bucket, key, err)
	}

	return &obj, nil
}

func (r *PgxRepository) DeleteOrphans(ctx context.Context, bucket, urlPrefix string, olderThan time.Time) (int64, error) {
	query := `
		DELETE FROM storage_objects o
		WHERE o.bucket = $1
		  AND o.created_at < $2
		  AND NOT EXISTS (SELECT 1 FROM posts p WHERE p.image_url = $3::text || o.key)
		  AND NOT EXISTS (SELECT 1 FROM profiles pr WHERE pr.image_url = $3::text || o.key)
	`

	result, err := r.pool.Exec(ctx, query, bucket, olderThan, urlPrefix)
	if err != nil {
		return 0, fmt.Errorf("failed to delete orphaned objects in %s: %w", bucket, err)
	}

	return result.RowsAffected(), nil
}
