package post

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgball2608/elixir/internal/domain"
	"github.com/orgball2608/elixir/internal/repositories"
	"github.com/orgball2608/elixir/pkg/logger"
)

type Pgx struct {
	pg     *pgxpool.Pool
	logger logger.Logger
}

func NewPgx(pg *pgxpool.Pool, logger logger.Logger) *Pgx {
	return &Pgx{
		pg:     pg,
		logger: logger.WithComponent("PostRepo"),
	}
}

var _ Repository = (*Pgx)(nil)

func (p *Pgx) selectJoined() sq.SelectBuilder {
	return repositories.SqBuilder.
		Select(
			"p.id", "p.text", "p.image_url", "p.author_id", "p.likes", "p.created_at",
			"pr.user_id", "pr.username", "pr.image_url",
		).
		From("posts p").
		Join("profiles pr ON pr.user_id = p.author_id")
}

func (p *Pgx) List(ctx context.Context, filter Filter) ([]domain.Post, error) {
	builder := p.selectJoined().OrderBy("p.id DESC")
	if !filter.AuthorID.IsZero() {
		builder = builder.Where(sq.Eq{"p.author_id": filter.AuthorID.String()})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	rows, err := p.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	posts := make([]domain.Post, 0)
	for rows.Next() {
		post, err := scanJoined(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post rows: %w", err)
	}

	return posts, nil
}

func (p *Pgx) Create(ctx context.Context, post domain.Post) (*domain.Post, error) {
	query, args, err := repositories.SqBuilder.
		Insert("posts").
		Columns("text", "image_url", "author_id", "likes").
		Values(post.Text, post.ImageURL, post.AuthorID.String(), domain.IdentitiesToStrings(post.Likes)).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	created := post
	if created.Likes == nil {
		created.Likes = []domain.Identity{}
	}
	err = p.pg.QueryRow(ctx, query, args...).Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to create post: %w", err), ErrCannotCreate)
	}

	p.logger.Debug("Post created", "id", created.ID, "author", created.AuthorID)
	return &created, nil
}

func (p *Pgx) AddLike(ctx context.Context, id int64, userID domain.Identity) ([]domain.Identity, error) {
	query, args, err := repositories.SqBuilder.
		Update("posts").
		Set("likes", sq.Expr("array_append(likes, ?::text)", userID.String())).
		Where(sq.Eq{"id": id}).
		Where(sq.Expr("NOT (?::text = ANY(likes))", userID.String())).
		Suffix("RETURNING likes").
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	var likes []string
	err = p.pg.QueryRow(ctx, query, args...).Scan(&likes)
	if err == nil {
		return domain.IdentitiesFromStrings(likes), nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to add like: %w", err)
	}

	// No row updated: either the post is gone or the like is already there.
	query, args, err = repositories.SqBuilder.
		Select("likes").
		From("posts").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	err = p.pg.QueryRow(ctx, query, args...).Scan(&likes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read likes: %w", err)
	}

	return domain.IdentitiesFromStrings(likes), nil
}

func scanJoined(row pgx.Row) (domain.Post, error) {
	var (
		post     domain.Post
		authorID string
		likes    []string
		author   domain.AuthorSummary
		userID   string
	)
	err := row.Scan(
		&post.ID,
		&post.Text,
		&post.ImageURL,
		&authorID,
		&likes,
		&post.CreatedAt,
		&userID,
		&author.Username,
		&author.AvatarURL,
	)
	if err != nil {
		return domain.Post{}, err
	}

	post.AuthorID = domain.Identity(authorID)
	post.Likes = domain.IdentitiesFromStrings(likes)
	author.UserID = domain.Identity(userID)
	post.Author = &author
	return post, nil
}
