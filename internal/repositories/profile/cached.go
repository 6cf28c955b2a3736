package profile

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/orgball2608/elixir/internal/domain"
	"github.com/orgball2608/elixir/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// CachedRepository keeps profile reads in redis. Cache failures fall
// through to the wrapped repository.
type CachedRepository struct {
	client *redis.Client
	next   Repository
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedRepository(client *redis.Client, next Repository, ttl time.Duration, logger logger.Logger) *CachedRepository {
	return &CachedRepository{
		client: client,
		next:   next,
		ttl:    ttl,
		logger: logger.WithComponent("ProfileCache"),
	}
}

var _ Repository = (*CachedRepository)(nil)

func cacheKey(id domain.Identity) string {
	// prefixed so it does not collide with other keys in the same redis
	return "profile:" + id.String()
}

func (c *CachedRepository) Create(ctx context.Context, profile domain.Profile) error {
	if err := c.next.Create(ctx, profile); err != nil {
		return err
	}
	c.invalidate(ctx, profile.UserID)
	return nil
}

func (c *CachedRepository) GetByUserID(ctx context.Context, userID domain.Identity) (*domain.Profile, error) {
	if p := c.load(ctx, userID); p != nil {
		return p, nil
	}

	p, err := c.next.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	c.store(ctx, p)
	return p, nil
}

func (c *CachedRepository) Update(ctx context.Context, userID domain.Identity, update Update) error {
	if err := c.next.Update(ctx, userID, update); err != nil {
		return err
	}
	c.invalidate(ctx, userID)
	return nil
}

func (c *CachedRepository) load(ctx context.Context, id domain.Identity) *domain.Profile {
	b, err := c.client.Get(ctx, cacheKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Failed to read profile cache", "user_id", id, "error", err)
		}
		return nil
	}

	var p domain.Profile
	if err := json.Unmarshal(b, &p); err != nil {
		c.logger.Warn("Corrupt profile cache entry", "user_id", id, "error", err)
		return nil
	}
	return &p
}

func (c *CachedRepository) store(ctx context.Context, p *domain.Profile) {
	b, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey(p.UserID), b, c.ttl).Err(); err != nil {
		c.logger.Warn("Failed to write profile cache", "user_id", p.UserID, "error", err)
	}
}

func (c *CachedRepository) invalidate(ctx context.Context, id domain.Identity) {
	if err := c.client.Del(ctx, cacheKey(id)).Err(); err != nil {
		c.logger.Warn("Failed to invalidate profile cache", "user_id", id, "error", err)
	}
}
