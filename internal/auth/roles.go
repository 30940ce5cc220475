package auth

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/church-finance/internal/storage"
	"github.com/carson-networks/church-finance/internal/storage/profile"
)

// RoleCacheTTL is how long a resolved role is reused.
const RoleCacheTTL = 10 * time.Minute

// RoleSource resolves a user's role.
type RoleSource interface {
	Role(ctx context.Context, userID uuid.UUID) (string, error)
}

type profileFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*profile.Profile, error)
}

// ProfileRoles reads roles from user_profiles. A user without a profile is a
// member.
type ProfileRoles struct {
	Profiles profileFinder
}

func (p *ProfileRoles) Role(ctx context.Context, userID uuid.UUID) (string, error) {
	prof, err := p.Profiles.FindByID(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return profile.RoleMember, nil
	}
	if err != nil {
		return "", err
	}
	if prof.Role == "" {
		return profile.RoleMember, nil
	}
	return prof.Role, nil
}

type roleStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisRoleCache fronts another RoleSource with Redis. Redis failures fall
// through to the source.
type RedisRoleCache struct {
	client roleStore
	next   RoleSource
	ttl    time.Duration
	log    logrus.FieldLogger
}

func NewRedisRoleCache(client roleStore, next RoleSource, log logrus.FieldLogger) *RedisRoleCache {
	return &RedisRoleCache{client: client, next: next, ttl: RoleCacheTTL, log: log}
}

func roleKey(userID uuid.UUID) string {
	return "user:" + userID.String() + ":role"
}

func (c *RedisRoleCache) Role(ctx context.Context, userID uuid.UUID) (string, error) {
	key := roleKey(userID)
	role, err := c.client.Get(ctx, key).Result()
	if err == nil && role != "" {
		return role, nil
	}
	if err != nil && !errors.Is(err, redis.Nil) {
		c.log.WithError(err).WithField("userID", userID.String()).Warn("RedisRoleCache.get failed")
	}

	role, err = c.next.Role(ctx, userID)
	if err != nil {
		return "", err
	}
	if err := c.client.Set(ctx, key, role, c.ttl).Err(); err != nil {
		c.log.WithError(err).WithField("userID", userID.String()).Warn("RedisRoleCache.set failed")
	}
	return role, nil
}
