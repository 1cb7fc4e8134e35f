package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"paisawise/internal/auth"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisCache shares resolved actors between API replicas.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	log    logrus.FieldLogger
}

// NewRedisClient connects and pings. Callers fall back to MemoryCache on error.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    password,
		DB:          db,
		DialTimeout: 2 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

func NewRedisCache(client *redis.Client, ttl time.Duration, log logrus.FieldLogger) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, log: log}
}

func membershipKey(userID uuid.UUID) string {
	return "membership:" + userID.String()
}

func (c *RedisCache) Get(ctx context.Context, userID uuid.UUID) (auth.Actor, bool) {
	data, err := c.client.Get(ctx, membershipKey(userID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.WithError(err).WithField("user_id", userID).Error("redis GET failed")
		}
		return auth.Actor{}, false
	}

	var actor auth.Actor
	if err := json.Unmarshal(data, &actor); err != nil {
		c.log.WithError(err).WithField("user_id", userID).Warn("discarding malformed cached membership")
		return auth.Actor{}, false
	}
	return actor, true
}

func (c *RedisCache) Set(ctx context.Context, actor auth.Actor) {
	data, err := json.Marshal(actor)
	if err != nil {
		c.log.WithError(err).WithField("user_id", actor.UserID).Error("failed to marshal membership for caching")
		return
	}
	if err := c.client.Set(ctx, membershipKey(actor.UserID), data, c.ttl).Err(); err != nil {
		c.log.WithError(err).WithField("user_id", actor.UserID).Error("redis SET failed")
	}
}

func (c *RedisCache) Invalidate(ctx context.Context, userID uuid.UUID) {
	if err := c.client.Del(ctx, membershipKey(userID)).Err(); err != nil {
		c.log.WithError(err).WithField("user_id", userID).Error("redis DEL failed")
	}
}
