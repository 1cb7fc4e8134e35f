// Package cache keeps resolved actors close to the role gate so most
// requests skip the membership lookup.
package cache

import (
	"context"
	"sync"
	"time"

	"paisawise/internal/auth"

	"github.com/google/uuid"
)

// MembershipCache stores the resolved actor of a user. Misses and backend
// failures are indistinguishable to callers; the database stays the source
// of truth.
type MembershipCache interface {
	Get(ctx context.Context, userID uuid.UUID) (auth.Actor, bool)
	Set(ctx context.Context, actor auth.Actor)
	Invalidate(ctx context.Context, userID uuid.UUID)
}

type memoryEntry struct {
	actor     auth.Actor
	expiresAt time.Time
}

// MemoryCache is the in-process fallback used when redis is not configured.
type MemoryCache struct {
	entries sync.Map // userID -> memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{ttl: ttl, now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context, userID uuid.UUID) (auth.Actor, bool) {
	v, ok := c.entries.Load(userID)
	if !ok {
		return auth.Actor{}, false
	}
	entry := v.(memoryEntry)
	if c.now().After(entry.expiresAt) {
		c.entries.Delete(userID)
		return auth.Actor{}, false
	}
	return entry.actor, true
}

func (c *MemoryCache) Set(_ context.Context, actor auth.Actor) {
	c.entries.Store(actor.UserID, memoryEntry{actor: actor, expiresAt: c.now().Add(c.ttl)})
}

func (c *MemoryCache) Invalidate(_ context.Context, userID uuid.UUID) {
	c.entries.Delete(userID)
}

// Noop never caches. Used by the CLI and tests that assert on fresh reads.
type Noop struct{}

func (Noop) Get(context.Context, uuid.UUID) (auth.Actor, bool) { return auth.Actor{}, false }
func (Noop) Set(context.Context, auth.Actor)                   {}
func (Noop) Invalidate(context.Context, uuid.UUID)             {}
