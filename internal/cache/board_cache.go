package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	dom "taskboard/internal/domain"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "board:"

// BoardCache caches listing pages in Redis. A page is keyed by scope
// (the whole board for admins, one user's rows otherwise) plus page
// number, so invalidation can target a single owner without touching
// other users' entries.
type BoardCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewBoardCache returns a new BoardCache.
func NewBoardCache(rdb *redis.Client, ttl time.Duration) *BoardCache {
	return &BoardCache{rdb: rdb, ttl: ttl}
}

// ScopeAll is the cache scope for admin listings.
const ScopeAll = "all"

// ScopeUser returns the cache scope for one user's listings.
func ScopeUser(userID int64) string {
	return "user:" + strconv.FormatInt(userID, 10)
}

func pageKey(scope string, page int) string {
	return keyPrefix + scope + ":p" + strconv.Itoa(page)
}

// GetPage returns the cached page for scope, or nil on miss.
func (c *BoardCache) GetPage(ctx context.Context, scope string, page int) (*dom.Page, error) {
	b, err := c.rdb.Get(ctx, pageKey(scope, page)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var p dom.Page
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// SetPage stores a listing page under its scope.
func (c *BoardCache) SetPage(ctx context.Context, scope string, page int, p dom.Page) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, pageKey(scope, page), b, c.ttl).Err()
}

// InvalidateOwner removes every cached page visible to ownerID: the
// owner's own scope and the admin all-users scope (cache invalidation
// on write).
func (c *BoardCache) InvalidateOwner(ctx context.Context, ownerID int64) error {
	for _, scope := range []string{ScopeAll, ScopeUser(ownerID)} {
		iter := c.rdb.Scan(ctx, 0, keyPrefix+scope+":*", 100).Iterator()
		for iter.Next(ctx) {
			if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
				return err
			}
		}
		if err := iter.Err(); err != nil {
			return err
		}
	}
	return nil
}
