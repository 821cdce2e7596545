package directory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	id "talentflow/pkg/domain"
)

// ReportsCache caches direct-report ID sets in Redis. Org-chart edges
// change rarely while permission checks read them on every manager
// assignment, so a short TTL keeps the directory database off the hot
// path without risking stale membership for long.
type ReportsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewReportsCache(client *redis.Client, ttl time.Duration) *ReportsCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ReportsCache{client: client, ttl: ttl}
}

func reportsKey(managerID id.UserID) string {
	return "directory:reports:" + managerID.String()
}

// Get returns the cached report set for a manager, or ok=false on miss.
// Redis errors are returned so the caller can decide to fall through to
// the store; the caller must not treat a cache failure as an empty team.
func (c *ReportsCache) Get(ctx context.Context, managerID id.UserID) (map[id.UserID]bool, bool, error) {
	members, err := c.client.SMembers(ctx, reportsKey(managerID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reports cache get: %w", err)
	}
	if len(members) == 0 {
		// Empty set is indistinguishable from a miss; treat as miss so a
		// manager with no cached entry is resolved from the store.
		return nil, false, nil
	}

	reports := make(map[id.UserID]bool, len(members))
	for _, member := range members {
		if member == emptySetMarker {
			continue
		}
		userID, err := id.ParseUserID(member)
		if err != nil {
			return nil, false, fmt.Errorf("corrupt cached report id %q: %w", member, err)
		}
		reports[userID] = true
	}
	return reports, true, nil
}

// emptySetMarker lets a manager with zero reports still hit the cache;
// Redis cannot store an empty set.
const emptySetMarker = "-"

// Put stores the report set for a manager with the configured TTL.
func (c *ReportsCache) Put(ctx context.Context, managerID id.UserID, reports []id.UserID) error {
	key := reportsKey(managerID)
	members := make([]any, 0, len(reports)+1)
	members = append(members, emptySetMarker)
	for _, report := range reports {
		members = append(members, report.String())
	}

	pipe := c.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.SAdd(ctx, key, members...)
	pipe.Expire(ctx, key, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("reports cache put: %w", err)
	}
	return nil
}

// Invalidate drops the cached set for a manager, e.g. after an org change.
func (c *ReportsCache) Invalidate(ctx context.Context, managerID id.UserID) error {
	if err := c.client.Del(ctx, reportsKey(managerID)).Err(); err != nil {
		return fmt.Errorf("reports cache invalidate: %w", err)
	}
	return nil
}
