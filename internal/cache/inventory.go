package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	userKeyPrefix = "user:%d"
	itemKeyPrefix = "item:%d"

	// itemsListVersionKey holds a counter bumped whenever any write could
	// change a public listing; the counter is embedded in every list key so
	// stale pages simply stop being addressed.
	itemsListVersionKey = "items:list:version"
)

const (
	UserTTL      = 5 * time.Minute
	ItemTTL      = 10 * time.Minute
	ItemsListTTL = 1 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(userKeyPrefix, userID)
}

func ItemKey(itemID uint) string {
	return fmt.Sprintf(itemKeyPrefix, itemID)
}

// ItemsListKey builds a versioned key for an anonymous public listing page.
func ItemsListKey(ctx context.Context, status, category string, limit, offset int) string {
	version := "0"
	if client != nil {
		if v, err := client.Get(ctx, itemsListVersionKey).Result(); err == nil {
			version = strings.TrimSpace(v)
		}
	}
	return fmt.Sprintf("items:%s:%s:%s:%d:%d", version, status, category, limit, offset)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

// InvalidateItemLists bumps the listing version so cached pages are bypassed.
func InvalidateItemLists(ctx context.Context) {
	if client != nil {
		client.Incr(ctx, itemsListVersionKey)
	}
}

// keyClass reduces a concrete key to its prefix for metric labels.
func keyClass(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}
