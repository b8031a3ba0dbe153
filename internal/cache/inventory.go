package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix      = "user:%s"
	DirectoryKeyPrefix = "directory:%s:%s:%d:%d"
)

const (
	UserTTL      = 5 * time.Minute
	DirectoryTTL = 1 * time.Minute
)

func UserKey(userID string) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

// DirectoryKey identifies one page of the public directory for a given
// search/availability combination.
func DirectoryKey(search, availability string, limit, offset int) string {
	return fmt.Sprintf(DirectoryKeyPrefix, search, availability, limit, offset)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID string) {
	Invalidate(ctx, UserKey(userID))
}
