package stores

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Snapshotter persists whole-state JSON snapshots under named keys.
// Every Save fully overwrites the previous value.
type Snapshotter interface {
	Save(ctx context.Context, key string, v interface{}) error
	Load(ctx context.Context, key string, v interface{}) (bool, error)
}

// Snapshot key names
const (
	KeyCart                 = "cart"
	KeyFavorites            = "favorites"
	KeyNotificationSettings = "notification-settings"
	KeyAppSettings          = "app-settings"
	KeyRestaurantSettings   = "restaurant-settings"
)

const persistTimeout = 5 * time.Second

// UserKey scopes a snapshot key to one user
func UserKey(userID, name string) string {
	return fmt.Sprintf("user:%s:%s", userID, name)
}

// writeThrough saves v and logs failures; local state stays authoritative.
func writeThrough(s Snapshotter, key string, v interface{}) {
	if s == nil || key == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := s.Save(ctx, key, v); err != nil {
		log.Printf("Failed to persist snapshot %s: %v", key, err)
	}
}

func restore(ctx context.Context, s Snapshotter, key string, v interface{}) (bool, error) {
	if s == nil || key == "" {
		return false, nil
	}
	found, err := s.Load(ctx, key, v)
	if err != nil {
		return false, fmt.Errorf("load snapshot %s: %w", key, err)
	}
	return found, nil
}
