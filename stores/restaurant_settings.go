package stores

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/savora-app/savora_backend/models"
)

// RestaurantSettingsRemote reads and writes the single settings row.
// FindRestaurantSettings returns nil, nil when no row exists.
type RestaurantSettingsRemote interface {
	FindRestaurantSettings(ctx context.Context) (*models.RestaurantSettings, error)
	SaveRestaurantSettings(ctx context.Context, s models.RestaurantSettings) (*models.RestaurantSettings, error)
}

// RestaurantSettings caches the restaurant configuration row
type RestaurantSettings struct {
	mu         sync.Mutex
	remote     RestaurantSettingsRemote
	current    models.RestaurantSettings
	loaded     bool
	generation uint64
	snapshot   Snapshotter
	key        string
}

// NewRestaurantSettings starts from the defaults until Fetch or Restore runs
func NewRestaurantSettings(remote RestaurantSettingsRemote, snapshot Snapshotter, key string) *RestaurantSettings {
	return &RestaurantSettings{
		remote:   remote,
		current:  models.DefaultRestaurantSettings(),
		snapshot: snapshot,
		key:      key,
	}
}

// Fetch loads the settings row. A missing row means defaults. Responses
// overtaken by a newer Fetch or Update are dropped.
func (r *RestaurantSettings) Fetch(ctx context.Context) (models.RestaurantSettings, error) {
	r.mu.Lock()
	r.generation++
	gen := r.generation
	r.mu.Unlock()

	row, err := r.remote.FindRestaurantSettings(ctx)
	if err != nil {
		return r.Current(), &FetchError{Op: "fetch restaurant settings", Err: err}
	}

	settings := models.DefaultRestaurantSettings()
	if row != nil {
		settings = *row
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.generation {
		log.Println("Discarding stale restaurant settings response")
		return r.current, nil
	}
	r.current = settings
	r.loaded = true
	writeThrough(r.snapshot, r.key, r.current)
	return r.current, nil
}

// Ensure returns the cached settings, fetching them first if they never were
func (r *RestaurantSettings) Ensure(ctx context.Context) (models.RestaurantSettings, error) {
	r.mu.Lock()
	loaded, current := r.loaded, r.current
	r.mu.Unlock()

	if loaded {
		return current, nil
	}
	return r.Fetch(ctx)
}

// Update merges u into the settings, writes the row, then updates the cache
func (r *RestaurantSettings) Update(ctx context.Context, u models.RestaurantSettingsUpdate) (models.RestaurantSettings, error) {
	r.mu.Lock()
	merged := u.Apply(r.current)
	r.mu.Unlock()
	merged.UpdatedAt = time.Now()

	saved, err := r.remote.SaveRestaurantSettings(ctx, merged)
	if err != nil {
		return r.Current(), fmt.Errorf("update restaurant settings: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = *saved
	r.loaded = true
	r.generation++
	writeThrough(r.snapshot, r.key, r.current)
	return r.current, nil
}

// Current returns the cached settings without touching the backend
func (r *RestaurantSettings) Current() models.RestaurantSettings {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Restore seeds the cache from the last snapshot. It does not count as a
// fetch, so Ensure still reaches the backend once.
func (r *RestaurantSettings) Restore(ctx context.Context) error {
	var settings models.RestaurantSettings
	found, err := restore(ctx, r.snapshot, r.key, &settings)
	if err != nil || !found {
		return err
	}
	r.mu.Lock()
	r.current = settings
	r.mu.Unlock()
	return nil
}
