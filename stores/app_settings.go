package stores

import (
	"context"
	"sync"

	"github.com/savora-app/savora_backend/models"
)

// AppSettings holds a user's generic app preferences blob
type AppSettings struct {
	mu       sync.Mutex
	current  models.AppSettings
	snapshot Snapshotter
	key      string
}

func NewAppSettings(snapshot Snapshotter, key string) *AppSettings {
	return &AppSettings{current: models.DefaultAppSettings(), snapshot: snapshot, key: key}
}

func (a *AppSettings) Get() models.AppSettings {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

// Update merges u and rewrites the whole blob
func (a *AppSettings) Update(u models.AppSettingsUpdate) models.AppSettings {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.current = u.Apply(a.current)
	writeThrough(a.snapshot, a.key, a.current)
	return a.current
}

func (a *AppSettings) Restore(ctx context.Context) error {
	var settings models.AppSettings
	found, err := restore(ctx, a.snapshot, a.key, &settings)
	if err != nil || !found {
		return err
	}
	a.mu.Lock()
	a.current = settings
	a.mu.Unlock()
	return nil
}
