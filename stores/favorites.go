package stores

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/savora-app/savora_backend/models"
)

// FavoritesRemote is the backend table holding favorite rows
type FavoritesRemote interface {
	ListFavorites(ctx context.Context, userID string) ([]models.Favorite, error)
	CreateFavorite(ctx context.Context, userID string, item models.MenuItemRef) (*models.Favorite, error)
	DeleteFavorite(ctx context.Context, userID, favoriteID string) error
}

// Favorites tracks which menu items a user has favorited. Local state only
// changes after the backend confirmed the write.
type Favorites struct {
	mu         sync.Mutex
	userID     string
	remote     FavoritesRemote
	byItem     map[string]models.Favorite
	inFlight   map[string]struct{}
	generation uint64
	snapshot   Snapshotter
	key        string
}

// NewFavorites creates the favorites store of one user
func NewFavorites(userID string, remote FavoritesRemote, snapshot Snapshotter, key string) *Favorites {
	return &Favorites{
		userID:   userID,
		remote:   remote,
		byItem:   make(map[string]models.Favorite),
		inFlight: make(map[string]struct{}),
		snapshot: snapshot,
		key:      key,
	}
}

// GetFavorites replaces the local set with the backend's rows. A response
// that was overtaken by a newer fetch or a local write is discarded.
func (f *Favorites) GetFavorites(ctx context.Context) ([]models.Favorite, error) {
	f.mu.Lock()
	f.generation++
	gen := f.generation
	f.mu.Unlock()

	rows, err := f.remote.ListFavorites(ctx, f.userID)
	if err != nil {
		return nil, &FetchError{Op: "fetch favorites", Err: err}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.generation {
		log.Printf("Discarding stale favorites response for user %s", f.userID)
		return f.listLocked(), nil
	}

	f.byItem = make(map[string]models.Favorite, len(rows))
	for _, row := range rows {
		if _, dup := f.byItem[row.MenuItemID]; dup {
			continue
		}
		f.byItem[row.MenuItemID] = row
	}
	f.persist()
	return f.listLocked(), nil
}

// ToggleFavorite creates the favorite when absent and deletes it when
// present. It returns whether the item is favorited afterwards. A second
// toggle for the same item while the first is in flight is rejected.
func (f *Favorites) ToggleFavorite(ctx context.Context, item models.MenuItemRef) (bool, error) {
	f.mu.Lock()
	if _, busy := f.inFlight[item.ID]; busy {
		f.mu.Unlock()
		return false, ErrToggleInProgress
	}
	f.inFlight[item.ID] = struct{}{}
	existing, favorited := f.byItem[item.ID]
	f.mu.Unlock()

	if favorited {
		err := f.remote.DeleteFavorite(ctx, f.userID, existing.ID.Hex())

		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.inFlight, item.ID)
		if err != nil {
			return true, fmt.Errorf("remove favorite %s: %w", item.ID, err)
		}
		delete(f.byItem, item.ID)
		f.generation++
		f.persist()
		return false, nil
	}

	created, err := f.remote.CreateFavorite(ctx, f.userID, item)

	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.inFlight, item.ID)
	if err != nil {
		return false, fmt.Errorf("add favorite %s: %w", item.ID, err)
	}
	f.byItem[item.ID] = *created
	f.generation++
	f.persist()
	return true, nil
}

// RemoveFavorite deletes a favorite by its record id. Unknown ids are a no-op.
func (f *Favorites) RemoveFavorite(ctx context.Context, favoriteID string) error {
	f.mu.Lock()
	menuItemID, ok := f.menuItemFor(favoriteID)
	if !ok {
		f.mu.Unlock()
		return nil
	}
	if _, busy := f.inFlight[menuItemID]; busy {
		f.mu.Unlock()
		return ErrToggleInProgress
	}
	f.inFlight[menuItemID] = struct{}{}
	f.mu.Unlock()

	err := f.remote.DeleteFavorite(ctx, f.userID, favoriteID)

	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.inFlight, menuItemID)
	if err != nil {
		return fmt.Errorf("remove favorite %s: %w", favoriteID, err)
	}
	delete(f.byItem, menuItemID)
	f.generation++
	f.persist()
	return nil
}

// IsFavorite is a local lookup, it never calls the backend
func (f *Favorites) IsFavorite(menuItemID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.byItem[menuItemID]
	return ok
}

// Favorites returns the local set, oldest first
func (f *Favorites) Favorites() []models.Favorite {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listLocked()
}

// Restore loads the cached favorites written by a previous session
func (f *Favorites) Restore(ctx context.Context) error {
	var rows []models.Favorite
	found, err := restore(ctx, f.snapshot, f.key, &rows)
	if err != nil || !found {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.byItem = make(map[string]models.Favorite, len(rows))
	for _, row := range rows {
		f.byItem[row.MenuItemID] = row
	}
	return nil
}

func (f *Favorites) menuItemFor(favoriteID string) (string, bool) {
	for menuItemID, fav := range f.byItem {
		if fav.ID.Hex() == favoriteID {
			return menuItemID, true
		}
	}
	return "", false
}

func (f *Favorites) listLocked() []models.Favorite {
	out := make([]models.Favorite, 0, len(f.byItem))
	for _, fav := range f.byItem {
		out = append(out, fav)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].MenuItemID < out[j].MenuItemID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (f *Favorites) persist() {
	writeThrough(f.snapshot, f.key, f.listLocked())
}
