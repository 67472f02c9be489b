package stores

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/savora-app/savora_backend/models"
)

// Session is the set of stores owned by one signed-in user
type Session struct {
	UserID        string
	Cart          *Cart
	Favorites     *Favorites
	Notifications *Notifications
	AppSettings   *AppSettings
}

// SessionDeps are the collaborators shared by every session
type SessionDeps struct {
	Favorites     FavoritesRemote
	Snapshot      Snapshotter
	Notifications NotificationOptions
	// OnNotification receives the queue events of every session
	OnNotification func(userID string, ev models.NotificationEvent)
	// Now defaults to time.Now
	Now func() time.Time
}

type sessionEntry struct {
	sess     *Session
	restored sync.Once
	lastSeen time.Time
}

// Sessions hands out one Session per user, creating it on first use
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
	deps     SessionDeps
}

func NewSessions(deps SessionDeps) *Sessions {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Sessions{
		sessions: make(map[string]*sessionEntry),
		deps:     deps,
	}
}

// Get returns the user's session, restoring persisted state when it is new.
// Restores run outside the registry lock; concurrent callers for the same
// user wait for the first restore to finish.
func (s *Sessions) Get(ctx context.Context, userID string) *Session {
	s.mu.Lock()
	entry, ok := s.sessions[userID]
	if !ok {
		entry = &sessionEntry{sess: s.newSession(userID)}
		s.sessions[userID] = entry
	}
	entry.lastSeen = s.deps.Now()
	s.mu.Unlock()

	entry.restored.Do(func() { s.restore(ctx, entry.sess) })
	return entry.sess
}

func (s *Sessions) restore(ctx context.Context, sess *Session) {
	for name, restorer := range map[string]interface {
		Restore(context.Context) error
	}{
		KeyCart:                 sess.Cart,
		KeyFavorites:            sess.Favorites,
		KeyNotificationSettings: sess.Notifications,
		KeyAppSettings:          sess.AppSettings,
	} {
		if err := restorer.Restore(ctx); err != nil {
			log.Printf("Error restoring %s for user %s: %v", name, sess.UserID, err)
		}
	}
}

// Len reports how many sessions are open
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// EvictIdle drops sessions not used for maxIdle and stops their pending
// notification timers. Their state comes back from snapshots on next use.
func (s *Sessions) EvictIdle(maxIdle time.Duration) int {
	cutoff := s.deps.Now().Add(-maxIdle)

	s.mu.Lock()
	var evicted []*Session
	for userID, entry := range s.sessions {
		if entry.lastSeen.Before(cutoff) {
			evicted = append(evicted, entry.sess)
			delete(s.sessions, userID)
		}
	}
	s.mu.Unlock()

	for _, sess := range evicted {
		sess.Notifications.Close()
	}
	return len(evicted)
}

// RunEviction calls EvictIdle every interval until ctx is done
func (s *Sessions) RunEviction(ctx context.Context, every, maxIdle time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.EvictIdle(maxIdle); n > 0 {
				log.Printf("Evicted %d idle sessions", n)
			}
		}
	}
}

func (s *Sessions) newSession(userID string) *Session {
	opts := s.deps.Notifications
	opts.Snapshot = s.deps.Snapshot
	opts.SettingsKey = UserKey(userID, KeyNotificationSettings)
	if s.deps.OnNotification != nil {
		onNotification := s.deps.OnNotification
		opts.OnEvent = func(ev models.NotificationEvent) {
			onNotification(userID, ev)
		}
	}

	return &Session{
		UserID:        userID,
		Cart:          NewCart(s.deps.Snapshot, UserKey(userID, KeyCart)),
		Favorites:     NewFavorites(userID, s.deps.Favorites, s.deps.Snapshot, UserKey(userID, KeyFavorites)),
		Notifications: NewNotifications(opts),
		AppSettings:   NewAppSettings(s.deps.Snapshot, UserKey(userID, KeyAppSettings)),
	}
}
