package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/savora-app/savora_backend/models"
	"github.com/savora-app/savora_backend/stores"
)

// Pusher delivers a payload to one device token
type Pusher interface {
	Send(ctx context.Context, token string, p models.PushPayload) (string, error)
}

// ReminderScheduler runs one recurring push reminder per user
type ReminderScheduler struct {
	mu      sync.Mutex
	push    Pusher
	cancels map[string]context.CancelFunc
	wg      sync.WaitGroup
}

func NewReminderScheduler(push Pusher) *ReminderScheduler {
	return &ReminderScheduler{
		push:    push,
		cancels: make(map[string]context.CancelFunc),
	}
}

// Schedule starts pushing r to token every r.Every. A reminder already
// running for the user is replaced.
func (s *ReminderScheduler) Schedule(userID, token string, r stores.Reminder) {
	if r.Every <= 0 {
		log.Printf("Ignoring reminder for user %s with interval %v", userID, r.Every)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if cancel, ok := s.cancels[userID]; ok {
		cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancels[userID] = cancel

	s.wg.Add(1)
	go s.run(ctx, userID, token, r)
}

func (s *ReminderScheduler) run(ctx context.Context, userID, token string, r stores.Reminder) {
	defer s.wg.Done()

	ticker := time.NewTicker(r.Every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			if _, err := s.push.Send(ctx, token, r.Payload); err != nil {
				log.Printf("Error sending reminder to user %s: %v", userID, err)
			}
		}
	}
}

// Cancel stops the user's reminder, if any
func (s *ReminderScheduler) Cancel(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cancel, ok := s.cancels[userID]; ok {
		cancel()
		delete(s.cancels, userID)
	}
}

// Active reports how many users have a reminder running
func (s *ReminderScheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cancels)
}

// Stop cancels every reminder and waits for the goroutines to exit
func (s *ReminderScheduler) Stop() {
	s.mu.Lock()
	for userID, cancel := range s.cancels {
		cancel()
		delete(s.cancels, userID)
	}
	s.mu.Unlock()
	s.wg.Wait()
}
