package stores

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/savora-app/savora_backend/models"
)

// DefaultNotificationDuration is how long a notification stays up when
// the caller does not say otherwise.
const DefaultNotificationDuration = 5000 * time.Millisecond

// DefaultStackSpacing is the vertical distance between stacked notifications
const DefaultStackSpacing = 80

// Scheduler runs f once after d and returns a function that cancels it.
// The cancel function reports whether it stopped f from running.
type Scheduler func(d time.Duration, f func()) (stop func() bool)

// AfterFunc is the Scheduler backed by time.AfterFunc
func AfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// Reminder is the recurring nudge scheduled after push registration
type Reminder struct {
	Title   string
	Message string
	Every   time.Duration
	Payload models.PushPayload
}

// PushPlatform is the device side of push registration
type PushPlatform interface {
	RequestPermission(ctx context.Context) (bool, error)
	PushToken(ctx context.Context) (string, error)
	ScheduleReminder(ctx context.Context, r Reminder) error
	CancelReminder(ctx context.Context) error
}

// NotificationOptions configures a notification queue
type NotificationOptions struct {
	DefaultDuration time.Duration
	// MaxVisible caps concurrently visible notifications; 0 leaves it unbounded.
	// Showing past the cap dismisses the oldest visible one.
	MaxVisible   int
	StackSpacing int
	// ExitDelay is how long a dismissed notification stays in the dismissing
	// state before it is removed. 0 removes it immediately.
	ExitDelay        time.Duration
	ReminderInterval time.Duration
	Schedule         Scheduler
	Snapshot         Snapshotter
	SettingsKey      string
	OnEvent          func(models.NotificationEvent)
}

type queued struct {
	n    models.Notification
	stop func() bool
}

// Notifications is a queue of transient in-app notifications plus the
// settings that gate category-specific ones.
type Notifications struct {
	mu       sync.Mutex
	queue    []*queued
	settings models.NotificationSettings
	opts     NotificationOptions
	initOnce sync.Once
	// platform is set once a push token has been registered
	platform PushPlatform
}

// NewNotifications creates an empty queue with default settings
func NewNotifications(opts NotificationOptions) *Notifications {
	if opts.DefaultDuration <= 0 {
		opts.DefaultDuration = DefaultNotificationDuration
	}
	if opts.StackSpacing <= 0 {
		opts.StackSpacing = DefaultStackSpacing
	}
	if opts.ReminderInterval <= 0 {
		opts.ReminderInterval = 24 * time.Hour
	}
	if opts.Schedule == nil {
		opts.Schedule = AfterFunc
	}
	return &Notifications{
		settings: models.DefaultNotificationSettings(),
		opts:     opts,
	}
}

// ShowNotification appends a visible notification and arms its expiry timer.
// Identical notifications are not merged.
func (s *Notifications) ShowNotification(in models.NotificationInput) models.Notification {
	if !in.Type.Valid() {
		in.Type = models.NotificationInfo
	}
	if in.Category == "" {
		in.Category = CategoryFor(in.Type)
	}
	duration := in.Duration
	if duration <= 0 {
		duration = s.opts.DefaultDuration
	}

	n := models.Notification{
		ID:         uuid.NewString(),
		Type:       in.Type,
		Category:   in.Category,
		Title:      in.Title,
		Message:    in.Message,
		Visible:    true,
		State:      models.StateVisible,
		DurationMs: duration.Milliseconds(),
		Action:     in.Action,
		CreatedAt:  time.Now(),
	}

	s.mu.Lock()
	q := &queued{n: n}
	s.queue = append(s.queue, q)
	evicted := s.evictLocked()
	id := n.ID
	q.stop = s.opts.Schedule(duration, func() { s.DismissNotification(id) })
	s.mu.Unlock()

	for _, ev := range evicted {
		s.emit(ev)
	}
	s.emit(models.NotificationEvent{Kind: models.EventShown, Notification: &n, ID: n.ID})
	return n
}

// DismissNotification starts dismissal of a notification. Dismissing an
// absent or already dismissing notification does nothing.
func (s *Notifications) DismissNotification(id string) bool {
	s.mu.Lock()
	ev, ok := s.dismissLocked(id)
	s.mu.Unlock()

	if ok {
		s.emit(ev)
	}
	return ok
}

// PressAction runs the action of a visible notification and dismisses it.
// It returns the pressed notification.
func (s *Notifications) PressAction(id string) (models.Notification, bool) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 || s.queue[i].n.State != models.StateVisible {
		s.mu.Unlock()
		return models.Notification{}, false
	}
	n := s.queue[i].n
	s.mu.Unlock()

	if n.Action != nil && n.Action.OnPress != nil {
		n.Action.OnPress()
	}
	return n, s.DismissNotification(id)
}

// ClearAllNotifications empties the queue and cancels all timers
func (s *Notifications) ClearAllNotifications() {
	s.mu.Lock()
	for _, q := range s.queue {
		if q.stop != nil {
			q.stop()
		}
	}
	s.queue = nil
	s.mu.Unlock()

	s.emit(models.NotificationEvent{Kind: models.EventCleared})
}

// Close stops every pending timer without emitting events
func (s *Notifications) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, q := range s.queue {
		if q.stop != nil {
			q.stop()
		}
	}
	s.queue = nil
}

// Notifications returns the queue, oldest first, including notifications
// that are still dismissing
func (s *Notifications) Notifications() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Notification, len(s.queue))
	for i, q := range s.queue {
		out[i] = q.n
	}
	return out
}

// Stack returns the visible notifications with their display offsets.
// The Nth oldest visible notification sits N × spacing from the top.
func (s *Notifications) Stack() []models.StackedNotification {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.StackedNotification, 0, len(s.queue))
	for _, q := range s.queue {
		if q.n.State != models.StateVisible {
			continue
		}
		out = append(out, models.StackedNotification{
			Notification: q.n,
			Offset:       len(out) * s.opts.StackSpacing,
		})
	}
	return out
}

// ShowSuccess shows a success notification
func (s *Notifications) ShowSuccess(title, message string) models.Notification {
	return s.ShowNotification(models.NotificationInput{Type: models.NotificationSuccess, Title: title, Message: message})
}

// ShowError shows an error notification
func (s *Notifications) ShowError(title, message string) models.Notification {
	return s.ShowNotification(models.NotificationInput{Type: models.NotificationError, Title: title, Message: message})
}

// ShowInfo shows an info notification
func (s *Notifications) ShowInfo(title, message string) models.Notification {
	return s.ShowNotification(models.NotificationInput{Type: models.NotificationInfo, Title: title, Message: message})
}

// ShowWarning shows a warning notification
func (s *Notifications) ShowWarning(title, message string) models.Notification {
	return s.ShowNotification(models.NotificationInput{Type: models.NotificationWarning, Title: title, Message: message})
}

// ShowPromo shows a promotion unless promotions are disabled
func (s *Notifications) ShowPromo(title, message string) (models.Notification, bool) {
	if !s.Settings().PromosEnabled {
		return models.Notification{}, false
	}
	return s.ShowNotification(models.NotificationInput{
		Type:     models.NotificationPromo,
		Category: models.CategoryPromotions,
		Title:    title,
		Message:  message,
	}), true
}

// ShowOrderConfirmation tells the user their order went through, unless
// order notifications are disabled
func (s *Notifications) ShowOrderConfirmation(orderID string) (models.Notification, bool) {
	if !s.Settings().OrdersEnabled {
		return models.Notification{}, false
	}
	return s.ShowNotification(models.NotificationInput{
		Type:     models.NotificationSuccess,
		Category: models.CategoryOrders,
		Title:    "Order Confirmed!",
		Message:  fmt.Sprintf("Your order #%s has been placed. We'll let you know when it's ready.", orderID),
	}), true
}

// ShowOrderReady tells the user their order is ready, unless order
// notifications are disabled
func (s *Notifications) ShowOrderReady(orderID string) (models.Notification, bool) {
	if !s.Settings().OrdersEnabled {
		return models.Notification{}, false
	}
	return s.ShowNotification(models.NotificationInput{
		Type:     models.NotificationSuccess,
		Category: models.CategoryOrders,
		Title:    "Order Ready",
		Message:  fmt.Sprintf("Your order #%s is ready!", orderID),
	}), true
}

// ShowLoyaltyReward announces earned loyalty points, unless loyalty
// notifications are disabled
func (s *Notifications) ShowLoyaltyReward(points int) (models.Notification, bool) {
	if !s.Settings().LoyaltyEnabled {
		return models.Notification{}, false
	}
	return s.ShowNotification(models.NotificationInput{
		Type:     models.NotificationPromo,
		Category: models.CategoryLoyalty,
		Title:    "Reward Earned",
		Message:  fmt.Sprintf("You earned %d loyalty points!", points),
	}), true
}

// Settings returns the current notification settings
func (s *Notifications) Settings() models.NotificationSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// UpdateSettings shallow-merges u into the settings and persists them.
// Turning reminders off cancels the registered device's reminder; turning
// them back on schedules it again.
func (s *Notifications) UpdateSettings(u models.NotificationSettingsUpdate) models.NotificationSettings {
	s.mu.Lock()
	remindersWere := s.settings.RemindersEnabled
	s.settings = u.Apply(s.settings)
	writeThrough(s.opts.Snapshot, s.opts.SettingsKey, s.settings)
	settings := s.settings
	platform := s.platform
	s.mu.Unlock()

	if platform == nil || !settings.PushTokenRegistered || settings.RemindersEnabled == remindersWere {
		return settings
	}

	ctx := context.Background()
	if settings.RemindersEnabled {
		if err := platform.ScheduleReminder(ctx, s.reminder()); err != nil {
			log.Printf("Error scheduling reminder: %v", err)
		}
	} else if err := platform.CancelReminder(ctx); err != nil {
		log.Printf("Error cancelling reminder: %v", err)
	}
	return settings
}

// PushPayload formats n for the push gateway
func (s *Notifications) PushPayload(n models.Notification) models.PushPayload {
	data := map[string]string{
		"notificationId": n.ID,
		"type":           string(n.Type),
	}
	if n.Action != nil {
		for k, v := range n.Action.Payload {
			data[k] = v
		}
	}
	return models.PushPayload{
		Title:    n.Title,
		Body:     n.Message,
		Channel:  ChannelFor(n.Category),
		Category: string(n.Category),
		Data:     data,
	}
}

// InitializeNotifications registers the device for push once per queue.
// Permission denial is a normal outcome; failures are logged, not returned.
func (s *Notifications) InitializeNotifications(ctx context.Context, platform PushPlatform) models.NotificationSettings {
	s.initOnce.Do(func() {
		s.initialize(ctx, platform)
	})
	return s.Settings()
}

func (s *Notifications) initialize(ctx context.Context, platform PushPlatform) {
	granted, err := platform.RequestPermission(ctx)
	if err != nil {
		log.Printf("Error requesting notification permission: %v", err)
		return
	}
	if !granted {
		log.Println("Notification permission not granted, push disabled")
		return
	}

	token, err := platform.PushToken(ctx)
	if err != nil {
		log.Printf("Error obtaining push token: %v", err)
		return
	}
	if token == "" {
		return
	}

	registered := true
	settings := s.UpdateSettings(models.NotificationSettingsUpdate{PushTokenRegistered: &registered})

	s.mu.Lock()
	s.platform = platform
	s.mu.Unlock()

	if !settings.RemindersEnabled {
		return
	}
	if err := platform.ScheduleReminder(ctx, s.reminder()); err != nil {
		log.Printf("Error scheduling reminder: %v", err)
	}
}

func (s *Notifications) reminder() Reminder {
	r := Reminder{
		Title:   "Hungry?",
		Message: "Your favorites are waiting. Order now!",
		Every:   s.opts.ReminderInterval,
	}
	r.Payload = models.PushPayload{
		Title:    r.Title,
		Body:     r.Message,
		Channel:  ChannelFor(models.CategoryReminders),
		Category: string(models.CategoryReminders),
	}
	return r
}

// Restore loads persisted notification settings
func (s *Notifications) Restore(ctx context.Context) error {
	var settings models.NotificationSettings
	found, err := restore(ctx, s.opts.Snapshot, s.opts.SettingsKey, &settings)
	if err != nil || !found {
		return err
	}
	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()
	return nil
}

func (s *Notifications) dismissLocked(id string) (models.NotificationEvent, bool) {
	i := s.indexOf(id)
	if i < 0 || s.queue[i].n.State == models.StateDismissing {
		return models.NotificationEvent{}, false
	}

	q := s.queue[i]
	if q.stop != nil {
		q.stop()
	}
	q.n.State = models.StateDismissing
	q.n.Visible = false

	if s.opts.ExitDelay <= 0 {
		s.queue = append(s.queue[:i], s.queue[i+1:]...)
	} else {
		q.stop = s.opts.Schedule(s.opts.ExitDelay, func() { s.remove(id) })
	}
	return models.NotificationEvent{Kind: models.EventDismissed, ID: id}, true
}

func (s *Notifications) remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		s.queue = append(s.queue[:i], s.queue[i+1:]...)
	}
}

// evictLocked dismisses the oldest visible notifications above MaxVisible
func (s *Notifications) evictLocked() []models.NotificationEvent {
	if s.opts.MaxVisible <= 0 {
		return nil
	}
	var events []models.NotificationEvent
	for s.visibleCount() > s.opts.MaxVisible {
		oldest := ""
		for _, q := range s.queue {
			if q.n.State == models.StateVisible {
				oldest = q.n.ID
				break
			}
		}
		ev, ok := s.dismissLocked(oldest)
		if !ok {
			break
		}
		events = append(events, ev)
	}
	return events
}

func (s *Notifications) visibleCount() int {
	n := 0
	for _, q := range s.queue {
		if q.n.State == models.StateVisible {
			n++
		}
	}
	return n
}

func (s *Notifications) indexOf(id string) int {
	for i, q := range s.queue {
		if q.n.ID == id {
			return i
		}
	}
	return -1
}

func (s *Notifications) emit(ev models.NotificationEvent) {
	if s.opts.OnEvent != nil {
		s.opts.OnEvent(ev)
	}
}
