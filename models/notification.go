package models

import (
	"time"
)

// NotificationType is the visual kind of an in-app notification
type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
	NotificationInfo    NotificationType = "info"
	NotificationWarning NotificationType = "warning"
	NotificationPromo   NotificationType = "promo"
)

// Valid reports whether t is one of the known notification types
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationSuccess, NotificationError, NotificationInfo, NotificationWarning, NotificationPromo:
		return true
	}
	return false
}

// NotificationCategory groups notifications for settings gating and push channels
type NotificationCategory string

const (
	CategoryGeneral    NotificationCategory = "general"
	CategoryOrders     NotificationCategory = "orders"
	CategoryPromotions NotificationCategory = "promotions"
	CategoryReminders  NotificationCategory = "reminders"
	CategoryLoyalty    NotificationCategory = "loyalty"
)

// NotificationState tracks where a queued notification is in its lifecycle.
// Removed notifications are no longer in the queue at all.
type NotificationState string

const (
	StateVisible    NotificationState = "visible"
	StateDismissing NotificationState = "dismissing"
)

// NotificationAction is the optional button on a notification.
// OnPress runs in-process when the action is pressed.
type NotificationAction struct {
	Label   string            `json:"label" validate:"required"`
	Payload map[string]string `json:"payload,omitempty"`
	OnPress func()            `json:"-"`
}

// Notification is a transient in-app banner
type Notification struct {
	ID         string               `json:"id"`
	Type       NotificationType     `json:"type"`
	Category   NotificationCategory `json:"category"`
	Title      string               `json:"title"`
	Message    string               `json:"message"`
	Visible    bool                 `json:"visible"`
	State      NotificationState    `json:"state"`
	DurationMs int64                `json:"durationMs"`
	Action     *NotificationAction  `json:"action,omitempty"`
	CreatedAt  time.Time            `json:"createdAt"`
}

// StackedNotification is a visible notification with its vertical display offset
type StackedNotification struct {
	Notification
	Offset int `json:"offset"`
}

// NotificationInput describes a notification to show. Zero Duration means the store default.
type NotificationInput struct {
	Type     NotificationType
	Category NotificationCategory
	Title    string
	Message  string
	Duration time.Duration
	Action   *NotificationAction
}

// ShowNotificationRequest is the body of POST /api/notifications
type ShowNotificationRequest struct {
	Type       NotificationType    `json:"type" validate:"required,oneof=success error info warning promo"`
	Title      string              `json:"title" validate:"required"`
	Message    string              `json:"message"`
	DurationMs int64               `json:"durationMs" validate:"gte=0"`
	Action     *NotificationAction `json:"action,omitempty"`
}

// NotificationEventKind names what happened to the queue
type NotificationEventKind string

const (
	EventShown     NotificationEventKind = "notification_shown"
	EventDismissed NotificationEventKind = "notification_dismissed"
	EventCleared   NotificationEventKind = "notifications_cleared"
)

// NotificationEvent is emitted to observers of a notification queue
type NotificationEvent struct {
	Kind         NotificationEventKind `json:"type"`
	Notification *Notification         `json:"notification,omitempty"`
	ID           string                `json:"id,omitempty"`
}

// NotificationSettings gates category-specific notifications
type NotificationSettings struct {
	OrdersEnabled       bool `json:"ordersEnabled"`
	PromosEnabled       bool `json:"promosEnabled"`
	RemindersEnabled    bool `json:"remindersEnabled"`
	LoyaltyEnabled      bool `json:"loyaltyEnabled"`
	PushTokenRegistered bool `json:"pushTokenRegistered"`
}

// DefaultNotificationSettings enables every category; no push token yet
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		OrdersEnabled:    true,
		PromosEnabled:    true,
		RemindersEnabled: true,
		LoyaltyEnabled:   true,
	}
}

// NotificationSettingsUpdate is a partial update; nil fields are left alone
type NotificationSettingsUpdate struct {
	OrdersEnabled       *bool `json:"ordersEnabled,omitempty"`
	PromosEnabled       *bool `json:"promosEnabled,omitempty"`
	RemindersEnabled    *bool `json:"remindersEnabled,omitempty"`
	LoyaltyEnabled      *bool `json:"loyaltyEnabled,omitempty"`
	PushTokenRegistered *bool `json:"pushTokenRegistered,omitempty"`
}

// Apply shallow-merges u into s
func (u NotificationSettingsUpdate) Apply(s NotificationSettings) NotificationSettings {
	if u.OrdersEnabled != nil {
		s.OrdersEnabled = *u.OrdersEnabled
	}
	if u.PromosEnabled != nil {
		s.PromosEnabled = *u.PromosEnabled
	}
	if u.RemindersEnabled != nil {
		s.RemindersEnabled = *u.RemindersEnabled
	}
	if u.LoyaltyEnabled != nil {
		s.LoyaltyEnabled = *u.LoyaltyEnabled
	}
	if u.PushTokenRegistered != nil {
		s.PushTokenRegistered = *u.PushTokenRegistered
	}
	return s
}

// PushRegistrationRequest is sent by the device after asking the OS for permission
type PushRegistrationRequest struct {
	PermissionGranted bool   `json:"permissionGranted"`
	PushToken         string `json:"pushToken"`
	Platform          string `json:"platform" validate:"omitempty,oneof=ios android"`
}

// PushPayload is the outbound message handed to the push gateway
type PushPayload struct {
	Title    string            `json:"title"`
	Body     string            `json:"body"`
	Channel  string            `json:"channel"`
	Category string            `json:"category"`
	Data     map[string]string `json:"data,omitempty"`
}
