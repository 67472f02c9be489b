package controllers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/savora-app/savora_backend/models"
	"github.com/savora-app/savora_backend/services"
	"github.com/savora-app/savora_backend/stores"
)

type NotificationController struct {
	sessions  *stores.Sessions
	tokens    services.TokenStore
	push      services.Pusher
	reminders *services.ReminderScheduler
}

func NewNotificationController(sessions *stores.Sessions, tokens services.TokenStore, push services.Pusher, reminders *services.ReminderScheduler) *NotificationController {
	return &NotificationController{
		sessions:  sessions,
		tokens:    tokens,
		push:      push,
		reminders: reminders,
	}
}

// SendToUserRequest is the body of POST /api/admin/notifications
type SendToUserRequest struct {
	UserID  string `json:"userId" validate:"required"`
	Kind    string `json:"kind" validate:"required,oneof=order_ready loyalty_reward promo"`
	OrderID string `json:"orderId" validate:"required_if=Kind order_ready"`
	Points  int    `json:"points" validate:"required_if=Kind loyalty_reward,gte=0"`
	Title   string `json:"title" validate:"required_if=Kind promo"`
	Message string `json:"message" validate:"required_if=Kind promo"`
}

// GetNotifications returns the visible stack with display offsets
func (nc *NotificationController) GetNotifications(c echo.Context) error {
	sess, err := sessionFor(c, nc.sessions)
	if err != nil {
		return unauthorized(c)
	}
	return success(c, "Notifications retrieved successfully", sess.Notifications.Stack())
}

// ShowNotification queues a notification for the user
func (nc *NotificationController) ShowNotification(c echo.Context) error {
	sess, err := sessionFor(c, nc.sessions)
	if err != nil {
		return unauthorized(c)
	}

	var req models.ShowNotificationRequest
	if valid, err := bindAndValidate(c, &req); !valid {
		return err
	}

	n := sess.Notifications.ShowNotification(models.NotificationInput{
		Type:     req.Type,
		Title:    req.Title,
		Message:  req.Message,
		Duration: time.Duration(req.DurationMs) * time.Millisecond,
		Action:   req.Action,
	})
	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Notification shown",
		Data:    n,
	})
}

// DismissNotification is idempotent; unknown ids succeed with dismissed=false
func (nc *NotificationController) DismissNotification(c echo.Context) error {
	sess, err := sessionFor(c, nc.sessions)
	if err != nil {
		return unauthorized(c)
	}

	dismissed := sess.Notifications.DismissNotification(c.Param("id"))
	return success(c, "Notification dismissed", map[string]bool{"dismissed": dismissed})
}

// PressAction runs a notification's action and dismisses it. The action
// label and payload are returned so the client can carry it out.
func (nc *NotificationController) PressAction(c echo.Context) error {
	sess, err := sessionFor(c, nc.sessions)
	if err != nil {
		return unauthorized(c)
	}

	n, pressed := sess.Notifications.PressAction(c.Param("id"))
	if !pressed {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Notification not found or already dismissed",
		})
	}
	return success(c, "Notification action pressed", n.Action)
}

func (nc *NotificationController) ClearAllNotifications(c echo.Context) error {
	sess, err := sessionFor(c, nc.sessions)
	if err != nil {
		return unauthorized(c)
	}
	sess.Notifications.ClearAllNotifications()
	return success(c, "Notifications cleared", nil)
}

func (nc *NotificationController) GetSettings(c echo.Context) error {
	sess, err := sessionFor(c, nc.sessions)
	if err != nil {
		return unauthorized(c)
	}
	return success(c, "Notification settings retrieved successfully", sess.Notifications.Settings())
}

// UpdateSettings merges the given toggles into the notification settings
func (nc *NotificationController) UpdateSettings(c echo.Context) error {
	sess, err := sessionFor(c, nc.sessions)
	if err != nil {
		return unauthorized(c)
	}

	var req models.NotificationSettingsUpdate
	if valid, err := bindAndValidate(c, &req); !valid {
		return err
	}
	// registration is owned by InitializeNotifications
	req.PushTokenRegistered = nil

	settings := sess.Notifications.UpdateSettings(req)
	// the reminder outlives a session evicted since registration
	if !settings.RemindersEnabled && nc.reminders != nil {
		nc.reminders.Cancel(sess.UserID)
	}
	return success(c, "Notification settings updated", settings)
}

// InitializeNotifications registers the device's push token. It runs once
// per session; later calls return the current settings.
func (nc *NotificationController) InitializeNotifications(c echo.Context) error {
	sess, err := sessionFor(c, nc.sessions)
	if err != nil {
		return unauthorized(c)
	}

	var req models.PushRegistrationRequest
	if valid, err := bindAndValidate(c, &req); !valid {
		return err
	}

	platform := services.NewDevicePlatform(sess.UserID, req, nc.tokens, nc.reminders)
	settings := sess.Notifications.InitializeNotifications(c.Request().Context(), platform)
	return success(c, "Notifications initialized", settings)
}

// SendToUser lets staff show an order-ready, loyalty or promo notification
// to a customer and pushes it to their device
func (nc *NotificationController) SendToUser(c echo.Context) error {
	var req SendToUserRequest
	if valid, err := bindAndValidate(c, &req); !valid {
		return err
	}

	sess := nc.sessions.Get(c.Request().Context(), req.UserID)

	var (
		n     models.Notification
		shown bool
	)
	switch req.Kind {
	case "order_ready":
		n, shown = sess.Notifications.ShowOrderReady(req.OrderID)
	case "loyalty_reward":
		n, shown = sess.Notifications.ShowLoyaltyReward(req.Points)
	case "promo":
		n, shown = sess.Notifications.ShowPromo(req.Title, req.Message)
	}
	if !shown {
		return success(c, "Notification suppressed by user settings", map[string]bool{"shown": false, "pushed": false})
	}

	pushed := services.PushToSession(c.Request().Context(), nc.push, nc.tokens, sess, n)

	return success(c, "Notification sent", map[string]interface{}{
		"shown":        true,
		"pushed":       pushed,
		"notification": n,
	})
}
