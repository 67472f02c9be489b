package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/savora-app/savora_backend/models"
	"github.com/savora-app/savora_backend/stores"
)

// TokenStore persists the device push token on the user's profile
type TokenStore interface {
	UpdatePushToken(ctx context.Context, userID, token, platform string) error
	PushToken(ctx context.Context, userID string) (string, error)
}

// DevicePlatform answers push registration with what the device reported.
// The device asks the OS for permission and an FCM token before calling the API.
type DevicePlatform struct {
	userID    string
	req       models.PushRegistrationRequest
	tokens    TokenStore
	reminders *ReminderScheduler
}

func NewDevicePlatform(userID string, req models.PushRegistrationRequest, tokens TokenStore, reminders *ReminderScheduler) *DevicePlatform {
	return &DevicePlatform{
		userID:    userID,
		req:       req,
		tokens:    tokens,
		reminders: reminders,
	}
}

func (p *DevicePlatform) RequestPermission(ctx context.Context) (bool, error) {
	return p.req.PermissionGranted, nil
}

// PushToken stores the reported token on the profile and returns it
func (p *DevicePlatform) PushToken(ctx context.Context) (string, error) {
	if p.req.PushToken == "" {
		return "", nil
	}
	if err := p.tokens.UpdatePushToken(ctx, p.userID, p.req.PushToken, p.req.Platform); err != nil {
		return "", fmt.Errorf("save push token: %w", err)
	}
	return p.req.PushToken, nil
}

func (p *DevicePlatform) ScheduleReminder(ctx context.Context, r stores.Reminder) error {
	if p.reminders == nil {
		return errors.New("reminders not configured")
	}
	p.reminders.Schedule(p.userID, p.req.PushToken, r)
	return nil
}

func (p *DevicePlatform) CancelReminder(ctx context.Context) error {
	if p.reminders == nil {
		return errors.New("reminders not configured")
	}
	p.reminders.Cancel(p.userID)
	return nil
}
