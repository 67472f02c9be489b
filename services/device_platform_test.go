package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/savora-app/savora_backend/models"
	"github.com/savora-app/savora_backend/stores"
)

func TestDevicePlatform(t *testing.T) {
	ctx := context.Background()
	tokens := newFakeTokens()
	reminders := NewReminderScheduler(&fakePusher{})
	defer reminders.Stop()

	platform := NewDevicePlatform("user-1", models.PushRegistrationRequest{
		PermissionGranted: true,
		PushToken:         "device-token",
		Platform:          "ios",
	}, tokens, reminders)

	granted, err := platform.RequestPermission(ctx)
	require.NoError(t, err)
	assert.True(t, granted)

	token, err := platform.PushToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "device-token", token)
	assert.Equal(t, "device-token", tokens.tokens["user-1"])
	assert.Equal(t, "ios", tokens.platform["user-1"])

	require.NoError(t, platform.ScheduleReminder(ctx, stores.Reminder{Every: time.Hour}))
	assert.Equal(t, 1, reminders.Active())

	require.NoError(t, platform.CancelReminder(ctx))
	assert.Zero(t, reminders.Active())
}

func TestDevicePlatform_TokenStoreFailure(t *testing.T) {
	tokens := newFakeTokens()
	tokens.err = errors.New("mongo down")

	platform := NewDevicePlatform("user-1", models.PushRegistrationRequest{
		PermissionGranted: true,
		PushToken:         "device-token",
	}, tokens, nil)

	_, err := platform.PushToken(context.Background())
	assert.Error(t, err)
	assert.Error(t, platform.ScheduleReminder(context.Background(), stores.Reminder{Every: time.Hour}))
	assert.Error(t, platform.CancelReminder(context.Background()))
}

func TestDevicePlatform_InitializesNotificationQueue(t *testing.T) {
	tokens := newFakeTokens()
	reminders := NewReminderScheduler(&fakePusher{})
	defer reminders.Stop()

	queue := stores.NewNotifications(stores.NotificationOptions{ReminderInterval: time.Hour})
	platform := NewDevicePlatform("user-1", models.PushRegistrationRequest{
		PermissionGranted: true,
		PushToken:         "device-token",
		Platform:          "android",
	}, tokens, reminders)

	settings := queue.InitializeNotifications(context.Background(), platform)

	assert.True(t, settings.PushTokenRegistered)
	assert.Equal(t, 1, reminders.Active())
}

func TestDevicePlatform_DisablingRemindersStopsPushes(t *testing.T) {
	pusher := &fakePusher{}
	reminders := NewReminderScheduler(pusher)
	defer reminders.Stop()

	queue := stores.NewNotifications(stores.NotificationOptions{ReminderInterval: 5 * time.Millisecond})
	platform := NewDevicePlatform("user-1", models.PushRegistrationRequest{
		PermissionGranted: true,
		PushToken:         "device-token",
	}, newFakeTokens(), reminders)
	queue.InitializeNotifications(context.Background(), platform)
	assert.Eventually(t, func() bool { return pusher.count() >= 1 }, time.Second, time.Millisecond)

	off := false
	queue.UpdateSettings(models.NotificationSettingsUpdate{RemindersEnabled: &off})
	assert.Zero(t, reminders.Active())

	// let a send that was already in flight finish
	time.Sleep(10 * time.Millisecond)
	sent := pusher.count()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, sent, pusher.count())

	on := true
	queue.UpdateSettings(models.NotificationSettingsUpdate{RemindersEnabled: &on})
	assert.Equal(t, 1, reminders.Active())
}
