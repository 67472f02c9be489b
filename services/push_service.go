package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"

	"github.com/savora-app/savora_backend/metrics"
	"github.com/savora-app/savora_backend/models"
	"github.com/savora-app/savora_backend/stores"
)

// ErrPushUnavailable is returned when Firebase was never initialized
var ErrPushUnavailable = errors.New("push delivery not configured")

// ErrNoPushToken is returned when the user never registered a device
var ErrNoPushToken = errors.New("no push token registered")

// Messenger is the part of the FCM client the push service uses
type Messenger interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// PushService delivers push payloads through Firebase Cloud Messaging
type PushService struct {
	client Messenger
}

// NewPushService creates a push service from an initialized Firebase app.
// A nil app yields a service whose sends fail with ErrPushUnavailable.
func NewPushService(ctx context.Context, app *firebase.App) (*PushService, error) {
	if app == nil {
		log.Println("Firebase app is not initialized, push delivery disabled")
		return &PushService{}, nil
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize messaging client: %w", err)
	}
	return &PushService{client: client}, nil
}

func NewPushServiceWithClient(client Messenger) *PushService {
	return &PushService{client: client}
}

// Send pushes p to a single device token and returns the FCM message id
func (s *PushService) Send(ctx context.Context, token string, p models.PushPayload) (string, error) {
	if s == nil || s.client == nil {
		return "", ErrPushUnavailable
	}
	if token == "" {
		return "", ErrNoPushToken
	}

	id, err := s.client.Send(ctx, buildMessage(token, p))
	metrics.PushesSent.WithLabelValues(p.Channel, metrics.Result(err)).Inc()
	if err != nil {
		return "", fmt.Errorf("failed to send FCM notification: %w", err)
	}
	log.Printf("FCM notification sent on channel %s: %s", p.Channel, id)
	return id, nil
}

func buildMessage(token string, p models.PushPayload) *messaging.Message {
	data := map[string]string{
		"category":  p.Category,
		"timestamp": time.Now().Format(time.RFC3339),
	}
	for key, value := range p.Data {
		data[key] = value
	}

	badge := 1
	return &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: p.Title,
			Body:  p.Body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound:     "default",
				ChannelID: p.Channel,
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Alert: &messaging.ApsAlert{
						Title: p.Title,
						Body:  p.Body,
					},
					Sound:    "default",
					Badge:    &badge,
					Category: p.Category,
				},
			},
		},
	}
}

// PushToSession delivers n to the device registered for the session's user.
// It reports false when no token is registered or delivery fails; failures
// are logged.
func PushToSession(ctx context.Context, push Pusher, tokens TokenStore, sess *stores.Session, n models.Notification) bool {
	if !sess.Notifications.Settings().PushTokenRegistered {
		return false
	}
	token, err := tokens.PushToken(ctx, sess.UserID)
	if err != nil {
		log.Printf("Error loading push token for user %s: %v", sess.UserID, err)
		return false
	}
	if _, err := push.Send(ctx, token, sess.Notifications.PushPayload(n)); err != nil {
		log.Printf("Error pushing notification to user %s: %v", sess.UserID, err)
		return false
	}
	return true
}
