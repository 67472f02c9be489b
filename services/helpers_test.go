package services

import (
	"context"
	"sync"

	"github.com/savora-app/savora_backend/models"
)

type sentPush struct {
	token   string
	payload models.PushPayload
}

type fakePusher struct {
	mu   sync.Mutex
	sent []sentPush
	err  error
}

func (p *fakePusher) Send(ctx context.Context, token string, payload models.PushPayload) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return "", p.err
	}
	p.sent = append(p.sent, sentPush{token: token, payload: payload})
	return "msg", nil
}

func (p *fakePusher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sent)
}

type fakeTokens struct {
	mu       sync.Mutex
	tokens   map[string]string
	platform map[string]string
	err      error
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{tokens: map[string]string{}, platform: map[string]string{}}
}

func (f *fakeTokens) UpdatePushToken(ctx context.Context, userID, token, platform string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.tokens[userID] = token
	f.platform[userID] = platform
	return nil
}

func (f *fakeTokens) PushToken(ctx context.Context, userID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	return f.tokens[userID], nil
}
