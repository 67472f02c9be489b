package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/savora-app/savora_backend/models"
	"github.com/savora-app/savora_backend/services"
)

type fakeOrderMailer struct {
	sent int
}

func (m *fakeOrderMailer) SendOrderConfirmation(ctx context.Context, req models.OrderConfirmationEmailRequest) error {
	m.sent++
	return nil
}

const checkoutBody = `{"customerName":"Jane","customerEmail":"jane@example.com","deliveryAddress":"1 Main St","phone":"+15551234567"}`

func TestOrderController_Checkout(t *testing.T) {
	env := newTestEnv()
	mailer := &fakeOrderMailer{}
	orders := services.NewOrderService(env.settings, mailer, env.pusher, env.tokens)
	oc := NewOrderController(env.sessions, orders)
	cart := NewCartController(env.sessions, env.settings)

	rec, resp := env.serve(t, oc.Checkout, call{method: http.MethodPost, path: "/api/orders/checkout", body: checkoutBody, userID: "user-1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, services.ErrEmptyCart.Error(), resp.Message)

	env.serve(t, cart.AddItem, call{method: http.MethodPost, path: "/api/cart/items", body: `{"id":"pizza","name":"Pizza","price":1500}`, userID: "user-1"})

	rec, resp = env.serve(t, oc.Checkout, call{method: http.MethodPost, path: "/api/orders/checkout", body: checkoutBody, userID: "user-1"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var placed models.CheckoutResponse
	decodeData(t, resp, &placed)
	assert.NotEmpty(t, placed.OrderID)
	assert.Equal(t, int64(1800), placed.Summary.Total)
	assert.True(t, placed.EmailSent)
	assert.False(t, placed.PushDelivered, "no device registered")
	assert.Equal(t, 1, mailer.sent)

	_, resp = env.serve(t, cart.GetCart, call{method: http.MethodGet, path: "/api/cart", userID: "user-1"})
	var after models.CartResponse
	decodeData(t, resp, &after)
	assert.Empty(t, after.Lines)
}

func TestOrderController_CheckoutRejections(t *testing.T) {
	env := newTestEnv()
	closed := models.DefaultRestaurantSettings()
	closed.IsOpen = false
	env.remote.row = &closed

	orders := services.NewOrderService(env.settings, &fakeOrderMailer{}, env.pusher, env.tokens)
	oc := NewOrderController(env.sessions, orders)
	cart := NewCartController(env.sessions, env.settings)

	env.serve(t, cart.AddItem, call{method: http.MethodPost, path: "/api/cart/items", body: `{"id":"pizza","name":"Pizza","price":1500}`, userID: "user-1"})

	rec, _ := env.serve(t, oc.Checkout, call{method: http.MethodPost, path: "/api/orders/checkout", body: checkoutBody, userID: "user-1"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = env.serve(t, oc.Checkout, call{method: http.MethodPost, path: "/api/orders/checkout", body: `{"customerName":"Jane"}`, userID: "user-1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
