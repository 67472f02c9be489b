package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/savora-app/savora_backend/models"
	"github.com/savora-app/savora_backend/stores"
)

var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrRestaurantClosed = errors.New("restaurant is closed")
)

// BelowMinimumError is returned when the subtotal does not reach the minimum order
type BelowMinimumError struct {
	Subtotal int64
	Minimum  int64
}

func (e *BelowMinimumError) Error() string {
	return fmt.Sprintf("order subtotal %d is below the minimum of %d", e.Subtotal, e.Minimum)
}

// OrderMailer sends the order confirmation email
type OrderMailer interface {
	SendOrderConfirmation(ctx context.Context, req models.OrderConfirmationEmailRequest) error
}

// SettingsSource provides the current restaurant settings
type SettingsSource interface {
	Ensure(ctx context.Context) (models.RestaurantSettings, error)
}

// OrderService places an order from a session's cart
type OrderService struct {
	settings SettingsSource
	mail     OrderMailer
	push     Pusher
	tokens   TokenStore
}

func NewOrderService(settings SettingsSource, mail OrderMailer, push Pusher, tokens TokenStore) *OrderService {
	return &OrderService{
		settings: settings,
		mail:     mail,
		push:     push,
		tokens:   tokens,
	}
}

// Checkout prices the cart, sends the confirmation email, shows the order
// notification, pushes it to the user's device and takes the ordered lines
// off the cart.
// Email and push failures are reported in the response, not returned.
func (s *OrderService) Checkout(ctx context.Context, sess *stores.Session, req models.CheckoutRequest) (*models.CheckoutResponse, error) {
	settings, err := s.settings.Ensure(ctx)
	if err != nil {
		return nil, err
	}
	if !settings.IsOpen {
		return nil, ErrRestaurantClosed
	}

	summary := sess.Cart.Summary(settings)
	if len(summary.Lines) == 0 {
		return nil, ErrEmptyCart
	}
	if !summary.MeetsMinimum {
		return nil, &BelowMinimumError{Subtotal: summary.Subtotal, Minimum: settings.MinimumOrder}
	}

	orderID := uuid.New().String()
	resp := &models.CheckoutResponse{OrderID: orderID, Summary: summary}

	if err := s.mail.SendOrderConfirmation(ctx, models.OrderConfirmationEmailRequest{
		CustomerEmail:   req.CustomerEmail,
		CustomerName:    req.CustomerName,
		OrderDetails:    OrderDetails(summary),
		OrderTotal:      fmt.Sprintf("%d", summary.Total),
		DeliveryAddress: req.DeliveryAddress,
		Phone:           req.Phone,
	}); err != nil {
		log.Printf("Error sending order confirmation for order %s: %v", orderID, err)
	} else {
		resp.EmailSent = true
	}

	if n, shown := sess.Notifications.ShowOrderConfirmation(orderID); shown {
		resp.PushDelivered = PushToSession(ctx, s.push, s.tokens, sess, n)
	}

	sess.Cart.RemoveLines(summary.Lines)
	return resp, nil
}

// OrderDetails renders the cart lines for the confirmation email
func OrderDetails(summary models.OrderSummary) string {
	var b strings.Builder
	for _, line := range summary.Lines {
		fmt.Fprintf(&b, "%dx %s  %d\n", line.Quantity, line.MenuItem.Name, line.Subtotal())
	}
	fmt.Fprintf(&b, "Subtotal: %d\n", summary.Subtotal)
	fmt.Fprintf(&b, "Delivery: %d", summary.DeliveryFee)
	return b.String()
}
