package services

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/savora-app/savora_backend/models"
)

type mockDialer struct {
	mock.Mock
}

func (m *mockDialer) DialAndSend(msgs ...*gomail.Message) error {
	args := m.Called(len(msgs))
	return args.Error(0)
}

type recordingDialer struct {
	sent []*gomail.Message
}

func (d *recordingDialer) DialAndSend(msgs ...*gomail.Message) error {
	d.sent = append(d.sent, msgs...)
	return nil
}

func body(t *testing.T, m *gomail.Message) string {
	t.Helper()
	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	return buf.String()
}

func TestSendWithRetry(t *testing.T) {
	errSMTP := errors.New("421 service not available")

	tests := []struct {
		name      string
		failures  int
		wantErr   bool
		wantCalls int
	}{
		{"first attempt succeeds", 0, false, 1},
		{"succeeds on third attempt", 2, false, 3},
		{"gives up after three attempts", 3, true, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dialer := new(mockDialer)
			if tt.failures > 0 {
				dialer.On("DialAndSend", 1).Return(errSMTP).Times(tt.failures)
			}
			dialer.On("DialAndSend", 1).Return(nil).Maybe()

			svc := NewMailServiceWithDialer(dialer, "orders@savora.test", "kitchen@savora.test", 3, time.Millisecond)
			err := svc.SendWithRetry(context.Background(), gomail.NewMessage())

			if tt.wantErr {
				assert.ErrorIs(t, err, errSMTP)
			} else {
				assert.NoError(t, err)
			}
			dialer.AssertNumberOfCalls(t, "DialAndSend", tt.wantCalls)
		})
	}
}

func TestSendWithRetry_StopsWhenContextDone(t *testing.T) {
	dialer := new(mockDialer)
	dialer.On("DialAndSend", 1).Return(errors.New("timeout"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewMailServiceWithDialer(dialer, "orders@savora.test", "kitchen@savora.test", 3, time.Hour)
	err := svc.SendWithRetry(ctx, gomail.NewMessage())

	assert.ErrorIs(t, err, context.Canceled)
	dialer.AssertNumberOfCalls(t, "DialAndSend", 1)
}

func TestSendContact_GoesToRestaurantWithReplyTo(t *testing.T) {
	dialer := &recordingDialer{}
	svc := NewMailServiceWithDialer(dialer, "orders@savora.test", "kitchen@savora.test", 3, 0)

	err := svc.SendContact(models.ContactEmailRequest{
		Name:    "Jane",
		Email:   "jane@example.com",
		Subject: "Allergies",
		Message: "Do you have gluten free options?",
	})
	require.NoError(t, err)
	require.Len(t, dialer.sent, 1)

	m := dialer.sent[0]
	assert.Equal(t, []string{"kitchen@savora.test"}, m.GetHeader("To"))
	assert.Contains(t, m.GetHeader("Reply-To")[0], "jane@example.com")
	assert.Equal(t, []string{"Contact form: Allergies"}, m.GetHeader("Subject"))
	assert.Contains(t, body(t, m), "gluten free")
}

func TestSendBooking_SendsRestaurantAndCustomerCopies(t *testing.T) {
	dialer := &recordingDialer{}
	svc := NewMailServiceWithDialer(dialer, "orders@savora.test", "kitchen@savora.test", 3, 0)

	err := svc.SendBooking(models.BookingEmailRequest{
		CustomerEmail: "jane@example.com",
		CustomerName:  "Jane",
		BookingDate:   "2026-10-20",
		BookingTime:   "19:30",
		Guests:        4,
		Phone:         "+15551234567",
	})
	require.NoError(t, err)
	require.Len(t, dialer.sent, 2)

	assert.Equal(t, []string{"kitchen@savora.test"}, dialer.sent[0].GetHeader("To"))
	assert.Equal(t, []string{"jane@example.com"}, dialer.sent[1].GetHeader("To"))
	assert.Contains(t, body(t, dialer.sent[0]), "Guests: 4")
}

func TestSendOrderConfirmation_GoesToCustomer(t *testing.T) {
	dialer := &recordingDialer{}
	svc := NewMailServiceWithDialer(dialer, "orders@savora.test", "kitchen@savora.test", 3, 0)

	err := svc.SendOrderConfirmation(context.Background(), models.OrderConfirmationEmailRequest{
		CustomerEmail:   "jane@example.com",
		CustomerName:    "Jane",
		OrderDetails:    "2x Burger  2400",
		OrderTotal:      "2700",
		DeliveryAddress: "1 Main St",
		Phone:           "+15551234567",
	})
	require.NoError(t, err)
	require.Len(t, dialer.sent, 1)

	m := dialer.sent[0]
	assert.Equal(t, []string{"jane@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"orders@savora.test"}, m.GetHeader("From"))
	assert.Contains(t, body(t, m), "Total: 2700")
}
