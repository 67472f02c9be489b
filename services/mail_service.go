package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/savora-app/savora_backend/config"
	"github.com/savora-app/savora_backend/metrics"
	"github.com/savora-app/savora_backend/models"
)

// Dialer sends composed messages; *gomail.Dialer satisfies it
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// MailService composes and sends the restaurant's transactional mail
type MailService struct {
	dialer     Dialer
	from       string
	restaurant string
	attempts   int
	delay      time.Duration
}

// NewMailService creates a mail service that sends through the configured SMTP server
func NewMailService(cfg config.AppConfig) *MailService {
	if cfg.SMTPHost == "" || cfg.SMTPUser == "" {
		log.Printf("WARNING: SMTP credentials not fully configured, mail sends will fail")
	}
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	return NewMailServiceWithDialer(dialer, cfg.MailFrom, cfg.RestaurantEmail, cfg.MailRetries, cfg.MailRetryDelay)
}

func NewMailServiceWithDialer(dialer Dialer, from, restaurant string, attempts int, delay time.Duration) *MailService {
	if attempts < 1 {
		attempts = 1
	}
	return &MailService{
		dialer:     dialer,
		from:       from,
		restaurant: restaurant,
		attempts:   attempts,
		delay:      delay,
	}
}

// SendContact forwards a contact form to the restaurant inbox, replying to the sender
func (s *MailService) SendContact(req models.ContactEmailRequest) error {
	m := s.newMessage(s.restaurant, "Contact form: "+req.Subject, contactBody(req))
	m.SetHeader("Reply-To", m.FormatAddress(req.Email, req.Name))
	err := s.dialer.DialAndSend(m)
	record("contact", err)
	if err != nil {
		return fmt.Errorf("send contact email: %w", err)
	}
	return nil
}

// SendBooking notifies the restaurant of a table booking and sends the customer a copy
func (s *MailService) SendBooking(req models.BookingEmailRequest) error {
	subject := fmt.Sprintf("Table booking: %s on %s at %s", req.CustomerName, req.BookingDate, req.BookingTime)
	body := bookingBody(req)

	restaurantCopy := s.newMessage(s.restaurant, subject, body)
	restaurantCopy.SetHeader("Reply-To", restaurantCopy.FormatAddress(req.CustomerEmail, req.CustomerName))
	customerCopy := s.newMessage(req.CustomerEmail, "Your booking request at Savora", body)

	err := s.dialer.DialAndSend(restaurantCopy, customerCopy)
	record("booking", err)
	if err != nil {
		return fmt.Errorf("send booking email: %w", err)
	}
	return nil
}

// SendOrderConfirmation emails the customer their order, retrying failed sends
func (s *MailService) SendOrderConfirmation(ctx context.Context, req models.OrderConfirmationEmailRequest) error {
	m := s.newMessage(req.CustomerEmail, "Your Savora order confirmation", orderConfirmationBody(req))
	err := s.SendWithRetry(ctx, m)
	record("order_confirmation", err)
	return err
}

// SendWithRetry makes up to the configured number of attempts with a fixed
// delay between them. It returns the last send error.
func (s *MailService) SendWithRetry(ctx context.Context, m *gomail.Message) error {
	var err error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		if err = s.dialer.DialAndSend(m); err == nil {
			return nil
		}
		log.Printf("Mail send attempt %d/%d failed: %v", attempt, s.attempts, err)
		if attempt == s.attempts {
			break
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("send email: %w", ctx.Err())
		case <-time.After(s.delay):
		}
	}
	return fmt.Errorf("send email after %d attempts: %w", s.attempts, err)
}

func (s *MailService) newMessage(to, subject, body string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return m
}

func record(kind string, err error) {
	metrics.EmailsSent.WithLabelValues(kind, metrics.Result(err)).Inc()
}

func contactBody(req models.ContactEmailRequest) string {
	return fmt.Sprintf("New message from the Savora contact form\n\nName: %s\nEmail: %s\nSubject: %s\n\n%s\n",
		req.Name, req.Email, req.Subject, req.Message)
}

func bookingBody(req models.BookingEmailRequest) string {
	body := fmt.Sprintf("Booking request\n\nName: %s\nEmail: %s\nPhone: %s\nDate: %s\nTime: %s\nGuests: %d\n",
		req.CustomerName, req.CustomerEmail, req.Phone, req.BookingDate, req.BookingTime, req.Guests)
	if req.Message != "" {
		body += "\nMessage:\n" + req.Message + "\n"
	}
	return body + "\nWe will confirm your table shortly.\n\nSavora\n"
}

func orderConfirmationBody(req models.OrderConfirmationEmailRequest) string {
	return fmt.Sprintf("Dear %s,\n\nThank you for your order!\n\n%s\n\nTotal: %s\nDelivery address: %s\nPhone: %s\n\nBest regards,\nSavora\n",
		req.CustomerName, req.OrderDetails, req.OrderTotal, req.DeliveryAddress, req.Phone)
}
