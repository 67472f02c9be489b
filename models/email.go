package models

// ContactEmailRequest is the body of POST /api/email/contact
type ContactEmailRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// BookingEmailRequest is the body of POST /api/email/booking
type BookingEmailRequest struct {
	CustomerEmail string `json:"customerEmail" validate:"required,email"`
	CustomerName  string `json:"customerName" validate:"required"`
	BookingDate   string `json:"bookingDate" validate:"required"`
	BookingTime   string `json:"bookingTime" validate:"required"`
	Guests        int    `json:"guests" validate:"required,min=1"`
	Phone         string `json:"phone" validate:"required"`
	Message       string `json:"message,omitempty"`
}

// OrderConfirmationEmailRequest is the body of POST /api/email/order-confirmation
type OrderConfirmationEmailRequest struct {
	CustomerEmail   string `json:"customerEmail" validate:"required,email"`
	CustomerName    string `json:"customerName" validate:"required"`
	OrderDetails    string `json:"orderDetails" validate:"required"`
	OrderTotal      string `json:"orderTotal" validate:"required"`
	DeliveryAddress string `json:"deliveryAddress" validate:"required"`
	Phone           string `json:"phone" validate:"required"`
}

// EmailResponse is the mail relay's response body
type EmailResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// StatusResponse is returned by GET /api/status
type StatusResponse struct {
	Status     string `json:"status"`
	ServerTime string `json:"serverTime"`
}
