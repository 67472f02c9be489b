package controllers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/savora-app/savora_backend/models"
	"github.com/savora-app/savora_backend/utils"
)

// Mailer sends the relay's three kinds of mail
type Mailer interface {
	SendContact(req models.ContactEmailRequest) error
	SendBooking(req models.BookingEmailRequest) error
	SendOrderConfirmation(ctx context.Context, req models.OrderConfirmationEmailRequest) error
}

type EmailController struct {
	mail Mailer
}

func NewEmailController(mail Mailer) *EmailController {
	return &EmailController{mail: mail}
}

func emailBadRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, models.EmailResponse{
		Success: false,
		Message: message,
	})
}

func emailFailed(c echo.Context, message string, err error) error {
	c.Logger().Errorf("%s: %v", message, err)
	return c.JSON(http.StatusInternalServerError, models.EmailResponse{
		Success: false,
		Message: message,
		Error:   err.Error(),
	})
}

// bindEmailRequest binds and validates req, writing the 400 response itself
func bindEmailRequest(c echo.Context, req interface{}) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, emailBadRequest(c, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return false, emailBadRequest(c, "Missing or invalid required fields")
	}
	return true, nil
}

// SendContact forwards a contact form message to the restaurant
func (ec *EmailController) SendContact(c echo.Context) error {
	var req models.ContactEmailRequest
	if valid, err := bindEmailRequest(c, &req); !valid {
		return err
	}

	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return emailBadRequest(c, "Invalid email address")
	}
	req.Email = email
	req.Name = utils.SanitizeInput(req.Name)
	req.Subject = utils.SanitizeInput(req.Subject)
	req.Message = utils.SanitizeText(req.Message)

	if err := ec.mail.SendContact(req); err != nil {
		return emailFailed(c, "Failed to send message", err)
	}
	return c.JSON(http.StatusOK, models.EmailResponse{
		Success: true,
		Message: "Message sent successfully",
	})
}

// SendBooking sends a table booking request to the restaurant and the customer
func (ec *EmailController) SendBooking(c echo.Context) error {
	var req models.BookingEmailRequest
	if valid, err := bindEmailRequest(c, &req); !valid {
		return err
	}

	email, err := utils.SanitizeEmail(req.CustomerEmail)
	if err != nil {
		return emailBadRequest(c, "Invalid email address")
	}
	phone, err := utils.SanitizePhone(req.Phone)
	if err != nil {
		return emailBadRequest(c, "Invalid phone number")
	}
	req.CustomerEmail = email
	req.Phone = phone
	req.CustomerName = utils.SanitizeInput(req.CustomerName)
	req.BookingDate = utils.SanitizeInput(req.BookingDate)
	req.BookingTime = utils.SanitizeInput(req.BookingTime)
	req.Message = utils.SanitizeText(req.Message)

	if err := ec.mail.SendBooking(req); err != nil {
		return emailFailed(c, "Failed to send booking request", err)
	}
	return c.JSON(http.StatusOK, models.EmailResponse{
		Success: true,
		Message: "Booking request sent successfully",
	})
}

// SendOrderConfirmation emails the customer their order; failed sends are retried
func (ec *EmailController) SendOrderConfirmation(c echo.Context) error {
	var req models.OrderConfirmationEmailRequest
	if valid, err := bindEmailRequest(c, &req); !valid {
		return err
	}

	email, err := utils.SanitizeEmail(req.CustomerEmail)
	if err != nil {
		return emailBadRequest(c, "Invalid email address")
	}
	phone, err := utils.SanitizePhone(req.Phone)
	if err != nil {
		return emailBadRequest(c, "Invalid phone number")
	}
	req.CustomerEmail = email
	req.Phone = phone
	req.CustomerName = utils.SanitizeInput(req.CustomerName)
	req.OrderTotal = utils.SanitizeInput(req.OrderTotal)
	req.OrderDetails = utils.SanitizeText(req.OrderDetails)
	req.DeliveryAddress = utils.SanitizeText(req.DeliveryAddress)

	if err := ec.mail.SendOrderConfirmation(c.Request().Context(), req); err != nil {
		return emailFailed(c, "Failed to send order confirmation", err)
	}
	return c.JSON(http.StatusOK, models.EmailResponse{
		Success: true,
		Message: "Order confirmation sent successfully",
	})
}
