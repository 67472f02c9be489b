package controllers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/savora-app/savora_backend/models"
	"github.com/savora-app/savora_backend/services"
	"github.com/savora-app/savora_backend/stores"
)

type OrderController struct {
	sessions *stores.Sessions
	orders   *services.OrderService
}

func NewOrderController(sessions *stores.Sessions, orders *services.OrderService) *OrderController {
	return &OrderController{sessions: sessions, orders: orders}
}

// Checkout places an order from the user's cart
func (oc *OrderController) Checkout(c echo.Context) error {
	sess, err := sessionFor(c, oc.sessions)
	if err != nil {
		return unauthorized(c)
	}

	var req models.CheckoutRequest
	if valid, err := bindAndValidate(c, &req); !valid {
		return err
	}

	resp, err := oc.orders.Checkout(c.Request().Context(), sess, req)
	if err != nil {
		var below *services.BelowMinimumError
		switch {
		case errors.Is(err, services.ErrEmptyCart), errors.As(err, &below):
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: err.Error(),
			})
		case errors.Is(err, services.ErrRestaurantClosed):
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "The restaurant is not taking orders right now",
			})
		}
		return remoteFailure(c, err, "Failed to place order")
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Order placed successfully",
		Data:    resp,
	})
}
