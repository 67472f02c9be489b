package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/savora-app/savora_backend/models"
	"github.com/savora-app/savora_backend/stores"
)

type CartController struct {
	sessions *stores.Sessions
	settings *stores.RestaurantSettings
}

func NewCartController(sessions *stores.Sessions, settings *stores.RestaurantSettings) *CartController {
	return &CartController{sessions: sessions, settings: settings}
}

func cartResponse(cart *stores.Cart) models.CartResponse {
	return models.CartResponse{
		Lines:      cart.Lines(),
		TotalItems: cart.TotalItems(),
		TotalPrice: cart.TotalPrice(),
	}
}

// GetCart returns the lines and totals of the user's cart
func (cc *CartController) GetCart(c echo.Context) error {
	sess, err := sessionFor(c, cc.sessions)
	if err != nil {
		return unauthorized(c)
	}
	return success(c, "Cart retrieved successfully", cartResponse(sess.Cart))
}

// AddItem adds one unit of a menu item
func (cc *CartController) AddItem(c echo.Context) error {
	sess, err := sessionFor(c, cc.sessions)
	if err != nil {
		return unauthorized(c)
	}

	var item models.MenuItemRef
	if valid, err := bindAndValidate(c, &item); !valid {
		return err
	}

	sess.Cart.AddItem(item)
	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Item added to cart",
		Data:    cartResponse(sess.Cart),
	})
}

func (cc *CartController) IncreaseQuantity(c echo.Context) error {
	sess, err := sessionFor(c, cc.sessions)
	if err != nil {
		return unauthorized(c)
	}
	sess.Cart.IncreaseQuantity(c.Param("id"))
	return success(c, "Cart updated", cartResponse(sess.Cart))
}

// DecreaseQuantity never takes a line below one; use RemoveLine for that
func (cc *CartController) DecreaseQuantity(c echo.Context) error {
	sess, err := sessionFor(c, cc.sessions)
	if err != nil {
		return unauthorized(c)
	}
	sess.Cart.DecreaseQuantity(c.Param("id"))
	return success(c, "Cart updated", cartResponse(sess.Cart))
}

func (cc *CartController) RemoveLine(c echo.Context) error {
	sess, err := sessionFor(c, cc.sessions)
	if err != nil {
		return unauthorized(c)
	}
	sess.Cart.RemoveFromCart(c.Param("id"))
	return success(c, "Item removed from cart", cartResponse(sess.Cart))
}

func (cc *CartController) ClearCart(c echo.Context) error {
	sess, err := sessionFor(c, cc.sessions)
	if err != nil {
		return unauthorized(c)
	}
	sess.Cart.ClearCart()
	return success(c, "Cart cleared", cartResponse(sess.Cart))
}

// GetSummary prices the cart with the restaurant's delivery rules. When the
// settings cannot be loaded the last known (or default) settings are used.
func (cc *CartController) GetSummary(c echo.Context) error {
	sess, err := sessionFor(c, cc.sessions)
	if err != nil {
		return unauthorized(c)
	}

	settings, err := cc.settings.Ensure(c.Request().Context())
	if err != nil {
		c.Logger().Warnf("Using cached restaurant settings: %v", err)
		settings = cc.settings.Current()
	}
	return success(c, "Order summary retrieved successfully", sess.Cart.Summary(settings))
}
