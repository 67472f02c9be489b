package models

// CartLine is one row in the cart. ID is the menu item id, so a menu item
// never occupies more than one line.
type CartLine struct {
	ID       string      `json:"id"`
	MenuItem MenuItemRef `json:"menuItem"`
	Quantity int         `json:"quantity"`
}

// Subtotal returns price × quantity for the line
func (l CartLine) Subtotal() int64 {
	return l.MenuItem.Price * int64(l.Quantity)
}

// OrderSummary is the priced view of a cart against the restaurant settings
type OrderSummary struct {
	Lines                 []CartLine `json:"lines"`
	ItemCount             int        `json:"itemCount"`
	Subtotal              int64      `json:"subtotal"`
	DeliveryFee           int64      `json:"deliveryFee"`
	Total                 int64      `json:"total"`
	FreeDeliveryRemaining int64      `json:"freeDeliveryRemaining"`
	MeetsMinimum          bool       `json:"meetsMinimum"`
}

// CartResponse is what the cart endpoints return
type CartResponse struct {
	Lines      []CartLine `json:"lines"`
	TotalItems int        `json:"totalItems"`
	TotalPrice int64      `json:"totalPrice"`
}

// CheckoutRequest carries the delivery details that are not part of the cart
type CheckoutRequest struct {
	CustomerName    string `json:"customerName" validate:"required"`
	CustomerEmail   string `json:"customerEmail" validate:"required,email"`
	DeliveryAddress string `json:"deliveryAddress" validate:"required"`
	Phone           string `json:"phone" validate:"required"`
}

// CheckoutResponse reports the placed order
type CheckoutResponse struct {
	OrderID       string       `json:"orderId"`
	Summary       OrderSummary `json:"summary"`
	EmailSent     bool         `json:"emailSent"`
	PushDelivered bool         `json:"pushDelivered"`
}
