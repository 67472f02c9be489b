package stores

import (
	"context"
	"sync"

	"github.com/savora-app/savora_backend/models"
)

// Cart holds the ordered cart lines of one user. Every operation is total:
// unknown line ids are ignored and nothing returns an error.
type Cart struct {
	mu       sync.Mutex
	lines    []models.CartLine
	snapshot Snapshotter
	key      string
}

// NewCart creates an empty cart. A nil snapshotter keeps the cart session-only.
func NewCart(snapshot Snapshotter, key string) *Cart {
	return &Cart{snapshot: snapshot, key: key}
}

// AddItem bumps the line for item by one, or appends a new line with quantity 1
func (c *Cart) AddItem(item models.MenuItemRef) models.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(item.ID); i >= 0 {
		c.lines[i].Quantity++
		c.persist()
		return c.lines[i]
	}

	line := models.CartLine{ID: item.ID, MenuItem: item, Quantity: 1}
	c.lines = append(c.lines, line)
	c.persist()
	return line
}

// IncreaseQuantity adds one to the line's quantity
func (c *Cart) IncreaseQuantity(lineID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(lineID)
	if i < 0 {
		return
	}
	c.lines[i].Quantity++
	c.persist()
}

// DecreaseQuantity subtracts one from the line's quantity but never goes
// below 1. Removing the line is RemoveFromCart's job.
func (c *Cart) DecreaseQuantity(lineID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(lineID)
	if i < 0 || c.lines[i].Quantity <= 1 {
		return
	}
	c.lines[i].Quantity--
	c.persist()
}

// RemoveFromCart deletes the line
func (c *Cart) RemoveFromCart(lineID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(lineID)
	if i < 0 {
		return
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	c.persist()
}

// ClearCart empties the cart
func (c *Cart) ClearCart() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lines = nil
	c.persist()
}

// RemoveLines takes the given quantities off the cart, dropping lines that
// reach zero. Anything added after lines were read is left in place.
func (c *Cart) RemoveLines(lines []models.CartLine) {
	c.mu.Lock()
	defer c.mu.Unlock()

	changed := false
	for _, ordered := range lines {
		i := c.indexOf(ordered.ID)
		if i < 0 {
			continue
		}
		changed = true
		if c.lines[i].Quantity <= ordered.Quantity {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			continue
		}
		c.lines[i].Quantity -= ordered.Quantity
	}
	if changed {
		c.persist()
	}
}

// TotalPrice is Σ price × quantity
func (c *Cart) TotalPrice() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalPriceLocked()
}

// TotalItems is Σ quantity
func (c *Cart) TotalItems() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalItemsLocked()
}

// Lines returns a copy of the lines in insertion order
func (c *Cart) Lines() []models.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copyLines()
}

// Line looks up a single line
func (c *Cart) Line(lineID string) (models.CartLine, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(lineID)
	if i < 0 {
		return models.CartLine{}, false
	}
	return c.lines[i], true
}

// Summary prices the cart against the restaurant's delivery rules.
// Delivery is free once the subtotal reaches a non-zero threshold; an empty
// cart carries no fee.
func (c *Cart) Summary(settings models.RestaurantSettings) models.OrderSummary {
	c.mu.Lock()
	defer c.mu.Unlock()

	summary := models.OrderSummary{
		Lines:     c.copyLines(),
		ItemCount: c.totalItemsLocked(),
		Subtotal:  c.totalPriceLocked(),
	}
	if len(c.lines) > 0 {
		summary.DeliveryFee = settings.DeliveryFee
		if settings.FreeDeliveryThreshold > 0 {
			if summary.Subtotal >= settings.FreeDeliveryThreshold {
				summary.DeliveryFee = 0
			} else {
				summary.FreeDeliveryRemaining = settings.FreeDeliveryThreshold - summary.Subtotal
			}
		}
	}
	summary.Total = summary.Subtotal + summary.DeliveryFee
	summary.MeetsMinimum = summary.Subtotal >= settings.MinimumOrder
	return summary
}

// Restore replaces the lines with the persisted snapshot, if any
func (c *Cart) Restore(ctx context.Context) error {
	var lines []models.CartLine
	found, err := restore(ctx, c.snapshot, c.key, &lines)
	if err != nil || !found {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = c.lines[:0]
	for _, line := range lines {
		// skip snapshot lines with no id or a quantity below 1
		if line.ID == "" || line.Quantity < 1 || c.indexOf(line.ID) >= 0 {
			continue
		}
		c.lines = append(c.lines, line)
	}
	return nil
}

func (c *Cart) indexOf(lineID string) int {
	for i := range c.lines {
		if c.lines[i].ID == lineID {
			return i
		}
	}
	return -1
}

func (c *Cart) totalPriceLocked() int64 {
	var total int64
	for _, line := range c.lines {
		total += line.Subtotal()
	}
	return total
}

func (c *Cart) totalItemsLocked() int {
	total := 0
	for _, line := range c.lines {
		total += line.Quantity
	}
	return total
}

func (c *Cart) copyLines() []models.CartLine {
	out := make([]models.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) persist() {
	writeThrough(c.snapshot, c.key, c.copyLines())
}
