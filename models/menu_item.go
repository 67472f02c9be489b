package models

// MenuItemRef is the slice of a menu item that carts and favorites keep.
// Prices are integral currency units.
type MenuItemRef struct {
	ID       string `json:"id" bson:"id" validate:"required"`
	Name     string `json:"name" bson:"name" validate:"required"`
	Price    int64  `json:"price" bson:"price" validate:"gte=0"`
	Category string `json:"category,omitempty" bson:"category,omitempty"`
	ImageURL string `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
}
