package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Favorite is a user-scoped bookmark of a menu item. ID is the record id,
// distinct from MenuItemID.
type Favorite struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID     string             `json:"userId" bson:"userId"`
	MenuItemID string             `json:"menuItemId" bson:"menuItemId"`
	MenuItem   *MenuItemRef       `json:"menuItem,omitempty" bson:"menuItem,omitempty"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
}

// ToggleFavoriteRequest is the body of POST /api/favorites/toggle
type ToggleFavoriteRequest struct {
	MenuItem MenuItemRef `json:"menuItem" validate:"required"`
}
