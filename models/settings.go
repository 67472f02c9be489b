package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RestaurantSettings is the single mutable configuration row of the restaurant.
// Amounts are integral currency units.
type RestaurantSettings struct {
	ID                    primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name                  string             `json:"name" bson:"name"`
	Phone                 string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Email                 string             `json:"email,omitempty" bson:"email,omitempty"`
	Address               string             `json:"address,omitempty" bson:"address,omitempty"`
	DeliveryFee           int64              `json:"deliveryFee" bson:"deliveryFee"`
	FreeDeliveryThreshold int64              `json:"freeDeliveryThreshold" bson:"freeDeliveryThreshold"`
	MinimumOrder          int64              `json:"minimumOrder" bson:"minimumOrder"`
	DeliveryTimeMinutes   int                `json:"deliveryTimeMinutes" bson:"deliveryTimeMinutes"`
	IsOpen                bool               `json:"isOpen" bson:"isOpen"`
	UpdatedAt             time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// DefaultRestaurantSettings is used when the backend has no settings row
func DefaultRestaurantSettings() RestaurantSettings {
	return RestaurantSettings{
		Name:                  "Savora",
		DeliveryFee:           300,
		FreeDeliveryThreshold: 3000,
		MinimumOrder:          1000,
		DeliveryTimeMinutes:   45,
		IsOpen:                true,
	}
}

// RestaurantSettingsUpdate is a partial update of RestaurantSettings
type RestaurantSettingsUpdate struct {
	Name                  *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Phone                 *string `json:"phone,omitempty"`
	Email                 *string `json:"email,omitempty" validate:"omitempty,email"`
	Address               *string `json:"address,omitempty"`
	DeliveryFee           *int64  `json:"deliveryFee,omitempty" validate:"omitempty,gte=0"`
	FreeDeliveryThreshold *int64  `json:"freeDeliveryThreshold,omitempty" validate:"omitempty,gte=0"`
	MinimumOrder          *int64  `json:"minimumOrder,omitempty" validate:"omitempty,gte=0"`
	DeliveryTimeMinutes   *int    `json:"deliveryTimeMinutes,omitempty" validate:"omitempty,gte=0"`
	IsOpen                *bool   `json:"isOpen,omitempty"`
}

// Apply merges the non-nil fields of u into s
func (u RestaurantSettingsUpdate) Apply(s RestaurantSettings) RestaurantSettings {
	if u.Name != nil {
		s.Name = *u.Name
	}
	if u.Phone != nil {
		s.Phone = *u.Phone
	}
	if u.Email != nil {
		s.Email = *u.Email
	}
	if u.Address != nil {
		s.Address = *u.Address
	}
	if u.DeliveryFee != nil {
		s.DeliveryFee = *u.DeliveryFee
	}
	if u.FreeDeliveryThreshold != nil {
		s.FreeDeliveryThreshold = *u.FreeDeliveryThreshold
	}
	if u.MinimumOrder != nil {
		s.MinimumOrder = *u.MinimumOrder
	}
	if u.DeliveryTimeMinutes != nil {
		s.DeliveryTimeMinutes = *u.DeliveryTimeMinutes
	}
	if u.IsOpen != nil {
		s.IsOpen = *u.IsOpen
	}
	return s
}

// AppSettings is the generic per-user app preferences blob
type AppSettings struct {
	Notifications bool   `json:"notifications"`
	DarkMode      bool   `json:"darkMode"`
	Language      string `json:"language"`
}

// DefaultAppSettings returns the settings of a fresh install
func DefaultAppSettings() AppSettings {
	return AppSettings{Notifications: true, Language: "en"}
}

// AppSettingsUpdate is a partial update of AppSettings
type AppSettingsUpdate struct {
	Notifications *bool   `json:"notifications,omitempty"`
	DarkMode      *bool   `json:"darkMode,omitempty"`
	Language      *string `json:"language,omitempty" validate:"omitempty,oneof=en fr ar"`
}

// Apply merges the non-nil fields of u into s
func (u AppSettingsUpdate) Apply(s AppSettings) AppSettings {
	if u.Notifications != nil {
		s.Notifications = *u.Notifications
	}
	if u.DarkMode != nil {
		s.DarkMode = *u.DarkMode
	}
	if u.Language != nil {
		s.Language = *u.Language
	}
	return s
}
