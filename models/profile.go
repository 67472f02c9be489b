package models

import "time"

// Profile is the per-user row that holds the push delivery address
type Profile struct {
	ID           string    `json:"id" bson:"_id"`
	FullName     string    `json:"fullName,omitempty" bson:"fullName,omitempty"`
	Email        string    `json:"email,omitempty" bson:"email,omitempty"`
	PushToken    string    `json:"pushToken,omitempty" bson:"pushToken,omitempty"`
	PushPlatform string    `json:"pushPlatform,omitempty" bson:"pushPlatform,omitempty"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}
