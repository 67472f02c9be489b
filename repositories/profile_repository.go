package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/savora-app/savora_backend/models"
)

// ProfileRepository owns the "profiles" collection, keyed by user id
type ProfileRepository struct {
	collection *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{
		collection: db.Collection("profiles"),
	}
}

// UpdatePushToken records the device's push token, creating the profile if needed
func (r *ProfileRepository) UpdatePushToken(ctx context.Context, userID, token, platform string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{"_id": userID}
	update := bson.M{
		"$set": bson.M{
			"pushToken":    token,
			"pushPlatform": platform,
			"updatedAt":    time.Now(),
		},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("update push token: %w", err)
	}
	return nil
}

// PushToken returns the stored token, or "" when the user never registered one
func (r *ProfileRepository) PushToken(ctx context.Context, userID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var profile models.Profile
	err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&profile)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("find profile: %w", err)
	}
	return profile.PushToken, nil
}
