package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/savora-app/savora_backend/models"
)

// RestaurantSettingsRepository reads and writes the single row of
// "restaurant_settings".
type RestaurantSettingsRepository struct {
	collection *mongo.Collection
}

func NewRestaurantSettingsRepository(db *mongo.Database) *RestaurantSettingsRepository {
	return &RestaurantSettingsRepository{
		collection: db.Collection("restaurant_settings"),
	}
}

// FindRestaurantSettings returns nil, nil when the collection is empty
func (r *RestaurantSettingsRepository) FindRestaurantSettings(ctx context.Context) (*models.RestaurantSettings, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var settings models.RestaurantSettings
	opts := options.FindOne().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	err := r.collection.FindOne(ctx, bson.M{}, opts).Decode(&settings)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find restaurant settings: %w", err)
	}
	return &settings, nil
}

// SaveRestaurantSettings upserts the row, creating it on the first save
func (r *RestaurantSettingsRepository) SaveRestaurantSettings(ctx context.Context, s models.RestaurantSettings) (*models.RestaurantSettings, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = time.Now()
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": s.ID}, s, opts); err != nil {
		return nil, fmt.Errorf("save restaurant settings: %w", err)
	}
	return &s, nil
}
