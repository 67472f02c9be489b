package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/savora-app/savora_backend/models"
)

// FavoriteRepository stores favorites in the "favorites" collection.
// A unique (userId, menuItemId) index backs the one-favorite-per-item rule.
type FavoriteRepository struct {
	collection *mongo.Collection
}

func NewFavoriteRepository(db *mongo.Database) *FavoriteRepository {
	return &FavoriteRepository{
		collection: db.Collection("favorites"),
	}
}

func (r *FavoriteRepository) ListFavorites(ctx context.Context, userID string) ([]models.Favorite, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find favorites: %w", err)
	}
	defer cursor.Close(ctx)

	favorites := []models.Favorite{}
	if err := cursor.All(ctx, &favorites); err != nil {
		return nil, fmt.Errorf("decode favorites: %w", err)
	}
	return favorites, nil
}

// CreateFavorite inserts the favorite, or returns the existing row when the
// user already favorited the item.
func (r *FavoriteRepository) CreateFavorite(ctx context.Context, userID string, item models.MenuItemRef) (*models.Favorite, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	favorite := models.Favorite{
		ID:         primitive.NewObjectID(),
		UserID:     userID,
		MenuItemID: item.ID,
		MenuItem:   &item,
		CreatedAt:  time.Now(),
	}

	_, err := r.collection.InsertOne(ctx, favorite)
	if mongo.IsDuplicateKeyError(err) {
		var existing models.Favorite
		findErr := r.collection.FindOne(ctx, bson.M{"userId": userID, "menuItemId": item.ID}).Decode(&existing)
		if findErr != nil {
			return nil, fmt.Errorf("load existing favorite: %w", findErr)
		}
		return &existing, nil
	}
	if err != nil {
		return nil, fmt.Errorf("insert favorite: %w", err)
	}
	return &favorite, nil
}

// DeleteFavorite removes the user's favorite row. Deleting a row that is
// already gone is not an error.
func (r *FavoriteRepository) DeleteFavorite(ctx context.Context, userID, favoriteID string) error {
	objID, err := primitive.ObjectIDFromHex(favoriteID)
	if err != nil {
		return fmt.Errorf("invalid favorite id %q: %w", favoriteID, err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID, "userId": userID}); err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	return nil
}
