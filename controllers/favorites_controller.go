package controllers

import (
	"github.com/labstack/echo/v4"

	"github.com/savora-app/savora_backend/models"
	"github.com/savora-app/savora_backend/stores"
)

type FavoritesController struct {
	sessions *stores.Sessions
}

func NewFavoritesController(sessions *stores.Sessions) *FavoritesController {
	return &FavoritesController{sessions: sessions}
}

// GetFavorites refreshes the user's favorites from the backend
func (fc *FavoritesController) GetFavorites(c echo.Context) error {
	sess, err := sessionFor(c, fc.sessions)
	if err != nil {
		return unauthorized(c)
	}

	favorites, err := sess.Favorites.GetFavorites(c.Request().Context())
	if err != nil {
		return remoteFailure(c, err, "Failed to load favorites")
	}
	return success(c, "Favorites retrieved successfully", favorites)
}

// ToggleFavorite flips the favorite state of a menu item
func (fc *FavoritesController) ToggleFavorite(c echo.Context) error {
	sess, err := sessionFor(c, fc.sessions)
	if err != nil {
		return unauthorized(c)
	}

	var req models.ToggleFavoriteRequest
	if valid, err := bindAndValidate(c, &req); !valid {
		return err
	}

	isFavorite, err := sess.Favorites.ToggleFavorite(c.Request().Context(), req.MenuItem)
	if err != nil {
		return remoteFailure(c, err, "Failed to update favorite")
	}

	message := "Removed from favorites"
	if isFavorite {
		message = "Added to favorites"
	}
	return success(c, message, map[string]interface{}{
		"menuItemId": req.MenuItem.ID,
		"isFavorite": isFavorite,
	})
}

// RemoveFavorite deletes a favorite by record id
func (fc *FavoritesController) RemoveFavorite(c echo.Context) error {
	sess, err := sessionFor(c, fc.sessions)
	if err != nil {
		return unauthorized(c)
	}

	if err := sess.Favorites.RemoveFavorite(c.Request().Context(), c.Param("id")); err != nil {
		return remoteFailure(c, err, "Failed to remove favorite")
	}
	return success(c, "Removed from favorites", sess.Favorites.Favorites())
}

// FavoriteStatus answers from local state without calling the backend
func (fc *FavoritesController) FavoriteStatus(c echo.Context) error {
	sess, err := sessionFor(c, fc.sessions)
	if err != nil {
		return unauthorized(c)
	}

	menuItemID := c.Param("id")
	return success(c, "Favorite status retrieved", map[string]interface{}{
		"menuItemId": menuItemID,
		"isFavorite": sess.Favorites.IsFavorite(menuItemID),
	})
}
