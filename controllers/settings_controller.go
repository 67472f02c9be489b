package controllers

import (
	"github.com/labstack/echo/v4"

	"github.com/savora-app/savora_backend/models"
	"github.com/savora-app/savora_backend/stores"
)

type SettingsController struct {
	sessions   *stores.Sessions
	restaurant *stores.RestaurantSettings
}

func NewSettingsController(sessions *stores.Sessions, restaurant *stores.RestaurantSettings) *SettingsController {
	return &SettingsController{sessions: sessions, restaurant: restaurant}
}

// GetAppSettings returns the user's app preferences
func (sc *SettingsController) GetAppSettings(c echo.Context) error {
	sess, err := sessionFor(c, sc.sessions)
	if err != nil {
		return unauthorized(c)
	}
	return success(c, "Settings retrieved successfully", sess.AppSettings.Get())
}

func (sc *SettingsController) UpdateAppSettings(c echo.Context) error {
	sess, err := sessionFor(c, sc.sessions)
	if err != nil {
		return unauthorized(c)
	}

	var req models.AppSettingsUpdate
	if valid, err := bindAndValidate(c, &req); !valid {
		return err
	}
	return success(c, "Settings updated", sess.AppSettings.Update(req))
}

// GetRestaurantSettings loads the settings row on first use and serves the
// cached copy after that
func (sc *SettingsController) GetRestaurantSettings(c echo.Context) error {
	settings, err := sc.restaurant.Ensure(c.Request().Context())
	if err != nil {
		return remoteFailure(c, err, "Failed to load restaurant settings")
	}
	return success(c, "Restaurant settings retrieved successfully", settings)
}

// UpdateRestaurantSettings writes the row first and only then updates the cache
func (sc *SettingsController) UpdateRestaurantSettings(c echo.Context) error {
	var req models.RestaurantSettingsUpdate
	if valid, err := bindAndValidate(c, &req); !valid {
		return err
	}

	settings, err := sc.restaurant.Update(c.Request().Context(), req)
	if err != nil {
		return remoteFailure(c, err, "Failed to update restaurant settings")
	}
	return success(c, "Restaurant settings updated", settings)
}
