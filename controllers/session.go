package controllers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/savora-app/savora_backend/metrics"
	"github.com/savora-app/savora_backend/middleware"
	"github.com/savora-app/savora_backend/models"
	"github.com/savora-app/savora_backend/stores"
)

var errNoUser = errors.New("no authenticated user")

// sessionFor returns the authenticated user's stores
func sessionFor(c echo.Context, sessions *stores.Sessions) (*stores.Session, error) {
	userID := middleware.GetUserIDFromToken(c)
	if userID == "" {
		return nil, errNoUser
	}
	sess := sessions.Get(c.Request().Context(), userID)
	metrics.ActiveSessions.Set(float64(sessions.Len()))
	return sess, nil
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, models.Response{
		Status:  http.StatusUnauthorized,
		Message: "Please provide valid credentials",
	})
}

// bindAndValidate binds the body into req and validates it, writing the
// 400 response itself. ok is false when the handler should return.
func bindAndValidate(c echo.Context, req interface{}) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Validation failed: " + err.Error(),
		})
	}
	return true, nil
}

// remoteFailure maps a store error from a backend call to a response
func remoteFailure(c echo.Context, err error, message string) error {
	if errors.Is(err, stores.ErrToggleInProgress) {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "A change to this favorite is already in progress",
		})
	}

	c.Logger().Errorf("%s: %v", message, err)
	return c.JSON(http.StatusBadGateway, models.Response{
		Status:  http.StatusBadGateway,
		Message: message,
	})
}

func success(c echo.Context, message string, data interface{}) error {
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: message,
		Data:    data,
	})
}
