package controllers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/savora-app/savora_backend/models"
)

// Status reports that the server is up
func Status(c echo.Context) error {
	return c.JSON(http.StatusOK, models.StatusResponse{
		Status:     "OK",
		ServerTime: time.Now().UTC().Format(time.RFC3339),
	})
}
