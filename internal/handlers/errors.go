package handlers

import (
	"errors"
	"net/http"

	"savor/internal/common"
	"savor/internal/logging"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// respondError writes the error envelope for a service failure.
func respondError(c echo.Context, err error) error {
	var validationErr *common.ValidationError
	var extractionErr *common.ExtractionError

	switch {
	case errors.As(err, &validationErr):
		field := validationErr.Field
		if field == "" {
			field = "request"
		}
		return common.SendValidationError(c, field, validationErr.Message)

	case errors.As(err, &extractionErr):
		logging.FromContext(c, zap.L()).Warn("Receipt extraction failed", zap.Error(err))
		if extractionErr.Kind == common.ExtractionNoItems {
			return c.JSON(http.StatusUnprocessableEntity, common.CreateErrorResponse("NO_ITEMS", extractionErr.UserMessage(), nil))
		}
		return c.JSON(http.StatusBadGateway, common.CreateErrorResponse("EXTRACTION_FAILED", extractionErr.UserMessage(), nil))

	case errors.Is(err, common.ErrRateLimited):
		return c.JSON(http.StatusTooManyRequests, common.CreateErrorResponse("RATE_LIMITED", "Too many receipt scans, try again later", nil))

	case errors.Is(err, common.ErrModelUnavailable):
		logging.FromContext(c, zap.L()).Error("Model call failed", zap.Error(err))
		return c.JSON(http.StatusBadGateway, common.CreateErrorResponse("MODEL_UNAVAILABLE", "Recipe suggestions are unavailable right now", nil))

	case common.IsNotFound(err):
		return common.SendNotFoundError(c, "Inventory item")
	}

	logging.FromContext(c, zap.L()).Error("Request failed", zap.Error(err))
	return common.SendServerError(c, "Internal server error")
}

// invalidBody is returned when the payload cannot be decoded at all.
func invalidBody(c echo.Context) error {
	return common.SendClientError(c, "Invalid request format")
}
