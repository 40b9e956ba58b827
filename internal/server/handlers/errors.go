package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdledger/internal/domain/models"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// respondError maps domain errors to HTTP responses. Unexpected errors are logged and hidden from the caller.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, errorResponse{Error: verr.Error(), Field: verr.Field})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: models.ErrNotFound.Error()})
	case errors.Is(err, models.ErrVersionConflict):
		c.JSON(http.StatusConflict, errorResponse{Error: models.ErrVersionConflict.Error()})
	default:
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

// respondBadBody answers a body that could not be decoded, naming the field when the decoder knows it.
func respondBadBody(c *gin.Context, logger *zap.Logger, err error) {
	logger.Warn("invalid request body", zap.String("path", c.FullPath()), zap.Error(err))

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		respondError(c, logger, models.NewValidationError(typeErr.Field, "has an invalid value"))
		return
	}
	c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
}
