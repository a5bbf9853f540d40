package controllers

import (
	"errors"
	"net/http"

	"catalog-service/repository"
	"catalog-service/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// handleServiceError maps service errors to HTTP responses: validation
// failures to 400, missing references to 404, duplicate names to 409,
// everything else to a logged 500.
func handleServiceError(c *gin.Context, err error, fallbackMsg string) {
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
		return
	}
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if errors.Is(err, repository.ErrDuplicateName) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	zap.L().Error("Service error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": fallbackMsg})
}
