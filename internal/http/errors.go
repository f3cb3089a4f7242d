package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"test-rol/internal/questionnaire"
	"test-rol/internal/rolapi"
	"test-rol/internal/scoring"
	"test-rol/internal/service"
)

// respondError traduce errores de dominio a códigos HTTP.
func respondError(c *gin.Context, logger *zap.Logger, op string, err error) {
	var incomplete *scoring.IncompleteError
	var apiErr *rolapi.APIError

	switch {
	case errors.As(err, &incomplete):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "incomplete responses", "unanswered": incomplete.Missing})
	case errors.Is(err, scoring.ErrIncompleteResponses):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "incomplete responses"})
	case errors.Is(err, scoring.ErrAnswerOutOfRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": "answer out of range"})
	case errors.Is(err, questionnaire.ErrQuestionIndex):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid question index"})
	case errors.Is(err, questionnaire.ErrWizardCompleted):
		c.JSON(http.StatusConflict, gin.H{"error": "test already submitted"})
	case errors.Is(err, service.ErrNoTestInProgress):
		c.JSON(http.StatusNotFound, gin.H{"error": "no test in progress"})
	case errors.Is(err, service.ErrAuthInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, service.ErrJWTInvalid), errors.Is(err, service.ErrJWTExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
	case errors.Is(err, service.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
	case errors.Is(err, service.ErrAdminRequired):
		c.JSON(http.StatusForbidden, gin.H{"error": "admin required"})
	case errors.As(err, &apiErr):
		status := apiErr.Status
		if status < 400 || status >= 500 {
			status = http.StatusBadGateway
		}
		logger.Warn(op+" rejected by remote api", zap.Int("remote_status", apiErr.Status), zap.Error(err))
		c.JSON(status, gin.H{"error": apiErr.Message})
	default:
		if errors.Is(err, scoring.ErrMalformedInput) {
			logger.Error(op+" malformed input", zap.Error(err))
		} else {
			logger.Error(op+" failed", zap.Error(err))
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
