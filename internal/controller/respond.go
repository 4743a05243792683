package controller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Margays/internal/apperr"
	"github.com/lshigami/Margays/internal/dto"
	"github.com/rs/zerolog/log"
)

// statusFor maps taxonomy codes to HTTP statuses so handlers never match on
// error strings.
func statusFor(code apperr.Code) int {
	switch code {
	case apperr.CodeValidation:
		return http.StatusBadRequest
	case apperr.CodeUnauthorized:
		return http.StatusUnauthorized
	case apperr.CodeNotFound:
		return http.StatusNotFound
	case apperr.CodePreflightFailure, apperr.CodeInvalidTransition:
		return http.StatusConflict
	case apperr.CodeNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		c.JSON(statusFor(ae.Code), dto.ErrorResponse{
			Message: ae.Message,
			Code:    string(ae.Code),
			Field:   ae.Field,
		})
		return
	}
	log.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled service error")
	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Internal server error", Details: []string{err.Error()}})
}

// bearerToken extracts the credential from the Authorization header. Empty
// when the header is absent or malformed; backend calls then fail with 401.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

func sessionIDParam(c *gin.Context) (uint, bool) {
	idStr := c.Param("session_id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid session ID format"})
		return 0, false
	}
	return uint(id), true
}
