package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/greenfield/internal/app/models/dto"
	"github.com/yigit/greenfield/internal/pkg/apperrors"
	"github.com/yigit/greenfield/internal/pkg/logger"
)

type authErrorMapping struct {
	err     error
	status  int
	code    dto.ErrorCode
	message string
}

var authErrorMappings = []authErrorMapping{
	{apperrors.ErrEmailNotFound, http.StatusUnauthorized, dto.ErrorCodeEmailNotFound, "Email not found"},
	{apperrors.ErrRoleMismatch, http.StatusUnauthorized, dto.ErrorCodeRoleMismatch, "Invalid role for this account"},
	{apperrors.ErrAccountDeactivated, http.StatusForbidden, dto.ErrorCodeAccountDeactivated, "Account is deactivated"},
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Incorrect password"},
	{apperrors.ErrTokenNotFound, http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, "Authentication required"},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Session has expired"},
	{apperrors.ErrTokenRevoked, http.StatusUnauthorized, dto.ErrorCodeRevokedToken, "Session has been revoked"},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid session"},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"},
}

// messageFor prefers the message of a CustomError over the fallback.
func messageFor(err error, fallback string) string {
	var custom *apperrors.CustomError
	if errors.As(err, &custom) && custom.Message != "" {
		return custom.Message
	}
	return fallback
}

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	for _, m := range authErrorMappings {
		if errors.Is(err, m.err) {
			c.JSON(m.status, dto.NewErrorResponse(dto.NewErrorDetail(m.code, messageFor(err, m.message))))
			return
		}
	}

	switch {
	case errors.Is(err, apperrors.ErrValidationFailed):
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, messageFor(err, "Validation failed"))
		var custom *apperrors.CustomError
		if errors.As(err, &custom) && len(custom.Details) > 0 {
			detail = detail.WithDetails(custom.Details)
		}
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))

	case apperrors.Is(err, apperrors.ErrResourceNotFound, apperrors.NotFoundErrors...):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, messageFor(err, capitalize(err.Error())))))

	case apperrors.Is(err, apperrors.ErrConflict, apperrors.ConflictErrors...):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, messageFor(err, capitalize(err.Error())))))

	case apperrors.Is(err, apperrors.ErrBadRequest, apperrors.BadRequestErrors...):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeBadRequest, messageFor(err, capitalize(err.Error())))))

	default:
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled error")
		detail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error").
			WithSeverity(dto.ErrorSeverityCritical)
		if gin.Mode() != gin.ReleaseMode {
			detail = detail.WithDetails(err.Error())
		}
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(detail))
	}
}

// capitalize upper-cases the first letter of a sentinel message
func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

// Recovery turns panics into a 500 error response
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error().Interface("panic", recovered).Str("path", c.Request.URL.Path).Msg("Recovered from panic")
		detail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error").
			WithSeverity(dto.ErrorSeverityCritical)
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(detail))
	})
}
