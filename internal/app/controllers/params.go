package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	appauth "github.com/yigit/greenfield/internal/app/auth"
	"github.com/yigit/greenfield/internal/app/models/dto"
	"github.com/yigit/greenfield/internal/middleware"
	"github.com/yigit/greenfield/internal/pkg/apperrors"
)

// parseIDParam reads a positive integer path parameter. It writes a 400 and
// returns false when the parameter is malformed.
func parseIDParam(ctx *gin.Context, name, label string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+label+" ID").
			WithField(name).
			WithDetails(label + " ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// sessionPrincipal returns the caller set by the session guard, writing a 401
// when there is none.
func sessionPrincipal(ctx *gin.Context) (appauth.Principal, bool) {
	p, ok := middleware.CurrentPrincipal(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrTokenNotFound)
	}
	return p, ok
}
