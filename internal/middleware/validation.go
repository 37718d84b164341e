package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/greenfield/internal/app/models/dto"
)

// HandleValidationError writes a 400 for a failed ShouldBind call. Field
// errors are listed under details keyed by their JSON name.
func HandleValidationError(c *gin.Context, err error) {
	var (
		verrs     validator.ValidationErrors
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
	)

	detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request")
	switch {
	case errors.As(err, &verrs):
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fieldPath(fe)] = formatValidationError(fe)
		}
		detail = detail.WithDetails(fields)
		if len(verrs) == 1 {
			detail.Message = formatValidationError(verrs[0])
			detail = detail.WithField(fieldPath(verrs[0]))
		}
	case errors.As(err, &typeErr):
		detail = detail.WithField(typeErr.Field).WithDetails(typeErr.Field + " has the wrong type")
	case errors.As(err, &syntaxErr):
		detail = detail.WithDetails("Malformed JSON body")
	default:
		detail = detail.WithDetails(err.Error())
	}
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
}

// fieldPath drops the top-level struct name from a namespace such as
// CreateApplicationRequest.previousSchools[0].name.
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "role":
		return e.Field() + " must be one of: ADMIN FACULTY STUDENT"
	case "application_type":
		return e.Field() + " must be one of: UNDERGRADUATE GRADUATE TRANSFER INTERNATIONAL"
	case "application_status":
		return e.Field() + " is not a known application status"
	case "report_type":
		return e.Field() + " is not a known report type"
	case "datetime":
		return e.Field() + " must match the format " + e.Param()
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
