package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/greenfield/internal/app/models/dto"
	"github.com/yigit/greenfield/internal/app/services"
	"github.com/yigit/greenfield/internal/middleware"
	"github.com/yigit/greenfield/internal/pkg/apperrors"
)

// ContactController handles the public contact form
type ContactController struct {
	contactService *services.ContactService
	logger         zerolog.Logger
}

// NewContactController creates a new ContactController
func NewContactController(contactService *services.ContactService, logger zerolog.Logger) *ContactController {
	return &ContactController{contactService: contactService, logger: logger}
}

// ContactResponse acknowledges a contact message
type ContactResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Message sent successfully"`
}

// SendMessage forwards a contact form message
// @Summary Send contact message
// @Tags contact
// @Accept json
// @Produce json
// @Param request body dto.ContactRequest true "Message"
// @Success 200 {object} controllers.ContactResponse "Message sent"
// @Failure 400 {object} dto.ErrorResponse "Missing fields"
// @Failure 500 {object} dto.ErrorResponse "Message could not be sent"
// @Router /contact [post]
func (c *ContactController) SendMessage(ctx *gin.Context) {
	var req dto.ContactRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("Name, a valid email and a message are required", nil))
		return
	}
	if err := c.contactService.Send(ctx.Request.Context(), req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, ContactResponse{Success: true, Message: "Message sent successfully"})
}
