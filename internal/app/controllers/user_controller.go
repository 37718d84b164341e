package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/greenfield/internal/app/models"
	"github.com/yigit/greenfield/internal/app/models/dto"
	"github.com/yigit/greenfield/internal/app/services"
	"github.com/yigit/greenfield/internal/middleware"
	"github.com/yigit/greenfield/internal/pkg/helpers"
)

// UserController handles account administration
type UserController struct {
	userService *services.UserService
	logger      zerolog.Logger
}

// NewUserController creates a new UserController
func NewUserController(userService *services.UserService, logger zerolog.Logger) *UserController {
	return &UserController{
		userService: userService,
		logger:      logger,
	}
}

// ListUsers lists accounts
// @Summary List users
// @Description Lists users with optional role, activity and free-text filters. The search matches email, names and role ID.
// @Tags users
// @Produce json
// @Param role query string false "Role filter" Enums(ADMIN, FACULTY, STUDENT)
// @Param search query string false "Substring search"
// @Param active query bool false "Activity filter"
// @Param page query int false "Page number (1-based)" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.StructuredResponse{data=dto.UserListResponse} "Users"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Security CookieAuth
// @Router /users [get]
func (c *UserController) ListUsers(ctx *gin.Context) {
	var filter dto.UserFilterRequest
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}
	page := helpers.ParsePage(ctx)

	role, _ := models.ParseRole(filter.Role)
	users, total, err := c.userService.ListUsers(ctx.Request.Context(), models.UserFilter{
		Role:     role,
		Search:   filter.Search,
		IsActive: filter.Active,
	}, page.Size, page.Offset())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dto.UserListResponse{
		Users:      dto.NewUserResponses(users),
		Pagination: page.Info(total),
	}, "Users retrieved successfully"))
}

// ListFaculty lists active faculty members
// @Summary List faculty
// @Description Lists active faculty members ordered by first name, each with the courses they teach
// @Tags users
// @Produce json
// @Success 200 {object} dto.StructuredResponse{data=[]dto.FacultyResponse} "Faculty"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Security CookieAuth
// @Router /users/faculty [get]
func (c *UserController) ListFaculty(ctx *gin.Context) {
	faculty, err := c.userService.ListFaculty(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(faculty, "Faculty retrieved successfully"))
}

// CreateUser creates an account
// @Summary Create user
// @Description Creates an account and assigns it a unique role ID
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.CreateUserRequest true "New account"
// @Success 201 {object} dto.StructuredResponse{data=dto.UserResponse} "User created"
// @Failure 400 {object} dto.ErrorResponse "Validation failed or email already exists"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Failure 500 {object} dto.ErrorResponse "Role ID could not be allocated"
// @Security CookieAuth
// @Router /users [post]
func (c *UserController) CreateUser(ctx *gin.Context) {
	var req dto.CreateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid create user payload")
		middleware.HandleValidationError(ctx, err)
		return
	}

	user, err := c.userService.CreateUser(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewStructuredResponse(dto.NewUserResponse(user), "User created successfully"))
}

// GetUser returns one account
// @Summary Get user
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} dto.StructuredResponse{data=dto.UserResponse} "User"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Security CookieAuth
// @Router /users/{id} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "user")
	if !ok {
		return
	}
	user, err := c.userService.GetUser(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dto.NewUserResponse(user), "User retrieved successfully"))
}

// UpdateUser changes profile fields, role or password
// @Summary Update user
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body dto.UpdateUserRequest true "Changed fields"
// @Success 200 {object} dto.StructuredResponse{data=dto.UserResponse} "User updated"
// @Failure 400 {object} dto.ErrorResponse "Validation failed or email already exists"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Security CookieAuth
// @Router /users/{id} [put]
func (c *UserController) UpdateUser(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "user")
	if !ok {
		return
	}
	var req dto.UpdateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	user, err := c.userService.UpdateUser(ctx.Request.Context(), id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dto.NewUserResponse(user), "User updated successfully"))
}

// UpdateUserStatus activates or deactivates an account
// @Summary Activate or deactivate user
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body dto.UpdateUserStatusRequest true "New status"
// @Success 200 {object} dto.StructuredResponse{data=dto.UserResponse} "Status updated"
// @Failure 400 {object} dto.ErrorResponse "Validation failed or own account"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Security CookieAuth
// @Router /users/{id}/status [patch]
func (c *UserController) UpdateUserStatus(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "user")
	if !ok {
		return
	}
	principal, ok := sessionPrincipal(ctx)
	if !ok {
		return
	}
	var req dto.UpdateUserStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}

	user, err := c.userService.SetActive(ctx.Request.Context(), principal.UserID, id, *req.IsActive)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dto.NewUserResponse(user), "User status updated successfully"))
}

// DeleteUser removes an account
// @Summary Delete user
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} dto.StructuredResponse "User deleted"
// @Failure 400 {object} dto.ErrorResponse "Own account or user still teaches courses"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Security CookieAuth
// @Router /users/{id} [delete]
func (c *UserController) DeleteUser(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "user")
	if !ok {
		return
	}
	principal, ok := sessionPrincipal(ctx)
	if !ok {
		return
	}

	if err := c.userService.DeleteUser(ctx.Request.Context(), principal.UserID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(nil, "User deleted successfully"))
}
