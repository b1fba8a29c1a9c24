package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/cafe-admin-service/internal/api/dto"
	"github.com/spec-kit/cafe-admin-service/internal/auth"
	"github.com/spec-kit/cafe-admin-service/internal/domain"
	"github.com/spec-kit/cafe-admin-service/internal/events"
	"github.com/spec-kit/cafe-admin-service/internal/repository"
	"github.com/spec-kit/cafe-admin-service/internal/service"
)

// UsersHandler exposes user management endpoints.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *service.UserService) *UsersHandler {
	return &UsersHandler{users: users}
}

func actorFromContext(c *fiber.Ctx) events.Actor {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return events.Actor{}
	}
	return events.Actor{
		UserID:   principal.User.ID,
		Username: principal.User.Username,
		Role:     principal.User.Role,
	}
}

// List handles GET /api/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	params := repository.UserListParams{
		Page:      c.QueryInt("page", 1),
		Limit:     c.QueryInt("limit", 10),
		Search:    c.Query("search"),
		Role:      c.Query("role"),
		Status:    c.Query("status"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order", "asc"),
	}
	if params.Page < 1 || params.Limit < 1 {
		return fiber.NewError(http.StatusBadRequest, "invalid pagination parameters")
	}

	users, pagination, err := h.users.List(c.UserContext(), params)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"users":      users,
			"pagination": pagination,
		},
	})
}

// Get handles GET /api/users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	user, err := h.users.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": user})
}

// Create handles POST /api/users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	user, err := h.users.Create(c.UserContext(), service.CreateUserInput{
		Email:    req.Email,
		Username: req.Username,
		FullName: req.FullName,
		Password: req.Password,
		Role:     domain.Role(req.Role),
		Status:   domain.UserStatus(req.Status),
	}, actorFromContext(c))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": user})
}

// Update handles PUT and PATCH /api/users/:id. Both carry partial update
// semantics; absent fields stay untouched.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	input := service.UpdateUserInput{
		Email:    req.Email,
		Username: req.Username,
		FullName: req.FullName,
		Password: req.Password,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		input.Role = &role
	}
	if req.Status != nil {
		status := domain.UserStatus(*req.Status)
		input.Status = &status
	}

	user, err := h.users.Update(c.UserContext(), c.Params("id"), input, actorFromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": user})
}

// Delete handles DELETE /api/users/:id (soft delete).
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	user, err := h.users.Delete(c.UserContext(), c.Params("id"), actorFromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": user})
}

// Export handles GET /api/users/export as a CSV download.
func (h *UsersHandler) Export(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="users.csv"`)
	return h.users.ExportCSV(c.UserContext(), c.Response().BodyWriter())
}
