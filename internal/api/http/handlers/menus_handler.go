package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/cafe-admin-service/internal/api/dto"
	"github.com/spec-kit/cafe-admin-service/internal/domain"
	"github.com/spec-kit/cafe-admin-service/internal/repository"
	"github.com/spec-kit/cafe-admin-service/internal/service"
)

// MenusHandler exposes menu management endpoints.
type MenusHandler struct {
	menus *service.MenuService
}

// NewMenusHandler constructs handler.
func NewMenusHandler(menus *service.MenuService) *MenusHandler {
	return &MenusHandler{menus: menus}
}

type menuResponse struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Slug           string            `json:"slug"`
	Price          int64             `json:"price"`
	Description    string            `json:"description"`
	ImageURL       *string           `json:"image_url,omitempty"`
	Stock          int               `json:"stock"`
	Status         domain.MenuStatus `json:"status"`
	MenuCategoryID *string           `json:"menu_category_id,omitempty"`
	CategoryName   *string           `json:"category_name,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func toMenuResponse(m *domain.Menu) menuResponse {
	return menuResponse{
		ID:             m.ID,
		Name:           m.Name,
		Slug:           m.Slug,
		Price:          m.Price,
		Description:    m.Description,
		ImageURL:       m.ImageURL,
		Stock:          m.Stock,
		Status:         m.Status,
		MenuCategoryID: m.MenuCategoryID,
		CategoryName:   m.CategoryName,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// List handles GET /api/menus.
func (h *MenusHandler) List(c *fiber.Ctx) error {
	params := repository.MenuListParams{
		Page:      c.QueryInt("page", 1),
		Limit:     c.QueryInt("limit", 10),
		Search:    c.Query("search"),
		Category:  c.Query("categories"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order", "asc"),
	}
	if params.Page < 1 || params.Limit < 1 {
		return fiber.NewError(http.StatusBadRequest, "invalid pagination parameters")
	}

	menus, pagination, err := h.menus.List(c.UserContext(), params)
	if err != nil {
		return err
	}

	items := make([]menuResponse, 0, len(menus))
	for i := range menus {
		items = append(items, toMenuResponse(&menus[i]))
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"menus":      items,
			"pagination": pagination,
		},
	})
}

// Get handles GET /api/menus/:id.
func (h *MenusHandler) Get(c *fiber.Ctx) error {
	menu, err := h.menus.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": toMenuResponse(menu)})
}

// Create handles POST /api/menus.
func (h *MenusHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateMenuRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	menu, err := h.menus.Create(c.UserContext(), service.CreateMenuInput{
		Name:           req.Name,
		Slug:           req.Slug,
		Price:          req.Price,
		Description:    req.Description,
		ImageURL:       req.ImageURL,
		Stock:          req.Stock,
		Status:         domain.MenuStatus(req.Status),
		MenuCategoryID: req.MenuCategoryID,
	}, actorFromContext(c))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": toMenuResponse(menu)})
}

// Update handles PUT and PATCH /api/menus/:id.
func (h *MenusHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateMenuRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	input := service.UpdateMenuInput{
		Name:           req.Name,
		Slug:           req.Slug,
		Price:          req.Price,
		Description:    req.Description,
		ImageURL:       req.ImageURL,
		Stock:          req.Stock,
		MenuCategoryID: req.MenuCategoryID,
	}
	if req.Status != nil {
		status := domain.MenuStatus(*req.Status)
		input.Status = &status
	}

	menu, err := h.menus.Update(c.UserContext(), c.Params("id"), input, actorFromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": toMenuResponse(menu)})
}

// Delete handles DELETE /api/menus/:id (soft delete).
func (h *MenusHandler) Delete(c *fiber.Ctx) error {
	menu, err := h.menus.Delete(c.UserContext(), c.Params("id"), actorFromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": toMenuResponse(menu)})
}

// Export handles GET /api/menus/export as a CSV download.
func (h *MenusHandler) Export(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="menus.csv"`)
	return h.menus.ExportCSV(c.UserContext(), c.Response().BodyWriter())
}
