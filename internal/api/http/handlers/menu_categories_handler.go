package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/cafe-admin-service/internal/service"
)

// MenuCategoriesHandler exposes category lookups for menu forms and filters.
type MenuCategoriesHandler struct {
	menus *service.MenuService
}

// NewMenuCategoriesHandler constructs handler.
func NewMenuCategoriesHandler(menus *service.MenuService) *MenuCategoriesHandler {
	return &MenuCategoriesHandler{menus: menus}
}

type menuCategoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// List handles GET /api/menu-categories.
func (h *MenuCategoriesHandler) List(c *fiber.Ctx) error {
	categories, err := h.menus.Categories(c.UserContext())
	if err != nil {
		return err
	}

	items := make([]menuCategoryResponse, 0, len(categories))
	for _, category := range categories {
		items = append(items, menuCategoryResponse{
			ID:        category.ID,
			Name:      category.Name,
			CreatedAt: category.CreatedAt,
			UpdatedAt: category.UpdatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"menu_categories": items}})
}
