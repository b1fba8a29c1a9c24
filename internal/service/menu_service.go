package service

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/cafe-admin-service/internal/domain"
	"github.com/spec-kit/cafe-admin-service/internal/events"
	"github.com/spec-kit/cafe-admin-service/internal/repository"
	apperrors "github.com/spec-kit/cafe-admin-service/pkg/util"
)

// CreateMenuInput carries fields for new menu items.
type CreateMenuInput struct {
	Name           string
	Slug           string
	Price          int64
	Description    string
	ImageURL       *string
	Stock          int
	Status         domain.MenuStatus
	MenuCategoryID *string
}

// UpdateMenuInput carries partial updates; nil fields are untouched.
type UpdateMenuInput struct {
	Name           *string
	Slug           *string
	Price          *int64
	Description    *string
	ImageURL       *string
	Stock          *int
	Status         *domain.MenuStatus
	MenuCategoryID *string
}

// MenuService implements menu and category management.
type MenuService struct {
	menus      repository.MenuRepository
	categories repository.MenuCategoryRepository
	dispatcher events.Dispatcher
}

// NewMenuService builds the service.
func NewMenuService(menus repository.MenuRepository, categories repository.MenuCategoryRepository, dispatcher events.Dispatcher) *MenuService {
	return &MenuService{menus: menus, categories: categories, dispatcher: dispatcher}
}

// List returns one page of non-deleted menus.
func (s *MenuService) List(ctx context.Context, params repository.MenuListParams) ([]domain.Menu, Pagination, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = 10
	}

	menus, total, err := s.menus.List(ctx, params)
	if err != nil {
		return nil, Pagination{}, apperrors.NewInternalError(err)
	}
	return menus, paginate(params.Page, params.Limit, total), nil
}

// Get returns a single non-deleted menu.
func (s *MenuService) Get(ctx context.Context, id string) (*domain.Menu, error) {
	menu, err := s.menus.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("menu", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return menu, nil
}

// Create adds a menu item. Slug uniqueness holds among live rows; the
// partial unique index is the authoritative check.
func (s *MenuService) Create(ctx context.Context, input CreateMenuInput, actor events.Actor) (*domain.Menu, error) {
	if _, err := s.menus.FindDuplicateSlug(ctx, input.Slug, ""); err == nil {
		return nil, errDuplicateSlug()
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewInternalError(err)
	}

	status := input.Status
	if status == "" {
		status = domain.MenuStatusAvailable
	}

	menu := &domain.Menu{
		Name:           input.Name,
		Slug:           input.Slug,
		Price:          input.Price,
		Description:    input.Description,
		ImageURL:       input.ImageURL,
		Stock:          input.Stock,
		Status:         status,
		MenuCategoryID: input.MenuCategoryID,
	}
	if err := s.menus.Create(ctx, menu); err != nil {
		if isUniqueViolation(err) {
			return nil, errDuplicateSlug()
		}
		return nil, apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.EventMenuCreated, menu, actor)
	return menu, nil
}

// Update applies a partial update with the duplicate check excluding the
// record itself.
func (s *MenuService) Update(ctx context.Context, id string, input UpdateMenuInput, actor events.Actor) (*domain.Menu, error) {
	menu, err := s.menus.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("menu", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}

	if input.Name != nil {
		menu.Name = *input.Name
	}
	if input.Slug != nil {
		menu.Slug = *input.Slug
	}
	if input.Price != nil {
		menu.Price = *input.Price
	}
	if input.Description != nil {
		menu.Description = *input.Description
	}
	if input.ImageURL != nil {
		menu.ImageURL = input.ImageURL
	}
	if input.Stock != nil {
		menu.Stock = *input.Stock
	}
	if input.Status != nil {
		menu.Status = *input.Status
	}
	if input.MenuCategoryID != nil {
		menu.MenuCategoryID = input.MenuCategoryID
	}

	if input.Slug != nil {
		if _, err := s.menus.FindDuplicateSlug(ctx, menu.Slug, menu.ID); err == nil {
			return nil, errDuplicateSlug()
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInternalError(err)
		}
	}

	if err := s.menus.Update(ctx, menu); err != nil {
		switch {
		case isUniqueViolation(err):
			return nil, errDuplicateSlug()
		case errors.Is(err, pgx.ErrNoRows):
			return nil, apperrors.NewNotFound("menu", nil)
		default:
			return nil, apperrors.NewInternalError(err)
		}
	}

	s.publish(ctx, events.EventMenuUpdated, menu, actor)
	return menu, nil
}

// Delete soft-deletes a menu item.
func (s *MenuService) Delete(ctx context.Context, id string, actor events.Actor) (*domain.Menu, error) {
	menu, err := s.menus.SoftDelete(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("menu", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.EventMenuDeleted, menu, actor)
	return menu, nil
}

// Categories lists all live menu categories.
func (s *MenuService) Categories(ctx context.Context) ([]domain.MenuCategory, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return categories, nil
}

// ExportCSV streams all non-deleted menus as CSV.
func (s *MenuService) ExportCSV(ctx context.Context, w io.Writer) error {
	menus, err := s.menus.ListAll(ctx)
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "name", "slug", "price", "description", "stock", "status", "category", "created_at", "updated_at"}); err != nil {
		return apperrors.NewInternalError(err)
	}
	for i := range menus {
		m := &menus[i]
		category := ""
		if m.CategoryName != nil {
			category = *m.CategoryName
		}
		record := []string{
			m.ID,
			m.Name,
			m.Slug,
			strconv.FormatInt(m.Price, 10),
			m.Description,
			strconv.Itoa(m.Stock),
			string(m.Status),
			category,
			m.CreatedAt.Format(time.RFC3339),
			m.UpdatedAt.Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return apperrors.NewInternalError(err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

func (s *MenuService) publish(ctx context.Context, eventType events.EventType, menu *domain.Menu, actor events.Actor) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		EntityID:  menu.ID,
		Actor:     actor,
		Timestamp: time.Now(),
		Payload: events.MenuChangedPayload{
			Name:   menu.Name,
			Slug:   menu.Slug,
			Status: menu.Status,
		},
	})
}
