package dto

// CreateMenuRequest payload for new menu items.
type CreateMenuRequest struct {
	Name           string  `json:"name" validate:"required,min=1"`
	Slug           string  `json:"slug" validate:"required,min=1"`
	Price          int64   `json:"price" validate:"gte=0"`
	Description    string  `json:"description" validate:"required,min=1"`
	ImageURL       *string `json:"image_url" validate:"omitempty,url"`
	Stock          int     `json:"stock" validate:"gte=0"`
	Status         string  `json:"status" validate:"omitempty,min=1"`
	MenuCategoryID *string `json:"menu_category_id" validate:"omitempty,uuid"`
}

// UpdateMenuRequest payload for PUT/PATCH. Absent fields stay untouched.
type UpdateMenuRequest struct {
	Name           *string `json:"name" validate:"omitempty,min=1"`
	Slug           *string `json:"slug" validate:"omitempty,min=1"`
	Price          *int64  `json:"price" validate:"omitempty,gte=0"`
	Description    *string `json:"description" validate:"omitempty,min=1"`
	ImageURL       *string `json:"image_url" validate:"omitempty,url"`
	Stock          *int    `json:"stock" validate:"omitempty,gte=0"`
	Status         *string `json:"status" validate:"omitempty,min=1"`
	MenuCategoryID *string `json:"menu_category_id" validate:"omitempty,uuid"`
}
