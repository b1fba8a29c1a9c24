package domain

import "time"

// MenuCategory groups menu items (food, beverages, ...).
type MenuCategory struct {
	ID        string
	Name      string
	DeletedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
