package domain

import "time"

// MenuStatus describes availability of a menu item. Seed data carries
// values beyond the documented pair (e.g. "out of stock"), so the set is
// treated as open.
type MenuStatus string

const (
	MenuStatusAvailable   MenuStatus = "available"
	MenuStatusUnavailable MenuStatus = "unavailable"
	MenuStatusOutOfStock  MenuStatus = "out of stock"
)

// Menu is a sellable item on the café menu. Price is stored in the
// smallest currency unit.
type Menu struct {
	ID             string
	Name           string
	Slug           string
	Price          int64
	Description    string
	ImageURL       *string
	Stock          int
	Status         MenuStatus
	MenuCategoryID *string
	CategoryName   *string
	DeletedAt      *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
