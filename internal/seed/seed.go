package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/cafe-admin-service/internal/auth"
	"github.com/spec-kit/cafe-admin-service/internal/config"
	"github.com/spec-kit/cafe-admin-service/internal/domain"
	"github.com/spec-kit/cafe-admin-service/internal/repository"
)

type menuFixture struct {
	Name        string
	Slug        string
	Price       int64
	Description string
	Stock       int
	Status      domain.MenuStatus
	Category    string
}

type userFixture struct {
	Email    string
	Username string
	FullName string
	Role     domain.Role
	Status   domain.UserStatus
}

var categories = []string{"food", "beverages"}

var menus = []menuFixture{
	{Name: "Espresso", Slug: "espresso", Price: 15900, Description: "A strong, rich coffee made by forcing hot water through finely ground beans; the base for lattes and cappuccinos.", Stock: 120, Status: domain.MenuStatusAvailable, Category: "beverages"},
	{Name: "Cappuccino", Slug: "cappuccino", Price: 24900, Description: "Equal parts espresso, steamed milk and foam; creamy and frothy.", Stock: 80, Status: domain.MenuStatusAvailable, Category: "beverages"},
	{Name: "Latte", Slug: "latte", Price: 27900, Description: "Espresso with steamed milk topped with a thin layer of foam; smooth and mild.", Stock: 100, Status: domain.MenuStatusAvailable, Category: "beverages"},
	{Name: "Caramel Macchiato", Slug: "caramel-macchiato", Price: 32900, Description: "Steamed milk, espresso and caramel syrup; sweet and warming.", Stock: 40, Status: domain.MenuStatusAvailable, Category: "beverages"},
	{Name: "Vanilla Latte", Slug: "vanilla-latte", Price: 29900, Description: "Espresso, steamed milk and a touch of vanilla syrup.", Stock: 70, Status: domain.MenuStatusAvailable, Category: "beverages"},
	{Name: "Iced Coffee", Slug: "iced-coffee", Price: 24900, Description: "Brewed coffee served chilled over ice; refreshing and bold.", Stock: 70, Status: domain.MenuStatusAvailable, Category: "beverages"},
	{Name: "Bagel with Cream Cheese", Slug: "bagel-with-cream-cheese", Price: 15900, Description: "A freshly toasted bagel with a generous spread of cream cheese.", Stock: 0, Status: domain.MenuStatusOutOfStock, Category: "food"},
	{Name: "Croissant", Slug: "croissant", Price: 12900, Description: "A warm, flaky, buttery croissant; a classic French pastry.", Stock: 100, Status: domain.MenuStatusAvailable, Category: "food"},
	{Name: "Chocolate Chip Cookie", Slug: "chocolate-chip-cookie", Price: 10900, Description: "Soft and chewy with gooey chocolate chunks in every bite.", Stock: 80, Status: domain.MenuStatusAvailable, Category: "food"},
	{Name: "Blueberry Muffin", Slug: "blueberry-muffin", Price: 14900, Description: "A moist, fluffy muffin packed with fresh blueberries.", Stock: 90, Status: domain.MenuStatusAvailable, Category: "food"},
}

var users = []userFixture{
	{Email: "nadia@example.com", Username: "nadia", FullName: "Nadia Pertiwi", Role: domain.RoleSuperAdmin, Status: domain.UserStatusActive},
	{Email: "bram@example.com", Username: "bram", FullName: "Bram Wijaya", Role: domain.RoleAdmin, Status: domain.UserStatusActive},
	{Email: "sinta@example.com", Username: "sinta", FullName: "Sinta Lestari", Role: domain.RoleCashier, Status: domain.UserStatusActive},
	{Email: "yusuf@example.com", Username: "yusuf", FullName: "Yusuf Rahman", Role: domain.RoleCashier, Status: domain.UserStatusInactive},
	{Email: "dewi@example.com", Username: "dewi", FullName: "Dewi Anggraini", Role: domain.RoleUser, Status: domain.UserStatusActive},
}

// Deps bundles the repositories the seeder writes through.
type Deps struct {
	Users      repository.UserRepository
	Menus      repository.MenuRepository
	Categories repository.MenuCategoryRepository
}

// Run loads the café fixtures. It is idempotent: rows that already exist
// are left alone.
func Run(ctx context.Context, cfg *config.Config, deps Deps, logger *zap.Logger) error {
	categoryIDs := make(map[string]string, len(categories))
	for _, name := range categories {
		category, err := deps.Categories.GetByName(ctx, name)
		if err == nil {
			categoryIDs[name] = category.ID
			continue
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
		created := &domain.MenuCategory{Name: name}
		if err := deps.Categories.Create(ctx, created); err != nil {
			return err
		}
		categoryIDs[name] = created.ID
		logger.Info("seeded category", zap.String("name", name))
	}

	for _, fixture := range menus {
		if _, err := deps.Menus.GetBySlug(ctx, fixture.Slug); err == nil {
			continue
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
		categoryID := categoryIDs[fixture.Category]
		menu := &domain.Menu{
			Name:           fixture.Name,
			Slug:           fixture.Slug,
			Price:          fixture.Price,
			Description:    fixture.Description,
			Stock:          fixture.Stock,
			Status:         fixture.Status,
			MenuCategoryID: &categoryID,
		}
		if err := deps.Menus.Create(ctx, menu); err != nil {
			return err
		}
		logger.Info("seeded menu", zap.String("slug", fixture.Slug))
	}

	// One hash shared by all seed users keeps seeding fast; bcrypt at the
	// configured cost is slow enough to matter across a fixture set.
	hash, err := auth.HashPassword(cfg.Seed.UserPassword, cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}

	for _, fixture := range users {
		if _, err := deps.Users.GetByEmailOrUsername(ctx, fixture.Username); err == nil {
			continue
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
		user := &domain.User{
			Email:        fixture.Email,
			Username:     fixture.Username,
			FullName:     fixture.FullName,
			PasswordHash: hash,
			Role:         fixture.Role,
			Status:       fixture.Status,
		}
		if err := deps.Users.Create(ctx, user); err != nil {
			return err
		}
		logger.Info("seeded user", zap.String("username", fixture.Username), zap.String("role", string(fixture.Role)))
	}

	return nil
}
