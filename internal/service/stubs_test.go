package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/cafe-admin-service/internal/domain"
	"github.com/spec-kit/cafe-admin-service/internal/events"
	"github.com/spec-kit/cafe-admin-service/internal/repository"
)

// stubUserRepository keeps users in memory and mimics the partial unique
// indexes: duplicates among live rows fail with a 23505 error, soft-deleted
// rows are invisible to every lookup.
type stubUserRepository struct {
	mu    sync.Mutex
	seq   int
	users map[string]*domain.User
}

func newStubUserRepository() *stubUserRepository {
	return &stubUserRepository{users: make(map[string]*domain.User)}
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

func (r *stubUserRepository) liveDuplicate(email, username, excludeID string) *domain.User {
	for _, u := range r.users {
		if u.DeletedAt != nil || u.ID == excludeID {
			continue
		}
		if u.Email == email || u.Username == username {
			return u
		}
	}
	return nil
}

func (r *stubUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.liveDuplicate(user.Email, user.Username, "") != nil {
		return uniqueViolation("users_email_live_key")
	}
	r.seq++
	user.ID = fmt.Sprintf("user-%d", r.seq)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *stubUserRepository) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.users[user.ID]
	if !ok || existing.DeletedAt != nil {
		return pgx.ErrNoRows
	}
	if r.liveDuplicate(user.Email, user.Username, user.ID) != nil {
		return uniqueViolation("users_email_live_key")
	}
	user.UpdatedAt = time.Now()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *stubUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok || user.DeletedAt != nil {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *stubUserRepository) GetByEmailOrUsername(_ context.Context, identifier string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.DeletedAt != nil {
			continue
		}
		if u.Email == identifier || u.Username == identifier {
			clone := *u
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *stubUserRepository) FindDuplicate(_ context.Context, email, username, excludeID string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if dup := r.liveDuplicate(email, username, excludeID); dup != nil {
		clone := *dup
		return &clone, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *stubUserRepository) List(_ context.Context, params repository.UserListParams) ([]domain.User, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var live []domain.User
	for _, u := range r.users {
		if u.DeletedAt != nil {
			continue
		}
		if params.Search != "" && !strings.Contains(u.Username, params.Search) && !strings.Contains(u.Email, params.Search) {
			continue
		}
		if params.Role != "" && string(u.Role) != params.Role {
			continue
		}
		live = append(live, *u)
	}
	total := len(live)
	start := (params.Page - 1) * params.Limit
	if start >= len(live) {
		return nil, total, nil
	}
	end := start + params.Limit
	if end > len(live) {
		end = len(live)
	}
	return live[start:end], total, nil
}

func (r *stubUserRepository) ListAll(_ context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var live []domain.User
	for _, u := range r.users {
		if u.DeletedAt != nil {
			continue
		}
		live = append(live, *u)
	}
	return live, nil
}

func (r *stubUserRepository) SoftDelete(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok || user.DeletedAt != nil {
		return nil, pgx.ErrNoRows
	}
	now := time.Now()
	user.DeletedAt = &now
	clone := *user
	return &clone, nil
}

// stubMenuRepository mirrors stubUserRepository for menus; the live-slug
// unique index is simulated the same way.
type stubMenuRepository struct {
	mu    sync.Mutex
	seq   int
	menus map[string]*domain.Menu
}

func newStubMenuRepository() *stubMenuRepository {
	return &stubMenuRepository{menus: make(map[string]*domain.Menu)}
}

func (r *stubMenuRepository) liveSlug(slug, excludeID string) *domain.Menu {
	for _, m := range r.menus {
		if m.DeletedAt != nil || m.ID == excludeID {
			continue
		}
		if m.Slug == slug {
			return m
		}
	}
	return nil
}

func (r *stubMenuRepository) Create(_ context.Context, menu *domain.Menu) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.liveSlug(menu.Slug, "") != nil {
		return uniqueViolation("menus_slug_live_key")
	}
	r.seq++
	menu.ID = fmt.Sprintf("menu-%d", r.seq)
	menu.CreatedAt = time.Now()
	menu.UpdatedAt = menu.CreatedAt
	clone := *menu
	r.menus[menu.ID] = &clone
	return nil
}

func (r *stubMenuRepository) Update(_ context.Context, menu *domain.Menu) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.menus[menu.ID]
	if !ok || existing.DeletedAt != nil {
		return pgx.ErrNoRows
	}
	if r.liveSlug(menu.Slug, menu.ID) != nil {
		return uniqueViolation("menus_slug_live_key")
	}
	menu.UpdatedAt = time.Now()
	clone := *menu
	r.menus[menu.ID] = &clone
	return nil
}

func (r *stubMenuRepository) GetByID(_ context.Context, id string) (*domain.Menu, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	menu, ok := r.menus[id]
	if !ok || menu.DeletedAt != nil {
		return nil, pgx.ErrNoRows
	}
	clone := *menu
	return &clone, nil
}

func (r *stubMenuRepository) GetBySlug(_ context.Context, slug string) (*domain.Menu, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m := r.liveSlug(slug, ""); m != nil {
		clone := *m
		return &clone, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *stubMenuRepository) FindDuplicateSlug(_ context.Context, slug, excludeID string) (*domain.Menu, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m := r.liveSlug(slug, excludeID); m != nil {
		clone := *m
		return &clone, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *stubMenuRepository) List(_ context.Context, params repository.MenuListParams) ([]domain.Menu, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var live []domain.Menu
	for _, m := range r.menus {
		if m.DeletedAt != nil {
			continue
		}
		if params.Search != "" && !strings.Contains(m.Name, params.Search) && !strings.Contains(m.Slug, params.Search) {
			continue
		}
		if params.Category != "" && (m.MenuCategoryID == nil || *m.MenuCategoryID != params.Category) {
			continue
		}
		live = append(live, *m)
	}
	total := len(live)
	start := (params.Page - 1) * params.Limit
	if start >= len(live) {
		return nil, total, nil
	}
	end := start + params.Limit
	if end > len(live) {
		end = len(live)
	}
	return live[start:end], total, nil
}

func (r *stubMenuRepository) ListAll(_ context.Context) ([]domain.Menu, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var live []domain.Menu
	for _, m := range r.menus {
		if m.DeletedAt != nil {
			continue
		}
		live = append(live, *m)
	}
	return live, nil
}

func (r *stubMenuRepository) SoftDelete(_ context.Context, id string) (*domain.Menu, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	menu, ok := r.menus[id]
	if !ok || menu.DeletedAt != nil {
		return nil, pgx.ErrNoRows
	}
	now := time.Now()
	menu.DeletedAt = &now
	clone := *menu
	return &clone, nil
}

// stubCategoryRepository is an in-memory MenuCategoryRepository.
type stubCategoryRepository struct {
	mu         sync.Mutex
	seq        int
	categories map[string]*domain.MenuCategory
}

func newStubCategoryRepository() *stubCategoryRepository {
	return &stubCategoryRepository{categories: make(map[string]*domain.MenuCategory)}
}

func (r *stubCategoryRepository) Create(_ context.Context, category *domain.MenuCategory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	category.ID = fmt.Sprintf("category-%d", r.seq)
	clone := *category
	r.categories[category.ID] = &clone
	return nil
}

func (r *stubCategoryRepository) GetByName(_ context.Context, name string) (*domain.MenuCategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.categories {
		if c.Name == name {
			clone := *c
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *stubCategoryRepository) List(_ context.Context) ([]domain.MenuCategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []domain.MenuCategory
	for _, c := range r.categories {
		all = append(all, *c)
	}
	return all, nil
}

// stubResetRepository is an in-memory PasswordResetRepository.
type stubResetRepository struct {
	mu     sync.Mutex
	tokens map[string]string
}

func newStubResetRepository() *stubResetRepository {
	return &stubResetRepository{tokens: make(map[string]string)}
}

func (r *stubResetRepository) Store(_ context.Context, token, userID string, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[token] = userID
	return nil
}

func (r *stubResetRepository) Consume(_ context.Context, token string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	userID, ok := r.tokens[token]
	if !ok {
		return "", repository.ErrResetTokenNotFound
	}
	delete(r.tokens, token)
	return userID, nil
}

// recordingDispatcher collects published events for assertions.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) published() []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]events.Event, len(d.events))
	copy(out, d.events)
	return out
}
