package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spec-kit/cafe-admin-service/internal/domain"
	"github.com/spec-kit/cafe-admin-service/internal/events"
	"github.com/spec-kit/cafe-admin-service/internal/repository"
)

func newMenuFixture() (*MenuService, *stubMenuRepository, *stubCategoryRepository, *recordingDispatcher) {
	menus := newStubMenuRepository()
	categories := newStubCategoryRepository()
	dispatcher := &recordingDispatcher{}
	svc := NewMenuService(menus, categories, dispatcher)
	return svc, menus, categories, dispatcher
}

func mustCreateMenu(t *testing.T, svc *MenuService, name, slug string, price int64) *domain.Menu {
	t.Helper()
	menu, err := svc.Create(context.Background(), CreateMenuInput{
		Name:  name,
		Slug:  slug,
		Price: price,
		Stock: 10,
	}, events.Actor{Username: "admin", Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("Create(%s): %v", slug, err)
	}
	return menu
}

func TestMenuCreateDefaultsStatus(t *testing.T) {
	svc, _, _, _ := newMenuFixture()
	menu := mustCreateMenu(t, svc, "Espresso", "espresso", 15900)
	if menu.Status != domain.MenuStatusAvailable {
		t.Fatalf("status = %q, want %q", menu.Status, domain.MenuStatusAvailable)
	}
}

func TestMenuCreateRejectsDuplicateSlug(t *testing.T) {
	svc, _, _, _ := newMenuFixture()
	mustCreateMenu(t, svc, "Espresso", "espresso", 15900)

	_, err := svc.Create(context.Background(), CreateMenuInput{
		Name:  "Espresso Doppio",
		Slug:  "espresso",
		Price: 19900,
	}, events.Actor{})
	if domainCode(t, err) != "CONFLICT" {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}

func TestMenuUpdateSlugCheckExcludesSelf(t *testing.T) {
	svc, _, _, _ := newMenuFixture()
	ctx := context.Background()

	target := mustCreateMenu(t, svc, "Espresso", "espresso", 15900)
	mustCreateMenu(t, svc, "Latte", "latte", 27900)

	// Re-submitting the item's own slug is not a conflict.
	own := "espresso"
	if _, err := svc.Update(ctx, target.ID, UpdateMenuInput{Slug: &own}, events.Actor{}); err != nil {
		t.Fatalf("Update with own slug: %v", err)
	}

	taken := "latte"
	if _, err := svc.Update(ctx, target.ID, UpdateMenuInput{Slug: &taken}, events.Actor{}); domainCode(t, err) != "CONFLICT" {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}

func TestMenuUpdatePartialFields(t *testing.T) {
	svc, _, _, _ := newMenuFixture()
	ctx := context.Background()

	created := mustCreateMenu(t, svc, "Bagel with Cream Cheese", "bagel-with-cream-cheese", 15900)

	stock := 0
	status := domain.MenuStatusOutOfStock
	updated, err := svc.Update(ctx, created.ID, UpdateMenuInput{Stock: &stock, Status: &status}, events.Actor{})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Stock != 0 || updated.Status != domain.MenuStatusOutOfStock {
		t.Fatalf("stock/status = %d/%q, want 0/out of stock", updated.Stock, updated.Status)
	}
	// Untouched fields survive.
	if updated.Name != created.Name || updated.Price != created.Price {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
}

func TestMenuDeleteIsSoft(t *testing.T) {
	svc, _, _, dispatcher := newMenuFixture()
	ctx := context.Background()

	created := mustCreateMenu(t, svc, "Espresso", "espresso", 15900)

	if _, err := svc.Delete(ctx, created.ID, events.Actor{}); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(ctx, created.ID); domainCode(t, err) != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND after delete, got %v", err)
	}

	// The slug is free again for a new live item.
	if _, err := svc.Create(ctx, CreateMenuInput{Name: "Espresso", Slug: "espresso", Price: 16900}, events.Actor{}); err != nil {
		t.Fatalf("Create after soft delete: %v", err)
	}

	var sawDelete bool
	for _, ev := range dispatcher.published() {
		if ev.Type == events.EventMenuDeleted {
			sawDelete = true
		}
	}
	if !sawDelete {
		t.Fatal("expected a menu_deleted event")
	}
}

func TestMenuListPagination(t *testing.T) {
	svc, _, _, _ := newMenuFixture()
	ctx := context.Background()

	mustCreateMenu(t, svc, "Espresso", "espresso", 15900)
	mustCreateMenu(t, svc, "Latte", "latte", 27900)
	mustCreateMenu(t, svc, "Cappuccino", "cappuccino", 24900)

	items, page, err := svc.List(ctx, repository.MenuListParams{Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}
	if page.Total != 3 || page.TotalPages != 2 {
		t.Fatalf("pagination = %+v, want total 3 over 2 pages", page)
	}
}

func TestMenuExportCSV(t *testing.T) {
	svc, _, _, _ := newMenuFixture()
	ctx := context.Background()

	created := mustCreateMenu(t, svc, "Espresso", "espresso", 15900)

	var buf bytes.Buffer
	if err := svc.ExportCSV(ctx, &buf); err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "id,name,slug,price") {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[1], created.ID) || !strings.Contains(lines[1], "15900") {
		t.Fatalf("unexpected row: %q", lines[1])
	}
}

func TestMenuCategories(t *testing.T) {
	svc, _, categories, _ := newMenuFixture()
	ctx := context.Background()

	for _, name := range []string{"food", "beverages"} {
		if err := categories.Create(ctx, &domain.MenuCategory{Name: name}); err != nil {
			t.Fatalf("Create category: %v", err)
		}
	}

	listed, err := svc.Categories(ctx)
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("len = %d, want 2", len(listed))
	}
}
