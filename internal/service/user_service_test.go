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

func newUserFixture() (*UserService, *stubUserRepository, *recordingDispatcher) {
	users := newStubUserRepository()
	dispatcher := &recordingDispatcher{}
	svc := NewUserService(users, dispatcher, 4, "admin")
	return svc, users, dispatcher
}

func mustCreateUser(t *testing.T, svc *UserService, email, username string, role domain.Role) *domain.PublicUser {
	t.Helper()
	user, err := svc.Create(context.Background(), CreateUserInput{
		Email:    email,
		Username: username,
		FullName: username + " Test",
		Password: "S3cure!pass",
		Role:     role,
		Status:   domain.UserStatusActive,
	}, events.Actor{Username: "admin", Role: domain.RoleSuperAdmin})
	if err != nil {
		t.Fatalf("Create(%s): %v", username, err)
	}
	return user
}

func TestUserCreateDefaultsRoleAndStatus(t *testing.T) {
	svc, _, _ := newUserFixture()
	user, err := svc.Create(context.Background(), CreateUserInput{
		Email:    "dewi@example.com",
		Username: "dewi",
		FullName: "Dewi Anggraini",
		Password: "S3cure!pass",
	}, events.Actor{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.Role != domain.RoleUser || user.Status != domain.UserStatusActive {
		t.Fatalf("defaults = %q/%q, want user/active", user.Role, user.Status)
	}
}

func TestUserCreateGeneratesPasswordWhenAbsent(t *testing.T) {
	svc, users, _ := newUserFixture()
	created, err := svc.Create(context.Background(), CreateUserInput{
		Email:    "dewi@example.com",
		Username: "dewi",
		FullName: "Dewi Anggraini",
	}, events.Actor{})
	if err != nil {
		t.Fatalf("Create without password: %v", err)
	}
	stored, err := users.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.PasswordHash == "" {
		t.Fatal("expected a generated password hash")
	}
}

func TestUserUpdateDuplicateCheckExcludesSelf(t *testing.T) {
	svc, _, _ := newUserFixture()
	ctx := context.Background()

	target := mustCreateUser(t, svc, "sinta@example.com", "sinta", domain.RoleCashier)
	mustCreateUser(t, svc, "bram@example.com", "bram", domain.RoleAdmin)

	// Re-submitting the user's own email is not a conflict.
	email := "sinta@example.com"
	if _, err := svc.Update(ctx, target.ID, UpdateUserInput{Email: &email}, events.Actor{}); err != nil {
		t.Fatalf("Update with own email: %v", err)
	}

	// Taking another live user's email is.
	taken := "bram@example.com"
	if _, err := svc.Update(ctx, target.ID, UpdateUserInput{Email: &taken}, events.Actor{}); domainCode(t, err) != "CONFLICT" {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}

func TestUserUpdateRehashesPassword(t *testing.T) {
	svc, users, _ := newUserFixture()
	ctx := context.Background()

	created := mustCreateUser(t, svc, "sinta@example.com", "sinta", domain.RoleCashier)
	before, err := users.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}

	password := "N3w!password"
	if _, err := svc.Update(ctx, created.ID, UpdateUserInput{Password: &password}, events.Actor{}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	after, err := users.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if after.PasswordHash == before.PasswordHash {
		t.Fatal("password hash must change")
	}
	if after.PasswordHash == password {
		t.Fatal("password must be stored hashed")
	}
}

func TestUserInitialAdminIsProtected(t *testing.T) {
	svc, _, _ := newUserFixture()
	ctx := context.Background()

	admin := mustCreateUser(t, svc, "admin@example.com", "admin", domain.RoleSuperAdmin)

	role := domain.RoleUser
	if _, err := svc.Update(ctx, admin.ID, UpdateUserInput{Role: &role}, events.Actor{}); domainCode(t, err) != "FORBIDDEN" {
		t.Fatalf("expected FORBIDDEN on update, got %v", err)
	}
	if _, err := svc.Delete(ctx, admin.ID, events.Actor{}); domainCode(t, err) != "FORBIDDEN" {
		t.Fatalf("expected FORBIDDEN on delete, got %v", err)
	}
}

func TestUserDeleteIsSoft(t *testing.T) {
	svc, _, dispatcher := newUserFixture()
	ctx := context.Background()

	created := mustCreateUser(t, svc, "sinta@example.com", "sinta", domain.RoleCashier)

	deleted, err := svc.Delete(ctx, created.ID, events.Actor{Username: "admin"})
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if deleted.ID != created.ID {
		t.Fatalf("deleted ID = %q, want %q", deleted.ID, created.ID)
	}

	if _, err := svc.Get(ctx, created.ID); domainCode(t, err) != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND after delete, got %v", err)
	}
	if _, err := svc.Delete(ctx, created.ID, events.Actor{}); domainCode(t, err) != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND on repeated delete, got %v", err)
	}

	var sawDelete bool
	for _, ev := range dispatcher.published() {
		if ev.Type == events.EventUserDeleted {
			sawDelete = true
		}
	}
	if !sawDelete {
		t.Fatal("expected a user_deleted event")
	}
}

func TestUserListPaginationClampsPage(t *testing.T) {
	svc, _, _ := newUserFixture()
	ctx := context.Background()

	mustCreateUser(t, svc, "a@example.com", "usera", domain.RoleUser)
	mustCreateUser(t, svc, "b@example.com", "userb", domain.RoleUser)
	mustCreateUser(t, svc, "c@example.com", "userc", domain.RoleUser)

	_, page, err := svc.List(ctx, repository.UserListParams{Page: 9, Limit: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Total != 3 {
		t.Fatalf("total = %d, want 3", page.Total)
	}
	if page.TotalPages != 2 {
		t.Fatalf("total_pages = %d, want 2", page.TotalPages)
	}
	if page.Page != 2 {
		t.Fatalf("current_page = %d, want clamped 2", page.Page)
	}
}

func TestUserListNeverExposesHashes(t *testing.T) {
	svc, _, _ := newUserFixture()
	mustCreateUser(t, svc, "a@example.com", "usera", domain.RoleUser)

	listed, _, err := svc.List(context.Background(), repository.UserListParams{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("len = %d, want 1", len(listed))
	}
	// PublicUser carries no hash field at all; check the projection keeps
	// the identifying fields.
	if listed[0].Username != "usera" || listed[0].Email != "a@example.com" {
		t.Fatalf("unexpected projection: %+v", listed[0])
	}
}

func TestUserExportCSV(t *testing.T) {
	svc, users, _ := newUserFixture()
	ctx := context.Background()

	created := mustCreateUser(t, svc, "sinta@example.com", "sinta", domain.RoleCashier)
	gone := mustCreateUser(t, svc, "gone@example.com", "gone", domain.RoleUser)
	if _, err := users.SoftDelete(ctx, gone.ID); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}

	var buf bytes.Buffer
	if err := svc.ExportCSV(ctx, &buf); err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one live row, got %d lines:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "id,email,username") {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[1], created.ID) || !strings.Contains(lines[1], "sinta@example.com") {
		t.Fatalf("unexpected row: %q", lines[1])
	}
	if strings.Contains(out, "gone@example.com") {
		t.Fatal("soft-deleted rows must not be exported")
	}
	if strings.Contains(out, "$2") {
		t.Fatal("export must not contain password hashes")
	}
}
