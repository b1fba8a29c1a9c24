package events

import (
	"time"

	"github.com/spec-kit/cafe-admin-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventUserCreated    EventType = "user_created"
	EventUserUpdated    EventType = "user_updated"
	EventUserDeleted    EventType = "user_deleted"
	EventMenuCreated    EventType = "menu_created"
	EventMenuUpdated    EventType = "menu_updated"
	EventMenuDeleted    EventType = "menu_deleted"
	EventPasswordReset  EventType = "password_reset"
)

// Actor identifies who performed the change. Self-service flows
// (registration, password reset) have no acting admin.
type Actor struct {
	UserID   string      `json:"user_id,omitempty"`
	Username string      `json:"username,omitempty"`
	Role     domain.Role `json:"role,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	EntityID  string      `json:"entity_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserChangedPayload payload for user lifecycle events.
type UserChangedPayload struct {
	Email    string            `json:"email"`
	Username string            `json:"username"`
	Role     domain.Role       `json:"role"`
	Status   domain.UserStatus `json:"status"`
}

// MenuChangedPayload payload for menu lifecycle events.
type MenuChangedPayload struct {
	Name   string            `json:"name"`
	Slug   string            `json:"slug"`
	Status domain.MenuStatus `json:"status"`
}
