package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/cafe-admin-service/internal/events"
)

// AuditService records an audit trail of admin actions from domain events.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventUserRegistered, a.record)
	a.dispatcher.Subscribe(events.EventUserCreated, a.record)
	a.dispatcher.Subscribe(events.EventUserUpdated, a.record)
	a.dispatcher.Subscribe(events.EventUserDeleted, a.record)
	a.dispatcher.Subscribe(events.EventMenuCreated, a.record)
	a.dispatcher.Subscribe(events.EventMenuUpdated, a.record)
	a.dispatcher.Subscribe(events.EventMenuDeleted, a.record)
	a.dispatcher.Subscribe(events.EventPasswordReset, a.record)
}

func (a *AuditService) record(_ context.Context, event events.Event) error {
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("entity_id", event.EntityID),
		zap.Time("at", event.Timestamp),
	}
	if event.Actor.UserID != "" {
		fields = append(fields,
			zap.String("actor_id", event.Actor.UserID),
			zap.String("actor_username", event.Actor.Username),
			zap.String("actor_role", string(event.Actor.Role)),
		)
	}
	// Payloads never carry password hashes, so logging them whole is safe.
	fields = append(fields, zap.Any("payload", event.Payload))
	a.logger.Info(string(event.Type), fields...)
	return nil
}
