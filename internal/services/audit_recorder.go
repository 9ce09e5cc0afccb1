package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"hyperdrive/internal/models"
	"hyperdrive/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// ErrMalformedEvent is returned for event bodies that can never be recorded.
var ErrMalformedEvent = errors.New("malformed project event")

// AuditRecorder turns moderation events into audit log rows.
type AuditRecorder struct {
	repo repositories.AuditLogRepository
	log  *zap.Logger
}

// NewAuditRecorder creates a new AuditRecorder.
func NewAuditRecorder(repo repositories.AuditLogRepository, log *zap.Logger) *AuditRecorder {
	return &AuditRecorder{repo: repo, log: log}
}

// Record stores one event. The routing key is used as the action when the
// body does not name one.
func (r *AuditRecorder) Record(ctx context.Context, routingKey string, body []byte) error {
	var ev ProjectEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if ev.ProjectID == uuid.Nil {
		return fmt.Errorf("%w: missing project_id", ErrMalformedEvent)
	}

	action := ev.Type
	if action == "" {
		action = routingKey
	}
	entry := &models.AuditLog{
		ActorUserID: ev.ActorUserID,
		Action:      action,
		EntityType:  "project",
		EntityID:    ev.ProjectID.String(),
		Payload:     datatypes.JSON(body),
	}
	if err := r.repo.Create(ctx, entry); err != nil {
		return err
	}
	r.log.Debug("audit recorded", zap.String("action", action), zap.String("project_id", entry.EntityID))
	return nil
}
