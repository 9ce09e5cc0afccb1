package repositories

import (
	"context"

	"hyperdrive/internal/models"
	appErr "hyperdrive/pkg/errors"

	"gorm.io/gorm"
)

// AuditLogRepository defines the interface for audit log writes.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
}

// GORMAuditLogRepository is a GORM implementation of AuditLogRepository.
type GORMAuditLogRepository struct {
	db *gorm.DB
}

// NewGORMAuditLogRepository creates a new instance of GORMAuditLogRepository.
func NewGORMAuditLogRepository(db *gorm.DB) *GORMAuditLogRepository {
	return &GORMAuditLogRepository{db: db}
}

// Create appends an audit entry.
func (r *GORMAuditLogRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "failed to write audit log")
	}
	return nil
}
