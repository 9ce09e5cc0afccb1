package repositories

import (
	"context"

	"hyperdrive/internal/models"

	"github.com/google/uuid"
)

// ProjectFilter narrows the public project listing.
type ProjectFilter struct {
	Query    string
	Category string
	Page     int
	PageSize int
}

// ProjectRepository defines the interface for project data access.
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	// Update writes the editable columns and status. Counters are never written.
	Update(ctx context.Context, project *models.Project) error
	ListPublished(ctx context.Context, filter ProjectFilter) ([]models.Project, int64, error)
	IncrementViews(ctx context.Context, id uuid.UUID) error
	// AddReport stores the report and bumps the project's counter in one
	// transaction, returning the new count.
	AddReport(ctx context.Context, report *models.ProjectReport) (int, error)
}
