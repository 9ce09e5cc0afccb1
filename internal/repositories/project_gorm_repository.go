package repositories

import (
	"context"
	"errors"
	"strings"

	"hyperdrive/internal/models"
	appErr "hyperdrive/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// editableColumns are the fields Update may write. views_count and
// reports_count are only ever changed by atomic increments.
var editableColumns = []string{
	"Name", "Category", "Purpose", "Problem", "Solution", "TargetMarket",
	"BusinessModel", "Team", "Contact", "Links", "Status", "UpdatedAt",
}

// GORMProjectRepository is a GORM implementation of ProjectRepository.
type GORMProjectRepository struct {
	db *gorm.DB
}

// NewGORMProjectRepository creates a new instance of GORMProjectRepository.
func NewGORMProjectRepository(db *gorm.DB) *GORMProjectRepository {
	return &GORMProjectRepository{
		db: db,
	}
}

// Create inserts a new project, assigning an ID if it has none.
func (r *GORMProjectRepository) Create(ctx context.Context, project *models.Project) error {
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	if project.Links == nil {
		project.Links = []string{}
	}
	if err := r.db.WithContext(ctx).Create(project).Error; err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "failed to create project")
	}
	return nil
}

// GetByID retrieves a single project regardless of its status.
func (r *GORMProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).First(&project, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErr.NotFound()
		}
		return nil, appErr.Wrap(err, appErr.CodeInternal, "failed to get project")
	}
	return &project, nil
}

// Update writes the editable columns of project and refreshes UpdatedAt.
func (r *GORMProjectRepository) Update(ctx context.Context, project *models.Project) error {
	res := r.db.WithContext(ctx).Model(project).Select(editableColumns).Updates(project)
	if res.Error != nil {
		return appErr.Wrap(res.Error, appErr.CodeInternal, "failed to update project")
	}
	if res.RowsAffected == 0 {
		return appErr.NotFound()
	}
	return nil
}

// ListPublished returns one page of published projects, newest first, and the
// total number of matches.
func (r *GORMProjectRepository) ListPublished(ctx context.Context, filter ProjectFilter) ([]models.Project, int64, error) {
	scope := publishedScope(filter)

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Project{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, appErr.Wrap(err, appErr.CodeInternal, "failed to count projects")
	}

	projects := []models.Project{}
	if total == 0 {
		return projects, 0, nil
	}
	err := r.db.WithContext(ctx).
		Scopes(scope).
		Order("created_at DESC").
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&projects).Error
	if err != nil {
		return nil, 0, appErr.Wrap(err, appErr.CodeInternal, "failed to list projects")
	}
	return projects, total, nil
}

func publishedScope(filter ProjectFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("status = ?", models.StatusPublished)
		if filter.Category != "" {
			db = db.Where("category = ?", filter.Category)
		}
		if q := strings.TrimSpace(filter.Query); q != "" {
			like := "%" + strings.ToLower(q) + "%"
			db = db.Where(
				"(LOWER(name) LIKE ? OR LOWER(purpose) LIKE ? OR LOWER(problem) LIKE ? OR LOWER(solution) LIKE ? OR LOWER(team) LIKE ?)",
				like, like, like, like, like,
			)
		}
		return db
	}
}

// IncrementViews adds one view to a published project in a single statement.
func (r *GORMProjectRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("id = ? AND status = ?", id, models.StatusPublished).
		UpdateColumn("views_count", gorm.Expr("views_count + ?", 1))
	if res.Error != nil {
		return appErr.Wrap(res.Error, appErr.CodeInternal, "failed to count view")
	}
	if res.RowsAffected == 0 {
		return appErr.NotFound()
	}
	return nil
}

// AddReport appends a report row and increments reports_count atomically.
func (r *GORMProjectRepository) AddReport(ctx context.Context, report *models.ProjectReport) (int, error) {
	var count int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Project{}).
			Where("id = ?", report.ProjectID).
			UpdateColumn("reports_count", gorm.Expr("reports_count + ?", 1))
		if res.Error != nil {
			return appErr.Wrap(res.Error, appErr.CodeInternal, "failed to count report")
		}
		if res.RowsAffected == 0 {
			return appErr.NotFound()
		}

		if err := tx.Create(report).Error; err != nil {
			return appErr.Wrap(err, appErr.CodeInternal, "failed to store report")
		}

		var project models.Project
		if err := tx.Select("reports_count").First(&project, "id = ?", report.ProjectID).Error; err != nil {
			return appErr.Wrap(err, appErr.CodeInternal, "failed to read report count")
		}
		count = project.ReportsCount
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}
