package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"hyperdrive/internal/models"
	"hyperdrive/internal/repositories"
	"hyperdrive/internal/validation"
	appErr "hyperdrive/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProjectPage is one page of the public listing.
type ProjectPage struct {
	Items    []models.Project `json:"items"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

// ProjectService handles business logic related to projects.
type ProjectService struct {
	repo      repositories.ProjectRepository
	validator *validation.Validator
	events    EventPublisher
	log       *zap.Logger
	// autoHideThreshold is only logged against; nothing hides projects yet.
	autoHideThreshold int
}

// NewProjectService creates a new ProjectService. events may be nil, in which
// case no moderation events are emitted.
func NewProjectService(repo repositories.ProjectRepository, v *validation.Validator, events EventPublisher, log *zap.Logger, autoHideThreshold int) *ProjectService {
	return &ProjectService{
		repo:              repo,
		validator:         v,
		events:            events,
		log:               log,
		autoHideThreshold: autoHideThreshold,
	}
}

// Create stores a new draft owned by owner.
func (s *ProjectService) Create(ctx context.Context, owner *models.User, in validation.ProjectInput) (*models.Project, error) {
	project, err := s.validator.Project(in)
	if err != nil {
		return nil, err
	}
	project.OwnerUserID = owner.ID
	project.Status = models.StatusDraft

	if err := s.repo.Create(ctx, project); err != nil {
		return nil, err
	}
	s.log.Info("project created", zap.String("project_id", project.ID.String()), zap.Uint("owner", owner.ID))
	s.publish(EventProjectCreated, project, owner, 0)
	return project, nil
}

// List returns published projects matching q, newest first.
func (s *ProjectService) List(ctx context.Context, q validation.ListQuery) (*ProjectPage, error) {
	if err := s.validator.Struct(q); err != nil {
		return nil, err
	}
	items, total, err := s.repo.ListPublished(ctx, repositories.ProjectFilter{
		Query:    strings.TrimSpace(q.Q),
		Category: strings.TrimSpace(q.Category),
		Page:     q.Page,
		PageSize: q.PageSize,
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Project{}
	}
	return &ProjectPage{Items: items, Total: total, Page: q.Page, PageSize: q.PageSize}, nil
}

// Get returns a project visible to viewer. Drafts are only visible to their
// owner; to everyone else they do not exist. viewer may be nil.
func (s *ProjectService) Get(ctx context.Context, viewer *models.User, id uuid.UUID) (*models.Project, error) {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !project.IsPublished() && !project.OwnedBy(viewer) {
		return nil, appErr.NotFound()
	}
	return project, nil
}

// Update applies the present fields of patch.
func (s *ProjectService) Update(ctx context.Context, actor *models.User, id uuid.UUID, patch validation.ProjectPatch) (*models.Project, error) {
	project, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.validator.ApplyPatch(project, patch); err != nil {
		return nil, err
	}
	project.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// Publish makes the project publicly visible. No completeness check is made.
func (s *ProjectService) Publish(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Project, error) {
	return s.setStatus(ctx, actor, id, models.StatusPublished, EventProjectPublished)
}

// Unpublish returns the project to draft.
func (s *ProjectService) Unpublish(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Project, error) {
	return s.setStatus(ctx, actor, id, models.StatusDraft, EventProjectUnpublished)
}

func (s *ProjectService) setStatus(ctx context.Context, actor *models.User, id uuid.UUID, status models.ProjectStatus, event string) (*models.Project, error) {
	project, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	project.Status = status
	project.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, project); err != nil {
		return nil, err
	}
	s.log.Info("project status changed", zap.String("project_id", id.String()), zap.String("status", string(status)))
	s.publish(event, project, actor, 0)
	return project, nil
}

// AddView counts one view of a published project. Not idempotent.
func (s *ProjectService) AddView(ctx context.Context, id uuid.UUID) error {
	return s.repo.IncrementViews(ctx, id)
}

// Report files an abuse report and returns the project's new report count.
// Any project, published or not, can be reported. reporter may be nil.
func (s *ProjectService) Report(ctx context.Context, reporter *models.User, id uuid.UUID, reason string) (int, error) {
	report := &models.ProjectReport{ProjectID: id, Reason: validation.Reason(reason)}
	if reporter != nil {
		report.ReporterUserID = &reporter.ID
	}

	count, err := s.repo.AddReport(ctx, report)
	if err != nil {
		return 0, err
	}
	if s.autoHideThreshold > 0 && count >= s.autoHideThreshold {
		s.log.Warn("project reached report threshold; auto-hide is not enforced",
			zap.String("project_id", id.String()),
			zap.Int("reports_count", count),
			zap.Int("threshold", s.autoHideThreshold),
		)
	}
	s.publish(EventProjectReported, &models.Project{ID: id}, reporter, count)
	return count, nil
}

// owned loads a project and checks that actor owns it.
func (s *ProjectService) owned(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Project, error) {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !project.OwnedBy(actor) {
		return nil, appErr.Forbidden()
	}
	return project, nil
}

// publish emits a moderation event. Failures are logged and never surface to
// the caller.
func (s *ProjectService) publish(eventType string, project *models.Project, actor *models.User, reports int) {
	if s.events == nil {
		return
	}
	ev := ProjectEvent{
		Type:         eventType,
		ProjectID:    project.ID,
		Status:       project.Status,
		ReportsCount: reports,
		OccurredAt:   time.Now().UTC(),
	}
	if actor != nil {
		ev.ActorUserID = &actor.ID
	}
	body, err := json.Marshal(ev)
	if err != nil {
		s.log.Error("encode event", zap.String("type", eventType), zap.Error(err))
		return
	}
	if err := s.events.Publish(eventType, body); err != nil {
		s.log.Warn("publish event failed", zap.String("type", eventType), zap.Error(err))
	}
}
