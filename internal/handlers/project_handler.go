package handlers

import (
	"hyperdrive/internal/middleware"
	"hyperdrive/internal/services"
	"hyperdrive/internal/validation"
	appErr "hyperdrive/pkg/errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ProjectGuards are the per-route middlewares the project routes need.
type ProjectGuards struct {
	RequireUser  fiber.Handler
	OptionalUser fiber.Handler
	CreateLimit  fiber.Handler
	ReportLimit  fiber.Handler
}

// ProjectHandler handles HTTP requests for projects.
type ProjectHandler struct {
	service *services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(service *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

// RegisterRoutes registers the project routes with the Fiber router.
func (h *ProjectHandler) RegisterRoutes(router fiber.Router, g ProjectGuards) {
	projects := router.Group("/projects")
	projects.Post("/", g.RequireUser, g.CreateLimit, h.HandleCreate)
	projects.Get("/", h.HandleList)
	projects.Get("/:id", g.OptionalUser, h.HandleGet)
	projects.Patch("/:id", g.RequireUser, h.HandleUpdate)
	projects.Post("/:id/publish", g.RequireUser, h.HandlePublish)
	projects.Post("/:id/unpublish", g.RequireUser, h.HandleUnpublish)
	projects.Post("/:id/view", h.HandleView)
	projects.Post("/:id/report", g.RequireUser, g.ReportLimit, h.HandleReport)
}

// HandleCreate creates a draft owned by the caller.
func (h *ProjectHandler) HandleCreate(c *fiber.Ctx) error {
	var in validation.ProjectInput
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(err)
	}
	project, err := h.service.Create(c.UserContext(), middleware.CurrentUser(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(project)
}

// HandleList returns a page of published projects.
func (h *ProjectHandler) HandleList(c *fiber.Ctx) error {
	q := validation.ListQuery{Page: 1, PageSize: 12}
	if err := c.QueryParser(&q); err != nil {
		return appErr.Wrap(err, appErr.CodeInvalid, "Invalid query parameters")
	}
	page, err := h.service.List(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.JSON(page)
}

// HandleGet returns a single project.
func (h *ProjectHandler) HandleGet(c *fiber.Ctx) error {
	id, err := projectID(c)
	if err != nil {
		return err
	}
	project, err := h.service.Get(c.UserContext(), middleware.CurrentUser(c), id)
	if err != nil {
		return err
	}
	return c.JSON(project)
}

// HandleUpdate applies a partial update.
func (h *ProjectHandler) HandleUpdate(c *fiber.Ctx) error {
	id, err := projectID(c)
	if err != nil {
		return err
	}
	var patch validation.ProjectPatch
	if err := c.BodyParser(&patch); err != nil {
		return invalidBody(err)
	}
	project, err := h.service.Update(c.UserContext(), middleware.CurrentUser(c), id, patch)
	if err != nil {
		return err
	}
	return c.JSON(project)
}

// HandlePublish makes a project public.
func (h *ProjectHandler) HandlePublish(c *fiber.Ctx) error {
	id, err := projectID(c)
	if err != nil {
		return err
	}
	project, err := h.service.Publish(c.UserContext(), middleware.CurrentUser(c), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"ok": true, "status": project.Status})
}

// HandleUnpublish returns a project to draft.
func (h *ProjectHandler) HandleUnpublish(c *fiber.Ctx) error {
	id, err := projectID(c)
	if err != nil {
		return err
	}
	project, err := h.service.Unpublish(c.UserContext(), middleware.CurrentUser(c), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"ok": true, "status": project.Status})
}

// HandleView counts a view. Anyone may call it.
func (h *ProjectHandler) HandleView(c *fiber.Ctx) error {
	id, err := projectID(c)
	if err != nil {
		return err
	}
	if err := h.service.AddView(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"ok": true})
}

type reportRequest struct {
	Reason string `json:"reason"`
}

// HandleReport files an abuse report. The reason comes from the "reason"
// query parameter or, failing that, a JSON body.
func (h *ProjectHandler) HandleReport(c *fiber.Ctx) error {
	id, err := projectID(c)
	if err != nil {
		return err
	}
	reason := c.Query("reason")
	if reason == "" && len(c.Body()) > 0 {
		var req reportRequest
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(err)
		}
		reason = req.Reason
	}
	count, err := h.service.Report(c.UserContext(), middleware.CurrentUser(c), id, reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"ok": true, "reports_count": count})
}

func projectID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, appErr.Wrap(err, appErr.CodeInvalid, "Invalid project id")
	}
	return id, nil
}
