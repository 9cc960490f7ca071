package projectform

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/civicspace/agora/internal/services/web/backend"
	apperrors "github.com/civicspace/agora/internal/services/web/platform/errors"
	"github.com/civicspace/agora/internal/services/web/platform/funding"
)

const titleMaxLength = 200

var statuses = []string{backend.StatusPlanning, backend.StatusInProgress, backend.StatusCompleted}

// Gateway reads and writes projects on behalf of their owners.
type Gateway interface {
	GetProject(ctx context.Context, projectID string) (backend.Project, error)
	CreateProject(ctx context.Context, input backend.ProjectInput) (backend.Project, error)
	UpdateProject(ctx context.Context, projectID string, input backend.ProjectInput) (backend.Project, error)
	DeleteProject(ctx context.Context, projectID string) error
}

type service struct {
	gateway Gateway
}

func newService(gateway Gateway) service {
	if gateway == nil {
		gateway = unavailableGateway{}
	}
	return service{gateway: gateway}
}

// projectForm is the submitted create or edit form.
type projectForm struct {
	Title       string
	Description string
	Category    string
	Budget      string
	Tags        string
	Status      string
}

// fieldErrors maps a form field to the localization key of its message.
type fieldErrors map[string]string

// formFromProject fills the edit form with the stored project.
func formFromProject(p backend.Project) projectForm {
	return projectForm{
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
		Budget:      strconv.FormatFloat(p.Budget, 'f', 2, 64),
		Tags:        strings.Join(p.Tags, ", "),
		Status:      p.Status,
	}
}

// parseProject validates the form locally. Status is only read when
// editing.
func parseProject(form projectForm, edit bool) (backend.ProjectInput, fieldErrors) {
	errs := fieldErrors{}
	input := backend.ProjectInput{
		Title:       strings.TrimSpace(form.Title),
		Description: strings.TrimSpace(form.Description),
		Tags:        splitTags(form.Tags),
	}
	switch {
	case input.Title == "":
		errs["title"] = "web.project_form.title_required"
	case utf8.RuneCountInString(input.Title) > titleMaxLength:
		errs["title"] = "web.project_form.title_too_long"
	}
	if input.Description == "" {
		errs["description"] = "web.project_form.description_required"
	}
	for _, category := range backend.Categories {
		if strings.EqualFold(strings.TrimSpace(form.Category), category) {
			input.Category = category
		}
	}
	if input.Category == "" {
		errs["category"] = "web.project_form.category_required"
	}
	budget, ok := funding.ParseAmount(form.Budget)
	if !ok {
		errs["budget"] = "web.project_form.budget_invalid"
	}
	input.Budget = budget
	if edit {
		input.Status = strings.TrimSpace(form.Status)
		if !slices.Contains(statuses, input.Status) {
			errs["status"] = "web.project_form.status_invalid"
		}
	}
	if len(errs) > 0 {
		return backend.ProjectInput{}, errs
	}
	return input, nil
}

// splitTags reads a comma separated tag list, dropping blanks and repeats.
// Repeats compare case-insensitively and the first spelling wins.
func splitTags(raw string) []string {
	var tags []string
	seen := map[string]bool{}
	for _, tag := range strings.Split(raw, ",") {
		tag = strings.TrimPrefix(strings.TrimSpace(tag), "#")
		key := strings.ToLower(tag)
		if tag == "" || seen[key] {
			continue
		}
		seen[key] = true
		tags = append(tags, tag)
	}
	return tags
}

// owned returns the project when userID owns it.
func (s service) owned(ctx context.Context, projectID string, userID string) (backend.Project, error) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return backend.Project{}, apperrors.EK(apperrors.KindNotFound, "error.project.not_found", "project id is required")
	}
	project, err := s.gateway.GetProject(ctx, projectID)
	if err != nil {
		return backend.Project{}, err
	}
	if userID == "" || project.OwnerID != userID {
		return backend.Project{}, apperrors.EK(apperrors.KindForbidden, "error.project.forbidden", "project belongs to another user")
	}
	return project, nil
}

func (s service) create(ctx context.Context, input backend.ProjectInput) (backend.Project, error) {
	return s.gateway.CreateProject(ctx, input)
}

func (s service) update(ctx context.Context, projectID string, userID string, input backend.ProjectInput) (backend.Project, error) {
	if _, err := s.owned(ctx, projectID, userID); err != nil {
		return backend.Project{}, err
	}
	return s.gateway.UpdateProject(ctx, projectID, input)
}

func (s service) remove(ctx context.Context, projectID string, userID string) error {
	if _, err := s.owned(ctx, projectID, userID); err != nil {
		return err
	}
	return s.gateway.DeleteProject(ctx, projectID)
}
