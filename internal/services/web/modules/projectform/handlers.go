package projectform

import (
	"context"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/civicspace/agora/internal/services/web/backend"
	apperrors "github.com/civicspace/agora/internal/services/web/platform/errors"
	flashnotice "github.com/civicspace/agora/internal/services/web/platform/flash"
	"github.com/civicspace/agora/internal/services/web/platform/modulehandler"
	"github.com/civicspace/agora/internal/services/web/platform/suspense"
	"github.com/civicspace/agora/internal/services/web/routepath"
	webtemplates "github.com/civicspace/agora/internal/services/web/templates"
	"github.com/go-chi/chi/v5"
)

type handlers struct {
	modulehandler.Base
	service service
}

func newHandlers(s service, base modulehandler.Base) handlers {
	return handlers{Base: base, service: s}
}

func (h handlers) handleNew(w http.ResponseWriter, r *http.Request) {
	loc := h.Localizer(w, r)
	h.ServePage(w, r, loc, modulehandler.Page{
		Title: loc.T("web.project_form.create_title"),
		Sections: []modulehandler.Section{{
			ID:   modulehandler.MainSection,
			Kind: suspense.KindPage,
			Key:  webtemplates.PageProjectCreate,
			Render: func(_ context.Context, view webtemplates.View, _ *modulehandler.Scope) (templ.Component, error) {
				return view.Content(loc, createView(projectForm{}, nil)), nil
			},
		}},
	})
}

func (h handlers) handleCreate(w http.ResponseWriter, r *http.Request) {
	loc := h.Localizer(w, r)
	form := readForm(r)
	input, errs := parseProject(form, false)
	if errs != nil {
		h.WriteView(w, r, loc, http.StatusUnprocessableEntity, loc.T("web.project_form.create_title"), webtemplates.PageProjectCreate, createView(form, errs))
		return
	}
	project, err := h.service.create(r.Context(), input)
	if err != nil {
		h.RedirectWithError(w, r, routepath.ProjectCreate, err)
		return
	}
	h.RedirectWithNotice(w, r, routepath.Project(project.ID), flashnotice.NoticeSuccess("web.notice.project_created"))
}

func (h handlers) handleEditForm(w http.ResponseWriter, r *http.Request) {
	loc := h.Localizer(w, r)
	projectID := strings.TrimSpace(chi.URLParam(r, "projectID"))
	userID := h.RequestUserID(r)
	h.ServePage(w, r, loc, modulehandler.Page{
		Title: loc.T("web.project_form.edit_title"),
		Sections: []modulehandler.Section{{
			ID:   modulehandler.MainSection,
			Kind: suspense.KindPage,
			Key:  webtemplates.PageProjectEdit,
			Render: func(ctx context.Context, view webtemplates.View, _ *modulehandler.Scope) (templ.Component, error) {
				project, err := h.service.owned(ctx, projectID, userID)
				if err != nil {
					return h.InlineError(loc, err), nil
				}
				return view.Content(loc, editView(projectID, formFromProject(project), nil)), nil
			},
		}},
	})
}

func (h handlers) handleUpdate(w http.ResponseWriter, r *http.Request) {
	loc := h.Localizer(w, r)
	projectID := strings.TrimSpace(chi.URLParam(r, "projectID"))
	form := readForm(r)
	input, errs := parseProject(form, true)
	if errs != nil {
		h.WriteView(w, r, loc, http.StatusUnprocessableEntity, loc.T("web.project_form.edit_title"), webtemplates.PageProjectEdit, editView(projectID, form, errs))
		return
	}
	if _, err := h.service.update(r.Context(), projectID, h.RequestUserID(r), input); err != nil {
		h.writeActionError(w, r, routepath.ProjectEdit(projectID), err)
		return
	}
	h.RedirectWithNotice(w, r, routepath.Project(projectID), flashnotice.NoticeSuccess("web.notice.project_updated"))
}

func (h handlers) handleDelete(w http.ResponseWriter, r *http.Request) {
	projectID := strings.TrimSpace(chi.URLParam(r, "projectID"))
	if err := h.service.remove(r.Context(), projectID, h.RequestUserID(r)); err != nil {
		h.writeActionError(w, r, routepath.Project(projectID), err)
		return
	}
	h.RedirectWithNotice(w, r, routepath.Projects, flashnotice.NoticeSuccess("web.notice.project_deleted"))
}

// writeActionError renders ownership failures as an error page and flashes
// everything else back to back.
func (h handlers) writeActionError(w http.ResponseWriter, r *http.Request, back string, err error) {
	switch apperrors.KindOf(err) {
	case apperrors.KindForbidden, apperrors.KindNotFound:
		h.WriteError(w, r, err)
	default:
		h.RedirectWithError(w, r, back, err)
	}
}

func readForm(r *http.Request) projectForm {
	return projectForm{
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
		Category:    r.PostFormValue("category"),
		Budget:      r.PostFormValue("budget"),
		Tags:        r.PostFormValue("tags"),
		Status:      r.PostFormValue("status"),
	}
}

func createView(form projectForm, errs fieldErrors) webtemplates.ProjectForm {
	return formView(form, errs, routepath.ProjectCreate, routepath.Projects)
}

func editView(projectID string, form projectForm, errs fieldErrors) webtemplates.ProjectForm {
	view := formView(form, errs, routepath.ProjectEdit(projectID), routepath.Project(projectID))
	view.IsEdit = true
	view.Statuses = make([]webtemplates.Option, 0, len(statuses))
	for _, status := range statuses {
		view.Statuses = append(view.Statuses, webtemplates.Option{
			Value:    status,
			LabelKey: webtemplates.StatusKey(status),
			Selected: status == strings.TrimSpace(form.Status),
		})
	}
	return view
}

func formView(form projectForm, errs fieldErrors, action string, cancel string) webtemplates.ProjectForm {
	categories := make([]webtemplates.Option, 0, len(backend.Categories))
	for _, category := range backend.Categories {
		categories = append(categories, webtemplates.Option{
			Value:    category,
			LabelKey: webtemplates.CategoryKey(category),
			Selected: strings.EqualFold(category, strings.TrimSpace(form.Category)),
		})
	}
	return webtemplates.ProjectForm{
		Action:      action,
		CancelURL:   cancel,
		Title:       form.Title,
		Description: form.Description,
		Category:    form.Category,
		Budget:      form.Budget,
		Tags:        form.Tags,
		Status:      form.Status,
		Categories:  categories,
		Errors:      errs,
	}
}
