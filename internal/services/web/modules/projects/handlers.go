package projects

import (
	"context"
	"html/template"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/a-h/templ"
	"github.com/civicspace/agora/internal/platform/logging"
	"github.com/civicspace/agora/internal/services/web/backend"
	apperrors "github.com/civicspace/agora/internal/services/web/platform/errors"
	flashnotice "github.com/civicspace/agora/internal/services/web/platform/flash"
	"github.com/civicspace/agora/internal/services/web/platform/funding"
	webi18n "github.com/civicspace/agora/internal/services/web/platform/i18n"
	"github.com/civicspace/agora/internal/services/web/platform/modulehandler"
	"github.com/civicspace/agora/internal/services/web/platform/suspense"
	"github.com/civicspace/agora/internal/services/web/platform/threads"
	"github.com/civicspace/agora/internal/services/web/routepath"
	webtemplates "github.com/civicspace/agora/internal/services/web/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const sceneSection = "project-scene"

type handlers struct {
	modulehandler.Base
	service service
}

func newHandlers(s service, base modulehandler.Base) handlers {
	return handlers{Base: base, service: s}
}

func (h handlers) handleList(w http.ResponseWriter, r *http.Request) {
	loc := h.Localizer(w, r)
	query := r.URL.Query()
	category := normalizeCategory(query.Get(routepath.CategoryKey))
	sort := normalizeSort(query.Get(routepath.SortKey))
	pageToken := query.Get(routepath.PageTokenKey)
	_, signedIn := h.Principal(r)

	h.ServePage(w, r, loc, modulehandler.Page{
		Title: loc.T("web.projects.title"),
		Sections: []modulehandler.Section{{
			ID:   modulehandler.MainSection,
			Kind: suspense.KindPage,
			Key:  webtemplates.PageProjects,
			Render: func(ctx context.Context, view webtemplates.View, _ *modulehandler.Scope) (templ.Component, error) {
				listing, err := h.service.list(ctx, category, sort, pageToken)
				if err != nil {
					return h.InlineError(loc, err), nil
				}
				page := webtemplates.ProjectsPage{
					Projects:   webtemplates.NewProjectCards(listing.Projects),
					Categories: categoryOptions(category, sort),
					Sorts:      sortOptions(category, sort),
					Category:   category,
					Sort:       sort,
					CreateURL:  routepath.ProjectCreate,
					SignedIn:   signedIn,
				}
				if listing.NextPageToken != "" {
					page.NextURL = routepath.ProjectsPage(category, sortParam(sort), listing.NextPageToken)
				}
				return view.Content(loc, page), nil
			},
		}},
	})
}

// sortParam keeps the default order out of URLs.
func sortParam(sort string) string {
	if sort == backend.SortNewest {
		return ""
	}
	return sort
}

func categoryOptions(selected string, sort string) []webtemplates.Option {
	options := make([]webtemplates.Option, 0, len(backend.Categories)+1)
	options = append(options, webtemplates.Option{
		LabelKey: "web.projects.all",
		URL:      routepath.ProjectsFiltered("", sortParam(sort)),
		Selected: selected == "",
	})
	for _, category := range backend.Categories {
		options = append(options, webtemplates.Option{
			Value:    category,
			LabelKey: webtemplates.CategoryKey(category),
			URL:      routepath.ProjectsFiltered(category, sortParam(sort)),
			Selected: category == selected,
		})
	}
	return options
}

func sortOptions(category string, selected string) []webtemplates.Option {
	options := make([]webtemplates.Option, 0, len(sortOrders))
	for _, order := range sortOrders {
		options = append(options, webtemplates.Option{
			Value:    order,
			LabelKey: "web.sort." + order,
			URL:      routepath.ProjectsFiltered(category, sortParam(order)),
			Selected: order == selected,
		})
	}
	return options
}

func (h handlers) handleDetail(w http.ResponseWriter, r *http.Request) {
	h.serveDetail(w, r, webtemplates.DonateForm{})
}

func (h handlers) serveDetail(w http.ResponseWriter, r *http.Request, donate webtemplates.DonateForm) {
	loc := h.Localizer(w, r)
	projectID := strings.TrimSpace(chi.URLParam(r, "projectID"))
	project := sync.OnceValues(func() (backend.Project, error) {
		return h.service.project(r.Context(), projectID)
	})
	h.ServePage(w, r, loc, modulehandler.Page{
		Title: loc.T("web.project.page_title"),
		Sections: []modulehandler.Section{
			{
				ID:   modulehandler.MainSection,
				Kind: suspense.KindPage,
				Key:  webtemplates.PageProject,
				Render: func(ctx context.Context, view webtemplates.View, scope *modulehandler.Scope) (templ.Component, error) {
					_, signedIn := h.Principal(r)
					d, err := h.service.loadDetail(ctx, projectID, signedIn, project)
					if err != nil {
						return h.InlineError(loc, err), nil
					}
					var scene template.HTML
					if hasScene(d.Project) {
						if scene, err = scope.HTML(ctx, sceneSection); err != nil {
							return nil, err
						}
					}
					return view.Content(loc, h.projectPage(r, loc, d, scene, donate)), nil
				},
			},
			{
				ID:   sceneSection,
				Kind: suspense.KindScene,
				Key:  webtemplates.WidgetScene,
				Render: func(_ context.Context, view webtemplates.View, _ *modulehandler.Scope) (templ.Component, error) {
					p, err := project()
					if err != nil {
						return h.InlineError(loc, err), nil
					}
					return view.Content(loc, newScene(p)), nil
				},
			},
		},
	})
}

func (h handlers) projectPage(r *http.Request, loc webi18n.Localizer, d detail, scene template.HTML, donate webtemplates.DonateForm) webtemplates.ProjectPage {
	if n := len(d.Comments.Orphans); n > 0 {
		logging.FromContext(r.Context()).Debug("orphaned replies dropped", zap.String("project_id", d.Project.ID), zap.Int("count", n))
	}
	principal, signedIn := h.Principal(r)
	id := d.Project.ID
	donate.Action = routepath.ProjectDonate(id)
	donate.Presets = donationPresets
	return webtemplates.ProjectPage{
		Project:       webtemplates.NewProjectCard(d.Project),
		SignedIn:      signedIn,
		SignInURL:     h.SignInURL(r),
		CanEdit:       signedIn && principal.UserID == d.Project.OwnerID,
		EditURL:       routepath.ProjectEdit(id),
		DeleteURL:     routepath.ProjectDelete(id),
		HasVoted:      d.HasVoted,
		VoteURL:       routepath.ProjectVote(id),
		Donate:        donate,
		DonationTotal: funding.FormatAmount(d.Stats.TotalAmount),
		DonationCount: d.Stats.DonationCount,
		DonorCount:    d.Stats.DonorCount,
		Donations:     webtemplates.NewDonationItems(d.Donations),
		Timeline:      timelineEntries(d.Timeline),
		Threads:       webtemplates.NewThreadViews(d.Comments.Threads),
		CommentCount:  threads.Count(d.Comments.Threads),
		CommentForm: webtemplates.CommentForm{
			Action:    routepath.ProjectComments(id),
			SignedIn:  signedIn,
			SignInURL: h.SignInURL(r),
			MaxLength: threads.MaxContentLength,
		},
		Share: shareLinks(loc, d.Project, h.AbsoluteURL(r, routepath.Project(id))),
		Scene: scene,
	}
}

func timelineEntries(items []backend.TimelineItem) []webtemplates.TimelineEntry {
	entries := make([]webtemplates.TimelineEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, webtemplates.TimelineEntry{
			ID:          item.ID,
			Icon:        webtemplates.MilestoneIcon(item.MilestoneType),
			Title:       item.Title,
			Description: item.Description,
			Completed:   item.IsCompleted,
			TargetDate:  deref(item.TargetDate),
			DoneDate:    deref(item.CompletedDate),
			URL:         routepath.ForumThread(item.ID),
			Comments:    item.CommentCount,
		})
	}
	return entries
}

func deref(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

// requireSignedIn sends anonymous visitors back with a sign-in notice.
func (h handlers) requireSignedIn(w http.ResponseWriter, r *http.Request, back string) bool {
	if _, ok := h.Principal(r); ok {
		return true
	}
	h.RedirectWithNotice(w, r, back, flashnotice.NoticeError("web.notice.sign_in_required"))
	return false
}

func (h handlers) handleVote(w http.ResponseWriter, r *http.Request) {
	projectID := strings.TrimSpace(chi.URLParam(r, "projectID"))
	back := routepath.Project(projectID)
	if !h.requireSignedIn(w, r, back) {
		return
	}
	voted, err := h.service.toggleVote(r.Context(), projectID)
	if err != nil {
		h.RedirectWithError(w, r, back, err)
		return
	}
	notice := "web.notice.vote_removed"
	if voted {
		notice = "web.notice.vote_added"
	}
	h.RedirectWithNotice(w, r, back, flashnotice.NoticeSuccess(notice))
}

func (h handlers) handleDonate(w http.ResponseWriter, r *http.Request) {
	projectID := strings.TrimSpace(chi.URLParam(r, "projectID"))
	back := routepath.Project(projectID)
	if !h.requireSignedIn(w, r, back) {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.RedirectWithError(w, r, back, apperrors.EK(apperrors.KindInvalidInput, "web.donate.invalid_amount", "parse donation form"))
		return
	}
	form := donationForm{
		Amount:    r.PostFormValue("amount"),
		Preset:    r.PostFormValue("preset"),
		Message:   r.PostFormValue("message"),
		Anonymous: r.PostFormValue("anonymous") == "true",
	}
	input, err := parseDonation(projectID, form)
	if err != nil {
		h.writeDonateForm(w, r, projectID, form, err)
		return
	}
	if err := h.service.donate(r.Context(), input); err != nil {
		h.RedirectWithError(w, r, back, err)
		return
	}
	h.RedirectWithNotice(w, r, back, flashnotice.NoticeSuccess("web.notice.donation_thanks"))
}

// writeDonateForm re-renders the project page with the donation dialog
// open on its validation message.
func (h handlers) writeDonateForm(w http.ResponseWriter, r *http.Request, projectID string, form donationForm, cause error) {
	loc := h.Localizer(w, r)
	d, err := h.service.loadDetail(r.Context(), projectID, true, func() (backend.Project, error) {
		return h.service.project(r.Context(), projectID)
	})
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	page := h.projectPage(r, loc, d, "", webtemplates.DonateForm{
		Amount:  strings.TrimSpace(form.Amount),
		Message: strings.TrimSpace(form.Message),
		Error:   apperrors.LocalizationKey(cause),
	})
	h.WriteView(w, r, loc, http.StatusUnprocessableEntity, d.Project.Title, webtemplates.PageProject, page)
}

func (h handlers) handleComment(w http.ResponseWriter, r *http.Request) {
	projectID := strings.TrimSpace(chi.URLParam(r, "projectID"))
	back := routepath.Project(projectID) + "#comments"
	if !h.requireSignedIn(w, r, back) {
		return
	}
	input, err := threads.Input(projectID, r.PostFormValue("timeline_item_id"), r.PostFormValue("parent_comment_id"), r.PostFormValue("content"))
	if err != nil {
		h.RedirectWithNotice(w, r, back, flashnotice.NoticeFromError(err))
		return
	}
	if err := h.service.comment(r.Context(), input); err != nil {
		h.RedirectWithError(w, r, back, err)
		return
	}
	h.RedirectWithNotice(w, r, back, flashnotice.NoticeSuccess("web.notice.comment_posted"))
}
