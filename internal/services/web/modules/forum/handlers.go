package forum

import (
	"context"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/civicspace/agora/internal/platform/logging"
	"github.com/civicspace/agora/internal/services/web/backend"
	apperrors "github.com/civicspace/agora/internal/services/web/platform/errors"
	flashnotice "github.com/civicspace/agora/internal/services/web/platform/flash"
	"github.com/civicspace/agora/internal/services/web/platform/modulehandler"
	"github.com/civicspace/agora/internal/services/web/platform/suspense"
	"github.com/civicspace/agora/internal/services/web/platform/threads"
	"github.com/civicspace/agora/internal/services/web/routepath"
	webtemplates "github.com/civicspace/agora/internal/services/web/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type handlers struct {
	modulehandler.Base
	service service
}

func newHandlers(s service, base modulehandler.Base) handlers {
	return handlers{Base: base, service: s}
}

func (h handlers) handleList(w http.ResponseWriter, r *http.Request) {
	loc := h.Localizer(w, r)
	sort := normalizeSort(r.URL.Query().Get(routepath.SortKey))
	h.ServePage(w, r, loc, modulehandler.Page{
		Title: loc.T("web.forum.title"),
		Sections: []modulehandler.Section{{
			ID:   modulehandler.MainSection,
			Kind: suspense.KindPage,
			Key:  webtemplates.PageForum,
			Render: func(ctx context.Context, view webtemplates.View, _ *modulehandler.Scope) (templ.Component, error) {
				discussions, err := h.service.list(ctx, sort)
				if err != nil {
					return h.InlineError(loc, err), nil
				}
				items := make([]webtemplates.ForumItem, 0, len(discussions))
				for _, d := range discussions {
					items = append(items, forumItem(d))
				}
				return view.Content(loc, webtemplates.ForumPage{Items: items, Sorts: sortOptions(sort), Sort: sort}), nil
			},
		}},
	})
}

func sortOptions(selected string) []webtemplates.Option {
	options := make([]webtemplates.Option, 0, len(sortOrders))
	for _, order := range sortOrders {
		param := order
		if order == backend.SortNewest {
			param = ""
		}
		options = append(options, webtemplates.Option{
			Value:    order,
			LabelKey: "web.sort." + order,
			URL:      routepath.ForumSorted(param),
			Selected: order == selected,
		})
	}
	return options
}

func forumItem(d discussion) webtemplates.ForumItem {
	return webtemplates.ForumItem{
		ID:           d.ID,
		URL:          routepath.ForumThread(d.ID),
		Icon:         webtemplates.MilestoneIcon(d.Milestone),
		Title:        d.Title,
		Description:  d.Description,
		ProjectTitle: d.ProjectTitle,
		ProjectURL:   routepath.Project(d.ProjectID),
		Comments:     d.Comments,
		CreatedAt:    d.CreatedAt,
		IsProject:    d.IsProject,
	}
}

func (h handlers) handleThread(w http.ResponseWriter, r *http.Request) {
	loc := h.Localizer(w, r)
	id := strings.TrimSpace(chi.URLParam(r, "timelineItemID"))
	_, signedIn := h.Principal(r)
	h.ServePage(w, r, loc, modulehandler.Page{
		Title: loc.T("web.forum.thread_title"),
		Sections: []modulehandler.Section{{
			ID:   modulehandler.MainSection,
			Kind: suspense.KindPage,
			Key:  webtemplates.PageThread,
			Render: func(ctx context.Context, view webtemplates.View, _ *modulehandler.Scope) (templ.Component, error) {
				t, err := h.service.thread(ctx, id)
				if err != nil {
					return h.InlineError(loc, err), nil
				}
				if n := len(t.Comments.Orphans); n > 0 {
					logging.FromContext(ctx).Debug("orphaned replies dropped", zap.String("discussion_id", id), zap.Int("count", n))
				}
				form := webtemplates.CommentForm{
					Action:    routepath.ForumReply(id),
					SignedIn:  signedIn,
					SignInURL: h.SignInURL(r),
					MaxLength: threads.MaxContentLength,
				}
				return view.Content(loc, webtemplates.ThreadPage{
					Item:         forumItem(t.Discussion),
					Threads:      webtemplates.NewThreadViews(t.Comments.Threads),
					CommentCount: threads.Count(t.Comments.Threads),
					CommentForm:  form,
					ForumURL:     routepath.Forum,
				}), nil
			},
		}},
	})
}

func (h handlers) handleReply(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "timelineItemID"))
	back := routepath.ForumThread(id) + "#comments"
	if _, ok := h.Principal(r); !ok {
		h.RedirectWithNotice(w, r, back, flashnotice.NoticeError("web.notice.sign_in_required"))
		return
	}
	err := h.service.reply(r.Context(), id, r.PostFormValue("parent_comment_id"), r.PostFormValue("content"))
	switch {
	case err == nil:
		h.RedirectWithNotice(w, r, back, flashnotice.NoticeSuccess("web.notice.comment_posted"))
	case apperrors.Is(err, apperrors.KindInvalidInput):
		h.RedirectWithNotice(w, r, back, flashnotice.NoticeFromError(err))
	default:
		h.RedirectWithError(w, r, back, err)
	}
}
