package search

import (
	"context"
	"net/http"

	"github.com/a-h/templ"
	"github.com/civicspace/agora/internal/services/web/platform/modulehandler"
	"github.com/civicspace/agora/internal/services/web/platform/suspense"
	"github.com/civicspace/agora/internal/services/web/routepath"
	webtemplates "github.com/civicspace/agora/internal/services/web/templates"
)

type handlers struct {
	modulehandler.Base
	service service
}

func newHandlers(s service, base modulehandler.Base) handlers {
	return handlers{Base: base, service: s}
}

func (h handlers) handleSearch(w http.ResponseWriter, r *http.Request) {
	loc := h.Localizer(w, r)
	query := normalizeQuery(r.URL.Query().Get(routepath.SearchQueryKey))
	title := loc.T("web.search.title")
	if query != "" {
		title = loc.T("web.search.page_title", query)
	}
	h.ServePage(w, r, loc, modulehandler.Page{
		Title: title,
		Sections: []modulehandler.Section{{
			ID:   modulehandler.MainSection,
			Kind: suspense.KindPage,
			Key:  webtemplates.PageSearch,
			Render: func(ctx context.Context, view webtemplates.View, _ *modulehandler.Scope) (templ.Component, error) {
				found, err := h.service.search(ctx, query)
				if err != nil {
					return h.InlineError(loc, err), nil
				}
				return view.Content(loc, webtemplates.SearchPage{
					Query:    query,
					Searched: query != "",
					Projects: webtemplates.NewProjectCards(found.Projects),
					Comments: webtemplates.NewCommentItems(found.Comments),
					Action:   routepath.Search,
				}), nil
			},
		}},
	})
}
