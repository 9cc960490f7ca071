package about

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
}

func newHandlers(base modulehandler.Base) handlers {
	return handlers{Base: base}
}

func (h handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	loc := h.Localizer(w, r)
	siteName := h.Chrome().SiteName
	h.ServePage(w, r, loc, modulehandler.Page{
		Title: loc.T("web.about.page_title"),
		Sections: []modulehandler.Section{{
			ID:   modulehandler.MainSection,
			Kind: suspense.KindPage,
			Key:  webtemplates.PageAbout,
			Render: func(_ context.Context, view webtemplates.View, _ *modulehandler.Scope) (templ.Component, error) {
				return view.Content(loc, webtemplates.AboutPage{
					SiteName:    siteName,
					ProjectsURL: routepath.Projects,
					RegisterURL: routepath.Register,
				}), nil
			},
		}},
	})
}
