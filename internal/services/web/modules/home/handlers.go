package home

import (
	"context"
	"net/http"
	"sync"

	"github.com/a-h/templ"
	"github.com/civicspace/agora/internal/services/web/backend"
	"github.com/civicspace/agora/internal/services/web/platform/funding"
	webi18n "github.com/civicspace/agora/internal/services/web/platform/i18n"
	"github.com/civicspace/agora/internal/services/web/platform/modulehandler"
	"github.com/civicspace/agora/internal/services/web/platform/suspense"
	"github.com/civicspace/agora/internal/services/web/routepath"
	webtemplates "github.com/civicspace/agora/internal/services/web/templates"
)

const chartSection = "home-chart"

type handlers struct {
	modulehandler.Base
	service service
}

func newHandlers(s service, base modulehandler.Base) handlers {
	return handlers{Base: base, service: s}
}

func (h handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	loc := h.Localizer(w, r)
	stats := sync.OnceValues(func() (backend.ProjectStatistics, error) {
		return h.service.statistics(r.Context())
	})
	h.ServePage(w, r, loc, modulehandler.Page{
		Title: loc.T("web.home.page_title"),
		Sections: []modulehandler.Section{
			{
				ID:     modulehandler.MainSection,
				Kind:   suspense.KindPage,
				Key:    webtemplates.PageHome,
				Render: h.renderHome(loc, stats),
			},
			{
				ID:     chartSection,
				Kind:   suspense.KindChart,
				Key:    webtemplates.WidgetChartBar,
				Render: h.renderChart(loc, stats),
			},
		},
	})
}

func (h handlers) renderHome(loc webi18n.Localizer, stats func() (backend.ProjectStatistics, error)) func(context.Context, webtemplates.View, *modulehandler.Scope) (templ.Component, error) {
	return func(ctx context.Context, view webtemplates.View, scope *modulehandler.Scope) (templ.Component, error) {
		snap, err := h.service.load(ctx, stats)
		if err != nil {
			return h.InlineError(loc, err), nil
		}
		chart, err := scope.HTML(ctx, chartSection)
		if err != nil {
			return nil, err
		}
		activity := make([]webtemplates.ActivityItem, 0, len(snap.Activity))
		for _, item := range snap.Activity {
			activity = append(activity, webtemplates.NewActivityItem(item))
		}
		return view.Content(loc, webtemplates.HomePage{
			SiteName:      h.Chrome().SiteName,
			TotalProjects: snap.Stats.TotalProjects,
			TotalFunding:  funding.FormatAmount(snap.Stats.TotalFunding),
			TotalVotes:    snap.Stats.TotalVotes,
			Featured:      webtemplates.NewProjectCards(snap.Featured),
			Activity:      activity,
			Donations:     webtemplates.NewDonationItems(snap.Donations),
			Comments:      webtemplates.NewCommentItems(snap.Comments),
			Chart:         chart,
			ProjectsURL:   routepath.Projects,
			CreateURL:     routepath.ProjectCreate,
		}), nil
	}
}

func (h handlers) renderChart(loc webi18n.Localizer, stats func() (backend.ProjectStatistics, error)) func(context.Context, webtemplates.View, *modulehandler.Scope) (templ.Component, error) {
	return func(_ context.Context, view webtemplates.View, _ *modulehandler.Scope) (templ.Component, error) {
		s, err := stats()
		if err != nil {
			return h.InlineError(loc, err), nil
		}
		return view.Content(loc, webtemplates.Chart{Bars: chartBars(s)}), nil
	}
}
