package home

import (
	"context"
	"sort"

	"github.com/civicspace/agora/internal/services/web/backend"
	"github.com/civicspace/agora/internal/services/web/platform/funding"
	webtemplates "github.com/civicspace/agora/internal/services/web/templates"
	"golang.org/x/sync/errgroup"
)

const (
	featuredLimit = 6
	feedLimit     = 5
)

// Gateway loads the landing page data.
type Gateway interface {
	FeaturedProjects(ctx context.Context, limit int) ([]backend.Project, error)
	GetStatistics(ctx context.Context) (backend.ProjectStatistics, error)
	RecentTimelineItems(ctx context.Context, limit int) ([]backend.TimelineItem, error)
	RecentDonations(ctx context.Context, limit int) ([]backend.Donation, error)
	RecentComments(ctx context.Context, limit int) ([]backend.Comment, error)
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

// snapshot is everything the landing page shows apart from the chart.
type snapshot struct {
	Stats     backend.ProjectStatistics
	Featured  []backend.Project
	Activity  []backend.TimelineItem
	Donations []backend.Donation
	Comments  []backend.Comment
}

func (s service) statistics(ctx context.Context) (backend.ProjectStatistics, error) {
	return s.gateway.GetStatistics(ctx)
}

// load fetches the landing page data concurrently. stats is shared with the
// chart section so one request reads statistics once.
func (s service) load(ctx context.Context, stats func() (backend.ProjectStatistics, error)) (snapshot, error) {
	var snap snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap.Stats, err = stats()
		return err
	})
	g.Go(func() error {
		var err error
		snap.Featured, err = s.gateway.FeaturedProjects(gctx, featuredLimit)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Activity, err = s.gateway.RecentTimelineItems(gctx, feedLimit)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Donations, err = s.gateway.RecentDonations(gctx, feedLimit)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Comments, err = s.gateway.RecentComments(gctx, feedLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return snapshot{}, err
	}
	return snap, nil
}

// chartBars lists projects per category, known categories first in their
// display order. Widths are relative to the largest category.
func chartBars(stats backend.ProjectStatistics) []webtemplates.ChartBar {
	categories := append([]string(nil), backend.Categories...)
	known := make(map[string]struct{}, len(categories))
	for _, category := range categories {
		known[category] = struct{}{}
	}
	var extra []string
	for category := range stats.ByCategory {
		if _, ok := known[category]; !ok {
			extra = append(extra, category)
		}
	}
	sort.Strings(extra)
	categories = append(categories, extra...)

	max := 0
	for _, category := range categories {
		if v := stats.ByCategory[category]; v > max {
			max = v
		}
	}
	if max == 0 {
		return nil
	}
	bars := make([]webtemplates.ChartBar, 0, len(categories))
	for _, category := range categories {
		value := stats.ByCategory[category]
		if value <= 0 {
			continue
		}
		bars = append(bars, webtemplates.ChartBar{
			Label: category,
			Key:   webtemplates.CategoryKey(category),
			Value: value,
			Width: funding.Width(float64(value), float64(max)),
		})
	}
	return bars
}
