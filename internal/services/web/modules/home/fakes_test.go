package home

import (
	"context"
	"sync"
	"time"

	"github.com/civicspace/agora/internal/services/web/backend"
)

type fakeGateway struct {
	mu        sync.Mutex
	calls     map[string]int
	stats     backend.ProjectStatistics
	featured  []backend.Project
	activity  []backend.TimelineItem
	donations []backend.Donation
	comments  []backend.Comment
	err       error
}

func (f *fakeGateway) record(method string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[method]++
}

func (f *fakeGateway) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeGateway) FeaturedProjects(_ context.Context, limit int) ([]backend.Project, error) {
	f.record("FeaturedProjects")
	if limit < len(f.featured) {
		return f.featured[:limit], f.err
	}
	return f.featured, f.err
}

func (f *fakeGateway) GetStatistics(context.Context) (backend.ProjectStatistics, error) {
	f.record("GetStatistics")
	return f.stats, f.err
}

func (f *fakeGateway) RecentTimelineItems(context.Context, int) ([]backend.TimelineItem, error) {
	f.record("RecentTimelineItems")
	return f.activity, f.err
}

func (f *fakeGateway) RecentDonations(context.Context, int) ([]backend.Donation, error) {
	f.record("RecentDonations")
	return f.donations, f.err
}

func (f *fakeGateway) RecentComments(context.Context, int) ([]backend.Comment, error) {
	f.record("RecentComments")
	return f.comments, f.err
}

func seededGateway() *fakeGateway {
	current := 50.0
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &fakeGateway{
		stats: backend.ProjectStatistics{
			TotalProjects: 12,
			TotalFunding:  1250,
			TotalVotes:    4200,
			ByCategory:    map[string]int{"Infrastructure": 4, "Education": 2},
		},
		featured: []backend.Project{{
			ID:             "p1",
			Title:          "Bike lanes on Main Street",
			Description:    "Protected lanes from the station to the river.",
			Category:       "Infrastructure",
			Status:         backend.StatusPlanning,
			Budget:         200,
			CurrentFunding: &current,
			CreatedAt:      created,
		}},
		activity: []backend.TimelineItem{{
			ID:            "t1",
			ProjectID:     "p1",
			ProjectTitle:  "Bike lanes on Main Street",
			Title:         "Permit approved",
			MilestoneType: backend.MilestoneMilestone,
			CreatedAt:     created,
		}},
		donations: []backend.Donation{{ID: "d1", ProjectID: "p1", DonorName: "Ana", Amount: 20, CreatedAt: created}},
		comments:  []backend.Comment{{ID: "c1", ProjectID: "p1", AuthorName: "Marko", Content: "Great idea", CreatedAt: created}},
	}
}
