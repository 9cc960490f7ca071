package forum

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/civicspace/agora/internal/platform/requestctx"
	"github.com/civicspace/agora/internal/services/web/backend"
	apperrors "github.com/civicspace/agora/internal/services/web/platform/errors"
	flashnotice "github.com/civicspace/agora/internal/services/web/platform/flash"
	"github.com/civicspace/agora/internal/services/web/platform/modulehandler"
	"github.com/go-chi/chi/v5"
)

type fakeGateway struct {
	mu               sync.Mutex
	items            map[string]backend.TimelineItem
	recent           []backend.TimelineItem
	projects         []backend.Project
	timelineComments map[string][]backend.Comment
	projectComments  map[string][]backend.Comment
	created          []backend.CommentInput
	err              error
}

func (f *fakeGateway) RecentTimelineItems(context.Context, int) ([]backend.TimelineItem, error) {
	return f.recent, f.err
}

func (f *fakeGateway) ListProjects(context.Context, backend.ListProjectsRequest) (backend.ListProjectsResponse, error) {
	return backend.ListProjectsResponse{Projects: f.projects}, f.err
}

func (f *fakeGateway) GetTimelineItem(_ context.Context, itemID string) (backend.TimelineItem, error) {
	if f.err != nil {
		return backend.TimelineItem{}, f.err
	}
	item, ok := f.items[itemID]
	if !ok {
		return backend.TimelineItem{}, apperrors.EK(apperrors.KindNotFound, "error.discussion.not_found", "missing")
	}
	return item, nil
}

func (f *fakeGateway) GetProject(_ context.Context, projectID string) (backend.Project, error) {
	if f.err != nil {
		return backend.Project{}, f.err
	}
	for _, p := range f.projects {
		if p.ID == projectID {
			return p, nil
		}
	}
	return backend.Project{}, apperrors.EK(apperrors.KindNotFound, "error.project.not_found", "missing")
}

func (f *fakeGateway) ListTimelineComments(_ context.Context, _ string, itemID string) ([]backend.Comment, error) {
	return f.timelineComments[itemID], f.err
}

func (f *fakeGateway) ListProjectComments(_ context.Context, projectID string) ([]backend.Comment, error) {
	return f.projectComments[projectID], f.err
}

func (f *fakeGateway) CreateComment(_ context.Context, input backend.CommentInput) (backend.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, input)
	return backend.Comment{ID: "new"}, f.err
}

func ptr[T any](v T) *T { return &v }

var day = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func seededGateway() *fakeGateway {
	permit := backend.TimelineItem{
		ID:            "t1",
		ProjectID:     "p1",
		Title:         "Permit approved",
		MilestoneType: backend.MilestoneMilestone,
		CommentCount:  1,
		CreatedAt:     day.Add(48 * time.Hour),
	}
	return &fakeGateway{
		items:  map[string]backend.TimelineItem{"t1": permit},
		recent: []backend.TimelineItem{permit},
		projects: []backend.Project{
			{ID: "p1", Title: "Bike lanes", Description: "Protected lanes.", CommentCount: 5, CreatedAt: day},
			{ID: "p2", Title: "Library", Description: "New reading room.", CommentCount: 0, CreatedAt: day.Add(24 * time.Hour)},
		},
		timelineComments: map[string][]backend.Comment{
			"t1": {{ID: "c1", ProjectID: "p1", TimelineItemID: ptr("t1"), AuthorName: "Marko", Content: "Finally", CreatedAt: day}},
		},
		projectComments: map[string][]backend.Comment{
			"p1": {
				{ID: "c2", ProjectID: "p1", AuthorName: "Ana", Content: "Great idea", CreatedAt: day},
				{ID: "c3", ProjectID: "p1", AuthorName: "Iva", Content: "Agreed", ParentCommentID: ptr("c2"), CreatedAt: day},
			},
		},
	}
}

func testRouter(t *testing.T, gateway Gateway) http.Handler {
	t.Helper()
	base := modulehandler.NewTestBase()
	for _, key := range []string{"page.forum", "page.thread"} {
		if _, err := base.Views().Resolve(context.Background(), key); err != nil {
			t.Fatalf("warm %s: %v", key, err)
		}
	}
	router := chi.NewRouter()
	for _, route := range routes(newHandlers(newService(gateway), base)) {
		router.Method(route.Method, route.Pattern, route.Handler)
	}
	return router
}

func signedIn(req *http.Request) *http.Request {
	return req.WithContext(requestctx.WithPrincipal(req.Context(), requestctx.Principal{UserID: "u1", DisplayName: "Uma"}))
}

func flashFrom(t *testing.T, rr *httptest.ResponseRecorder) flashnotice.Notice {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range rr.Result().Cookies() {
		req.AddCookie(cookie)
	}
	notice, ok := flashnotice.ReadAndClear(httptest.NewRecorder(), req)
	if !ok {
		t.Fatal("expected flash notice")
	}
	return notice
}
