package projects

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
	mu        sync.Mutex
	calls     map[string]int
	projects  map[string]backend.Project
	listing   backend.ListProjectsResponse
	listReq   backend.ListProjectsRequest
	comments  []backend.Comment
	timeline  []backend.TimelineItem
	donations []backend.Donation
	stats     backend.DonationStats
	voted     bool
	created   []backend.CommentInput
	donated   []backend.DonationInput
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

func (f *fakeGateway) ListProjects(_ context.Context, req backend.ListProjectsRequest) (backend.ListProjectsResponse, error) {
	f.record("ListProjects")
	f.mu.Lock()
	f.listReq = req
	f.mu.Unlock()
	return f.listing, f.err
}

func (f *fakeGateway) GetProject(_ context.Context, projectID string) (backend.Project, error) {
	f.record("GetProject")
	if f.err != nil {
		return backend.Project{}, f.err
	}
	p, ok := f.projects[projectID]
	if !ok {
		return backend.Project{}, apperrors.EK(apperrors.KindNotFound, "error.project.not_found", "missing")
	}
	return p, nil
}

func (f *fakeGateway) ListProjectComments(context.Context, string) ([]backend.Comment, error) {
	f.record("ListProjectComments")
	return f.comments, f.err
}

func (f *fakeGateway) CreateComment(_ context.Context, input backend.CommentInput) (backend.Comment, error) {
	f.record("CreateComment")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, input)
	return backend.Comment{ID: "new"}, f.err
}

func (f *fakeGateway) HasVoted(context.Context, string) (bool, error) {
	f.record("HasVoted")
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.voted, f.err
}

func (f *fakeGateway) Vote(context.Context, string) error {
	f.record("Vote")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.voted = true
	return f.err
}

func (f *fakeGateway) RemoveVote(context.Context, string) error {
	f.record("RemoveVote")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.voted = false
	return f.err
}

func (f *fakeGateway) CreateDonation(_ context.Context, input backend.DonationInput) (backend.Donation, error) {
	f.record("CreateDonation")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.donated = append(f.donated, input)
	return backend.Donation{ID: "d-new"}, f.err
}

func (f *fakeGateway) ProjectDonationStats(context.Context, string) (backend.DonationStats, error) {
	f.record("ProjectDonationStats")
	return f.stats, f.err
}

func (f *fakeGateway) ListProjectDonations(context.Context, string) ([]backend.Donation, error) {
	f.record("ListProjectDonations")
	return f.donations, f.err
}

func (f *fakeGateway) ListProjectTimeline(context.Context, string) ([]backend.TimelineItem, error) {
	f.record("ListProjectTimeline")
	return f.timeline, f.err
}

func ptr[T any](v T) *T { return &v }

var created = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func bikeLanes() backend.Project {
	return backend.Project{
		ID:             "p1",
		OwnerID:        "owner",
		OwnerName:      "Ana",
		Title:          "Bike lanes on Main Street",
		Description:    "Protected lanes from the station to the river.",
		Category:       "Infrastructure",
		Status:         backend.StatusInProgress,
		Budget:         200,
		CurrentFunding: ptr(50.0),
		VoteCount:      7,
		Tags:           []string{"cycling"},
		CreatedAt:      created,
	}
}

func seededGateway() *fakeGateway {
	return &fakeGateway{
		projects: map[string]backend.Project{"p1": bikeLanes()},
		listing:  backend.ListProjectsResponse{Projects: []backend.Project{bikeLanes()}},
		comments: []backend.Comment{
			{ID: "c1", ProjectID: "p1", AuthorName: "Marko", Content: "Love it", CreatedAt: created},
			{ID: "c2", ProjectID: "p1", AuthorName: "Ana", Content: "Thanks", ParentCommentID: ptr("c1"), CreatedAt: created},
			{ID: "c3", ProjectID: "p1", AuthorName: "Iva", Content: "Lost reply", ParentCommentID: ptr("gone"), CreatedAt: created},
		},
		timeline: []backend.TimelineItem{{
			ID:            "t1",
			ProjectID:     "p1",
			Title:         "Permit approved",
			MilestoneType: backend.MilestoneMilestone,
			IsCompleted:   true,
			CompletedDate: ptr(created),
			CreatedAt:     created,
		}},
		donations: []backend.Donation{{ID: "d1", ProjectID: "p1", Amount: 50, IsAnonymous: true, DonorName: "Hidden", CreatedAt: created}},
		stats:     backend.DonationStats{TotalAmount: 50, DonationCount: 1, DonorCount: 1},
	}
}

// testRouter mounts the module routes over a base with the page views
// already cached.
func testRouter(t *testing.T, gateway Gateway) http.Handler {
	t.Helper()
	base := modulehandler.NewTestBase()
	for _, key := range []string{"page.projects", "page.project", "widget.scene"} {
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

func signedIn(req *http.Request, userID string) *http.Request {
	return req.WithContext(requestctx.WithPrincipal(req.Context(), requestctx.Principal{UserID: userID, DisplayName: userID}))
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
