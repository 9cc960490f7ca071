package profile

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/civicspace/agora/internal/platform/requestctx"
	"github.com/civicspace/agora/internal/services/web/backend"
	apperrors "github.com/civicspace/agora/internal/services/web/platform/errors"
	flashnotice "github.com/civicspace/agora/internal/services/web/platform/flash"
	"github.com/civicspace/agora/internal/services/web/platform/modulehandler"
	"github.com/civicspace/agora/internal/services/web/routepath"
	webtemplates "github.com/civicspace/agora/internal/services/web/templates"
	"github.com/go-chi/chi/v5"
)

type fakeGateway struct {
	mu       sync.Mutex
	badges   []backend.UserBadge
	featured []string
	userIDs  []string
}

func (f *fakeGateway) seen(userID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.userIDs = append(f.userIDs, userID)
}

func (f *fakeGateway) GetProfile(_ context.Context, userID string) (backend.Profile, error) {
	f.seen(userID)
	return backend.Profile{UserID: userID, Username: "ana", DisplayName: "Ana", Location: "Novi Sad", CreatedAt: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)}, nil
}

func (f *fakeGateway) ListUserBadges(context.Context, string) ([]backend.UserBadge, error) {
	return f.badges, nil
}

func (f *fakeGateway) SetFeaturedBadge(_ context.Context, _ string, badgeID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.featured = append(f.featured, badgeID)
	return nil
}

func (f *fakeGateway) ListUserProjects(context.Context, string) ([]backend.Project, error) {
	return []backend.Project{{ID: "p1", Title: "Bike lanes", Budget: 100}}, nil
}

func (f *fakeGateway) ListUserVotes(context.Context, string) ([]backend.Vote, error) {
	return []backend.Vote{{ID: "v1", ProjectID: "p2", ProjectTitle: "Library"}}, nil
}

func (f *fakeGateway) ListUserDonations(context.Context, string) ([]backend.Donation, error) {
	return nil, nil
}

func (f *fakeGateway) UserDonationTotal(context.Context, string) (float64, error) {
	return 1250, nil
}

func (f *fakeGateway) ListUserComments(context.Context, string) ([]backend.Comment, error) {
	return nil, nil
}

func seededGateway() *fakeGateway {
	return &fakeGateway{badges: []backend.UserBadge{
		{ID: "ub1", Badge: backend.Badge{ID: "first-vote", Name: "First vote", Icon: "🗳"}, IsFeatured: true},
		{ID: "ub2", Badge: backend.Badge{ID: "donor", Name: "Donor", Icon: "💶"}},
	}}
}

func testRouter(t *testing.T, gateway Gateway) http.Handler {
	t.Helper()
	base := modulehandler.NewTestBase()
	if _, err := base.Views().Resolve(context.Background(), webtemplates.PageProfile); err != nil {
		t.Fatalf("warm view: %v", err)
	}
	router := chi.NewRouter()
	for _, route := range routes(newHandlers(newService(gateway), base)) {
		router.Method(route.Method, route.Pattern, route.Handler)
	}
	return router
}

func signedIn(req *http.Request) *http.Request {
	return req.WithContext(requestctx.WithPrincipal(req.Context(), requestctx.Principal{UserID: "u1", DisplayName: "Ana"}))
}

func TestIndexRendersProfileAndBadges(t *testing.T) {
	t.Parallel()

	gateway := seededGateway()
	rr := httptest.NewRecorder()
	testRouter(t, gateway).ServeHTTP(rr, signedIn(httptest.NewRequest(http.MethodGet, "/profile", nil)))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rr.Body.String()))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	root := doc.Find("#profile-root")
	if got := strings.TrimSpace(root.Find("h1").Text()); got != "Ana" {
		t.Fatalf("display name = %q", got)
	}
	if got := strings.TrimSpace(root.Find(".featured-badge strong").Text()); got != "First vote" {
		t.Fatalf("featured badge = %q", got)
	}
	action, _ := root.Find(".badge-slot form").Attr("action")
	if action != "/profile/badges/donor/feature" {
		t.Fatalf("feature action = %q", action)
	}
	if root.Find(`.my-projects .project-card[data-project="p1"]`).Length() != 1 {
		t.Fatal("expected own project")
	}
	if href, _ := root.Find(".my-votes a").Attr("href"); href != "/projects/p2" {
		t.Fatalf("vote href = %q", href)
	}
	if gateway.userIDs[0] != "u1" {
		t.Fatalf("profile requested for %v", gateway.userIDs)
	}
}

func TestFeatureSetsEarnedBadge(t *testing.T) {
	t.Parallel()

	gateway := seededGateway()
	rr := httptest.NewRecorder()
	testRouter(t, gateway).ServeHTTP(rr, signedIn(httptest.NewRequest(http.MethodPost, "/profile/badges/donor/feature", nil)))
	if rr.Code != http.StatusFound || rr.Header().Get("Location") != routepath.Profile {
		t.Fatalf("status = %d location = %q", rr.Code, rr.Header().Get("Location"))
	}
	if len(gateway.featured) != 1 || gateway.featured[0] != "donor" {
		t.Fatalf("featured = %v", gateway.featured)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range rr.Result().Cookies() {
		req.AddCookie(cookie)
	}
	if notice, ok := flashnotice.ReadAndClear(httptest.NewRecorder(), req); !ok || notice.Key != "web.notice.badge_featured" {
		t.Fatalf("notice = %+v, %v", notice, ok)
	}
}

func TestFeatureRejectsUnearnedBadge(t *testing.T) {
	t.Parallel()

	gateway := seededGateway()
	err := newService(gateway).feature(context.Background(), "u1", "mayor")
	if !apperrors.Is(err, apperrors.KindNotFound) {
		t.Fatalf("feature() error = %v, want not found", err)
	}
	if len(gateway.featured) != 0 {
		t.Fatalf("featured = %v", gateway.featured)
	}
}

func TestLoadRequiresUser(t *testing.T) {
	t.Parallel()

	if _, err := newService(seededGateway()).load(context.Background(), ""); !apperrors.Is(err, apperrors.KindUnauthorized) {
		t.Fatalf("load() error = %v, want unauthorized", err)
	}
}

func TestMountRegistersProfileRoutes(t *testing.T) {
	t.Parallel()

	m := New(modulehandler.NewTestBase(), seededGateway())
	mount, err := m.Mount()
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	if len(mount.Routes) != 2 {
		t.Fatalf("routes = %d, want 2", len(mount.Routes))
	}
	if mount.Routes[0].Pattern != routepath.Profile || mount.Routes[0].PageKey != webtemplates.PageProfile {
		t.Fatalf("route = %+v", mount.Routes[0])
	}
	if mount.Routes[1].Method != http.MethodPost || mount.Routes[1].Pattern != routepath.ProfileFeaturePattern {
		t.Fatalf("route = %+v", mount.Routes[1])
	}
	if m.ID() != "profile" || !m.Healthy() || New(modulehandler.NewTestBase(), NewGRPCGateway(nil)).Healthy() {
		t.Fatal("unexpected module identity or health")
	}
}
