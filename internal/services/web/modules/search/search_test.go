package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/civicspace/agora/internal/services/web/backend"
	"github.com/civicspace/agora/internal/services/web/platform/modulehandler"
	"github.com/civicspace/agora/internal/services/web/routepath"
	webtemplates "github.com/civicspace/agora/internal/services/web/templates"
	"github.com/go-chi/chi/v5"
)

type fakeGateway struct {
	calls    atomic.Int32
	query    atomic.Value
	projects []backend.Project
	comments []backend.Comment
}

func (f *fakeGateway) SearchProjects(_ context.Context, query string) ([]backend.Project, error) {
	f.calls.Add(1)
	f.query.Store(query)
	return f.projects, nil
}

func (f *fakeGateway) SearchComments(context.Context, string) ([]backend.Comment, error) {
	f.calls.Add(1)
	return f.comments, nil
}

func seededGateway() *fakeGateway {
	return &fakeGateway{
		projects: []backend.Project{{ID: "p1", Title: "Bike lanes", Category: "Infrastructure", Budget: 100}},
		comments: []backend.Comment{{ID: "c1", ProjectID: "p1", AuthorName: "Ana", Content: "More bike racks"}},
	}
}

func render(t *testing.T, gateway Gateway, target string) *goquery.Document {
	t.Helper()
	base := modulehandler.NewTestBase()
	if _, err := base.Views().Resolve(context.Background(), webtemplates.PageSearch); err != nil {
		t.Fatalf("warm view: %v", err)
	}
	router := chi.NewRouter()
	for _, route := range routes(newHandlers(newService(gateway), base)) {
		router.Method(route.Method, route.Pattern, route.Handler)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rr.Body.String()))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

func TestSearchPromptsForEmptyQuery(t *testing.T) {
	t.Parallel()

	gateway := seededGateway()
	doc := render(t, gateway, "/search?q=++")
	if doc.Find("#search-root p.empty").Length() != 1 {
		t.Fatal("expected search prompt")
	}
	if gateway.calls.Load() != 0 {
		t.Fatalf("backend calls = %d", gateway.calls.Load())
	}
}

func TestSearchListsMatches(t *testing.T) {
	t.Parallel()

	gateway := seededGateway()
	doc := render(t, gateway, "/search?q=+bike+")
	if got, _ := doc.Find(`input[name="q"]`).Attr("value"); got != "bike" {
		t.Fatalf("query value = %q", got)
	}
	if gateway.query.Load() != "bike" {
		t.Fatalf("backend query = %v", gateway.query.Load())
	}
	if doc.Find(`.results-projects .project-card[data-project="p1"]`).Length() != 1 {
		t.Fatal("expected project match")
	}
	if !strings.Contains(doc.Find(".results-comments").Text(), "More bike racks") {
		t.Fatal("expected comment match")
	}
}

func TestSearchShowsUnavailableBackendInline(t *testing.T) {
	t.Parallel()

	doc := render(t, nil, "/search?q=bike")
	if got, _ := doc.Find("#app-error-state").Attr("data-status"); got != "503" {
		t.Fatalf("data-status = %q", got)
	}
}

func TestNormalizeQueryCapsLength(t *testing.T) {
	t.Parallel()

	if got := normalizeQuery(strings.Repeat("ž", queryMaxLength+10)); len([]rune(got)) != queryMaxLength {
		t.Fatalf("query runes = %d", len([]rune(got)))
	}
}

func TestMountRegistersSearchRoute(t *testing.T) {
	t.Parallel()

	m := New(modulehandler.NewTestBase(), seededGateway())
	mount, err := m.Mount()
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	if len(mount.Routes) != 1 || mount.Routes[0].Pattern != routepath.Search || mount.Routes[0].PageKey != webtemplates.PageSearch {
		t.Fatalf("routes = %+v", mount.Routes)
	}
	if m.ID() != "search" || !m.Healthy() || New(modulehandler.NewTestBase(), nil).Healthy() {
		t.Fatal("unexpected module identity or health")
	}
}
