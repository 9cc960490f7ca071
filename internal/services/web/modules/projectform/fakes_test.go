package projectform

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/civicspace/agora/internal/platform/requestctx"
	"github.com/civicspace/agora/internal/services/web/backend"
	apperrors "github.com/civicspace/agora/internal/services/web/platform/errors"
	flashnotice "github.com/civicspace/agora/internal/services/web/platform/flash"
	"github.com/civicspace/agora/internal/services/web/platform/modulehandler"
	"github.com/go-chi/chi/v5"
)

type fakeGateway struct {
	mu       sync.Mutex
	projects map[string]backend.Project
	created  []backend.ProjectInput
	updated  map[string]backend.ProjectInput
	deleted  []string
	err      error
}

func (f *fakeGateway) GetProject(_ context.Context, projectID string) (backend.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.projects[projectID]
	if !ok {
		return backend.Project{}, apperrors.EK(apperrors.KindNotFound, "error.project.not_found", "missing")
	}
	return p, nil
}

func (f *fakeGateway) CreateProject(_ context.Context, input backend.ProjectInput) (backend.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return backend.Project{}, f.err
	}
	f.created = append(f.created, input)
	return backend.Project{ID: "p-new", Title: input.Title}, nil
}

func (f *fakeGateway) UpdateProject(_ context.Context, projectID string, input backend.ProjectInput) (backend.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return backend.Project{}, f.err
	}
	if f.updated == nil {
		f.updated = map[string]backend.ProjectInput{}
	}
	f.updated[projectID] = input
	return backend.Project{ID: projectID}, nil
}

func (f *fakeGateway) DeleteProject(_ context.Context, projectID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, projectID)
	return nil
}

func seededGateway() *fakeGateway {
	return &fakeGateway{projects: map[string]backend.Project{
		"p1": {
			ID:          "p1",
			OwnerID:     "owner",
			Title:       "Bike lanes",
			Description: "Protected lanes.",
			Category:    "Infrastructure",
			Status:      backend.StatusPlanning,
			Budget:      200,
			Tags:        []string{"cycling", "safety"},
		},
	}}
}

func testRouter(t *testing.T, gateway Gateway) http.Handler {
	t.Helper()
	base := modulehandler.NewTestBase()
	for _, key := range []string{"page.project_create", "page.project_edit"} {
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
