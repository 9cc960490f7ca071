package register

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/civicspace/agora/internal/services/web/backend"
	"github.com/civicspace/agora/internal/services/web/platform/modulehandler"
	"github.com/go-chi/chi/v5"
)

type fakeGateway struct {
	mu         sync.Mutex
	takenNames map[string]bool
	takenEmail map[string]bool
	rejectPass bool
	registered []backend.RegisterInput
	err        error
}

func (f *fakeGateway) CheckUsername(_ context.Context, username string) (bool, error) {
	return !f.takenNames[username], f.err
}

func (f *fakeGateway) CheckEmail(_ context.Context, email string) (bool, error) {
	return !f.takenEmail[email], f.err
}

func (f *fakeGateway) ValidatePassword(context.Context, string) (backend.PasswordCheck, error) {
	return backend.PasswordCheck{Valid: !f.rejectPass}, f.err
}

func (f *fakeGateway) Register(_ context.Context, input backend.RegisterInput) (backend.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registered = append(f.registered, input)
	return backend.Profile{UserID: "u-new", Username: input.Username, DisplayName: input.DisplayName}, f.err
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		takenNames: map[string]bool{"marko": true},
		takenEmail: map[string]bool{"taken@example.org": true},
	}
}

func validForm() registerForm {
	return registerForm{
		Username:        "ana_01",
		Email:           "ana@example.org",
		Password:        "Secret123",
		ConfirmPassword: "Secret123",
		Terms:           true,
	}
}

func testRouter(t *testing.T, gateway Gateway) http.Handler {
	t.Helper()
	base := modulehandler.NewTestBase()
	if _, err := base.Views().Resolve(context.Background(), "page.register"); err != nil {
		t.Fatalf("warm view: %v", err)
	}
	router := chi.NewRouter()
	for _, route := range routes(newHandlers(newService(gateway), base)) {
		router.Method(route.Method, route.Pattern, route.Handler)
	}
	return router
}
