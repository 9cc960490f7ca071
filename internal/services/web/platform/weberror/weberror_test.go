package weberror

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "github.com/civicspace/agora/internal/services/web/platform/errors"
	webi18n "github.com/civicspace/agora/internal/services/web/platform/i18n"
	"github.com/civicspace/agora/internal/services/web/platform/pagerender"
	"golang.org/x/text/language"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var testChrome = pagerender.Chrome{SiteName: "Agora", AuthBaseURL: "http://auth.example"}

func english() webi18n.Localizer {
	return webi18n.NewLocalizer(language.AmericanEnglish)
}

func TestWriteModuleErrorRendersAppErrorPageForNotFound(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/projects/missing", nil)
	rr := httptest.NewRecorder()
	WriteModuleError(rr, req, testChrome, english(), apperrors.E(apperrors.KindNotFound, "missing"))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
	body := rr.Body.String()
	if !strings.Contains(body, `id="app-error-state"`) || !strings.Contains(body, `data-status="404"`) {
		t.Fatalf("body missing app error state marker: %q", body)
	}
}

func TestWriteModuleErrorRendersForbiddenInShell(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	WriteModuleError(rr, httptest.NewRequest(http.MethodGet, "/projects/p1/edit", nil), testChrome, english(), apperrors.E(apperrors.KindForbidden, "not owner"))
	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusForbidden)
	}
	if !strings.Contains(rr.Body.String(), `data-status="403"`) {
		t.Fatal("expected forbidden error state")
	}
}

func TestWriteModuleErrorWritesPlainTextForBadRequest(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	WriteModuleError(rr, httptest.NewRequest(http.MethodPost, "/projects/p1/donate", nil), testChrome, english(), apperrors.E(apperrors.KindInvalidInput, "bad form"))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
	body := rr.Body.String()
	if !strings.Contains(body, http.StatusText(http.StatusBadRequest)) {
		t.Fatalf("body = %q, want generic bad-request message", body)
	}
	if strings.Contains(body, "bad form") {
		t.Fatalf("body leaked internal error text: %q", body)
	}
}

func TestWriteModuleErrorRendersSignedOutForUnauthorized(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	WriteModuleError(rr, httptest.NewRequest(http.MethodGet, "/profile", nil), testChrome, english(), apperrors.E(apperrors.KindUnauthorized, "no session"))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}
	body := rr.Body.String()
	if !strings.Contains(body, `id="signed-out"`) {
		t.Fatalf("body missing signed-out view: %q", body)
	}
	if !strings.Contains(body, "return_to=%2Fprofile") {
		t.Fatalf("expected sign in link back to the page: %q", body)
	}
}

func TestWriteAppErrorNormalizesStatus(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	WriteAppError(rr, httptest.NewRequest(http.MethodGet, "/", nil), testChrome, english(), http.StatusTeapot)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
}

func TestInlineErrorUsesLocalizedBackendMessage(t *testing.T) {
	t.Parallel()

	err := apperrors.FromGRPC(status.Error(codes.Unavailable, "dial tcp: refused"))
	var buf bytes.Buffer
	if renderErr := InlineError(english(), err).Render(context.Background(), &buf); renderErr != nil {
		t.Fatalf("render: %v", renderErr)
	}
	body := buf.String()
	if !strings.Contains(body, `data-status="503"`) {
		t.Fatalf("body = %q, want unavailable state", body)
	}
	if strings.Contains(body, "dial tcp") {
		t.Fatalf("body leaked backend detail: %q", body)
	}
}

func TestPublicMessageFallsBackToStatusText(t *testing.T) {
	t.Parallel()

	if got := PublicMessage(english(), errors.New("boom")); got != http.StatusText(http.StatusInternalServerError) {
		t.Fatalf("PublicMessage() = %q", got)
	}
	if got := PublicMessage(english(), nil); got != "" {
		t.Fatalf("PublicMessage(nil) = %q", got)
	}
}
