package pagerender

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/civicspace/agora/internal/platform/requestctx"
	flashnotice "github.com/civicspace/agora/internal/services/web/platform/flash"
	webi18n "github.com/civicspace/agora/internal/services/web/platform/i18n"
	"golang.org/x/text/language"
)

var testChrome = Chrome{SiteName: "Agora", AuthBaseURL: "http://auth.example/"}

func english() webi18n.Localizer {
	return webi18n.NewLocalizer(language.AmericanEnglish)
}

func TestWritePageRendersFullPageWithShell(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/projects?category=Sport", nil)
	rr := httptest.NewRecorder()

	err := testChrome.WritePage(rr, req, english(), Page{
		Title:      "Projects",
		StatusCode: http.StatusAccepted,
		Content:    `<section id="fragment-root">ok</section>`,
	})
	if err != nil {
		t.Fatalf("WritePage() error = %v", err)
	}
	if rr.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusAccepted)
	}
	if got := rr.Header().Get("Content-Type"); got != "text/html; charset=utf-8" {
		t.Fatalf("content-type = %q", got)
	}
	doc, err := goquery.NewDocumentFromReader(rr.Body)
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	if doc.Find("main#app #fragment-root").Length() != 1 {
		t.Fatal("expected content inside the main region")
	}
	if got := doc.Find("title").Text(); got != "Projects · Agora" {
		t.Fatalf("title = %q", got)
	}
	if got, _ := doc.Find("html").Attr("lang"); got != "en-US" {
		t.Fatalf("lang = %q", got)
	}
	if href, _ := doc.Find(".site-nav a.active").Attr("href"); href != "/projects" {
		t.Fatalf("active nav = %q, want /projects", href)
	}
	if doc.Find(".site-lang a").Length() != 2 {
		t.Fatal("expected both languages in the switcher")
	}
}

func TestWritePagePatchesMainForDatastarRequests(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/about", nil)
	req.Header.Set("Datastar-Request", "true")
	rr := httptest.NewRecorder()

	if err := testChrome.WritePage(rr, req, english(), Page{Content: `<p id="fragment-root">ok</p>`}); err != nil {
		t.Fatalf("WritePage() error = %v", err)
	}
	body := rr.Body.String()
	if strings.Contains(strings.ToLower(body), "<!doctype html") {
		t.Fatal("expected a patch without document wrapper")
	}
	if !strings.Contains(body, `<main id="app"><p id="fragment-root">ok</p></main>`) {
		t.Fatalf("body = %q", body)
	}
}

func TestViewerReflectsPrincipal(t *testing.T) {
	t.Parallel()

	anonymous := testChrome.Viewer(httptest.NewRequest(http.MethodGet, "/profile", nil))
	if anonymous.SignedIn {
		t.Fatal("expected anonymous viewer")
	}
	if anonymous.SignInURL != "http://auth.example/login?return_to=%2Fprofile" {
		t.Fatalf("sign in url = %q", anonymous.SignInURL)
	}
	if anonymous.SignOutURL != "http://auth.example/logout" {
		t.Fatalf("sign out url = %q", anonymous.SignOutURL)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(requestctx.WithPrincipal(req.Context(), requestctx.Principal{UserID: "u1", DisplayName: "Ana"}))
	viewer := testChrome.Viewer(req)
	if !viewer.SignedIn || viewer.DisplayName != "Ana" {
		t.Fatalf("viewer = %+v", viewer)
	}
}

func TestWritePageRendersToastFromFlashNotice(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/projects/p1", nil)
	payload, err := json.Marshal(flashnotice.NoticeSuccess("web.notice.donation_thanks"))
	if err != nil {
		t.Fatalf("marshal notice: %v", err)
	}
	req.AddCookie(&http.Cookie{Name: flashnotice.CookieName, Value: base64.RawURLEncoding.EncodeToString(payload)})
	rr := httptest.NewRecorder()

	if err := testChrome.WritePage(rr, req, english(), Page{Title: "Project"}); err != nil {
		t.Fatalf("WritePage() error = %v", err)
	}
	doc, err := goquery.NewDocumentFromReader(rr.Body)
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	toast := doc.Find("#toast")
	if toast.Length() != 1 || !toast.HasClass("toast-success") {
		t.Fatalf("expected success toast, got %d", toast.Length())
	}
	cleared := false
	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == flashnotice.CookieName && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("expected flash cookie to be cleared")
	}
}
