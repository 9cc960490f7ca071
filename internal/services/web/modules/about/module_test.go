package about

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/civicspace/agora/internal/services/web/platform/modulehandler"
	"github.com/civicspace/agora/internal/services/web/routepath"
	webtemplates "github.com/civicspace/agora/internal/services/web/templates"
)

func TestAboutPageRendersInlineOnceViewIsCached(t *testing.T) {
	t.Parallel()

	base := modulehandler.NewTestBase()
	if _, err := base.Views().Resolve(context.Background(), webtemplates.PageAbout); err != nil {
		t.Fatalf("warm view: %v", err)
	}
	h := newHandlers(base)
	rr := httptest.NewRecorder()
	h.handleIndex(rr, httptest.NewRequest(http.MethodGet, routepath.About, nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rr.Body.String()))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	root := doc.Find("#about-root")
	if root.Length() != 1 {
		t.Fatalf("expected about content, got %q", rr.Body.String())
	}
	if got := strings.TrimSpace(root.Find("h1").Text()); !strings.Contains(got, "Agora") {
		t.Fatalf("heading = %q", got)
	}
	if href, _ := root.Find(".actions a.button").Attr("href"); href != routepath.Projects {
		t.Fatalf("browse href = %q", href)
	}
	if got := strings.TrimSpace(doc.Find("title").Text()); !strings.HasPrefix(got, "About") {
		t.Fatalf("title = %q", got)
	}
}
