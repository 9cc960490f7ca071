// Package modulehandler provides a composable base for web module handlers.
//
// Every page module shares the same request scaffold: localization, the
// signed-in principal, suspense sections over the view loader, stale
// navigation checks and error rendering. Modules embed Base rather than
// duplicating it.
package modulehandler

import (
	"bytes"
	"context"
	"html/template"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/civicspace/agora/internal/platform/logging"
	"github.com/civicspace/agora/internal/platform/requestctx"
	flashnotice "github.com/civicspace/agora/internal/services/web/platform/flash"
	"github.com/civicspace/agora/internal/services/web/platform/httpx"
	webi18n "github.com/civicspace/agora/internal/services/web/platform/i18n"
	"github.com/civicspace/agora/internal/services/web/platform/loader"
	"github.com/civicspace/agora/internal/services/web/platform/navigation"
	"github.com/civicspace/agora/internal/services/web/platform/pagerender"
	"github.com/civicspace/agora/internal/services/web/platform/recovery"
	"github.com/civicspace/agora/internal/services/web/platform/requestmeta"
	"github.com/civicspace/agora/internal/services/web/platform/suspense"
	"github.com/civicspace/agora/internal/services/web/platform/weberror"
	"github.com/civicspace/agora/internal/services/web/routepath"
	webtemplates "github.com/civicspace/agora/internal/services/web/templates"
	"go.uber.org/zap"
)

// MainSection is the id of the boundary holding a page's content.
const MainSection = "page-content"

// Section aliases the suspense section over page views.
type Section = suspense.Section[webtemplates.View]

// Scope aliases the suspense scope over page views.
type Scope = suspense.Scope[webtemplates.View]

// Dependencies carries the shared runtime used by every module handler.
type Dependencies struct {
	Views   *loader.Cache[webtemplates.View]
	Tracker *navigation.Tracker
	Chrome  pagerender.Chrome
	Policy  requestmeta.SchemePolicy
}

// Base carries the shared request-scoped helpers used by module handlers.
type Base struct {
	deps Dependencies
}

// NewBase builds a handler base from explicit dependencies.
func NewBase(deps Dependencies) Base {
	return Base{deps: deps}
}

// NewTestBase builds a handler base over fresh in-memory state suitable for
// module tests.
func NewTestBase() Base {
	return NewBase(Dependencies{
		Views: loader.NewCache(func() *loader.Loader[webtemplates.View] {
			return loader.New(webtemplates.Registry())
		}),
		Tracker: navigation.NewCookieTracker([]byte("test-navigation-secret-000000000"), false),
		Chrome:  pagerender.Chrome{SiteName: "Agora", AuthBaseURL: "http://auth.test"},
	})
}

// Views returns the active view loader.
func (b Base) Views() *loader.Loader[webtemplates.View] {
	if b.deps.Views == nil {
		return loader.New(webtemplates.Registry())
	}
	return b.deps.Views.Current()
}

// Chrome returns the shell settings.
func (b Base) Chrome() pagerender.Chrome {
	return b.deps.Chrome
}

// Localizer resolves the request language.
func (b Base) Localizer(w http.ResponseWriter, r *http.Request) webi18n.Localizer {
	return webi18n.ResolveLocalizer(w, r)
}

// Principal returns the signed-in visitor, if any.
func (b Base) Principal(r *http.Request) (requestctx.Principal, bool) {
	return requestctx.PrincipalFromContext(httpx.RequestContext(r))
}

// RequestUserID returns the signed-in user id or "".
func (b Base) RequestUserID(r *http.Request) string {
	principal, _ := b.Principal(r)
	return strings.TrimSpace(principal.UserID)
}

// SignInURL links to the auth service and back to the current page.
func (b Base) SignInURL(r *http.Request) string {
	return b.deps.Chrome.SignInURL(r)
}

// AbsoluteURL resolves path against the request's own origin.
func (b Base) AbsoluteURL(r *http.Request, path string) string {
	return b.deps.Policy.Scheme(r) + "://" + r.Host + path
}

// Page describes one page response. Main names the section rendered into
// the shell; other sections may be nested inside it.
type Page struct {
	Title      string
	StatusCode int
	Main       string
	Sections   []Section
}

// ServePage renders page for a full navigation, or streams one of its
// sections when the request is a resolve stream.
func (b Base) ServePage(w http.ResponseWriter, r *http.Request, loc webi18n.Localizer, page Page) {
	if page.Main == "" {
		page.Main = MainSection
	}
	query := r.URL.Query()
	if sectionID := strings.TrimSpace(query.Get(routepath.ResolveKey)); sectionID != "" {
		b.serveResolve(w, r, loc, page, sectionID, query.Get(routepath.NavigationKey))
		return
	}

	generation, first := "", false
	if b.deps.Tracker != nil {
		var err error
		generation, first, err = b.deps.Tracker.Begin(w, r)
		if err != nil {
			logging.FromContext(r.Context()).Warn("navigation session not saved", zap.Error(err))
		}
	}
	sections := page.Sections
	if first {
		sections = withKind(sections, page.Main, suspense.KindApp)
	}
	scope := b.scope(r, loc, sections, generation)
	content, err := scope.HTML(r.Context(), page.Main)
	if err != nil {
		recovery.Fault(w, r, err)
		return
	}
	if err := b.deps.Chrome.WritePage(w, r, loc, pagerender.Page{
		Title:      page.Title,
		StatusCode: page.StatusCode,
		Content:    content,
	}); err != nil {
		recovery.Fault(w, r, err)
	}
}

func (b Base) serveResolve(w http.ResponseWriter, r *http.Request, loc webi18n.Localizer, page Page, sectionID string, generation string) {
	logger := logging.FromContext(r.Context())
	scope := b.scope(r, loc, page.Sections, generation)
	if !scope.Has(sectionID) {
		http.NotFound(w, r)
		return
	}
	boundary, component, err := scope.Resolve(r.Context(), sectionID)

	if b.deps.Tracker != nil && !b.deps.Tracker.IsLive(r, generation) {
		logger.Debug("stale resolve dropped", zap.String("section", sectionID), zap.String("generation", generation))
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if ctxErr := r.Context().Err(); ctxErr != nil {
		logger.Debug("resolve abandoned", zap.String("section", sectionID), zap.Error(ctxErr))
		return
	}
	if err != nil {
		logger.Warn("section failed", zap.String("section", sectionID), zap.String("state", boundary.State().String()))
		recovery.Fault(w, r, err)
		return
	}
	if err := suspense.Stream(w, r, component); err != nil {
		recovery.Fault(w, r, err)
	}
}

func (b Base) scope(r *http.Request, loc webi18n.Localizer, sections []Section, generation string) *Scope {
	rawQuery := r.URL.RawQuery
	path := r.URL.Path
	return suspense.NewScope(b.Views(), sections,
		func(sectionID string) string {
			return routepath.Resolve(path, rawQuery, sectionID, generation)
		},
		func(kind suspense.Kind) string {
			return loc.T(kind.FallbackKey())
		},
	)
}

func withKind(sections []Section, sectionID string, kind suspense.Kind) []Section {
	out := make([]Section, len(sections))
	copy(out, sections)
	for i := range out {
		if out[i].ID == sectionID {
			out[i].Kind = kind
		}
	}
	return out
}

// WriteView renders a view's content straight into the shell, resolving
// the view first. Form re-renders use it so validation output never waits
// on a resolve stream.
func (b Base) WriteView(w http.ResponseWriter, r *http.Request, loc webi18n.Localizer, statusCode int, title string, key string, data any) {
	view, err := b.Views().Resolve(r.Context(), key)
	if err != nil {
		recovery.Fault(w, r, err)
		return
	}
	content, err := RenderHTML(r.Context(), view.Content(loc, data))
	if err != nil {
		recovery.Fault(w, r, err)
		return
	}
	if err := b.deps.Chrome.WritePage(w, r, loc, pagerender.Page{Title: title, StatusCode: statusCode, Content: content}); err != nil {
		recovery.Fault(w, r, err)
	}
}

// RenderHTML renders a component to markup for embedding in a view.
func RenderHTML(ctx context.Context, component templ.Component) (template.HTML, error) {
	var buf bytes.Buffer
	if err := component.Render(ctx, &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// InlineError renders the notice shown in place of content whose backend
// read failed.
func (b Base) InlineError(loc webi18n.Localizer, err error) templ.Component {
	return weberror.InlineError(loc, err)
}

// WriteError renders a localized module error response.
func (b Base) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	weberror.WriteModuleError(w, r, b.deps.Chrome, b.Localizer(w, r), err)
}

// WriteNotFound renders a 404 error page within the app shell.
func (b Base) WriteNotFound(w http.ResponseWriter, r *http.Request) {
	weberror.WriteAppError(w, r, b.deps.Chrome, b.Localizer(w, r), http.StatusNotFound)
}

// WriteSignedOut renders the sign-in prompt for gated content.
func (b Base) WriteSignedOut(w http.ResponseWriter, r *http.Request) {
	weberror.WriteSignedOut(w, r, b.deps.Chrome, b.Localizer(w, r))
}

// RedirectWithNotice stores a one-shot notice and redirects.
func (b Base) RedirectWithNotice(w http.ResponseWriter, r *http.Request, location string, notice flashnotice.Notice) {
	flashnotice.Writer{Policy: b.deps.Policy}.Write(w, r, notice)
	httpx.WriteRedirect(w, r, location)
}

// RedirectWithError flashes the error's localized notice and redirects.
func (b Base) RedirectWithError(w http.ResponseWriter, r *http.Request, location string, err error) {
	logging.FromContext(httpx.RequestContext(r)).Warn("action failed", zap.String("path", r.URL.Path), zap.Error(err))
	b.RedirectWithNotice(w, r, location, flashnotice.NoticeFromError(err))
}
