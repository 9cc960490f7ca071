// Package pagerender centralizes page rendering inside the application shell.
package pagerender

import (
	"bytes"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/a-h/templ"
	"github.com/civicspace/agora/internal/platform/requestctx"
	flashnotice "github.com/civicspace/agora/internal/services/web/platform/flash"
	"github.com/civicspace/agora/internal/services/web/platform/httpx"
	webi18n "github.com/civicspace/agora/internal/services/web/platform/i18n"
	"github.com/civicspace/agora/internal/services/web/routepath"
	webtemplates "github.com/civicspace/agora/internal/services/web/templates"
	"github.com/starfederation/datastar-go/datastar"
)

// Chrome carries the site-wide settings of the application shell.
type Chrome struct {
	SiteName    string
	AuthBaseURL string
}

// Page describes one shell response for both full-page and datastar flows.
type Page struct {
	Title      string
	StatusCode int
	Content    template.HTML
}

// WritePage renders page inside the shell. Datastar requests get the main
// region patched in place of a full document.
func (c Chrome) WritePage(w http.ResponseWriter, r *http.Request, loc webi18n.Localizer, page Page) error {
	if w == nil {
		return nil
	}
	statusCode := page.StatusCode
	if statusCode <= 0 {
		statusCode = http.StatusOK
	}
	layout, err := webtemplates.Layout()
	if err != nil {
		return err
	}
	ctx := httpx.RequestContext(r)

	var buf bytes.Buffer
	if httpx.IsDatastarRequest(r) {
		if err := layout.Component(loc, webtemplates.EntryMain, page.Content).Render(ctx, &buf); err != nil {
			return err
		}
		sse := datastar.NewSSE(w, r)
		return sse.PatchElementTempl(templ.Raw(strings.TrimSpace(buf.String())))
	}

	shell := c.Shell(w, r, loc, page.Title, page.Content)
	if err := layout.Component(loc, webtemplates.EntryShell, shell).Render(ctx, &buf); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_, _ = w.Write(buf.Bytes())
	return nil
}

// Shell builds the shell view model for the request.
func (c Chrome) Shell(w http.ResponseWriter, r *http.Request, loc webi18n.Localizer, title string, content template.HTML) webtemplates.Shell {
	path, rawQuery := "", ""
	if r != nil && r.URL != nil {
		path, rawQuery = r.URL.Path, r.URL.RawQuery
	}
	return webtemplates.Shell{
		Title:     title,
		SiteName:  c.SiteName,
		Lang:      loc.Tag().String(),
		Nav:       navLinks(loc, path),
		Languages: webi18n.LanguageOptions(loc, path, rawQuery),
		Viewer:    c.Viewer(r),
		Toast:     resolveFlashToast(w, r, loc),
		Content:   content,
	}
}

// Viewer resolves the shell's visitor state from the request principal.
func (c Chrome) Viewer(r *http.Request) webtemplates.Viewer {
	viewer := webtemplates.Viewer{
		ProfileURL:  routepath.Profile,
		SignInURL:   c.SignInURL(r),
		SignOutURL:  c.authURL("/logout"),
		RegisterURL: routepath.Register,
		CreateURL:   routepath.ProjectCreate,
	}
	if principal, ok := requestctx.PrincipalFromContext(httpx.RequestContext(r)); ok {
		viewer.SignedIn = true
		viewer.DisplayName = principal.DisplayName
	}
	return viewer
}

// SignInURL links to the auth service, returning to the current page.
func (c Chrome) SignInURL(r *http.Request) string {
	returnTo := routepath.Root
	if r != nil && r.URL != nil && r.URL.Path != "" {
		returnTo = r.URL.Path
	}
	return c.SignInURLTo(returnTo)
}

// SignInURLTo links to the auth service and back to returnTo.
func (c Chrome) SignInURLTo(returnTo string) string {
	return c.authURL("/login") + "?" + url.Values{"return_to": {returnTo}}.Encode()
}

func (c Chrome) authURL(path string) string {
	return strings.TrimRight(strings.TrimSpace(c.AuthBaseURL), "/") + path
}

func navLinks(loc webi18n.Localizer, path string) []webtemplates.NavLink {
	links := []struct {
		key string
		url string
	}{
		{key: "core.nav.projects", url: routepath.Projects},
		{key: "core.nav.forum", url: routepath.Forum},
		{key: "core.nav.about", url: routepath.About},
	}
	out := make([]webtemplates.NavLink, 0, len(links))
	for _, link := range links {
		out = append(out, webtemplates.NavLink{
			Label:  loc.T(link.key),
			URL:    link.url,
			Active: path == link.url || strings.HasPrefix(path, link.url+"/"),
		})
	}
	return out
}

func resolveFlashToast(w http.ResponseWriter, r *http.Request, loc webi18n.Localizer) *webtemplates.Toast {
	notice, ok := flashnotice.ReadAndClear(w, r)
	if !ok {
		return nil
	}
	message := strings.TrimSpace(loc.T(notice.Key))
	if message == "" {
		message = notice.Key
	}
	return &webtemplates.Toast{Kind: string(notice.Kind), Message: message}
}
