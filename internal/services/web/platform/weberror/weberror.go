// Package weberror renders shared app-shell error responses for web modules.
package weberror

import (
	"bytes"
	"context"
	"html/template"
	"io"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	apperrors "github.com/civicspace/agora/internal/services/web/platform/errors"
	"github.com/civicspace/agora/internal/services/web/platform/httpx"
	webi18n "github.com/civicspace/agora/internal/services/web/platform/i18n"
	"github.com/civicspace/agora/internal/services/web/platform/pagerender"
	"github.com/civicspace/agora/internal/services/web/routepath"
	webtemplates "github.com/civicspace/agora/internal/services/web/templates"
)

// ShouldRenderAppError reports whether status should use app error-page UX.
func ShouldRenderAppError(statusCode int) bool {
	return statusCode == http.StatusNotFound || statusCode == http.StatusForbidden || statusCode >= http.StatusInternalServerError
}

// PublicMessage resolves a user-safe localized error message.
func PublicMessage(loc webtemplates.Localizer, err error) string {
	if err == nil {
		return ""
	}
	if loc != nil {
		if key := apperrors.LocalizationKey(err); key != "" {
			if localized := strings.TrimSpace(loc.T(key)); localized != "" && localized != key {
				return localized
			}
		}
	}
	statusCode := apperrors.HTTPStatus(err)
	if statusCode < http.StatusBadRequest {
		statusCode = http.StatusInternalServerError
	}
	if text := strings.TrimSpace(http.StatusText(statusCode)); text != "" {
		return text
	}
	return http.StatusText(http.StatusInternalServerError)
}

// InlineError renders the error notice shown in place of content whose
// backend read failed.
func InlineError(loc webi18n.Localizer, err error) templ.Component {
	message := ""
	if key := apperrors.LocalizationKey(err); key != "" {
		message = loc.T(key)
	}
	return errorState(loc, webtemplates.NewErrorState(loc, apperrors.HTTPStatus(err), message))
}

// WriteAppError writes a localized app-shell error page.
func WriteAppError(w http.ResponseWriter, r *http.Request, chrome pagerender.Chrome, loc webi18n.Localizer, statusCode int) {
	if w == nil {
		return
	}
	if !ShouldRenderAppError(statusCode) {
		statusCode = http.StatusInternalServerError
	}
	state := webtemplates.NewErrorState(loc, statusCode, "")
	writeState(w, r, chrome, loc, webtemplates.ErrorPageTitle(loc, statusCode), statusCode, errorState(loc, state))
}

// WriteModuleError writes a module-safe localized error response.
func WriteModuleError(w http.ResponseWriter, r *http.Request, chrome pagerender.Chrome, loc webi18n.Localizer, err error) {
	if w == nil {
		return
	}
	statusCode := apperrors.HTTPStatus(err)
	if statusCode == http.StatusUnauthorized {
		WriteSignedOut(w, r, chrome, loc)
		return
	}
	if ShouldRenderAppError(statusCode) {
		WriteAppError(w, r, chrome, loc, statusCode)
		return
	}
	http.Error(w, PublicMessage(loc, err), statusCode)
}

// WriteSignedOut renders the sign-in prompt that replaces gated content.
func WriteSignedOut(w http.ResponseWriter, r *http.Request, chrome pagerender.Chrome, loc webi18n.Localizer) {
	if w == nil {
		return
	}
	view := webtemplates.SignedOut{SignInURL: chrome.SignInURL(r), RegisterURL: routepath.Register}
	layout, err := webtemplates.Layout()
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	writeState(w, r, chrome, loc, loc.T("web.auth.signed_out_title"), http.StatusUnauthorized, layout.Component(loc, webtemplates.EntrySignedOut, view))
}

func errorState(loc webi18n.Localizer, state webtemplates.ErrorState) templ.Component {
	layout, err := webtemplates.Layout()
	if err != nil {
		return templ.ComponentFunc(func(context.Context, io.Writer) error { return err })
	}
	return layout.Component(loc, webtemplates.EntryErrorState, state)
}

func writeState(w http.ResponseWriter, r *http.Request, chrome pagerender.Chrome, loc webi18n.Localizer, title string, statusCode int, body templ.Component) {
	var buf bytes.Buffer
	if err := body.Render(httpx.RequestContext(r), &buf); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	err := chrome.WritePage(w, r, loc, pagerender.Page{
		Title:      title,
		StatusCode: statusCode,
		Content:    template.HTML(buf.String()),
	})
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
