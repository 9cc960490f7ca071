package register

import (
	"context"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/civicspace/agora/internal/platform/logging"
	apperrors "github.com/civicspace/agora/internal/services/web/platform/errors"
	"github.com/civicspace/agora/internal/services/web/platform/httpx"
	"github.com/civicspace/agora/internal/services/web/platform/modulehandler"
	"github.com/civicspace/agora/internal/services/web/platform/suspense"
	"github.com/civicspace/agora/internal/services/web/routepath"
	webtemplates "github.com/civicspace/agora/internal/services/web/templates"
	"github.com/starfederation/datastar-go/datastar"
	"go.uber.org/zap"
)

const usernameCheckEntry = "username_check"

type handlers struct {
	modulehandler.Base
	service service
}

func newHandlers(s service, base modulehandler.Base) handlers {
	return handlers{Base: base, service: s}
}

func (h handlers) handleForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.Principal(r); ok {
		httpx.WriteRedirect(w, r, routepath.Profile)
		return
	}
	loc := h.Localizer(w, r)
	h.ServePage(w, r, loc, modulehandler.Page{
		Title: loc.T("web.register.title"),
		Sections: []modulehandler.Section{{
			ID:   modulehandler.MainSection,
			Kind: suspense.KindPage,
			Key:  webtemplates.PageRegister,
			Render: func(_ context.Context, view webtemplates.View, _ *modulehandler.Scope) (templ.Component, error) {
				return view.Content(loc, formPage(registerForm{}, nil)), nil
			},
		}},
	})
}

func (h handlers) handleSubmit(w http.ResponseWriter, r *http.Request) {
	loc := h.Localizer(w, r)
	form := registerForm{
		Username:        r.PostFormValue("username"),
		Email:           r.PostFormValue("email"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
		DisplayName:     r.PostFormValue("display_name"),
		Bio:             r.PostFormValue("bio"),
		Location:        r.PostFormValue("location"),
		Terms:           r.PostFormValue("terms") == "true",
	}
	profile, errs, err := h.service.register(r.Context(), form)
	if apperrors.Is(err, apperrors.KindConflict) {
		errs, err = fieldErrors{"form": apperrors.LocalizationKey(err)}, nil
	}
	if err != nil {
		h.RedirectWithError(w, r, routepath.Register, err)
		return
	}
	if errs != nil {
		h.WriteView(w, r, loc, http.StatusUnprocessableEntity, loc.T("web.register.title"), webtemplates.PageRegister, formPage(form, errs))
		return
	}
	logging.FromContext(r.Context()).Info("account registered", zap.String("user_id", profile.UserID))
	h.WriteView(w, r, loc, http.StatusOK, loc.T("web.register.welcome_title", profile.DisplayName), webtemplates.PageRegister, webtemplates.RegisterPage{
		Welcome: &webtemplates.RegisterWelcome{
			DisplayName: profile.DisplayName,
			SignInURL:   h.Chrome().SignInURLTo(routepath.Profile),
		},
	})
}

func formPage(form registerForm, errs fieldErrors) webtemplates.RegisterPage {
	page := webtemplates.RegisterPage{
		Action:      routepath.Register,
		Username:    strings.TrimSpace(form.Username),
		Email:       strings.TrimSpace(form.Email),
		DisplayName: strings.TrimSpace(form.DisplayName),
		Bio:         strings.TrimSpace(form.Bio),
		Location:    strings.TrimSpace(form.Location),
		Terms:       form.Terms,
		Errors:      errs,
	}
	if form.Password != "" {
		s := strength(form.Password)
		page.Strength = &s
	}
	return page
}

type checkSignals struct {
	Username string `json:"username"`
}

// handleCheck answers the live username check. Datastar requests carry the
// username as a signal and get a patch; plain requests use ?username= and
// get the fragment.
func (h handlers) handleCheck(w http.ResponseWriter, r *http.Request) {
	loc := h.Localizer(w, r)
	username := r.URL.Query().Get("username")
	if httpx.IsDatastarRequest(r) {
		var signals checkSignals
		if err := datastar.ReadSignals(r, &signals); err != nil {
			h.WriteError(w, r, apperrors.E(apperrors.KindInvalidInput, "read username signal"))
			return
		}
		username = signals.Username
	}
	check, err := h.service.checkUsername(r.Context(), username)
	if err != nil {
		logging.FromContext(r.Context()).Warn("username check failed", zap.Error(err))
		check = webtemplates.UsernameCheck{Key: apperrors.LocalizationKey(err)}
	}
	view, err := h.Views().Resolve(r.Context(), webtemplates.PageRegister)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	component := view.Component(loc, usernameCheckEntry, check)
	if httpx.IsDatastarRequest(r) {
		if err := suspense.Stream(w, r, component); err != nil {
			h.WriteError(w, r, err)
		}
		return
	}
	content, err := modulehandler.RenderHTML(r.Context(), component)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	_ = httpx.WriteHTML(w, http.StatusOK, string(content))
}
