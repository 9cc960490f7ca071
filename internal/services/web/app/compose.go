package app

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/civicspace/agora/internal/platform/requestctx"
	module "github.com/civicspace/agora/internal/services/web/module"
	"github.com/civicspace/agora/internal/services/web/platform/authsession"
	"github.com/civicspace/agora/internal/services/web/platform/httpx"
	webi18n "github.com/civicspace/agora/internal/services/web/platform/i18n"
	"github.com/civicspace/agora/internal/services/web/platform/pagerender"
	"github.com/civicspace/agora/internal/services/web/platform/requestmeta"
	"github.com/civicspace/agora/internal/services/web/platform/weberror"
	"github.com/civicspace/agora/internal/services/web/routepath"
	"github.com/go-chi/chi/v5"
)

// Class groups routes by who may reach them.
type Class string

const (
	ClassPublic   Class = "public"
	ClassGated    Class = "gated"
	ClassCatchAll Class = "catch-all"
)

// RouteInfo is one row of the route table.
type RouteInfo struct {
	Method  string
	Pattern string
	Class   Class
	PageKey string
	Module  string
}

// ComposeInput carries module groups and shared composition contracts.
type ComposeInput struct {
	PublicModules       []module.Module
	GatedModules        []module.Module
	Chrome              pagerender.Chrome
	RequestSchemePolicy requestmeta.SchemePolicy
}

// Composition is the composed route table.
type Composition struct {
	Handler http.Handler
	Routes  []RouteInfo
}

// Compose builds the route table from module groups. Every unmatched path
// redirects to the home page.
func Compose(input ComposeInput) (Composition, error) {
	root := chi.NewRouter()
	seen := make(map[string]string)
	var routes []RouteInfo

	mount := func(group []module.Module, class Class, wrap func(http.Handler) http.Handler) error {
		for _, feature := range group {
			if feature == nil {
				return fmt.Errorf("%s module is nil", class)
			}
			mounted, err := resolveMount(feature)
			if err != nil {
				return err
			}
			for _, route := range mounted.Routes {
				key := route.Method + " " + route.Pattern
				if previous, ok := seen[key]; ok {
					return fmt.Errorf("module %q duplicates route %q owned by module %q", feature.ID(), key, previous)
				}
				seen[key] = feature.ID()
				root.Method(route.Method, route.Pattern, wrap(route.Handler))
				routes = append(routes, RouteInfo{
					Method:  route.Method,
					Pattern: route.Pattern,
					Class:   class,
					PageKey: route.PageKey,
					Module:  feature.ID(),
				})
			}
		}
		return nil
	}

	sameOrigin := requireCookieSessionSameOrigin(input.RequestSchemePolicy)
	if err := mount(input.PublicModules, ClassPublic, sameOrigin); err != nil {
		return Composition{}, err
	}
	gated := func(next http.Handler) http.Handler {
		return requireAuth(input.Chrome)(sameOrigin(next))
	}
	if err := mount(input.GatedModules, ClassGated, gated); err != nil {
		return Composition{}, err
	}

	root.NotFound(redirectHome)
	routes = append(routes, RouteInfo{Method: "*", Pattern: routepath.CatchAll, Class: ClassCatchAll, PageKey: "redirect " + routepath.Root})
	sortRoutes(routes)
	return Composition{Handler: root, Routes: routes}, nil
}

func resolveMount(feature module.Module) (module.Mount, error) {
	mounted, err := feature.Mount()
	if err != nil {
		return module.Mount{}, fmt.Errorf("mount module %q: %w", feature.ID(), err)
	}
	if len(mounted.Routes) == 0 {
		return module.Mount{}, fmt.Errorf("mount module %q: routes are required", feature.ID())
	}
	for _, route := range mounted.Routes {
		if err := validatePattern(route.Pattern); err != nil {
			return module.Mount{}, fmt.Errorf("mount module %q has invalid pattern %q: %w", feature.ID(), route.Pattern, err)
		}
		if strings.TrimSpace(route.Method) == "" {
			return module.Mount{}, fmt.Errorf("mount module %q: method is required for %q", feature.ID(), route.Pattern)
		}
		if route.Handler == nil {
			return module.Mount{}, fmt.Errorf("mount module %q: handler is required for %q", feature.ID(), route.Pattern)
		}
	}
	return mounted, nil
}

func validatePattern(pattern string) error {
	if pattern == "" {
		return fmt.Errorf("pattern is required")
	}
	if strings.TrimSpace(pattern) != pattern {
		return fmt.Errorf("pattern must not include surrounding whitespace")
	}
	if !strings.HasPrefix(pattern, "/") {
		return fmt.Errorf("pattern must begin with /")
	}
	if pattern == routepath.CatchAll {
		return fmt.Errorf("catch-all is reserved")
	}
	return nil
}

func sortRoutes(routes []RouteInfo) {
	sort.SliceStable(routes, func(i, j int) bool {
		if routes[i].Class == ClassCatchAll || routes[j].Class == ClassCatchAll {
			return routes[j].Class == ClassCatchAll && routes[i].Class != ClassCatchAll
		}
		if routes[i].Pattern != routes[j].Pattern {
			return routes[i].Pattern < routes[j].Pattern
		}
		return routes[i].Method < routes[j].Method
	})
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	httpx.WriteRedirect(w, r, routepath.Root)
}

// requireAuth swaps gated content for the signed-out view.
func requireAuth(chrome pagerender.Chrome) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if next == nil {
			return http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := requestctx.PrincipalFromContext(r.Context()); !ok {
				weberror.WriteSignedOut(w, r, chrome, webi18n.ResolveLocalizer(w, r))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func requireCookieSessionSameOrigin(policy requestmeta.SchemePolicy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isMutationMethod(r) || !hasSessionCookie(r) {
				next.ServeHTTP(w, r)
				return
			}
			if !policy.SameOrigin(r) {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isMutationMethod(r *http.Request) bool {
	if r == nil {
		return false
	}
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

func hasSessionCookie(r *http.Request) bool {
	cookie, err := r.Cookie(authsession.CookieName)
	return err == nil && strings.TrimSpace(cookie.Value) != ""
}
