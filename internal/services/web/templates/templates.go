// Package templates holds the embedded page views. Each page key parses into
// its own template set on demand, so a view costs nothing until a visitor
// first needs it.
package templates

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/a-h/templ"
	"github.com/civicspace/agora/internal/services/web/platform/funding"
	"github.com/civicspace/agora/internal/services/web/platform/loader"
	"github.com/dustin/go-humanize"
)

//go:embed layout/*.html partials/*.html pages/*.html widgets/*.html
var files embed.FS

// Page and widget keys served by the view loader.
const (
	PageHome          = "page.home"
	PageProjects      = "page.projects"
	PageProject       = "page.project"
	PageProjectCreate = "page.project_create"
	PageProjectEdit   = "page.project_edit"
	PageForum         = "page.forum"
	PageThread        = "page.thread"
	PageSearch        = "page.search"
	PageRegister      = "page.register"
	PageProfile       = "page.profile"
	PageAbout         = "page.about"
	WidgetChartBar    = "widget.chart_bar"
	WidgetScene       = "widget.scene"
)

// EntryContent is the template every page and widget file defines.
const EntryContent = "content"

var viewFiles = map[string]string{
	PageHome:          "pages/home.html",
	PageProjects:      "pages/projects.html",
	PageProject:       "pages/project.html",
	PageProjectCreate: "pages/project_form.html",
	PageProjectEdit:   "pages/project_form.html",
	PageForum:         "pages/forum.html",
	PageThread:        "pages/thread.html",
	PageSearch:        "pages/search.html",
	PageRegister:      "pages/register.html",
	PageProfile:       "pages/profile.html",
	PageAbout:         "pages/about.html",
	WidgetChartBar:    "widgets/chart_bar.html",
	WidgetScene:       "widgets/scene.html",
}

// Localizer translates catalog keys for templates.
type Localizer interface {
	T(key string, args ...any) string
}

// T returns a translated string, or the key itself without a localizer.
func T(loc Localizer, key string, args ...any) string {
	if loc != nil {
		return loc.T(key, args...)
	}
	if len(args) > 0 {
		return fmt.Sprintf(key, args...)
	}
	return key
}

// View is one parsed template set.
type View struct {
	key  string
	tmpl *template.Template
}

// Key returns the page or widget key the view was parsed for.
func (v View) Key() string {
	return v.key
}

// Component renders entry with data. The set is cloned per render so the
// localizer binding never leaks between requests.
func (v View) Component(loc Localizer, entry string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if v.tmpl == nil {
			return fmt.Errorf("view %q is not parsed", v.key)
		}
		clone, err := v.tmpl.Clone()
		if err != nil {
			return fmt.Errorf("clone view %q: %w", v.key, err)
		}
		clone.Funcs(localizedFuncs(loc, time.Now))
		tmpl := clone.Lookup(entry)
		if tmpl == nil {
			return fmt.Errorf("view %q has no template %q", v.key, entry)
		}
		return templ.FromGoHTML(tmpl, data).Render(ctx, w)
	})
}

// Content renders the view's main entry.
func (v View) Content(loc Localizer, data any) templ.Component {
	return v.Component(loc, EntryContent, data)
}

// Parse builds the view of a page or widget key.
func Parse(key string) (View, error) {
	file, ok := viewFiles[key]
	if !ok {
		return View{}, fmt.Errorf("unknown view %q", key)
	}
	tmpl, err := template.New(key).Funcs(baseFuncs()).ParseFS(files, "partials/*.html", file)
	if err != nil {
		return View{}, fmt.Errorf("parse view %q: %w", key, err)
	}
	if tmpl.Lookup(EntryContent) == nil {
		return View{}, fmt.Errorf("view %q does not define %q", key, EntryContent)
	}
	return View{key: key, tmpl: tmpl}, nil
}

// Keys lists every page and widget key in stable order.
func Keys() []string {
	keys := make([]string, 0, len(viewFiles))
	for key := range viewFiles {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Registry returns a loader fetch per view key.
func Registry() map[string]loader.Fetch[View] {
	registry := make(map[string]loader.Fetch[View], len(viewFiles))
	for key := range viewFiles {
		registry[key] = func(ctx context.Context) (View, error) {
			if err := ctx.Err(); err != nil {
				return View{}, err
			}
			return Parse(key)
		}
	}
	return registry
}

var layoutView = sync.OnceValues(func() (View, error) {
	tmpl, err := template.New("layout").Funcs(baseFuncs()).ParseFS(files, "partials/*.html", "layout/*.html")
	if err != nil {
		return View{}, fmt.Errorf("parse layout: %w", err)
	}
	return View{key: "layout", tmpl: tmpl}, nil
})

// Layout returns the application shell and shared state views. It is parsed
// once and kept outside the loader so the recovery view always renders.
func Layout() (View, error) {
	return layoutView()
}

// Layout entries.
const (
	EntryShell         = "shell"
	EntrySignedOut     = "signed_out"
	EntryErrorState    = "error_state"
	EntryRecovery      = "recovery"
	EntryRecoveryPatch = "recovery_patch"
	EntryMain          = "main"
)

func baseFuncs() template.FuncMap {
	funcs := localizedFuncs(nil, time.Now)
	funcs["comma"] = func(v int) string { return humanize.Comma(int64(v)) }
	funcs["amount"] = funding.FormatAmount
	funcs["date"] = func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("02.01.2006")
	}
	funcs["statusKey"] = StatusKey
	funcs["categoryKey"] = CategoryKey
	funcs["milestoneIcon"] = MilestoneIcon
	funcs["truncate"] = Truncate
	funcs["add"] = func(a, b int) int { return a + b }
	funcs["replyForm"] = func(form CommentForm, parentID string) CommentForm {
		form.ParentID = parentID
		return form
	}
	return funcs
}

func localizedFuncs(loc Localizer, now func() time.Time) template.FuncMap {
	return template.FuncMap{
		"t": func(key string, args ...any) string { return T(loc, key, args...) },
		"ago": func(t time.Time) string {
			return RelativeTime(loc, t, now())
		},
	}
}

// RelativeTime renders how long ago t happened. Anything older than a month
// falls back to the calendar date.
func RelativeTime(loc Localizer, t time.Time, now time.Time) string {
	if t.IsZero() {
		return T(loc, "core.time.just_now")
	}
	elapsed := now.Sub(t)
	switch {
	case elapsed < time.Minute:
		return T(loc, "core.time.just_now")
	case elapsed < time.Hour:
		return T(loc, "core.time.minutes_ago", int(elapsed/time.Minute))
	case elapsed < 24*time.Hour:
		return T(loc, "core.time.hours_ago", int(elapsed/time.Hour))
	case elapsed < 30*24*time.Hour:
		return T(loc, "core.time.days_ago", int(elapsed/(24*time.Hour)))
	default:
		return t.Format("02.01.2006")
	}
}

// StatusKey returns the localization key of a project status.
func StatusKey(status string) string {
	status = strings.TrimSpace(status)
	if status == "" {
		status = "planning"
	}
	return "project.status." + status
}

// CategoryKey returns the localization key of a project category.
func CategoryKey(category string) string {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		category = "other"
	}
	return "project.category." + category
}

// MilestoneIcon maps a timeline milestone type to its icon.
func MilestoneIcon(milestone string) string {
	switch milestone {
	case "planning":
		return "📋"
	case "milestone":
		return "🎯"
	case "update":
		return "📊"
	case "completion":
		return "✅"
	default:
		return "💬"
	}
}

// Truncate shortens s to at most n runes, appending "..." when cut.
func Truncate(s string, n int) string {
	runes := []rune(strings.TrimSpace(s))
	if n <= 0 || len(runes) <= n {
		return string(runes)
	}
	return string(runes[:n]) + "..."
}
