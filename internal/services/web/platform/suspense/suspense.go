// Package suspense renders page sections behind lazily resolved views. A
// section whose view is not cached yet renders a placeholder that fetches
// the real content from a resolve stream.
package suspense

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/civicspace/agora/internal/services/web/platform/loader"
	"github.com/starfederation/datastar-go/datastar"
)

// Kind selects the placeholder shown while a boundary is pending.
type Kind string

const (
	KindApp       Kind = "app"
	KindPage      Kind = "page"
	KindComponent Kind = "component"
	KindChart     Kind = "chart"
	KindScene     Kind = "scene"
)

// FallbackKey returns the localization key of the kind's placeholder text.
func (k Kind) FallbackKey() string {
	switch k {
	case KindApp, KindPage, KindChart, KindScene:
		return "core.loading." + string(k)
	default:
		return "core.loading.component"
	}
}

// State is the lifecycle of one boundary.
type State int

const (
	Pending State = iota
	SettledOK
	SettledError
)

func (s State) String() string {
	switch s {
	case SettledOK:
		return "settled_ok"
	case SettledError:
		return "settled_error"
	default:
		return "pending"
	}
}

// Boundary is one suspense boundary instance. Each request builds fresh
// boundaries, so a boundary never outlives the render that created it.
type Boundary struct {
	ID         string
	Kind       Kind
	Key        string
	ModuleID   string
	ResolveURL string

	state State
	err   error
}

// Settle moves a boundary out of Pending. A nil err settles it OK.
func (b *Boundary) Settle(err error) {
	if b.state != Pending {
		return
	}
	if err != nil {
		b.state, b.err = SettledError, err
		return
	}
	b.state = SettledOK
}

func (b *Boundary) finish(err error) {
	if err != nil {
		b.state, b.err = SettledError, err
		return
	}
	b.state, b.err = SettledOK, nil
}

// State returns the boundary state.
func (b *Boundary) State() State {
	return b.state
}

// Err returns the settlement error, if any.
func (b *Boundary) Err() error {
	return b.err
}

// Section declares one boundary of a page. Render builds the content from
// the resolved view; it may render nested sections through the scope.
type Section[V any] struct {
	ID     string
	Kind   Kind
	Key    string
	Render func(ctx context.Context, view V, scope *Scope[V]) (templ.Component, error)
}

// Scope renders the sections of one request against one loader.
type Scope[V any] struct {
	loader     *loader.Loader[V]
	sections   map[string]Section[V]
	resolveURL func(sectionID string) string
	fallback   func(Kind) string
}

// NewScope builds a scope. resolveURL maps a section id to its resolve
// stream URL and fallback maps a kind to its placeholder text.
func NewScope[V any](l *loader.Loader[V], sections []Section[V], resolveURL func(string) string, fallback func(Kind) string) *Scope[V] {
	byID := make(map[string]Section[V], len(sections))
	for _, section := range sections {
		byID[section.ID] = section
	}
	if fallback == nil {
		fallback = func(k Kind) string { return k.FallbackKey() }
	}
	return &Scope[V]{loader: l, sections: byID, resolveURL: resolveURL, fallback: fallback}
}

// Has reports whether the scope declares a section.
func (s *Scope[V]) Has(sectionID string) bool {
	_, ok := s.sections[sectionID]
	return ok
}

// Boundary builds the boundary of a section. It starts SettledOK when the
// section's view is already resolved and Pending otherwise.
func (s *Scope[V]) Boundary(sectionID string) (*Boundary, error) {
	section, ok := s.sections[sectionID]
	if !ok {
		return nil, fmt.Errorf("section %q is not declared", sectionID)
	}
	if !s.loader.Has(section.Key) {
		return nil, fmt.Errorf("section %q names unregistered view %q", sectionID, section.Key)
	}
	b := &Boundary{
		ID:       section.ID,
		Kind:     section.Kind,
		Key:      section.Key,
		ModuleID: s.loader.Placeholder(section.Key).ID,
	}
	if s.resolveURL != nil {
		b.ResolveURL = s.resolveURL(section.ID)
	}
	if s.loader.State(section.Key) == loader.Resolved {
		b.Settle(nil)
	}
	return b, nil
}

// Render returns the section content inline when its view is cached and
// the placeholder otherwise. Content errors propagate to the caller.
func (s *Scope[V]) Render(ctx context.Context, sectionID string) (templ.Component, error) {
	b, err := s.Boundary(sectionID)
	if err != nil {
		return nil, err
	}
	if b.State() == Pending {
		return Placeholder(b, s.fallback(b.Kind)), nil
	}
	return s.content(ctx, b)
}

// HTML renders a section to markup for embedding in a parent template.
func (s *Scope[V]) HTML(ctx context.Context, sectionID string) (template.HTML, error) {
	component, err := s.Render(ctx, sectionID)
	if err != nil {
		return "", err
	}
	return templ.ToGoHTML(ctx, component)
}

// Resolve waits for the section's view and renders its content. The
// returned boundary is settled either way.
func (s *Scope[V]) Resolve(ctx context.Context, sectionID string) (*Boundary, templ.Component, error) {
	b, err := s.Boundary(sectionID)
	if err != nil {
		return nil, nil, err
	}
	component, err := s.content(ctx, b)
	return b, component, err
}

func (s *Scope[V]) content(ctx context.Context, b *Boundary) (templ.Component, error) {
	section := s.sections[b.ID]
	view, err := s.loader.Resolve(ctx, section.Key)
	if err != nil {
		b.finish(err)
		return nil, err
	}
	inner, err := section.Render(ctx, view, s)
	b.finish(err)
	if err != nil {
		return nil, err
	}
	return wrap(b, inner), nil
}

// Placeholder renders the pending markup of a boundary. The element fetches
// its resolve stream once it is initialized in the browser.
func Placeholder(b *Boundary, fallback string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		trigger := ""
		if b.ResolveURL != "" {
			trigger = fmt.Sprintf(` data-init="@get('%s')"`, templ.EscapeString(b.ResolveURL))
		}
		_, err := fmt.Fprintf(w,
			`<div id="%s" class="boundary boundary-%s boundary-pending" data-module="%s" aria-busy="true"%s><span class="spinner" aria-hidden="true"></span><span class="boundary-fallback">%s</span></div>`,
			templ.EscapeString(b.ID), templ.EscapeString(string(b.Kind)), templ.EscapeString(b.ModuleID), trigger, templ.EscapeString(fallback),
		)
		return err
	})
}

func wrap(b *Boundary, inner templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<div id="%s" class="boundary boundary-%s" data-module="%s">`,
			templ.EscapeString(b.ID), templ.EscapeString(string(b.Kind)), templ.EscapeString(b.ModuleID)); err != nil {
			return err
		}
		if err := inner.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}

// Stream renders component fully and then patches it into the page over a
// datastar event stream. Rendering completes before anything is written,
// so a render failure leaves the response untouched.
func Stream(w http.ResponseWriter, r *http.Request, component templ.Component) error {
	var buf bytes.Buffer
	if err := component.Render(r.Context(), &buf); err != nil {
		return err
	}
	sse := datastar.NewSSE(w, r)
	return sse.PatchElementTempl(templ.Raw(strings.TrimSpace(buf.String())))
}
