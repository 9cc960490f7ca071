// Package module defines the feature contract used by web composition.
package module

import "net/http"

// Route is one method and pattern served by a module. PageKey names the
// view the route renders and stays blank for actions.
type Route struct {
	Method  string
	Pattern string
	PageKey string
	Handler http.Handler
}

// Mount describes the routes a module contributes to the route table.
type Mount struct {
	Routes []Route
}

// Module declares the minimum contract required by web composition.
type Module interface {
	ID() string
	Mount() (Mount, error)
}

// HealthReporter is an optional interface for modules that can report their
// operational availability. Modules with gateway dependencies implement this
// so the registry can derive service health without centralizing client knowledge.
type HealthReporter interface {
	Healthy() bool
}

// Page builds a GET route rendering a page view.
func Page(pattern string, pageKey string, handler http.HandlerFunc) Route {
	return Route{Method: http.MethodGet, Pattern: pattern, PageKey: pageKey, Handler: handler}
}

// Action builds a route that serves no page of its own.
func Action(method string, pattern string, handler http.HandlerFunc) Route {
	return Route{Method: method, Pattern: pattern, Handler: handler}
}
