package forum

import (
	module "github.com/civicspace/agora/internal/services/web/module"
	"github.com/civicspace/agora/internal/services/web/platform/modulehandler"
)

// Module serves the discussion forum and its threads.
type Module struct {
	base    modulehandler.Base
	gateway Gateway
}

// New returns a forum module reading through gateway.
func New(base modulehandler.Base, gateway Gateway) Module {
	return Module{base: base, gateway: gateway}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "forum" }

// Healthy reports whether the module has a live backend gateway.
func (m Module) Healthy() bool {
	return gatewayHealthy(m.gateway)
}

// Mount wires forum route handlers.
func (m Module) Mount() (module.Mount, error) {
	return module.Mount{Routes: routes(newHandlers(newService(m.gateway), m.base))}, nil
}
