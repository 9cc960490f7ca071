package about

import (
	module "github.com/civicspace/agora/internal/services/web/module"
	"github.com/civicspace/agora/internal/services/web/platform/modulehandler"
)

// Module serves the static about page.
type Module struct {
	base modulehandler.Base
}

// New returns an about module.
func New(base modulehandler.Base) Module {
	return Module{base: base}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "about" }

// Mount wires the about route.
func (m Module) Mount() (module.Mount, error) {
	return module.Mount{Routes: routes(newHandlers(m.base))}, nil
}
