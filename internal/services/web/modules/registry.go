package modules

import (
	module "github.com/civicspace/agora/internal/services/web/module"
	"github.com/civicspace/agora/internal/services/web/modules/about"
	"github.com/civicspace/agora/internal/services/web/modules/forum"
	"github.com/civicspace/agora/internal/services/web/modules/home"
	"github.com/civicspace/agora/internal/services/web/modules/profile"
	"github.com/civicspace/agora/internal/services/web/modules/projectform"
	"github.com/civicspace/agora/internal/services/web/modules/projects"
	"github.com/civicspace/agora/internal/services/web/modules/register"
	"github.com/civicspace/agora/internal/services/web/modules/search"
)

// DefaultPublicModules returns the modules every visitor can reach.
func DefaultPublicModules(deps Dependencies) []Module {
	return []Module{
		home.New(deps.Base, home.NewGRPCGateway(deps.Backend)),
		projects.New(deps.Base, projects.NewGRPCGateway(deps.Backend)),
		forum.New(deps.Base, forum.NewGRPCGateway(deps.Backend)),
		search.New(deps.Base, search.NewGRPCGateway(deps.Backend)),
		register.New(deps.Base, register.NewGRPCGateway(deps.Backend)),
		about.New(deps.Base),
	}
}

// DefaultGatedModules returns the modules that require a signed-in visitor.
func DefaultGatedModules(deps Dependencies) []Module {
	return []Module{
		projectform.New(deps.Base, projectform.NewGRPCGateway(deps.Backend)),
		profile.New(deps.Base, profile.NewGRPCGateway(deps.Backend)),
	}
}

// Healthy reports whether every module that depends on the backend has a
// live gateway.
func Healthy(groups ...[]Module) bool {
	for _, group := range groups {
		for _, m := range group {
			reporter, ok := m.(module.HealthReporter)
			if ok && !reporter.Healthy() {
				return false
			}
		}
	}
	return true
}
