package home

import (
	module "github.com/civicspace/agora/internal/services/web/module"
	"github.com/civicspace/agora/internal/services/web/routepath"
	webtemplates "github.com/civicspace/agora/internal/services/web/templates"
)

func routes(h handlers) []module.Route {
	return []module.Route{
		module.Page(routepath.Root, webtemplates.PageHome, h.handleIndex),
	}
}
