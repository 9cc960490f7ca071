package profile

import (
	"net/http"

	module "github.com/civicspace/agora/internal/services/web/module"
	"github.com/civicspace/agora/internal/services/web/routepath"
	webtemplates "github.com/civicspace/agora/internal/services/web/templates"
)

func routes(h handlers) []module.Route {
	return []module.Route{
		module.Page(routepath.Profile, webtemplates.PageProfile, h.handleIndex),
		module.Action(http.MethodPost, routepath.ProfileFeaturePattern, h.handleFeature),
	}
}
