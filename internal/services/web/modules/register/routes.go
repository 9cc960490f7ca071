package register

import (
	"net/http"

	module "github.com/civicspace/agora/internal/services/web/module"
	"github.com/civicspace/agora/internal/services/web/routepath"
	webtemplates "github.com/civicspace/agora/internal/services/web/templates"
)

func routes(h handlers) []module.Route {
	return []module.Route{
		module.Page(routepath.Register, webtemplates.PageRegister, h.handleForm),
		module.Action(http.MethodPost, routepath.Register, h.handleSubmit),
		module.Action(http.MethodGet, routepath.RegisterCheck, h.handleCheck),
	}
}
