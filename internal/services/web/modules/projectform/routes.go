package projectform

import (
	"net/http"

	module "github.com/civicspace/agora/internal/services/web/module"
	"github.com/civicspace/agora/internal/services/web/routepath"
	webtemplates "github.com/civicspace/agora/internal/services/web/templates"
)

func routes(h handlers) []module.Route {
	return []module.Route{
		module.Page(routepath.ProjectCreate, webtemplates.PageProjectCreate, h.handleNew),
		module.Action(http.MethodPost, routepath.ProjectCreate, h.handleCreate),
		module.Page(routepath.ProjectEditPattern, webtemplates.PageProjectEdit, h.handleEditForm),
		module.Action(http.MethodPost, routepath.ProjectEditPattern, h.handleUpdate),
		module.Action(http.MethodPost, routepath.ProjectDeletePattern, h.handleDelete),
	}
}
