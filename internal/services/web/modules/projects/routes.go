package projects

import (
	"net/http"

	module "github.com/civicspace/agora/internal/services/web/module"
	"github.com/civicspace/agora/internal/services/web/routepath"
	webtemplates "github.com/civicspace/agora/internal/services/web/templates"
)

func routes(h handlers) []module.Route {
	return []module.Route{
		module.Page(routepath.Projects, webtemplates.PageProjects, h.handleList),
		module.Page(routepath.ProjectPattern, webtemplates.PageProject, h.handleDetail),
		module.Action(http.MethodPost, routepath.ProjectVotePattern, h.handleVote),
		module.Action(http.MethodPost, routepath.ProjectDonatePattern, h.handleDonate),
		module.Action(http.MethodPost, routepath.ProjectCommentPattern, h.handleComment),
	}
}
