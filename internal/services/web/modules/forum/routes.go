package forum

import (
	"net/http"

	module "github.com/civicspace/agora/internal/services/web/module"
	"github.com/civicspace/agora/internal/services/web/routepath"
	webtemplates "github.com/civicspace/agora/internal/services/web/templates"
)

func routes(h handlers) []module.Route {
	return []module.Route{
		module.Page(routepath.Forum, webtemplates.PageForum, h.handleList),
		module.Page(routepath.ForumThreadPattern, webtemplates.PageThread, h.handleThread),
		module.Action(http.MethodPost, routepath.ForumReplyPattern, h.handleReply),
	}
}
