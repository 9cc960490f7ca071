// Package routepath stores canonical HTTP paths for web modules.
package routepath

import (
	"net/url"
	"strings"
)

const (
	Root                  = "/"
	Health                = "/up"
	Reload                = "/reload"
	StaticPrefix          = "/static/"
	Projects              = "/projects"
	ProjectsPrefix        = "/projects/"
	ProjectCreate         = "/projects/create"
	ProjectPattern        = ProjectsPrefix + "{projectID}"
	ProjectEditPattern    = ProjectsPrefix + "{projectID}/edit"
	ProjectDeletePattern  = ProjectsPrefix + "{projectID}/delete"
	ProjectVotePattern    = ProjectsPrefix + "{projectID}/vote"
	ProjectDonatePattern  = ProjectsPrefix + "{projectID}/donate"
	ProjectCommentPattern = ProjectsPrefix + "{projectID}/comments"
	Forum                 = "/forum"
	ForumPrefix           = "/forum/"
	ForumThreadPattern    = ForumPrefix + "{timelineItemID}"
	ForumReplyPattern     = ForumPrefix + "{timelineItemID}/comments"
	About                 = "/about"
	Search                = "/search"
	Register              = "/register"
	RegisterCheck         = "/register/check"
	Profile               = "/profile"
	ProfilePrefix         = "/profile/"
	ProfileFeaturePattern = ProfilePrefix + "badges/{badgeID}/feature"
	CatchAll              = "/*"
)

// Query parameters shared across pages.
const (
	SearchQueryKey = "q"
	CategoryKey    = "category"
	SortKey        = "sort"
	PageTokenKey   = "page_token"
	ResolveKey     = "_resolve"
	NavigationKey  = "_nav"
)

// ProjectDiscussionPrefix marks forum ids that stand for a whole project.
const ProjectDiscussionPrefix = "project-"

// Project returns the project detail route.
func Project(projectID string) string {
	return ProjectsPrefix + escapeSegment(projectID)
}

// ProjectEdit returns the project edit route.
func ProjectEdit(projectID string) string {
	return Project(projectID) + "/edit"
}

// ProjectDelete returns the project delete route.
func ProjectDelete(projectID string) string {
	return Project(projectID) + "/delete"
}

// ProjectVote returns the vote toggle route.
func ProjectVote(projectID string) string {
	return Project(projectID) + "/vote"
}

// ProjectDonate returns the donation route.
func ProjectDonate(projectID string) string {
	return Project(projectID) + "/donate"
}

// ProjectComments returns the project comment route.
func ProjectComments(projectID string) string {
	return Project(projectID) + "/comments"
}

// ForumThread returns a discussion route.
func ForumThread(itemID string) string {
	return ForumPrefix + escapeSegment(itemID)
}

// ForumReply returns the reply route of a discussion.
func ForumReply(itemID string) string {
	return ForumThread(itemID) + "/comments"
}

// ProjectDiscussion returns the forum discussion of a whole project.
func ProjectDiscussion(projectID string) string {
	return ForumThread(ProjectDiscussionPrefix + strings.TrimSpace(projectID))
}

// ProjectIDFromDiscussion reports the project id behind a project
// discussion id.
func ProjectIDFromDiscussion(itemID string) (string, bool) {
	projectID, ok := strings.CutPrefix(strings.TrimSpace(itemID), ProjectDiscussionPrefix)
	if !ok || projectID == "" {
		return "", false
	}
	return projectID, true
}

// ProfileFeatureBadge returns the route that features one badge.
func ProfileFeatureBadge(badgeID string) string {
	return ProfilePrefix + "badges/" + escapeSegment(badgeID) + "/feature"
}

// ProjectsFiltered returns the project listing with filters applied.
func ProjectsFiltered(category string, sort string) string {
	query := url.Values{}
	if category = strings.TrimSpace(category); category != "" {
		query.Set(CategoryKey, category)
	}
	if sort = strings.TrimSpace(sort); sort != "" {
		query.Set(SortKey, sort)
	}
	return withQuery(Projects, query)
}

// ProjectsPage returns one page of the filtered project listing.
func ProjectsPage(category string, sort string, pageToken string) string {
	target := ProjectsFiltered(category, sort)
	if pageToken = strings.TrimSpace(pageToken); pageToken == "" {
		return target
	}
	separator := "?"
	if strings.Contains(target, "?") {
		separator = "&"
	}
	return target + separator + url.Values{PageTokenKey: {pageToken}}.Encode()
}

// ForumSorted returns the forum with a sort order applied.
func ForumSorted(sort string) string {
	query := url.Values{}
	if sort = strings.TrimSpace(sort); sort != "" {
		query.Set(SortKey, sort)
	}
	return withQuery(Forum, query)
}

// SearchFor returns the search route for a query.
func SearchFor(q string) string {
	query := url.Values{}
	if q = strings.TrimSpace(q); q != "" {
		query.Set(SearchQueryKey, q)
	}
	return withQuery(Search, query)
}

// RegisterCheckUsername returns the live username availability route.
func RegisterCheckUsername(username string) string {
	return withQuery(RegisterCheck, url.Values{"username": {strings.TrimSpace(username)}})
}

// Resolve returns the resolve stream of one page section.
func Resolve(path string, rawQuery string, sectionID string, generation string) string {
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		query = url.Values{}
	}
	query.Del(ResolveKey)
	query.Del(NavigationKey)
	query.Set(ResolveKey, sectionID)
	if generation != "" {
		query.Set(NavigationKey, generation)
	}
	return withQuery(path, query)
}

func withQuery(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}
	return path + "?" + query.Encode()
}

func escapeSegment(raw string) string {
	return url.PathEscape(strings.TrimSpace(raw))
}
