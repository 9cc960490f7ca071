package projects

import (
	"math"
	"net/url"
	"strings"

	"github.com/civicspace/agora/internal/services/web/backend"
	"github.com/civicspace/agora/internal/services/web/platform/funding"
	webi18n "github.com/civicspace/agora/internal/services/web/platform/i18n"
	webtemplates "github.com/civicspace/agora/internal/services/web/templates"
)

const (
	shareExcerptLength = 100
	sceneFloors        = 5
	sceneFloorHeight   = 14
	sceneBaseOffset    = 60
)

// shareText is the message shared alongside a project link.
func shareText(loc webi18n.Localizer, p backend.Project) string {
	return loc.T("web.share.text", p.Title, webtemplates.Truncate(p.Description, shareExcerptLength))
}

// shareLinks builds the share targets of a project.
func shareLinks(loc webi18n.Localizer, p backend.Project, projectURL string) []webtemplates.ShareLink {
	text := shareText(loc, p)
	body := text + "\n\n" + loc.T("web.share.details", projectURL)
	mail := url.Values{}
	mail.Set("subject", loc.T("web.share.subject", p.Title))
	mail.Set("body", body)
	return []webtemplates.ShareLink{
		{
			Network: "facebook",
			Label:   "web.share.facebook",
			URL:     "https://www.facebook.com/sharer/sharer.php?" + url.Values{"u": {projectURL}}.Encode(),
		},
		{
			Network: "twitter",
			Label:   "web.share.twitter",
			URL:     "https://twitter.com/intent/tweet?" + url.Values{"text": {text}, "url": {projectURL}}.Encode(),
		},
		{
			Network: "whatsapp",
			Label:   "web.share.whatsapp",
			URL:     "https://wa.me/?" + url.Values{"text": {text + "\n" + projectURL}}.Encode(),
		},
		{
			Network: "email",
			Label:   "web.share.email",
			// mailto bodies encode spaces as %20.
			URL: "mailto:?" + strings.ReplaceAll(mail.Encode(), "+", "%20"),
		},
	}
}

// hasScene reports whether a project gets the building preview.
func hasScene(p backend.Project) bool {
	return strings.EqualFold(strings.TrimSpace(p.Category), "Infrastructure")
}

// newScene stacks the building floors bottom up and lights one floor per
// fifth of the budget raised.
func newScene(p backend.Project) webtemplates.Scene {
	progress := funding.View(p)
	floors := make([]int, sceneFloors)
	for i := range floors {
		floors[i] = sceneBaseOffset - i*sceneFloorHeight
	}
	lit := int(math.Floor(progress.Percentage / 100 * sceneFloors))
	return webtemplates.Scene{
		Title:    p.Title,
		Floors:   floors,
		Progress: progress.Percent,
		Lit:      lit,
	}
}
