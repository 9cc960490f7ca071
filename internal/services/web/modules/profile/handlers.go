package profile

import (
	"context"
	"net/http"

	"github.com/a-h/templ"
	"github.com/civicspace/agora/internal/services/web/backend"
	flashnotice "github.com/civicspace/agora/internal/services/web/platform/flash"
	"github.com/civicspace/agora/internal/services/web/platform/funding"
	"github.com/civicspace/agora/internal/services/web/platform/modulehandler"
	"github.com/civicspace/agora/internal/services/web/platform/suspense"
	"github.com/civicspace/agora/internal/services/web/routepath"
	webtemplates "github.com/civicspace/agora/internal/services/web/templates"
	"github.com/go-chi/chi/v5"
)

type handlers struct {
	modulehandler.Base
	service service
}

func newHandlers(s service, base modulehandler.Base) handlers {
	return handlers{Base: base, service: s}
}

func (h handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	loc := h.Localizer(w, r)
	userID := h.RequestUserID(r)
	h.ServePage(w, r, loc, modulehandler.Page{
		Title: loc.T("web.profile.page_title"),
		Sections: []modulehandler.Section{{
			ID:   modulehandler.MainSection,
			Kind: suspense.KindPage,
			Key:  webtemplates.PageProfile,
			Render: func(ctx context.Context, view webtemplates.View, _ *modulehandler.Scope) (templ.Component, error) {
				s, err := h.service.load(ctx, userID)
				if err != nil {
					return h.InlineError(loc, err), nil
				}
				return view.Content(loc, profilePage(s)), nil
			},
		}},
	})
}

func profilePage(s summary) webtemplates.ProfilePage {
	page := webtemplates.ProfilePage{
		DisplayName:   s.Profile.DisplayName,
		Username:      s.Profile.Username,
		Bio:           s.Profile.Bio,
		Location:      s.Profile.Location,
		MemberSince:   s.Profile.CreatedAt,
		Badges:        make([]webtemplates.BadgeView, 0, len(s.Badges)),
		Projects:      webtemplates.NewProjectCards(s.Projects),
		Votes:         make([]webtemplates.VoteItem, 0, len(s.Votes)),
		Donations:     webtemplates.NewDonationItems(s.Donations),
		DonationTotal: funding.FormatAmount(s.DonationTotal),
		Comments:      webtemplates.NewCommentItems(s.Comments),
	}
	if page.DisplayName == "" {
		page.DisplayName = page.Username
	}
	for _, badge := range s.Badges {
		page.Badges = append(page.Badges, badgeView(badge))
	}
	if featured, ok := s.featured(); ok {
		view := badgeView(featured)
		page.Featured = &view
	}
	for _, vote := range s.Votes {
		page.Votes = append(page.Votes, webtemplates.VoteItem{
			ProjectTitle: vote.ProjectTitle,
			ProjectURL:   routepath.Project(vote.ProjectID),
			CreatedAt:    vote.CreatedAt,
		})
	}
	return page
}

func badgeView(b backend.UserBadge) webtemplates.BadgeView {
	return webtemplates.BadgeView{
		ID:          b.Badge.ID,
		Name:        b.Badge.Name,
		Description: b.Badge.Description,
		Icon:        b.Badge.Icon,
		Color:       b.Badge.Color,
		Featured:    b.IsFeatured,
		FeatureURL:  routepath.ProfileFeatureBadge(b.Badge.ID),
		EarnedAt:    b.EarnedAt,
	}
}

func (h handlers) handleFeature(w http.ResponseWriter, r *http.Request) {
	if err := h.service.feature(r.Context(), h.RequestUserID(r), chi.URLParam(r, "badgeID")); err != nil {
		h.RedirectWithError(w, r, routepath.Profile, err)
		return
	}
	h.RedirectWithNotice(w, r, routepath.Profile, flashnotice.NoticeSuccess("web.notice.badge_featured"))
}
