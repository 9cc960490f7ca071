package profile

import (
	"context"
	"strings"

	"github.com/civicspace/agora/internal/services/web/backend"
	apperrors "github.com/civicspace/agora/internal/services/web/platform/errors"
	"golang.org/x/sync/errgroup"
)

// Gateway reads a user's profile and activity and features badges.
type Gateway interface {
	GetProfile(ctx context.Context, userID string) (backend.Profile, error)
	ListUserBadges(ctx context.Context, userID string) ([]backend.UserBadge, error)
	SetFeaturedBadge(ctx context.Context, userID string, badgeID string) error
	ListUserProjects(ctx context.Context, userID string) ([]backend.Project, error)
	ListUserVotes(ctx context.Context, userID string) ([]backend.Vote, error)
	ListUserDonations(ctx context.Context, userID string) ([]backend.Donation, error)
	UserDonationTotal(ctx context.Context, userID string) (float64, error)
	ListUserComments(ctx context.Context, userID string) ([]backend.Comment, error)
}

type service struct {
	gateway Gateway
}

func newService(gateway Gateway) service {
	if gateway == nil {
		gateway = unavailableGateway{}
	}
	return service{gateway: gateway}
}

// summary is everything the profile page shows.
type summary struct {
	Profile       backend.Profile
	Badges        []backend.UserBadge
	Projects      []backend.Project
	Votes         []backend.Vote
	Donations     []backend.Donation
	DonationTotal float64
	Comments      []backend.Comment
}

// featured returns the featured badge, if any.
func (s summary) featured() (backend.UserBadge, bool) {
	for _, badge := range s.Badges {
		if badge.IsFeatured {
			return badge, true
		}
	}
	return backend.UserBadge{}, false
}

func (s service) load(ctx context.Context, userID string) (summary, error) {
	if strings.TrimSpace(userID) == "" {
		return summary{}, apperrors.EK(apperrors.KindUnauthorized, "error.auth.required", "profile requires a signed-in user")
	}
	var out summary
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		out.Profile, err = s.gateway.GetProfile(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		out.Badges, err = s.gateway.ListUserBadges(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		out.Projects, err = s.gateway.ListUserProjects(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		out.Votes, err = s.gateway.ListUserVotes(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		out.Donations, err = s.gateway.ListUserDonations(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		out.DonationTotal, err = s.gateway.UserDonationTotal(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		out.Comments, err = s.gateway.ListUserComments(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return summary{}, err
	}
	return out, nil
}

// feature marks an earned badge as featured. The backend clears the
// previous featured badge.
func (s service) feature(ctx context.Context, userID string, badgeID string) error {
	badgeID = strings.TrimSpace(badgeID)
	badges, err := s.gateway.ListUserBadges(ctx, userID)
	if err != nil {
		return err
	}
	for _, badge := range badges {
		if badge.Badge.ID == badgeID {
			return s.gateway.SetFeaturedBadge(ctx, userID, badgeID)
		}
	}
	return apperrors.EK(apperrors.KindNotFound, "error.badge.not_found", "badge is not earned")
}
