package profile

import (
	"context"

	"github.com/civicspace/agora/internal/services/web/backend"
	apperrors "github.com/civicspace/agora/internal/services/web/platform/errors"
)

type unavailableGateway struct{}

func errUnavailable() error {
	return apperrors.EK(apperrors.KindUnavailable, "error.backend.unavailable", "profile service is not configured")
}

func (unavailableGateway) GetProfile(context.Context, string) (backend.Profile, error) {
	return backend.Profile{}, errUnavailable()
}

func (unavailableGateway) ListUserBadges(context.Context, string) ([]backend.UserBadge, error) {
	return nil, errUnavailable()
}

func (unavailableGateway) SetFeaturedBadge(context.Context, string, string) error {
	return errUnavailable()
}

func (unavailableGateway) ListUserProjects(context.Context, string) ([]backend.Project, error) {
	return nil, errUnavailable()
}

func (unavailableGateway) ListUserVotes(context.Context, string) ([]backend.Vote, error) {
	return nil, errUnavailable()
}

func (unavailableGateway) ListUserDonations(context.Context, string) ([]backend.Donation, error) {
	return nil, errUnavailable()
}

func (unavailableGateway) UserDonationTotal(context.Context, string) (float64, error) {
	return 0, errUnavailable()
}

func (unavailableGateway) ListUserComments(context.Context, string) ([]backend.Comment, error) {
	return nil, errUnavailable()
}

func gatewayHealthy(gateway Gateway) bool {
	if gateway == nil {
		return false
	}
	_, unavailable := gateway.(unavailableGateway)
	return !unavailable
}
