package home

import (
	"context"

	"github.com/civicspace/agora/internal/services/web/backend"
	apperrors "github.com/civicspace/agora/internal/services/web/platform/errors"
)

type unavailableGateway struct{}

func errUnavailable() error {
	return apperrors.EK(apperrors.KindUnavailable, "error.backend.unavailable", "home service is not configured")
}

func (unavailableGateway) FeaturedProjects(context.Context, int) ([]backend.Project, error) {
	return nil, errUnavailable()
}

func (unavailableGateway) GetStatistics(context.Context) (backend.ProjectStatistics, error) {
	return backend.ProjectStatistics{}, errUnavailable()
}

func (unavailableGateway) RecentTimelineItems(context.Context, int) ([]backend.TimelineItem, error) {
	return nil, errUnavailable()
}

func (unavailableGateway) RecentDonations(context.Context, int) ([]backend.Donation, error) {
	return nil, errUnavailable()
}

func (unavailableGateway) RecentComments(context.Context, int) ([]backend.Comment, error) {
	return nil, errUnavailable()
}

func gatewayHealthy(gateway Gateway) bool {
	if gateway == nil {
		return false
	}
	_, unavailable := gateway.(unavailableGateway)
	return !unavailable
}
