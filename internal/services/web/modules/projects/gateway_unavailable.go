package projects

import (
	"context"

	"github.com/civicspace/agora/internal/services/web/backend"
	apperrors "github.com/civicspace/agora/internal/services/web/platform/errors"
)

type unavailableGateway struct{}

func errUnavailable() error {
	return apperrors.EK(apperrors.KindUnavailable, "error.backend.unavailable", "projects service is not configured")
}

func (unavailableGateway) ListProjects(context.Context, backend.ListProjectsRequest) (backend.ListProjectsResponse, error) {
	return backend.ListProjectsResponse{}, errUnavailable()
}

func (unavailableGateway) GetProject(context.Context, string) (backend.Project, error) {
	return backend.Project{}, errUnavailable()
}

func (unavailableGateway) ListProjectComments(context.Context, string) ([]backend.Comment, error) {
	return nil, errUnavailable()
}

func (unavailableGateway) CreateComment(context.Context, backend.CommentInput) (backend.Comment, error) {
	return backend.Comment{}, errUnavailable()
}

func (unavailableGateway) HasVoted(context.Context, string) (bool, error) {
	return false, errUnavailable()
}

func (unavailableGateway) Vote(context.Context, string) error {
	return errUnavailable()
}

func (unavailableGateway) RemoveVote(context.Context, string) error {
	return errUnavailable()
}

func (unavailableGateway) CreateDonation(context.Context, backend.DonationInput) (backend.Donation, error) {
	return backend.Donation{}, errUnavailable()
}

func (unavailableGateway) ProjectDonationStats(context.Context, string) (backend.DonationStats, error) {
	return backend.DonationStats{}, errUnavailable()
}

func (unavailableGateway) ListProjectDonations(context.Context, string) ([]backend.Donation, error) {
	return nil, errUnavailable()
}

func (unavailableGateway) ListProjectTimeline(context.Context, string) ([]backend.TimelineItem, error) {
	return nil, errUnavailable()
}

func gatewayHealthy(gateway Gateway) bool {
	if gateway == nil {
		return false
	}
	_, unavailable := gateway.(unavailableGateway)
	return !unavailable
}
