package forum

import (
	"context"

	"github.com/civicspace/agora/internal/services/web/backend"
	apperrors "github.com/civicspace/agora/internal/services/web/platform/errors"
)

type unavailableGateway struct{}

func errUnavailable() error {
	return apperrors.EK(apperrors.KindUnavailable, "error.backend.unavailable", "forum service is not configured")
}

func (unavailableGateway) RecentTimelineItems(context.Context, int) ([]backend.TimelineItem, error) {
	return nil, errUnavailable()
}

func (unavailableGateway) ListProjects(context.Context, backend.ListProjectsRequest) (backend.ListProjectsResponse, error) {
	return backend.ListProjectsResponse{}, errUnavailable()
}

func (unavailableGateway) GetTimelineItem(context.Context, string) (backend.TimelineItem, error) {
	return backend.TimelineItem{}, errUnavailable()
}

func (unavailableGateway) GetProject(context.Context, string) (backend.Project, error) {
	return backend.Project{}, errUnavailable()
}

func (unavailableGateway) ListTimelineComments(context.Context, string, string) ([]backend.Comment, error) {
	return nil, errUnavailable()
}

func (unavailableGateway) ListProjectComments(context.Context, string) ([]backend.Comment, error) {
	return nil, errUnavailable()
}

func (unavailableGateway) CreateComment(context.Context, backend.CommentInput) (backend.Comment, error) {
	return backend.Comment{}, errUnavailable()
}

func gatewayHealthy(gateway Gateway) bool {
	if gateway == nil {
		return false
	}
	_, unavailable := gateway.(unavailableGateway)
	return !unavailable
}
