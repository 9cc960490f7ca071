package search

import (
	"context"

	"github.com/civicspace/agora/internal/services/web/backend"
	apperrors "github.com/civicspace/agora/internal/services/web/platform/errors"
)

type unavailableGateway struct{}

func errUnavailable() error {
	return apperrors.EK(apperrors.KindUnavailable, "error.backend.unavailable", "search service is not configured")
}

func (unavailableGateway) SearchProjects(context.Context, string) ([]backend.Project, error) {
	return nil, errUnavailable()
}

func (unavailableGateway) SearchComments(context.Context, string) ([]backend.Comment, error) {
	return nil, errUnavailable()
}

func gatewayHealthy(gateway Gateway) bool {
	if gateway == nil {
		return false
	}
	_, unavailable := gateway.(unavailableGateway)
	return !unavailable
}
