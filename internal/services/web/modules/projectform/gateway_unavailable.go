package projectform

import (
	"context"

	"github.com/civicspace/agora/internal/services/web/backend"
	apperrors "github.com/civicspace/agora/internal/services/web/platform/errors"
)

type unavailableGateway struct{}

func errUnavailable() error {
	return apperrors.EK(apperrors.KindUnavailable, "error.backend.unavailable", "project form service is not configured")
}

func (unavailableGateway) GetProject(context.Context, string) (backend.Project, error) {
	return backend.Project{}, errUnavailable()
}

func (unavailableGateway) CreateProject(context.Context, backend.ProjectInput) (backend.Project, error) {
	return backend.Project{}, errUnavailable()
}

func (unavailableGateway) UpdateProject(context.Context, string, backend.ProjectInput) (backend.Project, error) {
	return backend.Project{}, errUnavailable()
}

func (unavailableGateway) DeleteProject(context.Context, string) error {
	return errUnavailable()
}

func gatewayHealthy(gateway Gateway) bool {
	if gateway == nil {
		return false
	}
	_, unavailable := gateway.(unavailableGateway)
	return !unavailable
}
