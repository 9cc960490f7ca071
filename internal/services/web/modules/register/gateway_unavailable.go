package register

import (
	"context"

	"github.com/civicspace/agora/internal/services/web/backend"
	apperrors "github.com/civicspace/agora/internal/services/web/platform/errors"
)

type unavailableGateway struct{}

func errUnavailable() error {
	return apperrors.EK(apperrors.KindUnavailable, "error.backend.unavailable", "registration service is not configured")
}

func (unavailableGateway) CheckUsername(context.Context, string) (bool, error) {
	return false, errUnavailable()
}

func (unavailableGateway) CheckEmail(context.Context, string) (bool, error) {
	return false, errUnavailable()
}

func (unavailableGateway) ValidatePassword(context.Context, string) (backend.PasswordCheck, error) {
	return backend.PasswordCheck{}, errUnavailable()
}

func (unavailableGateway) Register(context.Context, backend.RegisterInput) (backend.Profile, error) {
	return backend.Profile{}, errUnavailable()
}

func gatewayHealthy(gateway Gateway) bool {
	if gateway == nil {
		return false
	}
	_, unavailable := gateway.(unavailableGateway)
	return !unavailable
}
