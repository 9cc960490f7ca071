package templates

import (
	"net/http"

	"github.com/civicspace/agora/internal/services/web/routepath"
)

const (
	errorTitleNotFoundKey     = "web.error.title_not_found"
	errorTitleUnavailableKey  = "web.error.title_unavailable"
	errorTitleServerErrKey    = "web.error.title_server_error"
	errorMessageNotFoundKey   = "web.error.message_not_found"
	errorMessageUnavailKey    = "web.error.message_unavailable"
	errorMessageServerErrKey  = "web.error.message_server_error"
	errorTitleForbiddenKey    = "web.error.title_forbidden"
	errorMessageForbiddenKey  = "web.error.message_forbidden"
	errorTitleBadRequestKey   = "web.error.title_bad_request"
	errorMessageBadRequestKey = "web.error.message_bad_request"
)

// NewErrorState builds the inline error notice for a status code. A
// non-empty message replaces the generic explanation.
func NewErrorState(loc Localizer, statusCode int, message string) ErrorState {
	status := normalizeErrorStatus(statusCode)
	titleKey, messageKey := errorKeys(status)
	if message == "" {
		message = T(loc, messageKey)
	}
	return ErrorState{
		Status:  status,
		Title:   T(loc, titleKey),
		Message: message,
		HomeURL: routepath.Root,
	}
}

// ErrorPageTitle returns the browser title for an error page.
func ErrorPageTitle(loc Localizer, statusCode int) string {
	titleKey, _ := errorKeys(normalizeErrorStatus(statusCode))
	return T(loc, titleKey)
}

func errorKeys(status int) (string, string) {
	switch status {
	case http.StatusNotFound:
		return errorTitleNotFoundKey, errorMessageNotFoundKey
	case http.StatusServiceUnavailable:
		return errorTitleUnavailableKey, errorMessageUnavailKey
	case http.StatusForbidden:
		return errorTitleForbiddenKey, errorMessageForbiddenKey
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		return errorTitleBadRequestKey, errorMessageBadRequestKey
	default:
		return errorTitleServerErrKey, errorMessageServerErrKey
	}
}

func normalizeErrorStatus(statusCode int) int {
	if statusCode < 400 || statusCode > 599 {
		return http.StatusInternalServerError
	}
	return statusCode
}
