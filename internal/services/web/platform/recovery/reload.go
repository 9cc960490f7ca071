package recovery

import (
	"net/http"

	"github.com/civicspace/agora/internal/platform/logging"
	"github.com/civicspace/agora/internal/services/web/platform/httpx"
	"github.com/civicspace/agora/internal/services/web/routepath"
	"go.uber.org/zap"
)

// ResetFunc drops one piece of runtime state during a reload.
type ResetFunc func(w http.ResponseWriter, r *http.Request) error

// ReloadHandler serves the recovery view's reload action: every reset runs
// in order and the visitor lands on the home page with a fresh runtime.
func ReloadHandler(resets ...ResetFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			httpx.MethodNotAllowed(http.MethodPost)(w, r)
			return
		}
		logger := logging.FromContext(r.Context())
		for _, reset := range resets {
			if reset == nil {
				continue
			}
			if err := reset(w, r); err != nil {
				logger.Warn("runtime reset failed", zap.Error(err))
			}
		}
		logger.Info("runtime reloaded")
		httpx.WriteRedirect(w, r, routepath.Root)
	})
}
