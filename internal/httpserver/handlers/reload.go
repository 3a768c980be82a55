package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/desk/internal/httpserver/deps"
	"github.com/MrSnakeDoc/desk/internal/logger"
)

// Reload asks the seed reloader to merge the Homepage file now.
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.ReloadTrigger == nil {
			writeError(w, d.Logger, http.StatusNotFound, "no seed file configured")
			return
		}

		select {
		case d.ReloadTrigger <- struct{}{}:
			d.Logger.Info("manual seed reload triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, d.Logger, http.StatusAccepted, messageResponse{Message: "Reload triggered"})
		default:
			d.Logger.Warn("seed reload already pending",
				logger.String("remote_ip", r.RemoteAddr))
			writeError(w, d.Logger, http.StatusTooManyRequests, "Reload already in progress, please wait")
		}
	}
}
