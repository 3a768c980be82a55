package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/desk/internal/httpserver/deps"
)

const timeLayout = "2006-01-02 15:04:05"

type componentStatus struct {
	OK         bool   `json:"ok"`
	Backend    string `json:"backend,omitempty"`
	LastWrite  string `json:"last_write,omitempty"`
	File       string `json:"file,omitempty"`
	Services   *int   `json:"services_loaded,omitempty"`
	LastReload string `json:"last_reload,omitempty"`
	Mode       string `json:"mode,omitempty"`
	Error      string `json:"error,omitempty"`
}

type infraResponse struct {
	Status     string                     `json:"status"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports the state of the storage backend and the seed source.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		components := map[string]componentStatus{
			"storage": storageStatus(r.Context(), d),
			"seed":    seedStatus(d),
		}
		writeJSON(w, d.Logger, http.StatusOK, infraResponse{
			Status:     overallStatus(components),
			Components: components,
		})
	}
}

// overallStatus is "critical" without storage and "degraded" when the seed
// file could not be merged yet.
func overallStatus(components map[string]componentStatus) string {
	if !components["storage"].OK {
		return "critical"
	}
	if !components["seed"].OK {
		return "degraded"
	}
	return "ok"
}

func storageStatus(ctx context.Context, d deps.Deps) componentStatus {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	st := componentStatus{OK: true, Backend: d.Store.Backend(), LastWrite: formatTime(d.Store.LastWrite())}
	if err := d.Store.Ping(ctx); err != nil {
		st.OK = false
		st.Error = err.Error()
	}
	return st
}

func seedStatus(d deps.Deps) componentStatus {
	if d.SeedStatus == nil {
		return componentStatus{OK: true, Mode: "builtin-defaults"}
	}
	s := d.SeedStatus()
	return componentStatus{
		OK:         !s.LastReload.IsZero(),
		Mode:       "homepage",
		File:       s.File,
		Services:   &s.Services,
		LastReload: formatTime(s.LastReload),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Format(timeLayout)
}
