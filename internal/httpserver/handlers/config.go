package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/MrSnakeDoc/desk/internal/domain"
	"github.com/MrSnakeDoc/desk/internal/httpserver/deps"
	"github.com/MrSnakeDoc/desk/internal/logger"
	"github.com/MrSnakeDoc/desk/internal/metrics"
)

// MaxConfigBytes bounds an uploaded configuration.
const MaxConfigBytes = 1 << 20

const (
	msgNotJSON       = "Request must be JSON"
	msgMissingKeys   = "Missing 'icons', 'positions', or 'size' in request body"
	msgInvalidTypes  = "Invalid data types for 'icons', 'positions', or 'size'"
	msgTooLarge      = "Request body too large"
	msgReadError     = "Database error"
	msgWriteError    = "Database error during update"
	msgUpdateSuccess = "Configuration updated successfully"
)

type messageResponse struct {
	Message string `json:"message"`
}

// GetConfig returns the stored configuration, seeding it on first use.
func GetConfig(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, err := d.Store.Get(r.Context())
		if err != nil {
			d.Logger.Error("failed to read configuration", logger.Error(err))
			writeError(w, d.Logger, http.StatusInternalServerError, msgReadError)
			return
		}
		writeJSON(w, d.Logger, http.StatusOK, cfg)
	}
}

// PutConfig replaces the stored configuration with the request body.
func PutConfig(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "" {
			if mt, _, err := mime.ParseMediaType(ct); err != nil || mt != "application/json" {
				writeError(w, d.Logger, http.StatusBadRequest, msgNotJSON)
				return
			}
		}

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxConfigBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, d.Logger, http.StatusRequestEntityTooLarge, msgTooLarge)
				return
			}
			writeError(w, d.Logger, http.StatusBadRequest, msgNotJSON)
			return
		}

		if !json.Valid(body) {
			writeError(w, d.Logger, http.StatusBadRequest, msgNotJSON)
			return
		}

		cfg, warnings, err := domain.DecodeStrict(body)
		if err != nil {
			d.Logger.Warn("rejected configuration upload", logger.Error(err))
			writeError(w, d.Logger, http.StatusBadRequest, uploadErrorMessage(err))
			return
		}
		for _, warning := range warnings {
			metrics.IncCoercion(warning.Field)
			d.Logger.Warn("uploaded value coerced", logger.String("warning", warning.String()))
		}

		if err := d.Store.Put(r.Context(), cfg); err != nil {
			d.Logger.Error("failed to store configuration", logger.Error(err))
			writeError(w, d.Logger, http.StatusInternalServerError, msgWriteError)
			return
		}

		d.Logger.Info("configuration updated",
			logger.Int("icons", len(cfg.Icons)),
			logger.String("size", string(cfg.Size)))
		writeJSON(w, d.Logger, http.StatusOK, messageResponse{Message: msgUpdateSuccess})
	}
}

// uploadErrorMessage maps a decode failure to the client-facing message.
func uploadErrorMessage(err error) string {
	var ferr *domain.FormatError
	if !errors.As(err, &ferr) {
		return msgNotJSON
	}
	switch {
	case len(ferr.Missing) > 0:
		return msgMissingKeys
	case ferr.Err != nil:
		return msgInvalidTypes
	default:
		return ferr.Error()
	}
}
