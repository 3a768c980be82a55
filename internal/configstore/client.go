// Package configstore synchronizes the desktop configuration with the
// configuration endpoint and converts it to and from export files.
package configstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/MrSnakeDoc/desk/internal/domain"
	"github.com/MrSnakeDoc/desk/internal/logger"
	"github.com/MrSnakeDoc/desk/internal/utils"
)

// ConfigPath is the endpoint serving the configuration.
const ConfigPath = "/api/config"

// maxBody bounds how much of a response is read.
const maxBody = 4 << 20

// Client talks to a desk server. A failed Save is reported once and never
// retried; concurrent writers follow last-write-wins.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client for the server at baseURL (ex: "http://localhost:8080").
func New(baseURL string, log logger.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type saveResponse struct {
	Message string `json:"message"`
}

// Load fetches the configuration. On any failure it returns the empty default
// configuration together with a *domain.TransportError or *domain.FormatError.
func (c *Client) Load(ctx context.Context) (*domain.Configuration, error) {
	cfg, err := c.fetch(ctx)
	if err != nil {
		c.logger.Error("failed to load configuration, using default state", logger.Error(err))
		return domain.Empty(), err
	}
	c.logger.Debug("configuration loaded",
		logger.Int("icons", len(cfg.Icons)),
		logger.String("size", string(cfg.Size)))
	return cfg, nil
}

func (c *Client) fetch(ctx context.Context) (*domain.Configuration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+ConfigPath, http.NoBody)
	if err != nil {
		return nil, &domain.TransportError{Op: "load", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.TransportError{Op: "load", Err: err}
	}
	defer utils.DrainClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.TransportError{Op: "load", Status: resp.StatusCode, Body: readErrorBody(resp.Body)}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, &domain.TransportError{Op: "load", Err: fmt.Errorf("read body: %w", err)}
	}

	cfg, warnings, err := domain.DecodeLenient(data)
	if err != nil {
		return nil, err
	}
	logWarnings(c.logger, "server", warnings)
	return cfg, nil
}

// Save replaces the server-side configuration with cfg. A nil error means the
// server accepted the whole configuration.
func (c *Client) Save(ctx context.Context, cfg *domain.Configuration) error {
	body, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal configuration: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+ConfigPath, bytes.NewReader(body))
	if err != nil {
		return &domain.TransportError{Op: "save", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		terr := &domain.TransportError{Op: "save", Err: err}
		c.logger.Error("failed to save configuration", logger.Error(terr))
		return terr
	}
	defer utils.DrainClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		terr := &domain.TransportError{Op: "save", Status: resp.StatusCode, Body: readErrorBody(resp.Body)}
		c.logger.Error("failed to save configuration", logger.Error(terr))
		return terr
	}

	var result saveResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&result); err != nil {
		// The server already replaced its state; an unreadable acknowledgement is not a failure.
		c.logger.Debug("unreadable save response", logger.Error(err))
		return nil
	}
	c.logger.Debug("configuration saved",
		logger.String("message", result.Message),
		logger.Int("icons", len(cfg.Icons)))
	return nil
}

func readErrorBody(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return "Unknown error"
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "Unknown error"
	}
	return text
}

func logWarnings(log logger.Logger, source string, warnings []domain.ValidationWarning) {
	for _, w := range warnings {
		log.Warn("configuration value coerced",
			logger.String("source", source),
			logger.String("field", w.Field),
			logger.String("value", w.Value),
			logger.String("reason", w.Message))
	}
}
