package httpserver_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MrSnakeDoc/desk/internal/config"
	"github.com/MrSnakeDoc/desk/internal/configstore"
	"github.com/MrSnakeDoc/desk/internal/desktop"
	"github.com/MrSnakeDoc/desk/internal/domain"
	"github.com/MrSnakeDoc/desk/internal/httpserver"
	"github.com/MrSnakeDoc/desk/internal/httpserver/deps"
	"github.com/MrSnakeDoc/desk/internal/layout"
	"github.com/MrSnakeDoc/desk/internal/logger"
	"github.com/MrSnakeDoc/desk/internal/store"
	"github.com/MrSnakeDoc/desk/internal/store/memory"
)

func newTestServer(t *testing.T, mutate func(d *deps.Deps)) *httptest.Server {
	t.Helper()

	log := logger.NewNop()
	d := deps.Deps{
		Logger:          log,
		StartTime:       time.Now(),
		RateLimitBurst:  100,
		RateLimitPerMin: 600,
		Store:           store.NewService(memory.New(), log),
	}
	if mutate != nil {
		mutate(&d)
	}

	srv := httptest.NewServer(httpserver.NewRouter(&config.Config{RequestTimeout: 5 * time.Second}, log, d))
	t.Cleanup(srv.Close)
	return srv
}

func TestDesktopRoundTrip(t *testing.T) {
	srv := newTestServer(t, nil)
	ctx := context.Background()
	vp := layout.Viewport{Width: 800, Height: 600}

	first := desktop.New(configstore.New(srv.URL, logger.NewNop()), vp, logger.NewNop())
	if err := first.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if got := len(first.Config().Icons); got != 21 {
		t.Fatalf("seeded icons = %d, want 21", got)
	}

	id, err := first.CreateShortcut(ctx, "Wiki", "https://wiki.lan", "icons/wiki.png")
	if err != nil {
		t.Fatalf("CreateShortcut() error = %v", err)
	}
	if _, err := first.ChangeSize(ctx, 1); err != nil {
		t.Fatalf("ChangeSize() error = %v", err)
	}

	second := desktop.New(configstore.New(srv.URL, logger.NewNop()), vp, logger.NewNop())
	if err := second.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	cfg := second.Config()
	if icon, ok := cfg.Icons[id]; !ok || icon.Name != "Wiki" {
		t.Errorf("Icons[%s] = %+v, want Wiki", id, icon)
	}
	if cfg.Size != domain.SizeMedium {
		t.Errorf("Size = %v, want %v", cfg.Size, domain.SizeMedium)
	}
}

func TestConfigWrongContentType(t *testing.T) {
	srv := newTestServer(t, nil)

	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/api/config", nil)
	req.Header.Set("Content-Type", "text/plain")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestOpsEndpointsRestricted(t *testing.T) {
	srv := newTestServer(t, func(d *deps.Deps) {
		d.AllowedCIDRS = []string{"10.0.0.0/8"}
	})

	tests := []struct {
		path string
		want int
	}{
		{path: "/metrics", want: http.StatusForbidden},
		{path: "/readyz", want: http.StatusForbidden},
		{path: "/healthz", want: http.StatusOK},
		{path: "/api/config", want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.path)
			if err != nil {
				t.Fatalf("GET error = %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Errorf("GET %s = %d, want %d", tt.path, resp.StatusCode, tt.want)
			}
		})
	}
}

func TestMetricsExposed(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /metrics = %d, want 200", resp.StatusCode)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, func(d *deps.Deps) {
		d.CORSOrigins = []string{"https://desk.lan"}
	})

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/api/config", nil)
	req.Header.Set("Origin", "https://desk.lan")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("OPTIONS error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want 204", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://desk.lan" {
		t.Errorf("Allow-Origin = %q, want https://desk.lan", got)
	}
}
