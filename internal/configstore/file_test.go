package configstore

import (
	"context"
	"errors"
	"maps"
	"net/http"
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/MrSnakeDoc/desk/internal/domain"
)

func TestExportImportRoundTrip(t *testing.T) {
	cfg := domain.Empty()
	cfg.Size = domain.SizeMedium
	cfg.Icons["grafana"] = domain.IconRecord{Name: "Grafana", Link: "https://grafana.local", ImageSrc: "icons/pack/grafana.png"}
	cfg.Icons["shortcut_1700000000000"] = domain.IconRecord{Name: "Notes", Link: "#", ImageSrc: domain.DefaultImageSrc}
	cfg.Positions["grafana"] = domain.Position{X: 5, Y: 5}
	cfg.Positions["shortcut_1700000000000"] = domain.Position{X: 5, Y: 100}

	data, err := Export(cfg)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if !strings.Contains(string(data), "\n  \"icons\"") {
		t.Errorf("Export() is not indented with two spaces:\n%s", data)
	}

	got, warnings, err := Import(data)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("Import() warnings = %v, want none", warnings)
	}
	if !reflect.DeepEqual(got, cfg) {
		t.Errorf("Import(Export(cfg)) = %+v, want %+v", got, cfg)
	}
}

func TestImportMissingPositions(t *testing.T) {
	_, _, err := Import([]byte(`{"icons":{},"size":"small"}`))
	var ferr *domain.FormatError
	if !errors.As(err, &ferr) {
		t.Fatalf("Import() error = %v, want FormatError", err)
	}
	if !strings.Contains(ferr.Reason, "positions") {
		t.Errorf("Reason = %q, want it to name positions", ferr.Reason)
	}
}

func TestImportCoercesUnknownSize(t *testing.T) {
	cfg, warnings, err := Import([]byte(`{"icons":{},"positions":{},"size":"huge"}`))
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if cfg.Size != domain.SizeSmall {
		t.Errorf("Size = %v, want small", cfg.Size)
	}
	if len(warnings) != 1 || warnings[0].Field != "size" {
		t.Errorf("warnings = %v, want one size warning", warnings)
	}
}

func TestExportNil(t *testing.T) {
	data, err := Export(nil)
	if err != nil {
		t.Fatalf("Export(nil) error = %v", err)
	}
	if _, _, err := Import(data); err != nil {
		t.Errorf("Import(Export(nil)) error = %v", err)
	}
}

func TestLoadedConfigurationIsImportable(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantIcons []string
	}{
		{
			name:      "id starting with a digit",
			body:      `{"icons":{"1password":{"name":"1Password"}},"positions":{"1password":{"x":5,"y":5}},"size":"small"}`,
			wantIcons: []string{"1password"},
		},
		{
			name:      "id with whitespace is dropped",
			body:      `{"icons":{"bad id":{"name":"Bad"},"good":{"name":"Good"}},"positions":{"bad id":{"x":5,"y":5}},"size":"medium"}`,
			wantIcons: []string{"good"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			})

			loaded, err := c.Load(context.Background())
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			data, err := Export(loaded)
			if err != nil {
				t.Fatalf("Export() error = %v", err)
			}
			imported, _, err := Import(data)
			if err != nil {
				t.Fatalf("Import(Export(Load())) error = %v", err)
			}

			if !reflect.DeepEqual(imported, loaded) {
				t.Errorf("Import(Export(Load())) = %+v, want %+v", imported, loaded)
			}
			if got := slices.Sorted(maps.Keys(imported.Icons)); !slices.Equal(got, tt.wantIcons) {
				t.Errorf("icons = %v, want %v", got, tt.wantIcons)
			}
		})
	}
}
