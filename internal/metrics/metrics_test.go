package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

// counterValue reads a counter from the registry, 0 when absent.
func counterValue(t *testing.T, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := Registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	metrics:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
					continue metrics
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func TestInstrumentUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Instrument)
	r.Get("/items/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	labels := map[string]string{"method": "GET", "route": "/items/{id}", "status": "418"}
	before := counterValue(t, "desk_http_requests_total", labels)
	for _, id := range []string{"1", "2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/"+id, nil))
	}
	after := counterValue(t, "desk_http_requests_total", labels)

	if after-before != 2 {
		t.Errorf("requests_total delta = %v, want 2", after-before)
	}
}

func TestObserveStore(t *testing.T) {
	okLabels := map[string]string{"backend": "memory", "op": "get", "result": "ok"}
	errLabels := map[string]string{"backend": "memory", "op": "get", "result": "error"}
	okBefore := counterValue(t, "desk_store_operations_total", okLabels)
	errBefore := counterValue(t, "desk_store_operations_total", errLabels)

	ObserveStore("memory", "get", nil, time.Millisecond)
	ObserveStore("memory", "get", errors.New("boom"), time.Millisecond)

	if got := counterValue(t, "desk_store_operations_total", okLabels) - okBefore; got != 1 {
		t.Errorf("ok delta = %v, want 1", got)
	}
	if got := counterValue(t, "desk_store_operations_total", errLabels) - errBefore; got != 1 {
		t.Errorf("error delta = %v, want 1", got)
	}
}

func TestHandlerExposesNamespace(t *testing.T) {
	SetIcons(3)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "desk_config_icons 3") {
		t.Errorf("body does not contain desk_config_icons 3")
	}
}
