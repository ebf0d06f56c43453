package metrics_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Sternrassler/swapi-browser/internal/testutil"
	"github.com/Sternrassler/swapi-browser/pkg/client"
	"github.com/Sternrassler/swapi-browser/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

func TestRegistry(t *testing.T) {
	if metrics.Registry == nil {
		t.Error("Registry should not be nil")
	}

	if metrics.Registry != prometheus.DefaultRegisterer {
		t.Error("Registry should be the default Prometheus registerer")
	}
}

func TestHandler_ExposesClientMetrics(t *testing.T) {
	mock := testutil.NewMockSWAPI()
	defer mock.Close()
	mock.SetCollection("people", testutil.People(3), 0)

	cfg := client.DefaultConfig()
	cfg.BaseURL = mock.URL()
	c, err := client.New(cfg)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	if _, err := c.FetchPeople(context.Background(), 1); err != nil {
		t.Fatalf("FetchPeople failed: %v", err)
	}

	w := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	resp := w.Result()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	out := string(body)
	for _, name := range []string{"swapi_requests_total", "swapi_request_duration_seconds"} {
		if !strings.Contains(out, name) {
			t.Errorf("Expected metrics output to contain %s", name)
		}
	}
	if !strings.Contains(out, `resource="people",status="200"`) {
		t.Error("Expected a people/200 request sample")
	}
}
