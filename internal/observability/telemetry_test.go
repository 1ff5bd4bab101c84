package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/prometheus/internal/config"
	"github.com/riskibarqy/prometheus/internal/platform/logging"
)

func TestSetup_Disabled(t *testing.T) {
	cfg := config.Config{
		ServiceName:    "prometheus-rankings",
		ServiceVersion: "dev",
		AppEnv:         config.EnvDev,
	}

	shutdown, err := Setup(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("setup telemetry: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown telemetry: %v", err)
	}
}

func TestMetrics_ExposesRequestCounters(t *testing.T) {
	m := NewMetrics("prometheus")
	m.ObserveRequest("/v1/rankings", http.StatusOK, 20*time.Millisecond)
	m.ObserveRequest("/v1/rankings", http.StatusNotFound, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	for _, want := range []string{
		`prometheus_http_requests_total{route="/v1/rankings",status="200"} 1`,
		`prometheus_http_requests_total{route="/v1/rankings",status="404"} 1`,
		`prometheus_http_request_duration_seconds_count{route="/v1/rankings"} 2`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in metrics output", want)
		}
	}
}
