package httpapi

import (
	"net/http"

	"github.com/riskibarqy/prometheus/internal/platform/id"
	"github.com/riskibarqy/prometheus/internal/platform/logging"
)

// MetricsSource is a request observer that can also serve its own scrape
// endpoint.
type MetricsSource interface {
	RequestObserver
	Handler() http.Handler
}

func NewRouter(
	handler *Handler,
	logger *logging.Logger,
	corsAllowedOrigins []string,
	metrics MetricsSource,
) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	route := func(mux *http.ServeMux, pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, instrument(metrics, pattern, fn))
	}

	mux := http.NewServeMux()
	route(mux, "GET /healthz", handler.Healthz)
	route(mux, "GET /v1/rankings", handler.Rankings)
	route(mux, "GET /v1/weights", handler.Weights)
	route(mux, "GET /v1/leagues", handler.Leagues)
	if metrics != nil {
		mux.Handle("GET /metrics", metrics.Handler())
	}

	return RequestTracing(RequestID(id.NewUUIDGenerator(), RequestLogging(logger, CORS(corsAllowedOrigins, recoverPanic(logger, mux)))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec, "request_id", requestIDFromContext(ctx))
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
