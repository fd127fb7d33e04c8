package httpapi

import (
	"net/http"

	"github.com/riskibarqy/tennis-ranking/internal/platform/logging"
)

type RouterOptions struct {
	SwaggerEnabled     bool
	CORSAllowedOrigins []string

	// MetricsHandler is served on GET /metrics when set.
	MetricsHandler http.Handler
	HTTPMetrics    HTTPMetrics
}

func NewRouter(handler *Handler, verifier TokenVerifier, logger *logging.Logger, opts RouterOptions) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, opts)
	registerPlayerRoutes(mux, handler, verifier)

	return RequestTracing(
		RequestID(
			RequestLogging(logger,
				CORS(opts.CORSAllowedOrigins,
					recoverPanic(logger,
						Metrics(opts.HTTPMetrics, mux))))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.ErrorContext(ctx, "panic recovered", "panic", rec)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
