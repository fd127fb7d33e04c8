package httpapi

import (
	"net/http"

	"github.com/riskibarqy/tennis-ranking/internal/domain/user"
)

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, opts RouterOptions) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /healthcheck", handler.Healthcheck)
	if opts.MetricsHandler != nil {
		mux.Handle("GET /metrics", opts.MetricsHandler)
	}
	if !opts.SwaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPlayerRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	reader := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(verifier, RequireRole(h, user.RoleUser))
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(verifier, RequireRole(h, user.RoleAdmin))
	}

	mux.Handle("GET /players", reader(handler.ListPlayers))
	mux.Handle("GET /players/{lastName}", reader(handler.GetPlayer))
	mux.Handle("POST /players", admin(handler.CreatePlayer))
	mux.Handle("PUT /players", admin(handler.UpdatePlayer))
	mux.Handle("DELETE /players/{lastName}", admin(handler.DeletePlayer))
}
