package httpapi

import "net/http"

type healthCheckDTO struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// Healthcheck always answers 200; a broken database shows up as status KO.
func (h *Handler) Healthcheck(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthcheck")
	defer span.End()

	check := h.healthService.Check(ctx)
	writeSuccess(ctx, w, http.StatusOK, healthCheckDTO{
		Status:  string(check.Status),
		Message: check.Message,
	})
}
