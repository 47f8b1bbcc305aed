package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/cruma-app/cruma/internal/app"
	"github.com/cruma-app/cruma/internal/apperr"
	"github.com/cruma-app/cruma/internal/metrics"
)

type Handler struct {
	service *app.Service
}

func NewHandler(service *app.Service) *Handler {
	return &Handler{service: service}
}

func renderJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error.Printf("Failed to encode response: %v", err)
	}
}

// renderError surfaces taxonomy errors verbatim and hides everything else
// behind a generic message, logging the cause.
func renderError(w http.ResponseWriter, err error) {
	status := apperr.HTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error.Printf("internal error: %v", err)
		message = "error interno del servidor"
	}
	renderJSON(w, status, map[string]string{"error": message})
}

// session resolves the request's cookie session, or fails Unauthenticated.
func (h *Handler) session(r *http.Request) (*app.Session, error) {
	cookie, err := r.Cookie(h.service.Config.Sessions.CookieName)
	if err != nil {
		return nil, apperr.Unauthenticated("no autenticado")
	}

	sess, err := h.service.Sessions.Get(r.Context(), cookie.Value)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, apperr.Unauthenticated("sesión expirada")
	}
	return sess, nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, apperr.InvalidInput("id inválido: %s", chi.URLParam(r, name))
	}
	return id, nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Metrics records per-route request durations.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		pattern := chi.RouteContext(r.Context()).RoutePattern()
		if pattern == "" {
			pattern = r.URL.Path
		}
		metrics.APIRequestDuration.WithLabelValues(
			pattern,
			r.Method,
			strconv.Itoa(rec.status),
		).Observe(time.Since(start).Seconds())
	})
}
