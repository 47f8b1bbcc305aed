package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/cruma-app/cruma/internal/apperr"
	"github.com/cruma-app/cruma/internal/auth"
	"github.com/cruma-app/cruma/internal/metrics"
)

const stateCookie = "oauth_state"

// HandleLogin redirects the browser to the provider's consent page.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	provider, ok := h.service.Providers[chi.URLParam(r, "provider")]
	if !ok {
		renderError(w, apperr.InvalidInput("proveedor desconocido: %s", chi.URLParam(r, "provider")))
		return
	}

	stateBytes := make([]byte, 16)
	if _, err := rand.Read(stateBytes); err != nil {
		renderError(w, err)
		return
	}
	state := hex.EncodeToString(stateBytes)

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   h.service.Config.Sessions.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, provider.AuthURL(state), http.StatusFound)
}

// HandleCallback finishes the OAuth2 dance: code exchange, profile fetch,
// student upsert, session cookie.
func (h *Handler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	provider, ok := h.service.Providers[chi.URLParam(r, "provider")]
	if !ok {
		renderError(w, apperr.InvalidInput("proveedor desconocido: %s", chi.URLParam(r, "provider")))
		return
	}

	stateCk, err := r.Cookie(stateCookie)
	if err != nil || stateCk.Value == "" || stateCk.Value != r.URL.Query().Get("state") {
		renderError(w, apperr.Unauthenticated("estado de OAuth inválido"))
		return
	}
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Value: "", Path: "/", MaxAge: -1})

	code := r.URL.Query().Get("code")
	if code == "" {
		renderError(w, apperr.Unauthenticated("falta el código de autorización"))
		return
	}

	profile, err := provider.FetchProfile(r.Context(), code)
	if err != nil {
		logger.Error.Printf("profile fetch failed for %s: %v", provider.Name, err)
		renderError(w, apperr.Unauthenticated("no se pudo obtener el perfil del proveedor"))
		return
	}

	identity, err := profile.Extract()
	if err != nil {
		logger.Error.Printf("profile extraction failed for %s: %v", provider.Name, err)
		renderError(w, apperr.Unauthenticated("no se pudo obtener el email del usuario"))
		return
	}

	student, created, err := auth.ResolveStudent(h.service.Store, identity)
	if err != nil {
		renderError(w, err)
		return
	}

	sid, err := h.service.Sessions.Create(r.Context(), student.ID, student.Email, identity.Provider)
	if err != nil {
		renderError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.service.Config.Sessions.CookieName,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.service.Config.Sessions.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	metrics.LoginsTotal.WithLabelValues(identity.Provider, boolLabel(created)).Inc()
	logger.Info.Printf("login via %s for %s (new=%v)", identity.Provider, student.Email, created)

	http.Redirect(w, r, h.service.Config.OAuth.SuccessURL, http.StatusFound)
}

// HandleMe returns the logged-in student, re-running the identity upsert so
// the provider set stays in sync even for sessions created elsewhere.
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	sess, err := h.session(r)
	if err != nil {
		renderError(w, err)
		return
	}

	student, _, err := auth.ResolveStudent(h.service.Store, auth.Identity{
		Provider: sess.Provider,
		Email:    sess.Email,
	})
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, student)
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(h.service.Config.Sessions.CookieName)
	if err == nil {
		if err := h.service.Sessions.Delete(r.Context(), cookie.Value); err != nil {
			logger.Error.Printf("failed to delete session: %v", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.service.Config.Sessions.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	renderJSON(w, http.StatusOK, map[string]string{"message": "logout exitoso"})
}

func boolLabel(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
