package middleware

import (
	"net/http"
	"net/url"

	"denti-directory/internal/session"
)

// RequireSession protege rutas que necesitan usuario:
// - sesión pending => solo la vista de carga (nunca la ruta ni la redirección)
// - sin identidad  => 303 a loginPath?from=<ruta original>
// - con identidad  => la ruta, sin revisar dueño del registro
func RequireSession(loginPath string, loading http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := session.FromContext(r.Context())
			if h != nil {
				id, pending := h.Current()
				if pending {
					w.Header().Set("Cache-Control", "no-store")
					loading.ServeHTTP(w, r)
					return
				}
				if id != nil {
					next.ServeHTTP(w, r)
					return
				}
			}

			http.Redirect(w, r, LoginRedirect(loginPath, r.URL.RequestURI()), http.StatusSeeOther)
		})
	}
}

// LoginRedirect arma la URL de login recordando la ruta pedida.
func LoginRedirect(loginPath, from string) string {
	if from == "" {
		return loginPath
	}
	return loginPath + "?" + url.Values{"from": {from}}.Encode()
}

// SafeReturnPath acepta solo rutas locales ("/x"), nunca "//host" ni URLs absolutas.
func SafeReturnPath(from, fallback string) string {
	if len(from) == 0 || from[0] != '/' {
		return fallback
	}
	if len(from) > 1 && (from[1] == '/' || from[1] == '\\') {
		return fallback
	}
	return from
}
