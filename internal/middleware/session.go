package middleware

import (
	"context"
	"net/http"
	"time"

	"denti-directory/internal/session"
)

// SessionCookie es el nombre de la cookie con el token de sesión web.
const SessionCookie = "denti_session"

// Session resuelve la cookie de sesión a un Holder del registry y lo deja en
// el contexto. Espera como máximo wait a que el proveedor notifique; si no
// llega a tiempo el Holder queda pending y el guard muestra la vista de carga.
func Session(reg *session.Registry, wait time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(SessionCookie)
			if err != nil || c.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			h := reg.Attach(c.Value)
			if h == nil {
				next.ServeHTTP(w, r)
				return
			}

			if wait > 0 {
				ctx, cancel := context.WithTimeout(r.Context(), wait)
				h.WaitReady(ctx)
				cancel()
			}

			// Token que ya no identifica a nadie: se suelta el Holder y la cookie.
			if id, pending := h.Current(); !pending && id == nil {
				reg.Release(c.Value)
				ClearSessionCookie(w, r.TLS != nil)
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(session.WithHolder(r.Context(), h)))
		})
	}
}

func SetSessionCookie(w http.ResponseWriter, token string, expires time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
