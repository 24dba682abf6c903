package accounts

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"denti-directory/internal/forms"
	"denti-directory/internal/middleware"
	"denti-directory/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, provider auth.Provider) {
	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/signup", signUpHandler(provider))
		ar.Post("/signin", signInHandler(provider))
		ar.Post("/signout", signOutHandler(provider))
		ar.Get("/me", meHandler())
	})
}

type identityResponse struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
}

type sessionResponse struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expiresAt"`
	User      identityResponse `json:"user"`
}

type authErrorResponse struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

type validationResponse struct {
	Errors forms.Errors `json:"errors"`
}

// signUpHandler godoc
// @Summary Crear cuenta
// @Description Registra la cuenta e inicia sesión automáticamente.
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body SignUpForm true "Datos de registro"
// @Success 201 {object} sessionResponse
// @Failure 409 {object} authErrorResponse
// @Failure 422 {object} validationResponse
// @Router /api/auth/signup [post]
func signUpHandler(provider auth.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var f SignUpForm
		if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		creds, errs := ValidateSignUp(f)
		if !errs.Empty() {
			writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Errors: errs})
			return
		}

		sess, err := provider.SignUp(r.Context(), creds.Email, creds.Password, creds.DisplayName)
		if err != nil {
			writeAuthError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toSessionResponse(sess))
	}
}

// signInHandler godoc
// @Summary Iniciar sesión
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body SignInForm true "Credenciales"
// @Success 200 {object} sessionResponse
// @Failure 401 {object} authErrorResponse
// @Failure 429 {object} authErrorResponse
// @Router /api/auth/signin [post]
func signInHandler(provider auth.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var f SignInForm
		if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		creds, errs := ValidateSignIn(f)
		if !errs.Empty() {
			writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Errors: errs})
			return
		}

		sess, err := provider.SignIn(r.Context(), creds.Email, creds.Password)
		if err != nil {
			writeAuthError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toSessionResponse(sess))
	}
}

// signOutHandler revoca el Bearer token. Sin token no hay nada que cerrar.
func signOutHandler(provider auth.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := middleware.BearerToken(r.Header.Get("Authorization"))
		if token != "" {
			if err := provider.SignOut(r.Context(), token); err != nil {
				writeAuthError(w, err)
				return
			}
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func meHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, identityResponse{
			UID:         claims.UserID,
			Email:       claims.Email,
			DisplayName: claims.DisplayName,
		})
	}
}

func toSessionResponse(s auth.Session) sessionResponse {
	return sessionResponse{
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt,
		User: identityResponse{
			UID:         s.Identity.UID,
			Email:       s.Identity.Email,
			DisplayName: s.Identity.DisplayName,
		},
	}
}

func writeAuthError(w http.ResponseWriter, err error) {
	code := auth.CodeOf(err)
	writeJSON(w, statusFor(code), authErrorResponse{Code: string(code), Message: MessageFor(err)})
}

func statusFor(code auth.Code) int {
	switch code {
	case auth.CodeEmailAlreadyInUse:
		return http.StatusConflict
	case auth.CodeWeakPassword, auth.CodeInvalidEmail:
		return http.StatusUnprocessableEntity
	case auth.CodeInvalidCredential, auth.CodeUserNotFound, auth.CodeWrongPassword, auth.CodeInvalidToken:
		return http.StatusUnauthorized
	case auth.CodeTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
