package web

import (
	"net/http"

	"denti-directory/internal/domain/accounts"
	"denti-directory/internal/forms"
	"denti-directory/internal/middleware"
	"denti-directory/internal/ports/auth"
)

type loginPage struct {
	Errors forms.Errors
	From   string
	Email  string
}

type signUpPage struct {
	Errors      forms.Errors
	Email       string
	DisplayName string
}

func (h *Handler) loginForm(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	if currentUser(r) != nil {
		http.Redirect(w, r, middleware.SafeReturnPath(from, "/"), http.StatusSeeOther)
		return
	}
	h.render(w, r, http.StatusOK, "login", "Iniciar sesión", loginPage{From: from})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	f := accounts.SignInForm{
		Email:    r.PostForm.Get("email"),
		Password: r.PostForm.Get("password"),
	}
	page := loginPage{From: r.PostForm.Get("from"), Email: f.Email}

	creds, errs := accounts.ValidateSignIn(f)
	if !errs.Empty() {
		page.Errors = errs
		h.render(w, r, http.StatusUnprocessableEntity, "login", "Iniciar sesión", page)
		return
	}

	s, err := h.provider.SignIn(r.Context(), creds.Email, creds.Password)
	if err != nil {
		h.log.Info("web sign-in rejected", map[string]any{"code": string(auth.CodeOf(err))})
		page.Errors = forms.Errors{"_form": accounts.MessageFor(err)}
		h.render(w, r, http.StatusUnauthorized, "login", "Iniciar sesión", page)
		return
	}

	h.startSession(w, r, s)
	redirect(w, r, middleware.SafeReturnPath(page.From, "/"), noticeSignedIn)
}

func (h *Handler) signUpForm(w http.ResponseWriter, r *http.Request) {
	if currentUser(r) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.render(w, r, http.StatusOK, "signup", "Crear cuenta", signUpPage{})
}

func (h *Handler) signUp(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	f := accounts.SignUpForm{
		Email:           r.PostForm.Get("email"),
		Password:        r.PostForm.Get("password"),
		ConfirmPassword: r.PostForm.Get("confirmPassword"),
		DisplayName:     r.PostForm.Get("displayName"),
	}
	page := signUpPage{Email: f.Email, DisplayName: f.DisplayName}

	creds, errs := accounts.ValidateSignUp(f)
	if !errs.Empty() {
		page.Errors = errs
		h.render(w, r, http.StatusUnprocessableEntity, "signup", "Crear cuenta", page)
		return
	}

	s, err := h.provider.SignUp(r.Context(), creds.Email, creds.Password, creds.DisplayName)
	if err != nil {
		page.Errors = forms.Errors{"_form": accounts.MessageFor(err)}
		h.render(w, r, http.StatusUnprocessableEntity, "signup", "Crear cuenta", page)
		return
	}

	h.startSession(w, r, s)
	redirect(w, r, "/", noticeSignedUp)
}

// logout cierra la sesión en el proveedor y suelta el Holder del registry
// sin esperar la notificación. Si SignOut falla la sesión sigue abierta.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(middleware.SessionCookie)
	if err == nil && c.Value != "" {
		var signOutErr error
		if holder, ok := h.registry.Lookup(c.Value); ok {
			signOutErr = holder.SignOut(r.Context())
		} else {
			signOutErr = h.provider.SignOut(r.Context(), c.Value)
		}
		if signOutErr != nil {
			h.log.Warn("web sign-out failed", map[string]any{"err": signOutErr})
			redirect(w, r, "/", noticeActionFailed)
			return
		}
		h.registry.Release(c.Value)
	}

	middleware.ClearSessionCookie(w, h.secureCookie)
	redirect(w, r, "/", noticeSignedOut)
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, s auth.Session) {
	expires := s.ExpiresAt
	if expires.IsZero() {
		expires = h.now().Add(h.sessionTTL)
	}
	middleware.SetSessionCookie(w, s.Token, expires, h.secureCookie)
	h.registry.Attach(s.Token)
}
