package accounts

import (
	"strings"

	"denti-directory/internal/forms"
)

const (
	MinPasswordLength = 6

	msgAllRequired        = "Todos los campos son obligatorios."
	msgSignInRequired     = "El correo electrónico y la contraseña son obligatorios."
	msgInvalidEmail       = "Por favor, introduce un correo electrónico válido."
	msgPasswordTooShort   = "La contraseña debe tener al menos 6 caracteres."
	msgPasswordMismatch   = "Las contraseñas no coinciden."
	msgDisplayNameTooLong = "El nombre no puede superar los 80 caracteres."
	formKey               = "_form"
)

type SignUpForm struct {
	Email           string `form:"email" json:"email" validate:"notblank,emailish"`
	Password        string `form:"password" json:"password" validate:"notblank,min=6"`
	ConfirmPassword string `form:"confirmPassword" json:"confirmPassword" validate:"notblank,eqfield=Password"`
	DisplayName     string `form:"displayName" json:"displayName" validate:"max=80"`
}

type SignInForm struct {
	Email    string `form:"email" json:"email" validate:"notblank,emailish"`
	Password string `form:"password" json:"password" validate:"notblank"`
}

// Credentials es el payload normalizado de sign-up / sign-in.
type Credentials struct {
	Email       string
	Password    string
	DisplayName string
}

var signUpMessages = forms.Messages{
	"email.notblank":           msgAllRequired,
	"email":                    msgInvalidEmail,
	"password.notblank":        msgAllRequired,
	"password.min":             msgPasswordTooShort,
	"confirmPassword.notblank": msgAllRequired,
	"confirmPassword.eqfield":  msgPasswordMismatch,
	"displayName":              msgDisplayNameTooLong,
}

var signInMessages = forms.Messages{
	"email.notblank":    msgSignInRequired,
	"email":             msgInvalidEmail,
	"password.notblank": msgSignInRequired,
}

// ValidateSignUp: email con forma válida, contraseña de 6+ caracteres e igual
// a la confirmación.
func ValidateSignUp(f SignUpForm) (Credentials, forms.Errors) {
	errs := forms.Check(f, signUpMessages)
	if !errs.Empty() {
		summarize(errs, msgAllRequired)
		return Credentials{}, errs
	}
	return Credentials{
		Email:       NormalizeEmail(f.Email),
		Password:    f.Password,
		DisplayName: strings.TrimSpace(f.DisplayName),
	}, errs
}

func ValidateSignIn(f SignInForm) (Credentials, forms.Errors) {
	errs := forms.Check(f, signInMessages)
	if !errs.Empty() {
		summarize(errs, msgSignInRequired)
		return Credentials{}, errs
	}
	return Credentials{Email: NormalizeEmail(f.Email), Password: f.Password}, errs
}

// summarize repite el aviso de campos obligatorios a nivel formulario.
func summarize(errs forms.Errors, required string) {
	for _, msg := range errs {
		if msg == required {
			errs[formKey] = required
			return
		}
	}
}
