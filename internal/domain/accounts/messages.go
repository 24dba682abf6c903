package accounts

import (
	"errors"

	"denti-directory/internal/ports/auth"
)

const msgUnexpected = "Ocurrió un error inesperado. Intenta de nuevo."

var authMessages = map[auth.Code]string{
	auth.CodeUserNotFound:      "Correo electrónico o contraseña incorrectos.",
	auth.CodeWrongPassword:     "Correo electrónico o contraseña incorrectos.",
	auth.CodeInvalidCredential: "Correo electrónico o contraseña incorrectos.",
	auth.CodeInvalidEmail:      "El formato del correo electrónico no es válido.",
	auth.CodeTooManyRequests:   "Demasiados intentos fallidos. Intenta más tarde.",
	auth.CodeEmailAlreadyInUse: "Este correo electrónico ya está registrado. Por favor, intenta con otro o inicia sesión.",
	auth.CodeWeakPassword:      "La contraseña es demasiado débil. Por favor, elige una más segura.",
	auth.CodeInvalidToken:      "Tu sesión expiró. Inicia sesión de nuevo.",
}

// MessageFor traduce un error del proveedor al mensaje que ve el usuario.
func MessageFor(err error) string {
	if err == nil {
		return ""
	}
	if msg, ok := authMessages[auth.CodeOf(err)]; ok {
		return msg
	}
	if errors.Is(err, ErrEmailTaken) {
		return authMessages[auth.CodeEmailAlreadyInUse]
	}
	return msgUnexpected
}
