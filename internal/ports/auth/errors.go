package auth

import "errors"

// Code identifica el motivo de un error del proveedor.
type Code string

const (
	CodeEmailAlreadyInUse Code = "auth/email-already-in-use"
	CodeWeakPassword      Code = "auth/weak-password"
	CodeInvalidEmail      Code = "auth/invalid-email"
	CodeInvalidCredential Code = "auth/invalid-credential"
	CodeUserNotFound      Code = "auth/user-not-found"
	CodeWrongPassword     Code = "auth/wrong-password"
	CodeTooManyRequests   Code = "auth/too-many-requests"
	CodeInvalidToken      Code = "auth/invalid-token"
)

type Error struct {
	Code Code
	Err  error
}

func NewError(code Code) *Error {
	return &Error{Code: code}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return string(e.Code) + ": " + e.Err.Error()
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf devuelve el código del primer *Error en la cadena, o "" si no hay.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
