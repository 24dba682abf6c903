// Package apperr define errores tipados con un mensaje apto para mostrar al usuario.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindFailure      Kind = "failure"
	KindNotFound     Kind = "not_found"
	KindForbidden    Kind = "forbidden"
	KindUnauthorized Kind = "unauthorized"
)

// Error lleva un mensaje legible (Message) y la causa técnica (Err).
// La causa nunca se muestra al usuario, solo se loguea.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Failure envuelve un error del almacenamiento con un mensaje genérico.
func Failure(message string, err error) error {
	return &Error{Kind: KindFailure, Message: message, Err: err}
}

// Message devuelve el mensaje legible de err.
// Si err no es *Error, devuelve fallback.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}

// IsKind reporta si algún *Error en la cadena tiene el kind indicado.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
