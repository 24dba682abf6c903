package auth

import "context"

// Provider es el proveedor de autenticación.
//
// Subscribe registra fn para los cambios de identidad asociados a token y
// entrega de inmediato el estado actual (nil si el token no identifica a nadie).
// La función devuelta cancela la suscripción; llamarla más de una vez es seguro.
type Provider interface {
	SignUp(ctx context.Context, email, password, displayName string) (Session, error)
	SignIn(ctx context.Context, email, password string) (Session, error)
	SignOut(ctx context.Context, token string) error
	Subscribe(token string, fn func(*Identity)) (unsubscribe func())
}
