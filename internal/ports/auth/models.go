package auth

import "time"

// Claims representa la información extraída del token.
type Claims struct {
	UserID      string
	Email       string
	DisplayName string
}

// Identity es el usuario autenticado tal como lo expone el proveedor.
// Se copia por valor dentro de los registros (owner/author), nunca se referencia.
type Identity struct {
	UID         string
	Email       string
	DisplayName string
}

func (c Claims) Identity() Identity {
	return Identity{UID: c.UserID, Email: c.Email, DisplayName: c.DisplayName}
}

// Session es el resultado de un sign-up / sign-in exitoso.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Identity  Identity
}
