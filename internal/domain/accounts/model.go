package accounts

import (
	"strings"
	"time"
)

// User es una cuenta del proveedor de autenticación local.
type User struct {
	ID           string
	Email        string // normalizado con NormalizeEmail
	DisplayName  string
	PasswordHash []byte
	CreatedAt    time.Time
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
